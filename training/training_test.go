package training

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead_scoring/config"
	"lead_scoring/features"
	"lead_scoring/gbdt"
	"lead_scoring/models"
	"lead_scoring/repository"
	"lead_scoring/services"
)

// syntheticCSV 生成一份数据：信用分 > 650 且预算 >= 300 万的线索为正样本
func syntheticCSV(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	pickOne := func(field string) string {
		f, _ := features.Default.Field(field)
		return f.Values[r.Intn(len(f.Values))]
	}

	var buf bytes.Buffer
	buf.WriteString("credit_score,income,budget,age_group,family_background,property_type,preferred_location,lead_intent\n")
	for i := 0; i < n; i++ {
		credit := 300 + r.Intn(551)
		income := 20000 + r.Intn(200000)
		budget := 500000 + r.Intn(9500000)
		intent := 0
		if credit > 650 && budget >= 3000000 {
			intent = 1
		}
		fmt.Fprintf(&buf, "%d,%d,%d,%s,%s,%s,%s,%d\n",
			credit, income, budget,
			pickOne(features.FieldAgeGroup),
			fmt.Sprintf("%q", pickOne(features.FieldFamilyBackground)),
			pickOne(features.FieldPropertyType),
			pickOne(features.FieldPreferredLocation),
			intent)
	}
	return buf.Bytes()
}

func defaultOptions() Options {
	p := gbdt.DefaultParams()
	p.NEstimators = 30
	return Options{Source: "csv", TestRatio: 0.2, Seed: 42, Params: p}
}

func TestReadCSV(t *testing.T) {
	data := "lead_intent, preferred_location,property_type,family_background,age_group,budget,income,credit_score,extra\n" +
		"1,Pune,Apartment,\"Married with Kids\",26-35,5000000,80000.0,720,ignored\n" +
		"false,Delhi,Villa,Single,51+,100,0,300,x\n"

	leads, err := ReadCSV(bytes.NewReader([]byte(data)))
	require.NoError(t, err)
	require.Len(t, leads, 2)

	assert.Equal(t, 720, leads[0].CreditScore)
	assert.Equal(t, 80000, leads[0].Income)
	assert.Equal(t, 5000000, leads[0].Budget)
	assert.Equal(t, "Married with Kids", leads[0].FamilyBackground)
	assert.Equal(t, "Pune", leads[0].PreferredLocation)
	assert.Equal(t, 1, leads[0].LeadIntent)
	assert.Equal(t, 0, leads[1].LeadIntent)
	assert.Equal(t, "51+", leads[1].AgeGroup)
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(bytes.NewReader(nil))
	assert.ErrorContains(t, err, "empty csv")

	_, err = ReadCSV(bytes.NewReader([]byte("credit_score,income\n1,2\n")))
	assert.ErrorContains(t, err, "missing column")

	header := "credit_score,income,budget,age_group,family_background,property_type,preferred_location,lead_intent\n"
	_, err = ReadCSV(bytes.NewReader([]byte(header + "abc,1,1,a,b,c,d,1\n")))
	assert.ErrorContains(t, err, "line 2: credit_score")

	_, err = ReadCSV(bytes.NewReader([]byte(header + "700,1,1,a,b,c,d,maybe\n")))
	assert.ErrorContains(t, err, "lead_intent")
}

func TestTrainTestSplit(t *testing.T) {
	train, test, err := TrainTestSplit(10, 0.2, 42)
	require.NoError(t, err)
	assert.Len(t, train, 8)
	assert.Len(t, test, 2)

	seen := make(map[int]bool)
	for _, i := range append(append([]int(nil), train...), test...) {
		assert.False(t, seen[i])
		seen[i] = true
	}
	assert.Len(t, seen, 10)

	train2, test2, err := TrainTestSplit(10, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)

	// 测试集向上取整
	_, test, err = TrainTestSplit(11, 0.2, 42)
	require.NoError(t, err)
	assert.Len(t, test, 3)

	_, _, err = TrainTestSplit(1, 0.2, 42)
	assert.Error(t, err)
	_, _, err = TrainTestSplit(10, 1.5, 42)
	assert.Error(t, err)
}

func TestTrainEndToEnd(t *testing.T) {
	leads, err := ReadCSV(bytes.NewReader(syntheticCSV(400, 7)))
	require.NoError(t, err)

	positives := 0
	for _, l := range leads {
		positives += l.LeadIntent
	}
	majority := float64(max(positives, len(leads)-positives)) / float64(len(leads))

	res, err := Train(leads, features.Default, defaultOptions())
	require.NoError(t, err)
	assert.Greater(t, res.Accuracy, majority)
	assert.Empty(t, res.UnknownValues)
	assert.Positive(t, res.MaxTreeDepth)
	assert.LessOrEqual(t, res.MaxTreeDepth, 3)

	a := res.Artifact
	assert.Equal(t, features.Default.Columns(), a.Columns)
	assert.Equal(t, 320, a.Meta.TrainRows)
	assert.Equal(t, 80, a.Meta.TestRows)
	assert.Equal(t, int64(42), a.Meta.Seed)

	path := filepath.Join(t.TempDir(), "model", "lead_scoring_model.json")
	require.NoError(t, repository.SaveModel(path, a))
	loaded, err := repository.LoadModel(path)
	require.NoError(t, err)

	scorer, err := services.NewModelScorer(loaded, features.Default)
	require.NoError(t, err)

	strong := &models.LeadSubmission{
		Email: "a@b.com", CreditScore: 800, Income: 150000, Budget: 8000000,
		AgeGroup: "26-35", FamilyBackground: "Married", PropertyType: "Villa", PreferredLocation: "Pune",
	}
	weak := *strong
	weak.CreditScore = 400
	weak.Budget = 1000000

	hi, err := scorer.InitialScore(features.Default.Encode(strong))
	require.NoError(t, err)
	lo, err := scorer.InitialScore(features.Default.Encode(&weak))
	require.NoError(t, err)
	assert.Greater(t, hi, lo)
	assert.GreaterOrEqual(t, lo, 0.0)
	assert.LessOrEqual(t, hi, 100.0)
}

func TestTrainIsReproducible(t *testing.T) {
	leads, err := ReadCSV(bytes.NewReader(syntheticCSV(120, 3)))
	require.NoError(t, err)

	a, err := Train(leads, features.Default, defaultOptions())
	require.NoError(t, err)
	b, err := Train(leads, features.Default, defaultOptions())
	require.NoError(t, err)

	assert.Equal(t, a.Accuracy, b.Accuracy)
	assert.Equal(t, a.Artifact.Model, b.Artifact.Model)
	assert.Equal(t, a.Artifact.Scaler, b.Artifact.Scaler)
}

func TestTrainCountsUnknownValues(t *testing.T) {
	leads, err := ReadCSV(bytes.NewReader(syntheticCSV(50, 5)))
	require.NoError(t, err)
	leads[0].PreferredLocation = "Kolkata"
	leads[1].PreferredLocation = "Lucknow"

	res, err := Train(leads, features.Default, defaultOptions())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{features.FieldPreferredLocation: 2}, res.UnknownValues)
}

func TestTrainErrors(t *testing.T) {
	_, err := Train(nil, features.Default, defaultOptions())
	assert.Error(t, err)
}

func TestLoadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")
	require.NoError(t, os.WriteFile(path, syntheticCSV(10, 1), 0o600))

	cfg := &config.Config{}
	cfg.Training.Source = "csv"
	cfg.Training.DataPath = path
	leads, err := LoadDataset(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, leads, 10)

	cfg.Training.Source = "parquet"
	_, err = LoadDataset(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown training source")

	cfg.Training.Source = "mysql"
	_, err = LoadDataset(context.Background(), cfg)
	assert.ErrorContains(t, err, "dsn is not configured")
}
