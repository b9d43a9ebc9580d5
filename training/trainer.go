package training

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"lead_scoring/features"
	"lead_scoring/gbdt"
	"lead_scoring/logger"
	"lead_scoring/models"
)

// Options 训练参数
type Options struct {
	Source    string
	TestRatio float64
	Seed      int64
	Params    gbdt.Params
}

// Result 训练结果
type Result struct {
	Artifact *models.ModelArtifact
	Accuracy float64
	// MaxTreeDepth 训练出的树的最大深度，不超过 max_depth
	MaxTreeDepth int
	// UnknownValues 按字段统计不在 schema 中的取值个数，这些取值编码为全 0
	UnknownValues map[string]int
}

// TrainTestSplit 用固定种子打乱下标，前 ceil(n*testRatio) 个作为测试集
func TrainTestSplit(n int, testRatio float64, seed int64) (train, test []int, err error) {
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, fmt.Errorf("test ratio must be in (0, 1), got %g", testRatio)
	}
	nTest := int(math.Ceil(testRatio * float64(n)))
	if nTest < 1 || n-nTest < 1 {
		return nil, nil, fmt.Errorf("cannot split %d rows with test ratio %g", n, testRatio)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}

// Train 用共享 schema 编码数据，切分、标准化并训练 GBDT，返回可直接保存的模型
func Train(leads []models.LabeledLead, schema features.Schema, opts Options) (*Result, error) {
	if len(leads) == 0 {
		return nil, errors.New("training: no data")
	}

	rows := make([]features.Vector, len(leads))
	labels := make([]int, len(leads))
	unknown := make(map[string]int)
	for i := range leads {
		rows[i] = schema.Encode(&leads[i])
		labels[i] = leads[i].LeadIntent
		for _, f := range schema.Unknown(&leads[i]) {
			unknown[f]++
		}
	}
	for field, n := range unknown {
		logger.Warn("训练数据中存在 schema 之外的类别取值，按全 0 编码", "field", field, "rows", n)
	}

	trainIdx, testIdx, err := TrainTestSplit(len(rows), opts.TestRatio, opts.Seed)
	if err != nil {
		return nil, err
	}
	trainRows, trainY := pick(rows, labels, trainIdx)
	testRows, testY := pick(rows, labels, testIdx)

	scaler, err := features.FitStandardScaler(trainRows)
	if err != nil {
		return nil, err
	}
	trainX := toMatrix(scaler.TransformAll(trainRows))
	testX := toMatrix(scaler.TransformAll(testRows))

	logger.Info("开始训练模型",
		"train_rows", len(trainX),
		"test_rows", len(testX),
		"n_estimators", opts.Params.NEstimators,
		"learning_rate", opts.Params.LearningRate,
		"max_depth", opts.Params.MaxDepth)
	clf, err := gbdt.Fit(trainX, trainY, opts.Params)
	if err != nil {
		return nil, err
	}
	acc, err := clf.Accuracy(testX, testY)
	if err != nil {
		return nil, err
	}
	logger.Info("模型训练完成",
		"accuracy", acc,
		"trees", len(clf.Trees),
		"max_tree_depth", clf.MaxTreeDepth())

	return &Result{
		Artifact: &models.ModelArtifact{
			Columns: schema.Columns(),
			Scaler:  scaler,
			Model:   clf,
			Meta: models.TrainingMeta{
				TrainedAt: time.Now().UTC(),
				Source:    opts.Source,
				TrainRows: len(trainX),
				TestRows:  len(testX),
				Accuracy:  acc,
				Seed:      opts.Seed,
				Params:    opts.Params,
			},
		},
		Accuracy:      acc,
		MaxTreeDepth:  clf.MaxTreeDepth(),
		UnknownValues: unknown,
	}, nil
}

func pick(rows []features.Vector, labels []int, idx []int) ([]features.Vector, []int) {
	outRows := make([]features.Vector, len(idx))
	outLabels := make([]int, len(idx))
	for i, j := range idx {
		outRows[i] = rows[j]
		outLabels[i] = labels[j]
	}
	return outRows, outLabels
}

func toMatrix(rows []features.Vector) [][]float64 {
	m := make([][]float64, len(rows))
	for i, r := range rows {
		m[i] = r
	}
	return m
}
