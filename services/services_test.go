package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead_scoring/config"
	"lead_scoring/features"
	"lead_scoring/gbdt"
	"lead_scoring/models"
	"lead_scoring/repository"
)

type stubScorer struct {
	score float64
	err   error
	calls int
	last  features.Vector
}

func (s *stubScorer) InitialScore(vec features.Vector) (float64, error) {
	s.calls++
	s.last = vec
	return s.score, s.err
}

func (s *stubScorer) Columns() int { return features.Default.Width() }

type failingStore struct{}

func (failingStore) Append(context.Context, models.LeadRecord) error { return errors.New("disk full") }
func (failingStore) Len() int                                        { return 0 }

func validLead() *models.LeadSubmission {
	return &models.LeadSubmission{
		PhoneNumber:       "+91-9876543210",
		Email:             "a@b.com",
		CreditScore:       720,
		AgeGroup:          "26-35",
		FamilyBackground:  "Married",
		Income:            80000,
		PropertyType:      "Apartment",
		Budget:            5000000,
		PreferredLocation: "Pune",
		Comments:          "Looking to move ASAP, finalizing soon",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(l *models.LeadSubmission)
		field  string
		reason string
	}{
		{"valid", func(l *models.LeadSubmission) {}, "", ""},
		{"boundary low credit", func(l *models.LeadSubmission) { l.CreditScore = 300 }, "", ""},
		{"boundary high credit", func(l *models.LeadSubmission) { l.CreditScore = 850 }, "", ""},
		{"zero income and budget", func(l *models.LeadSubmission) { l.Income, l.Budget = 0, 0 }, "", ""},
		{"email without at", func(l *models.LeadSubmission) { l.Email = "ab.com" }, "email", "Invalid email or credit score"},
		{"credit too low", func(l *models.LeadSubmission) { l.CreditScore = 299 }, "credit_score", "Invalid email or credit score"},
		{"credit too high", func(l *models.LeadSubmission) { l.CreditScore = 851 }, "credit_score", "Invalid email or credit score"},
		{"negative income", func(l *models.LeadSubmission) { l.Income = -1 }, "income", "Income or budget cannot be negative"},
		{"negative budget", func(l *models.LeadSubmission) { l.Budget = -1 }, "budget", "Income or budget cannot be negative"},
		{"unknown age group", func(l *models.LeadSubmission) { l.AgeGroup = "unknown" }, "age_group", `Unknown age_group: "unknown"`},
		{"unknown location", func(l *models.LeadSubmission) { l.PreferredLocation = "Paris" }, "preferred_location", `Unknown preferred_location: "Paris"`},
	}

	v := NewValidator(features.Default, true)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := validLead()
			tt.mutate(lead)
			err := v.Validate(lead)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.reason, verr.Error())
		})
	}
}

func TestValidateLenientAcceptsUnknownCategory(t *testing.T) {
	lead := validLead()
	lead.AgeGroup = "unknown"
	assert.NoError(t, NewValidator(features.Default, false).Validate(lead))
}

func TestRerank(t *testing.T) {
	tests := []struct {
		name     string
		initial  float64
		comments string
		want     float64
	}{
		{"no comments", 50, "", 50},
		{"single positive", 50, "This is URGENT", 60},
		{"two positives", 50, "Looking to move ASAP, finalizing soon", 70},
		{"all positives", 50, "urgent immediate looking to move call me asap finalizing", 100},
		{"single negative", 50, "just exploring options", 40},
		{"positive and negative cancel", 50, "urgent but not now", 50},
		{"order independent", 50, "not now but urgent", 50},
		{"clamp high", 95, "urgent, immediate", 100},
		{"clamp low", 5, "need loan, budget issue", 0},
		{"repeated keyword counts once", 50, "urgent urgent urgent", 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Rerank(tt.initial, tt.comments), 1e-9)
		})
	}
}

func TestRerankStaysInRange(t *testing.T) {
	for _, initial := range []float64{0, 0.01, 37.5, 99.99, 100} {
		for _, c := range []string{"", "urgent immediate finalizing", "not now just exploring budget issue need loan"} {
			got := Rerank(initial, c)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		}
	}
}

func TestLeadServiceScore(t *testing.T) {
	scorer := &stubScorer{score: 63.27123}
	store := repository.NewMemoryLeadStore()
	svc := NewLeadService(NewValidator(features.Default, true), features.Default, scorer, store)

	resp, err := svc.Score(context.Background(), validLead())
	require.NoError(t, err)
	assert.Equal(t, 63.27, resp.InitialScore)
	assert.Equal(t, 83.27, resp.RerankedScore)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, features.Default.Encode(validLead()), scorer.last)

	h := svc.Health()
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, 24, h.ModelColumns)
	assert.Equal(t, 1, h.LeadsRecorded)
}

func TestLeadServiceClampsReranked(t *testing.T) {
	scorer := &stubScorer{score: 92.5}
	svc := NewLeadService(NewValidator(features.Default, true), features.Default, scorer, repository.NewMemoryLeadStore())

	resp, err := svc.Score(context.Background(), validLead())
	require.NoError(t, err)
	assert.Equal(t, 92.5, resp.InitialScore)
	assert.Equal(t, 100.0, resp.RerankedScore)
}

func TestLeadServiceValidationSkipsScoringAndStore(t *testing.T) {
	scorer := &stubScorer{score: 50}
	store := repository.NewMemoryLeadStore()
	svc := NewLeadService(NewValidator(features.Default, true), features.Default, scorer, store)

	lead := validLead()
	lead.Budget = -1
	before := store.Len()
	_, err := svc.Score(context.Background(), lead)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, scorer.calls)
	assert.Equal(t, before, store.Len())
}

func TestLeadServiceLenientUnknownCategory(t *testing.T) {
	scorer := &stubScorer{score: 10}
	svc := NewLeadService(NewValidator(features.Default, false), features.Default, scorer, repository.NewMemoryLeadStore())

	lead := validLead()
	lead.AgeGroup = "unknown"
	lead.Comments = ""
	resp, err := svc.Score(context.Background(), lead)
	require.NoError(t, err)
	assert.Equal(t, 10.0, resp.RerankedScore)
	assert.Equal(t, features.Vector{0, 0, 0, 0}, scorer.last[3:7])
}

func TestLeadServiceDefaultConfigScoresUnknownCategory(t *testing.T) {
	cfg := config.LoadFile("does-not-exist.yaml")
	scorer := &stubScorer{score: 42}
	store := repository.NewMemoryLeadStore()
	svc := NewLeadService(NewValidator(features.Default, cfg.StrictCategories()), features.Default, scorer, store)

	lead := validLead()
	lead.AgeGroup = "unknown"
	lead.PreferredLocation = "Paris"
	resp, err := svc.Score(context.Background(), lead)
	require.NoError(t, err)
	assert.Equal(t, 42.0, resp.InitialScore)
	assert.Equal(t, 62.0, resp.RerankedScore)
	assert.Equal(t, 1, scorer.calls)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, features.Vector{0, 0, 0, 0}, scorer.last[3:7])
}

func TestLeadServiceErrors(t *testing.T) {
	v := NewValidator(features.Default, true)

	svc := NewLeadService(v, features.Default, &stubScorer{err: errors.New("boom")}, repository.NewMemoryLeadStore())
	_, err := svc.Score(context.Background(), validLead())
	assert.ErrorIs(t, err, ErrScoring)

	svc = NewLeadService(v, features.Default, &stubScorer{score: 1}, failingStore{})
	_, err = svc.Score(context.Background(), validLead())
	assert.ErrorIs(t, err, ErrStore)
}

func schemaArtifact(t *testing.T) *models.ModelArtifact {
	t.Helper()
	// 信用分高于 600 为正样本
	var rows []features.Vector
	var y []int
	for i := 0; i < 40; i++ {
		lead := validLead()
		lead.CreditScore = 300 + i*13
		rows = append(rows, features.Default.Encode(lead))
		if lead.CreditScore > 600 {
			y = append(y, 1)
		} else {
			y = append(y, 0)
		}
	}
	scaler, err := features.FitStandardScaler(rows)
	require.NoError(t, err)
	x := make([][]float64, len(rows))
	for i, r := range scaler.TransformAll(rows) {
		x[i] = r
	}
	p := gbdt.DefaultParams()
	p.NEstimators = 20
	clf, err := gbdt.Fit(x, y, p)
	require.NoError(t, err)
	return &models.ModelArtifact{Columns: features.Default.Columns(), Scaler: scaler, Model: clf}
}

func TestModelScorer(t *testing.T) {
	s, err := NewModelScorer(schemaArtifact(t), features.Default)
	require.NoError(t, err)
	assert.Equal(t, 24, s.Columns())

	high := validLead()
	high.CreditScore = 800
	low := validLead()
	low.CreditScore = 350

	hi, err := s.InitialScore(features.Default.Encode(high))
	require.NoError(t, err)
	lo, err := s.InitialScore(features.Default.Encode(low))
	require.NoError(t, err)
	assert.Greater(t, hi, 50.0)
	assert.Less(t, lo, 50.0)
	assert.LessOrEqual(t, hi, 100.0)
	assert.GreaterOrEqual(t, lo, 0.0)

	again, err := s.InitialScore(features.Default.Encode(high))
	require.NoError(t, err)
	assert.Equal(t, hi, again)

	_, err = s.InitialScore(features.Vector{1, 2})
	assert.Error(t, err)
}

func TestNewModelScorerColumnMismatch(t *testing.T) {
	a := schemaArtifact(t)
	a.Columns = append([]string(nil), a.Columns...)
	a.Columns[3], a.Columns[4] = a.Columns[4], a.Columns[3]
	_, err := NewModelScorer(a, features.Default)
	assert.Error(t, err)
}
