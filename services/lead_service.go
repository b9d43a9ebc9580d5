package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lead_scoring/features"
	"lead_scoring/logger"
	"lead_scoring/models"
	"lead_scoring/repository"
	"lead_scoring/utils"
)

var (
	// ErrScoring 模型推理失败
	ErrScoring = errors.New("scoring failed")
	// ErrStore 线索写入失败
	ErrStore = errors.New("store lead failed")
)

// LeadService 串联校验 → 编码 → 模型打分 → 关键词重排 → 记录
type LeadService struct {
	validator *Validator
	schema    features.Schema
	scorer    Scorer
	store     repository.LeadStore
	now       func() time.Time
}

func NewLeadService(validator *Validator, schema features.Schema, scorer Scorer, store repository.LeadStore) *LeadService {
	return &LeadService{
		validator: validator,
		schema:    schema,
		scorer:    scorer,
		store:     store,
		now:       time.Now,
	}
}

// Score 校验失败时返回 *ValidationError，不打分也不写入存储
func (s *LeadService) Score(ctx context.Context, lead *models.LeadSubmission) (models.ScoreResponse, error) {
	if err := s.validator.Validate(lead); err != nil {
		return models.ScoreResponse{}, err
	}

	if unknown := s.schema.Unknown(lead); len(unknown) > 0 {
		logger.Warn("类别取值不在特征 schema 中，按全 0 编码",
			"contact", utils.ContactFingerprint(lead.Email, lead.PhoneNumber),
			"fields", unknown)
	}
	vec := s.schema.Encode(lead)

	initial, err := s.scorer.InitialScore(vec)
	if err != nil {
		return models.ScoreResponse{}, fmt.Errorf("%w: %v", ErrScoring, err)
	}
	reranked := Rerank(initial, lead.Comments)

	resp := models.ScoreResponse{
		InitialScore:  utils.Round2(initial),
		RerankedScore: utils.Round2(reranked),
	}
	record := models.LeadRecord{
		ID:             uuid.NewString(),
		ScoredAt:       s.now(),
		LeadSubmission: *lead,
		ScoreResponse:  resp,
	}
	if err := s.store.Append(ctx, record); err != nil {
		return models.ScoreResponse{}, fmt.Errorf("%w: %v", ErrStore, err)
	}

	logger.Info("线索评分完成",
		"id", record.ID,
		"contact", utils.ContactFingerprint(lead.Email, lead.PhoneNumber),
		"initial_score", resp.InitialScore,
		"reranked_score", resp.RerankedScore)
	return resp, nil
}

// Health 返回模型维度和已记录的线索数
func (s *LeadService) Health() models.HealthResponse {
	return models.HealthResponse{
		Status:        "ok",
		ModelColumns:  s.scorer.Columns(),
		LeadsRecorded: s.store.Len(),
	}
}
