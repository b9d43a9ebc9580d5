package services

import (
	"context"

	"lead_scoring/features"
	"lead_scoring/models"
)

// Scorer 给特征向量打 [0, 100] 的初始分
type Scorer interface {
	InitialScore(vec features.Vector) (float64, error)
	Columns() int
}

// LeadScoringService 线索评分服务接口
type LeadScoringService interface {
	// 校验、评分、重排并记录一条线索
	Score(ctx context.Context, lead *models.LeadSubmission) (models.ScoreResponse, error)

	// 健康检查信息
	Health() models.HealthResponse
}
