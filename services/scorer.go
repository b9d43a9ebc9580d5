package services

import (
	"fmt"

	"lead_scoring/features"
	"lead_scoring/models"
)

// ModelScorer 用加载的模型给特征向量打初始分，只读，可并发使用
type ModelScorer struct {
	artifact *models.ModelArtifact
}

// NewModelScorer 校验模型的列与 schema 完全一致后返回评分器
func NewModelScorer(artifact *models.ModelArtifact, schema features.Schema) (*ModelScorer, error) {
	if !schema.SameColumns(artifact.Columns) {
		return nil, fmt.Errorf("model columns %v do not match feature schema %v",
			artifact.Columns, schema.Columns())
	}
	return &ModelScorer{artifact: artifact}, nil
}

// InitialScore 标准化后预测正类概率，乘以 100 作为初始分
func (s *ModelScorer) InitialScore(vec features.Vector) (float64, error) {
	if len(vec) != len(s.artifact.Columns) {
		return 0, fmt.Errorf("feature vector has %d columns, model expects %d", len(vec), len(s.artifact.Columns))
	}
	scaled := s.artifact.Scaler.Transform(vec)
	proba, err := s.artifact.Model.PredictProba(scaled)
	if err != nil {
		return 0, err
	}
	return proba[1] * 100, nil
}

// Columns 返回模型的特征维度
func (s *ModelScorer) Columns() int {
	return len(s.artifact.Columns)
}
