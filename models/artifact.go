package models

import (
	"time"

	"lead_scoring/features"
	"lead_scoring/gbdt"
)

// ModelArtifact 是训练任务写出、评分服务加载的模型文件内容。
// Columns 和 Scaler 与模型一起保存，保证线上编码与训练时一致。
type ModelArtifact struct {
	Columns []string                 `json:"columns"`
	Scaler  *features.StandardScaler `json:"scaler"`
	Model   *gbdt.Classifier         `json:"model"`
	Meta    TrainingMeta             `json:"meta"`
}

// TrainingMeta 训练过程信息，仅用于展示
type TrainingMeta struct {
	TrainedAt time.Time   `json:"trained_at"`
	Source    string      `json:"source"`
	TrainRows int         `json:"train_rows"`
	TestRows  int         `json:"test_rows"`
	Accuracy  float64     `json:"accuracy"`
	Seed      int64       `json:"seed"`
	Params    gbdt.Params `json:"params"`
}
