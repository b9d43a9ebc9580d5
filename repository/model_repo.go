package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"lead_scoring/models"
)

// SaveModel 将模型写入 path：先写临时文件再 rename，避免服务读到半个文件
func SaveModel(path string, artifact *models.ModelArtifact) error {
	if err := validateArtifact(artifact); err != nil {
		return err
	}
	data, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".model-*.json")
	if err != nil {
		return fmt.Errorf("create temp model file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move model into place: %w", err)
	}
	return nil
}

// LoadModel 读取并校验模型文件
func LoadModel(path string) (*models.ModelArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}
	var artifact models.ModelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	if err := validateArtifact(&artifact); err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return &artifact, nil
}

func validateArtifact(a *models.ModelArtifact) error {
	if a == nil || a.Model == nil {
		return errors.New("artifact has no model")
	}
	if a.Scaler == nil {
		return errors.New("artifact has no scaler")
	}
	if err := a.Model.Validate(); err != nil {
		return err
	}
	width := len(a.Columns)
	if a.Model.NFeatures != width || a.Scaler.Width() != width || len(a.Scaler.Scale) != width {
		return fmt.Errorf("artifact width mismatch: %d columns, model %d, scaler %d",
			width, a.Model.NFeatures, a.Scaler.Width())
	}
	for j, s := range a.Scaler.Scale {
		if s == 0 {
			return fmt.Errorf("artifact scaler has zero scale for column %s", a.Columns[j])
		}
	}
	return nil
}
