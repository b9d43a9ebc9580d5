package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"lead_scoring/config"
)

func TestApplyFlags(t *testing.T) {
	cfg := config.LoadFile("does-not-exist.yaml")
	cmd := &cli.Command{
		Name:  "train",
		Flags: []cli.Flag{sourceFlag, dataFlag, outputFlag, seedFlag, estimatorsFlag, learningRateFlag},
		Action: func(_ context.Context, cmd *cli.Command) error {
			applyFlags(cmd, cfg)
			return nil
		},
	}

	err := cmd.Run(context.Background(), []string{"train",
		"--source", "mysql",
		"--data", "leads.csv",
		"--output", "out/model.json",
		"--seed", "7",
		"--n-estimators", "20",
		"--learning-rate", "0.05",
	})
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Training.Source)
	assert.Equal(t, "leads.csv", cfg.Training.DataPath)
	assert.Equal(t, "out/model.json", cfg.Model.OutputPath)
	assert.Equal(t, int64(7), cfg.TrainingSeed())
	assert.Equal(t, 20, cfg.Training.NEstimators)
	assert.Equal(t, 0.05, cfg.Training.LearningRate)
	// 未指定的参数保留配置默认值
	assert.Equal(t, 3, cfg.Training.MaxDepth)
	assert.Equal(t, 0.2, cfg.Training.TestRatio)
}
