package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"lead_scoring/config"
	"lead_scoring/features"
	"lead_scoring/gbdt"
	"lead_scoring/logger"
	"lead_scoring/repository"
	"lead_scoring/training"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to the yaml config file (optional, default: config.yaml)",
		Value: "config.yaml",
	}
	sourceFlag = &cli.StringFlag{
		Name:  "source",
		Usage: "Training data source: csv or mysql (optional, overrides training.source)",
	}
	dataFlag = &cli.StringFlag{
		Name:  "data",
		Usage: "Path to the labeled csv file (optional, overrides training.data_path)",
	}
	tableFlag = &cli.StringFlag{
		Name:  "table",
		Usage: "MySQL table with labeled leads (optional, overrides training.table)",
	}
	outputFlag = &cli.StringFlag{
		Name:  "output",
		Usage: "Where to write the model artifact (optional, overrides model.output_path)",
	}
	seedFlag = &cli.IntFlag{
		Name:  "seed",
		Usage: "Random seed for the train/test split (optional, overrides training.seed)",
	}
	testRatioFlag = &cli.FloatFlag{
		Name:  "test-ratio",
		Usage: "Share of rows held out for evaluation (optional, overrides training.test_ratio)",
	}
	estimatorsFlag = &cli.IntFlag{
		Name:  "n-estimators",
		Usage: "Number of boosting rounds (optional, overrides training.n_estimators)",
	}
	learningRateFlag = &cli.FloatFlag{
		Name:  "learning-rate",
		Usage: "Shrinkage applied to each tree (optional, overrides training.learning_rate)",
	}
	maxDepthFlag = &cli.IntFlag{
		Name:  "max-depth",
		Usage: "Maximum depth of each tree (optional, overrides training.max_depth)",
	}
)

func main() {
	cmd := &cli.Command{
		Name:  "train",
		Usage: "Train the lead scoring model and write the model artifact",
		Flags: []cli.Flag{
			configFlag,
			sourceFlag,
			dataFlag,
			tableFlag,
			outputFlag,
			seedFlag,
			testRatioFlag,
			estimatorsFlag,
			learningRateFlag,
			maxDepthFlag,
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatalf("train failed: %v", err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.LoadFile(cmd.String(configFlag.Name))
	applyFlags(cmd, cfg)

	if err := logger.Init(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	leads, err := training.LoadDataset(ctx, cfg)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	logger.Info("训练数据加载完成", "source", cfg.Training.Source, "rows", len(leads))

	res, err := training.Train(leads, features.Default, training.Options{
		Source:    cfg.Training.Source,
		TestRatio: cfg.Training.TestRatio,
		Seed:      cfg.TrainingSeed(),
		Params: gbdt.Params{
			NEstimators:    cfg.Training.NEstimators,
			LearningRate:   cfg.Training.LearningRate,
			MaxDepth:       cfg.Training.MaxDepth,
			MinSamplesLeaf: cfg.Training.MinSamplesLeaf,
		},
	})
	if err != nil {
		return err
	}

	if err := repository.SaveModel(cfg.Model.OutputPath, res.Artifact); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	logger.Info("模型已保存", "path", cfg.Model.OutputPath)

	fmt.Printf("Model accuracy: %.4f\n", res.Accuracy)
	return nil
}

// applyFlags 命令行参数覆盖配置文件
func applyFlags(cmd *cli.Command, cfg *config.Config) {
	if cmd.IsSet(sourceFlag.Name) {
		cfg.Training.Source = cmd.String(sourceFlag.Name)
	}
	if cmd.IsSet(dataFlag.Name) {
		cfg.Training.DataPath = cmd.String(dataFlag.Name)
	}
	if cmd.IsSet(tableFlag.Name) {
		cfg.Training.Table = cmd.String(tableFlag.Name)
	}
	if cmd.IsSet(outputFlag.Name) {
		cfg.Model.OutputPath = cmd.String(outputFlag.Name)
	}
	if cmd.IsSet(seedFlag.Name) {
		seed := cmd.Int(seedFlag.Name)
		cfg.Training.Seed = &seed
	}
	if cmd.IsSet(testRatioFlag.Name) {
		cfg.Training.TestRatio = cmd.Float(testRatioFlag.Name)
	}
	if cmd.IsSet(estimatorsFlag.Name) {
		cfg.Training.NEstimators = int(cmd.Int(estimatorsFlag.Name))
	}
	if cmd.IsSet(learningRateFlag.Name) {
		cfg.Training.LearningRate = cmd.Float(learningRateFlag.Name)
	}
	if cmd.IsSet(maxDepthFlag.Name) {
		cfg.Training.MaxDepth = int(cmd.Int(maxDepthFlag.Name))
	}
}
