package training

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"lead_scoring/config"
	"lead_scoring/db"
	"lead_scoring/features"
	"lead_scoring/models"
	"lead_scoring/repository"
)

const labelColumn = "lead_intent"

var requiredColumns = []string{
	features.FieldCreditScore,
	features.FieldIncome,
	features.FieldBudget,
	features.FieldAgeGroup,
	features.FieldFamilyBackground,
	features.FieldPropertyType,
	features.FieldPreferredLocation,
	labelColumn,
}

// LoadDataset 按 training.source 读取训练数据
func LoadDataset(ctx context.Context, cfg *config.Config) ([]models.LabeledLead, error) {
	switch strings.ToLower(cfg.Training.Source) {
	case "csv":
		return LoadCSV(cfg.Training.DataPath)
	case "mysql":
		conn, err := db.OpenMySQL(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect mysql: %w", err)
		}
		defer conn.Close()
		return repository.ListLabeledLeads(ctx, conn, cfg.Training.Table)
	default:
		return nil, fmt.Errorf("unknown training source %q", cfg.Training.Source)
	}
}

// LoadCSV 读取 CSV 数据文件
func LoadCSV(path string) ([]models.LabeledLead, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	leads, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return leads, nil
}

// ReadCSV 按表头定位列，读取带标签的线索；多余的列被忽略
func ReadCSV(r io.Reader) ([]models.LabeledLead, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty csv")
		}
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var leads []models.LabeledLead
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, err
		}
		l, err := parseRecord(rec, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		leads = append(leads, l)
	}
	return leads, nil
}

func parseRecord(rec []string, index map[string]int) (models.LabeledLead, error) {
	var l models.LabeledLead
	get := func(col string) string { return strings.TrimSpace(rec[index[col]]) }

	var err error
	if l.CreditScore, err = parseInt(get(features.FieldCreditScore)); err != nil {
		return l, fmt.Errorf("credit_score: %w", err)
	}
	if l.Income, err = parseInt(get(features.FieldIncome)); err != nil {
		return l, fmt.Errorf("income: %w", err)
	}
	if l.Budget, err = parseInt(get(features.FieldBudget)); err != nil {
		return l, fmt.Errorf("budget: %w", err)
	}
	l.AgeGroup = get(features.FieldAgeGroup)
	l.FamilyBackground = get(features.FieldFamilyBackground)
	l.PropertyType = get(features.FieldPropertyType)
	l.PreferredLocation = get(features.FieldPreferredLocation)
	if l.LeadIntent, err = parseLabel(get(labelColumn)); err != nil {
		return l, fmt.Errorf("lead_intent: %w", err)
	}
	return l, nil
}

// parseInt 接受 "720" 和 "720.0" 两种写法
func parseInt(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(math.Round(f)), nil
}

func parseLabel(s string) (int, error) {
	switch strings.ToLower(s) {
	case "1", "1.0", "true", "yes":
		return 1, nil
	case "0", "0.0", "false", "no":
		return 0, nil
	}
	return 0, fmt.Errorf("invalid label %q", s)
}
