package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"lead_scoring/models"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// datasetQuery 构造读取训练数据的 SQL，表名只允许标识符字符
func datasetQuery(table string) (string, error) {
	if !tableNamePattern.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	return fmt.Sprintf(`SELECT credit_score, income, budget, age_group, family_background,
        property_type, preferred_location, lead_intent FROM %s`, table), nil
}

// ListLabeledLeads 从 MySQL 表中读取全部带标签的历史线索
func ListLabeledLeads(ctx context.Context, conn *sql.DB, table string) ([]models.LabeledLead, error) {
	query, err := datasetQuery(table)
	if err != nil {
		return nil, err
	}
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]models.LabeledLead, 0)
	for rows.Next() {
		var l models.LabeledLead
		var ageGroup, family, property, location sql.NullString
		if err := rows.Scan(
			&l.CreditScore, &l.Income, &l.Budget,
			&ageGroup, &family, &property, &location,
			&l.LeadIntent,
		); err != nil {
			return nil, err
		}
		l.AgeGroup = ageGroup.String
		l.FamilyBackground = family.String
		l.PropertyType = property.String
		l.PreferredLocation = location.String
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return leads, nil
}
