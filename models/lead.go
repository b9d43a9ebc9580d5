package models

import (
	"time"

	"lead_scoring/features"
)

// LeadSubmission 评分请求体
type LeadSubmission struct {
	PhoneNumber       string `json:"phone_number" example:"+91-9876543210"`
	Email             string `json:"email" example:"a@b.com"`
	CreditScore       int    `json:"credit_score" example:"720"`
	AgeGroup          string `json:"age_group" example:"26-35" enums:"18-25,26-35,36-50,51+"`
	FamilyBackground  string `json:"family_background" example:"Married" enums:"Single,Married,Married with Kids"`
	Income            int    `json:"income" example:"80000"`
	PropertyType      string `json:"property_type" example:"Apartment" enums:"Apartment,Villa,Plot,Commercial"`
	Budget            int    `json:"budget" example:"5000000"`
	PreferredLocation string `json:"preferred_location" example:"Pune"`
	Comments          string `json:"comments,omitempty" example:"Looking to move ASAP, finalizing soon"`
}

// Numeric 实现 features.Source
func (l *LeadSubmission) Numeric(name string) float64 {
	switch name {
	case features.FieldCreditScore:
		return float64(l.CreditScore)
	case features.FieldIncome:
		return float64(l.Income)
	case features.FieldBudget:
		return float64(l.Budget)
	}
	return 0
}

// Category 实现 features.Source
func (l *LeadSubmission) Category(name string) string {
	switch name {
	case features.FieldAgeGroup:
		return l.AgeGroup
	case features.FieldFamilyBackground:
		return l.FamilyBackground
	case features.FieldPropertyType:
		return l.PropertyType
	case features.FieldPreferredLocation:
		return l.PreferredLocation
	}
	return ""
}

// ScoreResponse 评分结果，两个分数都在 [0, 100] 之间并保留两位小数
type ScoreResponse struct {
	InitialScore  float64 `json:"initial_score" example:"63.27"`
	RerankedScore float64 `json:"reranked_score" example:"83.27"`
}

// LeadRecord 已评分的线索，只保存在进程内存中
type LeadRecord struct {
	ID       string    `json:"id"`
	ScoredAt time.Time `json:"scored_at"`
	LeadSubmission
	ScoreResponse
}

// LabeledLead 带标签的历史线索，用于训练
type LabeledLead struct {
	LeadSubmission
	LeadIntent int `json:"lead_intent" db:"lead_intent"`
}
