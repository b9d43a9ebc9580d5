package services

import (
	"fmt"
	"strings"

	"lead_scoring/features"
	"lead_scoring/models"
)

const (
	minCreditScore = 300
	maxCreditScore = 850
)

// ValidationError 请求参数不合法，对应 HTTP 400
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validator 校验评分请求
type Validator struct {
	schema features.Schema
	// strict 为 true 时拒绝 schema 之外的类别取值，否则按全 0 编码放行
	strict bool
}

func NewValidator(schema features.Schema, strict bool) *Validator {
	return &Validator{schema: schema, strict: strict}
}

// Validate 依次检查邮箱、信用分、收入和预算，以及（严格模式下）类别取值
func (v *Validator) Validate(lead *models.LeadSubmission) error {
	if !strings.Contains(lead.Email, "@") {
		return &ValidationError{Field: "email", Reason: "Invalid email or credit score"}
	}
	if lead.CreditScore < minCreditScore || lead.CreditScore > maxCreditScore {
		return &ValidationError{Field: features.FieldCreditScore, Reason: "Invalid email or credit score"}
	}
	if lead.Income < 0 {
		return &ValidationError{Field: features.FieldIncome, Reason: "Income or budget cannot be negative"}
	}
	if lead.Budget < 0 {
		return &ValidationError{Field: features.FieldBudget, Reason: "Income or budget cannot be negative"}
	}

	if !v.strict {
		return nil
	}
	if unknown := v.schema.Unknown(lead); len(unknown) > 0 {
		field := unknown[0]
		return &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("Unknown %s: %q", field, lead.Category(field)),
		}
	}
	return nil
}
