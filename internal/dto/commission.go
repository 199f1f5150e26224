package dto

import (
	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpsertCommissionRuleRequest defines the payload for creating or replacing a
// commission policy rule.
type UpsertCommissionRuleRequest struct {
	RuleID             string           `json:"ruleID"`
	EventKind          domain.EventKind `json:"eventKind" binding:"required"`
	CurrencyCode       string           `json:"currencyCode" binding:"required,min=3,max=10"`
	CustomerTier       string           `json:"customerTier"`
	Percent            decimal.Decimal  `json:"percent"`
	Floor              decimal.Decimal  `json:"floor"`
	Cap                decimal.Decimal  `json:"cap"`
	Priority           int              `json:"priority"`
	Waived             bool             `json:"waived"`
	RevenueAccountCode string           `json:"revenueAccountCode" binding:"required"`
	ExpenseAccountCode string           `json:"expenseAccountCode"`
}

// CommissionRuleResponse defines the data returned for a policy rule.
type CommissionRuleResponse struct {
	RuleID             string           `json:"ruleID"`
	EventKind          domain.EventKind `json:"eventKind"`
	CurrencyCode       string           `json:"currencyCode"`
	CustomerTier       string           `json:"customerTier,omitempty"`
	Percent            decimal.Decimal  `json:"percent"`
	Floor              decimal.Decimal  `json:"floor"`
	Cap                decimal.Decimal  `json:"cap"`
	Priority           int              `json:"priority"`
	Waived             bool             `json:"waived"`
	RevenueAccountCode string           `json:"revenueAccountCode"`
	ExpenseAccountCode string           `json:"expenseAccountCode,omitempty"`
}

// ToCommissionRuleResponse converts a domain.CommissionRule to its response DTO.
func ToCommissionRuleResponse(r *domain.CommissionRule) CommissionRuleResponse {
	return CommissionRuleResponse{
		RuleID:             r.RuleID,
		EventKind:          r.EventKind,
		CurrencyCode:       r.CurrencyCode,
		CustomerTier:       r.CustomerTier,
		Percent:            r.Percent,
		Floor:              r.Floor,
		Cap:                r.Cap,
		Priority:           r.Priority,
		Waived:             r.Waived,
		RevenueAccountCode: r.RevenueAccountCode,
		ExpenseAccountCode: r.ExpenseAccountCode,
	}
}
