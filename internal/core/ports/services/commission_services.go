package services

import (
	"context"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	"github.com/sarrafly/exchange_backoffice/internal/dto"
	"github.com/shopspring/decimal"
)

// CommissionSvcFacade evaluates and manages per-tenant commission policy.
type CommissionSvcFacade interface {
	// Calculate selects the first matching rule by explicit priority and returns
	// the rounded, clamped commission. No matching rule yields ErrMissingPolicy.
	Calculate(ctx context.Context, tenantID string, kind domain.EventKind, gross decimal.Decimal, currencyCode, customerTier string) (*domain.CommissionResult, error)

	UpsertRule(ctx context.Context, tenantID string, req dto.UpsertCommissionRuleRequest, actor string) (*domain.CommissionRule, error)
	ListRules(ctx context.Context, tenantID string) ([]domain.CommissionRule, error)
	DeleteRule(ctx context.Context, tenantID, ruleID string, actor string) error
}
