package repositories

import (
	"context"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
)

// CommissionRepositoryFacade persists per-tenant commission policy rules.
type CommissionRepositoryFacade interface {
	// FindRules retrieves all rules for a tenant.
	FindRules(ctx context.Context, tenantID string) ([]domain.CommissionRule, error)

	// SaveRule inserts or replaces a rule by its ID.
	SaveRule(ctx context.Context, rule domain.CommissionRule) error

	// DeleteRule removes a rule; missing rules yield apperrors.ErrNotFound.
	DeleteRule(ctx context.Context, tenantID, ruleID string) error
}
