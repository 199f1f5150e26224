package services

import (
	"context"
	"time"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
)

// ReportingService assembles consistent snapshots of the ledger.
type ReportingService interface {
	// TrialBalance lists per-currency debit/credit columns for every active
	// account with a non-zero balance as of the cutoff. IsBalanced must hold
	// whenever the journal is consistent.
	TrialBalance(ctx context.Context, tenantID string, asOf time.Time) (*domain.TrialBalanceReport, error)

	// CashFlow classifies cash-account movement in [from, to] into operating,
	// investing and financing activity.
	CashFlow(ctx context.Context, tenantID string, from, to time.Time) (*domain.CashFlowReport, error)

	// ProfitAndLoss nets revenue against expense accounts over a period.
	ProfitAndLoss(ctx context.Context, tenantID string, from, to time.Time) (*domain.PAndLReport, error)

	// TenantComparison ranks the tenants under a supervising entity by revenue
	// over a period.
	TenantComparison(ctx context.Context, supervisorID string, from, to time.Time) ([]domain.TenantComparisonRow, error)
}
