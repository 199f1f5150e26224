package repositories

import (
	"context"
	"time"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CashFlowKey identifies one currency-and-tag bucket of cash movement.
type CashFlowKey struct {
	CurrencyCode string
	Tag          domain.CashFlowTag
}

// CashFlowSums carries the raw cash-account debit/credit sums per currency and
// cash-flow tag.
type CashFlowSums struct {
	Debits  map[CashFlowKey]decimal.Decimal
	Credits map[CashFlowKey]decimal.Decimal
}

// TenantActivity carries aggregate figures for a tenant over a period. Revenue
// and expense are kept per currency.
type TenantActivity struct {
	RevenueByCurrency map[string]decimal.Decimal
	ExpenseByCurrency map[string]decimal.Decimal
	EntryCount        int
	CustomerCount     int
}

// ReportingRepository aggregates ledger data for the report engine. All reads
// are consistent snapshots at the given cutoff.
type ReportingRepository interface {
	// GetTrialBalanceData returns net balances per active account as of a date.
	GetTrialBalanceData(ctx context.Context, tenantID string, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// GetCashFlowData sums cash-account lines in [from, to] by currency and
	// cash-flow tag.
	GetCashFlowData(ctx context.Context, tenantID string, from, to time.Time) (*CashFlowSums, error)

	// GetProfitAndLossData returns net revenue and expense amounts per account
	// over [from, to].
	GetProfitAndLossData(ctx context.Context, tenantID string, from, to time.Time) (revenue, expenses []domain.AccountAmount, err error)

	// GetTenantActivity aggregates revenue, expense and activity counts.
	GetTenantActivity(ctx context.Context, tenantID string, from, to time.Time) (*TenantActivity, error)
}
