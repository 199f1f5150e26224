package services

import (
	"context"
	"time"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceSvcFacade derives account balances and general-ledger views from the
// journal. Balances respect the account's normal side: debits increase
// normal-debit accounts, credits increase normal-credit accounts.
type BalanceSvcFacade interface {
	// AccountBalance returns the balance including all entries with effective
	// date <= asOf, reusing end-of-day snapshots when available.
	AccountBalance(ctx context.Context, tenantID, accountCode string, asOf time.Time) (decimal.Decimal, error)

	// GeneralLedger returns the account's lines within [from, to] with a running
	// balance column seeded from the opening balance at from.
	GeneralLedger(ctx context.Context, tenantID, accountCode string, from, to time.Time) ([]domain.LedgerLine, error)

	// SnapshotEndOfDay materialises balance snapshots for all active accounts at
	// end of the given day.
	SnapshotEndOfDay(ctx context.Context, tenantID string, day time.Time, actor string) (int, error)
}
