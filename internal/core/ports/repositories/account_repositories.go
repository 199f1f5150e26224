package repositories

import (
	"context"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByCode retrieves an account by its stable per-tenant code.
	FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error)

	// FindAccountsByCodes retrieves multiple accounts keyed by code.
	FindAccountsByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.Account, error)

	// ListAccounts retrieves the tenant's accounts, optionally filtered by type.
	ListAccounts(ctx context.Context, tenantID string, accountType *domain.AccountType) ([]domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount inserts a new account; duplicate codes yield apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// SaveAccounts inserts a batch of accounts atomically (tenant bootstrap).
	SaveAccounts(ctx context.Context, accounts []domain.Account) error

	// UpdateAccount persists mutable fields (name, active flag, cash-flow tag).
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
