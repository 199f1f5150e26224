package services

import (
	"context"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	"github.com/sarrafly/exchange_backoffice/internal/dto"
)

// AccountReaderSvc defines read operations for chart-of-accounts data.
type AccountReaderSvc interface {
	GetAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error)
	GetAccountsByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.Account, error)
	ListAccountsByType(ctx context.Context, tenantID string, accountType *domain.AccountType) ([]domain.Account, error)

	// ParentChain walks the hierarchy from the account up to its root.
	ParentChain(ctx context.Context, tenantID, code string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for chart-of-accounts data.
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, actor string) (*domain.Account, error)

	// DeactivateAccount flips the active flag; it always succeeds for existing
	// accounts. Deletion is never offered for accounts referenced by the journal.
	DeactivateAccount(ctx context.Context, tenantID, code string, actor string) error

	// BootstrapChart seeds the tenant's default chart for the given currencies.
	BootstrapChart(ctx context.Context, tenantID string, currencies []string, actor string) ([]domain.Account, error)
}

// AccountSvcFacade combines account service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
