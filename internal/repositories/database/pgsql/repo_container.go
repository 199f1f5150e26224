package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/sarrafly/exchange_backoffice/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the Postgres-backed repositories into a provider
// for the service container.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		TenantRepo:       newPgxTenantRepository(dbPool),
		AccountRepo:      newPgxAccountRepository(dbPool),
		CurrencyRepo:     newPgxCurrencyRepository(dbPool),
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		JournalRepo:      newPgxJournalRepository(dbPool),
		CommissionRepo:   newPgxCommissionRepository(dbPool),
		RemittanceRepo:   newPgxRemittanceRepository(dbPool),
		ReportingRepo:    newPgxReportingRepository(dbPool),
	}
}
