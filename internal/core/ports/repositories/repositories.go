package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TenantRepo       TenantRepositoryFacade
	AccountRepo      AccountRepositoryFacade
	CurrencyRepo     CurrencyRepositoryFacade
	ExchangeRateRepo ExchangeRateRepositoryFacade
	JournalRepo      JournalRepositoryFacade
	CommissionRepo   CommissionRepositoryFacade
	RemittanceRepo   RemittanceRepositoryFacade
	ReportingRepo    ReportingRepository
}
