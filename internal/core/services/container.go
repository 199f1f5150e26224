package services

import (
	portsrepo "github.com/sarrafly/exchange_backoffice/internal/core/ports/repositories"
	portssvc "github.com/sarrafly/exchange_backoffice/internal/core/ports/services"
)

// Container holds all the services and manages their dependencies.
type Container struct {
	Tenant       portssvc.TenantSvcFacade
	Account      portssvc.AccountSvcFacade
	Currency     portssvc.CurrencySvcFacade
	ExchangeRate portssvc.ExchangeRateSvcFacade
	Journal      portssvc.JournalSvcFacade
	Posting      portssvc.PostingSvcFacade
	Balance      portssvc.BalanceSvcFacade
	Commission   portssvc.CommissionSvcFacade
	Reporting    portssvc.ReportingService
	Remittance   portssvc.RemittanceSvcFacade
}

// NewContainer creates a new service container with properly initialized
// dependencies. Construction order follows the dependency graph: registries
// first, then the journal, then the posting engine and everything that reads
// from it.
func NewContainer(repos *portsrepo.RepositoryProvider) *Container {
	container := &Container{}

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo)
	container.Account = NewAccountService(repos.AccountRepo, repos.JournalRepo)
	container.Tenant = NewTenantService(repos.TenantRepo, container.Account)

	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo, container.Currency)
	container.Commission = NewCommissionService(repos.CommissionRepo, container.Currency)
	container.Posting = NewPostingService(container.Journal, container.Currency, container.Commission, container.ExchangeRate)

	container.Balance = NewBalanceService(repos.JournalRepo, repos.AccountRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.TenantRepo, repos.AccountRepo, container.Balance)
	container.Remittance = NewRemittanceService(repos.RemittanceRepo, container.Posting)

	return container
}
