package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	portsrepo "github.com/sarrafly/exchange_backoffice/internal/core/ports/repositories"
	portssvc "github.com/sarrafly/exchange_backoffice/internal/core/ports/services"
)

// balanceTolerance absorbs sub-minor-unit drift when comparing report columns.
var balanceTolerance = decimal.New(1, -6)

// reportingService assembles consistent ledger snapshots into reports.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	tenantRepo    portsrepo.TenantRepositoryFacade
	accountRepo   portsrepo.AccountReader
	balanceSvc    portssvc.BalanceSvcFacade
}

// NewReportingService creates a new ReportingService.
func NewReportingService(
	reportingRepo portsrepo.ReportingRepository,
	tenantRepo portsrepo.TenantRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	balanceSvc portssvc.BalanceSvcFacade,
) portssvc.ReportingService {
	return &reportingService{
		reportingRepo: reportingRepo,
		tenantRepo:    tenantRepo,
		accountRepo:   accountRepo,
		balanceSvc:    balanceSvc,
	}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// TrialBalance lists per-currency debit/credit columns for every active account
// with a non-zero balance as of the cutoff.
func (s *reportingService) TrialBalance(ctx context.Context, tenantID string, asOf time.Time) (*domain.TrialBalanceReport, error) {
	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, tenantID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to load trial balance data", "tenant_id", tenantID)
		return nil, fmt.Errorf("failed to load trial balance data: %w", err)
	}

	report := &domain.TrialBalanceReport{
		AsOf:       asOf,
		Totals:     make(map[string]domain.TrialBalanceSum),
		IsBalanced: true,
	}
	for _, row := range rows {
		if row.Debit.IsZero() && row.Credit.IsZero() {
			continue
		}
		report.Rows = append(report.Rows, row)
		sum := report.Totals[row.CurrencyCode]
		sum.Debit = sum.Debit.Add(row.Debit)
		sum.Credit = sum.Credit.Add(row.Credit)
		report.Totals[row.CurrencyCode] = sum
	}
	for _, sum := range report.Totals {
		if sum.Debit.Sub(sum.Credit).Abs().GreaterThan(balanceTolerance) {
			report.IsBalanced = false
			break
		}
	}
	return report, nil
}

// CashFlow classifies cash-account movement in [from, to] into operating,
// investing and financing activity, one column set per currency. Net cash flow
// is cash debits minus cash credits; ending cash is opening plus net.
func (s *reportingService) CashFlow(ctx context.Context, tenantID string, from, to time.Time) (*domain.CashFlowReport, error) {
	sums, err := s.reportingRepo.GetCashFlowData(ctx, tenantID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to load cash flow data", "tenant_id", tenantID)
		return nil, fmt.Errorf("failed to load cash flow data: %w", err)
	}

	opening, err := s.openingCash(ctx, tenantID, from)
	if err != nil {
		return nil, err
	}

	currencies := make(map[string]struct{})
	for key := range sums.Debits {
		currencies[key.CurrencyCode] = struct{}{}
	}
	for key := range sums.Credits {
		currencies[key.CurrencyCode] = struct{}{}
	}
	for currency := range opening {
		currencies[currency] = struct{}{}
	}

	net := func(currency string, tag domain.CashFlowTag) decimal.Decimal {
		key := portsrepo.CashFlowKey{CurrencyCode: currency, Tag: tag}
		return sums.Debits[key].Sub(sums.Credits[key])
	}

	report := &domain.CashFlowReport{
		From:       from,
		To:         to,
		Currencies: make(map[string]domain.CashFlowColumn, len(currencies)),
	}
	for currency := range currencies {
		col := domain.CashFlowColumn{
			Operating: net(currency, domain.CashFlowOperating),
			Investing: net(currency, domain.CashFlowInvesting),
			Financing: net(currency, domain.CashFlowFinancing),
		}
		col.NetCashFlow = col.Operating.Add(col.Investing).Add(col.Financing)
		col.OpeningCash = opening[currency]
		col.EndingCash = col.OpeningCash.Add(col.NetCashFlow)
		report.Currencies[currency] = col
	}
	return report, nil
}

// openingCash totals cash-account balances per currency just before from.
func (s *reportingService) openingCash(ctx context.Context, tenantID string, from time.Time) (map[string]decimal.Decimal, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, nil)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]decimal.Decimal)
	cutoff := from.Add(-time.Nanosecond)
	for _, account := range accounts {
		if !account.IsCash || !account.IsActive {
			continue
		}
		balance, err := s.balanceSvc.AccountBalance(ctx, tenantID, account.Code, cutoff)
		if err != nil {
			return nil, err
		}
		totals[account.CurrencyCode] = totals[account.CurrencyCode].Add(balance)
	}
	return totals, nil
}

// ProfitAndLoss nets revenue against expense accounts over a period, totalling
// per currency.
func (s *reportingService) ProfitAndLoss(ctx context.Context, tenantID string, from, to time.Time) (*domain.PAndLReport, error) {
	revenue, expenses, err := s.reportingRepo.GetProfitAndLossData(ctx, tenantID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to load profit and loss data", "tenant_id", tenantID)
		return nil, fmt.Errorf("failed to load profit and loss data: %w", err)
	}

	report := &domain.PAndLReport{Revenue: revenue, Expenses: expenses, NetProfit: make(map[string]decimal.Decimal)}
	for _, r := range revenue {
		report.NetProfit[r.CurrencyCode] = report.NetProfit[r.CurrencyCode].Add(r.NetAmount)
	}
	for _, e := range expenses {
		report.NetProfit[e.CurrencyCode] = report.NetProfit[e.CurrencyCode].Sub(e.NetAmount)
	}
	return report, nil
}

// TenantComparison lists the tenants under a supervising entity with their
// per-currency activity, ranked by each tenant's revenue in its own book
// currency.
func (s *reportingService) TenantComparison(ctx context.Context, supervisorID string, from, to time.Time) ([]domain.TenantComparisonRow, error) {
	tenants, err := s.tenantRepo.ListTenantsBySupervisor(ctx, supervisorID)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.TenantComparisonRow, 0, len(tenants))
	for _, tenant := range tenants {
		activity, err := s.reportingRepo.GetTenantActivity(ctx, tenant.TenantID, from, to)
		if err != nil {
			s.LogError(ctx, err, "Failed to load tenant activity", "tenant_id", tenant.TenantID)
			return nil, fmt.Errorf("failed to load activity for tenant %s: %w", tenant.TenantID, err)
		}

		net := make(map[string]decimal.Decimal)
		for currency, amount := range activity.RevenueByCurrency {
			net[currency] = amount
		}
		for currency, amount := range activity.ExpenseByCurrency {
			net[currency] = net[currency].Sub(amount)
		}

		rows = append(rows, domain.TenantComparisonRow{
			TenantID:      tenant.TenantID,
			TenantName:    tenant.Name,
			BookCurrency:  tenant.DefaultCurrencyCode,
			Revenue:       activity.RevenueByCurrency,
			Expense:       activity.ExpenseByCurrency,
			NetProfit:     net,
			EntryCount:    activity.EntryCount,
			CustomerCount: activity.CustomerCount,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		ri := rows[i].Revenue[rows[i].BookCurrency]
		rj := rows[j].Revenue[rows[j].BookCurrency]
		if !ri.Equal(rj) {
			return ri.GreaterThan(rj)
		}
		return rows[i].TenantID < rows[j].TenantID
	})
	return rows, nil
}
