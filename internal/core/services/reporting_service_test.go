package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	portsrepo "github.com/sarrafly/exchange_backoffice/internal/core/ports/repositories"
	portssvc "github.com/sarrafly/exchange_backoffice/internal/core/ports/services"
	"github.com/sarrafly/exchange_backoffice/internal/core/services"
)

// MockReportingRepository is a mock type for the ReportingRepository interface
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) GetTrialBalanceData(ctx context.Context, tenantID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, tenantID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) GetCashFlowData(ctx context.Context, tenantID string, from, to time.Time) (*portsrepo.CashFlowSums, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.CashFlowSums), args.Error(1)
}

func (m *MockReportingRepository) GetProfitAndLossData(ctx context.Context, tenantID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, tenantID, from, to)
	var revenue, expenses []domain.AccountAmount
	if args.Get(0) != nil {
		revenue = args.Get(0).([]domain.AccountAmount)
	}
	if args.Get(1) != nil {
		expenses = args.Get(1).([]domain.AccountAmount)
	}
	return revenue, expenses, args.Error(2)
}

func (m *MockReportingRepository) GetTenantActivity(ctx context.Context, tenantID string, from, to time.Time) (*portsrepo.TenantActivity, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.TenantActivity), args.Error(1)
}

// MockTenantRepository is a mock type for the TenantRepositoryFacade interface
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ListTenantsBySupervisor(ctx context.Context, supervisorID string) ([]domain.Tenant, error) {
	args := m.Called(ctx, supervisorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) UpdateTenant(ctx context.Context, tenant domain.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

// MockBalanceSvc is a mock type for the BalanceSvcFacade interface
type MockBalanceSvc struct {
	mock.Mock
}

func (m *MockBalanceSvc) AccountBalance(ctx context.Context, tenantID, accountCode string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, accountCode, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBalanceSvc) GeneralLedger(ctx context.Context, tenantID, accountCode string, from, to time.Time) ([]domain.LedgerLine, error) {
	args := m.Called(ctx, tenantID, accountCode, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerLine), args.Error(1)
}

func (m *MockBalanceSvc) SnapshotEndOfDay(ctx context.Context, tenantID string, day time.Time, actor string) (int, error) {
	args := m.Called(ctx, tenantID, day, actor)
	return args.Int(0), args.Error(1)
}

// --- Test Suite Setup ---

type ReportingServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockReportingRepository
	mockTenants  *MockTenantRepository
	mockAccounts *MockAccountRepository
	mockBalance  *MockBalanceSvc
	service      portssvc.ReportingService
	tenantID     string
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockReportingRepository)
	suite.mockTenants = new(MockTenantRepository)
	suite.mockAccounts = new(MockAccountRepository)
	suite.mockBalance = new(MockBalanceSvc)
	suite.service = services.NewReportingService(suite.mockRepo, suite.mockTenants, suite.mockAccounts, suite.mockBalance)
	suite.tenantID = "tenant-1"
}

// --- Test Cases ---

func (suite *ReportingServiceTestSuite) TestTrialBalance_DropsZeroRowsAndTotalsPerCurrency() {
	ctx := context.Background()
	asOf := time.Date(2025, 4, 30, 23, 59, 59, 0, time.UTC)

	suite.mockRepo.On("GetTrialBalanceData", ctx, suite.tenantID, asOf).Return([]domain.TrialBalanceRow{
		{AccountCode: "CASH-USD", CurrencyCode: "USD", Debit: decimal.RequireFromString("150"), Credit: decimal.Zero},
		{AccountCode: "CUSTPAY-USD", CurrencyCode: "USD", Debit: decimal.Zero, Credit: decimal.RequireFromString("150")},
		{AccountCode: "BANK-EUR", CurrencyCode: "EUR", Debit: decimal.Zero, Credit: decimal.Zero},
	}, nil).Once()

	report, err := suite.service.TrialBalance(ctx, suite.tenantID, asOf)
	suite.Require().NoError(err)
	suite.Len(report.Rows, 2, "zero rows are dropped")
	suite.True(report.IsBalanced)
	suite.True(report.Totals["USD"].Debit.Equal(decimal.RequireFromString("150")))
	suite.True(report.Totals["USD"].Credit.Equal(decimal.RequireFromString("150")))
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_FlagsImbalance() {
	ctx := context.Background()
	asOf := time.Date(2025, 4, 30, 23, 59, 59, 0, time.UTC)

	suite.mockRepo.On("GetTrialBalanceData", ctx, suite.tenantID, asOf).Return([]domain.TrialBalanceRow{
		{AccountCode: "CASH-USD", CurrencyCode: "USD", Debit: decimal.RequireFromString("150"), Credit: decimal.Zero},
		{AccountCode: "CUSTPAY-USD", CurrencyCode: "USD", Debit: decimal.Zero, Credit: decimal.RequireFromString("149")},
	}, nil).Once()

	report, err := suite.service.TrialBalance(ctx, suite.tenantID, asOf)
	suite.Require().NoError(err)
	suite.False(report.IsBalanced)
}

func (suite *ReportingServiceTestSuite) TestCashFlow_ClassifiesByTagAndSeedsOpeningCash() {
	ctx := context.Background()
	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 30, 23, 59, 59, 0, time.UTC)

	suite.mockRepo.On("GetCashFlowData", ctx, suite.tenantID, from, to).Return(&portsrepo.CashFlowSums{
		Debits: map[portsrepo.CashFlowKey]decimal.Decimal{
			{CurrencyCode: "USD", Tag: domain.CashFlowOperating}: decimal.RequireFromString("500"),
			{CurrencyCode: "USD", Tag: domain.CashFlowFinancing}: decimal.RequireFromString("100"),
		},
		Credits: map[portsrepo.CashFlowKey]decimal.Decimal{
			{CurrencyCode: "USD", Tag: domain.CashFlowOperating}: decimal.RequireFromString("200"),
		},
	}, nil).Once()

	cash := activeAccount("CASH-USD", domain.Asset, "USD")
	cash.IsCash = true
	vault := activeAccount("FXPOS-USD", domain.Asset, "USD")
	suite.mockAccounts.On("ListAccounts", mock.Anything, suite.tenantID, (*domain.AccountType)(nil)).
		Return([]domain.Account{cash, vault}, nil).Once()
	suite.mockBalance.On("AccountBalance", mock.Anything, suite.tenantID, "CASH-USD", from.Add(-time.Nanosecond)).
		Return(decimal.RequireFromString("1000"), nil).Once()

	report, err := suite.service.CashFlow(ctx, suite.tenantID, from, to)
	suite.Require().NoError(err)
	suite.Require().Len(report.Currencies, 1)
	usd := report.Currencies["USD"]
	suite.True(usd.Operating.Equal(decimal.RequireFromString("300")))
	suite.True(usd.Financing.Equal(decimal.RequireFromString("100")))
	suite.True(usd.NetCashFlow.Equal(decimal.RequireFromString("400")))
	suite.True(usd.OpeningCash.Equal(decimal.RequireFromString("1000")))
	suite.True(usd.EndingCash.Equal(decimal.RequireFromString("1400")))
	suite.mockBalance.AssertNumberOfCalls(suite.T(), "AccountBalance", 1)
}

func (suite *ReportingServiceTestSuite) TestCashFlow_KeepsCurrenciesApart() {
	// A rial cash drawer next to a dollar one must never fold into a single
	// ending-cash figure.
	ctx := context.Background()
	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 30, 23, 59, 59, 0, time.UTC)

	suite.mockRepo.On("GetCashFlowData", ctx, suite.tenantID, from, to).Return(&portsrepo.CashFlowSums{
		Debits: map[portsrepo.CashFlowKey]decimal.Decimal{
			{CurrencyCode: "IRR", Tag: domain.CashFlowOperating}: decimal.RequireFromString("50000000"),
			{CurrencyCode: "USD", Tag: domain.CashFlowOperating}: decimal.RequireFromString("120"),
		},
		Credits: map[portsrepo.CashFlowKey]decimal.Decimal{
			{CurrencyCode: "USD", Tag: domain.CashFlowOperating}: decimal.RequireFromString("20"),
		},
	}, nil).Once()

	cashUSD := activeAccount("CASH-USD", domain.Asset, "USD")
	cashUSD.IsCash = true
	cashIRR := activeAccount("CASH-IRR", domain.Asset, "IRR")
	cashIRR.IsCash = true
	suite.mockAccounts.On("ListAccounts", mock.Anything, suite.tenantID, (*domain.AccountType)(nil)).
		Return([]domain.Account{cashUSD, cashIRR}, nil).Once()
	suite.mockBalance.On("AccountBalance", mock.Anything, suite.tenantID, "CASH-USD", from.Add(-time.Nanosecond)).
		Return(decimal.RequireFromString("1000"), nil).Once()
	suite.mockBalance.On("AccountBalance", mock.Anything, suite.tenantID, "CASH-IRR", from.Add(-time.Nanosecond)).
		Return(decimal.RequireFromString("900000000"), nil).Once()

	report, err := suite.service.CashFlow(ctx, suite.tenantID, from, to)
	suite.Require().NoError(err)
	suite.Require().Len(report.Currencies, 2)
	suite.True(report.Currencies["USD"].EndingCash.Equal(decimal.RequireFromString("1100")))
	suite.True(report.Currencies["IRR"].EndingCash.Equal(decimal.RequireFromString("950000000")))
}

func (suite *ReportingServiceTestSuite) TestProfitAndLoss_NetsRevenueAgainstExpenses() {
	ctx := context.Background()
	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 30, 23, 59, 59, 0, time.UTC)

	suite.mockRepo.On("GetProfitAndLossData", ctx, suite.tenantID, from, to).Return(
		[]domain.AccountAmount{
			{AccountCode: "FXREV-USD", CurrencyCode: "USD", NetAmount: decimal.RequireFromString("800")},
			{AccountCode: "COMMREV-USD", CurrencyCode: "USD", NetAmount: decimal.RequireFromString("200")},
			{AccountCode: "COMMREV-IRR", CurrencyCode: "IRR", NetAmount: decimal.RequireFromString("4000000")},
		},
		[]domain.AccountAmount{
			{AccountCode: "FXEXP-USD", CurrencyCode: "USD", NetAmount: decimal.RequireFromString("300")},
		},
		nil,
	).Once()

	report, err := suite.service.ProfitAndLoss(ctx, suite.tenantID, from, to)
	suite.Require().NoError(err)
	suite.True(report.NetProfit["USD"].Equal(decimal.RequireFromString("700")))
	suite.True(report.NetProfit["IRR"].Equal(decimal.RequireFromString("4000000")), "rial revenue stays out of the dollar total")
	suite.Len(report.Revenue, 3)
	suite.Len(report.Expenses, 1)
}

func (suite *ReportingServiceTestSuite) TestTenantComparison_RanksByRevenue() {
	ctx := context.Background()
	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 30, 23, 59, 59, 0, time.UTC)

	suite.mockTenants.On("ListTenantsBySupervisor", ctx, "supervisor-1").Return([]domain.Tenant{
		{TenantID: "tenant-a", Name: "Branch A", DefaultCurrencyCode: "USD"},
		{TenantID: "tenant-b", Name: "Branch B", DefaultCurrencyCode: "USD"},
	}, nil).Once()
	// Branch A books a huge rial figure, but ranking compares book-currency
	// revenue, so it stays behind Branch B.
	suite.mockRepo.On("GetTenantActivity", ctx, "tenant-a", from, to).Return(&portsrepo.TenantActivity{
		RevenueByCurrency: map[string]decimal.Decimal{
			"USD": decimal.RequireFromString("100"),
			"IRR": decimal.RequireFromString("60000000"),
		},
		ExpenseByCurrency: map[string]decimal.Decimal{"USD": decimal.RequireFromString("40")},
	}, nil).Once()
	suite.mockRepo.On("GetTenantActivity", ctx, "tenant-b", from, to).Return(&portsrepo.TenantActivity{
		RevenueByCurrency: map[string]decimal.Decimal{"USD": decimal.RequireFromString("900")},
		ExpenseByCurrency: map[string]decimal.Decimal{"USD": decimal.RequireFromString("300")},
	}, nil).Once()

	rows, err := suite.service.TenantComparison(ctx, "supervisor-1", from, to)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 2)
	suite.Equal("tenant-b", rows[0].TenantID, "highest book-currency revenue first")
	suite.True(rows[0].NetProfit["USD"].Equal(decimal.RequireFromString("600")))
	suite.True(rows[1].NetProfit["IRR"].Equal(decimal.RequireFromString("60000000")))
	suite.True(rows[1].NetProfit["USD"].Equal(decimal.RequireFromString("60")))
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
