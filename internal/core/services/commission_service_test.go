package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sarrafly/exchange_backoffice/internal/apperrors"
	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	portssvc "github.com/sarrafly/exchange_backoffice/internal/core/ports/services"
	"github.com/sarrafly/exchange_backoffice/internal/core/services"
	"github.com/sarrafly/exchange_backoffice/internal/dto"
)

// MockCommissionRepository is a mock type for the CommissionRepositoryFacade interface
type MockCommissionRepository struct {
	mock.Mock
}

func (m *MockCommissionRepository) FindRules(ctx context.Context, tenantID string) ([]domain.CommissionRule, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CommissionRule), args.Error(1)
}

func (m *MockCommissionRepository) SaveRule(ctx context.Context, rule domain.CommissionRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockCommissionRepository) DeleteRule(ctx context.Context, tenantID, ruleID string) error {
	args := m.Called(ctx, tenantID, ruleID)
	return args.Error(0)
}

// --- Test Suite Setup ---

type CommissionServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockCommissionRepository
	mockCurrency *MockCurrencySvc
	service      portssvc.CommissionSvcFacade
	tenantID     string
}

func (suite *CommissionServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCommissionRepository)
	suite.mockCurrency = new(MockCurrencySvc)
	suite.service = services.NewCommissionService(suite.mockRepo, suite.mockCurrency)
	suite.tenantID = "tenant-1"
}

func rule(id string, priority int, percent string) domain.CommissionRule {
	return domain.CommissionRule{
		RuleID:             id,
		TenantID:           "tenant-1",
		EventKind:          domain.EventExchange,
		CurrencyCode:       "USD",
		Percent:            decimal.RequireFromString(percent),
		Priority:           priority,
		RevenueAccountCode: "COMMREV-USD",
	}
}

// --- Test Cases ---

func (suite *CommissionServiceTestSuite) TestCalculate_LowestPriorityWins() {
	ctx := context.Background()
	rules := []domain.CommissionRule{rule("high", 10, "5"), rule("low", 1, "2")}

	suite.mockRepo.On("FindRules", ctx, suite.tenantID).Return(rules, nil).Once()
	suite.mockCurrency.On("Precision", ctx, "USD").Return(int32(2), nil).Once()

	result, err := suite.service.Calculate(ctx, suite.tenantID, domain.EventExchange, decimal.RequireFromString("1000"), "USD", "")
	suite.Require().NoError(err)
	suite.Equal("low", result.RuleID)
	suite.True(result.Amount.Equal(decimal.RequireFromString("20")))
}

func (suite *CommissionServiceTestSuite) TestCalculate_RuleIDBreaksPriorityTies() {
	ctx := context.Background()
	rules := []domain.CommissionRule{rule("b-rule", 1, "5"), rule("a-rule", 1, "2")}

	suite.mockRepo.On("FindRules", ctx, suite.tenantID).Return(rules, nil).Once()
	suite.mockCurrency.On("Precision", ctx, "USD").Return(int32(2), nil).Once()

	result, err := suite.service.Calculate(ctx, suite.tenantID, domain.EventExchange, decimal.RequireFromString("100"), "USD", "")
	suite.Require().NoError(err)
	suite.Equal("a-rule", result.RuleID)
}

func (suite *CommissionServiceTestSuite) TestCalculate_RoundsHalfToEven() {
	ctx := context.Background()
	// 0.5% of 1 is 0.005, which banker's rounding takes down to 0.00.
	rules := []domain.CommissionRule{rule("std", 1, "0.5")}

	suite.mockRepo.On("FindRules", ctx, suite.tenantID).Return(rules, nil).Once()
	suite.mockCurrency.On("Precision", ctx, "USD").Return(int32(2), nil).Once()

	result, err := suite.service.Calculate(ctx, suite.tenantID, domain.EventExchange, decimal.RequireFromString("1"), "USD", "")
	suite.Require().NoError(err)
	suite.True(result.Amount.IsZero())
}

func (suite *CommissionServiceTestSuite) TestCalculate_FloorAndCapClamp() {
	ctx := context.Background()
	floored := rule("floored", 1, "1")
	floored.Floor = decimal.RequireFromString("5")
	capped := rule("capped", 1, "10")
	capped.Cap = decimal.RequireFromString("20")

	suite.mockRepo.On("FindRules", ctx, suite.tenantID).Return([]domain.CommissionRule{floored}, nil).Once()
	suite.mockCurrency.On("Precision", ctx, "USD").Return(int32(2), nil)

	result, err := suite.service.Calculate(ctx, suite.tenantID, domain.EventExchange, decimal.RequireFromString("100"), "USD", "")
	suite.Require().NoError(err)
	suite.True(result.Amount.Equal(decimal.RequireFromString("5")), "low percent clamps up to the floor")

	suite.mockRepo.On("FindRules", ctx, suite.tenantID).Return([]domain.CommissionRule{capped}, nil).Once()

	result, err = suite.service.Calculate(ctx, suite.tenantID, domain.EventExchange, decimal.RequireFromString("1000"), "USD", "")
	suite.Require().NoError(err)
	suite.True(result.Amount.Equal(decimal.RequireFromString("20")), "high percent clamps down to the cap")
}

func (suite *CommissionServiceTestSuite) TestCalculate_WaivedRule() {
	ctx := context.Background()
	waived := rule("vip-free", 0, "2")
	waived.Waived = true
	waived.CustomerTier = "VIP"
	rules := []domain.CommissionRule{waived, rule("std", 5, "2")}

	suite.mockRepo.On("FindRules", ctx, suite.tenantID).Return(rules, nil).Once()

	result, err := suite.service.Calculate(ctx, suite.tenantID, domain.EventExchange, decimal.RequireFromString("100"), "USD", "VIP")
	suite.Require().NoError(err)
	suite.True(result.Waived)
	suite.True(result.Amount.IsZero())
	suite.Equal("vip-free", result.RuleID)
}

func (suite *CommissionServiceTestSuite) TestCalculate_EmptyTierMatchesAnyCustomer() {
	ctx := context.Background()
	rules := []domain.CommissionRule{rule("std", 1, "2")}

	suite.mockRepo.On("FindRules", ctx, suite.tenantID).Return(rules, nil).Once()
	suite.mockCurrency.On("Precision", ctx, "USD").Return(int32(2), nil).Once()

	result, err := suite.service.Calculate(ctx, suite.tenantID, domain.EventExchange, decimal.RequireFromString("100"), "USD", "GOLD")
	suite.Require().NoError(err)
	suite.Equal("std", result.RuleID)
}

func (suite *CommissionServiceTestSuite) TestCalculate_NoMatchingRule() {
	ctx := context.Background()
	suite.mockRepo.On("FindRules", ctx, suite.tenantID).Return([]domain.CommissionRule{rule("std", 1, "2")}, nil).Once()

	_, err := suite.service.Calculate(ctx, suite.tenantID, domain.EventTransfer, decimal.RequireFromString("100"), "USD", "")
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrMissingPolicy)
}

func (suite *CommissionServiceTestSuite) TestUpsertRule_RejectsCapBelowFloor() {
	ctx := context.Background()
	req := dto.UpsertCommissionRuleRequest{
		EventKind:          domain.EventExchange,
		CurrencyCode:       "USD",
		Percent:            decimal.RequireFromString("2"),
		Floor:              decimal.RequireFromString("10"),
		Cap:                decimal.RequireFromString("5"),
		RevenueAccountCode: "COMMREV-USD",
	}

	_, err := suite.service.UpsertRule(ctx, suite.tenantID, req, "staff-1")
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveRule", mock.Anything, mock.Anything)
}

func (suite *CommissionServiceTestSuite) TestUpsertRule_GeneratesRuleID() {
	ctx := context.Background()
	req := dto.UpsertCommissionRuleRequest{
		EventKind:          domain.EventExchange,
		CurrencyCode:       "USD",
		Percent:            decimal.RequireFromString("2"),
		RevenueAccountCode: "COMMREV-USD",
	}

	suite.mockRepo.On("SaveRule", ctx, mock.AnythingOfType("domain.CommissionRule")).Return(nil).Once()

	created, err := suite.service.UpsertRule(ctx, suite.tenantID, req, "staff-1")
	suite.Require().NoError(err)
	suite.NotEmpty(created.RuleID)
	suite.Equal(suite.tenantID, created.TenantID)
}

func TestCommissionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CommissionServiceTestSuite))
}
