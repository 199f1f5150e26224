package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sarrafly/exchange_backoffice/internal/apperrors"
	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	portssvc "github.com/sarrafly/exchange_backoffice/internal/core/ports/services"
	"github.com/sarrafly/exchange_backoffice/internal/core/services"
	"github.com/sarrafly/exchange_backoffice/internal/dto"
)

// MockAccountSvc is a mock type for the AccountSvcFacade interface
type MockAccountSvc struct {
	mock.Mock
}

func (m *MockAccountSvc) GetAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) GetAccountsByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tenantID, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountSvc) ListAccountsByType(ctx context.Context, tenantID string, accountType *domain.AccountType) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountSvc) ParentChain(ctx context.Context, tenantID, code string) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountSvc) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) DeactivateAccount(ctx context.Context, tenantID, code string, actor string) error {
	args := m.Called(ctx, tenantID, code, actor)
	return args.Error(0)
}

func (m *MockAccountSvc) BootstrapChart(ctx context.Context, tenantID string, currencies []string, actor string) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID, currencies, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Test Suite Setup ---

type TenantServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockTenantRepository
	mockAccounts *MockAccountSvc
	service      portssvc.TenantSvcFacade
}

func (suite *TenantServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTenantRepository)
	suite.mockAccounts = new(MockAccountSvc)
	suite.service = services.NewTenantService(suite.mockRepo, suite.mockAccounts)
}

// --- Test Cases ---

func (suite *TenantServiceTestSuite) TestCreateTenant_BootstrapsChart() {
	ctx := context.Background()
	req := dto.CreateTenantRequest{
		Name:                "Sarrafi Tehran",
		DefaultCurrencyCode: "IRR",
		ChartCurrencies:     []string{"IRR", "USD"},
	}

	suite.mockRepo.On("SaveTenant", ctx, mock.MatchedBy(func(t domain.Tenant) bool {
		return t.Name == "Sarrafi Tehran" && t.IsActive && t.TenantID != ""
	})).Return(nil).Once()
	suite.mockAccounts.On("BootstrapChart", ctx, mock.AnythingOfType("string"), []string{"IRR", "USD"}, "staff-1").
		Return([]domain.Account{}, nil).Once()

	created, err := suite.service.CreateTenant(ctx, req, "staff-1")
	suite.Require().NoError(err)
	suite.NotEmpty(created.TenantID)
	suite.True(created.IsActive)
	suite.mockAccounts.AssertExpectations(suite.T())
}

func (suite *TenantServiceTestSuite) TestRequireActiveTenant_UnknownTenant() {
	ctx := context.Background()
	suite.mockRepo.On("FindTenantByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.RequireActiveTenant(ctx, "missing")
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TenantServiceTestSuite) TestRequireActiveTenant_DeactivatedTenant() {
	ctx := context.Background()
	suite.mockRepo.On("FindTenantByID", ctx, "tenant-1").Return(&domain.Tenant{
		TenantID: "tenant-1",
		Name:     "Closed House",
		IsActive: false,
	}, nil).Once()

	_, err := suite.service.RequireActiveTenant(ctx, "tenant-1")
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TenantServiceTestSuite) TestRequireActiveTenant_ActiveTenant() {
	ctx := context.Background()
	suite.mockRepo.On("FindTenantByID", ctx, "tenant-1").Return(&domain.Tenant{
		TenantID: "tenant-1",
		Name:     "Open House",
		IsActive: true,
	}, nil).Once()

	tenant, err := suite.service.RequireActiveTenant(ctx, "tenant-1")
	suite.Require().NoError(err)
	suite.Equal("tenant-1", tenant.TenantID)
}

func TestTenantServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TenantServiceTestSuite))
}
