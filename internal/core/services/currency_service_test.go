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

// MockCurrencyRepository is a mock type for the CurrencyRepositoryFacade interface
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

// --- Test Suite Setup ---

type CurrencyServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCurrencyRepository
	service  portssvc.CurrencySvcFacade
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCurrencyRepository)
	suite.service = services.NewCurrencyService(suite.mockRepo)
}

// --- Test Cases ---

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_FiatDefaultsPrecision() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{
		CurrencyCode: "IRR",
		Name:         "Iranian Rial",
		Kind:         domain.CurrencyFiat,
	}

	suite.mockRepo.On("SaveCurrency", ctx, mock.MatchedBy(func(c domain.Currency) bool {
		return c.CurrencyCode == "IRR" && c.Precision == 0
	})).Return(nil).Once()

	created, err := suite.service.CreateCurrency(ctx, req, "staff-1")
	suite.Require().NoError(err)
	suite.Equal(int32(0), created.Precision)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_RejectsUnknownFiat() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{
		CurrencyCode: "XYZ",
		Name:         "Made up",
		Kind:         domain.CurrencyFiat,
	}

	_, err := suite.service.CreateCurrency(ctx, req, "staff-1")
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCurrency", mock.Anything, mock.Anything)
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_CryptoCodesAreOpenEnded() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{
		CurrencyCode: "USDT",
		Name:         "Tether",
		Kind:         domain.CurrencyCrypto,
		Precision:    6,
	}

	suite.mockRepo.On("SaveCurrency", ctx, mock.AnythingOfType("domain.Currency")).Return(nil).Once()

	created, err := suite.service.CreateCurrency(ctx, req, "staff-1")
	suite.Require().NoError(err)
	suite.Equal(int32(6), created.Precision)
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{
		CurrencyCode: "USD",
		Name:         "US Dollar",
		Kind:         domain.CurrencyFiat,
	}

	suite.mockRepo.On("SaveCurrency", ctx, mock.AnythingOfType("domain.Currency")).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateCurrency(ctx, req, "staff-1")
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *CurrencyServiceTestSuite) TestPrecision_RegisteredCurrencyWins() {
	ctx := context.Background()
	suite.mockRepo.On("FindCurrencyByCode", ctx, "BTC").Return(&domain.Currency{
		CurrencyCode: "BTC",
		Kind:         domain.CurrencyCrypto,
		Precision:    8,
	}, nil).Once()

	precision, err := suite.service.Precision(ctx, "BTC")
	suite.Require().NoError(err)
	suite.Equal(int32(8), precision)
}

func (suite *CurrencyServiceTestSuite) TestPrecision_FallsBackToDefaults() {
	ctx := context.Background()
	suite.mockRepo.On("FindCurrencyByCode", ctx, "IRR").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindCurrencyByCode", ctx, "AED").Return(nil, apperrors.ErrNotFound).Once()

	precision, err := suite.service.Precision(ctx, "IRR")
	suite.Require().NoError(err)
	suite.Equal(int32(0), precision)

	precision, err = suite.service.Precision(ctx, "AED")
	suite.Require().NoError(err)
	suite.Equal(int32(2), precision)
}

func TestCurrencyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
