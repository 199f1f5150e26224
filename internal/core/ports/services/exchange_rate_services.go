package services

import (
	"context"
	"time"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	"github.com/sarrafly/exchange_backoffice/internal/dto"
	"github.com/shopspring/decimal"
)

// ExchangeRateSvcFacade manages tenant market reference rates.
type ExchangeRateSvcFacade interface {
	CreateExchangeRate(ctx context.Context, tenantID string, req dto.CreateExchangeRateRequest, actor string) (*domain.ExchangeRate, error)
	ListExchangeRates(ctx context.Context, tenantID string) ([]domain.ExchangeRate, error)

	// MarketRate returns the newest rate for the pair effective at asOf, or nil
	// when none is recorded.
	MarketRate(ctx context.Context, tenantID, fromCurrency, toCurrency string, asOf time.Time) (*decimal.Decimal, error)
}
