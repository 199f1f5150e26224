package repositories

import (
	"context"
	"time"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
)

// ExchangeRateRepositoryFacade persists tenant-scoped market reference rates.
type ExchangeRateRepositoryFacade interface {
	// FindLatestRate returns the newest rate for the pair effective at or before asOf.
	FindLatestRate(ctx context.Context, tenantID, fromCurrency, toCurrency string, asOf time.Time) (*domain.ExchangeRate, error)

	ListRates(ctx context.Context, tenantID string) ([]domain.ExchangeRate, error)
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}
