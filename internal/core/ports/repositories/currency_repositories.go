package repositories

import (
	"context"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
)

// CurrencyRepositoryFacade persists the currency registry.
type CurrencyRepositoryFacade interface {
	FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
	SaveCurrency(ctx context.Context, currency domain.Currency) error
}
