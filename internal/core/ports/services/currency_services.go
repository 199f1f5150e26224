package services

import (
	"context"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	"github.com/sarrafly/exchange_backoffice/internal/dto"
)

// CurrencySvcFacade manages the currency registry. The fiat set is closed;
// crypto currencies may be registered with their own precision.
type CurrencySvcFacade interface {
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, actor string) (*domain.Currency, error)
	GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)

	// Precision resolves decimal places for rounding, falling back to the
	// conventional defaults when the registry has no entry.
	Precision(ctx context.Context, code string) (int32, error)
}
