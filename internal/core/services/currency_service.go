package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sarrafly/exchange_backoffice/internal/apperrors"
	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	portsrepo "github.com/sarrafly/exchange_backoffice/internal/core/ports/repositories"
	portssvc "github.com/sarrafly/exchange_backoffice/internal/core/ports/services"
	"github.com/sarrafly/exchange_backoffice/internal/dto"
	"github.com/sarrafly/exchange_backoffice/internal/utils/money"
)

// currencyService manages the currency registry.
type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

// CreateCurrency registers a currency. Fiat codes must belong to the closed
// recognized set; crypto codes are open-ended and carry their own precision.
func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, actor string) (*domain.Currency, error) {
	switch req.Kind {
	case domain.CurrencyFiat:
		if !domain.IsKnownFiat(req.CurrencyCode) {
			return nil, fmt.Errorf("%w: %s is not a recognized fiat currency", apperrors.ErrValidation, req.CurrencyCode)
		}
	case domain.CurrencyCrypto:
		// Any code accepted.
	default:
		return nil, fmt.Errorf("%w: unknown currency kind %q", apperrors.ErrValidation, req.Kind)
	}

	precision := req.Precision
	if precision == 0 && req.Kind == domain.CurrencyFiat {
		precision = money.DefaultPrecision(req.CurrencyCode, false)
	}

	now := time.Now().UTC()
	currency := domain.Currency{
		CurrencyCode: req.CurrencyCode,
		Symbol:       req.Symbol,
		Name:         req.Name,
		Kind:         req.Kind,
		Precision:    precision,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: currency %s already registered", apperrors.ErrDuplicate, req.CurrencyCode)
		}
		s.LogError(ctx, err, "Failed to save currency", "code", req.CurrencyCode)
		return nil, fmt.Errorf("failed to save currency: %w", err)
	}

	s.LogInfo(ctx, "Currency registered", "code", currency.CurrencyCode, "kind", currency.Kind)
	return &currency, nil
}

// GetCurrencyByCode retrieves a currency.
func (s *currencyService) GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	return s.currencyRepo.FindCurrencyByCode(ctx, code)
}

// ListCurrencies retrieves all registered currencies.
func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	return s.currencyRepo.ListCurrencies(ctx)
}

// Precision resolves decimal places for rounding. Unregistered codes fall back
// to the conventional defaults (IRR 0, fiat 2, crypto 8).
func (s *currencyService) Precision(ctx context.Context, code string) (int32, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return money.DefaultPrecision(code, !domain.IsKnownFiat(code)), nil
		}
		return 0, err
	}
	return currency.Precision, nil
}
