package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sarrafly/exchange_backoffice/internal/apperrors"
	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	portsrepo "github.com/sarrafly/exchange_backoffice/internal/core/ports/repositories"
	portssvc "github.com/sarrafly/exchange_backoffice/internal/core/ports/services"
	"github.com/sarrafly/exchange_backoffice/internal/dto"
)

// exchangeRateService manages tenant market reference rates.
type exchangeRateService struct {
	BaseService
	rateRepo portsrepo.ExchangeRateRepositoryFacade
}

// NewExchangeRateService creates a new ExchangeRateService.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{rateRepo: rateRepo}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// CreateExchangeRate records a market reference rate for a currency pair.
func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, tenantID string, req dto.CreateExchangeRateRequest, actor string) (*domain.ExchangeRate, error) {
	if req.FromCurrency == req.ToCurrency {
		return nil, fmt.Errorf("%w: rate pair must use two distinct currencies", apperrors.ErrValidation)
	}
	if !req.Rate.IsPositive() {
		return nil, fmt.Errorf("%w: rate must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	rate := domain.ExchangeRate{
		ExchangeRateID: uuid.NewString(),
		TenantID:       tenantID,
		FromCurrency:   req.FromCurrency,
		ToCurrency:     req.ToCurrency,
		Rate:           req.Rate,
		DateEffective:  req.DateEffective,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate", "tenant_id", tenantID, "pair", req.FromCurrency+"/"+req.ToCurrency)
		return nil, fmt.Errorf("failed to save exchange rate: %w", err)
	}

	s.LogInfo(ctx, "Exchange rate recorded", "tenant_id", tenantID, "pair", rate.FromCurrency+"/"+rate.ToCurrency, "rate", rate.Rate.String())
	return &rate, nil
}

// ListExchangeRates retrieves all rates recorded for a tenant.
func (s *exchangeRateService) ListExchangeRates(ctx context.Context, tenantID string) ([]domain.ExchangeRate, error) {
	return s.rateRepo.ListRates(ctx, tenantID)
}

// MarketRate returns the newest rate for the pair effective at asOf. The
// inverse pair is consulted when no direct rate exists; nil means no rate is
// recorded either way.
func (s *exchangeRateService) MarketRate(ctx context.Context, tenantID, fromCurrency, toCurrency string, asOf time.Time) (*decimal.Decimal, error) {
	rate, err := s.rateRepo.FindLatestRate(ctx, tenantID, fromCurrency, toCurrency, asOf)
	if err == nil {
		r := rate.Rate
		return &r, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	inverse, err := s.rateRepo.FindLatestRate(ctx, tenantID, toCurrency, fromCurrency, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if inverse.Rate.IsZero() {
		return nil, nil
	}
	r := decimal.NewFromInt(1).DivRound(inverse.Rate, 12)
	return &r, nil
}
