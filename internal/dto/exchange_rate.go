package dto

import (
	"time"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest defines the payload for recording a market rate.
type CreateExchangeRateRequest struct {
	FromCurrency  string          `json:"fromCurrencyCode" binding:"required,min=3,max=10"`
	ToCurrency    string          `json:"toCurrencyCode" binding:"required,min=3,max=10"`
	Rate          decimal.Decimal `json:"rate" binding:"required"`
	DateEffective time.Time       `json:"dateEffective" binding:"required"`
}

// ExchangeRateResponse defines the data returned for an exchange rate.
type ExchangeRateResponse struct {
	ExchangeRateID string          `json:"exchangeRateID"`
	FromCurrency   string          `json:"fromCurrencyCode"`
	ToCurrency     string          `json:"toCurrencyCode"`
	Rate           decimal.Decimal `json:"rate"`
	DateEffective  time.Time       `json:"dateEffective"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to its response DTO.
func ToExchangeRateResponse(r *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID: r.ExchangeRateID,
		FromCurrency:   r.FromCurrency,
		ToCurrency:     r.ToCurrency,
		Rate:           r.Rate,
		DateEffective:  r.DateEffective,
	}
}
