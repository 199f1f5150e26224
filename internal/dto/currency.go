package dto

import "github.com/sarrafly/exchange_backoffice/internal/core/domain"

// CreateCurrencyRequest defines the payload for registering a currency.
// Fiat codes must belong to the closed recognized set; crypto is open-ended.
type CreateCurrencyRequest struct {
	CurrencyCode string              `json:"currencyCode" binding:"required,min=3,max=10,uppercase"`
	Symbol       string              `json:"symbol" binding:"required,max=8"`
	Name         string              `json:"name" binding:"required,max=100"`
	Kind         domain.CurrencyKind `json:"kind" binding:"required,oneof=FIAT CRYPTO"`
	Precision    int32               `json:"precision" binding:"min=0,max=8"`
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyCode string              `json:"currencyCode"`
	Symbol       string              `json:"symbol"`
	Name         string              `json:"name"`
	Kind         domain.CurrencyKind `json:"kind"`
	Precision    int32               `json:"precision"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse.
func ToCurrencyResponse(c *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode: c.CurrencyCode,
		Symbol:       c.Symbol,
		Name:         c.Name,
		Kind:         c.Kind,
		Precision:    c.Precision,
	}
}
