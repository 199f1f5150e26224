package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a tenant-scoped market reference rate between two currencies,
// effective from a given instant. The posting engine uses it to split exchange
// proceeds into position value and FX margin when events omit an explicit
// market rate.
type ExchangeRate struct {
	ExchangeRateID string          `json:"exchangeRateID"`
	TenantID       string          `json:"tenantID"`
	FromCurrency   string          `json:"fromCurrencyCode"`
	ToCurrency     string          `json:"toCurrencyCode"`
	Rate           decimal.Decimal `json:"rate"`
	DateEffective  time.Time       `json:"dateEffective"`
	AuditFields
}
