package domain

// CurrencyKind distinguishes the closed fiat set from open-ended crypto currencies.
type CurrencyKind string

const (
	CurrencyFiat   CurrencyKind = "FIAT"
	CurrencyCrypto CurrencyKind = "CRYPTO"
)

// Currency represents a supported currency and its monetary precision.
// Fiat currencies carry 2 decimal places except IRR which carries 0;
// crypto currencies carry up to 8.
type Currency struct {
	CurrencyCode string       `json:"currencyCode"` // Primary Key (e.g. "USD")
	Symbol       string       `json:"symbol"`
	Name         string       `json:"name"`
	Kind         CurrencyKind `json:"kind"`
	Precision    int32        `json:"precision"` // Decimal places for rounding
	AuditFields
}

// FiatCurrencyCodes is the closed set of recognized fiat currencies.
var FiatCurrencyCodes = []string{"IRR", "USD", "EUR", "AED", "GBP", "TRY"}

// IsKnownFiat reports whether code belongs to the closed fiat set.
func IsKnownFiat(code string) bool {
	for _, c := range FiatCurrencyCodes {
		if c == code {
			return true
		}
	}
	return false
}
