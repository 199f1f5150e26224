package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultPrecision returns the conventional number of decimal places for a
// currency when the registry has no explicit entry: 0 for IRR, 8 for crypto,
// 2 for everything else.
func DefaultPrecision(currencyCode string, crypto bool) int32 {
	switch {
	case currencyCode == "IRR":
		return 0
	case crypto:
		return 8
	default:
		return 2
	}
}

// Round rounds a monetary amount to the currency precision using half-to-even.
func Round(amount decimal.Decimal, precision int32) decimal.Decimal {
	return amount.RoundBank(precision)
}

// MinorUnit returns one minor unit of the given precision, e.g. 0.01 at 2.
func MinorUnit(precision int32) decimal.Decimal {
	return decimal.New(1, -precision)
}

// Split divides a total into a rounded part and the remainder such that
// part + rest == total. Both sides are exact at the given precision; the
// remainder absorbs any rounding residual.
func Split(total, part decimal.Decimal, precision int32) (decimal.Decimal, decimal.Decimal) {
	rounded := Round(part, precision)
	return rounded, total.Sub(rounded)
}

// Residual returns total minus the sum of parts. The posting engine routes a
// non-zero residual (at most one minor unit per split) to the tenant's
// rounding account so every currency group still balances exactly.
func Residual(total decimal.Decimal, parts ...decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range parts {
		sum = sum.Add(p)
	}
	return total.Sub(sum)
}

// CheckPrecision verifies that the amount has no more decimal places than the
// currency allows.
func CheckPrecision(amount decimal.Decimal, currencyCode string, precision int32) error {
	if amount.Exponent() < -precision {
		return fmt.Errorf("amount %s has more than %d decimal places for %s", amount.String(), precision, currencyCode)
	}
	return nil
}
