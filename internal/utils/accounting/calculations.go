package accounting

import (
	"fmt"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount applies the correct sign to a line amount based on account
// type and side. Services and repositories share this so balance math never diverges.
//
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func CalculateSignedAmount(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	signedAmount := line.Amount
	isDebit := line.Side == domain.Debit

	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			signedAmount = signedAmount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			signedAmount = signedAmount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account %s", accountType, line.AccountCode)
	}
	return signedAmount, nil
}

// ValidateEntryBalance checks that an entry has at least two lines, positive
// amounts only, and per-currency debit sums equal to credit sums.
func ValidateEntryBalance(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("entry must have at least two lines")
	}

	debits := make(map[string]decimal.Decimal)
	credits := make(map[string]decimal.Decimal)
	for _, line := range lines {
		if line.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("line amount must be positive for account %s", line.AccountCode)
		}
		if line.Side == domain.Debit {
			debits[line.CurrencyCode] = debits[line.CurrencyCode].Add(line.Amount)
		} else {
			credits[line.CurrencyCode] = credits[line.CurrencyCode].Add(line.Amount)
		}
	}

	for ccy, d := range debits {
		if !d.Equal(credits[ccy]) {
			return fmt.Errorf("entry does not balance in %s: debits %s, credits %s", ccy, d.String(), credits[ccy].String())
		}
	}
	for ccy, c := range credits {
		if _, ok := debits[ccy]; !ok && !c.IsZero() {
			return fmt.Errorf("entry does not balance in %s: debits 0, credits %s", ccy, c.String())
		}
	}
	return nil
}
