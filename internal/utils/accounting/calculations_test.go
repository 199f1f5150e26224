package accounting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
)

func line(side domain.EntrySide, amount, currency string) domain.JournalLine {
	return domain.JournalLine{
		AccountCode:  "ACCT",
		Side:         side,
		Amount:       decimal.RequireFromString(amount),
		CurrencyCode: currency,
	}
}

func TestCalculateSignedAmount(t *testing.T) {
	testCases := []struct {
		name        string
		side        domain.EntrySide
		accountType domain.AccountType
		expected    string
	}{
		{"debit to asset is positive", domain.Debit, domain.Asset, "100"},
		{"credit to asset is negative", domain.Credit, domain.Asset, "-100"},
		{"debit to expense is positive", domain.Debit, domain.Expense, "100"},
		{"debit to liability is negative", domain.Debit, domain.Liability, "-100"},
		{"credit to liability is positive", domain.Credit, domain.Liability, "100"},
		{"credit to revenue is positive", domain.Credit, domain.Revenue, "100"},
		{"debit to equity is negative", domain.Debit, domain.Equity, "-100"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			signed, err := CalculateSignedAmount(line(tc.side, "100", "USD"), tc.accountType)
			require.NoError(t, err)
			assert.True(t, signed.Equal(decimal.RequireFromString(tc.expected)), "got %s", signed.String())
		})
	}
}

func TestCalculateSignedAmount_UnknownAccountType(t *testing.T) {
	_, err := CalculateSignedAmount(line(domain.Debit, "100", "USD"), domain.AccountType("BOGUS"))
	assert.Error(t, err)
}

func TestValidateEntryBalance(t *testing.T) {
	t.Run("balanced single currency", func(t *testing.T) {
		assert.NoError(t, ValidateEntryBalance([]domain.JournalLine{
			line(domain.Debit, "50", "USD"),
			line(domain.Credit, "50", "USD"),
		}))
	})

	t.Run("balanced per currency group", func(t *testing.T) {
		assert.NoError(t, ValidateEntryBalance([]domain.JournalLine{
			line(domain.Debit, "100", "USD"),
			line(domain.Credit, "100", "USD"),
			line(domain.Debit, "5000000", "IRR"),
			line(domain.Credit, "5000000", "IRR"),
		}))
	})

	t.Run("fewer than two lines", func(t *testing.T) {
		assert.Error(t, ValidateEntryBalance([]domain.JournalLine{line(domain.Debit, "50", "USD")}))
	})

	t.Run("non-positive amount", func(t *testing.T) {
		assert.Error(t, ValidateEntryBalance([]domain.JournalLine{
			line(domain.Debit, "0", "USD"),
			line(domain.Credit, "0", "USD"),
		}))
	})

	t.Run("cross-currency totals never offset", func(t *testing.T) {
		assert.Error(t, ValidateEntryBalance([]domain.JournalLine{
			line(domain.Debit, "100", "USD"),
			line(domain.Credit, "100", "EUR"),
		}))
	})

	t.Run("unbalanced currency group", func(t *testing.T) {
		assert.Error(t, ValidateEntryBalance([]domain.JournalLine{
			line(domain.Debit, "100", "USD"),
			line(domain.Credit, "99.99", "USD"),
		}))
	})
}
