package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single row in a trial balance report.
// A positive normal balance on an asset/expense account lands in the debit
// column, otherwise in the credit column.
type TrialBalanceRow struct {
	AccountCode  string          `json:"accountCode"`
	AccountName  string          `json:"accountName"`
	AccountType  AccountType     `json:"accountType"`
	CurrencyCode string          `json:"currencyCode"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
}

// TrialBalanceReport groups trial balance rows per currency with totals.
type TrialBalanceReport struct {
	AsOf       time.Time                  `json:"asOf"`
	Rows       []TrialBalanceRow          `json:"rows"`
	Totals     map[string]TrialBalanceSum `json:"totals"` // Keyed by currency code
	IsBalanced bool                       `json:"isBalanced"`
}

// TrialBalanceSum is the per-currency debit/credit total of a trial balance.
type TrialBalanceSum struct {
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// CashFlowReport is the period cash-flow statement, classified by account tag.
// Amounts in different currencies never sum into one figure; every currency
// carries its own column set.
type CashFlowReport struct {
	From       time.Time                 `json:"from"`
	To         time.Time                 `json:"to"`
	Currencies map[string]CashFlowColumn `json:"currencies"` // Keyed by currency code
}

// CashFlowColumn holds one currency's cash-flow figures. Net cash flow is cash
// debits minus cash credits; ending cash is opening plus net.
type CashFlowColumn struct {
	Operating   decimal.Decimal `json:"operating"`
	Investing   decimal.Decimal `json:"investing"`
	Financing   decimal.Decimal `json:"financing"`
	NetCashFlow decimal.Decimal `json:"netCashFlow"`
	OpeningCash decimal.Decimal `json:"openingCash"`
	EndingCash  decimal.Decimal `json:"endingCash"`
}

// AccountAmount represents an account with its net amount for financial reports.
type AccountAmount struct {
	AccountCode  string          `json:"accountCode"`
	Name         string          `json:"name"`
	CurrencyCode string          `json:"currencyCode"`
	NetAmount    decimal.Decimal `json:"netAmount"`
}

// PAndLReport represents a profit and loss report over a period. Net profit is
// totalled per currency.
type PAndLReport struct {
	Revenue   []AccountAmount            `json:"revenue"`
	Expenses  []AccountAmount            `json:"expenses"`
	NetProfit map[string]decimal.Decimal `json:"netProfit"` // Keyed by currency code
}

// TenantComparisonRow summarises one tenant's activity over a named period.
// Revenue, expense and net profit are kept per currency; the book currency
// names the figure used for ranking.
type TenantComparisonRow struct {
	TenantID      string                     `json:"tenantID"`
	TenantName    string                     `json:"tenantName"`
	BookCurrency  string                     `json:"bookCurrency"`
	Revenue       map[string]decimal.Decimal `json:"revenue"`   // Keyed by currency code
	Expense       map[string]decimal.Decimal `json:"expense"`   // Keyed by currency code
	NetProfit     map[string]decimal.Decimal `json:"netProfit"` // Keyed by currency code
	EntryCount    int                        `json:"entryCount"`
	CustomerCount int                        `json:"customerCount"`
}
