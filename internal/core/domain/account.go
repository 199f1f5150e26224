package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// CashFlowTag classifies cash-bearing accounts for the cash-flow statement.
type CashFlowTag string

const (
	CashFlowOperating CashFlowTag = "OPERATING"
	CashFlowInvesting CashFlowTag = "INVESTING"
	CashFlowFinancing CashFlowTag = "FINANCING"
	CashFlowNone      CashFlowTag = "NONE"
)

// Account represents a ledger account within the core domain.
// Accounts are referenced by their stable per-tenant code, never by embedded copies.
type Account struct {
	TenantID     string      `json:"tenantID"`
	Code         string      `json:"code"` // Stable, unique per tenant
	Name         string      `json:"name"`
	AccountType  AccountType `json:"accountType"`
	CurrencyCode string      `json:"currencyCode"`
	ParentCode   string      `json:"parentCode"` // Empty for root accounts
	CashFlowTag  CashFlowTag `json:"cashFlowTag"`
	IsCash       bool        `json:"isCash"`   // Till or bank account, feeds the cash-flow statement
	IsActive     bool        `json:"isActive"` // Deactivated accounts are never deleted
	AuditFields
}

// NormalSide returns the side that increases the account's natural balance.
func (a Account) NormalSide() EntrySide {
	switch a.AccountType {
	case Asset, Expense:
		return Debit
	default:
		return Credit
	}
}

// Well-known account code prefixes seeded at tenant bootstrap. Role accounts are
// suffixed with the currency code, e.g. "CASH-USD".
const (
	AcctCash              = "CASH"     // Till cash (asset)
	AcctBank              = "BANK"     // Bank balance (asset)
	AcctCustomerPayable   = "CUSTPAY"  // Customer payable (liability)
	AcctFXPosition        = "FXPOS"    // FX bridge/position (asset)
	AcctFXRevenue         = "FXREV"    // FX margin revenue
	AcctFXExpense         = "FXEXP"    // FX spread expense
	AcctRemittanceTransit = "RIT"      // Remittance in transit (asset)
	AcctPartnerPayable    = "PARTNER"  // Remittance partner payable (liability)
	AcctChecksOutstanding = "CHECKOUT" // Checks outstanding (liability)
	AcctFeeReceivable     = "FEEREC"   // Fee receivable (asset)
	AcctCommissionRevenue = "COMMREV"  // Commission revenue
	AcctRounding          = "ROUND"    // Rounding residual (expense)
)

// RoleAccountCode builds the conventional code of a bootstrap account for a currency.
func RoleAccountCode(prefix, currencyCode string) string {
	return prefix + "-" + currencyCode
}
