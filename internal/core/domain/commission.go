package domain

import "github.com/shopspring/decimal"

// CommissionRule is one row of a tenant's commission policy, keyed by event kind,
// currency and optional customer tier. Lower Priority wins when several rules
// match; remaining ties resolve by rule ID so selection stays deterministic.
type CommissionRule struct {
	RuleID             string          `json:"ruleID"`
	TenantID           string          `json:"tenantID"`
	EventKind          EventKind       `json:"eventKind"`
	CurrencyCode       string          `json:"currencyCode"`
	CustomerTier       string          `json:"customerTier"` // Empty matches any tier
	Percent            decimal.Decimal `json:"percent"`
	Floor              decimal.Decimal `json:"floor"`
	Cap                decimal.Decimal `json:"cap"` // Zero means no cap
	Priority           int             `json:"priority"`
	Waived             bool            `json:"waived"`
	RevenueAccountCode string          `json:"revenueAccountCode"`
	ExpenseAccountCode string          `json:"expenseAccountCode"` // Optional split
	AuditFields
}

// Matches reports whether the rule applies to the given event kind, currency and tier.
func (r CommissionRule) Matches(kind EventKind, currency, tier string) bool {
	if r.EventKind != kind || r.CurrencyCode != currency {
		return false
	}
	return r.CustomerTier == "" || r.CustomerTier == tier
}

// CommissionResult is the outcome of a policy evaluation. Waived results carry a
// zero amount and produce no posting.
type CommissionResult struct {
	Amount             decimal.Decimal `json:"amount"`
	CurrencyCode       string          `json:"currencyCode"`
	RevenueAccountCode string          `json:"revenueAccountCode"`
	ExpenseAccountCode string          `json:"expenseAccountCode"`
	RuleID             string          `json:"ruleID"`
	Waived             bool            `json:"waived"`
}
