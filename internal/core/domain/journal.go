package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntrySide indicates whether a journal line is a debit or a credit.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// Opposite returns the mirrored side, used when building reversing entries.
func (s EntrySide) Opposite() EntrySide {
	if s == Debit {
		return Credit
	}
	return Debit
}

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// EventOrigin references the business event a journal entry was projected from.
type EventOrigin struct {
	Kind    EventKind `json:"kind"`
	EventID string    `json:"eventID"`
}

// JournalEntry is an atomic, balanced set of debit/credit lines appended to a
// tenant's journal. Entries are immutable once persisted; corrections are made
// via reversing entries linked back by sequence number.
type JournalEntry struct {
	EntryID       string      `json:"entryID"`  // Primary Key (UUID)
	TenantID      string      `json:"tenantID"` // Isolation boundary
	Sequence      int64       `json:"sequence"` // Monotonic per tenant, assigned at append
	EffectiveDate time.Time   `json:"effectiveDate"`
	Origin        EventOrigin `json:"origin"`
	Description   string      `json:"description"`
	Status        EntryStatus `json:"status"`
	Reverses      *int64      `json:"reverses"`   // Sequence of the entry this one reverses
	ReversedBy    *int64      `json:"reversedBy"` // Sequence of the entry that reversed this one
	Lines         []JournalLine
	AuditFields
}

// JournalLine is a single debit or credit against one account.
// Amounts are strictly positive; the side carries the sign.
type JournalLine struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	AccountCode  string          `json:"accountCode"`
	Side         EntrySide       `json:"side"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// CurrencyTotals sums the entry's debits and credits per currency.
func (e *JournalEntry) CurrencyTotals() map[string][2]decimal.Decimal {
	totals := make(map[string][2]decimal.Decimal)
	for _, line := range e.Lines {
		t := totals[line.CurrencyCode]
		if line.Side == Debit {
			t[0] = t[0].Add(line.Amount)
		} else {
			t[1] = t[1].Add(line.Amount)
		}
		totals[line.CurrencyCode] = t
	}
	return totals
}

// IsBalanced reports whether debits equal credits for every currency present.
func (e *JournalEntry) IsBalanced() bool {
	for _, t := range e.CurrencyTotals() {
		if !t[0].Equal(t[1]) {
			return false
		}
	}
	return true
}

// EntryFilter narrows a journal scan. Zero values mean "no restriction".
type EntryFilter struct {
	From         *time.Time
	To           *time.Time
	AccountCode  string
	OriginKind   EventKind
	AfterSeq     int64 // Restart cursor: scan resumes after this entry in (date, sequence) order
	Limit        int
	IncludeLines bool
}

// BalanceSnapshot caches an account balance at end of a given day.
// Snapshots are derived state and may be invalidated by backdated appends.
type BalanceSnapshot struct {
	TenantID    string          `json:"tenantID"`
	AccountCode string          `json:"accountCode"`
	AsOf        time.Time       `json:"asOf"` // End of day, inclusive
	Balance     decimal.Decimal `json:"balance"`
	LastSeq     int64           `json:"lastSeq"` // Sequence of the newest entry included
}

// LedgerLine is one row of a general-ledger view with its running balance.
type LedgerLine struct {
	Sequence       int64           `json:"sequence"`
	EffectiveDate  time.Time       `json:"effectiveDate"`
	Description    string          `json:"description"`
	Side           EntrySide       `json:"side"`
	Amount         decimal.Decimal `json:"amount"`
	CurrencyCode   string          `json:"currencyCode"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}
