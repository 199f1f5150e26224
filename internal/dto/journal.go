package dto

import (
	"time"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineResponse defines the data returned for one entry line.
type JournalLineResponse struct {
	AccountCode  string          `json:"accountCode"`
	Side         string          `json:"side"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID       string                `json:"entryID"`
	Sequence      int64                 `json:"sequence"`
	EffectiveDate time.Time             `json:"effectiveDate"`
	OriginKind    domain.EventKind      `json:"originKind"`
	OriginEventID string                `json:"originEventID"`
	Description   string                `json:"description"`
	Status        domain.EntryStatus    `json:"status"`
	Reverses      *int64                `json:"reverses,omitempty"`
	ReversedBy    *int64                `json:"reversedBy,omitempty"`
	Lines         []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	CreatedBy     string                `json:"createdBy"`
}

// ScanEntriesResponse is a page of journal entries plus the restart token.
type ScanEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// LedgerLineResponse is one general-ledger row with its running balance.
type LedgerLineResponse struct {
	Sequence       int64           `json:"sequence"`
	EffectiveDate  time.Time       `json:"effectiveDate"`
	Description    string          `json:"description"`
	Side           string          `json:"side"`
	Amount         decimal.Decimal `json:"amount"`
	CurrencyCode   string          `json:"currencyCode"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// BalanceResponse is an account balance at a cutoff.
type BalanceResponse struct {
	AccountCode string          `json:"accountCode"`
	AsOf        time.Time       `json:"asOf"`
	Balance     decimal.Decimal `json:"balance"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:       e.EntryID,
		Sequence:      e.Sequence,
		EffectiveDate: e.EffectiveDate,
		OriginKind:    e.Origin.Kind,
		OriginEventID: e.Origin.EventID,
		Description:   e.Description,
		Status:        e.Status,
		Reverses:      e.Reverses,
		ReversedBy:    e.ReversedBy,
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
	}
	for _, line := range e.Lines {
		resp.Lines = append(resp.Lines, JournalLineResponse{
			AccountCode:  line.AccountCode,
			Side:         string(line.Side),
			Amount:       line.Amount,
			CurrencyCode: line.CurrencyCode,
		})
	}
	return resp
}

// ToLedgerLineResponses converts general-ledger rows to response DTOs.
func ToLedgerLineResponses(lines []domain.LedgerLine) []LedgerLineResponse {
	responses := make([]LedgerLineResponse, len(lines))
	for i, l := range lines {
		responses[i] = LedgerLineResponse{
			Sequence:       l.Sequence,
			EffectiveDate:  l.EffectiveDate,
			Description:    l.Description,
			Side:           string(l.Side),
			Amount:         l.Amount,
			CurrencyCode:   l.CurrencyCode,
			RunningBalance: l.RunningBalance,
		}
	}
	return responses
}
