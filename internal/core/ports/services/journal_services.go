package services

import (
	"context"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
)

// JournalReaderSvc defines read operations over a tenant's journal.
type JournalReaderSvc interface {
	// GetEntry retrieves a specific entry with its lines.
	GetEntry(ctx context.Context, tenantID string, seq int64) (*domain.JournalEntry, error)

	// GetEntryByOrigin retrieves the entry projected from a business event.
	GetEntryByOrigin(ctx context.Context, tenantID string, origin domain.EventOrigin) (*domain.JournalEntry, error)

	// ScanEntries returns entries ordered by (effective date, sequence) with a
	// restart token for the next page.
	ScanEntries(ctx context.Context, tenantID string, filter domain.EntryFilter) ([]domain.JournalEntry, *string, error)
}

// JournalWriterSvc defines validated append access to a tenant's journal.
// Only the posting engine should hold a reference to this interface.
type JournalWriterSvc interface {
	// Append validates the entry (balance, accounts, currencies) and appends it
	// under the tenant's write serialization. The entry's Sequence is assigned.
	Append(ctx context.Context, entry *domain.JournalEntry, allowBackdated bool) error

	// MarkReversed records reversal linkage on an existing entry.
	MarkReversed(ctx context.Context, tenantID string, seq, reversedBy int64, actor string) error
}

// JournalSvcFacade combines journal service interfaces.
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
