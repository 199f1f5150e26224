package repositories

import (
	"context"
	"time"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations over the append-only journal.
type JournalReader interface {
	// FindEntryBySequence retrieves a single entry with its lines.
	FindEntryBySequence(ctx context.Context, tenantID string, seq int64) (*domain.JournalEntry, error)

	// FindEntryByOrigin retrieves the entry projected from a given business event,
	// used for idempotent resubmission.
	FindEntryByOrigin(ctx context.Context, tenantID string, origin domain.EventOrigin) (*domain.JournalEntry, error)

	// ScanEntries returns entries ordered by (effective date, sequence), restartable
	// via the filter's AfterSeq cursor. The returned token encodes the next cursor.
	ScanEntries(ctx context.Context, tenantID string, filter domain.EntryFilter) ([]domain.JournalEntry, *string, error)

	// SumAccountSides sums debit and credit amounts posted to an account with
	// effective date in (after, upTo]. Date-based so entries appended out of
	// sequence order, backdated or future-dated, are never skipped. Also
	// returns the highest sequence seen inside the window.
	SumAccountSides(ctx context.Context, tenantID, accountCode string, after, upTo time.Time) (debit, credit decimal.Decimal, maxSeq int64, err error)

	// FindAccountLines returns an account's lines within [from, to] ordered by
	// (effective date, sequence), without running balances.
	FindAccountLines(ctx context.Context, tenantID, accountCode string, from, to time.Time) ([]domain.LedgerLine, error)

	// AccountHasLines reports whether any journal line references the account.
	AccountHasLines(ctx context.Context, tenantID, accountCode string) (bool, error)
}

// JournalWriter defines write operations over the journal. Entries are
// append-only; MarkReversed is the only permitted mutation and records
// reversal linkage without touching lines or amounts.
type JournalWriter interface {
	// AppendEntry atomically assigns the tenant's next sequence number and
	// persists the entry, its lines and its origin idempotency marker.
	// A repeated origin yields apperrors.ErrDuplicate.
	AppendEntry(ctx context.Context, entry *domain.JournalEntry) error

	// MarkReversed links an entry to the entry that reversed it.
	MarkReversed(ctx context.Context, tenantID string, seq, reversedBy int64, actor string, at time.Time) error
}

// SnapshotStore persists derived end-of-day balance snapshots.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snap domain.BalanceSnapshot) error

	// FindSnapshot returns the newest snapshot for the account dated <= notAfter.
	FindSnapshot(ctx context.Context, tenantID, accountCode string, notAfter time.Time) (*domain.BalanceSnapshot, error)

	// LatestSnapshotDate returns the newest snapshot date across all of the
	// tenant's accounts, or nil when no snapshots exist.
	LatestSnapshotDate(ctx context.Context, tenantID string) (*time.Time, error)

	// InvalidateSnapshots drops all snapshots dated >= from for the tenant.
	InvalidateSnapshots(ctx context.Context, tenantID string, from time.Time) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	SnapshotStore
}
