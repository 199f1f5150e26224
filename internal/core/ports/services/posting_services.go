package services

import (
	"context"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
)

// PostingSvcFacade is the sole writer of journal entries. Every posted business
// event produces one balanced entry (or none, for waived commissions).
type PostingSvcFacade interface {
	// Submit projects a business event into a balanced journal entry and appends
	// it atomically. Resubmitting an accepted eventID returns the original
	// sequence with Duplicate set.
	Submit(ctx context.Context, tenantID string, event domain.BusinessEvent, actor string) (*domain.PostingResult, error)

	// SubmitBackdated behaves like Submit but allows an effective date at or
	// before the newest balance snapshot, invalidating affected snapshots.
	SubmitBackdated(ctx context.Context, tenantID string, event domain.BusinessEvent, actor string) (*domain.PostingResult, error)

	// Reverse appends a mirror entry for the given sequence and links the pair.
	// Reversing an already-reversed entry fails with apperrors.ErrDoubleReversal.
	Reverse(ctx context.Context, tenantID string, seq int64, actor string) (*domain.JournalEntry, error)
}
