package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sarrafly/exchange_backoffice/internal/apperrors"
	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	portsrepo "github.com/sarrafly/exchange_backoffice/internal/core/ports/repositories"
	portssvc "github.com/sarrafly/exchange_backoffice/internal/core/ports/services"
	"github.com/sarrafly/exchange_backoffice/internal/utils/accounting"
	"github.com/sarrafly/exchange_backoffice/internal/utils/money"
)

// journalService guards the append-only journal. Every append passes the full
// validation battery (balance, accounts, currencies, precision) and runs under
// the tenant's write serialization so sequence numbers stay gap-free and
// idempotency checks cannot race.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
	currencySvc portssvc.CurrencySvcFacade
	writeGate   *tenantWriteGate
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader, currencySvc portssvc.CurrencySvcFacade) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		currencySvc: currencySvc,
		writeGate:   newTenantWriteGate(defaultQueueDepth),
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// GetEntry retrieves a specific entry with its lines.
func (s *journalService) GetEntry(ctx context.Context, tenantID string, seq int64) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryBySequence(ctx, tenantID, seq)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", "tenant_id", tenantID, "sequence", seq)
		}
		return nil, err
	}
	return entry, nil
}

// GetEntryByOrigin retrieves the entry projected from a business event.
func (s *journalService) GetEntryByOrigin(ctx context.Context, tenantID string, origin domain.EventOrigin) (*domain.JournalEntry, error) {
	return s.journalRepo.FindEntryByOrigin(ctx, tenantID, origin)
}

// ScanEntries returns entries ordered by (effective date, sequence) with a
// restart token for the next page.
func (s *journalService) ScanEntries(ctx context.Context, tenantID string, filter domain.EntryFilter) ([]domain.JournalEntry, *string, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return s.journalRepo.ScanEntries(ctx, tenantID, filter)
}

// Append validates and persists a new journal entry. The entry's Sequence is
// assigned by the repository inside the append transaction. When allowBackdated
// is false, an effective date at or before the tenant's newest snapshot is
// rejected with ErrConflict; when true, affected snapshots are invalidated.
func (s *journalService) Append(ctx context.Context, entry *domain.JournalEntry, allowBackdated bool) error {
	if err := s.validateEntry(ctx, entry); err != nil {
		return err
	}

	release, err := s.writeGate.Acquire(ctx, entry.TenantID)
	if err != nil {
		return err
	}
	defer release()

	latest, err := s.journalRepo.LatestSnapshotDate(ctx, entry.TenantID)
	if err != nil {
		return fmt.Errorf("failed to check snapshot horizon: %w", err)
	}
	if latest != nil && !entry.EffectiveDate.After(*latest) {
		if !allowBackdated {
			return fmt.Errorf("%w: effective date %s is not after snapshot horizon %s",
				apperrors.ErrConflict, entry.EffectiveDate.Format("2006-01-02"), latest.Format("2006-01-02"))
		}
		// Snapshots at or after the backdated effective date are stale now.
		day := entry.EffectiveDate.Truncate(24 * time.Hour)
		if err := s.journalRepo.InvalidateSnapshots(ctx, entry.TenantID, day); err != nil {
			return fmt.Errorf("failed to invalidate snapshots: %w", err)
		}
		s.LogWarn(ctx, "Backdated append invalidated snapshots", "tenant_id", entry.TenantID, "from", day.Format("2006-01-02"))
	}

	if err := s.journalRepo.AppendEntry(ctx, entry); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return err
		}
		s.LogError(ctx, err, "Failed to append journal entry", "tenant_id", entry.TenantID, "origin_kind", entry.Origin.Kind, "origin_id", entry.Origin.EventID)
		return fmt.Errorf("failed to append journal entry: %w", err)
	}

	s.LogInfo(ctx, "Journal entry appended",
		"tenant_id", entry.TenantID,
		"sequence", entry.Sequence,
		"origin_kind", entry.Origin.Kind,
		"lines", len(entry.Lines))
	return nil
}

// MarkReversed records reversal linkage on an existing entry.
func (s *journalService) MarkReversed(ctx context.Context, tenantID string, seq, reversedBy int64, actor string) error {
	if err := s.journalRepo.MarkReversed(ctx, tenantID, seq, reversedBy, actor, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to mark entry reversed", "tenant_id", tenantID, "sequence", seq, "reversed_by", reversedBy)
		return err
	}
	return nil
}

// validateEntry runs the full pre-append battery. Line amounts must be positive
// and within currency precision, every referenced account must exist, be active
// and match the line currency, and per-currency debits must equal credits.
func (s *journalService) validateEntry(ctx context.Context, entry *domain.JournalEntry) error {
	if entry.TenantID == "" {
		return fmt.Errorf("%w: tenant is required", apperrors.ErrValidation)
	}
	if entry.EffectiveDate.IsZero() {
		return fmt.Errorf("%w: effective date is required", apperrors.ErrValidation)
	}
	if entry.Origin.Kind == "" || entry.Origin.EventID == "" {
		return fmt.Errorf("%w: entry origin is required", apperrors.ErrValidation)
	}

	if err := accounting.ValidateEntryBalance(entry.Lines); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrUnbalanced, err.Error())
	}

	codes := make([]string, 0, len(entry.Lines))
	seen := make(map[string]bool, len(entry.Lines))
	for _, line := range entry.Lines {
		if !seen[line.AccountCode] {
			seen[line.AccountCode] = true
			codes = append(codes, line.AccountCode)
		}
	}

	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, entry.TenantID, codes)
	if err != nil {
		return fmt.Errorf("failed to resolve line accounts: %w", err)
	}

	for _, line := range entry.Lines {
		account, ok := accounts[line.AccountCode]
		if !ok {
			return fmt.Errorf("%w: account %s does not exist", apperrors.ErrInvalidAccount, line.AccountCode)
		}
		if !account.IsActive {
			return fmt.Errorf("%w: account %s is deactivated", apperrors.ErrInactiveAccount, line.AccountCode)
		}
		if account.CurrencyCode != "" && account.CurrencyCode != line.CurrencyCode {
			return fmt.Errorf("%w: account %s holds %s, line posts %s",
				apperrors.ErrCurrencyMismatch, line.AccountCode, account.CurrencyCode, line.CurrencyCode)
		}
		precision, err := s.currencySvc.Precision(ctx, line.CurrencyCode)
		if err != nil {
			return fmt.Errorf("failed to resolve precision for %s: %w", line.CurrencyCode, err)
		}
		if err := money.CheckPrecision(line.Amount, line.CurrencyCode, precision); err != nil {
			return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
	}
	return nil
}
