package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	portsrepo "github.com/sarrafly/exchange_backoffice/internal/core/ports/repositories"
	portssvc "github.com/sarrafly/exchange_backoffice/internal/core/ports/services"
	"github.com/sarrafly/exchange_backoffice/internal/utils/accounting"
)

// balanceService derives account balances and ledger views from the journal.
// An end-of-day snapshot, when present, seeds the sum so only entries dated
// after the snapshot day need scanning. Backdated appends invalidate snapshots
// before they commit, so a snapshot read here is always consistent.
type balanceService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader) portssvc.BalanceSvcFacade {
	return &balanceService{journalRepo: journalRepo, accountRepo: accountRepo}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// AccountBalance returns the account's balance including all entries with
// effective date <= asOf. Debits increase normal-debit accounts, credits
// increase normal-credit accounts.
func (s *balanceService) AccountBalance(ctx context.Context, tenantID, accountCode string, asOf time.Time) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, tenantID, accountCode)
	if err != nil {
		return decimal.Zero, err
	}

	opening := decimal.Zero
	var after time.Time
	if snap, err := s.journalRepo.FindSnapshot(ctx, tenantID, accountCode, asOf); err == nil && snap != nil {
		opening = snap.Balance
		after = snap.AsOf
	}

	debit, credit, _, err := s.journalRepo.SumAccountSides(ctx, tenantID, accountCode, after, asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum account sides: %w", err)
	}

	if account.NormalSide() == domain.Debit {
		return opening.Add(debit).Sub(credit), nil
	}
	return opening.Add(credit).Sub(debit), nil
}

// GeneralLedger returns the account's lines within [from, to] with a running
// balance column seeded from the opening balance just before from.
func (s *balanceService) GeneralLedger(ctx context.Context, tenantID, accountCode string, from, to time.Time) ([]domain.LedgerLine, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, tenantID, accountCode)
	if err != nil {
		return nil, err
	}

	opening, err := s.AccountBalance(ctx, tenantID, accountCode, from.Add(-time.Nanosecond))
	if err != nil {
		return nil, err
	}

	lines, err := s.journalRepo.FindAccountLines(ctx, tenantID, accountCode, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger lines: %w", err)
	}

	running := opening
	out := make([]domain.LedgerLine, 0, len(lines))
	for _, line := range lines {
		signed, err := accounting.CalculateSignedAmount(domain.JournalLine{
			AccountCode:  accountCode,
			Side:         line.Side,
			Amount:       line.Amount,
			CurrencyCode: line.CurrencyCode,
		}, account.AccountType)
		if err != nil {
			return nil, err
		}
		running = running.Add(signed)
		line.RunningBalance = running
		out = append(out, line)
	}
	return out, nil
}

// SnapshotEndOfDay materialises balance snapshots for all active accounts at
// end of the given day and returns how many were written.
func (s *balanceService) SnapshotEndOfDay(ctx context.Context, tenantID string, day time.Time, actor string) (int, error) {
	day = day.UTC().Truncate(24 * time.Hour)
	endOfDay := day.Add(24*time.Hour - time.Nanosecond)

	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, nil)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, account := range accounts {
		if !account.IsActive {
			continue
		}

		opening := decimal.Zero
		var after time.Time
		var lastSeq int64
		if snap, err := s.journalRepo.FindSnapshot(ctx, tenantID, account.Code, endOfDay); err == nil && snap != nil {
			opening = snap.Balance
			after = snap.AsOf
			lastSeq = snap.LastSeq
		}

		debit, credit, maxSeq, err := s.journalRepo.SumAccountSides(ctx, tenantID, account.Code, after, endOfDay)
		if err != nil {
			return written, fmt.Errorf("failed to sum %s: %w", account.Code, err)
		}

		balance := opening.Add(debit).Sub(credit)
		if account.NormalSide() == domain.Credit {
			balance = opening.Add(credit).Sub(debit)
		}
		if maxSeq > lastSeq {
			lastSeq = maxSeq
		}

		if err := s.journalRepo.SaveSnapshot(ctx, domain.BalanceSnapshot{
			TenantID:    tenantID,
			AccountCode: account.Code,
			AsOf:        endOfDay,
			Balance:     balance,
			LastSeq:     lastSeq,
		}); err != nil {
			return written, fmt.Errorf("failed to save snapshot for %s: %w", account.Code, err)
		}
		written++
	}

	s.LogInfo(ctx, "End-of-day snapshots written", "tenant_id", tenantID, "day", day.Format("2006-01-02"), "accounts", written)
	return written, nil
}
