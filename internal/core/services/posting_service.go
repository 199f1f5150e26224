package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sarrafly/exchange_backoffice/internal/apperrors"
	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	portssvc "github.com/sarrafly/exchange_backoffice/internal/core/ports/services"
	"github.com/sarrafly/exchange_backoffice/internal/utils/money"
)

// postingService is the sole writer of journal entries. Each business event
// kind has a fixed projection rule mapping it onto balanced debit/credit lines;
// multi-currency events emit one independently balanced group per currency.
type postingService struct {
	BaseService
	journalSvc    portssvc.JournalSvcFacade
	currencySvc   portssvc.CurrencySvcFacade
	commissionSvc portssvc.CommissionSvcFacade
	rateSvc       portssvc.ExchangeRateSvcFacade
}

// NewPostingService creates a new PostingService.
func NewPostingService(
	journalSvc portssvc.JournalSvcFacade,
	currencySvc portssvc.CurrencySvcFacade,
	commissionSvc portssvc.CommissionSvcFacade,
	rateSvc portssvc.ExchangeRateSvcFacade,
) portssvc.PostingSvcFacade {
	return &postingService{
		journalSvc:    journalSvc,
		currencySvc:   currencySvc,
		commissionSvc: commissionSvc,
		rateSvc:       rateSvc,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// Submit projects a business event into a balanced journal entry and appends it.
func (s *postingService) Submit(ctx context.Context, tenantID string, event domain.BusinessEvent, actor string) (*domain.PostingResult, error) {
	return s.submit(ctx, tenantID, event, actor, false)
}

// SubmitBackdated behaves like Submit but allows an effective date at or before
// the newest balance snapshot, invalidating affected snapshots.
func (s *postingService) SubmitBackdated(ctx context.Context, tenantID string, event domain.BusinessEvent, actor string) (*domain.PostingResult, error) {
	return s.submit(ctx, tenantID, event, actor, true)
}

func (s *postingService) submit(ctx context.Context, tenantID string, event domain.BusinessEvent, actor string, allowBackdated bool) (*domain.PostingResult, error) {
	event.TenantID = tenantID
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	origin := domain.EventOrigin{Kind: event.Kind, EventID: event.EventID}
	if existing, err := s.findByOrigin(ctx, tenantID, origin); err != nil {
		return nil, err
	} else if existing != nil {
		if err := s.repairReversalLink(ctx, tenantID, existing, actor); err != nil {
			return nil, err
		}
		s.LogInfo(ctx, "Duplicate event submission", "tenant_id", tenantID, "event_id", event.EventID, "sequence", existing.Sequence)
		return &domain.PostingResult{Sequence: existing.Sequence, EntryID: existing.EntryID, Duplicate: true}, nil
	}

	entry, waived, err := s.project(ctx, &event, actor)
	if err != nil {
		return nil, err
	}
	if waived {
		s.LogInfo(ctx, "Commission waived by policy", "tenant_id", tenantID, "event_id", event.EventID)
		return &domain.PostingResult{Waived: true}, nil
	}

	if err := s.journalSvc.Append(ctx, entry, allowBackdated); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost the race to a concurrent submission of the same event.
			if existing, ferr := s.findByOrigin(ctx, tenantID, origin); ferr == nil && existing != nil {
				if lerr := s.repairReversalLink(ctx, tenantID, existing, actor); lerr != nil {
					return nil, lerr
				}
				return &domain.PostingResult{Sequence: existing.Sequence, EntryID: existing.EntryID, Duplicate: true}, nil
			}
		}
		return nil, err
	}

	// Cancel projections mirror an earlier entry; record the linkage.
	if entry.Reverses != nil {
		if err := s.journalSvc.MarkReversed(ctx, tenantID, *entry.Reverses, entry.Sequence, actor); err != nil {
			return nil, err
		}
	}

	return &domain.PostingResult{Sequence: entry.Sequence, EntryID: entry.EntryID}, nil
}

// repairReversalLink re-records the linkage for an already-posted reversing
// entry. A crash between append and MarkReversed leaves the reversed entry
// unlinked; the retried submission lands here and finishes the job. A link
// already in place reports ErrDoubleReversal, which is the healthy state.
func (s *postingService) repairReversalLink(ctx context.Context, tenantID string, reversal *domain.JournalEntry, actor string) error {
	if reversal.Reverses == nil {
		return nil
	}
	err := s.journalSvc.MarkReversed(ctx, tenantID, *reversal.Reverses, reversal.Sequence, actor)
	if err != nil && !errors.Is(err, apperrors.ErrDoubleReversal) {
		return err
	}
	return nil
}

func (s *postingService) findByOrigin(ctx context.Context, tenantID string, origin domain.EventOrigin) (*domain.JournalEntry, error) {
	entry, err := s.journalSvc.GetEntryByOrigin(ctx, tenantID, origin)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check event origin: %w", err)
	}
	return entry, nil
}

// Reverse appends a mirror entry for the given sequence and links the pair.
func (s *postingService) Reverse(ctx context.Context, tenantID string, seq int64, actor string) (*domain.JournalEntry, error) {
	original, err := s.journalSvc.GetEntry(ctx, tenantID, seq)
	if err != nil {
		return nil, err
	}
	if original.ReversedBy != nil {
		return nil, fmt.Errorf("%w: entry %d already reversed by %d", apperrors.ErrDoubleReversal, seq, *original.ReversedBy)
	}

	now := time.Now().UTC()
	reversal := &domain.JournalEntry{
		EntryID:       uuid.NewString(),
		TenantID:      tenantID,
		EffectiveDate: now,
		Origin:        domain.EventOrigin{Kind: domain.EventReversal, EventID: fmt.Sprintf("%s:%d", tenantID, seq)},
		Description:   fmt.Sprintf("Reversal of entry %d", seq),
		Status:        domain.Posted,
		Reverses:      &seq,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	for _, line := range original.Lines {
		reversal.Lines = append(reversal.Lines, domain.JournalLine{
			LineID:       uuid.NewString(),
			EntryID:      reversal.EntryID,
			AccountCode:  line.AccountCode,
			Side:         line.Side.Opposite(),
			Amount:       line.Amount,
			CurrencyCode: line.CurrencyCode,
		})
	}

	// Reversals post at the current instant, which may fall on an already
	// snapshotted day.
	if err := s.journalSvc.Append(ctx, reversal, true); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// The reversing entry was already posted but the original shows no
			// link, so an earlier attempt crashed between the two writes.
			// Finish the linkage and hand back the posted reversal.
			existing, ferr := s.findByOrigin(ctx, tenantID, reversal.Origin)
			if ferr != nil || existing == nil {
				return nil, fmt.Errorf("%w: entry %d already reversed", apperrors.ErrDoubleReversal, seq)
			}
			if lerr := s.repairReversalLink(ctx, tenantID, existing, actor); lerr != nil {
				return nil, lerr
			}
			return existing, nil
		}
		return nil, err
	}

	if err := s.journalSvc.MarkReversed(ctx, tenantID, seq, reversal.Sequence, actor); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Entry reversed", "tenant_id", tenantID, "sequence", seq, "reversal_sequence", reversal.Sequence)
	return reversal, nil
}

// entryBuilder accumulates projection lines for one journal entry.
type entryBuilder struct {
	entry *domain.JournalEntry
}

func newEntryBuilder(event *domain.BusinessEvent, actor string) *entryBuilder {
	now := time.Now().UTC()
	return &entryBuilder{entry: &domain.JournalEntry{
		EntryID:       uuid.NewString(),
		TenantID:      event.TenantID,
		EffectiveDate: event.EffectiveDate,
		Origin:        domain.EventOrigin{Kind: event.Kind, EventID: event.EventID},
		Description:   event.Description,
		Status:        domain.Posted,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}}
}

func (b *entryBuilder) add(accountCode string, side domain.EntrySide, amount decimal.Decimal, currency string) {
	if amount.IsZero() {
		return
	}
	b.entry.Lines = append(b.entry.Lines, domain.JournalLine{
		LineID:       uuid.NewString(),
		EntryID:      b.entry.EntryID,
		AccountCode:  accountCode,
		Side:         side,
		Amount:       amount,
		CurrencyCode: currency,
	})
}

func (b *entryBuilder) debit(accountCode string, amount decimal.Decimal, currency string) {
	b.add(accountCode, domain.Debit, amount, currency)
}

func (b *entryBuilder) credit(accountCode string, amount decimal.Decimal, currency string) {
	b.add(accountCode, domain.Credit, amount, currency)
}

// settleResidual balances a currency group whose debit and credit sums drifted
// apart by rounding, routing at most one minor unit to the rounding account.
// Larger imbalances are left for the append-time balance check to reject.
func (b *entryBuilder) settleResidual(currency string, precision int32) {
	var debits, credits decimal.Decimal
	for _, line := range b.entry.Lines {
		if line.CurrencyCode != currency {
			continue
		}
		if line.Side == domain.Debit {
			debits = debits.Add(line.Amount)
		} else {
			credits = credits.Add(line.Amount)
		}
	}
	residual := money.Residual(debits, credits)
	if residual.IsZero() || residual.Abs().GreaterThan(money.MinorUnit(precision)) {
		return
	}
	round := domain.RoleAccountCode(domain.AcctRounding, currency)
	if residual.IsPositive() {
		b.credit(round, residual, currency)
	} else {
		b.debit(round, residual.Neg(), currency)
	}
}

// project maps a validated business event onto its journal entry. The boolean
// result marks a waived commission, which produces no entry at all.
func (s *postingService) project(ctx context.Context, event *domain.BusinessEvent, actor string) (*domain.JournalEntry, bool, error) {
	b := newEntryBuilder(event, actor)

	switch event.Kind {
	case domain.EventExchange:
		if err := s.projectExchange(ctx, b, event); err != nil {
			return nil, false, err
		}
	case domain.EventTransfer:
		t := event.Transfer
		b.debit(t.ToAccountCode, t.Amount, t.CurrencyCode)
		b.credit(t.FromAccountCode, t.Amount, t.CurrencyCode)
	case domain.EventP2PSettlement:
		p := event.P2P
		b.debit(p.BuyerBaseAccount, p.BaseAmount, p.BaseCurrency)
		b.credit(p.SellerBaseAccount, p.BaseAmount, p.BaseCurrency)
		b.debit(p.SellerQuoteAccount, p.QuoteAmount, p.QuoteCurrency)
		b.credit(p.BuyerQuoteAccount, p.QuoteAmount, p.QuoteCurrency)
	case domain.EventRemittanceCreate:
		r := event.Remittance
		total := r.Principal.Add(r.Fee)
		b.debit(domain.RoleAccountCode(domain.AcctRemittanceTransit, r.CurrencyCode), total, r.CurrencyCode)
		funding := domain.RoleAccountCode(domain.AcctCustomerPayable, r.CurrencyCode)
		if r.FundedBy == domain.RemittanceFundedByCash {
			funding = domain.RoleAccountCode(domain.AcctCash, r.CurrencyCode)
		}
		b.credit(funding, total, r.CurrencyCode)
	case domain.EventRemittanceDeliver:
		r := event.Remittance
		total := r.Principal.Add(r.Fee)
		b.debit(domain.RoleAccountCode(domain.AcctPartnerPayable, r.CurrencyCode), total, r.CurrencyCode)
		b.credit(domain.RoleAccountCode(domain.AcctRemittanceTransit, r.CurrencyCode), total, r.CurrencyCode)
	case domain.EventRemittanceCancel:
		if err := s.projectRemittanceCancel(ctx, b, event); err != nil {
			return nil, false, err
		}
	case domain.EventCommission:
		waived, err := s.projectCommission(ctx, b, event)
		if err != nil || waived {
			return nil, waived, err
		}
	case domain.EventPayment:
		p := event.Payment
		b.debit(domain.RoleAccountCode(domain.AcctCash, p.CurrencyCode), p.Amount, p.CurrencyCode)
		b.credit(domain.RoleAccountCode(domain.AcctCustomerPayable, p.CurrencyCode), p.Amount, p.CurrencyCode)
	case domain.EventDeposit:
		d := event.Deposit
		target := domain.AcctCash
		if d.ToBank {
			target = domain.AcctBank
		}
		b.debit(domain.RoleAccountCode(target, d.CurrencyCode), d.Amount, d.CurrencyCode)
		b.credit(domain.RoleAccountCode(domain.AcctCustomerPayable, d.CurrencyCode), d.Amount, d.CurrencyCode)
	case domain.EventWithdrawal:
		w := event.Withdrawal
		source := domain.AcctCash
		if w.FromBank {
			source = domain.AcctBank
		}
		b.debit(domain.RoleAccountCode(domain.AcctCustomerPayable, w.CurrencyCode), w.Amount, w.CurrencyCode)
		b.credit(domain.RoleAccountCode(source, w.CurrencyCode), w.Amount, w.CurrencyCode)
	case domain.EventCheckIssue:
		c := event.Check
		b.debit(domain.RoleAccountCode(domain.AcctChecksOutstanding, c.CurrencyCode), c.Amount, c.CurrencyCode)
		b.credit(domain.RoleAccountCode(domain.AcctCash, c.CurrencyCode), c.Amount, c.CurrencyCode)
	case domain.EventCheckClear:
		c := event.Check
		b.debit(domain.RoleAccountCode(domain.AcctChecksOutstanding, c.CurrencyCode), c.Amount, c.CurrencyCode)
		b.credit(domain.RoleAccountCode(domain.AcctBank, c.CurrencyCode), c.Amount, c.CurrencyCode)
	case domain.EventCheckBounce:
		c := event.Check
		restored := domain.RoleAccountCode(domain.AcctCash, c.CurrencyCode)
		if c.ToReceivable {
			restored = domain.RoleAccountCode(domain.AcctFeeReceivable, c.CurrencyCode)
		}
		b.debit(restored, c.Amount, c.CurrencyCode)
		b.credit(domain.RoleAccountCode(domain.AcctChecksOutstanding, c.CurrencyCode), c.Amount, c.CurrencyCode)
		if c.BounceFee.IsPositive() {
			b.debit(domain.RoleAccountCode(domain.AcctFeeReceivable, c.CurrencyCode), c.BounceFee, c.CurrencyCode)
			b.credit(domain.RoleAccountCode(domain.AcctCommissionRevenue, c.CurrencyCode), c.BounceFee, c.CurrencyCode)
		}
	case domain.EventCheckCancel:
		if err := s.projectCheckCancel(ctx, b, event); err != nil {
			return nil, false, err
		}
	default:
		return nil, false, fmt.Errorf("%w: %s", apperrors.ErrUnknownEventKind, event.Kind)
	}

	return b.entry, false, nil
}

// projectExchange emits one balanced group per currency, bridged through the
// FX position accounts. When a market rate is known, the quote leg splits into
// position value at market plus the margin earned or conceded against it.
func (s *postingService) projectExchange(ctx context.Context, b *entryBuilder, event *domain.BusinessEvent) error {
	x := event.Exchange

	counterparty := domain.RoleAccountCode(domain.AcctCustomerPayable, x.QuoteCurrency)
	if x.SettleInCash {
		counterparty = domain.RoleAccountCode(domain.AcctCash, x.QuoteCurrency)
	}
	baseCash := domain.RoleAccountCode(domain.AcctCash, x.BaseCurrency)
	basePos := domain.RoleAccountCode(domain.AcctFXPosition, x.BaseCurrency)
	quotePos := domain.RoleAccountCode(domain.AcctFXPosition, x.QuoteCurrency)

	marketRate := x.MarketRate
	if marketRate == nil {
		r, err := s.rateSvc.MarketRate(ctx, event.TenantID, x.BaseCurrency, x.QuoteCurrency, event.EffectiveDate)
		if err != nil {
			return err
		}
		marketRate = r
	}

	quotePrecision, err := s.currencySvc.Precision(ctx, x.QuoteCurrency)
	if err != nil {
		return err
	}

	positionValue := x.QuoteAmount
	margin := decimal.Zero
	if marketRate != nil {
		positionValue, margin = money.Split(x.QuoteAmount, x.BaseAmount.Mul(*marketRate), quotePrecision)
	}

	switch x.Direction {
	case domain.ExchangeSell:
		// Tenant hands out base currency and collects the quote countervalue.
		b.debit(basePos, x.BaseAmount, x.BaseCurrency)
		b.credit(baseCash, x.BaseAmount, x.BaseCurrency)

		b.debit(counterparty, x.QuoteAmount, x.QuoteCurrency)
		b.credit(quotePos, positionValue, x.QuoteCurrency)
		if margin.IsPositive() {
			b.credit(domain.RoleAccountCode(domain.AcctFXRevenue, x.QuoteCurrency), margin, x.QuoteCurrency)
		} else if margin.IsNegative() {
			b.debit(domain.RoleAccountCode(domain.AcctFXExpense, x.QuoteCurrency), margin.Neg(), x.QuoteCurrency)
		}
	case domain.ExchangeBuy:
		// Tenant takes in base currency and pays out the quote countervalue.
		b.debit(baseCash, x.BaseAmount, x.BaseCurrency)
		b.credit(basePos, x.BaseAmount, x.BaseCurrency)

		b.debit(quotePos, positionValue, x.QuoteCurrency)
		b.credit(counterparty, x.QuoteAmount, x.QuoteCurrency)
		if margin.IsPositive() {
			// Paid above market: the premium is spread conceded to the customer.
			b.debit(domain.RoleAccountCode(domain.AcctFXExpense, x.QuoteCurrency), margin, x.QuoteCurrency)
		} else if margin.IsNegative() {
			b.credit(domain.RoleAccountCode(domain.AcctFXRevenue, x.QuoteCurrency), margin.Neg(), x.QuoteCurrency)
		}
	}

	b.settleResidual(x.QuoteCurrency, quotePrecision)
	return nil
}

// projectCommission evaluates tenant policy; a waived result short-circuits
// with no entry.
func (s *postingService) projectCommission(ctx context.Context, b *entryBuilder, event *domain.BusinessEvent) (bool, error) {
	c := event.Commission
	result, err := s.commissionSvc.Calculate(ctx, event.TenantID, c.BasisKind, c.GrossAmount, c.CurrencyCode, c.CustomerTier)
	if err != nil {
		return false, err
	}
	if result.Waived || result.Amount.IsZero() {
		return true, nil
	}

	receivable := domain.RoleAccountCode(domain.AcctFeeReceivable, c.CurrencyCode)
	if c.Collected {
		receivable = domain.RoleAccountCode(domain.AcctCash, c.CurrencyCode)
	}
	revenue := result.RevenueAccountCode
	if revenue == "" {
		revenue = domain.RoleAccountCode(domain.AcctCommissionRevenue, c.CurrencyCode)
	}
	b.debit(receivable, result.Amount, c.CurrencyCode)
	b.credit(revenue, result.Amount, c.CurrencyCode)
	return false, nil
}

// projectRemittanceCancel mirrors the create entry, identified by the
// conventional "<remittanceID>:create" origin event ID.
func (s *postingService) projectRemittanceCancel(ctx context.Context, b *entryBuilder, event *domain.BusinessEvent) error {
	create, err := s.findByOrigin(ctx, event.TenantID, domain.EventOrigin{
		Kind:    domain.EventRemittanceCreate,
		EventID: event.Remittance.RemittanceID + ":create",
	})
	if err != nil {
		return err
	}
	if create == nil {
		return fmt.Errorf("%w: remittance %s has no create posting", apperrors.ErrNotFound, event.Remittance.RemittanceID)
	}
	if create.ReversedBy != nil {
		return fmt.Errorf("%w: remittance create entry %d already reversed", apperrors.ErrDoubleReversal, create.Sequence)
	}
	seq := create.Sequence
	b.entry.Reverses = &seq
	for _, line := range create.Lines {
		b.add(line.AccountCode, line.Side.Opposite(), line.Amount, line.CurrencyCode)
	}
	return nil
}

// projectCheckCancel mirrors the issue entry located by its origin event.
func (s *postingService) projectCheckCancel(ctx context.Context, b *entryBuilder, event *domain.BusinessEvent) error {
	issue, err := s.findByOrigin(ctx, event.TenantID, domain.EventOrigin{
		Kind:    domain.EventCheckIssue,
		EventID: event.Check.IssueEventID,
	})
	if err != nil {
		return err
	}
	if issue == nil {
		return fmt.Errorf("%w: check issue event %s has no posting", apperrors.ErrNotFound, event.Check.IssueEventID)
	}
	if issue.ReversedBy != nil {
		return fmt.Errorf("%w: check issue entry %d already reversed", apperrors.ErrDoubleReversal, issue.Sequence)
	}
	seq := issue.Sequence
	b.entry.Reverses = &seq
	for _, line := range issue.Lines {
		b.add(line.AccountCode, line.Side.Opposite(), line.Amount, line.CurrencyCode)
	}
	return nil
}
