package services_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sarrafly/exchange_backoffice/internal/apperrors"
	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	portssvc "github.com/sarrafly/exchange_backoffice/internal/core/ports/services"
	"github.com/sarrafly/exchange_backoffice/internal/core/services"
	"github.com/sarrafly/exchange_backoffice/internal/utils/pagination"
)

// ledgerStore is an in-memory journal honouring the repository contracts:
// sequences are gap-free per append order, scans run in (effective date,
// sequence) order with compound-cursor resumption, side sums are windowed by
// date, and reversal linkage is write-once.
type ledgerStore struct {
	mu        sync.Mutex
	entries   []domain.JournalEntry
	origins   map[domain.EventOrigin]int64
	snapshots map[string][]domain.BalanceSnapshot
}

func newLedgerStore() *ledgerStore {
	return &ledgerStore{
		origins:   make(map[domain.EventOrigin]int64),
		snapshots: make(map[string][]domain.BalanceSnapshot),
	}
}

func (s *ledgerStore) AppendEntry(_ context.Context, entry *domain.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.origins[entry.Origin]; exists {
		return apperrors.ErrDuplicate
	}
	entry.Sequence = int64(len(s.entries)) + 1
	stored := *entry
	stored.Lines = append([]domain.JournalLine(nil), entry.Lines...)
	s.entries = append(s.entries, stored)
	s.origins[entry.Origin] = entry.Sequence
	return nil
}

func (s *ledgerStore) FindEntryBySequence(_ context.Context, _ string, seq int64) (*domain.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < 1 || seq > int64(len(s.entries)) {
		return nil, apperrors.ErrNotFound
	}
	entry := s.entries[seq-1]
	return &entry, nil
}

func (s *ledgerStore) FindEntryByOrigin(ctx context.Context, tenantID string, origin domain.EventOrigin) (*domain.JournalEntry, error) {
	s.mu.Lock()
	seq, ok := s.origins[origin]
	s.mu.Unlock()
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return s.FindEntryBySequence(ctx, tenantID, seq)
}

func (s *ledgerStore) scanOrder() []domain.JournalEntry {
	ordered := append([]domain.JournalEntry(nil), s.entries...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].EffectiveDate.Equal(ordered[j].EffectiveDate) {
			return ordered[i].EffectiveDate.Before(ordered[j].EffectiveDate)
		}
		return ordered[i].Sequence < ordered[j].Sequence
	})
	return ordered
}

func (s *ledgerStore) ScanEntries(_ context.Context, _ string, filter domain.EntryFilter) ([]domain.JournalEntry, *string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cursorDate time.Time
	var cursorSeq int64
	if filter.AfterSeq > 0 {
		if filter.AfterSeq > int64(len(s.entries)) {
			return nil, nil, nil
		}
		cursor := s.entries[filter.AfterSeq-1]
		cursorDate, cursorSeq = cursor.EffectiveDate, cursor.Sequence
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var out []domain.JournalEntry
	for _, e := range s.scanOrder() {
		if cursorSeq > 0 {
			if e.EffectiveDate.Before(cursorDate) {
				continue
			}
			if e.EffectiveDate.Equal(cursorDate) && e.Sequence <= cursorSeq {
				continue
			}
		}
		if filter.From != nil && e.EffectiveDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.EffectiveDate.After(*filter.To) {
			continue
		}
		if filter.OriginKind != "" && e.Origin.Kind != filter.OriginKind {
			continue
		}
		out = append(out, e)
		if len(out) > limit {
			break
		}
	}

	var nextToken *string
	if len(out) > limit {
		out = out[:limit]
		token := pagination.EncodeSeqToken(out[len(out)-1].Sequence)
		nextToken = &token
	}
	return out, nextToken, nil
}

func (s *ledgerStore) SumAccountSides(_ context.Context, _ string, accountCode string, after, upTo time.Time) (decimal.Decimal, decimal.Decimal, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var debit, credit decimal.Decimal
	var maxSeq int64
	for _, e := range s.entries {
		if !e.EffectiveDate.After(after) || e.EffectiveDate.After(upTo) {
			continue
		}
		for _, line := range e.Lines {
			if line.AccountCode != accountCode {
				continue
			}
			if line.Side == domain.Debit {
				debit = debit.Add(line.Amount)
			} else {
				credit = credit.Add(line.Amount)
			}
			if e.Sequence > maxSeq {
				maxSeq = e.Sequence
			}
		}
	}
	return debit, credit, maxSeq, nil
}

func (s *ledgerStore) FindAccountLines(_ context.Context, _ string, accountCode string, from, to time.Time) ([]domain.LedgerLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.LedgerLine
	for _, e := range s.scanOrder() {
		if e.EffectiveDate.Before(from) || e.EffectiveDate.After(to) {
			continue
		}
		for _, line := range e.Lines {
			if line.AccountCode != accountCode {
				continue
			}
			out = append(out, domain.LedgerLine{
				Sequence:      e.Sequence,
				EffectiveDate: e.EffectiveDate,
				Description:   e.Description,
				Side:          line.Side,
				Amount:        line.Amount,
				CurrencyCode:  line.CurrencyCode,
			})
		}
	}
	return out, nil
}

func (s *ledgerStore) AccountHasLines(_ context.Context, _ string, accountCode string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		for _, line := range e.Lines {
			if line.AccountCode == accountCode {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *ledgerStore) MarkReversed(_ context.Context, _ string, seq, reversedBy int64, _ string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < 1 || seq > int64(len(s.entries)) {
		return apperrors.ErrNotFound
	}
	entry := &s.entries[seq-1]
	if entry.ReversedBy != nil {
		return apperrors.ErrDoubleReversal
	}
	entry.ReversedBy = &reversedBy
	entry.Status = domain.Reversed
	return nil
}

func (s *ledgerStore) SaveSnapshot(_ context.Context, snap domain.BalanceSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.AccountCode] = append(s.snapshots[snap.AccountCode], snap)
	return nil
}

func (s *ledgerStore) FindSnapshot(_ context.Context, _ string, accountCode string, notAfter time.Time) (*domain.BalanceSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var newest *domain.BalanceSnapshot
	for i := range s.snapshots[accountCode] {
		snap := s.snapshots[accountCode][i]
		if snap.AsOf.After(notAfter) {
			continue
		}
		if newest == nil || snap.AsOf.After(newest.AsOf) {
			newest = &snap
		}
	}
	if newest == nil {
		return nil, apperrors.ErrNotFound
	}
	return newest, nil
}

func (s *ledgerStore) LatestSnapshotDate(_ context.Context, _ string) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *time.Time
	for _, snaps := range s.snapshots {
		for _, snap := range snaps {
			if latest == nil || snap.AsOf.After(*latest) {
				asOf := snap.AsOf
				latest = &asOf
			}
		}
	}
	return latest, nil
}

func (s *ledgerStore) InvalidateSnapshots(_ context.Context, _ string, from time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for code, snaps := range s.snapshots {
		kept := snaps[:0]
		for _, snap := range snaps {
			if snap.AsOf.Before(from) {
				kept = append(kept, snap)
			}
		}
		s.snapshots[code] = kept
	}
	return nil
}

// chartStore is an in-memory chart of accounts.
type chartStore struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
}

func newChartStore() *chartStore {
	return &chartStore{accounts: make(map[string]domain.Account)}
}

func (s *chartStore) FindAccountByCode(_ context.Context, _ string, code string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[code]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &account, nil
}

func (s *chartStore) FindAccountsByCodes(_ context.Context, _ string, codes []string) (map[string]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]domain.Account, len(codes))
	for _, code := range codes {
		if account, ok := s.accounts[code]; ok {
			out[code] = account
		}
	}
	return out, nil
}

func (s *chartStore) ListAccounts(_ context.Context, _ string, accountType *domain.AccountType) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Account
	for _, account := range s.accounts {
		if accountType != nil && account.AccountType != *accountType {
			continue
		}
		out = append(out, account)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *chartStore) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[account.Code]; exists {
		return apperrors.ErrDuplicate
	}
	s.accounts[account.Code] = account
	return nil
}

func (s *chartStore) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	for _, account := range accounts {
		if err := s.SaveAccount(ctx, account); err != nil {
			return err
		}
	}
	return nil
}

func (s *chartStore) UpdateAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.Code] = account
	return nil
}

// --- Test Suite Setup ---

// LedgerFlowTestSuite wires the real journal, posting and balance services over
// the in-memory stores and checks the ledger invariants end to end.
type LedgerFlowTestSuite struct {
	suite.Suite
	store    *ledgerStore
	accounts *chartStore
	journal  portssvc.JournalSvcFacade
	posting  portssvc.PostingSvcFacade
	balance  portssvc.BalanceSvcFacade
	tenantID string
	actor    string
}

func (suite *LedgerFlowTestSuite) SetupTest() {
	suite.tenantID = "tenant-1"
	suite.actor = "staff-1"
	suite.store = newLedgerStore()
	suite.accounts = newChartStore()

	currencyRepo := new(MockCurrencyRepository)
	currencyRepo.On("FindCurrencyByCode", mock.Anything, mock.Anything).Return(nil, apperrors.ErrNotFound)
	currencySvc := services.NewCurrencyService(currencyRepo)

	accountSvc := services.NewAccountService(suite.accounts, suite.store)
	_, err := accountSvc.BootstrapChart(context.Background(), suite.tenantID, []string{"USD", "IRR"}, suite.actor)
	suite.Require().NoError(err)

	suite.journal = services.NewJournalService(suite.store, suite.accounts, currencySvc)
	suite.posting = services.NewPostingService(suite.journal, currencySvc, new(MockCommissionSvc), new(MockRateSvc))
	suite.balance = services.NewBalanceService(suite.store, suite.accounts)
}

func (suite *LedgerFlowTestSuite) appendCashEntry(eventID string, date time.Time, amount string) *domain.JournalEntry {
	entry := &domain.JournalEntry{
		EntryID:       "entry-" + eventID,
		TenantID:      suite.tenantID,
		EffectiveDate: date,
		Origin:        domain.EventOrigin{Kind: domain.EventPayment, EventID: eventID},
		Status:        domain.Posted,
		Lines: []domain.JournalLine{
			{AccountCode: "CASH-USD", Side: domain.Debit, Amount: decimal.RequireFromString(amount), CurrencyCode: "USD"},
			{AccountCode: "CUSTPAY-USD", Side: domain.Credit, Amount: decimal.RequireFromString(amount), CurrencyCode: "USD"},
		},
	}
	suite.Require().NoError(suite.journal.Append(context.Background(), entry, false))
	return entry
}

// --- Test Cases ---

func (suite *LedgerFlowTestSuite) TestSnapshotSeededBalanceSeesFutureDatedEntries() {
	ctx := context.Background()
	day1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)
	day1End := day1.Add(24*time.Hour - time.Nanosecond)
	day2End := day2.Add(24*time.Hour - time.Nanosecond)

	// Appended in sequence order 1..3, but entry 2 is dated a day ahead.
	suite.appendCashEntry("pay-1", day1.Add(9*time.Hour), "100")
	suite.appendCashEntry("pay-2", day2.Add(9*time.Hour), "50")
	suite.appendCashEntry("pay-3", day1.Add(17*time.Hour), "25")

	written, err := suite.balance.SnapshotEndOfDay(ctx, suite.tenantID, day1, suite.actor)
	suite.Require().NoError(err)
	suite.Positive(written)

	atClose, err := suite.balance.AccountBalance(ctx, suite.tenantID, "CASH-USD", day1End)
	suite.Require().NoError(err)
	suite.True(atClose.Equal(decimal.RequireFromString("125")), "day 1 closes without the future-dated amount")

	nextDay, err := suite.balance.AccountBalance(ctx, suite.tenantID, "CASH-USD", day2End)
	suite.Require().NoError(err)
	suite.True(nextDay.Equal(decimal.RequireFromString("175")), "the future-dated 50 lands on its own day")

	payable, err := suite.balance.AccountBalance(ctx, suite.tenantID, "CUSTPAY-USD", day2End)
	suite.Require().NoError(err)
	suite.True(payable.Equal(decimal.RequireFromString("175")))
}

func (suite *LedgerFlowTestSuite) TestScanPagesCoverBackdatedEntries() {
	ctx := context.Background()
	jun1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	jun15 := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	jul1 := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	// Sequence order disagrees with date order: the entry appended last is
	// dated between the other two.
	suite.appendCashEntry("pay-a", jun1, "10")
	suite.appendCashEntry("pay-b", jul1, "20")
	suite.appendCashEntry("pay-c", jun15, "30")

	page1, token, err := suite.journal.ScanEntries(ctx, suite.tenantID, domain.EntryFilter{Limit: 2})
	suite.Require().NoError(err)
	suite.Require().Len(page1, 2)
	suite.Equal(int64(1), page1[0].Sequence)
	suite.Equal(int64(3), page1[1].Sequence, "the backdated entry sorts by date, not sequence")
	suite.Require().NotNil(token)

	afterSeq, err := pagination.DecodeSeqToken(*token)
	suite.Require().NoError(err)

	page2, token, err := suite.journal.ScanEntries(ctx, suite.tenantID, domain.EntryFilter{Limit: 2, AfterSeq: afterSeq})
	suite.Require().NoError(err)
	suite.Require().Len(page2, 1, "resuming past a backdated cursor must not drop later-dated entries")
	suite.Equal(int64(2), page2[0].Sequence)
	suite.Nil(token)
}

func (suite *LedgerFlowTestSuite) TestPostedEventsKeepLedgerBalancedPerCurrency() {
	ctx := context.Background()
	base := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	marketRate := decimal.RequireFromString("50000")

	events := []domain.BusinessEvent{
		{
			EventID:       "pay-1",
			Kind:          domain.EventPayment,
			EffectiveDate: base,
			Payment:       &domain.PaymentEvent{CustomerID: "cust-1", Amount: decimal.RequireFromString("40"), CurrencyCode: "USD"},
		},
		{
			EventID:       "evt-fx",
			Kind:          domain.EventExchange,
			EffectiveDate: base.Add(time.Hour),
			Exchange: &domain.ExchangeEvent{
				Direction:     domain.ExchangeSell,
				BaseAmount:    decimal.RequireFromString("100"),
				BaseCurrency:  "USD",
				QuoteAmount:   decimal.RequireFromString("5100000"),
				QuoteCurrency: "IRR",
				Rate:          decimal.RequireFromString("51000"),
				MarketRate:    &marketRate,
			},
		},
		{
			EventID:       "rem-1:create",
			Kind:          domain.EventRemittanceCreate,
			EffectiveDate: base.Add(2 * time.Hour),
			Remittance: &domain.RemittanceEvent{
				RemittanceID: "rem-1",
				Principal:    decimal.RequireFromString("100"),
				Fee:          decimal.RequireFromString("10"),
				CurrencyCode: "USD",
				FundedBy:     domain.RemittanceFundedByCash,
			},
		},
		{
			EventID:       "rem-1:deliver",
			Kind:          domain.EventRemittanceDeliver,
			EffectiveDate: base.Add(3 * time.Hour),
			Remittance: &domain.RemittanceEvent{
				RemittanceID: "rem-1",
				Principal:    decimal.RequireFromString("100"),
				Fee:          decimal.RequireFromString("10"),
				CurrencyCode: "USD",
			},
		},
	}

	for _, event := range events {
		result, err := suite.posting.Submit(ctx, suite.tenantID, event, suite.actor)
		suite.Require().NoError(err, "event %s", event.EventID)
		suite.False(result.Duplicate)
	}

	// Every stored entry balances per currency on its own.
	for seq := int64(1); ; seq++ {
		entry, err := suite.store.FindEntryBySequence(ctx, suite.tenantID, seq)
		if err != nil {
			break
		}
		suite.True(entry.IsBalanced(), "entry %d", seq)
	}

	// Per currency, the debit-normal side of the whole chart equals the
	// credit-normal side at any cutoff.
	suite.assertChartBalanced(base.Add(24 * time.Hour))
}

func (suite *LedgerFlowTestSuite) TestReverseRestoresBalancesAndLinks() {
	ctx := context.Background()
	event := domain.BusinessEvent{
		EventID:       "pay-rev",
		Kind:          domain.EventPayment,
		EffectiveDate: time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC),
		Payment:       &domain.PaymentEvent{CustomerID: "cust-1", Amount: decimal.RequireFromString("40"), CurrencyCode: "USD"},
	}

	result, err := suite.posting.Submit(ctx, suite.tenantID, event, suite.actor)
	suite.Require().NoError(err)

	reversal, err := suite.posting.Reverse(ctx, suite.tenantID, result.Sequence, suite.actor)
	suite.Require().NoError(err)
	suite.Require().NotNil(reversal.Reverses)
	suite.Equal(result.Sequence, *reversal.Reverses)

	original, err := suite.journal.GetEntry(ctx, suite.tenantID, result.Sequence)
	suite.Require().NoError(err)
	suite.Require().NotNil(original.ReversedBy)
	suite.Equal(reversal.Sequence, *original.ReversedBy)
	suite.Equal(domain.Reversed, original.Status)

	balance, err := suite.balance.AccountBalance(ctx, suite.tenantID, "CASH-USD", time.Now().UTC().Add(time.Hour))
	suite.Require().NoError(err)
	suite.True(balance.IsZero(), "reversal mirrors the cash movement away")

	_, err = suite.posting.Reverse(ctx, suite.tenantID, result.Sequence, suite.actor)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDoubleReversal)

	suite.assertChartBalanced(time.Now().UTC().Add(time.Hour))
}

// assertChartBalanced checks that for every currency the debit-normal account
// balances sum to the credit-normal ones as of the cutoff.
func (suite *LedgerFlowTestSuite) assertChartBalanced(asOf time.Time) {
	ctx := context.Background()
	accounts, err := suite.accounts.ListAccounts(ctx, suite.tenantID, nil)
	suite.Require().NoError(err)

	debitSide := make(map[string]decimal.Decimal)
	creditSide := make(map[string]decimal.Decimal)
	for _, account := range accounts {
		balance, err := suite.balance.AccountBalance(ctx, suite.tenantID, account.Code, asOf)
		suite.Require().NoError(err)
		if account.NormalSide() == domain.Debit {
			debitSide[account.CurrencyCode] = debitSide[account.CurrencyCode].Add(balance)
		} else {
			creditSide[account.CurrencyCode] = creditSide[account.CurrencyCode].Add(balance)
		}
	}
	for currency, debit := range debitSide {
		suite.True(debit.Equal(creditSide[currency]),
			"currency %s: debit-normal %s credit-normal %s", currency, debit, creditSide[currency])
	}
}

func TestLedgerFlowTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerFlowTestSuite))
}
