package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EventKind tags the business event variants the posting engine can project.
type EventKind string

const (
	EventExchange          EventKind = "EXCHANGE"
	EventTransfer          EventKind = "TRANSFER"
	EventP2PSettlement     EventKind = "P2P_SETTLEMENT"
	EventRemittanceCreate  EventKind = "REMITTANCE_CREATE"
	EventRemittanceDeliver EventKind = "REMITTANCE_DELIVER"
	EventRemittanceCancel  EventKind = "REMITTANCE_CANCEL"
	EventCommission        EventKind = "COMMISSION"
	EventPayment           EventKind = "PAYMENT"
	EventDeposit           EventKind = "DEPOSIT"
	EventWithdrawal        EventKind = "WITHDRAWAL"
	EventCheckIssue        EventKind = "CHECK_ISSUE"
	EventCheckClear        EventKind = "CHECK_CLEAR"
	EventCheckBounce       EventKind = "CHECK_BOUNCE"
	EventCheckCancel       EventKind = "CHECK_CANCEL"

	// EventReversal tags entries produced by explicit reversal; it is an origin
	// marker only and cannot be submitted as a business event.
	EventReversal EventKind = "REVERSAL"
)

// ExchangeDirection distinguishes the tenant buying foreign currency from selling it.
type ExchangeDirection string

const (
	ExchangeBuy  ExchangeDirection = "BUY"  // Tenant buys base currency from the customer
	ExchangeSell ExchangeDirection = "SELL" // Tenant sells base currency to the customer
)

// ExchangeEvent is a currency exchange with a customer at a contracted rate.
// QuoteAmount is the countervalue in the quote currency; MarketRate, when set,
// splits the quote leg into position value and FX margin.
type ExchangeEvent struct {
	Direction     ExchangeDirection
	BaseAmount    decimal.Decimal
	BaseCurrency  string
	QuoteAmount   decimal.Decimal
	QuoteCurrency string
	Rate          decimal.Decimal
	MarketRate    *decimal.Decimal
	CustomerID    string
	SettleInCash  bool // Quote leg settles against the till instead of customer payable
}

// TransferEvent moves value between two of the tenant's own accounts.
type TransferEvent struct {
	FromAccountCode string
	ToAccountCode   string
	Amount          decimal.Decimal
	CurrencyCode    string
}

// P2PSettlementEvent settles a matched P2P trade after both legs confirmed.
// The quote leg moves from buyer to seller, the base leg from seller to buyer.
type P2PSettlementEvent struct {
	TradeID            string
	BaseAmount         decimal.Decimal
	BaseCurrency       string
	QuoteAmount        decimal.Decimal
	QuoteCurrency      string
	BuyerBaseAccount   string
	BuyerQuoteAccount  string
	SellerBaseAccount  string
	SellerQuoteAccount string
}

// RemittanceFunding selects the credit side of a remittance-create posting.
type RemittanceFunding string

const (
	RemittanceFundedByCash     RemittanceFunding = "CASH"
	RemittanceFundedByCustomer RemittanceFunding = "CUSTOMER"
)

// RemittanceEvent carries the posting-relevant attributes of a remittance leg.
// Create debits remittance-in-transit, Deliver clears it against partner payable,
// Cancel after processing reverses the create posting.
type RemittanceEvent struct {
	RemittanceID string
	Principal    decimal.Decimal
	Fee          decimal.Decimal // Carried through transit alongside the principal
	CurrencyCode string
	Corridor     string
	FundedBy     RemittanceFunding
	CustomerID   string
}

// CommissionEvent requests a commission posting computed from the tenant's policy.
type CommissionEvent struct {
	BasisKind    EventKind // Event kind the commission applies to
	GrossAmount  decimal.Decimal
	CurrencyCode string
	CustomerTier string
	Collected    bool // Collected in cash rather than accrued as receivable
}

// PaymentEvent records a customer payment received against their payable balance.
type PaymentEvent struct {
	CustomerID   string
	Amount       decimal.Decimal
	CurrencyCode string
}

// DepositEvent records a customer deposit into the till or bank.
type DepositEvent struct {
	CustomerID   string
	Amount       decimal.Decimal
	CurrencyCode string
	ToBank       bool
}

// WithdrawalEvent records a customer withdrawal from the till or bank.
type WithdrawalEvent struct {
	CustomerID   string
	Amount       decimal.Decimal
	CurrencyCode string
	FromBank     bool
}

// CheckEvent covers the check lifecycle. Clear moves the covering funds to the
// bank, Bounce restores them (plus an optional fee posting), Cancel reverses the
// issue posting identified by IssueEventID.
type CheckEvent struct {
	CheckID      string
	Amount       decimal.Decimal
	CurrencyCode string
	IssueEventID string          // Required for CHECK_CANCEL
	BounceFee    decimal.Decimal // Only meaningful for CHECK_BOUNCE
	ToReceivable bool            // Bounce restores a receivable instead of cash
}

// BusinessEvent is the tagged variant submitted to the posting engine. Exactly
// one payload field matching Kind must be set. EventID is the caller-supplied
// idempotency key: resubmitting an accepted event returns the original sequence.
type BusinessEvent struct {
	EventID       string
	Kind          EventKind
	TenantID      string
	EffectiveDate time.Time
	Description   string

	Exchange   *ExchangeEvent
	Transfer   *TransferEvent
	P2P        *P2PSettlementEvent
	Remittance *RemittanceEvent
	Commission *CommissionEvent
	Payment    *PaymentEvent
	Deposit    *DepositEvent
	Withdrawal *WithdrawalEvent
	Check      *CheckEvent
}

func positive(name string, d decimal.Decimal) error {
	if d.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%s must be positive, got %s", name, d.String())
	}
	return nil
}

// Validate checks the variant invariant and the per-kind payload attributes.
func (e *BusinessEvent) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("eventID is required")
	}
	if e.TenantID == "" {
		return fmt.Errorf("tenantID is required")
	}
	if e.EffectiveDate.IsZero() {
		return fmt.Errorf("effectiveDate is required")
	}
	switch e.Kind {
	case EventExchange:
		if e.Exchange == nil {
			return fmt.Errorf("exchange payload is required for kind %s", e.Kind)
		}
		x := e.Exchange
		if x.Direction != ExchangeBuy && x.Direction != ExchangeSell {
			return fmt.Errorf("unknown exchange direction %q", x.Direction)
		}
		if x.BaseCurrency == x.QuoteCurrency {
			return fmt.Errorf("exchange base and quote currency must differ")
		}
		if err := positive("baseAmount", x.BaseAmount); err != nil {
			return err
		}
		if err := positive("quoteAmount", x.QuoteAmount); err != nil {
			return err
		}
		if err := positive("rate", x.Rate); err != nil {
			return err
		}
	case EventTransfer:
		if e.Transfer == nil {
			return fmt.Errorf("transfer payload is required for kind %s", e.Kind)
		}
		if e.Transfer.FromAccountCode == e.Transfer.ToAccountCode {
			return fmt.Errorf("transfer source and destination must differ")
		}
		if err := positive("amount", e.Transfer.Amount); err != nil {
			return err
		}
	case EventP2PSettlement:
		if e.P2P == nil {
			return fmt.Errorf("p2p payload is required for kind %s", e.Kind)
		}
		if err := positive("baseAmount", e.P2P.BaseAmount); err != nil {
			return err
		}
		if err := positive("quoteAmount", e.P2P.QuoteAmount); err != nil {
			return err
		}
	case EventRemittanceCreate, EventRemittanceDeliver, EventRemittanceCancel:
		if e.Remittance == nil {
			return fmt.Errorf("remittance payload is required for kind %s", e.Kind)
		}
		if e.Remittance.RemittanceID == "" {
			return fmt.Errorf("remittanceID is required")
		}
		if err := positive("principal", e.Remittance.Principal); err != nil {
			return err
		}
		if e.Remittance.Fee.IsNegative() {
			return fmt.Errorf("fee must not be negative")
		}
	case EventCommission:
		if e.Commission == nil {
			return fmt.Errorf("commission payload is required for kind %s", e.Kind)
		}
		if err := positive("grossAmount", e.Commission.GrossAmount); err != nil {
			return err
		}
	case EventPayment:
		if e.Payment == nil {
			return fmt.Errorf("payment payload is required for kind %s", e.Kind)
		}
		if err := positive("amount", e.Payment.Amount); err != nil {
			return err
		}
	case EventDeposit:
		if e.Deposit == nil {
			return fmt.Errorf("deposit payload is required for kind %s", e.Kind)
		}
		if err := positive("amount", e.Deposit.Amount); err != nil {
			return err
		}
	case EventWithdrawal:
		if e.Withdrawal == nil {
			return fmt.Errorf("withdrawal payload is required for kind %s", e.Kind)
		}
		if err := positive("amount", e.Withdrawal.Amount); err != nil {
			return err
		}
	case EventCheckIssue, EventCheckClear, EventCheckBounce, EventCheckCancel:
		if e.Check == nil {
			return fmt.Errorf("check payload is required for kind %s", e.Kind)
		}
		if e.Check.CheckID == "" {
			return fmt.Errorf("checkID is required")
		}
		if err := positive("amount", e.Check.Amount); err != nil {
			return err
		}
		if e.Kind == EventCheckCancel && e.Check.IssueEventID == "" {
			return fmt.Errorf("issueEventID is required for %s", e.Kind)
		}
		if e.Kind == EventCheckBounce && e.Check.BounceFee.IsNegative() {
			return fmt.Errorf("bounceFee must not be negative")
		}
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
	return nil
}
