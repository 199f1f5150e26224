package dto

import (
	"time"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SubmitEventRequest is the wire shape of a business event submission. Exactly
// one payload section matching Kind must be present; the converter enforces the
// variant invariant via domain validation.
type SubmitEventRequest struct {
	EventID       string           `json:"eventID" binding:"required,max=128"`
	Kind          domain.EventKind `json:"kind" binding:"required"`
	EffectiveDate time.Time        `json:"effectiveDate" binding:"required"`
	Description   string           `json:"description"`
	AllowBackdate bool             `json:"allowBackdated"`

	Exchange   *ExchangePayload   `json:"exchange,omitempty"`
	Transfer   *TransferPayload   `json:"transfer,omitempty"`
	P2P        *P2PPayload        `json:"p2p,omitempty"`
	Remittance *RemittancePayload `json:"remittance,omitempty"`
	Commission *CommissionPayload `json:"commission,omitempty"`
	Party      *PartyPayload      `json:"party,omitempty"` // Payment, deposit, withdrawal
	Check      *CheckPayload      `json:"check,omitempty"`
}

// ExchangePayload carries a currency exchange with a customer.
type ExchangePayload struct {
	Direction     domain.ExchangeDirection `json:"direction" binding:"required,oneof=BUY SELL"`
	BaseAmount    decimal.Decimal          `json:"baseAmount" binding:"required"`
	BaseCurrency  string                   `json:"baseCurrency" binding:"required,min=3,max=10"`
	QuoteAmount   decimal.Decimal          `json:"quoteAmount" binding:"required"`
	QuoteCurrency string                   `json:"quoteCurrency" binding:"required,min=3,max=10"`
	Rate          decimal.Decimal          `json:"rate" binding:"required"`
	MarketRate    *decimal.Decimal         `json:"marketRate,omitempty"`
	CustomerID    string                   `json:"customerID"`
	SettleInCash  bool                     `json:"settleInCash"`
}

// TransferPayload moves value between two of the tenant's own accounts.
type TransferPayload struct {
	FromAccountCode string          `json:"fromAccountCode" binding:"required"`
	ToAccountCode   string          `json:"toAccountCode" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode    string          `json:"currencyCode" binding:"required,min=3,max=10"`
}

// P2PPayload settles a matched P2P trade.
type P2PPayload struct {
	TradeID            string          `json:"tradeID" binding:"required"`
	BaseAmount         decimal.Decimal `json:"baseAmount" binding:"required"`
	BaseCurrency       string          `json:"baseCurrency" binding:"required,min=3,max=10"`
	QuoteAmount        decimal.Decimal `json:"quoteAmount" binding:"required"`
	QuoteCurrency      string          `json:"quoteCurrency" binding:"required,min=3,max=10"`
	BuyerBaseAccount   string          `json:"buyerBaseAccount" binding:"required"`
	BuyerQuoteAccount  string          `json:"buyerQuoteAccount" binding:"required"`
	SellerBaseAccount  string          `json:"sellerBaseAccount" binding:"required"`
	SellerQuoteAccount string          `json:"sellerQuoteAccount" binding:"required"`
}

// RemittancePayload carries the posting-relevant remittance attributes.
type RemittancePayload struct {
	RemittanceID string                   `json:"remittanceID" binding:"required"`
	Principal    decimal.Decimal          `json:"principal" binding:"required"`
	Fee          decimal.Decimal          `json:"fee"`
	CurrencyCode string                   `json:"currencyCode" binding:"required,min=3,max=10"`
	Corridor     string                   `json:"corridor"`
	FundedBy     domain.RemittanceFunding `json:"fundedBy" binding:"omitempty,oneof=CASH CUSTOMER"`
	CustomerID   string                   `json:"customerID"`
}

// CommissionPayload requests a policy-driven commission posting.
type CommissionPayload struct {
	BasisKind    domain.EventKind `json:"basisKind" binding:"required"`
	GrossAmount  decimal.Decimal  `json:"grossAmount" binding:"required"`
	CurrencyCode string           `json:"currencyCode" binding:"required,min=3,max=10"`
	CustomerTier string           `json:"customerTier"`
	Collected    bool             `json:"collected"`
}

// PartyPayload is shared by payment, deposit and withdrawal events.
type PartyPayload struct {
	CustomerID   string          `json:"customerID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,min=3,max=10"`
	ViaBank      bool            `json:"viaBank"`
}

// CheckPayload covers the check lifecycle events.
type CheckPayload struct {
	CheckID      string          `json:"checkID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,min=3,max=10"`
	IssueEventID string          `json:"issueEventID"`
	BounceFee    decimal.Decimal `json:"bounceFee"`
	ToReceivable bool            `json:"toReceivable"`
}

// ToDomainEvent converts the wire request into the tagged domain variant.
func (r *SubmitEventRequest) ToDomainEvent(tenantID string) domain.BusinessEvent {
	event := domain.BusinessEvent{
		EventID:       r.EventID,
		Kind:          r.Kind,
		TenantID:      tenantID,
		EffectiveDate: r.EffectiveDate,
		Description:   r.Description,
	}
	if r.Exchange != nil {
		event.Exchange = &domain.ExchangeEvent{
			Direction:     r.Exchange.Direction,
			BaseAmount:    r.Exchange.BaseAmount,
			BaseCurrency:  r.Exchange.BaseCurrency,
			QuoteAmount:   r.Exchange.QuoteAmount,
			QuoteCurrency: r.Exchange.QuoteCurrency,
			Rate:          r.Exchange.Rate,
			MarketRate:    r.Exchange.MarketRate,
			CustomerID:    r.Exchange.CustomerID,
			SettleInCash:  r.Exchange.SettleInCash,
		}
	}
	if r.Transfer != nil {
		event.Transfer = &domain.TransferEvent{
			FromAccountCode: r.Transfer.FromAccountCode,
			ToAccountCode:   r.Transfer.ToAccountCode,
			Amount:          r.Transfer.Amount,
			CurrencyCode:    r.Transfer.CurrencyCode,
		}
	}
	if r.P2P != nil {
		event.P2P = &domain.P2PSettlementEvent{
			TradeID:            r.P2P.TradeID,
			BaseAmount:         r.P2P.BaseAmount,
			BaseCurrency:       r.P2P.BaseCurrency,
			QuoteAmount:        r.P2P.QuoteAmount,
			QuoteCurrency:      r.P2P.QuoteCurrency,
			BuyerBaseAccount:   r.P2P.BuyerBaseAccount,
			BuyerQuoteAccount:  r.P2P.BuyerQuoteAccount,
			SellerBaseAccount:  r.P2P.SellerBaseAccount,
			SellerQuoteAccount: r.P2P.SellerQuoteAccount,
		}
	}
	if r.Remittance != nil {
		event.Remittance = &domain.RemittanceEvent{
			RemittanceID: r.Remittance.RemittanceID,
			Principal:    r.Remittance.Principal,
			Fee:          r.Remittance.Fee,
			CurrencyCode: r.Remittance.CurrencyCode,
			Corridor:     r.Remittance.Corridor,
			FundedBy:     r.Remittance.FundedBy,
			CustomerID:   r.Remittance.CustomerID,
		}
	}
	if r.Commission != nil {
		event.Commission = &domain.CommissionEvent{
			BasisKind:    r.Commission.BasisKind,
			GrossAmount:  r.Commission.GrossAmount,
			CurrencyCode: r.Commission.CurrencyCode,
			CustomerTier: r.Commission.CustomerTier,
			Collected:    r.Commission.Collected,
		}
	}
	if r.Party != nil {
		switch r.Kind {
		case domain.EventPayment:
			event.Payment = &domain.PaymentEvent{
				CustomerID:   r.Party.CustomerID,
				Amount:       r.Party.Amount,
				CurrencyCode: r.Party.CurrencyCode,
			}
		case domain.EventDeposit:
			event.Deposit = &domain.DepositEvent{
				CustomerID:   r.Party.CustomerID,
				Amount:       r.Party.Amount,
				CurrencyCode: r.Party.CurrencyCode,
				ToBank:       r.Party.ViaBank,
			}
		case domain.EventWithdrawal:
			event.Withdrawal = &domain.WithdrawalEvent{
				CustomerID:   r.Party.CustomerID,
				Amount:       r.Party.Amount,
				CurrencyCode: r.Party.CurrencyCode,
				FromBank:     r.Party.ViaBank,
			}
		}
	}
	if r.Check != nil {
		event.Check = &domain.CheckEvent{
			CheckID:      r.Check.CheckID,
			Amount:       r.Check.Amount,
			CurrencyCode: r.Check.CurrencyCode,
			IssueEventID: r.Check.IssueEventID,
			BounceFee:    r.Check.BounceFee,
			ToReceivable: r.Check.ToReceivable,
		}
	}
	return event
}

// SubmitEventResponse is returned for accepted (or duplicate) submissions.
type SubmitEventResponse struct {
	Sequence  int64  `json:"sequence"`
	EntryID   string `json:"entryID"`
	Duplicate bool   `json:"duplicate"`
	Waived    bool   `json:"waived,omitempty"`
}
