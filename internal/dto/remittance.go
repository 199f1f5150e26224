package dto

import (
	"time"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRemittanceRequest defines the payload for opening a remittance leg.
type CreateRemittanceRequest struct {
	RemittanceID    string                   `json:"remittanceID"` // Optional; generated when empty
	SenderCustomer  string                   `json:"senderCustomer" binding:"required"`
	ReceiverPartner string                   `json:"receiverPartner" binding:"required"`
	Principal       decimal.Decimal          `json:"principal" binding:"required"`
	Fee             decimal.Decimal          `json:"fee"`
	CurrencyCode    string                   `json:"currencyCode" binding:"required,min=3,max=10"`
	Corridor        string                   `json:"corridor" binding:"required"`
	FundedBy        domain.RemittanceFunding `json:"fundedBy" binding:"omitempty,oneof=CASH CUSTOMER"`
	EffectiveDate   time.Time                `json:"effectiveDate"`
}

// AdvanceRemittanceRequest defines the payload for a state transition.
type AdvanceRemittanceRequest struct {
	NextStatus domain.RemittanceStatus `json:"nextStatus" binding:"required"`
	Location   string                  `json:"location"`
	Note       string                  `json:"note"`
}

// TransitionMetadata carries optional context recorded on a tracking event.
type TransitionMetadata struct {
	Location string
	Note     string
}

// RemittanceResponse defines the data returned for a remittance.
type RemittanceResponse struct {
	RemittanceID    string                  `json:"remittanceID"`
	TenantID        string                  `json:"tenantID"`
	SenderCustomer  string                  `json:"senderCustomer"`
	ReceiverPartner string                  `json:"receiverPartner"`
	Principal       decimal.Decimal         `json:"principal"`
	Fee             decimal.Decimal         `json:"fee"`
	CurrencyCode    string                  `json:"currencyCode"`
	Corridor        string                  `json:"corridor"`
	Status          domain.RemittanceStatus `json:"status"`
}

// TrackingEventResponse is one row of a remittance's tracking log.
type TrackingEventResponse struct {
	Seq      int                     `json:"seq"`
	From     domain.RemittanceStatus `json:"from"`
	To       domain.RemittanceStatus `json:"to"`
	Actor    string                  `json:"actor"`
	At       time.Time               `json:"at"`
	Location string                  `json:"location,omitempty"`
	Note     string                  `json:"note,omitempty"`
}

// ToRemittanceResponse converts a domain.Remittance to its response DTO.
func ToRemittanceResponse(r *domain.Remittance) RemittanceResponse {
	return RemittanceResponse{
		RemittanceID:    r.RemittanceID,
		TenantID:        r.TenantID,
		SenderCustomer:  r.SenderCustomer,
		ReceiverPartner: r.ReceiverPartner,
		Principal:       r.Principal,
		Fee:             r.Fee,
		CurrencyCode:    r.CurrencyCode,
		Corridor:        r.Corridor,
		Status:          r.Status,
	}
}

// ToTrackingEventResponses converts a tracking log to response DTOs.
func ToTrackingEventResponses(events []domain.RemittanceTrackingEvent) []TrackingEventResponse {
	responses := make([]TrackingEventResponse, len(events))
	for i, e := range events {
		responses[i] = TrackingEventResponse{
			Seq:      e.Seq,
			From:     e.From,
			To:       e.To,
			Actor:    e.Actor,
			At:       e.At,
			Location: e.Location,
			Note:     e.Note,
		}
	}
	return responses
}
