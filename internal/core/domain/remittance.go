package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RemittanceStatus is a node of the remittance state machine.
type RemittanceStatus string

const (
	RemittanceCreated         RemittanceStatus = "CREATED"
	RemittanceVerified        RemittanceStatus = "VERIFIED"
	RemittanceProcessing      RemittanceStatus = "PROCESSING"
	RemittancePartnerSent     RemittanceStatus = "PARTNER_SENT"
	RemittancePartnerReceived RemittanceStatus = "PARTNER_RECEIVED"
	RemittanceDelivered       RemittanceStatus = "DELIVERED"
	RemittanceCancelled       RemittanceStatus = "CANCELLED"
	RemittanceFailed          RemittanceStatus = "FAILED"
)

// remittanceEdges fixes the allowed transitions of the state machine.
var remittanceEdges = map[RemittanceStatus][]RemittanceStatus{
	RemittanceCreated:         {RemittanceVerified, RemittanceCancelled},
	RemittanceVerified:        {RemittanceProcessing, RemittanceCancelled},
	RemittanceProcessing:      {RemittancePartnerSent},
	RemittancePartnerSent:     {RemittancePartnerReceived, RemittanceCancelled},
	RemittancePartnerReceived: {RemittanceDelivered, RemittanceFailed},
}

// CanTransition reports whether the edge from → to is part of the state machine.
func CanTransition(from, to RemittanceStatus) bool {
	for _, next := range remittanceEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no edges leave the given state.
func (s RemittanceStatus) IsTerminal() bool {
	return len(remittanceEdges[s]) == 0
}

// Remittance is one money-transfer leg through a partner corridor.
type Remittance struct {
	RemittanceID    string            `json:"remittanceID"`
	TenantID        string            `json:"tenantID"`
	SenderCustomer  string            `json:"senderCustomer"`
	ReceiverPartner string            `json:"receiverPartner"`
	Principal       decimal.Decimal   `json:"principal"`
	Fee             decimal.Decimal   `json:"fee"`
	CurrencyCode    string            `json:"currencyCode"`
	Corridor        string            `json:"corridor"` // e.g. "IR->AE"
	FundedBy        RemittanceFunding `json:"fundedBy"`
	Status          RemittanceStatus  `json:"status"`
	AuditFields
}

// RemittanceTrackingEvent is one row of the append-only per-remittance log.
// The log's last To state always equals the remittance's current status.
type RemittanceTrackingEvent struct {
	RemittanceID string           `json:"remittanceID"`
	Seq          int              `json:"seq"`
	From         RemittanceStatus `json:"from"`
	To           RemittanceStatus `json:"to"`
	Actor        string           `json:"actor"`
	At           time.Time        `json:"at"`
	Location     string           `json:"location"`
	Note         string           `json:"note"`
}
