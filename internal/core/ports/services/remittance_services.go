package services

import (
	"context"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	"github.com/sarrafly/exchange_backoffice/internal/dto"
)

// RemittanceSvcFacade drives the remittance state machine and its posting triggers.
type RemittanceSvcFacade interface {
	// CreateRemittance registers a new leg in Created state and posts the
	// remittance-create entry (plus a commission entry when a fee applies).
	CreateRemittance(ctx context.Context, tenantID string, req dto.CreateRemittanceRequest, actor string) (*domain.Remittance, error)

	// Advance moves the remittance along one allowed edge, appends the tracking
	// event, and triggers deliver/cancel postings where the edge requires one.
	Advance(ctx context.Context, tenantID, remittanceID string, next domain.RemittanceStatus, actor string, meta dto.TransitionMetadata) (*domain.Remittance, error)

	GetRemittance(ctx context.Context, tenantID, remittanceID string) (*domain.Remittance, error)
	ListRemittances(ctx context.Context, tenantID string, status *domain.RemittanceStatus) ([]domain.Remittance, error)
	GetTrackingLog(ctx context.Context, tenantID, remittanceID string) ([]domain.RemittanceTrackingEvent, error)
}
