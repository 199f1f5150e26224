package repositories

import (
	"context"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
)

// RemittanceReader defines read operations for remittance data.
type RemittanceReader interface {
	FindRemittanceByID(ctx context.Context, tenantID, remittanceID string) (*domain.Remittance, error)
	ListRemittances(ctx context.Context, tenantID string, status *domain.RemittanceStatus) ([]domain.Remittance, error)

	// ListTrackingEvents returns the append-only tracking log in order.
	ListTrackingEvents(ctx context.Context, tenantID, remittanceID string) ([]domain.RemittanceTrackingEvent, error)
}

// RemittanceWriter defines write operations for remittance data.
type RemittanceWriter interface {
	SaveRemittance(ctx context.Context, remittance domain.Remittance) error

	// AdvanceStatus atomically updates the remittance status and appends the
	// tracking event. The stored status must still equal event.From, otherwise
	// apperrors.ErrConflict is returned.
	AdvanceStatus(ctx context.Context, tenantID string, event domain.RemittanceTrackingEvent) error
}

// RemittanceRepositoryFacade combines remittance repository interfaces.
type RemittanceRepositoryFacade interface {
	RemittanceReader
	RemittanceWriter
}
