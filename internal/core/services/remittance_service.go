package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sarrafly/exchange_backoffice/internal/apperrors"
	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	portsrepo "github.com/sarrafly/exchange_backoffice/internal/core/ports/repositories"
	portssvc "github.com/sarrafly/exchange_backoffice/internal/core/ports/services"
	"github.com/sarrafly/exchange_backoffice/internal/dto"
)

// remittanceService drives the remittance state machine. Transitions append to
// the per-remittance tracking log; the Create, Deliver and Cancel-after-funds-
// moved edges additionally trigger ledger postings via the posting engine.
// Posting event IDs derive from the remittance ID, so retried transitions stay
// idempotent on the ledger side.
type remittanceService struct {
	BaseService
	remittanceRepo portsrepo.RemittanceRepositoryFacade
	postingSvc     portssvc.PostingSvcFacade
}

// NewRemittanceService creates a new RemittanceService.
func NewRemittanceService(remittanceRepo portsrepo.RemittanceRepositoryFacade, postingSvc portssvc.PostingSvcFacade) portssvc.RemittanceSvcFacade {
	return &remittanceService{remittanceRepo: remittanceRepo, postingSvc: postingSvc}
}

var _ portssvc.RemittanceSvcFacade = (*remittanceService)(nil)

// CreateRemittance registers a new leg in Created state and posts the
// remittance-create entry.
func (s *remittanceService) CreateRemittance(ctx context.Context, tenantID string, req dto.CreateRemittanceRequest, actor string) (*domain.Remittance, error) {
	if !req.Principal.IsPositive() {
		return nil, fmt.Errorf("%w: principal must be positive", apperrors.ErrValidation)
	}
	if req.Fee.IsNegative() {
		return nil, fmt.Errorf("%w: fee must not be negative", apperrors.ErrValidation)
	}

	remittanceID := req.RemittanceID
	if remittanceID == "" {
		remittanceID = uuid.NewString()
	}
	fundedBy := req.FundedBy
	if fundedBy == "" {
		fundedBy = domain.RemittanceFundedByCash
	}
	effectiveDate := req.EffectiveDate
	if effectiveDate.IsZero() {
		effectiveDate = time.Now().UTC()
	}

	now := time.Now().UTC()
	remittance := domain.Remittance{
		RemittanceID:    remittanceID,
		TenantID:        tenantID,
		SenderCustomer:  req.SenderCustomer,
		ReceiverPartner: req.ReceiverPartner,
		Principal:       req.Principal,
		Fee:             req.Fee,
		CurrencyCode:    req.CurrencyCode,
		Corridor:        req.Corridor,
		FundedBy:        fundedBy,
		Status:          domain.RemittanceCreated,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.remittanceRepo.SaveRemittance(ctx, remittance); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: remittance %s already exists", apperrors.ErrDuplicate, remittanceID)
		}
		s.LogError(ctx, err, "Failed to save remittance", "tenant_id", tenantID, "remittance_id", remittanceID)
		return nil, fmt.Errorf("failed to save remittance: %w", err)
	}

	if _, err := s.postingSvc.Submit(ctx, tenantID, s.postingEvent(&remittance, domain.EventRemittanceCreate, effectiveDate), actor); err != nil {
		s.LogError(ctx, err, "Failed to post remittance create", "tenant_id", tenantID, "remittance_id", remittanceID)
		return nil, fmt.Errorf("failed to post remittance create: %w", err)
	}

	s.LogInfo(ctx, "Remittance created", "tenant_id", tenantID, "remittance_id", remittanceID, "corridor", remittance.Corridor)
	return &remittance, nil
}

// Advance moves the remittance along one allowed edge, appends the tracking
// event, and triggers the deliver or cancel posting where the edge requires one.
func (s *remittanceService) Advance(ctx context.Context, tenantID, remittanceID string, next domain.RemittanceStatus, actor string, meta dto.TransitionMetadata) (*domain.Remittance, error) {
	remittance, err := s.remittanceRepo.FindRemittanceByID(ctx, tenantID, remittanceID)
	if err != nil {
		return nil, err
	}

	current := remittance.Status
	if !domain.CanTransition(current, next) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, current, next)
	}

	// Postings precede the state write; their event IDs make retries after a
	// conflicting advance harmless.
	switch {
	case next == domain.RemittanceDelivered:
		if _, err := s.postingSvc.Submit(ctx, tenantID, s.postingEvent(remittance, domain.EventRemittanceDeliver, time.Now().UTC()), actor); err != nil {
			return nil, fmt.Errorf("failed to post remittance delivery: %w", err)
		}
	case next == domain.RemittanceCancelled && current == domain.RemittancePartnerSent:
		// Funds already moved toward the partner; cancellation reverses the
		// create posting.
		if _, err := s.postingSvc.Submit(ctx, tenantID, s.postingEvent(remittance, domain.EventRemittanceCancel, time.Now().UTC()), actor); err != nil {
			return nil, fmt.Errorf("failed to post remittance cancellation: %w", err)
		}
	}

	log, err := s.remittanceRepo.ListTrackingEvents(ctx, tenantID, remittanceID)
	if err != nil {
		return nil, err
	}
	event := domain.RemittanceTrackingEvent{
		RemittanceID: remittanceID,
		Seq:          len(log) + 1,
		From:         current,
		To:           next,
		Actor:        actor,
		At:           time.Now().UTC(),
		Location:     meta.Location,
		Note:         meta.Note,
	}

	if err := s.remittanceRepo.AdvanceStatus(ctx, tenantID, event); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: remittance %s moved past %s", apperrors.ErrConflict, remittanceID, current)
		}
		s.LogError(ctx, err, "Failed to advance remittance", "tenant_id", tenantID, "remittance_id", remittanceID, "next", next)
		return nil, fmt.Errorf("failed to advance remittance: %w", err)
	}

	remittance.Status = next
	remittance.LastUpdatedAt = event.At
	remittance.LastUpdatedBy = actor

	s.LogInfo(ctx, "Remittance advanced", "tenant_id", tenantID, "remittance_id", remittanceID, "from", current, "to", next)
	return remittance, nil
}

// GetRemittance retrieves a remittance.
func (s *remittanceService) GetRemittance(ctx context.Context, tenantID, remittanceID string) (*domain.Remittance, error) {
	return s.remittanceRepo.FindRemittanceByID(ctx, tenantID, remittanceID)
}

// ListRemittances lists remittances, optionally filtered by status.
func (s *remittanceService) ListRemittances(ctx context.Context, tenantID string, status *domain.RemittanceStatus) ([]domain.Remittance, error) {
	return s.remittanceRepo.ListRemittances(ctx, tenantID, status)
}

// GetTrackingLog returns the append-only tracking log in order.
func (s *remittanceService) GetTrackingLog(ctx context.Context, tenantID, remittanceID string) ([]domain.RemittanceTrackingEvent, error) {
	if _, err := s.remittanceRepo.FindRemittanceByID(ctx, tenantID, remittanceID); err != nil {
		return nil, err
	}
	return s.remittanceRepo.ListTrackingEvents(ctx, tenantID, remittanceID)
}

func (s *remittanceService) postingEvent(r *domain.Remittance, kind domain.EventKind, effectiveDate time.Time) domain.BusinessEvent {
	suffix := map[domain.EventKind]string{
		domain.EventRemittanceCreate:  ":create",
		domain.EventRemittanceDeliver: ":deliver",
		domain.EventRemittanceCancel:  ":cancel",
	}[kind]
	return domain.BusinessEvent{
		EventID:       r.RemittanceID + suffix,
		Kind:          kind,
		TenantID:      r.TenantID,
		EffectiveDate: effectiveDate,
		Description:   fmt.Sprintf("Remittance %s %s", r.RemittanceID, r.Corridor),
		Remittance: &domain.RemittanceEvent{
			RemittanceID: r.RemittanceID,
			Principal:    r.Principal,
			Fee:          r.Fee,
			CurrencyCode: r.CurrencyCode,
			Corridor:     r.Corridor,
			FundedBy:     r.FundedBy,
			CustomerID:   r.SenderCustomer,
		},
	}
}
