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

// tenantService manages the exchange-house registry.
type tenantService struct {
	BaseService
	tenantRepo portsrepo.TenantRepositoryFacade
	accountSvc portssvc.AccountSvcFacade
}

// NewTenantService creates a new TenantService.
func NewTenantService(tenantRepo portsrepo.TenantRepositoryFacade, accountSvc portssvc.AccountSvcFacade) portssvc.TenantSvcFacade {
	return &tenantService{tenantRepo: tenantRepo, accountSvc: accountSvc}
}

var _ portssvc.TenantSvcFacade = (*tenantService)(nil)

// CreateTenant registers an exchange house and bootstraps its default chart.
func (s *tenantService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest, actor string) (*domain.Tenant, error) {
	now := time.Now().UTC()
	tenant := domain.Tenant{
		TenantID:            uuid.NewString(),
		Name:                req.Name,
		SupervisorID:        req.SupervisorID,
		DefaultCurrencyCode: req.DefaultCurrencyCode,
		IsActive:            true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.tenantRepo.SaveTenant(ctx, tenant); err != nil {
		s.LogError(ctx, err, "Failed to save tenant", "name", req.Name)
		return nil, fmt.Errorf("failed to save tenant: %w", err)
	}

	if s.accountSvc != nil {
		if _, err := s.accountSvc.BootstrapChart(ctx, tenant.TenantID, req.ChartCurrencies, actor); err != nil {
			s.LogError(ctx, err, "Failed to bootstrap chart of accounts", "tenant_id", tenant.TenantID)
			return nil, fmt.Errorf("failed to bootstrap chart of accounts: %w", err)
		}
	}

	s.LogInfo(ctx, "Tenant created", "tenant_id", tenant.TenantID, "name", tenant.Name)
	return &tenant, nil
}

// GetTenantByID retrieves a tenant.
func (s *tenantService) GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find tenant", "tenant_id", tenantID)
		}
		return nil, err
	}
	return tenant, nil
}

// ListTenants retrieves all tenants.
func (s *tenantService) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	return s.tenantRepo.ListTenants(ctx)
}

// RequireActiveTenant fails for unknown or deactivated tenants.
func (s *tenantService) RequireActiveTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	tenant, err := s.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.IsActive {
		return nil, fmt.Errorf("%w: tenant %s is deactivated", apperrors.ErrForbidden, tenantID)
	}
	return tenant, nil
}
