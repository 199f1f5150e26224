package services

import (
	"context"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	"github.com/sarrafly/exchange_backoffice/internal/dto"
)

// TenantSvcFacade manages the tenant registry.
type TenantSvcFacade interface {
	// CreateTenant registers an exchange house and bootstraps its default chart
	// of accounts for the requested currencies.
	CreateTenant(ctx context.Context, req dto.CreateTenantRequest, actor string) (*domain.Tenant, error)

	GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
	ListTenants(ctx context.Context) ([]domain.Tenant, error)

	// RequireActiveTenant fails with ErrNotFound for unknown tenants and
	// ErrForbidden for deactivated ones.
	RequireActiveTenant(ctx context.Context, tenantID string) (*domain.Tenant, error)
}
