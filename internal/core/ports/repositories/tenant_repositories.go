package repositories

import (
	"context"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
)

// TenantRepositoryFacade persists the tenant registry.
type TenantRepositoryFacade interface {
	FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
	ListTenants(ctx context.Context) ([]domain.Tenant, error)

	// ListTenantsBySupervisor returns the tenants under a supervising entity.
	ListTenantsBySupervisor(ctx context.Context, supervisorID string) ([]domain.Tenant, error)

	SaveTenant(ctx context.Context, tenant domain.Tenant) error
	UpdateTenant(ctx context.Context, tenant domain.Tenant) error
}
