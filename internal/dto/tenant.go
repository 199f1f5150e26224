package dto

import "github.com/sarrafly/exchange_backoffice/internal/core/domain"

// CreateTenantRequest defines the payload for registering an exchange house.
type CreateTenantRequest struct {
	Name                string   `json:"name" binding:"required,max=255"`
	SupervisorID        *string  `json:"supervisorID"`
	DefaultCurrencyCode string   `json:"defaultCurrencyCode" binding:"required,min=3,max=10"`
	ChartCurrencies     []string `json:"chartCurrencies" binding:"required,min=1,dive,min=3,max=10"`
}

// TenantResponse defines the data returned for a tenant.
type TenantResponse struct {
	TenantID            string  `json:"tenantID"`
	Name                string  `json:"name"`
	SupervisorID        *string `json:"supervisorID,omitempty"`
	DefaultCurrencyCode string  `json:"defaultCurrencyCode"`
	IsActive            bool    `json:"isActive"`
}

// ToTenantResponse converts a domain.Tenant to TenantResponse.
func ToTenantResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{
		TenantID:            t.TenantID,
		Name:                t.Name,
		SupervisorID:        t.SupervisorID,
		DefaultCurrencyCode: t.DefaultCurrencyCode,
		IsActive:            t.IsActive,
	}
}
