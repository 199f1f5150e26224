package domain

// Tenant represents an exchange house: the isolation boundary for all core data.
// Accounts, journal entries, policies and remittances are always tenant-scoped.
type Tenant struct {
	TenantID            string  `json:"tenantID"`            // Primary Key (UUID)
	Name                string  `json:"name"`                // Exchange house display name
	SupervisorID        *string `json:"supervisorID"`        // Optional supervising entity (for comparison reports)
	DefaultCurrencyCode string  `json:"defaultCurrencyCode"` // Local currency, e.g. "IRR"
	IsActive            bool    `json:"isActive"`
	AuditFields
}

// TenantRole defines the possible roles an actor can have within a tenant.
type TenantRole string

const (
	RoleAdmin    TenantRole = "ADMIN"
	RoleMember   TenantRole = "MEMBER"
	RoleReadOnly TenantRole = "READONLY"
)
