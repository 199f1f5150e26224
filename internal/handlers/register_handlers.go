package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sarrafly/exchange_backoffice/internal/core/services"
	"github.com/sarrafly/exchange_backoffice/internal/middleware"
	"github.com/sarrafly/exchange_backoffice/internal/platform/config"
	portssvc "github.com/sarrafly/exchange_backoffice/internal/core/ports/services"
)

// RegisterRoutes sets up all application routes, injecting dependencies via
// the service interfaces.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, svcs *services.Container) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, svcs)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to entity route
// registrations. Tenant-scoped routes sit under /tenants/:tenant_id and pass
// through the active-tenant guard.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, svcs *services.Container) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerTenantRoutes(v1, svcs.Tenant)
	registerCurrencyRoutes(v1, svcs.Currency)
	registerComparisonRoutes(v1, svcs.Reporting)

	scoped := v1.Group("/tenants/:tenant_id", requireActiveTenant(svcs.Tenant))
	registerAccountRoutes(scoped, svcs.Account)
	registerExchangeRateRoutes(scoped, svcs.ExchangeRate)
	registerEventRoutes(scoped, svcs.Posting)
	registerJournalRoutes(scoped, svcs.Journal)
	registerLedgerRoutes(scoped, svcs.Balance)
	registerReportingRoutes(scoped, svcs.Reporting)
	registerRemittanceRoutes(scoped, svcs.Remittance)
	registerCommissionRoutes(scoped, svcs.Commission)
}

// requireActiveTenant rejects requests addressed to unknown or deactivated
// tenants before any handler runs.
func requireActiveTenant(tenantSvc portssvc.TenantSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.Param("tenant_id")
		if _, err := tenantSvc.RequireActiveTenant(c.Request.Context(), tenantID); err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
