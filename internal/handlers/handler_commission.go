package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sarrafly/exchange_backoffice/internal/core/ports/services"
	"github.com/sarrafly/exchange_backoffice/internal/dto"
	"github.com/sarrafly/exchange_backoffice/internal/middleware"
)

// commissionHandler manages the tenant's commission policy rules.
type commissionHandler struct {
	commissionService portssvc.CommissionSvcFacade
}

func newCommissionHandler(cs portssvc.CommissionSvcFacade) *commissionHandler {
	return &commissionHandler{commissionService: cs}
}

// registerCommissionRoutes registers tenant-scoped commission policy routes.
func registerCommissionRoutes(rg *gin.RouterGroup, commissionService portssvc.CommissionSvcFacade) {
	h := newCommissionHandler(commissionService)

	rules := rg.Group("/commission-rules")
	{
		rules.PUT("", h.upsertRule)
		rules.GET("", h.listRules)
		rules.DELETE("/:rule_id", h.deleteRule)
	}
}

func (h *commissionHandler) upsertRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpsertCommissionRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpsertCommissionRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	rule, err := h.commissionService.UpsertRule(c.Request.Context(), c.Param("tenant_id"), req, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommissionRuleResponse(rule))
}

func (h *commissionHandler) listRules(c *gin.Context) {
	rules, err := h.commissionService.ListRules(c.Request.Context(), c.Param("tenant_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]dto.CommissionRuleResponse, len(rules))
	for i := range rules {
		responses[i] = dto.ToCommissionRuleResponse(&rules[i])
	}
	c.JSON(http.StatusOK, responses)
}

func (h *commissionHandler) deleteRule(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.commissionService.DeleteRule(c.Request.Context(), c.Param("tenant_id"), c.Param("rule_id"), actorID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
