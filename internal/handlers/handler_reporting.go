package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sarrafly/exchange_backoffice/internal/core/ports/services"
	"github.com/sarrafly/exchange_backoffice/internal/dto"
)

// reportingHandler serves the financial report endpoints.
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers tenant-scoped report routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/cash-flow", h.getCashFlow)
		reports.GET("/profit-and-loss", h.getProfitAndLoss)
	}
}

// registerComparisonRoutes registers the cross-tenant comparison report, which
// is scoped to a supervising entity rather than a single tenant.
func registerComparisonRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	rg.GET("/supervisors/:supervisor_id/tenant-comparison", h.getTenantComparison)
}

func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	asOf, err := parseTimeQuery(c, "asOf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if asOf == nil {
		now := time.Now().UTC()
		asOf = &now
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), c.Param("tenant_id"), *asOf)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}

func (h *reportingHandler) getCashFlow(c *gin.Context) {
	from, to, err := requirePeriodQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportingService.CashFlow(c.Request.Context(), c.Param("tenant_id"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	from, to, err := requirePeriodQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), c.Param("tenant_id"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) getTenantComparison(c *gin.Context) {
	from, to, err := requirePeriodQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, err := h.reportingService.TenantComparison(c.Request.Context(), c.Param("supervisor_id"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}
