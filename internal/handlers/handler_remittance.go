package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	portssvc "github.com/sarrafly/exchange_backoffice/internal/core/ports/services"
	"github.com/sarrafly/exchange_backoffice/internal/dto"
	"github.com/sarrafly/exchange_backoffice/internal/middleware"
)

// remittanceHandler handles HTTP requests for the remittance lifecycle.
type remittanceHandler struct {
	remittanceService portssvc.RemittanceSvcFacade
}

func newRemittanceHandler(rs portssvc.RemittanceSvcFacade) *remittanceHandler {
	return &remittanceHandler{remittanceService: rs}
}

// registerRemittanceRoutes registers tenant-scoped remittance routes.
func registerRemittanceRoutes(rg *gin.RouterGroup, remittanceService portssvc.RemittanceSvcFacade) {
	h := newRemittanceHandler(remittanceService)

	remittances := rg.Group("/remittances")
	{
		remittances.POST("", h.createRemittance)
		remittances.GET("", h.listRemittances)
		remittances.GET("/:remittance_id", h.getRemittance)
		remittances.POST("/:remittance_id/advance", h.advanceRemittance)
		remittances.GET("/:remittance_id/tracking", h.getTrackingLog)
	}
}

func (h *remittanceHandler) createRemittance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRemittanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRemittance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	remittance, err := h.remittanceService.CreateRemittance(c.Request.Context(), c.Param("tenant_id"), req, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRemittanceResponse(remittance))
}

func (h *remittanceHandler) listRemittances(c *gin.Context) {
	var status *domain.RemittanceStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.RemittanceStatus(raw)
		status = &s
	}

	remittances, err := h.remittanceService.ListRemittances(c.Request.Context(), c.Param("tenant_id"), status)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]dto.RemittanceResponse, len(remittances))
	for i := range remittances {
		responses[i] = dto.ToRemittanceResponse(&remittances[i])
	}
	c.JSON(http.StatusOK, responses)
}

func (h *remittanceHandler) getRemittance(c *gin.Context) {
	remittance, err := h.remittanceService.GetRemittance(c.Request.Context(), c.Param("tenant_id"), c.Param("remittance_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRemittanceResponse(remittance))
}

func (h *remittanceHandler) advanceRemittance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AdvanceRemittanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AdvanceRemittance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	meta := dto.TransitionMetadata{Location: req.Location, Note: req.Note}
	remittance, err := h.remittanceService.Advance(c.Request.Context(), c.Param("tenant_id"), c.Param("remittance_id"), req.NextStatus, actorID, meta)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRemittanceResponse(remittance))
}

func (h *remittanceHandler) getTrackingLog(c *gin.Context) {
	events, err := h.remittanceService.GetTrackingLog(c.Request.Context(), c.Param("tenant_id"), c.Param("remittance_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTrackingEventResponses(events))
}
