package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sarrafly/exchange_backoffice/internal/core/ports/services"
	"github.com/sarrafly/exchange_backoffice/internal/dto"
	"github.com/sarrafly/exchange_backoffice/internal/middleware"
)

// eventHandler accepts business events and reversal requests. All journal
// writes flow through here and the posting engine behind it.
type eventHandler struct {
	postingService portssvc.PostingSvcFacade
}

func newEventHandler(ps portssvc.PostingSvcFacade) *eventHandler {
	return &eventHandler{postingService: ps}
}

// registerEventRoutes registers tenant-scoped posting routes.
func registerEventRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newEventHandler(postingService)

	rg.POST("/events", h.submitEvent)
	rg.POST("/entries/:sequence/reverse", h.reverseEntry)
}

func (h *eventHandler) submitEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubmitEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitEvent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	tenantID := c.Param("tenant_id")
	event := req.ToDomainEvent(tenantID)

	submit := h.postingService.Submit
	if req.AllowBackdate {
		submit = h.postingService.SubmitBackdated
	}

	result, err := submit(c.Request.Context(), tenantID, event, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	c.JSON(status, dto.SubmitEventResponse{
		Sequence:  result.Sequence,
		EntryID:   result.EntryID,
		Duplicate: result.Duplicate,
		Waived:    result.Waived,
	})
}

func (h *eventHandler) reverseEntry(c *gin.Context) {
	seq, err := strconv.ParseInt(c.Param("sequence"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sequence number"})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	entry, err := h.postingService.Reverse(c.Request.Context(), c.Param("tenant_id"), seq, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}
