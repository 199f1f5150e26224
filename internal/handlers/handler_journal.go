package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	portssvc "github.com/sarrafly/exchange_backoffice/internal/core/ports/services"
	"github.com/sarrafly/exchange_backoffice/internal/dto"
	"github.com/sarrafly/exchange_backoffice/internal/utils/pagination"
)

var errInvalidLimit = errors.New("invalid limit: must be a non-negative integer")

// journalHandler serves read access to the append-only journal.
type journalHandler struct {
	journalService portssvc.JournalReaderSvc
}

func newJournalHandler(js portssvc.JournalReaderSvc) *journalHandler {
	return &journalHandler{journalService: js}
}

// registerJournalRoutes registers tenant-scoped journal read routes.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalReaderSvc) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/entries")
	{
		entries.GET("", h.scanEntries)
		entries.GET("/:sequence", h.getEntry)
	}
}

func (h *journalHandler) getEntry(c *gin.Context) {
	seq, err := strconv.ParseInt(c.Param("sequence"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sequence number"})
		return
	}

	entry, err := h.journalService.GetEntry(c.Request.Context(), c.Param("tenant_id"), seq)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

func (h *journalHandler) scanEntries(c *gin.Context) {
	filter, err := h.buildFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries, nextToken, err := h.journalService.ScanEntries(c.Request.Context(), c.Param("tenant_id"), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.ScanEntriesResponse{NextToken: nextToken}
	resp.Entries = make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		resp.Entries[i] = dto.ToJournalEntryResponse(&entries[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *journalHandler) buildFilter(c *gin.Context) (domain.EntryFilter, error) {
	var filter domain.EntryFilter
	var err error

	if filter.From, err = parseTimeQuery(c, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = parseTimeQuery(c, "to"); err != nil {
		return filter, err
	}
	filter.AccountCode = c.Query("accountCode")
	filter.OriginKind = domain.EventKind(c.Query("originKind"))
	filter.IncludeLines = c.Query("includeLines") == "true"

	if raw := c.Query("limit"); raw != "" {
		limit, perr := strconv.Atoi(raw)
		if perr != nil || limit < 0 {
			return filter, errInvalidLimit
		}
		filter.Limit = limit
	}

	if token := c.Query("nextToken"); token != "" {
		afterSeq, perr := pagination.DecodeSeqToken(token)
		if perr != nil {
			return filter, perr
		}
		filter.AfterSeq = afterSeq
	}

	return filter, nil
}
