package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sarrafly/exchange_backoffice/internal/core/ports/services"
	"github.com/sarrafly/exchange_backoffice/internal/dto"
)

// ledgerHandler serves balances, general-ledger views and snapshot runs.
type ledgerHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

func newLedgerHandler(bs portssvc.BalanceSvcFacade) *ledgerHandler {
	return &ledgerHandler{balanceService: bs}
}

// registerLedgerRoutes registers tenant-scoped balance and ledger routes.
func registerLedgerRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade) {
	h := newLedgerHandler(balanceService)

	rg.GET("/accounts/:code/balance", h.getBalance)
	rg.GET("/accounts/:code/ledger", h.getGeneralLedger)
	rg.POST("/snapshots", h.snapshotEndOfDay)
}

func (h *ledgerHandler) getBalance(c *gin.Context) {
	asOf, err := parseTimeQuery(c, "asOf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if asOf == nil {
		now := time.Now().UTC()
		asOf = &now
	}

	code := c.Param("code")
	balance, err := h.balanceService.AccountBalance(c.Request.Context(), c.Param("tenant_id"), code, *asOf)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountCode: code,
		AsOf:        *asOf,
		Balance:     balance,
	})
}

func (h *ledgerHandler) getGeneralLedger(c *gin.Context) {
	from, to, err := requirePeriodQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines, err := h.balanceService.GeneralLedger(c.Request.Context(), c.Param("tenant_id"), c.Param("code"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerLineResponses(lines))
}

func (h *ledgerHandler) snapshotEndOfDay(c *gin.Context) {
	day, err := requireTimeQuery(c, "day")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	count, err := h.balanceService.SnapshotEndOfDay(c.Request.Context(), c.Param("tenant_id"), day, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"snapshotCount": count})
}
