package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sarrafly/exchange_backoffice/internal/apperrors"
	"github.com/sarrafly/exchange_backoffice/internal/middleware"
)

// respondError maps core error kinds onto HTTP statuses. Unrecognized errors
// surface as 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var status int
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrUnbalanced),
		errors.Is(err, apperrors.ErrInvalidAccount),
		errors.Is(err, apperrors.ErrInactiveAccount),
		errors.Is(err, apperrors.ErrCurrencyMismatch),
		errors.Is(err, apperrors.ErrUnknownEventKind),
		errors.Is(err, apperrors.ErrMissingPolicy):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrDoubleReversal):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrBusy):
		status = http.StatusTooManyRequests
	default:
		logger.Error("Unhandled service error", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	logger.Warn("Request failed", "status", status, "error", err.Error())
	c.JSON(status, gin.H{"error": err.Error()})
}

// requireActor pulls the authenticated actor ID or aborts with 401.
func requireActor(c *gin.Context) (string, bool) {
	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return actorID, true
}

// parseTimeQuery reads an optional RFC3339 (or date-only) query parameter.
func parseTimeQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: expected RFC3339 or YYYY-MM-DD", key)
	}
	return &t, nil
}

// requireTimeQuery is parseTimeQuery for mandatory parameters.
func requireTimeQuery(c *gin.Context, key string) (time.Time, error) {
	t, err := parseTimeQuery(c, key)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, fmt.Errorf("missing required query parameter %s", key)
	}
	return *t, nil
}

// requirePeriodQuery reads the from/to pair shared by the period reports.
func requirePeriodQuery(c *gin.Context) (time.Time, time.Time, error) {
	from, err := requireTimeQuery(c, "from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := requireTimeQuery(c, "to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to must not precede from")
	}
	return from, to, nil
}
