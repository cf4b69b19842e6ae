package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/vinstock/internal/service/alerts"
	"github.com/mamadbah2/vinstock/internal/service/analytics"
	"github.com/mamadbah2/vinstock/internal/service/reporting"
	"github.com/mamadbah2/vinstock/internal/service/stock"
	"github.com/mamadbah2/vinstock/internal/validation"
)

// Handler adapts the shop services to HTTP.
type Handler struct {
	stock     *stock.Engine
	alerts    *alerts.Service
	analytics *analytics.Service
	reporting *reporting.Service
	logger    *zap.Logger
}

// NewHandler constructs the HTTP handler adapter.
func NewHandler(engine *stock.Engine, alertSvc *alerts.Service, analyticsSvc *analytics.Service, reportingSvc *reporting.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		stock:     engine,
		alerts:    alertSvc,
		analytics: analyticsSvc,
		reporting: reportingSvc,
		logger:    logger,
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var permErr *stock.PermissionError

	switch {
	case errors.Is(err, stock.ErrInvalidInput), errors.Is(err, alerts.ErrInvalidRule):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid input",
			"details": validation.GetValidationErrors(err),
		})
	case errors.Is(err, stock.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": stock.ErrInsufficientStock.Error()})
	case errors.As(err, &permErr):
		c.JSON(http.StatusForbidden, gin.H{"error": permErr.Message})
	case errors.Is(err, stock.ErrWineNotFound),
		errors.Is(err, stock.ErrTransactionNotFound),
		errors.Is(err, alerts.ErrRuleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, reporting.ErrNothingToExport):
		c.JSON(http.StatusNotFound, gin.H{"error": reporting.ErrNothingToExport.Error()})
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		h.logger.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}
