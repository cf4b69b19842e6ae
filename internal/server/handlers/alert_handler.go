package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/vinstock/internal/service/alerts"
)

// ListAlerts evaluates the current alert sets.
func (h *Handler) ListAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, h.alerts.Current())
}

// ListRules returns the custom rules.
func (h *Handler) ListRules(c *gin.Context) {
	c.JSON(http.StatusOK, h.alerts.Rules())
}

// CreateRule adds a custom rule.
func (h *Handler) CreateRule(c *gin.Context) {
	var in alerts.RuleInput
	if !h.bindJSON(c, &in) {
		return
	}

	rule, err := h.alerts.CreateRule(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// DeleteRule removes a custom rule.
func (h *Handler) DeleteRule(c *gin.Context) {
	if err := h.alerts.DeleteRule(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
