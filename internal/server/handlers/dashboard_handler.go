package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Dashboard returns KPIs, distributions and rotation.
func (h *Handler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.analytics.Dashboard())
}
