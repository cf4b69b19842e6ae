package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/vinstock/internal/domain/models"
	"github.com/mamadbah2/vinstock/internal/service/stock"
)

// ListWines searches the inventory.
func (h *Handler) ListWines(c *gin.Context) {
	wineType := models.WineType(c.Query("type"))
	if wineType != "" && !wineType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown wine type"})
		return
	}
	c.JSON(http.StatusOK, h.stock.SearchWines(c.Query("search"), wineType))
}

// CreateWine adds a reference.
func (h *Handler) CreateWine(c *gin.Context) {
	var in stock.WineInput
	if !h.bindJSON(c, &in) {
		return
	}

	wine, err := h.stock.CreateWine(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, wine)
}

// UpdateWine edits a reference.
func (h *Handler) UpdateWine(c *gin.Context) {
	var in stock.WineInput
	if !h.bindJSON(c, &in) {
		return
	}

	wine, err := h.stock.UpdateWine(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, wine)
}

// DeleteWine removes a reference.
func (h *Handler) DeleteWine(c *gin.Context) {
	if err := h.stock.DeleteWine(c.Request.Context(), sessionRole(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateThresholds edits min and max stock.
func (h *Handler) UpdateThresholds(c *gin.Context) {
	var in stock.ThresholdInput
	if !h.bindJSON(c, &in) {
		return
	}

	wine, err := h.stock.UpdateThresholds(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, wine)
}

type adjustRequest struct {
	Amount int    `json:"amount"`
	Type   string `json:"type"`
}

// AdjustStock applies a signed stock correction. The type defaults to Vente.
func (h *Handler) AdjustStock(c *gin.Context) {
	var req adjustRequest
	if !h.bindJSON(c, &req) {
		return
	}

	flow := models.FlowSale
	if req.Type != "" {
		flow = models.TransactionType(req.Type)
	}

	tx, err := h.stock.Adjust(c.Request.Context(), c.Param("id"), req.Amount, flow)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}
