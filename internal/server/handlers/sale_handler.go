package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/vinstock/internal/service/stock"
)

// ListSales returns the ledger newest first.
func (h *Handler) ListSales(c *gin.Context) {
	c.JSON(http.StatusOK, h.stock.Transactions())
}

// RecordSale registers a sale by the session user.
func (h *Handler) RecordSale(c *gin.Context) {
	var in stock.SaleInput
	if !h.bindJSON(c, &in) {
		return
	}
	in.SellerName = sessionUser(c)

	tx, err := h.stock.RecordSale(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// DeleteSale removes a ledger entry.
func (h *Handler) DeleteSale(c *gin.Context) {
	if err := h.stock.DeleteTransaction(c.Request.Context(), sessionRole(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SalesSummary returns the ledger totals.
func (h *Handler) SalesSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.stock.Summary())
}

// ExportSales streams the ledger as CSV.
func (h *Handler) ExportSales(c *gin.Context) {
	body, filename, err := h.reporting.ExportCSV()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}
