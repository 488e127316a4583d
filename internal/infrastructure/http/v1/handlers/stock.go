package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"merchtable/internal/domain/ledger"
	"merchtable/internal/export"
	"merchtable/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for the stock ledger.
type StockHandler struct {
	*BaseHandler
	ledger *ledger.Service
}

// NewStockHandler creates a new stock ledger handler.
func NewStockHandler(base *BaseHandler, ledgerSvc *ledger.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		ledger:      ledgerSvc,
	}
}

// Adjust handles POST /items/:id/stock
func (h *StockHandler) Adjust(c *gin.Context) {
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, ok := h.RequireActor(c)
	if !ok {
		return
	}

	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.ledger.AdjustStock(c.Request.Context(), ledger.AdjustCommand{
		ItemID:  itemID,
		Delta:   req.Delta,
		Reason:  ledger.Reason(req.Reason),
		ActorID: actorID,
		Notes:   req.Notes,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAdjustResult(result))
}

// History handles GET /items/:id/stock/history
func (h *StockHandler) History(c *gin.Context) {
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.ledger.History(c.Request.Context(), itemID, h.historyFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := make([]dto.StockLogEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = dto.FromLogEntry(e)
	}

	h.OK(c, dto.StockLogListResponse{
		Items:      resp,
		TotalCount: len(resp),
	})
}

// ExportHistory handles GET /items/:id/stock/history/export
func (h *StockHandler) ExportHistory(c *gin.Context) {
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.ledger.History(c.Request.Context(), itemID, h.historyFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="stock_log.csv"`)
	c.Status(http.StatusOK)
	if err := export.WriteCSV(c.Writer, export.LedgerRows(entries)); err != nil {
		h.Error(c, err)
	}
}

func (h *StockHandler) historyFilter(c *gin.Context) ledger.HistoryFilter {
	filter := ledger.HistoryFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if reasonStr := c.Query("reason"); reasonStr != "" {
		reason := ledger.Reason(reasonStr)
		filter.Reason = &reason
	}

	if fromStr := c.Query("fromDate"); fromStr != "" {
		if parsed, err := time.Parse(time.RFC3339, fromStr); err == nil {
			filter.FromDate = &parsed
		}
	}
	if toStr := c.Query("toDate"); toStr != "" {
		if parsed, err := time.Parse(time.RFC3339, toStr); err == nil {
			filter.ToDate = &parsed
		}
	}

	return filter
}

// RegisterRoutes registers stock ledger routes under the items group.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/stock", h.Adjust)
	rg.GET("/:id/stock/history", h.History)
	rg.GET("/:id/stock/history/export", h.ExportHistory)
}
