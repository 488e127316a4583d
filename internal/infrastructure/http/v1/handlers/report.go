package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"merchtable/internal/core/id"
	"merchtable/internal/domain/reports"
	"merchtable/internal/domain/sales"
	"merchtable/internal/export"
	"merchtable/internal/infrastructure/http/v1/dto"
)

// ReportHandler handles HTTP requests for the sales report engine.
type ReportHandler struct {
	*BaseHandler
	engine *reports.Engine
}

// NewReportHandler creates a new report handler.
func NewReportHandler(base *BaseHandler, engine *reports.Engine) *ReportHandler {
	return &ReportHandler{
		BaseHandler: base,
		engine:      engine,
	}
}

// GetSalesReport handles GET /reports/sales
func (h *ReportHandler) GetSalesReport(c *gin.Context) {
	report, err := h.engine.BuildSalesReport(c.Request.Context(), h.reportFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromReport(report))
}

// ExportSalesReport handles GET /reports/sales/export
func (h *ReportHandler) ExportSalesReport(c *gin.Context) {
	report, err := h.engine.BuildSalesReport(c.Request.Context(), h.reportFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	rows, err := export.ReportRows(report)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="sales_report.csv"`)
	c.Status(http.StatusOK)
	if err := export.WriteCSV(c.Writer, rows); err != nil {
		h.Error(c, err)
	}
}

func (h *ReportHandler) reportFilter(c *gin.Context) reports.Filter {
	filter := reports.Filter{
		Bucket: reports.Bucket(c.Query("bucket")),
	}

	parseIDQuery := func(key string) *id.ID {
		if raw := c.Query(key); raw != "" {
			if parsed, err := id.Parse(raw); err == nil {
				return &parsed
			}
		}
		return nil
	}

	filter.ItemID = parseIDQuery("itemId")
	filter.BandID = parseIDQuery("bandId")
	filter.ShowID = parseIDQuery("showId")
	filter.SalesPageID = parseIDQuery("salesPageId")
	filter.ActorID = parseIDQuery("actorId")

	if pm := c.Query("paymentMethod"); pm != "" {
		method := sales.PaymentMethod(pm)
		filter.PaymentMethod = &method
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

// RegisterRoutes registers report routes.
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/sales", h.GetSalesReport)
	rg.GET("/sales/export", h.ExportSalesReport)
}
