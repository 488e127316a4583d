package handlers

import (
	"github.com/gin-gonic/gin"

	"merchtable/internal/domain/alerts"
	"merchtable/internal/infrastructure/http/v1/dto"
)

// AlertHandler handles HTTP requests for low-stock alerts.
type AlertHandler struct {
	*BaseHandler
	register *alerts.Register
}

// NewAlertHandler creates a new alert handler.
func NewAlertHandler(base *BaseHandler, register *alerts.Register) *AlertHandler {
	return &AlertHandler{
		BaseHandler: base,
		register:    register,
	}
}

// List handles GET /alerts
func (h *AlertHandler) List(c *gin.Context) {
	status := alerts.Status(c.Query("status"))

	list, err := h.register.List(c.Request.Context(), status)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := make([]dto.AlertResponse, len(list))
	for i, a := range list {
		resp[i] = dto.FromAlert(a)
	}

	h.OK(c, dto.AlertListResponse{
		Items:      resp,
		TotalCount: len(resp),
	})
}

// Resolve handles POST /alerts/:id/resolve
func (h *AlertHandler) Resolve(c *gin.Context) {
	alertID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.register.Resolve(c.Request.Context(), alertID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "alert resolved")
}

// RegisterRoutes registers alert routes.
func (h *AlertHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("/:id/resolve", h.Resolve)
}
