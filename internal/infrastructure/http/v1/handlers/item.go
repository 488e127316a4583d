package handlers

import (
	"github.com/gin-gonic/gin"

	"merchtable/internal/core/id"
	"merchtable/internal/domain"
	"merchtable/internal/domain/catalog/item"
	"merchtable/internal/infrastructure/http/v1/dto"
)

// ItemHandler handles HTTP requests for the merchandise catalog.
type ItemHandler struct {
	*BaseHandler
	service *item.Service
}

// NewItemHandler creates a new item catalog handler.
func NewItemHandler(base *BaseHandler, service *item.Service) *ItemHandler {
	return &ItemHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /items
func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := req.ToItem()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), m); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, m.ID.String())
}

// Get handles GET /items/:id
func (h *ItemHandler) Get(c *gin.Context) {
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	m, err := h.service.GetByID(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromItem(m))
}

// Update handles PATCH /items/:id
func (h *ItemHandler) Update(c *gin.Context) {
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	m, err := h.service.GetByID(ctx, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.Apply(m); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(ctx, m); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromItem(m))
}

// Deactivate handles POST /items/:id/deactivate
func (h *ItemHandler) Deactivate(c *gin.Context) {
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), itemID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "item deactivated")
}

// List handles GET /items
func (h *ItemHandler) List(c *gin.Context) {
	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.ActiveOnly = c.Query("activeOnly") == "true"
	filter.OrderBy = c.DefaultQuery("orderBy", filter.OrderBy)
	filter.Limit = h.ParseIntQuery(c, "limit", filter.Limit)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	if bandStr := c.Query("bandId"); bandStr != "" {
		parsed, err := id.Parse(bandStr)
		if err == nil {
			filter.BandID = &parsed
		}
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.ItemResponse, len(result.Items))
	for i, m := range result.Items {
		items[i] = dto.FromItem(m)
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// LowStock handles GET /items/low-stock
func (h *ItemHandler) LowStock(c *gin.Context) {
	defaultThreshold := h.ParseIntQuery(c, "defaultThreshold", 5)

	items, err := h.service.FindLowStock(c.Request.Context(), defaultThreshold)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := make([]dto.ItemResponse, len(items))
	for i, m := range items {
		resp[i] = dto.FromItem(m)
	}

	h.OK(c, dto.ListResponse{Items: resp, TotalCount: int64(len(resp))})
}

// RegisterRoutes registers item catalog routes.
func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/low-stock", h.LowStock)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.POST("/:id/deactivate", h.Deactivate)
}
