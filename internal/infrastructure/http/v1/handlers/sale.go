package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/id"
	"merchtable/internal/core/types"
	"merchtable/internal/domain/sales"
	"merchtable/internal/export"
	"merchtable/internal/infrastructure/http/v1/dto"
)

// SaleHandler handles HTTP requests for sale recording. Staging sessions
// are held in memory per actor; they are working state, not durable data.
type SaleHandler struct {
	*BaseHandler
	recorder *sales.Recorder

	mu       sync.Mutex
	sessions map[id.ID]*sales.Session
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, recorder *sales.Recorder) *SaleHandler {
	return &SaleHandler{
		BaseHandler: base,
		recorder:    recorder,
		sessions:    make(map[id.ID]*sales.Session),
	}
}

// session returns the actor's staging session, opening one on first use.
func (h *SaleHandler) session(actorID id.ID) *sales.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[actorID]
	if !ok {
		s = sales.OpenSession(actorID)
		h.sessions[actorID] = s
	}
	return s
}

// Record handles POST /sales
func (h *SaleHandler) Record(c *gin.Context) {
	actorID, ok := h.RequireActor(c)
	if !ok {
		return
	}

	var req dto.RecordSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	itemID, err := id.Parse(req.ItemID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid itemId format"))
		return
	}

	price, err := types.NewMoneyFromString(req.UnitPrice)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid unitPrice format").
			WithDetail("unitPrice", req.UnitPrice))
		return
	}

	candidate := sales.CandidateSale{
		ItemID:        itemID,
		Quantity:      req.Quantity,
		UnitPrice:     price,
		PaymentMethod: sales.PaymentMethod(req.PaymentMethod),
		ActorID:       actorID,
		Notes:         req.Notes,
	}

	if req.ShowID != "" {
		showID, err := id.Parse(req.ShowID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid showId format"))
			return
		}
		candidate.ShowID = &showID
	}
	if req.SalesPageID != "" {
		pageID, err := id.Parse(req.SalesPageID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid salesPageId format"))
			return
		}
		candidate.SalesPageID = &pageID
	}

	saleID, err := h.recorder.RecordSale(c.Request.Context(), candidate)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, saleID.String())
}

// Reverse handles POST /sales/:id/reverse
func (h *SaleHandler) Reverse(c *gin.Context) {
	saleID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, ok := h.RequireActor(c)
	if !ok {
		return
	}

	if err := h.recorder.ReverseSale(c.Request.Context(), saleID, actorID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "sale reversed")
}

// List handles GET /sales
func (h *SaleHandler) List(c *gin.Context) {
	list, err := h.recorder.List(c.Request.Context(), h.saleFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := make([]dto.SaleResponse, len(list))
	for i, s := range list {
		resp[i] = dto.FromSale(s)
	}

	h.OK(c, dto.SaleListResponse{
		Items:      resp,
		TotalCount: len(resp),
	})
}

// Export handles GET /sales/export
func (h *SaleHandler) Export(c *gin.Context) {
	list, err := h.recorder.List(c.Request.Context(), h.saleFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="sales.csv"`)
	c.Status(http.StatusOK)
	if err := export.WriteCSV(c.Writer, export.SaleRows(list)); err != nil {
		h.Error(c, err)
	}
}

// --- Staging session endpoints ---

// GetSession handles GET /sales/session
func (h *SaleHandler) GetSession(c *gin.Context) {
	actorID, ok := h.RequireActor(c)
	if !ok {
		return
	}

	session := h.session(actorID)
	h.OK(c, dto.SessionResponse{
		ActorID: actorID.String(),
		Items:   session.Items(),
	})
}

// StageItem handles POST /sales/session/items
func (h *SaleHandler) StageItem(c *gin.Context) {
	actorID, ok := h.RequireActor(c)
	if !ok {
		return
	}

	var req dto.StageItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	itemID, err := id.Parse(req.ItemID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid itemId format"))
		return
	}

	session := h.session(actorID)
	if err := session.StageItem(itemID, req.Quantity); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.SessionResponse{
		ActorID: actorID.String(),
		Items:   session.Items(),
	})
}

// UpdateStaged handles PUT /sales/session/items/:itemId
func (h *SaleHandler) UpdateStaged(c *gin.Context) {
	actorID, ok := h.RequireActor(c)
	if !ok {
		return
	}

	itemID, ok := h.ParseIDParam(c, "itemId")
	if !ok {
		return
	}

	var req dto.UpdateStagedRequest
	if !h.BindJSON(c, &req) {
		return
	}

	session := h.session(actorID)
	if err := session.UpdateStaged(itemID, req.Quantity); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.SessionResponse{
		ActorID: actorID.String(),
		Items:   session.Items(),
	})
}

// RemoveStaged handles DELETE /sales/session/items/:itemId
func (h *SaleHandler) RemoveStaged(c *gin.Context) {
	actorID, ok := h.RequireActor(c)
	if !ok {
		return
	}

	itemID, ok := h.ParseIDParam(c, "itemId")
	if !ok {
		return
	}

	session := h.session(actorID)
	if err := session.RemoveStaged(itemID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// ClearSession handles DELETE /sales/session
func (h *SaleHandler) ClearSession(c *gin.Context) {
	actorID, ok := h.RequireActor(c)
	if !ok {
		return
	}

	h.session(actorID).Clear()
	h.NoContent(c)
}

// CommitSession handles POST /sales/session/commit
func (h *SaleHandler) CommitSession(c *gin.Context) {
	actorID, ok := h.RequireActor(c)
	if !ok {
		return
	}

	var req dto.CommitSessionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var showID *id.ID
	if req.ShowID != "" {
		parsed, err := id.Parse(req.ShowID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid showId format"))
			return
		}
		showID = &parsed
	}

	session := h.session(actorID)
	results, err := h.recorder.Commit(c.Request.Context(), session,
		sales.PaymentMethod(req.PaymentMethod), showID, req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.CommitSessionResponse{
		Results: make([]dto.CommitResultResponse, len(results)),
	}
	for i, r := range results {
		resp.Results[i] = dto.FromCommitResult(r)
		if r.Err != nil {
			resp.Failed++
		} else {
			resp.Committed++
		}
	}

	h.OK(c, resp)
}

func (h *SaleHandler) saleFilter(c *gin.Context) sales.Filter {
	filter := sales.Filter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
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

// RegisterRoutes registers sale routes.
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Record)
	rg.GET("", h.List)
	rg.GET("/export", h.Export)

	rg.GET("/session", h.GetSession)
	rg.DELETE("/session", h.ClearSession)
	rg.POST("/session/items", h.StageItem)
	rg.PUT("/session/items/:itemId", h.UpdateStaged)
	rg.DELETE("/session/items/:itemId", h.RemoveStaged)
	rg.POST("/session/commit", h.CommitSession)

	rg.POST("/:id/reverse", h.Reverse)
}
