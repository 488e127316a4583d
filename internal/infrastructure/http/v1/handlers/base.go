// Package handlers provides HTTP request handlers for API v1.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/appctx"
	"merchtable/internal/core/id"
	"merchtable/internal/infrastructure/http/v1/dto"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler (single source of truth).
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseIntQuery parses integer query parameter with default value.
func (h *BaseHandler) ParseIntQuery(c *gin.Context, key string, defaultVal int) int {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// ParseIDParam parses a path parameter as an ID, reporting a validation
// error on failure.
func (h *BaseHandler) ParseIDParam(c *gin.Context, name string) (id.ID, bool) {
	parsed, err := id.Parse(c.Param(name))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid "+name+" format"))
		return id.Nil(), false
	}
	return parsed, true
}

// RequireActor extracts the acting user from request context. Mutating
// endpoints refuse requests without one: the audit trail needs an actor.
func (h *BaseHandler) RequireActor(c *gin.Context) (id.ID, bool) {
	actor := appctx.GetActor(c.Request.Context())
	if actor == nil || id.IsNil(actor.ActorID) {
		h.Error(c, apperror.NewValidation("X-Actor-ID header is required"))
		return id.Nil(), false
	}
	return actor.ActorID, true
}

// Created sends 201 response with ID.
func (h *BaseHandler) Created(c *gin.Context, id string) {
	c.JSON(http.StatusCreated, dto.IDResponse{ID: id})
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// NoContent sends 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Success sends success response.
func (h *BaseHandler) Success(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: message})
}
