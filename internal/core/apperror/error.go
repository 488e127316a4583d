// Package apperror provides structured error handling for the merch ledger.
// All business errors use AppError so callers can branch on machine codes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"

	// Validation errors (400)
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidQuantity = "INVALID_QUANTITY"
	CodeInvalidPrice    = "INVALID_PRICE"

	// Business rule violations (422)
	CodeItemInactive           = "ITEM_INACTIVE"
	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodeReportIntegrity        = "REPORT_INTEGRITY"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict  = "CONFLICT"
	CodeDuplicate = "DUPLICATE_ENTRY"
)

// AppError is the standard error type for the module.
// It implements error and carries structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, quantities, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404).
// Entity names in use: "item", "sale", "alert".
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewItemInactive is returned when a sale targets a deactivated item.
func NewItemInactive(itemID any) *AppError {
	return &AppError{
		Code:       CodeItemInactive,
		Message:    "item is not active for sale",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"item_id": itemID},
	}
}

// NewInvalidQuantity is returned for a zero or negative sale quantity.
func NewInvalidQuantity(quantity int) *AppError {
	return &AppError{
		Code:       CodeInvalidQuantity,
		Message:    "quantity must be a positive integer",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"quantity": quantity},
	}
}

// NewInvalidPrice is returned for a negative unit price.
func NewInvalidPrice(price string) *AppError {
	return &AppError{
		Code:       CodeInvalidPrice,
		Message:    "unit price must not be negative",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"unit_price": price},
	}
}

// NewInsufficientStock creates a stock shortage error
func NewInsufficientStock(itemID string, requested, available int) *AppError {
	return &AppError{
		Code:       CodeInsufficientStock,
		Message:    "insufficient stock",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"item_id":   itemID,
			"requested": requested,
			"available": available,
		},
	}
}

// NewReportIntegrity is returned when grouped and raw report totals disagree.
// A report that fails reconciliation is never exposed to callers.
func NewReportIntegrity(message string) *AppError {
	return &AppError{
		Code:       CodeReportIntegrity,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewConcurrentModification creates an optimistic locking error
func NewConcurrentModification(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeConcurrentModification,
		Message:    "record was modified concurrently, please retry",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewDatabase wraps a storage-layer failure.
func NewDatabase(op string, err error) *AppError {
	return &AppError{
		Code:       CodeDatabase,
		Message:    fmt.Sprintf("storage operation failed: %s", op),
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewInternal creates an internal error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "internal error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicate creates a duplicate entry error (409)
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}

// IsInsufficientStock checks if error is CodeInsufficientStock
func IsInsufficientStock(err error) bool {
	return HasCode(err, CodeInsufficientStock)
}

// HasCode checks if error carries the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}
