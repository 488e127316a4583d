// Package domain provides shared types for domain services.
package domain

import (
	"merchtable/internal/core/id"
)

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search performs substring match on name and SKU
	Search string

	// IDs filters by specific IDs
	IDs []id.ID

	// BandID scopes results to one band's merchandise
	BandID *id.ID

	// ActiveOnly excludes deactivated items
	ActiveOnly bool

	// OrderBy specifies sorting (e.g. "name", "-created_at")
	OrderBy string

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "name",
	}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}
