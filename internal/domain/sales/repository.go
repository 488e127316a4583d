package sales

import (
	"context"

	"merchtable/internal/core/id"
)

// Repository defines the sale log store.
type Repository interface {
	// Insert persists a committed sale
	Insert(ctx context.Context, sale *Sale) error

	// GetByID retrieves a sale
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)

	// Query retrieves sales matching the filter, oldest first
	Query(ctx context.Context, filter Filter) ([]*Sale, error)

	// Delete removes a sale row. Only the reversal path and the
	// compensating cleanup after a failed stock adjustment call this.
	Delete(ctx context.Context, saleID id.ID) error
}
