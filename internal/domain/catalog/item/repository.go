package item

import (
	"context"

	"merchtable/internal/core/id"
	"merchtable/internal/domain"
)

// Repository defines the interface for merchandise item persistence.
// The ledger and recorder depend only on this interface, not on any
// specific storage technology.
type Repository interface {
	// Create inserts a new item
	Create(ctx context.Context, item *MerchandiseItem) error

	// GetByID retrieves item by ID
	GetByID(ctx context.Context, itemID id.ID) (*MerchandiseItem, error)

	// FindBySKU retrieves item by SKU within a band
	FindBySKU(ctx context.Context, bandID id.ID, sku string) (*MerchandiseItem, error)

	// Update modifies non-stock fields (with optimistic locking)
	Update(ctx context.Context, item *MerchandiseItem) error

	// UpdateStockCAS sets the stock count only if the stored value still
	// equals expected. Returns apperror.CodeConcurrentModification when the
	// compare fails. This is the ledger's only write path for stock.
	UpdateStockCAS(ctx context.Context, itemID id.ID, expected, newStock int) error

	// List retrieves items with filtering and pagination
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*MerchandiseItem], error)

	// FindLowStock retrieves active items at or below their threshold
	// (defaultThreshold applies to items without an explicit one).
	FindLowStock(ctx context.Context, defaultThreshold int) ([]*MerchandiseItem, error)

	// Exists checks if item with given ID exists
	Exists(ctx context.Context, itemID id.ID) (bool, error)
}
