// Package item provides the merchandise item catalog.
// An item's stock count is owned by the stock ledger: nothing outside the
// ledger writes Stock, so every change has a matching log entry.
package item

import (
	"context"
	"time"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/id"
	"merchtable/internal/core/types"
)

// MerchandiseItem represents one sellable merch product (shirt, vinyl, poster).
type MerchandiseItem struct {
	ID id.ID `db:"id" json:"id"`

	Name string `db:"name" json:"name"`

	// SKU is the stock keeping unit code (unique per band)
	SKU string `db:"sku" json:"sku"`

	// UnitPrice is the selling price per unit
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// UnitCost is the acquisition cost per unit (for margin reports)
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`

	// Stock is the current on-hand count. Mutated only through the
	// stock ledger's AdjustStock, never by direct write.
	Stock int `db:"stock" json:"stock"`

	// LowStockThreshold triggers an alert when stock falls to or below it.
	// Nil falls back to the ledger's configured default.
	LowStockThreshold *int `db:"low_stock_threshold" json:"lowStockThreshold,omitempty"`

	// Active indicates the item can be sold
	Active bool `db:"active" json:"active"`

	// BandID references the owning band
	BandID id.ID `db:"band_id" json:"bandId"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`
}

// New creates a merchandise item with generated ID.
func New(name, sku string, unitPrice types.Money, bandID id.ID) *MerchandiseItem {
	now := time.Now().UTC()
	return &MerchandiseItem{
		ID:        id.New(),
		Name:      name,
		SKU:       sku,
		UnitPrice: unitPrice,
		UnitCost:  types.ZeroMoney(),
		Active:    true,
		BandID:    bandID,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
}

// Validate checks item invariants.
func (m *MerchandiseItem) Validate(ctx context.Context) error {
	if m.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if m.SKU == "" {
		return apperror.NewValidation("sku is required").
			WithDetail("field", "sku")
	}
	if m.UnitPrice.IsNegative() {
		return apperror.NewInvalidPrice(m.UnitPrice.String())
	}
	if m.UnitCost.IsNegative() {
		return apperror.NewValidation("unit cost cannot be negative").
			WithDetail("field", "unitCost")
	}
	if m.Stock < 0 {
		return apperror.NewValidation("stock cannot be negative").
			WithDetail("field", "stock")
	}
	if m.LowStockThreshold != nil && *m.LowStockThreshold < 0 {
		return apperror.NewValidation("low stock threshold cannot be negative").
			WithDetail("field", "lowStockThreshold")
	}
	if id.IsNil(m.BandID) {
		return apperror.NewValidation("band is required").
			WithDetail("field", "bandId")
	}
	return nil
}

// ThresholdOr returns the item's threshold, or def when not set.
func (m *MerchandiseItem) ThresholdOr(def int) int {
	if m.LowStockThreshold != nil {
		return *m.LowStockThreshold
	}
	return def
}

// Touch updates the UpdatedAt timestamp and increments version.
func (m *MerchandiseItem) Touch() {
	m.UpdatedAt = time.Now().UTC()
	m.Version++
}
