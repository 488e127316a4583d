package dto

import (
	"time"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/id"
	"merchtable/internal/core/types"
	"merchtable/internal/domain/catalog/item"
)

// ItemResponse contains merchandise item fields.
type ItemResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	SKU               string    `json:"sku"`
	UnitPrice         string    `json:"unitPrice"`
	UnitCost          string    `json:"unitCost"`
	Stock             int       `json:"stock"`
	LowStockThreshold *int      `json:"lowStockThreshold,omitempty"`
	Active            bool      `json:"active"`
	BandID            string    `json:"bandId"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
	Version           int       `json:"version"`
}

// FromItem creates ItemResponse from the domain model.
func FromItem(m *item.MerchandiseItem) ItemResponse {
	return ItemResponse{
		ID:                m.ID.String(),
		Name:              m.Name,
		SKU:               m.SKU,
		UnitPrice:         m.UnitPrice.StringFixed(2),
		UnitCost:          m.UnitCost.StringFixed(2),
		Stock:             m.Stock,
		LowStockThreshold: m.LowStockThreshold,
		Active:            m.Active,
		BandID:            m.BandID.String(),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
		Version:           m.Version,
	}
}

// CreateItemRequest for creating items.
type CreateItemRequest struct {
	Name              string `json:"name" binding:"required"`
	SKU               string `json:"sku" binding:"required"`
	UnitPrice         string `json:"unitPrice" binding:"required"`
	UnitCost          string `json:"unitCost"`
	InitialStock      int    `json:"initialStock"`
	LowStockThreshold *int   `json:"lowStockThreshold"`
	BandID            string `json:"bandId" binding:"required"`
}

// ToItem converts the request into a domain model.
func (r CreateItemRequest) ToItem() (*item.MerchandiseItem, error) {
	bandID, err := id.Parse(r.BandID)
	if err != nil {
		return nil, apperror.NewValidation("invalid bandId format")
	}

	price, err := types.NewMoneyFromString(r.UnitPrice)
	if err != nil {
		return nil, apperror.NewValidation("invalid unitPrice format").
			WithDetail("unitPrice", r.UnitPrice)
	}

	m := item.New(r.Name, r.SKU, price, bandID)
	m.Stock = r.InitialStock
	m.LowStockThreshold = r.LowStockThreshold

	if r.UnitCost != "" {
		cost, err := types.NewMoneyFromString(r.UnitCost)
		if err != nil {
			return nil, apperror.NewValidation("invalid unitCost format").
				WithDetail("unitCost", r.UnitCost)
		}
		m.UnitCost = cost
	}

	return m, nil
}

// UpdateItemRequest for updating item master data. Stock is absent on
// purpose: stock changes go through the stock adjustment endpoint.
type UpdateItemRequest struct {
	Name              *string `json:"name"`
	SKU               *string `json:"sku"`
	UnitPrice         *string `json:"unitPrice"`
	UnitCost          *string `json:"unitCost"`
	LowStockThreshold *int    `json:"lowStockThreshold"`
	Active            *bool   `json:"active"`
}

// Apply merges set fields onto the model.
func (r UpdateItemRequest) Apply(m *item.MerchandiseItem) error {
	if r.Name != nil {
		m.Name = *r.Name
	}
	if r.SKU != nil {
		m.SKU = *r.SKU
	}
	if r.UnitPrice != nil {
		price, err := types.NewMoneyFromString(*r.UnitPrice)
		if err != nil {
			return apperror.NewValidation("invalid unitPrice format").
				WithDetail("unitPrice", *r.UnitPrice)
		}
		m.UnitPrice = price
	}
	if r.UnitCost != nil {
		cost, err := types.NewMoneyFromString(*r.UnitCost)
		if err != nil {
			return apperror.NewValidation("invalid unitCost format").
				WithDetail("unitCost", *r.UnitCost)
		}
		m.UnitCost = cost
	}
	if r.LowStockThreshold != nil {
		m.LowStockThreshold = r.LowStockThreshold
	}
	if r.Active != nil {
		m.Active = *r.Active
	}
	return nil
}
