package item

import (
	"context"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/id"
	"merchtable/internal/domain"
	"merchtable/pkg/logger"
)

// Service provides business logic for the item catalog.
// Stock is deliberately absent from Update paths here; stock changes go
// through the ledger so the audit chain stays contiguous.
type Service struct {
	repo Repository
}

// NewService creates a new item catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new item. SKU must be unique within the band.
func (s *Service) Create(ctx context.Context, m *MerchandiseItem) error {
	if err := m.Validate(ctx); err != nil {
		return err
	}

	if existing, err := s.repo.FindBySKU(ctx, m.BandID, m.SKU); err == nil && existing.ID != m.ID {
		return apperror.NewDuplicate("item", "sku", m.SKU)
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return err
	}

	logger.Info(ctx, "item created", "id", m.ID, "sku", m.SKU)
	return nil
}

// GetByID retrieves an item.
func (s *Service) GetByID(ctx context.Context, itemID id.ID) (*MerchandiseItem, error) {
	return s.repo.GetByID(ctx, itemID)
}

// Update modifies item master data. Stock changes are rejected: callers
// must use the stock ledger for those.
func (s *Service) Update(ctx context.Context, m *MerchandiseItem) error {
	if err := m.Validate(ctx); err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	if current.Stock != m.Stock {
		return apperror.NewValidation("stock cannot be changed directly; use a stock adjustment").
			WithDetail("field", "stock")
	}

	if existing, err := s.repo.FindBySKU(ctx, m.BandID, m.SKU); err == nil && existing.ID != m.ID {
		return apperror.NewDuplicate("item", "sku", m.SKU)
	}

	m.Touch()
	return s.repo.Update(ctx, m)
}

// Deactivate takes an item off sale without deleting its history.
func (s *Service) Deactivate(ctx context.Context, itemID id.ID) error {
	m, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if !m.Active {
		return nil
	}
	m.Active = false
	m.Touch()
	return s.repo.Update(ctx, m)
}

// List retrieves items with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*MerchandiseItem], error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	return s.repo.List(ctx, filter)
}

// FindLowStock retrieves items at or below their threshold.
func (s *Service) FindLowStock(ctx context.Context, defaultThreshold int) ([]*MerchandiseItem, error) {
	return s.repo.FindLowStock(ctx, defaultThreshold)
}
