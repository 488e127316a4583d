package memory

import (
	"context"
	"sort"
	"strings"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/id"
	"merchtable/internal/domain"
	"merchtable/internal/domain/catalog/item"
)

// ItemRepo implements item.Repository over the in-memory store.
type ItemRepo struct {
	store *Store
}

// NewItemRepo creates an item repository.
func NewItemRepo(store *Store) *ItemRepo {
	return &ItemRepo{store: store}
}

// Create inserts a new item.
func (r *ItemRepo) Create(ctx context.Context, m *item.MerchandiseItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.items[m.ID]; ok {
		return apperror.NewDuplicate("item", "id", m.ID.String())
	}
	r.store.items[m.ID] = copyItem(m)
	return nil
}

// GetByID retrieves an item.
func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.MerchandiseItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	m, ok := r.store.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("item", itemID)
	}
	return copyItem(m), nil
}

// FindBySKU retrieves an item by SKU within a band.
func (r *ItemRepo) FindBySKU(ctx context.Context, bandID id.ID, sku string) (*item.MerchandiseItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, m := range r.store.items {
		if m.BandID == bandID && m.SKU == sku {
			return copyItem(m), nil
		}
	}
	return nil, apperror.NewNotFound("item", sku)
}

// Update modifies non-stock fields with optimistic locking.
func (r *ItemRepo) Update(ctx context.Context, m *item.MerchandiseItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.items[m.ID]
	if !ok {
		return apperror.NewNotFound("item", m.ID)
	}
	// Exact match on the prior version: a stale copy and a copy whose
	// version skipped ahead are both concurrent-modification conflicts.
	if current.Version != m.Version-1 {
		return apperror.NewConcurrentModification("item", m.ID)
	}
	stored := copyItem(m)
	stored.Stock = current.Stock // stock writes only through UpdateStockCAS
	r.store.items[m.ID] = stored
	return nil
}

// UpdateStockCAS sets stock only when the stored value equals expected.
func (r *ItemRepo) UpdateStockCAS(ctx context.Context, itemID id.ID, expected, newStock int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m, ok := r.store.items[itemID]
	if !ok {
		return apperror.NewNotFound("item", itemID)
	}
	if m.Stock != expected {
		return apperror.NewConcurrentModification("item", itemID)
	}
	m.Stock = newStock
	m.Touch()
	return nil
}

// List retrieves items with filtering and pagination.
func (r *ItemRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*item.MerchandiseItem], error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*item.MerchandiseItem
	for _, m := range r.store.items {
		if filter.BandID != nil && m.BandID != *filter.BandID {
			continue
		}
		if filter.ActiveOnly && !m.Active {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(m.Name), needle) &&
				!strings.Contains(strings.ToLower(m.SKU), needle) {
				continue
			}
		}
		matched = append(matched, copyItem(m))
	}

	sort.Slice(matched, func(i, j int) bool {
		if filter.OrderBy == "-created_at" {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].Name < matched[j].Name
	})

	result := domain.ListResult[*item.MerchandiseItem]{
		TotalCount: int64(len(matched)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}

	start := filter.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}
	result.Items = matched[start:end]

	return result, nil
}

// FindLowStock retrieves active items at or below their threshold.
func (r *ItemRepo) FindLowStock(ctx context.Context, defaultThreshold int) ([]*item.MerchandiseItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*item.MerchandiseItem
	for _, m := range r.store.items {
		if !m.Active {
			continue
		}
		if m.Stock <= m.ThresholdOr(defaultThreshold) {
			matched = append(matched, copyItem(m))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Stock < matched[j].Stock })
	return matched, nil
}

// Exists checks if an item exists.
func (r *ItemRepo) Exists(ctx context.Context, itemID id.ID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	_, ok := r.store.items[itemID]
	return ok, nil
}

var _ item.Repository = (*ItemRepo)(nil)
