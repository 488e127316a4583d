package memory

import (
	"context"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/id"
	"merchtable/internal/domain/sales"
)

// SaleRepo implements sales.Repository over the in-memory store.
type SaleRepo struct {
	store *Store
}

// NewSaleRepo creates a sale log repository.
func NewSaleRepo(store *Store) *SaleRepo {
	return &SaleRepo{store: store}
}

// Insert persists a committed sale.
func (r *SaleRepo) Insert(ctx context.Context, sale *sales.Sale) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.salesByID[sale.ID]; ok {
		return apperror.NewDuplicate("sale", "id", sale.ID.String())
	}
	r.store.salesByID[sale.ID] = copySale(sale)
	r.store.saleOrder = append(r.store.saleOrder, sale.ID)
	return nil
}

// GetByID retrieves a sale.
func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*sales.Sale, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	s, ok := r.store.salesByID[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleID)
	}
	return copySale(s), nil
}

// Query retrieves sales matching the filter, oldest first.
func (r *SaleRepo) Query(ctx context.Context, filter sales.Filter) ([]*sales.Sale, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*sales.Sale
	for _, saleID := range r.store.saleOrder {
		s, ok := r.store.salesByID[saleID]
		if !ok {
			continue
		}
		if !filter.Matches(s) {
			continue
		}
		matched = append(matched, copySale(s))
	}

	start := filter.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}
	return matched[start:end], nil
}

// Delete removes a sale row.
func (r *SaleRepo) Delete(ctx context.Context, saleID id.ID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.salesByID[saleID]; !ok {
		return apperror.NewNotFound("sale", saleID)
	}
	delete(r.store.salesByID, saleID)
	for i, sid := range r.store.saleOrder {
		if sid == saleID {
			r.store.saleOrder = append(r.store.saleOrder[:i], r.store.saleOrder[i+1:]...)
			break
		}
	}
	return nil
}

var _ sales.Repository = (*SaleRepo)(nil)
