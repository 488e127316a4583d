package memory

import (
	"context"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/id"
	"merchtable/internal/domain/alerts"
)

// AlertRepo implements alerts.Repository over the in-memory store.
type AlertRepo struct {
	store *Store
}

// NewAlertRepo creates an alert repository.
func NewAlertRepo(store *Store) *AlertRepo {
	return &AlertRepo{store: store}
}

// Create inserts a new alert.
func (r *AlertRepo) Create(ctx context.Context, alert *alerts.Alert) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.alertsByID[alert.ID]; ok {
		return apperror.NewDuplicate("alert", "id", alert.ID.String())
	}
	r.store.alertsByID[alert.ID] = copyAlert(alert)
	r.store.alertOrder = append(r.store.alertOrder, alert.ID)
	return nil
}

// GetByID retrieves an alert.
func (r *AlertRepo) GetByID(ctx context.Context, alertID id.ID) (*alerts.Alert, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	a, ok := r.store.alertsByID[alertID]
	if !ok {
		return nil, apperror.NewNotFound("alert", alertID)
	}
	return copyAlert(a), nil
}

// FindActiveByItem returns the active alert for an item.
func (r *AlertRepo) FindActiveByItem(ctx context.Context, itemID id.ID) (*alerts.Alert, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, a := range r.store.alertsByID {
		if a.ItemID == itemID && a.IsActive() {
			return copyAlert(a), nil
		}
	}
	return nil, apperror.NewNotFound("alert", itemID)
}

// Update persists status transitions.
func (r *AlertRepo) Update(ctx context.Context, alert *alerts.Alert) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.alertsByID[alert.ID]; !ok {
		return apperror.NewNotFound("alert", alert.ID)
	}
	r.store.alertsByID[alert.ID] = copyAlert(alert)
	return nil
}

// List returns alerts filtered by status, newest first.
func (r *AlertRepo) List(ctx context.Context, status alerts.Status) ([]*alerts.Alert, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*alerts.Alert
	for i := len(r.store.alertOrder) - 1; i >= 0; i-- {
		a := r.store.alertsByID[r.store.alertOrder[i]]
		if status != "" && a.Status != status {
			continue
		}
		matched = append(matched, copyAlert(a))
	}
	return matched, nil
}

var _ alerts.Repository = (*AlertRepo)(nil)
