package alerts

import (
	"context"

	"merchtable/internal/core/id"
)

// Repository defines alert persistence.
type Repository interface {
	// Create inserts a new alert
	Create(ctx context.Context, alert *Alert) error

	// GetByID retrieves an alert
	GetByID(ctx context.Context, alertID id.ID) (*Alert, error)

	// FindActiveByItem returns the active alert for an item, or
	// apperror.CodeNotFound when none exists.
	FindActiveByItem(ctx context.Context, itemID id.ID) (*Alert, error)

	// Update persists status transitions
	Update(ctx context.Context, alert *Alert) error

	// List returns alerts filtered by status; empty status returns all,
	// newest first.
	List(ctx context.Context, status Status) ([]*Alert, error)
}

// Notifier forwards newly created alerts onward (email, chat webhook, ...).
// Calls are fire-and-forget: failures are logged, never rolled back.
type Notifier interface {
	NotifyLowStock(ctx context.Context, alert *Alert) error
}

// NopNotifier discards notifications.
type NopNotifier struct{}

// NotifyLowStock implements Notifier.
func (NopNotifier) NotifyLowStock(ctx context.Context, alert *Alert) error { return nil }
