package alerts

import (
	"context"
	"time"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/id"
	"merchtable/pkg/logger"
)

// Register provides business operations for low-stock alerts.
type Register struct {
	repo     Repository
	notifier Notifier
}

// NewRegister creates a new alert register. A nil notifier disables
// notifications.
func NewRegister(repo Repository, notifier Notifier) *Register {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Register{repo: repo, notifier: notifier}
}

// EnsureActiveAlert creates an active alert for the item unless one already
// exists. Idempotent: repeated calls while stock stays at/below threshold
// are no-ops returning created=false.
//
// Deduplication is existence-check-then-insert; the stock ledger calls this
// while holding the item's mutation lock, which serializes the check.
func (r *Register) EnsureActiveAlert(ctx context.Context, itemID id.ID, threshold int) (bool, error) {
	if _, err := r.repo.FindActiveByItem(ctx, itemID); err == nil {
		return false, nil
	} else if !apperror.IsNotFound(err) {
		return false, err
	}

	alert := NewAlert(itemID, threshold)
	if err := r.repo.Create(ctx, alert); err != nil {
		return false, err
	}

	logger.Info(ctx, "low stock alert created",
		"alert_id", alert.ID,
		"item_id", itemID,
		"threshold", threshold,
	)

	// Fire-and-forget: a failed notification never invalidates the alert.
	if err := r.notifier.NotifyLowStock(ctx, alert); err != nil {
		logger.Warn(ctx, "low stock notification failed",
			"alert_id", alert.ID,
			"error", err,
		)
	}

	return true, nil
}

// Resolve transitions an alert from active to resolved. Resolving a missing
// or already-resolved alert is an error, not a silent success.
func (r *Register) Resolve(ctx context.Context, alertID id.ID) error {
	alert, err := r.repo.GetByID(ctx, alertID)
	if err != nil {
		return err
	}
	if !alert.IsActive() {
		return apperror.NewNotFound("alert", alertID).
			WithDetail("status", string(alert.Status))
	}

	alert.Status = StatusResolved
	alert.UpdatedAt = time.Now().UTC()
	if err := r.repo.Update(ctx, alert); err != nil {
		return err
	}

	logger.Info(ctx, "alert resolved", "alert_id", alertID, "item_id", alert.ItemID)
	return nil
}

// ResolveActiveForItem resolves the item's active alert if one exists.
// Used by the ledger's restock hook; absence of an alert is not an error.
func (r *Register) ResolveActiveForItem(ctx context.Context, itemID id.ID) (bool, error) {
	alert, err := r.repo.FindActiveByItem(ctx, itemID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	alert.Status = StatusResolved
	alert.UpdatedAt = time.Now().UTC()
	if err := r.repo.Update(ctx, alert); err != nil {
		return false, err
	}

	logger.Info(ctx, "alert auto-resolved on restock", "alert_id", alert.ID, "item_id", itemID)
	return true, nil
}

// List returns alerts filtered by status (empty status returns all).
func (r *Register) List(ctx context.Context, status Status) ([]*Alert, error) {
	return r.repo.List(ctx, status)
}
