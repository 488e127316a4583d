// Package alerts provides the low-stock alert register.
// At most one active alert exists per item at any time.
package alerts

import (
	"time"

	"merchtable/internal/core/id"
)

// Status is the lifecycle state of an alert.
type Status string

const (
	StatusActive   Status = "active"
	StatusResolved Status = "resolved"
)

// Alert records that an item's stock fell to or below its threshold.
// It stays active however low stock subsequently falls; only explicit
// resolution (operator action or a gated restock hook) closes it.
type Alert struct {
	ID id.ID `db:"id" json:"id"`

	ItemID id.ID `db:"item_id" json:"itemId"`

	// ThresholdAtCreation preserves the threshold in force when the alert
	// fired, so later threshold edits don't rewrite history.
	ThresholdAtCreation int `db:"threshold_at_creation" json:"thresholdAtCreation"`

	Status Status `db:"status" json:"status"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewAlert creates an active alert for an item.
func NewAlert(itemID id.ID, threshold int) *Alert {
	now := time.Now().UTC()
	return &Alert{
		ID:                  id.New(),
		ItemID:              itemID,
		ThresholdAtCreation: threshold,
		Status:              StatusActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// IsActive reports whether the alert is still open.
func (a *Alert) IsActive() bool {
	return a.Status == StatusActive
}
