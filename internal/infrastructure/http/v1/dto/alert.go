package dto

import (
	"time"

	"merchtable/internal/domain/alerts"
)

// AlertResponse is one low-stock alert.
type AlertResponse struct {
	ID                  string    `json:"id"`
	ItemID              string    `json:"itemId"`
	ThresholdAtCreation int       `json:"thresholdAtCreation"`
	Status              string    `json:"status"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// FromAlert creates AlertResponse from the domain model.
func FromAlert(a *alerts.Alert) AlertResponse {
	return AlertResponse{
		ID:                  a.ID.String(),
		ItemID:              a.ItemID.String(),
		ThresholdAtCreation: a.ThresholdAtCreation,
		Status:              string(a.Status),
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

// AlertListResponse wraps an alert slice.
type AlertListResponse struct {
	Items      []AlertResponse `json:"items"`
	TotalCount int             `json:"totalCount"`
}
