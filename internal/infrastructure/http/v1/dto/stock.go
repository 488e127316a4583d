package dto

import (
	"time"

	"merchtable/internal/domain/ledger"
)

// AdjustStockRequest for manual stock adjustments.
type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
	Notes  string `json:"notes"`
}

// AdjustStockResponse reports the adjustment outcome.
type AdjustStockResponse struct {
	PreviousStock int  `json:"previousStock"`
	NewStock      int  `json:"newStock"`
	Clamped       bool `json:"clamped"`
	AlertCreated  bool `json:"alertCreated"`
	AlertResolved bool `json:"alertResolved"`
}

// FromAdjustResult creates AdjustStockResponse from the ledger result.
func FromAdjustResult(r ledger.AdjustResult) AdjustStockResponse {
	return AdjustStockResponse{
		PreviousStock: r.PreviousStock,
		NewStock:      r.NewStock,
		Clamped:       r.Clamped,
		AlertCreated:  r.AlertCreated,
		AlertResolved: r.AlertResolved,
	}
}

// StockLogEntryResponse is one stock log record.
type StockLogEntryResponse struct {
	ID            string    `json:"id"`
	ItemID        string    `json:"itemId"`
	PreviousStock int       `json:"previousStock"`
	NewStock      int       `json:"newStock"`
	Delta         int       `json:"delta"`
	Reason        string    `json:"reason"`
	ActorID       string    `json:"actorId"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FromLogEntry creates StockLogEntryResponse from a ledger entry.
func FromLogEntry(e *ledger.Entry) StockLogEntryResponse {
	return StockLogEntryResponse{
		ID:            e.ID.String(),
		ItemID:        e.ItemID.String(),
		PreviousStock: e.PreviousStock,
		NewStock:      e.NewStock,
		Delta:         e.Delta(),
		Reason:        string(e.Reason),
		ActorID:       e.ActorID.String(),
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
	}
}

// StockLogListResponse wraps a stock log slice.
type StockLogListResponse struct {
	Items      []StockLogEntryResponse `json:"items"`
	TotalCount int                     `json:"totalCount"`
}
