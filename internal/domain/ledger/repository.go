package ledger

import (
	"context"
	"time"

	"merchtable/internal/core/id"
)

// Repository defines persistence for the stock log.
type Repository interface {
	// Append inserts a log entry. The log is append-only; there is no
	// update or delete.
	Append(ctx context.Context, entry *Entry) error

	// History retrieves entries for an item, oldest first.
	History(ctx context.Context, itemID id.ID, filter HistoryFilter) ([]*Entry, error)
}

// HistoryFilter narrows a history query.
type HistoryFilter struct {
	Reason   *Reason
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}
