package memory

import (
	"context"

	"merchtable/internal/core/id"
	"merchtable/internal/domain/ledger"
)

// LedgerRepo implements ledger.Repository over the in-memory store.
type LedgerRepo struct {
	store *Store
}

// NewLedgerRepo creates a stock log repository.
func NewLedgerRepo(store *Store) *LedgerRepo {
	return &LedgerRepo{store: store}
}

// Append inserts a log entry.
func (r *LedgerRepo) Append(ctx context.Context, entry *ledger.Entry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.entries[entry.ItemID] = append(r.store.entries[entry.ItemID], copyEntry(entry))
	return nil
}

// History retrieves entries for an item, oldest first.
func (r *LedgerRepo) History(ctx context.Context, itemID id.ID, filter ledger.HistoryFilter) ([]*ledger.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*ledger.Entry
	for _, e := range r.store.entries[itemID] {
		if filter.Reason != nil && e.Reason != *filter.Reason {
			continue
		}
		if filter.FromDate != nil && e.CreatedAt.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && !e.CreatedAt.Before(*filter.ToDate) {
			continue
		}
		matched = append(matched, copyEntry(e))
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

var _ ledger.Repository = (*LedgerRepo)(nil)
