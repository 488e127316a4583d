package ledger

import (
	"context"
	"fmt"
	"sync"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/id"
	"merchtable/internal/domain/alerts"
	"merchtable/internal/domain/catalog/item"
	"merchtable/pkg/logger"
)

// Config holds ledger configuration.
type Config struct {
	// DefaultLowStockThreshold applies to items without their own threshold.
	DefaultLowStockThreshold int

	// ResolveOnRestock resolves an item's active alert when stock rises
	// strictly above threshold. Off by default so existing alerting
	// expectations don't change silently.
	ResolveOnRestock bool
}

// DefaultConfig returns ledger defaults.
func DefaultConfig() Config {
	return Config{
		DefaultLowStockThreshold: 5,
		ResolveOnRestock:         false,
	}
}

// AdjustCommand describes one stock mutation.
type AdjustCommand struct {
	ItemID  id.ID
	Delta   int
	Reason  Reason
	ActorID id.ID
	Notes   string

	// FailOnShortfall rejects the mutation with an insufficient stock
	// error instead of clamping when the delta exceeds current stock.
	// The check runs under the item lock, so it is safe against
	// concurrent decrements. Sale decrements set this; manual
	// corrections keep the clamp.
	FailOnShortfall bool
}

// AdjustResult reports the outcome of a stock mutation.
type AdjustResult struct {
	PreviousStock int
	NewStock      int

	// Clamped is true when the delta would have driven stock negative and
	// the result was truncated to zero. The true deficit is lost; callers
	// that care about overselling must check this flag.
	Clamped bool

	AlertCreated  bool
	AlertResolved bool
}

// Service is the stock ledger. It serializes mutations per item, keeps the
// log-entry chain contiguous, and evaluates the low-stock threshold after
// every mutation.
type Service struct {
	items   item.Repository
	entries Repository
	alerts  *alerts.Register
	cfg     Config

	mu    sync.Mutex
	locks map[id.ID]*sync.Mutex
}

// NewService creates a stock ledger service.
func NewService(items item.Repository, entries Repository, alertReg *alerts.Register, cfg Config) *Service {
	return &Service{
		items:   items,
		entries: entries,
		alerts:  alertReg,
		cfg:     cfg,
		locks:   make(map[id.ID]*sync.Mutex),
	}
}

// itemLock returns the mutex serializing mutations for one item.
func (s *Service) itemLock(itemID id.ID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[itemID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[itemID] = l
	}
	return l
}

// AdjustStock applies a signed delta to an item's stock as one serialized
// mutation: read stock, write new stock (compare-and-swap against the read
// value), append the log entry, evaluate the threshold.
//
// The resulting stock is clamped at zero unless the command sets
// FailOnShortfall; see AdjustResult.Clamped.
// If the stock write fails the operation aborts before the log append, so a
// log entry never references a count that was not committed. If the log
// append fails after the stock write succeeded, the mismatch is logged as a
// warning and the mutation stands: stock correctness outranks audit
// completeness.
func (s *Service) AdjustStock(ctx context.Context, cmd AdjustCommand) (AdjustResult, error) {
	var result AdjustResult

	if !cmd.Reason.IsValid() {
		return result, apperror.NewValidation("unknown stock adjustment reason").
			WithDetail("reason", string(cmd.Reason))
	}
	if cmd.Delta == 0 {
		return result, apperror.NewValidation("delta must not be zero")
	}

	// Exclusive access to this item's stock for the duration of the
	// mutation. The CAS update below backstops external writers.
	lock := s.itemLock(cmd.ItemID)
	lock.Lock()
	defer lock.Unlock()

	it, err := s.items.GetByID(ctx, cmd.ItemID)
	if err != nil {
		return result, err
	}

	result.PreviousStock = it.Stock
	result.NewStock = it.Stock + cmd.Delta
	if result.NewStock < 0 {
		if cmd.FailOnShortfall {
			return AdjustResult{}, apperror.NewInsufficientStock(cmd.ItemID.String(), -cmd.Delta, it.Stock)
		}
		result.NewStock = 0
		result.Clamped = true
	}

	if err := s.items.UpdateStockCAS(ctx, cmd.ItemID, result.PreviousStock, result.NewStock); err != nil {
		return AdjustResult{}, fmt.Errorf("update stock: %w", err)
	}

	entry := NewEntry(cmd.ItemID, result.PreviousStock, result.NewStock, cmd.Reason, cmd.ActorID, cmd.Notes)
	if err := s.entries.Append(ctx, entry); err != nil {
		// Stock is already committed; the audit record is diagnostic,
		// not authoritative. Report and continue.
		logger.Warn(ctx, "stock log append failed after stock write",
			"item_id", cmd.ItemID,
			"previous_stock", result.PreviousStock,
			"new_stock", result.NewStock,
			"reason", cmd.Reason,
			"error", err,
		)
	}

	if err := s.evaluateThreshold(ctx, it, result.NewStock, &result); err != nil {
		return result, err
	}

	logger.Info(ctx, "stock adjusted",
		"item_id", cmd.ItemID,
		"delta", cmd.Delta,
		"previous_stock", result.PreviousStock,
		"new_stock", result.NewStock,
		"reason", cmd.Reason,
		"clamped", result.Clamped,
	)

	return result, nil
}

// evaluateThreshold runs the post-mutation alert check. The boundary is
// inclusive: stock == threshold counts as low stock, and stock == 0 is
// out-of-stock which also satisfies low stock. Alerts are deduplicated per
// item regardless of how far stock has since fallen.
func (s *Service) evaluateThreshold(ctx context.Context, it *item.MerchandiseItem, newStock int, result *AdjustResult) error {
	threshold := it.ThresholdOr(s.cfg.DefaultLowStockThreshold)

	if newStock <= threshold {
		created, err := s.alerts.EnsureActiveAlert(ctx, it.ID, threshold)
		if err != nil {
			return fmt.Errorf("ensure alert: %w", err)
		}
		result.AlertCreated = created
		return nil
	}

	if s.cfg.ResolveOnRestock {
		resolved, err := s.alerts.ResolveActiveForItem(ctx, it.ID)
		if err != nil {
			return fmt.Errorf("resolve alert: %w", err)
		}
		result.AlertResolved = resolved
	}

	return nil
}

// History retrieves the stock log for an item, oldest first.
func (s *Service) History(ctx context.Context, itemID id.ID, filter HistoryFilter) ([]*Entry, error) {
	return s.entries.History(ctx, itemID, filter)
}
