package sales

import (
	"sync"
	"time"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/id"
)

// StagedItem is one cart line awaiting commit.
type StagedItem struct {
	ItemID   id.ID     `json:"itemId"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"addedAt"`
}

// Session is a per-actor staging area (cart) for a single recording
// workflow. It is an explicit handle with a bounded lifecycle: open it,
// stage items, then commit or discard. It is not durable. Methods are
// safe for concurrent use; retried or double-submitted requests for the
// same actor land on the same handle.
type Session struct {
	actorID id.ID

	mu     sync.Mutex
	order  []id.ID
	staged map[id.ID]*StagedItem
}

// OpenSession starts an empty staging session for one actor.
func OpenSession(actorID id.ID) *Session {
	return &Session{
		actorID: actorID,
		staged:  make(map[id.ID]*StagedItem),
	}
}

// ActorID returns the owning actor.
func (s *Session) ActorID() id.ID {
	return s.actorID
}

// StageItem adds quantity for an item; staging an already-staged item
// increments its quantity.
func (s *Session) StageItem(itemID id.ID, qty int) error {
	if qty <= 0 {
		return apperror.NewInvalidQuantity(qty)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.staged[itemID]; ok {
		existing.Quantity += qty
		return nil
	}
	s.staged[itemID] = &StagedItem{
		ItemID:   itemID,
		Quantity: qty,
		AddedAt:  time.Now().UTC(),
	}
	s.order = append(s.order, itemID)
	return nil
}

// UpdateStaged replaces the staged quantity for an item.
func (s *Session) UpdateStaged(itemID id.ID, qty int) error {
	if qty <= 0 {
		return apperror.NewInvalidQuantity(qty)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	staged, ok := s.staged[itemID]
	if !ok {
		return apperror.NewNotFound("staged item", itemID)
	}
	staged.Quantity = qty
	return nil
}

// RemoveStaged drops an item from the cart.
func (s *Session) RemoveStaged(itemID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.staged[itemID]; !ok {
		return apperror.NewNotFound("staged item", itemID)
	}
	delete(s.staged, itemID)
	for i, stagedID := range s.order {
		if stagedID == itemID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Clear empties the cart.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = make(map[id.ID]*StagedItem)
	s.order = nil
}

// Items returns staged items in staging order.
func (s *Session) Items() []StagedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]StagedItem, 0, len(s.order))
	for _, itemID := range s.order {
		items = append(items, *s.staged[itemID])
	}
	return items
}

// Len returns the number of distinct staged items.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.staged)
}
