// Package ledger provides the stock ledger: every stock mutation goes
// through AdjustStock, which writes the new count and appends an immutable
// log entry, so the audit chain reconstructs every change.
package ledger

import (
	"time"

	"merchtable/internal/core/id"
)

// Reason classifies why stock changed. Closed enumeration: free-form
// reasons would make the entry chain impossible to check exhaustively.
type Reason string

const (
	ReasonSale         Reason = "sale"
	ReasonManual       Reason = "manual"
	ReasonReceiving    Reason = "receiving"
	ReasonDamage       Reason = "damage"
	ReasonTransfer     Reason = "transfer"
	ReasonSaleReversed Reason = "sale_reversed"
)

// IsValid reports whether r is a known reason.
func (r Reason) IsValid() bool {
	switch r {
	case ReasonSale, ReasonManual, ReasonReceiving, ReasonDamage, ReasonTransfer, ReasonSaleReversed:
		return true
	}
	return false
}

// Entry is one immutable stock log record. Entries are append-only: never
// updated, never deleted. For a given item, entries ordered by creation form
// a chain where each PreviousStock equals the prior entry's NewStock.
type Entry struct {
	ID id.ID `db:"id" json:"id"`

	ItemID id.ID `db:"item_id" json:"itemId"`

	PreviousStock int `db:"previous_stock" json:"previousStock"`
	NewStock      int `db:"new_stock" json:"newStock"`

	Reason Reason `db:"reason" json:"reason"`

	ActorID id.ID  `db:"actor_id" json:"actorId"`
	Notes   string `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewEntry creates a log entry with generated ID.
func NewEntry(itemID id.ID, previousStock, newStock int, reason Reason, actorID id.ID, notes string) *Entry {
	return &Entry{
		ID:            id.New(),
		ItemID:        itemID,
		PreviousStock: previousStock,
		NewStock:      newStock,
		Reason:        reason,
		ActorID:       actorID,
		Notes:         notes,
		CreatedAt:     time.Now().UTC(),
	}
}

// Delta returns the signed stock change this entry records.
func (e *Entry) Delta() int {
	return e.NewStock - e.PreviousStock
}
