// Package sales provides sale recording: validating a proposed sale against
// current stock, persisting it, and decrementing stock through the ledger as
// one logical unit.
package sales

import (
	"time"

	"merchtable/internal/core/id"
	"merchtable/internal/core/types"
)

// PaymentMethod is a closed enumeration of accepted tender types.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentMobile PaymentMethod = "mobile"
	// PaymentComp covers giveaways and guest-list comps; amount is still
	// recorded at the stated unit price.
	PaymentComp PaymentMethod = "comp"
)

// IsValid reports whether p is a known payment method.
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentMobile, PaymentComp:
		return true
	}
	return false
}

// Sale records one committed point-of-sale transaction. Immutable after
// creation except through the explicit reversal path.
type Sale struct {
	ID id.ID `db:"id" json:"id"`

	ItemID   id.ID `db:"item_id" json:"itemId"`
	Quantity int   `db:"quantity" json:"quantity"`

	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	PaymentMethod PaymentMethod `db:"payment_method" json:"paymentMethod"`

	BandID      id.ID  `db:"band_id" json:"bandId"`
	ShowID      *id.ID `db:"show_id" json:"showId,omitempty"`
	SalesPageID *id.ID `db:"sales_page_id" json:"salesPageId,omitempty"`

	ActorID id.ID  `db:"actor_id" json:"actorId"`
	Notes   string `db:"notes" json:"notes,omitempty"`

	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}

// Total returns price times quantity.
func (s *Sale) Total() types.Money {
	return s.UnitPrice.Mul(types.NewMoney(float64(s.Quantity)))
}

// Filter narrows sale queries. Used by the sale log store and by the
// report engine, which must see the exact same row set on both of its
// aggregation paths.
type Filter struct {
	ItemID        *id.ID
	BandID        *id.ID
	ShowID        *id.ID
	SalesPageID   *id.ID
	PaymentMethod *PaymentMethod
	ActorID       *id.ID
	FromDate      *time.Time
	ToDate        *time.Time
	Limit         int
	Offset        int
}

// Matches reports whether the sale passes every set filter field.
// Date bounds are inclusive on From, exclusive on To.
func (f Filter) Matches(s *Sale) bool {
	if f.ItemID != nil && s.ItemID != *f.ItemID {
		return false
	}
	if f.BandID != nil && s.BandID != *f.BandID {
		return false
	}
	if f.ShowID != nil && (s.ShowID == nil || *s.ShowID != *f.ShowID) {
		return false
	}
	if f.SalesPageID != nil && (s.SalesPageID == nil || *s.SalesPageID != *f.SalesPageID) {
		return false
	}
	if f.PaymentMethod != nil && s.PaymentMethod != *f.PaymentMethod {
		return false
	}
	if f.ActorID != nil && s.ActorID != *f.ActorID {
		return false
	}
	if f.FromDate != nil && s.Timestamp.Before(*f.FromDate) {
		return false
	}
	if f.ToDate != nil && !s.Timestamp.Before(*f.ToDate) {
		return false
	}
	return true
}
