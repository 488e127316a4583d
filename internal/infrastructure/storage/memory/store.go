// Package memory provides in-memory repository implementations behind a
// single RWMutex. Used by tests and as the zero-dependency dev store when
// no database is configured.
package memory

import (
	"sync"

	"merchtable/internal/core/id"
	"merchtable/internal/domain/alerts"
	"merchtable/internal/domain/catalog/item"
	"merchtable/internal/domain/ledger"
	"merchtable/internal/domain/sales"
)

// Store holds all in-memory tables.
type Store struct {
	mu sync.RWMutex

	items map[id.ID]*item.MerchandiseItem

	// entries keyed by item, in append order
	entries map[id.ID][]*ledger.Entry

	alertsByID map[id.ID]*alerts.Alert
	alertOrder []id.ID

	salesByID map[id.ID]*sales.Sale
	saleOrder []id.ID
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		items:      make(map[id.ID]*item.MerchandiseItem),
		entries:    make(map[id.ID][]*ledger.Entry),
		alertsByID: make(map[id.ID]*alerts.Alert),
		salesByID:  make(map[id.ID]*sales.Sale),
	}
}

func copyItem(m *item.MerchandiseItem) *item.MerchandiseItem {
	c := *m
	if m.LowStockThreshold != nil {
		t := *m.LowStockThreshold
		c.LowStockThreshold = &t
	}
	return &c
}

func copyAlert(a *alerts.Alert) *alerts.Alert {
	c := *a
	return &c
}

func copySale(s *sales.Sale) *sales.Sale {
	c := *s
	if s.ShowID != nil {
		v := *s.ShowID
		c.ShowID = &v
	}
	if s.SalesPageID != nil {
		v := *s.SalesPageID
		c.SalesPageID = &v
	}
	return &c
}

func copyEntry(e *ledger.Entry) *ledger.Entry {
	c := *e
	return &c
}
