package memory

import (
	"context"
	"sort"
	"time"

	"merchtable/internal/core/id"
	"merchtable/internal/core/types"
	"merchtable/internal/domain/reports"
	"merchtable/internal/domain/sales"
)

// ReportRepo implements the grouped aggregation path of reports.Repository
// with map-based grouping over the sale log.
type ReportRepo struct {
	store *Store
}

// NewReportRepo creates a report repository.
func NewReportRepo(store *Store) *ReportRepo {
	return &ReportRepo{store: store}
}

func (r *ReportRepo) filtered(filter sales.Filter) []*sales.Sale {
	var matched []*sales.Sale
	for _, saleID := range r.store.saleOrder {
		s, ok := r.store.salesByID[saleID]
		if !ok || !filter.Matches(s) {
			continue
		}
		matched = append(matched, s)
	}
	return matched
}

// Summarize computes count, total quantity, and total amount in one pass.
func (r *ReportRepo) Summarize(ctx context.Context, filter sales.Filter) (reports.Summary, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	summary := reports.Summary{TotalAmount: types.ZeroMoney()}
	for _, s := range r.filtered(filter) {
		summary.Count++
		summary.TotalQuantity += int64(s.Quantity)
		summary.TotalAmount = summary.TotalAmount.Add(s.Total())
	}
	return summary, nil
}

// GroupByBucket groups filtered sales into time buckets, ascending.
func (r *ReportRepo) GroupByBucket(ctx context.Context, filter sales.Filter, bucket reports.Bucket) ([]reports.BucketRow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	groups := make(map[time.Time]*reports.BucketRow)
	for _, s := range r.filtered(filter) {
		start := reports.TruncateToBucket(s.Timestamp, bucket)
		row, ok := groups[start]
		if !ok {
			row = &reports.BucketRow{BucketStart: start, TotalAmount: types.ZeroMoney()}
			groups[start] = row
		}
		row.Count++
		row.TotalQuantity += int64(s.Quantity)
		row.TotalAmount = row.TotalAmount.Add(s.Total())
	}

	rows := make([]reports.BucketRow, 0, len(groups))
	for _, row := range groups {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].BucketStart.Before(rows[j].BucketStart) })
	return rows, nil
}

// GroupByItem groups filtered sales per item, total amount descending.
func (r *ReportRepo) GroupByItem(ctx context.Context, filter sales.Filter) ([]reports.ItemRow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	groups := make(map[id.ID]*reports.ItemRow)
	for _, s := range r.filtered(filter) {
		row, ok := groups[s.ItemID]
		if !ok {
			row = &reports.ItemRow{ItemID: s.ItemID, TotalAmount: types.ZeroMoney()}
			if it, found := r.store.items[s.ItemID]; found {
				row.ItemName = it.Name
				row.ItemSKU = it.SKU
			}
			groups[s.ItemID] = row
		}
		row.Count++
		row.TotalQuantity += int64(s.Quantity)
		row.TotalAmount = row.TotalAmount.Add(s.Total())
	}

	rows := make([]reports.ItemRow, 0, len(groups))
	for _, row := range groups {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TotalAmount.GreaterThan(rows[j].TotalAmount) })
	return rows, nil
}

// GroupByPayment groups filtered sales per payment method, total amount
// descending.
func (r *ReportRepo) GroupByPayment(ctx context.Context, filter sales.Filter) ([]reports.PaymentRow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	groups := make(map[sales.PaymentMethod]*reports.PaymentRow)
	for _, s := range r.filtered(filter) {
		row, ok := groups[s.PaymentMethod]
		if !ok {
			row = &reports.PaymentRow{PaymentMethod: s.PaymentMethod, TotalAmount: types.ZeroMoney()}
			groups[s.PaymentMethod] = row
		}
		row.Count++
		row.TotalQuantity += int64(s.Quantity)
		row.TotalAmount = row.TotalAmount.Add(s.Total())
	}

	rows := make([]reports.PaymentRow, 0, len(groups))
	for _, row := range groups {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TotalAmount.GreaterThan(rows[j].TotalAmount) })
	return rows, nil
}

var _ reports.Repository = (*ReportRepo)(nil)
