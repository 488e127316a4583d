package reports

import (
	"context"

	"merchtable/internal/domain/sales"
)

// Repository is the grouped aggregation path: implementations compute the
// summary and groupings with their own aggregation machinery (SQL GROUP BY
// in postgres, map grouping in memory). The engine never trusts these
// numbers until they reconcile with its own full-scan over the same filter.
type Repository interface {
	// Summarize computes count, total quantity, and total amount over the
	// filtered sales in one grouped query.
	Summarize(ctx context.Context, filter sales.Filter) (Summary, error)

	// GroupByBucket groups filtered sales into time buckets, ascending.
	GroupByBucket(ctx context.Context, filter sales.Filter, bucket Bucket) ([]BucketRow, error)

	// GroupByItem groups filtered sales per item, total amount descending.
	GroupByItem(ctx context.Context, filter sales.Filter) ([]ItemRow, error)

	// GroupByPayment groups filtered sales per payment method, total
	// amount descending.
	GroupByPayment(ctx context.Context, filter sales.Filter) ([]PaymentRow, error)
}
