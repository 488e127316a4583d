package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/types"
	"merchtable/internal/domain/sales"
	"merchtable/pkg/logger"
)

// Engine builds reconciled sales reports. It performs no writes; it is a
// read-side derivation with a correctness gate: the grouped totals must
// match an independent full-scan or no report leaves this package.
type Engine struct {
	repo  Repository
	sales sales.Repository
}

// NewEngine creates a report engine.
func NewEngine(repo Repository, salesRepo sales.Repository) *Engine {
	return &Engine{repo: repo, sales: salesRepo}
}

// BuildSalesReport computes the grouped summary, recomputes the same
// scalars over a raw full-scan of the identical filter, and compares.
// Counts and quantities must match exactly; amounts within 0.01. On
// mismatch the call fails closed with a REPORT_INTEGRITY error and no
// partial data is returned.
func (e *Engine) BuildSalesReport(ctx context.Context, filter Filter) (*Report, error) {
	switch filter.Bucket {
	case BucketAuto, BucketDay, BucketWeek, BucketMonth:
	default:
		return nil, apperror.NewValidation("unknown report bucket").
			WithDetail("bucket", string(filter.Bucket))
	}

	// Reports always cover the full filtered set.
	rowFilter := filter.Filter
	rowFilter.Limit = 0
	rowFilter.Offset = 0

	grouped, err := e.repo.Summarize(ctx, rowFilter)
	if err != nil {
		return nil, fmt.Errorf("grouped summary: %w", err)
	}

	rows, err := e.sales.Query(ctx, rowFilter)
	if err != nil {
		return nil, fmt.Errorf("raw scan: %w", err)
	}

	raw := Summary{TotalAmount: types.ZeroMoney()}
	for _, s := range rows {
		raw.Count++
		raw.TotalQuantity += int64(s.Quantity)
		raw.TotalAmount = raw.TotalAmount.Add(s.Total())
	}

	if grouped.Count != raw.Count ||
		grouped.TotalQuantity != raw.TotalQuantity ||
		!types.WithinEpsilon(grouped.TotalAmount, raw.TotalAmount) {
		logger.Error(ctx, "report reconciliation failed",
			"grouped_count", grouped.Count,
			"raw_count", raw.Count,
			"grouped_quantity", grouped.TotalQuantity,
			"raw_quantity", raw.TotalQuantity,
			"grouped_amount", grouped.TotalAmount,
			"raw_amount", raw.TotalAmount,
		)
		return nil, apperror.NewReportIntegrity("grouped totals do not match raw totals").
			WithDetail("grouped_count", grouped.Count).
			WithDetail("raw_count", raw.Count).
			WithDetail("grouped_quantity", grouped.TotalQuantity).
			WithDetail("raw_quantity", raw.TotalQuantity).
			WithDetail("grouped_amount", grouped.TotalAmount.String()).
			WithDetail("raw_amount", raw.TotalAmount.String())
	}

	bucket := filter.Bucket
	if bucket == BucketAuto {
		bucket = selectBucket(rowFilter, rows)
	}

	byBucket, err := e.repo.GroupByBucket(ctx, rowFilter, bucket)
	if err != nil {
		return nil, fmt.Errorf("group by bucket: %w", err)
	}

	topItems, err := e.repo.GroupByItem(ctx, rowFilter)
	if err != nil {
		return nil, fmt.Errorf("group by item: %w", err)
	}
	sort.SliceStable(topItems, func(i, j int) bool {
		return topItems[i].TotalAmount.GreaterThan(topItems[j].TotalAmount)
	})

	byPayment, err := e.repo.GroupByPayment(ctx, rowFilter)
	if err != nil {
		return nil, fmt.Errorf("group by payment: %w", err)
	}
	sort.SliceStable(byPayment, func(i, j int) bool {
		return byPayment[i].TotalAmount.GreaterThan(byPayment[j].TotalAmount)
	})

	report := &Report{
		GeneratedAt: time.Now().UTC(),
		FromDate:    rowFilter.FromDate,
		ToDate:      rowFilter.ToDate,
		Bucket:      bucket,
		IntegrityOK: true,
		Summary:     grouped,
		ByBucket:    byBucket,
		TopItems:    topItems,
		ByPayment:   byPayment,
	}

	logger.Debug(ctx, "sales report built",
		"count", report.Summary.Count,
		"total_amount", report.Summary.TotalAmount,
		"bucket", bucket,
	)

	return report, nil
}

// selectBucket picks the time granularity from the filter's date span,
// falling back to the observed row span when dates are open-ended.
func selectBucket(filter sales.Filter, rows []*sales.Sale) Bucket {
	var from, to time.Time

	switch {
	case filter.FromDate != nil && filter.ToDate != nil:
		from, to = *filter.FromDate, *filter.ToDate
	case len(rows) > 0:
		from, to = rows[0].Timestamp, rows[0].Timestamp
		for _, s := range rows {
			if s.Timestamp.Before(from) {
				from = s.Timestamp
			}
			if s.Timestamp.After(to) {
				to = s.Timestamp
			}
		}
	default:
		return BucketDay
	}

	days := to.Sub(from).Hours() / 24
	switch {
	case days <= 31:
		return BucketDay
	case days <= 90:
		return BucketWeek
	default:
		return BucketMonth
	}
}

// TruncateToBucket floors t to the start of its bucket. Weeks start on
// Monday; all bucketing is done in UTC.
func TruncateToBucket(t time.Time, bucket Bucket) time.Time {
	t = t.UTC()
	switch bucket {
	case BucketWeek:
		day := t.Truncate(24 * time.Hour)
		weekday := int(day.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return day.AddDate(0, 0, -(weekday - 1))
	case BucketMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return t.Truncate(24 * time.Hour)
	}
}
