package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"merchtable/internal/core/apperror"
	"merchtable/internal/domain/reports"
	"merchtable/internal/domain/sales"
)

// ReportRepo is the grouped aggregation path over the sales table. It
// shares saleConditions with SaleRepo so both report paths filter the
// same rows.
type ReportRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewReportRepo creates a report aggregation repository.
func NewReportRepo(txm *TxManager) *ReportRepo {
	return &ReportRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Summarize computes the three scalars in one grouped query.
func (r *ReportRepo) Summarize(ctx context.Context, filter sales.Filter) (reports.Summary, error) {
	var summary reports.Summary

	query, args, err := r.builder.
		Select(
			"COUNT(*) AS count",
			"COALESCE(SUM(quantity), 0) AS total_quantity",
			"COALESCE(SUM(unit_price * quantity), 0) AS total_amount",
		).
		From(salesTable).
		Where(saleConditions(filter)).
		ToSql()
	if err != nil {
		return summary, fmt.Errorf("build summary: %w", err)
	}

	row := r.txm.GetQuerier(ctx).QueryRow(ctx, query, args...)
	if err := row.Scan(&summary.Count, &summary.TotalQuantity, &summary.TotalAmount); err != nil {
		return summary, apperror.NewDatabase("summarize sales", err)
	}
	return summary, nil
}

// GroupByBucket groups filtered sales into time buckets, ascending.
// date_trunc('week', ...) starts weeks on Monday, which is how the report
// engine truncates as well.
func (r *ReportRepo) GroupByBucket(ctx context.Context, filter sales.Filter, bucket reports.Bucket) ([]reports.BucketRow, error) {
	var unit string
	switch bucket {
	case reports.BucketDay:
		unit = "day"
	case reports.BucketWeek:
		unit = "week"
	case reports.BucketMonth:
		unit = "month"
	default:
		return nil, fmt.Errorf("unknown bucket %q", bucket)
	}

	trunc := fmt.Sprintf("date_trunc('%s', timestamp AT TIME ZONE 'UTC')", unit)

	query, args, err := r.builder.
		Select(
			trunc+" AS bucket_start",
			"COUNT(*) AS count",
			"COALESCE(SUM(quantity), 0) AS total_quantity",
			"COALESCE(SUM(unit_price * quantity), 0) AS total_amount",
		).
		From(salesTable).
		Where(saleConditions(filter)).
		GroupBy(trunc).
		OrderBy("bucket_start ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build bucket query: %w", err)
	}

	var rows []reports.BucketRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, query, args...); err != nil {
		return nil, apperror.NewDatabase("group sales by bucket", err)
	}
	return rows, nil
}

// GroupByItem groups filtered sales per item, total amount descending.
func (r *ReportRepo) GroupByItem(ctx context.Context, filter sales.Filter) ([]reports.ItemRow, error) {
	conds := prefixSaleConditions(filter)

	query, args, err := r.builder.
		Select(
			"s.item_id",
			"i.name AS item_name",
			"i.sku AS item_sku",
			"COUNT(*) AS count",
			"COALESCE(SUM(s.quantity), 0) AS total_quantity",
			"COALESCE(SUM(s.unit_price * s.quantity), 0) AS total_amount",
		).
		From(salesTable + " s").
		Join(itemsTable + " i ON i.id = s.item_id").
		Where(conds).
		GroupBy("s.item_id", "i.name", "i.sku").
		OrderBy("total_amount DESC", "i.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build item query: %w", err)
	}

	var rows []reports.ItemRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, query, args...); err != nil {
		return nil, apperror.NewDatabase("group sales by item", err)
	}
	return rows, nil
}

// GroupByPayment groups filtered sales per payment method, total amount
// descending.
func (r *ReportRepo) GroupByPayment(ctx context.Context, filter sales.Filter) ([]reports.PaymentRow, error) {
	query, args, err := r.builder.
		Select(
			"payment_method",
			"COUNT(*) AS count",
			"COALESCE(SUM(quantity), 0) AS total_quantity",
			"COALESCE(SUM(unit_price * quantity), 0) AS total_amount",
		).
		From(salesTable).
		Where(saleConditions(filter)).
		GroupBy("payment_method").
		OrderBy("total_amount DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build payment query: %w", err)
	}

	var rows []reports.PaymentRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, query, args...); err != nil {
		return nil, apperror.NewDatabase("group sales by payment", err)
	}
	return rows, nil
}

// prefixSaleConditions is saleConditions with the "s." alias used by the
// joined item grouping query.
func prefixSaleConditions(filter sales.Filter) squirrel.And {
	conds := squirrel.And{}
	if filter.ItemID != nil {
		conds = append(conds, squirrel.Eq{"s.item_id": *filter.ItemID})
	}
	if filter.BandID != nil {
		conds = append(conds, squirrel.Eq{"s.band_id": *filter.BandID})
	}
	if filter.ShowID != nil {
		conds = append(conds, squirrel.Eq{"s.show_id": *filter.ShowID})
	}
	if filter.SalesPageID != nil {
		conds = append(conds, squirrel.Eq{"s.sales_page_id": *filter.SalesPageID})
	}
	if filter.PaymentMethod != nil {
		conds = append(conds, squirrel.Eq{"s.payment_method": *filter.PaymentMethod})
	}
	if filter.ActorID != nil {
		conds = append(conds, squirrel.Eq{"s.actor_id": *filter.ActorID})
	}
	if filter.FromDate != nil {
		conds = append(conds, squirrel.GtOrEq{"s.timestamp": *filter.FromDate})
	}
	if filter.ToDate != nil {
		conds = append(conds, squirrel.Lt{"s.timestamp": *filter.ToDate})
	}
	if len(conds) == 0 {
		conds = append(conds, squirrel.Expr("TRUE"))
	}
	return conds
}

var _ reports.Repository = (*ReportRepo)(nil)
