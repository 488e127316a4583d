package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/id"
	"merchtable/internal/domain/sales"
)

const salesTable = "sales"

var saleColumns = []string{
	"id", "item_id", "quantity", "unit_price", "payment_method",
	"band_id", "show_id", "sales_page_id", "actor_id", "notes", "timestamp",
}

// SaleRepo implements sales.Repository.
type SaleRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewSaleRepo creates a sale log repository.
func NewSaleRepo(txm *TxManager) *SaleRepo {
	return &SaleRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert persists a committed sale.
func (r *SaleRepo) Insert(ctx context.Context, sale *sales.Sale) error {
	query, args, err := r.builder.
		Insert(salesTable).
		Columns(saleColumns...).
		Values(sale.ID, sale.ItemID, sale.Quantity, sale.UnitPrice, sale.PaymentMethod,
			sale.BandID, sale.ShowID, sale.SalesPageID, sale.ActorID, sale.Notes, sale.Timestamp).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, query, args...); err != nil {
		return apperror.NewDatabase("insert sale", err)
	}
	return nil
}

// GetByID retrieves a sale.
func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*sales.Sale, error) {
	query, args, err := r.builder.
		Select(saleColumns...).
		From(salesTable).
		Where(squirrel.Eq{"id": saleID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var s sales.Sale
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", saleID)
		}
		return nil, apperror.NewDatabase("get sale", err)
	}
	return &s, nil
}

// Query retrieves sales matching the filter, oldest first.
func (r *SaleRepo) Query(ctx context.Context, filter sales.Filter) ([]*sales.Sale, error) {
	q := r.builder.
		Select(saleColumns...).
		From(salesTable).
		Where(saleConditions(filter)).
		OrderBy("timestamp ASC", "id ASC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var out []*sales.Sale
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, query, args...); err != nil {
		return nil, apperror.NewDatabase("query sales", err)
	}
	return out, nil
}

// Delete removes a sale row.
func (r *SaleRepo) Delete(ctx context.Context, saleID id.ID) error {
	query, args, err := r.builder.
		Delete(salesTable).
		Where(squirrel.Eq{"id": saleID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, query, args...)
	if err != nil {
		return apperror.NewDatabase("delete sale", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("sale", saleID)
	}
	return nil
}

// saleConditions translates a sales.Filter into WHERE conditions. Shared
// with the report queries so both aggregation paths see the same row set.
func saleConditions(filter sales.Filter) squirrel.And {
	conds := squirrel.And{}
	if filter.ItemID != nil {
		conds = append(conds, squirrel.Eq{"item_id": *filter.ItemID})
	}
	if filter.BandID != nil {
		conds = append(conds, squirrel.Eq{"band_id": *filter.BandID})
	}
	if filter.ShowID != nil {
		conds = append(conds, squirrel.Eq{"show_id": *filter.ShowID})
	}
	if filter.SalesPageID != nil {
		conds = append(conds, squirrel.Eq{"sales_page_id": *filter.SalesPageID})
	}
	if filter.PaymentMethod != nil {
		conds = append(conds, squirrel.Eq{"payment_method": *filter.PaymentMethod})
	}
	if filter.ActorID != nil {
		conds = append(conds, squirrel.Eq{"actor_id": *filter.ActorID})
	}
	if filter.FromDate != nil {
		conds = append(conds, squirrel.GtOrEq{"timestamp": *filter.FromDate})
	}
	if filter.ToDate != nil {
		conds = append(conds, squirrel.Lt{"timestamp": *filter.ToDate})
	}
	if len(conds) == 0 {
		conds = append(conds, squirrel.Expr("TRUE"))
	}
	return conds
}

var _ sales.Repository = (*SaleRepo)(nil)
