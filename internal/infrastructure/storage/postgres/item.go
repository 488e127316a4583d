package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/id"
	"merchtable/internal/domain"
	"merchtable/internal/domain/catalog/item"
)

const itemsTable = "merch_items"

var itemColumns = []string{
	"id", "name", "sku", "unit_price", "unit_cost", "stock",
	"low_stock_threshold", "active", "band_id", "created_at", "updated_at", "version",
}

// ItemRepo implements item.Repository.
type ItemRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewItemRepo creates a merchandise item repository.
func NewItemRepo(txm *TxManager) *ItemRepo {
	return &ItemRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new item.
func (r *ItemRepo) Create(ctx context.Context, m *item.MerchandiseItem) error {
	query, args, err := r.builder.
		Insert(itemsTable).
		Columns(itemColumns...).
		Values(m.ID, m.Name, m.SKU, m.UnitPrice, m.UnitCost, m.Stock,
			m.LowStockThreshold, m.Active, m.BandID, m.CreatedAt, m.UpdatedAt, m.Version).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, query, args...); err != nil {
		return apperror.NewDatabase("insert item", err)
	}
	return nil
}

// GetByID retrieves an item.
func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.MerchandiseItem, error) {
	query, args, err := r.builder.
		Select(itemColumns...).
		From(itemsTable).
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var m item.MerchandiseItem
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &m, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("item", itemID)
		}
		return nil, apperror.NewDatabase("get item", err)
	}
	return &m, nil
}

// FindBySKU retrieves an item by SKU within a band.
func (r *ItemRepo) FindBySKU(ctx context.Context, bandID id.ID, sku string) (*item.MerchandiseItem, error) {
	query, args, err := r.builder.
		Select(itemColumns...).
		From(itemsTable).
		Where(squirrel.Eq{"band_id": bandID, "sku": sku}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var m item.MerchandiseItem
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &m, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("item", sku)
		}
		return nil, apperror.NewDatabase("find item by sku", err)
	}
	return &m, nil
}

// Update modifies non-stock fields with optimistic locking on version.
// Stock is deliberately excluded: only UpdateStockCAS writes it.
func (r *ItemRepo) Update(ctx context.Context, m *item.MerchandiseItem) error {
	query, args, err := r.builder.
		Update(itemsTable).
		Set("name", m.Name).
		Set("sku", m.SKU).
		Set("unit_price", m.UnitPrice).
		Set("unit_cost", m.UnitCost).
		Set("low_stock_threshold", m.LowStockThreshold).
		Set("active", m.Active).
		Set("updated_at", m.UpdatedAt).
		Set("version", m.Version).
		Where(squirrel.Eq{"id": m.ID, "version": m.Version - 1}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, query, args...)
	if err != nil {
		return apperror.NewDatabase("update item", err)
	}
	if tag.RowsAffected() == 0 {
		exists, err := r.Exists(ctx, m.ID)
		if err != nil {
			return err
		}
		if !exists {
			return apperror.NewNotFound("item", m.ID)
		}
		return apperror.NewConcurrentModification("item", m.ID)
	}
	return nil
}

// UpdateStockCAS sets the stock count only if the stored value still equals
// expected. The compare-and-swap closes the read-then-write race on
// concurrent adjustments.
func (r *ItemRepo) UpdateStockCAS(ctx context.Context, itemID id.ID, expected, newStock int) error {
	query, args, err := r.builder.
		Update(itemsTable).
		Set("stock", newStock).
		Set("updated_at", squirrel.Expr("now()")).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": itemID, "stock": expected}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, query, args...)
	if err != nil {
		return apperror.NewDatabase("update stock", err)
	}
	if tag.RowsAffected() == 0 {
		exists, err := r.Exists(ctx, itemID)
		if err != nil {
			return err
		}
		if !exists {
			return apperror.NewNotFound("item", itemID)
		}
		return apperror.NewConcurrentModification("item", itemID)
	}
	return nil
}

// List retrieves items with filtering and pagination.
func (r *ItemRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*item.MerchandiseItem], error) {
	result := domain.ListResult[*item.MerchandiseItem]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	base := r.builder.Select(itemColumns...).From(itemsTable)
	countQ := r.builder.Select("COUNT(*)").From(itemsTable)

	conds := squirrel.And{}
	if filter.BandID != nil {
		conds = append(conds, squirrel.Eq{"band_id": *filter.BandID})
	}
	if filter.ActiveOnly {
		conds = append(conds, squirrel.Eq{"active": true})
	}
	if len(filter.IDs) > 0 {
		conds = append(conds, squirrel.Eq{"id": filter.IDs})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conds = append(conds, squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"sku": pattern},
		})
	}
	if len(conds) > 0 {
		base = base.Where(conds)
		countQ = countQ.Where(conds)
	}

	orderBy := "name ASC"
	if filter.OrderBy == "-created_at" {
		orderBy = "created_at DESC"
	}
	base = base.OrderBy(orderBy)

	if filter.Limit > 0 {
		base = base.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		base = base.Offset(uint64(filter.Offset))
	}

	querier := r.txm.GetQuerier(ctx)

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, apperror.NewDatabase("count items", err)
	}

	query, args, err := base.ToSql()
	if err != nil {
		return result, fmt.Errorf("build select: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &result.Items, query, args...); err != nil {
		return result, apperror.NewDatabase("list items", err)
	}

	return result, nil
}

// FindLowStock retrieves active items at or below their threshold.
func (r *ItemRepo) FindLowStock(ctx context.Context, defaultThreshold int) ([]*item.MerchandiseItem, error) {
	query, args, err := r.builder.
		Select(itemColumns...).
		From(itemsTable).
		Where(squirrel.Eq{"active": true}).
		Where(squirrel.Expr("stock <= COALESCE(low_stock_threshold, ?)", defaultThreshold)).
		OrderBy("stock ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var items []*item.MerchandiseItem
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, query, args...); err != nil {
		return nil, apperror.NewDatabase("find low stock", err)
	}
	return items, nil
}

// Exists checks if an item exists.
func (r *ItemRepo) Exists(ctx context.Context, itemID id.ID) (bool, error) {
	query, args, err := r.builder.
		Select("1").
		From(itemsTable).
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build select: %w", err)
	}

	var one int
	err = r.txm.GetQuerier(ctx).QueryRow(ctx, query, args...).Scan(&one)
	if err != nil {
		if pgxscan.NotFound(err) {
			return false, nil
		}
		return false, apperror.NewDatabase("check item exists", err)
	}
	return true, nil
}

var _ item.Repository = (*ItemRepo)(nil)
