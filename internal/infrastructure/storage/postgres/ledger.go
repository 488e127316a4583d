package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/id"
	"merchtable/internal/domain/ledger"
)

const stockLogTable = "stock_log"

var stockLogColumns = []string{
	"id", "item_id", "previous_stock", "new_stock", "reason",
	"actor_id", "notes", "created_at",
}

// LedgerRepo implements ledger.Repository over the append-only stock_log
// table. There are no UPDATE or DELETE statements here on purpose.
type LedgerRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewLedgerRepo creates a stock log repository.
func NewLedgerRepo(txm *TxManager) *LedgerRepo {
	return &LedgerRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append inserts a log entry.
func (r *LedgerRepo) Append(ctx context.Context, entry *ledger.Entry) error {
	query, args, err := r.builder.
		Insert(stockLogTable).
		Columns(stockLogColumns...).
		Values(entry.ID, entry.ItemID, entry.PreviousStock, entry.NewStock,
			entry.Reason, entry.ActorID, entry.Notes, entry.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, query, args...); err != nil {
		return apperror.NewDatabase("append stock log entry", err)
	}
	return nil
}

// History retrieves entries for an item, oldest first.
func (r *LedgerRepo) History(ctx context.Context, itemID id.ID, filter ledger.HistoryFilter) ([]*ledger.Entry, error) {
	q := r.builder.
		Select(stockLogColumns...).
		From(stockLogTable).
		Where(squirrel.Eq{"item_id": itemID})

	if filter.Reason != nil {
		q = q.Where(squirrel.Eq{"reason": *filter.Reason})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.Lt{"created_at": *filter.ToDate})
	}

	q = q.OrderBy("created_at ASC", "id ASC")
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

	var entries []*ledger.Entry
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &entries, query, args...); err != nil {
		return nil, apperror.NewDatabase("query stock log", err)
	}
	return entries, nil
}

var _ ledger.Repository = (*LedgerRepo)(nil)
