package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/id"
	"merchtable/internal/domain/alerts"
)

const alertsTable = "stock_alerts"

var alertColumns = []string{
	"id", "item_id", "threshold_at_creation", "status", "created_at", "updated_at",
}

// AlertRepo implements alerts.Repository.
type AlertRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewAlertRepo creates an alert repository.
func NewAlertRepo(txm *TxManager) *AlertRepo {
	return &AlertRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new alert.
func (r *AlertRepo) Create(ctx context.Context, alert *alerts.Alert) error {
	query, args, err := r.builder.
		Insert(alertsTable).
		Columns(alertColumns...).
		Values(alert.ID, alert.ItemID, alert.ThresholdAtCreation,
			alert.Status, alert.CreatedAt, alert.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, query, args...); err != nil {
		return apperror.NewDatabase("insert alert", err)
	}
	return nil
}

// GetByID retrieves an alert.
func (r *AlertRepo) GetByID(ctx context.Context, alertID id.ID) (*alerts.Alert, error) {
	query, args, err := r.builder.
		Select(alertColumns...).
		From(alertsTable).
		Where(squirrel.Eq{"id": alertID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var a alerts.Alert
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &a, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("alert", alertID)
		}
		return nil, apperror.NewDatabase("get alert", err)
	}
	return &a, nil
}

// FindActiveByItem returns the active alert for an item, if any.
func (r *AlertRepo) FindActiveByItem(ctx context.Context, itemID id.ID) (*alerts.Alert, error) {
	query, args, err := r.builder.
		Select(alertColumns...).
		From(alertsTable).
		Where(squirrel.Eq{"item_id": itemID, "status": alerts.StatusActive}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var a alerts.Alert
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &a, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("active alert", itemID)
		}
		return nil, apperror.NewDatabase("find active alert", err)
	}
	return &a, nil
}

// Update persists status transitions.
func (r *AlertRepo) Update(ctx context.Context, alert *alerts.Alert) error {
	query, args, err := r.builder.
		Update(alertsTable).
		Set("status", alert.Status).
		Set("updated_at", alert.UpdatedAt).
		Where(squirrel.Eq{"id": alert.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, query, args...)
	if err != nil {
		return apperror.NewDatabase("update alert", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("alert", alert.ID)
	}
	return nil
}

// List returns alerts, newest first. Empty status returns all.
func (r *AlertRepo) List(ctx context.Context, status alerts.Status) ([]*alerts.Alert, error) {
	q := r.builder.
		Select(alertColumns...).
		From(alertsTable)

	if status != "" {
		q = q.Where(squirrel.Eq{"status": status})
	}
	q = q.OrderBy("created_at DESC")

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var out []*alerts.Alert
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, query, args...); err != nil {
		return nil, apperror.NewDatabase("list alerts", err)
	}
	return out, nil
}

var _ alerts.Repository = (*AlertRepo)(nil)
