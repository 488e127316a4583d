package sales

import (
	"context"
	"fmt"
	"time"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/id"
	"merchtable/internal/core/tx"
	"merchtable/internal/core/types"
	"merchtable/internal/domain/catalog/item"
	"merchtable/internal/domain/ledger"
	"merchtable/pkg/logger"
)

// CandidateSale is a proposed sale awaiting validation.
type CandidateSale struct {
	ItemID        id.ID
	Quantity      int
	UnitPrice     types.Money
	PaymentMethod PaymentMethod
	ShowID        *id.ID
	SalesPageID   *id.ID
	ActorID       id.ID
	Notes         string
}

// CommitResult reports the outcome for one staged item in a batch commit.
type CommitResult struct {
	ItemID   id.ID `json:"itemId"`
	Quantity int   `json:"quantity"`
	SaleID   id.ID `json:"saleId,omitempty"`
	Err      error `json:"-"`
}

// Recorder validates and records sales. The sale row and its stock
// decrement form one logical transaction: inside tx.Manager when one is
// configured, otherwise with a compensating delete of the sale row when the
// ledger adjustment fails.
type Recorder struct {
	items     item.Repository
	sales     Repository
	ledger    *ledger.Service
	txManager tx.Manager // optional; nil falls back to compensation
}

// NewRecorder creates a sales recorder.
func NewRecorder(items item.Repository, salesRepo Repository, ledgerSvc *ledger.Service, txManager tx.Manager) *Recorder {
	return &Recorder{
		items:     items,
		sales:     salesRepo,
		ledger:    ledgerSvc,
		txManager: txManager,
	}
}

// RecordSale validates the candidate in order — item exists and is active,
// quantity positive, price non-negative, stock sufficient — short-circuiting
// on the first failure, then persists the sale and decrements stock.
func (r *Recorder) RecordSale(ctx context.Context, candidate CandidateSale) (id.ID, error) {
	it, err := r.items.GetByID(ctx, candidate.ItemID)
	if err != nil {
		return id.Nil(), err
	}
	if !it.Active {
		return id.Nil(), apperror.NewItemInactive(it.ID)
	}
	if candidate.Quantity <= 0 {
		return id.Nil(), apperror.NewInvalidQuantity(candidate.Quantity)
	}
	if candidate.UnitPrice.IsNegative() {
		return id.Nil(), apperror.NewInvalidPrice(candidate.UnitPrice.String())
	}
	if candidate.Quantity > it.Stock {
		return id.Nil(), apperror.NewInsufficientStock(it.ID.String(), candidate.Quantity, it.Stock)
	}
	if !candidate.PaymentMethod.IsValid() {
		return id.Nil(), apperror.NewValidation("unknown payment method").
			WithDetail("payment_method", string(candidate.PaymentMethod))
	}

	sale := &Sale{
		ID:            id.New(),
		ItemID:        candidate.ItemID,
		Quantity:      candidate.Quantity,
		UnitPrice:     candidate.UnitPrice,
		PaymentMethod: candidate.PaymentMethod,
		BandID:        it.BandID,
		ShowID:        candidate.ShowID,
		SalesPageID:   candidate.SalesPageID,
		ActorID:       candidate.ActorID,
		Notes:         candidate.Notes,
		Timestamp:     time.Now().UTC(),
	}

	// The stock check above ran outside the item lock; FailOnShortfall
	// makes the ledger re-verify under it, so a concurrent sale cannot
	// slip an oversell past the clamp.
	adjust := ledger.AdjustCommand{
		ItemID:          sale.ItemID,
		Delta:           -sale.Quantity,
		Reason:          ledger.ReasonSale,
		ActorID:         sale.ActorID,
		Notes:           fmt.Sprintf("sale %s", sale.ID),
		FailOnShortfall: true,
	}

	if r.txManager != nil {
		err = r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			if err := r.sales.Insert(ctx, sale); err != nil {
				return fmt.Errorf("insert sale: %w", err)
			}
			if _, err := r.ledger.AdjustStock(ctx, adjust); err != nil {
				return fmt.Errorf("adjust stock: %w", err)
			}
			return nil
		})
		if err != nil {
			return id.Nil(), err
		}
	} else {
		if err := r.sales.Insert(ctx, sale); err != nil {
			return id.Nil(), fmt.Errorf("insert sale: %w", err)
		}
		if _, err := r.ledger.AdjustStock(ctx, adjust); err != nil {
			// Compensating delete keeps the sale log consistent with
			// stock when no storage transaction is available.
			if delErr := r.sales.Delete(ctx, sale.ID); delErr != nil {
				logger.Error(ctx, "compensating sale delete failed",
					"sale_id", sale.ID,
					"error", delErr,
				)
			}
			return id.Nil(), fmt.Errorf("adjust stock: %w", err)
		}
	}

	logger.Info(ctx, "sale recorded",
		"sale_id", sale.ID,
		"item_id", sale.ItemID,
		"quantity", sale.Quantity,
		"payment_method", sale.PaymentMethod,
	)

	return sale.ID, nil
}

// Commit records every staged item in the session as its own sale, in
// staging order. A failure on one item does not abort the rest; each
// result carries its own outcome. The session is cleared afterward,
// win or lose. Processing is sequential so partial-failure bookkeeping
// stays deterministic.
func (r *Recorder) Commit(ctx context.Context, session *Session, payment PaymentMethod, showID *id.ID, notes string) ([]CommitResult, error) {
	if session == nil || session.Len() == 0 {
		return nil, apperror.NewValidation("nothing staged to commit")
	}
	defer session.Clear()

	staged := session.Items()
	results := make([]CommitResult, 0, len(staged))

	for _, line := range staged {
		result := CommitResult{ItemID: line.ItemID, Quantity: line.Quantity}

		it, err := r.items.GetByID(ctx, line.ItemID)
		if err != nil {
			result.Err = err
			results = append(results, result)
			continue
		}

		saleID, err := r.RecordSale(ctx, CandidateSale{
			ItemID:        line.ItemID,
			Quantity:      line.Quantity,
			UnitPrice:     it.UnitPrice,
			PaymentMethod: payment,
			ShowID:        showID,
			ActorID:       session.ActorID(),
			Notes:         notes,
		})
		if err != nil {
			result.Err = err
		} else {
			result.SaleID = saleID
		}
		results = append(results, result)
	}

	return results, nil
}

// ReverseSale removes a sale and restores its stock. Round-trip law:
// RecordSale then ReverseSale leaves the item's stock at its pre-sale value,
// given no intervening mutation.
func (r *Recorder) ReverseSale(ctx context.Context, saleID, actorID id.ID) error {
	sale, err := r.sales.GetByID(ctx, saleID)
	if err != nil {
		return err
	}

	adjust := ledger.AdjustCommand{
		ItemID:  sale.ItemID,
		Delta:   sale.Quantity,
		Reason:  ledger.ReasonSaleReversed,
		ActorID: actorID,
		Notes:   fmt.Sprintf("reversal of sale %s", sale.ID),
	}

	reverse := func(ctx context.Context) error {
		if err := r.sales.Delete(ctx, saleID); err != nil {
			return fmt.Errorf("delete sale: %w", err)
		}
		if _, err := r.ledger.AdjustStock(ctx, adjust); err != nil {
			return fmt.Errorf("restore stock: %w", err)
		}
		return nil
	}

	if r.txManager != nil {
		err = r.txManager.RunInTransaction(ctx, reverse)
	} else {
		err = reverse(ctx)
	}
	if err != nil {
		return err
	}

	logger.Info(ctx, "sale reversed",
		"sale_id", saleID,
		"item_id", sale.ItemID,
		"quantity", sale.Quantity,
	)
	return nil
}

// List retrieves sales matching the filter.
func (r *Recorder) List(ctx context.Context, filter Filter) ([]*Sale, error) {
	return r.sales.Query(ctx, filter)
}
