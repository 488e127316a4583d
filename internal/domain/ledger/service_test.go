package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/id"
	"merchtable/internal/core/types"
	"merchtable/internal/domain/alerts"
	"merchtable/internal/domain/catalog/item"
	"merchtable/internal/domain/ledger"
	"merchtable/internal/infrastructure/storage/memory"
)

type fixture struct {
	store    *memory.Store
	items    *memory.ItemRepo
	entries  *memory.LedgerRepo
	register *alerts.Register
	service  *ledger.Service
	actorID  id.ID
}

func newFixture(t *testing.T, cfg ledger.Config) *fixture {
	t.Helper()
	store := memory.NewStore()
	items := memory.NewItemRepo(store)
	entries := memory.NewLedgerRepo(store)
	register := alerts.NewRegister(memory.NewAlertRepo(store), nil)
	return &fixture{
		store:    store,
		items:    items,
		entries:  entries,
		register: register,
		service:  ledger.NewService(items, entries, register, cfg),
		actorID:  id.New(),
	}
}

func (f *fixture) createItem(t *testing.T, stock int, threshold *int) id.ID {
	t.Helper()
	m := item.New("Tour Tee", "TEE-001", types.MustMoney("25.00"), id.New())
	m.Stock = stock
	m.LowStockThreshold = threshold
	require.NoError(t, f.items.Create(context.Background(), m))
	return m.ID
}

func intPtr(v int) *int { return &v }

func TestAdjustStock_AppliesDeltaAndAppendsEntry(t *testing.T) {
	f := newFixture(t, ledger.DefaultConfig())
	ctx := context.Background()
	itemID := f.createItem(t, 10, nil)

	result, err := f.service.AdjustStock(ctx, ledger.AdjustCommand{
		ItemID:  itemID,
		Delta:   5,
		Reason:  ledger.ReasonReceiving,
		ActorID: f.actorID,
		Notes:   "restock from van",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, result.PreviousStock)
	assert.Equal(t, 15, result.NewStock)
	assert.False(t, result.Clamped)

	m, err := f.items.GetByID(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, 15, m.Stock)

	entries, err := f.service.History(ctx, itemID, ledger.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 10, entries[0].PreviousStock)
	assert.Equal(t, 15, entries[0].NewStock)
	assert.Equal(t, ledger.ReasonReceiving, entries[0].Reason)
	assert.Equal(t, f.actorID, entries[0].ActorID)
	assert.Equal(t, "restock from van", entries[0].Notes)
}

func TestAdjustStock_FailOnShortfallRejectsInsteadOfClamping(t *testing.T) {
	f := newFixture(t, ledger.DefaultConfig())
	ctx := context.Background()
	itemID := f.createItem(t, 3, nil)

	_, err := f.service.AdjustStock(ctx, ledger.AdjustCommand{
		ItemID:          itemID,
		Delta:           -5,
		Reason:          ledger.ReasonSale,
		ActorID:         f.actorID,
		FailOnShortfall: true,
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))

	m, err := f.items.GetByID(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Stock, "rejected mutation must not touch stock")

	entries, err := f.service.History(ctx, itemID, ledger.HistoryFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)

	// A delta the stock can cover is unaffected by the flag.
	result, err := f.service.AdjustStock(ctx, ledger.AdjustCommand{
		ItemID:          itemID,
		Delta:           -3,
		Reason:          ledger.ReasonSale,
		ActorID:         f.actorID,
		FailOnShortfall: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.NewStock)
	assert.False(t, result.Clamped)
}

func TestAdjustStock_EntryChainIsContiguous(t *testing.T) {
	f := newFixture(t, ledger.DefaultConfig())
	ctx := context.Background()
	itemID := f.createItem(t, 20, nil)

	deltas := []int{5, -3, -7, 12, -1}
	for _, delta := range deltas {
		reason := ledger.ReasonReceiving
		if delta < 0 {
			reason = ledger.ReasonSale
		}
		_, err := f.service.AdjustStock(ctx, ledger.AdjustCommand{
			ItemID:  itemID,
			Delta:   delta,
			Reason:  reason,
			ActorID: f.actorID,
		})
		require.NoError(t, err)
	}

	entries, err := f.service.History(ctx, itemID, ledger.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, len(deltas))

	prev := 20
	for i, e := range entries {
		assert.Equal(t, prev, e.PreviousStock, "entry %d previous stock", i)
		prev = e.NewStock
	}

	m, err := f.items.GetByID(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, prev, m.Stock, "final entry must match current stock")
}

func TestAdjustStock_ClampsAtZero(t *testing.T) {
	f := newFixture(t, ledger.DefaultConfig())
	ctx := context.Background()
	itemID := f.createItem(t, 4, intPtr(0))

	result, err := f.service.AdjustStock(ctx, ledger.AdjustCommand{
		ItemID:  itemID,
		Delta:   -10,
		Reason:  ledger.ReasonDamage,
		ActorID: f.actorID,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, result.PreviousStock)
	assert.Equal(t, 0, result.NewStock)
	assert.True(t, result.Clamped)

	entries, err := f.service.History(ctx, itemID, ledger.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].NewStock, "entry records the clamped count, not the deficit")
}

func TestAdjustStock_ThresholdBoundaryIsInclusive(t *testing.T) {
	f := newFixture(t, ledger.DefaultConfig())
	ctx := context.Background()

	// One above threshold: no alert.
	above := f.createItem(t, 7, intPtr(5))
	result, err := f.service.AdjustStock(ctx, ledger.AdjustCommand{
		ItemID: above, Delta: -1, Reason: ledger.ReasonSale, ActorID: f.actorID,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, result.NewStock)
	assert.False(t, result.AlertCreated)

	// Exactly at threshold: alert fires.
	result, err = f.service.AdjustStock(ctx, ledger.AdjustCommand{
		ItemID: above, Delta: -1, Reason: ledger.ReasonSale, ActorID: f.actorID,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.NewStock)
	assert.True(t, result.AlertCreated)
}

func TestAdjustStock_AlertDeduplication(t *testing.T) {
	f := newFixture(t, ledger.DefaultConfig())
	ctx := context.Background()
	itemID := f.createItem(t, 6, intPtr(5))

	created := 0
	for i := 0; i < 4; i++ {
		result, err := f.service.AdjustStock(ctx, ledger.AdjustCommand{
			ItemID: itemID, Delta: -1, Reason: ledger.ReasonSale, ActorID: f.actorID,
		})
		require.NoError(t, err)
		if result.AlertCreated {
			created++
		}
	}
	assert.Equal(t, 1, created, "repeated drops below threshold create one alert")

	active, err := f.register.List(ctx, alerts.StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, itemID, active[0].ItemID)
	assert.Equal(t, 5, active[0].ThresholdAtCreation)
}

func TestAdjustStock_RestockKeepsAlertByDefault(t *testing.T) {
	f := newFixture(t, ledger.DefaultConfig())
	ctx := context.Background()
	itemID := f.createItem(t, 5, intPtr(5))

	_, err := f.service.AdjustStock(ctx, ledger.AdjustCommand{
		ItemID: itemID, Delta: -1, Reason: ledger.ReasonSale, ActorID: f.actorID,
	})
	require.NoError(t, err)

	result, err := f.service.AdjustStock(ctx, ledger.AdjustCommand{
		ItemID: itemID, Delta: 20, Reason: ledger.ReasonReceiving, ActorID: f.actorID,
	})
	require.NoError(t, err)
	assert.False(t, result.AlertResolved)

	active, err := f.register.List(ctx, alerts.StatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 1, "restock does not resolve alerts unless configured")
}

func TestAdjustStock_ResolveOnRestock(t *testing.T) {
	cfg := ledger.DefaultConfig()
	cfg.ResolveOnRestock = true
	f := newFixture(t, cfg)
	ctx := context.Background()
	itemID := f.createItem(t, 5, intPtr(5))

	_, err := f.service.AdjustStock(ctx, ledger.AdjustCommand{
		ItemID: itemID, Delta: -1, Reason: ledger.ReasonSale, ActorID: f.actorID,
	})
	require.NoError(t, err)

	result, err := f.service.AdjustStock(ctx, ledger.AdjustCommand{
		ItemID: itemID, Delta: 20, Reason: ledger.ReasonReceiving, ActorID: f.actorID,
	})
	require.NoError(t, err)
	assert.True(t, result.AlertResolved)

	active, err := f.register.List(ctx, alerts.StatusActive)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestAdjustStock_DefaultThresholdApplies(t *testing.T) {
	cfg := ledger.DefaultConfig()
	cfg.DefaultLowStockThreshold = 3
	f := newFixture(t, cfg)
	ctx := context.Background()
	itemID := f.createItem(t, 4, nil) // no per-item threshold

	result, err := f.service.AdjustStock(ctx, ledger.AdjustCommand{
		ItemID: itemID, Delta: -1, Reason: ledger.ReasonSale, ActorID: f.actorID,
	})
	require.NoError(t, err)
	assert.True(t, result.AlertCreated)
}

func TestAdjustStock_RejectsInvalidInput(t *testing.T) {
	f := newFixture(t, ledger.DefaultConfig())
	ctx := context.Background()
	itemID := f.createItem(t, 10, nil)

	_, err := f.service.AdjustStock(ctx, ledger.AdjustCommand{
		ItemID: itemID, Delta: 1, Reason: "shrinkage", ActorID: f.actorID,
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = f.service.AdjustStock(ctx, ledger.AdjustCommand{
		ItemID: itemID, Delta: 0, Reason: ledger.ReasonManual, ActorID: f.actorID,
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	entries, err := f.service.History(ctx, itemID, ledger.HistoryFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected adjustments leave no log entries")
}

func TestAdjustStock_UnknownItem(t *testing.T) {
	f := newFixture(t, ledger.DefaultConfig())

	_, err := f.service.AdjustStock(context.Background(), ledger.AdjustCommand{
		ItemID: id.New(), Delta: 1, Reason: ledger.ReasonManual, ActorID: f.actorID,
	})
	assert.True(t, apperror.IsNotFound(err))
}

// failingLedgerRepo rejects every append.
type failingLedgerRepo struct {
	ledger.Repository
}

func (f *failingLedgerRepo) Append(ctx context.Context, entry *ledger.Entry) error {
	return errors.New("disk full")
}

func TestAdjustStock_LogAppendFailureKeepsStockWrite(t *testing.T) {
	store := memory.NewStore()
	items := memory.NewItemRepo(store)
	register := alerts.NewRegister(memory.NewAlertRepo(store), nil)
	entries := &failingLedgerRepo{Repository: memory.NewLedgerRepo(store)}
	service := ledger.NewService(items, entries, register, ledger.DefaultConfig())

	ctx := context.Background()
	m := item.New("Poster", "PST-001", types.MustMoney("10.00"), id.New())
	m.Stock = 10
	require.NoError(t, items.Create(ctx, m))

	result, err := service.AdjustStock(ctx, ledger.AdjustCommand{
		ItemID: m.ID, Delta: -2, Reason: ledger.ReasonSale, ActorID: id.New(),
	})
	require.NoError(t, err, "a failed log append does not fail the mutation")
	assert.Equal(t, 8, result.NewStock)

	stored, err := items.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.Stock)
}

func TestHistory_FiltersByReason(t *testing.T) {
	f := newFixture(t, ledger.DefaultConfig())
	ctx := context.Background()
	itemID := f.createItem(t, 50, intPtr(0))

	commands := []ledger.AdjustCommand{
		{ItemID: itemID, Delta: 10, Reason: ledger.ReasonReceiving, ActorID: f.actorID},
		{ItemID: itemID, Delta: -2, Reason: ledger.ReasonSale, ActorID: f.actorID},
		{ItemID: itemID, Delta: -1, Reason: ledger.ReasonDamage, ActorID: f.actorID},
		{ItemID: itemID, Delta: -3, Reason: ledger.ReasonSale, ActorID: f.actorID},
	}
	for _, cmd := range commands {
		_, err := f.service.AdjustStock(ctx, cmd)
		require.NoError(t, err)
	}

	saleReason := ledger.ReasonSale
	entries, err := f.service.History(ctx, itemID, ledger.HistoryFilter{Reason: &saleReason})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, ledger.ReasonSale, e.Reason)
	}
}
