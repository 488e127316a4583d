package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/id"
	"merchtable/internal/core/types"
	"merchtable/internal/domain"
	"merchtable/internal/domain/catalog/item"
	"merchtable/internal/infrastructure/storage/memory"
)

func seedItem(t *testing.T, repo *memory.ItemRepo, name, sku string, stock int) *item.MerchandiseItem {
	t.Helper()
	m := item.New(name, sku, types.MustMoney("25.00"), id.New())
	m.Stock = stock
	require.NoError(t, repo.Create(context.Background(), m))
	return m
}

func TestItemRepo_UpdateStockCAS(t *testing.T) {
	repo := memory.NewItemRepo(memory.NewStore())
	ctx := context.Background()
	m := seedItem(t, repo, "Tour Tee", "TEE-001", 10)

	require.NoError(t, repo.UpdateStockCAS(ctx, m.ID, 10, 7))

	got, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)

	// Stale expectation loses.
	err = repo.UpdateStockCAS(ctx, m.ID, 10, 4)
	assert.True(t, apperror.HasCode(err, apperror.CodeConcurrentModification))

	got, err = repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)
}

func TestItemRepo_UpdateIgnoresStockAndChecksVersion(t *testing.T) {
	repo := memory.NewItemRepo(memory.NewStore())
	ctx := context.Background()
	m := seedItem(t, repo, "Tour Tee", "TEE-001", 10)

	stale, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)

	fresh, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	fresh.Name = "Tour Tee 2026"
	fresh.Stock = 99
	fresh.Touch()
	require.NoError(t, repo.Update(ctx, fresh))

	got, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tour Tee 2026", got.Name)
	assert.Equal(t, 10, got.Stock, "stock writes go through UpdateStockCAS only")

	stale.Name = "stale write"
	err = repo.Update(ctx, stale)
	assert.True(t, apperror.HasCode(err, apperror.CodeConcurrentModification))

	// A version that skipped ahead of the stored one is just as much a
	// conflict as a stale one; only version+1 may land.
	ahead, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	ahead.Version += 5
	err = repo.Update(ctx, ahead)
	assert.True(t, apperror.HasCode(err, apperror.CodeConcurrentModification))

	kept, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tour Tee 2026", kept.Name)
}

func TestItemRepo_GetReturnsCopy(t *testing.T) {
	repo := memory.NewItemRepo(memory.NewStore())
	ctx := context.Background()
	m := seedItem(t, repo, "Tour Tee", "TEE-001", 10)

	got, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tour Tee", again.Name)
}

func TestItemRepo_ListSearchAndPagination(t *testing.T) {
	repo := memory.NewItemRepo(memory.NewStore())
	ctx := context.Background()

	seedItem(t, repo, "Tour Tee", "TEE-001", 10)
	seedItem(t, repo, "Vinyl LP", "VNL-001", 10)
	seedItem(t, repo, "Hoodie", "HOOD-001", 10)

	res, err := repo.List(ctx, domain.ListFilter{Search: "tee", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.TotalCount)

	res, err = repo.List(ctx, domain.ListFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.TotalCount)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Hoodie", res.Items[0].Name)

	res, err = repo.List(ctx, domain.ListFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Vinyl LP", res.Items[0].Name)
}
