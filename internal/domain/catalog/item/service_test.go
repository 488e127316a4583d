package item_test

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

func newService(t *testing.T) (*item.Service, id.ID) {
	t.Helper()
	store := memory.NewStore()
	return item.NewService(memory.NewItemRepo(store)), id.New()
}

func TestCreate_RejectsDuplicateSKU(t *testing.T) {
	svc, bandID := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, item.New("Tour Tee", "TEE-001", types.MustMoney("25.00"), bandID)))

	err := svc.Create(ctx, item.New("Tour Tee v2", "TEE-001", types.MustMoney("28.00"), bandID))
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
}

func TestCreate_RejectsInvalidItem(t *testing.T) {
	svc, bandID := newService(t)
	ctx := context.Background()

	err := svc.Create(ctx, item.New("", "TEE-001", types.MustMoney("25.00"), bandID))
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	err = svc.Create(ctx, item.New("Tee", "TEE-002", types.MustMoney("-1.00"), bandID))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidPrice))
}

func TestUpdate_RejectsDirectStockChange(t *testing.T) {
	svc, bandID := newService(t)
	ctx := context.Background()

	m := item.New("Tour Tee", "TEE-001", types.MustMoney("25.00"), bandID)
	m.Stock = 10
	require.NoError(t, svc.Create(ctx, m))

	changed, err := svc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	changed.Stock = 99

	err = svc.Update(ctx, changed)
	require.True(t, apperror.HasCode(err, apperror.CodeValidation))

	kept, err := svc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, kept.Stock)
}

func TestUpdate_MasterDataRoundTrip(t *testing.T) {
	svc, bandID := newService(t)
	ctx := context.Background()

	m := item.New("Tour Tee", "TEE-001", types.MustMoney("25.00"), bandID)
	require.NoError(t, svc.Create(ctx, m))

	changed, err := svc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	changed.Name = "Tour Tee 2026"
	changed.UnitPrice = types.MustMoney("28.00")
	require.NoError(t, svc.Update(ctx, changed))

	got, err := svc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tour Tee 2026", got.Name)
	assert.True(t, got.UnitPrice.Equal(types.MustMoney("28.00")))
	assert.Greater(t, got.Version, m.Version)
}

func TestDeactivate_Idempotent(t *testing.T) {
	svc, bandID := newService(t)
	ctx := context.Background()

	m := item.New("Tour Tee", "TEE-001", types.MustMoney("25.00"), bandID)
	require.NoError(t, svc.Create(ctx, m))

	require.NoError(t, svc.Deactivate(ctx, m.ID))
	require.NoError(t, svc.Deactivate(ctx, m.ID))

	got, err := svc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestList_ClampsLimit(t *testing.T) {
	svc, bandID := newService(t)
	ctx := context.Background()

	for _, sku := range []string{"TEE-001", "TEE-002", "TEE-003"} {
		require.NoError(t, svc.Create(ctx, item.New("Tee "+sku, sku, types.MustMoney("25.00"), bandID)))
	}

	res, err := svc.List(ctx, domain.ListFilter{Limit: -1})
	require.NoError(t, err)
	assert.Equal(t, 50, res.Limit)
	assert.Equal(t, int64(3), res.TotalCount)
}

func TestFindLowStock(t *testing.T) {
	svc, bandID := newService(t)
	ctx := context.Background()

	low := item.New("Low Tee", "TEE-001", types.MustMoney("25.00"), bandID)
	low.Stock = 5
	require.NoError(t, svc.Create(ctx, low))

	fine := item.New("Fine Tee", "TEE-002", types.MustMoney("25.00"), bandID)
	fine.Stock = 6
	require.NoError(t, svc.Create(ctx, fine))

	items, err := svc.FindLowStock(ctx, 5)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, low.ID, items[0].ID)
}
