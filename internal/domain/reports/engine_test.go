package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/id"
	"merchtable/internal/core/types"
	"merchtable/internal/domain/catalog/item"
	"merchtable/internal/domain/reports"
	"merchtable/internal/domain/sales"
	"merchtable/internal/infrastructure/storage/memory"
)

type engineFixture struct {
	store    *memory.Store
	items    *memory.ItemRepo
	saleRepo *memory.SaleRepo
	engine   *reports.Engine
	bandID   id.ID
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	store := memory.NewStore()
	saleRepo := memory.NewSaleRepo(store)
	return &engineFixture{
		store:    store,
		items:    memory.NewItemRepo(store),
		saleRepo: saleRepo,
		engine:   reports.NewEngine(memory.NewReportRepo(store), saleRepo),
		bandID:   id.New(),
	}
}

func (f *engineFixture) createItem(t *testing.T, name, sku, price string) *item.MerchandiseItem {
	t.Helper()
	m := item.New(name, sku, types.MustMoney(price), f.bandID)
	m.Stock = 100
	require.NoError(t, f.items.Create(context.Background(), m))
	return m
}

func (f *engineFixture) insertSale(t *testing.T, m *item.MerchandiseItem, qty int, method sales.PaymentMethod, ts time.Time) {
	t.Helper()
	require.NoError(t, f.saleRepo.Insert(context.Background(), &sales.Sale{
		ID:            id.New(),
		ItemID:        m.ID,
		Quantity:      qty,
		UnitPrice:     m.UnitPrice,
		PaymentMethod: method,
		BandID:        f.bandID,
		ActorID:       id.New(),
		Timestamp:     ts,
	}))
}

func TestBuildSalesReport_Reconciles(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	tee := f.createItem(t, "Tour Tee", "TEE-001", "25.00")
	vinyl := f.createItem(t, "Vinyl", "VNL-001", "30.00")

	base := time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC)
	f.insertSale(t, tee, 2, sales.PaymentCash, base)
	f.insertSale(t, tee, 1, sales.PaymentCard, base.Add(24*time.Hour))
	f.insertSale(t, vinyl, 3, sales.PaymentCard, base.Add(48*time.Hour))

	report, err := f.engine.BuildSalesReport(ctx, reports.Filter{})
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.True(t, report.IntegrityOK)
	assert.Equal(t, int64(3), report.Summary.Count)
	assert.Equal(t, int64(6), report.Summary.TotalQuantity)
	assert.True(t, report.Summary.TotalAmount.Equal(types.MustMoney("165.00")))

	// Top sellers by revenue: vinyl 90.00 over tee 75.00.
	require.Len(t, report.TopItems, 2)
	assert.Equal(t, vinyl.ID, report.TopItems[0].ItemID)
	assert.Equal(t, "Vinyl", report.TopItems[0].ItemName)
	assert.Equal(t, tee.ID, report.TopItems[1].ItemID)

	// Payment split: card 120.00 over cash 50.00.
	require.Len(t, report.ByPayment, 2)
	assert.Equal(t, sales.PaymentCard, report.ByPayment[0].PaymentMethod)
	assert.True(t, report.ByPayment[0].TotalAmount.Equal(types.MustMoney("120.00")))

	require.Len(t, report.ByBucket, 3, "three days, daily buckets")
	for i := 1; i < len(report.ByBucket); i++ {
		assert.True(t, report.ByBucket[i-1].BucketStart.Before(report.ByBucket[i].BucketStart))
	}
}

func TestBuildSalesReport_IgnoresPagination(t *testing.T) {
	f := newEngineFixture(t)
	tee := f.createItem(t, "Tour Tee", "TEE-001", "25.00")

	base := time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		f.insertSale(t, tee, 1, sales.PaymentCash, base.Add(time.Duration(i)*time.Hour))
	}

	filter := reports.Filter{}
	filter.Limit = 2
	filter.Offset = 1

	report, err := f.engine.BuildSalesReport(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(5), report.Summary.Count, "a report covers the full row set")
}

func TestBuildSalesReport_FiltersApplyToBothPaths(t *testing.T) {
	f := newEngineFixture(t)
	tee := f.createItem(t, "Tour Tee", "TEE-001", "25.00")
	vinyl := f.createItem(t, "Vinyl", "VNL-001", "30.00")

	base := time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC)
	f.insertSale(t, tee, 2, sales.PaymentCash, base)
	f.insertSale(t, vinyl, 1, sales.PaymentCard, base)

	filter := reports.Filter{}
	filter.ItemID = &tee.ID

	report, err := f.engine.BuildSalesReport(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Summary.Count)
	require.Len(t, report.TopItems, 1)
	assert.Equal(t, tee.ID, report.TopItems[0].ItemID)
}

// skewedRepo returns grouped totals that disagree with the raw scan.
type skewedRepo struct {
	reports.Repository
}

func (r *skewedRepo) Summarize(ctx context.Context, filter sales.Filter) (reports.Summary, error) {
	s, err := r.Repository.Summarize(ctx, filter)
	if err != nil {
		return s, err
	}
	s.Count++
	return s, nil
}

func TestBuildSalesReport_FailsClosedOnMismatch(t *testing.T) {
	store := memory.NewStore()
	items := memory.NewItemRepo(store)
	saleRepo := memory.NewSaleRepo(store)
	engine := reports.NewEngine(&skewedRepo{Repository: memory.NewReportRepo(store)}, saleRepo)

	ctx := context.Background()
	m := item.New("Tour Tee", "TEE-001", types.MustMoney("25.00"), id.New())
	require.NoError(t, items.Create(ctx, m))
	require.NoError(t, saleRepo.Insert(ctx, &sales.Sale{
		ID:            id.New(),
		ItemID:        m.ID,
		Quantity:      1,
		UnitPrice:     m.UnitPrice,
		PaymentMethod: sales.PaymentCash,
		BandID:        m.BandID,
		ActorID:       id.New(),
		Timestamp:     time.Now().UTC(),
	}))

	report, err := engine.BuildSalesReport(ctx, reports.Filter{})
	assert.Nil(t, report, "no partial report on reconciliation failure")
	assert.True(t, apperror.HasCode(err, apperror.CodeReportIntegrity))
}

func TestBuildSalesReport_BucketAutoSelection(t *testing.T) {
	f := newEngineFixture(t)
	tee := f.createItem(t, "Tour Tee", "TEE-001", "25.00")

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f.insertSale(t, tee, 1, sales.PaymentCash, from.Add(12*time.Hour))

	tests := []struct {
		name string
		span time.Duration
		want reports.Bucket
	}{
		{"ten days", 10 * 24 * time.Hour, reports.BucketDay},
		{"forty-five days", 45 * 24 * time.Hour, reports.BucketWeek},
		{"four months", 120 * 24 * time.Hour, reports.BucketMonth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			to := from.Add(tt.span)
			filter := reports.Filter{}
			filter.FromDate = &from
			filter.ToDate = &to

			report, err := f.engine.BuildSalesReport(context.Background(), filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.Bucket)
		})
	}
}

func TestBuildSalesReport_RejectsUnknownBucket(t *testing.T) {
	f := newEngineFixture(t)

	report, err := f.engine.BuildSalesReport(context.Background(), reports.Filter{Bucket: "hour"})
	assert.Nil(t, report)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestBuildSalesReport_PinnedBucket(t *testing.T) {
	f := newEngineFixture(t)
	tee := f.createItem(t, "Tour Tee", "TEE-001", "25.00")
	f.insertSale(t, tee, 1, sales.PaymentCash, time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC))

	report, err := f.engine.BuildSalesReport(context.Background(), reports.Filter{Bucket: reports.BucketMonth})
	require.NoError(t, err)
	assert.Equal(t, reports.BucketMonth, report.Bucket)
	require.Len(t, report.ByBucket, 1)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), report.ByBucket[0].BucketStart)
}

func TestTruncateToBucket(t *testing.T) {
	// Wednesday 2026-03-04 15:30 UTC.
	ts := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		reports.TruncateToBucket(ts, reports.BucketDay))

	// Weeks start on Monday.
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		reports.TruncateToBucket(ts, reports.BucketWeek))

	// Sunday folds into the preceding Monday's week.
	sunday := time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		reports.TruncateToBucket(sunday, reports.BucketWeek))

	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		reports.TruncateToBucket(ts, reports.BucketMonth))
}
