package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchtable/internal/core/apperror"
	"merchtable/internal/core/id"
	"merchtable/internal/core/types"
	"merchtable/internal/domain/ledger"
	"merchtable/internal/domain/reports"
	"merchtable/internal/domain/sales"
	"merchtable/internal/export"
)

func TestReportRows(t *testing.T) {
	itemID := id.New()
	report := &reports.Report{
		IntegrityOK: true,
		TopItems: []reports.ItemRow{
			{
				ItemID:        itemID,
				ItemName:      "Tour Tee",
				ItemSKU:       "TEE-001",
				Count:         3,
				TotalQuantity: 5,
				TotalAmount:   types.MustMoney("125.00"),
			},
		},
	}

	rows, err := export.ReportRows(report)
	require.NoError(t, err)
	assert.Equal(t, []string{"item_id", "item_name", "item_sku", "sales", "quantity", "amount"}, rows.Header)
	require.Len(t, rows.Records, 1)
	assert.Equal(t, []string{itemID.String(), "Tour Tee", "TEE-001", "3", "5", "125.00"}, rows.Records[0])
}

func TestReportRows_RefusesUnreconciled(t *testing.T) {
	_, err := export.ReportRows(nil)
	assert.True(t, apperror.HasCode(err, apperror.CodeReportIntegrity))

	_, err = export.ReportRows(&reports.Report{IntegrityOK: false})
	assert.True(t, apperror.HasCode(err, apperror.CodeReportIntegrity))
}

func TestSaleRows(t *testing.T) {
	sale := &sales.Sale{
		ID:            id.New(),
		ItemID:        id.New(),
		Quantity:      2,
		UnitPrice:     types.MustMoney("25.00"),
		PaymentMethod: sales.PaymentCard,
		Timestamp:     time.Date(2026, 6, 1, 19, 30, 0, 0, time.UTC),
		Notes:         "encore rush",
	}

	rows := export.SaleRows([]*sales.Sale{sale})
	require.Len(t, rows.Records, 1)
	rec := rows.Records[0]
	assert.Equal(t, "2026-06-01T19:30:00Z", rec[1])
	assert.Equal(t, "2", rec[3])
	assert.Equal(t, "25.00", rec[4])
	assert.Equal(t, "50.00", rec[5])
	assert.Equal(t, "card", rec[6])
	assert.Equal(t, "", rec[7], "no show id")
	assert.Equal(t, "encore rush", rec[8])
}

func TestLedgerRows(t *testing.T) {
	entry := &ledger.Entry{
		ID:            id.New(),
		ItemID:        id.New(),
		PreviousStock: 10,
		NewStock:      7,
		Reason:        ledger.ReasonSale,
		ActorID:       id.New(),
		CreatedAt:     time.Date(2026, 6, 1, 19, 30, 0, 0, time.UTC),
	}

	rows := export.LedgerRows([]*ledger.Entry{entry})
	require.Len(t, rows.Records, 1)
	rec := rows.Records[0]
	assert.Equal(t, "10", rec[3])
	assert.Equal(t, "7", rec[4])
	assert.Equal(t, "-3", rec[5])
	assert.Equal(t, "sale", rec[6])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := export.WriteCSV(&buf, export.Rows{
		Header:  []string{"a", "b"},
		Records: [][]string{{"1", "with, comma"}, {"2", "plain"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,\"with, comma\"\n2,plain\n", buf.String())
}
