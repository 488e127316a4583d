// Package export serializes reports and ledger slices to delimited text.
// The core exposes a stable ordered row shape; callers decide where the
// bytes go — this package never opens files itself.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"merchtable/internal/core/apperror"
	"merchtable/internal/domain/ledger"
	"merchtable/internal/domain/reports"
	"merchtable/internal/domain/sales"
)

// Rows is the stable in-memory shape an adapter serializes: a header and
// ordered records, every cell already rendered to text.
type Rows struct {
	Header  []string
	Records [][]string
}

// ReportRows flattens a finished report into export rows, one record per
// top-seller line. A report that failed reconciliation is refused.
func ReportRows(r *reports.Report) (Rows, error) {
	if r == nil || !r.IntegrityOK {
		return Rows{}, apperror.NewReportIntegrity("refusing to export an unreconciled report")
	}

	rows := Rows{
		Header: []string{"item_id", "item_name", "item_sku", "sales", "quantity", "amount"},
	}
	for _, it := range r.TopItems {
		rows.Records = append(rows.Records, []string{
			it.ItemID.String(),
			it.ItemName,
			it.ItemSKU,
			strconv.FormatInt(it.Count, 10),
			strconv.FormatInt(it.TotalQuantity, 10),
			it.TotalAmount.StringFixed(2),
		})
	}
	return rows, nil
}

// SaleRows flattens raw sale records into export rows.
func SaleRows(list []*sales.Sale) Rows {
	rows := Rows{
		Header: []string{"id", "timestamp", "item_id", "quantity", "unit_price", "amount", "payment_method", "show_id", "notes"},
	}
	for _, s := range list {
		showID := ""
		if s.ShowID != nil {
			showID = s.ShowID.String()
		}
		rows.Records = append(rows.Records, []string{
			s.ID.String(),
			s.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
			s.ItemID.String(),
			strconv.Itoa(s.Quantity),
			s.UnitPrice.StringFixed(2),
			s.Total().StringFixed(2),
			string(s.PaymentMethod),
			showID,
			s.Notes,
		})
	}
	return rows
}

// LedgerRows flattens a stock log slice into export rows.
func LedgerRows(entries []*ledger.Entry) Rows {
	rows := Rows{
		Header: []string{"id", "timestamp", "item_id", "previous_stock", "new_stock", "delta", "reason", "actor_id", "notes"},
	}
	for _, e := range entries {
		rows.Records = append(rows.Records, []string{
			e.ID.String(),
			e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			e.ItemID.String(),
			strconv.Itoa(e.PreviousStock),
			strconv.Itoa(e.NewStock),
			strconv.Itoa(e.Delta()),
			string(e.Reason),
			e.ActorID.String(),
			e.Notes,
		})
	}
	return rows
}

// WriteCSV writes rows as RFC 4180 CSV.
func WriteCSV(w io.Writer, rows Rows) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rows.Header); err != nil {
		return err
	}
	for _, record := range rows.Records {
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
