// Package reports provides the sales aggregation engine. Reports are
// derived, never persisted, and recomputed on demand; every report is
// reconciled against an independent full-scan before it is released.
package reports

import (
	"time"

	"merchtable/internal/core/id"
	"merchtable/internal/core/types"
	"merchtable/internal/domain/sales"
)

// Bucket is the time grouping granularity.
type Bucket string

const (
	BucketDay   Bucket = "day"
	BucketWeek  Bucket = "week"
	BucketMonth Bucket = "month"

	// BucketAuto picks the granularity from the date span:
	// up to 31 days daily, up to 90 days weekly, otherwise monthly.
	BucketAuto Bucket = ""
)

// Filter selects the sales a report covers. Pagination on the embedded
// sales filter is ignored: a report always covers the full row set.
type Filter struct {
	sales.Filter

	// Bucket pins the time grouping; BucketAuto selects from the span.
	Bucket Bucket
}

// Summary holds the three reconciled scalars.
type Summary struct {
	Count         int64       `json:"count"`
	TotalQuantity int64       `json:"totalQuantity"`
	TotalAmount   types.Money `json:"totalAmount"`
}

// BucketRow is one time-bucket group.
type BucketRow struct {
	BucketStart   time.Time   `db:"bucket_start" json:"bucketStart"`
	Count         int64       `db:"count" json:"count"`
	TotalQuantity int64       `db:"total_quantity" json:"totalQuantity"`
	TotalAmount   types.Money `db:"total_amount" json:"totalAmount"`
}

// ItemRow is one per-item group (top sellers).
type ItemRow struct {
	ItemID        id.ID       `db:"item_id" json:"itemId"`
	ItemName      string      `db:"item_name" json:"itemName"`
	ItemSKU       string      `db:"item_sku" json:"itemSku"`
	Count         int64       `db:"count" json:"count"`
	TotalQuantity int64       `db:"total_quantity" json:"totalQuantity"`
	TotalAmount   types.Money `db:"total_amount" json:"totalAmount"`
}

// PaymentRow is one per-payment-method group.
type PaymentRow struct {
	PaymentMethod sales.PaymentMethod `db:"payment_method" json:"paymentMethod"`
	Count         int64               `db:"count" json:"count"`
	TotalQuantity int64               `db:"total_quantity" json:"totalQuantity"`
	TotalAmount   types.Money         `db:"total_amount" json:"totalAmount"`
}

// Report is the reconciled sales report. IntegrityOK is true for every
// report the engine returns; a failed reconciliation surfaces as an error
// and no report.
type Report struct {
	GeneratedAt time.Time  `json:"generatedAt"`
	FromDate    *time.Time `json:"fromDate,omitempty"`
	ToDate      *time.Time `json:"toDate,omitempty"`

	Bucket      Bucket `json:"bucket"`
	IntegrityOK bool   `json:"integrityOk"`

	Summary Summary `json:"summary"`

	ByBucket  []BucketRow  `json:"byBucket"`
	TopItems  []ItemRow    `json:"topItems"`
	ByPayment []PaymentRow `json:"byPayment"`
}
