package dto

import (
	"time"

	"merchtable/internal/domain/reports"
)

// ReportSummaryResponse holds the reconciled scalars.
type ReportSummaryResponse struct {
	Count         int64  `json:"count"`
	TotalQuantity int64  `json:"totalQuantity"`
	TotalAmount   string `json:"totalAmount"`
}

// BucketRowResponse is one time-bucket group.
type BucketRowResponse struct {
	BucketStart   time.Time `json:"bucketStart"`
	Count         int64     `json:"count"`
	TotalQuantity int64     `json:"totalQuantity"`
	TotalAmount   string    `json:"totalAmount"`
}

// ItemRowResponse is one top-seller line.
type ItemRowResponse struct {
	ItemID        string `json:"itemId"`
	ItemName      string `json:"itemName"`
	ItemSKU       string `json:"itemSku"`
	Count         int64  `json:"count"`
	TotalQuantity int64  `json:"totalQuantity"`
	TotalAmount   string `json:"totalAmount"`
}

// PaymentRowResponse is one per-payment-method group.
type PaymentRowResponse struct {
	PaymentMethod string `json:"paymentMethod"`
	Count         int64  `json:"count"`
	TotalQuantity int64  `json:"totalQuantity"`
	TotalAmount   string `json:"totalAmount"`
}

// ReportResponse is the full reconciled sales report.
type ReportResponse struct {
	GeneratedAt time.Time  `json:"generatedAt"`
	FromDate    *time.Time `json:"fromDate,omitempty"`
	ToDate      *time.Time `json:"toDate,omitempty"`

	Bucket      string `json:"bucket"`
	IntegrityOK bool   `json:"integrityOk"`

	Summary ReportSummaryResponse `json:"summary"`

	ByBucket  []BucketRowResponse  `json:"byBucket"`
	TopItems  []ItemRowResponse    `json:"topItems"`
	ByPayment []PaymentRowResponse `json:"byPayment"`
}

// FromReport creates ReportResponse from the domain report.
func FromReport(r *reports.Report) ReportResponse {
	resp := ReportResponse{
		GeneratedAt: r.GeneratedAt,
		FromDate:    r.FromDate,
		ToDate:      r.ToDate,
		Bucket:      string(r.Bucket),
		IntegrityOK: r.IntegrityOK,
		Summary: ReportSummaryResponse{
			Count:         r.Summary.Count,
			TotalQuantity: r.Summary.TotalQuantity,
			TotalAmount:   r.Summary.TotalAmount.StringFixed(2),
		},
		ByBucket:  make([]BucketRowResponse, len(r.ByBucket)),
		TopItems:  make([]ItemRowResponse, len(r.TopItems)),
		ByPayment: make([]PaymentRowResponse, len(r.ByPayment)),
	}

	for i, b := range r.ByBucket {
		resp.ByBucket[i] = BucketRowResponse{
			BucketStart:   b.BucketStart,
			Count:         b.Count,
			TotalQuantity: b.TotalQuantity,
			TotalAmount:   b.TotalAmount.StringFixed(2),
		}
	}
	for i, it := range r.TopItems {
		resp.TopItems[i] = ItemRowResponse{
			ItemID:        it.ItemID.String(),
			ItemName:      it.ItemName,
			ItemSKU:       it.ItemSKU,
			Count:         it.Count,
			TotalQuantity: it.TotalQuantity,
			TotalAmount:   it.TotalAmount.StringFixed(2),
		}
	}
	for i, p := range r.ByPayment {
		resp.ByPayment[i] = PaymentRowResponse{
			PaymentMethod: string(p.PaymentMethod),
			Count:         p.Count,
			TotalQuantity: p.TotalQuantity,
			TotalAmount:   p.TotalAmount.StringFixed(2),
		}
	}

	return resp
}
