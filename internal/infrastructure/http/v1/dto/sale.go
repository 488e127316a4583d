package dto

import (
	"time"

	"merchtable/internal/domain/sales"
)

// SaleResponse is one committed sale.
type SaleResponse struct {
	ID            string    `json:"id"`
	ItemID        string    `json:"itemId"`
	Quantity      int       `json:"quantity"`
	UnitPrice     string    `json:"unitPrice"`
	Total         string    `json:"total"`
	PaymentMethod string    `json:"paymentMethod"`
	BandID        string    `json:"bandId"`
	ShowID        *string   `json:"showId,omitempty"`
	SalesPageID   *string   `json:"salesPageId,omitempty"`
	ActorID       string    `json:"actorId"`
	Notes         string    `json:"notes,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// FromSale creates SaleResponse from the domain model.
func FromSale(s *sales.Sale) SaleResponse {
	resp := SaleResponse{
		ID:            s.ID.String(),
		ItemID:        s.ItemID.String(),
		Quantity:      s.Quantity,
		UnitPrice:     s.UnitPrice.StringFixed(2),
		Total:         s.Total().StringFixed(2),
		PaymentMethod: string(s.PaymentMethod),
		BandID:        s.BandID.String(),
		ActorID:       s.ActorID.String(),
		Notes:         s.Notes,
		Timestamp:     s.Timestamp,
	}
	if s.ShowID != nil {
		showID := s.ShowID.String()
		resp.ShowID = &showID
	}
	if s.SalesPageID != nil {
		pageID := s.SalesPageID.String()
		resp.SalesPageID = &pageID
	}
	return resp
}

// SaleListResponse wraps a sale slice.
type SaleListResponse struct {
	Items      []SaleResponse `json:"items"`
	TotalCount int            `json:"totalCount"`
}

// RecordSaleRequest for recording a single sale directly.
type RecordSaleRequest struct {
	ItemID        string `json:"itemId" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required"`
	UnitPrice     string `json:"unitPrice" binding:"required"`
	PaymentMethod string `json:"paymentMethod" binding:"required"`
	ShowID        string `json:"showId"`
	SalesPageID   string `json:"salesPageId"`
	Notes         string `json:"notes"`
}

// StageItemRequest adds a line to the staging session.
type StageItemRequest struct {
	ItemID   string `json:"itemId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

// UpdateStagedRequest replaces a staged quantity.
type UpdateStagedRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// SessionResponse is the current staging session state.
type SessionResponse struct {
	ActorID string             `json:"actorId"`
	Items   []sales.StagedItem `json:"items"`
}

// CommitSessionRequest commits every staged item.
type CommitSessionRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required"`
	ShowID        string `json:"showId"`
	Notes         string `json:"notes"`
}

// CommitResultResponse is the outcome for one staged line.
type CommitResultResponse struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
	SaleID   string `json:"saleId,omitempty"`
	Error    any    `json:"error,omitempty"`
}

// FromCommitResult creates CommitResultResponse from the recorder result.
func FromCommitResult(r sales.CommitResult) CommitResultResponse {
	resp := CommitResultResponse{
		ItemID:   r.ItemID.String(),
		Quantity: r.Quantity,
	}
	if r.Err != nil {
		resp.Error = errorBody(r.Err)
	} else {
		resp.SaleID = r.SaleID.String()
	}
	return resp
}

// CommitSessionResponse is the full batch outcome.
type CommitSessionResponse struct {
	Results   []CommitResultResponse `json:"results"`
	Committed int                    `json:"committed"`
	Failed    int                    `json:"failed"`
}
