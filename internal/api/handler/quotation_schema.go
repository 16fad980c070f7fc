package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// --- Request types ---
//
// Monetary fields travel as decimal strings ("250.55"); shopspring/decimal
// also accepts bare JSON numbers on the way in. Tax amounts are never part
// of a request: the service derives them.

type createQuotationRequest struct {
	Title         string          `json:"title"          validate:"required"`
	Description   string          `json:"description"`
	ClientID      string          `json:"client_id"      validate:"required"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxationType  string          `json:"taxation_type"  validate:"required,oneof=none gst pst both"`
	GSTPercentage decimal.Decimal `json:"gst_percentage"`
	PSTPercentage decimal.Decimal `json:"pst_percentage"`
	ValidUntil    *time.Time      `json:"valid_until"`
	FormData      map[string]any  `json:"form_data"`
}

type updateQuotationRequest struct {
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	ClientID      *string          `json:"client_id"`
	Subtotal      *decimal.Decimal `json:"subtotal"`
	TaxationType  *string          `json:"taxation_type"  validate:"omitempty,oneof=none gst pst both"`
	GSTPercentage *decimal.Decimal `json:"gst_percentage"`
	PSTPercentage *decimal.Decimal `json:"pst_percentage"`
	ValidUntil    *time.Time       `json:"valid_until"`
	FormData      map[string]any   `json:"form_data"`
}

type transitionRequest struct {
	Status string `json:"status" validate:"required,oneof=draft pending approved rejected"`
}

type bulkActionRequest struct {
	QuotationIDs []string `json:"quotation_ids" validate:"required"`
	Action       string   `json:"action"        validate:"required"`
}

// --- Response types ---
//
// Owned by the transport layer so the JSON contract is not coupled to
// internal service changes.

type quotationResponse struct {
	ID          string `json:"id"`
	Number      string `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	OwnerID     string `json:"owner_id"`
	ClientID    string `json:"client_id"`

	Subtotal          decimal.Decimal `json:"subtotal"`
	TaxationType      string          `json:"taxation_type"`
	GSTPercentage     decimal.Decimal `json:"gst_percentage"`
	PSTPercentage     decimal.Decimal `json:"pst_percentage"`
	GSTAmount         decimal.Decimal `json:"gst_amount"`
	PSTAmount         decimal.Decimal `json:"pst_amount"`
	CombinedTaxAmount decimal.Decimal `json:"combined_tax_amount"`
	TotalAmount       decimal.Decimal `json:"total_amount"`

	// Legacy flat pair, surfaced untouched for records predating the split.
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`

	Status      string         `json:"status"`
	ValidUntil  *time.Time     `json:"valid_until,omitempty"`
	FormData    map[string]any `json:"form_data,omitempty"`
	EmailSent   bool           `json:"email_sent"`
	EmailSentAt *time.Time     `json:"email_sent_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listQuotationsResponse struct {
	Data       []quotationResponse `json:"data"`
	Pagination paginationResponse  `json:"pagination"`
}

type sendResponse struct {
	Sent      bool   `json:"sent"`
	MessageID string `json:"message_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
}
