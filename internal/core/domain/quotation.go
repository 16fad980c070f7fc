package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuotationStatus represents the lifecycle state of a quotation.
type QuotationStatus string

const (
	StatusDraft    QuotationStatus = "draft"
	StatusPending  QuotationStatus = "pending"
	StatusApproved QuotationStatus = "approved"
	StatusRejected QuotationStatus = "rejected"
	// StatusExpired is passive: it is entered only by an external time-based
	// process comparing valid_until to the current date, never through
	// CanTransitionTo.
	StatusExpired QuotationStatus = "expired"
)

// Valid reports whether s is a known status.
func (s QuotationStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// validTransitions defines the allowed state machine edges. Approved is
// absorbing: it has no outgoing edges and the record becomes immutable.
var validTransitions = map[QuotationStatus][]QuotationStatus{
	StatusDraft:    {StatusPending},
	StatusPending:  {StatusApproved, StatusRejected, StatusDraft},
	StatusRejected: {StatusPending, StatusDraft},
	StatusExpired:  {StatusDraft},
}

// CanTransitionTo reports whether a transition from s to next is legal.
func (s QuotationStatus) CanTransitionTo(next QuotationStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Quotation is the core aggregate root.
//
// The record keeps both the split GST/PST fields and the legacy flat
// TaxPercentage/TaxAmount pair simultaneously. That redundancy is deliberate:
// records predating the GST/PST split stay readable without migration.
type Quotation struct {
	ID          string `json:"id"`
	Number      string `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	OwnerID     string `json:"owner_id"`
	ClientID    string `json:"client_id"`

	Subtotal          decimal.Decimal `json:"subtotal"`
	TaxationType      TaxationType    `json:"taxation_type"`
	GSTPercentage     decimal.Decimal `json:"gst_percentage"`
	PSTPercentage     decimal.Decimal `json:"pst_percentage"`
	GSTAmount         decimal.Decimal `json:"gst_amount"`
	PSTAmount         decimal.Decimal `json:"pst_amount"`
	CombinedTaxAmount decimal.Decimal `json:"combined_tax_amount"`
	TotalAmount       decimal.Decimal `json:"total_amount"`

	// Legacy flat tax pair, kept for records predating the GST/PST split.
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`

	Status      QuotationStatus `json:"status"`
	ValidUntil  *time.Time      `json:"valid_until,omitempty"`
	FormData    map[string]any  `json:"form_data,omitempty"`
	EmailSent   bool            `json:"email_sent"`
	EmailSentAt *time.Time      `json:"email_sent_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayTaxationType resolves which taxation model the record is shown
// under. The split fields always take priority over the legacy pair; only a
// record with nothing but the flat pair resolves to legacy. This is a display
// concern: legacy records are never re-derived automatically.
func (q *Quotation) DisplayTaxationType() TaxationType {
	if q.TaxationType.Computable() {
		return q.TaxationType
	}
	gstSet := !q.GSTPercentage.IsZero() || !q.GSTAmount.IsZero()
	pstSet := !q.PSTPercentage.IsZero() || !q.PSTAmount.IsZero()
	switch {
	case gstSet && pstSet:
		return TaxationBoth
	case gstSet:
		return TaxationGST
	case pstSet:
		return TaxationPST
	case !q.TaxPercentage.IsZero() || !q.TaxAmount.IsZero():
		return TaxationLegacy
	}
	return TaxationNone
}

// ApplyTax writes a computed breakdown onto the record.
func (q *Quotation) ApplyTax(b TaxBreakdown) {
	q.GSTAmount = b.GSTAmount
	q.PSTAmount = b.PSTAmount
	q.CombinedTaxAmount = b.CombinedTaxAmount
	q.TotalAmount = b.TotalAmount
}
