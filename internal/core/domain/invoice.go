package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is generated from an approved quotation. This core only creates it
// through the generation collaborator on the pending→approved edge; it never
// mutates one afterwards. An approved quotation may carry zero or more.
type Invoice struct {
	ID          string          `json:"id"`
	Number      string          `json:"number"`
	QuotationID string          `json:"quotation_id"`
	ClientID    string          `json:"client_id"`
	OwnerID     string          `json:"owner_id"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	IssuedAt    time.Time       `json:"issued_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CompanyProfile is the issuer identity stamped onto rendered documents.
type CompanyProfile struct {
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	GSTNumber string `json:"gst_number,omitempty"`
	PSTNumber string `json:"pst_number,omitempty"`
}
