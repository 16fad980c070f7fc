package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bizquote/quotation-system/internal/core/domain"
)

// CreateQuotationInput carries all data needed to create a quotation. Tax
// amounts are never accepted from the outside; they are derived.
type CreateQuotationInput struct {
	Title         string
	Description   string
	ClientID      string
	Subtotal      decimal.Decimal
	TaxationType  domain.TaxationType
	GSTPercentage decimal.Decimal
	PSTPercentage decimal.Decimal
	ValidUntil    *time.Time
	FormData      map[string]any
}

// UpdateQuotationInput carries content edits. Nil pointers mean "leave
// unchanged"; when any of Subtotal/TaxationType/percentages changes, the tax
// breakdown is recomputed.
type UpdateQuotationInput struct {
	Title         *string
	Description   *string
	ClientID      *string
	Subtotal      *decimal.Decimal
	TaxationType  *domain.TaxationType
	GSTPercentage *decimal.Decimal
	PSTPercentage *decimal.Decimal
	ValidUntil    *time.Time
	FormData      map[string]any
}

// ListQuotationsInput is the caller-facing list query; the service applies
// the access scope before handing it to the repository.
type ListQuotationsInput struct {
	Status   string
	ClientID string
	Search   string
	DateFrom time.Time
	DateTo   time.Time
	Page     int
	Limit    int
}

// ListQuotationsResult is a page of quotations plus pagination totals.
type ListQuotationsResult struct {
	Items      []*domain.Quotation
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// BulkAction enumerates the cross-cutting batch operations.
type BulkAction string

const (
	BulkApprove BulkAction = "approve"
	BulkReject  BulkAction = "reject"
	BulkDelete  BulkAction = "delete"
)

// BulkActionInput is a batch request over quotation ids.
type BulkActionInput struct {
	QuotationIDs []string
	Action       BulkAction
}

// BulkFailure records a single id that could not be processed and why.
type BulkFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// EmailSummary counts notification outcomes independently of the underlying
// state changes. Only populated for approve batches.
type EmailSummary struct {
	EmailsSent   int `json:"emails_sent"`
	EmailsFailed int `json:"emails_failed"`
}

// BulkResult aggregates per-id outcomes: succeeded ∪ failed covers exactly
// the input ids with no overlap. Partial failure is a normal result, never
// an error.
type BulkResult struct {
	SucceededIDs []string      `json:"succeeded_ids"`
	Failed       []BulkFailure `json:"failed"`
	EmailSummary *EmailSummary `json:"email_summary,omitempty"`
}

// SendSuppressedReason is the Reason reported when the dedup window
// swallowed a repeat delivery.
const SendSuppressedReason = "recently sent, delivery suppressed"

// SendResult reports a single-quotation send outcome.
type SendResult struct {
	Sent      bool
	MessageID string
	Reason    string
}

// QuotationService defines the use-case operations of the workflow engine.
// Every method receives the caller explicitly and applies scope, permission
// and state machine checks before touching the store.
type QuotationService interface {
	Create(ctx context.Context, caller domain.Caller, in CreateQuotationInput) (*domain.Quotation, error)
	Get(ctx context.Context, caller domain.Caller, id string) (*domain.Quotation, error)
	List(ctx context.Context, caller domain.Caller, in ListQuotationsInput) (*ListQuotationsResult, error)
	Update(ctx context.Context, caller domain.Caller, id string, in UpdateQuotationInput) (*domain.Quotation, error)
	Delete(ctx context.Context, caller domain.Caller, id string) error
	Duplicate(ctx context.Context, caller domain.Caller, id string) (*domain.Quotation, error)

	// Transition validates and applies a single status change. The
	// pending→approved edge, and only that edge, triggers invoice generation
	// and a client notification.
	Transition(ctx context.Context, caller domain.Caller, id string, target domain.QuotationStatus) (*domain.Quotation, error)

	// ExecuteBulk fans a batch of transitions or deletes across many records
	// with continue-on-error semantics.
	ExecuteBulk(ctx context.Context, caller domain.Caller, in BulkActionInput) (*BulkResult, error)

	// Send renders the quotation and delivers it to the client's address.
	Send(ctx context.Context, caller domain.Caller, id string) (*SendResult, error)

	// RenderPDF returns the rendered document for download.
	RenderPDF(ctx context.Context, caller domain.Caller, id string) ([]byte, error)

	// ExportCSV writes the caller's scoped quotation list as CSV.
	ExportCSV(ctx context.Context, caller domain.Caller, in ListQuotationsInput) ([]byte, error)
}
