package ports

import (
	"context"
	"time"

	"github.com/bizquote/quotation-system/internal/core/domain"
)

// NotificationInput describes one outbound client-facing message.
type NotificationInput struct {
	Recipient      string
	Subject        string
	TemplateKey    string
	Variables      map[string]string
	Attachment     []byte
	AttachmentName string
}

// NotificationResult is the normal (never thrown) outcome of a send attempt.
type NotificationResult struct {
	Success   bool
	MessageID string
	Reason    string
}

// Notifier delivers rendered documents to external recipients. Send must
// never return an error: delivery failure is a reported outcome, consumed by
// the bulk processor's email summary, and never reverts a committed state
// transition.
type Notifier interface {
	Send(ctx context.Context, in NotificationInput) NotificationResult
}

// DocumentRenderer turns a quotation record into a paginated document. The
// core passes the bytes through without inspecting them.
type DocumentRenderer interface {
	Render(ctx context.Context, q *domain.Quotation, client *domain.Client, issuer *domain.User, profile domain.CompanyProfile) ([]byte, error)
}

// InvoiceGenerator creates an invoice from a quotation on the
// pending→approved edge. The core fires it on that edge only.
type InvoiceGenerator interface {
	GenerateFromQuotation(ctx context.Context, q *domain.Quotation) (*domain.Invoice, error)
}

// SendDeduper suppresses repeat deliveries of the same notification within a
// TTL window (backed by Redis).
type SendDeduper interface {
	AlreadySent(ctx context.Context, quotationID, kind string) (bool, error)
	MarkSent(ctx context.Context, quotationID, kind string, at time.Time) error
}
