package ports

import (
	"context"

	"github.com/bizquote/quotation-system/internal/core/domain"
)

// InvoiceRepository defines persistence for generated invoices. The workflow
// core only inserts (through the generator) and lists; invoices are never
// mutated here.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	FindByQuotationID(ctx context.Context, quotationID string) ([]*domain.Invoice, error)
	NextSequence(ctx context.Context) (int64, error)
}
