package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bizquote/quotation-system/internal/core/domain"
	"github.com/bizquote/quotation-system/internal/core/ports"
)

// InvoiceGenerator implements ports.InvoiceGenerator on top of the invoice
// store. It copies the quotation's committed amounts verbatim; nothing is
// recomputed at generation time.
type InvoiceGenerator struct {
	repo ports.InvoiceRepository
	now  func() time.Time
}

func NewInvoiceGenerator(repo ports.InvoiceRepository) *InvoiceGenerator {
	return &InvoiceGenerator{repo: repo, now: time.Now}
}

func (g *InvoiceGenerator) GenerateFromQuotation(ctx context.Context, q *domain.Quotation) (*domain.Invoice, error) {
	seq, err := g.repo.NextSequence(ctx)
	if err != nil {
		return nil, err
	}

	now := g.now().UTC()
	taxAmount := q.CombinedTaxAmount
	if q.DisplayTaxationType() == domain.TaxationLegacy {
		taxAmount = q.TaxAmount
	}

	inv := &domain.Invoice{
		ID:          uuid.NewString(),
		Number:      fmt.Sprintf("INV-%d-%06d", now.Year(), seq),
		QuotationID: q.ID,
		ClientID:    q.ClientID,
		OwnerID:     q.OwnerID,
		Subtotal:    q.Subtotal,
		TaxAmount:   taxAmount,
		TotalAmount: q.TotalAmount,
		IssuedAt:    now,
		CreatedAt:   now,
	}
	if err := g.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}
