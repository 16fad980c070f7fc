package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bizquote/quotation-system/internal/core/domain"
)

const collectionInvoices = "invoices"

type InvoiceRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewInvoiceRepository(db *mongo.Database) *InvoiceRepository {
	return &InvoiceRepository{
		col:      db.Collection(collectionInvoices),
		counters: db.Collection(collectionCounters),
	}
}

type invoiceDoc struct {
	ID          string    `bson:"_id"`
	Number      string    `bson:"number"`
	QuotationID string    `bson:"quotation_id"`
	ClientID    string    `bson:"client_id"`
	OwnerID     string    `bson:"owner_id"`
	Subtotal    string    `bson:"subtotal"`
	TaxAmount   string    `bson:"tax_amount"`
	TotalAmount string    `bson:"total_amount"`
	IssuedAt    time.Time `bson:"issued_at"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, invoiceDoc{
		ID:          inv.ID,
		Number:      inv.Number,
		QuotationID: inv.QuotationID,
		ClientID:    inv.ClientID,
		OwnerID:     inv.OwnerID,
		Subtotal:    inv.Subtotal.String(),
		TaxAmount:   inv.TaxAmount.String(),
		TotalAmount: inv.TotalAmount.String(),
		IssuedAt:    inv.IssuedAt,
		CreatedAt:   inv.CreatedAt,
	})
	return err
}

func (r *InvoiceRepository) FindByQuotationID(ctx context.Context, quotationID string) ([]*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"quotation_id": quotationID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []*domain.Invoice
	for cur.Next(ctx) {
		var doc invoiceDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		inv, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, inv)
	}
	return items, cur.Err()
}

func (d invoiceDoc) toDomain() (*domain.Invoice, error) {
	inv := &domain.Invoice{
		ID:          d.ID,
		Number:      d.Number,
		QuotationID: d.QuotationID,
		ClientID:    d.ClientID,
		OwnerID:     d.OwnerID,
		IssuedAt:    d.IssuedAt,
		CreatedAt:   d.CreatedAt,
	}

	var err error
	if inv.Subtotal, err = decimal.NewFromString(d.Subtotal); err != nil {
		return nil, fmt.Errorf("decode invoice %s: bad subtotal %q: %w", d.ID, d.Subtotal, err)
	}
	if inv.TaxAmount, err = decimal.NewFromString(d.TaxAmount); err != nil {
		return nil, fmt.Errorf("decode invoice %s: bad tax amount %q: %w", d.ID, d.TaxAmount, err)
	}
	if inv.TotalAmount, err = decimal.NewFromString(d.TotalAmount); err != nil {
		return nil, fmt.Errorf("decode invoice %s: bad total %q: %w", d.ID, d.TotalAmount, err)
	}
	return inv, nil
}

func (r *InvoiceRepository) NextSequence(ctx context.Context) (int64, error) {
	return nextSequence(ctx, r.counters, "invoices")
}

// EnsureIndexes creates necessary indexes on the invoices collection.
func (r *InvoiceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "quotation_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
