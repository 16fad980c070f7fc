package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bizquote/quotation-system/internal/core/domain"
	"github.com/bizquote/quotation-system/internal/core/ports"
)

const (
	collectionQuotations = "quotations"
	collectionCounters   = "counters"
)

type QuotationRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewQuotationRepository(db *mongo.Database) *QuotationRepository {
	return &QuotationRepository{
		col:      db.Collection(collectionQuotations),
		counters: db.Collection(collectionCounters),
	}
}

// quotationDoc is the persisted shape. Monetary values are stored as decimal
// strings so no binary float ever touches them.
type quotationDoc struct {
	ID          string `bson:"_id"`
	Number      string `bson:"number"`
	Title       string `bson:"title"`
	Description string `bson:"description,omitempty"`
	OwnerID     string `bson:"owner_id"`
	ClientID    string `bson:"client_id"`

	Subtotal          string `bson:"subtotal"`
	TaxationType      string `bson:"taxation_type"`
	GSTPercentage     string `bson:"gst_percentage"`
	PSTPercentage     string `bson:"pst_percentage"`
	GSTAmount         string `bson:"gst_amount"`
	PSTAmount         string `bson:"pst_amount"`
	CombinedTaxAmount string `bson:"combined_tax_amount"`
	TotalAmount       string `bson:"total_amount"`
	TaxPercentage     string `bson:"tax_percentage"`
	TaxAmount         string `bson:"tax_amount"`

	Status      string         `bson:"status"`
	ValidUntil  *time.Time     `bson:"valid_until,omitempty"`
	FormData    map[string]any `bson:"form_data,omitempty"`
	EmailSent   bool           `bson:"email_sent"`
	EmailSentAt *time.Time     `bson:"email_sent_at,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toQuotationDoc(q *domain.Quotation) quotationDoc {
	return quotationDoc{
		ID:          q.ID,
		Number:      q.Number,
		Title:       q.Title,
		Description: q.Description,
		OwnerID:     q.OwnerID,
		ClientID:    q.ClientID,

		Subtotal:          q.Subtotal.String(),
		TaxationType:      string(q.TaxationType),
		GSTPercentage:     q.GSTPercentage.String(),
		PSTPercentage:     q.PSTPercentage.String(),
		GSTAmount:         q.GSTAmount.String(),
		PSTAmount:         q.PSTAmount.String(),
		CombinedTaxAmount: q.CombinedTaxAmount.String(),
		TotalAmount:       q.TotalAmount.String(),
		TaxPercentage:     q.TaxPercentage.String(),
		TaxAmount:         q.TaxAmount.String(),

		Status:      string(q.Status),
		ValidUntil:  q.ValidUntil,
		FormData:    q.FormData,
		EmailSent:   q.EmailSent,
		EmailSentAt: q.EmailSentAt,

		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}

func (d quotationDoc) toDomain() (*domain.Quotation, error) {
	q := &domain.Quotation{
		ID:          d.ID,
		Number:      d.Number,
		Title:       d.Title,
		Description: d.Description,
		OwnerID:     d.OwnerID,
		ClientID:    d.ClientID,

		TaxationType: domain.TaxationType(d.TaxationType),
		Status:       domain.QuotationStatus(d.Status),
		ValidUntil:   d.ValidUntil,
		FormData:     d.FormData,
		EmailSent:    d.EmailSent,
		EmailSentAt:  d.EmailSentAt,

		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}

	fields := []struct {
		raw string
		dst *decimal.Decimal
	}{
		{d.Subtotal, &q.Subtotal},
		{d.GSTPercentage, &q.GSTPercentage},
		{d.PSTPercentage, &q.PSTPercentage},
		{d.GSTAmount, &q.GSTAmount},
		{d.PSTAmount, &q.PSTAmount},
		{d.CombinedTaxAmount, &q.CombinedTaxAmount},
		{d.TotalAmount, &q.TotalAmount},
		{d.TaxPercentage, &q.TaxPercentage},
		{d.TaxAmount, &q.TaxAmount},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		v, err := decimal.NewFromString(f.raw)
		if err != nil {
			return nil, fmt.Errorf("decode quotation %s: bad decimal %q: %w", d.ID, f.raw, err)
		}
		*f.dst = v
	}

	return q, nil
}

func (r *QuotationRepository) Create(ctx context.Context, q *domain.Quotation) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, toQuotationDoc(q))
	return err
}

func (r *QuotationRepository) FindByID(ctx context.Context, id string) (*domain.Quotation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc quotationDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrQuotationNotFound
		}
		return nil, err
	}
	return doc.toDomain()
}

func (r *QuotationRepository) List(ctx context.Context, f ports.ListQuotationsFilter) ([]*domain.Quotation, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.OwnerID != "" {
		filter["owner_id"] = f.OwnerID
	}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: f.Search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"number": re},
			bson.M{"title": re},
		}
	}
	created := bson.M{}
	if !f.DateFrom.IsZero() {
		created["$gte"] = f.DateFrom
	}
	if !f.DateTo.IsZero() {
		created["$lte"] = f.DateTo
	}
	if len(created) > 0 {
		filter["created_at"] = created
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var items []*domain.Quotation
	for cur.Next(ctx) {
		var doc quotationDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		q, err := doc.toDomain()
		if err != nil {
			return nil, 0, err
		}
		items = append(items, q)
	}
	return items, total, cur.Err()
}

// Update replaces the record's content. The predicate includes the status the
// caller read, so a concurrent transition makes this write miss and surfaces
// as ErrConcurrentModification rather than silently clobbering.
func (r *QuotationRepository) Update(ctx context.Context, q *domain.Quotation, expectedStatus domain.QuotationStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx,
		bson.M{"_id": q.ID, "status": string(expectedStatus)},
		toQuotationDoc(q))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.missReason(ctx, q.ID)
	}
	return nil
}

// UpdateStatus applies the optimistic status write in a single
// FindOneAndUpdate whose filter carries the expected prior status.
func (r *QuotationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.QuotationStatus, at time.Time) (*domain.Quotation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc quotationDoc
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to), "updated_at": at}},
		opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.missReason(ctx, id)
		}
		return nil, err
	}
	return doc.toDomain()
}

// missReason disambiguates a failed predicate write: the row either vanished
// or its status moved underneath the caller.
func (r *QuotationRepository) missReason(ctx context.Context, id string) error {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrQuotationNotFound
	}
	return domain.ErrConcurrentModification
}

func (r *QuotationRepository) MarkEmailSent(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"email_sent": true, "email_sent_at": at}})
	return err
}

func (r *QuotationRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrQuotationNotFound
	}
	return nil
}

func (r *QuotationRepository) CountByClientID(ctx context.Context, clientID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"client_id": clientID})
}

// NextSequence atomically increments the quotation number counter.
func (r *QuotationRepository) NextSequence(ctx context.Context) (int64, error) {
	return nextSequence(ctx, r.counters, "quotations")
}

type counterDoc struct {
	Seq int64 `bson:"seq"`
}

func nextSequence(ctx context.Context, counters *mongo.Collection, name string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc counterDoc
	err := counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", name, err)
	}
	return doc.Seq, nil
}

// EnsureIndexes creates necessary indexes on the quotations collection.
func (r *QuotationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "client_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
