package ports

import (
	"context"
	"time"

	"github.com/bizquote/quotation-system/internal/core/domain"
)

// ListQuotationsFilter carries all query parameters for listing quotations.
// OwnerID is set by the service layer from the caller's access scope, never
// by the transport.
type ListQuotationsFilter struct {
	OwnerID  string // empty = unscoped (caller holds read_all)
	ClientID string
	Status   string
	Search   string // partial match on number or title
	DateFrom time.Time
	DateTo   time.Time
	Page     int // 1-based
	Limit    int // capped by the service
}

// QuotationRepository defines persistence operations for quotations.
type QuotationRepository interface {
	Create(ctx context.Context, q *domain.Quotation) error

	// FindByID retrieves a quotation without any owner filter. Scope checks
	// are the service layer's job so that forbidden and not-found stay
	// distinguishable.
	FindByID(ctx context.Context, id string) (*domain.Quotation, error)

	List(ctx context.Context, filter ListQuotationsFilter) ([]*domain.Quotation, int64, error)

	// Update replaces the record's content fields. The write predicate
	// includes expectedStatus; when the row exists but its status changed
	// since the read, ErrConcurrentModification is returned.
	Update(ctx context.Context, q *domain.Quotation, expectedStatus domain.QuotationStatus) error

	// UpdateStatus performs the optimistic status write: the predicate
	// matches both id and the expected prior status. A losing writer gets
	// ErrConcurrentModification and must re-read. Returns the updated record.
	UpdateStatus(ctx context.Context, id string, from, to domain.QuotationStatus, at time.Time) (*domain.Quotation, error)

	// MarkEmailSent flips the email_sent flag and timestamp. Best-effort
	// bookkeeping after a successful notification.
	MarkEmailSent(ctx context.Context, id string, at time.Time) error

	Delete(ctx context.Context, id string) error

	// CountByClientID reports how many quotations reference a client; used
	// to decide between hard delete and deactivation of the client.
	CountByClientID(ctx context.Context, clientID string) (int64, error)

	// NextSequence atomically increments and returns the quotation number
	// counter.
	NextSequence(ctx context.Context) (int64, error)
}
