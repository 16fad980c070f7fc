package ports

import (
	"context"

	"github.com/bizquote/quotation-system/internal/core/domain"
)

// ListClientsFilter mirrors ListQuotationsFilter for the clients resource.
type ListClientsFilter struct {
	OwnerID string // empty = unscoped
	Search  string // partial match on name or company
	Active  *bool
	Page    int
	Limit   int
}

// ClientRepository defines persistence operations for clients.
type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) error
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context, filter ListClientsFilter) ([]*domain.Client, int64, error)
	Update(ctx context.Context, c *domain.Client) error
	// Deactivate soft-deletes: the row survives for referential history.
	Deactivate(ctx context.Context, id string) error
	// Delete removes the row outright; only legal while no quotation or
	// invoice references the client.
	Delete(ctx context.Context, id string) error
}
