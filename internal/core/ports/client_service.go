package ports

import (
	"context"

	"github.com/bizquote/quotation-system/internal/core/domain"
)

// CreateClientInput carries the data to register a counterparty.
type CreateClientInput struct {
	Name         string
	Email        string
	Phone        string
	Company      string
	Address      string
	CustomFields map[string]any
}

// UpdateClientInput carries partial client edits.
type UpdateClientInput struct {
	Name         *string
	Email        *string
	Phone        *string
	Company      *string
	Address      *string
	CustomFields map[string]any
}

// ListClientsInput is the caller-facing client list query.
type ListClientsInput struct {
	Search string
	Active *bool
	Page   int
	Limit  int
}

// ListClientsResult is a page of clients plus totals.
type ListClientsResult struct {
	Items      []*domain.Client
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ClientService defines client CRUD with the same scope rules as quotations.
type ClientService interface {
	Create(ctx context.Context, caller domain.Caller, in CreateClientInput) (*domain.Client, error)
	Get(ctx context.Context, caller domain.Caller, id string) (*domain.Client, error)
	List(ctx context.Context, caller domain.Caller, in ListClientsInput) (*ListClientsResult, error)
	Update(ctx context.Context, caller domain.Caller, id string, in UpdateClientInput) (*domain.Client, error)
	// Delete hard-deletes an unreferenced client and deactivates a
	// referenced one.
	Delete(ctx context.Context, caller domain.Caller, id string) error
}
