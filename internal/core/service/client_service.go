package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bizquote/quotation-system/internal/core/domain"
	"github.com/bizquote/quotation-system/internal/core/ports"
)

// ClientService implements ports.ClientService with the same explicit-caller
// scope rules as the quotation workflow.
type ClientService struct {
	repo       ports.ClientRepository
	quotations ports.QuotationRepository
	logger     zerolog.Logger
}

func NewClientService(repo ports.ClientRepository, quotations ports.QuotationRepository, logger zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, quotations: quotations, logger: logger}
}

func (s *ClientService) Create(ctx context.Context, caller domain.Caller, in ports.CreateClientInput) (*domain.Client, error) {
	if !domain.Resolve(caller.Role).Has(domain.ResourceClients, domain.ActionCreate) {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	c := &domain.Client{
		ID:           uuid.NewString(),
		OwnerID:      caller.ID,
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Company:      in.Company,
		Address:      in.Address,
		CustomFields: in.CustomFields,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info().Str("client_id", c.ID).Str("owner_id", caller.ID).Msg("client created")
	return c, nil
}

func (s *ClientService) Get(ctx context.Context, caller domain.Caller, id string) (*domain.Client, error) {
	return s.loadScoped(ctx, caller, id, domain.ActionRead)
}

func (s *ClientService) List(ctx context.Context, caller domain.Caller, in ports.ListClientsInput) (*ports.ListClientsResult, error) {
	if !domain.Resolve(caller.Role).Has(domain.ResourceClients, domain.ActionRead) {
		return nil, domain.ErrForbidden
	}

	filter := ports.ListClientsFilter{
		Search: in.Search,
		Active: in.Active,
		Page:   normalizePage(in.Page),
		Limit:  normalizeLimit(in.Limit),
	}
	if domain.ScopeFor(caller, domain.ResourceClients).FilterByOwner {
		filter.OwnerID = caller.ID
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.ListClientsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *ClientService) Update(ctx context.Context, caller domain.Caller, id string, in ports.UpdateClientInput) (*domain.Client, error) {
	c, err := s.loadScoped(ctx, caller, id, domain.ActionUpdate)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Company != nil {
		c.Company = *in.Company
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.CustomFields != nil {
		c.CustomFields = in.CustomFields
	}
	c.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete hard-deletes a client only while nothing references it; once
// quotations exist the client is deactivated so referential history
// survives.
func (s *ClientService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	c, err := s.loadScoped(ctx, caller, id, domain.ActionDelete)
	if err != nil {
		return err
	}

	refs, err := s.quotations.CountByClientID(ctx, c.ID)
	if err != nil {
		return err
	}
	if refs > 0 {
		if err := s.repo.Deactivate(ctx, c.ID); err != nil {
			return err
		}
		s.logger.Info().Str("client_id", c.ID).Int64("quotations", refs).Msg("client deactivated, history retained")
		return nil
	}

	if err := s.repo.Delete(ctx, c.ID); err != nil {
		return err
	}
	s.logger.Info().Str("client_id", c.ID).Msg("client deleted")
	return nil
}

func (s *ClientService) loadScoped(ctx context.Context, caller domain.Caller, id string, action domain.Action) (*domain.Client, error) {
	if !domain.Resolve(caller.Role).Has(domain.ResourceClients, action) {
		return nil, domain.ErrForbidden
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccessRecord(caller, domain.ResourceClients, c.OwnerID) {
		return nil, domain.ErrForbidden
	}
	return c, nil
}
