package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bizquote/quotation-system/internal/core/domain"
	"github.com/bizquote/quotation-system/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// QuotationService implements ports.QuotationService. Every operation takes
// the caller explicitly and applies permission, scope and state machine
// checks in that order before touching the store.
type QuotationService struct {
	repo     ports.QuotationRepository
	clients  ports.ClientRepository
	users    ports.AuthRepository
	renderer ports.DocumentRenderer
	notifier ports.Notifier
	invoices ports.InvoiceGenerator
	dedup    ports.SendDeduper
	profile  domain.CompanyProfile
	logger   zerolog.Logger
	now      func() time.Time
}

// Deps bundles the collaborators a QuotationService needs.
type Deps struct {
	Quotations ports.QuotationRepository
	Clients    ports.ClientRepository
	Users      ports.AuthRepository
	Renderer   ports.DocumentRenderer
	Notifier   ports.Notifier
	Invoices   ports.InvoiceGenerator
	SendDedup  ports.SendDeduper
	Profile    domain.CompanyProfile
	Logger     zerolog.Logger
}

func NewQuotationService(d Deps) *QuotationService {
	return &QuotationService{
		repo:     d.Quotations,
		clients:  d.Clients,
		users:    d.Users,
		renderer: d.Renderer,
		notifier: d.Notifier,
		invoices: d.Invoices,
		dedup:    d.SendDedup,
		profile:  d.Profile,
		logger:   d.Logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create builds a new draft quotation, deriving all tax fields from the
// subtotal and taxation selection.
func (s *QuotationService) Create(ctx context.Context, caller domain.Caller, in ports.CreateQuotationInput) (*domain.Quotation, error) {
	if !domain.Resolve(caller.Role).Has(domain.ResourceQuotations, domain.ActionCreate) {
		return nil, domain.ErrForbidden
	}

	client, err := s.clients.FindByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccessRecord(caller, domain.ResourceClients, client.OwnerID) {
		return nil, domain.ErrForbidden
	}

	breakdown, err := domain.ComputeTax(in.Subtotal, in.TaxationType, in.GSTPercentage, in.PSTPercentage)
	if err != nil {
		return nil, err
	}

	seq, err := s.repo.NextSequence(ctx)
	if err != nil {
		return nil, fmt.Errorf("create quotation: next sequence: %w", err)
	}

	now := s.now()
	q := &domain.Quotation{
		ID:            uuid.NewString(),
		Number:        formatQuotationNumber(now, seq),
		Title:         in.Title,
		Description:   in.Description,
		OwnerID:       caller.ID,
		ClientID:      in.ClientID,
		Subtotal:      in.Subtotal,
		TaxationType:  in.TaxationType,
		GSTPercentage: in.GSTPercentage,
		PSTPercentage: in.PSTPercentage,
		Status:        domain.StatusDraft,
		ValidUntil:    in.ValidUntil,
		FormData:      in.FormData,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	q.ApplyTax(breakdown)

	if err := s.repo.Create(ctx, q); err != nil {
		s.logger.Error().Err(err).Str("number", q.Number).Msg("failed to create quotation")
		return nil, err
	}

	s.logger.Info().
		Str("quotation_id", q.ID).
		Str("number", q.Number).
		Str("owner_id", caller.ID).
		Str("taxation_type", string(q.TaxationType)).
		Msg("quotation created")

	return q, nil
}

// Get returns a single quotation after the scope check. Not-found and
// forbidden stay distinct: a row that exists but is out of the caller's
// scope yields ErrForbidden, never ErrQuotationNotFound.
func (s *QuotationService) Get(ctx context.Context, caller domain.Caller, id string) (*domain.Quotation, error) {
	return s.loadScoped(ctx, caller, id, domain.ActionRead)
}

// List returns a page of quotations narrowed by the caller's access scope.
func (s *QuotationService) List(ctx context.Context, caller domain.Caller, in ports.ListQuotationsInput) (*ports.ListQuotationsResult, error) {
	if !domain.Resolve(caller.Role).Has(domain.ResourceQuotations, domain.ActionRead) {
		return nil, domain.ErrForbidden
	}

	filter := ports.ListQuotationsFilter{
		ClientID: in.ClientID,
		Status:   in.Status,
		Search:   in.Search,
		DateFrom: in.DateFrom,
		DateTo:   in.DateTo,
		Page:     normalizePage(in.Page),
		Limit:    normalizeLimit(in.Limit),
	}
	if domain.ScopeFor(caller, domain.ResourceQuotations).FilterByOwner {
		filter.OwnerID = caller.ID
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.ListQuotationsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// Update applies content edits and recomputes the tax breakdown whenever the
// subtotal, percentages or taxation selection change. Approved quotations
// are immutable.
func (s *QuotationService) Update(ctx context.Context, caller domain.Caller, id string, in ports.UpdateQuotationInput) (*domain.Quotation, error) {
	q, err := s.loadScoped(ctx, caller, id, domain.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if q.Status == domain.StatusApproved {
		return nil, domain.ErrQuotationImmutable
	}

	statusAtRead := q.Status

	if in.Title != nil {
		q.Title = *in.Title
	}
	if in.Description != nil {
		q.Description = *in.Description
	}
	if in.ClientID != nil && *in.ClientID != q.ClientID {
		client, err := s.clients.FindByID(ctx, *in.ClientID)
		if err != nil {
			return nil, err
		}
		if !domain.CanAccessRecord(caller, domain.ResourceClients, client.OwnerID) {
			return nil, domain.ErrForbidden
		}
		q.ClientID = *in.ClientID
	}
	if in.ValidUntil != nil {
		q.ValidUntil = in.ValidUntil
	}
	if in.FormData != nil {
		q.FormData = in.FormData
	}

	moneyChanged := false
	if in.Subtotal != nil && !in.Subtotal.Equal(q.Subtotal) {
		q.Subtotal = *in.Subtotal
		moneyChanged = true
	}
	if in.TaxationType != nil && *in.TaxationType != q.TaxationType {
		q.TaxationType = *in.TaxationType
		moneyChanged = true
	}
	if in.GSTPercentage != nil && !in.GSTPercentage.Equal(q.GSTPercentage) {
		q.GSTPercentage = *in.GSTPercentage
		moneyChanged = true
	}
	if in.PSTPercentage != nil && !in.PSTPercentage.Equal(q.PSTPercentage) {
		q.PSTPercentage = *in.PSTPercentage
		moneyChanged = true
	}

	if moneyChanged {
		breakdown, err := domain.ComputeTax(q.Subtotal, q.TaxationType, q.GSTPercentage, q.PSTPercentage)
		if err != nil {
			return nil, err
		}
		q.ApplyTax(breakdown)
	}

	q.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, q, statusAtRead); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("quotation_id", q.ID).
		Bool("tax_recomputed", moneyChanged).
		Msg("quotation updated")

	return q, nil
}

// Delete removes a quotation. Approved quotations cannot be deleted.
func (s *QuotationService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	q, err := s.loadScoped(ctx, caller, id, domain.ActionDelete)
	if err != nil {
		return err
	}
	if q.Status == domain.StatusApproved {
		return domain.ErrQuotationImmutable
	}
	if err := s.repo.Delete(ctx, q.ID); err != nil {
		return err
	}
	s.logger.Info().Str("quotation_id", q.ID).Str("caller_id", caller.ID).Msg("quotation deleted")
	return nil
}

// Duplicate copies a quotation into a fresh draft owned by the caller. The
// stored monetary fields are copied verbatim so legacy records duplicate
// without re-derivation.
func (s *QuotationService) Duplicate(ctx context.Context, caller domain.Caller, id string) (*domain.Quotation, error) {
	src, err := s.loadScoped(ctx, caller, id, domain.ActionRead)
	if err != nil {
		return nil, err
	}
	if !domain.Resolve(caller.Role).Has(domain.ResourceQuotations, domain.ActionCreate) {
		return nil, domain.ErrForbidden
	}

	seq, err := s.repo.NextSequence(ctx)
	if err != nil {
		return nil, fmt.Errorf("duplicate quotation: next sequence: %w", err)
	}

	now := s.now()
	dup := *src
	dup.ID = uuid.NewString()
	dup.Number = formatQuotationNumber(now, seq)
	dup.OwnerID = caller.ID
	dup.Status = domain.StatusDraft
	dup.EmailSent = false
	dup.EmailSentAt = nil
	dup.CreatedAt = now
	dup.UpdatedAt = now
	if src.FormData != nil {
		dup.FormData = make(map[string]any, len(src.FormData))
		for k, v := range src.FormData {
			dup.FormData[k] = v
		}
	}

	if err := s.repo.Create(ctx, &dup); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("source_id", src.ID).
		Str("quotation_id", dup.ID).
		Str("number", dup.Number).
		Msg("quotation duplicated")

	return &dup, nil
}

// loadScoped fetches a quotation and applies the scope and permission checks
// shared by every single-record operation.
func (s *QuotationService) loadScoped(ctx context.Context, caller domain.Caller, id string, action domain.Action) (*domain.Quotation, error) {
	if !domain.Resolve(caller.Role).Has(domain.ResourceQuotations, action) {
		return nil, domain.ErrForbidden
	}
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccessRecord(caller, domain.ResourceQuotations, q.OwnerID) {
		return nil, domain.ErrForbidden
	}
	return q, nil
}

func formatQuotationNumber(at time.Time, seq int64) string {
	return fmt.Sprintf("Q-%d-%06d", at.Year(), seq)
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultPageLimit
	case limit > maxPageLimit:
		return maxPageLimit
	}
	return limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
