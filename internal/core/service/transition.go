package service

import (
	"context"
	"fmt"

	"github.com/bizquote/quotation-system/internal/core/domain"
	"github.com/bizquote/quotation-system/internal/core/ports"
)

// Transition validates and applies a single status change. Checks run in
// order: scope/ownership, transition legality, then the specific permission
// the target status requires; plain update permission never substitutes for
// approve/reject authority.
func (s *QuotationService) Transition(ctx context.Context, caller domain.Caller, id string, target domain.QuotationStatus) (*domain.Quotation, error) {
	q, _, err := s.transition(ctx, caller, id, target)
	return q, err
}

// transition is the shared single-record path used by both the PATCH status
// endpoint and the bulk processor. For approvals it also reports the
// notification outcome so the bulk processor can aggregate an email summary.
func (s *QuotationService) transition(ctx context.Context, caller domain.Caller, id string, target domain.QuotationStatus) (*domain.Quotation, *ports.NotificationResult, error) {
	if !target.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown status %q", domain.ErrIllegalTransition, target)
	}

	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !domain.CanAccessRecord(caller, domain.ResourceQuotations, q.OwnerID) {
		return nil, nil, domain.ErrForbidden
	}

	if q.Status == domain.StatusApproved {
		return nil, nil, domain.ErrQuotationImmutable
	}
	if !q.Status.CanTransitionTo(target) {
		return nil, nil, fmt.Errorf("%w: %s to %s", domain.ErrIllegalTransition, q.Status, target)
	}
	if err := s.authorizeTransition(caller, q, target); err != nil {
		return nil, nil, err
	}

	// Optimistic write: the predicate re-validates the prior status, so two
	// callers racing on the same record cannot both win.
	updated, err := s.repo.UpdateStatus(ctx, q.ID, q.Status, target, s.now())
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().
		Str("quotation_id", q.ID).
		Str("from", string(q.Status)).
		Str("to", string(target)).
		Str("caller_id", caller.ID).
		Msg("status transition applied")

	var notification *ports.NotificationResult
	if target == domain.StatusApproved {
		// Side effects fire on this edge only; approved is terminal, so the
		// edge cannot be re-entered.
		notification = s.onApproved(ctx, updated)
	}

	return updated, notification, nil
}

// authorizeTransition enforces who may invoke the (already legal) edge.
func (s *QuotationService) authorizeTransition(caller domain.Caller, q *domain.Quotation, target domain.QuotationStatus) error {
	perms := domain.Resolve(caller.Role)

	switch target {
	case domain.StatusApproved:
		if !perms.Has(domain.ResourceQuotations, domain.ActionApprove) {
			return domain.ErrForbidden
		}
	case domain.StatusRejected:
		if !perms.Has(domain.ResourceQuotations, domain.ActionReject) {
			return domain.ErrForbidden
		}
	case domain.StatusPending, domain.StatusDraft:
		if !perms.Has(domain.ResourceQuotations, domain.ActionUpdate) {
			return domain.ErrForbidden
		}
		isOwner := q.OwnerID == caller.ID
		// Re-opening a rejected quotation is allowed for the owner or any
		// manager and above; every other edge into pending/draft is the
		// owner's alone.
		if q.Status == domain.StatusRejected {
			if !isOwner && !caller.Role.AtLeast(domain.RoleManager) {
				return domain.ErrForbidden
			}
		} else if !isOwner {
			return domain.ErrForbidden
		}
	default:
		return fmt.Errorf("%w: %s is not a requestable status", domain.ErrIllegalTransition, target)
	}
	return nil
}

// onApproved runs the approval side effects: invoice generation and the
// client-facing notification. Both are non-fatal; the transition is already
// committed and is never reverted or retried here.
func (s *QuotationService) onApproved(ctx context.Context, q *domain.Quotation) *ports.NotificationResult {
	if s.invoices != nil {
		if inv, err := s.invoices.GenerateFromQuotation(ctx, q); err != nil {
			s.logger.Warn().Err(err).Str("quotation_id", q.ID).Msg("invoice generation failed")
		} else {
			s.logger.Info().Str("quotation_id", q.ID).Str("invoice_id", inv.ID).Msg("invoice generated")
		}
	}

	result := s.deliverApprovalEmail(ctx, q)
	if result.Success {
		if err := s.repo.MarkEmailSent(ctx, q.ID, s.now()); err != nil {
			s.logger.Warn().Err(err).Str("quotation_id", q.ID).Msg("failed to mark email sent")
		}
	}
	return &result
}

func (s *QuotationService) deliverApprovalEmail(ctx context.Context, q *domain.Quotation) ports.NotificationResult {
	client, err := s.clients.FindByID(ctx, q.ClientID)
	if err != nil {
		s.logger.Warn().Err(err).Str("quotation_id", q.ID).Msg("approval email: client lookup failed")
		return ports.NotificationResult{Success: false, Reason: "client lookup failed"}
	}
	if client.Email == "" {
		return ports.NotificationResult{Success: false, Reason: "client has no email address"}
	}

	var attachment []byte
	if s.renderer != nil {
		issuer, err := s.users.FindByID(ctx, q.OwnerID)
		if err != nil {
			issuer = nil
		}
		attachment, err = s.renderer.Render(ctx, q, client, issuer, s.profile)
		if err != nil {
			// Deliver without the document rather than not at all.
			s.logger.Warn().Err(err).Str("quotation_id", q.ID).Msg("approval email: render failed")
			attachment = nil
		}
	}

	result := s.notifier.Send(ctx, ports.NotificationInput{
		Recipient:   client.Email,
		Subject:     fmt.Sprintf("Quotation %s approved", q.Number),
		TemplateKey: "quotation_approved",
		Variables: map[string]string{
			"quotation_number": q.Number,
			"client_name":      client.Name,
			"total_amount":     q.TotalAmount.StringFixed(2),
		},
		Attachment:     attachment,
		AttachmentName: q.Number + ".pdf",
	})

	if !result.Success {
		s.logger.Warn().
			Str("quotation_id", q.ID).
			Str("reason", result.Reason).
			Msg("approval email delivery failed")
	}
	return result
}
