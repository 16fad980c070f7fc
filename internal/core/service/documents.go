package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/bizquote/quotation-system/internal/core/domain"
	"github.com/bizquote/quotation-system/internal/core/ports"
)

const sendDedupKind = "quotation_send"

// Send renders the quotation and delivers it to the client's email address.
// Delivery failure is a reported outcome, not an error; repeat sends within
// the dedup TTL are suppressed.
func (s *QuotationService) Send(ctx context.Context, caller domain.Caller, id string) (*ports.SendResult, error) {
	q, err := s.loadScoped(ctx, caller, id, domain.ActionSend)
	if err != nil {
		return nil, err
	}

	if s.dedup != nil {
		dup, err := s.dedup.AlreadySent(ctx, q.ID, sendDedupKind)
		if err != nil {
			s.logger.Warn().Err(err).Str("quotation_id", q.ID).Msg("send dedup check failed, sending anyway")
		} else if dup {
			return &ports.SendResult{Sent: false, Reason: ports.SendSuppressedReason}, nil
		}
	}

	client, err := s.clients.FindByID(ctx, q.ClientID)
	if err != nil {
		return nil, err
	}
	if client.Email == "" {
		return &ports.SendResult{Sent: false, Reason: "client has no email address"}, nil
	}

	attachment, err := s.renderDocument(ctx, q, client)
	if err != nil {
		s.logger.Warn().Err(err).Str("quotation_id", q.ID).Msg("send: render failed, delivering without attachment")
		attachment = nil
	}

	result := s.notifier.Send(ctx, ports.NotificationInput{
		Recipient:   client.Email,
		Subject:     fmt.Sprintf("Quotation %s from %s", q.Number, s.profile.Name),
		TemplateKey: "quotation_sent",
		Variables: map[string]string{
			"quotation_number": q.Number,
			"client_name":      client.Name,
			"total_amount":     q.TotalAmount.StringFixed(2),
		},
		Attachment:     attachment,
		AttachmentName: q.Number + ".pdf",
	})
	if !result.Success {
		return &ports.SendResult{Sent: false, Reason: result.Reason}, nil
	}

	now := s.now()
	if err := s.repo.MarkEmailSent(ctx, q.ID, now); err != nil {
		s.logger.Warn().Err(err).Str("quotation_id", q.ID).Msg("failed to mark email sent")
	}
	if s.dedup != nil {
		if err := s.dedup.MarkSent(ctx, q.ID, sendDedupKind, now); err != nil {
			s.logger.Warn().Err(err).Str("quotation_id", q.ID).Msg("failed to set send dedup key")
		}
	}

	s.logger.Info().
		Str("quotation_id", q.ID).
		Str("recipient", client.Email).
		Str("message_id", result.MessageID).
		Msg("quotation sent")

	return &ports.SendResult{Sent: true, MessageID: result.MessageID}, nil
}

// RenderPDF returns the rendered document for direct download.
func (s *QuotationService) RenderPDF(ctx context.Context, caller domain.Caller, id string) ([]byte, error) {
	q, err := s.loadScoped(ctx, caller, id, domain.ActionRead)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.FindByID(ctx, q.ClientID)
	if err != nil {
		return nil, err
	}
	return s.renderDocument(ctx, q, client)
}

func (s *QuotationService) renderDocument(ctx context.Context, q *domain.Quotation, client *domain.Client) ([]byte, error) {
	issuer, err := s.users.FindByID(ctx, q.OwnerID)
	if err != nil {
		issuer = nil
	}
	return s.renderer.Render(ctx, q, client, issuer, s.profile)
}

// ExportCSV writes the caller's scoped quotation list as CSV.
func (s *QuotationService) ExportCSV(ctx context.Context, caller domain.Caller, in ports.ListQuotationsInput) ([]byte, error) {
	if !domain.Resolve(caller.Role).Has(domain.ResourceQuotations, domain.ActionExport) {
		return nil, domain.ErrForbidden
	}

	filter := ports.ListQuotationsFilter{
		ClientID: in.ClientID,
		Status:   in.Status,
		Search:   in.Search,
		DateFrom: in.DateFrom,
		DateTo:   in.DateTo,
		Page:     1,
		Limit:    maxPageLimit,
	}
	if domain.ScopeFor(caller, domain.ResourceQuotations).FilterByOwner {
		filter.OwnerID = caller.ID
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{
		"number", "title", "client_id", "status", "taxation_type",
		"subtotal", "gst_amount", "pst_amount", "combined_tax_amount",
		"total_amount", "created_at",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for {
		items, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, q := range items {
			record := []string{
				q.Number,
				q.Title,
				q.ClientID,
				string(q.Status),
				string(q.DisplayTaxationType()),
				q.Subtotal.StringFixed(2),
				q.GSTAmount.StringFixed(2),
				q.PSTAmount.StringFixed(2),
				q.CombinedTaxAmount.StringFixed(2),
				q.TotalAmount.StringFixed(2),
				q.CreatedAt.UTC().Format(time.RFC3339),
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
		if int64(filter.Page*filter.Limit) >= total || len(items) == 0 {
			break
		}
		filter.Page++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
