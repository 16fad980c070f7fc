package service

import (
	"context"
	"errors"

	"github.com/bizquote/quotation-system/internal/core/domain"
	"github.com/bizquote/quotation-system/internal/core/ports"
)

// ExecuteBulk fans an action across many quotations with continue-on-error
// semantics: one id failing never aborts the rest, and partial failure is a
// structured result, not an error. Only a structurally invalid request (no
// ids, unknown action) returns an error.
func (s *QuotationService) ExecuteBulk(ctx context.Context, caller domain.Caller, in ports.BulkActionInput) (*ports.BulkResult, error) {
	if len(in.QuotationIDs) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	switch in.Action {
	case ports.BulkApprove, ports.BulkReject, ports.BulkDelete:
	default:
		return nil, domain.ErrUnknownBulkAction
	}

	result := &ports.BulkResult{
		SucceededIDs: make([]string, 0, len(in.QuotationIDs)),
	}
	if in.Action == ports.BulkApprove {
		result.EmailSummary = &ports.EmailSummary{}
	}

	for _, id := range in.QuotationIDs {
		var (
			notification *ports.NotificationResult
			err          error
		)

		switch in.Action {
		case ports.BulkApprove:
			_, notification, err = s.transition(ctx, caller, id, domain.StatusApproved)
		case ports.BulkReject:
			_, _, err = s.transition(ctx, caller, id, domain.StatusRejected)
		case ports.BulkDelete:
			err = s.Delete(ctx, caller, id)
		}

		if err != nil {
			result.Failed = append(result.Failed, ports.BulkFailure{
				ID:     id,
				Reason: failureReason(err),
			})
			continue
		}

		result.SucceededIDs = append(result.SucceededIDs, id)

		// Email outcomes are counted independently of the state change: a
		// committed approval with a failed email stays committed.
		if result.EmailSummary != nil {
			if notification != nil && notification.Success {
				result.EmailSummary.EmailsSent++
			} else {
				result.EmailSummary.EmailsFailed++
			}
		}
	}

	s.logger.Info().
		Str("action", string(in.Action)).
		Str("caller_id", caller.ID).
		Int("requested", len(in.QuotationIDs)).
		Int("succeeded", len(result.SucceededIDs)).
		Int("failed", len(result.Failed)).
		Msg("bulk action completed")

	return result, nil
}

// failureReason flattens the error taxonomy into short, stable reason codes
// for the per-id failure list.
func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrQuotationNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrQuotationImmutable):
		return "already_approved"
	case errors.Is(err, domain.ErrIllegalTransition):
		return "illegal_transition"
	case errors.Is(err, domain.ErrConcurrentModification):
		return "conflict"
	}
	return err.Error()
}
