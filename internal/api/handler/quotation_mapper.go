package handler

import (
	"github.com/bizquote/quotation-system/internal/core/domain"
	"github.com/bizquote/quotation-system/internal/core/ports"
)

// --- Request → Service input ---

func toCreateQuotationInput(req createQuotationRequest) ports.CreateQuotationInput {
	return ports.CreateQuotationInput{
		Title:         req.Title,
		Description:   req.Description,
		ClientID:      req.ClientID,
		Subtotal:      req.Subtotal,
		TaxationType:  domain.TaxationType(req.TaxationType),
		GSTPercentage: req.GSTPercentage,
		PSTPercentage: req.PSTPercentage,
		ValidUntil:    req.ValidUntil,
		FormData:      req.FormData,
	}
}

func toUpdateQuotationInput(req updateQuotationRequest) ports.UpdateQuotationInput {
	in := ports.UpdateQuotationInput{
		Title:         req.Title,
		Description:   req.Description,
		ClientID:      req.ClientID,
		Subtotal:      req.Subtotal,
		GSTPercentage: req.GSTPercentage,
		PSTPercentage: req.PSTPercentage,
		ValidUntil:    req.ValidUntil,
		FormData:      req.FormData,
	}
	if req.TaxationType != nil {
		t := domain.TaxationType(*req.TaxationType)
		in.TaxationType = &t
	}
	return in
}

// --- Service result → HTTP response ---

func toQuotationResponse(q *domain.Quotation) quotationResponse {
	return quotationResponse{
		ID:          q.ID,
		Number:      q.Number,
		Title:       q.Title,
		Description: q.Description,
		OwnerID:     q.OwnerID,
		ClientID:    q.ClientID,

		Subtotal:          q.Subtotal,
		TaxationType:      string(q.DisplayTaxationType()),
		GSTPercentage:     q.GSTPercentage,
		PSTPercentage:     q.PSTPercentage,
		GSTAmount:         q.GSTAmount,
		PSTAmount:         q.PSTAmount,
		CombinedTaxAmount: q.CombinedTaxAmount,
		TotalAmount:       q.TotalAmount,

		TaxPercentage: q.TaxPercentage,
		TaxAmount:     q.TaxAmount,

		Status:      string(q.Status),
		ValidUntil:  q.ValidUntil,
		FormData:    q.FormData,
		EmailSent:   q.EmailSent,
		EmailSentAt: q.EmailSentAt,

		CreatedAt: q.CreatedAt.UTC(),
		UpdatedAt: q.UpdatedAt.UTC(),
	}
}

func toListQuotationsResponse(r *ports.ListQuotationsResult) listQuotationsResponse {
	items := make([]quotationResponse, len(r.Items))
	for i, q := range r.Items {
		items[i] = toQuotationResponse(q)
	}
	return listQuotationsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}
