package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bizquote/quotation-system/internal/api/metrics"
	"github.com/bizquote/quotation-system/internal/core/domain"
	"github.com/bizquote/quotation-system/internal/core/ports"
)

// QuotationHandler handles HTTP requests for quotation operations.
type QuotationHandler struct {
	service ports.QuotationService
}

func NewQuotationHandler(service ports.QuotationService) *QuotationHandler {
	return &QuotationHandler{service: service}
}

// Create handles POST /v1/quotations.
//
// @Summary      Create a quotation
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createQuotationRequest  true  "Quotation details"
// @Success      201   {object}  quotationResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/quotations [post]
func (h *QuotationHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createQuotationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	q, err := h.service.Create(c.Request().Context(), caller, toCreateQuotationInput(req))
	if err != nil {
		return err
	}

	metrics.QuotationsCreatedTotal.WithLabelValues(string(q.TaxationType)).Inc()
	return c.JSON(http.StatusCreated, toQuotationResponse(q))
}

// Get handles GET /v1/quotations/:id.
//
// @Summary      Get a quotation by id
// @Tags         quotations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Quotation id"
// @Success      200  {object}  quotationResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/quotations/{id} [get]
func (h *QuotationHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	q, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toQuotationResponse(q))
}

// List handles GET /v1/quotations.
//
// @Summary      List quotations visible to the caller
// @Tags         quotations
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Filter by status"
// @Param        client_id  query     string  false  "Filter by client"
// @Param        search     query     string  false  "Search in title and number"
// @Param        date_from  query     string  false  "Created on or after (YYYY-MM-DD)"
// @Param        date_to    query     string  false  "Created on or before (YYYY-MM-DD)"
// @Param        page       query     int     false  "Page number"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Success      200        {object}  listQuotationsResponse
// @Router       /v1/quotations [get]
func (h *QuotationHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	in, err := listInputFromQuery(c)
	if err != nil {
		return err
	}

	result, err := h.service.List(c.Request().Context(), caller, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListQuotationsResponse(result))
}

// Update handles PUT /v1/quotations/:id.
//
// @Summary      Update quotation content
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Quotation id"
// @Param        body  body      updateQuotationRequest  true  "Fields to change"
// @Success      200   {object}  quotationResponse
// @Failure      409   {object}  map[string]string
// @Router       /v1/quotations/{id} [put]
func (h *QuotationHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req updateQuotationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	q, err := h.service.Update(c.Request().Context(), caller, c.Param("id"), toUpdateQuotationInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toQuotationResponse(q))
}

// Delete handles DELETE /v1/quotations/:id.
func (h *QuotationHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Duplicate handles POST /v1/quotations/:id/duplicate.
func (h *QuotationHandler) Duplicate(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	q, err := h.service.Duplicate(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toQuotationResponse(q))
}

// UpdateStatus handles PATCH /v1/quotations/:id/status.
//
// @Summary      Apply a status transition
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Quotation id"
// @Param        body  body      transitionRequest  true  "Target status"
// @Success      200   {object}  quotationResponse
// @Failure      409   {object}  map[string]string
// @Router       /v1/quotations/{id}/status [patch]
func (h *QuotationHandler) UpdateStatus(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	target := domain.QuotationStatus(req.Status)
	q, err := h.service.Transition(c.Request().Context(), caller, c.Param("id"), target)
	if err != nil {
		metrics.TransitionErrorsTotal.WithLabelValues(transitionErrorReason(err)).Inc()
		return err
	}

	metrics.TransitionsTotal.WithLabelValues(string(target)).Inc()
	return c.JSON(http.StatusOK, toQuotationResponse(q))
}

// BulkAction handles POST /v1/quotations/bulk-action.
//
// @Summary      Apply one action to many quotations
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bulkActionRequest  true  "Ids and action"
// @Success      200   {object}  ports.BulkResult
// @Failure      400   {object}  map[string]string
// @Router       /v1/quotations/bulk-action [post]
func (h *QuotationHandler) BulkAction(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req bulkActionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.ExecuteBulk(c.Request().Context(), caller, ports.BulkActionInput{
		QuotationIDs: req.QuotationIDs,
		Action:       ports.BulkAction(req.Action),
	})
	if err != nil {
		return err
	}

	metrics.BulkItemsTotal.WithLabelValues(req.Action, "succeeded").Add(float64(len(result.SucceededIDs)))
	metrics.BulkItemsTotal.WithLabelValues(req.Action, "failed").Add(float64(len(result.Failed)))
	if result.EmailSummary != nil {
		metrics.EmailsTotal.WithLabelValues("sent").Add(float64(result.EmailSummary.EmailsSent))
		metrics.EmailsTotal.WithLabelValues("failed").Add(float64(result.EmailSummary.EmailsFailed))
	}

	return c.JSON(http.StatusOK, result)
}

// Send handles POST /v1/quotations/:id/send.
func (h *QuotationHandler) Send(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	result, err := h.service.Send(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}

	switch {
	case result.Sent:
		metrics.EmailsTotal.WithLabelValues("sent").Inc()
	case result.Reason == ports.SendSuppressedReason:
		metrics.EmailsTotal.WithLabelValues("suppressed").Inc()
	default:
		metrics.EmailsTotal.WithLabelValues("failed").Inc()
	}

	return c.JSON(http.StatusOK, sendResponse{
		Sent:      result.Sent,
		MessageID: result.MessageID,
		Reason:    result.Reason,
	})
}

// DownloadPDF handles GET /v1/quotations/:id/pdf.
func (h *QuotationHandler) DownloadPDF(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	data, err := h.service.RenderPDF(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="quotation.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", data)
}

// ExportCSV handles GET /v1/quotations/export.
func (h *QuotationHandler) ExportCSV(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	in, err := listInputFromQuery(c)
	if err != nil {
		return err
	}

	data, err := h.service.ExportCSV(c.Request().Context(), caller, in)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="quotations.csv"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}

// listInputFromQuery parses the shared list/export query parameters.
func listInputFromQuery(c echo.Context) (ports.ListQuotationsInput, error) {
	in := ports.ListQuotationsInput{
		Status:   c.QueryParam("status"),
		ClientID: c.QueryParam("client_id"),
		Search:   c.QueryParam("search"),
	}

	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, echo.NewHTTPError(http.StatusBadRequest, "page must be an integer")
		}
		in.Page = n
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
		in.Limit = n
	}
	if v := c.QueryParam("date_from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return in, echo.NewHTTPError(http.StatusBadRequest, "date_from must be YYYY-MM-DD")
		}
		in.DateFrom = t
	}
	if v := c.QueryParam("date_to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return in, echo.NewHTTPError(http.StatusBadRequest, "date_to must be YYYY-MM-DD")
		}
		in.DateTo = t
	}

	return in, nil
}

// transitionErrorReason maps transition failures to a bounded metric label.
func transitionErrorReason(err error) string {
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
	return "internal"
}
