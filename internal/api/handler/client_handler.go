package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bizquote/quotation-system/internal/core/domain"
	"github.com/bizquote/quotation-system/internal/core/ports"
)

// ClientHandler handles HTTP requests for client records.
type ClientHandler struct {
	service ports.ClientService
}

func NewClientHandler(service ports.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

type createClientRequest struct {
	Name         string         `json:"name"  validate:"required"`
	Email        string         `json:"email" validate:"omitempty,email"`
	Phone        string         `json:"phone"`
	Company      string         `json:"company"`
	Address      string         `json:"address"`
	CustomFields map[string]any `json:"custom_fields"`
}

type updateClientRequest struct {
	Name         *string        `json:"name"`
	Email        *string        `json:"email" validate:"omitempty,email"`
	Phone        *string        `json:"phone"`
	Company      *string        `json:"company"`
	Address      *string        `json:"address"`
	CustomFields map[string]any `json:"custom_fields"`
}

type clientResponse struct {
	ID           string         `json:"id"`
	OwnerID      string         `json:"owner_id"`
	Name         string         `json:"name"`
	Email        string         `json:"email,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	Company      string         `json:"company,omitempty"`
	Address      string         `json:"address,omitempty"`
	CustomFields map[string]any `json:"custom_fields,omitempty"`
	Active       bool           `json:"active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type listClientsResponse struct {
	Data       []clientResponse   `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

func toClientResponse(cl *domain.Client) clientResponse {
	return clientResponse{
		ID:           cl.ID,
		OwnerID:      cl.OwnerID,
		Name:         cl.Name,
		Email:        cl.Email,
		Phone:        cl.Phone,
		Company:      cl.Company,
		Address:      cl.Address,
		CustomFields: cl.CustomFields,
		Active:       cl.Active,
		CreatedAt:    cl.CreatedAt.UTC(),
		UpdatedAt:    cl.UpdatedAt.UTC(),
	}
}

// Create handles POST /v1/clients.
func (h *ClientHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cl, err := h.service.Create(c.Request().Context(), caller, ports.CreateClientInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Company:      req.Company,
		Address:      req.Address,
		CustomFields: req.CustomFields,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toClientResponse(cl))
}

// Get handles GET /v1/clients/:id.
func (h *ClientHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	cl, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(cl))
}

// List handles GET /v1/clients.
func (h *ClientHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	in := ports.ListClientsInput{Search: c.QueryParam("search")}
	if v := c.QueryParam("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "active must be a boolean")
		}
		in.Active = &active
	}
	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "page must be an integer")
		}
		in.Page = n
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
		in.Limit = n
	}

	result, err := h.service.List(c.Request().Context(), caller, in)
	if err != nil {
		return err
	}

	items := make([]clientResponse, len(result.Items))
	for i, cl := range result.Items {
		items[i] = toClientResponse(cl)
	}
	return c.JSON(http.StatusOK, listClientsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Update handles PUT /v1/clients/:id.
func (h *ClientHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req updateClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cl, err := h.service.Update(c.Request().Context(), caller, c.Param("id"), ports.UpdateClientInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Company:      req.Company,
		Address:      req.Address,
		CustomFields: req.CustomFields,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(cl))
}

// Delete handles DELETE /v1/clients/:id.
func (h *ClientHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
