package handlers

import (
	"net/http"
	"strconv"

	"salepoint/internal/common"
	"salepoint/internal/services"

	"github.com/labstack/echo/v4"
)

type CustomerHandlers struct {
	customerService services.CustomerServiceInterface
}

func NewCustomerHandlers(customerService services.CustomerServiceInterface) *CustomerHandlers {
	return &CustomerHandlers{customerService: customerService}
}

// CreateCustomer handles POST /customers
func (h *CustomerHandlers) CreateCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	var req services.CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	customer, err := h.customerService.Create(ctx, tenantID, &req)
	if err != nil {
		return common.SendDomainError(c, err, "customer")
	}
	return c.JSON(http.StatusCreated, customer)
}

// GetCustomer handles GET /customers/:id
func (h *CustomerHandlers) GetCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	customer, err := h.customerService.GetByID(ctx, tenantID, id)
	if err != nil {
		return common.SendDomainError(c, err, "customer")
	}
	return c.JSON(http.StatusOK, customer)
}

// ListCustomers handles GET /customers
func (h *CustomerHandlers) ListCustomers(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	customers, err := h.customerService.List(ctx, tenantID, limit, offset)
	if err != nil {
		return common.SendDomainError(c, err, "customers")
	}
	return c.JSON(http.StatusOK, customers)
}

// UpdateCustomer handles PUT /customers/:id
func (h *CustomerHandlers) UpdateCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req services.UpdateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	req.ID = id

	customer, err := h.customerService.Update(ctx, tenantID, &req)
	if err != nil {
		return common.SendDomainError(c, err, "customer")
	}
	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer handles DELETE /customers/:id
func (h *CustomerHandlers) DeleteCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.customerService.Delete(ctx, tenantID, id); err != nil {
		return common.SendDomainError(c, err, "customer")
	}
	return c.NoContent(http.StatusNoContent)
}
