package handlers

import (
	"net/http"
	"strconv"

	"salepoint/internal/common"
	"salepoint/internal/services"

	"github.com/labstack/echo/v4"
)

// TenantHandlers exposes the platform-level tenant administration surface.
// These routes are not tenant-scoped themselves.
type TenantHandlers struct {
	tenantService services.TenantService
}

func NewTenantHandlers(tenantService services.TenantService) *TenantHandlers {
	return &TenantHandlers{tenantService: tenantService}
}

// CreateTenant handles POST /tenants
func (h *TenantHandlers) CreateTenant(c echo.Context) error {
	var req services.CreateTenantRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	tenant, err := h.tenantService.Create(c.Request().Context(), &req)
	if err != nil {
		return common.SendDomainError(c, err, "tenant")
	}
	return c.JSON(http.StatusCreated, tenant)
}

// GetTenant handles GET /tenants/:id
func (h *TenantHandlers) GetTenant(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	tenant, err := h.tenantService.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendDomainError(c, err, "tenant")
	}
	return c.JSON(http.StatusOK, tenant)
}

// UpdateTenant handles PUT /tenants/:id
func (h *TenantHandlers) UpdateTenant(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req services.UpdateTenantRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	req.ID = id

	tenant, err := h.tenantService.Update(c.Request().Context(), &req)
	if err != nil {
		return common.SendDomainError(c, err, "tenant")
	}
	return c.JSON(http.StatusOK, tenant)
}

// DeactivateTenant handles DELETE /tenants/:id. Tenants are deactivated,
// never removed.
func (h *TenantHandlers) DeactivateTenant(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.tenantService.Deactivate(c.Request().Context(), id); err != nil {
		return common.SendDomainError(c, err, "tenant")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListTenants handles GET /tenants
func (h *TenantHandlers) ListTenants(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	tenants, err := h.tenantService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendDomainError(c, err, "tenants")
	}
	return c.JSON(http.StatusOK, tenants)
}
