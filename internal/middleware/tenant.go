package middleware

import (
	"errors"
	"net/http"

	"salepoint/internal/common"
	"salepoint/internal/services"

	"github.com/labstack/echo/v4"
)

// TenantHeader carries the tenant identifier on every scoped request.
const TenantHeader = "X-Tenant-ID"

// TenantMiddleware resolves the tenant header into an active tenant and
// stores its id on the request context. Requests with no header are
// rejected outright; an unresolvable or inactive tenant is forbidden.
// Nothing downstream runs without a resolved tenant.
func TenantMiddleware(tenantSvc services.TenantService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(TenantHeader)

			tenant, err := tenantSvc.Resolve(c.Request().Context(), raw)
			if err != nil {
				switch {
				case errors.Is(err, common.ErrTenantUnresolved):
					return c.JSON(http.StatusBadRequest,
						common.CreateErrorResponse("TENANT_UNRESOLVED", "Tenant identifier missing", nil))
				case errors.Is(err, common.ErrTenantInvalid):
					return c.JSON(http.StatusForbidden,
						common.CreateErrorResponse("TENANT_INVALID", "Invalid or inactive tenant", nil))
				}
				return common.SendServerError(c, "tenant resolution failed")
			}

			ctx := common.WithTenantID(c.Request().Context(), tenant.ID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
