package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bizquote/quotation-system/internal/core/domain"
)

// RequirePermission rejects requests whose role lacks a (resource, action)
// grant in the permission table. It is a coarse route-level gate; the
// services repeat the check together with record-level scoping, so a route
// that slips past a misconfigured gate still cannot touch foreign records.
func RequirePermission(resource domain.Resource, action domain.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if !domain.Resolve(domain.Role(role)).Has(resource, action) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
