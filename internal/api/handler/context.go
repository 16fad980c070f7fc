package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bizquote/quotation-system/internal/core/domain"
)

// ctxCaller rebuilds the immutable caller identity from the claims the Auth
// middleware injected. Every service call receives this value explicitly;
// nothing downstream reads identity from ambient state.
//   - user_id and role must both be present (presence proves the middleware ran).
//   - an unknown role is rejected here rather than silently resolving to the
//     deny-all permission set, so a stale token fails loudly.
func ctxCaller(c echo.Context) (domain.Caller, error) {
	userID, _ := c.Get("user_id").(string)
	roleStr, _ := c.Get("role").(string)
	if userID == "" || roleStr == "" {
		return domain.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	role := domain.Role(roleStr)
	if !role.Valid() {
		return domain.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "token carries unknown role")
	}

	return domain.Caller{ID: userID, Role: role}, nil
}
