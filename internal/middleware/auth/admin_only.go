package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ereminvs/webshop/internal/models"
)

// RequireAdmin rejects requests whose token does not carry the ADMIN role.
// A valid customer token reads as 403, not 401.
func (g *Guard) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := g.claimsFromRequest(c)
		if err != nil {
			return err
		}
		if claims.Role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		if err := setUserContext(c, claims); err != nil {
			return err
		}
		return next(c)
	}
}
