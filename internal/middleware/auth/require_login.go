package auth

import (
	"github.com/labstack/echo/v4"
)

// RequireAuth rejects requests without a valid bearer access token.
func (g *Guard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := g.claimsFromRequest(c)
		if err != nil {
			return err
		}
		if err := setUserContext(c, claims); err != nil {
			return err
		}
		return next(c)
	}
}
