package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const refreshCookieName = "refresh_token"

// refreshCookiePath keeps the browser from attaching the refresh token to
// anything but the auth endpoints.
const refreshCookiePath = "/api/v1/auth"

func CreateCookie(name, value, path string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

func setRefreshCookie(c echo.Context, token string, expires time.Time) {
	c.SetCookie(CreateCookie(refreshCookieName, token, refreshCookiePath, expires))
}

func clearRefreshCookie(c echo.Context) {
	cookie := CreateCookie(refreshCookieName, "", refreshCookiePath, time.Unix(0, 0))
	cookie.MaxAge = -1
	c.SetCookie(cookie)
}

// refreshTokenFromRequest prefers the HTTP-only cookie and falls back to a
// JSON body for non-browser clients.
func refreshTokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&body); err == nil {
		return body.RefreshToken
	}
	return ""
}
