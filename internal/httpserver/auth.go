package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ereminvs/webshop/internal/metrics"
	"github.com/ereminvs/webshop/internal/models"
	"github.com/ereminvs/webshop/internal/mykafka"
	"github.com/ereminvs/webshop/internal/service"
	"github.com/ereminvs/webshop/pkg/logging"
)

type AuthHandler struct {
	Auth     *service.AuthService
	Producer *mykafka.Producer
}

type authResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   int64        `json:"expires_at"`
}

func (h *AuthHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicUserEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka_publish_error", "error", err)
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	result, err := h.Auth.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return err
	}

	metrics.RegistrationsCounter.Inc()
	h.publish(c, result.User.Email, map[string]any{
		"type":    "user_registered",
		"user_id": result.User.ID,
	})

	setRefreshCookie(c, result.RefreshToken, result.RefreshExp)
	return respond(c, http.StatusCreated, authResponse{
		User:        result.User,
		AccessToken: result.AccessToken,
		ExpiresAt:   result.AccessExp.Unix(),
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	result, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	setRefreshCookie(c, result.RefreshToken, result.RefreshExp)
	return respond(c, http.StatusOK, authResponse{
		User:        result.User,
		AccessToken: result.AccessToken,
		ExpiresAt:   result.AccessExp.Unix(),
	})
}

// Refresh trades a valid refresh token for a fresh access token. The
// refresh token itself is not rotated.
func (h *AuthHandler) Refresh(c echo.Context) error {
	raw := refreshTokenFromRequest(c)
	if raw == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	access, exp, err := h.Auth.RefreshAccessToken(c.Request().Context(), raw)
	if err != nil {
		clearRefreshCookie(c)
		return err
	}

	return respond(c, http.StatusOK, map[string]any{
		"access_token": access,
		"expires_at":   exp.Unix(),
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if raw := refreshTokenFromRequest(c); raw != "" {
		h.Auth.Logout(c.Request().Context(), raw)
	}
	clearRefreshCookie(c)
	return c.NoContent(http.StatusNoContent)
}
