package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ereminvs/webshop/internal/middleware/auth"
	"github.com/ereminvs/webshop/internal/service"
)

type ProfileHandler struct {
	Profile *service.ProfileService
}

func (h *ProfileHandler) GetProfile(c echo.Context) error {
	user, err := h.Profile.GetProfile(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	var req service.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Profile.UpdateProfile(c.Request().Context(), auth.UserID(c), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}
