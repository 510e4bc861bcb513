package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ereminvs/webshop/internal/middleware/auth"
	"github.com/ereminvs/webshop/internal/service"
)

type WishlistHandler struct {
	Wishlist *service.WishlistService
}

func (h *WishlistHandler) List(c echo.Context) error {
	items, err := h.Wishlist.List(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, items)
}

func (h *WishlistHandler) Add(c echo.Context) error {
	var req struct {
		ProductID uint `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil || req.ProductID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Wishlist.Add(c.Request().Context(), auth.UserID(c), req.ProductID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, item)
}

// Remove answers 204 whether or not the product was on the list.
func (h *WishlistHandler) Remove(c echo.Context) error {
	id, err := paramID(c, "productID")
	if err != nil {
		return err
	}

	if err := h.Wishlist.Remove(c.Request().Context(), auth.UserID(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
