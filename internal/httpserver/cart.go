package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ereminvs/webshop/internal/middleware/auth"
	"github.com/ereminvs/webshop/internal/models"
	"github.com/ereminvs/webshop/internal/service"
)

type CartHandler struct {
	Cart *service.CartService
}

type cartResponse struct {
	*models.Cart
	Subtotal float64 `json:"subtotal"`
}

func (h *CartHandler) GetCart(c echo.Context) error {
	cart, err := h.Cart.GetOrCreateCart(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cartResponse{Cart: cart, Subtotal: service.ComputeSubtotal(cart)})
}

func (h *CartHandler) AddItem(c echo.Context) error {
	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Cart.AddItem(c.Request().Context(), auth.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, item)
}

// SetItemQuantity overwrites a line's quantity. Zero removes the line and
// answers 204 whether or not it existed.
func (h *CartHandler) SetItemQuantity(c echo.Context) error {
	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Cart.SetItemQuantity(c.Request().Context(), auth.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	if item == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return respond(c, http.StatusOK, item)
}
