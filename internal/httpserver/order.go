package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ereminvs/webshop/internal/metrics"
	"github.com/ereminvs/webshop/internal/middleware/auth"
	"github.com/ereminvs/webshop/internal/mykafka"
	"github.com/ereminvs/webshop/internal/service"
	"github.com/ereminvs/webshop/pkg/logging"
)

type OrderHandler struct {
	Orders   *service.OrderService
	Producer *mykafka.Producer
}

func (h *OrderHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	key := service.FormatID(auth.UserID(c))
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicOrderEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka_publish_error", "error", err)
	}
}

// PlaceOrder converts the caller's cart into an order.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	order, err := h.Orders.PlaceOrder(c.Request().Context(), auth.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			metrics.OrderFailuresCounter.WithLabelValues("empty_cart").Inc()
		case errors.Is(err, service.ErrInsufficientStock):
			metrics.OrderFailuresCounter.WithLabelValues("insufficient_stock").Inc()
		default:
			metrics.OrderFailuresCounter.WithLabelValues("internal").Inc()
		}
		return err
	}

	metrics.OrdersPlacedCounter.Inc()
	h.publish(c, map[string]any{
		"type":     "order_placed",
		"order_id": order.ID,
		"total":    order.Total,
	})
	return respond(c, http.StatusCreated, order)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	orders, err := h.Orders.ListOrders(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.Orders.GetOrder(c.Request().Context(), id, auth.UserID(c), auth.Role(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, order)
}

func (h *OrderHandler) ListAllOrders(c echo.Context) error {
	orders, err := h.Orders.ListAllOrders(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, orders)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Orders.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return err
	}

	h.publish(c, map[string]any{
		"type":     "order_status_changed",
		"order_id": order.ID,
		"status":   order.Status,
	})
	return respond(c, http.StatusOK, order)
}
