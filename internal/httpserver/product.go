package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ereminvs/webshop/internal/middleware/auth"
	"github.com/ereminvs/webshop/internal/mykafka"
	"github.com/ereminvs/webshop/internal/service"
	"github.com/ereminvs/webshop/internal/util"
	"github.com/ereminvs/webshop/pkg/logging"
)

type ProductHandler struct {
	Catalog  *service.CatalogService
	Producer *mykafka.Producer
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	key := service.FormatID(auth.UserID(c))
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicProductEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka_publish_error", "error", err)
	}
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.Catalog.GetProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, product)
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	categoryID := uint(util.ParseIntDefault(c.QueryParam("category_id"), 0))

	offset, limit := util.Calculate(page, size)

	total, items, err := h.Catalog.ListProducts(c.Request().Context(), categoryID, offset, limit)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, map[string]any{
		"items": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req service.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Catalog.CreateProduct(c.Request().Context(), req)
	if err != nil {
		return err
	}

	h.publish(c, map[string]any{"type": "product_created", "product_id": product.ID})
	return respond(c, http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req service.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Catalog.PatchProduct(c.Request().Context(), id, req)
	if err != nil {
		return err
	}

	h.publish(c, map[string]any{"type": "product_updated", "product_id": product.ID})
	return respond(c, http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Catalog.DeleteProduct(c.Request().Context(), id); err != nil {
		return err
	}

	h.publish(c, map[string]any{"type": "product_deleted", "product_id": id})
	return c.NoContent(http.StatusNoContent)
}
