package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/velora-labs/storefront/internal/events"
	"github.com/velora-labs/storefront/internal/metrics"
	"github.com/velora-labs/storefront/internal/models"
	"github.com/velora-labs/storefront/internal/payment"
	"github.com/velora-labs/storefront/internal/service/order"
)

type OrderHandler struct {
	Service  *order.Service
	Producer *events.Producer
}

// serviceError maps service sentinels onto HTTP status codes; everything
// unrecognized is a 500.
func serviceError(err error) error {
	switch {
	case errors.Is(err, order.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, payment.ErrUnsupportedMethod):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, payment.ErrInvalidAmount):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, payment.ErrProvider):
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *OrderHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicOrderEvents, fmt.Sprint(event["orderID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ok := false
	defer func() { metrics.RecordOrderOperation("create", ok) }()

	var req order.CreateInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ord, err := h.Service.Create(c.Request().Context(), req)
	if err != nil {
		return serviceError(err)
	}
	ok = true

	h.publish(c, map[string]any{
		"type":    "order_created",
		"orderID": ord.ID,
		"userID":  ord.UserID,
		"total":   ord.TotalAmount,
	})

	return c.JSON(http.StatusCreated, ord)
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	orders, err := h.Service.List(c.Request().Context())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	ord, err := h.Service.Get(c.Request().Context(), uint(id))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, ord)
}

func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	ok := false
	defer func() { metrics.RecordOrderOperation("update_status", ok) }()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ord, err := h.Service.UpdateStatus(c.Request().Context(), uint(id), req.Status)
	if err != nil {
		return serviceError(err)
	}
	ok = true

	h.publish(c, map[string]any{
		"type":    "order_status_changed",
		"orderID": ord.ID,
		"status":  ord.Status,
	})

	return c.JSON(http.StatusOK, ord)
}

func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	ok := false
	defer func() { metrics.RecordOrderOperation("delete", ok) }()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	if err := h.Service.Delete(c.Request().Context(), uint(id)); err != nil {
		return serviceError(err)
	}
	ok = true

	h.publish(c, map[string]any{
		"type":    "order_deleted",
		"orderID": id,
	})

	return c.JSON(http.StatusOK, map[string]any{"deleted_order": id})
}
