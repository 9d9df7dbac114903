package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/velora-labs/storefront/internal/models"
	"github.com/velora-labs/storefront/internal/payment"
)

type PaymentHandler struct {
	Gateway       *payment.Gateway
	Reconciler    *payment.Reconciler
	WebhookSecret string
}

func (h *PaymentHandler) CreatePaymentIntent(c echo.Context) error {
	var req struct {
		OrderID uint `json:"orderId"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.OrderID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "orderId required")
	}

	result, err := h.Gateway.Initiate(c.Request().Context(), req.OrderID, models.PaymentMethodStripe)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"clientSecret": result.ClientSecret,
		"paymentId":    result.PaymentID,
	})
}

func (h *PaymentHandler) InitiatePayment(c echo.Context) error {
	var req struct {
		OrderID       uint                 `json:"orderId"`
		PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.OrderID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "orderId required")
	}

	result, err := h.Gateway.Initiate(c.Request().Context(), req.OrderID, req.PaymentMethod)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) CapturePayPalPayment(c echo.Context) error {
	var req struct {
		OrderID string `json:"orderID"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.OrderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "orderID required")
	}

	if err := h.Gateway.CapturePayPal(c.Request().Context(), req.OrderID); err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{"message": "payment captured"})
}

// Webhook verifies the provider signature against the raw body before the
// reconciler sees anything.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read body")
	}

	sig := c.Request().Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sig, h.WebhookSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "webhook signature verification failed")
	}

	var object struct {
		ID string `json:"id"`
	}
	if len(event.Data.Raw) > 0 {
		if err := json.Unmarshal(event.Data.Raw, &object); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed event payload")
		}
	}

	if err := h.Reconciler.HandleEvent(c.Request().Context(), string(event.Type), object.ID); err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
