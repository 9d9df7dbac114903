package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/velora-labs/storefront/internal/models"
	"github.com/velora-labs/storefront/internal/service/order"
)

// Gateway dispatches checkout creation and capture across the registered
// payment providers and owns the pending Payment rows it creates. Provider
// error detail is logged here, never relayed to the caller.
type Gateway struct {
	db        *gorm.DB
	orders    *order.Service
	providers map[models.PaymentMethod]Provider
	log       *slog.Logger
}

func NewGateway(db *gorm.DB, orders *order.Service, log *slog.Logger) *Gateway {
	return &Gateway{
		db:        db,
		orders:    orders,
		providers: make(map[models.PaymentMethod]Provider),
		log:       log,
	}
}

func (g *Gateway) Register(method models.PaymentMethod, p Provider) {
	g.providers[method] = p
}

type InitiateResult struct {
	ClientSecret string `json:"clientSecret,omitempty"`
	OrderID      string `json:"orderID,omitempty"`
	PaymentID    uint   `json:"paymentId"`
}

// Initiate looks up the order, asks the provider for a checkout handle and
// records a pending Payment row referencing it.
func (g *Gateway) Initiate(ctx context.Context, orderID uint, method models.PaymentMethod) (*InitiateResult, error) {
	provider, ok := g.providers[method]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}

	ord, err := g.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	ck, err := provider.CreateCheckout(ctx, ord)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			return nil, err
		}
		g.log.Error("provider checkout creation failed",
			"method", method, "order_id", orderID, "error", err)
		return nil, fmt.Errorf("%w: create checkout", ErrProvider)
	}

	payment := models.Payment{
		OrderID:               ord.ID,
		Amount:                ord.TotalAmount,
		Method:                method,
		TransactionID:         ck.ProviderOrderID,
		StripePaymentIntentID: ck.IntentID,
		PaymentStatus:         models.PaymentStatusPending,
	}
	if err := g.db.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, err
	}

	return &InitiateResult{
		ClientSecret: ck.ClientSecret,
		OrderID:      ck.ProviderOrderID,
		PaymentID:    payment.ID,
	}, nil
}

// CapturePayPal executes the capture with the provider, then settles the
// local Payment and Order in one transaction. A successful capture with no
// matching Payment row is a silent no-op; a provider failure is not.
func (g *Gateway) CapturePayPal(ctx context.Context, providerOrderID string) error {
	provider, ok := g.providers[models.PaymentMethodPayPal]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedMethod, models.PaymentMethodPayPal)
	}

	if err := provider.Capture(ctx, providerOrderID); err != nil {
		g.log.Error("provider capture failed",
			"provider_order_id", providerOrderID, "error", err)
		return fmt.Errorf("%w: capture", ErrProvider)
	}

	var payment models.Payment
	err := g.db.WithContext(ctx).
		Where("transaction_id = ?", providerOrderID).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			g.log.Warn("captured payment has no local record",
				"provider_order_id", providerOrderID)
			return nil
		}
		return err
	}

	return g.orders.CompletePayment(ctx, payment.ID, providerOrderID)
}
