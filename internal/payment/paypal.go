package payment

import (
	"context"
	"strconv"

	"github.com/plutov/paypal/v4"

	"github.com/velora-labs/storefront/internal/models"
)

type paypalProvider struct {
	client *paypal.Client
}

func NewPayPalProvider(clientID, secret string, live bool) (Provider, error) {
	base := paypal.APIBaseSandBox
	if live {
		base = paypal.APIBaseLive
	}
	c, err := paypal.NewClient(clientID, secret, base)
	if err != nil {
		return nil, err
	}
	return &paypalProvider{client: c}, nil
}

func (p *paypalProvider) CreateCheckout(ctx context.Context, ord *models.Order) (*Checkout, error) {
	if ord.TotalAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	units := []paypal.PurchaseUnitRequest{{
		ReferenceID: strconv.FormatUint(uint64(ord.ID), 10),
		Amount: &paypal.PurchaseUnitAmount{
			Currency: "USD",
			Value:    strconv.FormatFloat(ord.TotalAmount, 'f', 2, 64),
		},
	}}

	po, err := p.client.CreateOrder(ctx, paypal.OrderIntentCapture, units, nil, nil)
	if err != nil {
		return nil, err
	}

	return &Checkout{ProviderOrderID: po.ID}, nil
}

func (p *paypalProvider) Capture(ctx context.Context, providerOrderID string) error {
	_, err := p.client.CaptureOrder(ctx, providerOrderID, paypal.CaptureOrderRequest{})
	return err
}
