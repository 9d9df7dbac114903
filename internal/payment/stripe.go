package payment

import (
	"context"
	"math"
	"strconv"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/velora-labs/storefront/internal/models"
)

type stripeProvider struct {
	api *client.API
}

func NewStripeProvider(secretKey string) Provider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &stripeProvider{api: api}
}

func (p *stripeProvider) CreateCheckout(ctx context.Context, ord *models.Order) (*Checkout, error) {
	amount := int64(math.Round(ord.TotalAmount * 100))

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
	}
	params.Context = ctx
	params.AddMetadata("order_id", strconv.FormatUint(uint64(ord.ID), 10))

	intent, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, err
	}

	return &Checkout{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

func (p *stripeProvider) Capture(ctx context.Context, providerOrderID string) error {
	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx
	_, err := p.api.PaymentIntents.Capture(providerOrderID, params)
	return err
}
