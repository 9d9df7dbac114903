package payment

import (
	"context"
	"errors"

	"github.com/velora-labs/storefront/internal/models"
)

var (
	ErrUnsupportedMethod = errors.New("unsupported payment method") // 400
	ErrInvalidAmount     = errors.New("order not found or invalid amount")
	ErrProvider          = errors.New("payment provider request failed") // 500
)

// Checkout is the provider handle handed back to the client: Stripe fills
// IntentID and ClientSecret, PayPal fills ProviderOrderID.
type Checkout struct {
	IntentID        string
	ClientSecret    string
	ProviderOrderID string
}

// Provider is the capability every payment processor implements. Adding a
// processor means adding an implementation and registering it with the
// Gateway, nothing else.
type Provider interface {
	CreateCheckout(ctx context.Context, ord *models.Order) (*Checkout, error)
	Capture(ctx context.Context, providerOrderID string) error
}

// Config carries provider credentials, injected at construction instead of
// read from the environment inside the adapter.
type Config struct {
	StripeSecretKey     string
	StripeWebhookSecret string
	PayPalClientID      string
	PayPalClientSecret  string
	PayPalLive          bool
}
