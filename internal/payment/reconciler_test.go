package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/velora-labs/storefront/internal/models"
	"github.com/velora-labs/storefront/internal/service/order"
)

func seedOrderWithIntent(t *testing.T, orders *order.Service, intentID string) *models.Order {
	t.Helper()
	ord, err := orders.Create(context.Background(), order.CreateInput{
		UserID:      1,
		TotalAmount: 100,
		Items:       []order.ItemInput{{VariantID: 5, Quantity: 2, PriceAtTime: 50}},
		Payment: &order.PaymentInput{
			Method:                models.PaymentMethodStripe,
			StripePaymentIntentID: intentID,
		},
	})
	require.NoError(t, err)
	return ord
}

func TestHandleEventSucceeded(t *testing.T) {
	db := newTestDB(t)
	orders := order.NewService(db)
	ord := seedOrderWithIntent(t, orders, "pi_ok")

	r := NewReconciler(db, orders, nil, discardLogger())
	require.NoError(t, r.HandleEvent(context.Background(), EventPaymentSucceeded, "pi_ok"))

	reloaded, err := orders.Get(context.Background(), ord.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusPaid, reloaded.Status)
	require.Equal(t, models.PaymentStatusCompleted, reloaded.Payment.PaymentStatus)
	require.Equal(t, "pi_ok", reloaded.Payment.TransactionID)
	require.NotNil(t, reloaded.Payment.PaymentDate)
}

func TestHandleEventFailed(t *testing.T) {
	db := newTestDB(t)
	orders := order.NewService(db)
	ord := seedOrderWithIntent(t, orders, "pi_bad")

	r := NewReconciler(db, orders, nil, discardLogger())
	require.NoError(t, r.HandleEvent(context.Background(), EventPaymentFailed, "pi_bad"))

	reloaded, err := orders.Get(context.Background(), ord.ID)
	require.NoError(t, err)
	// A failed payment does not cancel the order.
	require.Equal(t, models.OrderStatusPending, reloaded.Status)
	require.Equal(t, models.PaymentStatusFailed, reloaded.Payment.PaymentStatus)
	require.Equal(t, "pi_bad", reloaded.Payment.TransactionID)
}

func TestHandleEventUnknownIntent(t *testing.T) {
	db := newTestDB(t)
	orders := order.NewService(db)
	ord := seedOrderWithIntent(t, orders, "pi_known")

	r := NewReconciler(db, orders, nil, discardLogger())
	require.NoError(t, r.HandleEvent(context.Background(), EventPaymentSucceeded, "pi_other"))

	reloaded, err := orders.Get(context.Background(), ord.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusPending, reloaded.Status)
	require.Equal(t, models.PaymentStatusPending, reloaded.Payment.PaymentStatus)
}

func TestHandleEventIgnoredType(t *testing.T) {
	db := newTestDB(t)
	orders := order.NewService(db)
	ord := seedOrderWithIntent(t, orders, "pi_known")

	r := NewReconciler(db, orders, nil, discardLogger())
	require.NoError(t, r.HandleEvent(context.Background(), "charge.refunded", "pi_known"))

	reloaded, err := orders.Get(context.Background(), ord.ID)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusPending, reloaded.Payment.PaymentStatus)
}

func TestHandleEventEmptyIntentID(t *testing.T) {
	db := newTestDB(t)
	orders := order.NewService(db)

	// A PayPal payment never gets a stripe_payment_intent_id; an event with
	// an empty id must not match it.
	ord, err := orders.Create(context.Background(), order.CreateInput{
		UserID:      1,
		TotalAmount: 100,
		Items:       []order.ItemInput{{VariantID: 5, Quantity: 2, PriceAtTime: 50}},
		Payment:     &order.PaymentInput{Method: models.PaymentMethodPayPal},
	})
	require.NoError(t, err)

	r := NewReconciler(db, orders, nil, discardLogger())
	require.NoError(t, r.HandleEvent(context.Background(), EventPaymentSucceeded, ""))

	reloaded, err := orders.Get(context.Background(), ord.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusPending, reloaded.Status)
	require.Equal(t, models.PaymentStatusPending, reloaded.Payment.PaymentStatus)
}

func TestHandleEventRepeated(t *testing.T) {
	db := newTestDB(t)
	orders := order.NewService(db)
	ord := seedOrderWithIntent(t, orders, "pi_dup")

	r := NewReconciler(db, orders, nil, discardLogger())
	require.NoError(t, r.HandleEvent(context.Background(), EventPaymentSucceeded, "pi_dup"))
	require.NoError(t, r.HandleEvent(context.Background(), EventPaymentSucceeded, "pi_dup"))
	require.NoError(t, r.HandleEvent(context.Background(), EventPaymentFailed, "pi_dup"))

	reloaded, err := orders.Get(context.Background(), ord.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusPaid, reloaded.Status)
	require.Equal(t, models.PaymentStatusCompleted, reloaded.Payment.PaymentStatus)
}
