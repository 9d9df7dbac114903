package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/velora-labs/storefront/internal/events"
	"github.com/velora-labs/storefront/internal/models"
	"github.com/velora-labs/storefront/internal/service/order"
)

const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// Reconciler applies asynchronous provider events to local Payment and
// Order state. It must only ever see payloads whose signature the HTTP
// boundary has already verified.
type Reconciler struct {
	db       *gorm.DB
	orders   *order.Service
	producer *events.Producer
	log      *slog.Logger
}

func NewReconciler(db *gorm.DB, orders *order.Service, producer *events.Producer, log *slog.Logger) *Reconciler {
	return &Reconciler{db: db, orders: orders, producer: producer, log: log}
}

// HandleEvent routes a verified provider event. Events referencing an
// unknown intent and event types outside the two we track are no-ops.
func (r *Reconciler) HandleEvent(ctx context.Context, eventType, intentID string) error {
	switch eventType {
	case EventPaymentSucceeded:
		return r.settle(ctx, intentID, true)
	case EventPaymentFailed:
		return r.settle(ctx, intentID, false)
	default:
		return nil
	}
}

func (r *Reconciler) settle(ctx context.Context, intentID string, succeeded bool) error {
	// An empty intent id would match rows that never had one, like PayPal
	// payments. Drop the event instead.
	if intentID == "" {
		r.log.Warn("webhook event without payment intent id")
		return nil
	}

	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("stripe_payment_intent_id = ?", intentID).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("webhook for unknown payment intent", "intent_id", intentID)
			return nil
		}
		return err
	}

	if succeeded {
		if err := r.orders.CompletePayment(ctx, payment.ID, intentID); err != nil {
			return err
		}
	} else {
		if err := r.orders.FailPayment(ctx, payment.ID, intentID); err != nil {
			return err
		}
	}

	r.publish(ctx, &payment, succeeded)
	return nil
}

func (r *Reconciler) publish(ctx context.Context, payment *models.Payment, succeeded bool) {
	eventType := "payment_failed"
	if succeeded {
		eventType = "payment_completed"
	}
	event := map[string]interface{}{
		"type":      eventType,
		"paymentID": payment.ID,
		"orderID":   payment.OrderID,
		"method":    payment.Method,
		"amount":    payment.Amount,
	}
	if err := r.producer.PublishEvent(ctx, events.TopicPaymentEvents, fmt.Sprint(payment.OrderID), event); err != nil {
		r.log.Error("payment event publish failed", "payment_id", payment.ID, "error", err)
	}
}
