package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/velora-labs/storefront/internal/models"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
)

// Service keeps Order, OrderItem and Payment rows mutually consistent.
// Every multi-row mutation runs inside a single database transaction, and
// status changes that touch both Order and Payment go through it.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

type ItemInput struct {
	VariantID   uint    `json:"variant_id"`
	Quantity    uint    `json:"quantity"`
	PriceAtTime float64 `json:"price_at_time"`
}

type PaymentInput struct {
	Method                models.PaymentMethod `json:"method"`
	TransactionID         string               `json:"transaction_id"`
	StripePaymentIntentID string               `json:"stripe_payment_intent_id"`
}

type CreateInput struct {
	UserID               uint          `json:"user_id"`
	TotalAmount          float64       `json:"total_amount"`
	ExpectedDeliveryDate *time.Time    `json:"expected_delivery_date"`
	CouponID             *uint         `json:"coupon_id"`
	DiscountAmount       float64       `json:"discount_amount"`
	Items                []ItemInput   `json:"items"`
	Payment              *PaymentInput `json:"payment"`
}

func (in CreateInput) validate() error {
	if in.UserID == 0 {
		return fmt.Errorf("%w: user_id required", ErrValidation)
	}
	if in.TotalAmount <= 0 {
		return fmt.Errorf("%w: total_amount required", ErrValidation)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: items required", ErrValidation)
	}
	for i := range in.Items {
		if in.Items[i].VariantID == 0 {
			return fmt.Errorf("%w: variant_id required", ErrValidation)
		}
		if in.Items[i].Quantity < 1 {
			return fmt.Errorf("%w: quantity must be >= 1", ErrValidation)
		}
		if in.Items[i].PriceAtTime < 0 {
			return fmt.Errorf("%w: price_at_time must be >= 0", ErrValidation)
		}
	}
	if in.Payment != nil && !in.Payment.Method.Valid() {
		return fmt.Errorf("%w: unsupported payment method %q", ErrValidation, in.Payment.Method)
	}
	return nil
}

// Create inserts the Order, its items and the optional pending Payment in
// one all-or-nothing transaction. Validation failures happen before any
// database write.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	delivery := now
	if in.ExpectedDeliveryDate != nil {
		delivery = *in.ExpectedDeliveryDate
	}

	ord := models.Order{
		UserID:               in.UserID,
		OrderDate:            now,
		ExpectedDeliveryDate: delivery,
		Status:               models.OrderStatusPending,
		TotalAmount:          in.TotalAmount,
		CouponID:             in.CouponID,
		DiscountAmount:       in.DiscountAmount,
	}

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ord).Error; err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			items = append(items, models.OrderItem{
				OrderID:     ord.ID,
				VariantID:   it.VariantID,
				Quantity:    it.Quantity,
				PriceAtTime: it.PriceAtTime,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		if in.Payment != nil {
			payment := models.Payment{
				OrderID:               ord.ID,
				Amount:                in.TotalAmount,
				Method:                in.Payment.Method,
				TransactionID:         in.Payment.TransactionID,
				StripePaymentIntentID: in.Payment.StripePaymentIntentID,
				PaymentStatus:         models.PaymentStatusPending,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.Get(ctx, ord.ID)
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Order, error) {
	var ord models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		First(&ord, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &ord, nil
}

func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus is the single path that moves an order between statuses.
// Marking an order paid also completes its pending Payment, inside the
// same transaction, so the two rows never disagree.
func (s *Service) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid order status %q", ErrValidation, status)
	}

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ord models.Order
		if err := tx.First(&ord, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d", ErrNotFound, id)
			}
			return err
		}

		if err := tx.Model(&ord).Update("status", status).Error; err != nil {
			return err
		}

		if status == models.OrderStatusPaid {
			var payment models.Payment
			err := tx.Where("order_id = ?", id).First(&payment).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err == nil && payment.PaymentStatus.CanTransitionTo(models.PaymentStatusCompleted) {
				now := time.Now()
				updates := map[string]interface{}{
					"payment_status": models.PaymentStatusCompleted,
					"payment_date":   &now,
				}
				if err := tx.Model(&payment).Updates(updates).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.Get(ctx, id)
}

// Delete removes the order's Payment and OrderItem rows along with the
// Order itself. Zero deleted order rows rolls back and reports not-found.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil
	})
}

// CompletePayment marks a payment completed and its order paid in one
// transaction. Both the webhook reconciler and the direct capture path go
// through here. Payments already in a terminal state are left untouched,
// which makes repeated provider notifications harmless.
func (s *Service) CompletePayment(ctx context.Context, paymentID uint, transactionID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: payment %d", ErrNotFound, paymentID)
			}
			return err
		}

		if !payment.PaymentStatus.CanTransitionTo(models.PaymentStatusCompleted) {
			return nil
		}

		now := time.Now()
		updates := map[string]interface{}{
			"payment_status": models.PaymentStatusCompleted,
			"payment_date":   &now,
		}
		if transactionID != "" {
			updates["transaction_id"] = transactionID
		}
		if err := tx.Model(&payment).Updates(updates).Error; err != nil {
			return err
		}

		return tx.Model(&models.Order{}).
			Where("id = ?", payment.OrderID).
			Update("status", models.OrderStatusPaid).Error
	})
}

// FailPayment marks a payment failed. The order stays pending: a failed
// payment does not cancel the order.
func (s *Service) FailPayment(ctx context.Context, paymentID uint, transactionID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: payment %d", ErrNotFound, paymentID)
			}
			return err
		}

		if !payment.PaymentStatus.CanTransitionTo(models.PaymentStatusFailed) {
			return nil
		}

		updates := map[string]interface{}{
			"payment_status": models.PaymentStatusFailed,
		}
		if transactionID != "" {
			updates["transaction_id"] = transactionID
		}
		return tx.Model(&payment).Updates(updates).Error
	})
}
