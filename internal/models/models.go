package models

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// CanTransitionTo encodes the payment lifecycle: a pending payment may
// complete or fail, completed/failed/refunded are terminal.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	if s != PaymentStatusPending {
		return false
	}
	return next == PaymentStatusCompleted || next == PaymentStatusFailed
}

type PaymentMethod string

const (
	PaymentMethodStripe PaymentMethod = "stripe"
	PaymentMethodPayPal PaymentMethod = "paypal"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodStripe || m == PaymentMethodPayPal
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"          json:"id"`
	Token     string    `gorm:"unique;not null"     json:"token"`
	UserID    uint      `gorm:"index;not null"      json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"            json:"expires_at"`
	Revoked   bool      `gorm:"default:false"       json:"revoked"`
}

type Product struct {
	ID          uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string           `gorm:"not null"                 json:"name"`
	Description string           `gorm:"not null"                 json:"description"`
	Price       float64          `gorm:"not null"                 json:"price"`
	CategoryID  *uint            `gorm:"index"                    json:"category_id,omitempty"`
	BrandID     *uint            `gorm:"index"                    json:"brand_id,omitempty"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID"     json:"variants,omitempty"`
}

type ProductVariant struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint   `gorm:"index;not null"           json:"product_id"`
	SKU       string `gorm:"unique;not null"          json:"sku"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Stock     uint   `json:"stock"`
}

// Category is self-referential: a category may have one parent and any
// number of children. Deleting a category with children is rejected at the
// handler layer.
type Category struct {
	ID               uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string     `gorm:"size:100;unique;not null" json:"name"`
	Description      string     `json:"description,omitempty"`
	ParentCategoryID *uint      `gorm:"index"                    json:"parent_category_id,omitempty"`
	Parent           *Category  `gorm:"foreignKey:ParentCategoryID" json:"parent,omitempty"`
	Children         []Category `gorm:"foreignKey:ParentCategoryID" json:"children,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type Brand struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"unique;not null"          json:"name"`
	LogoURL     string    `json:"logo_url,omitempty"`
	Description string    `json:"description,omitempty"`
	Products    []Product `gorm:"foreignKey:BrandID"       json:"products,omitempty"`
}

type Coupon struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Code           string    `gorm:"unique;not null"          json:"code"`
	DiscountAmount float64   `gorm:"not null"                 json:"discount_amount"`
	ExpiresAt      time.Time `json:"expires_at"`
}

type Order struct {
	ID                   uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID               uint        `gorm:"index;not null"           json:"user_id"`
	OrderDate            time.Time   `gorm:"not null"                 json:"order_date"`
	ExpectedDeliveryDate time.Time   `json:"expected_delivery_date"`
	Status               OrderStatus `gorm:"not null"                 json:"status"`
	TotalAmount          float64     `gorm:"not null"                 json:"total_amount"`
	CouponID             *uint       `json:"coupon_id,omitempty"`
	DiscountAmount       float64     `gorm:"default:0"                json:"discount_amount"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`

	Items   []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Payment *Payment    `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
}

// OrderItem keys on (order_id, variant_id): one row per variant per order.
// PriceAtTime is the price captured when the order was placed and is never
// recomputed from the live product price.
type OrderItem struct {
	OrderID     uint    `gorm:"primaryKey"                  json:"order_id"`
	VariantID   uint    `gorm:"primaryKey"                  json:"variant_id"`
	Quantity    uint    `gorm:"not null;check:quantity>0"   json:"quantity"`
	PriceAtTime float64 `gorm:"not null"                    json:"price_at_time"`
}

type Payment struct {
	ID                    uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID               uint          `gorm:"index;not null"           json:"order_id"`
	Amount                float64       `gorm:"not null"                 json:"amount"`
	Method                PaymentMethod `gorm:"not null"                 json:"method"`
	TransactionID         string        `gorm:"size:100"                 json:"transaction_id,omitempty"`
	StripePaymentIntentID string        `gorm:"size:100;index"           json:"stripe_payment_intent_id,omitempty"`
	PaymentStatus         PaymentStatus `gorm:"not null"                 json:"payment_status"`
	PaymentDate           *time.Time    `json:"payment_date,omitempty"`
	CreatedAt             time.Time     `json:"created_at"`
}
