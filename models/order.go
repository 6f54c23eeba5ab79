package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. Orders are never deleted; they only move between
// these states.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order payment states, mirrored from the latest payment attempt.
const (
	OrderPaymentPending  = "pending"
	OrderPaymentPaid     = "paid"
	OrderPaymentFailed   = "failed"
	OrderPaymentRefunded = "refunded"
)

type Order struct {
	ID                 uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Total              decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`
	Status             string          `gorm:"type:varchar(30);not null;default:'pending'" json:"status"`
	PaymentStatus      string          `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	ShippingAddress    string          `gorm:"type:text;not null" json:"shipping_address"`
	ShippingCity       string          `gorm:"type:varchar(100);not null" json:"shipping_city"`
	ShippingPostalCode string          `gorm:"type:varchar(20);not null" json:"shipping_postal_code"`
	ShippingCountry    string          `gorm:"type:varchar(100);not null" json:"shipping_country"`
	PaymentMethod      string          `gorm:"type:varchar(50);not null;default:'credit_card'" json:"payment_method"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	Items              []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem is a frozen snapshot of the product at purchase time, so
// later price changes or product deletions never alter an order.
type OrderItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	ProductName  string          `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"product_price"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	Subtotal     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`
}

// ValidOrderStatus reports whether s is one of the allowed order states.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
