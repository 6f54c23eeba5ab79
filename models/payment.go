package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment statuses.
const (
	PaymentStatusCompleted = "completed"
	PaymentStatusPending   = "pending"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Payment methods accepted at checkout.
const (
	MethodCreditCard     = "credit_card"
	MethodDebitCard      = "debit_card"
	MethodPayPal         = "paypal"
	MethodCashOnDelivery = "cash-on-delivery"
)

// Payment is one settlement attempt against an order. Attempts are
// append-only: a retry after a failure inserts a new row, and the most
// recent row for an order is the authoritative one. Rows are kept even
// for failed attempts as an audit trail.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	TransactionID string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"transaction_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	PaymentMethod string          `gorm:"type:varchar(50);not null" json:"payment_method"`
	CardLastFour  string          `gorm:"type:varchar(4)" json:"card_last_four,omitempty"`
	CardBrand     string          `gorm:"type:varchar(20)" json:"card_brand,omitempty"`
	Status        string          `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodPayPal, MethodCashOnDelivery:
		return true
	}
	return false
}

// IsCardMethod reports whether m requires card details.
func IsCardMethod(m string) bool {
	return m == MethodCreditCard || m == MethodDebitCard
}
