package errors

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error types
var (
	ErrBadRequest     = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized   = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden      = New(http.StatusForbidden, "Access denied", nil)
	ErrNotFound       = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

// Business rule error types
var (
	ErrEmptyCart            = New(http.StatusBadRequest, "Cart is empty", nil)
	ErrAlreadyPaid          = New(http.StatusBadRequest, "Order is already paid", nil)
	ErrInvalidOrderStatus   = New(http.StatusBadRequest, "Invalid status", nil)
	ErrInvalidPaymentMethod = New(http.StatusBadRequest, "Invalid payment method", nil)
	ErrOrderNotFound        = New(http.StatusNotFound, "Order not found", nil)
	ErrPaymentNotFound      = New(http.StatusNotFound, "Payment not found", nil)
)

// OutOfStockError is returned when a stock decrement cannot be satisfied.
// The whole order transaction is rolled back when it occurs.
type OutOfStockError struct {
	Product string
}

func (e *OutOfStockError) Error() string {
	return "insufficient stock for product: " + e.Product
}

// PaymentDeclinedError is a declined settlement. The order row is kept so
// the failure stays traceable and the caller can retry payment later.
type PaymentDeclinedError struct {
	OrderID       uuid.UUID
	TransactionID string
	Reason        string
}

func (e *PaymentDeclinedError) Error() string {
	return e.Reason
}
