package services

import (
	"context"
	"errors"
	"fmt"

	apperrors "storefront/common/errors"
	"storefront/models"
	"storefront/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PlaceOrderRequest is the checkout payload. Shipping fields are
// required; card details only when the method needs them.
type PlaceOrderRequest struct {
	ShippingAddress    string       `json:"shipping_address" binding:"required"`
	ShippingCity       string       `json:"shipping_city" binding:"required"`
	ShippingPostalCode string       `json:"shipping_postal_code" binding:"required"`
	ShippingCountry    string       `json:"shipping_country" binding:"required"`
	PaymentMethod      string       `json:"payment_method" binding:"required"`
	CardDetails        *CardDetails `json:"card_details"`
}

// SettlementResult is the consolidated outcome of a checkout: the
// hydrated order, the payment attempt, and a human-readable message.
type SettlementResult struct {
	Order         *models.Order   `json:"order"`
	Payment       *models.Payment `json:"payment"`
	TransactionID string          `json:"transaction_id"`
	Status        string          `json:"status"`
	Message       string          `json:"message"`
}

// CheckoutService coordinates settlement: it materializes the cart
// into an order atomically, runs the payment attempt, and applies the
// resulting order and payment status transitions.
type CheckoutService struct {
	orders   repository.OrderRepository
	payments repository.PaymentRepository
	cart     repository.CartRepository
	payment  *PaymentService
	logger   *zap.Logger
}

func NewCheckoutService(
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
	cart repository.CartRepository,
	payment *PaymentService,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		orders:   orders,
		payments: payments,
		cart:     cart,
		payment:  payment,
		logger:   logger,
	}
}

// PlaceOrder runs the full settlement workflow for a user's cart.
//
// The order, its item snapshots, the stock decrements and the cart
// clear commit as one transaction before any payment is attempted. A
// declined payment does not roll the order back: the row stays, its
// payment status moves to failed, and the returned error carries the
// order and transaction ids so the failure is traceable and the
// payment retryable.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, req *PlaceOrderRequest) (*SettlementResult, error) {
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return nil, apperrors.ErrInvalidPaymentMethod
	}

	lines, err := s.cart.GetLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		subtotal := line.Subtotal()
		total = total.Add(subtotal)
		items = append(items, models.OrderItem{
			ProductID:    line.ProductID,
			ProductName:  line.Name,
			ProductPrice: line.UnitPrice,
			Quantity:     line.Quantity,
			Subtotal:     subtotal,
		})
	}

	order := &models.Order{
		UserID:             userID,
		Total:              total,
		Status:             models.OrderStatusPending,
		PaymentStatus:      models.OrderPaymentPending,
		ShippingAddress:    req.ShippingAddress,
		ShippingCity:       req.ShippingCity,
		ShippingPostalCode: req.ShippingPostalCode,
		ShippingCountry:    req.ShippingCountry,
		PaymentMethod:      req.PaymentMethod,
		Items:              items,
	}

	if err := s.orders.CreateWithItems(ctx, order); err != nil {
		var oos *apperrors.OutOfStockError
		if errors.As(err, &oos) {
			return nil, err
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("total", total.String()),
	)

	return s.settle(ctx, userID, order, req.PaymentMethod, req.CardDetails)
}

// ProcessPayment settles an existing order, e.g. a retry after a
// declined attempt. Admins may pay any order, owners only their own.
func (s *CheckoutService) ProcessPayment(ctx context.Context, userID uuid.UUID, role string, orderID uuid.UUID, method string, card *CardDetails) (*SettlementResult, error) {
	if !models.ValidPaymentMethod(method) {
		return nil, apperrors.ErrInvalidPaymentMethod
	}

	var order *models.Order
	var err error
	if role == "admin" {
		order, err = s.orders.FindByID(ctx, orderID)
	} else {
		order, err = s.orders.FindByIDAndUserID(ctx, orderID, userID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	if order.PaymentStatus == models.OrderPaymentPaid {
		return nil, apperrors.ErrAlreadyPaid
	}

	return s.settle(ctx, userID, order, method, card)
}

// settle runs the payment attempt and applies the status transition
// table shared by checkout and pay-later:
//
//	completed -> order processing, payment status paid
//	pending   -> order unchanged,  payment status pending (COD)
//	failed    -> order unchanged,  payment status failed
func (s *CheckoutService) settle(ctx context.Context, userID uuid.UUID, order *models.Order, method string, card *CardDetails) (*SettlementResult, error) {
	result, err := s.payment.Process(ctx, userID, order.ID, order.Total, method, card)
	if err != nil {
		return nil, fmt.Errorf("process payment: %w", err)
	}

	switch result.Status {
	case models.PaymentStatusCompleted:
		if err := s.orders.UpdatePaymentStatus(ctx, order.ID, models.OrderPaymentPaid); err != nil {
			return nil, fmt.Errorf("update payment status: %w", err)
		}
		if order.Status == models.OrderStatusPending {
			if err := s.orders.UpdateStatus(ctx, order.ID, models.OrderStatusProcessing); err != nil {
				return nil, fmt.Errorf("update order status: %w", err)
			}
		}
	case models.PaymentStatusPending:
		if err := s.orders.UpdatePaymentStatus(ctx, order.ID, models.OrderPaymentPending); err != nil {
			return nil, fmt.Errorf("update payment status: %w", err)
		}
	default:
		if err := s.orders.UpdatePaymentStatus(ctx, order.ID, models.OrderPaymentFailed); err != nil {
			return nil, fmt.Errorf("update payment status: %w", err)
		}
		s.logger.Warn("payment declined",
			zap.String("order_id", order.ID.String()),
			zap.String("transaction_id", result.TransactionID),
		)
		return nil, &apperrors.PaymentDeclinedError{
			OrderID:       order.ID,
			TransactionID: result.TransactionID,
			Reason:        result.Error,
		}
	}

	hydrated, err := s.orders.FindByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}

	message := "Payment processed successfully!"
	if result.Status == models.PaymentStatusPending {
		message = "Order placed. Payment will be collected on delivery."
	}

	return &SettlementResult{
		Order:         hydrated,
		Payment:       result.Payment,
		TransactionID: result.TransactionID,
		Status:        result.Status,
		Message:       message,
	}, nil
}

// Refund reverses a settled payment. The reference may be a
// transaction id or, as a fallback, a payment id. The payment moves to
// refunded and the order is cancelled with its payment status mirrored.
func (s *CheckoutService) Refund(ctx context.Context, ref string) (*models.Payment, error) {
	payment, err := s.payments.FindByTransactionID(ctx, ref)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find payment: %w", err)
		}
		id, parseErr := uuid.Parse(ref)
		if parseErr != nil {
			return nil, apperrors.ErrPaymentNotFound
		}
		payment, err = s.payments.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrPaymentNotFound
			}
			return nil, fmt.Errorf("find payment: %w", err)
		}
	}

	updated, err := s.payments.UpdateStatus(ctx, payment.ID, models.PaymentStatusRefunded)
	if err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}

	if err := s.orders.UpdatePaymentStatus(ctx, payment.OrderID, models.OrderPaymentRefunded); err != nil {
		return nil, fmt.Errorf("update order payment status: %w", err)
	}
	if err := s.orders.UpdateStatus(ctx, payment.OrderID, models.OrderStatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	s.logger.Info("payment refunded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("order_id", payment.OrderID.String()),
		zap.String("transaction_id", payment.TransactionID),
	)

	return updated, nil
}
