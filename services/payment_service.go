package services

import (
	"context"
	"errors"
	"time"

	apperrors "storefront/common/errors"
	"storefront/models"
	"storefront/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentResult is the outcome of one settlement attempt. A declined
// payment is a normal business outcome, not a Go error: callers branch
// on Status to decide how the order reacts.
type PaymentResult struct {
	Success       bool            `json:"success"`
	Payment       *models.Payment `json:"payment,omitempty"`
	TransactionID string          `json:"transaction_id"`
	Status        string          `json:"status"`
	Error         string          `json:"error,omitempty"`
}

const declinedMessage = "Payment was declined. Please try another payment method."

// PaymentService runs payment attempts through validation and the
// gateway and records every attempt, failed ones included, as an
// append-only audit ledger.
type PaymentService struct {
	payments repository.PaymentRepository
	gateway  Gateway
	logger   *zap.Logger
	now      func() time.Time
}

func NewPaymentService(payments repository.PaymentRepository, gateway Gateway, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		payments: payments,
		gateway:  gateway,
		logger:   logger,
		now:      time.Now,
	}
}

// Process validates the payment input, lets the gateway decide the
// outcome, and persists a Payment row for the attempt. Only an
// infrastructure failure returns a non-nil error.
func (s *PaymentService) Process(ctx context.Context, userID, orderID uuid.UUID, amount decimal.Decimal, method string, card *CardDetails) (*PaymentResult, error) {
	transactionID := NewTransactionID()

	status := models.PaymentStatusFailed
	resultErr := ""

	if err := ValidateCard(method, card, s.now()); err != nil {
		resultErr = err.Error()
	} else {
		status = s.gateway.Charge(ChargeRequest{
			UserID:  userID,
			OrderID: orderID,
			Amount:  amount,
			Method:  method,
			Card:    card,
		})
		if status == models.PaymentStatusFailed {
			resultErr = declinedMessage
		}
	}

	payment := &models.Payment{
		UserID:        userID,
		OrderID:       orderID,
		TransactionID: transactionID,
		Amount:        amount,
		PaymentMethod: method,
		Status:        status,
	}
	if card != nil && card.Number != "" {
		number := CleanCardNumber(card.Number)
		if len(number) >= 4 {
			payment.CardLastFour = number[len(number)-4:]
		}
		payment.CardBrand = DetectCardBrand(number)
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		s.logger.Error("failed to persist payment attempt",
			zap.String("order_id", orderID.String()),
			zap.String("transaction_id", transactionID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("payment attempt recorded",
		zap.String("order_id", orderID.String()),
		zap.String("transaction_id", transactionID),
		zap.String("method", method),
		zap.String("status", status),
	)

	return &PaymentResult{
		Success:       status == models.PaymentStatusCompleted,
		Payment:       payment,
		TransactionID: transactionID,
		Status:        status,
		Error:         resultErr,
	}, nil
}

// GetPaymentByOrder returns the most recent payment for an order.
// Only the payment's owner or an admin may see it.
func (s *PaymentService) GetPaymentByOrder(ctx context.Context, userID uuid.UUID, role string, orderID uuid.UUID) (*models.Payment, error) {
	payment, err := s.payments.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, err
	}

	if role != "admin" && payment.UserID != userID {
		return nil, apperrors.ErrForbidden
	}

	return payment, nil
}

// GetUserPayments returns the user's payment history, newest first.
func (s *PaymentService) GetUserPayments(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Payment, int64, error) {
	return s.payments.FindByUserID(ctx, userID, page, limit)
}
