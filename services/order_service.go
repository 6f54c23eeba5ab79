package services

import (
	"context"
	"errors"

	apperrors "storefront/common/errors"
	"storefront/models"
	"storefront/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderListResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

type MetaData struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalOrders int64 `json:"total_orders"`
	TotalPages  int64 `json:"total_pages"`
	HasMore     bool  `json:"has_more"`
}

// OrderService serves the order query surface around the settlement
// core: listings, lookups, and the admin status update.
type OrderService struct {
	orders repository.OrderRepository
	logger *zap.Logger
}

func NewOrderService(orders repository.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{orders: orders, logger: logger}
}

// GetUserOrders retrieves paginated orders for a specific user
func (s *OrderService) GetUserOrders(ctx context.Context, userID uuid.UUID, page, limit int) (*OrderListResponse, error) {
	orders, total, err := s.orders.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		s.logger.Error("failed to fetch user orders",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return &OrderListResponse{
		Orders: orders,
		Meta:   buildMeta(page, limit, total),
	}, nil
}

// GetAllOrders retrieves paginated orders across users, optionally
// filtered by status (admin only, enforced at the route)
func (s *OrderService) GetAllOrders(ctx context.Context, status string, page, limit int) (*OrderListResponse, error) {
	if status != "" && !models.ValidOrderStatus(status) {
		return nil, apperrors.ErrInvalidOrderStatus
	}

	orders, total, err := s.orders.FindAll(ctx, status, page, limit)
	if err != nil {
		s.logger.Error("failed to fetch all orders", zap.Error(err))
		return nil, err
	}

	return &OrderListResponse{
		Orders: orders,
		Meta:   buildMeta(page, limit, total),
	}, nil
}

// GetOrderByID retrieves one order with items; owners see their own,
// admins any.
func (s *OrderService) GetOrderByID(ctx context.Context, userID uuid.UUID, role string, orderID uuid.UUID) (*models.Order, error) {
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
		return nil, err
	}

	return order, nil
}

// UpdateStatus moves an order to a new lifecycle status (admin only,
// enforced at the route).
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, apperrors.ErrInvalidOrderStatus
	}

	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}

	return s.orders.FindByID(ctx, orderID)
}

func buildMeta(page, limit int, total int64) MetaData {
	return MetaData{
		Page:        page,
		Limit:       limit,
		TotalOrders: total,
		TotalPages:  calculateTotalPages(total, limit),
		HasMore:     total > int64(page*limit),
	}
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
