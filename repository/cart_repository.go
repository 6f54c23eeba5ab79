package repository

import (
	"context"

	"storefront/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartRepository is the checkout-facing view of a user's cart. Cart
// item CRUD lives with the storefront API; settlement only ever reads
// lines, totals them, and clears the cart once an order exists.
type CartRepository interface {
	GetLines(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	GetTotal(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new instance of GormCartRepository
func NewGormCartRepository(db *gorm.DB) CartRepository {
	return &GormCartRepository{db: db}
}

// GetLines joins cart items against the live product catalog, so the
// price seen at checkout is the product's current price.
func (r *GormCartRepository) GetLines(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine

	err := r.db.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.product_id, products.name, products.price AS unit_price, cart_items.quantity").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.created_at DESC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}

	return lines, nil
}

// GetTotal sums the line subtotals of the user's cart.
func (r *GormCartRepository) GetTotal(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	lines, err := r.GetLines(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total, nil
}

// Clear removes every cart item for the user.
func (r *GormCartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}
