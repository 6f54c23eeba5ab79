package services_test

import (
	"context"
	"time"

	apperrors "storefront/common/errors"
	"storefront/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ---- mock order repository ----

// mockOrderRepo mimics the transactional semantics of the real
// repository: CreateWithItems persists nothing unless every stock
// decrement can be satisfied.
type mockOrderRepo struct {
	orders      map[uuid.UUID]*models.Order
	stock       map[uuid.UUID]int
	cartCleared map[uuid.UUID]bool
	createErr   error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		orders:      make(map[uuid.UUID]*models.Order),
		stock:       make(map[uuid.UUID]int),
		cartCleared: make(map[uuid.UUID]bool),
	}
}

func (m *mockOrderRepo) CreateWithItems(_ context.Context, order *models.Order) error {
	if m.createErr != nil {
		return m.createErr
	}

	// All-or-nothing: verify every conditional decrement before
	// applying any, the way a rolled-back transaction nets out.
	for _, item := range order.Items {
		if m.stock[item.ProductID] < item.Quantity {
			return &apperrors.OutOfStockError{Product: item.ProductName}
		}
	}
	for _, item := range order.Items {
		m.stock[item.ProductID] -= item.Quantity
	}

	order.ID = uuid.New()
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
	}
	m.orders[order.ID] = order
	m.cartCleared[order.UserID] = true
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, orderID uuid.UUID) (*models.Order, error) {
	o, ok := m.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) FindByIDAndUserID(_ context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	o, ok := m.orders[orderID]
	if !ok || o.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) FindByUserID(_ context.Context, userID uuid.UUID, _, _ int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockOrderRepo) FindAll(_ context.Context, status string, _, _ int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range m.orders {
		if status == "" || o.Status == status {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, orderID uuid.UUID, status string) error {
	o, ok := m.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (m *mockOrderRepo) UpdatePaymentStatus(_ context.Context, orderID uuid.UUID, paymentStatus string) error {
	o, ok := m.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.PaymentStatus = paymentStatus
	return nil
}

// ---- mock payment repository ----

type mockPaymentRepo struct {
	payments  []*models.Payment
	createErr error
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{}
}

func (m *mockPaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	if m.createErr != nil {
		return m.createErr
	}
	payment.ID = uuid.New()
	payment.CreatedAt = time.Now().Add(time.Duration(len(m.payments)) * time.Millisecond)
	m.payments = append(m.payments, payment)
	return nil
}

func (m *mockPaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Payment, error) {
	for _, p := range m.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentRepo) FindByOrderID(_ context.Context, orderID uuid.UUID) (*models.Payment, error) {
	// Newest first, matching the created_at DESC query.
	for i := len(m.payments) - 1; i >= 0; i-- {
		if m.payments[i].OrderID == orderID {
			return m.payments[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentRepo) FindByTransactionID(_ context.Context, transactionID string) (*models.Payment, error) {
	for _, p := range m.payments {
		if p.TransactionID == transactionID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentRepo) FindByUserID(_ context.Context, userID uuid.UUID, _, _ int) ([]models.Payment, int64, error) {
	var out []models.Payment
	for _, p := range m.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockPaymentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) (*models.Payment, error) {
	for _, p := range m.payments {
		if p.ID == id {
			p.Status = status
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ---- mock cart repository ----

type mockCartRepo struct {
	lines   map[uuid.UUID][]models.CartLine
	getErr  error
	cleared map[uuid.UUID]bool
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{
		lines:   make(map[uuid.UUID][]models.CartLine),
		cleared: make(map[uuid.UUID]bool),
	}
}

func (m *mockCartRepo) GetLines(_ context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.lines[userID], nil
}

func (m *mockCartRepo) GetTotal(_ context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range m.lines[userID] {
		total = total.Add(l.Subtotal())
	}
	return total, nil
}

func (m *mockCartRepo) Clear(_ context.Context, userID uuid.UUID) error {
	m.cleared[userID] = true
	delete(m.lines, userID)
	return nil
}
