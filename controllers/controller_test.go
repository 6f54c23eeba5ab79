package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "storefront/common/errors"
	"storefront/common/logger"
	"storefront/controllers"
	"storefront/models"
	"storefront/routes"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testSecret = []byte("test-secret")

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	m.Run()
}

// testEnv wires the real services over in-memory repositories behind a
// router with the real auth middleware, so tests exercise the full
// request path: token, binding, service, response shape.
type testEnv struct {
	router   *gin.Engine
	orders   *stubOrderRepo
	payments *stubPaymentRepo
	cart     *stubCartRepo
}

func newTestEnv() *testEnv {
	orders := &stubOrderRepo{
		orders: make(map[uuid.UUID]*models.Order),
		stock:  make(map[uuid.UUID]int),
	}
	payments := &stubPaymentRepo{}
	cart := &stubCartRepo{lines: make(map[uuid.UUID][]models.CartLine)}

	paymentSvc := services.NewPaymentService(payments, services.NewSimulatedGateway(), zap.NewNop())
	checkoutSvc := services.NewCheckoutService(orders, payments, cart, paymentSvc, zap.NewNop())
	orderSvc := services.NewOrderService(orders, zap.NewNop())

	router := gin.New()
	routes.Register(router,
		controllers.NewOrderController(checkoutSvc, orderSvc),
		controllers.NewPaymentController(checkoutSvc, paymentSvc),
		testSecret,
	)

	return &testEnv{router: router, orders: orders, payments: payments, cart: cart}
}

func (e *testEnv) seedCart(userID uuid.UUID) {
	productID := uuid.New()
	e.cart.lines[userID] = []models.CartLine{
		{ProductID: productID, Name: "Notebook", UnitPrice: decimal.RequireFromString("12.50"), Quantity: 2},
	}
	e.orders.stock[productID] = 10
}

func signToken(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID.String(),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// ---- in-memory repositories ----

type stubOrderRepo struct {
	orders map[uuid.UUID]*models.Order
	stock  map[uuid.UUID]int
}

func (s *stubOrderRepo) CreateWithItems(_ context.Context, order *models.Order) error {
	for _, item := range order.Items {
		if s.stock[item.ProductID] < item.Quantity {
			return &apperrors.OutOfStockError{Product: item.ProductName}
		}
	}
	for _, item := range order.Items {
		s.stock[item.ProductID] -= item.Quantity
	}
	order.ID = uuid.New()
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
	}
	s.orders[order.ID] = order
	return nil
}

func (s *stubOrderRepo) FindByID(_ context.Context, orderID uuid.UUID) (*models.Order, error) {
	o, ok := s.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (s *stubOrderRepo) FindByIDAndUserID(_ context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	o, ok := s.orders[orderID]
	if !ok || o.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (s *stubOrderRepo) FindByUserID(_ context.Context, userID uuid.UUID, _, _ int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubOrderRepo) FindAll(_ context.Context, status string, _, _ int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range s.orders {
		if status == "" || o.Status == status {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, orderID uuid.UUID, status string) error {
	o, ok := s.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (s *stubOrderRepo) UpdatePaymentStatus(_ context.Context, orderID uuid.UUID, paymentStatus string) error {
	o, ok := s.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.PaymentStatus = paymentStatus
	return nil
}

type stubPaymentRepo struct {
	payments []*models.Payment
}

func (s *stubPaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	payment.ID = uuid.New()
	payment.CreatedAt = time.Now().Add(time.Duration(len(s.payments)) * time.Millisecond)
	s.payments = append(s.payments, payment)
	return nil
}

func (s *stubPaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Payment, error) {
	for _, p := range s.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPaymentRepo) FindByOrderID(_ context.Context, orderID uuid.UUID) (*models.Payment, error) {
	for i := len(s.payments) - 1; i >= 0; i-- {
		if s.payments[i].OrderID == orderID {
			return s.payments[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPaymentRepo) FindByTransactionID(_ context.Context, transactionID string) (*models.Payment, error) {
	for _, p := range s.payments {
		if p.TransactionID == transactionID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPaymentRepo) FindByUserID(_ context.Context, userID uuid.UUID, _, _ int) ([]models.Payment, int64, error) {
	var out []models.Payment
	for _, p := range s.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubPaymentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) (*models.Payment, error) {
	for _, p := range s.payments {
		if p.ID == id {
			p.Status = status
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type stubCartRepo struct {
	lines map[uuid.UUID][]models.CartLine
}

func (s *stubCartRepo) GetLines(_ context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	return s.lines[userID], nil
}

func (s *stubCartRepo) GetTotal(_ context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range s.lines[userID] {
		total = total.Add(l.Subtotal())
	}
	return total, nil
}

func (s *stubCartRepo) Clear(_ context.Context, userID uuid.UUID) error {
	delete(s.lines, userID)
	return nil
}
