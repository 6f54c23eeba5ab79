package controllers

import (
	"net/http"

	"storefront/middleware"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentController struct {
	Checkout *services.CheckoutService
	Payments *services.PaymentService
}

func NewPaymentController(checkout *services.CheckoutService, payments *services.PaymentService) *PaymentController {
	return &PaymentController{Checkout: checkout, Payments: payments}
}

// ProcessPayment handles POST /api/payments/process: paying an
// existing order, e.g. a retry after a declined checkout.
func (pc *PaymentController) ProcessPayment(c *gin.Context) {
	var req struct {
		OrderID       string                `json:"order_id" binding:"required"`
		PaymentMethod string                `json:"payment_method" binding:"required"`
		CardDetails   *services.CardDetails `json:"card_details"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := pc.Checkout.ProcessPayment(c, userID, middleware.GetUserRole(c), orderID, req.PaymentMethod, req.CardDetails)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        result.Message,
		"payment":        result.Payment,
		"transaction_id": result.TransactionID,
		"status":         result.Status,
	})
}

// GetPayments handles GET /api/payments: the caller's payment history.
func (pc *PaymentController) GetPayments(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	page, limit := pageParams(c)

	payments, total, err := pc.Payments.GetUserPayments(c, userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetPaymentByOrder handles GET /api/payments/order/:orderId
func (pc *PaymentController) GetPaymentByOrder(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	payment, err := pc.Payments.GetPaymentByOrder(c, userID, middleware.GetUserRole(c), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// RefundPayment handles POST /api/payments/:id/refund (admin only).
// The id may be a transaction id or a payment id.
func (pc *PaymentController) RefundPayment(c *gin.Context) {
	payment, err := pc.Checkout.Refund(c, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment refunded successfully.", "payment": payment})
}
