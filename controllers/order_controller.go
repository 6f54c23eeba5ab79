package controllers

import (
	"net/http"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderController struct {
	Checkout *services.CheckoutService
	Orders   *services.OrderService
}

func NewOrderController(checkout *services.CheckoutService, orders *services.OrderService) *OrderController {
	return &OrderController{Checkout: checkout, Orders: orders}
}

// CreateOrder handles POST /api/orders: the full settlement workflow
// from the caller's cart through payment.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := oc.Checkout.PlaceOrder(c, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        result.Message,
		"order":          result.Order,
		"payment":        paymentSummary(result.Payment),
		"transaction_id": result.TransactionID,
		"status":         result.Status,
	})
}

// GetOrders handles GET /api/orders. Customers see their own orders;
// admins see everything, optionally filtered by status.
func (oc *OrderController) GetOrders(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	page, limit := pageParams(c)

	var resp *services.OrderListResponse
	if middleware.GetUserRole(c) == "admin" {
		resp, err = oc.Orders.GetAllOrders(c, c.Query("status"), page, limit)
	} else {
		resp, err = oc.Orders.GetUserOrders(c, userID, page, limit)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetOrder handles GET /api/orders/:id
func (oc *OrderController) GetOrder(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, err := oc.Orders.GetOrderByID(c, userID, middleware.GetUserRole(c), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateStatus handles PUT /api/orders/:id/status (admin only)
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, err := oc.Orders.UpdateStatus(c, orderID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order": order})
}

// paymentSummary trims a payment row down to the response shape the
// storefront shows after checkout.
func paymentSummary(p *models.Payment) gin.H {
	if p == nil {
		return nil
	}
	return gin.H{
		"transaction_id": p.TransactionID,
		"status":         p.Status,
		"card_brand":     p.CardBrand,
		"card_last_four": p.CardLastFour,
	}
}
