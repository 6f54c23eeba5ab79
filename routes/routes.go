package routes

import (
	"storefront/controllers"
	"storefront/middleware"

	"github.com/gin-gonic/gin"
)

func Register(r *gin.Engine, oc *controllers.OrderController, pc *controllers.PaymentController, jwtSecret []byte) {
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(jwtSecret))

	orders := api.Group("/orders")
	orders.POST("", oc.CreateOrder)
	orders.GET("", oc.GetOrders)
	orders.GET("/:id", oc.GetOrder)
	orders.PUT("/:id/status", middleware.RequireAdmin(), oc.UpdateStatus)

	payments := api.Group("/payments")
	payments.POST("/process", pc.ProcessPayment)
	payments.GET("", pc.GetPayments)
	payments.GET("/order/:orderId", pc.GetPaymentByOrder)
	payments.POST("/:id/refund", middleware.RequireAdmin(), pc.RefundPayment)
}
