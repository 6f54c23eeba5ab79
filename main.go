package main

import (
	"log"
	"time"

	"storefront/common/logger"
	"storefront/config"
	"storefront/controllers"
	"storefront/database"
	"storefront/models"
	"storefront/repository"
	"storefront/routes"
	"storefront/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[Storefront] Failed to load config: ", err)
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	db, err := database.ConnectPostgres(cfg, logger.Log,
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatal("[Storefront] Failed to connect to DB: ", err)
	}
	defer database.Close(db)

	orderRepo := repository.NewGormOrderRepository(db)
	paymentRepo := repository.NewGormPaymentRepository(db)
	cartRepo := repository.NewGormCartRepository(db)

	gateway := services.NewSimulatedGateway()
	paymentSvc := services.NewPaymentService(paymentRepo, gateway, logger.Log)
	checkoutSvc := services.NewCheckoutService(orderRepo, paymentRepo, cartRepo, paymentSvc, logger.Log)
	orderSvc := services.NewOrderService(orderRepo, logger.Log)

	oc := controllers.NewOrderController(checkoutSvc, orderSvc)
	pc := controllers.NewPaymentController(checkoutSvc, paymentSvc)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(logger.RequestLogger())

	routes.Register(r, oc, pc, []byte(cfg.JWTSecret))

	logger.Log.Info("storefront running on port " + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("[Storefront] Server failed: ", err)
	}
}
