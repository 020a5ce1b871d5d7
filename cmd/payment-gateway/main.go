package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ms-eventhub/internal/config"
	"ms-eventhub/internal/database"
	"ms-eventhub/internal/logger"
	"ms-eventhub/internal/payment"
	"ms-eventhub/internal/payment/handler"
	"ms-eventhub/internal/payment/services"
	"ms-eventhub/internal/payment/storage"

	order_db "ms-eventhub/internal/order/db"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting payment gateway")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	}

	cfg := config.Load()
	ctx := context.Background()

	bunDB, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()

	stripeService, err := services.NewStripeService(cfg.Stripe.SecretKey, log)
	if err != nil {
		log.Fatal("STRIPE", err.Error())
	}

	orderAPIURL := os.Getenv("ORDER_API_URL")
	if orderAPIURL == "" {
		orderAPIURL = "http://localhost:8080"
	}

	stripeHandler := handler.NewStripeHandler(
		stripeService,
		storage.NewPostgresStore(bunDB),
		&order_db.DB{Bun: bunDB},
		payment.NewHTTPNotifier(orderAPIURL),
		cfg.Stripe.WebhookSecret,
		log,
	)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api/payment")
	{
		api.POST("/intent", stripeHandler.CreateIntent)
		api.POST("/stripe/webhook", stripeHandler.Webhook)
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	port := os.Getenv("PAYMENT_GATEWAY_PORT")
	if port == "" {
		port = ":8081"
	}

	server := &http.Server{
		Addr:    port,
		Handler: router,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Payment gateway running on %s", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("APP", "Shutdown signal received")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	}
	log.Info("APP", "Payment gateway stopped")
}
