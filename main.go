package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ms-eventhub/internal/auth"
	auth_api "ms-eventhub/internal/auth/api"
	auth_db "ms-eventhub/internal/auth/db"
	"ms-eventhub/internal/banner"
	banner_api "ms-eventhub/internal/banner/api"
	banner_db "ms-eventhub/internal/banner/db"
	"ms-eventhub/internal/category"
	category_api "ms-eventhub/internal/category/api"
	category_db "ms-eventhub/internal/category/db"
	"ms-eventhub/internal/config"
	"ms-eventhub/internal/database"
	"ms-eventhub/internal/events"
	events_api "ms-eventhub/internal/events/api"
	events_db "ms-eventhub/internal/events/db"
	"ms-eventhub/internal/kafka"
	"ms-eventhub/internal/logger"
	"ms-eventhub/internal/media"
	media_api "ms-eventhub/internal/media/api"
	"ms-eventhub/internal/order"
	order_db "ms-eventhub/internal/order/db"
	"ms-eventhub/internal/order/order_api"
	rediswrap "ms-eventhub/internal/order/redis"
	"ms-eventhub/internal/tickets"
	ticket_db "ms-eventhub/internal/tickets/db"
	"ms-eventhub/internal/tickets/ticket_api"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
)

func verifyRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("Redis connection successful to %s", cfg.Addr))
	return client
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting EventHub API initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	bunDB, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()

	redisClient := verifyRedis(ctx, cfg.Redis, log)
	defer redisClient.Close()

	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		log.Info("KAFKA", "Kafka producer initialized")

		requiredTopics := []string{
			cfg.Kafka.Topics.OrderCreated,
			cfg.Kafka.Topics.OrderPending,
			cfg.Kafka.Topics.OrderCompleted,
			cfg.Kafka.Topics.OrderCancelled,
		}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, requiredTopics); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			log.Info("KAFKA", "Required topics ensured")
		}
	} else {
		log.Warn("KAFKA", "Kafka disabled, order events will not be published")
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenLifetime)

	authService := auth.NewService(&auth_db.DB{Bun: bunDB}, tokens, cfg.Auth.PasswordKey)
	ticketService := tickets.NewTicketService(&ticket_db.DB{Bun: bunDB})
	eventService := events.NewEventService(&events_db.DB{Bun: bunDB})
	categoryService := category.NewCategoryService(&category_db.DB{Bun: bunDB})
	bannerService := banner.NewBannerService(&banner_db.DB{Bun: bunDB})

	mediaService, err := media.NewMediaService(cfg.Media)
	if err != nil {
		log.Fatal("MEDIA", err.Error())
	}

	orderRedis := rediswrap.NewRedis(redisClient)

	var publisher order.KafkaPublisher
	if producer != nil {
		publisher = producer
	}
	orderService := order.NewOrderService(
		&order_db.DB{Bun: bunDB},
		ticketService,
		orderRedis,
		publisher,
		cfg.Kafka.Topics,
		log,
	)

	authHandler := &auth_api.Handler{AuthService: authService, Logger: log}
	orderHandler := order_api.NewHandler(orderService, orderRedis, log)
	ticketHandler := ticket_api.NewHandler(ticketService, log)
	eventHandler := events_api.NewHandler(eventService, log)
	categoryHandler := category_api.NewHandler(categoryService, log)
	bannerHandler := banner_api.NewHandler(bannerService, log)
	mediaHandler := media_api.NewHandler(mediaService, log)

	log.Info("HTTP", "Setting up router and middleware")
	r := newRouter(handlerSet{
		auth:     authHandler,
		orders:   orderHandler,
		events:   eventHandler,
		category: categoryHandler,
		banners:  bannerHandler,
		tickets:  ticketHandler,
		media:    mediaHandler,
	}, tokens, cfg.Media.UploadDir)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("EventHub API running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	}
	log.Info("APP", "Service stopped")
}
