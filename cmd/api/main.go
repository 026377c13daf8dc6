// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-backend/internal/infrastructure/messaging/kafka"
	"github.com/your-org/storefront-backend/internal/interfaces/http"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/interfaces/http/routes"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/logger"
	"github.com/your-org/storefront-backend/internal/pkg/metrics"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
)

type eventPublisher interface {
	order.EventPublisher
	Close() error
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := logger.New(cfg)
	log.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting service")

	ctx := context.Background()

	// Catalog database
	db, err := postgres.NewConnection(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	migration := postgres.NewMigration(db.GetDB(), log)
	if err := migration.RunAutoMigrations(); err != nil {
		log.WithError(err).Fatal("Database migration failed")
	}
	if err := migration.CreateIndexes(); err != nil {
		log.WithError(err).Warn("Index creation failed")
	}
	if cfg.IsDevelopment() {
		if err := migration.SeedProducts(); err != nil {
			log.WithError(err).Warn("Product seeding failed")
		}
	}

	// User and order documents
	mongoDB, err := mongo.NewConnection(ctx, cfg.Mongo, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoDB.Close(closeCtx); err != nil {
			log.WithError(err).Warn("Failed to close MongoDB connection")
		}
	}()

	userRepo := mongo.NewUserRepository(mongoDB.Database())
	orderRepo := mongo.NewOrderRepository(mongoDB.Database())
	if err := userRepo.CreateIndexes(ctx); err != nil {
		log.WithError(err).Fatal("Failed to create user indexes")
	}
	if err := orderRepo.CreateIndexes(ctx); err != nil {
		log.WithError(err).Fatal("Failed to create order indexes")
	}

	// Cache and rate limit counters
	redisClient, err := redis.NewConnection(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New()
	if err := m.Register(registry); err != nil {
		log.WithError(err).Fatal("Failed to register metrics")
	}

	var publisher eventPublisher = kafka.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic, log)
	} else {
		log.Warn("No Kafka brokers configured, order events will not be published")
	}
	defer publisher.Close()

	// Services
	catalogService := catalog.NewService(
		catalog.NewRepository(db.GetDB()),
		catalog.NewRedisCache(redisClient.GetClient(), cfg.Catalog.CacheTTL),
		log,
	)

	tokens := auth.NewJWTManager(cfg)
	userService := user.NewService(userRepo, auth.NewPasswordManager(cfg.Security.BcryptCost), tokens, log)

	ledgerOpts := cart.Options{
		MaxWriteAttempts: cfg.Ledger.MaxWriteAttempts,
		MaxMergeItems:    cfg.Ledger.MaxMergeItems,
		MergeRecordTTL:   cfg.Ledger.MergeRecordTTL,
		MaxMergeRecords:  cfg.Ledger.MaxMergeRecords,
	}
	cartService := cart.NewService(userRepo, catalogService, ledgerOpts, m, log)
	wishlistService := wishlist.NewService(userRepo, catalogService, ledgerOpts, m, log)
	orderService := order.NewService(order.Deps{
		Orders:           orderRepo,
		Users:            userRepo,
		Catalog:          catalogService,
		Publisher:        publisher,
		Invoices:         pdf.NewService(cfg.Invoice),
		Metrics:          m,
		Logger:           log,
		MaxWriteAttempts: cfg.Ledger.MaxWriteAttempts,
		UPIPayeeID:       cfg.Invoice.UPIPayeeID,
	})

	if cfg.IsDevelopment() && cfg.Security.AdminEmail != "" && cfg.Security.AdminPassword != "" {
		if err := userService.EnsureAdmin(ctx, cfg.Security.AdminEmail, cfg.Security.AdminPassword); err != nil {
			log.WithError(err).Warn("Failed to ensure admin user")
		}
	}

	server := http.NewServer(cfg, log, http.ServerDeps{
		Handlers: routes.Handlers{
			Auth:     handlers.NewAuthHandler(userService, cartService, wishlistService, log),
			Product:  handlers.NewProductHandler(catalogService, log),
			Cart:     handlers.NewCartHandler(cartService, log),
			Wishlist: handlers.NewWishlistHandler(wishlistService, log),
			Order:    handlers.NewOrderHandler(orderService, log),
		},
		Tokens:         tokens,
		RateLimitStore: middleware.NewRedisRateLimitStore(redisClient.GetClient()),
		Metrics:        m,
		Gatherer:       registry,
		Checks: map[string]http.HealthChecker{
			"database": http.HealthCheckFunc(db.Health),
			"mongo":    http.HealthCheckFunc(mongoDB.Health),
			"redis":    http.HealthCheckFunc(redisClient.Health),
		},
	})

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	log.Info("Server shutdown completed")
}
