// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/your-org/apparel-storefront/internal/config"
	"github.com/your-org/apparel-storefront/internal/domain/cart"
	"github.com/your-org/apparel-storefront/internal/domain/content"
	"github.com/your-org/apparel-storefront/internal/domain/coupon"
	"github.com/your-org/apparel-storefront/internal/domain/order"
	"github.com/your-org/apparel-storefront/internal/domain/payment"
	"github.com/your-org/apparel-storefront/internal/domain/product"
	"github.com/your-org/apparel-storefront/internal/domain/upload"
	"github.com/your-org/apparel-storefront/internal/domain/user"
	"github.com/your-org/apparel-storefront/internal/infrastructure/database/postgres"
	"github.com/your-org/apparel-storefront/internal/infrastructure/database/redis"
	"github.com/your-org/apparel-storefront/internal/infrastructure/messaging"
	"github.com/your-org/apparel-storefront/internal/interfaces/http"
	"github.com/your-org/apparel-storefront/internal/interfaces/http/handlers"
	"github.com/your-org/apparel-storefront/internal/interfaces/http/routes"
	"github.com/your-org/apparel-storefront/internal/pkg/logger"
	"github.com/your-org/apparel-storefront/internal/pkg/pdf"
)

type eventPublisher interface {
	order.EventPublisher
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := logger.New(cfg.Logging)
	log.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting storefront API")

	db, err := postgres.NewConnection(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	redisClient, err := redis.NewConnection(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	migration := postgres.NewMigration(db.GetDB(), cfg, log)
	if err := migration.RunAutoMigrations(); err != nil {
		log.WithError(err).Fatal("Database migration failed")
	}
	if err := migration.CreateIndexes(); err != nil {
		log.WithError(err).Warn("Index creation incomplete")
	}

	if cfg.Seed.Enabled {
		seedCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if err := migration.SeedInitialData(seedCtx); err != nil {
			log.WithError(err).Warn("Data seeding failed")
		}
		migration.GetTableInfo(seedCtx)
		cancel()
	}

	var events eventPublisher
	if cfg.KafkaEnabled() {
		events = messaging.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
		log.WithField("topic", cfg.Kafka.OrderTopic).Info("Publishing order events to Kafka")
	} else {
		events = messaging.NewNoopPublisher(log)
	}
	defer events.Close()

	gormDB := db.GetDB()
	rdb := redisClient.GetClient()

	users := user.NewService(user.NewGormRepository(gormDB), cfg, log)
	products := product.NewService(gormDB, cfg, log)
	coupons := coupon.NewService(gormDB, log)
	carts := cart.NewService(cart.NewRedisStore(rdb, cfg.Store.SessionCartTTL), products, coupons, cfg, log)
	orders := order.NewService(gormDB, cfg, log, products, carts, coupons, order.NewRedisSequencer(rdb), events)
	gateway := payment.NewRazorpayClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.BaseURL, cfg.Razorpay.Timeout)
	payments := payment.NewService(orders, gateway, cfg, log)
	homeContent := content.NewService(gormDB, log)
	images := upload.NewService(cfg, log)
	invoices := pdf.NewService(cfg)

	server := http.NewServer(cfg, log, http.Dependencies{
		Handlers: &routes.Handlers{
			Auth:    handlers.NewAuthHandler(users, log),
			Product: handlers.NewProductHandler(products, cfg.Store.LowStockThreshold, log),
			Cart:    handlers.NewCartHandler(carts, cfg.Store.SessionCartTTL, log),
			Coupon:  handlers.NewCouponHandler(coupons, log),
			Order:   handlers.NewOrderHandler(orders, cfg.Store.SessionCartTTL, log),
			Invoice: handlers.NewInvoiceHandler(orders, invoices, log),
			Payment: handlers.NewPaymentHandler(payments, log),
			Content: handlers.NewContentHandler(homeContent, log),
			Upload:  handlers.NewUploadHandler(images, log),
		},
		Tokens:      users,
		RateLimiter: rdb,
		Checks: map[string]http.HealthChecker{
			"database": db,
			"redis":    redisClient,
		},
		UploadDir: images.Dir(),
	})

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.WithError(err).Error("Failed to shut down HTTP server gracefully")
	}

	log.Info("Server shutdown completed")
}
