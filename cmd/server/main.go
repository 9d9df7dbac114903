package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/velora-labs/storefront/internal/config"
	"github.com/velora-labs/storefront/internal/es"
	"github.com/velora-labs/storefront/internal/events"
	"github.com/velora-labs/storefront/internal/handlers"
	"github.com/velora-labs/storefront/internal/logging"
	"github.com/velora-labs/storefront/internal/metrics"
	"github.com/velora-labs/storefront/internal/models"
	"github.com/velora-labs/storefront/internal/payment"
	"github.com/velora-labs/storefront/internal/service/order"
	httpserver "github.com/velora-labs/storefront/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	producer := events.NewProducer([]string{configuration.KAFKA_ADDRESS})

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	orderService := order.NewService(db)

	paymentCfg := payment.Config{
		StripeSecretKey:     configuration.STRIPE_SECRET_KEY,
		StripeWebhookSecret: configuration.STRIPE_WEBHOOK_SECRET,
		PayPalClientID:      configuration.PAYPAL_CLIENT_ID,
		PayPalClientSecret:  configuration.PAYPAL_CLIENT_SECRET,
		PayPalLive:          configuration.PAYPAL_LIVE,
	}

	gateway := payment.NewGateway(db, orderService, logger)
	gateway.Register(models.PaymentMethodStripe, payment.NewStripeProvider(paymentCfg.StripeSecretKey))

	paypalProvider, err := payment.NewPayPalProvider(
		paymentCfg.PayPalClientID, paymentCfg.PayPalClientSecret, paymentCfg.PayPalLive,
	)
	if err != nil {
		log.Fatalf("paypal client error: %v", err)
	}
	gateway.Register(models.PaymentMethodPayPal, paypalProvider)

	reconciler := payment.NewReconciler(db, orderService, producer, logger)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), metrics.Middleware())

	deps := httpserver.Deps{
		DB:        db,
		JWTSecret: jwtSecret,
		AuthHandler: &handlers.AuthHandler{
			DB:            db,
			JWTSecret:     jwtSecret,
			RefreshSecret: refreshSecret,
			Producer:      producer,
		},
		ProductHandler:  &handlers.ProductHandler{DB: db, Producer: producer},
		CategoryHandler: &handlers.CategoryHandler{DB: db},
		BrandHandler:    &handlers.BrandHandler{DB: db},
		OrderHandler:    &handlers.OrderHandler{Service: orderService, Producer: producer},
		PaymentHandler: &handlers.PaymentHandler{
			Gateway:       gateway,
			Reconciler:    reconciler,
			WebhookSecret: paymentCfg.StripeWebhookSecret,
		},
		SearchHandler: &handlers.SearchHandler{ES: esClient, Index: "products"},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	logger.Info("storefront backend started", "addr", srv.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
