package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/abhinavyadav-ai/asset-manager/api"
	"github.com/abhinavyadav-ai/asset-manager/api/routes"
	"github.com/abhinavyadav-ai/asset-manager/internal/auth"
	"github.com/abhinavyadav-ai/asset-manager/internal/bulkdiscounts"
	"github.com/abhinavyadav-ai/asset-manager/internal/cart"
	"github.com/abhinavyadav-ai/asset-manager/internal/checkout"
	"github.com/abhinavyadav-ai/asset-manager/internal/coupons"
	"github.com/abhinavyadav-ai/asset-manager/internal/flashsales"
	"github.com/abhinavyadav-ai/asset-manager/internal/notifications"
	"github.com/abhinavyadav-ai/asset-manager/internal/orders"
	"github.com/abhinavyadav-ai/asset-manager/internal/payments"
	"github.com/abhinavyadav-ai/asset-manager/internal/products"
	"github.com/abhinavyadav-ai/asset-manager/internal/reviews"
	"github.com/abhinavyadav-ai/asset-manager/internal/settings"
	"github.com/abhinavyadav-ai/asset-manager/pkg/auth/session"
	"github.com/abhinavyadav-ai/asset-manager/pkg/config"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db"
	"github.com/abhinavyadav-ai/asset-manager/pkg/env"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
	"github.com/abhinavyadav-ai/asset-manager/pkg/metrics"
	"github.com/abhinavyadav-ai/asset-manager/pkg/migrate"
	"github.com/abhinavyadav-ai/asset-manager/pkg/outbox"
	"github.com/abhinavyadav-ai/asset-manager/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	services, err := buildServices(cfg, logg, dbClient, redisClient, sessionManager, registry)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	if created, err := auth.BootstrapOwner(context.Background(), auth.BootstrapParams{
		DB:             dbClient,
		Admin:          cfg.Admin,
		PasswordConfig: cfg.Password,
	}); err != nil {
		logg.Error(context.Background(), "failed to bootstrap owner account", err)
		os.Exit(1)
	} else if created {
		logg.Info(context.Background(), "bootstrap owner account created")
	}

	if cfg.FeatureFlags.SeedCatalog {
		inserted, err := services.Products.SeedCatalog(context.Background())
		if err != nil {
			logg.Error(context.Background(), "failed to seed catalog", err)
			os.Exit(1)
		}
		logg.Info(logg.WithField(context.Background(), "products_inserted", inserted), "catalog seed checked")
	}

	addr := ":" + env.Get(cfg.App.Port, "PORT")
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	handler := routes.NewRouter(cfg, logg, routes.Infra{
		DB:       dbClient,
		Redis:    redisClient,
		Store:    redisClient,
		Sessions: sessionManager,
		Metrics:  registry,
	}, services)
	server := api.NewServer(cfg, addr, handler)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	sessionManager *session.Manager,
	registry prometheus.Registerer,
) (routes.Services, error) {
	gormDB := dbClient.DB()

	productRepo := products.NewRepository(gormDB)
	couponRepo := coupons.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)
	emitter := outbox.NewService(outbox.NewRepository(gormDB), logg)
	formatter := notifications.NewFormatter(cfg.Storefront.Name, cfg.Storefront.WhatsAppNumber, cfg.Storefront.PublicURL)

	productSvc, err := products.NewService(productRepo, logg)
	if err != nil {
		return routes.Services{}, err
	}
	settingsSvc, err := settings.NewService(settings.NewRepository(gormDB), cfg.Pricing, cfg.Storefront, logg)
	if err != nil {
		return routes.Services{}, err
	}
	couponSvc, err := coupons.NewService(couponRepo, nil)
	if err != nil {
		return routes.Services{}, err
	}
	bulkSvc, err := bulkdiscounts.NewService(bulkdiscounts.NewRepository(gormDB), redisClient, logg)
	if err != nil {
		return routes.Services{}, err
	}
	cartSvc, err := cart.NewService(bulkSvc, couponSvc, settingsSvc, nil)
	if err != nil {
		return routes.Services{}, err
	}
	ordersSvc, err := orders.NewService(ordersRepo, productRepo, dbClient, emitter, formatter, logg)
	if err != nil {
		return routes.Services{}, err
	}
	checkoutSvc, err := checkout.NewService(checkout.Deps{
		Tx:          dbClient,
		Products:    productRepo,
		Coupons:     couponRepo,
		Orders:      ordersRepo,
		Bulk:        bulkSvc,
		Rates:       settingsSvc,
		Outbox:      emitter,
		Metrics:     metrics.NewCheckoutMetrics(registry),
		Logger:      logg,
		OrderNumber: checkout.NewOrderNumberFunc(cfg.Pricing.OrderNumberPrefix),
	})
	if err != nil {
		return routes.Services{}, err
	}
	paymentsSvc, err := payments.NewService(cfg.Payments, ordersSvc, logg)
	if err != nil {
		return routes.Services{}, err
	}
	reviewSvc, err := reviews.NewService(reviews.NewRepository(gormDB), productRepo)
	if err != nil {
		return routes.Services{}, err
	}
	flashSvc, err := flashsales.NewService(flashsales.NewRepository(gormDB), nil)
	if err != nil {
		return routes.Services{}, err
	}
	notificationSvc, err := notifications.NewService(notifications.NewRepository(gormDB), nil)
	if err != nil {
		return routes.Services{}, err
	}
	authSvc, err := auth.NewService(auth.ServiceParams{
		Admins:         auth.NewRepository(gormDB),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:          authSvc,
		Products:      productSvc,
		Coupons:       couponSvc,
		BulkDiscounts: bulkSvc,
		Cart:          cartSvc,
		Checkout:      checkoutSvc,
		Orders:        ordersSvc,
		Payments:      paymentsSvc,
		Reviews:       reviewSvc,
		FlashSales:    flashSvc,
		Settings:      settingsSvc,
		Notifications: notificationSvc,
		DeadLetters:   outbox.NewDLQRepository(gormDB),
	}, nil
}
