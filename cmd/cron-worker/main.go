package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/abhinavyadav-ai/asset-manager/internal/cron"
	"github.com/abhinavyadav-ai/asset-manager/internal/notifications"
	"github.com/abhinavyadav-ai/asset-manager/internal/orders"
	"github.com/abhinavyadav-ai/asset-manager/internal/products"
	"github.com/abhinavyadav-ai/asset-manager/pkg/config"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db"
	"github.com/abhinavyadav-ai/asset-manager/pkg/instance"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
	"github.com/abhinavyadav-ai/asset-manager/pkg/metrics"
	"github.com/abhinavyadav-ai/asset-manager/pkg/migrate"
	"github.com/abhinavyadav-ai/asset-manager/pkg/outbox"
	"github.com/abhinavyadav-ai/asset-manager/pkg/redis"
)

const (
	lockKeyFormat      = "luxe:maintenance:lock:%s"
	unpaidOrderBatch   = 100
	defaultMaxAttempts = 10
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	registry, err := buildJobs(cfg, logg, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to build maintenance jobs", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), cfg.Maintenance.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Maintenance.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"service_kind": cfg.Service.Kind,
		"instance_id":  instance.GetID(),
		"interval":     cfg.Maintenance.Interval.String(),
		"jobs":         registry.Names(),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func buildJobs(cfg *config.Config, logg *logger.Logger, dbClient *db.Client) (*cron.Registry, error) {
	gormDB := dbClient.DB()

	formatter := notifications.NewFormatter(cfg.Storefront.Name, cfg.Storefront.WhatsAppNumber, cfg.Storefront.PublicURL)
	ordersSvc, err := orders.NewService(
		orders.NewRepository(gormDB),
		products.NewRepository(gormDB),
		dbClient,
		outbox.NewService(outbox.NewRepository(gormDB), logg),
		formatter,
		logg,
	)
	if err != nil {
		return nil, fmt.Errorf("orders service: %w", err)
	}

	unpaid, err := cron.NewUnpaidOrderJob(cron.UnpaidOrderJobParams{
		Logger:    logg,
		Orders:    ordersSvc,
		TTL:       cfg.Maintenance.UnpaidOrderTTL,
		BatchSize: unpaidOrderBatch,
	})
	if err != nil {
		return nil, err
	}

	maxAttempts := cfg.Outbox.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	retention, err := cron.NewOutboxRetentionJob(cron.OutboxRetentionJobParams{
		Logger:      logg,
		DB:          dbClient,
		Repository:  outbox.NewRepository(gormDB),
		Retention:   cfg.Maintenance.OutboxRetentionDays,
		MinAttempts: maxAttempts,
	})
	if err != nil {
		return nil, err
	}

	cleanup, err := cron.NewNotificationCleanupJob(cron.NotificationCleanupJobParams{
		Logger:     logg,
		Repository: notifications.NewRepository(gormDB),
		Retention:  cfg.Maintenance.NotificationRetentionDays,
	})
	if err != nil {
		return nil, err
	}

	return cron.NewRegistry(unpaid, retention, cleanup)
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
