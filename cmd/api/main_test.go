package main

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/abhinavyadav-ai/asset-manager/internal/checkout"
	"github.com/abhinavyadav-ai/asset-manager/pkg/auth/session"
	"github.com/abhinavyadav-ai/asset-manager/pkg/config"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db/dbtest"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
	"github.com/abhinavyadav-ai/asset-manager/pkg/redis"
)

func TestBuildServicesUsesConfiguredOrderPrefix(t *testing.T) {
	conn := dbtest.Open(t)
	srv := miniredis.RunT(t)
	redisClient := redis.Wrap(goredis.NewClient(&goredis.Options{Addr: srv.Addr()}))
	t.Cleanup(func() { _ = redisClient.Close() })

	cfg := &config.Config{
		JWT:     config.JWTConfig{Secret: "wiring-secret", Issuer: "luxe-test", ExpirationMinutes: 30},
		Pricing: config.PricingConfig{DefaultDelhiShipping: "0", DefaultOtherShipping: "45", OrderNumberPrefix: "cnd"},
	}
	logg := logger.New(logger.Options{ServiceName: "api-test", Level: "error", Output: io.Discard})
	sessions, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}

	services, err := buildServices(cfg, logg, db.Wrap(conn), redisClient, sessions, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("build services: %v", err)
	}

	product := models.Product{Name: "Amber Glow", Price: decimal.NewFromInt(499), Stock: 3, IsActive: true}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	order, err := services.Checkout.FinalizeOrder(context.Background(), checkout.FinalizeInput{
		CustomerName:  "Meera Iyer",
		Phone:         "9876543210",
		Address:       "7 Park Street",
		City:          "Kolkata",
		State:         "West Bengal",
		Pincode:       "700016",
		Items:         []checkout.ItemInput{{ProductID: product.ID, Name: product.Name, Quantity: 1}},
		PaymentMethod: "upi",
	})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if !strings.HasPrefix(order.OrderNumber, "CND-") {
		t.Fatalf("expected configured prefix, got %s", order.OrderNumber)
	}
	if services.DeadLetters == nil {
		t.Fatal("expected dead letter reader wired")
	}
}
