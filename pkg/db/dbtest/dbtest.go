// Package dbtest opens isolated in-memory SQLite databases carrying the
// storefront schema for repository and service tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
)

// Models lists every table the storefront owns.
func Models() []any {
	return []any{
		&models.Product{},
		&models.Coupon{},
		&models.BulkDiscount{},
		&models.Order{},
		&models.SiteSetting{},
		&models.Review{},
		&models.FlashSale{},
		&models.AdminUser{},
		&models.Notification{},
		&models.OutboxEvent{},
		&models.OutboxDLQ{},
	}
}

// Open returns a fresh database unique to the calling test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:luxe_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(Models()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}
