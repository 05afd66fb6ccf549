package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhinavyadav-ai/asset-manager/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no %s migration file found", suffix)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func assertContains(t *testing.T, content string, checks []string) {
	t.Helper()
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate dir: %v", err)
	}
}

func TestProductsMigrationGuardsStock(t *testing.T) {
	assertContains(t, readMigration(t, "create_products_table"), []string{
		"CREATE TABLE IF NOT EXISTS products",
		"CHECK (stock >= 0)",
		"FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE",
		"CHECK (rating BETWEEN 1 AND 5)",
		"DROP TABLE IF EXISTS products",
	})
}

func TestPricingRulesMigration(t *testing.T) {
	assertContains(t, readMigration(t, "create_pricing_rules"), []string{
		"CREATE TABLE IF NOT EXISTS coupons",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_coupons_code",
		"CHECK (discount_type IN ('percentage', 'fixed'))",
		"CREATE TABLE IF NOT EXISTS bulk_discounts",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_site_settings_key",
		"CHECK (end_date > start_date)",
	})
}

func TestOrdersMigration(t *testing.T) {
	assertContains(t, readMigration(t, "create_orders_table"), []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_order_number",
		"CHECK (total >= 0)",
		"CHECK (payment_method IN ('upi', 'razorpay'))",
		"DROP TABLE IF EXISTS orders",
	})
}

func TestOutboxMigration(t *testing.T) {
	assertContains(t, readMigration(t, "create_outbox_tables"), []string{
		"CREATE TABLE IF NOT EXISTS outbox_events",
		"WHERE published_at IS NULL",
		"CREATE TABLE IF NOT EXISTS outbox_dlq",
	})
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Gift Wrap!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_gift_wrap.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("validate generated migration: %v", err)
	}
}
