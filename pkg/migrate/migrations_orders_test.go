package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dineline-app/dineline-backend/pkg/migrate"
)

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_orders.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no orders migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"status order_status NOT NULL DEFAULT 'created'",
		"payment_status payment_status NOT NULL DEFAULT 'pending'",
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"FOREIGN KEY (menu_item_id) REFERENCES menu_items(id) ON DELETE SET NULL",
		"CHECK (quantity > 0)",
		"CREATE TABLE IF NOT EXISTS order_status_changes",
		"DROP TABLE IF EXISTS orders",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}
