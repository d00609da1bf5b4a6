package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/juvshop/juv-backend/pkg/migrate"
)

const repoMigrationsDir = "../../migrations"

func TestRepoMigrationsValidate(t *testing.T) {
	if err := migrate.ValidateDir(repoMigrationsDir); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}

func TestInitSchemaContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join(repoMigrationsDir, "*_init_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no init schema migration found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"telegram_id bigint NOT NULL UNIQUE",
		"CHECK (quantity >= 1)",
		"CONSTRAINT idx_cart_user_product UNIQUE (telegram_id, product_id)",
		"items jsonb NOT NULL",
		"status text NOT NULL DEFAULT 'new'",
		"DROP TABLE logs",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
