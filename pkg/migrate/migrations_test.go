package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mokolo-app/mokolo-backend/pkg/migrate"
)

func TestValidateMigrationsDir(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}

func TestListingMediaMigrationEnforcesOrdering(t *testing.T) {
	content := readMigration(t, "*_create_listing_media.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS listing_media",
		"CHECK (display_order >= 0)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_listing_media_order",
		"listing_media (listing_domain, listing_id, display_order)",
		"DROP TABLE IF EXISTS listing_media",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestSubscriptionMigrationsSeedCatalog(t *testing.T) {
	content := readMigration(t, "*_create_subscription_plans.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS subscription_plans",
		"CHECK (grace_period_days >= 0)",
		"'plan_standard', 'standard'",
		"'plan_premium', 'premium'",
		"ON CONFLICT (id) DO NOTHING",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}

	content = readMigration(t, "*_create_user_subscriptions.sql")
	checks = []string{
		"CHECK (posts_used_this_month >= 0)",
		"CHECK (images_used_this_month >= 0)",
		"CHECK (videos_used_this_month >= 0)",
		"FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE",
		"FOREIGN KEY (plan_id) REFERENCES subscription_plans(id)",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCreateSQLMigrationWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Something New!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_something_new.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %s", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
