// Package testutil provides utilities for testing
package testutil

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/allyman17/orchard-rss/internal/database"
)

// NewTestDB opens a migrated test database connection. It skips the test
// when no database is reachable so the suite still runs without Postgres.
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()

	config := database.DefaultConfig()
	config.Host = getEnvOrDefault("DB_HOST", "localhost")
	config.User = getEnvOrDefault("DB_USER", "test")
	config.Password = getEnvOrDefault("DB_PASSWORD", "test")
	config.Database = getEnvOrDefault("DB_NAME", "orchard_rss_test")
	config.SSLMode = getEnvOrDefault("DB_SSLMODE", "disable")
	if port, err := strconv.Atoi(getEnvOrDefault("DB_PORT", "5432")); err == nil {
		config.Port = port
	}

	db, err := database.New(config)
	if err != nil {
		t.Skipf("Skipping test: unable to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		t.Skipf("Skipping test: unable to migrate database: %v", err)
	}

	t.Cleanup(func() {
		db.ExecContext(context.Background(), "TRUNCATE feed_entries")
		db.Close()
	})

	return db
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
