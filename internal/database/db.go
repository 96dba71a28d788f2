// Package database provides the PostgreSQL persistence layer.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Config holds database configuration
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:            "localhost",
		Port:            5432,
		User:            "postgres",
		Password:        "postgres",
		Database:        "orchard_rss",
		SSLMode:         "disable",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// DB wraps the sql.DB connection
type DB struct {
	*sql.DB
	config Config
}

// New creates a new database connection
func New(config Config) (*DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.Database, config.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, config: config}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Migrate runs database migrations
func (db *DB) Migrate(ctx context.Context) error {
	migrations := []string{
		migrationFeedEntries,
		migrationFeedEntryIndexes,
	}

	for i, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

// feed_entries mirrors the feed's ordered key-value shape: the composite key
// is (id, ts) so a regenerated id plus the ingest timestamp always makes a
// fresh row. Rows are append-only.
const migrationFeedEntries = `
CREATE TABLE IF NOT EXISTS feed_entries (
    id VARCHAR(100) NOT NULL,
    ts BIGINT NOT NULL,
    title VARCHAR(512) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    link VARCHAR(1024) NOT NULL,
    guid VARCHAR(128) NOT NULL DEFAULT '',
    category VARCHAR(50) NOT NULL DEFAULT '',
    size VARCHAR(50),
    seeds INTEGER NOT NULL DEFAULT 0,
    peers INTEGER NOT NULL DEFAULT 0,
    movie_id INTEGER,
    imdb_code VARCHAR(20),
    year INTEGER,
    rating DECIMAL(3,1),
    added_date VARCHAR(40),
    PRIMARY KEY (id, ts)
);
`

const migrationFeedEntryIndexes = `
CREATE INDEX IF NOT EXISTS idx_feed_entries_ts ON feed_entries(ts DESC);
CREATE INDEX IF NOT EXISTS idx_feed_entries_imdb ON feed_entries(imdb_code);
`
