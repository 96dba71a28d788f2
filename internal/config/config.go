// Package config loads application configuration from flags and environment
// variables. Environment variables win over flags when both are set.
package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Dynamo   DynamoConfig
	Cache    CacheConfig
	YTS      YTSConfig
	Feed     FeedConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr string
	// APIKey, when set, is required in the X-Api-Key header on ingest.
	APIKey string
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Backend string // "postgres" or "dynamodb"
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DynamoConfig holds DynamoDB configuration
type DynamoConfig struct {
	Table  string
	Region string
}

// CacheConfig holds rendered-feed cache configuration
type CacheConfig struct {
	Backend   string // "memory" or "redis"
	TTL       time.Duration
	RedisAddr string
}

// YTSConfig holds upstream catalog configuration
type YTSConfig struct {
	BaseURL      string
	Timeout      time.Duration
	RateLimitDur time.Duration
}

// FeedConfig holds the channel-level feed metadata
type FeedConfig struct {
	Title       string
	Description string
	Link        string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// Load parses flags and environment variables to build configuration
func Load() *Config {
	httpAddr := flag.String("http", ":8080", "HTTP server address")
	storeBackend := flag.String("store-backend", "postgres", "Store backend: postgres or dynamodb")
	dbHost := flag.String("db-host", "localhost", "PostgreSQL host")
	dbPort := flag.Int("db-port", 5432, "PostgreSQL port")
	dbUser := flag.String("db-user", "postgres", "PostgreSQL user")
	dbPassword := flag.String("db-password", "postgres", "PostgreSQL password")
	dbName := flag.String("db-name", "orchard_rss", "PostgreSQL database name")
	dbSSLMode := flag.String("db-sslmode", "disable", "PostgreSQL SSL mode")
	dynamoTable := flag.String("dynamo-table", "", "DynamoDB table name")
	dynamoRegion := flag.String("dynamo-region", "", "DynamoDB AWS region")
	cacheBackend := flag.String("cache-backend", "memory", "Cache backend: memory or redis")
	cacheTTL := flag.Duration("cache-ttl", 30*time.Minute, "TTL for the cached rendered feed")
	redisAddr := flag.String("redis-addr", "localhost:6379", "Redis server address")
	ytsBaseURL := flag.String("yts-url", "https://yts.mx", "YTS API base URL")
	ytsTimeout := flag.Duration("yts-timeout", 30*time.Second, "YTS request timeout")
	rateLimitDur := flag.Duration("rate-limit", time.Second, "Minimum delay between requests to the YTS host")
	feedTitle := flag.String("feed-title", "YTS 1080p Movies Feed", "RSS channel title")
	feedDescription := flag.String("feed-description", "Latest 1080p movies from YTS for qBittorrent", "RSS channel description")
	feedLink := flag.String("feed-link", "https://example.com/rss", "RSS channel link")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")

	flag.Parse()

	applyEnv("HTTP_ADDR", httpAddr)
	applyEnv("STORE_BACKEND", storeBackend)
	applyEnv("DB_HOST", dbHost)
	applyEnvInt("DB_PORT", dbPort)
	applyEnv("DB_USER", dbUser)
	applyEnv("DB_PASSWORD", dbPassword)
	applyEnv("DB_NAME", dbName)
	applyEnv("DB_SSLMODE", dbSSLMode)
	applyEnv("TABLE_NAME", dynamoTable)
	applyEnv("AWS_REGION", dynamoRegion)
	applyEnv("CACHE_BACKEND", cacheBackend)
	applyEnvDuration("CACHE_TTL", cacheTTL)
	applyEnv("REDIS_ADDR", redisAddr)
	applyEnv("YTS_BASE_URL", ytsBaseURL)
	applyEnvDuration("YTS_TIMEOUT", ytsTimeout)
	applyEnvDuration("RATE_LIMIT", rateLimitDur)
	applyEnv("FEED_TITLE", feedTitle)
	applyEnv("FEED_DESCRIPTION", feedDescription)
	applyEnv("FEED_LINK", feedLink)
	applyEnv("LOG_LEVEL", logLevel)

	return &Config{
		Server: ServerConfig{
			HTTPAddr: *httpAddr,
			APIKey:   os.Getenv("INGEST_API_KEY"),
		},
		Store: StoreConfig{
			Backend: *storeBackend,
		},
		Database: DatabaseConfig{
			Host:     *dbHost,
			Port:     *dbPort,
			User:     *dbUser,
			Password: *dbPassword,
			Database: *dbName,
			SSLMode:  *dbSSLMode,
		},
		Dynamo: DynamoConfig{
			Table:  *dynamoTable,
			Region: *dynamoRegion,
		},
		Cache: CacheConfig{
			Backend:   *cacheBackend,
			TTL:       *cacheTTL,
			RedisAddr: *redisAddr,
		},
		YTS: YTSConfig{
			BaseURL:      *ytsBaseURL,
			Timeout:      *ytsTimeout,
			RateLimitDur: *rateLimitDur,
		},
		Feed: FeedConfig{
			Title:       *feedTitle,
			Description: *feedDescription,
			Link:        *feedLink,
		},
		Logging: LoggingConfig{
			Level: *logLevel,
		},
	}
}

func applyEnv(key string, target *string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func applyEnvInt(key string, target *int) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*target = parsed
		}
	}
}

func applyEnvDuration(key string, target *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*target = parsed
		}
	}
}
