package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the memories service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"memories-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"MEMORIES_API_PORT" envDefault:"8290"`
	LogLevel        string        `env:"MEMORIES_LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Backend Selection
	// "local" keeps metadata and payloads on the filesystem; "remote" pairs a
	// Postgres metadata store with S3-compatible object storage; "memory" is
	// an ephemeral backend for demos and tests.
	Backend string `env:"MEMORIES_BACKEND" envDefault:"local"`

	// Local Backend Configuration
	LocalDataPath    string `env:"MEMORIES_LOCAL_DATA_PATH" envDefault:"./memories-data"` // Root for partitions and payloads
	LocalBlobBaseURL string `env:"MEMORIES_LOCAL_BLOB_BASE_URL"`                          // Base URL for serving payloads (e.g. "http://localhost:8290/v1/media")

	// Remote Backend - Database
	DatabaseDSN    string        `env:"MEMORIES_DB_DSN"`
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Remote Backend - Object Storage
	S3Endpoint       string `env:"MEMORIES_S3_ENDPOINT"`
	S3PublicEndpoint string `env:"MEMORIES_S3_PUBLIC_ENDPOINT"`
	S3Region         string `env:"MEMORIES_S3_REGION" envDefault:"us-east-1"`
	S3Bucket         string `env:"MEMORIES_S3_BUCKET" envDefault:"love-story-media"`
	S3AccessKeyID    string `env:"MEMORIES_S3_ACCESS_KEY_ID"`
	S3SecretKey      string `env:"MEMORIES_S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle   bool   `env:"MEMORIES_S3_USE_PATH_STYLE" envDefault:"true"`

	// Media Configuration
	MaxUploadBytes int64 `env:"MEMORIES_MAX_UPLOAD_BYTES" envDefault:"52428800"`
	UploadLimit    int   `env:"MEMORIES_UPLOAD_LIMIT" envDefault:"100"` // Soft cap on batch size
	SeedDemo       bool  `env:"MEMORIES_SEED_DEMO" envDefault:"false"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.DatabaseDSN = strings.TrimSpace(cfg.DatabaseDSN)
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)
	cfg.S3PublicEndpoint = strings.TrimSpace(cfg.S3PublicEndpoint)
	cfg.S3Bucket = strings.TrimSpace(cfg.S3Bucket)
	cfg.S3AccessKeyID = strings.TrimSpace(cfg.S3AccessKeyID)
	cfg.S3SecretKey = strings.TrimSpace(cfg.S3SecretKey)
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 50 * 1024 * 1024
	}

	switch cfg.Backend {
	case "local", "remote", "memory":
	default:
		return nil, fmt.Errorf("unknown MEMORIES_BACKEND %q (expected local, remote or memory)", cfg.Backend)
	}

	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsLocalBackend returns true when metadata and payloads stay on disk.
func (c *Config) IsLocalBackend() bool {
	return c.Backend == "local"
}

// IsRemoteBackend returns true when the database-plus-object-storage pair is
// selected.
func (c *Config) IsRemoteBackend() bool {
	return c.Backend == "remote"
}

// IsMemoryBackend returns true for the ephemeral in-memory backend.
func (c *Config) IsMemoryBackend() bool {
	return c.Backend == "memory"
}
