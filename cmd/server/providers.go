package main

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"love-story/memories-api/internal/config"
	"love-story/memories-api/internal/domain/persistence"
	"love-story/memories-api/internal/infrastructure/database"
	"love-story/memories-api/internal/infrastructure/kvstore"
	"love-story/memories-api/internal/infrastructure/storage"
)

// newBackend constructs the persistence backend pair selected by
// MEMORIES_BACKEND. Misconfiguration surfaces here as a ConfigError so the
// process exits with an actionable diagnostic instead of serving a backend
// whose every call would fail.
func newBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (persistence.Store, persistence.BlobStore, error) {
	switch {
	case cfg.IsMemoryBackend():
		log.Info().Msg("using in-memory backend, data will not survive a restart")
		return kvstore.Instrument(kvstore.NewMemoryStore()), storage.NewMemoryBlobStore(), nil

	case cfg.IsLocalBackend():
		store, err := kvstore.NewFileStore(cfg.LocalDataPath, log)
		if err != nil {
			return nil, nil, err
		}
		blobs, err := storage.NewLocalBlobStore(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return kvstore.Instrument(store), blobs, nil

	default: // remote
		dsn := strings.TrimSpace(cfg.DatabaseDSN)
		if dsn == "" || strings.HasPrefix(dsn, "YOUR_") {
			return nil, nil, &persistence.ConfigError{Backend: "remote", Missing: []string{"MEMORIES_DB_DSN"}}
		}

		blobs, err := storage.NewS3BlobStore(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}

		db, err := database.Connect(database.Config{
			DSN:             dsn,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			ConnMaxLifetime: cfg.DBConnLifetime,
			LogLevel:        gormlogger.Warn,
		})
		if err != nil {
			return nil, nil, err
		}

		if err := database.AutoMigrate(ctx, db, log); err != nil {
			return nil, nil, err
		}

		return kvstore.Instrument(kvstore.NewPostgresStore(db)), blobs, nil
	}
}
