package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"love-story/memories-api/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(&entities.Record{}); err != nil {
		return err
	}
	log.Info().Msg("applied record store migrations")
	return nil
}
