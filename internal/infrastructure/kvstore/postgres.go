package kvstore

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"love-story/memories-api/internal/domain/persistence"
	"love-story/memories-api/internal/infrastructure/database/entities"
	"love-story/memories-api/internal/utils/platformerrors"
)

// PostgresStore persists records in the remote database. It is the metadata
// side of the remote backend variant.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore builds a record store over the given connection.
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get returns the stored value for key, or persistence.ErrNotFound.
func (p *PostgresStore) Get(ctx context.Context, partition, key string) ([]byte, error) {
	var entity entities.Record
	err := p.db.WithContext(ctx).
		Where("partition = ? AND key = ?", partition, key).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, persistence.ErrNotFound
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch record",
			err,
		)
	}
	return []byte(entity.Value), nil
}

// Set stores value under key, overwriting any previous value.
func (p *PostgresStore) Set(ctx context.Context, partition, key string, value []byte) error {
	entity := entities.Record{
		Partition: partition,
		Key:       key,
		Value:     datatypes.JSON(value),
	}
	err := p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "partition"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entity).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to store record",
			err,
		)
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (p *PostgresStore) Remove(ctx context.Context, partition, key string) error {
	err := p.db.WithContext(ctx).
		Where("partition = ? AND key = ?", partition, key).
		Delete(&entities.Record{}).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete record",
			err,
		)
	}
	return nil
}

// Compile-time check that PostgresStore implements the Store contract
var _ persistence.Store = (*PostgresStore)(nil)
