package kvstore

import (
	"context"
	"errors"

	"love-story/memories-api/internal/domain/persistence"
	"love-story/memories-api/internal/infrastructure/metrics"
)

// InstrumentedStore wraps a Store and counts every operation.
type InstrumentedStore struct {
	inner persistence.Store
}

// Instrument wraps store so each Get/Set/Remove is recorded.
func Instrument(store persistence.Store) *InstrumentedStore {
	return &InstrumentedStore{inner: store}
}

func (s *InstrumentedStore) Get(ctx context.Context, partition, key string) ([]byte, error) {
	value, err := s.inner.Get(ctx, partition, key)
	metrics.RecordStoreOperation("get", operationStatus(err))
	return value, err
}

func (s *InstrumentedStore) Set(ctx context.Context, partition, key string, value []byte) error {
	err := s.inner.Set(ctx, partition, key, value)
	metrics.RecordStoreOperation("set", operationStatus(err))
	return err
}

func (s *InstrumentedStore) Remove(ctx context.Context, partition, key string) error {
	err := s.inner.Remove(ctx, partition, key)
	metrics.RecordStoreOperation("remove", operationStatus(err))
	return err
}

// operationStatus keeps not-found lookups apart from transport failures so
// the failure series only counts real errors.
func operationStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, persistence.ErrNotFound):
		return "not_found"
	default:
		return "failure"
	}
}

// Compile-time check that InstrumentedStore implements the Store contract
var _ persistence.Store = (*InstrumentedStore)(nil)
