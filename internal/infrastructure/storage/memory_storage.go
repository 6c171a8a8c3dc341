package storage

import (
	"bytes"
	"context"
	"io"
	"sync"

	"love-story/memories-api/internal/domain/persistence"
)

type memoryBlob struct {
	data        []byte
	contentType string
}

// MemoryBlobStore keeps payloads in process memory. Used by the memory
// backend and by tests.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string]memoryBlob
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string]memoryBlob)}
}

func (m *MemoryBlobStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = memoryBlob{data: data, contentType: contentType}
	return nil
}

func (m *MemoryBlobStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	m.mu.RLock()
	blob, ok := m.blobs[key]
	m.mu.RUnlock()

	if !ok {
		return nil, "", persistence.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(blob.data)), blob.contentType, nil
}

// URL always returns "" so callers stream payloads through the API.
func (m *MemoryBlobStore) URL(ctx context.Context, key string) (string, error) {
	return "", nil
}

func (m *MemoryBlobStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

// Compile-time check that MemoryBlobStore implements the BlobStore contract
var _ persistence.BlobStore = (*MemoryBlobStore)(nil)
