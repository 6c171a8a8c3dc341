package kvstore

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"love-story/memories-api/internal/domain/persistence"

	"github.com/rs/zerolog"
)

// FileStore is a filesystem-backed implementation of the Store contract.
// Each record is one JSON document:
//
//	<root>/
//	  media-meta/
//	    <escaped key>.json
//	  messages/
//	    <escaped key>.json
//	  settings/
//	    <escaped key>.json
//
// Keys are URL-escaped so index keys like "media:index" map onto safe file
// names. Writes go through a temp file plus rename so a crash never leaves a
// half-written record behind.
type FileStore struct {
	root string
	log  zerolog.Logger
}

// NewFileStore creates a file store rooted at the given path.
func NewFileStore(root string, log zerolog.Logger) (*FileStore, error) {
	if root == "" {
		return nil, &persistence.ConfigError{
			Backend: "local",
			Missing: []string{"MEMORIES_LOCAL_DATA_PATH"},
		}
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}
	return &FileStore{
		root: root,
		log:  log.With().Str("component", "file-store").Logger(),
	}, nil
}

func (f *FileStore) path(partition, key string) string {
	return filepath.Join(f.root, partition, url.PathEscape(key)+".json")
}

// Get returns the stored value for key, or persistence.ErrNotFound.
func (f *FileStore) Get(ctx context.Context, partition, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(partition, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrNotFound
		}
		return nil, fmt.Errorf("read record %s/%s: %w", partition, key, err)
	}
	return data, nil
}

// Set stores value under key using atomic write (temp file + rename).
func (f *FileStore) Set(ctx context.Context, partition, key string, value []byte) error {
	destPath := f.path(partition, key)
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create partition directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(value); err != nil {
		tmpFile.Close()
		return fmt.Errorf("write record: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	success = true
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (f *FileStore) Remove(ctx context.Context, partition, key string) error {
	err := os.Remove(f.path(partition, key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove record %s/%s: %w", partition, key, err)
	}
	return nil
}

// Compile-time check that FileStore implements the Store contract
var _ persistence.Store = (*FileStore)(nil)
