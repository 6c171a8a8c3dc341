package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"love-story/memories-api/internal/config"
	"love-story/memories-api/internal/domain/persistence"
)

// LocalBlobStore keeps media payloads on the local filesystem.
type LocalBlobStore struct {
	basePath string
	baseURL  string
	log      zerolog.Logger
}

// NewLocalBlobStore creates a filesystem payload store under the configured
// data path.
func NewLocalBlobStore(cfg *config.Config, log zerolog.Logger) (*LocalBlobStore, error) {
	logger := log.With().Str("component", "local-blob-store").Logger()

	basePath := strings.TrimSpace(cfg.LocalDataPath)
	if basePath == "" {
		return nil, &persistence.ConfigError{
			Backend: "local",
			Missing: []string{"MEMORIES_LOCAL_DATA_PATH"},
		}
	}
	basePath = filepath.Join(basePath, "blobs")

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}

	store := &LocalBlobStore{
		basePath: basePath,
		baseURL:  strings.TrimSpace(cfg.LocalBlobBaseURL),
		log:      logger,
	}

	logger.Info().
		Str("path", basePath).
		Str("base_url", store.baseURL).
		Msg("local blob store initialized")

	return store, nil
}

// Upload stores a payload on the local filesystem.
func (l *LocalBlobStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	fullPath := filepath.Join(l.basePath, filepath.FromSlash(key))
	dir := filepath.Dir(fullPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	written, err := io.Copy(file, body)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	l.log.Debug().
		Str("key", key).
		Int64("bytes", written).
		Msg("payload stored on local filesystem")

	return nil
}

// Open reads a payload from the local filesystem.
func (l *LocalBlobStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	fullPath := filepath.Join(l.basePath, filepath.FromSlash(key))

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", persistence.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}

	return file, detectContentTypeFromPath(fullPath), nil
}

// URL returns a fetchable URL when a base URL is configured, otherwise ""
// so callers stream the payload instead.
func (l *LocalBlobStore) URL(ctx context.Context, key string) (string, error) {
	if l.baseURL == "" {
		return "", nil
	}
	if _, err := os.Stat(filepath.Join(l.basePath, filepath.FromSlash(key))); err != nil {
		if os.IsNotExist(err) {
			return "", persistence.ErrNotFound
		}
		return "", fmt.Errorf("stat payload: %w", err)
	}
	urlKey := filepath.ToSlash(key)
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(l.baseURL, "/"), urlKey), nil
}

// Delete removes a payload. Deleting an absent key is not an error.
func (l *LocalBlobStore) Delete(ctx context.Context, key string) error {
	fullPath := filepath.Join(l.basePath, filepath.FromSlash(key))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete payload: %w", err)
	}
	return nil
}

// detectContentTypeFromPath attempts to determine content type from file extension.
func detectContentTypeFromPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	case ".tiff", ".tif":
		return "image/tiff"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

// Compile-time check that LocalBlobStore implements the BlobStore contract
var _ persistence.BlobStore = (*LocalBlobStore)(nil)
