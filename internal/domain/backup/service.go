package backup

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"love-story/memories-api/internal/domain/media"
	"love-story/memories-api/internal/domain/persistence"
)

// Library is the slice of the media service the export needs.
type Library interface {
	GetAllMeta(ctx context.Context) ([]*media.MediaItem, error)
}

// Manifest summarizes one export run.
type Manifest struct {
	Items   int `json:"items"`
	Skipped int `json:"skipped"`
}

// Service produces the downloadable backup archive.
type Service struct {
	library Library
	blobs   persistence.BlobStore
	log     zerolog.Logger
}

func NewService(library Library, blobs persistence.BlobStore, log zerolog.Logger) *Service {
	return &Service{
		library: library,
		blobs:   blobs,
		log:     log.With().Str("component", "backup-service").Logger(),
	}
}

// Filename returns the download name for an archive built today.
func Filename(now time.Time) string {
	return fmt.Sprintf("love-story-backup-%s.zip", now.Format("2006-01-02"))
}

// Build writes a ZIP archive to w: metadata/items.json with every metadata
// record, plus one media/{id}-{filename} entry per item whose payload is
// readable. Items with unreadable payloads are skipped and counted in the
// manifest. There is no import path; the archive is for safekeeping.
func (s *Service) Build(ctx context.Context, w io.Writer) (*Manifest, error) {
	items, err := s.library.GetAllMeta(ctx)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}

	archive := zip.NewWriter(w)
	manifest := &Manifest{}

	meta, err := archive.Create("metadata/items.json")
	if err != nil {
		return nil, fmt.Errorf("create manifest entry: %w", err)
	}
	encoded, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if _, err := meta.Write(encoded); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	for _, item := range items {
		if err := s.addPayload(ctx, archive, item); err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				s.log.Warn().Str("media_id", item.ID).Msg("payload missing, skipped in backup")
				manifest.Skipped++
				continue
			}
			return nil, err
		}
		manifest.Items++
	}

	if err := archive.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}

	s.log.Info().
		Int("items", manifest.Items).
		Int("skipped", manifest.Skipped).
		Msg("backup archive built")

	return manifest, nil
}

func (s *Service) addPayload(ctx context.Context, archive *zip.Writer, item *media.MediaItem) error {
	body, _, err := s.blobs.Open(ctx, item.StorageKey)
	if err != nil {
		return err
	}
	defer body.Close()

	entry, err := archive.Create(fmt.Sprintf("media/%s-%s", item.ID, item.Filename))
	if err != nil {
		return fmt.Errorf("create payload entry: %w", err)
	}
	if _, err := io.Copy(entry, body); err != nil {
		return fmt.Errorf("write payload %s: %w", item.ID, err)
	}
	return nil
}
