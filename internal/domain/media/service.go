package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"love-story/memories-api/internal/config"
	"love-story/memories-api/internal/domain/persistence"
	"love-story/memories-api/utils/memoryid"
)

// indexKey addresses the ordered list of media ids, newest first. Every
// backend variant maintains this explicit index so display order never
// depends on backend-specific query capabilities.
const indexKey = "media:index"

// Service owns media metadata, payloads and the comment sub-model.
type Service struct {
	cfg   *config.Config
	store persistence.Store
	blobs persistence.BlobStore
	log   zerolog.Logger
}

func NewService(cfg *config.Config, store persistence.Store, blobs persistence.BlobStore, log zerolog.Logger) *Service {
	return &Service{
		cfg:   cfg,
		store: store,
		blobs: blobs,
		log:   log.With().Str("component", "media-service").Logger(),
	}
}

// AddMediaFiles ingests an upload batch. Each file is handled independently:
// a failing file is logged and skipped, the rest of the batch continues. When
// the metadata write fails after the payload upload succeeded, the payload is
// deleted again so no orphan is left behind.
func (s *Service) AddMediaFiles(ctx context.Context, files []Upload, tags []string) ([]*MediaItem, error) {
	added := make([]*MediaItem, 0, len(files))

	for _, file := range files {
		item, err := s.addOne(ctx, file, tags)
		if err != nil {
			s.log.Error().Err(err).
				Str("filename", file.Filename).
				Msg("failed to add media file, continuing batch")
			continue
		}
		added = append(added, item)
	}

	return added, nil
}

func (s *Service) addOne(ctx context.Context, file Upload, tags []string) (*MediaItem, error) {
	data, err := io.ReadAll(io.LimitReader(file.Body, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("file is empty")
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("file exceeds max size of %d bytes", s.cfg.MaxUploadBytes)
	}

	detected := mimetype.Detect(data)
	contentType := strings.TrimSpace(file.ContentType)
	if contentType == "" {
		contentType = detected.String()
	}

	id := memoryid.New()
	key := storageKey(id, detected.Extension())

	if err := s.blobs.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, fmt.Errorf("upload payload: %w", err)
	}

	item := &MediaItem{
		ID:         id,
		Filename:   file.Filename,
		Size:       int64(len(data)),
		Type:       classify(contentType),
		MimeType:   contentType,
		CreatedAt:  time.Now().UnixMilli(),
		Favorite:   false,
		Tags:       append([]string{}, tags...),
		Comments:   []Comment{},
		StorageKey: key,
	}

	if err := s.saveItem(ctx, item); err != nil {
		// compensate: the payload must not outlive its metadata
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.log.Error().Err(delErr).
				Str("media_id", id).
				Msg("failed to delete orphaned payload")
		}
		return nil, fmt.Errorf("save metadata: %w", err)
	}

	if err := s.prependToIndex(ctx, id); err != nil {
		s.log.Error().Err(err).
			Str("media_id", id).
			Msg("failed to update media index")
	}

	return item, nil
}

// GetAllMeta returns every item in index order, newest first. An id whose
// metadata record is missing is skipped and logged rather than failing the
// whole read.
func (s *Service) GetAllMeta(ctx context.Context) ([]*MediaItem, error) {
	ids, err := s.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*MediaItem, 0, len(ids))
	for _, id := range ids {
		item, err := s.loadItem(ctx, id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			s.log.Warn().Str("media_id", id).Msg("index references missing metadata record, skipping")
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// GetMeta returns the metadata record, or nil when the id is unknown.
func (s *Service) GetMeta(ctx context.Context, id string) (*MediaItem, error) {
	return s.loadItem(ctx, id)
}

// Render resolves the payload of an item into a renderable source: a URL
// when the blob store can mint one, otherwise a stream the caller must
// close. Returns nil when the id is unknown.
func (s *Service) Render(ctx context.Context, id string) (*RenderSource, error) {
	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	url, err := s.blobs.URL(ctx, item.StorageKey)
	if err != nil && !errors.Is(err, persistence.ErrNotFound) {
		return nil, fmt.Errorf("resolve payload url: %w", err)
	}
	if url != "" {
		return &RenderSource{URL: url, ContentType: item.MimeType, Size: item.Size}, nil
	}

	body, contentType, err := s.blobs.Open(ctx, item.StorageKey)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			s.log.Warn().Str("media_id", id).Msg("metadata present but payload missing")
			return nil, nil
		}
		return nil, fmt.Errorf("open payload: %w", err)
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = item.MimeType
	}

	return &RenderSource{Body: body, ContentType: contentType, Size: item.Size}, nil
}

// ToggleFavorite flips the favorite flag. Returns nil when the id is unknown.
func (s *Service) ToggleFavorite(ctx context.Context, id string) (*MediaItem, error) {
	return s.UpdateMeta(ctx, id, func(item *MediaItem) {
		item.Favorite = !item.Favorite
	})
}

// UpdateMeta applies mutate to the stored record and persists the result.
// Read-modify-write at whole-record granularity, no locking. Returns nil
// when the id is unknown.
func (s *Service) UpdateMeta(ctx context.Context, id string, mutate func(*MediaItem)) (*MediaItem, error) {
	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	mutate(item)

	if err := s.saveItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteMedia removes the metadata record, the index entry and the payload.
// Returns false when the metadata was already absent.
func (s *Service) DeleteMedia(ctx context.Context, id string) (bool, error) {
	item, err := s.loadItem(ctx, id)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, nil
	}

	if err := s.store.Remove(ctx, persistence.PartitionMediaMeta, id); err != nil {
		return false, fmt.Errorf("remove metadata: %w", err)
	}

	if err := s.removeFromIndex(ctx, id); err != nil {
		s.log.Error().Err(err).Str("media_id", id).Msg("failed to update media index")
	}

	if err := s.blobs.Delete(ctx, item.StorageKey); err != nil {
		s.log.Error().Err(err).Str("media_id", id).Msg("failed to delete payload")
	}

	return true, nil
}

// AddComment appends a comment with empty replies and reactions. The author
// defaults to "Guest". Returns nil when the id is unknown.
func (s *Service) AddComment(ctx context.Context, id, text, author string) (*MediaItem, error) {
	author = strings.TrimSpace(author)
	if author == "" {
		author = "Guest"
	}

	return s.UpdateMeta(ctx, id, func(item *MediaItem) {
		item.Comments = append(item.Comments, Comment{
			ID:        memoryid.New(),
			Text:      text,
			Author:    author,
			At:        time.Now().UnixMilli(),
			Replies:   []Reply{},
			Reactions: map[string]int{},
		})
	})
}

// AddReply appends a reply to the addressed comment, oldest first. The name
// defaults to "Guest". An unknown comment id leaves the record unchanged.
func (s *Service) AddReply(ctx context.Context, mediaID, commentID, name, text string) (*MediaItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Guest"
	}

	return s.UpdateMeta(ctx, mediaID, func(item *MediaItem) {
		for i := range item.Comments {
			if item.Comments[i].ID != commentID {
				continue
			}
			item.Comments[i].Replies = append(item.Comments[i].Replies, Reply{
				ID:   memoryid.New(),
				Name: name,
				Text: text,
				At:   time.Now().UnixMilli(),
			})
			return
		}
	})
}

// DeleteComment removes a comment from the addressed item. An unknown
// comment id leaves the record unchanged.
func (s *Service) DeleteComment(ctx context.Context, mediaID, commentID string) (*MediaItem, error) {
	return s.UpdateMeta(ctx, mediaID, func(item *MediaItem) {
		kept := item.Comments[:0]
		for _, comment := range item.Comments {
			if comment.ID != commentID {
				kept = append(kept, comment)
			}
		}
		item.Comments = kept
	})
}

// DeleteReply removes a reply from the addressed comment. Unknown comment or
// reply ids leave the record unchanged.
func (s *Service) DeleteReply(ctx context.Context, mediaID, commentID, replyID string) (*MediaItem, error) {
	return s.UpdateMeta(ctx, mediaID, func(item *MediaItem) {
		for i := range item.Comments {
			if item.Comments[i].ID != commentID {
				continue
			}
			kept := item.Comments[i].Replies[:0]
			for _, reply := range item.Comments[i].Replies {
				if reply.ID != replyID {
					kept = append(kept, reply)
				}
			}
			item.Comments[i].Replies = kept
			return
		}
	})
}

// AddReaction increments the emoji tally on the addressed comment. Every
// call counts; there is no per-client de-duplication on media comments.
func (s *Service) AddReaction(ctx context.Context, mediaID, commentID, emoji string) (*MediaItem, error) {
	return s.UpdateMeta(ctx, mediaID, func(item *MediaItem) {
		for i := range item.Comments {
			if item.Comments[i].ID != commentID {
				continue
			}
			if item.Comments[i].Reactions == nil {
				item.Comments[i].Reactions = map[string]int{}
			}
			item.Comments[i].Reactions[emoji]++
			return
		}
	})
}

// EventGroups buckets all items by creation day, newest group first. Items
// inside a group keep index order.
func (s *Service) EventGroups(ctx context.Context) ([]EventGroup, error) {
	items, err := s.GetAllMeta(ctx)
	if err != nil {
		return nil, err
	}

	groups := make([]EventGroup, 0)
	byDate := make(map[string]int)

	for _, item := range items {
		day := time.UnixMilli(item.CreatedAt).UTC()
		key := day.Format("2006-01-02")

		idx, ok := byDate[key]
		if !ok {
			idx = len(groups)
			byDate[key] = idx
			groups = append(groups, EventGroup{
				Date:    key,
				Display: day.Format("January 2, 2006"),
				Items:   []*MediaItem{},
			})
		}
		groups[idx].Items = append(groups[idx].Items, item)
	}

	return groups, nil
}

// demo content created by SeedDemoContent when the gallery is empty
var demoItems = []struct {
	filename string
	body     string
}{
	{"our-story-begins.txt", "The day we met. Everything after starts here."},
	{"first-trip-together.txt", "Two tickets, one backpack, zero plans."},
	{"a-quiet-sunday.txt", "Coffee, rain on the window, nowhere to be."},
}

// SeedDemoContent populates an empty gallery with a few legacy text items
// tagged "demo". It does nothing when any item already exists.
func (s *Service) SeedDemoContent(ctx context.Context) (int, error) {
	ids, err := s.loadIndex(ctx)
	if err != nil {
		return 0, err
	}
	if len(ids) > 0 {
		return 0, nil
	}

	now := time.Now()
	created := 0
	for i, demo := range demoItems {
		id := memoryid.New()
		key := storageKey(id, ".txt")
		body := []byte(demo.body)

		if err := s.blobs.Upload(ctx, key, bytes.NewReader(body), int64(len(body)), "text/plain"); err != nil {
			return created, fmt.Errorf("upload demo payload: %w", err)
		}

		item := &MediaItem{
			ID:         id,
			Filename:   demo.filename,
			Size:       int64(len(body)),
			Type:       TypeText,
			MimeType:   "text/plain",
			CreatedAt:  now.AddDate(0, 0, -(len(demoItems) - 1 - i)).UnixMilli(),
			Tags:       []string{"demo"},
			Comments:   []Comment{},
			StorageKey: key,
		}

		if err := s.saveItem(ctx, item); err != nil {
			return created, fmt.Errorf("save demo metadata: %w", err)
		}
		if err := s.prependToIndex(ctx, id); err != nil {
			return created, fmt.Errorf("update demo index: %w", err)
		}
		created++
	}

	s.log.Info().Int("count", created).Msg("seeded demo content")
	return created, nil
}

func (s *Service) loadItem(ctx context.Context, id string) (*MediaItem, error) {
	raw, err := s.store.Get(ctx, persistence.PartitionMediaMeta, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load metadata %s: %w", id, err)
	}

	var item MediaItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", id, err)
	}
	return &item, nil
}

func (s *Service) saveItem(ctx context.Context, item *MediaItem) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode metadata %s: %w", item.ID, err)
	}
	return s.store.Set(ctx, persistence.PartitionMediaMeta, item.ID, raw)
}

func (s *Service) loadIndex(ctx context.Context) ([]string, error) {
	raw, err := s.store.Get(ctx, persistence.PartitionMediaMeta, indexKey)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("load media index: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode media index: %w", err)
	}
	return ids, nil
}

func (s *Service) saveIndex(ctx context.Context, ids []string) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode media index: %w", err)
	}
	return s.store.Set(ctx, persistence.PartitionMediaMeta, indexKey, raw)
}

func (s *Service) prependToIndex(ctx context.Context, id string) error {
	ids, err := s.loadIndex(ctx)
	if err != nil {
		return err
	}
	return s.saveIndex(ctx, append([]string{id}, ids...))
}

func (s *Service) removeFromIndex(ctx context.Context, id string) error {
	ids, err := s.loadIndex(ctx)
	if err != nil {
		return err
	}

	kept := ids[:0]
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	return s.saveIndex(ctx, kept)
}

func storageKey(id, ext string) string {
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("media/%s%s", id, ext)
}

// classify maps a content type to the item type enum: "video/*" is video,
// everything else an image. Text items are never created through upload.
func classify(contentType string) string {
	if strings.HasPrefix(contentType, "video/") {
		return TypeVideo
	}
	return TypeImage
}
