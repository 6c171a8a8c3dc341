package media

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"love-story/memories-api/internal/config"
	"love-story/memories-api/internal/domain/persistence"
	"love-story/memories-api/internal/infrastructure/kvstore"
	"love-story/memories-api/internal/infrastructure/storage"
)

func newTestService(t *testing.T) (*Service, persistence.Store, persistence.BlobStore) {
	t.Helper()
	cfg := &config.Config{MaxUploadBytes: 10 * 1024 * 1024}
	store := kvstore.NewMemoryStore()
	blobs := storage.NewMemoryBlobStore()
	return NewService(cfg, store, blobs, zerolog.Nop()), store, blobs
}

func jpegUpload(name string, size int) Upload {
	// minimal JPEG magic so content sniffing classifies it as an image
	data := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0x42}, size-4)...)
	return Upload{
		Filename:    name,
		Size:        int64(size),
		ContentType: "image/jpeg",
		Body:        bytes.NewReader(data),
	}
}

func TestAddMediaFiles_SingleImage(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	added, err := svc.AddMediaFiles(ctx, []Upload{jpegUpload("sunset.jpg", 2048)}, nil)
	if err != nil {
		t.Fatalf("AddMediaFiles() error = %v", err)
	}
	if len(added) != 1 {
		t.Fatalf("AddMediaFiles() added %d items, want 1", len(added))
	}

	items, err := svc.GetAllMeta(ctx)
	if err != nil {
		t.Fatalf("GetAllMeta() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("GetAllMeta() = %d items, want 1", len(items))
	}

	item := items[0]
	if item.Filename != "sunset.jpg" {
		t.Errorf("Filename = %v, want sunset.jpg", item.Filename)
	}
	if item.Size != 2048 {
		t.Errorf("Size = %v, want 2048", item.Size)
	}
	if item.Type != TypeImage {
		t.Errorf("Type = %v, want image", item.Type)
	}
	if item.Favorite {
		t.Error("Favorite = true, want false")
	}
	if len(item.Comments) != 0 {
		t.Errorf("Comments = %v, want empty", item.Comments)
	}
}

func TestAddMediaFiles_ClassifiesVideo(t *testing.T) {
	svc, _, _ := newTestService(t)

	added, err := svc.AddMediaFiles(context.Background(), []Upload{{
		Filename:    "clip.mp4",
		Size:        64,
		ContentType: "video/mp4",
		Body:        strings.NewReader(strings.Repeat("v", 64)),
	}}, nil)
	if err != nil {
		t.Fatalf("AddMediaFiles() error = %v", err)
	}
	if len(added) != 1 {
		t.Fatalf("AddMediaFiles() added %d items, want 1", len(added))
	}
	if added[0].Type != TypeVideo {
		t.Errorf("Type = %v, want video", added[0].Type)
	}
}

func TestAddMediaFiles_NewestFirst(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	names := []string{"a.jpg", "b.jpg", "c.jpg"}
	for _, name := range names {
		if _, err := svc.AddMediaFiles(ctx, []Upload{jpegUpload(name, 128)}, nil); err != nil {
			t.Fatalf("AddMediaFiles(%s) error = %v", name, err)
		}
	}

	items, err := svc.GetAllMeta(ctx)
	if err != nil {
		t.Fatalf("GetAllMeta() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("GetAllMeta() = %d items, want 3", len(items))
	}
	// last added comes first
	want := []string{"c.jpg", "b.jpg", "a.jpg"}
	for i, item := range items {
		if item.Filename != want[i] {
			t.Errorf("items[%d].Filename = %v, want %v", i, item.Filename, want[i])
		}
	}
}

func TestAddMediaFiles_Tags(t *testing.T) {
	svc, _, _ := newTestService(t)

	added, err := svc.AddMediaFiles(context.Background(), []Upload{jpegUpload("x.jpg", 64)}, []string{"summer", "beach"})
	if err != nil {
		t.Fatalf("AddMediaFiles() error = %v", err)
	}
	if len(added) != 1 || len(added[0].Tags) != 2 || added[0].Tags[0] != "summer" {
		t.Errorf("Tags = %v, want [summer beach]", added[0].Tags)
	}
}

func TestAddMediaFiles_EmptyFileSkipped(t *testing.T) {
	svc, _, _ := newTestService(t)

	added, err := svc.AddMediaFiles(context.Background(), []Upload{
		{Filename: "empty.jpg", ContentType: "image/jpeg", Body: bytes.NewReader(nil)},
		jpegUpload("good.jpg", 128),
	}, nil)
	if err != nil {
		t.Fatalf("AddMediaFiles() error = %v", err)
	}
	if len(added) != 1 {
		t.Fatalf("AddMediaFiles() added %d items, want 1", len(added))
	}
	if added[0].Filename != "good.jpg" {
		t.Errorf("Filename = %v, want good.jpg", added[0].Filename)
	}
}

// failingStore delegates to an inner store but fails Set for values matching
// a predicate, simulating a metadata write failure mid batch.
type failingStore struct {
	persistence.Store
	failWhen func(partition, key string, value []byte) bool
}

func (f *failingStore) Set(ctx context.Context, partition, key string, value []byte) error {
	if f.failWhen(partition, key, value) {
		return io.ErrUnexpectedEOF
	}
	return f.Store.Set(ctx, partition, key, value)
}

// spyBlobs records deleted keys.
type spyBlobs struct {
	persistence.BlobStore
	deleted []string
}

func (s *spyBlobs) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return s.BlobStore.Delete(ctx, key)
}

func TestAddMediaFiles_PartialFailureCompensates(t *testing.T) {
	cfg := &config.Config{MaxUploadBytes: 10 * 1024 * 1024}
	inner := kvstore.NewMemoryStore()
	store := &failingStore{
		Store: inner,
		failWhen: func(partition, key string, value []byte) bool {
			return bytes.Contains(value, []byte("bad.jpg"))
		},
	}
	blobs := &spyBlobs{BlobStore: storage.NewMemoryBlobStore()}
	svc := NewService(cfg, store, blobs, zerolog.Nop())
	ctx := context.Background()

	added, err := svc.AddMediaFiles(ctx, []Upload{
		jpegUpload("ok1.jpg", 128),
		jpegUpload("bad.jpg", 128),
		jpegUpload("ok2.jpg", 128),
	}, nil)
	if err != nil {
		t.Fatalf("AddMediaFiles() error = %v", err)
	}

	// the failing file is skipped, the rest of the batch survives
	if len(added) != 2 {
		t.Fatalf("AddMediaFiles() added %d items, want 2", len(added))
	}
	for _, item := range added {
		if item.Filename == "bad.jpg" {
			t.Error("failing file ended up in the result")
		}
	}

	// the orphaned payload was deleted again
	if len(blobs.deleted) != 1 {
		t.Fatalf("compensation deleted %d payloads, want 1", len(blobs.deleted))
	}
	if _, _, err := blobs.Open(ctx, blobs.deleted[0]); err == nil {
		t.Error("orphaned payload still readable after compensation")
	}

	items, err := svc.GetAllMeta(ctx)
	if err != nil {
		t.Fatalf("GetAllMeta() error = %v", err)
	}
	if len(items) != 2 {
		t.Errorf("GetAllMeta() = %d items, want 2", len(items))
	}
}

func TestGetAllMeta_SkipsMissingRecord(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	added, err := svc.AddMediaFiles(ctx, []Upload{
		jpegUpload("keep.jpg", 64),
		jpegUpload("vanish.jpg", 64),
	}, nil)
	if err != nil {
		t.Fatalf("AddMediaFiles() error = %v", err)
	}

	// drop one metadata record behind the service's back, index untouched
	var vanished string
	for _, item := range added {
		if item.Filename == "vanish.jpg" {
			vanished = item.ID
		}
	}
	if err := store.Remove(ctx, persistence.PartitionMediaMeta, vanished); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	items, err := svc.GetAllMeta(ctx)
	if err != nil {
		t.Fatalf("GetAllMeta() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("GetAllMeta() = %d items, want 1", len(items))
	}
	if items[0].Filename != "keep.jpg" {
		t.Errorf("Filename = %v, want keep.jpg", items[0].Filename)
	}
}

func TestGetMeta_UnknownID(t *testing.T) {
	svc, _, _ := newTestService(t)

	item, err := svc.GetMeta(context.Background(), "mem_unknown")
	if err != nil {
		t.Fatalf("GetMeta() error = %v", err)
	}
	if item != nil {
		t.Errorf("GetMeta() = %v, want nil", item)
	}
}

func TestDeleteMedia(t *testing.T) {
	svc, _, blobs := newTestService(t)
	ctx := context.Background()

	added, err := svc.AddMediaFiles(ctx, []Upload{jpegUpload("gone.jpg", 64)}, nil)
	if err != nil {
		t.Fatalf("AddMediaFiles() error = %v", err)
	}
	id := added[0].ID
	key := added[0].StorageKey

	deleted, err := svc.DeleteMedia(ctx, id)
	if err != nil {
		t.Fatalf("DeleteMedia() error = %v", err)
	}
	if !deleted {
		t.Fatal("DeleteMedia() = false, want true")
	}

	if item, _ := svc.GetMeta(ctx, id); item != nil {
		t.Error("GetMeta() after delete returned a record")
	}
	if _, _, err := blobs.Open(ctx, key); err == nil {
		t.Error("payload still readable after delete")
	}

	// second delete on the same id
	deleted, err = svc.DeleteMedia(ctx, id)
	if err != nil {
		t.Fatalf("second DeleteMedia() error = %v", err)
	}
	if deleted {
		t.Error("second DeleteMedia() = true, want false")
	}
}

func TestToggleFavorite_DoubleNegation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	added, _ := svc.AddMediaFiles(ctx, []Upload{jpegUpload("fav.jpg", 64)}, nil)
	id := added[0].ID

	once, err := svc.ToggleFavorite(ctx, id)
	if err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	if !once.Favorite {
		t.Error("first toggle: Favorite = false, want true")
	}

	twice, err := svc.ToggleFavorite(ctx, id)
	if err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	if twice.Favorite {
		t.Error("second toggle: Favorite = true, want false")
	}
}

func TestToggleFavorite_UnknownID(t *testing.T) {
	svc, _, _ := newTestService(t)

	item, err := svc.ToggleFavorite(context.Background(), "mem_unknown")
	if err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	if item != nil {
		t.Errorf("ToggleFavorite() = %v, want nil", item)
	}
}

func TestUpdateMeta_Rename(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	added, _ := svc.AddMediaFiles(ctx, []Upload{jpegUpload("old.jpg", 64)}, nil)

	item, err := svc.UpdateMeta(ctx, added[0].ID, func(item *MediaItem) {
		item.Filename = "new.jpg"
	})
	if err != nil {
		t.Fatalf("UpdateMeta() error = %v", err)
	}
	if item.Filename != "new.jpg" {
		t.Errorf("Filename = %v, want new.jpg", item.Filename)
	}

	reloaded, _ := svc.GetMeta(ctx, added[0].ID)
	if reloaded.Filename != "new.jpg" {
		t.Errorf("persisted Filename = %v, want new.jpg", reloaded.Filename)
	}
}

func TestCommentReplyFlow(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	added, _ := svc.AddMediaFiles(ctx, []Upload{jpegUpload("sunset.jpg", 2048)}, nil)
	id := added[0].ID

	item, err := svc.AddComment(ctx, id, "Beautiful!", "")
	if err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
	if len(item.Comments) != 1 {
		t.Fatalf("Comments = %d, want 1", len(item.Comments))
	}
	comment := item.Comments[0]
	if comment.Author != "Guest" {
		t.Errorf("Author = %v, want Guest", comment.Author)
	}
	if comment.Text != "Beautiful!" {
		t.Errorf("Text = %v, want Beautiful!", comment.Text)
	}

	item, err = svc.AddReply(ctx, id, comment.ID, "Sam", "Agreed")
	if err != nil {
		t.Fatalf("AddReply() error = %v", err)
	}
	replies := item.Comments[0].Replies
	if len(replies) != 1 {
		t.Fatalf("Replies = %d, want 1", len(replies))
	}
	if replies[0].Name != "Sam" {
		t.Errorf("reply Name = %v, want Sam", replies[0].Name)
	}
}

func TestAddReply_RepliesOldestFirst(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	added, _ := svc.AddMediaFiles(ctx, []Upload{jpegUpload("r.jpg", 64)}, nil)
	item, _ := svc.AddComment(ctx, added[0].ID, "hi", "")
	commentID := item.Comments[0].ID

	svc.AddReply(ctx, added[0].ID, commentID, "first", "1")
	item, _ = svc.AddReply(ctx, added[0].ID, commentID, "second", "2")

	replies := item.Comments[0].Replies
	if len(replies) != 2 {
		t.Fatalf("Replies = %d, want 2", len(replies))
	}
	if replies[0].Name != "first" || replies[1].Name != "second" {
		t.Errorf("reply order = [%s %s], want [first second]", replies[0].Name, replies[1].Name)
	}
}

func TestAddReply_DefaultsName(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	added, _ := svc.AddMediaFiles(ctx, []Upload{jpegUpload("r.jpg", 64)}, nil)
	item, _ := svc.AddComment(ctx, added[0].ID, "hi", "")
	commentID := item.Comments[0].ID

	item, err := svc.AddReply(ctx, added[0].ID, commentID, "  ", "me too")
	if err != nil {
		t.Fatalf("AddReply() error = %v", err)
	}
	if got := item.Comments[0].Replies[0].Name; got != "Guest" {
		t.Errorf("reply Name = %q, want Guest", got)
	}
}

func TestAddReply_UnknownComment(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	added, _ := svc.AddMediaFiles(ctx, []Upload{jpegUpload("r.jpg", 64)}, nil)

	item, err := svc.AddReply(ctx, added[0].ID, "mem_nocomment", "Sam", "hello")
	if err != nil {
		t.Fatalf("AddReply() error = %v", err)
	}
	// unknown comment id leaves the record unchanged
	if item == nil || len(item.Comments) != 0 {
		t.Errorf("item = %v, want unchanged record", item)
	}
}

func TestDeleteComment(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	added, _ := svc.AddMediaFiles(ctx, []Upload{jpegUpload("d.jpg", 64)}, nil)
	id := added[0].ID

	item, _ := svc.AddComment(ctx, id, "keep", "Ana")
	item, _ = svc.AddComment(ctx, id, "drop", "Ben")
	dropID := item.Comments[1].ID

	item, err := svc.DeleteComment(ctx, id, dropID)
	if err != nil {
		t.Fatalf("DeleteComment() error = %v", err)
	}
	if len(item.Comments) != 1 || item.Comments[0].Text != "keep" {
		t.Errorf("Comments = %+v, want only the kept comment", item.Comments)
	}

	reloaded, _ := svc.GetMeta(ctx, id)
	if len(reloaded.Comments) != 1 {
		t.Errorf("persisted Comments = %d, want 1", len(reloaded.Comments))
	}

	// unknown comment id leaves the record unchanged
	item, err = svc.DeleteComment(ctx, id, "mem_nocomment")
	if err != nil {
		t.Fatalf("DeleteComment() error = %v", err)
	}
	if len(item.Comments) != 1 {
		t.Errorf("Comments = %d after unknown-id delete, want 1", len(item.Comments))
	}
}

func TestDeleteComment_UnknownMedia(t *testing.T) {
	svc, _, _ := newTestService(t)

	item, err := svc.DeleteComment(context.Background(), "mem_unknown", "mem_comment")
	if err != nil {
		t.Fatalf("DeleteComment() error = %v", err)
	}
	if item != nil {
		t.Errorf("DeleteComment() = %v, want nil", item)
	}
}

func TestDeleteReply(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	added, _ := svc.AddMediaFiles(ctx, []Upload{jpegUpload("d.jpg", 64)}, nil)
	id := added[0].ID

	item, _ := svc.AddComment(ctx, id, "hi", "Ana")
	commentID := item.Comments[0].ID
	svc.AddReply(ctx, id, commentID, "keep", "1")
	item, _ = svc.AddReply(ctx, id, commentID, "drop", "2")
	dropID := item.Comments[0].Replies[1].ID

	item, err := svc.DeleteReply(ctx, id, commentID, dropID)
	if err != nil {
		t.Fatalf("DeleteReply() error = %v", err)
	}
	replies := item.Comments[0].Replies
	if len(replies) != 1 || replies[0].Name != "keep" {
		t.Errorf("Replies = %+v, want only the kept reply", replies)
	}

	reloaded, _ := svc.GetMeta(ctx, id)
	if len(reloaded.Comments[0].Replies) != 1 {
		t.Errorf("persisted Replies = %d, want 1", len(reloaded.Comments[0].Replies))
	}

	// unknown reply id leaves the record unchanged
	item, err = svc.DeleteReply(ctx, id, commentID, "mem_noreply")
	if err != nil {
		t.Fatalf("DeleteReply() error = %v", err)
	}
	if len(item.Comments[0].Replies) != 1 {
		t.Errorf("Replies = %d after unknown-id delete, want 1", len(item.Comments[0].Replies))
	}
}

func TestAddReaction_UnboundedIncrement(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	added, _ := svc.AddMediaFiles(ctx, []Upload{jpegUpload("r.jpg", 64)}, nil)
	item, _ := svc.AddComment(ctx, added[0].ID, "nice", "")
	commentID := item.Comments[0].ID

	const n = 5
	for i := 0; i < n; i++ {
		if item, _ = svc.AddReaction(ctx, added[0].ID, commentID, "❤️"); item == nil {
			t.Fatal("AddReaction() = nil")
		}
	}

	if got := item.Comments[0].Reactions["❤️"]; got != n {
		t.Errorf("Reactions[❤️] = %d, want %d", got, n)
	}
}

func TestRender_StreamsPayload(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	added, _ := svc.AddMediaFiles(ctx, []Upload{jpegUpload("s.jpg", 256)}, nil)

	source, err := svc.Render(ctx, added[0].ID)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if source == nil {
		t.Fatal("Render() = nil")
	}
	if source.URL != "" {
		t.Errorf("URL = %v, want stream for memory backend", source.URL)
	}
	defer source.Body.Close()

	data, err := io.ReadAll(source.Body)
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	if len(data) != 256 {
		t.Errorf("payload = %d bytes, want 256", len(data))
	}
}

func TestRender_UnknownID(t *testing.T) {
	svc, _, _ := newTestService(t)

	source, err := svc.Render(context.Background(), "mem_unknown")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if source != nil {
		t.Errorf("Render() = %v, want nil", source)
	}
}

func TestEventGroups(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	added, _ := svc.AddMediaFiles(ctx, []Upload{
		jpegUpload("today1.jpg", 64),
		jpegUpload("today2.jpg", 64),
	}, nil)

	// move one item to a fixed past day
	svc.UpdateMeta(ctx, added[0].ID, func(item *MediaItem) {
		item.CreatedAt = 1717027200000 // 2024-05-30 UTC
	})

	groups, err := svc.EventGroups(ctx)
	if err != nil {
		t.Fatalf("EventGroups() error = %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("EventGroups() = %d groups, want 2", len(groups))
	}

	var past *EventGroup
	for i := range groups {
		if groups[i].Date == "2024-05-30" {
			past = &groups[i]
		}
	}
	if past == nil {
		t.Fatal("no group for 2024-05-30")
	}
	if past.Display != "May 30, 2024" {
		t.Errorf("Display = %v, want May 30, 2024", past.Display)
	}
	if len(past.Items) != 1 {
		t.Errorf("past group has %d items, want 1", len(past.Items))
	}
}

func TestSeedDemoContent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	count, err := svc.SeedDemoContent(ctx)
	if err != nil {
		t.Fatalf("SeedDemoContent() error = %v", err)
	}
	if count != 3 {
		t.Fatalf("SeedDemoContent() = %d, want 3", count)
	}

	items, _ := svc.GetAllMeta(ctx)
	if len(items) != 3 {
		t.Fatalf("GetAllMeta() = %d items, want 3", len(items))
	}
	for _, item := range items {
		if item.Type != TypeText {
			t.Errorf("Type = %v, want text", item.Type)
		}
		if len(item.Tags) != 1 || item.Tags[0] != "demo" {
			t.Errorf("Tags = %v, want [demo]", item.Tags)
		}
	}

	// a non-empty gallery is never seeded again
	count, err = svc.SeedDemoContent(ctx)
	if err != nil {
		t.Fatalf("second SeedDemoContent() error = %v", err)
	}
	if count != 0 {
		t.Errorf("second SeedDemoContent() = %d, want 0", count)
	}
}
