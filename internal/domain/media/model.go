package media

import "io"

// Media item types. Text items only exist as legacy/demo content.
const (
	TypeImage = "image"
	TypeVideo = "video"
	TypeText  = "text"
)

// Reply is a nested answer to a comment.
type Reply struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Text string `json:"text"`
	At   int64  `json:"at"`
}

// Comment is attached to a media item. Reactions are plain tallies: every
// call increments, there is no per-client de-duplication here (unlike
// guestbook reactions).
type Comment struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	Author    string         `json:"author"`
	At        int64          `json:"at"`
	Replies   []Reply        `json:"replies"`
	Reactions map[string]int `json:"reactions"`
}

// MediaItem is the metadata record for one uploaded photo or video. The
// binary payload lives in the blob store under StorageKey, never inside
// the record. Timestamps are epoch milliseconds.
type MediaItem struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"`
	MimeType   string    `json:"mimeType"`
	CreatedAt  int64     `json:"createdAt"`
	Favorite   bool      `json:"favorite"`
	Tags       []string  `json:"tags"`
	Comments   []Comment `json:"comments"`
	StorageKey string    `json:"storageKey"`
}

// Upload is one file of an upload batch.
type Upload struct {
	Filename    string
	Size        int64
	ContentType string
	Body        io.Reader
}

// RenderSource is the uniform renderable form of a payload: a fetchable URL
// when the blob store can mint one, otherwise a stream the caller must close.
type RenderSource struct {
	URL         string
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// EventGroup is one day of the timeline view.
type EventGroup struct {
	Date    string       `json:"date"`
	Display string       `json:"display"`
	Items   []*MediaItem `json:"items"`
}
