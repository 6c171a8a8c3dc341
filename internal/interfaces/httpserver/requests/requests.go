package requests

import (
	"love-story/memories-api/internal/domain/settings"
)

// UpdateMediaRequest carries a rename and/or re-date. Absent fields are left
// unchanged.
type UpdateMediaRequest struct {
	Filename  *string `json:"filename"`
	CreatedAt *int64  `json:"createdAt"`
}

// CommentRequest adds a comment to a media item.
type CommentRequest struct {
	Text   string `json:"text" binding:"required"`
	Author string `json:"author"`
}

// ReplyRequest adds a reply to a media comment or guestbook message.
type ReplyRequest struct {
	Name string `json:"name"`
	Text string `json:"text" binding:"required"`
}

// ReactionRequest records an emoji reaction.
type ReactionRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

// MessageRequest creates a guestbook message.
type MessageRequest struct {
	Name string `json:"name"`
	Text string `json:"text" binding:"required"`
}

// SettingsRequest is the complete settings record; saves overwrite the whole
// record, there is no partial merge.
type SettingsRequest struct {
	Theme         string `json:"theme" binding:"required"`
	UploadLimit   int    `json:"uploadLimit" binding:"required"`
	Privacy       struct {
		Password string `json:"password"`
	} `json:"privacy"`
	LoveStartDate string `json:"loveStartDate"`
}

// ToDomain converts request to domain model
func (r *SettingsRequest) ToDomain() *settings.Settings {
	return &settings.Settings{
		Theme:         r.Theme,
		UploadLimit:   r.UploadLimit,
		Privacy:       settings.Privacy{Password: r.Privacy.Password},
		LoveStartDate: r.LoveStartDate,
	}
}
