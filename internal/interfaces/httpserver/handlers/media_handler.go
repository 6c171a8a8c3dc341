package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"love-story/memories-api/internal/config"
	domain "love-story/memories-api/internal/domain/media"
	"love-story/memories-api/internal/infrastructure/metrics"
	"love-story/memories-api/internal/interfaces/httpserver/requests"
	"love-story/memories-api/internal/interfaces/httpserver/responses"
	"love-story/memories-api/internal/utils/platformerrors"
)

// MediaHandler exposes media endpoints.
type MediaHandler struct {
	cfg     *config.Config
	service *domain.Service
	log     zerolog.Logger
}

func NewMediaHandler(cfg *config.Config, service *domain.Service, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "media-handler").Logger(),
	}
}

type uploadResponse struct {
	Added []*domain.MediaItem `json:"added"`
	Count int                 `json:"count"`
}

type deleteResponse struct {
	Deleted bool `json:"deleted"`
}

// Upload godoc
// @Summary      Upload media files
// @Description  Accepts a multipart batch of files. Each file is handled independently; a failing file is skipped and the rest of the batch continues.
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Param        files  formData  file    true   "Files to upload"
// @Param        tags   formData  string  false  "Comma-separated batch tags"
// @Success      200    {object}  uploadResponse
// @Failure      400    {object}  responses.ErrorResponse
// @Router       /v1/media [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "multipart form is required")
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "at least one file is required")
		return
	}

	var tags []string
	if raw := strings.TrimSpace(c.PostForm("tags")); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	uploads := make([]domain.Upload, 0, len(headers))
	opened := make([]io.Closer, 0, len(headers))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			h.log.Error().Err(err).Str("filename", header.Filename).Msg("failed to open upload part")
			continue
		}
		opened = append(opened, file)
		uploads = append(uploads, domain.Upload{
			Filename:    header.Filename,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		})
	}

	added, err := h.service.AddMediaFiles(c.Request.Context(), uploads, tags)
	if err != nil {
		responses.HandleError(c, err, "upload failed")
		return
	}

	for _, item := range added {
		metrics.RecordUpload(item.MimeType, "success", item.Size)
	}
	for i := len(added); i < len(uploads); i++ {
		metrics.RecordUpload("unknown", "failure", 0)
	}

	c.JSON(http.StatusOK, uploadResponse{Added: added, Count: len(added)})
}

// List godoc
// @Summary      List media metadata
// @Description  Returns every item's metadata, newest first.
// @Tags         media
// @Produce      json
// @Success      200  {array}   domain.MediaItem
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v1/media [get]
func (h *MediaHandler) List(c *gin.Context) {
	items, err := h.service.GetAllMeta(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list media")
		return
	}
	c.JSON(http.StatusOK, items)
}

// Events godoc
// @Summary      Date-grouped timeline
// @Tags         media
// @Produce      json
// @Success      200  {array}   domain.EventGroup
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v1/media/events [get]
func (h *MediaHandler) Events(c *gin.Context) {
	groups, err := h.service.EventGroups(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to build timeline")
		return
	}
	c.JSON(http.StatusOK, groups)
}

// Get godoc
// @Summary      Get media metadata
// @Tags         media
// @Produce      json
// @Param        id   path      string  true  "Media ID"
// @Success      200  {object}  domain.MediaItem
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/media/{id} [get]
func (h *MediaHandler) Get(c *gin.Context) {
	item, err := h.service.GetMeta(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to load media")
		return
	}
	if item == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "media not found")
		return
	}
	c.JSON(http.StatusOK, item)
}

// Content godoc
// @Summary      Fetch media payload
// @Description  Redirects to the payload URL when the backend can mint one, otherwise streams the bytes.
// @Tags         media
// @Produce      octet-stream
// @Param        id   path  string  true  "Media ID"
// @Success      200  "binary data"
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/media/{id}/content [get]
func (h *MediaHandler) Content(c *gin.Context) {
	id := c.Param("id")

	source, err := h.service.Render(c.Request.Context(), id)
	if err != nil {
		responses.HandleError(c, err, "failed to resolve payload")
		return
	}
	if source == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "media not found")
		return
	}

	if source.URL != "" {
		c.Redirect(http.StatusFound, source.URL)
		return
	}

	defer source.Body.Close()

	contentType := source.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, source.Body); err != nil {
		h.log.Error().Err(err).Str("media_id", id).Msg("stream error")
	}
}

// Update godoc
// @Summary      Rename or re-date a media item
// @Tags         media
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Media ID"
// @Param        request  body      requests.UpdateMediaRequest true  "Fields to change"
// @Success      200      {object}  domain.MediaItem
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /v1/media/{id} [patch]
func (h *MediaHandler) Update(c *gin.Context) {
	var req requests.UpdateMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error())
		return
	}

	item, err := h.service.UpdateMeta(c.Request.Context(), c.Param("id"), func(item *domain.MediaItem) {
		if req.Filename != nil && strings.TrimSpace(*req.Filename) != "" {
			item.Filename = strings.TrimSpace(*req.Filename)
		}
		if req.CreatedAt != nil && *req.CreatedAt > 0 {
			item.CreatedAt = *req.CreatedAt
		}
	})
	if err != nil {
		responses.HandleError(c, err, "failed to update media")
		return
	}
	if item == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "media not found")
		return
	}
	c.JSON(http.StatusOK, item)
}

// Favorite godoc
// @Summary      Toggle favorite flag
// @Tags         media
// @Produce      json
// @Param        id   path      string  true  "Media ID"
// @Success      200  {object}  domain.MediaItem
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/media/{id}/favorite [post]
func (h *MediaHandler) Favorite(c *gin.Context) {
	item, err := h.service.ToggleFavorite(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to toggle favorite")
		return
	}
	if item == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "media not found")
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete godoc
// @Summary      Delete a media item
// @Description  Removes metadata, index entry and payload. Deleting an unknown id returns 404.
// @Tags         media
// @Produce      json
// @Param        id   path      string  true  "Media ID"
// @Success      200  {object}  deleteResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/media/{id} [delete]
func (h *MediaHandler) Delete(c *gin.Context) {
	deleted, err := h.service.DeleteMedia(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to delete media")
		return
	}
	if !deleted {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "media not found")
		return
	}
	c.JSON(http.StatusOK, deleteResponse{Deleted: true})
}

// AddComment godoc
// @Summary      Add a comment
// @Tags         media
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Media ID"
// @Param        request  body      requests.CommentRequest true  "Comment"
// @Success      200      {object}  domain.MediaItem
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /v1/media/{id}/comments [post]
func (h *MediaHandler) AddComment(c *gin.Context) {
	var req requests.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error())
		return
	}

	item, err := h.service.AddComment(c.Request.Context(), c.Param("id"), req.Text, req.Author)
	if err != nil {
		responses.HandleError(c, err, "failed to add comment")
		return
	}
	if item == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "media not found")
		return
	}
	c.JSON(http.StatusOK, item)
}

// AddReply godoc
// @Summary      Reply to a comment
// @Tags         media
// @Accept       json
// @Produce      json
// @Param        id         path      string                true  "Media ID"
// @Param        commentID  path      string                true  "Comment ID"
// @Param        request    body      requests.ReplyRequest true  "Reply"
// @Success      200        {object}  domain.MediaItem
// @Failure      404        {object}  responses.ErrorResponse
// @Router       /v1/media/{id}/comments/{commentID}/replies [post]
func (h *MediaHandler) AddReply(c *gin.Context) {
	var req requests.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error())
		return
	}

	item, err := h.service.AddReply(c.Request.Context(), c.Param("id"), c.Param("commentID"), req.Name, req.Text)
	if err != nil {
		responses.HandleError(c, err, "failed to add reply")
		return
	}
	if item == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "media not found")
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteComment godoc
// @Summary      Delete a comment
// @Tags         media
// @Produce      json
// @Param        id         path      string  true  "Media ID"
// @Param        commentID  path      string  true  "Comment ID"
// @Success      200        {object}  domain.MediaItem
// @Failure      404        {object}  responses.ErrorResponse
// @Router       /v1/media/{id}/comments/{commentID} [delete]
func (h *MediaHandler) DeleteComment(c *gin.Context) {
	item, err := h.service.DeleteComment(c.Request.Context(), c.Param("id"), c.Param("commentID"))
	if err != nil {
		responses.HandleError(c, err, "failed to delete comment")
		return
	}
	if item == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "media not found")
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteReply godoc
// @Summary      Delete a reply
// @Tags         media
// @Produce      json
// @Param        id         path      string  true  "Media ID"
// @Param        commentID  path      string  true  "Comment ID"
// @Param        replyID    path      string  true  "Reply ID"
// @Success      200        {object}  domain.MediaItem
// @Failure      404        {object}  responses.ErrorResponse
// @Router       /v1/media/{id}/comments/{commentID}/replies/{replyID} [delete]
func (h *MediaHandler) DeleteReply(c *gin.Context) {
	item, err := h.service.DeleteReply(c.Request.Context(), c.Param("id"), c.Param("commentID"), c.Param("replyID"))
	if err != nil {
		responses.HandleError(c, err, "failed to delete reply")
		return
	}
	if item == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "media not found")
		return
	}
	c.JSON(http.StatusOK, item)
}

// AddReaction godoc
// @Summary      React to a comment
// @Description  Increments the emoji tally. Every call counts; media comment reactions are not de-duplicated per client.
// @Tags         media
// @Accept       json
// @Produce      json
// @Param        id         path      string                   true  "Media ID"
// @Param        commentID  path      string                   true  "Comment ID"
// @Param        request    body      requests.ReactionRequest true  "Reaction"
// @Success      200        {object}  domain.MediaItem
// @Failure      404        {object}  responses.ErrorResponse
// @Router       /v1/media/{id}/comments/{commentID}/reactions [post]
func (h *MediaHandler) AddReaction(c *gin.Context) {
	var req requests.ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error())
		return
	}

	item, err := h.service.AddReaction(c.Request.Context(), c.Param("id"), c.Param("commentID"), req.Emoji)
	if err != nil {
		responses.HandleError(c, err, "failed to add reaction")
		return
	}
	if item == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "media not found")
		return
	}
	c.JSON(http.StatusOK, item)
}
