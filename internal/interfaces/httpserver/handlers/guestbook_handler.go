package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "love-story/memories-api/internal/domain/guestbook"
	"love-story/memories-api/internal/interfaces/httpserver/requests"
	"love-story/memories-api/internal/interfaces/httpserver/responses"
	"love-story/memories-api/internal/utils/platformerrors"
	"love-story/memories-api/utils/memoryid"
)

// clientIDCookie scopes guestbook reaction de-duplication. It is a random
// per-install token, not an identity.
const (
	clientIDCookie = "client_id"
	clientIDMaxAge = 10 * 365 * 24 * 60 * 60
)

// GuestbookHandler exposes guestbook endpoints.
type GuestbookHandler struct {
	service *domain.Service
	log     zerolog.Logger
}

func NewGuestbookHandler(service *domain.Service, log zerolog.Logger) *GuestbookHandler {
	return &GuestbookHandler{
		service: service,
		log:     log.With().Str("component", "guestbook-handler").Logger(),
	}
}

// List godoc
// @Summary      List guestbook messages
// @Description  Returns all messages, newest first.
// @Tags         guestbook
// @Produce      json
// @Success      200  {array}   domain.Message
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v1/guestbook [get]
func (h *GuestbookHandler) List(c *gin.Context) {
	messages, err := h.service.ListMessages(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list messages")
		return
	}
	c.JSON(http.StatusOK, messages)
}

// Create godoc
// @Summary      Add a guestbook message
// @Tags         guestbook
// @Accept       json
// @Produce      json
// @Param        request  body      requests.MessageRequest  true  "Message"
// @Success      200      {object}  domain.Message
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /v1/guestbook [post]
func (h *GuestbookHandler) Create(c *gin.Context) {
	var req requests.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error())
		return
	}

	msg, err := h.service.AddMessage(c.Request.Context(), req.Name, req.Text)
	if err != nil {
		responses.HandleError(c, err, "failed to add message")
		return
	}
	c.JSON(http.StatusOK, msg)
}

// Delete godoc
// @Summary      Delete a guestbook message
// @Tags         guestbook
// @Produce      json
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/guestbook/{id} [delete]
func (h *GuestbookHandler) Delete(c *gin.Context) {
	deleted, err := h.service.DeleteMessage(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to delete message")
		return
	}
	if !deleted {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "message not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// AddReply godoc
// @Summary      Reply to a guestbook message
// @Description  Replies are kept newest first.
// @Tags         guestbook
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Message ID"
// @Param        request  body      requests.ReplyRequest  true  "Reply"
// @Success      200      {object}  domain.Reply
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /v1/guestbook/{id}/replies [post]
func (h *GuestbookHandler) AddReply(c *gin.Context) {
	var req requests.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error())
		return
	}

	reply, err := h.service.AddReply(c.Request.Context(), c.Param("id"), req.Name, req.Text)
	if err != nil {
		responses.HandleError(c, err, "failed to add reply")
		return
	}
	if reply == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "message not found")
		return
	}
	c.JSON(http.StatusOK, reply)
}

// AddReaction godoc
// @Summary      React to a guestbook message
// @Description  At most one active emoji per client. Re-clicking the same emoji is a no-op; switching moves the tally. The client is identified by a cookie set on first contact.
// @Tags         guestbook
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Message ID"
// @Param        request  body      requests.ReactionRequest  true  "Reaction"
// @Success      200      {object}  domain.ReactionState
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /v1/guestbook/{id}/reactions [post]
func (h *GuestbookHandler) AddReaction(c *gin.Context) {
	var req requests.ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error())
		return
	}

	clientID := h.clientID(c)

	state, err := h.service.AddReaction(c.Request.Context(), c.Param("id"), req.Emoji, clientID)
	if err != nil {
		responses.HandleError(c, err, "failed to add reaction")
		return
	}
	if state == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "message not found")
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *GuestbookHandler) clientID(c *gin.Context) string {
	if id, err := c.Cookie(clientIDCookie); err == nil && memoryid.IsValid(id) {
		return id
	}
	id := memoryid.New()
	c.SetCookie(clientIDCookie, id, clientIDMaxAge, "/", "", false, true)
	return id
}
