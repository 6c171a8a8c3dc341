package v1

import (
	"github.com/gin-gonic/gin"

	"love-story/memories-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches all v1 routes under /v1 prefix.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")

	group.POST("/media", r.handlers.Media.Upload)
	group.GET("/media", r.handlers.Media.List)
	group.GET("/media/events", r.handlers.Media.Events)
	group.GET("/media/:id", r.handlers.Media.Get)
	group.GET("/media/:id/content", r.handlers.Media.Content)
	group.PATCH("/media/:id", r.handlers.Media.Update)
	group.POST("/media/:id/favorite", r.handlers.Media.Favorite)
	group.DELETE("/media/:id", r.handlers.Media.Delete)
	group.POST("/media/:id/comments", r.handlers.Media.AddComment)
	group.DELETE("/media/:id/comments/:commentID", r.handlers.Media.DeleteComment)
	group.POST("/media/:id/comments/:commentID/replies", r.handlers.Media.AddReply)
	group.DELETE("/media/:id/comments/:commentID/replies/:replyID", r.handlers.Media.DeleteReply)
	group.POST("/media/:id/comments/:commentID/reactions", r.handlers.Media.AddReaction)

	group.GET("/guestbook", r.handlers.Guestbook.List)
	group.POST("/guestbook", r.handlers.Guestbook.Create)
	group.DELETE("/guestbook/:id", r.handlers.Guestbook.Delete)
	group.POST("/guestbook/:id/replies", r.handlers.Guestbook.AddReply)
	group.POST("/guestbook/:id/reactions", r.handlers.Guestbook.AddReaction)

	group.GET("/settings", r.handlers.Settings.Get)
	group.PUT("/settings", r.handlers.Settings.Put)

	group.GET("/export", r.handlers.Export.Export)
}
