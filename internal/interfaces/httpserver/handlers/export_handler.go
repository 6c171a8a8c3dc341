package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "love-story/memories-api/internal/domain/backup"
	"love-story/memories-api/internal/infrastructure/metrics"
)

// ExportHandler serves the downloadable backup archive.
type ExportHandler struct {
	service *domain.Service
	log     zerolog.Logger
}

func NewExportHandler(service *domain.Service, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		service: service,
		log:     log.With().Str("component", "export-handler").Logger(),
	}
}

// Export godoc
// @Summary      Download backup archive
// @Description  Streams a ZIP with all metadata plus one entry per readable payload.
// @Tags         export
// @Produce      application/zip
// @Success      200  "zip archive"
// @Router       /v1/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	start := time.Now()
	filename := domain.Filename(start)

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	manifest, err := h.service.Build(c.Request.Context(), c.Writer)
	if err != nil {
		// headers are already sent, all we can do is log and cut the stream
		h.log.Error().Err(err).Msg("backup build failed mid-stream")
		c.Abort()
		return
	}

	metrics.RecordBackup(time.Since(start).Seconds())
	h.log.Info().
		Str("filename", filename).
		Int("items", manifest.Items).
		Int("skipped", manifest.Skipped).
		Msg("backup served")
}
