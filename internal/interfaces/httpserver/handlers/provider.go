package handlers

import (
	"github.com/rs/zerolog"

	"love-story/memories-api/internal/config"
	"love-story/memories-api/internal/domain/backup"
	"love-story/memories-api/internal/domain/guestbook"
	"love-story/memories-api/internal/domain/media"
	"love-story/memories-api/internal/domain/settings"
)

// Provider wires HTTP handlers.
type Provider struct {
	Media     *MediaHandler
	Guestbook *GuestbookHandler
	Settings  *SettingsHandler
	Export    *ExportHandler
}

func NewProvider(
	cfg *config.Config,
	mediaService *media.Service,
	guestbookService *guestbook.Service,
	settingsService *settings.Service,
	backupService *backup.Service,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Media:     NewMediaHandler(cfg, mediaService, log),
		Guestbook: NewGuestbookHandler(guestbookService, log),
		Settings:  NewSettingsHandler(settingsService, log),
		Export:    NewExportHandler(backupService, log),
	}
}
