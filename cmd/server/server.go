package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"love-story/memories-api/internal/config"
	"love-story/memories-api/internal/domain/backup"
	"love-story/memories-api/internal/domain/guestbook"
	"love-story/memories-api/internal/domain/media"
	"love-story/memories-api/internal/domain/settings"
	"love-story/memories-api/internal/infrastructure/logger"
	"love-story/memories-api/internal/infrastructure/observability"
	"love-story/memories-api/internal/interfaces/httpserver"
)

// @title Memories API
// @version 1.0
// @description Personal memories backend: media gallery, guestbook, settings and backup export
// @BasePath /
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	store, blobs, err := newBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Backend).Msg("initialize persistence backend")
	}

	mediaService := media.NewService(cfg, store, blobs, log)
	guestbookService := guestbook.NewService(store, log)
	settingsService := settings.NewService(store, log)
	backupService := backup.NewService(mediaService, blobs, log)

	if cfg.SeedDemo {
		if count, err := mediaService.SeedDemoContent(ctx); err != nil {
			log.Error().Err(err).Msg("seed demo content")
		} else if count > 0 {
			log.Info().Int("count", count).Msg("demo content created")
		}
	}

	httpServer := httpserver.New(cfg, log, mediaService, guestbookService, settingsService, backupService)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
