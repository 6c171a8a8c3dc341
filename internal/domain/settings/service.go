package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"love-story/memories-api/internal/domain/persistence"
	"love-story/memories-api/internal/utils/platformerrors"
)

const recordKey = "app"

// Privacy holds the optional gallery password. It is an explicit
// placeholder, not a security boundary.
type Privacy struct {
	Password string `json:"password"`
}

// Settings is the single configuration record of the application.
type Settings struct {
	Theme         string  `json:"theme"`
	UploadLimit   int     `json:"uploadLimit"`
	Privacy       Privacy `json:"privacy"`
	LoveStartDate string  `json:"loveStartDate"`
}

// Defaults returns the record handed out before the first save. The literals
// must stay stable across releases.
func Defaults() *Settings {
	return &Settings{
		Theme:         "light",
		UploadLimit:   100,
		Privacy:       Privacy{Password: ""},
		LoveStartDate: "2025-05-29",
	}
}

// Service owns the settings record.
type Service struct {
	store persistence.Store
	log   zerolog.Logger
}

func NewService(store persistence.Store, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		log:   log.With().Str("component", "settings-service").Logger(),
	}
}

// Get returns the persisted record, or the defaults when none exists yet.
// The defaults are not written back; the record is created lazily on the
// first Set.
func (s *Service) Get(ctx context.Context) (*Settings, error) {
	raw, err := s.store.Get(ctx, persistence.PartitionSettings, recordKey)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("load settings: %w", err)
	}

	var record Settings
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &record, nil
}

// Set overwrites the whole record. There is no partial-field merge; callers
// submit the complete record.
func (s *Service) Set(ctx context.Context, next *Settings) (*Settings, error) {
	if next.Theme != "light" && next.Theme != "dark" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("unknown theme %q", next.Theme), nil)
	}
	if next.UploadLimit <= 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "uploadLimit must be positive", nil)
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	if err := s.store.Set(ctx, persistence.PartitionSettings, recordKey, raw); err != nil {
		return nil, err
	}
	return next, nil
}
