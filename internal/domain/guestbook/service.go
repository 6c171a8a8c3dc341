package guestbook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"love-story/memories-api/internal/domain/persistence"
	"love-story/memories-api/internal/utils/platformerrors"
	"love-story/memories-api/utils/memoryid"
)

// listKey addresses the single document holding all guestbook messages,
// newest first.
const listKey = "list"

// maxTextRunes caps message length at the repository boundary.
const maxTextRunes = 500

// Service owns the guestbook message list.
type Service struct {
	store persistence.Store
	log   zerolog.Logger
}

func NewService(store persistence.Store, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		log:   log.With().Str("component", "guestbook-service").Logger(),
	}
}

// ListMessages returns all messages, newest first.
func (s *Service) ListMessages(ctx context.Context) ([]*Message, error) {
	return s.loadList(ctx)
}

// AddMessage prepends a new message. Text is required and capped at 500
// runes; the name defaults to "Guest".
func (s *Service) AddMessage(ctx context.Context, name, text string) (*Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "message text is required", nil)
	}
	if utf8.RuneCountInString(text) > maxTextRunes {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("message text exceeds %d characters", maxTextRunes), nil)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "Guest"
	}

	msg := &Message{
		ID:        memoryid.New(),
		Name:      name,
		Text:      text,
		At:        time.Now().UnixMilli(),
		Replies:   []Reply{},
		Reactions: map[string]int{},
		ReactedBy: map[string]string{},
	}

	messages, err := s.loadList(ctx)
	if err != nil {
		return nil, err
	}

	messages = append([]*Message{msg}, messages...)
	if err := s.saveList(ctx, messages); err != nil {
		return nil, err
	}

	return msg, nil
}

// DeleteMessage removes a message. Returns false when the id is unknown.
func (s *Service) DeleteMessage(ctx context.Context, id string) (bool, error) {
	messages, err := s.loadList(ctx)
	if err != nil {
		return false, err
	}

	kept := messages[:0]
	found := false
	for _, msg := range messages {
		if msg.ID == id {
			found = true
			continue
		}
		kept = append(kept, msg)
	}
	if !found {
		return false, nil
	}

	if err := s.saveList(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

// AddReply prepends a reply to the addressed message, newest first. The name
// defaults to "Guest". Returns nil when the message id is unknown.
func (s *Service) AddReply(ctx context.Context, messageID, name, text string) (*Reply, error) {
	messages, err := s.loadList(ctx)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "Guest"
	}

	for _, msg := range messages {
		if msg.ID != messageID {
			continue
		}

		reply := Reply{
			ID:   memoryid.New(),
			Name: name,
			Text: text,
			At:   time.Now().UnixMilli(),
		}
		msg.Replies = append([]Reply{reply}, msg.Replies...)

		if err := s.saveList(ctx, messages); err != nil {
			return nil, err
		}
		return &reply, nil
	}

	return nil, nil
}

// AddReaction records the calling client's reaction, holding the invariant
// of at most one active emoji per client per message. Re-clicking the same
// emoji is a no-op that still returns the current state; switching emojis
// decrements the old tally, never below zero. Returns nil when the message
// id is unknown.
func (s *Service) AddReaction(ctx context.Context, messageID, emoji, clientID string) (*ReactionState, error) {
	messages, err := s.loadList(ctx)
	if err != nil {
		return nil, err
	}

	for _, msg := range messages {
		if msg.ID != messageID {
			continue
		}

		if msg.Reactions == nil {
			msg.Reactions = map[string]int{}
		}
		if msg.ReactedBy == nil {
			msg.ReactedBy = map[string]string{}
		}

		previous := msg.ReactedBy[clientID]
		if previous == emoji {
			return &ReactionState{Reactions: msg.Reactions, UserReaction: previous}, nil
		}

		if previous != "" && msg.Reactions[previous] > 0 {
			msg.Reactions[previous]--
		}
		msg.Reactions[emoji]++
		msg.ReactedBy[clientID] = emoji

		if err := s.saveList(ctx, messages); err != nil {
			return nil, err
		}
		return &ReactionState{Reactions: msg.Reactions, UserReaction: emoji}, nil
	}

	return nil, nil
}

func (s *Service) loadList(ctx context.Context) ([]*Message, error) {
	raw, err := s.store.Get(ctx, persistence.PartitionMessages, listKey)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return []*Message{}, nil
		}
		return nil, fmt.Errorf("load guestbook: %w", err)
	}

	var messages []*Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("decode guestbook: %w", err)
	}
	return messages, nil
}

func (s *Service) saveList(ctx context.Context, messages []*Message) error {
	raw, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("encode guestbook: %w", err)
	}
	return s.store.Set(ctx, persistence.PartitionMessages, listKey, raw)
}
