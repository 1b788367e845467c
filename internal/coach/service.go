// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package coach

import (
	"context"
	"hash/fnv"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"diabolohub/internal/locale"
)

// lockStripes is the number of mutexes conversations are hashed onto.
const lockStripes = 64

// Service implements Client on top of a Model and a History. Messages of
// the same conversation are processed one at a time.
type Service struct {
	model   Model
	history History
	locks   [lockStripes]sync.Mutex
}

// NewService creates a coach service.
func NewService(model Model, history History) *Service {
	return &Service{model: model, history: history}
}

func (s *Service) lock(id string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &s.locks[h.Sum32()%lockStripes]
}

// Send forwards message to the model within the caller's conversation.
// If lang differs from the language the conversation was started in, the
// conversation starts over. Model failures are logged and answered with a
// localized notice; only a blank message is reported as an error.
func (s *Service) Send(ctx context.Context, conversationID string, lang locale.Language, message string) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, ErrEmptyMessage
	}
	if !lang.Valid() {
		lang = locale.Default
	}
	if utf8.RuneCountInString(message) > MaxMessageLen {
		message = string([]rune(message)[:MaxMessageLen])
	}

	mu := s.lock(conversationID)
	mu.Lock()
	defer mu.Unlock()

	conv, err := s.history.Load(ctx, conversationID)
	if err != nil {
		slog.Warn("coach history load failed", "error", err)
		conv = Conversation{}
	}
	if conv.Lang != lang {
		if conv.Lang != "" {
			slog.Debug("coach conversation restarted", "from", conv.Lang, "to", lang)
		}
		conv = Conversation{Lang: lang}
	}

	reply, err := s.model.Generate(ctx, lang, conv.Turns, message)
	if err != nil {
		slog.Error("coach generate failed", "model", s.model.Name(), "error", err)
		return Reply{Text: technicalIssue(lang), Fallback: true}, nil
	}
	if strings.TrimSpace(reply.Text) == "" {
		slog.Warn("coach returned empty response", "model", s.model.Name())
		return Reply{Text: connectionError(lang), Citations: reply.Citations, Fallback: true}, nil
	}

	conv.appendExchange(message, reply.Text)
	if err := s.history.Save(ctx, conversationID, conv); err != nil {
		slog.Warn("coach history save failed", "error", err)
	}
	return reply, nil
}
