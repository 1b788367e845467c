// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package coach implements DiaboloMentor, the AI diabolo coach. A Service
// keeps one conversation per caller, bound to the interface language it was
// started in, and forwards messages to a Model (Gemini in production).
// Failures never reach the caller raw: they become a short localized notice.
package coach

import (
	"context"
	"errors"

	"diabolohub/internal/locale"
)

// ErrEmptyMessage is returned by Send when the message is blank.
var ErrEmptyMessage = errors.New("coach: empty message")

// MaxMessageLen bounds a single user message, in runes.
const MaxMessageLen = 2000

// Role identifies who wrote a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one message of a conversation.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Citation is a web source the model grounded its answer on.
type Citation struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Reply is the coach's answer to one message. Fallback is set when Text is
// a canned notice rather than a model answer.
type Reply struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"sources,omitempty"`
	Fallback  bool       `json:"fallback,omitempty"`
}

// Client is what the HTTP layer talks to.
type Client interface {
	Send(ctx context.Context, conversationID string, lang locale.Language, message string) (Reply, error)
}

// Model generates the next answer given the earlier turns of a
// conversation and the new user message.
type Model interface {
	Generate(ctx context.Context, lang locale.Language, history []Turn, message string) (Reply, error)
	Name() string
}

// technicalIssue is shown when the model call fails.
func technicalIssue(lang locale.Language) string {
	if lang == locale.ES {
		return "Hubo un problema técnico."
	}
	return "There was a technical issue."
}

// connectionError is shown when the model answers with no text.
func connectionError(lang locale.Language) string {
	if lang == locale.ES {
		return "Error de conexión con el servidor."
	}
	return "Connection error."
}
