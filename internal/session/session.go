// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session maintains the chat session collection and the
// active-session pointer for saldo.
package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CHAT TYPES
// =============================================================================

// Message roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// DefaultTitle is the placeholder title of a session that has not yet been
// named from its first message, renamed by the user, or titled by the model.
const DefaultTitle = "New Chat"

// titleMaxRunes is the number of leading runes of the first user message
// kept when deriving a session title. Longer messages get "..." appended.
const titleMaxRunes = 50

// ChatMessage is a single turn in a session. Messages are append-only; the
// streaming placeholder lives in relay.Accumulator and is committed here only
// once final.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "model"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message with a fresh ID and the current time.
func NewMessage(role, text string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// ChatSession is one conversation thread.
type ChatSession struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// TitleGenerated marks a title produced by the model; such titles are
	// never overwritten by later message appends.
	TitleGenerated bool `json:"title_generated,omitempty"`

	// TitleEdited marks a title the user set explicitly. Edited titles win
	// over both derivation and late model-generated titles.
	TitleEdited bool `json:"title_edited,omitempty"`
}

// =============================================================================
// TITLE DERIVATION
// =============================================================================

// DeriveTitle builds a session title from the first user message: the first
// 50 runes, with "..." appended when the message is longer. Newlines are
// flattened to spaces. Returns DefaultTitle when no user message exists.
func DeriveTitle(messages []ChatMessage) string {
	for _, msg := range messages {
		if msg.Role != RoleUser || msg.Text == "" {
			continue
		}
		text := strings.ReplaceAll(msg.Text, "\r", "")
		text = strings.ReplaceAll(text, "\n", " ")

		runes := []rune(text)
		if len(runes) > titleMaxRunes {
			return string(runes[:titleMaxRunes]) + "..."
		}
		return text
	}
	return DefaultTitle
}
