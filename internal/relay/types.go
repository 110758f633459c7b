// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package relay is the transport boundary between the chat client and the
// saldo relay server. It submits conversation turns and progressively
// materializes the streamed plain-text response, translating in-band status
// sentinels into phase transitions.
package relay

import "fmt"

// =============================================================================
// WIRE TYPES
// =============================================================================

// Part kinds within a message.
const (
	PartText = "text"
	PartFile = "file"
)

// Part is one content part of a wire message. File parts carry their payload
// as a base64 data URI in URL.
type Part struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
	URL       string `json:"url,omitempty"`
}

// Message is a role-tagged message as sent to the relay endpoints.
type Message struct {
	ID    string `json:"id"`
	Role  string `json:"role"` // "user", "assistant", "system"
	Parts []Part `json:"parts"`
}

// TextMessage builds a single-text-part message.
func TextMessage(id, role, text string) Message {
	return Message{
		ID:    id,
		Role:  role,
		Parts: []Part{{Type: PartText, Text: text}},
	}
}

// JoinedText concatenates the text parts of a message.
func (m Message) JoinedText() string {
	var out string
	for _, p := range m.Parts {
		if p.Type == PartText {
			out += p.Text
		}
	}
	return out
}

// =============================================================================
// STATUS STATE MACHINE
// =============================================================================

// Status is the chat surface state machine:
//
//	Idle → Thinking → (Searching) → Streaming → Idle
//
// Error is reachable from any in-flight state on transport failure and
// always returns to Idle after the failure text has been surfaced.
type Status int

const (
	StatusIdle Status = iota
	StatusThinking
	StatusSearching
	StatusStreaming
	StatusError
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusThinking:
		return "thinking"
	case StatusSearching:
		return "searching"
	case StatusStreaming:
		return "streaming"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// =============================================================================
// ERRORS
// =============================================================================

// FailureText is the fixed human-readable message committed to the session
// log when a send fails. Transport failures are made durable and visible in
// history rather than silently discarded.
const FailureText = "Something went wrong. Please try again."

// RelayError is a non-2xx response from the relay.
type RelayError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *RelayError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("relay returned %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("relay returned %d", e.StatusCode)
}
