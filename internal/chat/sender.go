// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the send pipeline: one user action in, one
// committed assistant message out, with streaming updates in between.
package chat

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/morganforge/saldo-tui/internal/document"
	"github.com/morganforge/saldo-tui/internal/prompt"
	"github.com/morganforge/saldo-tui/internal/relay"
	"github.com/morganforge/saldo-tui/internal/session"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrBusy rejects a send while another is in flight. One conversation,
	// one outstanding request.
	ErrBusy = errors.New("a message is already being sent")

	// ErrEmptyMessage rejects a send with nothing to say.
	ErrEmptyMessage = errors.New("message is empty")
)

// UnsupportedFileError names attachments that were excluded from a send.
// It is a notice, not a failure: the send proceeds with the rest.
type UnsupportedFileError struct {
	Names []string
}

// Error implements the error interface.
func (e *UnsupportedFileError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", strings.Join(e.Names, ", "))
}

// =============================================================================
// ATTACHMENTS
// =============================================================================

// Attachment is a file staged for the next send.
type Attachment struct {
	Name      string
	MediaType string
	Data      []byte
}

// supportedMIME is the attachment whitelist. Matches what the model side
// accepts inline; anything else is excluded before send.
var supportedMIME = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/gif":       true,
	"image/webp":      true,
	"text/plain":      true,
	"text/markdown":   true,
}

// FilterAttachments splits attachments into the accepted set and an
// UnsupportedFileError naming the rejects (nil when everything passed).
func FilterAttachments(files []Attachment) ([]Attachment, *UnsupportedFileError) {
	var accepted []Attachment
	var rejected []string
	for _, f := range files {
		mediaType := f.MediaType
		if mediaType == "" {
			mediaType = document.MIMEForName(f.Name)
		}
		if supportedMIME[mediaType] {
			f.MediaType = mediaType
			accepted = append(accepted, f)
		} else {
			rejected = append(rejected, f.Name)
		}
	}
	if len(rejected) == 0 {
		return accepted, nil
	}
	return accepted, &UnsupportedFileError{Names: rejected}
}

// =============================================================================
// SENDER
// =============================================================================

// Events receives the observable side of a send. All callbacks are optional
// and are invoked from the goroutine running Send.
type Events struct {
	// OnStatus reports state machine transitions.
	OnStatus func(relay.Status)

	// OnDelta receives visible assistant text as it streams in.
	OnDelta func(string)

	// OnNotice receives transient, non-fatal problems (excluded files).
	OnNotice func(error)

	// OnTitle reports an AI-generated session title.
	OnTitle func(sessionID, title string)
}

func (e Events) status(s relay.Status) {
	if e.OnStatus != nil {
		e.OnStatus(s)
	}
}

// Sender drives one send at a time against the relay, keeping the session
// log and the status state machine consistent.
type Sender struct {
	client   *relay.Client
	sessions *session.Manager
	docs     *document.Manager

	mu     sync.Mutex
	status relay.Status
}

// NewSender wires the send pipeline. docs may be nil when no document
// library exists.
func NewSender(client *relay.Client, sessions *session.Manager, docs *document.Manager) *Sender {
	return &Sender{
		client:   client,
		sessions: sessions,
		docs:     docs,
		status:   relay.StatusIdle,
	}
}

// Status returns the current state machine position.
func (s *Sender) Status() relay.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Sender) setStatus(st relay.Status, ev Events) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
	ev.status(st)
}

// Send submits one user message on the given session and blocks until the
// assistant's reply is committed. The caller owns the goroutine; the UI runs
// Send in the background and listens on Events.
//
// The session log is updated optimistically: the user message is persisted
// before the request goes out, and the assistant message is committed
// exactly once, on success or failure. A failed send commits the fixed
// failure text so the breakdown is visible in history.
func (s *Sender) Send(ctx context.Context, sessionID, text string, files []Attachment, ev Events) error {
	text = strings.TrimSpace(text)

	accepted, rejected := FilterAttachments(files)
	if rejected != nil && ev.OnNotice != nil {
		ev.OnNotice(rejected)
	}
	if text == "" && len(accepted) == 0 {
		return ErrEmptyMessage
	}

	// Single flight. A second send while one is streaming is a bug in the
	// caller, not a queueing request.
	s.mu.Lock()
	if s.status != relay.StatusIdle {
		s.mu.Unlock()
		return ErrBusy
	}
	s.status = relay.StatusThinking
	s.mu.Unlock()
	ev.status(relay.StatusThinking)

	defer s.setStatus(relay.StatusIdle, ev)

	sess, ok := s.sessions.Session(sessionID)
	if !ok {
		sess = session.ChatSession{ID: sessionID}
	}
	firstMessage := len(sess.Messages) == 0

	userMsg := session.NewMessage(session.RoleUser, text)
	messages := append(sess.Messages, userMsg)
	s.sessions.UpdateSession(sessionID, messages)

	wire := s.buildWireMessages(messages, userMsg, accepted, firstMessage)

	var acc relay.Accumulator
	streamErr := s.client.Stream(ctx, wire,
		func(delta string) {
			acc.Append(delta)
			if ev.OnDelta != nil {
				ev.OnDelta(delta)
			}
		},
		func(st relay.Status) {
			if st == relay.StatusSearching || st == relay.StatusStreaming {
				s.setStatus(st, ev)
			}
		})

	if streamErr != nil {
		s.setStatus(relay.StatusError, ev)
		log.Error("chat send failed", "session", sessionID, "err", streamErr)
	}

	modelMsg := session.NewMessage(session.RoleModel, acc.Finalize(streamErr))
	s.sessions.UpdateSession(sessionID, append(messages, modelMsg))

	if streamErr == nil && firstMessage {
		s.generateTitle(ctx, sessionID, userMsg, modelMsg, ev)
	}
	return streamErr
}

// buildWireMessages converts the session log to wire form. The newest user
// message carries the attachments and, on the first message of a session,
// the document-library context note.
func (s *Sender) buildWireMessages(messages []session.ChatMessage, userMsg session.ChatMessage, files []Attachment, firstMessage bool) []relay.Message {
	wire := make([]relay.Message, 0, len(messages))
	for _, m := range messages[:len(messages)-1] {
		role := "user"
		if m.Role == session.RoleModel {
			role = "assistant"
		}
		wire = append(wire, relay.TextMessage(m.ID, role, m.Text))
	}

	text := userMsg.Text
	if firstMessage && s.docs != nil {
		docs := s.docs.Documents()
		names := make([]string, len(docs))
		for i, d := range docs {
			names[i] = d.Name
		}
		text += prompt.DocumentContext(names)
	}

	var parts []relay.Part
	if text != "" {
		parts = append(parts, relay.Part{Type: relay.PartText, Text: text})
	}
	for _, f := range files {
		parts = append(parts, relay.Part{
			Type:      relay.PartFile,
			MediaType: f.MediaType,
			URL: fmt.Sprintf("data:%s;base64,%s",
				f.MediaType, base64.StdEncoding.EncodeToString(f.Data)),
		})
	}
	return append(wire, relay.Message{ID: userMsg.ID, Role: "user", Parts: parts})
}

// generateTitle asks the relay for a session title after the first exchange.
// Best effort: failures log and the derived title stands.
func (s *Sender) generateTitle(ctx context.Context, sessionID string, userMsg, modelMsg session.ChatMessage, ev Events) {
	tctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	title, err := s.client.GenerateTitle(tctx, []relay.Message{
		relay.TextMessage(userMsg.ID, "user", userMsg.Text),
		relay.TextMessage(modelMsg.ID, "assistant", modelMsg.Text),
	})
	if err != nil {
		log.Warn("title generation failed", "session", sessionID, "err", err)
		return
	}

	s.sessions.SetGeneratedTitle(sessionID, title)
	if ev.OnTitle != nil {
		ev.OnTitle(sessionID, title)
	}
}
