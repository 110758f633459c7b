// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/morganforge/saldo-tui/internal/storage"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrSessionNotFound is returned when a session id is not in the collection.
var ErrSessionNotFound = errors.New("session not found")

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager owns the ordered session collection and the active-session pointer.
//
// Persistence is best-effort: storage failures are logged and the in-memory
// state keeps functioning for the rest of the process lifetime. There is no
// retry and no queuing.
type Manager struct {
	mu       sync.Mutex
	store    storage.Store
	sessions []ChatSession // most recent first
	activeID string
	loaded   bool
}

// NewManager creates a session manager over the given store. The collection
// and active pointer are read eagerly; read failures start the manager empty.
func NewManager(store storage.Store) *Manager {
	m := &Manager{store: store}
	m.load()
	return m
}

// load reads the persisted collection and active pointer.
func (m *Manager) load() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if data, ok, err := m.store.Load(storage.KeySessions); err != nil {
		log.Error("loading sessions", "err", err)
	} else if ok {
		if err := json.Unmarshal(data, &m.sessions); err != nil {
			log.Error("decoding sessions", "err", err)
			m.sessions = nil
		}
	}

	if data, ok, err := m.store.Load(storage.KeyActiveSession); err != nil {
		log.Error("loading active session pointer", "err", err)
	} else if ok {
		var id string
		if err := json.Unmarshal(data, &id); err == nil {
			m.activeID = id
		}
	}

	m.loaded = true
}

// persistLocked writes the session collection. Caller must hold the lock.
func (m *Manager) persistLocked() {
	data, err := json.Marshal(m.sessions)
	if err != nil {
		log.Error("encoding sessions", "err", err)
		return
	}
	if err := m.store.Save(storage.KeySessions, data); err != nil {
		log.Error("saving sessions", "err", err)
	}
}

// persistActiveLocked writes the active pointer. Caller must hold the lock.
func (m *Manager) persistActiveLocked() {
	if m.activeID == "" {
		if err := m.store.Delete(storage.KeyActiveSession); err != nil {
			log.Error("clearing active session pointer", "err", err)
		}
		return
	}
	data, _ := json.Marshal(m.activeID)
	if err := m.store.Save(storage.KeyActiveSession, data); err != nil {
		log.Error("saving active session pointer", "err", err)
	}
}

// =============================================================================
// CRUD OPERATIONS
// =============================================================================

// CreateSession allocates a draft session and marks it active.
//
// The draft is NOT inserted into the persisted collection: materialization
// happens on the first UpdateSession call, so empty chats never clutter the
// history.
func (m *Manager) CreateSession() ChatSession {
	now := time.Now()
	draft := ChatSession{
		ID:        uuid.NewString(),
		Title:     DefaultTitle,
		Messages:  []ChatMessage{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeID = draft.ID
	m.persistActiveLocked()
	return draft
}

// AddSession inserts a session at the front of the collection. The insert is
// idempotent: a session whose id already exists is left untouched.
func (m *Manager) AddSession(s ChatSession) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.sessions {
		if existing.ID == s.ID {
			return
		}
	}
	m.sessions = append([]ChatSession{s}, m.sessions...)
	m.persistLocked()
}

// UpdateSession replaces the message log of the session with the given id.
//
// If no session with that id exists yet, one is materialized with a title
// derived from the first user message (the lazy-materialization path used on
// the first send). For existing sessions the derived title only overwrites a
// title that is still the DefaultTitle placeholder, so explicit renames and
// model-generated titles are preserved. UpdatedAt is bumped either way.
func (m *Manager) UpdateSession(id string, messages []ChatMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	title := DeriveTitle(messages)

	for i := range m.sessions {
		if m.sessions[i].ID != id {
			continue
		}
		if m.sessions[i].Title == DefaultTitle && !m.sessions[i].TitleGenerated {
			m.sessions[i].Title = title
		}
		m.sessions[i].Messages = messages
		m.sessions[i].UpdatedAt = now
		m.persistLocked()
		return
	}

	// First write for this id: materialize at the front.
	m.sessions = append([]ChatSession{{
		ID:        id,
		Title:     title,
		Messages:  messages,
		CreatedAt: now,
		UpdatedAt: now,
	}}, m.sessions...)
	m.persistLocked()
}

// RenameSession sets an explicit title. Renamed sessions keep their title
// through later UpdateSession calls.
func (m *Manager) RenameSession(id, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.sessions {
		if m.sessions[i].ID == id {
			m.sessions[i].Title = title
			m.sessions[i].TitleEdited = true
			m.persistLocked()
			return nil
		}
	}
	return ErrSessionNotFound
}

// SetGeneratedTitle records a model-generated title. It replaces a derived
// title but never an explicit rename (the title call finishes after the
// first exchange, so a rename may already have happened), and marks the
// session so later appends never revert it.
func (m *Manager) SetGeneratedTitle(id, title string) {
	if title == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.sessions {
		if m.sessions[i].ID != id {
			continue
		}
		if m.sessions[i].TitleEdited {
			return
		}
		m.sessions[i].Title = title
		m.sessions[i].TitleGenerated = true
		m.persistLocked()
		return
	}
}

// DeleteSession removes a session by id. Deleting the active session
// promotes the most-recently-updated remaining session to active, or clears
// the pointer when none remain.
func (m *Manager) DeleteSession(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	filtered := m.sessions[:0:0]
	removed := false
	for _, s := range m.sessions {
		if s.ID == id {
			removed = true
			continue
		}
		filtered = append(filtered, s)
	}
	if !removed {
		return
	}
	m.sessions = filtered
	m.persistLocked()

	if m.activeID == id {
		m.activeID = ""
		if next := mostRecentLocked(m.sessions); next != nil {
			m.activeID = next.ID
		}
		m.persistActiveLocked()
	}
}

// SetActiveSession assigns the active pointer directly. An empty id clears it.
func (m *Manager) SetActiveSession(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeID = id
	m.persistActiveLocked()
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// ActiveSessionID returns the current active pointer ("" when unset).
func (m *Manager) ActiveSessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID
}

// ActiveSession returns the active session, or (zero, false) when the pointer
// is unset or refers to a draft that was never materialized.
func (m *Manager) ActiveSession() (ChatSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		if s.ID == m.activeID {
			return s, true
		}
	}
	return ChatSession{}, false
}

// Session returns the session with the given id.
func (m *Manager) Session(id string) (ChatSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		if s.ID == id {
			return s, true
		}
	}
	return ChatSession{}, false
}

// Sessions returns a copy of the collection, most recently updated first.
func (m *Manager) Sessions() []ChatSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ChatSession, len(m.sessions))
	copy(out, m.sessions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// mostRecentLocked finds the most-recently-updated session.
func mostRecentLocked(sessions []ChatSession) *ChatSession {
	var best *ChatSession
	for i := range sessions {
		if best == nil || sessions[i].UpdatedAt.After(best.UpdatedAt) {
			best = &sessions[i]
		}
	}
	return best
}
