// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package user manages the single local user profile.
package user

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/morganforge/saldo-tui/internal/storage"
)

// =============================================================================
// PROFILE
// =============================================================================

// Profile is the local user identity. Exactly one instance exists at a time;
// it is replaced wholesale on Set and removed on Clear (logout).
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager persists the profile through the storage port.
type Manager struct {
	mu      sync.Mutex
	store   storage.Store
	profile *Profile
}

// NewManager creates a profile manager over the given store.
func NewManager(store storage.Store) *Manager {
	m := &Manager{store: store}

	data, ok, err := store.Load(storage.KeyUser)
	if err != nil {
		log.Error("loading user profile", "err", err)
		return m
	}
	if ok {
		var p Profile
		if err := json.Unmarshal(data, &p); err != nil {
			log.Error("decoding user profile", "err", err)
			return m
		}
		m.profile = &p
	}
	return m
}

// Get returns the current profile, or (zero, false) when none exists.
func (m *Manager) Get() (Profile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile == nil {
		return Profile{}, false
	}
	return *m.profile, true
}

// Set replaces the profile with a fresh one for the given display name.
func (m *Manager) Set(name string) Profile {
	p := Profile{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile = &p

	data, _ := json.Marshal(p)
	if err := m.store.Save(storage.KeyUser, data); err != nil {
		log.Error("saving user profile", "err", err)
	}
	return p
}

// Clear removes the profile (logout).
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile = nil

	if err := m.store.Delete(storage.KeyUser); err != nil {
		log.Error("clearing user profile", "err", err)
	}
}
