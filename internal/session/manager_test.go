// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"strings"
	"testing"
	"time"

	"github.com/morganforge/saldo-tui/internal/storage"
)

// =============================================================================
// MANAGER TESTS
// =============================================================================

func TestCreateSessionIsNotPersisted(t *testing.T) {
	m := NewManager(storage.NewMemStore())

	draft := m.CreateSession()
	if draft.ID == "" {
		t.Fatal("expected draft session to have an id")
	}
	if m.ActiveSessionID() != draft.ID {
		t.Errorf("active = %q, want %q", m.ActiveSessionID(), draft.ID)
	}

	// Lazy materialization: the draft must not appear in the collection.
	if got := len(m.Sessions()); got != 0 {
		t.Errorf("sessions after CreateSession = %d, want 0", got)
	}
}

func TestUpdateSessionMaterializes(t *testing.T) {
	store := storage.NewMemStore()
	m := NewManager(store)

	draft := m.CreateSession()
	m.UpdateSession(draft.ID, []ChatMessage{NewMessage(RoleUser, "Hello")})

	sessions := m.Sessions()
	if len(sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(sessions))
	}
	if sessions[0].ID != draft.ID {
		t.Errorf("materialized id = %q, want %q", sessions[0].ID, draft.ID)
	}

	// A fresh manager over the same store must see the session.
	m2 := NewManager(store)
	if got := len(m2.Sessions()); got != 1 {
		t.Errorf("reloaded sessions = %d, want 1", got)
	}
}

func TestDeriveTitleTruncation(t *testing.T) {
	text := "Can you explain VAT rules for small businesses in great detail please"
	title := DeriveTitle([]ChatMessage{NewMessage(RoleUser, text)})

	want := string([]rune(text)[:50]) + "..."
	if title != want {
		t.Errorf("title = %q, want %q", title, want)
	}
	if len([]rune(title)) != 53 {
		t.Errorf("title length = %d runes, want 53", len([]rune(title)))
	}
}

func TestDeriveTitleShortMessage(t *testing.T) {
	title := DeriveTitle([]ChatMessage{NewMessage(RoleUser, "VAT rates?")})
	if title != "VAT rates?" {
		t.Errorf("title = %q, want %q", title, "VAT rates?")
	}
	if strings.HasSuffix(title, "...") {
		t.Error("short titles must not get an ellipsis")
	}
}

func TestDeriveTitleNoUserMessage(t *testing.T) {
	title := DeriveTitle([]ChatMessage{NewMessage(RoleModel, "Hej!")})
	if title != DefaultTitle {
		t.Errorf("title = %q, want %q", title, DefaultTitle)
	}
}

func TestUpdateSessionPreservesCustomTitle(t *testing.T) {
	m := NewManager(storage.NewMemStore())

	draft := m.CreateSession()
	msgs := []ChatMessage{NewMessage(RoleUser, "first question")}
	m.UpdateSession(draft.ID, msgs)

	if err := m.RenameSession(draft.ID, "Momsfrågor"); err != nil {
		t.Fatalf("RenameSession: %v", err)
	}

	msgs = append(msgs, NewMessage(RoleModel, "answer"), NewMessage(RoleUser, "follow up"))
	m.UpdateSession(draft.ID, msgs)

	s, ok := m.Session(draft.ID)
	if !ok {
		t.Fatal("session missing")
	}
	if s.Title != "Momsfrågor" {
		t.Errorf("title = %q, want preserved rename", s.Title)
	}
}

func TestSetGeneratedTitleSticks(t *testing.T) {
	m := NewManager(storage.NewMemStore())

	draft := m.CreateSession()
	m.UpdateSession(draft.ID, []ChatMessage{NewMessage(RoleUser, "hi")})
	m.SetGeneratedTitle(draft.ID, "Greeting Chat")

	m.UpdateSession(draft.ID, []ChatMessage{
		NewMessage(RoleUser, "hi"),
		NewMessage(RoleModel, "hello"),
	})

	s, _ := m.Session(draft.ID)
	if s.Title != "Greeting Chat" {
		t.Errorf("title = %q, want generated title to stick", s.Title)
	}
	if !s.TitleGenerated {
		t.Error("TitleGenerated flag not set")
	}
}

func TestSetGeneratedTitleNeverClobbersRename(t *testing.T) {
	m := NewManager(storage.NewMemStore())

	draft := m.CreateSession()
	m.UpdateSession(draft.ID, []ChatMessage{NewMessage(RoleUser, "hi")})

	// Rename lands while the title call is still in flight.
	if err := m.RenameSession(draft.ID, "Bokföring Q3"); err != nil {
		t.Fatalf("RenameSession: %v", err)
	}
	m.SetGeneratedTitle(draft.ID, "Greeting Chat")

	s, _ := m.Session(draft.ID)
	if s.Title != "Bokföring Q3" {
		t.Errorf("title = %q, want rename to win over generated title", s.Title)
	}
	if s.TitleGenerated {
		t.Error("TitleGenerated set despite skipped title")
	}
}

func TestSetGeneratedTitleReplacesDerivedTitle(t *testing.T) {
	m := NewManager(storage.NewMemStore())

	draft := m.CreateSession()
	m.UpdateSession(draft.ID, []ChatMessage{NewMessage(RoleUser, "how do I book VAT on imports?")})

	m.SetGeneratedTitle(draft.ID, "Import VAT")

	s, _ := m.Session(draft.ID)
	if s.Title != "Import VAT" {
		t.Errorf("title = %q, want generated title over derived one", s.Title)
	}
}

func TestDeleteActivePromotesMostRecent(t *testing.T) {
	m := NewManager(storage.NewMemStore())

	a := m.CreateSession()
	m.UpdateSession(a.ID, []ChatMessage{NewMessage(RoleUser, "a")})
	b := m.CreateSession()
	m.UpdateSession(b.ID, []ChatMessage{NewMessage(RoleUser, "b")})
	c := m.CreateSession()
	m.UpdateSession(c.ID, []ChatMessage{NewMessage(RoleUser, "c")})

	// c is active and most recent; b is next most recent.
	m.DeleteSession(c.ID)
	if m.ActiveSessionID() != b.ID {
		t.Errorf("active after delete = %q, want %q", m.ActiveSessionID(), b.ID)
	}

	m.DeleteSession(b.ID)
	m.DeleteSession(a.ID)
	if m.ActiveSessionID() != "" {
		t.Errorf("active after deleting all = %q, want empty", m.ActiveSessionID())
	}
}

func TestDeleteInactiveKeepsActivePointer(t *testing.T) {
	m := NewManager(storage.NewMemStore())

	a := m.CreateSession()
	m.UpdateSession(a.ID, []ChatMessage{NewMessage(RoleUser, "a")})
	b := m.CreateSession()
	m.UpdateSession(b.ID, []ChatMessage{NewMessage(RoleUser, "b")})

	m.DeleteSession(a.ID)
	if m.ActiveSessionID() != b.ID {
		t.Errorf("active = %q, want %q", m.ActiveSessionID(), b.ID)
	}
}

func TestAddSessionIdempotent(t *testing.T) {
	m := NewManager(storage.NewMemStore())

	s := ChatSession{ID: "s1", Title: "t", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.AddSession(s)
	m.AddSession(s)

	if got := len(m.Sessions()); got != 1 {
		t.Errorf("sessions = %d, want 1", got)
	}
}

func TestStorageFailureDegradesToMemory(t *testing.T) {
	// Every write fails; the in-memory state must keep working.
	m := NewManager(storage.FailingStore{})

	draft := m.CreateSession()
	m.UpdateSession(draft.ID, []ChatMessage{NewMessage(RoleUser, "hello")})

	if got := len(m.Sessions()); got != 1 {
		t.Errorf("in-memory sessions = %d, want 1", got)
	}
	s, ok := m.ActiveSession()
	if !ok || s.ID != draft.ID {
		t.Error("active session lost after storage failure")
	}
}
