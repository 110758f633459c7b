// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package user

import (
	"testing"

	"github.com/morganforge/saldo-tui/internal/storage"
)

func TestSetAndGet(t *testing.T) {
	store := storage.NewMemStore()
	m := NewManager(store)

	if _, ok := m.Get(); ok {
		t.Fatal("expected no profile initially")
	}

	p := m.Set("  Astrid  ")
	if p.Name != "Astrid" {
		t.Errorf("Name = %q, want trimmed %q", p.Name, "Astrid")
	}
	if p.ID == "" {
		t.Error("expected generated id")
	}

	// Reload from the same store.
	m2 := NewManager(store)
	got, ok := m2.Get()
	if !ok {
		t.Fatal("profile not persisted")
	}
	if got.ID != p.ID || got.Name != p.Name {
		t.Errorf("reloaded profile = %+v, want %+v", got, p)
	}
}

func TestSetReplacesWholesale(t *testing.T) {
	m := NewManager(storage.NewMemStore())

	first := m.Set("Astrid")
	second := m.Set("Björn")

	if second.ID == first.ID {
		t.Error("Set must allocate a fresh identity")
	}
	got, _ := m.Get()
	if got.Name != "Björn" {
		t.Errorf("Name = %q, want %q", got.Name, "Björn")
	}
}

func TestClear(t *testing.T) {
	store := storage.NewMemStore()
	m := NewManager(store)

	m.Set("Astrid")
	m.Clear()

	if _, ok := m.Get(); ok {
		t.Error("expected no profile after Clear")
	}
	if _, ok := NewManager(store).Get(); ok {
		t.Error("Clear must remove the persisted record")
	}
}

func TestStorageFailureStillWorksInMemory(t *testing.T) {
	m := NewManager(storage.FailingStore{})

	m.Set("Astrid")
	if got, ok := m.Get(); !ok || got.Name != "Astrid" {
		t.Error("profile must remain usable in memory when storage fails")
	}
}
