// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStoreWithDir: %v", err)
	}
	return store
}

// =============================================================================
// FILE STORE TESTS
// =============================================================================

func TestFileStoreSaveLoad(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(KeySessions, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, ok, err := store.Load(KeySessions)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("Load: ok = false for saved key")
	}
	if string(data) != `{"a":1}` {
		t.Errorf("Load = %q", data)
	}
}

func TestFileStoreLoadMissingKey(t *testing.T) {
	store := newTestStore(t)

	data, ok, err := store.Load("never-written")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok || data != nil {
		t.Errorf("Load missing = %q, %v; want nil, false", data, ok)
	}
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	store := newTestStore(t)

	store.Save(KeyUser, []byte("old"))
	if err := store.Save(KeyUser, []byte("new")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, _, _ := store.Load(KeyUser)
	if string(data) != "new" {
		t.Errorf("Load = %q after overwrite", data)
	}
}

func TestFileStoreDelete(t *testing.T) {
	store := newTestStore(t)

	store.Save(KeyDocuments, []byte("x"))
	if err := store.Delete(KeyDocuments); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := store.Load(KeyDocuments); ok {
		t.Error("key still loadable after delete")
	}

	// Deleting a missing key is not an error.
	if err := store.Delete("missing"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestFileStoreKeys(t *testing.T) {
	store := newTestStore(t)

	store.Save("alpha", []byte("1"))
	store.Save("beta", []byte("2"))

	// A stray non-JSON file must not show up as a key.
	os.WriteFile(filepath.Join(store.BaseDir, "notes.txt"), []byte("x"), 0644)

	keys, err := store.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("Keys = %v, want 2 entries", keys)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store := newTestStore(t)

	for _, key := range []string{"", "../escape", "a/b", `a\b`, ".."} {
		if err := store.Save(key, []byte("x")); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Save(%q) = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStoreWithDir(dir)
	if err != nil {
		t.Fatalf("NewFileStoreWithDir: %v", err)
	}
	store.Save(KeySessions, []byte("persisted"))

	reopened, err := NewFileStoreWithDir(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	data, ok, err := reopened.Load(KeySessions)
	if err != nil || !ok {
		t.Fatalf("Load after reopen: %q, %v, %v", data, ok, err)
	}
	if string(data) != "persisted" {
		t.Errorf("Load = %q", data)
	}
}
