// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/morganforge/saldo-tui/internal/storage"
)

// =============================================================================
// INBOX WATCHER TESTS
// =============================================================================

func TestInboxWatcherImportsDroppedFile(t *testing.T) {
	mgr := NewManager(storage.NewMemStore())
	inbox := filepath.Join(t.TempDir(), "inbox")

	w, err := NewInboxWatcher(mgr, inbox, 30*time.Millisecond)
	if err != nil {
		t.Fatalf("NewInboxWatcher: %v", err)
	}
	defer w.Close()

	imported := make(chan UserDocument, 1)
	w.OnImport = func(doc UserDocument) { imported <- doc }

	if err := w.Watch(); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	// Hidden files are partial copies or editor droppings; never imported.
	os.WriteFile(filepath.Join(inbox, ".partial"), []byte("x"), 0644)

	path := filepath.Join(inbox, "faktura.txt")
	if err := os.WriteFile(path, []byte("Moms 25% på 1000 kr"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case doc := <-imported:
		if doc.Name != "faktura.txt" {
			t.Errorf("imported %q, want faktura.txt", doc.Name)
		}
		if doc.ExtractedText == "" {
			t.Error("extracted text empty for plain text drop")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("dropped file never imported")
	}

	docs := mgr.Documents()
	if len(docs) != 1 {
		t.Fatalf("library has %d documents, want 1", len(docs))
	}

	// The hidden file must not sneak in later.
	time.Sleep(100 * time.Millisecond)
	if got := len(mgr.Documents()); got != 1 {
		t.Errorf("library has %d documents after settle, want 1", got)
	}
}

func TestInboxWatcherCreatesInboxDir(t *testing.T) {
	mgr := NewManager(storage.NewMemStore())
	inbox := filepath.Join(t.TempDir(), "nested", "inbox")

	w, err := NewInboxWatcher(mgr, inbox, 30*time.Millisecond)
	if err != nil {
		t.Fatalf("NewInboxWatcher: %v", err)
	}
	defer w.Close()

	info, err := os.Stat(inbox)
	if err != nil || !info.IsDir() {
		t.Errorf("inbox dir not created: %v", err)
	}
}

func TestInboxWatcherImportsFileOnce(t *testing.T) {
	mgr := NewManager(storage.NewMemStore())
	inbox := filepath.Join(t.TempDir(), "inbox")

	w, err := NewInboxWatcher(mgr, inbox, 30*time.Millisecond)
	if err != nil {
		t.Fatalf("NewInboxWatcher: %v", err)
	}
	defer w.Close()

	imported := make(chan UserDocument, 4)
	w.OnImport = func(doc UserDocument) { imported <- doc }

	if err := w.Watch(); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	path := filepath.Join(inbox, "kvitto.txt")
	os.WriteFile(path, []byte("kvitto"), 0644)

	select {
	case <-imported:
	case <-time.After(5 * time.Second):
		t.Fatal("file never imported")
	}

	// A later touch of the same path is a duplicate, not a new document.
	os.WriteFile(path, []byte("kvitto uppdaterat"), 0644)
	time.Sleep(150 * time.Millisecond)

	if got := len(mgr.Documents()); got != 1 {
		t.Errorf("library has %d documents, want 1", got)
	}
}
