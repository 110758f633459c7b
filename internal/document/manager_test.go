// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"strings"
	"testing"

	"github.com/morganforge/saldo-tui/internal/storage"
)

// =============================================================================
// DOCUMENT MANAGER TESTS
// =============================================================================

func TestAddPlainTextExtracts(t *testing.T) {
	m := NewManager(storage.NewMemStore())

	doc := m.Add("notes.txt", "text/plain", []byte("kvitto från leverantör"))
	if doc.ExtractedText != "kvitto från leverantör" {
		t.Errorf("ExtractedText = %q", doc.ExtractedText)
	}
	if doc.DataURL != "" {
		t.Error("text files must not carry a data URL")
	}
}

func TestAddTruncatesAtCap(t *testing.T) {
	m := NewManager(storage.NewMemStore())

	big := strings.Repeat("a", MaxTextRunes+5000)
	doc := m.Add("big.txt", "text/plain", []byte(big))

	if got := len([]rune(doc.ExtractedText)); got != MaxTextRunes {
		t.Errorf("extracted length = %d, want %d", got, MaxTextRunes)
	}
	// Size reflects the original file, not the truncated text.
	if doc.Size != int64(len(big)) {
		t.Errorf("Size = %d, want %d", doc.Size, len(big))
	}
}

func TestAddSmallImageKeepsDataURL(t *testing.T) {
	m := NewManager(storage.NewMemStore())

	doc := m.Add("logo.png", "image/png", []byte{0x89, 0x50, 0x4e, 0x47})
	if !strings.HasPrefix(doc.DataURL, "data:image/png;base64,") {
		t.Errorf("DataURL = %q, want base64 data URI", doc.DataURL)
	}
}

func TestAddLargeImageSkipsDataURL(t *testing.T) {
	m := NewManager(storage.NewMemStore())

	big := make([]byte, MaxPreviewBytes+1)
	doc := m.Add("huge.png", "image/png", big)
	if doc.DataURL != "" {
		t.Error("images over the preview cap must not keep a data URL")
	}
	if doc.Size != int64(len(big)) {
		t.Errorf("Size = %d, want %d", doc.Size, len(big))
	}
}

func TestAddPDFIsMetadataOnly(t *testing.T) {
	m := NewManager(storage.NewMemStore())

	doc := m.Add("faktura.pdf", "application/pdf", []byte("%PDF-1.7"))
	if doc.ExtractedText != "" || doc.DataURL != "" {
		t.Error("PDFs are stored as metadata only")
	}
}

func TestAddBrokenDocxStillStored(t *testing.T) {
	m := NewManager(storage.NewMemStore())

	// Not a zip: extraction fails, upload must still succeed.
	doc := m.Add("report.docx",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		[]byte("definitely not a zip"))

	if doc.ID == "" {
		t.Fatal("document not stored")
	}
	if doc.ExtractedText != "" {
		t.Error("failed extraction must leave ExtractedText empty")
	}
	if got := len(m.Documents()); got != 1 {
		t.Errorf("documents = %d, want 1", got)
	}
}

func TestDeleteAndClear(t *testing.T) {
	store := storage.NewMemStore()
	m := NewManager(store)

	a := m.Add("a.txt", "text/plain", []byte("a"))
	m.Add("b.txt", "text/plain", []byte("b"))

	m.Delete(a.ID)
	if got := len(m.Documents()); got != 1 {
		t.Fatalf("documents after delete = %d, want 1", got)
	}

	m.ClearAll()
	if got := len(m.Documents()); got != 0 {
		t.Errorf("documents after clear = %d, want 0", got)
	}
	if got := len(NewManager(store).Documents()); got != 0 {
		t.Errorf("persisted documents after clear = %d, want 0", got)
	}
}

func TestNewestFirst(t *testing.T) {
	m := NewManager(storage.NewMemStore())

	m.Add("first.txt", "text/plain", []byte("1"))
	m.Add("second.txt", "text/plain", []byte("2"))

	docs := m.Documents()
	if docs[0].Name != "second.txt" {
		t.Errorf("docs[0] = %q, want most recent first", docs[0].Name)
	}
}

func TestMIMEForName(t *testing.T) {
	cases := map[string]string{
		"a.txt":  "text/plain",
		"a.md":   "text/markdown",
		"a.PDF":  "application/pdf",
		"a.jpeg": "image/jpeg",
		"a.docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"a.xyz":  "application/octet-stream",
	}
	for name, want := range cases {
		if got := MIMEForName(name); got != want {
			t.Errorf("MIMEForName(%q) = %q, want %q", name, got, want)
		}
	}
}
