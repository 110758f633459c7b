// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/morganforge/saldo-tui/internal/storage"
	"github.com/morganforge/saldo-tui/internal/util"
)

// =============================================================================
// DOCUMENT MANAGER
// =============================================================================

// Manager owns the uploaded-document collection (most recent first).
//
// Extraction failures are swallowed by design: the document is still stored
// with metadata only. Uploads never fail because content could not be parsed.
type Manager struct {
	mu    sync.Mutex
	store storage.Store
	docs  []UserDocument
}

// NewManager creates a document manager over the given store.
func NewManager(store storage.Store) *Manager {
	m := &Manager{store: store}

	data, ok, err := store.Load(storage.KeyDocuments)
	if err != nil {
		log.Error("loading documents", "err", err)
		return m
	}
	if ok {
		if err := json.Unmarshal(data, &m.docs); err != nil {
			log.Error("decoding documents", "err", err)
			m.docs = nil
		}
	}
	return m
}

// Add classifies and stores a document from raw bytes.
//
// Plain text and Markdown are read directly; .docx goes through OOXML
// extraction; small images keep a base64 data URL for preview; everything
// else (PDFs included) is stored as metadata only.
func (m *Manager) Add(name, mimeType string, data []byte) UserDocument {
	doc := UserDocument{
		ID:         "doc_" + uuid.NewString(),
		Name:       name,
		Type:       mimeType,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
	}

	lower := strings.ToLower(name)
	switch {
	case mimeType == "text/plain" || mimeType == "text/markdown" ||
		strings.HasSuffix(lower, ".txt") || strings.HasSuffix(lower, ".md"):
		doc.ExtractedText = util.TruncateRunesNoEllipsis(string(data), MaxTextRunes)

	case mimeType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document" ||
		strings.HasSuffix(lower, ".docx"):
		text, err := extractDocx(data)
		if err != nil {
			// Swallowed by design: keep metadata, drop the text.
			log.Warn("docx extraction failed", "name", name, "err", err)
		} else {
			doc.ExtractedText = util.TruncateRunesNoEllipsis(text, MaxTextRunes)
		}

	case strings.HasPrefix(mimeType, "image/") && doc.Size <= MaxPreviewBytes:
		doc.DataURL = fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append([]UserDocument{doc}, m.docs...)
	m.persistLocked()
	return doc
}

// AddFromFile reads a file from disk and stores it, inferring the MIME type
// from the extension.
func (m *Manager) AddFromFile(path string) (UserDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return UserDocument{}, err
	}
	name := filepath.Base(path)
	return m.Add(name, MIMEForName(name), data), nil
}

// Delete removes a document by id.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	filtered := m.docs[:0:0]
	for _, d := range m.docs {
		if d.ID != id {
			filtered = append(filtered, d)
		}
	}
	m.docs = filtered
	m.persistLocked()
}

// ClearAll resets the entire collection.
func (m *Manager) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = nil

	if err := m.store.Delete(storage.KeyDocuments); err != nil {
		log.Error("clearing documents", "err", err)
	}
}

// Documents returns a copy of the collection, most recent first.
func (m *Manager) Documents() []UserDocument {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]UserDocument, len(m.docs))
	copy(out, m.docs)
	return out
}

// Document returns the document with the given id.
func (m *Manager) Document(id string) (UserDocument, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range m.docs {
		if d.ID == id {
			return d, true
		}
	}
	return UserDocument{}, false
}

// persistLocked writes the collection; caller must hold the lock.
// Best-effort: failures log and the in-memory state continues.
func (m *Manager) persistLocked() {
	data, err := json.Marshal(m.docs)
	if err != nil {
		log.Error("encoding documents", "err", err)
		return
	}
	if err := m.store.Save(storage.KeyDocuments, data); err != nil {
		log.Error("saving documents", "err", err)
	}
}

// =============================================================================
// MIME CLASSIFICATION
// =============================================================================

// MIMEForName maps a file name to the MIME type used for classification.
func MIMEForName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return "text/plain"
	case ".md":
		return "text/markdown"
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
