// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package index provides full-text search over the uploaded document
// library, backed by an embedded SQLite database with FTS5.
package index

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/morganforge/saldo-tui/internal/document"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrClosed        = errors.New("document index is closed")
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// SCHEMA
// =============================================================================

// Schema for the document index. The FTS5 table is external-content over
// documents and kept in sync with triggers, so the searchable text is stored
// once.
const schema = `
CREATE TABLE IF NOT EXISTS documents (
    id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    mime TEXT NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at INTEGER NOT NULL, -- Unix timestamp
    body TEXT NOT NULL            -- extracted text, may be empty
);

CREATE INDEX IF NOT EXISTS idx_documents_uploaded_at ON documents(uploaded_at);

CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
    name,
    body,
    content='documents',
    content_rowid='rowid',
    tokenize='unicode61'
);

CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
    INSERT INTO documents_fts(rowid, name, body)
    VALUES (new.rowid, new.name, new.body);
END;

CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
    INSERT INTO documents_fts(documents_fts, rowid, name, body)
    VALUES ('delete', old.rowid, old.name, old.body);
END;

CREATE TRIGGER IF NOT EXISTS documents_au AFTER UPDATE ON documents BEGIN
    INSERT INTO documents_fts(documents_fts, rowid, name, body)
    VALUES ('delete', old.rowid, old.name, old.body);
    INSERT INTO documents_fts(rowid, name, body)
    VALUES (new.rowid, new.name, new.body);
END;
`

// =============================================================================
// DOCUMENT INDEX
// =============================================================================

// DocumentIndex is a searchable index over uploaded documents. It is safe
// for concurrent use.
type DocumentIndex struct {
	mu sync.RWMutex
	db *sql.DB
}

// Open opens (creating if needed) a document index at the given path.
// Use ":memory:" for an ephemeral index.
func Open(path string) (*DocumentIndex, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	// modernc.org/sqlite serializes writes per connection; a single
	// connection avoids SQLITE_BUSY between concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: applying schema: %v", ErrDatabaseError, err)
	}
	return &DocumentIndex{db: db}, nil
}

// Close releases the underlying database.
func (idx *DocumentIndex) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.db == nil {
		return nil
	}
	err := idx.db.Close()
	idx.db = nil
	return err
}

// Add inserts or replaces a document in the index.
func (idx *DocumentIndex) Add(doc document.UserDocument) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.db == nil {
		return ErrClosed
	}

	_, err := idx.db.Exec(`DELETE FROM documents WHERE id = ?`, doc.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	_, err = idx.db.Exec(
		`INSERT INTO documents (id, name, mime, size, uploaded_at, body) VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Name, doc.Type, doc.Size, doc.UploadedAt.Unix(), doc.ExtractedText)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// Remove deletes a document from the index. Removing an unknown id is a
// no-op.
func (idx *DocumentIndex) Remove(id string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.db == nil {
		return ErrClosed
	}

	if _, err := idx.db.Exec(`DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// Rebuild replaces the entire index with the given collection.
func (idx *DocumentIndex) Rebuild(docs []document.UserDocument) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.db == nil {
		return ErrClosed
	}

	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM documents`); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	for _, doc := range docs {
		_, err := tx.Exec(
			`INSERT INTO documents (id, name, mime, size, uploaded_at, body) VALUES (?, ?, ?, ?, ?, ?)`,
			doc.ID, doc.Name, doc.Type, doc.Size, doc.UploadedAt.Unix(), doc.ExtractedText)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}
	return tx.Commit()
}

// Count returns the number of indexed documents.
func (idx *DocumentIndex) Count() (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.db == nil {
		return 0, ErrClosed
	}

	var n int
	if err := idx.db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return n, nil
}
