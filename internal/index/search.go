// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// SEARCH
// =============================================================================

// DefaultMaxResults bounds a search when the caller passes limit <= 0.
const DefaultMaxResults = 20

// SearchResult is one matched document with a highlighted snippet from the
// extracted text.
type SearchResult struct {
	ID         string
	Name       string
	MIME       string
	Size       int64
	UploadedAt time.Time
	Snippet    string
	Rank       float64
}

// Search runs a full-text query over names and extracted text, best match
// first. An empty or punctuation-only query returns no results.
func (idx *DocumentIndex) Search(query string, limit int) ([]SearchResult, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.db == nil {
		return nil, ErrClosed
	}

	ftsQuery := buildFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultMaxResults
	}

	rows, err := idx.db.Query(`
		SELECT d.id, d.name, d.mime, d.size, d.uploaded_at,
		       snippet(documents_fts, 1, '[', ']', '…', 12),
		       fts.rank
		FROM documents_fts fts
		JOIN documents d ON d.rowid = fts.rowid
		WHERE documents_fts MATCH ?
		ORDER BY fts.rank
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var uploadedAt int64
		if err := rows.Scan(&r.ID, &r.Name, &r.MIME, &r.Size, &uploadedAt, &r.Snippet, &r.Rank); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		r.UploadedAt = time.Unix(uploadedAt, 0)
		results = append(results, r)
	}
	return results, rows.Err()
}

// buildFTSQuery turns free text into an FTS5 query: each term is quoted (so
// user punctuation cannot change query syntax) and prefix-matched.
func buildFTSQuery(query string) string {
	var terms []string
	for _, term := range strings.Fields(query) {
		term = strings.Trim(term, `"'`)
		if term == "" {
			continue
		}
		terms = append(terms, `"`+strings.ReplaceAll(term, `"`, `""`)+`"*`)
	}
	return strings.Join(terms, " ")
}
