// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package document manages uploaded file metadata and best-effort extracted
// text, independent of chat sessions.
package document

import (
	"time"
)

// =============================================================================
// LIMITS
// =============================================================================

const (
	// MaxTextRunes caps stored extracted text. Extraction truncates, it
	// never rejects.
	MaxTextRunes = 50000

	// MaxPreviewBytes is the largest image retained as an inline data URL
	// for thumbnail preview (5MB).
	MaxPreviewBytes = 5 * 1024 * 1024
)

// =============================================================================
// USER DOCUMENT
// =============================================================================

// UserDocument is a stored upload. Size always reflects the original file,
// even when ExtractedText was truncated.
type UserDocument struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"` // MIME type
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`

	// DataURL holds a base64 data URI for small images only (preview).
	DataURL string `json:"data_url,omitempty"`

	// ExtractedText is best-effort plain text pulled from the document,
	// capped at MaxTextRunes. Empty when extraction was not attempted or
	// failed.
	ExtractedText string `json:"extracted_text,omitempty"`
}
