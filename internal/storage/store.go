// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the key/value persistence port for saldo.
//
// Every record set (sessions, active-session pointer, user profile,
// documents) is read and written as a whole JSON blob under a single key.
// The Store interface is the seam that makes storage technology swappable:
// a file-backed store for the real application, a memory store for tests.
package storage

import "errors"

// =============================================================================
// WELL-KNOWN KEYS
// =============================================================================

// Storage keys for the independently persisted record sets.
const (
	KeySessions      = "sessions"
	KeyActiveSession = "active-session"
	KeyUser          = "user"
	KeyDocuments     = "documents"
)

// =============================================================================
// STORE PORT
// =============================================================================

// Store is the persistence port injected into the managers.
//
// Load returns (nil, false, nil) when the key has never been written.
// Implementations are expected to be safe for use from a single process;
// there is no cross-process locking (last write wins).
type Store interface {
	// Load reads the blob stored under key.
	Load(key string) (data []byte, ok bool, err error)

	// Save writes the blob under key, replacing any previous value.
	Save(key string, data []byte) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(key string) error

	// Keys lists all stored keys.
	Keys() ([]string, error)
}

// ErrInvalidKey is returned for keys that cannot be mapped to storage.
var ErrInvalidKey = errors.New("invalid storage key")
