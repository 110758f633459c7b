// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/morganforge/saldo-tui/internal/util"
)

// =============================================================================
// FILE STORE
// =============================================================================

// FileStore persists each key as a JSON file under a base directory.
// Default base directory: ~/.saldo/store/
type FileStore struct {
	// BaseDir is the directory holding one file per key.
	BaseDir string
}

// NewFileStore creates a file store rooted at the default data directory.
func NewFileStore() (*FileStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewFileStoreWithDir(filepath.Join(homeDir, ".saldo", "store"))
}

// NewFileStoreWithDir creates a file store rooted at a custom directory.
func NewFileStoreWithDir(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{BaseDir: baseDir}, nil
}

// Load reads the blob stored under key.
func (s *FileStore) Load(key string) ([]byte, bool, error) {
	path, err := s.filePath(key)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Save writes the blob under key.
// RELIABILITY: Atomic write with fsync prevents torn files on crash.
func (s *FileStore) Save(key string, data []byte) error {
	path, err := s.filePath(key)
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(path, data, 0644)
}

// Delete removes the key. Missing keys are not an error.
func (s *FileStore) Delete(key string) error {
	path, err := s.filePath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Keys lists all stored keys.
func (s *FileStore) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return keys, nil
}

// filePath maps a key to its file, rejecting path traversal.
func (s *FileStore) filePath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.BaseDir, key+".json"), nil
}
