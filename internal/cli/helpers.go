// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"path/filepath"

	"github.com/morganforge/saldo-tui/internal/config"
	"github.com/morganforge/saldo-tui/internal/document"
	"github.com/morganforge/saldo-tui/internal/session"
	"github.com/morganforge/saldo-tui/internal/storage"
)

// indexFile is the document index database, kept next to the JSON store.
const indexFile = "documents.db"

// openManagers loads the config and opens the persistent managers the
// CLI commands share.
func openManagers(args Args) (*session.Manager, *document.Manager, error) {
	dataDir, err := resolveDataDir(args)
	if err != nil {
		return nil, nil, err
	}
	store, err := storage.NewFileStoreWithDir(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return session.NewManager(store), document.NewManager(store), nil
}

// resolveDataDir loads the config and returns the data directory.
func resolveDataDir(args Args) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	dir, err := cfg.ResolveDataDir()
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	return dir, nil
}

// indexPath returns the document index location inside the data dir.
func indexPath(dataDir string) string {
	return filepath.Join(dataDir, indexFile)
}
