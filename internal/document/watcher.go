// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// INBOX WATCHER
// =============================================================================

// InboxWatcher watches a drop folder and auto-imports files placed in it,
// the terminal equivalent of the documents page's drag-and-drop area.
//
// Events are debounced so a file still being copied is only imported once it
// has stopped changing.
type InboxWatcher struct {
	mgr      *Manager
	dir      string
	debounce time.Duration

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	pending map[string]time.Time // path -> last change time
	seen    map[string]bool      // already-imported paths
	ctx     context.Context
	cancel  context.CancelFunc

	// OnImport, when set, is called after each successful import.
	OnImport func(UserDocument)
}

// NewInboxWatcher creates a watcher over the given inbox directory.
func NewInboxWatcher(mgr *Manager, dir string, debounce time.Duration) (*InboxWatcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &InboxWatcher{
		mgr:      mgr,
		dir:      dir,
		debounce: debounce,
		watcher:  watcher,
		pending:  make(map[string]time.Time),
		seen:     make(map[string]bool),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching the inbox directory.
func (w *InboxWatcher) Watch() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	go w.processEvents()
	go w.processPending()
	return nil
}

// Close stops watching and releases resources.
func (w *InboxWatcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

// processEvents records create/write events for debouncing.
func (w *InboxWatcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue // editor temp files, partial copies
			}
			w.mu.Lock()
			w.pending[event.Name] = time.Now()
			w.mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("inbox watcher error", "err", err)
		}
	}
}

// processPending imports files whose last change is older than the debounce.
func (w *InboxWatcher) processPending() {
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.importSettled()
		}
	}
}

// importSettled imports all settled pending files.
func (w *InboxWatcher) importSettled() {
	now := time.Now()

	w.mu.Lock()
	var ready []string
	for path, changed := range w.pending {
		if now.Sub(changed) >= w.debounce {
			delete(w.pending, path)
			if !w.seen[path] {
				w.seen[path] = true
				ready = append(ready, path)
			}
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		doc, err := w.mgr.AddFromFile(path)
		if err != nil {
			log.Warn("inbox import failed", "path", path, "err", err)
			continue
		}
		log.Info("imported document from inbox", "name", doc.Name, "size", doc.Size)
		if w.OnImport != nil {
			w.OnImport(doc)
		}
	}
}
