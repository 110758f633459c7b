// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui provides the Bubble Tea terminal interface for saldo.
//
// This file implements streaming optimization: the StreamBuffer batches
// deltas arriving from the relay goroutine and releases them to the render
// loop at a capped frame rate, so fast streams don't burn CPU on per-token
// redraws and slow streams still animate smoothly.
package ui

import (
	"strings"
	"sync"
	"time"
)

// =============================================================================
// STREAM BUFFER
// =============================================================================

// StreamBuffer batches streamed deltas for rendering. Deltas accumulate
// until either the batch size is reached or the frame interval has elapsed.
//
// Thread-safety: deltas arrive on the send goroutine while flushes happen
// on the Bubble Tea loop, so every operation locks.
type StreamBuffer struct {
	mu         sync.Mutex
	buffer     strings.Builder
	deltaCount int
	lastFlush  time.Time

	batchSize    int
	minFlusheach time.Duration
}

// NewStreamBuffer creates a buffer with the default tuning: 15 deltas per
// batch, 30fps flush cap.
func NewStreamBuffer() *StreamBuffer {
	return &StreamBuffer{
		batchSize:    15,
		minFlusheach: 33 * time.Millisecond,
		lastFlush:    time.Now(),
	}
}

// Write adds a delta. Called from the send goroutine.
func (sb *StreamBuffer) Write(delta string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.buffer.WriteString(delta)
	sb.deltaCount++
}

// Flush returns accumulated content when a flush threshold has been hit.
// Called from the render loop.
func (sb *StreamBuffer) Flush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.buffer.Len() == 0 {
		return "", false
	}
	if sb.deltaCount < sb.batchSize && time.Since(sb.lastFlush) < sb.minFlusheach {
		return "", false
	}
	return sb.drainLocked(), true
}

// ForceFlush returns everything buffered regardless of thresholds. Use when
// the stream ends so no tail is left unrendered.
func (sb *StreamBuffer) ForceFlush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.buffer.Len() == 0 {
		return "", false
	}
	return sb.drainLocked(), true
}

// Reset clears the buffer without flushing, for a cancelled stream.
func (sb *StreamBuffer) Reset() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.buffer.Reset()
	sb.deltaCount = 0
	sb.lastFlush = time.Now()
}

// Pending returns the number of unflushed deltas.
func (sb *StreamBuffer) Pending() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.deltaCount
}

func (sb *StreamBuffer) drainLocked() string {
	content := sb.buffer.String()
	sb.buffer.Reset()
	sb.deltaCount = 0
	sb.lastFlush = time.Now()
	return content
}
