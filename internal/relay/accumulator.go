// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package relay

import "strings"

// =============================================================================
// STREAM ACCUMULATOR
// =============================================================================

// Accumulator collects display-text deltas for the in-flight assistant
// message. The caller renders partial state from String and commits the
// result of Finalize to the session log exactly once, on success or failure.
type Accumulator struct {
	buf       strings.Builder
	finalized bool
}

// Append adds a delta to the in-flight text. Appends after Finalize are
// dropped; a late chunk must not mutate a committed message.
func (a *Accumulator) Append(delta string) {
	if a.finalized {
		return
	}
	a.buf.WriteString(delta)
}

// String returns the text accumulated so far.
func (a *Accumulator) String() string {
	return a.buf.String()
}

// Len returns the accumulated byte length.
func (a *Accumulator) Len() int {
	return a.buf.Len()
}

// Finalize seals the accumulator and returns the committed text. On failure
// (err != nil) the committed text is the fixed failure message, regardless
// of any partial content already received.
func (a *Accumulator) Finalize(err error) string {
	a.finalized = true
	if err != nil {
		return FailureText
	}
	return a.buf.String()
}
