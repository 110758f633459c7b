// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package relay

import "strings"

// =============================================================================
// STATUS SENTINELS
// =============================================================================

// The relay multiplexes phase transitions into the text stream as in-band
// markers rather than a structured event protocol. Each marker may be
// followed by a newline, which belongs to the marker and is stripped with it.
const (
	MarkerSearching = "[STATUS:SEARCHING]"
	MarkerStreaming = "[STATUS:STREAMING]"
)

// SentinelFilter strips status markers from a chunked text stream and
// reports the phase transitions they encode.
//
// RELIABILITY: markers can arrive split across arbitrary chunk boundaries
// ("[STATU" + "S:SEARCHING]"), so a potential marker prefix at the tail of a
// chunk is withheld until the next chunk resolves it. Flush releases any
// tail that never resolved into a marker.
type SentinelFilter struct {
	carry    string
	onStatus func(Status)
}

// NewSentinelFilter creates a filter. onStatus may be nil.
func NewSentinelFilter(onStatus func(Status)) *SentinelFilter {
	return &SentinelFilter{onStatus: onStatus}
}

// Write processes one stream chunk and returns the display text it yields.
// The returned text may be empty while a potential marker is being buffered.
func (f *SentinelFilter) Write(chunk string) string {
	data := f.carry + chunk
	f.carry = ""

	var out strings.Builder
	for {
		i := strings.IndexByte(data, '[')
		if i < 0 {
			out.WriteString(data)
			return out.String()
		}
		out.WriteString(data[:i])
		data = data[i:]

		switch {
		case strings.HasPrefix(data, MarkerSearching):
			f.emit(StatusSearching)
			data = trimMarker(data, MarkerSearching)
		case strings.HasPrefix(data, MarkerStreaming):
			f.emit(StatusStreaming)
			data = trimMarker(data, MarkerStreaming)
		case couldBeMarker(data):
			// Incomplete tail; hold it until the next chunk.
			f.carry = data
			return out.String()
		default:
			// A '[' that is just text. Emit it and keep scanning.
			out.WriteByte('[')
			data = data[1:]
		}
	}
}

// Flush returns any withheld tail that never completed a marker. Call once
// after the stream ends.
func (f *SentinelFilter) Flush() string {
	tail := f.carry
	f.carry = ""
	return tail
}

func (f *SentinelFilter) emit(s Status) {
	if f.onStatus != nil {
		f.onStatus(s)
	}
}

// trimMarker drops the marker and the single newline that trails it.
func trimMarker(data, marker string) string {
	rest := data[len(marker):]
	if strings.HasPrefix(rest, "\n") {
		rest = rest[1:]
	}
	return rest
}

// couldBeMarker reports whether data (starting with '[') is a proper prefix
// of a marker that a later chunk could complete.
func couldBeMarker(data string) bool {
	if len(data) >= len(MarkerSearching) {
		return false
	}
	return strings.HasPrefix(MarkerSearching, data) || strings.HasPrefix(MarkerStreaming, data)
}
