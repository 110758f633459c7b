// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package relay

import (
	"errors"
	"reflect"
	"testing"
)

var errTest = errors.New("stream failed")

// =============================================================================
// SENTINEL FILTER TESTS
// =============================================================================

// run feeds chunks through a filter and returns the visible text and the
// status transitions in order.
func run(chunks []string) (string, []Status) {
	var out string
	var statuses []Status
	f := NewSentinelFilter(func(s Status) { statuses = append(statuses, s) })
	for _, c := range chunks {
		out += f.Write(c)
	}
	out += f.Flush()
	return out, statuses
}

func TestFilterPlainText(t *testing.T) {
	out, statuses := run([]string{"Hej! ", "Hur kan jag hjälpa dig?"})
	if out != "Hej! Hur kan jag hjälpa dig?" {
		t.Errorf("out = %q", out)
	}
	if len(statuses) != 0 {
		t.Errorf("statuses = %v, want none", statuses)
	}
}

func TestFilterSearchThenStream(t *testing.T) {
	out, statuses := run([]string{"[STATUS:SEARCHING]\nHello [STATUS:STREAMING]\n world"})

	if out != "Hello  world" {
		t.Errorf("out = %q, want %q", out, "Hello  world")
	}
	want := []Status{StatusSearching, StatusStreaming}
	if !reflect.DeepEqual(statuses, want) {
		t.Errorf("statuses = %v, want %v", statuses, want)
	}
}

func TestFilterMarkerSplitAcrossChunks(t *testing.T) {
	out, statuses := run([]string{"[STATU", "S:SEARCHING]\n", "svar"})
	if out != "svar" {
		t.Errorf("out = %q, want %q", out, "svar")
	}
	if !reflect.DeepEqual(statuses, []Status{StatusSearching}) {
		t.Errorf("statuses = %v", statuses)
	}
}

func TestFilterBracketIsJustText(t *testing.T) {
	out, statuses := run([]string{"moms [25%] på beloppet"})
	if out != "moms [25%] på beloppet" {
		t.Errorf("out = %q", out)
	}
	if len(statuses) != 0 {
		t.Errorf("statuses = %v, want none", statuses)
	}
}

func TestFilterUnterminatedPrefixFlushes(t *testing.T) {
	// Stream ends mid-marker: the tail is literal text, not a transition.
	out, statuses := run([]string{"klart [STATUS:SEA"})
	if out != "klart [STATUS:SEA" {
		t.Errorf("out = %q", out)
	}
	if len(statuses) != 0 {
		t.Errorf("statuses = %v, want none", statuses)
	}
}

func TestFilterMarkerWithoutNewline(t *testing.T) {
	out, _ := run([]string{"[STATUS:STREAMING]text"})
	if out != "text" {
		t.Errorf("out = %q, want %q", out, "text")
	}
}

// =============================================================================
// ACCUMULATOR TESTS
// =============================================================================

func TestAccumulatorSuccess(t *testing.T) {
	var a Accumulator
	a.Append("Hej ")
	a.Append("världen")

	if got := a.Finalize(nil); got != "Hej världen" {
		t.Errorf("Finalize = %q", got)
	}
}

func TestAccumulatorFailureDiscardsPartial(t *testing.T) {
	var a Accumulator
	a.Append("partial answer that never finis")

	if got := a.Finalize(errTest); got != FailureText {
		t.Errorf("Finalize = %q, want failure text", got)
	}
}

func TestAccumulatorIgnoresLateAppends(t *testing.T) {
	var a Accumulator
	a.Append("done")
	a.Finalize(nil)
	a.Append(" straggler")

	if got := a.String(); got != "done" {
		t.Errorf("String = %q, want %q", got, "done")
	}
}
