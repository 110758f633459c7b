// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// =============================================================================
// RESULT PARSING TESTS
// =============================================================================

const resultsPage = `<html><body>
<div class="result__body">
  <a class="result__a">Momssatser i Sverige</a>
  <div class="result__snippet">25, 12 och 6 procent beroende på vara.</div>
</div>
<div class="result__body">
  <a class="result__a">Skatteverket</a>
  <div class="result__snippet">Aktuella momsregler.</div>
</div>
<div class="result__body"></div>
</body></html>`

func TestParseResults(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resultsPage))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}

	out := parseResults(doc)
	if !strings.Contains(out, "- Momssatser i Sverige: 25, 12 och 6 procent beroende på vara.") {
		t.Errorf("missing first result in %q", out)
	}
	if !strings.Contains(out, "- Skatteverket: Aktuella momsregler.") {
		t.Errorf("missing second result in %q", out)
	}
	// Empty result bodies contribute nothing.
	if got := strings.Count(out, "\n"); got != 1 {
		t.Errorf("line separators = %d, want 1", got)
	}
}

func TestParseResultsCapsFive(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 8; i++ {
		b.WriteString(`<div class="result__body"><a class="result__a">Träff</a>` +
			`<div class="result__snippet">text</div></div>`)
	}
	b.WriteString("</body></html>")

	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(b.String()))
	out := parseResults(doc)
	if got := strings.Count(out, "- Träff"); got != 5 {
		t.Errorf("results = %d, want 5", got)
	}
}

func TestParseResultsEmpty(t *testing.T) {
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	if out := parseResults(doc); out != "" {
		t.Errorf("out = %q, want empty", out)
	}
}

func TestParseResultsCapsLength(t *testing.T) {
	long := strings.Repeat("x", 900)
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 5; i++ {
		b.WriteString(`<div class="result__body"><a class="result__a">T</a>` +
			`<div class="result__snippet">` + long + `</div></div>`)
	}
	b.WriteString("</body></html>")

	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(b.String()))
	out := parseResults(doc)
	if len(out) > maxResultBytes+3 {
		t.Errorf("len = %d, want <= %d", len(out), maxResultBytes+3)
	}
	if !strings.HasSuffix(out, "...") {
		t.Error("capped output must end with ellipsis")
	}
}

func TestDecideWithoutClient(t *testing.T) {
	s := New(nil)
	if s.Decide(context.Background(), "vad är momsen idag?") {
		t.Error("nil client must never request search")
	}
}
