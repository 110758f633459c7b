// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package search implements the relay's optional retrieval step: a small
// model decides whether a question needs fresh web data, and a DuckDuckGo
// scrape provides it.
package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"google.golang.org/genai"

	"github.com/morganforge/saldo-tui/internal/prompt"
)

// =============================================================================
// SEARCHER
// =============================================================================

// routerModel is deliberately the cheapest tier; the decision is one word.
const routerModel = "gemini-2.5-flash-lite"

// maxResultBytes caps the scraped context so it cannot dominate the prompt.
const maxResultBytes = 2000

// Searcher decides on and performs web retrieval. Every failure path
// degrades to "no search": retrieval is an enhancement, never a dependency.
type Searcher struct {
	client     *genai.Client
	httpClient *http.Client
}

// New creates a searcher. client may be nil, in which case Decide always
// reports false.
func New(client *genai.Client) *Searcher {
	return &Searcher{
		client:     client,
		httpClient: &http.Client{Timeout: 8 * time.Second},
	}
}

// Decide asks the router model whether the user's message needs current web
// information. Errors and ambiguous answers mean no.
func (s *Searcher) Decide(ctx context.Context, userMessage string) bool {
	if s.client == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()

	resp, err := s.client.Models.GenerateContent(ctx, routerModel,
		genai.Text(prompt.Router(userMessage)), nil)
	if err != nil {
		log.Warn("search router failed", "err", err)
		return false
	}

	var out string
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, p := range resp.Candidates[0].Content.Parts {
			out += p.Text
		}
	}
	return strings.TrimSpace(strings.ToUpper(out)) == "SEARCH"
}

// DuckDuckGo scrapes the HTML results page for a query and returns a
// compact, capped summary. Returns "" when nothing usable came back.
func (s *Searcher) DuckDuckGo(ctx context.Context, query string) string {
	searchURL := "https://duckduckgo.com/html/?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Warn("web search failed", "err", err)
		return ""
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}
	return parseResults(doc)
}

// parseResults extracts up to five title/snippet pairs from a DuckDuckGo
// HTML results page. The selectors are conservative; the page structure is
// not a stable API.
func parseResults(doc *goquery.Document) string {
	var results []string
	doc.Find(".result__body").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= 5 {
			return false
		}
		title := strings.TrimSpace(s.Find(".result__a").Text())
		snippet := strings.TrimSpace(s.Find(".result__snippet").Text())
		if title == "" && snippet == "" {
			return true
		}
		results = append(results, fmt.Sprintf("- %s: %s", title, snippet))
		return true
	})

	if len(results) == 0 {
		return ""
	}
	out := strings.Join(results, "\n")
	if len(out) > maxResultBytes {
		out = out[:maxResultBytes] + "..."
	}
	return out
}
