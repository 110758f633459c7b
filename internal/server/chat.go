// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"

	"github.com/morganforge/saldo-tui/internal/prompt"
	"github.com/morganforge/saldo-tui/internal/relay"
)

// =============================================================================
// CHAT HANDLER
// =============================================================================

// chatRequest is the POST /api/chat body.
type chatRequest struct {
	Messages []relay.Message `json:"messages"`
}

// handleChat streams a model response as chunked plain text. Phase
// transitions (search start, answer start) are written in-band as status
// markers; the client strips them before display.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt64(&s.stats.ChatRequests, 1)
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid chat request", "err", err)
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateMessages(req.Messages); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	contents, err := toGenaiContents(req.Messages)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")

	systemPrompt := prompt.Persona(time.Now())

	// Retrieval phase. Failures fall through to a plain answer; the
	// search step must never take the chat down with it.
	if s.enableSearch {
		if query := lastUserText(req.Messages); query != "" && s.searcher.Decide(r.Context(), query) {
			fmt.Fprint(w, relay.MarkerSearching+"\n")
			flusher.Flush()

			if results := s.searcher.DuckDuckGo(r.Context(), query); results != "" {
				atomic.AddInt64(&s.stats.SearchesRun, 1)
				systemPrompt += "\n\n" + prompt.SearchContext(query, results)
			}
			fmt.Fprint(w, relay.MarkerStreaming+"\n")
			flusher.Flush()
		}
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}

	wrote := false
	for chunk, streamErr := range s.genaiClient.Models.GenerateContentStream(r.Context(), chatModel, contents, cfg) {
		if streamErr != nil {
			log.Error("chat stream failed", "err", streamErr)
			if !wrote {
				atomic.AddInt64(&s.stats.FailedRequests, 1)
				http.Error(w, "failed to generate response", http.StatusInternalServerError)
			}
			// Mid-stream there is nothing to do but stop; the client
			// sees a truncated body.
			return
		}
		if text := chunkText(chunk); text != "" {
			fmt.Fprint(w, text)
			flusher.Flush()
			wrote = true
		}
	}
}

// lastUserText returns the joined text of the newest user message.
func lastUserText(messages []relay.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return strings.TrimSpace(messages[i].JoinedText())
		}
	}
	return ""
}

// chunkText flattens a streamed response chunk to its text.
func chunkText(chunk *genai.GenerateContentResponse) string {
	if chunk == nil || len(chunk.Candidates) == 0 || chunk.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, p := range chunk.Candidates[0].Content.Parts {
		text += p.Text
	}
	return text
}

// toGenaiContents converts wire messages to provider contents. File parts
// arrive as base64 data URLs and become inline blobs.
func toGenaiContents(messages []relay.Message) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		role := genai.RoleUser
		if msg.Role == "assistant" {
			role = genai.RoleModel
		}

		var parts []*genai.Part
		for _, p := range msg.Parts {
			switch p.Type {
			case relay.PartText:
				if p.Text != "" {
					parts = append(parts, &genai.Part{Text: p.Text})
				}
			case relay.PartFile:
				blob, err := decodeDataURL(p.URL, p.MediaType)
				if err != nil {
					return nil, fmt.Errorf("bad file part: %w", err)
				}
				parts = append(parts, &genai.Part{InlineData: blob})
			}
		}
		if len(parts) == 0 {
			continue
		}
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}
	if len(contents) == 0 {
		return nil, fmt.Errorf("no usable message content")
	}
	return contents, nil
}

// decodeDataURL unpacks a "data:<mime>;base64,<payload>" URL.
func decodeDataURL(dataURL, fallbackMIME string) (*genai.Blob, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data url")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("malformed data url")
	}
	mimeType := strings.TrimSuffix(meta, ";base64")
	if mimeType == "" {
		mimeType = fallbackMIME
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding data url payload: %w", err)
	}
	return &genai.Blob{MIMEType: mimeType, Data: data}, nil
}
