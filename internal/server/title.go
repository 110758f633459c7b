// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"

	"github.com/morganforge/saldo-tui/internal/prompt"
	"github.com/morganforge/saldo-tui/internal/session"
)

// =============================================================================
// TITLE HANDLER
// =============================================================================

// titleContextMessages caps how much conversation feeds title generation.
// The opening turns carry the topic; the rest is noise and tokens.
const titleContextMessages = 6

// handleGenerateTitle summarizes a conversation into a 3-5 word title using
// a cheap model.
func (s *Server) handleGenerateTitle(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt64(&s.stats.TitleRequests, 1)
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	if s.openaiClient == nil {
		s.writeError(w, http.StatusServiceUnavailable, "title generation is not configured")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Messages) == 0 {
		s.writeError(w, http.StatusBadRequest, "no messages provided")
		return
	}
	if err := validateMessages(req.Messages); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	context := req.Messages
	if len(context) > titleContextMessages {
		context = context[:titleContextMessages]
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModelGPT4oMini,
		Temperature: openai.Float(0.7),
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(prompt.Title)},
	}
	for _, msg := range context {
		text := msg.JoinedText()
		if text == "" {
			continue
		}
		if msg.Role == "user" {
			params.Messages = append(params.Messages, openai.UserMessage(text))
		} else {
			params.Messages = append(params.Messages, openai.AssistantMessage(text))
		}
	}

	resp, err := s.openaiClient.Chat.Completions.New(r.Context(), params)
	if err != nil {
		log.Error("title generation failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, "failed to generate title")
		return
	}

	title := ""
	if len(resp.Choices) > 0 {
		title = strings.TrimSpace(resp.Choices[0].Message.Content)
	}
	if title == "" {
		title = session.DefaultTitle
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"title": title})
}
