// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// RELAY CLIENT
// =============================================================================

// streamReadBufferSize is the chunk size for reading the response body.
// 4KB keeps per-read overhead low while still yielding frequent deltas.
const streamReadBufferSize = 4096

// sharedClient is reused across requests for connection pooling.
//
// RELIABILITY: no overall timeout. A chat stream legitimately runs for
// minutes; cancellation is the caller's job via context. Dial and header
// timeouts still bound a dead relay.
var sharedClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
	},
}

// Client talks to the saldo relay server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a relay client for the given base URL
// (e.g. "http://localhost:8790").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: sharedClient,
	}
}

// chatRequest is the POST body for both relay endpoints.
type chatRequest struct {
	Messages []Message `json:"messages"`
}

// Stream sends the conversation to the relay and consumes the plain-text
// response stream. onDelta receives display text with status markers already
// stripped; onStatus receives phase transitions, including the implicit
// switch to Streaming on the first visible text when no marker announced it.
// Both callbacks run on the calling goroutine and may be nil.
func (c *Client) Stream(ctx context.Context, messages []Message, onDelta func(string), onStatus func(Status)) error {
	body, err := json.Marshal(chatRequest{Messages: messages})
	if err != nil {
		return fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &RelayError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	streaming := false
	filter := NewSentinelFilter(func(s Status) {
		if s == StatusStreaming {
			streaming = true
		}
		if onStatus != nil {
			onStatus(s)
		}
	})
	deliver := func(text string) {
		if text == "" {
			return
		}
		if !streaming {
			// No marker announced streaming; visible text implies it.
			streaming = true
			if onStatus != nil {
				onStatus(StatusStreaming)
			}
		}
		if onDelta != nil {
			onDelta(text)
		}
	}

	buf := make([]byte, streamReadBufferSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			deliver(filter.Write(string(buf[:n])))
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				deliver(filter.Flush())
				return nil
			}
			return fmt.Errorf("reading chat stream: %w", readErr)
		}
	}
}

// titleResponse is the generate-title endpoint's response body.
type titleResponse struct {
	Title string `json:"title"`
}

// GenerateTitle asks the relay to summarize the conversation into a short
// session title.
func (c *Client) GenerateTitle(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(chatRequest{Messages: messages})
	if err != nil {
		return "", fmt.Errorf("encoding title request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate-title", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building title request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending title request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &RelayError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var tr titleResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decoding title response: %w", err)
	}
	title := strings.TrimSpace(tr.Title)
	if title == "" {
		return "", errors.New("relay returned an empty title")
	}
	return title, nil
}
