// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package relay

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

// =============================================================================
// RELAY CLIENT TESTS
// =============================================================================

func TestStreamDeliversFilteredText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		flusher := w.(http.Flusher)
		w.Write([]byte("[STATUS:SEARCHING]\n"))
		flusher.Flush()
		w.Write([]byte("[STATUS:STREAMING]\nMomsen är "))
		flusher.Flush()
		w.Write([]byte("25 %."))
	}))
	defer srv.Close()

	var got string
	var statuses []Status
	c := NewClient(srv.URL)
	err := c.Stream(context.Background(),
		[]Message{TextMessage("m1", "user", "Vad är momsen?")},
		func(delta string) { got += delta },
		func(s Status) { statuses = append(statuses, s) })
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	if got != "Momsen är 25 %." {
		t.Errorf("text = %q", got)
	}
	want := []Status{StatusSearching, StatusStreaming}
	if !reflect.DeepEqual(statuses, want) {
		t.Errorf("statuses = %v, want %v", statuses, want)
	}
}

func TestStreamImpliesStreamingWithoutMarker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("direkt svar"))
	}))
	defer srv.Close()

	var statuses []Status
	c := NewClient(srv.URL)
	err := c.Stream(context.Background(), nil, nil,
		func(s Status) { statuses = append(statuses, s) })
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	if !reflect.DeepEqual(statuses, []Status{StatusStreaming}) {
		t.Errorf("statuses = %v, want implicit streaming", statuses)
	}
}

func TestStreamNonOKIsRelayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.Stream(context.Background(), nil, nil, nil)

	var relayErr *RelayError
	if !errors.As(err, &relayErr) {
		t.Fatalf("err = %v, want *RelayError", err)
	}
	if relayErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d", relayErr.StatusCode)
	}
}

func TestGenerateTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate-title" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"Momsfråga restaurang"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	title, err := c.GenerateTitle(context.Background(),
		[]Message{TextMessage("m1", "user", "moms på restaurangbesök?")})
	if err != nil {
		t.Fatalf("GenerateTitle: %v", err)
	}
	if title != "Momsfråga restaurang" {
		t.Errorf("title = %q", title)
	}
}

func TestGenerateTitleEmptyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title":"  "}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.GenerateTitle(context.Background(), nil); err == nil {
		t.Error("expected error for blank title")
	}
}
