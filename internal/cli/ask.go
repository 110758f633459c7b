// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single query command handler for the saldo CLI.
//
// Handles the "saldo ask" command which sends one question through the
// relay and streams the answer to stdout.
//
// Command: ask [question]
//
// Examples:
//   saldo ask "When is the VAT deadline for Q1?"
//   saldo ask --file invoice.txt "Is this invoice deductible?"
//   saldo ask --json "What is the reduced VAT rate?"
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/morganforge/saldo-tui/internal/config"
	"github.com/morganforge/saldo-tui/internal/relay"
)

// askTimeout bounds a single one-shot question.
const askTimeout = 2 * time.Minute

// HandleAsk handles the ask command.
func HandleAsk(args Args) error {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return fmt.Errorf("ask: no question given (try: saldo ask \"question\")")
	}

	if args.File != "" {
		content, err := os.ReadFile(args.File)
		if err != nil {
			return fmt.Errorf("ask: read %s: %w", args.File, err)
		}
		query = fmt.Sprintf("%s\n\n--- %s ---\n%s", query, args.File, content)
	}

	client, err := relayClient(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	messages := []relay.Message{
		relay.TextMessage(uuid.NewString(), "user", query),
	}

	var answer strings.Builder
	streamErr := client.Stream(ctx, messages,
		func(delta string) {
			answer.WriteString(delta)
			if !args.JSON {
				fmt.Print(delta)
			}
		},
		func(status relay.Status) {
			if args.Verbose && !args.JSON {
				fmt.Fprintf(os.Stderr, "[%s]\n", status)
			}
		})
	if streamErr != nil {
		return fmt.Errorf("ask: %w", streamErr)
	}

	if args.JSON {
		out := struct {
			Question string `json:"question"`
			Answer   string `json:"answer"`
		}{Question: args.Query, Answer: answer.String()}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println()
	return nil
}

// relayClient builds a relay client from the config, honouring the
// --relay override.
func relayClient(args Args) (*relay.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	url := cfg.Relay.URL
	if args.Relay != "" {
		url = args.Relay
	}
	return relay.NewClient(url), nil
}
