// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the saldo CLI.
//
// Handles the "saldo chat" command which provides a readline REPL over
// the same send pipeline the TUI uses. Exchanges are persisted to the
// session store, so chats started here show up in the TUI sidebar.
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /new, /n            Start a new session
//   /history            Show the current session transcript
//   /docs               List documents in the library
//   /quit, /q           Exit chat
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/morganforge/saldo-tui/internal/chat"
	"github.com/morganforge/saldo-tui/internal/config"
	"github.com/morganforge/saldo-tui/internal/document"
	"github.com/morganforge/saldo-tui/internal/relay"
	"github.com/morganforge/saldo-tui/internal/session"
	"github.com/morganforge/saldo-tui/internal/storage"
)

const historyFile = "cli_history"

// HandleChat handles the chat command.
func HandleChat(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	store, err := storage.NewFileStoreWithDir(dataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	sessions := session.NewManager(store)
	docs := document.NewManager(store)

	url := cfg.Relay.URL
	if args.Relay != "" {
		url = args.Relay
	}
	sender := chat.NewSender(relay.NewClient(url), sessions, docs)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := filepath.Join(dataDir, historyFile)
	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	if !args.Quiet {
		fmt.Println("saldo chat - Swedish tax and accounting assistant")
		fmt.Println("Type /help for commands, /quit to exit.")
		fmt.Println()
	}

	active := sessions.CreateSession().ID

	for {
		input, err := line.Prompt("you> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			quit, newID := handleChatCommand(input, sessions, docs, active)
			if quit {
				return nil
			}
			if newID != "" {
				active = newID
			}
			continue
		}

		fmt.Println()
		sendErr := sender.Send(context.Background(), active, input, nil, chat.Events{
			OnStatus: func(s relay.Status) {
				if args.Verbose {
					fmt.Fprintf(os.Stderr, "[%s]\n", s)
				}
			},
			OnDelta:  func(delta string) { fmt.Print(delta) },
			OnNotice: func(err error) { fmt.Fprintln(os.Stderr, err) },
		})
		fmt.Println()
		fmt.Println()
		if sendErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", sendErr)
		}
	}
}

// handleChatCommand processes slash commands. Returns quit=true to exit
// and a non-empty newID when the active session changed.
func handleChatCommand(input string, sessions *session.Manager, docs *document.Manager, active string) (quit bool, newID string) {
	switch strings.Fields(input)[0] {
	case "/quit", "/q", "/exit":
		return true, ""

	case "/help", "/h":
		fmt.Println("Commands:")
		fmt.Println("  /new, /n     Start a new session")
		fmt.Println("  /history     Show the current transcript")
		fmt.Println("  /docs        List documents in the library")
		fmt.Println("  /quit, /q    Exit")

	case "/new", "/n":
		id := sessions.CreateSession().ID
		fmt.Println("Started a new chat.")
		return false, id

	case "/history":
		sess, ok := sessions.Session(active)
		if !ok || len(sess.Messages) == 0 {
			fmt.Println("No messages yet.")
			break
		}
		for _, msg := range sess.Messages {
			label := "you"
			if msg.Role == session.RoleModel {
				label = "saldo"
			}
			fmt.Printf("%s> %s\n\n", label, msg.Text)
		}

	case "/docs":
		list := docs.Documents()
		if len(list) == 0 {
			fmt.Println("No documents in the library.")
			break
		}
		for _, d := range list {
			fmt.Printf("  %s  %s\n", d.ID, d.Name)
		}

	default:
		fmt.Println("Unknown command. Type /help.")
	}
	return false, ""
}
