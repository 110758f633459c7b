// saldo - A terminal assistant for Swedish taxes and accounting.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/saldo-tui/internal/chat"
	"github.com/morganforge/saldo-tui/internal/cli"
	"github.com/morganforge/saldo-tui/internal/config"
	"github.com/morganforge/saldo-tui/internal/document"
	"github.com/morganforge/saldo-tui/internal/relay"
	"github.com/morganforge/saldo-tui/internal/session"
	"github.com/morganforge/saldo-tui/internal/storage"
	"github.com/morganforge/saldo-tui/internal/ui"
	"github.com/morganforge/saldo-tui/internal/user"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		exitOnError(cli.HandleAsk(args))
	case cli.CmdChat:
		exitOnError(cli.HandleChat(args))
	case cli.CmdSessions:
		exitOnError(cli.HandleSessions(args))
	case cli.CmdDocs:
		exitOnError(cli.HandleDocs(args))
	case cli.CmdProfile:
		exitOnError(cli.HandleProfile(args))
	case cli.CmdServe:
		exitOnError(cli.HandleServe(args))
	case cli.CmdCalc:
		exitOnError(cli.HandleCalc(args))
	case cli.CmdDeadlines:
		exitOnError(cli.HandleDeadlines(args))
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}
}

// runTUI wires the persistent managers and the send pipeline into the
// Bubble Tea program.
func runTUI(args cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load config: %v\n", err)
		os.Exit(1)
	}
	if args.Relay != "" {
		cfg.Relay.URL = args.Relay
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: resolve data dir: %v\n", err)
		os.Exit(1)
	}
	store, err := storage.NewFileStoreWithDir(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open store: %v\n", err)
		os.Exit(1)
	}

	users := user.NewManager(store)
	sessions := session.NewManager(store)
	docs := document.NewManager(store)
	sender := chat.NewSender(relay.NewClient(cfg.Relay.URL), sessions, docs)

	model := ui.New(cfg, users, sessions, docs, sender)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
