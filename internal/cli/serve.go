// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// serve.go - Relay server command handler for the saldo CLI.
//
// Handles the "saldo serve" command which runs the local relay: the
// HTTP server that holds the provider API keys and streams model
// output to the TUI and CLI clients.
//
// Flags:
//   --port N    Listen port (default: 8790)
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/morganforge/saldo-tui/internal/config"
	"github.com/morganforge/saldo-tui/internal/server"
)

// shutdownGrace is how long in-flight streams get to finish on SIGTERM.
const shutdownGrace = 10 * time.Second

// HandleServe handles the serve command.
func HandleServe(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	srvCfg := server.Config{
		Port:         cfg.Server.Port,
		GeminiAPIKey: cfg.Server.GeminiAPIKey,
		OpenAIAPIKey: cfg.Server.OpenAIAPIKey,
		EnableSearch: cfg.Server.EnableSearch,
	}
	if raw, ok := args.Options["port"]; ok {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("serve: invalid port %q", raw)
		}
		srvCfg.Port = port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, srvCfg)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve: shutdown: %w", err)
	}
	return nil
}
