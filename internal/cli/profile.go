// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// profile.go - Profile command handler for the saldo CLI.
//
// Commands:
//   saldo profile              Show the current profile
//   saldo profile set <name>   Set the display name
//   saldo profile clear        Log out
package cli

import (
	"fmt"
	"strings"

	"github.com/morganforge/saldo-tui/internal/storage"
	"github.com/morganforge/saldo-tui/internal/user"
)

// HandleProfile handles the profile command.
func HandleProfile(args Args) error {
	dataDir, err := resolveDataDir(args)
	if err != nil {
		return err
	}
	store, err := storage.NewFileStoreWithDir(dataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	users := user.NewManager(store)

	switch args.Subcommand {
	case "", "show":
		profile, ok := users.Get()
		if !ok {
			fmt.Println("No profile set. Run 'saldo profile set <name>' or start the TUI.")
			return nil
		}
		fmt.Printf("  Name:    %s\n", profile.Name)
		fmt.Printf("  Created: %s\n", profile.CreatedAt.Format("2006-01-02"))
		return nil

	case "set":
		name := strings.TrimSpace(strings.Join(args.Raw, " "))
		if name == "" {
			return fmt.Errorf("profile set: missing name")
		}
		profile := users.Set(name)
		fmt.Printf("Hello, %s!\n", profile.Name)
		return nil

	case "clear", "logout":
		users.Clear()
		fmt.Println("Profile cleared.")
		return nil

	default:
		return fmt.Errorf("profile: unknown subcommand %q", args.Subcommand)
	}
}
