// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - Session management command handler for the saldo CLI.
//
// Commands:
//   saldo sessions list
//   saldo sessions show <id>
//   saldo sessions rename <id> <title>
//   saldo sessions delete <id>
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/morganforge/saldo-tui/internal/session"
	"github.com/morganforge/saldo-tui/internal/util"
)

// HandleSessions handles the sessions command.
func HandleSessions(args Args) error {
	sessions, _, err := openManagers(args)
	if err != nil {
		return err
	}

	switch args.Subcommand {
	case "", "list", "ls":
		return listSessions(sessions, args.JSON)

	case "show":
		if len(args.Raw) == 0 {
			return fmt.Errorf("sessions show: missing session id")
		}
		return showSession(sessions, args.Raw[0])

	case "rename":
		if len(args.Raw) < 2 {
			return fmt.Errorf("sessions rename: usage: saldo sessions rename <id> <title>")
		}
		id := args.Raw[0]
		title := strings.Join(args.Raw[1:], " ")
		if err := sessions.RenameSession(id, title); err != nil {
			return fmt.Errorf("sessions rename: %w", err)
		}
		fmt.Printf("Renamed %s to %q\n", id, title)
		return nil

	case "delete", "rm":
		if len(args.Raw) == 0 {
			return fmt.Errorf("sessions delete: missing session id")
		}
		id := args.Raw[0]
		if _, ok := sessions.Session(id); !ok {
			return fmt.Errorf("sessions delete: no session %q", id)
		}
		sessions.DeleteSession(id)
		fmt.Printf("Deleted %s\n", id)
		return nil

	default:
		return fmt.Errorf("sessions: unknown subcommand %q", args.Subcommand)
	}
}

func listSessions(sessions *session.Manager, asJSON bool) error {
	list := sessions.Sessions()

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	if len(list) == 0 {
		fmt.Println("No sessions yet.")
		return nil
	}
	for _, s := range list {
		fmt.Printf("  %s  %-40s  %d messages  %s\n",
			s.ID,
			util.TruncateRunes(s.Title, 40),
			len(s.Messages),
			s.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func showSession(sessions *session.Manager, id string) error {
	sess, ok := sessions.Session(id)
	if !ok {
		return fmt.Errorf("sessions show: no session %q", id)
	}

	fmt.Printf("%s (%s)\n\n", sess.Title, sess.ID)
	for _, msg := range sess.Messages {
		label := "you"
		if msg.Role == session.RoleModel {
			label = "saldo"
		}
		fmt.Printf("%s> %s\n\n", label, msg.Text)
	}
	return nil
}
