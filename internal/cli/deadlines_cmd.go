// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// deadlines_cmd.go - Skatteverket deadline listing for the saldo CLI.
//
// Commands:
//   saldo deadlines             List all deadlines
//   saldo deadlines moms        Filter by category
package cli

import (
	"fmt"
	"time"

	"github.com/morganforge/saldo-tui/internal/calc"
)

// HandleDeadlines handles the deadlines command.
func HandleDeadlines(args Args) error {
	deadlines := calc.FilterDeadlines(calc.Deadlines2025, args.Category)
	if len(deadlines) == 0 {
		return fmt.Errorf("deadlines: no deadlines in category %q", args.Category)
	}

	if args.JSON {
		return printJSON(deadlines)
	}

	now := time.Now()
	for _, d := range deadlines {
		marker := " "
		switch d.Status(now) {
		case calc.StatusPassed:
			marker = "✓"
		case calc.StatusUrgent:
			marker = "!"
		case calc.StatusUpcoming:
			marker = "•"
		}
		fmt.Printf("  %s %s  %-40s", marker, d.Date.Format("2006-01-02"), d.Title)
		if days := d.DaysUntil(now); days >= 0 {
			fmt.Printf("  in %d days", days)
		}
		fmt.Println()
		if args.Verbose && d.Description != "" {
			fmt.Printf("      %s\n", d.Description)
		}
	}
	return nil
}
