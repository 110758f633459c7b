// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for saldo.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdSessions
	CmdDocs
	CmdProfile
	CmdServe
	CmdCalc
	CmdDeadlines
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Relay   string // Relay URL override

	// Command-specific
	Query      string
	File       string
	Subcommand string
	Category   string

	// Raw args (remaining after flag parsing)
	Raw []string

	// Options holds command-specific named options (e.g., --rate, --limit)
	Options map[string]string
}

const usageText = `saldo - AI assistant for Swedish taxes and accounting

Saldo answers questions about Swedish VAT, employer contributions,
deadlines and bookkeeping, with your own documents as context.

Usage:
  saldo                        Start TUI (default)
  saldo ask "question"         Ask a single question
  saldo chat                   Interactive chat
  saldo sessions [subcommand]  Session management
  saldo docs [subcommand]      Document library management
  saldo profile [subcommand]   Profile management
  saldo serve                  Run the relay server
  saldo calc [subcommand]      Tax calculators
  saldo deadlines [category]   Upcoming Skatteverket deadlines
  saldo version                Show version
  saldo help                   Show this help

Session Commands:
  saldo sessions list              List all saved sessions
  saldo sessions show <id>         Show a session transcript
  saldo sessions rename <id> <t>   Rename a session
  saldo sessions delete <id>       Delete a session

Document Commands:
  saldo docs add <file>            Add a document to the library
  saldo docs list                  List documents
  saldo docs delete <id>           Remove a document
  saldo docs search "query"        Full-text search the library
    --limit N                      Max results (default: 20)
  saldo docs watch                 Auto-import files dropped in the inbox
    --inbox DIR                    Inbox directory (default: <data>/inbox)

Profile Commands:
  saldo profile                    Show the current profile
  saldo profile set <name>         Set the display name
  saldo profile clear              Log out (the TUI asks for a name again)

Calculator Commands:
  saldo calc vat <amount>          Add VAT to a net amount
    --rate 25|12|6                 VAT rate (default: 25)
    --extract                      Treat amount as gross, extract VAT
  saldo calc employer <salary>     Employer cost for a gross salary
  saldo calc salary <gross>        Net salary estimate
    --tax RATE                     Municipal tax percent (default: 30)

Serve Flags:
  --port N                         Listen port (default: 8790)

Global Flags:
  --relay URL      Relay server URL (overrides config)
  --json           Output in JSON format
  -q, --quiet      Minimal output
  -v, --verbose    Verbose output

Environment:
  GEMINI_API_KEY     Required by 'saldo serve'
  OPENAI_API_KEY     Optional, enables AI chat titles
  SALDO_RELAY_URL    Relay URL for the TUI and CLI
  SALDO_DATA_DIR     Data directory (default: ~/.saldo)

saldo %s
`

// PrintUsage prints the help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("saldo version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return parse(os.Args[1:])
}

// parse is the testable core of Parse.
func parse(args []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(args)

	// If no remaining args, default to TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		return CmdChat, parsedArgs

	case "session", "sessions":
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
			parsedArgs.Raw = remaining[1:]
		}
		return CmdSessions, parsedArgs

	case "doc", "docs":
		parseDocsArgs(&parsedArgs, remaining)
		return CmdDocs, parsedArgs

	case "profile":
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
			parsedArgs.Raw = remaining[1:]
		}
		return CmdProfile, parsedArgs

	case "serve", "server":
		parseOptions(&parsedArgs, remaining)
		return CmdServe, parsedArgs

	case "calc", "calculate":
		parseCalcArgs(&parsedArgs, remaining)
		return CmdCalc, parsedArgs

	case "deadline", "deadlines":
		if len(remaining) > 0 {
			parsedArgs.Category = remaining[0]
		}
		return CmdDeadlines, parsedArgs

	case "version", "--version", "-V":
		return CmdVersion, parsedArgs

	case "help", "--help", "-h":
		return CmdHelp, parsedArgs

	default:
		// Unknown word: treat the whole remainder as an ask query.
		parsedArgs.Query = strings.Join(append([]string{cmd}, remaining...), " ")
		return CmdAsk, parsedArgs
	}
}

// parseGlobalFlags strips global flags and returns the remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	parsedArgs := Args{
		Options: make(map[string]string),
	}

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--relay":
			if i+1 < len(args) {
				i++
				parsedArgs.Relay = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--relay=") {
				parsedArgs.Relay = strings.TrimPrefix(arg, "--relay=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) {
	var query []string

	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "-f", "--file":
			if i+1 < len(remaining) {
				i++
				args.File = remaining[i]
			}
		default:
			if strings.HasPrefix(arg, "--file=") {
				args.File = strings.TrimPrefix(arg, "--file=")
			} else {
				query = append(query, arg)
			}
		}
		i++
	}

	args.Query = strings.Join(query, " ")
}

// parseDocsArgs parses docs command specific arguments.
func parseDocsArgs(args *Args, remaining []string) {
	if len(remaining) == 0 {
		args.Subcommand = "list"
		return
	}
	args.Subcommand = remaining[0]
	rest := remaining[1:]

	var positional []string
	i := 0
	for i < len(rest) {
		arg := rest[i]
		if strings.HasPrefix(arg, "--") {
			key := strings.TrimPrefix(arg, "--")
			if eq := strings.IndexByte(key, '='); eq >= 0 {
				args.Options[key[:eq]] = key[eq+1:]
			} else if i+1 < len(rest) {
				i++
				args.Options[key] = rest[i]
			} else {
				args.Options[key] = "true"
			}
		} else {
			positional = append(positional, arg)
		}
		i++
	}
	args.Raw = positional
	if args.Subcommand == "search" {
		args.Query = strings.Join(positional, " ")
	} else if len(positional) > 0 {
		args.File = positional[0]
	}
}

// parseCalcArgs parses calc command specific arguments.
func parseCalcArgs(args *Args, remaining []string) {
	if len(remaining) == 0 {
		return
	}
	args.Subcommand = remaining[0]
	parseOptions(args, remaining[1:])
}

// parseOptions collects --key value / --key=value pairs into Options and
// leaves positional arguments in Raw.
func parseOptions(args *Args, remaining []string) {
	var positional []string
	i := 0
	for i < len(remaining) {
		arg := remaining[i]
		if strings.HasPrefix(arg, "--") {
			key := strings.TrimPrefix(arg, "--")
			if eq := strings.IndexByte(key, '='); eq >= 0 {
				args.Options[key[:eq]] = key[eq+1:]
			} else if i+1 < len(remaining) && !strings.HasPrefix(remaining[i+1], "--") {
				i++
				args.Options[key] = remaining[i]
			} else {
				args.Options[key] = "true"
			}
		} else {
			positional = append(positional, arg)
		}
		i++
	}
	args.Raw = positional
}
