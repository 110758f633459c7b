// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// docs.go - Document library command handler for the saldo CLI.
//
// Commands:
//   saldo docs add <file>
//   saldo docs list
//   saldo docs delete <id>
//   saldo docs search "query" [--limit N]
//   saldo docs watch [--inbox DIR]
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/morganforge/saldo-tui/internal/document"
	"github.com/morganforge/saldo-tui/internal/index"
	"github.com/morganforge/saldo-tui/internal/util"
)

// HandleDocs handles the docs command.
func HandleDocs(args Args) error {
	dataDir, err := resolveDataDir(args)
	if err != nil {
		return err
	}
	_, docs, err := openManagers(args)
	if err != nil {
		return err
	}

	switch args.Subcommand {
	case "", "list", "ls":
		return listDocs(docs, args.JSON)

	case "add":
		if args.File == "" {
			return fmt.Errorf("docs add: missing file path")
		}
		return addDoc(docs, dataDir, args.File)

	case "delete", "rm":
		if len(args.Raw) == 0 {
			return fmt.Errorf("docs delete: missing document id")
		}
		return deleteDoc(docs, dataDir, args.Raw[0])

	case "watch":
		return watchDocs(docs, dataDir, args)

	case "search":
		if args.Query == "" {
			return fmt.Errorf("docs search: missing query")
		}
		limit := index.DefaultMaxResults
		if raw, ok := args.Options["limit"]; ok {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				limit = n
			}
		}
		return searchDocs(docs, dataDir, args.Query, limit, args.JSON)

	default:
		return fmt.Errorf("docs: unknown subcommand %q", args.Subcommand)
	}
}

func listDocs(docs *document.Manager, asJSON bool) error {
	list := docs.Documents()

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	if len(list) == 0 {
		fmt.Println("No documents in the library.")
		return nil
	}
	for _, d := range list {
		fmt.Printf("  %s  %-40s  %-12s  %s\n",
			d.ID,
			util.TruncateRunes(d.Name, 40),
			util.FormatBytes(d.Size),
			d.UploadedAt.Format("2006-01-02"))
	}
	return nil
}

func addDoc(docs *document.Manager, dataDir, path string) error {
	doc, err := docs.AddFromFile(path)
	if err != nil {
		return fmt.Errorf("docs add: %w", err)
	}

	idx, err := openIndex(docs, dataDir)
	if err != nil {
		return err
	}
	defer idx.Close()
	if err := idx.Add(doc); err != nil {
		return fmt.Errorf("docs add: index: %w", err)
	}

	fmt.Printf("Added %s (%s, %s)\n", doc.Name, doc.Type, util.FormatBytes(doc.Size))
	return nil
}

func deleteDoc(docs *document.Manager, dataDir, id string) error {
	if _, ok := docs.Document(id); !ok {
		return fmt.Errorf("docs delete: no document %q", id)
	}
	docs.Delete(id)

	idx, err := openIndex(docs, dataDir)
	if err != nil {
		return err
	}
	defer idx.Close()
	if err := idx.Remove(id); err != nil {
		return fmt.Errorf("docs delete: index: %w", err)
	}

	fmt.Printf("Deleted %s\n", id)
	return nil
}

func searchDocs(docs *document.Manager, dataDir, query string, limit int, asJSON bool) error {
	idx, err := openIndex(docs, dataDir)
	if err != nil {
		return err
	}
	defer idx.Close()

	results, err := idx.Search(query, limit)
	if err != nil {
		return fmt.Errorf("docs search: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for _, r := range results {
		fmt.Printf("  %s  %s\n", r.ID, r.Name)
		if r.Snippet != "" {
			fmt.Printf("      %s\n", r.Snippet)
		}
	}
	return nil
}

// watchInboxDebounce is how long a dropped file must stop changing before
// it is imported.
const watchInboxDebounce = 500 * time.Millisecond

// watchDocs runs the inbox watcher until interrupted: files dropped into
// the inbox directory are imported into the library and the search index.
func watchDocs(docs *document.Manager, dataDir string, args Args) error {
	inbox := filepath.Join(dataDir, "inbox")
	if dir, ok := args.Options["inbox"]; ok {
		inbox = dir
	}

	idx, err := openIndex(docs, dataDir)
	if err != nil {
		return err
	}
	defer idx.Close()

	watcher, err := document.NewInboxWatcher(docs, inbox, watchInboxDebounce)
	if err != nil {
		return fmt.Errorf("docs watch: %w", err)
	}
	defer watcher.Close()

	watcher.OnImport = func(doc document.UserDocument) {
		if err := idx.Add(doc); err != nil {
			fmt.Fprintf(os.Stderr, "index %s: %v\n", doc.Name, err)
		}
		fmt.Printf("Imported %s (%s, %s)\n", doc.Name, doc.Type, util.FormatBytes(doc.Size))
	}

	if err := watcher.Watch(); err != nil {
		return fmt.Errorf("docs watch: %w", err)
	}
	fmt.Printf("Watching %s — drop files there to import them. Ctrl+C to stop.\n", inbox)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	fmt.Println()
	return nil
}

// openIndex opens the document index and brings it in sync with the
// library when the two have drifted apart.
func openIndex(docs *document.Manager, dataDir string) (*index.DocumentIndex, error) {
	idx, err := index.Open(indexPath(dataDir))
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	list := docs.Documents()
	count, err := idx.Count()
	if err == nil && count != len(list) {
		if err := idx.Rebuild(list); err != nil {
			idx.Close()
			return nil, fmt.Errorf("rebuild index: %w", err)
		}
	}
	return idx, nil
}
