// Package main provides a tool to seed the database with demo notes.
//
// This creates a couple of demo users with notes and visibility terms so
// the sync, sharing, and search endpoints have data to work against.
//
// Usage:
//
//	DATA_PATH=~/Inkwell/data go run ./cmd/seed
//	DATA_PATH=~/Inkwell/data go run ./cmd/seed --wipe  # Delete existing demo notes first
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

var wipe = flag.Bool("wipe", false, "Delete existing demo notes before seeding")

type demoNote struct {
	id       string
	markdown string
}

type demoUser struct {
	id    string
	email string
	terms map[string][]string
	notes []demoNote
}

var demoUsers = []demoUser{
	{
		id:    "demo-ada",
		email: "ada@example.com",
		terms: map[string][]string{
			"friends": {"grace@example.com"},
			"work":    {"grace@example.com", "alan@example.com"},
		},
		notes: []demoNote{
			{
				id: "demo-ada-engine-notes",
				markdown: `---
visibility: [work]
---
# Analytical Engine Notes

The engine weaves algebraic patterns just as the loom weaves flowers.`,
			},
			{
				id: "demo-ada-reading-list",
				markdown: `---
visibility: [friends]
---
# Reading List

- On Computable Numbers
- Sketch of the Analytical Engine`,
			},
			{
				id:       "demo-ada-private",
				markdown: "# Private Scratchpad\n\nNot shared with anyone.",
			},
		},
	},
	{
		id:    "demo-grace",
		email: "grace@example.com",
		terms: map[string][]string{
			"navy": {"ada@example.com"},
		},
		notes: []demoNote{
			{
				id: "demo-grace-compiler",
				markdown: `---
visibility: [navy]
---
# Compiler Ideas

A ship in port is safe, but that is not what ships are built for.`,
			},
		},
	},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Inkwell/data")
	}
	dbPath := filepath.Join(dataPath, "inkwell.db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	db, err := sqlite.Open(dbPath, slog.New(slog.DiscardHandler))
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if *wipe {
		wipeDemoNotes(ctx, db)
	}

	// Seed through the sync service so the same merge rules apply as for
	// real clients.
	syncSvc := service.NewSyncService(db, nil, slog.New(slog.DiscardHandler))

	now := time.Now().UnixMilli()
	for _, user := range demoUsers {
		fmt.Printf("\nSeeding notes for %s (%s)\n", user.id, user.email)

		inputs := make([]service.NoteInput, 0, len(user.notes))
		for _, n := range user.notes {
			inputs = append(inputs, service.NoteInput{
				ID:           n.id,
				Markdown:     n.markdown,
				SourceName:   "seed",
				LastModified: now,
			})
		}

		results, err := syncSvc.Upsert(ctx, user.id, inputs)
		if err != nil {
			log.Fatalf("Failed to seed notes for %s: %v", user.id, err)
		}
		for _, r := range results {
			fmt.Printf("  %s applied=%v\n", r.ID, r.Applied)
		}

		if err := syncSvc.ReplaceVisibilityTerms(ctx, user.id, user.terms); err != nil {
			log.Fatalf("Failed to seed visibility terms for %s: %v", user.id, err)
		}
		fmt.Printf("  %d visibility terms\n", len(user.terms))
	}

	fmt.Println("\nDone. Try:")
	fmt.Println(`  curl -H "X-Inkwell-User: demo-grace" -H "X-Inkwell-Email: grace@example.com" localhost:8080/api/v1/shared`)
}

func wipeDemoNotes(ctx context.Context, db *sqlite.Store) {
	for _, user := range demoUsers {
		for _, n := range user.notes {
			if err := db.DeleteNote(ctx, user.id, n.id); err != nil && !errors.Is(err, store.ErrNotFound) {
				log.Printf("Failed to delete %s/%s: %v", user.id, n.id, err)
			}
		}
		if err := db.ReplaceVisibilityTerms(ctx, user.id, map[string][]string{}); err != nil {
			log.Printf("Failed to clear terms for %s: %v", user.id, err)
		}
	}
	fmt.Println("Wiped existing demo data")
}
