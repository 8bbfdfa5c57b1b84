// Package main provides a read-only inspection tool for the Inkwell database.
//
// Usage:
//
//	DATA_PATH=~/Inkwell/data go run ./cmd/dbinspect
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/inkwellapp/inkwell-server/internal/frontmatter"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Inkwell/data")
	}
	dbPath := filepath.Join(dataPath, "inkwell.db")

	db, err := sqlite.Open(dbPath, slog.New(slog.DiscardHandler))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	rows, err := db.ListAllNotes(ctx)
	if err != nil {
		log.Fatalf("Failed to list notes: %v", err)
	}

	byOwner := make(map[string][]*store.NoteRow)
	var owners []string
	for _, row := range rows {
		if _, seen := byOwner[row.OwnerID]; !seen {
			owners = append(owners, row.OwnerID)
		}
		byOwner[row.OwnerID] = append(byOwner[row.OwnerID], row)
	}

	sharedNotes := 0
	for _, owner := range owners {
		ownerRows := byOwner[owner]
		fmt.Printf("Owner: %s (%d notes)\n", owner, len(ownerRows))

		terms, err := db.ListVisibilityTerms(ctx, owner)
		if err != nil {
			log.Fatalf("Failed to list visibility terms for %s: %v", owner, err)
		}
		for _, term := range terms {
			fmt.Printf("  term %q -> %d emails\n", term.Term, len(term.Emails))
		}

		for _, row := range ownerRows {
			note := frontmatter.ParseNote(row.Markdown, frontmatter.NoteOptions{
				ID:         row.ID,
				SourceName: row.SourceName,
			})
			marker := " "
			if len(note.Metadata.Visibility) > 0 {
				marker = "*"
				sharedNotes++
			}
			fmt.Printf("  %s %-30s last_modified=%d source=%s\n",
				marker, row.ID, row.LastModified, row.SourceName)
		}
		fmt.Println()
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Owners:       %d\n", len(owners))
	fmt.Printf("Notes:        %d\n", len(rows))
	fmt.Printf("Shared notes: %d (marked *)\n", sharedNotes)
}
