// Package store defines the document store contract the rest of the server
// is written against. The core treats persistence as an external
// collaborator: it asks for rows by owner, issues one conditional write per
// note, and leaves transactions and indexing to the implementation.
package store

import (
	"context"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// NoteRow is a persisted note exactly as the store holds it: raw markdown
// plus provenance. Parsing back into a domain.Note happens in the caller.
type NoteRow struct {
	OwnerID      string
	ID           string
	Markdown     string
	SourceName   string
	LastModified int64 // epoch milliseconds, authoritative for conflicts
	UpdatedAt    time.Time
}

// Store is the document store capability set.
//
// ConditionalUpsertNote is the optimistic-concurrency point: the row is
// applied only when row.LastModified >= the stored value (or no row exists),
// and that predicate is evaluated atomically per row. Nothing here locks
// across rows; a batch caller gets per-note atomicity only.
type Store interface {
	// ListNotesByOwner returns the owner's notes ordered by last_modified
	// descending, then updated_at descending.
	ListNotesByOwner(ctx context.Context, ownerID string) ([]*NoteRow, error)

	// ListAllNotes returns every note across all owners ordered by
	// last_modified descending. Used for search index rebuilds.
	ListAllNotes(ctx context.Context) ([]*NoteRow, error)

	// GetNote returns a single note or ErrNotFound.
	GetNote(ctx context.Context, ownerID, id string) (*NoteRow, error)

	// ConditionalUpsertNote applies the row iff its LastModified is >= the
	// stored row's (ties favor the incoming write). Reports whether the row
	// was applied; a superseded write is not an error.
	ConditionalUpsertNote(ctx context.Context, row *NoteRow) (bool, error)

	// DeleteNote removes a note. Returns ErrNotFound when absent.
	DeleteNote(ctx context.Context, ownerID, id string) error

	// ReplaceVisibilityTerms deletes all of the owner's terms and inserts
	// the given set, atomically as observed by subsequent reads. An empty
	// map clears everything.
	ReplaceVisibilityTerms(ctx context.Context, ownerID string, terms map[string][]string) error

	// ListVisibilityTerms returns the owner's terms ordered by term name.
	ListVisibilityTerms(ctx context.Context, ownerID string) ([]*domain.VisibilityTerm, error)

	// ScanCandidatesContaining returns every note, any owner, whose raw
	// markdown contains needle (case-insensitively). This is a coarse
	// pre-filter for shared-note discovery, not a security boundary.
	ScanCandidatesContaining(ctx context.Context, needle string) ([]*NoteRow, error)

	Close() error
}
