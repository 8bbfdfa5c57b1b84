// Package service provides the business logic layer for note sync,
// sharing, and library management.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/frontmatter"
	"github.com/inkwellapp/inkwell-server/internal/search"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// NoteIndexer receives note changes for full-text indexing. Implemented
// by search.Index; a noop implementation is used when search is disabled.
type NoteIndexer interface {
	IndexNote(doc *search.NoteDocument) error
	IndexNotes(docs []*search.NoteDocument) error
	DeleteNote(ownerID, noteID string) error
}

// NoopIndexer discards all indexing requests.
type NoopIndexer struct{}

func (NoopIndexer) IndexNote(*search.NoteDocument) error    { return nil }
func (NoopIndexer) IndexNotes([]*search.NoteDocument) error { return nil }
func (NoopIndexer) DeleteNote(string, string) error         { return nil }

// NoteInput is one note as submitted by a sync client.
type NoteInput struct {
	ID           string `json:"id"`
	Markdown     string `json:"markdown"`
	SourceName   string `json:"source_name,omitempty"`
	LastModified int64  `json:"last_modified,omitempty"` // epoch millis; <=0 means "stamp with now"
}

// UpsertResult reports the outcome for one submitted note.
type UpsertResult struct {
	ID           string `json:"id"`
	Applied      bool   `json:"applied"`
	LastModified int64  `json:"last_modified"`
}

// SyncService applies client sync payloads: last-writer-wins note merges
// and wholesale visibility term replacement.
type SyncService struct {
	store   store.Store
	indexer NoteIndexer
	logger  *slog.Logger
}

// NewSyncService creates a new sync service. A nil indexer disables
// search indexing.
func NewSyncService(st store.Store, indexer NoteIndexer, logger *slog.Logger) *SyncService {
	if indexer == nil {
		indexer = NoopIndexer{}
	}
	return &SyncService{
		store:   st,
		indexer: indexer,
		logger:  logger,
	}
}

// Upsert merges the submitted notes into the owner's library, one
// conditional write per note. A note is applied only when its timestamp
// is at least the stored one; ties favor the incoming write, so syncing
// the same payload twice converges. Superseded notes are dropped
// silently and reported as not applied.
//
// There is no cross-note transaction: a failure partway through leaves
// earlier notes applied.
func (s *SyncService) Upsert(ctx context.Context, ownerID string, notes []NoteInput) ([]UpsertResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]UpsertResult, 0, len(notes))
	for _, in := range notes {
		ts := domain.EffectiveTimestamp(in.LastModified)
		row := &store.NoteRow{
			OwnerID:      ownerID,
			ID:           in.ID,
			Markdown:     in.Markdown,
			SourceName:   in.SourceName,
			LastModified: ts,
		}

		applied, err := s.store.ConditionalUpsertNote(ctx, row)
		if err != nil {
			return results, fmt.Errorf("upsert note %s: %w", in.ID, err)
		}

		if applied {
			s.indexRow(row)
		} else {
			s.logger.Debug("stale note ignored",
				"owner_id", ownerID,
				"note_id", in.ID,
				"last_modified", ts,
			)
		}

		results = append(results, UpsertResult{ID: in.ID, Applied: applied, LastModified: ts})
	}

	s.logger.Info("sync applied",
		"owner_id", ownerID,
		"submitted", len(notes),
		"applied", countApplied(results),
	)

	return results, nil
}

// ReplaceVisibilityTerms replaces the owner's entire term set. A nil map
// leaves existing terms untouched (the client omitted the section); an
// empty non-nil map clears everything. Emails are normalized and
// entries without an "@" are dropped.
func (s *SyncService) ReplaceVisibilityTerms(ctx context.Context, ownerID string, terms map[string][]string) error {
	if terms == nil {
		return nil
	}

	normalized := make(map[string][]string, len(terms))
	for term, emails := range terms {
		normalized[term] = domain.NormalizeEmails(emails)
	}

	if err := s.store.ReplaceVisibilityTerms(ctx, ownerID, normalized); err != nil {
		return fmt.Errorf("replace visibility terms: %w", err)
	}

	s.logger.Info("visibility terms replaced",
		"owner_id", ownerID,
		"terms", len(normalized),
	)
	return nil
}

// indexRow parses the stored row and hands it to the indexer. Indexing
// is best effort; failures are logged and never fail the sync.
func (s *SyncService) indexRow(row *store.NoteRow) {
	note := frontmatter.ParseNote(row.Markdown, frontmatter.NoteOptions{
		ID:         row.ID,
		SourceName: row.SourceName,
	})
	note.OwnerID = row.OwnerID
	note.LastModified = row.LastModified

	if err := s.indexer.IndexNote(search.NoteToDocument(note)); err != nil {
		s.logger.Warn("failed to index note",
			"owner_id", row.OwnerID,
			"note_id", row.ID,
			"error", err,
		)
	}
}

func countApplied(results []UpsertResult) int {
	n := 0
	for _, r := range results {
		if r.Applied {
			n++
		}
	}
	return n
}
