package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	apperrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/frontmatter"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/search"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// htmlTagPattern matches common HTML tags to detect if clipped content
// is HTML rather than already-markdown text.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote)[\s>/]`)

// NoteService manages an owner's note library: listing, retrieval,
// creation, and deletion.
type NoteService struct {
	store   store.Store
	indexer NoteIndexer
	logger  *slog.Logger
}

// NewNoteService creates a new note service. A nil indexer disables
// search indexing.
func NewNoteService(st store.Store, indexer NoteIndexer, logger *slog.Logger) *NoteService {
	if indexer == nil {
		indexer = NoopIndexer{}
	}
	return &NoteService{
		store:   st,
		indexer: indexer,
		logger:  logger,
	}
}

// List returns the owner's notes, newest first, parsed into domain form.
func (s *NoteService) List(ctx context.Context, ownerID string) ([]*domain.Note, error) {
	rows, err := s.store.ListNotesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	notes := make([]*domain.Note, 0, len(rows))
	for _, row := range rows {
		notes = append(notes, rowToNote(row))
	}
	return notes, nil
}

// Get returns a single note, parsed. Returns a NOT_FOUND error when the
// owner has no note with that id.
func (s *NoteService) Get(ctx context.Context, ownerID, noteID string) (*domain.Note, error) {
	row, err := s.store.GetNote(ctx, ownerID, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFoundf("note %s not found", noteID)
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return rowToNote(row), nil
}

// Delete removes a note from the store and the search index.
func (s *NoteService) Delete(ctx context.Context, ownerID, noteID string) error {
	if err := s.store.DeleteNote(ctx, ownerID, noteID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFoundf("note %s not found", noteID)
		}
		return fmt.Errorf("delete note: %w", err)
	}

	if err := s.indexer.DeleteNote(ownerID, noteID); err != nil {
		s.logger.Warn("failed to remove note from index",
			"owner_id", ownerID,
			"note_id", noteID,
			"error", err,
		)
	}

	s.logger.Info("note deleted", "owner_id", ownerID, "note_id", noteID)
	return nil
}

// CreateFromMarkdown stores a new note from raw markdown (frontmatter
// included, if any) under a freshly generated id.
func (s *NoteService) CreateFromMarkdown(ctx context.Context, ownerID, markdown, sourceName string) (*domain.Note, error) {
	if strings.TrimSpace(markdown) == "" {
		return nil, apperrors.Validation("note content is required")
	}

	noteID, err := id.Generate("note")
	if err != nil {
		return nil, fmt.Errorf("generate note id: %w", err)
	}

	row := &store.NoteRow{
		OwnerID:      ownerID,
		ID:           noteID,
		Markdown:     markdown,
		SourceName:   sourceName,
		LastModified: domain.NowMillis(),
	}

	if _, err := s.store.ConditionalUpsertNote(ctx, row); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	note := rowToNote(row)
	s.indexNote(note)

	s.logger.Info("note created",
		"owner_id", ownerID,
		"note_id", noteID,
		"source", sourceName,
	)
	return note, nil
}

// CreateFromHTML converts clipped HTML to markdown and stores it as a
// new note. Content that doesn't look like HTML is stored as-is, so
// clients can send either format to the same endpoint.
func (s *NoteService) CreateFromHTML(ctx context.Context, ownerID, content, sourceName string) (*domain.Note, error) {
	markdown := content
	if containsHTML(content) {
		converted, err := htmltomarkdown.ConvertString(content)
		if err != nil {
			s.logger.Warn("html conversion failed, storing raw content",
				"owner_id", ownerID,
				"error", err,
			)
		} else {
			markdown = strings.TrimSpace(converted)
		}
	}
	return s.CreateFromMarkdown(ctx, ownerID, markdown, sourceName)
}

// ReindexAll pushes every stored note into the search index in one batch.
// Called at startup when the index is empty but the store is not.
func (s *NoteService) ReindexAll(ctx context.Context) (int, error) {
	rows, err := s.store.ListAllNotes(ctx)
	if err != nil {
		return 0, fmt.Errorf("list notes for reindex: %w", err)
	}

	docs := make([]*search.NoteDocument, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, search.NoteToDocument(rowToNote(row)))
	}

	if err := s.indexer.IndexNotes(docs); err != nil {
		return 0, fmt.Errorf("reindex notes: %w", err)
	}
	return len(docs), nil
}

func (s *NoteService) indexNote(note *domain.Note) {
	if err := s.indexer.IndexNote(search.NoteToDocument(note)); err != nil {
		s.logger.Warn("failed to index note",
			"owner_id", note.OwnerID,
			"note_id", note.ID,
			"error", err,
		)
	}
}

// containsHTML checks if a string appears to contain HTML markup.
func containsHTML(s string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(s))
}

// rowToNote parses a stored row into domain form, restoring the
// persisted provenance over parser defaults.
func rowToNote(row *store.NoteRow) *domain.Note {
	note := frontmatter.ParseNote(row.Markdown, frontmatter.NoteOptions{
		ID:         row.ID,
		SourceName: row.SourceName,
	})
	note.OwnerID = row.OwnerID
	note.LastModified = domain.EffectiveTimestamp(row.LastModified)
	return note
}
