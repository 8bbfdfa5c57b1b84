package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	apperrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/frontmatter"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// SharingService discovers notes shared with a viewer across all owners.
type SharingService struct {
	store  store.Store
	logger *slog.Logger
}

// NewSharingService creates a new sharing service.
func NewSharingService(st store.Store, logger *slog.Logger) *SharingService {
	return &SharingService{
		store:  st,
		logger: logger,
	}
}

// FindSharedWith returns every note, across all owners, that is visible
// to viewerEmail.
//
// The store's substring scan is only a coarse pre-filter: a candidate
// merely mentions the email somewhere in its raw markdown. Each
// candidate is then parsed and checked with domain.CanView, which is
// the actual access decision. Duplicate note ids keep their first
// occurrence (the store scans newest first); results are ordered newest
// first, ties broken by id.
func (s *SharingService) FindSharedWith(ctx context.Context, viewerEmail string) ([]*domain.Note, error) {
	viewer := domain.NormalizeEmail(viewerEmail)
	if !domain.ValidEmail(viewer) {
		return nil, apperrors.Validation("viewer email is required")
	}

	rows, err := s.store.ScanCandidatesContaining(ctx, viewer)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "scan shared note candidates")
	}

	shared := make([]*domain.Note, 0)
	seen := make(map[string]bool)

	for _, row := range rows {
		note := s.parseCandidate(row)
		if note == nil {
			continue
		}
		if !domain.CanView(note, viewer) {
			continue
		}
		// First occurrence of an id wins across owners
		if seen[note.ID] {
			continue
		}
		seen[note.ID] = true
		shared = append(shared, note)
	}

	sort.SliceStable(shared, func(i, j int) bool {
		if shared[i].LastModified != shared[j].LastModified {
			return shared[i].LastModified > shared[j].LastModified
		}
		return shared[i].ID < shared[j].ID
	})

	s.logger.Debug("shared note discovery",
		"viewer", viewer,
		"candidates", len(rows),
		"visible", len(shared),
	)

	return shared, nil
}

// parseCandidate parses one candidate row into a note, restoring the
// stored provenance over whatever the parser defaulted. A row that
// panics the parser is logged and skipped so one bad document cannot
// take the whole discovery down.
func (s *SharingService) parseCandidate(row *store.NoteRow) (note *domain.Note) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("skipping unparseable note",
				"owner_id", row.OwnerID,
				"note_id", row.ID,
				"panic", r,
			)
			note = nil
		}
	}()

	note = frontmatter.ParseNote(row.Markdown, frontmatter.NoteOptions{
		ID:         row.ID,
		SourceName: row.SourceName,
	})
	note.OwnerID = row.OwnerID
	note.LastModified = domain.EffectiveTimestamp(row.LastModified)
	return note
}
