package frontmatter

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// NoteOptions carries the caller-supplied fields for ParseNote. Both are
// optional.
type NoteOptions struct {
	ID         string
	SourceName string
}

// ParseNote builds a fresh note record from raw document text. Every call
// constructs a new record; records are never mutated in place across calls.
//
// The ID defaults to a random UUID when the caller does not supply one. The
// body keeps trailing whitespace but loses leading whitespace, and the raw
// frontmatter block is preserved verbatim for round-trip display unless it is
// all blank. LastModified is stamped with the current time; callers override
// it afterwards for storage-derived timestamps.
func ParseNote(text string, opts NoteOptions) *domain.Note {
	meta, body, _ := Split(text)

	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}

	note := &domain.Note{
		ID:           id,
		Body:         strings.TrimLeftFunc(body, unicode.IsSpace),
		SourceName:   opts.SourceName,
		LastModified: domain.NowMillis(),
		Metadata:     ParseMetadata(meta),
	}

	if strings.TrimSpace(meta) != "" {
		note.Frontmatter = meta
	}

	return note
}
