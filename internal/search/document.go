// Package search provides full-text search over notes using Bleve.
// Each owner's notes are indexed together; queries are always scoped
// to a single owner so one user's notes never surface in another's results.
package search

import (
	"strings"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// NoteDocument is the document structure stored in the Bleve index.
//
// The index key is "<owner_id>/<note_id>" so that the same note id under
// different owners maps to distinct documents, mirroring the store's
// composite primary key.
type NoteDocument struct {
	Owner        string `json:"owner"`   // Owner identifier, keyword-matched
	NoteID       string `json:"note_id"` // Note identifier as synced by the client
	Title        string `json:"title"`   // First heading of the body, if any
	Body         string `json:"body"`    // Markdown body, frontmatter stripped
	SourceName   string `json:"source_name,omitempty"`
	LastModified int64  `json:"last_modified"` // Unix millis
}

// Key returns the composite index key for the document.
func (d *NoteDocument) Key() string {
	return d.Owner + "/" + d.NoteID
}

// ToMap converts the document to a map with lowercase field names.
// Bleve defaults to Go struct field names (capitalized), but the index
// mapping uses lowercase names, so we convert explicitly.
func (d *NoteDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"owner":         d.Owner,
		"note_id":       d.NoteID,
		"body":          d.Body,
		"last_modified": d.LastModified,
	}
	if d.Title != "" {
		m["title"] = d.Title
	}
	if d.SourceName != "" {
		m["source_name"] = d.SourceName
	}
	return m
}

// NoteToDocument converts a parsed note to its indexable form.
func NoteToDocument(note *domain.Note) *NoteDocument {
	return &NoteDocument{
		Owner:        note.OwnerID,
		NoteID:       note.ID,
		Title:        firstHeading(note.Body),
		Body:         note.Body,
		SourceName:   note.SourceName,
		LastModified: note.LastModified,
	}
}

// firstHeading returns the text of the first ATX heading in the body,
// or an empty string when the body has none.
func firstHeading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(trimmed, "#"); ok {
			return strings.TrimSpace(strings.TrimLeft(after, "#"))
		}
	}
	return ""
}
