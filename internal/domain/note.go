// Package domain contains the canonical in-memory models for Inkwell notes
// and the pure visibility logic that decides who may read them.
package domain

import "time"

// NoteMetadata holds the two frontmatter fields Inkwell understands.
// Everything else in a note's frontmatter is preserved verbatim but ignored.
type NoteMetadata struct {
	// Visibility is the ordered list of sharing terms the note is published
	// under. A scalar `visibility: friends` parses to a one-element list.
	// nil means the field was absent and the note is private.
	Visibility []string `json:"visibility,omitempty"`

	// VisibilityEmails maps a term name (as written in the frontmatter) to
	// the emails allowed under that term. Keys are compared case-insensitively
	// at resolution time but stored as-is.
	VisibilityEmails map[string][]string `json:"visibility_emails,omitempty"`
}

// Note is the in-memory representation of a synced document. It is built
// fresh from raw text on every parse and never mutated across calls; the
// persisted row is the source of truth between calls.
type Note struct {
	// ID is unique within its owner's collection only. Two owners may hold
	// notes with the same ID.
	ID string `json:"id"`

	// OwnerID identifies the user holding the note. Empty on records built
	// straight from text; filled in from the stored row.
	OwnerID string `json:"owner_id,omitempty"`

	// Body is the text after the frontmatter block, leading whitespace trimmed.
	Body string `json:"body"`

	// Frontmatter is the raw metadata block, kept for lossless round-trip
	// display. Empty when the document had no (non-blank) frontmatter.
	Frontmatter string `json:"frontmatter,omitempty"`

	// SourceName is an optional display label, independent of ID.
	SourceName string `json:"source_name,omitempty"`

	// LastModified is milliseconds since epoch and is authoritative for
	// conflict resolution.
	LastModified int64 `json:"last_modified"`

	// AutoUpdateTimestamp is always false when produced by the parser;
	// callers flip it when they want the server to re-stamp on write.
	AutoUpdateTimestamp bool `json:"auto_update_timestamp"`

	Metadata NoteMetadata `json:"metadata"`
}

// NowMillis returns the current wall clock as epoch milliseconds, the unit
// used for LastModified throughout.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// EffectiveTimestamp returns ts when it is a usable timestamp, or now when it
// is missing or nonsensical. JSON clients can submit anything; zero and
// negative values stand in for the absent/non-finite cases.
func EffectiveTimestamp(ts int64) int64 {
	if ts <= 0 {
		return NowMillis()
	}
	return ts
}
