package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/store"
)

// noteColumns is the ordered list of columns selected in note queries.
// Must match the scan order in scanNote.
const noteColumns = `owner_id, id, markdown, source_name, last_modified, updated_at`

// scanNote scans a sql.Row (or sql.Rows via its Scan method) into a store.NoteRow.
func scanNote(scanner interface{ Scan(dest ...any) error }) (*store.NoteRow, error) {
	var row store.NoteRow

	var (
		sourceName sql.NullString
		updatedAt  string
	)

	err := scanner.Scan(
		&row.OwnerID,
		&row.ID,
		&row.Markdown,
		&sourceName,
		&row.LastModified,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if sourceName.Valid {
		row.SourceName = sourceName.String
	}

	row.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &row, nil
}

// ListNotesByOwner returns all notes owned by a user, newest first.
func (s *Store) ListNotesByOwner(ctx context.Context, ownerID string) ([]*store.NoteRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes
		 WHERE owner_id = ?
		 ORDER BY last_modified DESC, updated_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectNotes(rows)
}

// ListAllNotes returns every note across all owners, newest first.
func (s *Store) ListAllNotes(ctx context.Context) ([]*store.NoteRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes
		 ORDER BY last_modified DESC, updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectNotes(rows)
}

// GetNote retrieves a single note.
// Returns store.ErrNotFound if the note does not exist.
func (s *Store) GetNote(ctx context.Context, ownerID, id string) (*store.NoteRow, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE owner_id = ? AND id = ?`, ownerID, id)

	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ConditionalUpsertNote applies the row only when its last_modified is
// greater than or equal to the stored value, so an equal-timestamp write
// (the latest call) wins while a stale one is silently dropped. The
// predicate runs inside the single UPSERT statement, which is the
// optimistic-concurrency point for the whole server.
func (s *Store) ConditionalUpsertNote(ctx context.Context, row *store.NoteRow) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (owner_id, id, markdown, source_name, last_modified, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, id) DO UPDATE SET
			markdown = excluded.markdown,
			source_name = excluded.source_name,
			last_modified = excluded.last_modified,
			updated_at = excluded.updated_at
		WHERE excluded.last_modified >= notes.last_modified`,
		row.OwnerID,
		row.ID,
		row.Markdown,
		nullString(row.SourceName),
		row.LastModified,
		formatTime(time.Now()),
	)
	if err != nil {
		return false, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteNote performs a hard delete.
// Returns store.ErrNotFound if the note does not exist.
func (s *Store) DeleteNote(ctx context.Context, ownerID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM notes WHERE owner_id = ? AND id = ?`, ownerID, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ScanCandidatesContaining returns every note whose raw markdown contains
// needle, case-insensitively, across all owners. The precise access
// decision happens in the visibility resolver; this query only keeps the
// per-document parse off notes that can never match.
func (s *Store) ScanCandidatesContaining(ctx context.Context, needle string) ([]*store.NoteRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes
		 WHERE instr(lower(markdown), lower(?)) > 0
		 ORDER BY last_modified DESC, updated_at DESC`, needle)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectNotes(rows)
}

func collectNotes(rows *sql.Rows) ([]*store.NoteRow, error) {
	var notes []*store.NoteRow
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notes, nil
}
