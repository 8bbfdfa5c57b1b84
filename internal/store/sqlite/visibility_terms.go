package sqlite

import (
	"context"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// ReplaceVisibilityTerms swaps the owner's entire term set in one
// transaction: delete all, then insert the given mapping. An empty map is a
// valid submission and clears every term for the owner.
func (s *Store) ReplaceVisibilityTerms(ctx context.Context, ownerID string, terms map[string][]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM visibility_terms WHERE owner_id = ?`, ownerID); err != nil {
		return err
	}

	for term, emails := range terms {
		for _, email := range emails {
			_, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO visibility_terms (owner_id, term, email)
				VALUES (?, ?, ?)`,
				ownerID, term, email,
			)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// ListVisibilityTerms returns the owner's terms ordered by term name, each
// with its full email list.
func (s *Store) ListVisibilityTerms(ctx context.Context, ownerID string) ([]*domain.VisibilityTerm, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT term, email FROM visibility_terms
		 WHERE owner_id = ?
		 ORDER BY term, email`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []*domain.VisibilityTerm
	var current *domain.VisibilityTerm
	for rows.Next() {
		var term, email string
		if err := rows.Scan(&term, &email); err != nil {
			return nil, err
		}
		if current == nil || current.Term != term {
			current = &domain.VisibilityTerm{OwnerID: ownerID, Term: term}
			terms = append(terms, current)
		}
		current.Emails = append(current.Emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return terms, nil
}
