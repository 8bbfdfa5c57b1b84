package sqlite

import (
	"context"
	"testing"
)

func TestReplaceVisibilityTerms_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.ReplaceVisibilityTerms(ctx, "user-1", map[string][]string{
		"friends": {"alice@x.com", "bob@x.com"},
		"work":    {"carol@corp.example"},
	})
	if err != nil {
		t.Fatalf("ReplaceVisibilityTerms: %v", err)
	}

	terms, err := s.ListVisibilityTerms(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListVisibilityTerms: %v", err)
	}
	if len(terms) != 2 {
		t.Fatalf("got %d terms, want 2", len(terms))
	}

	// Ordered by term name.
	if terms[0].Term != "friends" || terms[1].Term != "work" {
		t.Errorf("order: got [%s %s], want [friends work]", terms[0].Term, terms[1].Term)
	}
	if len(terms[0].Emails) != 2 {
		t.Errorf("friends emails: got %v", terms[0].Emails)
	}
	if len(terms[1].Emails) != 1 || terms[1].Emails[0] != "carol@corp.example" {
		t.Errorf("work emails: got %v", terms[1].Emails)
	}
}

func TestReplaceVisibilityTerms_WholesaleReplacement(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceVisibilityTerms(ctx, "user-1", map[string][]string{
		"friends": {"alice@x.com"},
		"work":    {"carol@corp.example"},
	}); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	// Second call replaces everything; no partial merge of email lists.
	if err := s.ReplaceVisibilityTerms(ctx, "user-1", map[string][]string{
		"friends": {"dave@y.com"},
	}); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	terms, err := s.ListVisibilityTerms(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListVisibilityTerms: %v", err)
	}
	if len(terms) != 1 {
		t.Fatalf("got %d terms, want 1", len(terms))
	}
	if terms[0].Term != "friends" || len(terms[0].Emails) != 1 || terms[0].Emails[0] != "dave@y.com" {
		t.Errorf("got %+v, want friends=[dave@y.com]", terms[0])
	}
}

func TestReplaceVisibilityTerms_EmptyMapClears(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceVisibilityTerms(ctx, "user-1", map[string][]string{
		"friends": {"alice@x.com"},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	if err := s.ReplaceVisibilityTerms(ctx, "user-1", map[string][]string{}); err != nil {
		t.Fatalf("clear: %v", err)
	}

	terms, err := s.ListVisibilityTerms(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListVisibilityTerms: %v", err)
	}
	if len(terms) != 0 {
		t.Errorf("got %d terms, want 0", len(terms))
	}
}

func TestReplaceVisibilityTerms_ScopedToOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceVisibilityTerms(ctx, "user-1", map[string][]string{
		"friends": {"alice@x.com"},
	}); err != nil {
		t.Fatalf("replace user-1: %v", err)
	}
	if err := s.ReplaceVisibilityTerms(ctx, "user-2", map[string][]string{}); err != nil {
		t.Fatalf("clear user-2: %v", err)
	}

	terms, err := s.ListVisibilityTerms(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListVisibilityTerms: %v", err)
	}
	if len(terms) != 1 {
		t.Errorf("user-1 terms clobbered by user-2 replace: %v", terms)
	}
}
