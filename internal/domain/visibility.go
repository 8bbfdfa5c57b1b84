package domain

import "strings"

// NormalizeEmail trims and lowercases an email for storage and comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether an email is acceptable for a visibility term.
// The bar is deliberately low: non-empty after trimming and contains an @.
func ValidEmail(email string) bool {
	e := strings.TrimSpace(email)
	return e != "" && strings.Contains(e, "@")
}

// CanView decides whether viewerEmail may read note, using only the note's
// parsed metadata. A note with no visibility terms is private, full stop.
//
// For each term, in listed order, the viewer is checked against the email
// list stored under the exact term key first, then under the
// case-insensitive key. Any match on any term grants access.
func CanView(note *Note, viewerEmail string) bool {
	terms := normalizeTerms(note.Metadata.Visibility)
	if len(terms) == 0 {
		return false
	}

	viewer := NormalizeEmail(viewerEmail)
	if viewer == "" {
		return false
	}

	// Case-insensitive view of the term -> emails mapping. Exact keys win
	// when both forms are present, so build this as a fallback table only.
	folded := make(map[string][]string, len(note.Metadata.VisibilityEmails))
	for key, emails := range note.Metadata.VisibilityEmails {
		folded[strings.ToLower(strings.TrimSpace(key))] = emails
	}

	for _, term := range terms {
		if emails, ok := note.Metadata.VisibilityEmails[term]; ok {
			if containsEmail(emails, viewer) {
				return true
			}
		}
		if emails, ok := folded[strings.ToLower(term)]; ok {
			if containsEmail(emails, viewer) {
				return true
			}
		}
	}
	return false
}

// normalizeTerms drops empty entries and trims the rest, preserving order.
func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func containsEmail(emails []string, viewer string) bool {
	for _, e := range emails {
		if NormalizeEmail(e) == viewer {
			return true
		}
	}
	return false
}
