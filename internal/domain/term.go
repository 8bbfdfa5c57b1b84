package domain

import "sort"

// VisibilityTerm is a named sharing group owned by a user: the term name plus
// the set of emails allowed under it. There is exactly one record per
// (owner, term) pair and it is overwritten wholesale on every sync.
type VisibilityTerm struct {
	OwnerID string   `json:"owner_id"`
	Term    string   `json:"term"`
	Emails  []string `json:"emails"`
}

// NormalizeEmails prepares an email list for storage: trim, lowercase, drop
// anything without an @, dedupe. The result is sorted so stored term records
// compare stably.
func NormalizeEmails(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, raw := range emails {
		if !ValidEmail(raw) {
			continue
		}
		e := NormalizeEmail(raw)
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}
