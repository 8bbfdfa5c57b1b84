package frontmatter

import (
	"regexp"
	"strings"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

var (
	// topLevelKey matches an unindented `key: rest` line. The key charset is
	// restricted on purpose; anything else is somebody else's metadata.
	topLevelKey = regexp.MustCompile(`^([A-Za-z0-9_-]+):\s*(.*)$`)

	// subKey matches a 2-space-indented `term: rest` line inside
	// visibility_emails.
	subKey = regexp.MustCompile(`^  ([A-Za-z0-9_-]+):\s*(.*)$`)

	// listItem matches a 2-space-indented block-list entry under a top-level
	// key; nestedListItem the 4-space-indented form under a term.
	listItem       = regexp.MustCompile(`^  -\s*(.*)$`)
	nestedListItem = regexp.MustCompile(`^    -\s*(.*)$`)
)

// ParseMetadata extracts the visibility fields from a frontmatter block.
//
// The grammar is a deliberate subset: scalars, inline arrays, 2-space block
// lists, and one level of nesting for visibility_emails. Unknown keys are
// skipped so notes can carry arbitrary metadata from other tools. The
// function never fails; absence of a match leaves the field unset.
func ParseMetadata(block string) domain.NoteMetadata {
	var md domain.NoteMetadata

	lines := strings.Split(block, "\n")
	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		m := topLevelKey.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		key, rest := m[1], strings.TrimSpace(m[2])

		switch key {
		case "visibility":
			value, next := parseVisibility(rest, lines, i+1)
			if value != nil {
				md.Visibility = value
			}
			i = next - 1
		case "visibility_emails":
			value, next := parseVisibilityEmails(lines, i+1)
			if len(value) > 0 {
				md.VisibilityEmails = value
			}
			i = next - 1
		}
	}

	return md
}

// parseVisibility resolves the visibility value by the shape of rest and
// returns the value (nil when unset) plus the index of the first unconsumed
// line.
func parseVisibility(rest string, lines []string, start int) ([]string, int) {
	switch {
	case rest == "":
		items, next := consumeBlockList(listItem, lines, start)
		if len(items) == 0 {
			return nil, next
		}
		return items, next
	case strings.HasPrefix(rest, "["):
		return parseInlineArray(rest), start
	default:
		return []string{rest}, start
	}
}

// parseVisibilityEmails scans 2-space-indented `term: rest` lines starting at
// start. Scanning stops, without consuming the stopping line, at the next
// top-level key or a bare fence. Lines matching neither shape are skipped.
func parseVisibilityEmails(lines []string, start int) (map[string][]string, int) {
	emails := make(map[string][]string)

	i := start
	for i < len(lines) {
		line := lines[i]
		if topLevelKey.MatchString(line) || strings.TrimSpace(line) == "---" {
			break
		}

		m := subKey.FindStringSubmatch(line)
		if m == nil {
			i++
			continue
		}
		term, rest := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])

		switch {
		case strings.HasPrefix(rest, "["):
			emails[term] = parseInlineArray(rest)
			i++
		case rest == "":
			items, next := consumeBlockList(nestedListItem, lines, i+1)
			emails[term] = items
			i = next
		default:
			emails[term] = []string{rest}
			i++
		}
	}

	return emails, i
}

// consumeBlockList collects consecutive lines matching the given list-item
// pattern; the first non-matching line ends the list. Returns the trimmed
// item contents (never nil) and the index of the first unconsumed line.
func consumeBlockList(pattern *regexp.Regexp, lines []string, start int) ([]string, int) {
	items := []string{}
	i := start
	for i < len(lines) {
		m := pattern.FindStringSubmatch(lines[i])
		if m == nil {
			break
		}
		items = append(items, strings.TrimSpace(m[1]))
		i++
	}
	return items, i
}

// parseInlineArray parses `[a, b, c]`: strip the surrounding brackets, split
// on commas, trim each element, drop empties.
func parseInlineArray(rest string) []string {
	inner := strings.TrimPrefix(rest, "[")
	inner = strings.TrimSuffix(inner, "]")

	parts := strings.Split(inner, ",")
	out := []string{}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
