// Package frontmatter turns raw document text into Inkwell note records.
//
// It deliberately does not implement YAML. Notes come from many editors and
// hand-edited files, so the splitter and parser are total functions: anything
// malformed degrades to "no metadata" instead of an error, and only the two
// keys Inkwell cares about are interpreted at all.
package frontmatter

import "regexp"

// blockPattern matches a leading frontmatter block: the --- fence on its own
// line, a minimal span of metadata lines, and a closing fence with an
// optional trailing newline. Non-greedy so a second --- later in the body is
// never swallowed.
var blockPattern = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n?`)

// Split separates a document's leading frontmatter block from its body.
//
// When the document does not open with a well-formed block (missing fence,
// missing closing fence, fence not followed by a newline), the whole input is
// the body and ok is false. On success, meta is the text between the fences
// with no trimming applied, and body is everything after the matched block.
func Split(document string) (meta, body string, ok bool) {
	if len(document) < 3 || document[:3] != "---" {
		return "", document, false
	}

	loc := blockPattern.FindStringSubmatchIndex(document)
	if loc == nil {
		return "", document, false
	}

	meta = document[loc[2]:loc[3]]
	body = document[loc[1]:]
	return meta, body, true
}
