package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

func TestParseMetadata_EmptyBlock(t *testing.T) {
	md := ParseMetadata("")

	assert.Nil(t, md.Visibility)
	assert.Nil(t, md.VisibilityEmails)
}

func TestParseMetadata_ScalarVisibility(t *testing.T) {
	md := ParseMetadata("visibility: friends")

	assert.Equal(t, []string{"friends"}, md.Visibility)
}

func TestParseMetadata_InlineArrayVisibility(t *testing.T) {
	md := ParseMetadata("visibility: [friends, family]")

	assert.Equal(t, []string{"friends", "family"}, md.Visibility)
}

func TestParseMetadata_InlineArrayDropsEmpties(t *testing.T) {
	md := ParseMetadata("visibility: [friends, , family, ]")

	assert.Equal(t, []string{"friends", "family"}, md.Visibility)
}

func TestParseMetadata_BlockListVisibility(t *testing.T) {
	block := "visibility:\n  - friends\n  - family"

	md := ParseMetadata(block)

	assert.Equal(t, []string{"friends", "family"}, md.Visibility)
}

func TestParseMetadata_EmptyVisibilityLeftUnset(t *testing.T) {
	// Bare key with no items following.
	md := ParseMetadata("visibility:\ntitle: something else")

	assert.Nil(t, md.Visibility)
}

func TestParseMetadata_VisibilityEmailsNested(t *testing.T) {
	block := "visibility:\n" +
		"  - friends\n" +
		"visibility_emails:\n" +
		"  friends:\n" +
		"    - alice@x.com\n" +
		"    - bob@x.com\n" +
		"  work: [carol@corp.example]\n" +
		"  family: dave@y.com"

	md := ParseMetadata(block)

	assert.Equal(t, []string{"friends"}, md.Visibility)
	assert.Equal(t, map[string][]string{
		"friends": {"alice@x.com", "bob@x.com"},
		"work":    {"carol@corp.example"},
		"family":  {"dave@y.com"},
	}, md.VisibilityEmails)
}

func TestParseMetadata_VisibilityEmailsStopsAtTopLevelKey(t *testing.T) {
	block := "visibility_emails:\n" +
		"  friends: [alice@x.com]\n" +
		"title: my note\n" +
		"  orphan: [bob@x.com]"

	md := ParseMetadata(block)

	// Scanning stopped at `title:`; the indented line after it belongs to
	// nothing and must not be picked up.
	assert.Equal(t, map[string][]string{"friends": {"alice@x.com"}}, md.VisibilityEmails)
}

func TestParseMetadata_EmptyTermBlockListKept(t *testing.T) {
	block := "visibility_emails:\n  friends:\n  work: [a@b]"

	md := ParseMetadata(block)

	// A term with an empty block list is recorded with no emails.
	assert.Equal(t, map[string][]string{
		"friends": {},
		"work":    {"a@b"},
	}, md.VisibilityEmails)
}

func TestParseMetadata_EmptyEmailsMapLeftUnset(t *testing.T) {
	md := ParseMetadata("visibility_emails:\ntitle: x")

	assert.Nil(t, md.VisibilityEmails)
}

func TestParseMetadata_SkipsBlanksAndComments(t *testing.T) {
	block := "\n# authored by hand\n\nvisibility: friends\n  # indented comment\n"

	md := ParseMetadata(block)

	assert.Equal(t, []string{"friends"}, md.Visibility)
}

func TestParseMetadata_IgnoresUnknownKeys(t *testing.T) {
	block := "title: groceries\ntags: [todo, home]\nvisibility: friends\ncreated: 2024-01-01"

	md := ParseMetadata(block)

	assert.Equal(t, []string{"friends"}, md.Visibility)
	assert.Nil(t, md.VisibilityEmails)
}

func TestParseMetadata_MalformedNeverPanics(t *testing.T) {
	blocks := []string{
		":::",
		"visibility",
		"visibility:[",
		"  - dangling item",
		"visibility_emails:\n      - too deep",
		"--- \nvisibility: x",
		"\x00\x01weird",
	}
	for _, b := range blocks {
		assert.NotPanics(t, func() { ParseMetadata(b) })
	}
}

func TestParseMetadata_Idempotent(t *testing.T) {
	block := "visibility:\n  - friends\nvisibility_emails:\n  friends:\n    - alice@x.com"

	first := ParseMetadata(block)
	second := ParseMetadata(block)

	assert.Equal(t, first, second)
}

func TestParseNote_ScenarioInline(t *testing.T) {
	note := ParseNote("---\nvisibility: [friends]\n---\nHello", NoteOptions{ID: "n1"})
	note.Metadata.VisibilityEmails = map[string][]string{"friends": {"alice@x.com"}}

	assert.True(t, domain.CanView(note, "alice@x.com"))
	assert.False(t, domain.CanView(note, "bob@x.com"))
}

func TestParseNote_ScenarioBlock(t *testing.T) {
	doc := "---\n" +
		"visibility:\n" +
		"  - friends\n" +
		"visibility_emails:\n" +
		"  friends:\n" +
		"    - alice@x.com\n" +
		"---\n" +
		"Body text\n"

	note := ParseNote(doc, NoteOptions{ID: "n1"})

	assert.Equal(t, []string{"friends"}, note.Metadata.Visibility)
	assert.Equal(t, map[string][]string{"friends": {"alice@x.com"}}, note.Metadata.VisibilityEmails)
	assert.Equal(t, "Body text\n", note.Body)
}

func TestParseNote_Defaults(t *testing.T) {
	note := ParseNote("  \n\nhello", NoteOptions{})

	assert.NotEmpty(t, note.ID)
	assert.Equal(t, "hello", note.Body, "leading whitespace trimmed")
	assert.Empty(t, note.Frontmatter)
	assert.False(t, note.AutoUpdateTimestamp)
	assert.Positive(t, note.LastModified)

	// Fresh IDs per call.
	other := ParseNote("hello", NoteOptions{})
	assert.NotEqual(t, note.ID, other.ID)
}

func TestParseNote_PreservesRawFrontmatter(t *testing.T) {
	doc := "---\ntitle: kept verbatim\nvisibility: friends\n---\nbody"

	note := ParseNote(doc, NoteOptions{ID: "n1", SourceName: "daily.md"})

	assert.Equal(t, "title: kept verbatim\nvisibility: friends", note.Frontmatter)
	assert.Equal(t, "daily.md", note.SourceName)
}

func TestParseNote_BlankFrontmatterOmitted(t *testing.T) {
	note := ParseNote("---\n   \n---\nbody", NoteOptions{ID: "n1"})

	assert.Empty(t, note.Frontmatter)
	assert.Equal(t, "body", note.Body)
}
