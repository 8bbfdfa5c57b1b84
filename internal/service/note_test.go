package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/search"
)

func TestNoteService_CreateFromMarkdown(t *testing.T) {
	st := setupTestStore(t)
	svc := NewNoteService(st, nil, testLogger())
	ctx := context.Background()

	note, err := svc.CreateFromMarkdown(ctx, "alice", "# Hello", "web")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(note.ID, "note-"))
	assert.Equal(t, "alice", note.OwnerID)
	assert.Equal(t, "# Hello", note.Body)
	assert.Positive(t, note.LastModified)

	got, err := svc.Get(ctx, "alice", note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.Body, got.Body)
	assert.Equal(t, "web", got.SourceName)
}

func TestNoteService_CreateFromMarkdown_Empty(t *testing.T) {
	st := setupTestStore(t)
	svc := NewNoteService(st, nil, testLogger())

	_, err := svc.CreateFromMarkdown(context.Background(), "alice", "   \n", "web")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestNoteService_CreateFromMarkdown_KeepsFrontmatter(t *testing.T) {
	st := setupTestStore(t)
	svc := NewNoteService(st, nil, testLogger())
	ctx := context.Background()

	markdown := "---\nvisibility: [friends]\n---\n# Body\n"
	note, err := svc.CreateFromMarkdown(ctx, "alice", markdown, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"friends"}, note.Metadata.Visibility)

	row, err := st.GetNote(ctx, "alice", note.ID)
	require.NoError(t, err)
	assert.Equal(t, markdown, row.Markdown)
}

func TestNoteService_CreateFromHTML(t *testing.T) {
	st := setupTestStore(t)
	svc := NewNoteService(st, nil, testLogger())

	note, err := svc.CreateFromHTML(context.Background(), "alice",
		"<p>Hello <strong>world</strong></p>", "clipper")
	require.NoError(t, err)
	assert.Contains(t, note.Body, "**world**")
	assert.NotContains(t, note.Body, "<p>")
}

func TestNoteService_CreateFromHTML_PlainTextPassesThrough(t *testing.T) {
	st := setupTestStore(t)
	svc := NewNoteService(st, nil, testLogger())

	note, err := svc.CreateFromHTML(context.Background(), "alice",
		"just plain text, no markup", "clipper")
	require.NoError(t, err)
	assert.Equal(t, "just plain text, no markup", note.Body)
}

func TestNoteService_List_NewestFirst(t *testing.T) {
	st := setupTestStore(t)
	syncSvc := NewSyncService(st, nil, testLogger())
	noteSvc := NewNoteService(st, nil, testLogger())
	ctx := context.Background()

	_, err := syncSvc.Upsert(ctx, "alice", []NoteInput{
		{ID: "old", Markdown: "old", LastModified: 100},
		{ID: "new", Markdown: "new", LastModified: 200},
	})
	require.NoError(t, err)

	notes, err := noteSvc.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "new", notes[0].ID)
	assert.Equal(t, "old", notes[1].ID)
}

func TestNoteService_Get_NotFound(t *testing.T) {
	st := setupTestStore(t)
	svc := NewNoteService(st, nil, testLogger())

	_, err := svc.Get(context.Background(), "alice", "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestNoteService_Delete(t *testing.T) {
	st := setupTestStore(t)
	svc := NewNoteService(st, nil, testLogger())
	ctx := context.Background()

	note, err := svc.CreateFromMarkdown(ctx, "alice", "# Doomed", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "alice", note.ID))

	_, err = svc.Get(ctx, "alice", note.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = svc.Delete(ctx, "alice", note.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestNoteService_ReindexAll(t *testing.T) {
	st := setupTestStore(t)

	index, err := search.NewIndex(search.Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	// Write notes past a noop indexer so the index starts empty.
	seed := NewNoteService(st, NoopIndexer{}, testLogger())
	ctx := context.Background()
	_, err = seed.CreateFromMarkdown(ctx, "alice", "# One", "")
	require.NoError(t, err)
	_, err = seed.CreateFromMarkdown(ctx, "bob", "# Two", "")
	require.NoError(t, err)

	svc := NewNoteService(st, index, testLogger())
	count, err := svc.ReindexAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	docs, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), docs)
}

func TestContainsHTML(t *testing.T) {
	assert.True(t, containsHTML("<p>hi</p>"))
	assert.True(t, containsHTML("<DIV>upper</DIV>"))
	assert.False(t, containsHTML("a < b and b > c"))
	assert.False(t, containsHTML("# markdown heading"))
}
