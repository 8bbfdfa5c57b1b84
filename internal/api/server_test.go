package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/http/response"
	"github.com/inkwellapp/inkwell-server/internal/ratelimit"
	"github.com/inkwellapp/inkwell-server/internal/search"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

// setupTestServer builds a server on a real sqlite store and search index.
func setupTestServer(t *testing.T, limiter *ratelimit.KeyedRateLimiter) *Server {
	t.Helper()

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewIndex(search.Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	logger := slog.New(slog.DiscardHandler)
	services := &Services{
		Sync:    service.NewSyncService(st, index, logger),
		Sharing: service.NewSharingService(st, logger),
		Note:    service.NewNoteService(st, index, logger),
	}

	if limiter != nil {
		t.Cleanup(limiter.Stop)
	}

	return NewServer(Options{
		Store:       st,
		Services:    services,
		SearchIndex: index,
		SyncLimiter: limiter,
		Logger:      logger,
	})
}

// doJSON performs a request with identity headers and decodes the response.
func doJSON(t *testing.T, s *Server, method, path, user, email string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(HeaderUser, user)
	}
	if email != "" {
		req.Header.Set(HeaderEmail, email)
	}

	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	if out != nil && w.Code < 300 && w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

func TestHealthCheck(t *testing.T) {
	s := setupTestServer(t, nil)

	var health HealthResponse
	w := doJSON(t, s, http.MethodGet, "/health", "", "", nil, &health)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Components["database"].Status)
	assert.Equal(t, "healthy", health.Components["search"].Status)
}

func TestSync_RequiresIdentity(t *testing.T) {
	s := setupTestServer(t, nil)

	w := doJSON(t, s, http.MethodPost, "/api/v1/sync", "", "", SyncRequest{
		Notes: []SyncNoteEntry{{ID: "n1", Markdown: "# hi"}},
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSync_ThenListNotes(t *testing.T) {
	s := setupTestServer(t, nil)

	var syncResp SyncResponse
	w := doJSON(t, s, http.MethodPost, "/api/v1/sync", "alice", "", SyncRequest{
		Notes: []SyncNoteEntry{
			{ID: "n1", Markdown: "# First", LastModified: 100},
			{ID: "n2", Markdown: "# Second", LastModified: 200},
		},
	}, &syncResp)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, syncResp.Results, 2)
	assert.True(t, syncResp.Results[0].Applied)

	var list ListNotesOutput
	w = doJSON(t, s, http.MethodGet, "/api/v1/notes", "alice", "", nil, &list.Body)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, list.Body.Notes, 2)
	assert.Equal(t, "n2", list.Body.Notes[0].ID, "newest first")
}

func TestSync_VisibilityTermsRoundTrip(t *testing.T) {
	s := setupTestServer(t, nil)

	w := doJSON(t, s, http.MethodPost, "/api/v1/sync", "alice", "", SyncRequest{
		VisibilityTerms: map[string][]string{
			"friends": {"Bob@Example.com", "carol@example.com"},
		},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var terms VisibilityTermsOutput
	w = doJSON(t, s, http.MethodGet, "/api/v1/visibility-terms", "alice", "", nil, &terms.Body)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, terms.Body.Terms, 1)
	assert.Equal(t, "friends", terms.Body.Terms[0].Term)
	assert.Equal(t, []string{"bob@example.com", "carol@example.com"}, terms.Body.Terms[0].Emails)
}

func TestSharedNotes_EndToEnd(t *testing.T) {
	s := setupTestServer(t, nil)

	markdown := "---\nvisibility: [friends]\nvisibility_emails:\n  friends:\n    - bob@example.com\n---\n# For Bob\n"
	w := doJSON(t, s, http.MethodPost, "/api/v1/sync", "alice", "", SyncRequest{
		Notes: []SyncNoteEntry{{ID: "shared-1", Markdown: markdown, LastModified: 100}},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var shared SharedNotesOutput
	w = doJSON(t, s, http.MethodGet, "/api/v1/shared", "bob", "Bob@Example.com", nil, &shared.Body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, shared.Body.Notes, 1)
	assert.Equal(t, "shared-1", shared.Body.Notes[0].ID)
	assert.Equal(t, "alice", shared.Body.Notes[0].OwnerID)
	assert.Equal(t, "# For Bob", shared.Body.Notes[0].Body)
}

func TestSharedNotes_RequiresEmail(t *testing.T) {
	s := setupTestServer(t, nil)

	w := doJSON(t, s, http.MethodGet, "/api/v1/shared", "bob", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNoteCRUD(t *testing.T) {
	s := setupTestServer(t, nil)

	var created NoteOutput
	w := doJSON(t, s, http.MethodPost, "/api/v1/notes", "alice", "", map[string]string{
		"markdown":    "# Fresh note",
		"source_name": "web",
	}, &created.Body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotEmpty(t, created.Body.ID)
	assert.Equal(t, "# Fresh note", created.Body.Body)

	var fetched NoteOutput
	w = doJSON(t, s, http.MethodGet, "/api/v1/notes/"+created.Body.ID, "alice", "", nil, &fetched.Body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "web", fetched.Body.SourceName)

	w = doJSON(t, s, http.MethodDelete, "/api/v1/notes/"+created.Body.ID, "alice", "", nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/v1/notes/"+created.Body.ID, "alice", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClipNote_ConvertsHTML(t *testing.T) {
	s := setupTestServer(t, nil)

	var created NoteOutput
	w := doJSON(t, s, http.MethodPost, "/api/v1/notes/clip", "alice", "", map[string]string{
		"content":     "<p>Hello <strong>world</strong></p>",
		"source_name": "clipper",
	}, &created.Body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, created.Body.Body, "**world**")
}

func TestSearchNotes(t *testing.T) {
	s := setupTestServer(t, nil)

	w := doJSON(t, s, http.MethodPost, "/api/v1/sync", "alice", "", SyncRequest{
		Notes: []SyncNoteEntry{
			{ID: "n1", Markdown: "# Hiking Plans\n\nTrail maps.", LastModified: 100},
			{ID: "n2", Markdown: "# Groceries\n\nMilk.", LastModified: 200},
		},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result SearchNotesResponse
	w = doJSON(t, s, http.MethodGet, "/api/v1/search?q=hiking", "alice", "", nil, &result)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "n1", result.Hits[0].NoteID)
}

func TestSync_RateLimited(t *testing.T) {
	s := setupTestServer(t, ratelimit.New(0.001, 1))

	payload := SyncRequest{Notes: []SyncNoteEntry{{ID: "n1", Markdown: "x"}}}

	w := doJSON(t, s, http.MethodPost, "/api/v1/sync", "alice", "", payload, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/v1/sync", "alice", "", payload, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// A different user has an independent bucket
	w = doJSON(t, s, http.MethodPost, "/api/v1/sync", "carol", "", payload, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnmatchedRoute_JSONEnvelope(t *testing.T) {
	s := setupTestServer(t, nil)

	w := doJSON(t, s, http.MethodGet, "/api/v1/nope", "alice", "", nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "route not found", envelope.Error)
}
