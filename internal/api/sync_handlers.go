package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/service"
)

func (s *Server) registerSyncRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "syncNotes",
		Method:      http.MethodPost,
		Path:        "/api/v1/sync",
		Summary:     "Sync notes",
		Description: "Merges a batch of notes last-writer-wins and optionally replaces the caller's visibility terms",
		Tags:        []string{"Sync"},
	}, s.handleSync)

	huma.Register(s.api, huma.Operation{
		OperationID: "getVisibilityTerms",
		Method:      http.MethodGet,
		Path:        "/api/v1/visibility-terms",
		Summary:     "List visibility terms",
		Description: "Returns the caller's visibility terms and their member emails",
		Tags:        []string{"Sync"},
	}, s.handleGetVisibilityTerms)
}

// === DTOs ===

// SyncNoteEntry is one note in a sync payload.
type SyncNoteEntry struct {
	ID           string `json:"id" validate:"required,max=256" doc:"Client note id"`
	Markdown     string `json:"markdown" doc:"Full markdown document, frontmatter included"`
	SourceName   string `json:"source_name,omitempty" validate:"omitempty,max=256" doc:"Originating device or app"`
	LastModified int64  `json:"last_modified,omitempty" doc:"Epoch milliseconds; omit or send <=0 to use server time"`
}

// SyncRequest is the sync payload body.
type SyncRequest struct {
	Notes []SyncNoteEntry `json:"notes" validate:"dive" doc:"Notes to merge"`
	// nil means "leave terms alone"; an empty map clears them.
	VisibilityTerms map[string][]string `json:"visibility_terms,omitempty" doc:"Full replacement set of visibility terms"`
}

// SyncInput wraps the sync request for Huma.
type SyncInput struct {
	Body SyncRequest
}

// SyncResponse reports per-note outcomes.
type SyncResponse struct {
	Results []service.UpsertResult `json:"results" doc:"Per-note merge outcomes"`
}

// SyncOutput wraps the sync response for Huma.
type SyncOutput struct {
	Body SyncResponse
}

// VisibilityTermEntry is one term with its member emails.
type VisibilityTermEntry struct {
	Term   string   `json:"term" doc:"Term name as used in note frontmatter"`
	Emails []string `json:"emails" doc:"Member emails, normalized"`
}

// VisibilityTermsOutput wraps the term list for Huma.
type VisibilityTermsOutput struct {
	Body struct {
		Terms []VisibilityTermEntry `json:"terms" doc:"The caller's visibility terms"`
	}
}

// === Handlers ===

func (s *Server) handleSync(ctx context.Context, input *SyncInput) (*SyncOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if s.syncLimiter != nil && !s.syncLimiter.Allow(userID) {
		return nil, huma.Error429TooManyRequests("Sync rate limit exceeded, retry shortly")
	}

	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	notes := make([]service.NoteInput, 0, len(input.Body.Notes))
	for _, n := range input.Body.Notes {
		notes = append(notes, service.NoteInput{
			ID:           n.ID,
			Markdown:     n.Markdown,
			SourceName:   n.SourceName,
			LastModified: n.LastModified,
		})
	}

	results, err := s.services.Sync.Upsert(ctx, userID, notes)
	if err != nil {
		s.logger.Error("Sync failed", "error", err, "user_id", userID)
		return nil, err
	}

	if err := s.services.Sync.ReplaceVisibilityTerms(ctx, userID, input.Body.VisibilityTerms); err != nil {
		s.logger.Error("Visibility term replacement failed", "error", err, "user_id", userID)
		return nil, err
	}

	return &SyncOutput{Body: SyncResponse{Results: results}}, nil
}

func (s *Server) handleGetVisibilityTerms(ctx context.Context, _ *struct{}) (*VisibilityTermsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	terms, err := s.store.ListVisibilityTerms(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list visibility terms", "error", err, "user_id", userID)
		return nil, err
	}

	out := &VisibilityTermsOutput{}
	out.Body.Terms = make([]VisibilityTermEntry, 0, len(terms))
	for _, t := range terms {
		out.Body.Terms = append(out.Body.Terms, VisibilityTermEntry{
			Term:   t.Term,
			Emails: t.Emails,
		})
	}
	return out, nil
}
