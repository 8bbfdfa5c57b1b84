package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchNotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search notes",
		Description: "Full-text search over the caller's notes",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchNotesInput contains search query parameters.
type SearchNotesInput struct {
	Query  string `query:"q" minLength:"1" maxLength:"200" doc:"Search query"`
	Limit  int    `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Max results"`
	Offset int    `query:"offset" minimum:"0" doc:"Pagination offset"`
	Sort   string `query:"sort" enum:"relevance,title,recent" doc:"Sort order (default relevance)"`
}

// SearchNotesResponse contains search results.
type SearchNotesResponse struct {
	Query  string       `json:"query" doc:"Original search query"`
	Total  uint64       `json:"total" doc:"Total matches"`
	TookMs int64        `json:"took_ms" doc:"Search duration in milliseconds"`
	Hits   []search.Hit `json:"hits" doc:"Matching notes"`
}

// SearchNotesOutput wraps the search response for Huma.
type SearchNotesOutput struct {
	Body SearchNotesResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchNotesInput) (*SearchNotesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if s.searchIndex == nil {
		return nil, huma.Error503ServiceUnavailable("Search is disabled on this server")
	}

	params := search.DefaultParams(userID, input.Query)
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	params.Offset = input.Offset
	if input.Sort != "" {
		params.SortBy = input.Sort
	}

	result, err := s.searchIndex.Search(ctx, params)
	if err != nil {
		s.logger.Error("Search failed", "error", err, "query", input.Query, "user_id", userID)
		return nil, err
	}

	return &SearchNotesOutput{Body: SearchNotesResponse{
		Query:  result.Query,
		Total:  result.Total,
		TookMs: result.TookMs,
		Hits:   result.Hits,
	}}, nil
}
