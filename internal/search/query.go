package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a search query. OwnerID is mandatory: every search
// is scoped to a single owner's notes.
type Params struct {
	OwnerID string
	Query   string // User's search query

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance", "title", "recent"
	SortOrder string // "asc", "desc"

	Highlight bool // Include match highlighting
}

// DefaultParams returns sensible defaults for an owner's query.
func DefaultParams(ownerID, q string) Params {
	return Params{
		OwnerID:   ownerID,
		Query:     q,
		Limit:     20,
		Offset:    0,
		SortBy:    "relevance",
		SortOrder: "desc",
		Highlight: true,
	}
}

// Result represents the search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit represents a single matching note.
type Hit struct {
	NoteID       string            `json:"note_id"`
	Score        float64           `json:"score"`
	Title        string            `json:"title,omitempty"`
	SourceName   string            `json:"source_name,omitempty"`
	LastModified int64             `json:"last_modified"`
	Highlights   map[string]string `json:"highlights,omitempty"`
}

// Search executes a search query scoped to params.OwnerID.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.OwnerID == "" {
		return nil, fmt.Errorf("search requires an owner id")
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}

	searchQuery := buildSearchQuery(params)
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	addSorting(searchRequest, params)

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
		searchRequest.Highlight.AddField("body")
	}

	searchRequest.Fields = []string{
		"note_id", "title", "source_name", "last_modified",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := Hit{
			Score: hit.Score,
		}

		if id, ok := hit.Fields["note_id"].(string); ok {
			searchHit.NoteID = id
		}
		if title, ok := hit.Fields["title"].(string); ok {
			searchHit.Title = title
		}
		if src, ok := hit.Fields["source_name"].(string); ok {
			searchHit.SourceName = src
		}
		if lm, ok := hit.Fields["last_modified"].(float64); ok {
			searchHit.LastModified = int64(lm)
		}

		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
// The owner term query is ANDed with the text query so results never
// leak across owners.
func buildSearchQuery(params Params) query.Query {
	ownerQuery := bleve.NewTermQuery(params.OwnerID)
	ownerQuery.SetField("owner")

	if params.Query == "" {
		return bleve.NewConjunctionQuery(ownerQuery, bleve.NewMatchAllQuery())
	}

	textQueries := []query.Query{}

	// Title match with highest boost
	titleMatch := bleve.NewMatchQuery(params.Query)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)
	textQueries = append(textQueries, titleMatch)

	// Body match
	bodyMatch := bleve.NewMatchQuery(params.Query)
	bodyMatch.SetField("body")
	textQueries = append(textQueries, bodyMatch)

	// Fuzzy matching for typo tolerance on title
	fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
	fuzzyQuery.SetFuzziness(1)
	fuzzyQuery.SetField("title")
	fuzzyQuery.SetBoost(0.8)
	textQueries = append(textQueries, fuzzyQuery)

	// Prefix query for incremental typing (minimum 2 chars)
	if len(params.Query) >= 2 {
		prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
		prefixQuery.SetField("title")
		prefixQuery.SetBoost(0.5)
		textQueries = append(textQueries, prefixQuery)
	}

	return bleve.NewConjunctionQuery(ownerQuery, bleve.NewDisjunctionQuery(textQueries...))
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params Params) {
	switch params.SortBy {
	case "title":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-title"})
		} else {
			req.SortBy([]string{"title"})
		}
	case "recent":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"last_modified"})
		} else {
			req.SortBy([]string{"-last_modified"})
		}
	default:
		// Relevance (score) is the default
		req.SortBy([]string{"-_score"})
	}
}
