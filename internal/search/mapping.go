package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for note documents.
//
// The mapping is designed with these priorities:
//  1. Fast full-text search over bodies with English stemming
//  2. Boosted relevance for title (first heading) matches
//  3. Exact keyword matching on owner so queries stay owner-scoped
//  4. Term vectors on title and body for highlighting
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	// Title - primary search target, boosted at query time
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	// Body - the markdown content itself
	bodyFieldMapping := bleve.NewTextFieldMapping()
	bodyFieldMapping.Analyzer = en.AnalyzerName
	bodyFieldMapping.Store = true
	bodyFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("body", bodyFieldMapping)

	// Source name - searchable with simple analyzer (no stemming)
	sourceFieldMapping := bleve.NewTextFieldMapping()
	sourceFieldMapping.Analyzer = simple.Name
	sourceFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("source_name", sourceFieldMapping)

	// --- Keyword fields (exact match) ---

	// Owner - every query is filtered on this
	ownerFieldMapping := bleve.NewTextFieldMapping()
	ownerFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("owner", ownerFieldMapping)

	// Note id - stored but not analyzed
	noteIDFieldMapping := bleve.NewTextFieldMapping()
	noteIDFieldMapping.Analyzer = keyword.Name
	noteIDFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("note_id", noteIDFieldMapping)

	// --- Numeric fields (sorting) ---

	lastModifiedFieldMapping := bleve.NewNumericFieldMapping()
	lastModifiedFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("last_modified", lastModifiedFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
