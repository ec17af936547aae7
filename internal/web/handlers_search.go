package web

// handlers_search.go implements the search and suggestion endpoints. The
// search engine is not safe for concurrent use, so each request builds a
// transient engine over a snapshot of the session's data; indexing is a
// linear pass and stays cheap at editor scale.

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sagsagg/translation-tools/internal/core"
)

// searchResponse is the result envelope for /search.
type searchResponse struct {
	Query   string              `json:"query"`
	Results []core.SearchResult `json:"results"`
	Count   int                 `json:"count"`
}

// handleSearch runs a fuzzy search over the session's data.
//
// Query parameters:
//
//	q         the search query (required)
//	scope     "keys", "values", or "all" (default "all")
//	language  restrict matches to one language
//	limit     cap the number of results
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	query := r.URL.Query().Get("q")
	engine := s.newSearchEngine(sess.Data)

	limit := engine.MaxResults()
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	var results []core.SearchResult
	switch {
	case r.URL.Query().Get("language") != "":
		lang := s.indexedLanguage(sess.Data, r.URL.Query().Get("language"))
		results = engine.SearchInLanguage(query, lang, engine.Threshold())
	case r.URL.Query().Get("scope") == "keys":
		results = engine.SearchKeys(query, engine.Threshold())
	case r.URL.Query().Get("scope") == "values":
		results = engine.SearchValues(query, engine.Threshold())
	default:
		results = engine.Search(query, limit)
	}
	if len(results) > limit {
		results = results[:limit]
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Query:   query,
		Results: results,
		Count:   len(results),
	})
}

// handleSuggestions returns autocomplete candidates for a partial query.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	engine := s.newSearchEngine(sess.Data)
	suggestions := engine.Suggestions(r.URL.Query().Get("q"), s.cfg.Search.SuggestionLimit)
	if suggestions == nil {
		suggestions = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

// indexedLanguage normalizes a language identifier to the form the index
// records it under: codes for the multi-language map, display names for
// the flat map and table forms.
func (s *Server) indexedLanguage(d core.Dataset, identifier string) string {
	if d.Kind == core.KindMultiMap {
		return s.catalog.MapNameToCode(identifier)
	}
	return s.columnName(identifier)
}

// newSearchEngine builds a configured engine indexed over a dataset
// snapshot. Language identifiers are indexed under their display names,
// matching the table representation's column headers.
func (s *Server) newSearchEngine(d core.Dataset) *core.SearchEngine {
	engine := core.NewSearchEngine()
	engine.SetThreshold(s.cfg.Search.Threshold)
	engine.SetMaxResults(s.cfg.Search.MaxResults)

	switch d.Kind {
	case core.KindFlatMap:
		code := d.FlatMapCode
		if code == "" {
			code = s.catalog.Default().Code
		}
		engine.IndexFlatMap(d.FlatMap, s.catalog.DisplayName(code))
	case core.KindMultiMap:
		engine.IndexMultiMap(d.MultiMap)
	case core.KindTable:
		engine.IndexTable(d.Table)
	}
	return engine
}
