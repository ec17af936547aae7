package core

// search.go is the fuzzy search engine over translation records.
//
// Any of the three representations can be indexed; indexing flattens the
// source into (key, value, language) records and replaces the previous
// index wholesale. Matching is backed by lithammer/fuzzysearch's
// fold-insensitive subsequence matching with Levenshtein ranking, mapped
// onto a [0,1] score where 0 is a perfect match and higher is worse.
//
// The match threshold follows the same convention: a record is returned
// when at least one searched field scores at or below the threshold, so a
// lower threshold is stricter. The final score weights the key field 0.7
// and the value field 0.3. Matching is location-agnostic: a hit anywhere
// in a field counts equally.

import (
	"math"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const (
	defaultSearchThreshold = 0.3
	defaultMaxResults      = 100

	keyFieldWeight   = 0.7
	valueFieldWeight = 0.3

	// substringScoreCeiling caps the score of a plain substring hit.
	// Substring matches are always better than subsequence-only matches.
	substringScoreCeiling = 0.1
)

// SearchStats summarizes the current index.
type SearchStats struct {
	TotalItems         int      `json:"totalItems"`
	Languages          []string `json:"languages"`
	AverageKeyLength   int      `json:"averageKeyLength"`
	AverageValueLength int      `json:"averageValueLength"`
}

// SearchEngine indexes translation records for fuzzy querying. It is not
// safe for concurrent mutation; callers serialize access.
type SearchEngine struct {
	records    []SearchRecord
	threshold  float64
	maxResults int
}

// NewSearchEngine returns an engine with an empty index and default
// threshold and result limit.
func NewSearchEngine() *SearchEngine {
	return &SearchEngine{
		threshold:  defaultSearchThreshold,
		maxResults: defaultMaxResults,
	}
}

// SetThreshold updates the match threshold, silently clamping to [0,1].
func (e *SearchEngine) SetThreshold(threshold float64) {
	e.threshold = math.Max(0, math.Min(1, threshold))
}

// Threshold returns the current match threshold.
func (e *SearchEngine) Threshold() float64 {
	return e.threshold
}

// SetMaxResults updates the default result limit, silently clamping to a
// minimum of 1.
func (e *SearchEngine) SetMaxResults(max int) {
	if max < 1 {
		max = 1
	}
	e.maxResults = max
}

// MaxResults returns the current default result limit.
func (e *SearchEngine) MaxResults() int {
	return e.maxResults
}

// IndexFlatMap replaces the index with one language's translations.
// Records are ordered by key so the index is deterministic.
func (e *SearchEngine) IndexFlatMap(m TranslationMap, languageName string) {
	keys := sortedKeys(m)
	records := make([]SearchRecord, 0, len(keys))
	for i, key := range keys {
		records = append(records, SearchRecord{
			Key:           key,
			Value:         m[key],
			Language:      languageName,
			OriginalIndex: i,
		})
	}
	e.records = records
}

// IndexMultiMap replaces the index with every (key, value, language)
// triple of a multi-language map, ordered by language then key.
func (e *SearchEngine) IndexMultiMap(multi MultiLanguageMap) {
	languages := make([]string, 0, len(multi))
	for lang := range multi {
		languages = append(languages, lang)
	}
	sort.Strings(languages)

	var records []SearchRecord
	index := 0
	for _, lang := range languages {
		for _, key := range sortedKeys(multi[lang]) {
			records = append(records, SearchRecord{
				Key:           key,
				Value:         multi[lang][key],
				Language:      lang,
				OriginalIndex: index,
			})
			index++
		}
	}
	e.records = records
}

// IndexTable replaces the index with one record per (row, language
// column) pair, in table order. Rows with an empty key are skipped.
func (e *SearchEngine) IndexTable(t *Table) {
	if t == nil {
		e.records = nil
		return
	}

	columns := t.LanguageColumns()
	var records []SearchRecord
	index := 0
	for _, row := range t.Rows {
		key := row.Key()
		if key == "" {
			continue
		}
		for _, column := range columns {
			records = append(records, SearchRecord{
				Key:           key,
				Value:         row[column],
				Language:      column,
				OriginalIndex: index,
			})
			index++
		}
	}
	e.records = records
}

// ClearIndex discards all indexed records.
func (e *SearchEngine) ClearIndex() {
	e.records = nil
}

// Records returns a copy of the indexed records.
func (e *SearchEngine) Records() []SearchRecord {
	out := make([]SearchRecord, len(e.records))
	copy(out, e.records)
	return out
}

// Search performs a weighted fuzzy match over both fields of every
// indexed record. limit caps the result count; non-positive uses the
// engine's configured maximum. Results come back in relevance order
// (ascending score); callers wanting a different order sort separately.
func (e *SearchEngine) Search(query string, limit int) []SearchResult {
	if limit <= 0 {
		limit = e.maxResults
	}
	return e.match(query, e.threshold, limit, true, true, e.records)
}

// SearchKeys restricts matching to the key field.
func (e *SearchEngine) SearchKeys(query string, threshold float64) []SearchResult {
	return e.match(query, threshold, e.maxResults, true, false, e.records)
}

// SearchValues restricts matching to the value field.
func (e *SearchEngine) SearchValues(query string, threshold float64) []SearchResult {
	return e.match(query, threshold, e.maxResults, false, true, e.records)
}

// SearchInLanguage searches a transient sub-index scoped to one language.
func (e *SearchEngine) SearchInLanguage(query, languageName string, threshold float64) []SearchResult {
	var scoped []SearchRecord
	for _, r := range e.records {
		if r.Language == languageName {
			scoped = append(scoped, r)
		}
	}
	if len(scoped) == 0 {
		return nil
	}
	return e.match(query, threshold, e.maxResults, true, true, scoped)
}

// ExactMatches returns every record whose key or value contains the query
// as a case-insensitive substring. Scores are fixed at 0.
func (e *SearchEngine) ExactMatches(query string) []SearchResult {
	needle := strings.ToLower(query)
	var results []SearchResult
	for _, r := range e.records {
		if strings.Contains(strings.ToLower(r.Key), needle) ||
			strings.Contains(strings.ToLower(r.Value), needle) {
			results = append(results, SearchResult{
				Key:      r.Key,
				Value:    r.Value,
				Language: r.Language,
				Score:    0,
			})
		}
	}
	return results
}

// Suggestions returns keys and individual value words whose prefix matches
// the partial query case-insensitively, deduplicated and capped at limit.
func (e *SearchEngine) Suggestions(partialQuery string, limit int) []string {
	query := strings.ToLower(strings.TrimSpace(partialQuery))
	if query == "" {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	seen := make(map[string]bool)
	var suggestions []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			suggestions = append(suggestions, s)
		}
	}

	for _, r := range e.records {
		if strings.HasPrefix(strings.ToLower(r.Key), query) {
			add(r.Key)
		}
	}
	for _, r := range e.records {
		for _, word := range strings.Fields(strings.ToLower(r.Value)) {
			if strings.HasPrefix(word, query) && len(word) > len(query) {
				add(word)
			}
		}
	}

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// Stats reports index size, distinct languages, and rounded average key
// and value lengths.
func (e *SearchEngine) Stats() SearchStats {
	stats := SearchStats{}
	seen := make(map[string]bool)

	var keyTotal, valueTotal int
	for _, r := range e.records {
		if !seen[r.Language] {
			seen[r.Language] = true
			stats.Languages = append(stats.Languages, r.Language)
		}
		keyTotal += len(r.Key)
		valueTotal += len(r.Value)
	}

	stats.TotalItems = len(e.records)
	if stats.TotalItems > 0 {
		stats.AverageKeyLength = int(math.Round(float64(keyTotal) / float64(stats.TotalItems)))
		stats.AverageValueLength = int(math.Round(float64(valueTotal) / float64(stats.TotalItems)))
	}
	return stats
}

// match scores records against the query and returns those where at least
// one searched field is within the threshold, ordered by ascending
// weighted score.
func (e *SearchEngine) match(query string, threshold float64, limit int, inKeys, inValues bool, records []SearchRecord) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	threshold = math.Max(0, math.Min(1, threshold))

	var results []SearchResult
	for _, r := range records {
		keyScore, valueScore := 1.0, 1.0
		if inKeys {
			keyScore = fieldScore(query, r.Key)
		}
		if inValues {
			valueScore = fieldScore(query, r.Value)
		}
		if keyScore > threshold && valueScore > threshold {
			continue
		}

		// Weighted combination: an unmatched field contributes a neutral
		// factor of 1, so a perfect hit in either field dominates.
		score := math.Pow(keyScore, keyFieldWeight) * math.Pow(valueScore, valueFieldWeight)

		results = append(results, SearchResult{
			Key:      r.Key,
			Value:    r.Value,
			Language: r.Language,
			Score:    score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// fieldScore rates how well the query matches one field: 0 for an exact
// case-insensitive match, near 0 for substring containment, a normalized
// Levenshtein distance for looser subsequence matches, and 1 for no match.
func fieldScore(query, field string) float64 {
	if field == "" {
		return 1
	}
	if strings.EqualFold(query, field) {
		return 0
	}

	lowerQuery, lowerField := strings.ToLower(query), strings.ToLower(field)
	if strings.Contains(lowerField, lowerQuery) {
		// Scale by how much of the field the query covers; a longer hit in
		// a shorter field is a better match.
		coverage := float64(len(lowerQuery)) / float64(len(lowerField))
		return substringScoreCeiling * (1 - coverage)
	}

	rank := fuzzy.RankMatchNormalizedFold(query, field)
	if rank < 0 {
		return 1
	}

	denom := len([]rune(field))
	if q := len([]rune(query)); q > denom {
		denom = q
	}
	if denom == 0 {
		return 1
	}
	return math.Min(1, float64(rank)/float64(denom))
}

// SortByScore orders results best-first (ascending score), stably.
func SortByScore(results []SearchResult) []SearchResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})
	return results
}

// SortByKey orders results alphabetically by key.
func SortByKey(results []SearchResult) []SearchResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Key < results[j].Key
	})
	return results
}

// FilterByLanguage keeps only results for the given language.
func FilterByLanguage(results []SearchResult, languageName string) []SearchResult {
	var out []SearchResult
	for _, r := range results {
		if r.Language == languageName {
			out = append(out, r)
		}
	}
	return out
}

// UniqueKeys returns the distinct keys across results, in result order.
func UniqueKeys(results []SearchResult) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, r := range results {
		if !seen[r.Key] {
			seen[r.Key] = true
			keys = append(keys, r.Key)
		}
	}
	return keys
}
