package core

import (
	"reflect"
	"testing"
)

func indexedEngine() *SearchEngine {
	e := NewSearchEngine()
	e.IndexMultiMap(MultiLanguageMap{
		"en": {
			"app.title":    "Application portal",
			"app.save":     "Save changes",
			"user.profile": "Profile",
		},
		"id": {
			"app.title": "Portal aplikasi",
		},
	})
	return e
}

func TestSearchEngineDefaults(t *testing.T) {
	e := NewSearchEngine()
	if got := e.Threshold(); got != 0.3 {
		t.Errorf("Threshold() = %v, want 0.3", got)
	}
	if got := e.MaxResults(); got != 100 {
		t.Errorf("MaxResults() = %v, want 100", got)
	}
}

func TestSearchEngineClamping(t *testing.T) {
	e := NewSearchEngine()

	e.SetThreshold(-0.5)
	if got := e.Threshold(); got != 0 {
		t.Errorf("Threshold() = %v, want 0", got)
	}
	e.SetThreshold(1.7)
	if got := e.Threshold(); got != 1 {
		t.Errorf("Threshold() = %v, want 1", got)
	}

	e.SetMaxResults(0)
	if got := e.MaxResults(); got != 1 {
		t.Errorf("MaxResults() = %v, want 1", got)
	}
	e.SetMaxResults(-10)
	if got := e.MaxResults(); got != 1 {
		t.Errorf("MaxResults() = %v, want 1", got)
	}
}

func TestIndexFlatMapIsDeterministic(t *testing.T) {
	m := TranslationMap{"b": "2", "a": "1", "c": "3"}

	e := NewSearchEngine()
	e.IndexFlatMap(m, "English")
	first := e.Records()
	e.IndexFlatMap(m, "English")
	second := e.Records()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("indexing twice differs:\n%v\n%v", first, second)
	}
	if first[0].Key != "a" || first[2].Key != "c" {
		t.Errorf("records not in key order: %v", first)
	}
}

func TestSearchExactKey(t *testing.T) {
	e := indexedEngine()

	results := e.Search("app.title", 0)
	if len(results) == 0 {
		t.Fatal("no results for exact key")
	}
	if results[0].Score != 0 {
		t.Errorf("exact match score = %v, want 0", results[0].Score)
	}
	if results[0].Key != "app.title" {
		t.Errorf("top result key = %q, want app.title", results[0].Key)
	}
}

func TestSearchSubstring(t *testing.T) {
	e := indexedEngine()

	results := e.Search("app", 0)
	keys := UniqueKeys(results)

	wantPresent := map[string]bool{"app.title": true, "app.save": true}
	for _, key := range keys {
		delete(wantPresent, key)
	}
	if len(wantPresent) > 0 {
		t.Errorf("missing expected keys %v in results %v", wantPresent, keys)
	}

	for _, r := range results {
		if r.Key == "user.profile" {
			t.Error("unrelated key matched substring query")
		}
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	e := indexedEngine()
	if got := e.Search("   ", 0); got != nil {
		t.Errorf("Search(blank) = %v, want nil", got)
	}
}

func TestSearchLimit(t *testing.T) {
	e := indexedEngine()
	results := e.Search("app", 1)
	if len(results) != 1 {
		t.Errorf("len(results) = %d, want 1", len(results))
	}
}

func TestSearchResultsOrderedByScore(t *testing.T) {
	e := indexedEngine()
	results := e.Search("app.title", 0)
	for i := 1; i < len(results); i++ {
		if results[i].Score < results[i-1].Score {
			t.Fatalf("results not in ascending score order: %v", results)
		}
	}
}

func TestSearchKeysIgnoresValues(t *testing.T) {
	e := NewSearchEngine()
	e.IndexFlatMap(TranslationMap{
		"app.title": "portal",
		"unrelated": "app portal",
	}, "English")

	results := e.SearchKeys("app", 0.3)
	for _, r := range results {
		if r.Key == "unrelated" {
			t.Error("value-only match returned by SearchKeys")
		}
	}
	if len(results) == 0 {
		t.Error("key match not returned")
	}
}

func TestSearchValuesIgnoresKeys(t *testing.T) {
	e := NewSearchEngine()
	e.IndexFlatMap(TranslationMap{
		"app.title": "portal",
		"unrelated": "app portal",
	}, "English")

	results := e.SearchValues("app", 0.3)
	if len(results) != 1 || results[0].Key != "unrelated" {
		t.Errorf("results = %v, want only the value match", results)
	}
}

func TestSearchInLanguage(t *testing.T) {
	e := indexedEngine()

	results := e.SearchInLanguage("app.title", "id", 0.3)
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].Language != "id" {
		t.Errorf("Language = %q, want id", results[0].Language)
	}

	if got := e.SearchInLanguage("app.title", "fr", 0.3); got != nil {
		t.Errorf("unknown language results = %v, want nil", got)
	}
}

func TestExactMatches(t *testing.T) {
	e := indexedEngine()

	results := e.ExactMatches("PORTAL")
	if len(results) == 0 {
		t.Fatal("case-insensitive substring found nothing")
	}
	for _, r := range results {
		if r.Score != 0 {
			t.Errorf("exact match score = %v, want 0", r.Score)
		}
	}
}

func TestSuggestions(t *testing.T) {
	e := indexedEngine()

	got := e.Suggestions("app", 10)
	if len(got) == 0 {
		t.Fatal("no suggestions for common prefix")
	}

	seen := make(map[string]bool)
	for _, s := range got {
		if seen[s] {
			t.Errorf("duplicate suggestion %q", s)
		}
		seen[s] = true
	}
	if !seen["app.title"] {
		t.Errorf("suggestions %v missing key prefix match", got)
	}
	if !seen["application"] {
		t.Errorf("suggestions %v missing value word match", got)
	}

	if limited := e.Suggestions("app", 1); len(limited) != 1 {
		t.Errorf("len(limited) = %d, want 1", len(limited))
	}
	if blank := e.Suggestions("  ", 10); blank != nil {
		t.Errorf("Suggestions(blank) = %v, want nil", blank)
	}
}

func TestSearchStats(t *testing.T) {
	e := NewSearchEngine()
	e.IndexMultiMap(MultiLanguageMap{
		"en": {"ab": "abcd"},
		"id": {"ab": "ab"},
	})

	stats := e.Stats()
	if stats.TotalItems != 2 {
		t.Errorf("TotalItems = %d, want 2", stats.TotalItems)
	}
	if !reflect.DeepEqual(stats.Languages, []string{"en", "id"}) {
		t.Errorf("Languages = %v, want [en id]", stats.Languages)
	}
	if stats.AverageKeyLength != 2 {
		t.Errorf("AverageKeyLength = %d, want 2", stats.AverageKeyLength)
	}
	if stats.AverageValueLength != 3 {
		t.Errorf("AverageValueLength = %d, want 3", stats.AverageValueLength)
	}
}

func TestClearIndex(t *testing.T) {
	e := indexedEngine()
	e.ClearIndex()
	if got := e.Search("app", 0); got != nil {
		t.Errorf("search after clear = %v, want nil", got)
	}
	if stats := e.Stats(); stats.TotalItems != 0 {
		t.Errorf("TotalItems = %d, want 0", stats.TotalItems)
	}
}

func TestIndexTableSkipsEmptyKeys(t *testing.T) {
	e := NewSearchEngine()
	e.IndexTable(&Table{
		Headers: []string{"Key", "English"},
		Rows: []Row{
			{"Key": "app.title", "English": "My App"},
			{"Key": "", "English": "orphan"},
		},
	})
	if got := len(e.Records()); got != 1 {
		t.Errorf("len(records) = %d, want 1", got)
	}
}

func TestResultHelpers(t *testing.T) {
	results := []SearchResult{
		{Key: "b", Language: "en", Score: 0.2},
		{Key: "a", Language: "id", Score: 0.1},
		{Key: "b", Language: "id", Score: 0.3},
	}

	byScore := SortByScore(append([]SearchResult{}, results...))
	if byScore[0].Score != 0.1 {
		t.Errorf("SortByScore first = %v", byScore[0])
	}

	byKey := SortByKey(append([]SearchResult{}, results...))
	if byKey[0].Key != "a" {
		t.Errorf("SortByKey first = %v", byKey[0])
	}

	id := FilterByLanguage(results, "id")
	if len(id) != 2 {
		t.Errorf("len(FilterByLanguage) = %d, want 2", len(id))
	}

	keys := UniqueKeys(results)
	if !reflect.DeepEqual(keys, []string{"b", "a"}) {
		t.Errorf("UniqueKeys = %v, want [b a]", keys)
	}
}
