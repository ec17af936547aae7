package core

import (
	"reflect"
	"testing"
)

func TestTranslationStats(t *testing.T) {
	multi := MultiLanguageMap{
		"en": {"app.title": "My App", "app.save": "Save", "app.cancel": "Cancel"},
		"id": {"app.title": "Aplikasi", "app.save": ""},
	}

	stats := TranslationStats(multi)
	if len(stats) != 2 {
		t.Fatalf("len(stats) = %d, want 2", len(stats))
	}

	en, id := stats[0], stats[1]
	if en.Language != "en" || id.Language != "id" {
		t.Fatalf("languages not sorted: %q, %q", en.Language, id.Language)
	}

	if en.TotalKeys != 3 || en.CompletedKeys != 3 || en.EmptyKeys != 0 || en.MissingKeys != 0 {
		t.Errorf("en stats = %+v", en)
	}
	if en.CompletionPercent != 100 {
		t.Errorf("en CompletionPercent = %v, want 100", en.CompletionPercent)
	}

	if id.TotalKeys != 3 || id.CompletedKeys != 1 || id.EmptyKeys != 1 || id.MissingKeys != 1 {
		t.Errorf("id stats = %+v", id)
	}
	wantMissing := []string{"app.cancel", "app.save"}
	if !reflect.DeepEqual(id.MissingTranslation, wantMissing) {
		t.Errorf("id MissingTranslation = %v, want %v", id.MissingTranslation, wantMissing)
	}
}

func TestTranslationStatsEmptyMap(t *testing.T) {
	if got := TranslationStats(MultiLanguageMap{}); len(got) != 0 {
		t.Errorf("stats = %v, want empty", got)
	}
}

func TestMissingTranslations(t *testing.T) {
	multi := MultiLanguageMap{
		"en": {"a": "1", "b": "2"},
		"id": {"a": "1"},
	}

	missing := MissingTranslations(multi)
	if len(missing["en"]) != 0 {
		t.Errorf("en missing = %v, want none", missing["en"])
	}
	if !reflect.DeepEqual(missing["id"], []string{"b"}) {
		t.Errorf("id missing = %v, want [b]", missing["id"])
	}
}
