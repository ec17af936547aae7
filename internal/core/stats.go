package core

// stats.go computes per-language completeness figures for a
// multi-language dataset.

import (
	"sort"
	"strings"
)

// LanguageStats describes one language's coverage of the full key set.
type LanguageStats struct {
	Language           string   `json:"language"`
	TotalKeys          int      `json:"totalKeys"`
	CompletedKeys      int      `json:"completedKeys"`
	EmptyKeys          int      `json:"emptyKeys"`
	MissingKeys        int      `json:"missingKeys"`
	CompletionPercent  float64  `json:"completionPercent"`
	MissingTranslation []string `json:"missingTranslations,omitempty"`
}

// TranslationStats reports, for every language in the map, how many keys
// of the union key set are translated, present but empty, or absent
// entirely. Languages and missing-key lists come back sorted.
func TranslationStats(multi MultiLanguageMap) []LanguageStats {
	allKeys := unionOfKeys(multi)

	languages := make([]string, 0, len(multi))
	for lang := range multi {
		languages = append(languages, lang)
	}
	sort.Strings(languages)

	stats := make([]LanguageStats, 0, len(languages))
	for _, lang := range languages {
		s := LanguageStats{
			Language:  lang,
			TotalKeys: len(allKeys),
		}
		for _, key := range allKeys {
			value, ok := multi[lang][key]
			switch {
			case ok && strings.TrimSpace(value) != "":
				s.CompletedKeys++
			case ok:
				s.EmptyKeys++
				s.MissingTranslation = append(s.MissingTranslation, key)
			default:
				s.MissingKeys++
				s.MissingTranslation = append(s.MissingTranslation, key)
			}
		}
		if s.TotalKeys > 0 {
			s.CompletionPercent = float64(s.CompletedKeys) / float64(s.TotalKeys) * 100
		}
		stats = append(stats, s)
	}

	return stats
}

// MissingTranslations returns, per language, the sorted keys that are
// absent or empty in that language but present somewhere in the map.
func MissingTranslations(multi MultiLanguageMap) map[string][]string {
	allKeys := unionOfKeys(multi)
	missing := make(map[string][]string, len(multi))

	for lang, sub := range multi {
		for _, key := range allKeys {
			if value, ok := sub[key]; !ok || strings.TrimSpace(value) == "" {
				missing[lang] = append(missing[lang], key)
			}
		}
	}

	return missing
}
