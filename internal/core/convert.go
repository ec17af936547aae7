package core

// convert.go is the bidirectional JSON<->CSV transform layer.
//
// All conversions are pure functions over their inputs; the only state a
// Converter carries is the read-only language catalog and an optional
// bounded LRU cache for the map-of-maps -> Table transform. The cache is
// owned by the Converter's creator and sized at construction, so there is
// no hidden module-level memoization to leak across sessions.
//
// Ordering is deterministic everywhere: the key column first, the default
// language's column next, remaining languages in caller order, and rows
// sorted ascending by key.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sagsagg/translation-tools/internal/language"
)

// Converter transforms translation data between the flat map, multi
// language map, and table representations and serializes them for export.
type Converter struct {
	catalog    *language.Catalog
	tableCache *lru.Cache[string, *Table]
}

// NewConverter creates a Converter over the given catalog. cacheSize
// bounds the transform cache; zero or negative disables caching.
func NewConverter(catalog *language.Catalog, cacheSize int) *Converter {
	c := &Converter{catalog: catalog}
	if cacheSize > 0 {
		// lru.New only fails for non-positive sizes, which are excluded here.
		c.tableCache, _ = lru.New[string, *Table](cacheSize)
	}
	return c
}

// Catalog returns the converter's language catalog.
func (c *Converter) Catalog() *language.Catalog {
	return c.catalog
}

// SingleMapToCSV renders one language's translations as a two-column CSV
// (Key plus the language's display name). Rows are sorted by key.
func (c *Converter) SingleMapToCSV(m TranslationMap, languageName string) string {
	if languageName == "" {
		languageName = c.catalog.Default().Name
	}

	keys := sortedKeys(m)
	records := make([][]string, 0, len(keys)+1)
	records = append(records, []string{KeyColumn, languageName})
	for _, key := range keys {
		records = append(records, []string{key, m[key]})
	}

	return writeCSV(records)
}

// MultiMapToCSV renders a multi-language map as a wide CSV with one column
// per language. The default language is moved to the front of the supplied
// language order; rows are the sorted union of all keys across languages,
// and missing translations render as empty strings, never omitted.
func (c *Converter) MultiMapToCSV(multi MultiLanguageMap, languages []language.Language) string {
	ordered := c.defaultLanguageFirst(languages)

	headers := make([]string, 0, len(ordered)+1)
	headers = append(headers, KeyColumn)
	for _, lang := range ordered {
		headers = append(headers, lang.Name)
	}

	allKeys := unionOfKeys(multi)

	records := make([][]string, 0, len(allKeys)+1)
	records = append(records, headers)
	for _, key := range allKeys {
		record := make([]string, 0, len(ordered)+1)
		record = append(record, key)
		for _, lang := range ordered {
			record = append(record, multi[lang.Code][key])
		}
		records = append(records, record)
	}

	return writeCSV(records)
}

// MergeToCSV renders per-language maps merged from separate files as one
// CSV. Unlike MultiMapToCSV it does not take a column order: language
// columns appear in ascending alphabetical order of their file-form
// display names (spaces as underscores, "Chinese_Simplified"), matching
// the merged-download convention. Rows are the sorted union of all keys;
// missing translations render as empty strings.
func (c *Converter) MergeToCSV(multi MultiLanguageMap) string {
	names := make([]string, 0, len(multi))
	codeByName := make(map[string]string, len(multi))
	for code := range multi {
		name := c.catalog.FileNameForCode(code)
		names = append(names, name)
		codeByName[name] = code
	}
	sort.Strings(names)

	records := make([][]string, 0, 1)
	records = append(records, append([]string{KeyColumn}, names...))
	for _, key := range unionOfKeys(multi) {
		record := make([]string, 0, len(names)+1)
		record = append(record, key)
		for _, name := range names {
			record = append(record, multi[codeByName[name]][key])
		}
		records = append(records, record)
	}

	return writeCSV(records)
}

// CSVToSingleMap extracts one language column from a table as a flat
// translation map. An empty targetLanguage selects the first non-key
// column. Rows with an empty key or an empty value for the selected column
// are excluded entirely rather than kept as empty strings; a blank CSV
// cell means "untranslated" and must not appear in JSON output.
func (c *Converter) CSVToSingleMap(t *Table, targetLanguage string) (TranslationMap, error) {
	if t == nil {
		return nil, fmt.Errorf("no language column found in CSV")
	}

	column := targetLanguage
	if column == "" {
		cols := t.LanguageColumns()
		if len(cols) == 0 {
			return nil, fmt.Errorf("no language column found in CSV")
		}
		column = cols[0]
	}

	result := make(TranslationMap)
	for _, row := range t.Rows {
		key := strings.TrimSpace(row.Key())
		value := strings.TrimSpace(row[column])
		if key != "" && value != "" {
			result[key] = value
		}
	}

	return result, nil
}

// CSVToMultiMap extracts every language column of a table into a
// multi-language map. Map keys are normalized language codes derived from
// the column display names via the catalog; this is the one place display
// names are translated to codes. Column names the catalog does not know
// pass through as-is.
func (c *Converter) CSVToMultiMap(t *Table) (MultiLanguageMap, error) {
	columns := t.LanguageColumns()
	if len(columns) == 0 {
		return nil, fmt.Errorf("no language column found in CSV")
	}

	result := make(MultiLanguageMap, len(columns))
	for _, column := range columns {
		data, err := c.CSVToSingleMap(t, column)
		if err != nil {
			return nil, err
		}
		result[c.catalog.MapNameToCode(column)] = data
	}

	return result, nil
}

// MultiMapToTable builds the wide table form of a multi-language map:
// headers are Key plus the display name of each language (default language
// first), rows are the sorted union of keys with missing translations as
// empty strings. Results are served from the bounded cache when the same
// inputs repeat.
func (c *Converter) MultiMapToTable(multi MultiLanguageMap, languages []language.Language) *Table {
	ordered := c.defaultLanguageFirst(languages)

	cacheKey := ""
	if c.tableCache != nil {
		cacheKey = tableCacheKey(multi, ordered)
		if cached, ok := c.tableCache.Get(cacheKey); ok {
			return cached.Clone()
		}
	}

	headers := make([]string, 0, len(ordered)+1)
	headers = append(headers, KeyColumn)
	for _, lang := range ordered {
		headers = append(headers, lang.Name)
	}

	allKeys := unionOfKeys(multi)
	rows := make([]Row, 0, len(allKeys))
	for _, key := range allKeys {
		row := make(Row, len(headers))
		row[KeyColumn] = key
		for _, lang := range ordered {
			row[lang.Name] = multi[lang.Code][key]
		}
		rows = append(rows, row)
	}

	t := &Table{Headers: headers, Rows: rows}
	if c.tableCache != nil {
		c.tableCache.Add(cacheKey, t.Clone())
	}
	return t
}

// FilterTableColumns projects a table onto the key column plus the given
// language columns. Rows are reprojected so every row still carries every
// remaining header; the input table is untouched.
func FilterTableColumns(t *Table, languages []string) *Table {
	if t == nil {
		return nil
	}

	headers := make([]string, 0, len(languages)+1)
	headers = append(headers, KeyColumn)
	headers = append(headers, languages...)

	rows := make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		projected := make(Row, len(headers))
		for _, h := range headers {
			projected[h] = row[h]
		}
		rows = append(rows, projected)
	}

	return &Table{Headers: headers, Rows: rows}
}

// MarshalTranslationMap renders a translation map as pretty-printed JSON
// (2-space indent, sorted keys, no HTML escaping).
func MarshalTranslationMap(m TranslationMap) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ExportFileName returns the conventional export filename for a language
// code: translations_{DisplayName}.json with spaces as underscores.
func (c *Converter) ExportFileName(code string) string {
	return fmt.Sprintf("translations_%s.json", c.catalog.FileNameForCode(code))
}

// ValidateOptions checks that conversion options are complete: both
// formats set and different, and at least one language specified.
func (c *Converter) ValidateOptions(opts ConversionOptions) OptionsValidation {
	var errs []string

	if opts.SourceFormat == "" || opts.TargetFormat == "" {
		errs = append(errs, "Source and target formats are required")
	}
	if opts.SourceFormat == opts.TargetFormat {
		errs = append(errs, "Source and target formats cannot be the same")
	}
	if len(opts.Languages) == 0 {
		errs = append(errs, "At least one language must be specified")
	}

	return OptionsValidation{Valid: len(errs) == 0, Errors: errs}
}

// Preview renders a truncated view of the conversion result: the first
// maxRows lines of CSV output or the first maxRows entries of JSON output,
// with a continuation marker when truncated. Unsupported combinations
// return a short explanatory string rather than an error.
func (c *Converter) Preview(data Dataset, opts ConversionOptions, maxRows int) string {
	if maxRows <= 0 {
		maxRows = 10
	}

	switch {
	case opts.SourceFormat == FormatJSON && opts.TargetFormat == FormatCSV:
		if data.Kind != KindFlatMap {
			return "Invalid JSON data"
		}
		lang := c.catalog.Default()
		if len(opts.Languages) > 0 {
			lang = opts.Languages[0]
		}
		csvContent := c.SingleMapToCSV(data.FlatMap, lang.Name)
		lines := strings.Split(csvContent, "\n")
		if len(lines) > maxRows+1 {
			return strings.Join(lines[:maxRows+1], "\n") + "\n..."
		}
		return csvContent

	case opts.SourceFormat == FormatCSV && opts.TargetFormat == FormatJSON:
		if data.Kind != KindTable || data.Table == nil {
			return "Invalid CSV data"
		}
		target := ""
		if len(opts.Languages) > 0 {
			target = opts.Languages[0].Name
		}
		m, err := c.CSVToSingleMap(data.Table, target)
		if err != nil {
			return fmt.Sprintf("Preview error: %s", err)
		}

		keys := sortedKeys(m)
		truncated := len(keys) > maxRows
		if truncated {
			keys = keys[:maxRows]
		}
		limited := make(TranslationMap, len(keys))
		for _, k := range keys {
			limited[k] = m[k]
		}

		rendered, err := MarshalTranslationMap(limited)
		if err != nil {
			return fmt.Sprintf("Preview error: %s", err)
		}
		preview := string(rendered)
		if truncated {
			preview = strings.TrimSuffix(preview, "\n}") + ",\n  \"...\": \"...\"\n}"
		}
		return preview
	}

	return "Preview not available"
}

// EstimateOutputSize approximates the conversion result size from average
// key/value lengths and row/column counts. The result is advisory only.
func (c *Converter) EstimateOutputSize(data Dataset, opts ConversionOptions) SizeEstimate {
	var estimatedBytes float64

	switch {
	case opts.SourceFormat == FormatJSON && opts.TargetFormat == FormatCSV:
		if data.Kind != KindFlatMap || len(data.FlatMap) == 0 {
			break
		}
		var keyTotal, valueTotal int
		for k, v := range data.FlatMap {
			keyTotal += len(k)
			valueTotal += len(v)
		}
		entries := float64(len(data.FlatMap))
		avgKey := float64(keyTotal) / entries
		avgValue := float64(valueTotal) / entries

		headerSize := 10.0
		for _, lang := range opts.Languages {
			headerSize += float64(len(lang.Name))
		}
		estimatedBytes = headerSize + (avgKey+avgValue*float64(len(opts.Languages))+10)*entries

	case opts.SourceFormat == FormatCSV && opts.TargetFormat == FormatJSON:
		if data.Kind != KindTable || data.Table == nil || len(data.Table.Rows) == 0 {
			break
		}
		var keyTotal, valueTotal, valueCount int
		for _, row := range data.Table.Rows {
			keyTotal += len(row.Key())
			for h, v := range row {
				if h != KeyColumn {
					valueTotal += len(v)
					valueCount++
				}
			}
		}
		rowCount := float64(len(data.Table.Rows))
		avgKey := float64(keyTotal) / rowCount
		avgValue := 0.0
		if valueCount > 0 {
			avgValue = float64(valueTotal) / float64(valueCount)
		}
		estimatedBytes = (avgKey + avgValue + 20) * rowCount * float64(len(opts.Languages))
	}

	switch {
	case estimatedBytes < 1024:
		return SizeEstimate{Size: int(estimatedBytes), Unit: "bytes"}
	case estimatedBytes < 1024*1024:
		return SizeEstimate{Size: int(estimatedBytes/1024 + 0.5), Unit: "KB"}
	default:
		return SizeEstimate{Size: int(estimatedBytes/(1024*1024) + 0.5), Unit: "MB"}
	}
}

// defaultLanguageFirst moves the catalog's default language to the front,
// keeping the relative order of the rest.
func (c *Converter) defaultLanguageFirst(languages []language.Language) []language.Language {
	defaultName := c.catalog.Default().Name

	var front *language.Language
	rest := make([]language.Language, 0, len(languages))
	for _, lang := range languages {
		if front == nil && strings.EqualFold(lang.Name, defaultName) {
			l := lang
			front = &l
			continue
		}
		rest = append(rest, lang)
	}

	if front == nil {
		return rest
	}
	return append([]language.Language{*front}, rest...)
}

// unionOfKeys returns the sorted union of keys across all languages.
func unionOfKeys(multi MultiLanguageMap) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, data := range multi {
		for key := range data {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// sortedKeys returns the map's keys in ascending order.
func sortedKeys(m TranslationMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// tableCacheKey fingerprints the transform inputs. json.Marshal emits map
// keys in sorted order, so equal inputs always produce equal keys.
func tableCacheKey(multi MultiLanguageMap, languages []language.Language) string {
	data, err := json.Marshal(multi)
	if err != nil {
		return ""
	}
	codes := make([]string, len(languages))
	for i, lang := range languages {
		codes[i] = lang.Code
	}
	return string(data) + "|" + strings.Join(codes, ",")
}
