// Package core implements the format-conversion and tabular-data
// transformation engine for translation assets. This package has no UI or
// HTTP dependencies and can be driven by any frontend.
//
// The same conceptual data exists in three representations:
//
//   - TranslationMap: one language, key -> value
//   - MultiLanguageMap: language code -> TranslationMap
//   - Table: wide CSV-shaped form, one column per language
//
// Conversion between them is handled by Converter; structural mutations by
// the edit/delete functions and the language-column helpers. All mutating
// operations are copy-on-write at the top level: they return a new
// container and never assume the caller shares the old reference.
package core

import "github.com/sagsagg/translation-tools/internal/language"

// KeyColumn is the canonical spelling of the key column header. Input
// accepts any capitalization of "key"; output always uses this form.
const KeyColumn = "Key"

// TranslationMap holds translations for a single language.
// Keys are unique, non-empty translation identifiers.
type TranslationMap map[string]string

// Clone returns a shallow copy of the map. Returns nil for a nil map.
func (m TranslationMap) Clone() TranslationMap {
	if m == nil {
		return nil
	}
	out := make(TranslationMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// MultiLanguageMap maps language codes to their translation maps.
// Sub-maps never alias each other: mutating one language's map must not
// affect another's.
type MultiLanguageMap map[string]TranslationMap

// Clone returns a copy with every sub-map cloned.
func (m MultiLanguageMap) Clone() MultiLanguageMap {
	if m == nil {
		return nil
	}
	out := make(MultiLanguageMap, len(m))
	for lang, data := range m {
		out[lang] = data.Clone()
	}
	return out
}

// Row is a single table row: header name -> cell value. Every row contains
// a value (possibly empty) for every header in the table.
type Row map[string]string

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Key returns the row's key-column value.
func (r Row) Key() string {
	return r[KeyColumn]
}

// Table is the wide, CSV-shaped representation: ordered headers with the
// key column first, and one row per translation key.
type Table struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// Clone returns a copy with fresh header and row containers. Cell values
// are strings and shared; this is the top-level copy that copy-on-write
// operations build on.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		Headers: make([]string, len(t.Headers)),
		Rows:    make([]Row, len(t.Rows)),
	}
	copy(out.Headers, t.Headers)
	for i, row := range t.Rows {
		out.Rows[i] = row.Clone()
	}
	return out
}

// LanguageColumns returns all non-key headers in order.
func (t *Table) LanguageColumns() []string {
	if t == nil {
		return nil
	}
	var cols []string
	for _, h := range t.Headers {
		if !isKeyHeader(h) {
			cols = append(cols, h)
		}
	}
	return cols
}

// HasHeader reports whether the table contains the exact header.
func (t *Table) HasHeader(name string) bool {
	if t == nil {
		return false
	}
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// isKeyHeader reports whether the header is the key column under any
// capitalization.
func isKeyHeader(h string) bool {
	return len(h) == 3 && (h[0] == 'k' || h[0] == 'K') &&
		(h[1] == 'e' || h[1] == 'E') && (h[2] == 'y' || h[2] == 'Y')
}

// DatasetKind discriminates which representation a Dataset carries.
// The kind is explicit rather than inferred from the data's shape.
type DatasetKind string

const (
	KindFlatMap  DatasetKind = "flatMap"
	KindTable    DatasetKind = "table"
	KindMultiMap DatasetKind = "multiMap"
)

// Dataset is the tagged union handed between the upload pipeline, the
// holding store, and the engines. Exactly one of the payload fields is set,
// matching Kind. FlatMapCode records which language a flat map belongs to
// so a later upload can promote it to the multi-language form.
type Dataset struct {
	Kind        DatasetKind      `json:"kind"`
	FlatMap     TranslationMap   `json:"flatMap,omitempty"`
	FlatMapCode string           `json:"flatMapCode,omitempty"`
	Table       *Table           `json:"table,omitempty"`
	MultiMap    MultiLanguageMap `json:"multiMap,omitempty"`
}

// FileFormat identifies an import/export format.
type FileFormat string

const (
	FormatJSON FileFormat = "json"
	FormatCSV  FileFormat = "csv"
)

// IssueType classifies a validation problem.
type IssueType string

const (
	IssueSyntax     IssueType = "syntax"
	IssueStructure  IssueType = "structure"
	IssueMissing    IssueType = "missing"
	IssueDuplicate  IssueType = "duplicate"
	IssueEmptyValue IssueType = "empty_value"
)

// ValidationIssue is a single error or warning found during validation.
// Line is 1-indexed and zero when no row context applies.
type ValidationIssue struct {
	Type    IssueType `json:"type"`
	Message string    `json:"message"`
	Line    int       `json:"line,omitempty"`
	Key     string    `json:"key,omitempty"`
}

// ValidationResult is the outcome of validating raw input. Warnings do not
// affect Valid; only errors do.
type ValidationResult struct {
	Valid    bool              `json:"isValid"`
	Errors   []ValidationIssue `json:"errors"`
	Warnings []ValidationIssue `json:"warnings"`
}

// addError appends an error and marks the result invalid.
func (r *ValidationResult) addError(issue ValidationIssue) {
	r.Valid = false
	r.Errors = append(r.Errors, issue)
}

// addWarning appends a non-fatal warning.
func (r *ValidationResult) addWarning(issue ValidationIssue) {
	r.Warnings = append(r.Warnings, issue)
}

// EditRequest describes a requested edit: rename OriginalKey to NewKey
// (they may be equal) and set NewValue, optionally scoped to one language.
type EditRequest struct {
	OriginalKey   string `json:"originalKey"`
	OriginalValue string `json:"originalValue"`
	NewKey        string `json:"newKey"`
	NewValue      string `json:"newValue"`
	Language      string `json:"language,omitempty"`
}

// DeleteRequest describes a requested deletion, optionally scoped to one
// language. For a MultiLanguageMap an empty Language removes the key from
// every language.
type DeleteRequest struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Language string `json:"language,omitempty"`
}

// EditResult is the uniform outcome of an edit operation. Expected failure
// modes (not found, already exists) set Error instead of panicking.
type EditResult struct {
	Success bool         `json:"success"`
	Data    *EditRequest `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// DeleteResult is the uniform outcome of a delete operation.
type DeleteResult struct {
	Success bool           `json:"success"`
	Data    *DeleteRequest `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// ConversionOptions selects a conversion path and the languages involved.
type ConversionOptions struct {
	SourceFormat FileFormat          `json:"sourceFormat"`
	TargetFormat FileFormat          `json:"targetFormat"`
	Languages    []language.Language `json:"languages"`

	// IncludeEmptyValues is advisory for collaborators rendering previews;
	// CSV->JSON conversion always drops empty values (see CSVToSingleMap).
	IncludeEmptyValues bool `json:"includeEmptyValues"`
}

// OptionsValidation reports whether conversion options are usable.
type OptionsValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// SizeEstimate is an advisory approximation of conversion output size.
type SizeEstimate struct {
	Size int    `json:"estimatedSize"`
	Unit string `json:"unit"` // "bytes", "KB" or "MB"
}

// SearchRecord is the flattened projection the search engine indexes.
// It is derived and disposable, never the source of truth.
type SearchRecord struct {
	Key           string `json:"key"`
	Value         string `json:"value"`
	Language      string `json:"language"`
	OriginalIndex int    `json:"originalIndex"`
}

// SearchResult is one search hit. Score follows the fuzzy-matching
// convention: 0 is a perfect match, higher is worse.
type SearchResult struct {
	Key      string  `json:"key"`
	Value    string  `json:"value"`
	Language string  `json:"language"`
	Score    float64 `json:"score"`
}
