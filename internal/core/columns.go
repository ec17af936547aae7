package core

// columns.go manages language columns on a table.
//
// Both operations are copy-on-write: they return a new table and leave the
// input untouched. After either operation the table invariant holds: no
// duplicate headers, and every row's key set equals the header set.

import (
	"fmt"

	"github.com/sagsagg/translation-tools/internal/language"
)

// AddLanguageColumn appends a column for the language's display name and
// fills every existing row from seed (keyed by row key), defaulting to the
// empty string. A nil table and an already-present column are safe no-ops;
// adding the same language twice yields the same table as adding it once.
// Zero-row tables still get the header.
func AddLanguageColumn(t *Table, lang language.Language, seed TranslationMap) *Table {
	if t == nil {
		return nil
	}
	if t.HasHeader(lang.Name) {
		return t.Clone()
	}

	out := t.Clone()
	out.Headers = append(out.Headers, lang.Name)
	for _, row := range out.Rows {
		row[lang.Name] = seed[row.Key()]
	}
	return out
}

// RemoveLanguageColumn removes the named column from the headers and from
// every row. A nil table and an absent column are safe no-ops. The key
// column cannot be removed.
func RemoveLanguageColumn(t *Table, name string) *Table {
	if t == nil {
		return nil
	}
	if isKeyHeader(name) || !t.HasHeader(name) {
		return t.Clone()
	}

	out := &Table{
		Headers: make([]string, 0, len(t.Headers)-1),
		Rows:    make([]Row, len(t.Rows)),
	}
	for _, h := range t.Headers {
		if h != name {
			out.Headers = append(out.Headers, h)
		}
	}
	for i, row := range t.Rows {
		clone := row.Clone()
		delete(clone, name)
		out.Rows[i] = clone
	}
	return out
}

// ValidateTableShape verifies the structural invariant: headers are
// unique, and every row carries exactly the header set as its keys.
// Returns nil for a nil table.
func ValidateTableShape(t *Table) error {
	if t == nil {
		return nil
	}

	seen := make(map[string]bool, len(t.Headers))
	for _, h := range t.Headers {
		if seen[h] {
			return fmt.Errorf("duplicate header %q", h)
		}
		seen[h] = true
	}

	for i, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return fmt.Errorf("row %d has %d cells, expected %d", i+1, len(row), len(t.Headers))
		}
		for h := range row {
			if !seen[h] {
				return fmt.Errorf("row %d has cell %q not present in headers", i+1, h)
			}
		}
	}

	return nil
}
