package core

// editor.go implements structural edit and delete operations across the
// three data representations.
//
// Every operation returns the updated container alongside a uniform result
// value: expected failures (key not found, rename collision) set the Error
// field, and the original container is returned unchanged. Successful
// operations are copy-on-write: the returned container is a new top-level
// value so callers relying on reference comparison observe the update.

import "regexp"

// Error strings for expected edit/delete failures. These are stable,
// user-visible messages, matched verbatim by collaborators.
const (
	errKeyNotFound      = "Translation key not found"
	errKeyNotFoundCSV   = "Translation key not found in CSV data"
	errOrigNotFound     = "Original translation key not found"
	errOrigNotFoundCSV  = "Original translation key not found in CSV data"
	errNewKeyExists     = "New translation key already exists"
	errNewKeyExistsCSV  = "New translation key already exists in CSV data"
	errLanguageNotFound = "Language not found in multi-language data"
)

// editKeyPattern restricts translation keys to the dot/underscore/hyphen
// delimited naming convention.
var editKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidateEditRequest checks an edit request's new key and value against
// the field rules. It returns the first failing rule's message, or the
// empty string when the request is valid. Key rules and value rules are
// independent of each other.
func ValidateEditRequest(req EditRequest) string {
	if req.NewKey == "" {
		return "Translation key cannot be empty"
	}
	if req.NewValue == "" {
		return "Translation value cannot be empty"
	}
	if len(req.NewKey) < 2 {
		return "Translation key must be at least 2 characters"
	}
	if len(req.NewValue) > 1000 {
		return "Translation value must be less than 1000 characters"
	}
	if !editKeyPattern.MatchString(req.NewKey) {
		return "Translation key can only contain letters, numbers, dots, underscores, and hyphens"
	}
	return ""
}

// EditInMap applies an edit to a flat translation map. Renames remove the
// old key; a rename onto an existing key fails with an already-exists
// error.
func EditInMap(m TranslationMap, req EditRequest) (TranslationMap, EditResult) {
	if _, ok := m[req.OriginalKey]; !ok {
		return m, EditResult{Error: errOrigNotFound}
	}
	if req.OriginalKey != req.NewKey {
		if _, ok := m[req.NewKey]; ok {
			return m, EditResult{Error: errNewKeyExists}
		}
	}

	out := m.Clone()
	if req.OriginalKey != req.NewKey {
		delete(out, req.OriginalKey)
	}
	out[req.NewKey] = req.NewValue

	return out, EditResult{Success: true, Data: &req}
}

// EditInTable applies an edit to the table representation. With no
// language given, the first non-key column is updated. A language that is
// not yet a column is added as one (header plus empty cells) before the
// edit lands.
func EditInTable(t *Table, req EditRequest) (*Table, EditResult) {
	rowIndex := -1
	for i, row := range t.Rows {
		if row.Key() == req.OriginalKey {
			rowIndex = i
			break
		}
	}
	if rowIndex == -1 {
		return t, EditResult{Error: errOrigNotFoundCSV}
	}

	if req.OriginalKey != req.NewKey {
		for _, row := range t.Rows {
			if row.Key() == req.NewKey {
				return t, EditResult{Error: errNewKeyExistsCSV}
			}
		}
	}

	out := t.Clone()

	column := req.Language
	if column == "" {
		cols := out.LanguageColumns()
		if len(cols) > 0 {
			column = cols[0]
		}
	} else if !out.HasHeader(column) {
		// Novel language: grow the table so the edit has a column to land in.
		out.Headers = append(out.Headers, column)
		for _, row := range out.Rows {
			row[column] = ""
		}
	}

	row := out.Rows[rowIndex]
	row[KeyColumn] = req.NewKey
	if column != "" {
		row[column] = req.NewValue
	}

	return out, EditResult{Success: true, Data: &req}
}

// EditInMultiMap applies an edit to one language of a multi-language map.
// The request's language must name an existing entry.
func EditInMultiMap(multi MultiLanguageMap, req EditRequest) (MultiLanguageMap, EditResult) {
	if req.Language == "" {
		return multi, EditResult{Error: errLanguageNotFound}
	}
	sub, ok := multi[req.Language]
	if !ok {
		return multi, EditResult{Error: errLanguageNotFound}
	}

	edited, result := EditInMap(sub, req)
	if !result.Success {
		return multi, result
	}

	out := multi.Clone()
	out[req.Language] = edited
	return out, result
}

// DeleteFromMap removes a key from a flat translation map.
func DeleteFromMap(m TranslationMap, req DeleteRequest) (TranslationMap, DeleteResult) {
	if _, ok := m[req.Key]; !ok {
		return m, DeleteResult{Error: errKeyNotFound}
	}

	out := m.Clone()
	delete(out, req.Key)

	return out, DeleteResult{Success: true, Data: &req}
}

// DeleteFromTable removes the row with the given key from a table.
func DeleteFromTable(t *Table, req DeleteRequest) (*Table, DeleteResult) {
	rowIndex := -1
	for i, row := range t.Rows {
		if row.Key() == req.Key {
			rowIndex = i
			break
		}
	}
	if rowIndex == -1 {
		return t, DeleteResult{Error: errKeyNotFoundCSV}
	}

	out := &Table{
		Headers: append([]string{}, t.Headers...),
		Rows:    make([]Row, 0, len(t.Rows)-1),
	}
	for i, row := range t.Rows {
		if i != rowIndex {
			out.Rows = append(out.Rows, row.Clone())
		}
	}

	return out, DeleteResult{Success: true, Data: &req}
}

// DeleteFromMultiMap removes a key from a multi-language map. With a
// language given, only that language's sub-map is touched; without one,
// the key is removed from every language that has it. The delete fails
// with not-found when no language carried the key.
func DeleteFromMultiMap(multi MultiLanguageMap, req DeleteRequest) (MultiLanguageMap, DeleteResult) {
	if req.Language != "" {
		sub, ok := multi[req.Language]
		if !ok {
			return multi, DeleteResult{Error: errLanguageNotFound}
		}
		deleted, result := DeleteFromMap(sub, req)
		if !result.Success {
			return multi, result
		}
		out := multi.Clone()
		out[req.Language] = deleted
		return out, result
	}

	found := false
	for _, sub := range multi {
		if _, ok := sub[req.Key]; ok {
			found = true
			break
		}
	}
	if !found {
		return multi, DeleteResult{Error: errKeyNotFound}
	}

	out := multi.Clone()
	for _, sub := range out {
		delete(sub, req.Key)
	}

	return out, DeleteResult{Success: true, Data: &req}
}
