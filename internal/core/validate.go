package core

// validate.go checks raw JSON and CSV uploads for structural correctness
// before any conversion happens.
//
// Validators never return an error for bad input and never mutate it: the
// outcome is always a ValidationResult with typed errors and warnings. CSV
// validation reuses the tokenizer's record parsing so that multi-line
// quoted fields are not mistaken for column-count mismatches.

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ValidateJSON checks that raw JSON text decodes to a flat string-to-string
// object.
//
// Invalid syntax is an error that short-circuits further checks. A decoded
// value that is not a plain object (array, null, scalar) and any property
// with a non-string value are structure errors. Empty string values and an
// empty object are warnings only. Duplicate keys cannot be detected here:
// the decoder applies last-write-wins before validation sees the data.
func ValidateJSON(content string) ValidationResult {
	result := ValidationResult{Valid: true}

	var decoded any
	if err := json.Unmarshal([]byte(content), &decoded); err != nil {
		result.addError(ValidationIssue{
			Type:    IssueSyntax,
			Message: "Invalid JSON syntax",
		})
		return result
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		result.addError(ValidationIssue{
			Type:    IssueStructure,
			Message: "JSON must be an object with key-value pairs",
		})
		return result
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value, isString := obj[key].(string)
		if !isString {
			result.addError(ValidationIssue{
				Type:    IssueStructure,
				Message: fmt.Sprintf("Value for key %q must be a string", key),
				Key:     key,
			})
			continue
		}
		if strings.TrimSpace(value) == "" {
			result.addWarning(ValidationIssue{
				Type:    IssueEmptyValue,
				Message: fmt.Sprintf("Empty value for key: %s", key),
				Key:     key,
			})
		}
	}

	if len(keys) == 0 {
		result.addWarning(ValidationIssue{
			Type:    IssueEmptyValue,
			Message: "JSON object is empty",
		})
	}

	return result
}

// ValidateTranslationMap applies the JSON value rules to an already
// decoded map: empty values warn, an empty map warns.
func ValidateTranslationMap(m TranslationMap) ValidationResult {
	result := ValidationResult{Valid: true}

	if len(m) == 0 {
		result.addWarning(ValidationIssue{
			Type:    IssueEmptyValue,
			Message: "Translation data is empty",
		})
		return result
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if strings.TrimSpace(m[key]) == "" {
			result.addWarning(ValidationIssue{
				Type:    IssueEmptyValue,
				Message: fmt.Sprintf("Empty value for key: %s", key),
				Key:     key,
			})
		}
	}

	return result
}

// ValidateCSV checks raw CSV text for structural correctness.
//
// Rules, in order: empty content and a header with fewer than two columns
// are fatal structure errors. A first column that is not "key" (any
// capitalization) is a structure error, duplicate headers are duplicate
// errors, and each data row is then checked for column count, empty key,
// and duplicate keys. Rows that fail the column-count or empty-key check
// are skipped for further per-row checks. Empty values in non-key columns
// are warnings only. Row numbers in messages are 1-indexed and count the
// header as row 1.
func ValidateCSV(content string) ValidationResult {
	result := ValidationResult{Valid: true}

	if strings.TrimSpace(content) == "" {
		result.addError(ValidationIssue{
			Type:    IssueStructure,
			Message: "CSV file is empty",
		})
		return result
	}

	records := parseRecords(content)
	if len(records) == 0 {
		result.addError(ValidationIssue{
			Type:    IssueStructure,
			Message: "CSV file is empty",
		})
		return result
	}

	headers := records[0]

	if len(headers) < 2 {
		result.addError(ValidationIssue{
			Type:    IssueStructure,
			Message: "CSV must have at least 2 columns (Key and one language)",
		})
		return result
	}

	if !isKeyHeader(headers[0]) {
		result.addError(ValidationIssue{
			Type:    IssueStructure,
			Message: `First column must be named "Key"`,
		})
	}

	for _, header := range findDuplicates(headers) {
		result.addError(ValidationIssue{
			Type:    IssueDuplicate,
			Message: fmt.Sprintf("Duplicate column header: %s", header),
		})
	}

	seenKeys := make(map[string]bool)

	for i := 1; i < len(records); i++ {
		values := records[i]
		rowNum := i + 1

		if len(values) != len(headers) {
			result.addError(ValidationIssue{
				Type:    IssueStructure,
				Message: fmt.Sprintf("Row %d has %d columns, expected %d", rowNum, len(values), len(headers)),
				Line:    rowNum,
			})
			continue
		}

		key := values[0]
		if strings.TrimSpace(key) == "" {
			result.addError(ValidationIssue{
				Type:    IssueMissing,
				Message: fmt.Sprintf("Empty key in row %d", rowNum),
				Line:    rowNum,
			})
			continue
		}

		if seenKeys[key] {
			result.addError(ValidationIssue{
				Type:    IssueDuplicate,
				Message: fmt.Sprintf("Duplicate key: %s", key),
				Line:    rowNum,
				Key:     key,
			})
		}
		seenKeys[key] = true

		for j := 1; j < len(values); j++ {
			if strings.TrimSpace(values[j]) == "" {
				result.addWarning(ValidationIssue{
					Type:    IssueEmptyValue,
					Message: fmt.Sprintf("Empty value for key %q in column %q", key, headers[j]),
					Key:     key,
				})
			}
		}
	}

	return result
}

// findDuplicates returns each value that occurs more than once, in first
// repeat order.
func findDuplicates(values []string) []string {
	seen := make(map[string]bool, len(values))
	reported := make(map[string]bool)
	var duplicates []string

	for _, v := range values {
		if seen[v] && !reported[v] {
			reported[v] = true
			duplicates = append(duplicates, v)
		}
		seen[v] = true
	}

	return duplicates
}
