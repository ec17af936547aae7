package core

// csv.go provides the CSV tokenizer and writer for translation tables.
//
// The tokenizer is a quote-aware field state machine, not a split on
// commas and newlines: a double-quoted field may contain literal commas,
// literal newlines, and escaped quotes ("" inside quotes is one literal
// quote). A logical record is complete only when a line boundary is
// reached outside an open quoted field, so multi-line quoted fields are
// reassembled across physical lines before splitting.
//
// The writer emits the export contract exactly: UTF-8, \n line separator,
// every field double-quoted with internal quotes doubled.

import (
	"fmt"
	"strings"
)

// parseRecords tokenizes raw CSV text into logical records of trimmed
// fields. Blank physical lines outside quotes and records whose every
// field is empty are dropped. A missing final newline is tolerated.
func parseRecords(content string) [][]string {
	var (
		records       [][]string
		currentRecord []string
		currentField  strings.Builder
		inQuotes      bool
		recordStarted bool
	)

	endRecord := func() {
		currentRecord = append(currentRecord, strings.TrimSpace(currentField.String()))
		currentField.Reset()

		for _, f := range currentRecord {
			if f != "" {
				records = append(records, currentRecord)
				break
			}
		}
		currentRecord = nil
		recordStarted = false
	}

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Tolerate CRLF input; exported files are \r-free.
		line = strings.TrimSuffix(line, "\r")

		for i := 0; i < len(line); i++ {
			ch := line[i]
			switch {
			case ch == '"':
				if inQuotes && i+1 < len(line) && line[i+1] == '"' {
					currentField.WriteByte('"')
					i++ // skip the second quote of the pair
				} else {
					inQuotes = !inQuotes
				}
				recordStarted = true
			case ch == ',' && !inQuotes:
				currentRecord = append(currentRecord, strings.TrimSpace(currentField.String()))
				currentField.Reset()
				recordStarted = true
			default:
				currentField.WriteByte(ch)
				recordStarted = true
			}
		}

		if !inQuotes && recordStarted {
			endRecord()
		} else if inQuotes {
			// Line boundary inside an open quoted field: part of the value.
			currentField.WriteByte('\n')
		}
	}

	// File without a trailing newline.
	if recordStarted && !inQuotes {
		endRecord()
	}

	return records
}

// ParseCSV tokenizes raw CSV text into a Table.
//
// The key column header is matched case-insensitively and canonicalized to
// "Key" in both the header list and every row. After parsing, columns are
// rearranged so the key column is first and the default language's column
// (matched case-insensitively by display name) second if present; the
// remaining columns keep their original relative order. Row values are
// reprojected onto the new header order, with missing cells defaulting to
// the empty string.
func (c *Converter) ParseCSV(content string) (*Table, error) {
	records := parseRecords(content)
	if len(records) == 0 {
		return nil, fmt.Errorf("invalid csv: file is empty")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		if isKeyHeader(h) {
			h = KeyColumn
		}
		headers[i] = h
	}

	reordered := reorderHeaders(headers, c.catalog.Default().Name)

	// Original column positions for reprojection.
	position := make(map[string]int, len(headers))
	for i, h := range headers {
		position[h] = i
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(reordered))
		for _, h := range reordered {
			if pos, ok := position[h]; ok && pos < len(record) {
				row[h] = record[pos]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}

	return &Table{Headers: reordered, Rows: rows}, nil
}

// reorderHeaders places the key column first and the default language
// column second if present. All other columns keep their relative order.
func reorderHeaders(headers []string, defaultLanguage string) []string {
	var (
		keyHeader     string
		defaultHeader string
		rest          []string
	)

	for _, h := range headers {
		switch {
		case isKeyHeader(h) && keyHeader == "":
			keyHeader = h
		case strings.EqualFold(h, defaultLanguage) && defaultHeader == "":
			defaultHeader = h
		default:
			rest = append(rest, h)
		}
	}

	reordered := make([]string, 0, len(headers))
	if keyHeader != "" {
		reordered = append(reordered, keyHeader)
	}
	if defaultHeader != "" {
		reordered = append(reordered, defaultHeader)
	}
	return append(reordered, rest...)
}

// writeCSV renders rows in the export format: every field double-quoted,
// internal quotes doubled, fields joined by commas and rows by \n.
func writeCSV(records [][]string) string {
	var b strings.Builder
	for i, record := range records {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, field := range record {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(field, `"`, `""`))
			b.WriteByte('"')
		}
	}
	return b.String()
}

// MergeTables combines two tables key-wise. Headers are the union of both
// header lists (first table's order wins for shared headers); rows with
// the same key are merged with the second table's values taking
// precedence. Every merged row is reprojected onto the full header set so
// no sparse rows are produced. Both inputs are left untouched.
func MergeTables(a, b *Table) *Table {
	if a == nil {
		return b.Clone()
	}
	if b == nil {
		return a.Clone()
	}

	headers := make([]string, 0, len(a.Headers)+len(b.Headers))
	seen := make(map[string]bool, len(a.Headers)+len(b.Headers))
	for _, h := range append(append([]string{}, a.Headers...), b.Headers...) {
		if !seen[h] {
			seen[h] = true
			headers = append(headers, h)
		}
	}

	merged := make(map[string]Row)
	var order []string

	absorb := func(rows []Row) {
		for _, row := range rows {
			key := row.Key()
			if key == "" {
				continue
			}
			existing, ok := merged[key]
			if !ok {
				merged[key] = row.Clone()
				order = append(order, key)
				continue
			}
			for h, v := range row {
				existing[h] = v
			}
		}
	}
	absorb(a.Rows)
	absorb(b.Rows)

	rows := make([]Row, 0, len(order))
	for _, key := range order {
		src := merged[key]
		row := make(Row, len(headers))
		row[KeyColumn] = key
		for _, h := range headers {
			row[h] = src[h]
		}
		rows = append(rows, row)
	}

	return &Table{Headers: headers, Rows: rows}
}
