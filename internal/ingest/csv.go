// Package ingest turns the BI tool catalog CSV into normalized catalog records.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrMalformedInput is returned when the source cannot be read or has no header row.
var ErrMalformedInput = errors.New("malformed catalog input")

// Table is a parsed catalog CSV: a header plus the data rows that survived the blank filters.
type Table struct {
	Header []string
	Rows   []Row
	// Skipped counts data rows dropped because their first field was blank.
	Skipped int

	columns map[string]int
}

// Row is one data row, aligned positionally with the table header.
type Row struct {
	Line   int
	Fields []string

	table *Table
}

// ParseCSV reads the whole input and splits it into a header and data rows.
// A leading byte-order mark is stripped, blank lines are discarded and rows whose first
// field is blank are skipped.
func ParseCSV(r io.Reader) (*Table, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	data, err := io.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrMalformedInput, err)
	}

	var lines []string
	var lineNums []int
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		lineNums = append(lineNums, i+1)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrMalformedInput)
	}

	table := &Table{
		Header:  SplitLine(lines[0]),
		columns: make(map[string]int),
	}
	for i, name := range table.Header {
		// later duplicates win
		table.columns[name] = i
	}

	for i := 1; i < len(lines); i++ {
		fields := SplitLine(lines[i])
		if len(fields) == 0 || fields[0] == "" {
			table.Skipped++
			continue
		}
		table.Rows = append(table.Rows, Row{Line: lineNums[i], Fields: fields, table: table})
	}

	return table, nil
}

// SplitLine splits one CSV line into trimmed fields. A double quote toggles quoting and is
// dropped; there is no escaped-quote support, so "" inside a quoted field toggles twice.
func SplitLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	return fields
}

// Get returns the trimmed cell for the named column, or "" when the column is unknown
// or the row is short.
func (r Row) Get(column string) string {
	if r.table == nil {
		return ""
	}
	idx, ok := r.table.columns[column]
	if !ok || idx >= len(r.Fields) {
		return ""
	}
	return r.Fields[idx]
}

// HasColumn reports whether the header names the given column.
func (t *Table) HasColumn(column string) bool {
	_, ok := t.columns[column]
	return ok
}
