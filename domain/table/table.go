package table

import (
	"encoding/json"
	"fmt"

	"gograph/domain/core"
)

// Row represents a row of raw cell data keyed by column name
type Row map[string]string

// Table is the decoded dataset: ordered headers and ordered rows.
// A Table is read-only once produced.
type Table struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// New builds a Table, filling missing cells with "" so every row carries the
// full header key set.
func New(headers []string, rows []Row) (*Table, error) {
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		if h == "" {
			return nil, fmt.Errorf("empty column header")
		}
		if seen[h] {
			return nil, fmt.Errorf("duplicate column header %q", h)
		}
		seen[h] = true
	}

	normalized := make([]Row, len(rows))
	for i, r := range rows {
		row := make(Row, len(headers))
		for _, h := range headers {
			row[h] = r[h]
		}
		normalized[i] = row
	}

	return &Table{Headers: append([]string(nil), headers...), Rows: normalized}, nil
}

// RowCount returns the number of data rows
func (t *Table) RowCount() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether name is one of the headers
func (t *Table) HasColumn(name string) bool {
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

// Column returns the raw cells of one column in row order.
func (t *Table) Column(name string) []string {
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values
}

// Head returns at most n leading rows.
func (t *Table) Head(n int) []Row {
	if n < 0 || n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}

// Fingerprint hashes headers and cells in order. Two tables with equal
// fingerprints produce identical statistics.
func (t *Table) Fingerprint() core.Hash {
	parts := make([]string, 0, len(t.Headers)*(len(t.Rows)+1))
	parts = append(parts, t.Headers...)
	for _, row := range t.Rows {
		for _, h := range t.Headers {
			parts = append(parts, row[h])
		}
	}
	return core.HashStrings(parts...)
}

// Marshal serializes the table for chart records.
func (t *Table) Marshal() ([]byte, error) {
	return json.Marshal(t)
}

// Unmarshal restores a table written by Marshal.
func Unmarshal(data []byte) (*Table, error) {
	var raw Table
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode table: %w", err)
	}
	return New(raw.Headers, raw.Rows)
}
