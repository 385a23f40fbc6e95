// Package ingest parses the tabular files analysts upload, validates them
// and turns them into the typed records the analysis engine accepts. All
// schema and value validation happens here: the engine trusts its inputs and
// must never see a raw or malformed row.
package ingest

import "strings"

// Row is one data row of a parsed table, keyed by normalized column name and
// carrying its 1-based source line for error reporting.
type Row struct {
	Line   int
	Fields map[string]string
}

// Table is a parsed tabular file: normalized column names in their original
// order plus the data rows. Fully empty rows are dropped during reading.
type Table struct {
	Columns []string
	Rows    []Row
}

// MissingColumns reports which of the given column names the table lacks.
func (t *Table) MissingColumns(required []string) []string {
	var missing []string
	for _, want := range required {
		found := false
		for _, col := range t.Columns {
			if col == want {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, want)
		}
	}
	return missing
}

// NormalizeColumn maps a raw header cell onto its canonical column name:
// trimmed, lowercased, spaces replaced with underscores. "Standard Price "
// and "standard_price" address the same column.
func NormalizeColumn(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(normalized, " ", "_")
}

func (t *Table) appendRow(line int, record []string) {
	fields := make(map[string]string, len(t.Columns))
	empty := true
	for i, col := range t.Columns {
		var cell string
		if i < len(record) {
			cell = strings.TrimSpace(record[i])
		}
		if cell != "" {
			empty = false
		}
		fields[col] = cell
	}
	if empty {
		return
	}
	t.Rows = append(t.Rows, Row{Line: line, Fields: fields})
}
