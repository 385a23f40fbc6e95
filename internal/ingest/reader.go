package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadFile parses a tabular input file picked by extension: .csv, .tsv/.tab
// or .xlsx (first sheet). The first row is the header.
func ReadFile(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readDelimitedFile(path, ',')
	case ".tsv", ".tab":
		return readDelimitedFile(path, '\t')
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported input format %q (expected .csv, .tsv or .xlsx)", filepath.Ext(path))
	}
}

func readDelimitedFile(path string, comma rune) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return ReadDelimited(file, comma)
}

// ReadDelimited parses CSV or TSV content. Rows are aligned to the header by
// position; short rows are padded with empty cells and trailing extras are
// dropped, matching what spreadsheet exports produce.
func ReadDelimited(r io.Reader, comma rune) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	table := &Table{Columns: make([]string, len(header))}
	for i, name := range header {
		table.Columns[i] = NormalizeColumn(name)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse input: %w", err)
		}
		line, _ := reader.FieldPos(0)
		table.appendRow(line, record)
	}

	return table, nil
}

// ReadXLSX parses the first sheet of a workbook.
func ReadXLSX(path string) (*Table, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	table := &Table{Columns: make([]string, len(rows[0]))}
	for i, name := range rows[0] {
		table.Columns[i] = NormalizeColumn(name)
	}

	for i, record := range rows[1:] {
		table.appendRow(i+2, record)
	}

	return table, nil
}
