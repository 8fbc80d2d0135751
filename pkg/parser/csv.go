package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row is one source record keyed by header name. Columns absent from the
// file read as the empty string, which downstream stages treat as a missing
// field.
type Row map[string]string

// ParseWarning records a non-fatal issue encountered while reading a file.
type ParseWarning struct {
	Row     int
	Message string
}

// Table is the uniform string-typed tabular form of one SIS export.
type Table struct {
	Headers  []string
	Rows     []Row
	Warnings []ParseWarning
}

var delimiterCandidates = []byte{';', ',', '\t', '|'}

// DetectDelimiter sniffs the field delimiter from the header line: the
// candidate with the highest count wins, comma when nothing matches.
// Delimiters are ASCII, so sniffing is safe on still-encoded bytes.
func DetectDelimiter(line string) byte {
	best := byte(',')
	bestCount := 0
	for _, cand := range delimiterCandidates {
		if n := strings.Count(line, string(cand)); n > bestCount {
			best = cand
			bestCount = n
		}
	}
	return best
}

// Load reads, decodes and parses one SIS export. Any failure here is fatal
// for the whole run; malformed individual rows are repaired or skipped with
// a warning instead.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	table, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return table, nil
}

// Parse converts raw file bytes into a Table. Short rows are padded with
// empty fields, overlong and unparseable rows are skipped; both produce
// warnings. A table with zero data rows is valid.
func Parse(data []byte) (*Table, error) {
	decoded, _, err := DecodeText(data)
	if err != nil {
		return nil, err
	}

	firstLine, _, _ := bytes.Cut(decoded, []byte("\n"))
	sep := DetectDelimiter(string(firstLine))

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.Comma = rune(sep)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: no header row")
		}
		return nil, fmt.Errorf("read header row: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	table := &Table{Headers: headers}
	rowNum := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++

		if err != nil {
			table.warn(rowNum, fmt.Sprintf("parse error, row skipped: %v", err))
			continue
		}

		switch {
		case len(record) > len(headers):
			table.warn(rowNum, fmt.Sprintf("row has %d fields, expected %d; row skipped", len(record), len(headers)))
			continue
		case len(record) < len(headers):
			table.warn(rowNum, fmt.Sprintf("row has %d fields, expected %d; padded with empty fields", len(record), len(headers)))
			padded := make([]string, len(headers))
			copy(padded, record)
			record = padded
		}

		row := make(Row, len(headers))
		for i, h := range headers {
			row[h] = record[i]
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func (t *Table) warn(row int, message string) {
	t.Warnings = append(t.Warnings, ParseWarning{Row: row, Message: message})
}
