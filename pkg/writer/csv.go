package writer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Table is an ordered set of named columns plus rows, ready to serialize.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Render serializes the table: UTF-8 BOM, comma-delimited, header row first.
func (t Table) Render() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(bomUTF8)

	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("%s: write header: %w", t.Name, err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, fmt.Errorf("%s: write rows: %w", t.Name, err)
	}
	return buf.Bytes(), nil
}

// WriteAll renders every table before touching the filesystem, then creates
// the output directory and flushes the files. A render failure therefore
// produces no output at all.
func WriteAll(dir string, tables []Table) error {
	rendered := make([][]byte, len(tables))
	for i, t := range tables {
		data, err := t.Render()
		if err != nil {
			return err
		}
		rendered[i] = data
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}
	for i, t := range tables {
		path := filepath.Join(dir, t.Name)
		if err := os.WriteFile(path, rendered[i], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
