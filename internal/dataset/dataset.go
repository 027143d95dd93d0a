// Package dataset reads and writes the flat CSV files a run produces.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Dataset is an ordered header plus rows keyed by column name.
type Dataset struct {
	Columns []string
	Rows    []map[string]string
}

// Read parses CSV with a header line. Short records leave the missing
// columns empty; extra fields beyond the header are ignored.
func Read(r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	hdr, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Dataset{}, nil
	}
	if err != nil {
		return Dataset{}, fmt.Errorf("read header: %w", err)
	}

	ds := Dataset{Columns: append([]string(nil), hdr...)}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Dataset{}, fmt.Errorf("read row %d: %w", len(ds.Rows)+1, err)
		}
		row := make(map[string]string, len(hdr))
		for i, col := range hdr {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// Write emits the header followed by one record per row, in header order.
// Keys a row has outside the header are not written.
func Write(w io.Writer, header []string, rows []map[string]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(header))
	for _, r := range rows {
		for i, col := range header {
			rec[i] = r[col]
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadFile loads a CSV file from disk.
func ReadFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer f.Close()
	ds, err := Read(f)
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// WriteFile writes a CSV file, creating parent directories as needed.
func WriteFile(path string, header []string, rows []map[string]string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, header, rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
