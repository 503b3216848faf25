// Package csvsource reads flat-file exports with the same expected shape
// as the MySQL tables. It is the fallback source when the primary
// connection cannot be established.
package csvsource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"ltvreport/internal/pipeline"
)

type Source struct {
	Dir string
}

func New(dir string) *Source {
	return &Source{Dir: dir}
}

// FetchTable reads <dir>/<table>.csv. The first row is the header; data
// rows map header names to cell values. Rows shorter than the header are
// padded with empty cells rather than rejected.
func (s *Source) FetchTable(ctx context.Context, table string) ([]pipeline.RawRecord, error) {
	path := filepath.Join(s.Dir, table+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fallback %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read fallback header %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var out []pipeline.RawRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read fallback row %s: %w", path, err)
		}
		row := make(pipeline.RawRecord, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		out = append(out, row)
	}
	return out, nil
}
