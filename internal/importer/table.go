package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
)

// record is one data row addressed by column name.
type record struct {
	line   int
	fields []string
	cols   map[string]int
}

// get returns the trimmed value of column name, or "" when the column is
// absent or the row is short.
func (r record) get(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

type table struct {
	r    *csv.Reader
	cols map[string]int
}

// openTable reads the header row and checks it carries every required column.
func openTable(src io.Reader, kind string, required []string) (*table, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s import: read header: %w", kind, err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	var missing []string
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Kind: kind, Missing: missing}
	}

	return &table{r: r, cols: cols}, nil
}

// rows streams data records lazily. A malformed CSV record is yielded as a
// *csv.ParseError and iteration continues; any other read error ends it.
func (t *table) rows() iter.Seq2[record, error] {
	return func(yield func(record, error) bool) {
		for {
			fields, err := t.r.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				var pe *csv.ParseError
				if errors.As(err, &pe) {
					if !yield(record{line: pe.Line}, err) {
						return
					}
					continue
				}
				yield(record{}, err)
				return
			}

			line, _ := t.r.FieldPos(0)
			if !yield(record{line: line, fields: fields, cols: t.cols}, nil) {
				return
			}
		}
	}
}
