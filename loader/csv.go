package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andina-bi/dashboard/schema"
)

// ============================================================================
// CSV — Parses one table into rows keyed by schema column
// ============================================================================
// The source reads the bytes from wherever they live (directory, bucket);
// this file turns them into typed values. A table missing a required
// column, or a row with an unparsable required value, fails the load.
// ============================================================================

// ErrMissingColumn is returned when a table lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// row is one source record addressed by canonical column key.
type row struct {
	table  string
	line   int
	values []string
	index  map[string]int
	cols   schema.Table
}

// table is a parsed header plus its rows.
type table struct {
	schema schema.Table
	rows   []row
}

// newTable resolves headers against the schema and wraps raw values.
func newTable(t schema.Table, headers []string, values [][]string) (*table, error) {
	index, missing := t.Resolve(headers)
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: %w: %s", t.Name, ErrMissingColumn, strings.Join(missing, ", "))
	}

	out := &table{schema: t, rows: make([]row, 0, len(values))}
	for i, v := range values {
		if isBlank(v) {
			continue
		}
		out.rows = append(out.rows, row{table: t.Name, line: i + 2, values: v, index: index, cols: t})
	}
	return out, nil
}

// parseCSV reads a whole CSV stream for one table.
func parseCSV(r io.Reader, t schema.Table) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty file", t.Name)
		}
		return nil, fmt.Errorf("%s: failed to read CSV headers: %w", t.Name, err)
	}

	values, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Name, err)
	}
	return newTable(t, headers, values)
}

func isBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ============================================================================
// VALUE ACCESS
// ============================================================================

func (r row) raw(key string) string {
	i, ok := r.index[key]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

func (r row) required(key string) bool {
	c, ok := r.cols.Column(key)
	return ok && c.Required
}

func (r row) errorf(key, format string, args ...any) error {
	return fmt.Errorf("%s line %d, column %s: %s", r.table, r.line, key, fmt.Sprintf(format, args...))
}

func (r row) text(key string) string { return r.raw(key) }

// number parses a numeric cell. Blank optional cells are 0.
func (r row) number(key string) (float64, error) {
	s := r.raw(key)
	if s == "" {
		if r.required(key) {
			return 0, r.errorf(key, "empty value")
		}
		return 0, nil
	}
	f, err := ParseNumber(s)
	if err != nil {
		return 0, r.errorf(key, "%v", err)
	}
	return f, nil
}

// date parses a date cell. Blank optional cells are the zero time.
func (r row) date(key string) (time.Time, error) {
	s := r.raw(key)
	if s == "" {
		if r.required(key) {
			return time.Time{}, r.errorf(key, "empty date")
		}
		return time.Time{}, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}, r.errorf(key, "%v", err)
	}
	return t, nil
}

// ParseNumber accepts plain decimals with an optional currency prefix and
// comma thousands separators: "1234.5", "$1,234.50", "-12".
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if neg {
		d = d.Neg()
	}
	return d.InexactFloat64(), nil
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05-07:00",
	"2006/01/02",
	"02/01/2006",
}

// ParseDate accepts ISO dates and timestamps (the time of day is kept and
// dropped later by the store) plus day-first "02/01/2006".
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
