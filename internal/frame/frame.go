// Package frame holds the in-memory result table passed between the
// extract, validate, and write steps. A frame is created once by the
// extraction step and never mutated afterwards.
//
// Values are restricted to the canonical shapes named by the column kinds:
// string, int64, float64, bool, time.Time, with nil standing for SQL NULL.
// Drivers return a wider variety of Go types; Coerce narrows them.
package frame

import (
	"fmt"
	"time"

	"github.com/gsolo1981/parquet-generator/internal/schema"
)

// Frame is a columnar result set: contract columns plus row values in
// contract order.
type Frame struct {
	Columns []schema.Column
	Rows    [][]any
}

// New returns an empty frame over the given columns.
func New(columns []schema.Column) *Frame {
	return &Frame{Columns: columns}
}

// Append adds one row. The row must have exactly one value per column.
func (f *Frame) Append(row []any) error {
	if len(row) != len(f.Columns) {
		return fmt.Errorf("row has %d values, contract has %d columns", len(row), len(f.Columns))
	}
	f.Rows = append(f.Rows, row)
	return nil
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int { return len(f.Rows) }

// ColumnIndex returns the index of the named column, or -1.
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Coerce narrows a normalized driver value to the canonical shape for kind.
// nil passes through as NULL for every kind. The conversions are the minimal
// set the supported drivers need (sqlite has no native bool or timestamp;
// integer-typed columns may arrive as wider SQL numerics for real kinds).
func Coerce(v any, kind string) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch kind {
	case schema.KindText:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case schema.KindInteger:
		if n, ok := v.(int64); ok {
			return n, nil
		}
	case schema.KindReal:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int64:
			return float64(n), nil
		}
	case schema.KindBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case int64:
			return b != 0, nil
		}
	case schema.KindTimestamp:
		switch ts := v.(type) {
		case time.Time:
			return ts, nil
		case string:
			t, err := time.Parse(time.RFC3339, ts)
			if err != nil {
				return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
			}
			return t, nil
		}
	default:
		return nil, fmt.Errorf("unknown column kind %q", kind)
	}
	return nil, fmt.Errorf("cannot coerce %T to %s", v, kind)
}
