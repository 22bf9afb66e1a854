// Package schema defines the dataset contracts for the bronze export job.
//
// A contract pairs the fixed extraction SQL for a dataset with the ordered
// list of columns the result set must carry. The columns drive three things
// downstream: result-set shape checking after extraction, the data-quality
// checks, and the parquet schema of the output file.
//
// Design goals:
//
//  1. Stability: queries are fixed and hand-edited; changing a contract is a
//     deliberate, reviewed act, never something inferred at runtime.
//  2. Minimalism: no third-party schema libraries; a contract is plain data.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Column kinds. These are the only value shapes a frame may hold and map
// 1:1 onto parquet logical types.
const (
	KindText      = "text"      // string
	KindInteger   = "integer"   // int64
	KindReal      = "real"      // float64
	KindBool      = "bool"      // bool
	KindTimestamp = "timestamp" // time.Time
)

// Column describes one column of a dataset's result set.
type Column struct {
	Name string
	Kind string

	// Required marks columns where a NULL is a data-quality failure rather
	// than a warning. It does not abort the export.
	Required bool
}

// Dataset is the contract for one bronze dataset: the source relation, the
// fixed SQL, and the expected result shape.
type Dataset struct {
	// Name is the dataset name used in paths and filenames (e.g. "vehicles").
	Name string

	// Table is the source relation, for logging only.
	Table string

	// IDColumn names the column expected to be unique and non-null.
	IDColumn string

	// WindowColumn optionally names the column an extraction time window
	// filters on. Empty means the dataset does not support -since.
	WindowColumn string

	Columns []Column

	// Query is the fixed extraction SQL, without a trailing semicolon so a
	// window predicate can be appended.
	Query string
}

// Column returns the named column and whether it exists.
func (d Dataset) Column(name string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in contract order.
func (d Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// WindowedQuery returns the extraction SQL with the time-window predicate
// appended, using the driver-specific placeholder for the bound argument.
// It fails when the dataset has no window column.
func (d Dataset) WindowedQuery(placeholder string) (string, error) {
	if d.WindowColumn == "" {
		return "", fmt.Errorf("dataset %q does not support a time window", d.Name)
	}
	return fmt.Sprintf("%s\nWHERE %s >= %s", d.Query, d.WindowColumn, placeholder), nil
}

// Lookup returns the contract for name or an error listing the configured
// datasets, mirroring the behaviour of the extraction query table.
func Lookup(name string) (Dataset, error) {
	d, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Dataset{}, fmt.Errorf("dataset %q is not configured (available: %s)", name, strings.Join(Names(), ", "))
	}
	return d, nil
}

// Names returns the configured dataset names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
