// Package validate runs the advisory data-quality checks against an
// extracted frame: duplicate ids, NULL counts per column, out-of-range
// coordinates, and the overall row count.
//
// Findings are advisory by design: they are logged and counted by the
// caller, and the export proceeds regardless. Only the presence of rows at
// all is enforced earlier, by the job.
package validate

import (
	"fmt"

	"github.com/gsolo1981/parquet-generator/internal/frame"
	"github.com/gsolo1981/parquet-generator/internal/schema"
)

// Status classifies a finding.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warning"
	StatusFail Status = "failure"
)

// Geographic ranges for the coordinate checks.
const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
)

// Finding is the result of one check, possibly scoped to a column.
type Finding struct {
	Check  string
	Column string // empty for table-level checks
	Status Status
	Count  int
	Detail string
}

// String renders a finding the way the job logs it.
func (f Finding) String() string {
	if f.Column != "" {
		return fmt.Sprintf("[%s] %s %s: %s", f.Status, f.Check, f.Column, f.Detail)
	}
	return fmt.Sprintf("[%s] %s: %s", f.Status, f.Check, f.Detail)
}

// Report is the ordered list of findings for one frame.
type Report struct {
	Findings []Finding
}

// Warnings returns the number of warning findings.
func (r Report) Warnings() int { return r.count(StatusWarn) }

// Failures returns the number of failure findings.
func (r Report) Failures() int { return r.count(StatusFail) }

func (r Report) count(s Status) int {
	n := 0
	for _, f := range r.Findings {
		if f.Status == s {
			n++
		}
	}
	return n
}

// Run executes every check against the frame and returns the report. Column
// indexes are resolved once up front; the checks themselves are single
// passes over the rows.
func Run(ds schema.Dataset, f *frame.Frame) Report {
	var r Report
	r.add(rowCount(f))
	r.add(duplicateIDs(ds, f))
	r.Findings = append(r.Findings, nullCounts(f)...)
	r.Findings = append(r.Findings, coordinateRanges(f)...)
	return r
}

func (r *Report) add(f Finding) { r.Findings = append(r.Findings, f) }

func rowCount(f *frame.Frame) Finding {
	return Finding{
		Check:  "row_count",
		Status: StatusPass,
		Count:  f.NumRows(),
		Detail: fmt.Sprintf("%d rows extracted", f.NumRows()),
	}
}

// duplicateIDs counts rows whose id was already seen. NULL ids are excluded
// here; they surface through the null check on the required id column.
func duplicateIDs(ds schema.Dataset, f *frame.Frame) Finding {
	idx := f.ColumnIndex(ds.IDColumn)
	if idx < 0 {
		return Finding{Check: "duplicate_id", Status: StatusFail, Detail: fmt.Sprintf("id column %q missing from result", ds.IDColumn)}
	}
	seen := make(map[any]struct{}, f.NumRows())
	dups := 0
	for _, row := range f.Rows {
		id := row[idx]
		if id == nil {
			continue
		}
		if _, ok := seen[id]; ok {
			dups++
			continue
		}
		seen[id] = struct{}{}
	}
	if dups > 0 {
		return Finding{
			Check:  "duplicate_id",
			Column: ds.IDColumn,
			Status: StatusWarn,
			Count:  dups,
			Detail: fmt.Sprintf("%d rows share an id with an earlier row", dups),
		}
	}
	return Finding{Check: "duplicate_id", Column: ds.IDColumn, Status: StatusPass, Detail: "all ids unique"}
}

// nullCounts emits one finding per column containing NULLs (failure when the
// column is required, warning otherwise) and a single pass finding when the
// frame has none at all.
func nullCounts(f *frame.Frame) []Finding {
	counts := make([]int, len(f.Columns))
	for _, row := range f.Rows {
		for i, v := range row {
			if v == nil {
				counts[i]++
			}
		}
	}

	var out []Finding
	for i, c := range f.Columns {
		if counts[i] == 0 {
			continue
		}
		status := StatusWarn
		if c.Required {
			status = StatusFail
		}
		out = append(out, Finding{
			Check:  "null_values",
			Column: c.Name,
			Status: status,
			Count:  counts[i],
			Detail: fmt.Sprintf("%d null values", counts[i]),
		})
	}
	if len(out) == 0 {
		out = append(out, Finding{Check: "null_values", Status: StatusPass, Detail: "no null values"})
	}
	return out
}

// coordinateRanges flags latitude outside [-90,90] and longitude outside
// [-180,180]. Datasets without coordinate columns produce no findings.
func coordinateRanges(f *frame.Frame) []Finding {
	var out []Finding
	for _, check := range []struct {
		column   string
		min, max float64
	}{
		{"latitude", minLatitude, maxLatitude},
		{"longitude", minLongitude, maxLongitude},
	} {
		idx := f.ColumnIndex(check.column)
		if idx < 0 {
			continue
		}
		bad := 0
		for _, row := range f.Rows {
			v, ok := row[idx].(float64)
			if !ok {
				continue // NULL or non-numeric; the null check owns those
			}
			if v < check.min || v > check.max {
				bad++
			}
		}
		if bad > 0 {
			out = append(out, Finding{
				Check:  "coordinate_range",
				Column: check.column,
				Status: StatusWarn,
				Count:  bad,
				Detail: fmt.Sprintf("%d values outside [%g, %g]", bad, check.min, check.max),
			})
		} else {
			out = append(out, Finding{Check: "coordinate_range", Column: check.column, Status: StatusPass, Detail: "all values in range"})
		}
	}
	return out
}
