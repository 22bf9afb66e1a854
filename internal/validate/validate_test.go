package validate

import (
	"testing"

	"github.com/gsolo1981/parquet-generator/internal/frame"
	"github.com/gsolo1981/parquet-generator/internal/schema"
)

func vehicleish() (schema.Dataset, *frame.Frame) {
	ds := schema.Dataset{
		Name:     "vehicles",
		IDColumn: "id",
		Columns: []schema.Column{
			{Name: "id", Kind: schema.KindText, Required: true},
			{Name: "make", Kind: schema.KindText},
			{Name: "latitude", Kind: schema.KindReal},
			{Name: "longitude", Kind: schema.KindReal},
		},
	}
	return ds, frame.New(ds.Columns)
}

func findBy(r Report, check, column string) (Finding, bool) {
	for _, f := range r.Findings {
		if f.Check == check && f.Column == column {
			return f, true
		}
	}
	return Finding{}, false
}

// TestRun_CleanFrame verifies a clean result set produces only pass findings.
func TestRun_CleanFrame(t *testing.T) {
	ds, f := vehicleish()
	f.Append([]any{"a", "ford", 10.0, 20.0})
	f.Append([]any{"b", "vw", -89.9, 179.9})

	r := Run(ds, f)
	if r.Warnings() != 0 || r.Failures() != 0 {
		t.Fatalf("clean frame produced findings: %+v", r.Findings)
	}
	rc, ok := findBy(r, "row_count", "")
	if !ok || rc.Count != 2 {
		t.Fatalf("row_count finding wrong: %+v", rc)
	}
}

// TestRun_DuplicateIDs checks that rows sharing an id are counted once per
// extra occurrence and that NULL ids are left to the null check.
func TestRun_DuplicateIDs(t *testing.T) {
	ds, f := vehicleish()
	f.Append([]any{"a", "ford", nil, nil})
	f.Append([]any{"a", "vw", nil, nil})
	f.Append([]any{"a", "bmw", nil, nil})
	f.Append([]any{nil, "kia", nil, nil})

	r := Run(ds, f)
	d, ok := findBy(r, "duplicate_id", "id")
	if !ok || d.Status != StatusWarn || d.Count != 2 {
		t.Fatalf("duplicate finding wrong: %+v", d)
	}

	// NULL in the required id column must be a failure finding.
	n, ok := findBy(r, "null_values", "id")
	if !ok || n.Status != StatusFail || n.Count != 1 {
		t.Fatalf("null finding for id wrong: %+v", n)
	}
}

// TestRun_CoordinateRanges flags latitudes outside [-90,90] and longitudes
// outside [-180,180], ignoring NULLs.
func TestRun_CoordinateRanges(t *testing.T) {
	ds, f := vehicleish()
	f.Append([]any{"a", nil, 91.0, 0.0})
	f.Append([]any{"b", nil, -90.5, -181.0})
	f.Append([]any{"c", nil, 45.0, 200.0})
	f.Append([]any{"d", nil, nil, nil})

	r := Run(ds, f)
	lat, _ := findBy(r, "coordinate_range", "latitude")
	if lat.Status != StatusWarn || lat.Count != 2 {
		t.Fatalf("latitude finding wrong: %+v", lat)
	}
	lon, _ := findBy(r, "coordinate_range", "longitude")
	if lon.Status != StatusWarn || lon.Count != 2 {
		t.Fatalf("longitude finding wrong: %+v", lon)
	}
}

// TestRun_NoCoordinateColumns asserts datasets without lat/lon emit no
// coordinate findings at all (e.g. users, gpses, accounts).
func TestRun_NoCoordinateColumns(t *testing.T) {
	ds := schema.Dataset{
		Name:     "users",
		IDColumn: "id",
		Columns:  []schema.Column{{Name: "id", Kind: schema.KindText, Required: true}},
	}
	f := frame.New(ds.Columns)
	f.Append([]any{"u1"})

	r := Run(ds, f)
	if _, ok := findBy(r, "coordinate_range", "latitude"); ok {
		t.Fatalf("unexpected coordinate finding for dataset without coordinates")
	}
}

// TestRun_NullsPerColumn counts NULLs per column and keeps optional columns
// at warning severity.
func TestRun_NullsPerColumn(t *testing.T) {
	ds, f := vehicleish()
	f.Append([]any{"a", nil, 1.0, 1.0})
	f.Append([]any{"b", nil, 1.0, 1.0})
	f.Append([]any{"c", "vw", nil, 1.0})

	r := Run(ds, f)
	mk, _ := findBy(r, "null_values", "make")
	if mk.Status != StatusWarn || mk.Count != 2 {
		t.Fatalf("make null finding wrong: %+v", mk)
	}
	lat, _ := findBy(r, "null_values", "latitude")
	if lat.Count != 1 {
		t.Fatalf("latitude null finding wrong: %+v", lat)
	}
	if r.Failures() != 0 {
		t.Fatalf("no required column had nulls, failures=%d", r.Failures())
	}
}
