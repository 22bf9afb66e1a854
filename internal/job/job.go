// Package job runs the export pipeline: extract the dataset from the
// source database, run the data-quality checks, write the parquet file,
// verify it, and optionally upload it to the datalake bucket.
//
// The pipeline is deliberately sequential and synchronous; the only state
// shared between steps is the in-memory frame. Connection, query, write,
// and verification errors abort the job; validation findings never do.
package job

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go/compress"

	"github.com/gsolo1981/parquet-generator/internal/db"
	"github.com/gsolo1981/parquet-generator/internal/encoder"
	"github.com/gsolo1981/parquet-generator/internal/frame"
	"github.com/gsolo1981/parquet-generator/internal/metrics"
	"github.com/gsolo1981/parquet-generator/internal/schema"
	"github.com/gsolo1981/parquet-generator/internal/validate"
)

// Uploader is the optional post-verify destination. It is satisfied by
// *s3up.Uploader; tests inject fakes.
type Uploader interface {
	Upload(ctx context.Context, key, localPath string) (string, error)
	Verify(ctx context.Context, key string, wantSize int64) error
}

// Params configures one export run.
type Params struct {
	Dataset    schema.Dataset
	Source     string // source system name used in the bronze path
	OutputPath string // root of the local bronze tree
	Codec      compress.Codec

	// Since, when non-zero, narrows the extraction window. The dataset must
	// declare a window column.
	Since time.Time

	// Uploader, when non-nil, enables the S3 step.
	Uploader Uploader

	// Now is a seam for deterministic paths in tests; nil means time.Now.
	Now func() time.Time
}

// Summary reports what a successful run produced.
type Summary struct {
	Dataset      string
	Rows         int
	Report       validate.Report
	Path         string
	Bytes        int64
	VerifiedRows int64
	S3URL        string // empty when upload is disabled
	Elapsed      time.Duration
}

// Run executes the pipeline and returns the summary, or the first fatal
// error. Metrics are recorded per step regardless of outcome.
func Run(ctx context.Context, q db.Querier, p Params) (*Summary, error) {
	now := p.Now
	if now == nil {
		now = time.Now
	}
	start := now()
	ds := p.Dataset

	// Extract.
	t0 := time.Now()
	f, err := extract(ctx, q, ds, p.Since)
	if err == nil && f.NumRows() == 0 {
		err = fmt.Errorf("query returned no rows")
	}
	metrics.RecordStep(ds.Name, "extract", err, time.Since(t0))
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", ds.Name, err)
	}
	metrics.RecordRows(ds.Name, "extracted", int64(f.NumRows()))
	log.Printf("extracted %d rows from %s", f.NumRows(), ds.Table)

	// Validate. Findings are advisory: logged and counted, never fatal.
	t0 = time.Now()
	report := validate.Run(ds, f)
	metrics.RecordStep(ds.Name, "validate", nil, time.Since(t0))
	for _, finding := range report.Findings {
		if finding.Status == validate.StatusPass {
			continue
		}
		log.Printf("⚠️  %s", finding)
	}
	metrics.RecordRows(ds.Name, "findings_warning", int64(report.Warnings()))
	metrics.RecordRows(ds.Name, "findings_failure", int64(report.Failures()))
	if report.Warnings() == 0 && report.Failures() == 0 {
		log.Printf("validation clean: %d checks passed", len(report.Findings))
	}

	// Write.
	stamp := now()
	path := encoder.BronzePath(p.OutputPath, p.Source, ds.Name, stamp)
	t0 = time.Now()
	stats, err := encoder.Write(ds, f, p.Codec, path)
	metrics.RecordStep(ds.Name, "write", err, time.Since(t0))
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", ds.Name, err)
	}
	metrics.RecordRows(ds.Name, "written", stats.Rows)
	metrics.RecordFileSize(ds.Name, stats.Bytes)
	log.Printf("wrote %s (%d rows, %.2f MB)", path, stats.Rows, float64(stats.Bytes)/1024/1024)

	// Verify.
	t0 = time.Now()
	verified, err := encoder.Verify(stats)
	metrics.RecordStep(ds.Name, "verify", err, time.Since(t0))
	if err != nil {
		return nil, fmt.Errorf("verify %s: %w", path, err)
	}
	metrics.RecordRows(ds.Name, "verified", verified)

	sum := &Summary{
		Dataset:      ds.Name,
		Rows:         f.NumRows(),
		Report:       report,
		Path:         path,
		Bytes:        stats.Bytes,
		VerifiedRows: verified,
	}

	// Upload (optional).
	if p.Uploader != nil {
		key := encoder.BronzeKey(p.Source, ds.Name, stamp)
		t0 = time.Now()
		url, err := upload(ctx, p.Uploader, key, path, stats.Bytes)
		metrics.RecordStep(ds.Name, "upload", err, time.Since(t0))
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", key, err)
		}
		sum.S3URL = url
		log.Printf("uploaded %s", url)
	}

	sum.Elapsed = now().Sub(start)
	return sum, nil
}

// extract runs the dataset query (windowed when since is set), checks the
// result shape against the contract, and builds the frame with values
// normalized and coerced to their column kinds.
func extract(ctx context.Context, q db.Querier, ds schema.Dataset, since time.Time) (*frame.Frame, error) {
	sqlText := ds.Query
	var args []any
	if !since.IsZero() {
		var err error
		sqlText, err = ds.WindowedQuery(q.Placeholder(1))
		if err != nil {
			return nil, err
		}
		args = append(args, since)
	}

	raw, names, err := q.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", ds.Table, err)
	}
	if err := checkShape(ds, names); err != nil {
		return nil, err
	}

	f := frame.New(ds.Columns)
	for rn, row := range raw {
		vals := make([]any, len(row))
		for i, v := range row {
			nv, err := db.Normalize(v)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", rn, ds.Columns[i].Name, err)
			}
			cv, err := frame.Coerce(nv, ds.Columns[i].Kind)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", rn, ds.Columns[i].Name, err)
			}
			vals[i] = cv
		}
		if err := f.Append(vals); err != nil {
			return nil, fmt.Errorf("row %d: %w", rn, err)
		}
	}
	return f, nil
}

// checkShape confirms the result set has exactly the contract's columns in
// contract order. A drifted source view fails loudly here rather than
// producing a subtly wrong file.
func checkShape(ds schema.Dataset, names []string) error {
	want := ds.ColumnNames()
	if len(names) != len(want) {
		return fmt.Errorf("result has %d columns, contract has %d", len(names), len(want))
	}
	for i, n := range names {
		if !strings.EqualFold(n, want[i]) {
			return fmt.Errorf("result column %d is %q, contract expects %q", i, n, want[i])
		}
	}
	return nil
}

// upload puts the artifact and verifies the remote copy.
func upload(ctx context.Context, up Uploader, key, path string, size int64) (string, error) {
	url, err := up.Upload(ctx, key, path)
	if err != nil {
		return "", err
	}
	if err := up.Verify(ctx, key, size); err != nil {
		return "", err
	}
	return url, nil
}
