package encoder

import (
	"fmt"
	"path"
	"path/filepath"
	"time"
)

// Bronze layout: bronze/{source}/{dataset}/execution_date=YYYY-MM-DD/
// with files named {dataset}_{HHMMSS}.parquet. The same shape is used on
// the local filesystem and as the S3 object key.

// Filename returns the timestamped file name for a dataset.
func Filename(dataset string, now time.Time) string {
	return fmt.Sprintf("%s_%s.parquet", dataset, now.Format("150405"))
}

// BronzeDir returns the local directory a dataset's file belongs in.
func BronzeDir(output, source, dataset string, now time.Time) string {
	return filepath.Join(output, "bronze", source, dataset, "execution_date="+now.Format("2006-01-02"))
}

// BronzePath returns the full local path for a dataset export at now.
func BronzePath(output, source, dataset string, now time.Time) string {
	return filepath.Join(BronzeDir(output, source, dataset, now), Filename(dataset, now))
}

// BronzeKey returns the S3 object key mirroring the local layout. Keys use
// forward slashes regardless of platform.
func BronzeKey(source, dataset string, now time.Time) string {
	return path.Join("bronze", source, dataset, "execution_date="+now.Format("2006-01-02"), Filename(dataset, now))
}
