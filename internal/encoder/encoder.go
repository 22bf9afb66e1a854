// Package encoder serializes an extracted frame into a compressed parquet
// file under the bronze layout, and verifies the written artifact.
//
// The file is built in memory first (the result sets involved are modest),
// checksummed, and only then flushed to disk. Verification re-reads the
// file from disk and compares row count, size, and checksum against what
// was produced in memory, so a truncated or corrupted write is caught
// before the artifact is ever picked up downstream.
package encoder

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"
	"github.com/zeebo/xxh3"

	"github.com/gsolo1981/parquet-generator/internal/frame"
	"github.com/gsolo1981/parquet-generator/internal/schema"
)

// Stats describes a written parquet file.
type Stats struct {
	Path     string
	Rows     int64
	Bytes    int64
	Checksum uint64 // xxh3 of the file contents
}

// ParseCodec maps a configured compression name onto a parquet codec.
// Supported: snappy (the default), gzip, zstd, none.
func ParseCodec(name string) (compress.Codec, error) {
	switch name {
	case "", "snappy":
		return &parquet.Snappy, nil
	case "gzip":
		return &parquet.Gzip, nil
	case "zstd":
		return &parquet.Zstd, nil
	case "none", "uncompressed":
		return &parquet.Uncompressed, nil
	default:
		return nil, fmt.Errorf("unsupported compression codec %q (snappy, gzip, zstd, none)", name)
	}
}

// Schema builds the parquet schema for a dataset. Every column is optional:
// the source views are full of NULLs and the contract's Required flag is a
// data-quality concern, not a storage one.
func Schema(ds schema.Dataset) (*parquet.Schema, error) {
	group := parquet.Group{}
	for _, c := range ds.Columns {
		var node parquet.Node
		switch c.Kind {
		case schema.KindText:
			node = parquet.String()
		case schema.KindInteger:
			node = parquet.Int(64)
		case schema.KindReal:
			node = parquet.Leaf(parquet.DoubleType)
		case schema.KindBool:
			node = parquet.Leaf(parquet.BooleanType)
		case schema.KindTimestamp:
			node = parquet.Timestamp(parquet.Millisecond)
		default:
			return nil, fmt.Errorf("column %s: unknown kind %q", c.Name, c.Kind)
		}
		group[c.Name] = parquet.Optional(node)
	}
	return parquet.NewSchema(ds.Name, group), nil
}

// Write serializes the frame to path with the given codec and returns the
// stats used later by Verify. The parent directory is created as needed.
func Write(ds schema.Dataset, f *frame.Frame, codec compress.Codec, path string) (Stats, error) {
	sch, err := Schema(ds)
	if err != nil {
		return Stats{}, err
	}

	var buf bytes.Buffer
	w := parquet.NewGenericWriter[map[string]any](&buf, sch, parquet.Compression(codec))

	rows := make([]map[string]any, 0, f.NumRows())
	for _, row := range f.Rows {
		m := make(map[string]any, len(f.Columns))
		for i, c := range f.Columns {
			v := row[i]
			if v == nil {
				continue // absent key encodes as NULL for optional columns
			}
			if ts, ok := v.(time.Time); ok {
				v = ts.UnixMilli()
			}
			m[c.Name] = v
		}
		rows = append(rows, m)
	}
	if _, err := w.Write(rows); err != nil {
		return Stats{}, fmt.Errorf("encode %s: %w", ds.Name, err)
	}
	if err := w.Close(); err != nil {
		return Stats{}, fmt.Errorf("finalize %s: %w", ds.Name, err)
	}

	data := buf.Bytes()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Stats{}, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Stats{}, fmt.Errorf("write %s: %w", path, err)
	}

	return Stats{
		Path:     path,
		Rows:     int64(f.NumRows()),
		Bytes:    int64(len(data)),
		Checksum: xxh3.Hash(data),
	}, nil
}

// Verify re-reads the file at want.Path and checks it against the stats of
// the in-memory artifact: byte size, xxh3 checksum, and parquet row count.
// It returns the verified row count.
func Verify(want Stats) (int64, error) {
	data, err := os.ReadFile(want.Path)
	if err != nil {
		return 0, fmt.Errorf("re-read %s: %w", want.Path, err)
	}
	if int64(len(data)) != want.Bytes {
		return 0, fmt.Errorf("size mismatch: wrote %d bytes, file has %d", want.Bytes, len(data))
	}
	if sum := xxh3.Hash(data); sum != want.Checksum {
		return 0, fmt.Errorf("checksum mismatch: wrote %016x, file has %016x", want.Checksum, sum)
	}
	pf, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("open parquet %s: %w", want.Path, err)
	}
	if pf.NumRows() != want.Rows {
		return 0, fmt.Errorf("row count mismatch: wrote %d rows, file has %d", want.Rows, pf.NumRows())
	}
	return pf.NumRows(), nil
}
