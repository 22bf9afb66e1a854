package db

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Normalize maps a raw driver value onto the canonical shapes used by the
// frame: string, int64, float64, bool, time.Time, or nil for SQL NULL.
// Anything the supported drivers can legitimately return is covered; an
// unexpected type is an extraction error, not something to paper over.
func Normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case bool:
		return x, nil
	case int:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case time.Time:
		return x, nil
	case [16]byte:
		// pgx returns uuid columns as raw bytes.
		return fmt.Sprintf("%x-%x-%x-%x-%x", x[0:4], x[4:6], x[6:8], x[8:10], x[10:16]), nil
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil {
			return nil, fmt.Errorf("numeric to float64: %w", err)
		}
		if !f.Valid {
			return nil, nil
		}
		return f.Float64, nil
	default:
		return nil, fmt.Errorf("unsupported driver value of type %T", v)
	}
}
