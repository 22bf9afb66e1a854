package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// pgConnLike is the minimal subset of *pgx.Conn used by the adapter. The
// seam allows injecting a test double, enabling hermetic (non-networked)
// testing.
type pgConnLike interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close(ctx context.Context) error
}

// pgQuerier is the concrete Postgres adapter. It wraps Query and Close
// around pgx.Conn (via pgConnLike).
type pgQuerier struct{ conn pgConnLike }

// NewPg connects to Postgres using pgx.Connect and wraps the connection.
// Callers are responsible for closing it via Close().
func NewPg(ctx context.Context, dsn string) (Querier, error) {
	c, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &pgQuerier{conn: c}, nil
}

// Query runs the statement through pgx and buffers all rows via
// rows.Values(), which yields one freshly allocated value slice per row.
func (p *pgQuerier) Query(ctx context.Context, query string, args ...any) ([][]any, []string, error) {
	rows, err := p.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	names := make([]string, len(fds))
	for i, fd := range fds {
		names[i] = fd.Name
	}

	var out [][]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, nil, fmt.Errorf("fetch row %d: %w", len(out), err)
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return out, names, nil
}

func (p *pgQuerier) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

// Close closes the underlying connection.
func (p *pgQuerier) Close(ctx context.Context) error { return p.conn.Close(ctx) }

// newPgFromConn constructs a pgQuerier from a pgConnLike fake.
// Used exclusively in unit tests.
func newPgFromConn(c pgConnLike) *pgQuerier { return &pgQuerier{conn: c} }
