package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Registered database/sql drivers. Importing this package (directly or
	// through Open) makes the "mssql" and "sqlite" querier kinds available.
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"
)

// sqlQuerier adapts database/sql-backed drivers to the Querier interface.
// It is shared by the MSSQL and SQLite backends, which differ only in driver
// name and placeholder syntax.
type sqlQuerier struct {
	db     *sql.DB
	driver string
}

// NewSQL opens a database/sql handle for the given driver ("mssql" or
// "sqlite") and verifies connectivity with a ping.
func NewSQL(driver, dsn string) (Querier, error) {
	name, ok := map[string]string{
		"mssql":  "sqlserver",
		"sqlite": "sqlite",
	}[strings.ToLower(driver)]
	if !ok {
		return nil, fmt.Errorf("unsupported database/sql driver %q", driver)
	}
	h, err := sql.Open(name, dsn)
	if err != nil {
		return nil, err
	}
	if err := h.Ping(); err != nil {
		h.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return &sqlQuerier{db: h, driver: strings.ToLower(driver)}, nil
}

func (s *sqlQuerier) Query(ctx context.Context, query string, args ...any) ([][]any, []string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]any
	for rows.Next() {
		vals := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("fetch row %d: %w", len(out), err)
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return out, names, nil
}

func (s *sqlQuerier) Placeholder(n int) string {
	if s.driver == "mssql" {
		return fmt.Sprintf("@p%d", n)
	}
	return "?"
}

func (s *sqlQuerier) Close(ctx context.Context) error { return s.db.Close() }
