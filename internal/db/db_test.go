package db

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeRows implements pgx.Rows over canned values, letting the Postgres
// adapter be tested without a network.
type fakeRows struct {
	names []string
	rows  [][]any
	pos   int
	err   error
}

func (f *fakeRows) Close()                        {}
func (f *fakeRows) Err() error                    { return f.err }
func (f *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (f *fakeRows) Conn() *pgx.Conn               { return nil }
func (f *fakeRows) RawValues() [][]byte           { return nil }
func (f *fakeRows) Scan(dest ...any) error        { return nil }
func (f *fakeRows) Values() ([]any, error)        { return f.rows[f.pos-1], nil }

func (f *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(f.names))
	for i, n := range f.names {
		fds[i] = pgconn.FieldDescription{Name: n}
	}
	return fds
}
func (f *fakeRows) Next() bool {
	if f.pos >= len(f.rows) {
		return false
	}
	f.pos++
	return true
}

type fakeConn struct {
	rows    *fakeRows
	lastSQL string
	closed  bool
}

func (f *fakeConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.lastSQL = sql
	return f.rows, nil
}
func (f *fakeConn) Close(ctx context.Context) error { f.closed = true; return nil }

func TestPgQuerier_BuffersRowsAndNames(t *testing.T) {
	conn := &fakeConn{rows: &fakeRows{
		names: []string{"id", "year"},
		rows:  [][]any{{"a", int32(2019)}, {"b", int32(2021)}},
	}}
	q := newPgFromConn(conn)

	rows, names, err := q.Query(context.Background(), "SELECT id, year FROM t")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 2 || len(names) != 2 || names[1] != "year" {
		t.Fatalf("unexpected result: rows=%v names=%v", rows, names)
	}
	if conn.lastSQL == "" {
		t.Fatalf("query never reached the connection")
	}
	if err := q.Close(context.Background()); err != nil || !conn.closed {
		t.Fatalf("close not delegated")
	}
}

func TestPlaceholders(t *testing.T) {
	if got := (&pgQuerier{}).Placeholder(2); got != "$2" {
		t.Fatalf("postgres placeholder: %s", got)
	}
	if got := (&sqlQuerier{driver: "mssql"}).Placeholder(1); got != "@p1" {
		t.Fatalf("mssql placeholder: %s", got)
	}
	if got := (&sqlQuerier{driver: "sqlite"}).Placeholder(1); got != "?" {
		t.Fatalf("sqlite placeholder: %s", got)
	}
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "oracle", "dsn"); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

// TestNormalize_Table covers the driver value shapes the adapters can
// produce, including pgx's raw uuid bytes.
func TestNormalize_Table(t *testing.T) {
	when := time.Now()
	uuid := [16]byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0, 0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0}

	cases := []struct {
		name    string
		in      any
		want    any
		wantErr bool
	}{
		{"nil", nil, nil, false},
		{"string", "x", "x", false},
		{"bytes", []byte("y"), "y", false},
		{"bool", true, true, false},
		{"int32 widened", int32(5), int64(5), false},
		{"int64", int64(9), int64(9), false},
		{"float32 widened", float32(1.5), float64(1.5), false},
		{"time", when, when, false},
		{"uuid bytes", uuid, "12345678-9abc-def0-1234-56789abcdef0", false},
		{"unsupported", struct{}{}, nil, true},
	}
	for _, tc := range cases {
		got, err := Normalize(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tc.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: want %v (%T), got %v (%T)", tc.name, tc.want, tc.want, got, got)
		}
	}
}
