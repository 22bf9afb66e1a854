package config

import (
	"flag"
	"strings"
	"testing"
)

// TestLoadFrom_EnvDefaultsAndFlags validates the basic precedence model for
// LoadFromArgs: environment seeds defaults, explicit flags override env.
func TestLoadFrom_EnvDefaultsAndFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	env := map[string]string{
		"CONSUMER_DB_HOST":    "db.internal",
		"CONSUMER_DB_USER":    "etl",
		"CONSUMER_DB_NAME":    "consumer",
		"PARQUET_COMPRESSION": "gzip",
		"OUTPUT_PATH":         "/app/output",
	}
	getenv := func(k string) string { return env[k] }

	cfg := LoadFromArgs(fs, getenv, []string{"-dataset=homes", "-compression=zstd"})

	if cfg.DBHost != "db.internal" || cfg.DBUser != "etl" || cfg.DBName != "consumer" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.OutputPath != "/app/output" {
		t.Fatalf("output env not applied: %s", cfg.OutputPath)
	}
	if cfg.Compression != "zstd" {
		t.Fatalf("flag should override env: %s", cfg.Compression)
	}
	if cfg.Dataset != "homes" {
		t.Fatalf("flag not applied: %s", cfg.Dataset)
	}
}

// TestLoad_Defaults ensures that when no environment or flags are present,
// default values are populated to sensible settings.
func TestLoad_Defaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg := LoadFrom(fs, func(string) string { return "" }) // no env
	if cfg.DBDriver != "postgres" {
		t.Fatalf("want postgres default, got %s", cfg.DBDriver)
	}
	if cfg.Dataset != "vehicles" || cfg.Compression != "snappy" {
		t.Fatalf("export defaults not set: %+v", cfg)
	}
	if cfg.SourceName != "magenta" || cfg.AWSRegion != "us-east-1" {
		t.Fatalf("source/region defaults not set: %+v", cfg)
	}
	if cfg.S3Bucket != "" || cfg.DDAgentAddr != "" || cfg.PushgatewayURL != "" {
		t.Fatalf("optional integrations must default off: %+v", cfg)
	}
}

// TestDSN covers DSN assembly and its failure modes.
func TestDSN(t *testing.T) {
	// Explicit DSN wins for any driver.
	c := &Config{DBDriver: "mssql", RawDSN: "sqlserver://u:p@h:1433?database=d"}
	if dsn, err := c.DSN(); err != nil || !strings.HasPrefix(dsn, "sqlserver://") {
		t.Fatalf("explicit dsn: %q, %v", dsn, err)
	}

	// Non-postgres without a DSN is a config error.
	c = &Config{DBDriver: "sqlite"}
	if _, err := c.DSN(); err == nil {
		t.Fatalf("sqlite without dsn accepted")
	}

	// Postgres assembles from parts and escapes credentials.
	c = &Config{
		DBDriver:   "postgres",
		DBUser:     "etl",
		DBPassword: "p@ss/word",
		DBHost:     "db.internal",
		DBPort:     "5432",
		DBName:     "consumer",
	}
	dsn, err := c.DSN()
	if err != nil {
		t.Fatalf("assemble dsn: %v", err)
	}
	if !strings.HasPrefix(dsn, "postgres://etl:") || !strings.HasSuffix(dsn, "@db.internal:5432/consumer") {
		t.Fatalf("assembled dsn wrong: %s", dsn)
	}
	if strings.Contains(dsn, "p@ss/word") {
		t.Fatalf("credentials not escaped: %s", dsn)
	}

	// Missing user/name is a config error.
	c = &Config{DBDriver: "postgres", DBHost: "h", DBPort: "5432"}
	if _, err := c.DSN(); err == nil {
		t.Fatalf("incomplete postgres config accepted")
	}
}
