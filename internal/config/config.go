// Package config centralizes application configuration. It follows a
// "clean" configuration pattern where all tunables live outside the
// code and are sourced from command-line flags with environment-variable
// fallbacks (12-factor friendly). Flags are defined first so that
// `-help` shows all available knobs and their defaults.
//
// The environment names are the ones the deployment already exports for
// this job (CONSUMER_DB_*, OUTPUT_PATH, PARQUET_COMPRESSION, ...).
//
// Typical usage:
//
//	cfg := config.Load() // reads os.Args and os.Environ
//
// For tests, prefer LoadFromArgs to keep them hermetic:
//
//	fs := flag.NewFlagSet("test", flag.ContinueOnError)
//	getenv := func(k string) string { return testEnv[k] }
//	cfg := config.LoadFromArgs(fs, getenv, []string{"-dataset=homes"})
package config

import (
	"flag"
	"fmt"
	"net/url"
	"os"
)

// Config holds all process configuration derived from flags and
// environment variables. All fields are plain values so the struct
// can be safely copied after construction.
type Config struct {
	// DB describes the source database. For MSSQL and SQLite a full DSN is
	// required. For Postgres, DSN is optional (it can be built from the
	// discrete CONSUMER_DB_* parts).
	DBDriver   string // Database driver: "postgres", "mssql", or "sqlite".
	RawDSN     string // Full DSN (required for mssql/sqlite; optional for Postgres).
	DBUser     string // Database username (Postgres convenience).
	DBPassword string // Database password (Postgres convenience).
	DBHost     string // Database host (Postgres convenience).
	DBPort     string // Database port (Postgres convenience).
	DBName     string // Database name (Postgres convenience).

	// Export selects what to extract and where to put it.
	Dataset     string // Dataset name from the registry (default "vehicles").
	Since       string // Optional RFC 3339 lower bound for the time window.
	OutputPath  string // Root of the local bronze tree.
	Compression string // Parquet codec: snappy, gzip, zstd, none.
	SourceName  string // Source system name used in the bronze path.

	// S3 enables the optional upload step when Bucket is non-empty.
	S3Bucket           string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// Metrics selects at most one backend; both empty means no-op.
	DDAgentAddr    string // DogStatsD address, e.g. 127.0.0.1:8125.
	PushgatewayURL string // Prometheus Pushgateway base URL.
}

// LoadFromArgs builds a Config by defining flags on fs, wiring each flag
// to an environment-variable fallback via getenv, and then parsing args.
// This is the most testable entry point: callers supply a private FlagSet,
// a getenv func (often backed by a map), and a synthetic arg slice.
//
// Precedence:
//  1. Environment values seed each flag's default.
//  2. Explicit CLI flags (in args) override the seeded defaults.
//
// The returned Config is fully populated; no further mutation occurs.
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) *Config {
	cfg := &Config{}

	// Inline helper uses the provided getenv to avoid touching process env.
	envOrDefaultFn := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}

	// DB connectivity
	fs.StringVar(&cfg.DBDriver, "db_driver", envOrDefaultFn("DB_DRIVER", "postgres"), "Database driver: 'postgres', 'mssql' or 'sqlite'.")
	fs.StringVar(&cfg.RawDSN, "dsn", getenv("DB_DSN"), "Full DSN (required for mssql/sqlite).")
	fs.StringVar(&cfg.DBUser, "db_user", getenv("CONSUMER_DB_USER"), "DB user")
	fs.StringVar(&cfg.DBPassword, "db_password", getenv("CONSUMER_DB_PASSWORD"), "DB password")
	fs.StringVar(&cfg.DBHost, "db_host", envOrDefaultFn("CONSUMER_DB_HOST", "localhost"), "DB host")
	fs.StringVar(&cfg.DBPort, "db_port", envOrDefaultFn("CONSUMER_DB_PORT", "5432"), "DB port")
	fs.StringVar(&cfg.DBName, "db_name", getenv("CONSUMER_DB_NAME"), "DB name")

	// Export
	fs.StringVar(&cfg.Dataset, "dataset", envOrDefaultFn("DATASET", "vehicles"), "Dataset to extract")
	fs.StringVar(&cfg.Since, "since", getenv("SINCE"), "Optional RFC 3339 lower bound on created_datetime")
	fs.StringVar(&cfg.OutputPath, "output", envOrDefaultFn("OUTPUT_PATH", "./output"), "Root directory of the bronze tree")
	fs.StringVar(&cfg.Compression, "compression", envOrDefaultFn("PARQUET_COMPRESSION", "snappy"), "Parquet codec: snappy, gzip, zstd, none")
	fs.StringVar(&cfg.SourceName, "source", envOrDefaultFn("SOURCE_NAME", "magenta"), "Source system name used in the bronze path")

	// S3 upload (optional). The credential env names match what the
	// deployment's .env already contains.
	fs.StringVar(&cfg.S3Bucket, "s3_bucket", getenv("S3_BUCKET"), "S3 bucket; empty disables upload")
	fs.StringVar(&cfg.AWSRegion, "aws_region", envOrDefaultFn("AWS_REGION", "us-east-1"), "AWS region")
	fs.StringVar(&cfg.AWSAccessKeyID, "aws_access_key_id", getenv("aws_access_key_id"), "AWS access key id (empty uses the default chain)")
	fs.StringVar(&cfg.AWSSecretAccessKey, "aws_secret_access_key", getenv("aws_secret_access_key"), "AWS secret access key")

	// Metrics (optional)
	fs.StringVar(&cfg.DDAgentAddr, "dd_agent_addr", getenv("DD_AGENT_ADDR"), "DogStatsD address; empty disables Datadog")
	fs.StringVar(&cfg.PushgatewayURL, "pushgateway_url", getenv("PROM_PUSHGATEWAY_URL"), "Prometheus Pushgateway URL; empty disables push")

	// Parse the provided args (nil means no extra args).
	if args == nil {
		args = []string{}
	}
	_ = fs.Parse(args)
	return cfg
}

// LoadFrom is a compatibility wrapper around LoadFromArgs for call-sites
// that don't need to pass args explicitly (useful in some tests).
func LoadFrom(fs *flag.FlagSet, getenv func(string) string) *Config {
	return LoadFromArgs(fs, getenv, nil)
}

// Load is the production entry point. It wires the loader to the process
// flag set (flag.CommandLine), reads environment variables via os.Getenv,
// and parses os.Args[1:] as the CLI arguments.
func Load() *Config {
	return LoadFromArgs(flag.CommandLine, os.Getenv, os.Args[1:])
}

// DSN returns the connection string for the configured driver. For Postgres
// an explicit DSN wins; otherwise one is assembled from the discrete parts,
// with credentials URL-escaped. Other drivers require RawDSN.
func (c *Config) DSN() (string, error) {
	if c.RawDSN != "" {
		return c.RawDSN, nil
	}
	if c.DBDriver != "postgres" {
		return "", fmt.Errorf("driver %q requires -dsn / DB_DSN", c.DBDriver)
	}
	if c.DBUser == "" || c.DBName == "" {
		return "", fmt.Errorf("postgres DSN needs CONSUMER_DB_USER and CONSUMER_DB_NAME (or a full -dsn)")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   c.DBHost + ":" + c.DBPort,
		Path:   "/" + c.DBName,
	}
	return u.String(), nil
}
