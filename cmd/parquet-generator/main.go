// Command parquet-generator extracts one dataset from the consumer
// database and writes it as a compressed parquet file under the bronze
// tree, optionally uploading the verified file to the datalake bucket.
//
// It is a single-shot batch job: it connects, extracts, validates, writes,
// verifies, reports, and exits. Scheduling and containerization live
// outside this binary.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/gsolo1981/parquet-generator/internal/config"
	"github.com/gsolo1981/parquet-generator/internal/db"
	"github.com/gsolo1981/parquet-generator/internal/encoder"
	"github.com/gsolo1981/parquet-generator/internal/job"
	"github.com/gsolo1981/parquet-generator/internal/metrics"
	"github.com/gsolo1981/parquet-generator/internal/metrics/datadog"
	"github.com/gsolo1981/parquet-generator/internal/metrics/prompush"
	"github.com/gsolo1981/parquet-generator/internal/s3up"
	"github.com/gsolo1981/parquet-generator/internal/schema"
)

func main() {
	// Local runs keep credentials in .env; in the container the variables
	// are injected and the file simply doesn't exist.
	_ = godotenv.Load()

	cfg := config.Load()

	if err := run(cfg); err != nil {
		_ = metrics.Flush()
		log.Fatalf("export failed: %v", err)
	}
	if err := metrics.Flush(); err != nil {
		log.Printf("⚠️  flush metrics: %v", err)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	// Resolve and fail on configuration problems before touching the network.
	ds, err := schema.Lookup(cfg.Dataset)
	if err != nil {
		return err
	}
	codec, err := encoder.ParseCodec(cfg.Compression)
	if err != nil {
		return err
	}
	var since time.Time
	if cfg.Since != "" {
		since, err = time.Parse(time.RFC3339, cfg.Since)
		if err != nil {
			return err
		}
	}
	dsn, err := cfg.DSN()
	if err != nil {
		return err
	}

	installMetrics(cfg, ds.Name)

	log.Printf("exporting %s from %s (%s) as %s", ds.Name, cfg.DBHost, cfg.DBDriver, cfg.Compression)

	t0 := time.Now()
	q, err := db.Open(ctx, cfg.DBDriver, dsn)
	metrics.RecordStep(ds.Name, "connect", err, time.Since(t0))
	if err != nil {
		return err
	}
	defer q.Close(ctx)

	var up job.Uploader
	if cfg.S3Bucket != "" {
		u, err := s3up.New(ctx, s3up.Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			return err
		}
		up = u
	}

	sum, err := job.Run(ctx, q, job.Params{
		Dataset:    ds,
		Source:     cfg.SourceName,
		OutputPath: cfg.OutputPath,
		Codec:      codec,
		Since:      since,
		Uploader:   up,
	})
	if err != nil {
		return err
	}

	log.Printf("done: %d rows -> %s (%.2f MB, verified %d rows, %d warnings, %d failures) in %s",
		sum.Rows, sum.Path, float64(sum.Bytes)/1024/1024, sum.VerifiedRows,
		sum.Report.Warnings(), sum.Report.Failures(), sum.Elapsed.Round(time.Millisecond))
	if sum.S3URL != "" {
		log.Printf("available at %s", sum.S3URL)
	}
	return nil
}

// installMetrics selects at most one backend; Datadog wins when both are
// configured since the agent is cheaper to reach than a Pushgateway.
func installMetrics(cfg *config.Config, ds string) {
	switch {
	case cfg.DDAgentAddr != "":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       cfg.DDAgentAddr,
			Namespace:  "export.",
			GlobalTags: []string{"service:parquet-generator", "dataset:" + ds},
		})
		if err != nil {
			log.Printf("⚠️  datadog backend disabled: %v", err)
			return
		}
		metrics.SetBackend(b)
	case cfg.PushgatewayURL != "":
		b, err := prompush.NewBackend(ds, cfg.PushgatewayURL)
		if err != nil {
			log.Printf("⚠️  pushgateway backend disabled: %v", err)
			return
		}
		metrics.SetBackend(b)
	}
}
