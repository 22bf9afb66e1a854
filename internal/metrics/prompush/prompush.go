// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// A batch job has nothing for Prometheus to scrape, so collected metrics are
// pushed to a Pushgateway once at job end (via Flush). The package maps the
// common export labels (job, step, status, kind) onto Prometheus labels and
// keeps all client_golang dependencies isolated here.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/gsolo1981/parquet-generator/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stepCounter  *prometheus.CounterVec // export_step_total
	stepDuration *prometheus.SummaryVec // export_step_duration_seconds
	recordCount  *prometheus.CounterVec // export_records_total
	fileBytes    prometheus.Summary     // export_file_bytes
}

// NewBackend constructs a Prometheus Pushgateway backend.
// jobName is the Pushgateway "job" grouping (typically the dataset name);
// gatewayURL is the base URL of the Pushgateway server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "export"
	}

	reg := prometheus.NewRegistry()

	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_step_total",
			Help: "Total number of export step executions, partitioned by step and status.",
		},
		[]string{"step", "status"},
	)
	stepDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "export_step_duration_seconds",
			Help:       "Duration of export steps in seconds, partitioned by step and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step", "status"},
	)
	recordCount := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_records_total",
			Help: "Record-level counts per kind (extracted, written, verified, findings).",
		},
		[]string{"kind"},
	)
	fileBytes := prometheus.NewSummary(
		prometheus.SummaryOpts{
			Name: "export_file_bytes",
			Help: "Size of written parquet files in bytes.",
		},
	)

	reg.MustRegister(stepCounter, stepDuration, recordCount, fileBytes)

	return &Backend{
		gatewayURL:   gatewayURL,
		jobName:      jobName,
		reg:          reg,
		stepCounter:  stepCounter,
		stepDuration: stepDuration,
		recordCount:  recordCount,
		fileBytes:    fileBytes,
	}, nil
}

// IncCounter routes known counter names onto their collectors. Unknown
// names are dropped rather than registered dynamically; the metric surface
// of this job is fixed.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "export_step_total":
		b.stepCounter.With(prometheus.Labels{
			"step":   labels["step"],
			"status": labels["status"],
		}).Add(delta)
	case "export_records_total":
		b.recordCount.With(prometheus.Labels{
			"kind": labels["kind"],
		}).Add(delta)
	}
}

// ObserveHistogram routes known observation names onto their collectors.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	switch name {
	case "export_step_duration_seconds":
		b.stepDuration.With(prometheus.Labels{
			"step":   labels["step"],
			"status": labels["status"],
		}).Observe(value)
	case "export_file_bytes":
		b.fileBytes.Observe(value)
	}
}

// Flush pushes the collected registry to the Pushgateway.
func (b *Backend) Flush() error {
	if err := push.New(b.gatewayURL, b.jobName).Gatherer(b.reg).Push(); err != nil {
		return fmt.Errorf("prompush: push to %s: %w", b.gatewayURL, err)
	}
	return nil
}
