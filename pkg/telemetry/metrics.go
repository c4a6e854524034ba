// Package telemetry provides OpenTelemetry integration for the application.
package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/resumeforge/resumeforge/pkg/logger"
)

const (
	// MeterName is the default meter name for the application
	MeterName = "github.com/resumeforge/resumeforge"
)

// Metrics holds all application metrics
type Metrics struct {
	// Export pipeline metrics
	ExportsTotal    metric.Int64Counter
	ExportDuration  metric.Float64Histogram
	ActiveExports   metric.Int64UpDownCounter
	ExportsByState  metric.Int64Counter
	RasterRetries   metric.Int64Counter
	OverflowReports metric.Int64Counter

	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
}

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// GetMetrics returns the global metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		var err error
		globalMetrics, err = initMetrics()
		if err != nil {
			logger.Error("Failed to initialize metrics", zap.Error(err))
			// Return empty metrics to avoid nil pointer
			globalMetrics = &Metrics{}
		}
	})
	return globalMetrics
}

// initMetrics initializes all application metrics
func initMetrics() (*Metrics, error) {
	meter := otel.Meter(MeterName)
	m := &Metrics{}

	var err error

	m.ExportsTotal, err = meter.Int64Counter(
		"resumeforge_exports_total",
		metric.WithDescription("Total number of export operations"),
		metric.WithUnit("{export}"),
	)
	if err != nil {
		return nil, err
	}

	m.ExportDuration, err = meter.Float64Histogram(
		"resumeforge_export_duration_seconds",
		metric.WithDescription("Duration of export operations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 2, 5, 10, 30, 60, 120),
	)
	if err != nil {
		return nil, err
	}

	m.ActiveExports, err = meter.Int64UpDownCounter(
		"resumeforge_active_exports",
		metric.WithDescription("Number of currently running export operations"),
		metric.WithUnit("{export}"),
	)
	if err != nil {
		return nil, err
	}

	m.ExportsByState, err = meter.Int64Counter(
		"resumeforge_exports_by_state_total",
		metric.WithDescription("Total number of exports by terminal state"),
		metric.WithUnit("{export}"),
	)
	if err != nil {
		return nil, err
	}

	m.RasterRetries, err = meter.Int64Counter(
		"resumeforge_raster_retries_total",
		metric.WithDescription("Total number of reduced-scale rasterization retries"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	m.OverflowReports, err = meter.Int64Counter(
		"resumeforge_overflow_reports_total",
		metric.WithDescription("Total number of overflow measurements reporting content beyond one page"),
		metric.WithUnit("{measurement}"),
	)
	if err != nil {
		return nil, err
	}

	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"resumeforge_http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	m.HTTPRequestDuration, err = meter.Float64Histogram(
		"resumeforge_http_request_duration_seconds",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordExportStart increments active export counters
func (m *Metrics) RecordExportStart(ctx context.Context, format string) {
	if m.ExportsTotal == nil {
		return
	}
	m.ExportsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
	if m.ActiveExports != nil {
		m.ActiveExports.Add(ctx, 1)
	}
}

// RecordExportEnd records the terminal state and duration of an export
func (m *Metrics) RecordExportEnd(ctx context.Context, format, state string, seconds float64) {
	if m.ActiveExports != nil {
		m.ActiveExports.Add(ctx, -1)
	}
	if m.ExportsByState != nil {
		m.ExportsByState.Add(ctx, 1, metric.WithAttributes(
			attribute.String("format", format),
			attribute.String("state", state),
		))
	}
	if m.ExportDuration != nil {
		m.ExportDuration.Record(ctx, seconds, metric.WithAttributes(attribute.String("format", format)))
	}
}

// RecordRasterRetry counts a reduced-scale retry attempt
func (m *Metrics) RecordRasterRetry(ctx context.Context) {
	if m.RasterRetries != nil {
		m.RasterRetries.Add(ctx, 1)
	}
}

// RecordOverflow counts an overflow measurement result
func (m *Metrics) RecordOverflow(ctx context.Context, overflow bool) {
	if m.OverflowReports != nil && overflow {
		m.OverflowReports.Add(ctx, 1)
	}
}
