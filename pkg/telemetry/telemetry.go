// Package telemetry provides OpenTelemetry integration for the application.
// It exports application metrics through a Prometheus scrape endpoint.
package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.uber.org/zap"

	"github.com/resumeforge/resumeforge/consts"
	"github.com/resumeforge/resumeforge/pkg/logger"
)

// Default configuration values
const (
	defaultHTTPTimeout    = 10 * time.Second
	defaultPrometheusPort = 9090
)

// Config holds the telemetry configuration
type Config struct {
	// Enabled enables/disables telemetry
	Enabled bool `yaml:"enabled"`
	// ServiceName is the name of the service for telemetry
	ServiceName string `yaml:"service_name"`
	// Prometheus configuration for metrics export
	Prometheus PrometheusConfig `yaml:"prometheus"`
}

// PrometheusConfig holds Prometheus metrics configuration
type PrometheusConfig struct {
	// Enabled enables Prometheus metrics export
	Enabled bool `yaml:"enabled"`
	// Port is the port for the metrics HTTP server
	Port int `yaml:"port"`
}

// Telemetry manages OpenTelemetry providers and exporters
type Telemetry struct {
	config        Config
	meterProvider *sdkmetric.MeterProvider
	metricsServer *http.Server
}

// New creates a new Telemetry instance with the given configuration
func New(cfg Config) (*Telemetry, error) {
	if !cfg.Enabled {
		logger.Info("Telemetry is disabled")
		return &Telemetry{config: cfg}, nil
	}

	// Set default service name
	if cfg.ServiceName == "" {
		cfg.ServiceName = consts.ServiceName
	}

	// Set default Prometheus port
	if cfg.Prometheus.Port == 0 {
		cfg.Prometheus.Port = defaultPrometheusPort
	}

	t := &Telemetry{config: cfg}

	// Create resource with service information
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(consts.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if err := t.initMeterProvider(res); err != nil {
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}

	logger.Info("Telemetry initialized",
		zap.String("service_name", cfg.ServiceName),
		zap.Bool("prometheus_enabled", cfg.Prometheus.Enabled),
	)

	return t, nil
}

// initMeterProvider initializes the meter provider with Prometheus exporter
func (t *Telemetry) initMeterProvider(res *resource.Resource) error {
	var opts []sdkmetric.Option
	opts = append(opts, sdkmetric.WithResource(res))

	// Add Prometheus exporter if enabled
	if t.config.Prometheus.Enabled {
		exporter, err := prometheus.New()
		if err != nil {
			return fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		opts = append(opts, sdkmetric.WithReader(exporter))

		// Start metrics HTTP server
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())

		t.metricsServer = &http.Server{
			Addr:         fmt.Sprintf(":%d", t.config.Prometheus.Port),
			Handler:      mux,
			ReadTimeout:  defaultHTTPTimeout,
			WriteTimeout: defaultHTTPTimeout,
		}

		go func() {
			logger.Info("Starting Prometheus metrics server", zap.Int("port", t.config.Prometheus.Port))
			if err := t.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Prometheus metrics server error", zap.Error(err))
			}
		}()
	}

	// Create meter provider
	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	t.meterProvider = mp

	return nil
}

// Shutdown gracefully shuts down all telemetry providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if !t.config.Enabled {
		return nil
	}

	logger.Info("Shutting down telemetry")

	if t.meterProvider != nil {
		if err := t.meterProvider.Shutdown(ctx); err != nil {
			logger.Error("Failed to shutdown meter provider", zap.Error(err))
		}
	}

	if t.metricsServer != nil {
		if err := t.metricsServer.Shutdown(ctx); err != nil {
			logger.Error("Failed to shutdown metrics server", zap.Error(err))
		}
	}

	return nil
}

// IsEnabled returns whether telemetry is enabled
func (t *Telemetry) IsEnabled() bool {
	return t.config.Enabled
}
