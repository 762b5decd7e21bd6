// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	promclient "github.com/prometheus/client_golang/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Default histogram buckets for navigation metrics.
var (
	// DefaultDurationBuckets are histogram boundaries for cycle and guard
	// duration in seconds. Navigation guards are usually fast, but may call
	// out to authentication or data services.
	DefaultDurationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

	// DefaultRedirectBuckets are histogram boundaries for the number of
	// redirects followed within one cycle.
	DefaultRedirectBuckets = []float64{0, 1, 2, 3, 5, 8, 13}
)

// EventType represents the severity of an internal operational event.
type EventType int

const (
	// EventError indicates an error event (e.g., failed to export metrics).
	EventError EventType = iota
	// EventWarning indicates a warning event.
	EventWarning
	// EventInfo indicates an informational event (e.g., metrics server started).
	EventInfo
	// EventDebug indicates a debug event.
	EventDebug
)

// Event represents an internal operational event from the metrics package.
type Event struct {
	Type    EventType
	Message string
	Args    []any // slog-style key-value pairs
}

// EventHandler processes internal operational events from the metrics
// package. Implementations can log events, send them to monitoring systems,
// or take custom actions based on event type.
type EventHandler func(Event)

// DefaultEventHandler returns an EventHandler that logs events to the
// provided slog.Logger. This is the default implementation used by
// [WithLogger]. If logger is nil, returns a no-op handler.
func DefaultEventHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		return func(Event) {}
	}

	return func(e Event) {
		switch e.Type {
		case EventError:
			logger.Error(e.Message, e.Args...)
		case EventWarning:
			logger.Warn(e.Message, e.Args...)
		case EventInfo:
			logger.Info(e.Message, e.Args...)
		case EventDebug:
			logger.Debug(e.Message, e.Args...)
		}
	}
}

// Provider represents the available metrics providers.
type Provider string

const (
	// PrometheusProvider uses the Prometheus exporter for metrics (default).
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider uses the OTLP HTTP exporter for metrics.
	OTLPProvider Provider = "otlp"
	// StdoutProvider uses the stdout exporter for metrics (development/testing).
	StdoutProvider Provider = "stdout"
)

// Recorder collects OpenTelemetry metrics for navigation cycles. It
// implements the engine's CycleRecorder contract and is wired in with
// navigator.WithObservability. All methods are safe for concurrent use.
//
// By default, this package does NOT set the global OpenTelemetry meter
// provider; use [WithGlobalMeterProvider] if you want global registration.
// This allows multiple Recorder instances to coexist in the same process.
type Recorder struct {
	meter              metric.Meter
	meterProvider      metric.MeterProvider
	prometheusHandler  http.Handler
	prometheusRegistry *promclient.Registry // Custom registry to avoid conflicts
	metricsServer      *http.Server
	eventHandler       EventHandler

	// Built-in navigation metrics
	cycleDuration metric.Float64Histogram
	cycleCount    metric.Int64Counter
	activeCycles  metric.Int64UpDownCounter
	redirectCount metric.Int64Histogram
	guardDuration metric.Float64Histogram
	guardErrors   metric.Int64Counter

	// Custom metrics storage (protected by RWMutex)
	customMu          sync.RWMutex
	customCounters    map[string]metric.Int64Counter
	customHistograms  map[string]metric.Float64Histogram
	customGauges      map[string]metric.Float64Gauge
	customMetricCount int

	durationBuckets []float64
	redirectBuckets []float64

	exportInterval time.Duration

	serviceName    string
	serviceVersion string
	otlpEndpoint   string
	metricsPort    string
	metricsPath    string

	// Pre-computed common attributes
	serviceNameAttr    attribute.KeyValue
	serviceVersionAttr attribute.KeyValue

	serverMutex sync.Mutex // Protects metricsServer access

	maxCustomMetrics int

	provider            Provider
	providerSetCount    int
	isShuttingDown      atomic.Bool
	isStarted           atomic.Bool
	enabled             bool
	autoStartServer     bool
	strictPort          bool
	customMeterProvider bool // User provided their own meter provider
	registerGlobal      bool // Sets otel.SetMeterProvider()
}

// New creates a new [Recorder] with the given options. Returns an error if
// the metrics provider fails to initialize. For a version that panics on
// error, use [MustNew].
//
// Example:
//
//	recorder, err := metrics.New(
//	    metrics.WithPrometheus(":9090", "/metrics"),
//	    metrics.WithServiceName("my-app"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	nav := navigator.MustNew(root, navigator.WithObservability(recorder))
func New(opts ...Option) (*Recorder, error) {
	recorder := newDefaultRecorder()

	for _, opt := range opts {
		opt(recorder)
	}

	if err := recorder.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := recorder.initializeProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return recorder, nil
}

// MustNew is like [New] but panics if the metrics provider fails to
// initialize.
func MustNew(opts ...Option) *Recorder {
	recorder, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize metrics: %v", err))
	}

	return recorder
}

// newDefaultRecorder creates a new Recorder with default values.
func newDefaultRecorder() *Recorder {
	recorder := &Recorder{
		enabled:          true,
		serviceName:      "rivaas-navigator",
		serviceVersion:   "1.0.0",
		provider:         PrometheusProvider,
		exportInterval:   30 * time.Second,
		metricsPort:      ":9090",
		metricsPath:      "/metrics",
		autoStartServer:  true,
		maxCustomMetrics: 1000, // Limit to prevent unbounded metric creation
		durationBuckets:  DefaultDurationBuckets,
		redirectBuckets:  DefaultRedirectBuckets,
		customCounters:   make(map[string]metric.Int64Counter),
		customHistograms: make(map[string]metric.Float64Histogram),
		customGauges:     make(map[string]metric.Float64Gauge),
	}

	recorder.initCommonAttributes()

	return recorder
}

// initCommonAttributes pre-computes the attributes attached to every cycle.
func (r *Recorder) initCommonAttributes() {
	r.serviceNameAttr = attribute.String("service.name", r.serviceName)
	r.serviceVersionAttr = attribute.String("service.version", r.serviceVersion)
}

// validate checks that the configuration is valid.
func (r *Recorder) validate() error {
	if r.providerSetCount > 1 {
		return fmt.Errorf("conflicting provider options: only one of WithPrometheus, WithOTLP, or WithStdout can be used")
	}

	if r.serviceName == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	if r.serviceVersion == "" {
		return fmt.Errorf("service version cannot be empty")
	}
	if r.maxCustomMetrics < 1 {
		return fmt.Errorf("maxCustomMetrics must be at least 1, got %d", r.maxCustomMetrics)
	}

	if r.exportInterval < time.Second {
		r.emitWarning("Export interval is very low, may cause high CPU usage", "interval", r.exportInterval)
	}

	switch r.provider {
	case PrometheusProvider:
		if r.metricsPort == "" {
			return fmt.Errorf("metrics port cannot be empty for Prometheus provider")
		}
		if r.metricsPath == "" {
			return fmt.Errorf("metrics path cannot be empty for Prometheus provider")
		}
	case OTLPProvider:
		if r.otlpEndpoint == "" {
			r.emitWarning("OTLP endpoint not specified, will use default", "default", "http://localhost:4318")
			r.otlpEndpoint = "http://localhost:4318"
		}
	case StdoutProvider:
		// No specific validation needed for stdout
	default:
		return fmt.Errorf("unsupported metrics provider: %s", r.provider)
	}

	return nil
}

// Handler returns the Prometheus metrics [http.Handler]. This is useful when
// you want to serve metrics from your own server instead of the auto-started
// one ([WithServerDisabled]). Returns an error if not using
// [PrometheusProvider].
func (r *Recorder) Handler() (http.Handler, error) {
	if !r.enabled {
		return nil, fmt.Errorf("metrics not enabled")
	}

	if r.provider != PrometheusProvider || r.prometheusHandler == nil {
		return nil, fmt.Errorf("handler only available with Prometheus provider, current provider: %s", r.provider)
	}

	return r.prometheusHandler, nil
}

// Provider returns the current metrics provider.
func (r *Recorder) Provider() Provider {
	if !r.enabled {
		return ""
	}

	return r.provider
}

// ServerAddress returns the address of the metrics server, empty if not
// using [PrometheusProvider] or the server is disabled.
func (r *Recorder) ServerAddress() string {
	if !r.enabled || r.provider != PrometheusProvider || !r.autoStartServer {
		return ""
	}

	return r.metricsPort
}

// Path returns the path of the Prometheus metrics endpoint.
func (r *Recorder) Path() string {
	if !r.enabled || r.provider != PrometheusProvider {
		return ""
	}

	return r.metricsPath
}

// Start starts the metrics server if auto-start is enabled. Idempotent.
//
// Example:
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	recorder, _ := metrics.New(metrics.WithPrometheus(":9090", "/metrics"))
//	if err := recorder.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
func (r *Recorder) Start(ctx context.Context) error {
	if !r.enabled {
		return nil
	}

	if !r.isStarted.CompareAndSwap(false, true) {
		return nil // Already started
	}

	if r.autoStartServer && r.provider == PrometheusProvider {
		r.startMetricsServer(ctx)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics system, flushing any pending
// metrics. Call before the application exits so push-based providers export
// all buffered data. Idempotent.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if !r.enabled {
		return nil
	}

	if !r.isShuttingDown.CompareAndSwap(false, true) {
		return nil // Already shutting down or shut down
	}

	var errs []error

	if err := r.stopMetricsServer(ctx); err != nil {
		errs = append(errs, err)
	}

	// User-provided providers are managed by the user.
	if r.customMeterProvider {
		r.emitDebug("Skipping flush and shutdown of custom meter provider (managed by user)")
	} else if err := r.shutdownSDKMeterProvider(ctx); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	return nil
}

// shutdownSDKMeterProvider flushes and shuts down the SDK meter provider.
// Flush failures are logged as warnings and do not block shutdown.
func (r *Recorder) shutdownSDKMeterProvider(ctx context.Context) error {
	mp, ok := r.meterProvider.(*sdkmetric.MeterProvider)
	if !ok {
		return nil
	}

	r.emitDebug("Flushing pending metrics")
	if err := mp.ForceFlush(ctx); err != nil {
		r.emitWarning("metrics flush warning", "error", err)
	}

	r.emitDebug("Shutting down meter provider")
	if err := mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("meter provider shutdown: %w", err)
	}

	return nil
}

// ForceFlush immediately exports any pending metric data. Useful for
// push-based providers (OTLP, stdout) at checkpoints; for Prometheus this is
// a no-op since metrics are collected on scrape.
func (r *Recorder) ForceFlush(ctx context.Context) error {
	if !r.enabled || r.isShuttingDown.Load() {
		return nil
	}

	if mp, ok := r.meterProvider.(*sdkmetric.MeterProvider); ok {
		if err := mp.ForceFlush(ctx); err != nil {
			return fmt.Errorf("metrics force flush: %w", err)
		}
	}

	return nil
}

// IsEnabled returns true if metrics are enabled.
func (r *Recorder) IsEnabled() bool {
	return r.enabled
}

// ServiceName returns the service name.
func (r *Recorder) ServiceName() string {
	return r.serviceName
}

// ServiceVersion returns the service version.
func (r *Recorder) ServiceVersion() string {
	return r.serviceVersion
}

// emitError emits an error event if an event handler is configured.
func (r *Recorder) emitError(msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: EventError, Message: msg, Args: args})
	}
}

// emitWarning emits a warning event if an event handler is configured.
func (r *Recorder) emitWarning(msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: EventWarning, Message: msg, Args: args})
	}
}

// emitInfo emits an info event if an event handler is configured.
func (r *Recorder) emitInfo(msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: EventInfo, Message: msg, Args: args})
	}
}

// emitDebug emits a debug event if an event handler is configured.
func (r *Recorder) emitDebug(msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: EventDebug, Message: msg, Args: args})
	}
}
