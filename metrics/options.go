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
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Option defines functional options for Recorder configuration.
type Option func(*Recorder)

// WithMeterProvider provides a custom OpenTelemetry [metric.MeterProvider].
// The package will NOT set the global otel.SetMeterProvider() unless
// [WithGlobalMeterProvider] is also used, and provider options
// ([WithPrometheus], [WithOTLP], [WithStdout]) are ignored since you manage
// the provider yourself.
//
// Example:
//
//	mp := sdkmetric.NewMeterProvider(...)
//	recorder, err := metrics.New(
//	    metrics.WithMeterProvider(mp),
//	    metrics.WithServiceName("my-app"),
//	)
//	defer mp.Shutdown(context.Background())
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(r *Recorder) {
		r.meterProvider = provider
		r.customMeterProvider = true
	}
}

// WithGlobalMeterProvider registers the meter provider as the global
// OpenTelemetry meter provider via otel.SetMeterProvider(). By default the
// provider is not registered globally, so multiple configurations can
// coexist in one process.
func WithGlobalMeterProvider() Option {
	return func(r *Recorder) {
		r.registerGlobal = true
	}
}

// WithServiceName sets the service name attached to every metric.
func WithServiceName(name string) Option {
	return func(r *Recorder) {
		r.serviceName = name
	}
}

// WithServiceVersion sets the service version attached to every metric.
func WithServiceVersion(version string) Option {
	return func(r *Recorder) {
		r.serviceVersion = version
	}
}

// WithExportInterval sets the export interval for OTLP and stdout metrics.
func WithExportInterval(interval time.Duration) Option {
	return func(r *Recorder) {
		r.exportInterval = interval
	}
}

// WithDurationBuckets sets custom histogram bucket boundaries for cycle and
// guard duration metrics, in seconds. Defaults to [DefaultDurationBuckets].
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		r.durationBuckets = buckets
	}
}

// WithRedirectBuckets sets custom histogram bucket boundaries for the
// per-cycle redirect count. Defaults to [DefaultRedirectBuckets].
func WithRedirectBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		r.redirectBuckets = buckets
	}
}

// WithServerDisabled disables the automatic metrics server for Prometheus.
// Use this if you want to manually serve metrics via [Recorder.Handler].
func WithServerDisabled() Option {
	return func(r *Recorder) {
		r.autoStartServer = false
	}
}

// WithStrictPort requires the metrics server to use the exact port
// specified; if it is unavailable, startup fails instead of finding an
// alternative port.
func WithStrictPort() Option {
	return func(r *Recorder) {
		r.strictPort = true
	}
}

// WithMaxCustomMetrics sets the maximum number of custom metrics allowed.
func WithMaxCustomMetrics(maxLimit int) Option {
	return func(r *Recorder) {
		r.maxCustomMetrics = maxLimit
	}
}

// WithEventHandler sets a custom [EventHandler] for internal operational
// events. Use for custom alerting or integrating with non-slog logging
// systems.
//
// Example:
//
//	metrics.New(metrics.WithEventHandler(func(e metrics.Event) {
//	    if e.Type == metrics.EventError {
//	        alerting.Notify(e.Message)
//	    }
//	}))
func WithEventHandler(handler EventHandler) Option {
	return func(r *Recorder) {
		r.eventHandler = handler
	}
}

// WithLogger sets the logger for internal operational events using the
// default event handler. Convenience wrapper around [WithEventHandler].
func WithLogger(logger *slog.Logger) Option {
	return WithEventHandler(DefaultEventHandler(logger))
}

// WithPrometheus configures the Prometheus provider with port and path.
//
// Example:
//
//	recorder := metrics.MustNew(
//	    metrics.WithPrometheus(":9090", "/metrics"),
//	    metrics.WithServiceName("my-app"),
//	)
func WithPrometheus(port, path string) Option {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
		r.providerSetCount++
		if port != "" && !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		r.metricsPort = port
		if path != "" && !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		r.metricsPath = path
	}
}

// WithOTLP configures the OTLP HTTP provider with a collector endpoint.
//
// Example:
//
//	recorder := metrics.MustNew(
//	    metrics.WithOTLP("http://localhost:4318"),
//	    metrics.WithServiceName("my-app"),
//	)
func WithOTLP(endpoint string) Option {
	return func(r *Recorder) {
		r.provider = OTLPProvider
		r.providerSetCount++
		r.otlpEndpoint = endpoint
	}
}

// WithStdout configures the stdout provider for development and debugging.
//
// Example:
//
//	recorder := metrics.MustNew(
//	    metrics.WithStdout(),
//	    metrics.WithExportInterval(time.Second),
//	)
func WithStdout() Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
		r.providerSetCount++
	}
}
