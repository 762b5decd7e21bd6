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
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"rivaas.dev/navigator"
)

// Recorder implements the engine's cycle observability contract.
var _ navigator.CycleRecorder = (*Recorder)(nil)

// metricNameRegex validates metric names according to OpenTelemetry
// conventions: a leading letter followed by alphanumerics, underscores,
// dots, and hyphens.
var metricNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_.-]*$`)

// maxMetricNameLength is the maximum allowed length for metric names.
const maxMetricNameLength = 255

// Reserved metric name prefixes that must not be used for custom metrics.
var reservedPrefixes = []string{
	"__",          // Reserved by Prometheus for internal use
	"navigation_", // Reserved by this package for navigation metrics
}

// limitError is returned when the custom metrics limit is reached.
type limitError struct {
	metricName string
	limit      int
	current    int
}

func (e *limitError) Error() string {
	return fmt.Sprintf("metrics limit reached: cannot create '%s' (current: %d, limit: %d)",
		e.metricName, e.current, e.limit)
}

// validateMetricName validates that a metric name conforms to OpenTelemetry
// conventions.
func validateMetricName(name string) error {
	if name == "" {
		return fmt.Errorf("metric name cannot be empty")
	}
	if len(name) > maxMetricNameLength {
		return fmt.Errorf("metric name too long: %d characters (max %d)", len(name), maxMetricNameLength)
	}
	if !metricNameRegex.MatchString(name) {
		return fmt.Errorf("invalid metric name '%s': must start with letter and contain only alphanumeric, underscore, dot, or hyphen", name)
	}

	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(name, prefix) {
			return fmt.Errorf("metric name '%s' uses reserved prefix '%s': reserved prefixes are %v",
				name, prefix, reservedPrefixes)
		}
	}

	return nil
}

// cycleMetrics holds per-cycle state between OnCycleStart and OnCycleEnd.
// It is the opaque token handed back to the engine.
type cycleMetrics struct {
	startTime  time.Time
	attributes []attribute.KeyValue
}

// OnCycleStart begins metrics collection for one navigation cycle.
// Returning a nil state when disabled excludes the cycle from recording.
func (r *Recorder) OnCycleStart(ctx context.Context, _ string, kind navigator.CycleKind) (context.Context, any) {
	if !r.enabled {
		return ctx, nil
	}

	c := &cycleMetrics{startTime: time.Now()}

	// The target URL is deliberately not an attribute: parameter values make
	// its cardinality unbounded. The cycle kind and outcome are enough to
	// aggregate on.
	c.attributes = make([]attribute.KeyValue, 3, 5)
	c.attributes[0] = r.serviceNameAttr
	c.attributes[1] = r.serviceVersionAttr
	c.attributes[2] = attribute.String("navigation.kind", string(kind))

	r.activeCycles.Add(ctx, 1, metric.WithAttributes(c.attributes...))

	return ctx, c
}

// OnGuard records the duration of a single guard invocation. The route is
// the declared route name or pattern, so its cardinality is bounded by the
// route tree.
func (r *Recorder) OnGuard(ctx context.Context, state any, phase navigator.GuardPhase, route string, seconds float64, err error) {
	c, ok := state.(*cycleMetrics)
	if !ok || c == nil {
		return
	}

	attrs := append(c.attributes[:len(c.attributes):len(c.attributes)],
		attribute.String("navigation.phase", string(phase)),
		attribute.String("navigation.route", route),
	)

	r.guardDuration.Record(ctx, seconds, metric.WithAttributes(attrs...))

	if err != nil {
		r.guardErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// OnCycleEnd completes metrics collection for one navigation cycle.
func (r *Recorder) OnCycleEnd(ctx context.Context, state any, result *navigator.Result, err error) {
	c, ok := state.(*cycleMetrics)
	if !ok || c == nil {
		return
	}

	duration := time.Since(c.startTime).Seconds()

	outcome := "error"
	redirects := 0
	if err == nil && result != nil {
		outcome = result.Outcome.String()
		redirects = result.Redirects
	}

	finalAttributes := append(c.attributes,
		attribute.String("navigation.outcome", outcome),
	)

	r.cycleDuration.Record(ctx, duration, metric.WithAttributes(finalAttributes...))
	r.cycleCount.Add(ctx, 1, metric.WithAttributes(finalAttributes...))
	r.redirectCount.Record(ctx, int64(redirects), metric.WithAttributes(finalAttributes...))

	// Active cycles are keyed by the start-time attributes so the up and
	// down sides always match.
	r.activeCycles.Add(ctx, -1, metric.WithAttributes(c.attributes[:3]...))
}

// initializeInstruments creates the built-in navigation instruments.
func (r *Recorder) initializeInstruments() error {
	var err error

	r.cycleDuration, err = r.meter.Float64Histogram(
		"navigation_cycle_duration_seconds",
		metric.WithDescription("Duration of navigation cycles in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create cycle duration histogram: %w", err)
	}

	r.cycleCount, err = r.meter.Int64Counter(
		"navigation_cycles_total",
		metric.WithDescription("Total number of navigation cycles by kind and outcome"),
	)
	if err != nil {
		return fmt.Errorf("failed to create cycle count counter: %w", err)
	}

	r.activeCycles, err = r.meter.Int64UpDownCounter(
		"navigation_cycles_active",
		metric.WithDescription("Number of navigation cycles in flight"),
	)
	if err != nil {
		return fmt.Errorf("failed to create active cycles gauge: %w", err)
	}

	r.redirectCount, err = r.meter.Int64Histogram(
		"navigation_redirects",
		metric.WithDescription("Redirects followed within one navigation cycle"),
		metric.WithExplicitBucketBoundaries(r.redirectBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create redirect histogram: %w", err)
	}

	r.guardDuration, err = r.meter.Float64Histogram(
		"navigation_guard_duration_seconds",
		metric.WithDescription("Duration of guard invocations in seconds by phase"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create guard duration histogram: %w", err)
	}

	r.guardErrors, err = r.meter.Int64Counter(
		"navigation_guard_errors_total",
		metric.WithDescription("Total number of guard invocations that returned an error"),
	)
	if err != nil {
		return fmt.Errorf("failed to create guard error counter: %w", err)
	}

	return nil
}

// RecordCounter increments a custom counter metric, creating it on first
// use. Returns an error if the name is invalid or the custom metric limit is
// reached.
//
// Example:
//
//	recorder.RecordCounter(ctx, "checkout_aborts_total", 1,
//	    attribute.String("reason", "payment_guard"))
func (r *Recorder) RecordCounter(ctx context.Context, name string, value int64, attrs ...attribute.KeyValue) error {
	if !r.enabled {
		return nil
	}

	counter, err := r.getOrCreateCounter(name)
	if err != nil {
		return err
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))

	return nil
}

// RecordHistogram records a value in a custom histogram metric, creating it
// on first use.
func (r *Recorder) RecordHistogram(ctx context.Context, name string, value float64, attrs ...attribute.KeyValue) error {
	if !r.enabled {
		return nil
	}

	histogram, err := r.getOrCreateHistogram(name)
	if err != nil {
		return err
	}
	histogram.Record(ctx, value, metric.WithAttributes(attrs...))

	return nil
}

// RecordGauge sets a custom gauge metric, creating it on first use.
func (r *Recorder) RecordGauge(ctx context.Context, name string, value float64, attrs ...attribute.KeyValue) error {
	if !r.enabled {
		return nil
	}

	gauge, err := r.getOrCreateGauge(name)
	if err != nil {
		return err
	}
	gauge.Record(ctx, value, metric.WithAttributes(attrs...))

	return nil
}

// getOrCreateCounter returns the named custom counter, creating it under the
// custom metric limit.
func (r *Recorder) getOrCreateCounter(name string) (metric.Int64Counter, error) {
	r.customMu.RLock()
	counter, exists := r.customCounters[name]
	r.customMu.RUnlock()
	if exists {
		return counter, nil
	}

	if err := validateMetricName(name); err != nil {
		return nil, err
	}

	r.customMu.Lock()
	defer r.customMu.Unlock()

	// Double-check after acquiring the write lock.
	if counter, exists := r.customCounters[name]; exists {
		return counter, nil
	}
	if r.customMetricCount >= r.maxCustomMetrics {
		return nil, &limitError{metricName: name, limit: r.maxCustomMetrics, current: r.customMetricCount}
	}

	counter, err := r.meter.Int64Counter(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter '%s': %w", name, err)
	}

	r.customCounters[name] = counter
	r.customMetricCount++

	return counter, nil
}

// getOrCreateHistogram returns the named custom histogram, creating it under
// the custom metric limit.
func (r *Recorder) getOrCreateHistogram(name string) (metric.Float64Histogram, error) {
	r.customMu.RLock()
	histogram, exists := r.customHistograms[name]
	r.customMu.RUnlock()
	if exists {
		return histogram, nil
	}

	if err := validateMetricName(name); err != nil {
		return nil, err
	}

	r.customMu.Lock()
	defer r.customMu.Unlock()

	if histogram, exists := r.customHistograms[name]; exists {
		return histogram, nil
	}
	if r.customMetricCount >= r.maxCustomMetrics {
		return nil, &limitError{metricName: name, limit: r.maxCustomMetrics, current: r.customMetricCount}
	}

	histogram, err := r.meter.Float64Histogram(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram '%s': %w", name, err)
	}

	r.customHistograms[name] = histogram
	r.customMetricCount++

	return histogram, nil
}

// getOrCreateGauge returns the named custom gauge, creating it under the
// custom metric limit.
func (r *Recorder) getOrCreateGauge(name string) (metric.Float64Gauge, error) {
	r.customMu.RLock()
	gauge, exists := r.customGauges[name]
	r.customMu.RUnlock()
	if exists {
		return gauge, nil
	}

	if err := validateMetricName(name); err != nil {
		return nil, err
	}

	r.customMu.Lock()
	defer r.customMu.Unlock()

	if gauge, exists := r.customGauges[name]; exists {
		return gauge, nil
	}
	if r.customMetricCount >= r.maxCustomMetrics {
		return nil, &limitError{metricName: name, limit: r.maxCustomMetrics, current: r.customMetricCount}
	}

	gauge, err := r.meter.Float64Gauge(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge '%s': %w", name, err)
	}

	r.customGauges[name] = gauge
	r.customMetricCount++

	return gauge, nil
}
