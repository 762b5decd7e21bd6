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

// Package metrics provides OpenTelemetry metrics for navigation cycles.
//
// The [Recorder] implements the navigator engine's CycleRecorder contract
// and supports Prometheus (pull), OTLP HTTP (push), and stdout (development)
// exporters behind a single functional-options API.
//
// Built-in instruments:
//
//   - navigation_cycle_duration_seconds — histogram of cycle duration,
//     labeled by kind and outcome
//   - navigation_cycles_total — counter of cycles by kind and outcome
//   - navigation_cycles_active — up/down counter of cycles in flight
//   - navigation_redirects — histogram of redirects followed per cycle
//   - navigation_guard_duration_seconds — histogram of guard duration,
//     labeled by phase and route
//   - navigation_guard_errors_total — counter of guard errors
//
// Basic usage:
//
//	recorder, err := metrics.New(
//	    metrics.WithPrometheus(":9090", "/metrics"),
//	    metrics.WithServiceName("my-app"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer recorder.Shutdown(context.Background())
//
//	nav := navigator.MustNew(root, navigator.WithObservability(recorder))
//
// Custom metrics for application-level navigation signals are created on
// first use and capped by [WithMaxCustomMetrics]:
//
//	recorder.RecordCounter(ctx, "checkout_aborts_total", 1,
//	    attribute.String("reason", "payment_guard"))
package metrics
