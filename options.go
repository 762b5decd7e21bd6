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

package navigator

import (
	"log/slog"

	"rivaas.dev/navigator/history"
)

// Option configures a Navigator during [New].
type Option func(*Navigator)

// WithHistory sets the history collaborator the engine navigates against.
// Defaults to an in-memory history; pass an adapter over the host platform's
// history API to integrate with browser or platform back stacks.
//
// Example:
//
//	nav, err := navigator.New(root, navigator.WithHistory(browserHistory))
func WithHistory(h history.History) Option {
	return func(nav *Navigator) {
		nav.hist = h
	}
}

// WithMaxRedirects bounds chained redirects within a single navigation
// cycle; once exceeded the cycle fails with [OutcomeRedirectLoop]. Defaults
// to 16. Values below 1 fail [New] with [ErrMaxRedirectsInvalid].
func WithMaxRedirects(n int) Option {
	return func(nav *Navigator) {
		nav.maxRedirects = n
	}
}

// WithLogger sets the structured logger for navigation debug and warning
// output. Logging is disabled by default.
//
// Example:
//
//	nav, err := navigator.New(root,
//	    navigator.WithLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil))),
//	)
func WithLogger(logger *slog.Logger) Option {
	return func(nav *Navigator) {
		nav.logger = logger
	}
}

// WithDiagnostics sets the handler for diagnostic events (long redirect
// chains, pops against an empty history, slow guards). Diagnostics are
// dropped by default.
//
// Example:
//
//	nav, err := navigator.New(root,
//	    navigator.WithDiagnostics(navigator.DiagnosticHandlerFunc(func(e navigator.DiagnosticEvent) {
//	        log.Printf("navigator: %s %s", e.Kind, e.Message)
//	    })),
//	)
func WithDiagnostics(h DiagnosticHandler) Option {
	return func(nav *Navigator) {
		nav.diagnostics = h
	}
}

// WithObservability sets the cycle recorder that receives lifecycle hooks
// for every navigation cycle. rivaas.dev/navigator/metrics provides an
// OpenTelemetry-backed recorder.
//
// Example:
//
//	recorder, err := metrics.New(metrics.WithPrometheus(":9090", "/metrics"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	nav, err := navigator.New(root, navigator.WithObservability(recorder))
func WithObservability(r CycleRecorder) Option {
	return func(nav *Navigator) {
		nav.recorder = r
	}
}

// WithGuards sets the global guard record. Global guards run before the
// corresponding per-route guards in every phase; the global validation gate
// runs exactly once per cycle, the global beforeLeave once per leaving route.
func WithGuards(guards Guards) Option {
	return func(nav *Navigator) {
		nav.global = guards
	}
}
