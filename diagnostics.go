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

// DiagnosticEvent represents a navigation diagnostic or anomaly.
//
// Diagnostic events are optional — the engine functions correctly whether
// they are collected or not. They surface edge cases that may indicate
// configuration issues (routes that always redirect several times, pops
// against an empty history) for observability systems.
type DiagnosticEvent struct {
	Kind    DiagnosticKind
	Message string
	Fields  map[string]any // Structured context
}

// DiagnosticKind categorizes diagnostic events.
type DiagnosticKind string

const (
	// DiagRedirectChainLong fires when a cycle follows more than half of the
	// configured redirect bound; the configuration is probably one hop away
	// from a redirect-loop failure.
	DiagRedirectChainLong DiagnosticKind = "redirect_chain_long"

	// DiagRedirectUnresolved fires when a redirect route's guard returns
	// Continue; a redirect route has nothing to render, so the cycle is
	// cancelled.
	DiagRedirectUnresolved DiagnosticKind = "redirect_unresolved"

	// DiagEmptyHistoryPop fires when a pop is requested with no previous
	// entry and no ancestor route to fall back to.
	DiagEmptyHistoryPop DiagnosticKind = "empty_history_pop"

	// DiagSlowGuard fires when a single guard takes longer than a second;
	// guards run strictly sequentially, so one slow guard stalls the whole
	// cycle.
	DiagSlowGuard DiagnosticKind = "slow_guard"
)

// DiagnosticHandler receives diagnostic events from the engine.
// Implementations may log, emit metrics, or ignore them.
//
// This interface is optional — if not provided, diagnostics are silently
// dropped and the engine's behavior is unchanged.
type DiagnosticHandler interface {
	OnDiagnostic(e DiagnosticEvent)
}

// DiagnosticHandlerFunc adapts a function to the DiagnosticHandler interface.
type DiagnosticHandlerFunc func(e DiagnosticEvent)

// OnDiagnostic calls the wrapped function.
func (f DiagnosticHandlerFunc) OnDiagnostic(e DiagnosticEvent) {
	f(e)
}

// emitDiagnostic forwards an event to the configured handler, if any.
func (nav *Navigator) emitDiagnostic(kind DiagnosticKind, msg string, fields map[string]any) {
	if nav.diagnostics == nil {
		return
	}
	nav.diagnostics.OnDiagnostic(DiagnosticEvent{Kind: kind, Message: msg, Fields: fields})
}
