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

import "context"

// CycleKind classifies navigation cycles for observability.
type CycleKind string

const (
	// CyclePush is a forward navigation pushing a new history entry.
	CyclePush CycleKind = "push"

	// CycleReplace is a forward navigation replacing the current entry.
	CycleReplace CycleKind = "replace"

	// CyclePop is a programmatic backward navigation.
	CyclePop CycleKind = "pop"

	// CycleSystemPop is a backward navigation from the host platform's back
	// action.
	CycleSystemPop CycleKind = "system_pop"
)

// GuardPhase identifies the lifecycle phase a guard ran in.
type GuardPhase string

const (
	// PhaseValidate covers global and per-route validation guards.
	PhaseValidate GuardPhase = "validate"

	// PhaseRedirect covers redirect-route guards.
	PhaseRedirect GuardPhase = "redirect"

	// PhaseBeforeLeave covers leave guards of routes exiting the chain.
	PhaseBeforeLeave GuardPhase = "before_leave"

	// PhaseBeforeEnter covers enter guards of routes joining the chain.
	PhaseBeforeEnter GuardPhase = "before_enter"

	// PhaseAfterEnter covers post-commit observation hooks.
	PhaseAfterEnter GuardPhase = "after_enter"

	// PhasePop covers onPop / onSystemPop guards.
	PhasePop GuardPhase = "pop"
)

// CycleRecorder provides unified observability lifecycle hooks for
// navigation cycles. Implementations typically combine metrics collection
// and access logging; rivaas.dev/navigator/metrics provides an
// OpenTelemetry-backed implementation.
//
// Lifecycle:
//  1. The orchestrator calls OnCycleStart(ctx, target, kind) → (enrichedCtx, state).
//     The enriched context is used for every guard of the cycle.
//  2. OnGuard is called after each guard invocation ONLY IF state != nil.
//  3. OnCycleEnd is called once the cycle resolves to an outcome, ONLY IF
//     state != nil. Guard errors are reported through err.
//
// Returning state=nil from OnCycleStart excludes the cycle from recording
// while keeping the context enrichment. The orchestrator treats state as
// completely opaque.
//
// Thread safety: cycles are serialized, but implementations should still be
// safe for concurrent use so one recorder can serve several navigators.
type CycleRecorder interface {
	// OnCycleStart is called before resolution begins.
	OnCycleStart(ctx context.Context, target string, kind CycleKind) (context.Context, any)

	// OnGuard is called after each guard invocation with the phase, the
	// route name (empty for global guards), the guard duration in seconds,
	// and the error the guard returned, if any.
	OnGuard(ctx context.Context, state any, phase GuardPhase, route string, seconds float64, err error)

	// OnCycleEnd is called when the cycle resolves. result is never nil;
	// err carries a propagated guard failure.
	OnCycleEnd(ctx context.Context, state any, result *Result, err error)
}
