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
	"context"
	"net/url"
)

// decisionKind discriminates guard decisions.
type decisionKind uint8

const (
	decisionContinue decisionKind = iota
	decisionRedirect
	decisionStop
)

// Decision is the explicit outcome of a guard invocation.
//
// Guards return a Decision instead of mutating a shared controller object:
// the orchestrator inspects the decision at the checkpoint after each guard
// returns, which keeps cancellation cooperative and the cycle control flow
// explicit.
type Decision struct {
	kind    decisionKind
	target  string
	replace bool
}

// Continue lets the cycle proceed to the next guard.
func Continue() Decision {
	return Decision{kind: decisionContinue}
}

// RedirectTo restarts the cycle with a new target path, pushing a new
// history entry on commit. The path may carry a query string.
func RedirectTo(path string) Decision {
	return Decision{kind: decisionRedirect, target: path}
}

// RedirectReplace restarts the cycle with a new target path, replacing the
// current history entry on commit instead of pushing a new one.
func RedirectReplace(path string) Decision {
	return Decision{kind: decisionRedirect, target: path, replace: true}
}

// Stop cancels the navigation. This is a first-class outcome, not an error:
// the cycle ends with [OutcomeCancelled] and the navigation state is left
// exactly as it was.
func Stop() Decision {
	return Decision{kind: decisionStop}
}

// ValidateFunc gates a route. Returning false aborts the whole cycle before
// any enter/leave guard runs and with no side effects; an error propagates
// to the navigation caller.
type ValidateFunc func(ctx context.Context, g *GuardContext) (bool, error)

// GuardFunc is an asynchronous navigation guard. It runs strictly
// sequentially with all other guards of the cycle and reports its outcome
// as a [Decision].
type GuardFunc func(ctx context.Context, g *GuardContext) (Decision, error)

// AfterFunc observes a committed navigation. It runs after the commit point
// and can neither cancel nor redirect.
type AfterFunc func(previousURL, newURL string)

// Guards is the per-route (or global) guard record. Any field may be nil.
type Guards struct {
	// Validate gates the route before any other hook runs.
	Validate ValidateFunc

	// BeforeEnter runs when the route enters the active chain.
	// On redirect routes it carries the redirect effect itself.
	BeforeEnter GuardFunc

	// BeforeLeave runs when the route leaves the active chain. It may save
	// per-route history state via [GuardContext.SaveHistoryState].
	BeforeLeave GuardFunc

	// AfterEnter runs after a commit that entered the route.
	AfterEnter AfterFunc

	// AfterUpdate runs after a commit that kept the route active but changed
	// its resolved parameters.
	AfterUpdate AfterFunc

	// OnPop runs on a programmatic pop, deepest route first.
	OnPop GuardFunc

	// OnSystemPop runs on a platform back action, deepest route first.
	OnSystemPop GuardFunc
}

// AttachedGuards are callbacks registered against a live route at runtime,
// typically by the rendering collaborator while the route's content is on
// screen. They run after the route's own guard in the same phase, in
// registration order, and are removed via the detach function returned by
// [Navigator.AttachGuards].
type AttachedGuards struct {
	BeforeLeave GuardFunc
	OnPop       GuardFunc
	OnSystemPop GuardFunc
}

// GuardContext carries the navigation attempt into a guard invocation.
//
// It is valid only for the duration of the guard call; guards must not
// retain it.
type GuardContext struct {
	node    *Node
	fromURL string
	toURL   string
	chain   *Chain
	restore map[*Node]string // per-route state from the current navigation state
	pending map[*Node]string // per-route state saved during this cycle
	defTgt  string           // default pop target, pop phases only
}

// Node returns the route the guard is attached to, or nil for global guards.
func (g *GuardContext) Node() *Node {
	return g.node
}

// FromURL returns the URL the navigation leaves from. Empty on the first
// navigation.
func (g *GuardContext) FromURL() string {
	return g.fromURL
}

// ToURL returns the URL the cycle is attempting to reach.
func (g *GuardContext) ToURL() string {
	return g.toURL
}

// Params returns the merged path parameters of the target chain.
func (g *GuardContext) Params() map[string]string {
	if g.chain == nil {
		return nil
	}

	return g.chain.Params()
}

// Param returns one merged path parameter of the target chain.
func (g *GuardContext) Param(name string) string {
	if g.chain == nil {
		return ""
	}

	return g.chain.Param(name)
}

// Query returns the parsed query parameters of the target URL.
func (g *GuardContext) Query() url.Values {
	if g.chain == nil {
		return nil
	}

	return g.chain.Query()
}

// SaveHistoryState stores an opaque string keyed by the guard's route.
// The value becomes visible through [State.NodeHistoryState] once the cycle
// commits and is handed back via [GuardContext.HistoryState] when the user
// later navigates back to this exact route. Saving from a global guard is a
// no-op.
func (g *GuardContext) SaveHistoryState(state string) {
	if g.node == nil || g.pending == nil {
		return
	}
	g.pending[g.node] = state
}

// HistoryState returns the opaque string previously saved for the guard's
// route, if any.
func (g *GuardContext) HistoryState() (string, bool) {
	if g.node == nil || g.restore == nil {
		return "", false
	}
	state, ok := g.restore[g.node]

	return state, ok
}

// DefaultPopTarget returns the pop target computed from history. It is only
// set during OnPop/OnSystemPop phases; a pop guard returning Continue accepts
// this target.
func (g *GuardContext) DefaultPopTarget() string {
	return g.defTgt
}
