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
	"fmt"
	"maps"
	"net/url"
	"strings"
	"time"
)

// slowGuardThreshold is the duration above which a single guard invocation
// is reported as a DiagSlowGuard event. Guards run strictly sequentially, so
// one slow guard stalls the whole cycle.
const slowGuardThreshold = time.Second

// navRequest is one navigation attempt handed to the orchestrator.
type navRequest struct {
	path     string     // target path, may carry a "?query" suffix
	query    url.Values // extra query values merged into the target's own
	state    string     // explicit history-state payload
	hasState bool
	replace  bool
	kind     CycleKind
	saved    map[*Node]string // per-route state saved by pop guards
}

// run serializes and executes one navigation cycle.
//
// The mutex is the engine's concurrency contract: requests queue in lock
// order, no two cycles ever interleave their guard phases, and the
// navigation state is mutated at exactly one commit point per cycle.
func (nav *Navigator) run(ctx context.Context, req navRequest) (*Result, error) {
	nav.navMu.Lock()
	defer nav.navMu.Unlock()

	var token any
	if nav.recorder != nil {
		ctx, token = nav.recorder.OnCycleStart(ctx, req.path, req.kind)
	}

	result, err := nav.cycle(ctx, token, req)

	if nav.recorder != nil && token != nil {
		nav.recorder.OnCycleEnd(ctx, token, result, err)
	}

	return result, err
}

// cycle executes the guard sequence for one navigation attempt:
// resolve → validate → redirect resolution → beforeLeave → beforeEnter →
// commit → afterEnter. A redirect decision from any guard restarts the
// sequence from resolution under the redirect bound; a stop decision ends
// the cycle with OutcomeCancelled and no state change; a guard error
// propagates to the caller with the state untouched.
func (nav *Navigator) cycle(ctx context.Context, token any, req navRequest) (*Result, error) {
	old := nav.state.Load()

	target := req.path
	extra := req.query
	replace := req.replace || req.kind == CyclePop || req.kind == CycleSystemPop
	redirects := 0

	for {
		path, query := parseTarget(target, extra)
		extra = nil // extra query values apply to the original target only

		chain, ok := nav.tree.resolve(path, query)
		if !ok {
			nav.logger.Debug("navigation target did not resolve", "target", path)

			return &Result{Outcome: OutcomeNoMatch, Redirects: redirects}, nil
		}

		targetURL := buildURL(path, query)

		// Pending saves roll back when a guard restarts the cycle; state
		// saved by pop guards before the cycle began is reseeded instead.
		pending := make(map[*Node]string, len(req.saved))
		maps.Copy(pending, req.saved)

		guardContext := func(n *Node) *GuardContext {
			return &GuardContext{
				node:    n,
				fromURL: old.URL(),
				toURL:   targetURL,
				chain:   chain,
				restore: nodeStateOf(old),
				pending: pending,
			}
		}

		// Validation phase: global gate first, then every route of the new
		// chain root to leaf. A false aborts the cycle before any other hook
		// and with no side effects.
		allowed, err := nav.validateChain(ctx, token, chain, guardContext)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return &Result{Outcome: OutcomeCancelled, Redirects: redirects}, nil
		}

		// Redirect resolution: a redirect leaf turns its enter hook into the
		// redirect effect itself.
		if leaf := chain.Leaf(); leaf.kind == KindRedirect {
			decision, err := nav.invokeGuard(ctx, token, PhaseRedirect, guardContext(leaf), leaf.redirectEffect())
			if err != nil {
				return nil, err
			}

			switch decision.kind {
			case decisionStop:
				return &Result{Outcome: OutcomeCancelled, Redirects: redirects}, nil
			case decisionRedirect:
				redirects++
				if loop := nav.checkRedirectBound(redirects, target, decision.target); loop != nil {
					return loop, nil
				}
				target = decision.target
				replace = replace || decision.replace

				continue
			default:
				// A redirect route has nothing to render; a Continue decision
				// leaves the cycle nowhere to go.
				nav.emitDiagnostic(DiagRedirectUnresolved, "redirect guard returned Continue",
					map[string]any{"route": leaf.describe(), "target": path})

				return &Result{Outcome: OutcomeCancelled, Redirects: redirects}, nil
			}
		}

		left, entered, updated := chainDiff(old.Chain(), chain)

		// beforeLeave phase: routes leaving the chain, deepest first. Each
		// level (global, route, attached) may redirect or stop the whole
		// cycle; per-route history state saved so far is rolled back by
		// discarding the pending map on restart.
		decision, err := nav.runLeaveGuards(ctx, token, left, guardContext)
		if err != nil {
			return nil, err
		}
		if decision.kind != decisionContinue {
			if decision.kind == decisionStop {
				return &Result{Outcome: OutcomeCancelled, Redirects: redirects}, nil
			}
			redirects++
			if loop := nav.checkRedirectBound(redirects, target, decision.target); loop != nil {
				return loop, nil
			}
			target = decision.target
			replace = replace || decision.replace

			continue
		}

		// beforeEnter phase: routes joining the chain, root to leaf.
		decision, err = nav.runEnterGuards(ctx, token, entered, guardContext)
		if err != nil {
			return nil, err
		}
		if decision.kind != decisionContinue {
			if decision.kind == decisionStop {
				return &Result{Outcome: OutcomeCancelled, Redirects: redirects}, nil
			}
			redirects++
			if loop := nav.checkRedirectBound(redirects, target, decision.target); loop != nil {
				return loop, nil
			}
			target = decision.target
			replace = replace || decision.replace

			continue
		}

		// Commit: the single mutation point. The state pointer swap is
		// atomic, so collaborators never observe a URL without its chain.
		next := &State{
			chain:       chain,
			url:         targetURL,
			previousURL: old.URL(),
			nodeState:   old.withNodeState(pending),
		}
		if req.hasState {
			next.historyState = req.state
		}
		nav.commitHistory(req.kind, replace, targetURL, next)
		nav.state.Store(next)
		nav.notify(next)

		nav.logger.Debug("navigation committed",
			"url", targetURL, "previous", next.previousURL, "redirects", redirects)

		// afterEnter phase: purely observational, runs after the commit and
		// cannot cancel or redirect. A panic here propagates to the caller
		// but the state is already committed.
		nav.runAfterHooks(old, next, entered, updated)

		return &Result{Outcome: OutcomeCommitted, Chain: chain, URL: targetURL, Redirects: redirects}, nil
	}
}

// validateChain runs the global validation gate and then every route's own
// gate, short-circuiting on the first false.
func (nav *Navigator) validateChain(ctx context.Context, token any, chain *Chain, guardContext func(*Node) *GuardContext) (bool, error) {
	if nav.global.Validate != nil {
		ok, err := nav.invokeValidate(ctx, token, guardContext(nil), nav.global.Validate)
		if err != nil || !ok {
			return ok, err
		}
	}

	for _, m := range chain.Matches() {
		if m.node.guards.Validate == nil {
			continue
		}
		ok, err := nav.invokeValidate(ctx, token, guardContext(m.node), m.node.guards.Validate)
		if err != nil || !ok {
			return ok, err
		}
	}

	return true, nil
}

// runLeaveGuards invokes, for every leaving route: the global beforeLeave,
// the route's own beforeLeave, then the attached (widget-level) beforeLeave
// callbacks in registration order. The first non-Continue decision wins.
func (nav *Navigator) runLeaveGuards(ctx context.Context, token any, left []*Node, guardContext func(*Node) *GuardContext) (Decision, error) {
	for _, n := range left {
		guards := []GuardFunc{nav.global.BeforeLeave, n.guards.BeforeLeave}
		for _, attached := range nav.attachedTo(n) {
			guards = append(guards, attached.BeforeLeave)
		}

		for _, fn := range guards {
			if fn == nil {
				continue
			}
			decision, err := nav.invokeGuard(ctx, token, PhaseBeforeLeave, guardContext(n), fn)
			if err != nil {
				return Decision{}, err
			}
			if decision.kind != decisionContinue {
				return decision, nil
			}
		}
	}

	return Continue(), nil
}

// runEnterGuards invokes the global beforeEnter then the route's own
// beforeEnter for every entering route, root to leaf.
func (nav *Navigator) runEnterGuards(ctx context.Context, token any, entered []*Node, guardContext func(*Node) *GuardContext) (Decision, error) {
	for _, n := range entered {
		for _, fn := range []GuardFunc{nav.global.BeforeEnter, n.guards.BeforeEnter} {
			if fn == nil {
				continue
			}
			decision, err := nav.invokeGuard(ctx, token, PhaseBeforeEnter, guardContext(n), fn)
			if err != nil {
				return Decision{}, err
			}
			if decision.kind != decisionContinue {
				return decision, nil
			}
		}
	}

	return Continue(), nil
}

// runAfterHooks notifies entered routes (root to leaf, then the global
// hook) and updated routes whose parameters changed.
func (nav *Navigator) runAfterHooks(old, next *State, entered, updated []*Node) {
	for _, n := range entered {
		if n.guards.AfterEnter != nil {
			n.guards.AfterEnter(old.URL(), next.url)
		}
	}

	oldChain := old.Chain()
	for _, n := range updated {
		if n.guards.AfterUpdate != nil && oldChain != nil && paramsChanged(oldChain, next.chain, n) {
			n.guards.AfterUpdate(old.URL(), next.url)
		}
	}

	if nav.global.AfterEnter != nil {
		nav.global.AfterEnter(old.URL(), next.url)
	}
}

// commitHistory applies the cycle's history side effect. Pops walk the
// collaborator back and re-point the entry when a guard overrode the
// default target; forward navigations push or replace.
func (nav *Navigator) commitHistory(kind CycleKind, replace bool, targetURL string, next *State) {
	switch kind {
	case CyclePop, CycleSystemPop:
		entry, ok := nav.hist.Back()
		if ok && entry.URL == targetURL {
			if next.historyState == "" {
				next.historyState = entry.State
			}

			return
		}
		nav.hist.Replace(targetURL, next.historyState)
	default:
		if replace {
			nav.hist.Replace(targetURL, next.historyState)

			return
		}
		nav.hist.Push(targetURL, next.historyState)
	}
}

// checkRedirectBound enforces the redirect loop guard and emits the
// near-limit diagnostic. Returns a terminal result when the bound is hit.
func (nav *Navigator) checkRedirectBound(redirects int, from, to string) *Result {
	if redirects >= nav.maxRedirects {
		nav.logger.Warn("redirect loop detected", "from", from, "to", to, "redirects", redirects)

		return &Result{Outcome: OutcomeRedirectLoop, Redirects: redirects}
	}

	if redirects == nav.maxRedirects/2 {
		nav.emitDiagnostic(DiagRedirectChainLong, "redirect chain is unusually long",
			map[string]any{"redirects": redirects, "bound": nav.maxRedirects, "target": to})
	}

	return nil
}

// invokeGuard runs one guard with timing, observability, and error wrapping.
// Decisions take effect at this checkpoint, after the guard returns; that is
// what makes stop/redirect cooperative rather than preemptive.
func (nav *Navigator) invokeGuard(ctx context.Context, token any, phase GuardPhase, g *GuardContext, fn GuardFunc) (Decision, error) {
	start := time.Now()
	decision, err := fn(ctx, g)
	nav.observeGuard(ctx, token, phase, g.node, time.Since(start), err)

	if err != nil {
		return Decision{}, fmt.Errorf("%s guard for route %q: %w", phase, routeLabel(g.node), err)
	}

	return decision, nil
}

// invokeValidate is invokeGuard for the boolean validation gates.
func (nav *Navigator) invokeValidate(ctx context.Context, token any, g *GuardContext, fn ValidateFunc) (bool, error) {
	start := time.Now()
	ok, err := fn(ctx, g)
	nav.observeGuard(ctx, token, PhaseValidate, g.node, time.Since(start), err)

	if err != nil {
		return false, fmt.Errorf("validate guard for route %q: %w", routeLabel(g.node), err)
	}

	return ok, nil
}

// observeGuard feeds the cycle recorder and the slow-guard diagnostic.
func (nav *Navigator) observeGuard(ctx context.Context, token any, phase GuardPhase, n *Node, dur time.Duration, err error) {
	if nav.recorder != nil && token != nil {
		nav.recorder.OnGuard(ctx, token, phase, routeLabel(n), dur.Seconds(), err)
	}

	if dur > slowGuardThreshold {
		nav.emitDiagnostic(DiagSlowGuard, "guard exceeded the slow-guard threshold",
			map[string]any{"phase": string(phase), "route": routeLabel(n), "duration": dur.String()})
	}
}

// redirectEffect returns the redirect route's guard: the user-supplied one,
// or the static-target redirect with captured parameters substituted.
func (n *Node) redirectEffect() GuardFunc {
	if n.redirectGuard != nil {
		return n.redirectGuard
	}

	return func(_ context.Context, g *GuardContext) (Decision, error) {
		frag, err := n.redirectPattern.Build(g.Params())
		if err != nil {
			return Decision{}, err
		}

		return RedirectTo("/" + frag), nil
	}
}

// routeLabel names a node for observability; global guards have no route.
func routeLabel(n *Node) string {
	if n == nil {
		return ""
	}

	return n.describe()
}

// parseTarget splits a target into its path and parsed query, merging any
// extra query values supplied with the original request.
func parseTarget(target string, extra url.Values) (string, url.Values) {
	path, rawQuery, _ := strings.Cut(target, "?")

	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	for key, values := range extra {
		query[key] = append(query[key], values...)
	}

	return path, query
}

// buildURL joins a path and its encoded query into the committed URL form.
func buildURL(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(query) == 0 {
		return path
	}

	return path + "?" + query.Encode()
}

// nodeStateOf extracts the per-route state map of a committed state.
func nodeStateOf(s *State) map[*Node]string {
	if s == nil {
		return nil
	}

	return s.nodeState
}
