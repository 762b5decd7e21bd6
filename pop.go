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

// Pop navigates backwards: to the previous history entry when one exists,
// otherwise up the active chain to the parent of the deepest patterned
// route. Pop guards of the active routes run deepest first and may veto the
// pop or redirect it to a different target; the surviving target then goes
// through the regular guard cycle.
//
// With nothing to go back to the request ends with [OutcomeCancelled] and a
// DiagEmptyHistoryPop diagnostic.
func (nav *Navigator) Pop(ctx context.Context) (*Result, error) {
	return nav.pop(ctx, CyclePop)
}

// SystemPop is [Pop] for the host platform's back action (hardware back
// button, browser back). It runs the OnSystemPop guards instead of OnPop, so
// routes can treat user-initiated and platform-initiated backs differently.
func (nav *Navigator) SystemPop(ctx context.Context) (*Result, error) {
	return nav.pop(ctx, CycleSystemPop)
}

func (nav *Navigator) pop(ctx context.Context, kind CycleKind) (*Result, error) {
	nav.navMu.Lock()
	defer nav.navMu.Unlock()

	old := nav.state.Load()
	target, ok := nav.defaultPopTarget(old)

	var token any
	if nav.recorder != nil {
		ctx, token = nav.recorder.OnCycleStart(ctx, target, kind)
	}

	result, err := nav.popCycle(ctx, token, kind, old, target, ok)

	if nav.recorder != nil && token != nil {
		nav.recorder.OnCycleEnd(ctx, token, result, err)
	}

	return result, err
}

// popCycle runs the pop-guard phase and, if the pop survives, the regular
// navigation cycle toward the pop target.
func (nav *Navigator) popCycle(ctx context.Context, token any, kind CycleKind, old *State, target string, ok bool) (*Result, error) {
	if !ok {
		nav.emitDiagnostic(DiagEmptyHistoryPop, "pop requested with nothing to go back to",
			map[string]any{"url": old.URL()})

		return &Result{Outcome: OutcomeCancelled}, nil
	}

	saved := make(map[*Node]string)

	// Pop guards run deepest route first: route guard, then its attached
	// guards, then the global guard once at the end. A redirect decision
	// re-points the target for the remaining guards; a stop vetoes the pop.
	var chainNodes []*Node
	if chain := old.Chain(); chain != nil {
		chainNodes = chain.Nodes()
	}

	guardContext := func(n *Node) *GuardContext {
		return &GuardContext{
			node:    n,
			fromURL: old.URL(),
			toURL:   target,
			chain:   old.Chain(),
			restore: nodeStateOf(old),
			pending: saved,
			defTgt:  target,
		}
	}

	runPopGuard := func(n *Node, fn GuardFunc) (stopped bool, err error) {
		decision, err := nav.invokeGuard(ctx, token, PhasePop, guardContext(n), fn)
		if err != nil {
			return false, err
		}
		switch decision.kind {
		case decisionStop:
			return true, nil
		case decisionRedirect:
			target = decision.target
		}

		return false, nil
	}

	for i := len(chainNodes) - 1; i >= 0; i-- {
		n := chainNodes[i]

		guards := []GuardFunc{popGuardOf(n.guards, kind)}
		for _, attached := range nav.attachedTo(n) {
			guards = append(guards, attachedPopGuardOf(attached, kind))
		}

		for _, fn := range guards {
			if fn == nil {
				continue
			}
			stopped, err := runPopGuard(n, fn)
			if err != nil {
				return nil, err
			}
			if stopped {
				return &Result{Outcome: OutcomeCancelled}, nil
			}
		}
	}

	if fn := popGuardOf(nav.global, kind); fn != nil {
		stopped, err := runPopGuard(nil, fn)
		if err != nil {
			return nil, err
		}
		if stopped {
			return &Result{Outcome: OutcomeCancelled}, nil
		}
	}

	return nav.cycle(ctx, token, navRequest{path: target, kind: kind, saved: saved})
}

// defaultPopTarget computes where a pop lands before any guard weighs in:
// the previous history entry, or with an exhausted history the path of the
// active chain minus its deepest patterned route.
func (nav *Navigator) defaultPopTarget(s *State) (string, bool) {
	if entry, ok := nav.hist.Previous(); ok {
		return entry.URL, true
	}

	chain := s.Chain()
	if chain == nil {
		return "", false
	}

	var lineage []*Node
	for _, n := range chain.Nodes() {
		if n.hasPath {
			lineage = append(lineage, n)
		}
	}
	if len(lineage) < 2 {
		return "", false
	}

	path, err := buildLineagePath(lineage[:len(lineage)-1], chain.Params())
	if err != nil {
		return "", false
	}

	return path, true
}

// popGuardOf selects the pop guard matching the cycle kind.
func popGuardOf(guards Guards, kind CycleKind) GuardFunc {
	if kind == CycleSystemPop {
		return guards.OnSystemPop
	}

	return guards.OnPop
}

// attachedPopGuardOf selects the attached pop guard matching the cycle kind.
func attachedPopGuardOf(guards AttachedGuards, kind CycleKind) GuardFunc {
	if kind == CycleSystemPop {
		return guards.OnSystemPop
	}

	return guards.OnPop
}
