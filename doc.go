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

// Package navigator is a declarative, tree-structured navigation engine.
//
// Applications declare their screens as a tree of routes; the engine resolves
// URL-like paths against that tree, runs asynchronous guard lifecycles around
// every transition, and maintains a single committed navigation state that
// rendering collaborators consume as an immutable snapshot.
//
// # Route trees
//
// Routes are declared with [Route], [Group], [Redirect], and [RedirectFunc]
// and composed via [WithChildren]. Path patterns support static segments,
// named parameters with optional regex constraints, and trailing wildcards:
//
//	navigator.MustNew(
//	    navigator.Route("",
//	        navigator.WithContent(homeScreen{}),
//	        navigator.WithChildren(
//	            navigator.Route("user/:id([0-9]+)",
//	                navigator.WithName("user"),
//	                navigator.WithBuilder(func(s *navigator.State) any {
//	                    return userScreen{id: s.Params()["id"]}
//	                }),
//	            ),
//	            navigator.Redirect("old/:id", "/user/:id"),
//	            navigator.Route("files/*", navigator.WithContent(fileBrowser{})),
//	        ),
//	    ),
//	)
//
// Child patterns are relative to the prefix their ancestors consumed; a
// leading "/" makes a pattern absolute. Patternless routes ([Group]) are
// transparent for matching but still appear in the matched chain, wrapping
// every matching descendant with their guards and content.
//
// # Resolution
//
// A navigation target resolves to a chain: the root-to-leaf sequence of
// routes whose concatenated patterns consume the whole path. Traversal is
// depth-first in declaration order and the first full match wins, so sibling
// order is the disambiguation mechanism. Resolution is deterministic and
// side-effect free.
//
// # Guard lifecycle
//
// Every navigation request runs one serialized cycle:
//
//	resolve → validate → redirect → beforeLeave → beforeEnter → commit → afterEnter
//
// Guards receive a [GuardContext] and return a [Decision]: [Continue],
// [RedirectTo], [RedirectReplace], or [Stop]. Redirects restart the cycle
// against the new target under a configurable bound ([WithMaxRedirects]);
// stop ends it with [OutcomeCancelled] and the state untouched. A guard
// error aborts the cycle and propagates to the navigation caller.
//
// The commit is atomic: the URL, the active chain, and the per-route history
// state always change together, and collaborators reading [Navigator.Snapshot]
// never observe a half-applied transition.
//
// # Backward navigation
//
// [Navigator.Pop] and [Navigator.SystemPop] walk the history collaborator
// backwards. Pop guards of the active routes run deepest first and may veto
// or re-target the pop; the surviving target then goes through the regular
// cycle. Guards can persist per-route state across back-navigations with
// [GuardContext.SaveHistoryState].
//
// # Observability
//
// Structured logging ([WithLogger]), diagnostic events ([WithDiagnostics]),
// and per-cycle lifecycle recording ([WithObservability]) are all optional;
// rivaas.dev/navigator/metrics provides an OpenTelemetry-backed
// [CycleRecorder] with Prometheus, OTLP, and stdout exporters.
package navigator
