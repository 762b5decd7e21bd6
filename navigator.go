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
	"log/slog"
	"net/url"
	"sync"

	"go.uber.org/atomic"

	"rivaas.dev/navigator/history"
)

// defaultMaxRedirects bounds chained redirects within one navigation cycle.
const defaultMaxRedirects = 16

// noopLogger discards all log output. Used when no logger is configured so
// logging calls never need a nil check.
var noopLogger = slog.New(slog.DiscardHandler)

// Navigator is the navigation engine: it owns the immutable route tree and
// the single committed navigation state, and orchestrates guard lifecycles
// for every navigation request.
//
// A Navigator is safe for concurrent use. Navigation requests are serialized
// in arrival order; state accessors read a consistent snapshot without
// blocking behind an in-flight cycle.
//
// Example:
//
//	nav := navigator.MustNew(
//	    navigator.Route("",
//	        navigator.WithContent(homeScreen{}),
//	        navigator.WithChildren(
//	            navigator.Route("user/:id", navigator.WithName("user"), navigator.WithContent(userScreen{})),
//	            navigator.Redirect("old/:id", "/user/:id"),
//	        ),
//	    ),
//	)
//
//	result, err := nav.Push(ctx, "/user/42")
type Navigator struct {
	tree         *tree
	hist         history.History
	global       Guards
	maxRedirects int
	logger       *slog.Logger
	diagnostics  DiagnosticHandler
	recorder     CycleRecorder

	navMu sync.Mutex // serializes navigation cycles
	state atomic.Pointer[State]

	attachMu  sync.RWMutex
	attached  map[*Node][]attachEntry
	attachSeq uint64

	subMu       sync.RWMutex
	subscribers []subscriber
	subSeq      uint64
}

type attachEntry struct {
	id     uint64
	guards AttachedGuards
}

type subscriber struct {
	id uint64
	fn func(*State)
}

// New builds the route tree from the root definition, validates every
// structural invariant, and returns a ready Navigator. All definition errors
// surface here; navigation-time code never revalidates the tree.
//
// The navigation state is empty until the first committed navigation.
func New(root *NodeConfig, opts ...Option) (*Navigator, error) {
	nav := &Navigator{
		hist:         history.NewMemory(),
		maxRedirects: defaultMaxRedirects,
		logger:       noopLogger,
		attached:     make(map[*Node][]attachEntry),
	}
	for _, opt := range opts {
		opt(nav)
	}

	if nav.maxRedirects <= 0 {
		return nil, ErrMaxRedirectsInvalid
	}
	if nav.hist == nil {
		return nil, ErrNilHistory
	}
	if nav.logger == nil {
		nav.logger = noopLogger
	}

	t, err := buildTree(root)
	if err != nil {
		return nil, err
	}
	nav.tree = t

	return nav, nil
}

// MustNew is like [New] but panics on error. Intended for static route trees
// defined at program start.
func MustNew(root *NodeConfig, opts ...Option) *Navigator {
	nav, err := New(root, opts...)
	if err != nil {
		panic(err)
	}

	return nav
}

// NavOption configures a single navigation request.
type NavOption func(*navRequest)

// WithQuery merges query values into the target URL of this navigation.
func WithQuery(query url.Values) NavOption {
	return func(req *navRequest) {
		req.query = query
	}
}

// WithHistoryState attaches an opaque state string to the history entry this
// navigation commits. It is readable via [State.HistoryState] while the entry
// is current and restored when the user navigates back to it.
func WithHistoryState(state string) NavOption {
	return func(req *navRequest) {
		req.state = state
		req.hasState = true
	}
}

// Push navigates to the target path, pushing a new history entry on commit.
// The path may carry a query string.
//
// The returned result always classifies how the cycle ended; a non-nil error
// is a guard failure that aborted the cycle with the state untouched.
func (nav *Navigator) Push(ctx context.Context, path string, opts ...NavOption) (*Result, error) {
	req := navRequest{path: path, kind: CyclePush}
	for _, opt := range opts {
		opt(&req)
	}

	return nav.run(ctx, req)
}

// Replace navigates to the target path, replacing the current history entry
// instead of pushing a new one.
func (nav *Navigator) Replace(ctx context.Context, path string, opts ...NavOption) (*Result, error) {
	req := navRequest{path: path, kind: CycleReplace, replace: true}
	for _, opt := range opts {
		opt(&req)
	}

	return nav.run(ctx, req)
}

// PushName navigates to a named route, synthesizing its path from the
// supplied parameters. Fails with [ErrUnknownRoute] for an unregistered name
// and [pattern.ErrMissingParameter] when the lineage needs a parameter that
// is absent.
func (nav *Navigator) PushName(ctx context.Context, name string, params map[string]string, opts ...NavOption) (*Result, error) {
	path, err := nav.tree.pathForName(name, params)
	if err != nil {
		return nil, err
	}

	return nav.Push(ctx, path, opts...)
}

// ReplaceName is [PushName] with replace semantics.
func (nav *Navigator) ReplaceName(ctx context.Context, name string, params map[string]string, opts ...NavOption) (*Result, error) {
	path, err := nav.tree.pathForName(name, params)
	if err != nil {
		return nil, err
	}

	return nav.Replace(ctx, path, opts...)
}

// Snapshot returns the committed navigation state, nil before the first
// commit. The returned value is immutable and can be read without locking.
func (nav *Navigator) Snapshot() *State {
	return nav.state.Load()
}

// URL returns the committed URL, empty before the first navigation.
func (nav *Navigator) URL() string {
	return nav.state.Load().URL()
}

// PreviousURL returns the URL committed before the current one.
func (nav *Navigator) PreviousURL() string {
	return nav.state.Load().PreviousURL()
}

// Params returns the merged path parameters of the active chain.
func (nav *Navigator) Params() map[string]string {
	return nav.state.Load().Params()
}

// Query returns the query parameters of the active chain.
func (nav *Navigator) Query() url.Values {
	return nav.state.Load().Query()
}

// HistoryState returns the opaque string of the current history entry.
func (nav *Navigator) HistoryState() string {
	return nav.state.Load().HistoryState()
}

// NodeHistoryState returns the opaque string saved for the route by a guard
// of an earlier cycle.
func (nav *Navigator) NodeHistoryState(n *Node) (string, bool) {
	return nav.state.Load().NodeHistoryState(n)
}

// Route returns the node registered under the given unique name.
func (nav *Navigator) Route(name string) (*Node, bool) {
	return nav.tree.lookup(name)
}

// History returns the history collaborator the engine navigates against.
func (nav *Navigator) History() history.History {
	return nav.hist
}

// AttachGuards registers runtime callbacks against a live route, typically
// from the rendering collaborator while the route's content is on screen.
// They run after the route's own guard in the same phase, in registration
// order. The returned function detaches them; it is idempotent.
func (nav *Navigator) AttachGuards(n *Node, guards AttachedGuards) (detach func()) {
	if n == nil {
		return func() {}
	}

	nav.attachMu.Lock()
	nav.attachSeq++
	id := nav.attachSeq
	nav.attached[n] = append(nav.attached[n], attachEntry{id: id, guards: guards})
	nav.attachMu.Unlock()

	return func() {
		nav.attachMu.Lock()
		defer nav.attachMu.Unlock()

		entries := nav.attached[n]
		for i, e := range entries {
			if e.id == id {
				nav.attached[n] = append(entries[:i:i], entries[i+1:]...)

				break
			}
		}
		if len(nav.attached[n]) == 0 {
			delete(nav.attached, n)
		}
	}
}

// attachedTo returns the route's attached guards in registration order.
func (nav *Navigator) attachedTo(n *Node) []AttachedGuards {
	nav.attachMu.RLock()
	defer nav.attachMu.RUnlock()

	entries := nav.attached[n]
	if len(entries) == 0 {
		return nil
	}

	guards := make([]AttachedGuards, len(entries))
	for i, e := range entries {
		guards[i] = e.guards
	}

	return guards
}

// Subscribe registers a function called with each newly committed state, in
// subscription order, from the navigating goroutine after the commit point.
// The returned function unsubscribes; it is idempotent.
func (nav *Navigator) Subscribe(fn func(*State)) (unsubscribe func()) {
	nav.subMu.Lock()
	nav.subSeq++
	id := nav.subSeq
	nav.subscribers = append(nav.subscribers, subscriber{id: id, fn: fn})
	nav.subMu.Unlock()

	return func() {
		nav.subMu.Lock()
		defer nav.subMu.Unlock()

		for i, s := range nav.subscribers {
			if s.id == id {
				nav.subscribers = append(nav.subscribers[:i:i], nav.subscribers[i+1:]...)

				break
			}
		}
	}
}

// notify delivers a committed state to the subscribers.
func (nav *Navigator) notify(next *State) {
	nav.subMu.RLock()
	subs := make([]subscriber, len(nav.subscribers))
	copy(subs, nav.subscribers)
	nav.subMu.RUnlock()

	for _, s := range subs {
		s.fn(next)
	}
}
