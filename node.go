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

import "rivaas.dev/navigator/pattern"

// Kind discriminates the two route variants.
type Kind uint8

const (
	// KindContent is a route that renders content when active.
	KindContent Kind = iota

	// KindRedirect is a route whose only effect is to redirect the cycle;
	// it has no content and no children.
	KindRedirect
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindContent:
		return "content"
	case KindRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Layout discriminates how an active route's content relates to its parent.
type Layout uint8

const (
	// LayoutChild renders the route's content inside its parent's content slot.
	LayoutChild Layout = iota

	// LayoutStacked overlays the route's content on top of the previously
	// active content.
	LayoutStacked
)

// String returns the layout name.
func (l Layout) String() string {
	switch l {
	case LayoutChild:
		return "child"
	case LayoutStacked:
		return "stacked"
	default:
		return "unknown"
	}
}

// Builder produces a route's content from the committed navigation state.
// The engine treats the produced value as opaque; rendering collaborators
// interpret it.
type Builder func(s *State) any

// Node is one immutable entry in the route tree.
//
// Nodes are built once from [NodeConfig] definitions when the tree is
// constructed; afterwards the tree is immutable and safe for concurrent
// reads without locking. A node is referenced by pointer identity; its name,
// when set, is a secondary globally-unique lookup key.
type Node struct {
	kind   Kind
	layout Layout

	path    string
	hasPath bool
	aliases []string
	name    string
	key     string

	content    any
	hasContent bool
	build      Builder

	guards          Guards
	redirectTarget  string
	redirectGuard   GuardFunc
	redirectPattern *pattern.Pattern

	parent   *Node
	children []*Node

	compiled      *pattern.Pattern
	compiledAlias []*pattern.Pattern
	paramNames    []string
}

// Kind returns the route variant.
func (n *Node) Kind() Kind {
	return n.kind
}

// Layout returns how the route's content relates to its parent.
func (n *Node) Layout() Layout {
	return n.layout
}

// Path returns the raw path pattern and whether one is set. Routes without a
// pattern are transparent for matching and contribute no path prefix.
func (n *Node) Path() (string, bool) {
	return n.path, n.hasPath
}

// Aliases returns the alternate patterns matched with identical semantics to
// the primary pattern, in declaration order.
func (n *Node) Aliases() []string {
	return n.aliases
}

// Name returns the route's unique name, empty if unnamed.
func (n *Node) Name() string {
	return n.name
}

// Key returns the explicit render-identity key, empty if the identity is
// derived from the path pattern.
func (n *Node) Key() string {
	return n.key
}

// Identity returns a stable identity string for rendering collaborators:
// the explicit key when set, otherwise the path pattern.
func (n *Node) Identity() string {
	if n.key != "" {
		return n.key
	}

	return n.path
}

// ParamNames returns the parameter names captured by the primary pattern.
func (n *Node) ParamNames() []string {
	return n.paramNames
}

// Children returns the child routes in declaration order.
func (n *Node) Children() []*Node {
	return n.children
}

// Parent returns the parent route, nil at the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Guards returns the route's guard record.
func (n *Node) Guards() Guards {
	return n.guards
}

// RedirectTarget returns the static redirect target of a redirect route,
// empty when the redirect effect is a guard.
func (n *Node) RedirectTarget() string {
	return n.redirectTarget
}

// Content produces the route's content for the given committed state: the
// static content value when set, otherwise the result of the content
// builder. Redirect routes have no content and return nil.
func (n *Node) Content(s *State) any {
	if n.hasContent {
		return n.content
	}
	if n.build != nil {
		return n.build(s)
	}

	return nil
}

// describe names the node for error messages: name, then key, then pattern.
func (n *Node) describe() string {
	switch {
	case n.name != "":
		return n.name
	case n.key != "":
		return n.key
	case n.hasPath:
		return n.path
	default:
		return "<route>"
	}
}

// NodeConfig is the declarative definition of one route, built via [Route],
// [Group], [Redirect], or [RedirectFunc] and the With* node options. All
// variants share a single validated construction path inside [New].
type NodeConfig struct {
	kind   Kind
	layout Layout

	path    string
	hasPath bool
	aliases []string
	name    string
	key     string

	content    any
	hasContent bool
	build      Builder

	guards         Guards
	redirectTarget string
	redirectGuard  GuardFunc

	children []*NodeConfig
}

// NodeOption configures a route definition.
type NodeOption func(*NodeConfig)

// Route defines a content route matching the given path pattern.
//
// Example:
//
//	navigator.Route("user/:id",
//	    navigator.WithName("user"),
//	    navigator.WithContent(userScreen{}),
//	    navigator.WithChildren(
//	        navigator.Route("settings", navigator.WithContent(settingsScreen{})),
//	    ),
//	)
func Route(path string, opts ...NodeOption) *NodeConfig {
	cfg := &NodeConfig{kind: KindContent, path: path, hasPath: true}
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Group defines a patternless route that only groups subroutes. It is
// transparent for matching but still appears in the matched chain, so its
// guards and content wrap every matching descendant. Groups need an explicit
// key via [WithKey] for render-identity tracking.
func Group(opts ...NodeOption) *NodeConfig {
	cfg := &NodeConfig{kind: KindContent}
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Redirect defines a route that redirects every navigation reaching it to
// the target path. The target may reference parameters captured by the
// pattern, e.g. Redirect("old/:id", "/new/:id").
func Redirect(path, target string, opts ...NodeOption) *NodeConfig {
	cfg := &NodeConfig{kind: KindRedirect, path: path, hasPath: true, redirectTarget: target}
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// RedirectFunc defines a redirect route whose effect is computed by a guard
// instead of a static target. The guard must return a redirect or stop
// decision; a redirect route has nothing to render.
func RedirectFunc(path string, guard GuardFunc, opts ...NodeOption) *NodeConfig {
	cfg := &NodeConfig{kind: KindRedirect, path: path, hasPath: true, redirectGuard: guard}
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithName assigns a globally-unique name for name-based navigation.
func WithName(name string) NodeOption {
	return func(cfg *NodeConfig) {
		cfg.name = name
	}
}

// WithKey assigns an explicit render-identity key. Required for routes
// without a path pattern.
func WithKey(key string) NodeOption {
	return func(cfg *NodeConfig) {
		cfg.key = key
	}
}

// WithAliases declares alternate patterns matched with identical semantics
// to the primary pattern, tried in declaration order after it.
func WithAliases(aliases ...string) NodeOption {
	return func(cfg *NodeConfig) {
		cfg.aliases = append(cfg.aliases, aliases...)
	}
}

// Stacked overlays this route's content on the previously active content
// instead of rendering it inside the parent's slot.
func Stacked() NodeOption {
	return func(cfg *NodeConfig) {
		cfg.layout = LayoutStacked
	}
}

// WithContent sets a static content value. Exactly one of WithContent and
// WithBuilder must be supplied on content routes.
func WithContent(content any) NodeOption {
	return func(cfg *NodeConfig) {
		cfg.content = content
		cfg.hasContent = true
	}
}

// WithBuilder sets a content builder evaluated against the committed state.
func WithBuilder(build Builder) NodeOption {
	return func(cfg *NodeConfig) {
		cfg.build = build
	}
}

// WithChildren declares the subroutes in match-precedence order: when two
// siblings match the same path, the first declared wins.
func WithChildren(children ...*NodeConfig) NodeOption {
	return func(cfg *NodeConfig) {
		cfg.children = append(cfg.children, children...)
	}
}

// WithNodeGuards sets the route's guard record.
func WithNodeGuards(guards Guards) NodeOption {
	return func(cfg *NodeConfig) {
		cfg.guards = guards
	}
}
