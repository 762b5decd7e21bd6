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
	"maps"
	"net/url"
)

// Match pairs a route with the parameters its own pattern captured.
type Match struct {
	node   *Node
	params map[string]string
}

// Node returns the matched route.
func (m Match) Node() *Node {
	return m.node
}

// Params returns the parameters captured by this route's own pattern
// (not merged with ancestors). May be nil.
func (m Match) Params() map[string]string {
	return m.params
}

// Chain is the ordered root-to-leaf sequence of matched routes for one
// resolved navigation, with merged path parameters and the parsed query.
//
// A chain is ephemeral: it is produced per navigation attempt and becomes
// the committed active chain only if the cycle succeeds. Chains are
// immutable after resolution.
type Chain struct {
	matches []Match
	params  map[string]string
	query   url.Values
}

// newChain merges the local parameters of the matches, later routes
// overriding earlier ones by key.
func newChain(matches []Match, query url.Values) *Chain {
	merged := make(map[string]string)
	for _, m := range matches {
		maps.Copy(merged, m.params)
	}

	return &Chain{matches: matches, params: merged, query: query}
}

// Len returns the number of routes in the chain.
func (c *Chain) Len() int {
	return len(c.matches)
}

// Matches returns the per-route matches from root to leaf.
func (c *Chain) Matches() []Match {
	return c.matches
}

// Nodes returns the matched routes from root to leaf.
func (c *Chain) Nodes() []*Node {
	nodes := make([]*Node, len(c.matches))
	for i, m := range c.matches {
		nodes[i] = m.node
	}

	return nodes
}

// Leaf returns the deepest matched route.
func (c *Chain) Leaf() *Node {
	if len(c.matches) == 0 {
		return nil
	}

	return c.matches[len(c.matches)-1].node
}

// Params returns the merged path parameters; parameters captured deeper in
// the chain override shallower ones with the same name.
func (c *Chain) Params() map[string]string {
	return c.params
}

// Param returns one merged path parameter, empty if absent.
func (c *Chain) Param(name string) string {
	return c.params[name]
}

// Query returns the query parameters parsed once from the target URL.
func (c *Chain) Query() url.Values {
	return c.query
}

// contains reports whether the chain holds the route, by identity.
func (c *Chain) contains(n *Node) bool {
	for _, m := range c.matches {
		if m.node == n {
			return true
		}
	}

	return false
}

// localParams returns the route's own captured parameters within the chain.
func (c *Chain) localParams(n *Node) map[string]string {
	for _, m := range c.matches {
		if m.node == n {
			return m.params
		}
	}

	return nil
}

// chainDiff partitions routes across a navigation by identity:
// left = old − new (leaf to root), entered = new − old (root to leaf),
// updated = old ∩ new (root to leaf). The three sets partition the union of
// both chains exactly; routes common to both are updated, never left or
// entered.
func chainDiff(old, next *Chain) (left, entered, updated []*Node) {
	if old != nil {
		for i := len(old.matches) - 1; i >= 0; i-- {
			n := old.matches[i].node
			if next == nil || !next.contains(n) {
				left = append(left, n)
			}
		}
	}

	if next != nil {
		for _, m := range next.matches {
			if old != nil && old.contains(m.node) {
				updated = append(updated, m.node)
			} else {
				entered = append(entered, m.node)
			}
		}
	}

	return left, entered, updated
}

// paramsChanged reports whether the route's local parameters differ between
// the two chains. Used to decide AfterUpdate notifications.
func paramsChanged(old, next *Chain, n *Node) bool {
	return !maps.Equal(old.localParams(n), next.localParams(n))
}
