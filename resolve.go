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
	"fmt"
	"net/url"
	"strings"

	"rivaas.dev/navigator/pattern"
)

// splitPath splits a target path into percent-decoded segments.
// "/" and "" split into no segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}

	parts := strings.Split(path, "/")
	for i, part := range parts {
		if decoded, err := url.PathUnescape(part); err == nil {
			parts[i] = decoded
		}
	}

	return parts
}

// resolve matches the target path against the tree.
//
// Traversal is depth-first and leftmost-first: at each route the primary
// pattern is tried, then each alias in declaration order; on success the
// matched prefix is consumed and children receive the residual. Sibling
// order is the only disambiguation mechanism — the first full match wins.
// Patternless routes are transparent (no prefix consumed) but appear in the
// chain when a descendant matches.
//
// Resolution is deterministic: the same (tree, path, query) always yields
// the same chain.
func (t *tree) resolve(path string, query url.Values) (*Chain, bool) {
	full := splitPath(path)

	matches := matchNode(t.root, full, 0)
	if matches == nil {
		return nil, false
	}

	return newChain(matches, query), true
}

// matchNode returns the root-to-leaf match list below n, or nil.
//
// A route completes a chain when its residual is empty after its own match
// and no child matches deeper; a deeper match is preferred, so a child with
// an empty pattern (a default child) wins over ending the chain at its
// parent. A trailing wildcard consumes any residual, which is how a
// childless route accepts a non-empty residual.
func matchNode(n *Node, full []string, offset int) []Match {
	if !n.hasPath {
		for _, child := range n.children {
			if rest := matchNode(child, full, offset); rest != nil {
				return append([]Match{{node: n}}, rest...)
			}
		}

		return nil
	}

	for _, p := range n.patterns() {
		base := offset
		if p.Absolute() {
			// Absolute patterns ignore the prefix consumed by ancestors.
			base = 0
		}

		values, consumed, ok := p.MatchPrefix(full[base:])
		if !ok {
			continue
		}
		next := base + consumed

		params := capturedParams(p, values)

		for _, child := range n.children {
			if rest := matchNode(child, full, next); rest != nil {
				return append([]Match{{node: n, params: params}}, rest...)
			}
		}

		if next == len(full) {
			return []Match{{node: n, params: params}}
		}
	}

	return nil
}

// patterns returns the compiled primary pattern followed by the compiled
// aliases, in declaration order.
func (n *Node) patterns() []*pattern.Pattern {
	if len(n.compiledAlias) == 0 {
		return []*pattern.Pattern{n.compiled}
	}

	all := make([]*pattern.Pattern, 0, 1+len(n.compiledAlias))
	all = append(all, n.compiled)
	all = append(all, n.compiledAlias...)

	return all
}

// capturedParams zips pattern names with captured values.
func capturedParams(p *pattern.Pattern, values []string) map[string]string {
	names := p.Names()
	if len(names) == 0 {
		return nil
	}

	params := make(map[string]string, len(names))
	for i, name := range names {
		params[name] = values[i]
	}

	return params
}

// pathForName synthesizes the path of a named route by substituting the
// supplied parameters into the patterns of the route and its ancestors.
// Missing parameters fail with [pattern.ErrMissingParameter].
func (t *tree) pathForName(name string, params map[string]string) (string, error) {
	target, ok := t.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRoute, name)
	}

	// Collect the patterned lineage root-to-target.
	var lineage []*Node
	for n := target; n != nil; n = n.parent {
		if n.hasPath {
			lineage = append([]*Node{n}, lineage...)
		}
	}

	return buildLineagePath(lineage, params)
}

// buildLineagePath folds the patterned lineage into a concrete path by
// substituting params into each pattern root to leaf.
func buildLineagePath(lineage []*Node, params map[string]string) (string, error) {
	built := ""
	for _, n := range lineage {
		frag, err := n.compiled.Build(params)
		if err != nil {
			return "", err
		}

		switch {
		case n.compiled.Absolute():
			// Absolute patterns restart the path from the root.
			built = frag
		case built == "":
			built = frag
		case frag != "":
			built = built + "/" + frag
		}
	}

	return "/" + built, nil
}
