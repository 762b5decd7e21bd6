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

	"rivaas.dev/navigator/pattern"
)

// tree is the immutable route tree. It is built exactly once during
// [New]; every structural invariant is enforced there, so navigation-time
// code never revalidates it.
type tree struct {
	root   *Node
	byName map[string]*Node
}

// buildTree validates the whole definition tree eagerly and fails fast:
// an invalid definition is a construction error, never a navigation error.
func buildTree(cfg *NodeConfig) (*tree, error) {
	t := &tree{byName: make(map[string]*Node)}

	root, err := t.buildNode(cfg, nil)
	if err != nil {
		return nil, err
	}
	t.root = root

	return t, nil
}

// buildNode converts one definition into an immutable node, recursing into
// children. Validation mirrors the definition variants: redirect and content
// routes share this single construction path instead of duplicating checks.
func (t *tree) buildNode(cfg *NodeConfig, parent *Node) (*Node, error) {
	if cfg == nil {
		return nil, ErrNilRoute
	}

	n := &Node{
		kind:           cfg.kind,
		layout:         cfg.layout,
		path:           cfg.path,
		hasPath:        cfg.hasPath,
		aliases:        cfg.aliases,
		name:           cfg.name,
		key:            cfg.key,
		content:        cfg.content,
		hasContent:     cfg.hasContent,
		build:          cfg.build,
		guards:         cfg.guards,
		redirectTarget: cfg.redirectTarget,
		redirectGuard:  cfg.redirectGuard,
		parent:         parent,
	}

	if err := t.validateNode(n, cfg); err != nil {
		return nil, err
	}

	if n.hasPath {
		compiled, err := pattern.Compile(n.path)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", n.describe(), err)
		}
		n.compiled = compiled
		n.paramNames = compiled.Names()

		for _, alias := range n.aliases {
			compiledAlias, err := pattern.Compile(alias)
			if err != nil {
				return nil, fmt.Errorf("route %q alias: %w", n.describe(), err)
			}
			n.compiledAlias = append(n.compiledAlias, compiledAlias)
		}
	}

	if n.redirectTarget != "" {
		compiled, err := pattern.Compile(n.redirectTarget)
		if err != nil {
			return nil, fmt.Errorf("route %q redirect target: %w", n.describe(), err)
		}
		n.redirectPattern = compiled
	}

	if n.name != "" {
		if _, taken := t.byName[n.name]; taken {
			return nil, fmt.Errorf("route %q: %w", n.name, ErrDuplicateName)
		}
		t.byName[n.name] = n
	}

	for _, child := range cfg.children {
		built, err := t.buildNode(child, n)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, built)
	}

	return n, nil
}

// validateNode enforces the construction-time invariants for one node.
func (t *tree) validateNode(n *Node, cfg *NodeConfig) error {
	if len(n.aliases) > 0 && !n.hasPath {
		return fmt.Errorf("route %q: %w", n.describe(), ErrAliasWithoutPath)
	}
	if n.name != "" && !n.hasPath {
		return fmt.Errorf("route %q: %w", n.describe(), ErrNameWithoutPath)
	}
	if n.key == "" && !n.hasPath {
		return fmt.Errorf("route %q: %w", n.describe(), ErrMissingIdentity)
	}
	if !n.hasPath && len(cfg.children) == 0 {
		return fmt.Errorf("route %q: %w", n.describe(), ErrUnreachableRoute)
	}

	switch n.kind {
	case KindRedirect:
		if len(cfg.children) > 0 {
			return fmt.Errorf("route %q: %w", n.describe(), ErrRedirectChildren)
		}
		if (n.redirectTarget == "") == (n.redirectGuard == nil) {
			return fmt.Errorf("route %q: %w", n.describe(), ErrRedirectConflict)
		}
		if n.hasContent || n.build != nil {
			return fmt.Errorf("redirect route %q: %w", n.describe(), ErrContentConflict)
		}

	case KindContent:
		if n.hasContent && n.build != nil {
			return fmt.Errorf("route %q: %w", n.describe(), ErrContentConflict)
		}
		if !n.hasContent && n.build == nil {
			return fmt.Errorf("route %q: %w", n.describe(), ErrMissingContent)
		}
	}

	return nil
}

// lookup returns the node registered under name.
func (t *tree) lookup(name string) (*Node, bool) {
	n, ok := t.byName[name]

	return n, ok
}
