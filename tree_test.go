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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTreeValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		root    *NodeConfig
		wantErr error
	}{
		{
			"content route without content",
			Route("user/:id"),
			ErrMissingContent,
		},
		{
			"content and builder conflict",
			Route("user", WithContent("a"), WithBuilder(func(*State) any { return "b" })),
			ErrContentConflict,
		},
		{
			"group without key",
			Group(WithContent("x"), WithChildren(Route("a", WithContent("a")))),
			ErrMissingIdentity,
		},
		{
			"group without children",
			Group(WithKey("g"), WithContent("x")),
			ErrUnreachableRoute,
		},
		{
			"name requires a path",
			Group(WithKey("g"), WithName("g"), WithContent("x"),
				WithChildren(Route("a", WithContent("a")))),
			ErrNameWithoutPath,
		},
		{
			"aliases require a path",
			Group(WithKey("g"), WithAliases("alt"), WithContent("x"),
				WithChildren(Route("a", WithContent("a")))),
			ErrAliasWithoutPath,
		},
		{
			"redirect with children",
			func() *NodeConfig {
				cfg := Redirect("old", "/new")
				WithChildren(Route("a", WithContent("a")))(cfg)

				return cfg
			}(),
			ErrRedirectChildren,
		},
		{
			"redirect without target or guard",
			Redirect("old", ""),
			ErrRedirectConflict,
		},
		{
			"redirect with content",
			Redirect("old", "/new", WithContent("x")),
			ErrContentConflict,
		},
		{
			"duplicate route names",
			Route("", WithContent("root"), WithChildren(
				Route("a", WithName("dup"), WithContent("a")),
				Route("b", WithName("dup"), WithContent("b")),
			)),
			ErrDuplicateName,
		},
		{
			"nil definition",
			nil,
			ErrNilRoute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := buildTree(tt.root)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBuildTreeInvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := buildTree(Route("user/:", WithContent("x")))
	require.Error(t, err)

	_, err = buildTree(Redirect("old/:id", "/new/:"))
	require.Error(t, err, "redirect targets are compiled at construction")
}

func TestBuildTreeLookup(t *testing.T) {
	t.Parallel()

	tr, err := buildTree(Route("", WithName("home"), WithContent("home"), WithChildren(
		Route("user/:id", WithName("user"), WithContent("user")),
	)))
	require.NoError(t, err)

	home, ok := tr.lookup("home")
	require.True(t, ok)
	assert.Equal(t, "home", home.Name())
	assert.Same(t, tr.root, home)

	user, ok := tr.lookup("user")
	require.True(t, ok)
	assert.Equal(t, []string{"id"}, user.ParamNames())
	assert.Same(t, home, user.Parent())

	_, ok = tr.lookup("missing")
	assert.False(t, ok)
}

func TestNodeAccessors(t *testing.T) {
	t.Parallel()

	tr, err := buildTree(Route("", WithContent("root"), WithChildren(
		Route("modal", WithName("modal"), WithKey("modal-key"), Stacked(),
			WithAliases("overlay"),
			WithBuilder(func(s *State) any { return "modal:" + s.URL() })),
		Redirect("legacy/:id", "/modal", WithName("legacy")),
	)))
	require.NoError(t, err)

	modal, ok := tr.lookup("modal")
	require.True(t, ok)
	assert.Equal(t, KindContent, modal.Kind())
	assert.Equal(t, LayoutStacked, modal.Layout())
	assert.Equal(t, "modal-key", modal.Key())
	assert.Equal(t, "modal-key", modal.Identity())
	assert.Equal(t, []string{"overlay"}, modal.Aliases())

	path, hasPath := modal.Path()
	assert.True(t, hasPath)
	assert.Equal(t, "modal", path)

	content := modal.Content(&State{url: "/modal"})
	assert.Equal(t, "modal:/modal", content)

	legacy, ok := tr.lookup("legacy")
	require.True(t, ok)
	assert.Equal(t, KindRedirect, legacy.Kind())
	assert.Equal(t, "/modal", legacy.RedirectTarget())
	assert.Nil(t, legacy.Content(nil), "redirect routes have no content")
}

func TestRedirectEffectSubstitutesParams(t *testing.T) {
	t.Parallel()

	tr, err := buildTree(Route("", WithContent("root"), WithChildren(
		Redirect("old/:id", "/user/:id", WithName("old")),
	)))
	require.NoError(t, err)

	node, ok := tr.lookup("old")
	require.True(t, ok)

	chain, matched := tr.resolve("/old/42", nil)
	require.True(t, matched)

	decision, err := node.redirectEffect()(context.Background(), &GuardContext{node: node, chain: chain})
	require.NoError(t, err)
	assert.Equal(t, decisionRedirect, decision.kind)
	assert.Equal(t, "/user/42", decision.target)
}
