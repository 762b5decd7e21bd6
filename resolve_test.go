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
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/navigator/pattern"
)

// fixtureTree covers the matching semantics: nested patterns, a default
// child, a transparent group, aliases, an absolute pattern, a wildcard, and
// a redirect route.
func fixtureTree(t *testing.T) *tree {
	t.Helper()

	tr, err := buildTree(Route("", WithName("home"), WithContent("home"), WithChildren(
		Route("user/:id", WithName("user"), WithContent("user"), WithChildren(
			Route("", WithName("user-overview"), WithContent("overview")),
			Route("settings", WithName("user-settings"), WithContent("settings")),
			Route("/user/:id/profile", WithName("user-profile"), WithContent("profile")),
		)),
		Group(WithKey("admin-area"), WithContent("admin-frame"), WithChildren(
			Route("admin", WithName("admin"), WithContent("admin")),
		)),
		Redirect("old/:id", "/user/:id", WithName("old-user")),
		Route("docs", WithName("docs"), WithAliases("documentation"), WithContent("docs")),
		Route("files/*", WithName("files"), WithContent("files")),
	)))
	require.NoError(t, err)

	return tr
}

func chainNames(c *Chain) []string {
	names := make([]string, 0, c.Len())
	for _, n := range c.Nodes() {
		names = append(names, n.describe())
	}

	return names
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tr := fixtureTree(t)

	tests := []struct {
		name       string
		path       string
		wantChain  []string
		wantParams map[string]string
	}{
		{
			"root path",
			"/",
			[]string{"home"},
			map[string]string{},
		},
		{
			"default child wins over ending at parent",
			"/user/42",
			[]string{"home", "user", "user-overview"},
			map[string]string{"id": "42"},
		},
		{
			"nested static child",
			"/user/42/settings",
			[]string{"home", "user", "user-settings"},
			map[string]string{"id": "42"},
		},
		{
			"absolute child pattern matches the full path",
			"/user/42/profile",
			[]string{"home", "user", "user-profile"},
			map[string]string{"id": "42"},
		},
		{
			"transparent group appears in the chain",
			"/admin",
			[]string{"home", "admin-area", "admin"},
			map[string]string{},
		},
		{
			"redirect leaf resolves like any route",
			"/old/7",
			[]string{"home", "old-user"},
			map[string]string{"id": "7"},
		},
		{
			"alias matches with primary semantics",
			"/documentation",
			[]string{"home", "docs"},
			map[string]string{},
		},
		{
			"wildcard captures the residual",
			"/files/reports/2025/q1.pdf",
			[]string{"home", "files"},
			map[string]string{pattern.WildcardName: "reports/2025/q1.pdf"},
		},
		{
			"percent-encoded segments are decoded",
			"/user/a%20b",
			[]string{"home", "user", "user-overview"},
			map[string]string{"id": "a b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			chain, ok := tr.resolve(tt.path, nil)
			require.True(t, ok)
			assert.Equal(t, tt.wantChain, chainNames(chain))
			assert.Equal(t, tt.wantParams, chain.Params())
		})
	}
}

func TestResolveNoMatch(t *testing.T) {
	t.Parallel()

	tr := fixtureTree(t)

	for _, path := range []string{"/missing", "/user", "/user/42/unknown", "/admin/deeper"} {
		_, ok := tr.resolve(path, nil)
		assert.False(t, ok, "path %q should not resolve", path)
	}
}

func TestResolveDeterministic(t *testing.T) {
	t.Parallel()

	tr := fixtureTree(t)

	first, ok := tr.resolve("/user/42/settings", nil)
	require.True(t, ok)

	for range 10 {
		chain, ok := tr.resolve("/user/42/settings", nil)
		require.True(t, ok)
		assert.Equal(t, chainNames(first), chainNames(chain))
		assert.Equal(t, first.Params(), chain.Params())
	}
}

func TestResolveSiblingOrderPrecedence(t *testing.T) {
	t.Parallel()

	staticFirst, err := buildTree(Route("", WithContent("root"), WithChildren(
		Route("user/list", WithName("list"), WithContent("list")),
		Route("user/:id", WithName("detail"), WithContent("detail")),
	)))
	require.NoError(t, err)

	chain, ok := staticFirst.resolve("/user/list", nil)
	require.True(t, ok)
	assert.Equal(t, "list", chain.Leaf().Name())

	paramFirst, err := buildTree(Route("", WithContent("root"), WithChildren(
		Route("user/:id", WithName("detail"), WithContent("detail")),
		Route("user/list", WithName("list"), WithContent("list")),
	)))
	require.NoError(t, err)

	chain, ok = paramFirst.resolve("/user/list", nil)
	require.True(t, ok)
	assert.Equal(t, "detail", chain.Leaf().Name())
	assert.Equal(t, "list", chain.Param("id"))
}

func TestResolveConstraint(t *testing.T) {
	t.Parallel()

	tr, err := buildTree(Route("", WithContent("root"), WithChildren(
		Route(`user/:id(\d+)`, WithName("numeric"), WithContent("numeric")),
		Route("user/:slug", WithName("named"), WithContent("named")),
	)))
	require.NoError(t, err)

	chain, ok := tr.resolve("/user/42", nil)
	require.True(t, ok)
	assert.Equal(t, "numeric", chain.Leaf().Name())

	chain, ok = tr.resolve("/user/jane", nil)
	require.True(t, ok)
	assert.Equal(t, "named", chain.Leaf().Name(), "constraint failure falls through to the next sibling")
}

func TestResolveQueryPassthrough(t *testing.T) {
	t.Parallel()

	tr := fixtureTree(t)

	query := url.Values{"tab": {"activity"}}
	chain, ok := tr.resolve("/user/42", query)
	require.True(t, ok)
	assert.Equal(t, "activity", chain.Query().Get("tab"))
}

func TestPathForName(t *testing.T) {
	t.Parallel()

	tr := fixtureTree(t)

	tests := []struct {
		name   string
		route  string
		params map[string]string
		want   string
	}{
		{"root", "home", nil, "/"},
		{"single parameter", "user", map[string]string{"id": "42"}, "/user/42"},
		{"nested static", "user-settings", map[string]string{"id": "42"}, "/user/42/settings"},
		{"absolute restarts the path", "user-profile", map[string]string{"id": "42"}, "/user/42/profile"},
		{"through transparent group", "admin", nil, "/admin"},
		{"escapes values", "user", map[string]string{"id": "a b"}, "/user/a%20b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path, err := tr.pathForName(tt.route, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, path)
		})
	}
}

func TestPathForNameErrors(t *testing.T) {
	t.Parallel()

	tr := fixtureTree(t)

	_, err := tr.pathForName("nope", nil)
	assert.ErrorIs(t, err, ErrUnknownRoute)

	_, err = tr.pathForName("user", nil)
	assert.ErrorIs(t, err, pattern.ErrMissingParameter)
}
