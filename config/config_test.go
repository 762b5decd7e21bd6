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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/navigator"
)

const tomlRoutes = `
[root]
path = ""
name = "home"
content = "home"

[[root.children]]
path = "user/:id"
name = "user"
content = "user"

[[root.children]]
path = "old/:id"
redirect = "/user/:id"
name = "old-user"

[[root.children]]
key = "admin-area"
content = "admin-frame"

[[root.children.children]]
path = "admin"
name = "admin"
content = "admin"
aliases = ["administration"]
stacked = true
`

const yamlRoutes = `
root:
  path: ""
  name: home
  content: home
  children:
    - path: "user/:id"
      name: user
      content: user
`

func bindings() []Option {
	return []Option{
		WithContent("home", "home-screen"),
		WithContent("admin-frame", "admin-frame-screen"),
		WithContent("admin", "admin-screen"),
		WithBuilder("user", func(s *navigator.State) any {
			return "user-" + s.Params()["id"]
		}),
	}
}

func TestLoadBytesTOML(t *testing.T) {
	t.Parallel()

	root, err := LoadBytes([]byte(tomlRoutes), append(bindings(), WithFormat(FormatTOML))...)
	require.NoError(t, err)

	nav, err := navigator.New(root)
	require.NoError(t, err)

	result, err := nav.Push(context.Background(), "/user/42")
	require.NoError(t, err)
	require.True(t, result.Committed())
	assert.Equal(t, "user-42", nav.Snapshot().Chain().Leaf().Content(nav.Snapshot()))

	result, err = nav.Push(context.Background(), "/old/7")
	require.NoError(t, err)
	assert.Equal(t, "/user/7", result.URL)

	result, err = nav.Push(context.Background(), "/administration")
	require.NoError(t, err)
	require.True(t, result.Committed())

	admin := nav.Snapshot().Chain().Leaf()
	assert.Equal(t, "admin", admin.Name())
	assert.Equal(t, navigator.LayoutStacked, admin.Layout())

	group := nav.Snapshot().Chain().Nodes()[1]
	assert.Equal(t, "admin-area", group.Key())
	_, hasPath := group.Path()
	assert.False(t, hasPath, "a patternless definition becomes a group")
}

func TestLoadBytesYAML(t *testing.T) {
	t.Parallel()

	root, err := LoadBytes([]byte(yamlRoutes),
		WithContent("home", "home-screen"),
		WithContent("user", "user-screen"),
		WithFormat(FormatYAML))
	require.NoError(t, err)

	nav, err := navigator.New(root)
	require.NoError(t, err)

	result, err := nav.Push(context.Background(), "/user/1")
	require.NoError(t, err)
	assert.True(t, result.Committed())
}

func TestLoadBytesRequiresFormat(t *testing.T) {
	t.Parallel()

	_, err := LoadBytes([]byte(tomlRoutes), bindings()...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format")
}

func TestLoadBytesGuardBinding(t *testing.T) {
	t.Parallel()

	var validated bool
	opts := append(bindings(),
		WithFormat(FormatTOML),
		WithGuards("user", navigator.Guards{
			Validate: func(context.Context, *navigator.GuardContext) (bool, error) {
				validated = true

				return true, nil
			},
		}))

	root, err := LoadBytes([]byte(tomlRoutes), opts...)
	require.NoError(t, err)

	nav, err := navigator.New(root)
	require.NoError(t, err)

	_, err = nav.Push(context.Background(), "/user/42")
	require.NoError(t, err)
	assert.True(t, validated, "guards bound by name run during navigation")
}

func TestLoadBytesUnboundContent(t *testing.T) {
	t.Parallel()

	_, err := LoadBytes([]byte(yamlRoutes),
		WithContent("home", "home-screen"),
		WithFormat(FormatYAML))
	require.Error(t, err)

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "user", cfgErr.Field)
	assert.Equal(t, "bind", cfgErr.Operation)
}

func TestLoadBytesContentBoundTwice(t *testing.T) {
	t.Parallel()

	_, err := LoadBytes([]byte(yamlRoutes),
		WithContent("home", "home-screen"),
		WithContent("user", "user-screen"),
		WithBuilder("user", func(*navigator.State) any { return nil }),
		WithFormat(FormatYAML))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both")
}

func TestLoadBytesRedirectRequiresPath(t *testing.T) {
	t.Parallel()

	const badRedirect = `
root:
  path: ""
  content: home
  children:
    - redirect: "/somewhere"
      name: dangling
`
	_, err := LoadBytes([]byte(badRedirect),
		WithContent("home", "home-screen"),
		WithFormat(FormatYAML))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redirect route requires a path")
}

func TestLoadBytesDecodeError(t *testing.T) {
	t.Parallel()

	_, err := LoadBytes([]byte("root = [not toml"), WithFormat(FormatTOML))
	require.Error(t, err)

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "decode", cfgErr.Operation)
}

func TestLoadDetectsFormatByExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "routes.toml")
	require.NoError(t, os.WriteFile(path, []byte(tomlRoutes), 0o600))

	root, err := Load(path, bindings()...)
	require.NoError(t, err)

	_, err = navigator.New(root)
	require.NoError(t, err)
}

func TestLoadUnknownExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "routes.ini")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ini")
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want Format
	}{
		{"routes.toml", FormatTOML},
		{"routes.yaml", FormatYAML},
		{"routes.yml", FormatYAML},
	}

	for _, tt := range tests {
		format, err := detectFormat(tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, format)
	}

	_, err := detectFormat("routes.json")
	assert.Error(t, err)
}
