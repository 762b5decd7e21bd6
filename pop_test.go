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

func TestPopReturnsToPreviousEntry(t *testing.T) {
	t.Parallel()

	nav := newTestNavigator(t, basicRoot())

	_, err := nav.Push(context.Background(), "/user/1", WithHistoryState("scroll=300"))
	require.NoError(t, err)
	_, err = nav.Push(context.Background(), "/login")
	require.NoError(t, err)
	require.Equal(t, 2, nav.History().Len())

	result, err := nav.Pop(context.Background())
	require.NoError(t, err)
	require.True(t, result.Committed())
	assert.Equal(t, "/user/1", result.URL)

	assert.Equal(t, "/user/1", nav.URL())
	assert.Equal(t, 1, nav.History().Len(), "pop shrinks the stack instead of pushing")
	assert.Equal(t, "scroll=300", nav.HistoryState(), "the popped entry's state is restored")
}

func TestPopGuardVeto(t *testing.T) {
	t.Parallel()

	confirm := false
	root := Route("", WithContent("home"), WithChildren(
		Route("login", WithName("login"), WithContent("login")),
		Route("wizard", WithName("wizard"), WithContent("wizard"), WithNodeGuards(Guards{
			OnPop: func(context.Context, *GuardContext) (Decision, error) {
				if !confirm {
					return Stop(), nil
				}

				return Continue(), nil
			},
		})),
	))
	nav := newTestNavigator(t, root)

	_, err := nav.Push(context.Background(), "/login")
	require.NoError(t, err)
	_, err = nav.Push(context.Background(), "/wizard")
	require.NoError(t, err)

	result, err := nav.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, result.Outcome)
	assert.Equal(t, "/wizard", nav.URL())
	assert.Equal(t, 2, nav.History().Len())

	confirm = true
	result, err = nav.Pop(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Committed())
	assert.Equal(t, "/login", nav.URL())
}

func TestPopGuardRedirectsTarget(t *testing.T) {
	t.Parallel()

	root := Route("", WithContent("home"), WithChildren(
		Route("login", WithName("login"), WithContent("login")),
		Route("dash", WithName("dash"), WithContent("dash")),
		Route("checkout", WithName("checkout"), WithContent("checkout"), WithNodeGuards(Guards{
			OnPop: func(context.Context, *GuardContext) (Decision, error) {
				// Leaving checkout always lands on the dashboard.
				return RedirectTo("/dash"), nil
			},
		})),
	))
	nav := newTestNavigator(t, root)

	_, err := nav.Push(context.Background(), "/login")
	require.NoError(t, err)
	_, err = nav.Push(context.Background(), "/checkout")
	require.NoError(t, err)

	result, err := nav.Pop(context.Background())
	require.NoError(t, err)
	require.True(t, result.Committed())
	assert.Equal(t, "/dash", result.URL)
	assert.Equal(t, 1, nav.History().Len(), "the redirected pop still consumes the entry")

	current, ok := nav.History().Current()
	require.True(t, ok)
	assert.Equal(t, "/dash", current.URL)
}

func TestSystemPopUsesItsOwnGuard(t *testing.T) {
	t.Parallel()

	var systemPops int
	root := Route("", WithContent("home"), WithChildren(
		Route("login", WithName("login"), WithContent("login")),
		Route("player", WithName("player"), WithContent("player"), WithNodeGuards(Guards{
			OnSystemPop: func(context.Context, *GuardContext) (Decision, error) {
				systemPops++

				return Stop(), nil
			},
		})),
	))
	nav := newTestNavigator(t, root)

	_, err := nav.Push(context.Background(), "/login")
	require.NoError(t, err)
	_, err = nav.Push(context.Background(), "/player")
	require.NoError(t, err)

	result, err := nav.SystemPop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, result.Outcome)
	assert.Equal(t, 1, systemPops)

	// A programmatic pop is not intercepted by the system-pop guard.
	result, err = nav.Pop(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Committed())
	assert.Equal(t, 1, systemPops)
}

func TestPopFallsBackToLineageAscent(t *testing.T) {
	t.Parallel()

	root := Route("", WithContent("home"), WithChildren(
		Route("user/:id", WithName("user"), WithContent("user"), WithChildren(
			Route("settings", WithName("user-settings"), WithContent("settings")),
		)),
	))
	nav := newTestNavigator(t, root)

	// Deep-link straight to the leaf: there is no previous history entry.
	_, err := nav.Push(context.Background(), "/user/42/settings")
	require.NoError(t, err)
	require.Equal(t, 1, nav.History().Len())

	result, err := nav.Pop(context.Background())
	require.NoError(t, err)
	require.True(t, result.Committed())
	assert.Equal(t, "/user/42", result.URL)
	assert.Equal(t, 1, nav.History().Len())
}

func TestPopWithNothingBelow(t *testing.T) {
	t.Parallel()

	sink := &diagnosticSink{}
	nav := newTestNavigator(t, basicRoot(), WithDiagnostics(sink))

	result, err := nav.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, result.Outcome)
	assert.Contains(t, sink.kinds(), DiagEmptyHistoryPop)

	// From a first-level route the ascent lands on the root.
	_, err = nav.Push(context.Background(), "/login")
	require.NoError(t, err)

	result, err = nav.Pop(context.Background())
	require.NoError(t, err)
	require.True(t, result.Committed())
	assert.Equal(t, "/", nav.URL())

	// At the root there is nothing left to ascend to.
	result, err = nav.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, result.Outcome)
	assert.Equal(t, "/", nav.URL())
}

func TestAttachedPopGuard(t *testing.T) {
	t.Parallel()

	nav := newTestNavigator(t, basicRoot())

	_, err := nav.Push(context.Background(), "/login")
	require.NoError(t, err)
	_, err = nav.Push(context.Background(), "/user/1")
	require.NoError(t, err)

	user, ok := nav.Route("user")
	require.True(t, ok)

	detach := nav.AttachGuards(user, AttachedGuards{
		OnPop: func(context.Context, *GuardContext) (Decision, error) {
			return Stop(), nil
		},
	})

	result, err := nav.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, result.Outcome)

	detach()

	result, err = nav.Pop(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Committed())
	assert.Equal(t, "/login", nav.URL())
}

func TestPopGuardSeesDefaultTarget(t *testing.T) {
	t.Parallel()

	var target string
	root := Route("", WithContent("home"), WithChildren(
		Route("login", WithName("login"), WithContent("login")),
		Route("dash", WithName("dash"), WithContent("dash"), WithNodeGuards(Guards{
			OnPop: func(_ context.Context, g *GuardContext) (Decision, error) {
				target = g.DefaultPopTarget()

				return Continue(), nil
			},
		})),
	))
	nav := newTestNavigator(t, root)

	_, err := nav.Push(context.Background(), "/login")
	require.NoError(t, err)
	_, err = nav.Push(context.Background(), "/dash")
	require.NoError(t, err)

	_, err = nav.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/login", target)
}

func TestPopGuardCanSaveHistoryState(t *testing.T) {
	t.Parallel()

	root := Route("", WithContent("home"), WithChildren(
		Route("login", WithName("login"), WithContent("login")),
		Route("feed", WithName("feed"), WithContent("feed"), WithNodeGuards(Guards{
			OnPop: func(_ context.Context, g *GuardContext) (Decision, error) {
				g.SaveHistoryState("offset=17")

				return Continue(), nil
			},
		})),
	))
	nav := newTestNavigator(t, root)

	_, err := nav.Push(context.Background(), "/login")
	require.NoError(t, err)
	_, err = nav.Push(context.Background(), "/feed")
	require.NoError(t, err)

	result, err := nav.Pop(context.Background())
	require.NoError(t, err)
	require.True(t, result.Committed())

	feed, ok := nav.Route("feed")
	require.True(t, ok)
	saved, ok := nav.NodeHistoryState(feed)
	require.True(t, ok)
	assert.Equal(t, "offset=17", saved)
}
