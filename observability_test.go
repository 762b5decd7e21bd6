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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type guardCall struct {
	phase GuardPhase
	route string
	err   error
}

type cycleCall struct {
	target string
	kind   CycleKind
}

// recordingObserver captures the recorder lifecycle for assertions.
type recordingObserver struct {
	mu       sync.Mutex
	disabled bool

	starts  []cycleCall
	guards  []guardCall
	results []*Result
	errs    []error
}

type observerToken struct{}

func (r *recordingObserver) OnCycleStart(ctx context.Context, target string, kind CycleKind) (context.Context, any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts = append(r.starts, cycleCall{target: target, kind: kind})

	if r.disabled {
		return ctx, nil
	}

	return ctx, observerToken{}
}

func (r *recordingObserver) OnGuard(_ context.Context, _ any, phase GuardPhase, route string, _ float64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards = append(r.guards, guardCall{phase: phase, route: route, err: err})
}

func (r *recordingObserver) OnCycleEnd(_ context.Context, _ any, result *Result, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
	r.errs = append(r.errs, err)
}

func TestRecorderSeesFullCycle(t *testing.T) {
	t.Parallel()

	observer := &recordingObserver{}
	root := Route("", WithContent("home"), WithChildren(
		Route("user/:id", WithName("user"), WithContent("user"), WithNodeGuards(Guards{
			Validate: func(context.Context, *GuardContext) (bool, error) {
				return true, nil
			},
			BeforeEnter: func(context.Context, *GuardContext) (Decision, error) {
				return Continue(), nil
			},
		})),
	))
	nav := newTestNavigator(t, root, WithObservability(observer))

	result, err := nav.Push(context.Background(), "/user/42")
	require.NoError(t, err)
	require.True(t, result.Committed())

	require.Len(t, observer.starts, 1)
	assert.Equal(t, cycleCall{target: "/user/42", kind: CyclePush}, observer.starts[0])

	assert.Equal(t, []guardCall{
		{phase: PhaseValidate, route: "user"},
		{phase: PhaseBeforeEnter, route: "user"},
	}, observer.guards)

	require.Len(t, observer.results, 1)
	assert.Same(t, result, observer.results[0])
	assert.NoError(t, observer.errs[0])
}

func TestRecorderSeesGuardError(t *testing.T) {
	t.Parallel()

	observer := &recordingObserver{}
	root := Route("", WithContent("home"), WithChildren(
		Route("vault", WithName("vault"), WithContent("vault"), WithNodeGuards(Guards{
			BeforeEnter: func(context.Context, *GuardContext) (Decision, error) {
				return Decision{}, assert.AnError
			},
		})),
	))
	nav := newTestNavigator(t, root, WithObservability(observer))

	_, err := nav.Push(context.Background(), "/vault")
	require.Error(t, err)

	require.Len(t, observer.guards, 1)
	assert.Equal(t, PhaseBeforeEnter, observer.guards[0].phase)
	assert.ErrorIs(t, observer.guards[0].err, assert.AnError)

	require.Len(t, observer.errs, 1)
	assert.ErrorIs(t, observer.errs[0], assert.AnError)
}

func TestRecorderSeesPopKind(t *testing.T) {
	t.Parallel()

	observer := &recordingObserver{}
	nav := newTestNavigator(t, basicRoot(), WithObservability(observer))

	_, err := nav.Push(context.Background(), "/login")
	require.NoError(t, err)
	_, err = nav.Push(context.Background(), "/dash")
	require.NoError(t, err)

	_, err = nav.Pop(context.Background())
	require.NoError(t, err)

	require.Len(t, observer.starts, 3)
	assert.Equal(t, CyclePop, observer.starts[2].kind)
	require.Len(t, observer.results, 3)
	assert.Equal(t, OutcomeCommitted, observer.results[2].Outcome)
}

func TestNilRecorderStateExcludesCycle(t *testing.T) {
	t.Parallel()

	observer := &recordingObserver{disabled: true}
	nav := newTestNavigator(t, basicRoot(), WithObservability(observer))

	_, err := nav.Push(context.Background(), "/user/1")
	require.NoError(t, err)

	assert.Len(t, observer.starts, 1, "start is always offered")
	assert.Empty(t, observer.guards, "nil state opts the cycle out of guard recording")
	assert.Empty(t, observer.results, "nil state opts the cycle out of completion recording")
}
