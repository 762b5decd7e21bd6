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

// Outcome classifies how a navigation cycle ended. Every navigation request
// resolves to a concrete outcome; requests are never silently ignored.
type Outcome uint8

const (
	// OutcomeCommitted means the navigation state was replaced with the new
	// chain and URL.
	OutcomeCommitted Outcome = iota

	// OutcomeCancelled means a guard intentionally suppressed the navigation
	// (a Stop decision or a false validation). Not an error: the state is
	// untouched.
	OutcomeCancelled

	// OutcomeNoMatch means the target path resolved to no route. Recoverable:
	// callers typically render a fallback or rely on a catch-all redirect
	// route.
	OutcomeNoMatch

	// OutcomeRedirectLoop means chained redirects exceeded the configured
	// bound. Fatal for the attempt, never an infinite loop.
	OutcomeRedirectLoop
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeRedirectLoop:
		return "redirect_loop"
	default:
		return "unknown"
	}
}

// Result reports the concrete outcome of one navigation request.
type Result struct {
	// Outcome classifies how the cycle ended.
	Outcome Outcome

	// Chain is the committed chain; nil unless Outcome is OutcomeCommitted.
	Chain *Chain

	// URL is the committed URL; empty unless Outcome is OutcomeCommitted.
	URL string

	// Redirects counts the redirects followed during the cycle.
	Redirects int
}

// Committed reports whether the navigation replaced the state.
func (r *Result) Committed() bool {
	return r != nil && r.Outcome == OutcomeCommitted
}

// Err maps failure outcomes to their sentinel errors, for callers that
// prefer error handling over outcome inspection. Committed and cancelled
// results return nil.
func (r *Result) Err() error {
	if r == nil {
		return nil
	}

	switch r.Outcome {
	case OutcomeNoMatch:
		return ErrNoMatch
	case OutcomeRedirectLoop:
		return ErrRedirectLoop
	default:
		return nil
	}
}
