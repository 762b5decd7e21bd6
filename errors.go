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

import "errors"

var (
	// ErrMissingContent indicates a content route with neither a static content
	// value nor a content builder.
	ErrMissingContent = errors.New("route must supply a content value or a content builder")

	// ErrContentConflict indicates a route with both a static content value and
	// a content builder.
	ErrContentConflict = errors.New("route cannot supply both a content value and a content builder")

	// ErrAliasWithoutPath indicates aliases declared on a route without a path pattern.
	ErrAliasWithoutPath = errors.New("aliases require a path pattern")

	// ErrNameWithoutPath indicates a name declared on a route without a path pattern.
	ErrNameWithoutPath = errors.New("route name requires a path pattern")

	// ErrMissingIdentity indicates a route with neither an explicit key nor a
	// path pattern to derive render identity from.
	ErrMissingIdentity = errors.New("route needs an explicit key or a path pattern")

	// ErrUnreachableRoute indicates a route with neither a path pattern nor
	// children; such a route could never match.
	ErrUnreachableRoute = errors.New("route has neither a path pattern nor children")

	// ErrDuplicateName indicates two routes in the same tree sharing a name.
	ErrDuplicateName = errors.New("route name already in use")

	// ErrRedirectConflict indicates a redirect route that does not supply
	// exactly one of a target path or a redirect guard.
	ErrRedirectConflict = errors.New("redirect must supply exactly one of a target or a guard")

	// ErrRedirectChildren indicates a redirect route declaring child routes.
	ErrRedirectChildren = errors.New("redirect cannot have child routes")

	// ErrNilRoute indicates a nil route definition in a children list.
	ErrNilRoute = errors.New("route definition is nil")

	// ErrNoMatch indicates the target path did not resolve to any route.
	ErrNoMatch = errors.New("no route matches the target path")

	// ErrRedirectLoop indicates the redirect bound was exceeded during one
	// navigation cycle.
	ErrRedirectLoop = errors.New("redirect loop detected")

	// ErrUnknownRoute indicates a name-based navigation to a name that is not
	// registered in the tree.
	ErrUnknownRoute = errors.New("unknown route name")

	// ErrMaxRedirectsInvalid indicates a non-positive redirect bound.
	ErrMaxRedirectsInvalid = errors.New("max redirects must be positive")

	// ErrNilHistory indicates a nil history collaborator.
	ErrNilHistory = errors.New("history cannot be nil")
)
