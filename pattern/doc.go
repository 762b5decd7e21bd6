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

// Package pattern compiles route path patterns and matches them against
// URL paths.
//
// It is the matching core of rivaas.dev/navigator: patterns are compiled
// once when the route tree is built and are then matched prefix-wise during
// resolution, with the unconsumed residual handed down to child routes.
//
// Pattern syntax:
//
//	user            literal segment
//	:id             named parameter capturing one segment
//	:id(\d+)        named parameter with an anchored regexp constraint
//	*               trailing wildcard capturing the whole residual
//	/settings/:tab  absolute pattern, matched from the path root
//
// Compilation failures (unbalanced constraints, empty parameter names,
// misplaced wildcards) are construction-time errors so that an invalid
// pattern can never reach matching.
package pattern
