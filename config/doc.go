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

// Package config loads navigator route trees from TOML or YAML definition
// files.
//
// A definition file declares the tree shape, patterns, names, aliases, and
// redirects; content and guards are code, so they are bound by name at load
// time with [WithContent], [WithBuilder], and [WithGuards].
//
// TOML example:
//
//	[root]
//	path = ""
//	content = "home"
//
//	[[root.children]]
//	path = "user/:id"
//	name = "user"
//	content = "user"
//
//	[[root.children]]
//	path = "old/:id"
//	redirect = "/user/:id"
//
// Loading:
//
//	root, err := config.Load("routes.toml",
//	    config.WithContent("home", homeScreen{}),
//	    config.WithBuilder("user", newUserScreen),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	nav, err := navigator.New(root)
//
// Structural validation (content presence, redirect shape, name uniqueness)
// happens in navigator.New, which owns those invariants.
package config
