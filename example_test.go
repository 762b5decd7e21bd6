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

package navigator_test

import (
	"context"
	"fmt"
	"log"

	"rivaas.dev/navigator"
)

func Example() {
	root := navigator.Route("", navigator.WithName("home"), navigator.WithContent("home screen"),
		navigator.WithChildren(
			navigator.Route("user/:id", navigator.WithName("user"),
				navigator.WithBuilder(func(s *navigator.State) any {
					return "profile of " + s.Params()["id"]
				})),
			navigator.Redirect("old/:id", "/user/:id"),
		))

	nav := navigator.MustNew(root)

	result, err := nav.Push(context.Background(), "/old/42")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(result.URL)
	fmt.Println(result.Redirects)
	fmt.Println(nav.Snapshot().Chain().Leaf().Content(nav.Snapshot()))
	// Output:
	// /user/42
	// 1
	// profile of 42
}

func ExampleNavigator_Pop() {
	root := navigator.Route("", navigator.WithName("home"), navigator.WithContent("home"),
		navigator.WithChildren(
			navigator.Route("settings", navigator.WithName("settings"), navigator.WithContent("settings")),
			navigator.Route("about", navigator.WithName("about"), navigator.WithContent("about")),
		))

	nav := navigator.MustNew(root)
	ctx := context.Background()

	if _, err := nav.Push(ctx, "/settings"); err != nil {
		log.Fatal(err)
	}
	if _, err := nav.Push(ctx, "/about"); err != nil {
		log.Fatal(err)
	}

	if _, err := nav.Pop(ctx); err != nil {
		log.Fatal(err)
	}

	fmt.Println(nav.URL())
	// Output:
	// /settings
}

func ExampleNavigator_PushName() {
	root := navigator.Route("", navigator.WithName("home"), navigator.WithContent("home"),
		navigator.WithChildren(
			navigator.Route("team/:org/:slug", navigator.WithName("team"), navigator.WithContent("team")),
		))

	nav := navigator.MustNew(root)

	result, err := nav.PushName(context.Background(), "team", map[string]string{
		"org":  "acme",
		"slug": "platform",
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(result.URL)
	// Output:
	// /team/acme/platform
}

func ExampleWithGuards() {
	root := navigator.Route("", navigator.WithName("home"), navigator.WithContent("home"),
		navigator.WithChildren(
			navigator.Route("login", navigator.WithName("login"), navigator.WithContent("login")),
			navigator.Route("account", navigator.WithName("account"), navigator.WithContent("account")),
		))

	signedIn := false
	nav := navigator.MustNew(root, navigator.WithGuards(navigator.Guards{
		BeforeEnter: func(_ context.Context, g *navigator.GuardContext) (navigator.Decision, error) {
			if g.Node() != nil && g.Node().Name() == "account" && !signedIn {
				return navigator.RedirectTo("/login"), nil
			}

			return navigator.Continue(), nil
		},
	}))

	result, err := nav.Push(context.Background(), "/account")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(result.URL)
	// Output:
	// /login
}
