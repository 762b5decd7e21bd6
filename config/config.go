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
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"rivaas.dev/navigator"
)

// File is the top-level structure of a route definition file.
type File struct {
	Root RouteDef `toml:"root" yaml:"root"`
}

// RouteDef is the declarative form of one route in a definition file.
//
// Path is a pointer so a route with an empty pattern (a default child) can
// be distinguished from a patternless group. Content names a binding
// registered with [WithContent] or [WithBuilder]; guards are code, so they
// are bound by route name via [WithGuards].
type RouteDef struct {
	Path     *string    `toml:"path"     yaml:"path"`
	Name     string     `toml:"name"     yaml:"name"`
	Key      string     `toml:"key"      yaml:"key"`
	Aliases  []string   `toml:"aliases"  yaml:"aliases"`
	Stacked  bool       `toml:"stacked"  yaml:"stacked"`
	Redirect string     `toml:"redirect" yaml:"redirect"`
	Content  string     `toml:"content"  yaml:"content"`
	Children []RouteDef `toml:"children" yaml:"children"`
}

// loader accumulates the bindings and decoding configuration.
type loader struct {
	contents map[string]any
	builders map[string]navigator.Builder
	guards   map[string]navigator.Guards
	format   Format
}

// Option configures route-tree loading.
type Option func(*loader)

// WithContent binds a static content value to the content name used in the
// definition file.
func WithContent(name string, content any) Option {
	return func(l *loader) {
		l.contents[name] = content
	}
}

// WithBuilder binds a content builder to the content name used in the
// definition file.
func WithBuilder(name string, build navigator.Builder) Option {
	return func(l *loader) {
		l.builders[name] = build
	}
}

// WithGuards binds a guard record to a route name. The route must carry the
// same name in the definition file.
func WithGuards(name string, guards navigator.Guards) Option {
	return func(l *loader) {
		l.guards[name] = guards
	}
}

// WithFormat overrides format detection by file extension.
func WithFormat(format Format) Option {
	return func(l *loader) {
		l.format = format
	}
}

// Load reads a route definition file and builds the root route definition
// for navigator.New. The format is detected from the file extension
// (.toml, .yaml, .yml) unless [WithFormat] is used.
//
// Example:
//
//	root, err := config.Load("routes.toml",
//	    config.WithContent("home", homeScreen{}),
//	    config.WithBuilder("user", func(s *navigator.State) any {
//	        return userScreen{id: s.Params()["id"]}
//	    }),
//	    config.WithGuards("user", navigator.Guards{Validate: requireSession}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	nav, err := navigator.New(root)
func Load(path string, opts ...Option) (*navigator.NodeConfig, error) {
	l := newLoader(opts...)

	if l.format == "" {
		format, err := detectFormat(path)
		if err != nil {
			return nil, NewError(path, "load", err)
		}
		l.format = format
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewError(path, "load", err)
	}

	return l.build(path, data)
}

// LoadBytes builds the root route definition from in-memory data. The format
// must be supplied with [WithFormat].
func LoadBytes(data []byte, opts ...Option) (*navigator.NodeConfig, error) {
	l := newLoader(opts...)

	if l.format == "" {
		return nil, NewError("bytes", "load", fmt.Errorf("format not specified; use WithFormat"))
	}

	return l.build("bytes", data)
}

func newLoader(opts ...Option) *loader {
	l := &loader{
		contents: make(map[string]any),
		builders: make(map[string]navigator.Builder),
		guards:   make(map[string]navigator.Guards),
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// build decodes the definition file and converts it into navigator route
// definitions. Structural validation (content presence, redirect shape,
// name uniqueness) is left to navigator.New, which owns those invariants.
func (l *loader) build(source string, data []byte) (*navigator.NodeConfig, error) {
	var file File

	switch l.format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, NewError(source, "decode", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, NewError(source, "decode", err)
		}
	default:
		return nil, NewError(source, "decode", fmt.Errorf("unsupported format: %s", l.format))
	}

	return l.buildRoute(source, file.Root)
}

// buildRoute converts one definition into a navigator route, recursing into
// children.
func (l *loader) buildRoute(source string, def RouteDef) (*navigator.NodeConfig, error) {
	opts, err := l.routeOptions(source, def)
	if err != nil {
		return nil, err
	}

	for _, child := range def.Children {
		built, err := l.buildRoute(source, child)
		if err != nil {
			return nil, err
		}
		opts = append(opts, navigator.WithChildren(built))
	}

	switch {
	case def.Redirect != "":
		if def.Path == nil {
			return nil, NewFieldError(source, def.Name, "build",
				fmt.Errorf("redirect route requires a path"))
		}

		return navigator.Redirect(*def.Path, def.Redirect, opts...), nil
	case def.Path != nil:
		return navigator.Route(*def.Path, opts...), nil
	default:
		return navigator.Group(opts...), nil
	}
}

// routeOptions translates the declarative fields into node options and
// resolves the content and guard bindings.
func (l *loader) routeOptions(source string, def RouteDef) ([]navigator.NodeOption, error) {
	var opts []navigator.NodeOption

	if def.Name != "" {
		opts = append(opts, navigator.WithName(def.Name))
	}
	if def.Key != "" {
		opts = append(opts, navigator.WithKey(def.Key))
	}
	if len(def.Aliases) > 0 {
		opts = append(opts, navigator.WithAliases(def.Aliases...))
	}
	if def.Stacked {
		opts = append(opts, navigator.Stacked())
	}

	if def.Content != "" {
		content, hasContent := l.contents[def.Content]
		build, hasBuilder := l.builders[def.Content]

		switch {
		case hasContent && hasBuilder:
			return nil, NewFieldError(source, def.Content, "bind",
				fmt.Errorf("content name bound to both a value and a builder"))
		case hasContent:
			opts = append(opts, navigator.WithContent(content))
		case hasBuilder:
			opts = append(opts, navigator.WithBuilder(build))
		default:
			return nil, NewFieldError(source, def.Content, "bind",
				fmt.Errorf("no content binding registered; use WithContent or WithBuilder"))
		}
	}

	if def.Name != "" {
		if guards, ok := l.guards[def.Name]; ok {
			opts = append(opts, navigator.WithNodeGuards(guards))
		}
	}

	return opts, nil
}
