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

package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// WildcardName is the parameter name under which a trailing wildcard
// stores the residual path it consumed.
const WildcardName = "*"

var (
	// ErrEmptyParameterName indicates a ":" segment without a parameter name.
	ErrEmptyParameterName = errors.New("empty parameter name")

	// ErrUnbalancedConstraint indicates an unterminated "(...)" constraint in a segment.
	ErrUnbalancedConstraint = errors.New("unbalanced parameter constraint")

	// ErrWildcardNotLast indicates a "*" segment followed by more segments.
	ErrWildcardNotLast = errors.New("wildcard must be the last segment")

	// ErrMissingParameter indicates a required parameter was not supplied for URL building.
	ErrMissingParameter = errors.New("missing required parameter")
)

// segmentKind discriminates the three segment forms a pattern is built from.
type segmentKind uint8

const (
	segLiteral segmentKind = iota
	segParam
	segWildcard
)

// segment is one compiled path segment.
type segment struct {
	kind       segmentKind
	literal    string         // for segLiteral
	name       string         // for segParam
	constraint *regexp.Regexp // optional, for segParam with ":name(regex)"
}

// Pattern is a compiled route pattern.
//
// Patterns are compiled once at route-tree construction and are immutable
// afterwards, so a Pattern is safe for concurrent use.
//
// Supported forms:
//   - literal segments: "user", "settings"
//   - named parameters: ":id"
//   - constrained parameters: ":id(\d+)" (anchored full-segment match)
//   - trailing wildcard: "*" (matches any residual path, including none)
//
// Matching is prefix-based: a pattern matches when its segments match a
// prefix of the candidate segments; the residual is handed to child routes.
type Pattern struct {
	raw      string
	absolute bool
	segments []segment
	names    []string
	wildcard bool
}

// Compile parses a raw route pattern.
//
// A leading "/" marks the pattern as absolute: it is matched against the full
// path from the root rather than the residual left over by ancestor routes.
// All leading root markers are stripped before compilation.
//
// Malformed patterns (empty parameter names, unbalanced "(...)" constraints,
// invalid constraint regexps, non-trailing wildcards) fail here, never at
// match time.
func Compile(raw string) (*Pattern, error) {
	p := &Pattern{raw: raw}

	trimmed := raw
	if strings.HasPrefix(trimmed, "/") {
		p.absolute = true
		trimmed = strings.TrimLeft(trimmed, "/")
	}

	if trimmed == "" {
		// Matches zero segments. Used for default children and the root route.
		return p, nil
	}

	parts := strings.Split(strings.TrimSuffix(trimmed, "/"), "/")
	for i, part := range parts {
		switch {
		case part == WildcardName:
			if i != len(parts)-1 {
				return nil, fmt.Errorf("pattern %q: %w", raw, ErrWildcardNotLast)
			}
			p.segments = append(p.segments, segment{kind: segWildcard})
			p.names = append(p.names, WildcardName)
			p.wildcard = true

		case strings.HasPrefix(part, ":"):
			seg, err := compileParam(part)
			if err != nil {
				return nil, fmt.Errorf("pattern %q: %w", raw, err)
			}
			p.segments = append(p.segments, seg)
			p.names = append(p.names, seg.name)

		default:
			p.segments = append(p.segments, segment{kind: segLiteral, literal: part})
		}
	}

	return p, nil
}

// MustCompile is like Compile but panics on malformed patterns.
// Intended for patterns known at compile time.
func MustCompile(raw string) *Pattern {
	p, err := Compile(raw)
	if err != nil {
		panic(err.Error())
	}

	return p
}

// compileParam parses a ":name" or ":name(regex)" segment.
func compileParam(part string) (segment, error) {
	body := part[1:] // strip ':'
	if body == "" {
		return segment{}, ErrEmptyParameterName
	}

	open := strings.IndexByte(body, '(')
	if open == -1 {
		if strings.ContainsAny(body, "()") {
			return segment{}, ErrUnbalancedConstraint
		}

		return segment{kind: segParam, name: body}, nil
	}

	// Constrained parameter: everything between the first '(' and the final ')'
	// is a regexp matched against the whole segment.
	if !strings.HasSuffix(body, ")") {
		return segment{}, ErrUnbalancedConstraint
	}

	name := body[:open]
	if name == "" {
		return segment{}, ErrEmptyParameterName
	}

	expr := body[open+1 : len(body)-1]
	re, err := regexp.Compile("^(?:" + expr + ")$")
	if err != nil {
		return segment{}, fmt.Errorf("constraint for %q: %w", name, err)
	}

	return segment{kind: segParam, name: name, constraint: re}, nil
}

// Raw returns the original pattern string as supplied by the caller.
func (p *Pattern) Raw() string {
	return p.raw
}

// Absolute reports whether the pattern started with a root marker and is
// therefore matched against the full path rather than the parent residual.
func (p *Pattern) Absolute() bool {
	return p.absolute
}

// Names returns the parameter names in declaration order.
// A trailing wildcard appears as [WildcardName].
func (p *Pattern) Names() []string {
	return p.names
}

// HasWildcard reports whether the pattern ends in a residual-consuming wildcard.
func (p *Pattern) HasWildcard() bool {
	return p.wildcard
}

// MatchPrefix matches the pattern against a prefix of parts.
//
// On success it returns the captured parameter values (aligned with Names)
// and the number of parts consumed; the residual parts[consumed:] belong to
// child routes. A trailing wildcard consumes the entire residual, joined
// back with "/".
func (p *Pattern) MatchPrefix(parts []string) (values []string, consumed int, ok bool) {
	if len(p.names) > 0 {
		values = make([]string, 0, len(p.names))
	}

	for _, seg := range p.segments {
		switch seg.kind {
		case segWildcard:
			values = append(values, strings.Join(parts[consumed:], "/"))

			return values, len(parts), true

		case segLiteral:
			if consumed >= len(parts) || parts[consumed] != seg.literal {
				return nil, 0, false
			}
			consumed++

		case segParam:
			if consumed >= len(parts) {
				return nil, 0, false
			}
			value := parts[consumed]
			if seg.constraint != nil && !seg.constraint.MatchString(value) {
				return nil, 0, false
			}
			values = append(values, value)
			consumed++
		}
	}

	return values, consumed, true
}
