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
	"fmt"
	"net/url"
	"strings"
)

// Build substitutes parameter values into the pattern and returns the
// resulting path fragment (no leading slash, no query string).
//
// Every named parameter must be present in params or Build fails with
// [ErrMissingParameter]. A trailing wildcard substitutes params[WildcardName]
// when present and is omitted otherwise. Parameter values are path-escaped;
// constraint regexps are checked so a built URL always re-resolves to the
// same route.
func (p *Pattern) Build(params map[string]string) (string, error) {
	var buf strings.Builder

	for i, seg := range p.segments {
		var piece string

		switch seg.kind {
		case segLiteral:
			piece = seg.literal

		case segParam:
			value, ok := params[seg.name]
			if !ok {
				return "", fmt.Errorf("pattern %q: %w: %s", p.raw, ErrMissingParameter, seg.name)
			}
			if seg.constraint != nil && !seg.constraint.MatchString(value) {
				return "", fmt.Errorf("pattern %q: parameter %s=%q does not satisfy its constraint", p.raw, seg.name, value)
			}
			piece = url.PathEscape(value)

		case segWildcard:
			rest, ok := params[WildcardName]
			if !ok || rest == "" {
				continue
			}
			piece = rest
		}

		if i > 0 && buf.Len() > 0 {
			buf.WriteByte('/')
		}
		buf.WriteString(piece)
	}

	return buf.String(), nil
}
