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

import "net/url"

// State is the committed navigation state: the single authoritative copy,
// owned by the orchestrator and replaced atomically at the end of each
// successful cycle.
//
// A State value is immutable; collaborators read it as a snapshot between
// cycles and never observe a partially-updated navigation (the URL and the
// active chain always change together).
type State struct {
	chain        *Chain
	url          string
	previousURL  string
	historyState string
	nodeState    map[*Node]string
}

// Chain returns the committed active chain, nil before the first commit.
func (s *State) Chain() *Chain {
	if s == nil {
		return nil
	}

	return s.chain
}

// URL returns the committed URL, empty before the first commit.
func (s *State) URL() string {
	if s == nil {
		return ""
	}

	return s.url
}

// PreviousURL returns the URL committed before the current one.
func (s *State) PreviousURL() string {
	if s == nil {
		return ""
	}

	return s.previousURL
}

// HistoryState returns the opaque string associated with the current
// top-level navigation entry.
func (s *State) HistoryState() string {
	if s == nil {
		return ""
	}

	return s.historyState
}

// NodeHistoryState returns the opaque string saved for the route by a
// beforeLeave or pop guard of an earlier cycle.
func (s *State) NodeHistoryState(n *Node) (string, bool) {
	if s == nil {
		return "", false
	}
	state, ok := s.nodeState[n]

	return state, ok
}

// Params returns the merged path parameters of the active chain.
func (s *State) Params() map[string]string {
	if s == nil || s.chain == nil {
		return nil
	}

	return s.chain.Params()
}

// Query returns the query parameters of the active chain.
func (s *State) Query() url.Values {
	if s == nil || s.chain == nil {
		return nil
	}

	return s.chain.Query()
}

// withNodeState returns a copy of the per-route state map with the pending
// saves of a committing cycle merged in. Earlier entries are preserved so
// they can be restored on later back-navigations.
func (s *State) withNodeState(pending map[*Node]string) map[*Node]string {
	size := len(pending)
	if s != nil {
		size += len(s.nodeState)
	}
	if size == 0 {
		return nil
	}

	merged := make(map[*Node]string, size)
	if s != nil {
		for n, st := range s.nodeState {
			merged[n] = st
		}
	}
	for n, st := range pending {
		merged[n] = st
	}

	return merged
}
