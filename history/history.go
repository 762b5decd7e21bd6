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

// Package history defines the history collaborator contract of
// rivaas.dev/navigator and provides an in-memory implementation.
//
// The engine does not own the host platform's history stack: it only pushes,
// replaces, and walks back entries, each carrying an opaque state string it
// persists on behalf of guards. Adapters for real platform history APIs
// implement [History]; [Memory] backs tests and embedded hosts.
package history

import "sync"

// Entry is one recorded navigation entry.
type Entry struct {
	// URL is the committed URL of the entry.
	URL string

	// State is the opaque string the engine persisted with the entry.
	State string
}

// History is the abstract push/replace/back primitive the engine navigates
// against. Implementations must be safe for concurrent use; the engine
// serializes its own calls but accessors may be read from other goroutines.
type History interface {
	// Push records a new entry on top of the stack.
	Push(url, state string)

	// Replace swaps the current entry without growing the stack.
	Replace(url, state string)

	// Back discards the current entry and returns the one below it.
	// ok is false when there is no entry to go back to.
	Back() (entry Entry, ok bool)

	// Previous peeks at the entry one level back without mutating the stack.
	Previous() (entry Entry, ok bool)

	// Current returns the top entry.
	Current() (entry Entry, ok bool)

	// Len returns the number of recorded entries.
	Len() int
}

// Memory is an in-memory History backed by a slice.
// The zero value is ready to use.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemory returns an empty in-memory history.
func NewMemory() *Memory {
	return &Memory{}
}

// Push records a new entry on top of the stack.
func (m *Memory) Push(url, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, Entry{URL: url, State: state})
}

// Replace swaps the current entry; on an empty stack it behaves like Push.
func (m *Memory) Replace(url, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) == 0 {
		m.entries = append(m.entries, Entry{URL: url, State: state})

		return
	}
	m.entries[len(m.entries)-1] = Entry{URL: url, State: state}
}

// Back discards the current entry and returns the one below it.
func (m *Memory) Back() (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) < 2 {
		return Entry{}, false
	}
	m.entries = m.entries[:len(m.entries)-1]

	return m.entries[len(m.entries)-1], true
}

// Previous peeks at the entry one level back.
func (m *Memory) Previous() (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) < 2 {
		return Entry{}, false
	}

	return m.entries[len(m.entries)-2], true
}

// Current returns the top entry.
func (m *Memory) Current() (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) == 0 {
		return Entry{}, false
	}

	return m.entries[len(m.entries)-1], true
}

// Len returns the number of recorded entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}
