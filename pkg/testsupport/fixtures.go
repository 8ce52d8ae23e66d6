// Package testsupport carries the shared fixtures and assertion helpers the
// widget's package tests lean on: sample record sets, template markup, and an
// event recorder for cadence assertions.
package testsupport

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// DisplayTemplate is the canonical one-field display fragment used across
// package tests.
const DisplayTemplate = `<span data-bind="name"></span>`

// EditTemplate is the canonical one-field edit fragment.
const EditTemplate = `<input type="text" data-bind="name">`

// RichDisplayTemplate binds several node kinds at once: plain text, a nested
// path, and a list-joining field.
const RichDisplayTemplate = `<div>
  <strong data-bind="name"></strong>
  <span data-bind="contact.email"></span>
  <em data-bind="tags"></em>
</div>`

// RichEditTemplate pairs RichDisplayTemplate with one control per bound
// path, plus a checkbox.
const RichEditTemplate = `<div>
  <input type="text" data-bind="name">
  <input type="email" data-bind="contact.email">
  <input type="checkbox" data-bind="active">
</div>`

// People returns a fresh three-record fixture. Each call allocates new maps
// so tests can mutate freely.
func People() []any {
	return []any{
		map[string]any{"name": "Alice", "contact": map[string]any{"email": "alice@example.com"}, "active": true},
		map[string]any{"name": "Bob", "contact": map[string]any{"email": "bob@example.com"}, "active": false},
		map[string]any{"name": "Carol", "tags": []any{"admin", "ops"}, "active": true},
	}
}

// Numbers returns a fresh primitive-record fixture for the positional
// edit-state path.
func Numbers() []any {
	return []any{float64(1), float64(2), float64(3)}
}

// Recorder captures named notifications in arrival order, for asserting both
// sequence and count.
type Recorder struct {
	Events []string
}

// Log returns a zero-argument hook that records name.
func (r *Recorder) Log(name string) func() {
	return func() { r.Events = append(r.Events, name) }
}

// Logf records a formatted entry immediately.
func (r *Recorder) Logf(format string, args ...any) {
	r.Events = append(r.Events, fmt.Sprintf(format, args...))
}

// Count returns how many recorded entries equal name.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, e := range r.Events {
		if e == name {
			n++
		}
	}
	return n
}

// Reset clears the recorded entries.
func (r *Recorder) Reset() { r.Events = nil }

// Diff fails the test with a (-want +got) diff when the values differ.
func Diff(t *testing.T, want, got any) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
