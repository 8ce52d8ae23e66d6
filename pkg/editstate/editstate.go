// Package editstate tracks per-row transient edit state in a side table, so
// caller records never grow internal bookkeeping fields.
//
// Container records (objects and lists) are associated by identity: the
// association follows the record through reorders, so a stale index degrades
// gracefully. Primitive records cannot be tracked by identity, so they fall
// back to a dense positional table that is invalidated wholesale whenever
// the data array is replaced. Tests exercising both halves of this split
// guard the asymmetry.
package editstate

import (
	"reflect"

	"github.com/ColmKenna/ck-editable-array-sub000/pkg/value"
)

// State is one row's transient edit bookkeeping. Snapshot holds the deep
// clone taken when the row entered edit mode; cancel restores from it.
type State struct {
	Editing  bool
	Snapshot any
}

type identityEntry struct {
	rec   any
	state *State
}

// Store holds edit state for every row currently (or recently) in edit
// mode, plus the single current-edit index the lifecycle machine enforces.
// It is not safe for concurrent use; the owning widget serializes access.
type Store struct {
	identity   []identityEntry
	positional []*State
	current    int
}

// NewStore returns an empty store with no current edit row.
func NewStore() *Store {
	return &Store{current: -1}
}

// Get returns the state associated with the record, or nil. Container
// records resolve by identity; primitives resolve by position.
func (s *Store) Get(rec any, idx int) *State {
	if value.IsContainer(rec) {
		for _, e := range s.identity {
			if sameIdentity(e.rec, rec) {
				return e.state
			}
		}
		return nil
	}
	if idx < 0 || idx >= len(s.positional) {
		return nil
	}
	return s.positional[idx]
}

// Set associates state with the record, or removes the association when
// state is nil.
func (s *Store) Set(rec any, idx int, state *State) {
	if value.IsContainer(rec) {
		for i, e := range s.identity {
			if sameIdentity(e.rec, rec) {
				if state == nil {
					s.identity = append(s.identity[:i], s.identity[i+1:]...)
				} else {
					s.identity[i].state = state
				}
				return
			}
		}
		if state != nil {
			s.identity = append(s.identity, identityEntry{rec: rec, state: state})
		}
		return
	}

	if state == nil {
		if idx >= 0 && idx < len(s.positional) {
			s.positional[idx] = nil
		}
		return
	}
	if idx < 0 {
		return
	}
	for len(s.positional) <= idx {
		s.positional = append(s.positional, nil)
	}
	s.positional[idx] = state
}

// IsEditing reports whether the row is in edit mode, honoring both sources
// of truth: its stored state and the globally tracked current edit index.
func (s *Store) IsEditing(rec any, idx int) bool {
	if st := s.Get(rec, idx); st != nil && st.Editing {
		return true
	}
	return s.current >= 0 && idx == s.current
}

// CurrentIndex returns the index of the row being edited, or -1.
func (s *Store) CurrentIndex() int { return s.current }

// SetCurrentIndex marks the row at i as the single row being edited.
func (s *Store) SetCurrentIndex(i int) { s.current = i }

// ClearCurrent forgets the current edit row.
func (s *Store) ClearCurrent() { s.current = -1 }

// ResetPositional clears the positional table. Called on wholesale data
// replacement, when primitive identity cannot carry across.
func (s *Store) ResetPositional() { s.positional = nil }

// Reset drops everything: both tables and the current edit index.
func (s *Store) Reset() {
	s.identity = nil
	s.positional = nil
	s.current = -1
}

// Prune drops identity entries whose record no longer appears in live.
// Identity entries retain their records, so the renderer calls this after
// each reconcile to release rows that left the array.
func (s *Store) Prune(live []any) {
	kept := s.identity[:0]
	for _, e := range s.identity {
		for _, rec := range live {
			if sameIdentity(e.rec, rec) {
				kept = append(kept, e)
				break
			}
		}
	}
	s.identity = kept
}

// sameIdentity reports whether two container values are the same object.
// Maps compare by header pointer; lists by backing pointer and length.
func sameIdentity(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() != vb.Kind() {
		return false
	}
	switch va.Kind() {
	case reflect.Map:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	default:
		return false
	}
}
