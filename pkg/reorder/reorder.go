// Package reorder relocates rows, either immediately (drag-and-drop) or
// through a fixed-duration two-row animation (move buttons). Both paths end
// in the same place: the record spliced from one index to another, the
// rendered order matching the data order, and the same notifications.
package reorder

import (
	"fmt"
	"time"

	"github.com/ColmKenna/ck-editable-array-sub000/pkg/dom"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/editstate"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/rows"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/schedule"
)

// DefaultDuration is the button-move animation length.
const DefaultDuration = 250 * time.Millisecond

const transition = "transform 250ms ease-in-out"

// Hooks are the engine's outbound notifications. Nil fields are skipped.
type Hooks struct {
	// Reordered reports a completed move with its splice endpoints.
	Reordered func(from, to int)
	// Announce posts a human-readable description of the move for a live
	// region or equivalent sink.
	Announce func(message string)
}

// Engine performs reorders against one widget's renderer and data.
type Engine struct {
	doc       *dom.Document
	container *dom.Node
	renderer  *rows.Renderer
	store     *editstate.Store
	view      func() rows.View

	sched         schedule.Scheduler
	duration      time.Duration
	reducedMotion func() bool
	hooks         Hooks

	animating bool
	timer     schedule.Timer
	animRows  []*dom.Node
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler replaces the wall-clock scheduler, usually with a manual
// one in tests.
func WithScheduler(s schedule.Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.sched = s
		}
	}
}

// WithDuration changes the animation length.
func WithDuration(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.duration = d
		}
	}
}

// WithReducedMotion wires the platform's reduced-motion preference; when it
// reports true, button moves take the immediate path.
func WithReducedMotion(query func() bool) Option {
	return func(e *Engine) {
		if query != nil {
			e.reducedMotion = query
		}
	}
}

// WithHooks wires the engine's notifications.
func WithHooks(h Hooks) Option {
	return func(e *Engine) { e.hooks = h }
}

// New builds an engine. view must return the widget's current records and
// flags; the engine consults it again when a deferred completion fires.
func New(doc *dom.Document, container *dom.Node, renderer *rows.Renderer, store *editstate.Store, view func() rows.View, opts ...Option) *Engine {
	e := &Engine{
		doc:           doc,
		container:     container,
		renderer:      renderer,
		store:         store,
		view:          view,
		sched:         schedule.Real(),
		duration:      DefaultDuration,
		reducedMotion: func() bool { return false },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Animating reports whether a button-move animation is in flight.
func (e *Engine) Animating() bool { return e.animating }

// MoveUp relocates row i one slot toward the front. It reports whether the
// move was accepted.
func (e *Engine) MoveUp(i int) bool { return e.move(i, i-1) }

// MoveDown relocates row i one slot toward the back. It reports whether the
// move was accepted.
func (e *Engine) MoveDown(i int) bool { return e.move(i, i+1) }

func (e *Engine) move(from, to int) bool {
	v := e.view()
	if v.ReadOnly || !v.AllowReorder || e.animating || e.store.CurrentIndex() >= 0 {
		return false
	}
	if !validSplice(v, from, to) {
		return false
	}
	if e.reducedMotion() {
		e.perform(v, from, to)
		return true
	}
	e.animate(from, to)
	return true
}

// Drop applies a drag-and-drop result immediately: splice, relocate the row
// element without recloning, refresh the index-dependent chrome, notify. A
// drop landing while a button move is animating is rejected; accepting it
// would let the deferred splice relocate a second record.
func (e *Engine) Drop(from, to int) bool {
	v := e.view()
	if v.ReadOnly || !v.AllowReorder || e.animating {
		return false
	}
	if !validSplice(v, from, to) {
		return false
	}
	e.perform(v, from, to)
	return true
}

func validSplice(v rows.View, from, to int) bool {
	n := len(v.Records)
	return from != to && from >= 0 && from < n && to >= 0 && to < n
}

func (e *Engine) perform(v rows.View, from, to int) {
	splice(v.Records, from, to)
	e.renderer.MoveRowElement(from, to)
	e.renderer.RefreshIndexDependent(v)
	e.notify(from, to)
}

// animate runs the invert-and-play half of a FLIP move: the two adjacent
// rows swap visual slots via transforms while the data stays put, and the
// real splice is deferred until the transition has run its course.
func (e *Engine) animate(from, to int) {
	a := e.renderer.Binding(from)
	b := e.renderer.Binding(to)
	if a == nil || b == nil {
		return
	}
	down, up := a.Root, b.Root
	if from > to {
		down, up = b.Root, a.Root
	}
	for _, n := range []*dom.Node{a.Root, b.Root} {
		n.AddClass("ea-animating")
		n.SetStyle("transition", transition)
	}
	down.SetStyle("transform", "translateY(100%)")
	up.SetStyle("transform", "translateY(-100%)")
	e.animRows = []*dom.Node{a.Root, b.Root}

	e.animating = true
	e.timer = e.sched.AfterFunc(e.duration, func() { e.finish(from, to) })
}

func (e *Engine) finish(from, to int) {
	e.animating = false
	e.timer = nil
	e.clearAnimStyles()

	// A widget detached while the timer was pending mutates nothing more.
	if !e.doc.Contains(e.container) {
		return
	}
	v := e.view()
	if !validSplice(v, from, to) {
		return
	}
	splice(v.Records, from, to)
	e.renderer.Render(v)
	e.notify(from, to)
}

// CancelPending stops any in-flight animation without mutating data. The
// widget calls it on data replacement and on teardown.
func (e *Engine) CancelPending() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.animating = false
	e.clearAnimStyles()
}

func (e *Engine) clearAnimStyles() {
	for _, n := range e.animRows {
		n.RemoveStyle("transform")
		n.RemoveStyle("transition")
		n.RemoveClass("ea-animating")
	}
	e.animRows = nil
}

func (e *Engine) notify(from, to int) {
	if e.hooks.Reordered != nil {
		e.hooks.Reordered(from, to)
	}
	if e.hooks.Announce != nil {
		e.hooks.Announce(fmt.Sprintf("Moved item %d to position %d", from+1, to+1))
	}
}

// splice relocates one element in place, preserving length and membership.
func splice(records []any, from, to int) {
	rec := records[from]
	if from < to {
		copy(records[from:], records[from+1:to+1])
	} else {
		copy(records[to+1:], records[to:from])
	}
	records[to] = rec
}
