// Package widget assembles the editable-array engine: it owns the record
// array, mounts the row renderer into a document tree, routes user actions
// through the lifecycle controller and the reorder engine, and fans completed
// mutations out as events on the configured cadence.
//
// Every piece of data crossing the public surface is cloned; callers never
// see or hand in live widget state. Public entry points and timer callbacks
// are serialized by one mutex, the single-threaded event-loop equivalent.
// Notifications fire after the mutation and the render that reflects it,
// outside the locked section, so handlers observe settled state.
package widget

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ColmKenna/ck-editable-array-sub000/pkg/binding"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/dom"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/editstate"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/lifecycle"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/reorder"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/rows"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/sanitize"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/schedule"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/value"
)

// Widget is one editable-array instance. All mutable session state lives on
// the struct; separate instances never interfere.
type Widget struct {
	mu sync.Mutex

	doc      *dom.Document
	root     *dom.Node
	rowsHost *dom.Node

	data     []any
	store    *editstate.Store
	renderer *rows.Renderer
	ctrl     *lifecycle.Controller
	engine   *reorder.Engine

	name           string
	readOnly       bool
	allowReorder   bool
	changeMode     ChangeMode
	changeDebounce time.Duration
	labels         rows.Labels
	classes        Classes
	displayMarkup  string
	editMarkup     string
	deletedField   string

	sanitizer sanitize.Sanitizer
	sched     schedule.Scheduler
	motion    MotionQuery
	announcer Announcer
	formSink  FormSink

	debounce schedule.Timer
	closed   bool

	initialData any

	dataChanged  emitter[DataChangedEvent]
	rowChanged   emitter[RowChangedEvent]
	beforeToggle emitter[*BeforeToggleModeEvent]
	afterToggle  emitter[ToggleModeEvent]
	reordered    emitter[ReorderEvent]

	// pending holds notifications queued during a locked section, flushed in
	// order once the lock is released.
	pending []func()
}

// New builds a widget mounted into its own document.
func New(opts ...Option) (*Widget, error) {
	w := &Widget{
		changeMode:     ChangeModeDebounced,
		changeDebounce: DefaultChangeDebounce,
		deletedField:   rows.DefaultDeletedField,
		sanitizer:      sanitize.Default(),
		sched:          schedule.Real(),
		motion:         func() bool { return false },
	}
	for _, opt := range opts {
		opt(w)
	}
	switch w.changeMode {
	case ChangeModeDebounced, ChangeModeChange, ChangeModeSave:
	default:
		return nil, fmt.Errorf("widget: unknown change mode %q", w.changeMode)
	}
	if w.changeDebounce <= 0 {
		return nil, fmt.Errorf("widget: change debounce must be positive, got %v", w.changeDebounce)
	}

	w.doc = dom.NewDocument()
	w.root = dom.NewElement("div")
	w.root.AddClass("editable-array")
	w.rowsHost = dom.NewElement("div")
	w.rowsHost.AddClass("ea-rows")
	w.root.AppendChild(w.rowsHost)
	w.doc.Root().AppendChild(w.root)
	w.applyClasses(Classes{}, w.classes)

	w.rowsHost.On("click", w.handleClick)

	w.store = editstate.NewStore()
	w.data = value.CloneRecords(w.initialData)
	w.initialData = nil
	w.rebuild()
	return w, nil
}

// run executes fn under the widget lock, then fires the notifications the
// action queued, in order.
func (w *Widget) run(fn func()) {
	w.mu.Lock()
	fn()
	pending := w.pending
	w.pending = nil
	w.mu.Unlock()
	for _, emit := range pending {
		emit()
	}
}

func (w *Widget) queue(fn func()) { w.pending = append(w.pending, fn) }

// rebuild constructs the renderer, lifecycle controller and reorder engine
// from the current configuration and repaints. Edit state survives in the
// store; the rows themselves are recreated.
func (w *Widget) rebuild() {
	if w.engine != nil {
		w.engine.CancelPending()
	}
	if w.renderer != nil {
		w.renderer.Destroy()
	}
	w.renderer = rows.New(w.doc, w.rowsHost, w.store,
		rows.WithDisplayTemplate(w.displayMarkup),
		rows.WithEditTemplate(w.editMarkup),
		rows.WithSanitizer(w.sanitizer),
		rows.WithLabels(w.labels),
		rows.WithRowClass(w.classes.Row),
		rows.WithDeletedField(w.deletedField),
		rows.WithUserEditHandler(w.handleUserEdit),
	)
	w.ctrl = lifecycle.New(w.store, w.renderer, lifecycle.Hooks{
		BeforeToggle:  w.fireBeforeToggle,
		AfterToggle:   w.queueAfterToggle,
		RowChanged:    w.queueRowChanged,
		SaveCommitted: w.handleSaveCommitted,
		DeleteToggled: w.handleDeleteToggled,
	})
	w.engine = reorder.New(w.doc, w.rowsHost, w.renderer, w.store, w.view,
		reorder.WithScheduler(lockedScheduler{w: w, inner: w.sched}),
		reorder.WithReducedMotion(func() bool { return w.motion() }),
		reorder.WithHooks(reorder.Hooks{
			Reordered: w.handleReordered,
			Announce:  w.queueAnnouncement,
		}),
	)
	w.renderer.Render(w.view())
}

func (w *Widget) view() rows.View {
	return rows.View{Records: w.data, ReadOnly: w.readOnly, AllowReorder: w.allowReorder}
}

// lockedScheduler defers callbacks through the widget lock so the reorder
// engine's animation completion runs serialized with public entry points.
type lockedScheduler struct {
	w     *Widget
	inner schedule.Scheduler
}

func (s lockedScheduler) AfterFunc(d time.Duration, fn func()) schedule.Timer {
	return s.inner.AfterFunc(d, func() { s.w.run(fn) })
}

// Element returns the widget's root element.
func (w *Widget) Element() *dom.Node { return w.root }

// Document returns the document the widget is mounted in.
func (w *Widget) Document() *dom.Document { return w.doc }

// Data returns a clone of the widget's records.
func (w *Widget) Data() []any {
	w.mu.Lock()
	defer w.mu.Unlock()
	return value.CloneRecords(w.data)
}

// SetData replaces the widget's records. The value is cloned in; edit state,
// pending animations and pending debounce timers are all discarded; a
// data-changed notification fires once the new rows have rendered.
func (w *Widget) SetData(v any) {
	w.run(func() {
		if w.closed {
			return
		}
		w.cancelDebounce()
		w.engine.CancelPending()
		w.store.Reset()
		w.data = value.CloneRecords(v)
		w.renderer.Render(w.view())
		w.queueDataChanged()
	})
}

// Name returns the widget's form-participation name.
func (w *Widget) Name() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.name
}

// SetName changes the form-participation name.
func (w *Widget) SetName(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.name = name
}

// ReadOnly reports whether mutating actions are blocked.
func (w *Widget) ReadOnly() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.readOnly
}

// SetReadOnly toggles read-only mode. An in-progress edit stays open; cancel
// remains available to exit it.
func (w *Widget) SetReadOnly(ro bool) {
	w.run(func() {
		if w.closed || w.readOnly == ro {
			return
		}
		w.readOnly = ro
		w.renderer.Render(w.view())
	})
}

// AllowReorder reports whether moves are permitted.
func (w *Widget) AllowReorder() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.allowReorder
}

// SetAllowReorder toggles the move buttons and drag-drop acceptance. Rows are
// rebuilt: move buttons exist only when reordering was permitted at creation.
func (w *Widget) SetAllowReorder(allow bool) {
	w.run(func() {
		if w.closed || w.allowReorder == allow {
			return
		}
		w.allowReorder = allow
		w.renderer.Rebuild()
		w.renderer.Render(w.view())
	})
}

// ChangeMode returns the data-changed cadence in effect.
func (w *Widget) ChangeMode() ChangeMode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.changeMode
}

// SetChangeMode switches the data-changed cadence, canceling any pending
// debounce firing.
func (w *Widget) SetChangeMode(mode ChangeMode) error {
	switch mode {
	case ChangeModeDebounced, ChangeModeChange, ChangeModeSave:
	default:
		return fmt.Errorf("widget: unknown change mode %q", mode)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cancelDebounce()
	w.changeMode = mode
	return nil
}

// ChangeDebounce returns the debounce window in effect.
func (w *Widget) ChangeDebounce() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.changeDebounce
}

// SetChangeDebounce changes the debounce window, canceling any pending
// firing. Non-positive durations are refused.
func (w *Widget) SetChangeDebounce(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("widget: change debounce must be positive, got %v", d)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cancelDebounce()
	w.changeDebounce = d
	return nil
}

// Labels returns the button texts in effect.
func (w *Widget) Labels() rows.Labels {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.renderer.Labels()
}

// SetLabels replaces the button text overrides and rebuilds the rows.
func (w *Widget) SetLabels(l rows.Labels) {
	w.run(func() {
		if w.closed {
			return
		}
		w.labels = l
		w.rebuild()
	})
}

// Classes returns the caller CSS-class hooks in effect.
func (w *Widget) Classes() Classes {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.classes
}

// SetClasses replaces the CSS-class hooks and rebuilds the rows.
func (w *Widget) SetClasses(c Classes) {
	w.run(func() {
		if w.closed {
			return
		}
		old := w.classes
		w.classes = c
		w.applyClasses(old, c)
		w.rebuild()
	})
}

func (w *Widget) applyClasses(old, next Classes) {
	if old.Root != next.Root {
		w.root.RemoveClass(old.Root)
		w.root.AddClass(next.Root)
	}
	if old.Rows != next.Rows {
		w.rowsHost.RemoveClass(old.Rows)
		w.rowsHost.AddClass(next.Rows)
	}
}

// SetDisplayTemplate replaces the display template and rebuilds the rows.
func (w *Widget) SetDisplayTemplate(markup string) {
	w.run(func() {
		if w.closed {
			return
		}
		w.displayMarkup = markup
		w.rebuild()
	})
}

// SetEditTemplate replaces the edit template and rebuilds the rows.
func (w *Widget) SetEditTemplate(markup string) {
	w.run(func() {
		if w.closed {
			return
		}
		w.editMarkup = markup
		w.rebuild()
	})
}

// EnterEdit moves row i into edit mode and reports whether it succeeded.
func (w *Widget) EnterEdit(i int) bool {
	var ok bool
	w.run(func() {
		if !w.closed {
			ok = w.ctrl.EnterEdit(w.view(), i)
		}
	})
	return ok
}

// SaveRow commits row i's in-progress edit and reports whether it succeeded.
func (w *Widget) SaveRow(i int) bool {
	var ok bool
	w.run(func() {
		if !w.closed {
			ok = w.ctrl.Save(w.view(), i)
		}
	})
	return ok
}

// CancelRow abandons row i's in-progress edit, restoring the pre-edit
// record. Available even when the widget is read-only.
func (w *Widget) CancelRow(i int) bool {
	var ok bool
	w.run(func() {
		if !w.closed {
			ok = w.ctrl.Cancel(w.view(), i)
		}
	})
	return ok
}

// ToggleDelete flips row i's soft-delete flag and reports whether it
// succeeded.
func (w *Widget) ToggleDelete(i int) bool {
	var ok bool
	w.run(func() {
		if !w.closed {
			ok = w.ctrl.ToggleDelete(w.view(), i)
		}
	})
	return ok
}

// MoveUp relocates row i one slot toward the front, animated unless reduced
// motion is preferred. It reports whether the move was accepted.
func (w *Widget) MoveUp(i int) bool {
	var ok bool
	w.run(func() {
		if !w.closed {
			ok = w.engine.MoveUp(i)
		}
	})
	return ok
}

// MoveDown relocates row i one slot toward the back, animated unless reduced
// motion is preferred. It reports whether the move was accepted.
func (w *Widget) MoveDown(i int) bool {
	var ok bool
	w.run(func() {
		if !w.closed {
			ok = w.engine.MoveDown(i)
		}
	})
	return ok
}

// MoveRow applies a drag-and-drop result: an immediate splice from one index
// to another with no animation. It reports whether the move was accepted.
func (w *Widget) MoveRow(from, to int) bool {
	var ok bool
	w.run(func() {
		if !w.closed {
			ok = w.engine.Drop(from, to)
		}
	})
	return ok
}

// Animating reports whether a button-move animation is in flight.
func (w *Widget) Animating() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.engine.Animating()
}

// Controls returns row i's bound form controls, scoped to the edit section
// when one exists. Hosts drive user edits through these nodes.
func (w *Widget) Controls(i int) []*dom.Node {
	w.mu.Lock()
	defer w.mu.Unlock()
	rb := w.renderer.Binding(i)
	if rb == nil {
		return nil
	}
	scope := rb.Root
	if rb.Edit != nil {
		scope = rb.Edit
	}
	var out []*dom.Node
	for _, n := range rb.Bound {
		if n.IsFormControl() && within(scope, n) {
			out = append(out, n)
		}
	}
	return out
}

func within(root, n *dom.Node) bool {
	return n.Closest(func(cur *dom.Node) bool { return cur == root }) != nil
}

// Close tears the widget down: timers canceled, rows destroyed, the root
// detached. A pending animation completion after Close mutates nothing.
func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	w.cancelDebounce()
	w.engine.CancelPending()
	w.renderer.Destroy()
	w.root.Detach()
	w.pending = nil
}

func (w *Widget) cancelDebounce() {
	if w.debounce != nil {
		w.debounce.Stop()
		w.debounce = nil
	}
}

// handleClick is the rows-container click delegate: the nearest action
// marker above the click target decides what the click means, and the row's
// position attribute says where.
func (w *Widget) handleClick(e *dom.Event) {
	action, ok := rows.ActionOf(e.Target)
	if !ok {
		return
	}
	rowEl := e.Target.ClosestWithAttr("data-index")
	if rowEl == nil {
		return
	}
	idx, err := strconv.Atoi(rowEl.AttrOr("data-index", ""))
	if err != nil {
		return
	}
	switch action {
	case rows.ActionToggle:
		w.EnterEdit(idx)
	case rows.ActionSave:
		w.SaveRow(idx)
	case rows.ActionCancel:
		w.CancelRow(idx)
	case rows.ActionDelete:
		w.ToggleDelete(idx)
	case rows.ActionMoveUp:
		w.MoveUp(idx)
	case rows.ActionMoveDown:
		w.MoveDown(idx)
	}
}

// handleUserEdit commits a bound control's value into the record and fans
// the change out on the configured cadence. It arrives from a dom event
// dispatch, so it takes the lock itself.
func (w *Widget) handleUserEdit(index int, control *dom.Node, trigger rows.Trigger) {
	w.run(func() {
		if w.closed || w.readOnly || index < 0 || index >= len(w.data) {
			return
		}
		path, bound := binding.Path(control)
		if !bound || path == "" {
			return
		}
		rec := w.data[index]
		if !value.Write(rec, path, binding.Readback(control)) {
			return
		}
		w.renderer.ApplyRowPath(index, rec, path)
		w.queueRowChanged(index)

		switch w.changeMode {
		case ChangeModeDebounced:
			w.scheduleDebounced()
		case ChangeModeChange:
			// Keystroke-level events do not qualify under this cadence.
			if trigger == rows.TriggerChange {
				w.queueDataChanged()
			}
		case ChangeModeSave:
			// Deferred to the explicit save.
		}
	})
}

func (w *Widget) scheduleDebounced() {
	w.cancelDebounce()
	w.debounce = w.sched.AfterFunc(w.changeDebounce, func() {
		w.run(func() {
			w.debounce = nil
			if w.closed || !w.doc.Contains(w.root) {
				return
			}
			w.queueDataChanged()
		})
	})
}

func (w *Widget) fireBeforeToggle(mode lifecycle.Mode, index int) bool {
	e := &BeforeToggleModeEvent{ToggleModeEvent: ToggleModeEvent{Mode: mode, RowIndex: index}}
	w.beforeToggle.emit(e)
	return !e.prevented
}

func (w *Widget) queueAfterToggle(mode lifecycle.Mode, index int) {
	e := ToggleModeEvent{Mode: mode, RowIndex: index}
	w.queue(func() { w.afterToggle.emit(e) })
}

func (w *Widget) queueRowChanged(index int) {
	var row any
	if index >= 0 && index < len(w.data) {
		if cloned, err := value.Clone(w.data[index]); err == nil {
			row = cloned
		}
	}
	e := RowChangedEvent{Index: index, Row: row}
	w.queue(func() { w.rowChanged.emit(e) })
}

func (w *Widget) handleSaveCommitted(int) {
	if w.changeMode == ChangeModeSave {
		w.queueDataChanged()
	}
}

func (w *Widget) handleDeleteToggled(int) {
	// Toggling delete is not a keystroke-level edit, so the change cadence
	// fires unconditionally here.
	switch w.changeMode {
	case ChangeModeDebounced:
		w.scheduleDebounced()
	default:
		w.queueDataChanged()
	}
}

func (w *Widget) handleReordered(from, to int) {
	snapshot := value.CloneRecords(w.data)
	e := ReorderEvent{FromIndex: from, ToIndex: to, Data: snapshot}
	w.queue(func() { w.reordered.emit(e) })
	w.queueDataChanged()
}

func (w *Widget) queueAnnouncement(message string) {
	if w.announcer == nil {
		return
	}
	a := w.announcer
	w.queue(func() { a(message) })
}

func (w *Widget) queueDataChanged() {
	snapshot := value.CloneRecords(w.data)
	var values = w.formValuesLocked()
	sink := w.formSink
	w.queue(func() {
		w.dataChanged.emit(DataChangedEvent{Data: snapshot})
		if sink != nil {
			sink(values)
		}
	})
}
