package widget

import "github.com/ColmKenna/ck-editable-array-sub000/pkg/lifecycle"

// DataChangedEvent reports the widget's records after a qualifying mutation.
// Data is a clone; mutating it never reaches widget state.
type DataChangedEvent struct {
	Data []any
}

// RowChangedEvent reports a committed per-row mutation. Row is a clone.
type RowChangedEvent struct {
	Index int
	Row   any
}

// ToggleModeEvent reports a row moving between display and edit presentation.
type ToggleModeEvent struct {
	Mode     lifecycle.Mode
	RowIndex int
}

// BeforeToggleModeEvent is the cancelable counterpart dispatched before a
// mode change. Handlers run during the transition; calling back into the
// widget from one is not supported.
type BeforeToggleModeEvent struct {
	ToggleModeEvent

	prevented bool
}

// PreventDefault aborts the pending mode change.
func (e *BeforeToggleModeEvent) PreventDefault() { e.prevented = true }

// ReorderEvent reports a completed move. Data is a clone of the records in
// their new order.
type ReorderEvent struct {
	FromIndex int
	ToIndex   int
	Data      []any
}

type subscription[T any] struct {
	fn func(T)
}

// emitter is an ordered handler list with identity-based unsubscription.
type emitter[T any] struct {
	subs []*subscription[T]
}

func (e *emitter[T]) subscribe(fn func(T)) func() {
	s := &subscription[T]{fn: fn}
	e.subs = append(e.subs, s)
	return func() {
		for i, cur := range e.subs {
			if cur == s {
				e.subs = append(e.subs[:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

func (e *emitter[T]) emit(v T) {
	snapshot := make([]*subscription[T], len(e.subs))
	copy(snapshot, e.subs)
	for _, s := range snapshot {
		s.fn(v)
	}
}

// OnDataChanged subscribes to data-changed notifications and returns an
// unsubscribe function.
func (w *Widget) OnDataChanged(fn func(DataChangedEvent)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dataChanged.subscribe(fn)
}

// OnRowChanged subscribes to per-row change notifications.
func (w *Widget) OnRowChanged(fn func(RowChangedEvent)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rowChanged.subscribe(fn)
}

// OnBeforeToggleMode subscribes to the cancelable pre-transition
// notification.
func (w *Widget) OnBeforeToggleMode(fn func(*BeforeToggleModeEvent)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.beforeToggle.subscribe(fn)
}

// OnAfterToggleMode subscribes to the post-transition notification.
func (w *Widget) OnAfterToggleMode(fn func(ToggleModeEvent)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.afterToggle.subscribe(fn)
}

// OnReorder subscribes to reorder notifications.
func (w *Widget) OnReorder(fn func(ReorderEvent)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reordered.subscribe(fn)
}
