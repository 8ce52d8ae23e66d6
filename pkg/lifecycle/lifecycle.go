// Package lifecycle drives the per-row edit state machine: enter-edit,
// save, cancel and soft-delete toggling. It owns the guard ordering around
// those transitions; rendering and notification fan-out stay behind hooks so
// the widget decides cadence and event shape.
package lifecycle

import (
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/editstate"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/rows"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/value"
)

// Mode names the two row presentation modes carried by toggle notifications.
type Mode string

const (
	ModeEdit    Mode = "edit"
	ModeDisplay Mode = "display"
)

// Hooks are the controller's outbound notifications. Nil fields are
// skipped; BeforeToggle defaults to allowing the transition.
type Hooks struct {
	// BeforeToggle fires the cancelable notification around a mode change.
	// Returning false aborts the transition with no state touched.
	BeforeToggle func(mode Mode, index int) bool
	// AfterToggle fires once a mode change has been applied.
	AfterToggle func(mode Mode, index int)
	// RowChanged reports a committed per-row mutation.
	RowChanged func(index int)
	// SaveCommitted fires after a save completed; the widget maps it onto
	// the save cadence.
	SaveCommitted func(index int)
	// DeleteToggled fires after a soft-delete flip; the widget maps it onto
	// the configured cadence.
	DeleteToggled func(index int)
}

func (h Hooks) beforeToggle(mode Mode, index int) bool {
	if h.BeforeToggle == nil {
		return true
	}
	return h.BeforeToggle(mode, index)
}

func (h Hooks) afterToggle(mode Mode, index int) {
	if h.AfterToggle != nil {
		h.AfterToggle(mode, index)
	}
}

// Controller coordinates the side table and the renderer for one widget.
type Controller struct {
	store    *editstate.Store
	renderer *rows.Renderer
	hooks    Hooks
}

// New builds a controller over the widget's store and renderer.
func New(store *editstate.Store, renderer *rows.Renderer, hooks Hooks) *Controller {
	return &Controller{store: store, renderer: renderer, hooks: hooks}
}

// EnterEdit moves row i into edit mode. It refuses when the widget is
// read-only, when any row is already editing, when the index is out of
// range, when the row is soft-deleted, or when the before notification is
// canceled. It reports whether the row entered edit mode.
func (c *Controller) EnterEdit(v rows.View, i int) bool {
	if v.ReadOnly || c.store.CurrentIndex() >= 0 {
		return false
	}
	if i < 0 || i >= len(v.Records) {
		return false
	}
	rec := v.Records[i]
	if cur, ok := value.Resolve(rec, c.renderer.DeletedField()); ok && value.Truthy(cur) {
		return false
	}
	if !c.hooks.beforeToggle(ModeEdit, i) {
		return false
	}

	snapshot, err := value.Clone(rec)
	if err != nil {
		// An uncloneable record cannot be snapshot, so cancel would have
		// nothing to restore. Refuse the edit instead of corrupting state.
		return false
	}
	c.store.Set(rec, i, &editstate.State{Editing: true, Snapshot: snapshot})
	c.store.SetCurrentIndex(i)

	c.renderer.UpdateRow(i, v)
	c.renderer.FocusFirstControl(i)
	c.hooks.afterToggle(ModeEdit, i)
	return true
}

// Save commits row i's in-progress edit. Only the row holding the current
// edit index can save; everything typed so far is already in the record, so
// committing just drops the snapshot and leaves edit mode. Read-only blocks
// save along with every other mutating action; Cancel is the one way out.
func (c *Controller) Save(v rows.View, i int) bool {
	if v.ReadOnly {
		return false
	}
	if i < 0 || i >= len(v.Records) || i != c.store.CurrentIndex() {
		return false
	}
	rec := v.Records[i]
	c.store.Set(rec, i, nil)
	c.store.ClearCurrent()

	c.renderer.UpdateRow(i, v)
	c.hooks.afterToggle(ModeDisplay, i)
	c.renderer.FocusToggle(i)
	if c.hooks.SaveCommitted != nil {
		c.hooks.SaveCommitted(i)
	}
	return true
}

// Cancel abandons row i's in-progress edit, restoring the record from the
// snapshot taken at enter-edit. Cancel stays available under read-only so a
// widget turned read-only mid-edit can still be exited.
func (c *Controller) Cancel(v rows.View, i int) bool {
	if i < 0 || i >= len(v.Records) || i != c.store.CurrentIndex() {
		return false
	}
	if !c.hooks.beforeToggle(ModeDisplay, i) {
		return false
	}

	rec := v.Records[i]
	if st := c.store.Get(rec, i); st != nil && st.Editing {
		// Restore a clone of the snapshot, never the snapshot itself:
		// the caller may cancel the same logical edit again later.
		if restored, err := value.Clone(st.Snapshot); err == nil {
			v.Records[i] = restored
		}
	}
	c.store.Set(rec, i, nil)
	c.store.ClearCurrent()

	c.renderer.UpdateRow(i, v)
	c.hooks.afterToggle(ModeDisplay, i)
	c.renderer.FocusToggle(i)
	return true
}

// ToggleDelete flips row i's soft-delete flag, creating the field when the
// record lacks it. Records that cannot carry the field (primitives) are
// left alone.
func (c *Controller) ToggleDelete(v rows.View, i int) bool {
	if v.ReadOnly || i < 0 || i >= len(v.Records) {
		return false
	}
	rec := v.Records[i]
	field := c.renderer.DeletedField()

	cur, ok := value.Resolve(rec, field)
	deleted := ok && value.Truthy(cur)
	if !value.Write(rec, field, !deleted) {
		return false
	}

	c.renderer.UpdateRow(i, v)
	if c.hooks.RowChanged != nil {
		c.hooks.RowChanged(i)
	}
	if c.hooks.DeleteToggled != nil {
		c.hooks.DeleteToggled(i)
	}
	return true
}
