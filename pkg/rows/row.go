package rows

import (
	"strconv"

	"github.com/ColmKenna/ck-editable-array-sub000/pkg/binding"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/dom"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/value"
)

// RowBinding is one slot's rendered state: the wrapper, the display/edit
// sections, the built-in buttons and the bound nodes discovered once at
// creation. It lives in the renderer's slot table, never on the tree.
type RowBinding struct {
	Root       *dom.Node
	Display    *dom.Node
	Edit       *dom.Node
	Actions    *dom.Node
	DeleteFlag *dom.Node
	Bound      []*dom.Node

	buttons map[Action]*dom.Node
	off     []func()
}

// Button returns the row's built-in button for the action, or nil (move
// buttons exist only when reordering was permitted at creation).
func (rb *RowBinding) Button(a Action) *dom.Node { return rb.buttons[a] }

func (r *Renderer) createRow(view View) {
	rb := &RowBinding{buttons: make(map[Action]*dom.Node)}

	rb.Root = dom.NewElement("div")
	rb.Root.AddClass("ea-row")

	rb.Display = dom.NewElement("div")
	rb.Display.AddClass("ea-display")
	for _, proto := range r.display {
		rb.Display.AppendChild(proto.Clone())
	}
	rb.Root.AppendChild(rb.Display)

	if len(r.edit) > 0 {
		rb.Edit = dom.NewElement("div")
		rb.Edit.AddClass("ea-edit")
		rb.Edit.SetHidden(true)
		for _, proto := range r.edit {
			rb.Edit.AppendChild(proto.Clone())
		}
		rb.Root.AppendChild(rb.Edit)
	}

	rb.Actions = dom.NewElement("div")
	rb.Actions.AddClass("ea-actions")
	addButton := func(a Action, label string) {
		b := dom.NewElement("button")
		b.SetAttr("type", "button")
		b.AddClass("ea-action")
		b.AddClass("ea-action-" + string(a))
		b.SetAttr(ActionAttr, string(a))
		b.SetText(label)
		rb.Actions.AppendChild(b)
		rb.buttons[a] = b
	}
	addButton(ActionToggle, r.labels.Edit)
	addButton(ActionSave, r.labels.Save)
	addButton(ActionCancel, r.labels.Cancel)
	addButton(ActionDelete, r.labels.Delete)
	if view.AllowReorder {
		addButton(ActionMoveUp, r.labels.MoveUp)
		addButton(ActionMoveDown, r.labels.MoveDown)
	}
	rb.Root.AppendChild(rb.Actions)

	// The soft-delete flag rides along as a hidden bound checkbox so the
	// ordinary binding path keeps it in sync with the record.
	rb.DeleteFlag = dom.NewElement("input")
	rb.DeleteFlag.SetAttr("type", "checkbox")
	rb.DeleteFlag.AddClass("ea-delete-flag")
	rb.DeleteFlag.SetAttr(binding.Attr, r.deletedField)
	rb.DeleteFlag.SetHidden(true)
	rb.Root.AppendChild(rb.DeleteFlag)

	rb.Bound = binding.BoundNodes(rb.Root)
	for _, n := range rb.Bound {
		r.attachEditListeners(rb, n)
	}

	r.container.AppendChild(rb.Root)
	r.bindings = append(r.bindings, rb)
}

func (r *Renderer) attachEditListeners(rb *RowBinding, control *dom.Node) {
	kind := binding.ListenersFor(control)
	if kind == binding.ListenNone {
		return
	}
	fire := func(trigger Trigger) dom.Handler {
		return func(*dom.Event) {
			if r.onEdit == nil {
				return
			}
			if slot := r.SlotOf(rb); slot >= 0 {
				r.onEdit(slot, control, trigger)
			}
		}
	}
	rb.off = append(rb.off, control.On("change", fire(TriggerChange)))
	if kind == binding.ListenInputAndChange {
		rb.off = append(rb.off, control.On("input", fire(TriggerInput)))
	}
}

// UpdateRow re-derives one slot's presentation from the current record and
// view flags: wrapper classing, the deleted visual, the display/edit
// visibility split, button enablement, numbered labels and all bindings.
func (r *Renderer) UpdateRow(i int, view View) {
	rb := r.Binding(i)
	if rb == nil || i >= len(view.Records) {
		return
	}
	rec := view.Records[i]

	if r.rowClass != "" {
		rb.Root.AddClass(r.rowClass)
	}

	// A row flagged as editing in the side table reclaims the current edit
	// index; after a reorder the index moved with the record.
	if st := r.store.Get(rec, i); st != nil && st.Editing && r.store.CurrentIndex() != i {
		r.store.SetCurrentIndex(i)
	}
	editing := r.store.IsEditing(rec, i)
	r.setModeVisuals(rb, editing)

	deleted := r.recordDeleted(rec)
	rb.Root.ToggleClass("ea-deleted", deleted)

	r.refreshRowChrome(i, rb, view)

	r.applyBound(rb, rec)
}

func (r *Renderer) recordDeleted(rec any) bool {
	v, ok := value.Resolve(rec, r.deletedField)
	return ok && value.Truthy(v)
}

func (r *Renderer) setModeVisuals(rb *RowBinding, editing bool) {
	rb.Root.ToggleClass("ea-editing", editing)
	if rb.Edit != nil {
		rb.Edit.SetHidden(!editing)
		rb.Display.SetHidden(editing)
	}
	if b := rb.Button(ActionToggle); b != nil {
		b.SetHidden(editing)
	}
	if b := rb.Button(ActionSave); b != nil {
		b.SetHidden(!editing)
	}
	if b := rb.Button(ActionCancel); b != nil {
		b.SetHidden(!editing)
	}
}

// refreshRowChrome refreshes the index-dependent surface of one row: the
// position attribute, the numbered accessible labels, the delete button's
// current verb and the enablement matrix.
func (r *Renderer) refreshRowChrome(i int, rb *RowBinding, view View) {
	rb.Root.SetAttr("data-index", strconv.Itoa(i))

	var rec any
	if i < len(view.Records) {
		rec = view.Records[i]
	}
	deleted := r.recordDeleted(rec)
	ordinal := strconv.Itoa(i + 1)

	setButton := func(a Action, label string, disabled bool) {
		b := rb.Button(a)
		if b == nil {
			return
		}
		b.SetText(label)
		b.SetAttr("aria-label", label+" item "+ordinal)
		b.SetDisabled(disabled)
	}

	setButton(ActionToggle, r.labels.Edit, deleted || view.ReadOnly)
	setButton(ActionSave, r.labels.Save, view.ReadOnly)
	// Cancel stays enabled so an edit can be abandoned even if the widget
	// turned read-only mid-edit.
	setButton(ActionCancel, r.labels.Cancel, false)
	deleteLabel := r.labels.Delete
	if deleted {
		deleteLabel = r.labels.Undelete
	}
	setButton(ActionDelete, deleteLabel, view.ReadOnly)

	reorderBlocked := view.ReadOnly || !view.AllowReorder
	setButton(ActionMoveUp, r.labels.MoveUp, reorderBlocked || i == 0)
	setButton(ActionMoveDown, r.labels.MoveDown, reorderBlocked || i == len(view.Records)-1)
}

func (r *Renderer) applyBound(rb *RowBinding, rec any) {
	for _, n := range rb.Bound {
		path, _ := binding.Path(n)
		v, ok := value.Resolve(rec, path)
		if !ok {
			v = nil
		}
		binding.Apply(n, v)
	}
}

// ApplyRowPath refreshes every bound node in slot i tied to the given path,
// keeping same-path siblings consistent after a readback write.
func (r *Renderer) ApplyRowPath(i int, rec any, path string) {
	rb := r.Binding(i)
	if rb == nil {
		return
	}
	v, ok := value.Resolve(rec, path)
	if !ok {
		v = nil
	}
	for _, n := range rb.Bound {
		if p, _ := binding.Path(n); p == path {
			binding.Apply(n, v)
		}
	}
}

// FocusFirstControl moves focus to the row's first form control, preferring
// the edit section when one exists.
func (r *Renderer) FocusFirstControl(i int) {
	rb := r.Binding(i)
	if rb == nil {
		return
	}
	scope := rb.Root
	if rb.Edit != nil {
		scope = rb.Edit
	}
	control := scope.Find(func(n *dom.Node) bool { return n.IsFormControl() && !n.Hidden() })
	if control == nil {
		return
	}
	r.doc.Focus(control)
}

// FocusToggle returns focus to the row's edit-toggle button, the anchor a
// keyboard user came from.
func (r *Renderer) FocusToggle(i int) {
	rb := r.Binding(i)
	if rb == nil {
		return
	}
	if b := rb.Button(ActionToggle); b != nil {
		r.doc.Focus(b)
	}
}
