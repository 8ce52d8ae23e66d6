// Package rows renders one row per record into a container and keeps the
// rendered tree reconciled with the data as it changes.
//
// Each row slot carries an explicit RowBinding record (its wrapper, its
// sections, its cached bound nodes) held by the renderer rather than hung
// off the tree, so the rendering surface stays swappable. Slots follow the
// machine absent -> mounted(display) <-> mounted(edit); a slot is destroyed
// only when the array shrinks below its index and is rebuilt from scratch if
// the data grows back.
package rows

import (
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/dom"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/editstate"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/sanitize"
)

// DefaultDeletedField is the record path the soft-delete flag lives at.
const DefaultDeletedField = "isDeleted"

// DefaultPlaceholder explains an unconfigured widget instead of rendering
// nothing.
const DefaultPlaceholder = "No display template provided."

// Trigger says which control event carried a user edit.
type Trigger string

const (
	TriggerInput  Trigger = "input"
	TriggerChange Trigger = "change"
)

// UserEditHandler receives user edits from bound controls: the row's current
// index, the control that fired, and the triggering event kind.
type UserEditHandler func(index int, control *dom.Node, trigger Trigger)

// View is the per-render input: the records to mirror plus the widget flags
// that feed button enablement.
type View struct {
	Records      []any
	ReadOnly     bool
	AllowReorder bool
}

// Renderer owns the row subtrees under one container.
type Renderer struct {
	doc       *dom.Document
	container *dom.Node
	store     *editstate.Store

	display []*dom.Node
	edit    []*dom.Node

	sanitizer    sanitize.Sanitizer
	labels       Labels
	rowClass     string
	deletedField string
	placeholder  string
	onEdit       UserEditHandler

	displayMarkup string
	editMarkup    string

	bindings        []*RowBinding
	placeholderNode *dom.Node
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithDisplayTemplate sets the markup cloned into each row's display
// section. Without one the renderer falls back to a placeholder.
func WithDisplayTemplate(markup string) Option {
	return func(r *Renderer) { r.displayMarkup = markup }
}

// WithEditTemplate sets the markup cloned into each row's edit section.
func WithEditTemplate(markup string) Option {
	return func(r *Renderer) { r.editMarkup = markup }
}

// WithSanitizer replaces the default template sanitizer.
func WithSanitizer(s sanitize.Sanitizer) Option {
	return func(r *Renderer) {
		if s != nil {
			r.sanitizer = s
		}
	}
}

// WithLabels overrides button texts. Zero fields keep their defaults.
func WithLabels(l Labels) Option {
	return func(r *Renderer) { r.labels = l.withDefaults() }
}

// WithRowClass adds a caller-supplied class to every row wrapper.
func WithRowClass(class string) Option {
	return func(r *Renderer) { r.rowClass = class }
}

// WithDeletedField changes the record path the soft-delete flag uses.
func WithDeletedField(path string) Option {
	return func(r *Renderer) {
		if path != "" {
			r.deletedField = path
		}
	}
}

// WithPlaceholder changes the text shown when no display template exists.
func WithPlaceholder(text string) Option {
	return func(r *Renderer) {
		if text != "" {
			r.placeholder = text
		}
	}
}

// WithUserEditHandler wires the callback for user edits in bound controls.
func WithUserEditHandler(fn UserEditHandler) Option {
	return func(r *Renderer) { r.onEdit = fn }
}

// New builds a renderer for the container. Templates are sanitized and
// parsed once, up front; rows clone the parsed prototypes.
func New(doc *dom.Document, container *dom.Node, store *editstate.Store, opts ...Option) *Renderer {
	r := &Renderer{
		doc:          doc,
		container:    container,
		store:        store,
		sanitizer:    sanitize.Default(),
		labels:       DefaultLabels(),
		deletedField: DefaultDeletedField,
		placeholder:  DefaultPlaceholder,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.display = r.parseTemplate(r.displayMarkup)
	r.edit = r.parseTemplate(r.editMarkup)
	return r
}

func (r *Renderer) parseTemplate(markup string) []*dom.Node {
	cleaned := r.sanitizer.Sanitize(markup)
	if cleaned == "" {
		return nil
	}
	nodes, err := dom.ParseFragment(cleaned)
	if err != nil {
		return nil
	}
	var elements []*dom.Node
	for _, n := range nodes {
		if n.Type == dom.ElementNode {
			elements = append(elements, n)
		}
	}
	return elements
}

// HasDisplayTemplate reports whether rows can be rendered at all.
func (r *Renderer) HasDisplayTemplate() bool { return len(r.display) > 0 }

// DeletedField returns the soft-delete record path in effect.
func (r *Renderer) DeletedField() string { return r.deletedField }

// Labels returns the button texts in effect.
func (r *Renderer) Labels() Labels { return r.labels }

// RowCount returns the number of mounted row slots.
func (r *Renderer) RowCount() int { return len(r.bindings) }

// Binding returns slot i's RowBinding, or nil when out of range.
func (r *Renderer) Binding(i int) *RowBinding {
	if i < 0 || i >= len(r.bindings) {
		return nil
	}
	return r.bindings[i]
}

// SlotOf returns the binding's current slot, or -1 once destroyed. Listener
// closures use it so a row relocated by a reorder reports its new index.
func (r *Renderer) SlotOf(rb *RowBinding) int {
	for i, cur := range r.bindings {
		if cur == rb {
			return i
		}
	}
	return -1
}

// Render reconciles the container with the view: placeholder when no
// display template exists, otherwise exactly one row per record, trailing
// slots destroyed when the data shrank, new slots created when it grew, and
// every surviving row updated in place.
func (r *Renderer) Render(view View) {
	if !r.HasDisplayTemplate() {
		r.renderPlaceholder()
		return
	}
	r.clearPlaceholder()

	for len(r.bindings) > len(view.Records) {
		r.destroySlot(len(r.bindings) - 1)
	}
	for len(r.bindings) < len(view.Records) {
		r.createRow(view)
	}

	// Promote before painting: a record flagged as editing reclaims the
	// current edit index first, so a stale index can never paint a second
	// row with edit visuals during the same pass.
	for i, rec := range view.Records {
		if st := r.store.Get(rec, i); st != nil && st.Editing && r.store.CurrentIndex() != i {
			r.store.SetCurrentIndex(i)
		}
	}
	for i := range view.Records {
		r.UpdateRow(i, view)
	}
	r.store.Prune(view.Records)
}

// Rebuild destroys every slot so the next Render recreates rows from
// scratch. Attribute changes that alter row structure (reordering toggled,
// template swaps) go through here.
func (r *Renderer) Rebuild() {
	for len(r.bindings) > 0 {
		r.destroySlot(len(r.bindings) - 1)
	}
}

// Destroy tears down all rows, listeners and the placeholder.
func (r *Renderer) Destroy() {
	r.Rebuild()
	r.clearPlaceholder()
}

func (r *Renderer) renderPlaceholder() {
	r.Rebuild()
	if r.placeholderNode != nil {
		return
	}
	p := dom.NewElement("p")
	p.AddClass("ea-placeholder")
	p.SetText(r.placeholder)
	r.container.AppendChild(p)
	r.placeholderNode = p
}

func (r *Renderer) clearPlaceholder() {
	if r.placeholderNode == nil {
		return
	}
	r.placeholderNode.Detach()
	r.placeholderNode = nil
}

func (r *Renderer) destroySlot(i int) {
	rb := r.bindings[i]
	for _, off := range rb.off {
		off()
	}
	rb.Root.Detach()
	r.bindings = append(r.bindings[:i], r.bindings[i+1:]...)
}

// MoveRowElement relocates the row subtree from one slot to another without
// recloning it, mirroring a splice of the data array.
func (r *Renderer) MoveRowElement(from, to int) {
	if from == to || from < 0 || to < 0 || from >= len(r.bindings) || to >= len(r.bindings) {
		return
	}
	rb := r.bindings[from]
	r.bindings = append(r.bindings[:from], r.bindings[from+1:]...)
	rest := append([]*RowBinding{}, r.bindings[to:]...)
	r.bindings = append(r.bindings[:to], rb)
	r.bindings = append(r.bindings, rest...)

	var ref *dom.Node
	if to+1 < len(r.bindings) {
		ref = r.bindings[to+1].Root
	}
	r.container.InsertBefore(rb.Root, ref)
}

// RefreshIndexDependent re-derives everything that depends on a row's index
// for every slot: position attributes, numbered labels, boundary-sensitive
// button enablement. No template or binding work happens here.
func (r *Renderer) RefreshIndexDependent(view View) {
	for i, rb := range r.bindings {
		r.refreshRowChrome(i, rb, view)
	}
}
