// Package binding moves values between records and bound nodes: apply
// pushes a resolved record value into a node, readback pulls a user-entered
// value out of a control. Bound nodes are marked with the data-bind
// attribute carrying a dotted record path.
package binding

import (
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/dom"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/value"
)

// Attr is the attribute carrying a node's bind path.
const Attr = "data-bind"

// Path returns the node's bind path and whether the node is bound.
func Path(n *dom.Node) (string, bool) {
	return n.Attr(Attr)
}

// BoundNodes returns every bound descendant of root in document order. The
// renderer calls this once per row and caches the result.
func BoundNodes(root *dom.Node) []*dom.Node {
	return root.FindAllByAttr(Attr)
}

// Apply routes a resolved record value into the node.
//
// Non-control elements get the stringified value as text, never as markup,
// so record content cannot inject nodes. Controls route by kind: checkboxes
// set checked from truthiness, radios check themselves iff their static
// value matches, everything else carries the stringified value.
func Apply(n *dom.Node, v any) {
	if !n.IsFormControl() {
		n.SetText(value.Stringify(v))
		return
	}
	switch n.InputType() {
	case "checkbox":
		n.Checked = value.Truthy(v)
	case "radio":
		n.Checked = radioValue(n) == value.Stringify(v)
	default:
		n.Value = value.Stringify(v)
	}
}

// Readback returns the control's raw user-facing value: checked state for
// checkboxes, the string value for everything else. Interpretation beyond
// that is left to the caller's own data conventions.
func Readback(n *dom.Node) any {
	if n.InputType() == "checkbox" {
		return n.Checked
	}
	return n.Value
}

func radioValue(n *dom.Node) string {
	if v, ok := n.Attr("value"); ok {
		return v
	}
	return n.Value
}

// Listeners says which control events carry user edits for a node.
type Listeners int

const (
	// ListenNone marks non-control nodes; nothing to attach.
	ListenNone Listeners = iota
	// ListenChange covers controls that commit discretely: select,
	// checkbox, radio.
	ListenChange
	// ListenInputAndChange covers free-text-like controls, which should
	// update on every keystroke and again on commit.
	ListenInputAndChange
)

// ListenersFor classifies the node for listener attachment.
func ListenersFor(n *dom.Node) Listeners {
	if !n.IsFormControl() {
		return ListenNone
	}
	if n.Tag == "select" {
		return ListenChange
	}
	switch n.InputType() {
	case "checkbox", "radio":
		return ListenChange
	}
	return ListenInputAndChange
}

// ApplyAll reapplies every bound node under root from the record. Paths
// that do not resolve render as absent.
func ApplyAll(root *dom.Node, rec any) {
	for _, n := range BoundNodes(root) {
		path, _ := Path(n)
		v, ok := value.Resolve(rec, path)
		if !ok {
			v = nil
		}
		Apply(n, v)
	}
}

// ApplyPath reapplies only the nodes under root bound to the given path.
// After a readback writes one control's value into the record, this keeps
// sibling nodes bound to the same path consistent.
func ApplyPath(root *dom.Node, rec any, path string) {
	v, ok := value.Resolve(rec, path)
	if !ok {
		v = nil
	}
	for _, n := range BoundNodes(root) {
		if p, _ := Path(n); p == path {
			Apply(n, v)
		}
	}
}
