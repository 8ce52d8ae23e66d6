// Package dom provides the retained node tree the widget renders into.
//
// Nodes model the small slice of a document tree the engine needs: elements
// with ordered attributes, text nodes, live form-control state, and event
// listeners with bubbling dispatch. The tree is deliberately host agnostic;
// hosts serialize it (see RenderHTML) or walk it to drive a real surface.
package dom

import (
	"strings"
)

// NodeType discriminates the two node shapes the tree carries.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Node is a single element or text node. Element fields other than the
// exported ones are managed through methods so parent/child links and
// attribute order stay consistent.
type Node struct {
	Type NodeType
	Tag  string
	Text string

	// Live form-control state. Browsers track these separately from the
	// value/checked attributes once the user interacts with a control, and
	// the binding layer depends on that distinction.
	Value   string
	Checked bool

	attrs    map[string]string
	attrKeys []string

	parent   *Node
	children []*Node

	listeners map[string][]*listener
}

// NewElement returns a detached element node. Tag names are normalized to
// lower case.
func NewElement(tag string) *Node {
	return &Node{Type: ElementNode, Tag: strings.ToLower(tag)}
}

// NewText returns a detached text node.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Text: text}
}

// Parent returns the node's parent, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children. The slice is a copy; mutating it
// does not affect the tree.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int { return len(n.children) }

// ChildAt returns the child at index i, or nil when out of range.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// IndexOf returns the position of child among n's children, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// AppendChild adds child as the last child of n, detaching it from any
// previous parent first.
func (n *Node) AppendChild(child *Node) {
	if child == nil {
		return
	}
	child.Detach()
	child.parent = n
	n.children = append(n.children, child)
}

// InsertBefore inserts child immediately before ref. A nil ref appends.
// When ref is not a child of n the call is a no-op.
func (n *Node) InsertBefore(child, ref *Node) {
	if child == nil {
		return
	}
	if ref == nil {
		n.AppendChild(child)
		return
	}
	idx := n.IndexOf(ref)
	if idx < 0 {
		return
	}
	child.Detach()
	child.parent = n
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = child
}

// RemoveChild detaches child from n. Children of other nodes are left alone.
func (n *Node) RemoveChild(child *Node) {
	if child == nil || child.parent != n {
		return
	}
	child.Detach()
}

// Detach removes the node from its parent, if any.
func (n *Node) Detach() {
	p := n.parent
	if p == nil {
		return
	}
	idx := p.IndexOf(n)
	if idx >= 0 {
		p.children = append(p.children[:idx], p.children[idx+1:]...)
	}
	n.parent = nil
}

// Clone returns a deep copy of the node and its subtree. Listeners are not
// cloned; the copy starts detached.
func (n *Node) Clone() *Node {
	out := &Node{
		Type:    n.Type,
		Tag:     n.Tag,
		Text:    n.Text,
		Value:   n.Value,
		Checked: n.Checked,
	}
	if n.attrs != nil {
		out.attrs = make(map[string]string, len(n.attrs))
		out.attrKeys = make([]string, len(n.attrKeys))
		copy(out.attrKeys, n.attrKeys)
		for k, v := range n.attrs {
			out.attrs[k] = v
		}
	}
	for _, c := range n.children {
		cc := c.Clone()
		cc.parent = out
		out.children = append(out.children, cc)
	}
	return out
}

// Attr returns the attribute value and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// AttrOr returns the attribute value, or fallback when absent.
func (n *Node) AttrOr(name, fallback string) string {
	if v, ok := n.attrs[name]; ok {
		return v
	}
	return fallback
}

// HasAttr reports whether the attribute is present, regardless of value.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.attrs[name]
	return ok
}

// SetAttr sets an attribute, preserving first-set ordering for
// serialization.
func (n *Node) SetAttr(name, val string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	if _, ok := n.attrs[name]; !ok {
		n.attrKeys = append(n.attrKeys, name)
	}
	n.attrs[name] = val
}

// RemoveAttr deletes an attribute if present.
func (n *Node) RemoveAttr(name string) {
	if _, ok := n.attrs[name]; !ok {
		return
	}
	delete(n.attrs, name)
	for i, k := range n.attrKeys {
		if k == name {
			n.attrKeys = append(n.attrKeys[:i], n.attrKeys[i+1:]...)
			break
		}
	}
}

// AttrNames returns attribute names in first-set order.
func (n *Node) AttrNames() []string {
	out := make([]string, len(n.attrKeys))
	copy(out, n.attrKeys)
	return out
}

// SetHidden toggles the boolean hidden attribute.
func (n *Node) SetHidden(hidden bool) {
	if hidden {
		n.SetAttr("hidden", "")
	} else {
		n.RemoveAttr("hidden")
	}
}

// Hidden reports whether the hidden attribute is present.
func (n *Node) Hidden() bool { return n.HasAttr("hidden") }

// SetDisabled toggles the boolean disabled attribute.
func (n *Node) SetDisabled(disabled bool) {
	if disabled {
		n.SetAttr("disabled", "")
	} else {
		n.RemoveAttr("disabled")
	}
}

// Disabled reports whether the disabled attribute is present.
func (n *Node) Disabled() bool { return n.HasAttr("disabled") }

func (n *Node) classes() []string {
	return strings.Fields(n.AttrOr("class", ""))
}

// HasClass reports whether the class attribute contains name.
func (n *Node) HasClass(name string) bool {
	for _, c := range n.classes() {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass appends name to the class attribute if absent.
func (n *Node) AddClass(name string) {
	if name == "" || n.HasClass(name) {
		return
	}
	cs := append(n.classes(), name)
	n.SetAttr("class", strings.Join(cs, " "))
}

// RemoveClass removes name from the class attribute.
func (n *Node) RemoveClass(name string) {
	if !n.HasClass(name) {
		return
	}
	var kept []string
	for _, c := range n.classes() {
		if c != name {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		n.RemoveAttr("class")
		return
	}
	n.SetAttr("class", strings.Join(kept, " "))
}

// ToggleClass adds or removes name according to on.
func (n *Node) ToggleClass(name string, on bool) {
	if on {
		n.AddClass(name)
	} else {
		n.RemoveClass(name)
	}
}

// Style returns the value of a single inline style property.
func (n *Node) Style(prop string) string {
	return parseStyle(n.AttrOr("style", ""))[prop]
}

// SetStyle sets a single inline style property, preserving the others.
func (n *Node) SetStyle(prop, val string) {
	props := parseStyle(n.AttrOr("style", ""))
	order := styleOrder(n.AttrOr("style", ""))
	if _, ok := props[prop]; !ok {
		order = append(order, prop)
	}
	props[prop] = val
	n.SetAttr("style", renderStyle(props, order))
}

// RemoveStyle clears a single inline style property. The style attribute is
// dropped entirely once empty.
func (n *Node) RemoveStyle(prop string) {
	props := parseStyle(n.AttrOr("style", ""))
	if _, ok := props[prop]; !ok {
		return
	}
	delete(props, prop)
	var order []string
	for _, p := range styleOrder(n.AttrOr("style", "")) {
		if p != prop {
			order = append(order, p)
		}
	}
	if len(props) == 0 {
		n.RemoveAttr("style")
		return
	}
	n.SetAttr("style", renderStyle(props, order))
}

func parseStyle(s string) map[string]string {
	out := make(map[string]string)
	for _, decl := range strings.Split(s, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}

func styleOrder(s string) []string {
	var order []string
	seen := make(map[string]bool)
	for _, decl := range strings.Split(s, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		k, _, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
	}
	return order
}

func renderStyle(props map[string]string, order []string) string {
	var b strings.Builder
	for _, k := range order {
		v, ok := props[k]
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
	}
	return b.String()
}

// SetText replaces the node's children with a single text node.
func (n *Node) SetText(text string) {
	for _, c := range n.Children() {
		c.Detach()
	}
	n.AppendChild(NewText(text))
}

// TextContent returns the concatenated text of the node and its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Walk visits the node and every descendant in document order. Returning
// false from the visitor skips the node's children.
func (n *Node) Walk(visit func(*Node) bool) {
	if !visit(n) {
		return
	}
	for _, c := range n.Children() {
		c.Walk(visit)
	}
}

// Find returns the first descendant (excluding n itself) matching pred, in
// document order.
func (n *Node) Find(pred func(*Node) bool) *Node {
	var found *Node
	for _, c := range n.children {
		c.Walk(func(d *Node) bool {
			if found != nil {
				return false
			}
			if pred(d) {
				found = d
				return false
			}
			return true
		})
		if found != nil {
			break
		}
	}
	return found
}

// FindAll returns every descendant (excluding n itself) matching pred, in
// document order.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	for _, c := range n.children {
		c.Walk(func(d *Node) bool {
			if pred(d) {
				out = append(out, d)
			}
			return true
		})
	}
	return out
}

// FindByAttr returns the first descendant carrying the attribute.
func (n *Node) FindByAttr(name string) *Node {
	return n.Find(func(d *Node) bool { return d.HasAttr(name) })
}

// FindAllByAttr returns every descendant carrying the attribute.
func (n *Node) FindAllByAttr(name string) []*Node {
	return n.FindAll(func(d *Node) bool { return d.HasAttr(name) })
}

// FindAllTag returns every descendant element with the given tag.
func (n *Node) FindAllTag(tag string) []*Node {
	tag = strings.ToLower(tag)
	return n.FindAll(func(d *Node) bool { return d.Type == ElementNode && d.Tag == tag })
}

// Closest walks from the node up through its ancestors and returns the first
// one (including the node itself) matching pred, or nil.
func (n *Node) Closest(pred func(*Node) bool) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if pred(cur) {
			return cur
		}
	}
	return nil
}

// ClosestWithAttr returns the nearest ancestor-or-self carrying the
// attribute.
func (n *Node) ClosestWithAttr(name string) *Node {
	return n.Closest(func(d *Node) bool { return d.HasAttr(name) })
}

// IsFormControl reports whether the node is an input, select or textarea
// element.
func (n *Node) IsFormControl() bool {
	if n.Type != ElementNode {
		return false
	}
	switch n.Tag {
	case "input", "select", "textarea":
		return true
	}
	return false
}

// InputType returns the input element's type, defaulting to "text". Non
// input elements return "".
func (n *Node) InputType() string {
	if n.Type != ElementNode || n.Tag != "input" {
		return ""
	}
	t := strings.ToLower(n.AttrOr("type", ""))
	if t == "" {
		return "text"
	}
	return t
}
