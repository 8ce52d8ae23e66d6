package dom

// Document roots a node tree and tracks which element holds focus. Deferred
// work (animation timers, focus restoration) consults it to decide whether a
// node is still live before touching it.
type Document struct {
	root   *Node
	active *Node
}

// NewDocument returns a document with an empty body element as its root.
func NewDocument() *Document {
	return &Document{root: NewElement("body")}
}

// Root returns the document's root element.
func (d *Document) Root() *Node { return d.root }

// Contains reports whether the node is attached under the document root.
func (d *Document) Contains(n *Node) bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur == d.root {
			return true
		}
	}
	return false
}

// Focus gives the node focus. Detached nodes are refused so stale deferred
// focus restores cannot resurrect a removed control.
func (d *Document) Focus(n *Node) {
	if n == nil || !d.Contains(n) {
		return
	}
	d.active = n
}

// Blur clears focus if the node currently holds it.
func (d *Document) Blur(n *Node) {
	if d.active == n {
		d.active = nil
	}
}

// ActiveElement returns the focused node, or nil. A node that has since been
// detached no longer counts as focused.
func (d *Document) ActiveElement() *Node {
	if d.active != nil && !d.Contains(d.active) {
		d.active = nil
	}
	return d.active
}
