package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses markup in a body context and returns the top level
// nodes. Comments and doctypes are dropped; form controls have their live
// value and checked state seeded from the parsed attributes.
func ParseFragment(markup string) ([]*Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	parsed, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	var out []*Node
	for _, hn := range parsed {
		if n := fromHTMLNode(hn); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

// ParseElement parses markup and returns its first element node, ignoring
// surrounding text. It errors when the markup contains no element.
func ParseElement(markup string) (*Node, error) {
	nodes, err := ParseFragment(markup)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if n.Type == ElementNode {
			return n, nil
		}
	}
	return nil, fmt.Errorf("dom: parse element: no element in %q", markup)
}

func fromHTMLNode(hn *html.Node) *Node {
	switch hn.Type {
	case html.TextNode:
		return NewText(hn.Data)
	case html.ElementNode:
		n := NewElement(hn.Data)
		for _, a := range hn.Attr {
			n.SetAttr(a.Key, a.Val)
		}
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTMLNode(c); child != nil {
				n.AppendChild(child)
			}
		}
		seedControlState(n)
		return n
	default:
		return nil
	}
}

// seedControlState copies default attributes into live control state, the
// way a browser initializes a fresh control.
func seedControlState(n *Node) {
	switch n.Tag {
	case "input":
		n.Value = n.AttrOr("value", "")
		n.Checked = n.HasAttr("checked")
	case "textarea":
		n.Value = n.TextContent()
	case "select":
		for _, opt := range n.FindAllTag("option") {
			if opt.HasAttr("selected") {
				n.Value = optionValue(opt)
				return
			}
		}
		if opts := n.FindAllTag("option"); len(opts) > 0 {
			n.Value = optionValue(opts[0])
		}
	}
}

func optionValue(opt *Node) string {
	if v, ok := opt.Attr("value"); ok {
		return v
	}
	return strings.TrimSpace(opt.TextContent())
}

// RenderHTML serializes the node and its subtree, reflecting live control
// state back into markup so a server-rendered snapshot matches what the
// engine holds.
func RenderHTML(n *Node) string {
	var b strings.Builder
	if err := html.Render(&b, toHTMLNode(n)); err != nil {
		// strings.Builder never errors; html.Render only propagates writer
		// failures.
		return ""
	}
	return b.String()
}

// RenderChildren serializes the node's children without the node itself.
func RenderChildren(n *Node) string {
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(RenderHTML(c))
	}
	return b.String()
}

func toHTMLNode(n *Node) *html.Node {
	if n.Type == TextNode {
		return &html.Node{Type: html.TextNode, Data: n.Text}
	}
	hn := &html.Node{Type: html.ElementNode, Data: n.Tag, DataAtom: atom.Lookup([]byte(n.Tag))}
	for _, k := range n.attrKeys {
		if skip := liveAttr(n, k); skip {
			continue
		}
		hn.Attr = append(hn.Attr, html.Attribute{Key: k, Val: n.attrs[k]})
	}
	appendLiveAttrs(n, hn)

	if n.Tag == "textarea" {
		hn.AppendChild(&html.Node{Type: html.TextNode, Data: n.Value})
		return hn
	}
	for _, c := range n.children {
		child := toHTMLNode(c)
		if c.Type == ElementNode && c.Tag == "option" {
			reflectSelection(c, child)
		}
		hn.AppendChild(child)
	}
	return hn
}

// liveAttr reports whether the attribute is shadowed by live control state
// and therefore rewritten at render time.
func liveAttr(n *Node, key string) bool {
	if n.Tag != "input" {
		return false
	}
	switch key {
	case "value":
		return true
	case "checked":
		return n.InputType() == "checkbox" || n.InputType() == "radio"
	}
	return false
}

func appendLiveAttrs(n *Node, hn *html.Node) {
	if n.Tag != "input" {
		return
	}
	switch n.InputType() {
	case "checkbox", "radio":
		if n.Checked {
			hn.Attr = append(hn.Attr, html.Attribute{Key: "checked", Val: ""})
		}
		if v, ok := n.Attr("value"); ok {
			hn.Attr = append(hn.Attr, html.Attribute{Key: "value", Val: v})
		}
	default:
		if n.Value != "" {
			hn.Attr = append(hn.Attr, html.Attribute{Key: "value", Val: n.Value})
		}
	}
}

func reflectSelection(opt *Node, rendered *html.Node) {
	sel := opt.parent
	for sel != nil && sel.Tag != "select" {
		sel = sel.parent
	}
	if sel == nil {
		return
	}
	var kept []html.Attribute
	for _, a := range rendered.Attr {
		if a.Key != "selected" {
			kept = append(kept, a)
		}
	}
	rendered.Attr = kept
	if optionValue(opt) == sel.Value {
		rendered.Attr = append(rendered.Attr, html.Attribute{Key: "selected", Val: ""})
	}
}
