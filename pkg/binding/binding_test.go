package binding_test

import (
	"testing"

	"github.com/ColmKenna/ck-editable-array-sub000/pkg/binding"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/dom"
)

func mustElement(t *testing.T, markup string) *dom.Node {
	t.Helper()
	n, err := dom.ParseElement(markup)
	if err != nil {
		t.Fatalf("ParseElement(%q): %v", markup, err)
	}
	return n
}

func TestApplyTextNode(t *testing.T) {
	cases := []struct {
		name string
		v    any
		want string
	}{
		{"string", "Alice", "Alice"},
		{"number", float64(2), "2"},
		{"nil renders empty", nil, ""},
		{"list joins", []any{"a", "b"}, "a, b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			span := mustElement(t, `<span data-bind="x"></span>`)
			binding.Apply(span, tc.v)
			if got := span.TextContent(); got != tc.want {
				t.Fatalf("text = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestApplyNeverInterpretsMarkup(t *testing.T) {
	span := mustElement(t, `<span data-bind="x"></span>`)
	binding.Apply(span, `<img src=x onerror=alert(1)>`)
	if span.Find(func(n *dom.Node) bool { return n.Tag == "img" }) != nil {
		t.Fatal("record content was parsed as markup")
	}
	if span.TextContent() != `<img src=x onerror=alert(1)>` {
		t.Fatalf("text = %q", span.TextContent())
	}
}

func TestApplyControls(t *testing.T) {
	t.Run("text input", func(t *testing.T) {
		n := mustElement(t, `<input type="text" data-bind="x">`)
		binding.Apply(n, float64(3.5))
		if n.Value != "3.5" {
			t.Fatalf("value = %q", n.Value)
		}
		binding.Apply(n, nil)
		if n.Value != "" {
			t.Fatalf("value after nil = %q", n.Value)
		}
	})
	t.Run("checkbox truthiness", func(t *testing.T) {
		n := mustElement(t, `<input type="checkbox" data-bind="x">`)
		binding.Apply(n, "yes")
		if !n.Checked {
			t.Fatal("truthy value left checkbox unchecked")
		}
		binding.Apply(n, float64(0))
		if n.Checked {
			t.Fatal("falsy value left checkbox checked")
		}
	})
	t.Run("radio matches static value", func(t *testing.T) {
		r := mustElement(t, `<input type="radio" value="red" data-bind="color">`)
		g := mustElement(t, `<input type="radio" value="green" data-bind="color">`)
		binding.Apply(r, "green")
		binding.Apply(g, "green")
		if r.Checked || !g.Checked {
			t.Fatalf("radio states: red=%v green=%v", r.Checked, g.Checked)
		}
	})
	t.Run("select", func(t *testing.T) {
		n := mustElement(t, `<select data-bind="x"><option value="a">A</option><option value="b">B</option></select>`)
		binding.Apply(n, "b")
		if n.Value != "b" {
			t.Fatalf("select value = %q", n.Value)
		}
	})
	t.Run("textarea", func(t *testing.T) {
		n := mustElement(t, `<textarea data-bind="x"></textarea>`)
		binding.Apply(n, "multi\nline")
		if n.Value != "multi\nline" {
			t.Fatalf("textarea value = %q", n.Value)
		}
	})
}

func TestReadback(t *testing.T) {
	box := mustElement(t, `<input type="checkbox" data-bind="x">`)
	box.Checked = true
	if got := binding.Readback(box); got != true {
		t.Fatalf("checkbox readback = %#v, want true", got)
	}

	// Everything else reads back as the raw string, numbers included.
	num := mustElement(t, `<input type="number" data-bind="x">`)
	num.Value = "2"
	if got := binding.Readback(num); got != "2" {
		t.Fatalf("number readback = %#v, want \"2\"", got)
	}

	sel := mustElement(t, `<select data-bind="x"><option value="a" selected>A</option></select>`)
	if got := binding.Readback(sel); got != "a" {
		t.Fatalf("select readback = %#v", got)
	}
}

func TestListenersFor(t *testing.T) {
	cases := []struct {
		markup string
		want   binding.Listeners
	}{
		{`<input type="text">`, binding.ListenInputAndChange},
		{`<input>`, binding.ListenInputAndChange},
		{`<input type="number">`, binding.ListenInputAndChange},
		{`<input type="email">`, binding.ListenInputAndChange},
		{`<textarea></textarea>`, binding.ListenInputAndChange},
		{`<input type="checkbox">`, binding.ListenChange},
		{`<input type="radio">`, binding.ListenChange},
		{`<select><option>a</option></select>`, binding.ListenChange},
		{`<span></span>`, binding.ListenNone},
	}
	for _, tc := range cases {
		t.Run(tc.markup, func(t *testing.T) {
			n := mustElement(t, tc.markup)
			if got := binding.ListenersFor(n); got != tc.want {
				t.Fatalf("ListenersFor = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestApplyAllAndApplyPath(t *testing.T) {
	row := mustElement(t, `<div>
		<span data-bind="name"></span>
		<input type="text" data-bind="name">
		<input type="checkbox" data-bind="done">
		<span data-bind="missing"></span>
	</div>`)
	rec := map[string]any{"name": "Alice", "done": true}

	binding.ApplyAll(row, rec)
	nodes := binding.BoundNodes(row)
	if len(nodes) != 4 {
		t.Fatalf("BoundNodes = %d, want 4", len(nodes))
	}
	if got := nodes[0].TextContent(); got != "Alice" {
		t.Fatalf("display text = %q", got)
	}
	if got := nodes[1].Value; got != "Alice" {
		t.Fatalf("input value = %q", got)
	}
	if !nodes[2].Checked {
		t.Fatal("checkbox not applied")
	}
	if got := nodes[3].TextContent(); got != "" {
		t.Fatalf("missing path rendered %q", got)
	}

	// A same-path refresh updates both nodes bound to "name" and leaves the
	// checkbox alone.
	rec["name"] = "Bob"
	rec["done"] = false
	binding.ApplyPath(row, rec, "name")
	if nodes[0].TextContent() != "Bob" || nodes[1].Value != "Bob" {
		t.Fatal("same-path nodes not kept consistent")
	}
	if !nodes[2].Checked {
		t.Fatal("ApplyPath touched an unrelated path")
	}
}
