package sanitize_test

import (
	"strings"
	"testing"

	"github.com/ColmKenna/ck-editable-array-sub000/pkg/sanitize"
)

func TestMarkupKeepsBindableControls(t *testing.T) {
	in := `<div class="row">
		<span data-bind="name"></span>
		<input type="text" data-bind="name" placeholder="Name">
		<input type="checkbox" data-bind="done" checked>
		<select data-bind="color"><option value="r" selected>Red</option></select>
		<textarea data-bind="notes" rows="3"></textarea>
		<button type="button" data-action="edit">Edit</button>
	</div>`
	out := sanitize.Markup(in)

	for _, want := range []string{
		`data-bind="name"`, `data-bind="done"`, `data-action="edit"`,
		"<input", "<select", "<textarea", "<button", "checked", "selected",
		`placeholder="Name"`, `rows="3"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("sanitized markup lost %q:\n%s", want, out)
		}
	}
}

func TestMarkupStripsScriptVectors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		deny []string
	}{
		{
			name: "script element",
			in:   `<div><script>alert(1)</script><span data-bind="a"></span></div>`,
			deny: []string{"<script", "alert(1)"},
		},
		{
			name: "inline handler",
			in:   `<input data-bind="a" onfocus="alert(1)">`,
			deny: []string{"onfocus", "alert"},
		},
		{
			name: "javascript url",
			in:   `<a href="javascript:alert(1)">x</a>`,
			deny: []string{"javascript:"},
		},
		{
			name: "iframe",
			in:   `<iframe src="https://example.com"></iframe><span data-bind="a"></span>`,
			deny: []string{"<iframe"},
		},
		{
			name: "style element",
			in:   `<style>body{display:none}</style><span data-bind="a"></span>`,
			deny: []string{"<style", "display:none"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := sanitize.Markup(tc.in)
			for _, bad := range tc.deny {
				if strings.Contains(out, bad) {
					t.Fatalf("sanitized markup kept %q:\n%s", bad, out)
				}
			}
		})
	}
}

func TestMarkupEmptyInput(t *testing.T) {
	if got := sanitize.Markup("   "); got != "" {
		t.Fatalf("Markup(whitespace) = %q, want empty", got)
	}
}

func TestNonePassesThrough(t *testing.T) {
	in := `<script>kept()</script>`
	if got := sanitize.None().Sanitize(in); got != in {
		t.Fatalf("None altered markup: %q", got)
	}
}

func TestFuncAdapter(t *testing.T) {
	s := sanitize.Func(strings.ToUpper)
	if got := s.Sanitize("abc"); got != "ABC" {
		t.Fatalf("Func adapter = %q", got)
	}
}

func TestDefaultSanitizes(t *testing.T) {
	out := sanitize.Default().Sanitize(`<span data-bind="x" onclick="x()">v</span>`)
	if strings.Contains(out, "onclick") {
		t.Fatalf("default sanitizer kept an event handler: %s", out)
	}
	if !strings.Contains(out, `data-bind="x"`) {
		t.Fatalf("default sanitizer dropped the bind path: %s", out)
	}
}
