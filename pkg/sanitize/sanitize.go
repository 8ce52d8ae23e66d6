// Package sanitize cleans caller-supplied template markup before the widget
// clones it into rows. Templates come from the embedding application, not
// from record data, but they still cross a trust boundary: a sanitizer here
// keeps script elements, inline event handlers and javascript: URLs out of
// the rendered tree no matter where the template text originated.
package sanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer is the port the renderer consumes. Implementations must return
// markup safe to parse and mount.
type Sanitizer interface {
	Sanitize(markup string) string
}

// Func adapts a plain function to the Sanitizer interface.
type Func func(string) string

// Sanitize implements Sanitizer.
func (f Func) Sanitize(markup string) string { return f(markup) }

var (
	templatePolicyOnce sync.Once
	templatePolicy     *bluemonday.Policy
)

// Default returns the shared bluemonday-backed sanitizer used unless the
// caller supplies their own.
func Default() Sanitizer {
	return Func(Markup)
}

// None returns a pass-through sanitizer for templates the application fully
// trusts.
func None() Sanitizer {
	return Func(func(markup string) string { return markup })
}

// Markup sanitizes template markup with the default policy.
func Markup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(templateSanitizer().Sanitize(trimmed))
}

func templateSanitizer() *bluemonday.Policy {
	templatePolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()

		policy.AllowElements(
			"div", "span", "p", "label", "strong", "em", "b", "i", "u",
			"small", "sub", "sup", "br", "hr", "ul", "ol", "li", "dl", "dt",
			"dd", "h1", "h2", "h3", "h4", "h5", "h6", "fieldset", "legend",
			"input", "select", "option", "optgroup", "textarea", "button",
			"output", "progress", "meter", "code", "pre", "blockquote",
		)

		policy.AllowAttrs(
			"class", "id", "title", "hidden", "tabindex", "role",
			"aria-label", "aria-hidden", "aria-live", "aria-describedby",
			"aria-labelledby",
		).Globally()

		// Bind paths and action triggers ride on data-* attributes.
		policy.AllowDataAttributes()

		policy.AllowAttrs(
			"name", "type", "value", "placeholder", "checked", "disabled",
			"readonly", "required", "min", "max", "step", "maxlength",
			"minlength", "pattern", "autocomplete", "inputmode", "list",
			"size",
		).OnElements("input")
		policy.AllowAttrs("name", "disabled", "multiple", "size", "required").OnElements("select")
		policy.AllowAttrs("value", "selected", "disabled", "label").OnElements("option")
		policy.AllowAttrs("label", "disabled").OnElements("optgroup")
		policy.AllowAttrs(
			"name", "rows", "cols", "placeholder", "disabled", "readonly",
			"required", "maxlength", "minlength", "wrap",
		).OnElements("textarea")
		policy.AllowAttrs("type", "disabled", "name", "value").OnElements("button")
		policy.AllowAttrs("for").OnElements("label", "output")
		policy.AllowAttrs("value", "max").OnElements("progress", "meter")
		policy.AllowAttrs("min", "low", "high", "optimum").OnElements("meter")

		policy.AllowStandardURLs()
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowElements("a")
		policy.AllowAttrs("src", "alt", "width", "height", "loading").OnElements("img")
		policy.AllowElements("img")

		templatePolicy = policy
	})
	return templatePolicy
}
