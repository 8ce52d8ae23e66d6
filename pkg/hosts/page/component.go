package page

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/ColmKenna/ck-editable-array-sub000/pkg/dom"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/hosts"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/widget"
)

// Component wraps a full page rendition as a templ component so templ-based
// applications can compose it into their own layouts.
func (h *Host) Component(w *widget.Widget, opts hosts.Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		rendered, err := h.Render(ctx, w, opts)
		if err != nil {
			return err
		}
		_, err = out.Write(rendered)
		return err
	})
}

// Fragment wraps just the widget's markup, without the surrounding document,
// for embedding inside an existing templ page.
func Fragment(w *widget.Widget) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if w == nil {
			return fmt.Errorf("page: widget is required")
		}
		_, err := io.WriteString(out, dom.RenderHTML(w.Element()))
		return err
	})
}
