// Package page renders a widget into a complete HTML document, the static
// server-side counterpart of the live in-page widget. Pages come out of a
// pongo2-backed template engine and can carry go-theme styling plus an opaque
// state token for later restoration.
package page

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/ColmKenna/ck-editable-array-sub000/pkg/dom"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/formstate"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/hosts"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/widget"
)

//go:embed templates
var templateFS embed.FS

// DefaultStateField names the hidden input that carries the state token.
const DefaultStateField = "__editable_array_state"

// Option configures the page host.
type Option func(*Host)

// WithEngine swaps the template engine. The default renders the embedded
// page template.
func WithEngine(engine TemplateRenderer) Option {
	return func(h *Host) {
		if engine != nil {
			h.engine = engine
		}
	}
}

// WithTemplate selects the template name rendered for each page.
func WithTemplate(name string) Option {
	return func(h *Host) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			h.template = trimmed
		}
	}
}

// WithTheme applies go-theme styling to rendered pages.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(h *Host) {
		h.theme = cfg
	}
}

// WithStateCodec embeds an encoded record snapshot in each page so a later
// request can restore the widget's data.
func WithStateCodec(codec *formstate.Codec) Option {
	return func(h *Host) {
		h.codec = codec
	}
}

// WithStateField overrides the hidden input name used for the state token.
func WithStateField(name string) Option {
	return func(h *Host) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			h.stateField = trimmed
		}
	}
}

// Host renders widgets as standalone HTML pages.
type Host struct {
	engine     TemplateRenderer
	template   string
	theme      *theme.RendererConfig
	codec      *formstate.Codec
	stateField string
}

var _ hosts.Host = (*Host)(nil)

// New constructs a page host. Without options it renders the embedded
// page template with no theme and no state token.
func New(opts ...Option) (*Host, error) {
	host := &Host{
		template:   "page",
		stateField: DefaultStateField,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(host)
		}
	}

	if host.engine == nil {
		templates, err := fs.Sub(templateFS, "templates")
		if err != nil {
			return nil, fmt.Errorf("page: embedded templates: %w", err)
		}
		engine, err := NewEngine(WithFS(templates))
		if err != nil {
			return nil, err
		}
		host.engine = engine
	}
	return host, nil
}

// Name identifies the host for registry lookup.
func (h *Host) Name() string { return "page" }

// ContentType describes the host's output.
func (h *Host) ContentType() string { return "text/html; charset=utf-8" }

// Render produces a full HTML document embedding the widget's current
// markup.
func (h *Host) Render(ctx context.Context, w *widget.Widget, opts hosts.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("page: widget is required")
	}

	data, err := h.templateData(w, opts)
	if err != nil {
		return nil, err
	}

	rendered, err := h.engine.RenderTemplate(h.template, data)
	if err != nil {
		return nil, err
	}
	return []byte(rendered), nil
}

func (h *Host) templateData(w *widget.Widget, opts hosts.Options) (map[string]any, error) {
	lang := opts.Lang
	if lang == "" {
		lang = "en"
	}

	data := map[string]any{
		"lang":    lang,
		"title":   opts.Title,
		"styles":  widget.Styles(),
		"content": dom.RenderHTML(w.Element()),
	}
	for key, value := range opts.Metadata {
		if _, taken := data[key]; !taken {
			data[key] = value
		}
	}

	if h.theme != nil {
		data["theme_class"] = themeClass(h.theme)
		data["css_vars"] = cssVarsStyle(h.theme.CSSVars)
		if h.theme.AssetURL != nil {
			data["theme_stylesheet"] = h.theme.AssetURL("page.stylesheet")
		}
	}

	if h.codec != nil {
		token, err := h.codec.Encode(w.Data())
		if err != nil {
			return nil, fmt.Errorf("page: encode state: %w", err)
		}
		data["state_token"] = token
		data["state_field"] = h.stateField
	}
	return data, nil
}

func themeClass(cfg *theme.RendererConfig) string {
	parts := []string{"theme"}
	if cfg.Theme != "" {
		parts = append(parts, cfg.Theme)
	}
	if cfg.Variant != "" {
		parts = append(parts, cfg.Variant)
	}
	if len(parts) == 1 {
		return ""
	}
	return strings.Join(parts, "-")
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
