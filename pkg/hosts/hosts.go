// Package hosts defines the contract between the widget engine and the
// environments that embed it. A host owns the outer surface (an HTML page, an
// interactive prompt session) and drives a Widget through its public API.
package hosts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ColmKenna/ck-editable-array-sub000/pkg/widget"
)

// Options carries per-render settings that belong to the surface rather than
// the widget itself.
type Options struct {
	// Title labels the surface (page title, session heading).
	Title string
	// Lang is the document language for hosts that emit markup.
	Lang string
	// Metadata passes host-specific values through to templates.
	Metadata map[string]any
}

// Host embeds a widget in some outer surface and produces its rendition.
type Host interface {
	// Name identifies the host for registry lookup.
	Name() string
	// ContentType describes the output, MIME-style.
	ContentType() string
	// Render produces the host's rendition of the widget.
	Render(ctx context.Context, w *widget.Widget, opts Options) ([]byte, error)
}

// Registry resolves hosts by name. The zero value is ready to use; NewRegistry
// exists for symmetry with the rest of the constructors.
type Registry struct {
	mu    sync.RWMutex
	hosts map[string]Host
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a host under its own Name. Nil hosts, unnamed hosts, and
// duplicate names are errors.
func (r *Registry) Register(host Host) error {
	if host == nil {
		return errors.New("hosts: host is required")
	}
	name := host.Name()
	if name == "" {
		return errors.New("hosts: host name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.hosts[name]; exists {
		return fmt.Errorf("hosts: host %q already registered", name)
	}
	if r.hosts == nil {
		r.hosts = make(map[string]Host)
	}
	r.hosts[name] = host
	return nil
}

// MustRegister panics on registration failure, for init-time wiring.
func (r *Registry) MustRegister(host Host) {
	if err := r.Register(host); err != nil {
		panic(err)
	}
}

// Get retrieves a host by name; the error doubles as the existence check.
func (r *Registry) Get(name string) (Host, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	host, ok := r.hosts[name]
	if !ok {
		return nil, fmt.Errorf("hosts: host %q not found", name)
	}
	return host, nil
}

// MustGet panics if the host is missing.
func (r *Registry) MustGet(name string) Host {
	host, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return host
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.hosts))
	for name := range r.hosts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
