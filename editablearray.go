// Package editablearray renders an array of records as editable rows driven
// by caller-supplied HTML templates: row-level edit/save/cancel, soft delete,
// animated and immediate reordering, two-way binding between templated form
// controls and the record array, and form-value participation.
//
// The root package re-exports the widget surface; the pieces live under
// pkg/ (value, dom, editstate, binding, rows, lifecycle, reorder, widget)
// and hosts that render or drive a widget live under pkg/hosts.
package editablearray

import (
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/rows"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/widget"
)

// Widget is one editable-array instance. See pkg/widget for the full surface.
type Widget = widget.Widget

// Option configures a Widget at construction.
type Option = widget.Option

// ChangeMode selects when the aggregate data-changed notification fires.
type ChangeMode = widget.ChangeMode

// Change cadences.
const (
	ChangeModeDebounced = widget.ChangeModeDebounced
	ChangeModeChange    = widget.ChangeModeChange
	ChangeModeSave      = widget.ChangeModeSave
)

// Labels carries per-button text overrides.
type Labels = rows.Labels

// Classes carries caller CSS-class hooks for the wrapper elements.
type Classes = widget.Classes

// Event payloads.
type (
	DataChangedEvent      = widget.DataChangedEvent
	RowChangedEvent       = widget.RowChangedEvent
	ToggleModeEvent       = widget.ToggleModeEvent
	BeforeToggleModeEvent = widget.BeforeToggleModeEvent
	ReorderEvent          = widget.ReorderEvent
)

// Construction options, re-exported so most callers never import pkg/widget.
var (
	WithData            = widget.WithData
	WithName            = widget.WithName
	WithReadOnly        = widget.WithReadOnly
	WithAllowReorder    = widget.WithAllowReorder
	WithChangeMode      = widget.WithChangeMode
	WithChangeDebounce  = widget.WithChangeDebounce
	WithLabels          = widget.WithLabels
	WithClasses         = widget.WithClasses
	WithDisplayTemplate = widget.WithDisplayTemplate
	WithEditTemplate    = widget.WithEditTemplate
	WithDeletedField    = widget.WithDeletedField
	WithSanitizer       = widget.WithSanitizer
	WithScheduler       = widget.WithScheduler
	WithMotionQuery     = widget.WithMotionQuery
	WithAnnouncer       = widget.WithAnnouncer
	WithFormSink        = widget.WithFormSink
)

// DefaultLabels returns the built-in button texts.
func DefaultLabels() Labels {
	return rows.DefaultLabels()
}

// New builds a widget mounted into its own document.
func New(opts ...Option) (*Widget, error) {
	return widget.New(opts...)
}

// Styles returns the widget's default stylesheet for hosts to inject.
func Styles() string {
	return widget.Styles()
}
