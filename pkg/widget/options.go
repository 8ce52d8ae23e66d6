package widget

import (
	"net/url"
	"time"

	"github.com/ColmKenna/ck-editable-array-sub000/pkg/rows"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/sanitize"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/schedule"
)

// ChangeMode selects when the aggregate data-changed notification fires.
type ChangeMode string

const (
	// ChangeModeDebounced coalesces rapid edits into one notification per
	// quiet window. Reacts to both keystroke-level and commit-level control
	// events.
	ChangeModeDebounced ChangeMode = "debounced"
	// ChangeModeChange notifies on every commit-level control event. It does
	// not react to keystroke-level events; the asymmetry mirrors the widget's
	// historical behavior and is kept deliberately.
	ChangeModeChange ChangeMode = "change"
	// ChangeModeSave notifies only when a row's edit is explicitly saved.
	ChangeModeSave ChangeMode = "save"
)

// DefaultChangeDebounce is the quiet window for ChangeModeDebounced.
const DefaultChangeDebounce = 300 * time.Millisecond

// Classes carries caller CSS-class hooks for the widget's wrapper elements.
type Classes struct {
	Root string
	Rows string
	Row  string
}

// Announcer receives human-readable descriptions of completed actions, for a
// live region or an equivalent assistive sink.
type Announcer func(message string)

// MotionQuery reports whether the platform prefers reduced motion. When it
// returns true, button-driven moves skip the animation.
type MotionQuery func() bool

// FormSink receives the widget's form-encodable value multiset after every
// data-changed notification.
type FormSink func(values url.Values)

// Option configures a Widget at construction.
type Option func(*Widget)

// WithData seeds the widget's records. The value crosses the usual clone
// boundary: non-sequence input becomes an empty sequence.
func WithData(v any) Option {
	return func(w *Widget) { w.initialData = v }
}

// WithName sets the widget's form-participation name.
func WithName(name string) Option {
	return func(w *Widget) { w.name = name }
}

// WithReadOnly starts the widget read-only.
func WithReadOnly(ro bool) Option {
	return func(w *Widget) { w.readOnly = ro }
}

// WithAllowReorder enables the move buttons and the drag-drop path.
func WithAllowReorder(allow bool) Option {
	return func(w *Widget) { w.allowReorder = allow }
}

// WithChangeMode selects the data-changed cadence.
func WithChangeMode(mode ChangeMode) Option {
	return func(w *Widget) { w.changeMode = mode }
}

// WithChangeDebounce sets the quiet window for the debounced cadence.
func WithChangeDebounce(d time.Duration) Option {
	return func(w *Widget) { w.changeDebounce = d }
}

// WithLabels overrides button texts. Zero fields keep their defaults.
func WithLabels(l rows.Labels) Option {
	return func(w *Widget) { w.labels = l }
}

// WithClasses sets the caller CSS-class hooks.
func WithClasses(c Classes) Option {
	return func(w *Widget) { w.classes = c }
}

// WithDisplayTemplate sets the markup cloned into each row's display section.
func WithDisplayTemplate(markup string) Option {
	return func(w *Widget) { w.displayMarkup = markup }
}

// WithEditTemplate sets the markup cloned into each row's edit section.
func WithEditTemplate(markup string) Option {
	return func(w *Widget) { w.editMarkup = markup }
}

// WithDeletedField changes the record path carrying the soft-delete flag.
func WithDeletedField(path string) Option {
	return func(w *Widget) { w.deletedField = path }
}

// WithSanitizer replaces the default template sanitizer.
func WithSanitizer(s sanitize.Sanitizer) Option {
	return func(w *Widget) {
		if s != nil {
			w.sanitizer = s
		}
	}
}

// WithScheduler replaces the wall-clock scheduler, usually with a manual one
// in tests.
func WithScheduler(s schedule.Scheduler) Option {
	return func(w *Widget) {
		if s != nil {
			w.sched = s
		}
	}
}

// WithMotionQuery wires the platform's reduced-motion preference.
func WithMotionQuery(q MotionQuery) Option {
	return func(w *Widget) {
		if q != nil {
			w.motion = q
		}
	}
}

// WithAnnouncer wires the announcement sink.
func WithAnnouncer(a Announcer) Option {
	return func(w *Widget) {
		if a != nil {
			w.announcer = a
		}
	}
}

// WithFormSink wires the form-value sink.
func WithFormSink(sink FormSink) Option {
	return func(w *Widget) { w.formSink = sink }
}
