// Package prompt drives a widget from an interactive terminal session. The
// session walks the standard row lifecycle through the widget's public API,
// so edits, deletes, and moves behave exactly as they do on a page.
package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/ColmKenna/ck-editable-array-sub000/pkg/value"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/widget"
)

const (
	doneLabel = "Done"
	backLabel = "Back"

	actionEdit     = "Edit fields"
	actionDelete   = "Toggle delete"
	actionMoveUp   = "Move up"
	actionMoveDown = "Move down"
)

// Option configures a Session.
type Option func(*Session)

// WithDriver swaps the prompt driver. The default talks to the terminal
// through survey.
func WithDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithTitle sets the heading shown on the row picker.
func WithTitle(title string) Option {
	return func(s *Session) {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			s.title = trimmed
		}
	}
}

// Session is an interactive editing loop over a widget.
type Session struct {
	w      *widget.Widget
	driver PromptDriver
	title  string
}

// New builds a session around the widget. Hosts running sessions over a real
// terminal should build the widget with reduced motion so moves complete
// synchronously.
func New(w *widget.Widget, opts ...Option) (*Session, error) {
	if w == nil {
		return nil, fmt.Errorf("prompt: widget is required")
	}
	session := &Session{
		w:      w,
		driver: newSurveyDriver(),
		title:  "Select a row",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(session)
		}
	}
	return session, nil
}

// Run loops until the user picks Done or aborts. The widget's data reflects
// every committed change when Run returns.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		records := s.w.Data()
		options := make([]string, 0, len(records)+1)
		for i, record := range records {
			options = append(options, fmt.Sprintf("%d. %s", i+1, summarize(record)))
		}
		options = append(options, doneLabel)

		idx, err := s.driver.Select(ctx, SelectConfig{
			Message: s.title,
			Options: options,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(records) {
			return nil
		}
		if err := s.rowMenu(ctx, idx); err != nil {
			return err
		}
	}
}

func (s *Session) rowMenu(ctx context.Context, i int) error {
	actions := []string{actionEdit, actionDelete, actionMoveUp, actionMoveDown, backLabel}

	choice, err := s.driver.Select(ctx, SelectConfig{
		Message: fmt.Sprintf("Row %d", i+1),
		Options: actions,
	})
	if err != nil {
		return err
	}

	switch {
	case choice < 0 || actions[choice] == backLabel:
		return nil
	case actions[choice] == actionEdit:
		return s.editRow(ctx, i)
	case actions[choice] == actionDelete:
		if !s.w.ToggleDelete(i) {
			return s.driver.Info(ctx, "Row cannot be deleted right now.")
		}
		return nil
	case actions[choice] == actionMoveUp:
		if !s.w.MoveUp(i) {
			return s.driver.Info(ctx, "Row cannot move up.")
		}
		return nil
	default:
		if !s.w.MoveDown(i) {
			return s.driver.Info(ctx, "Row cannot move down.")
		}
		return nil
	}
}

func (s *Session) editRow(ctx context.Context, i int) error {
	if !s.w.EnterEdit(i) {
		return s.driver.Info(ctx, "Row cannot be edited right now.")
	}

	for _, control := range s.w.Controls(i) {
		label := control.AttrOr("data-bind", "value")

		if control.AttrOr("type", "text") == "checkbox" {
			checked, err := s.driver.Confirm(ctx, ConfirmConfig{
				Message: label,
				Default: control.Checked,
			})
			if err != nil {
				s.w.CancelRow(i)
				return err
			}
			if checked != control.Checked {
				control.Checked = checked
				control.FireChange()
			}
			continue
		}

		entered, err := s.driver.Input(ctx, InputConfig{
			Message: label,
			Default: control.Value,
		})
		if err != nil {
			s.w.CancelRow(i)
			return err
		}
		if entered != control.Value {
			control.Value = entered
			control.FireChange()
		}
	}

	save, err := s.driver.Confirm(ctx, ConfirmConfig{
		Message: "Save changes?",
		Default: true,
	})
	if err != nil {
		s.w.CancelRow(i)
		return err
	}
	if save {
		s.w.SaveRow(i)
	} else {
		s.w.CancelRow(i)
	}
	return nil
}

func summarize(record any) string {
	if m, ok := record.(map[string]any); ok {
		for _, key := range []string{"name", "title", "label", "id"} {
			if s, ok := m[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return value.Stringify(record)
}
