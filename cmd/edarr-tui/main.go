// Command edarr-tui is an interactive terminal demo of the editable-array
// widget: navigate rows, edit fields inline, toggle deletes, and reorder,
// with the widget's own notifications echoed in a status pane.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	editablearray "github.com/ColmKenna/ck-editable-array-sub000"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/dom"
)

// styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cursorStyle  = lipgloss.NewStyle().Background(lipgloss.Color("4")).Foreground(lipgloss.Color("15"))
	deletedStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
)

type mode int

const (
	modeList mode = iota
	modeEdit
)

// eventLog collects widget notifications for the status pane. Everything runs
// on the bubbletea goroutine, so no locking.
type eventLog struct {
	lines []string
}

func (l *eventLog) add(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
	if len(l.lines) > 5 {
		l.lines = l.lines[len(l.lines)-5:]
	}
}

type model struct {
	w      *editablearray.Widget
	events *eventLog

	cursor int
	mode   mode

	// edit mode
	controls []*dom.Node
	inputs   []textinput.Model
	field    int
}

func initialModel(w *editablearray.Widget, events *eventLog) model {
	return model{w: w, events: events}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode == modeEdit {
			return m.updateEdit(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.w.Data())
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < count-1 {
			m.cursor++
		}
	case "K", "shift+up":
		if m.w.MoveUp(m.cursor) {
			m.cursor--
		}
	case "J", "shift+down":
		if m.w.MoveDown(m.cursor) {
			m.cursor++
		}
	case "d":
		m.w.ToggleDelete(m.cursor)
	case "enter":
		return m.enterEdit()
	}
	return m, nil
}

func (m model) enterEdit() (tea.Model, tea.Cmd) {
	if !m.w.EnterEdit(m.cursor) {
		m.events.add("row %d cannot be edited", m.cursor+1)
		return m, nil
	}

	m.controls = m.w.Controls(m.cursor)
	m.inputs = m.inputs[:0]
	for i, control := range m.controls {
		in := textinput.New()
		in.Prompt = ""
		in.SetValue(control.Value)
		if i == 0 {
			in.Focus()
		}
		m.inputs = append(m.inputs, in)
	}
	m.field = 0
	m.mode = modeEdit
	return m, textinput.Blink
}

func (m model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.w.CancelRow(m.cursor)
		m.mode = modeList
		return m, nil
	case "tab", "shift+tab":
		if len(m.inputs) > 0 {
			m.inputs[m.field].Blur()
			if msg.String() == "tab" {
				m.field = (m.field + 1) % len(m.inputs)
			} else {
				m.field = (m.field + len(m.inputs) - 1) % len(m.inputs)
			}
			m.inputs[m.field].Focus()
		}
		return m, nil
	case "enter":
		for i, control := range m.controls {
			entered := m.inputs[i].Value()
			if entered != control.Value {
				control.Value = entered
				control.FireChange()
			}
		}
		m.w.SaveRow(m.cursor)
		m.mode = modeList
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.field], cmd = m.inputs[m.field].Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("editable array"))
	b.WriteString("\n\n")

	records := m.w.Data()
	for i, record := range records {
		line := fmt.Sprintf("%d. %s", i+1, summarize(record))
		if deleted, _ := record.(map[string]any)["isDeleted"].(bool); deleted {
			line = deletedStyle.Render(line)
		}
		if i == m.cursor && m.mode == modeList {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(records) == 0 {
		b.WriteString(dimStyle.Render("no rows"))
		b.WriteString("\n")
	}

	if m.mode == modeEdit {
		b.WriteString("\n")
		for i, control := range m.controls {
			b.WriteString(labelStyle.Render(control.AttrOr("data-bind", "value")))
			b.WriteString(": ")
			b.WriteString(m.inputs[i].View())
			b.WriteString("\n")
		}
		b.WriteString(dimStyle.Render("tab next field · enter save · esc cancel"))
	} else {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("j/k move · J/K reorder · d delete · enter edit · q quit"))
	}

	if len(m.events.lines) > 0 {
		b.WriteString("\n\n")
		for _, line := range m.events.lines {
			b.WriteString(statusStyle.Render(line))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func summarize(record any) string {
	if m, ok := record.(map[string]any); ok {
		if name, ok := m["name"].(string); ok && name != "" {
			return name
		}
	}
	return fmt.Sprint(record)
}

func main() {
	dataPath := flag.String("data", "", "records file, JSON or YAML (sample data if empty)")
	flag.Parse()

	records := []any{
		map[string]any{"name": "Alice"},
		map[string]any{"name": "Bob"},
		map[string]any{"name": "Carol"},
	}
	if *dataPath != "" {
		raw, err := os.ReadFile(*dataPath)
		if err != nil {
			log.Fatalf("Failed to read records: %v", err)
		}
		records = nil
		if err := yaml.Unmarshal(raw, &records); err != nil {
			log.Fatalf("Failed to parse records: %v", err)
		}
	}

	events := &eventLog{}
	w, err := editablearray.New(
		editablearray.WithData(records),
		editablearray.WithDisplayTemplate(`<span data-bind="name"></span>`),
		editablearray.WithEditTemplate(`<input type="text" data-bind="name">`),
		editablearray.WithChangeMode(editablearray.ChangeModeChange),
		// Terminal rendering has no animation frames; complete moves at once.
		editablearray.WithMotionQuery(func() bool { return true }),
		editablearray.WithAnnouncer(func(msg string) { events.add("%s", msg) }),
	)
	if err != nil {
		log.Fatalf("Failed to build widget: %v", err)
	}
	defer w.Close()

	w.OnDataChanged(func(e editablearray.DataChangedEvent) {
		events.add("datachanged (%d rows)", len(e.Data))
	})
	w.OnReorder(func(e editablearray.ReorderEvent) {
		events.add("reorder %d -> %d", e.FromIndex+1, e.ToIndex+1)
	})

	if _, err := tea.NewProgram(initialModel(w, events)).Run(); err != nil {
		log.Fatalf("Failed to run program: %v", err)
	}
}
