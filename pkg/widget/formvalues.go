package widget

import (
	"encoding/json"
	"net/url"

	"github.com/ColmKenna/ck-editable-array-sub000/pkg/dom"
)

// FormValues builds the widget's form-encodable key/value multiset from the
// currently mounted controls, the way a native form would read them: named,
// enabled controls contribute; checkboxes and radios only while checked.
// When the widget has a name, each record additionally contributes one entry
// under that name as JSON; a record that cannot serialize is skipped rather
// than failing the whole multiset.
func (w *Widget) FormValues() url.Values {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.formValuesLocked()
}

func (w *Widget) formValuesLocked() url.Values {
	values := url.Values{}
	for i := 0; i < w.renderer.RowCount(); i++ {
		rb := w.renderer.Binding(i)
		if rb == nil {
			continue
		}
		rb.Root.Walk(func(n *dom.Node) bool {
			collectControl(values, n)
			return true
		})
	}
	if w.name != "" {
		for _, rec := range w.data {
			payload, err := json.Marshal(rec)
			if err != nil {
				continue
			}
			values.Add(w.name, string(payload))
		}
	}
	return values
}

func collectControl(values url.Values, n *dom.Node) {
	if !n.IsFormControl() || n.Disabled() {
		return
	}
	name := n.AttrOr("name", "")
	if name == "" {
		return
	}
	switch n.InputType() {
	case "checkbox", "radio":
		if !n.Checked {
			return
		}
		values.Add(name, n.AttrOr("value", "on"))
	default:
		values.Add(name, n.Value)
	}
}
