package rows

import "github.com/ColmKenna/ck-editable-array-sub000/pkg/dom"

// ActionAttr marks an element as an action trigger. Click delegation at the
// rows container resolves the nearest marker to decide what a click means.
const ActionAttr = "data-action"

// Action names the row operations a template or the built-in buttons can
// trigger.
type Action string

const (
	ActionToggle   Action = "toggle"
	ActionSave     Action = "save"
	ActionCancel   Action = "cancel"
	ActionDelete   Action = "delete"
	ActionMoveUp   Action = "move-up"
	ActionMoveDown Action = "move-down"
)

// ActionOf resolves the action marker nearest to n, walking ancestors so a
// click on a button's icon still maps to the button's action. A disabled
// marker resolves to no action, matching how a disabled button swallows
// activation.
func ActionOf(n *dom.Node) (Action, bool) {
	marked := n.ClosestWithAttr(ActionAttr)
	if marked == nil || marked.Disabled() {
		return "", false
	}
	return Action(marked.AttrOr(ActionAttr, "")), true
}

// Labels carries the user-facing button texts. Zero fields fall back to the
// defaults, so callers override only what they need.
type Labels struct {
	Edit     string
	Save     string
	Cancel   string
	Delete   string
	Undelete string
	MoveUp   string
	MoveDown string
}

// DefaultLabels returns the built-in button texts.
func DefaultLabels() Labels {
	return Labels{
		Edit:     "Edit",
		Save:     "Save",
		Cancel:   "Cancel",
		Delete:   "Delete",
		Undelete: "Undelete",
		MoveUp:   "Move up",
		MoveDown: "Move down",
	}
}

func (l Labels) withDefaults() Labels {
	d := DefaultLabels()
	if l.Edit == "" {
		l.Edit = d.Edit
	}
	if l.Save == "" {
		l.Save = d.Save
	}
	if l.Cancel == "" {
		l.Cancel = d.Cancel
	}
	if l.Delete == "" {
		l.Delete = d.Delete
	}
	if l.Undelete == "" {
		l.Undelete = d.Undelete
	}
	if l.MoveUp == "" {
		l.MoveUp = d.MoveUp
	}
	if l.MoveDown == "" {
		l.MoveDown = d.MoveDown
	}
	return l
}
