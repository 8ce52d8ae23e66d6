package widget_test

import (
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ColmKenna/ck-editable-array-sub000/pkg/dom"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/rows"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/schedule"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/testsupport"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/widget"
)

func newWidget(t *testing.T, opts ...widget.Option) (*widget.Widget, *schedule.Manual) {
	t.Helper()
	sched := schedule.NewManual()
	base := []widget.Option{
		widget.WithDisplayTemplate(testsupport.DisplayTemplate),
		widget.WithEditTemplate(testsupport.EditTemplate),
		widget.WithScheduler(sched),
	}
	w, err := widget.New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("widget.New: %v", err)
	}
	return w, sched
}

func control(t *testing.T, w *widget.Widget, i int) *dom.Node {
	t.Helper()
	cs := w.Controls(i)
	if len(cs) == 0 {
		t.Fatalf("row %d has no bound controls", i)
	}
	return cs[0]
}

func rowButton(t *testing.T, w *widget.Widget, i int, action rows.Action) *dom.Node {
	t.Helper()
	b := w.Element().Find(func(n *dom.Node) bool {
		if n.AttrOr(rows.ActionAttr, "") != string(action) {
			return false
		}
		row := n.ClosestWithAttr("data-index")
		return row != nil && row.AttrOr("data-index", "") == strconv.Itoa(i)
	})
	if b == nil {
		t.Fatalf("row %d has no %s button", i, action)
	}
	return b
}

func TestNewRejectsInvalidConfiguration(t *testing.T) {
	if _, err := widget.New(widget.WithChangeMode("eventually")); err == nil {
		t.Fatal("unknown change mode accepted")
	}
	if _, err := widget.New(widget.WithChangeDebounce(-time.Second)); err == nil {
		t.Fatal("negative debounce accepted")
	}
}

func TestDataCloneIsolation(t *testing.T) {
	input := []any{map[string]any{"name": "Alice"}}
	w, _ := newWidget(t, widget.WithData(input))

	// Mutating the value passed to the setter must not reach stored state.
	input[0].(map[string]any)["name"] = "tampered"
	if got := w.Data()[0].(map[string]any)["name"]; got != "Alice" {
		t.Fatalf("setter aliasing: stored name = %v", got)
	}

	// Mutating a getter result must not change later getter results.
	first := w.Data()
	first[0].(map[string]any)["name"] = "tampered"
	if got := w.Data()[0].(map[string]any)["name"]; got != "Alice" {
		t.Fatalf("getter aliasing: stored name = %v", got)
	}
}

func TestSetDataNormalizesNonSequences(t *testing.T) {
	w, _ := newWidget(t)
	for _, v := range []any{nil, "text", float64(7), map[string]any{"a": float64(1)}, struct{}{}} {
		w.SetData(v)
		if got := w.Data(); len(got) != 0 || got == nil {
			t.Fatalf("SetData(%#v) => %#v, want empty non-nil sequence", v, got)
		}
	}
}

func TestRowCountTracksData(t *testing.T) {
	w, _ := newWidget(t, widget.WithData(testsupport.People()))
	rowCount := func() int {
		return len(w.Element().FindAllByAttr("data-index"))
	}
	if got := rowCount(); got != 3 {
		t.Fatalf("rows = %d, want 3", got)
	}
	w.SetData([]any{map[string]any{"name": "only"}})
	if got := rowCount(); got != 1 {
		t.Fatalf("rows after shrink = %d, want 1", got)
	}
	w.SetData(testsupport.People())
	if got := rowCount(); got != 3 {
		t.Fatalf("rows after regrow = %d, want 3", got)
	}
}

func TestMissingDisplayTemplateRendersPlaceholder(t *testing.T) {
	sched := schedule.NewManual()
	w, err := widget.New(
		widget.WithData(testsupport.People()),
		widget.WithScheduler(sched),
	)
	if err != nil {
		t.Fatalf("widget.New: %v", err)
	}
	placeholder := w.Element().Find(func(n *dom.Node) bool { return n.HasClass("ea-placeholder") })
	if placeholder == nil {
		t.Fatal("no placeholder rendered")
	}
	if len(w.Element().FindAllByAttr("data-index")) != 0 {
		t.Fatal("rows rendered without a display template")
	}
}

func TestSingleEditInvariant(t *testing.T) {
	w, _ := newWidget(t, widget.WithData(testsupport.People()))
	if !w.EnterEdit(0) {
		t.Fatal("EnterEdit(0) refused")
	}
	if w.EnterEdit(1) || w.EnterEdit(2) {
		t.Fatal("second EnterEdit accepted while row 0 edits")
	}
	if !w.SaveRow(0) {
		t.Fatal("SaveRow(0) refused")
	}
	if !w.EnterEdit(1) {
		t.Fatal("EnterEdit(1) refused after save released row 0")
	}
}

func TestCancelRestoresExactly(t *testing.T) {
	w, _ := newWidget(t, widget.WithData([]any{map[string]any{"name": "Alice"}}))
	w.EnterEdit(0)

	ctl := control(t, w, 0)
	ctl.Value = "Alicia"
	ctl.FireInput()

	if got := w.Data()[0].(map[string]any)["name"]; got != "Alicia" {
		t.Fatalf("record during edit = %v, want Alicia", got)
	}
	if !w.CancelRow(0) {
		t.Fatal("CancelRow refused")
	}
	if got := w.Data()[0].(map[string]any)["name"]; got != "Alice" {
		t.Fatalf("record after cancel = %v, want Alice", got)
	}
	if got := control(t, w, 0).Value; got != "Alice" {
		t.Fatalf("control after cancel = %q, want Alice", got)
	}
}

func TestSaveCommitsWithSingleRowChanged(t *testing.T) {
	rec := &testsupport.Recorder{}
	w, _ := newWidget(t,
		widget.WithData([]any{map[string]any{"name": "Alice"}}),
		widget.WithChangeMode(widget.ChangeModeSave),
	)
	w.OnRowChanged(func(e widget.RowChangedEvent) { rec.Logf("rowchanged:%d", e.Index) })
	w.OnDataChanged(func(widget.DataChangedEvent) { rec.Logf("datachanged") })

	w.EnterEdit(0)
	ctl := control(t, w, 0)
	ctl.Value = "Alicia"
	ctl.FireInput()

	if got := rec.Count("rowchanged:0"); got != 1 {
		t.Fatalf("rowchanged fired %d times during input, want 1", got)
	}
	if rec.Count("datachanged") != 0 {
		t.Fatal("datachanged fired before save under the save cadence")
	}

	if !w.SaveRow(0) {
		t.Fatal("SaveRow refused")
	}
	if got := w.Data()[0].(map[string]any)["name"]; got != "Alicia" {
		t.Fatalf("record after save = %v, want Alicia", got)
	}
	if got := rec.Count("datachanged"); got != 1 {
		t.Fatalf("datachanged fired %d times on save, want 1", got)
	}
}

func TestToggleModeEventsAndCancellation(t *testing.T) {
	rec := &testsupport.Recorder{}
	w, _ := newWidget(t, widget.WithData(testsupport.People()))
	veto := false
	w.OnBeforeToggleMode(func(e *widget.BeforeToggleModeEvent) {
		rec.Logf("before:%s:%d", e.Mode, e.RowIndex)
		if veto {
			e.PreventDefault()
		}
	})
	w.OnAfterToggleMode(func(e widget.ToggleModeEvent) {
		rec.Logf("after:%s:%d", e.Mode, e.RowIndex)
	})

	veto = true
	if w.EnterEdit(0) {
		t.Fatal("vetoed EnterEdit reported success")
	}
	veto = false
	if !w.EnterEdit(0) || !w.SaveRow(0) {
		t.Fatal("edit round trip refused")
	}
	want := []string{"before:edit:0", "before:edit:0", "after:edit:0", "after:display:0"}
	if diff := cmp.Diff(want, rec.Events); diff != "" {
		t.Fatalf("events (-want +got):\n%s", diff)
	}
}

func TestDebounceCoalescing(t *testing.T) {
	rec := &testsupport.Recorder{}
	var last []any
	w, sched := newWidget(t,
		widget.WithData([]any{map[string]any{"name": "Alice"}, map[string]any{"name": "Bob"}}),
		widget.WithChangeMode(widget.ChangeModeDebounced),
		widget.WithChangeDebounce(300*time.Millisecond),
	)
	w.OnDataChanged(func(e widget.DataChangedEvent) {
		rec.Logf("datachanged")
		last = e.Data
	})

	w.EnterEdit(0)
	ctl := control(t, w, 0)
	steps := []string{"A", "Al", "Ali", "Alic", "Alici", "Alicia", "Alicia", "Alicia", "Alicia", "Alicia"}
	for _, s := range steps {
		ctl.Value = s
		ctl.FireInput()
		sched.Advance(10 * time.Millisecond)
	}

	if rec.Count("datachanged") != 0 {
		t.Fatal("datachanged fired inside the debounce window")
	}
	sched.Advance(350 * time.Millisecond)

	if got := rec.Count("datachanged"); got != 1 {
		t.Fatalf("datachanged fired %d times, want exactly 1", got)
	}
	if got := last[0].(map[string]any)["name"]; got != "Alicia" {
		t.Fatalf("coalesced payload name = %v, want Alicia", got)
	}
	if got := last[1].(map[string]any)["name"]; got != "Bob" {
		t.Fatalf("unrelated row changed: %v", got)
	}
}

func TestChangeCadenceIgnoresKeystrokeEvents(t *testing.T) {
	rec := &testsupport.Recorder{}
	w, _ := newWidget(t,
		widget.WithData([]any{map[string]any{"name": "Alice"}}),
		widget.WithChangeMode(widget.ChangeModeChange),
	)
	w.OnDataChanged(func(widget.DataChangedEvent) { rec.Logf("datachanged") })

	w.EnterEdit(0)
	ctl := control(t, w, 0)
	ctl.Value = "Alicia"
	ctl.FireInput()
	if rec.Count("datachanged") != 0 {
		t.Fatal("change cadence reacted to an input-level event")
	}
	ctl.FireChange()
	if got := rec.Count("datachanged"); got != 1 {
		t.Fatalf("datachanged fired %d times on change, want 1", got)
	}
}

func TestAnimatedMoveScenario(t *testing.T) {
	rec := &testsupport.Recorder{}
	w, sched := newWidget(t,
		widget.WithData([]any{
			map[string]any{"x": float64(1)},
			map[string]any{"x": float64(2)},
			map[string]any{"x": float64(3)},
		}),
		widget.WithAllowReorder(true),
	)
	w.OnReorder(func(e widget.ReorderEvent) { rec.Logf("reorder:%d:%d", e.FromIndex, e.ToIndex) })
	w.OnDataChanged(func(widget.DataChangedEvent) { rec.Logf("datachanged") })

	if !w.MoveDown(0) {
		t.Fatal("MoveDown(0) rejected")
	}
	if !w.Animating() {
		t.Fatal("no animation in flight after accepted move")
	}
	// Data stays put until the transition window elapses.
	if got := w.Data()[0].(map[string]any)["x"]; got != float64(1) {
		t.Fatalf("data mutated before animation finished: %v", got)
	}
	// A second move during the animation is rejected, not queued.
	if w.MoveDown(1) {
		t.Fatal("concurrent move accepted while animating")
	}

	sched.Advance(250 * time.Millisecond)

	want := []any{
		map[string]any{"x": float64(2)},
		map[string]any{"x": float64(1)},
		map[string]any{"x": float64(3)},
	}
	if diff := cmp.Diff(want, w.Data()); diff != "" {
		t.Fatalf("data after move (-want +got):\n%s", diff)
	}
	if got := rec.Count("reorder:0:1"); got != 1 {
		t.Fatalf("reorder event fired %d times, want 1", got)
	}
	if got := rec.Count("datachanged"); got != 1 {
		t.Fatalf("datachanged fired %d times, want 1", got)
	}
	if w.Animating() {
		t.Fatal("animating flag survived completion")
	}
}

func TestMoveRejections(t *testing.T) {
	w, _ := newWidget(t,
		widget.WithData(testsupport.People()),
		widget.WithAllowReorder(true),
		widget.WithMotionQuery(func() bool { return true }),
	)
	if w.MoveUp(0) {
		t.Fatal("MoveUp(0) accepted at the top boundary")
	}
	if w.MoveDown(2) {
		t.Fatal("MoveDown(last) accepted at the bottom boundary")
	}
	if w.MoveUp(-1) || w.MoveDown(9) {
		t.Fatal("out-of-range move accepted")
	}

	w.EnterEdit(1)
	if w.MoveDown(0) {
		t.Fatal("move accepted while a row is editing")
	}
	w.CancelRow(1)

	w.SetReadOnly(true)
	if w.MoveDown(0) || w.MoveUp(1) {
		t.Fatal("move accepted under read-only")
	}
}

func TestReducedMotionMovesImmediately(t *testing.T) {
	w, sched := newWidget(t,
		widget.WithData(testsupport.Numbers()),
		widget.WithAllowReorder(true),
		widget.WithMotionQuery(func() bool { return true }),
	)
	if !w.MoveDown(0) {
		t.Fatal("MoveDown rejected")
	}
	if w.Animating() {
		t.Fatal("reduced motion still animated")
	}
	if sched.Pending() != 0 {
		t.Fatal("reduced-motion move scheduled a timer")
	}
	testsupport.Diff(t, []any{float64(2), float64(1), float64(3)}, w.Data())
}

func TestDragDropPreservesMembership(t *testing.T) {
	rec := &testsupport.Recorder{}
	w, _ := newWidget(t,
		widget.WithData(testsupport.Numbers()),
		widget.WithAllowReorder(true),
	)
	w.OnReorder(func(e widget.ReorderEvent) { rec.Logf("reorder:%d:%d", e.FromIndex, e.ToIndex) })

	if !w.MoveRow(2, 0) {
		t.Fatal("MoveRow(2, 0) rejected")
	}
	testsupport.Diff(t, []any{float64(3), float64(1), float64(2)}, w.Data())
	if got := rec.Count("reorder:2:0"); got != 1 {
		t.Fatalf("reorder event fired %d times, want 1", got)
	}

	if w.MoveRow(0, 0) || w.MoveRow(-1, 1) || w.MoveRow(1, 5) {
		t.Fatal("invalid drop accepted")
	}
}

func TestStructuralPollutionWritesDropped(t *testing.T) {
	for _, path := range []string{"__proto__.x", "constructor.prototype.x", "a.__proto__.b"} {
		w, _ := newWidget(t,
			widget.WithData([]any{map[string]any{"name": "Alice"}}),
			widget.WithEditTemplate(`<input type="text" data-bind="`+path+`">`),
		)
		fired := 0
		w.OnRowChanged(func(widget.RowChangedEvent) { fired++ })

		w.EnterEdit(0)
		ctl := control(t, w, 0)
		ctl.Value = "polluted"
		ctl.FireChange()

		testsupport.Diff(t, []any{map[string]any{"name": "Alice"}}, w.Data())
		if fired != 0 {
			t.Fatalf("path %q: dropped write still reported a row change", path)
		}
	}
}

func TestToggleDeleteCadence(t *testing.T) {
	rec := &testsupport.Recorder{}
	w, sched := newWidget(t,
		widget.WithData(testsupport.People()),
		widget.WithChangeMode(widget.ChangeModeChange),
	)
	w.OnDataChanged(func(widget.DataChangedEvent) { rec.Logf("datachanged") })
	w.OnRowChanged(func(e widget.RowChangedEvent) { rec.Logf("rowchanged:%d", e.Index) })

	// The change cadence fires unconditionally for delete toggles.
	if !w.ToggleDelete(1) {
		t.Fatal("ToggleDelete refused")
	}
	if rec.Count("datachanged") != 1 || rec.Count("rowchanged:1") != 1 {
		t.Fatalf("change-cadence delete toggle events: %v", rec.Events)
	}
	if got := w.Data()[1].(map[string]any)["isDeleted"]; got != true {
		t.Fatalf("flag = %v, want true", got)
	}
	// Deleted rows render but refuse edit.
	if w.EnterEdit(1) {
		t.Fatal("EnterEdit accepted on a deleted row")
	}

	// The debounced cadence schedules instead.
	rec.Reset()
	if err := w.SetChangeMode(widget.ChangeModeDebounced); err != nil {
		t.Fatalf("SetChangeMode: %v", err)
	}
	w.ToggleDelete(1)
	if rec.Count("datachanged") != 0 {
		t.Fatal("debounced delete toggle fired immediately")
	}
	sched.Advance(widget.DefaultChangeDebounce + time.Millisecond)
	if got := rec.Count("datachanged"); got != 1 {
		t.Fatalf("debounced delete toggle fired %d times, want 1", got)
	}
}

func TestClickDelegationDrivesActions(t *testing.T) {
	w, _ := newWidget(t,
		widget.WithData(testsupport.People()),
		widget.WithAllowReorder(true),
		widget.WithMotionQuery(func() bool { return true }),
	)

	rowButton(t, w, 0, rows.ActionToggle).FireClick()
	// Row 0 now edits, so another row cannot.
	if w.EnterEdit(1) {
		t.Fatal("toggle click did not enter edit mode on row 0")
	}
	ctl := control(t, w, 0)
	ctl.Value = "Ada"
	ctl.FireChange()
	rowButton(t, w, 0, rows.ActionSave).FireClick()
	if got := w.Data()[0].(map[string]any)["name"]; got != "Ada" {
		t.Fatalf("record after clicked save = %v, want Ada", got)
	}

	rowButton(t, w, 1, rows.ActionMoveUp).FireClick()
	if got := w.Data()[0].(map[string]any)["name"]; got != "Bob" {
		t.Fatalf("record after clicked move-up = %v, want Bob", got)
	}

	rowButton(t, w, 2, rows.ActionDelete).FireClick()
	if got := w.Data()[2].(map[string]any)["isDeleted"]; got != true {
		t.Fatalf("clicked delete flag = %v, want true", got)
	}
}

func TestEditStateFollowsObjectRecordsAcrossReorder(t *testing.T) {
	w, _ := newWidget(t,
		widget.WithData(testsupport.People()),
		widget.WithAllowReorder(true),
		widget.WithMotionQuery(func() bool { return true }),
	)
	w.EnterEdit(0)
	w.CancelRow(0)

	// Identity-keyed association: after a drag-drop the record at its new
	// slot still edits and cancels cleanly.
	w.MoveRow(0, 2)
	if !w.EnterEdit(2) {
		t.Fatal("EnterEdit refused after reorder")
	}
	ctl := control(t, w, 2)
	ctl.Value = "changed"
	ctl.FireChange()
	w.CancelRow(2)
	if got := w.Data()[2].(map[string]any)["name"]; got != "Alice" {
		t.Fatalf("record after post-reorder cancel = %v, want Alice", got)
	}
}

func TestPrimitiveRecordsUsePositionalEditState(t *testing.T) {
	// Primitive records cannot carry identity, so edit state is positional
	// and a wholesale data replacement invalidates it. This asymmetry with
	// object records is deliberate.
	w, _ := newWidget(t,
		widget.WithData(testsupport.Numbers()),
		widget.WithDisplayTemplate(`<span data-bind="v"></span>`),
	)
	if !w.EnterEdit(1) {
		t.Fatal("EnterEdit refused for a primitive record")
	}
	w.SetData(testsupport.Numbers())
	// Replacement cleared the positional table: no row is editing now.
	if !w.EnterEdit(0) {
		t.Fatal("EnterEdit refused after data replacement")
	}
}

func TestFormValues(t *testing.T) {
	w, _ := newWidget(t,
		widget.WithData([]any{
			map[string]any{"name": "Alice", "active": true},
			map[string]any{"name": "Bob", "active": false},
		}),
		widget.WithName("people"),
		widget.WithEditTemplate(`<input type="text" name="person" data-bind="name">
<input type="checkbox" name="active" data-bind="active">`),
	)
	values := w.FormValues()
	if diff := cmp.Diff([]string{"Alice", "Bob"}, values["person"]); diff != "" {
		t.Fatalf("person values (-want +got):\n%s", diff)
	}
	// Only the checked checkbox contributes.
	if diff := cmp.Diff([]string{"on"}, values["active"]); diff != "" {
		t.Fatalf("active values (-want +got):\n%s", diff)
	}
	if len(values["people"]) != 2 {
		t.Fatalf("widget-name entries = %d, want 2", len(values["people"]))
	}
}

func TestFormSinkFiresAfterDataChanged(t *testing.T) {
	var pushed []url.Values
	w, _ := newWidget(t,
		widget.WithChangeMode(widget.ChangeModeChange),
		widget.WithEditTemplate(`<input type="text" name="person" data-bind="name">`),
		widget.WithFormSink(func(v url.Values) { pushed = append(pushed, v) }),
	)
	w.SetData([]any{map[string]any{"name": "Alice"}})
	if len(pushed) != 1 {
		t.Fatalf("sink pushes after SetData = %d, want 1", len(pushed))
	}

	w.EnterEdit(0)
	ctl := control(t, w, 0)
	ctl.Value = "Alicia"
	ctl.FireChange()
	if len(pushed) != 2 {
		t.Fatalf("sink pushes after change = %d, want 2", len(pushed))
	}
	if got := pushed[1].Get("person"); got != "Alicia" {
		t.Fatalf("sink payload person = %q, want Alicia", got)
	}
}

func TestCloseCancelsDeferredWork(t *testing.T) {
	rec := &testsupport.Recorder{}
	w, sched := newWidget(t,
		widget.WithData(testsupport.Numbers()),
		widget.WithAllowReorder(true),
		widget.WithChangeMode(widget.ChangeModeDebounced),
	)
	w.OnDataChanged(func(widget.DataChangedEvent) { rec.Logf("datachanged") })

	if !w.MoveDown(0) {
		t.Fatal("MoveDown rejected")
	}
	before := w.Data()
	w.Close()
	sched.Advance(time.Second)

	if rec.Count("datachanged") != 0 {
		t.Fatal("notification fired after Close")
	}
	testsupport.Diff(t, before, w.Data())
	if len(w.Document().Root().Children()) != 0 {
		t.Fatal("root still attached after Close")
	}
}

func TestDetachedAnimationCompletionMutatesNothing(t *testing.T) {
	w, sched := newWidget(t,
		widget.WithData(testsupport.Numbers()),
		widget.WithAllowReorder(true),
	)
	if !w.MoveDown(0) {
		t.Fatal("MoveDown rejected")
	}
	// The host pulled the widget out of the tree mid-animation.
	w.Element().Detach()
	sched.Advance(time.Second)

	testsupport.Diff(t, testsupport.Numbers(), w.Data())
	if w.Animating() {
		t.Fatal("animating flag survived detached completion")
	}
}
