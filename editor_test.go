package ggedit

import (
	"errors"
	"reflect"
	"strconv"
	"testing"
	"time"
)

func newTestEditor(t *testing.T, ids ...string) *Editor {
	t.Helper()
	elems := make([]Element, len(ids))
	for i, id := range ids {
		elems[i] = testElement(id)
	}
	return New(WithElements(elems), WithClock(func() time.Time { return time.UnixMilli(5000) }))
}

func TestEditorUndoRedoRoundTrip(t *testing.T) {
	ed := newTestEditor(t)
	ed.Add(testElement("a"))
	ed.Add(testElement("b"))
	ed.Layers().BringToFront("a")
	after := ids(ed.Elements())

	for ed.Undo() {
	}
	if ed.Store().Len() != 0 {
		t.Fatalf("undo to baseline left %v", ids(ed.Elements()))
	}
	for ed.Redo() {
	}
	if got := ids(ed.Elements()); !reflect.DeepEqual(got, after) {
		t.Errorf("redo to end = %v, want %v", got, after)
	}
}

func TestEditorUndoClearsSelection(t *testing.T) {
	ed := newTestEditor(t)
	ed.Add(testElement("a"))
	ed.Selection().Select("a")
	ed.Update("a", Patch{X: Ptr(30.0)})

	if !ed.Undo() {
		t.Fatal("Undo = false")
	}
	if _, ok := ed.Selection().ID(); ok {
		t.Error("Undo kept the selection")
	}
	if ed.Store().Len() != 0 {
		t.Errorf("Undo should return to the empty baseline, got %v", ids(ed.Elements()))
	}
}

func TestEditorPropertyEditsNotRecorded(t *testing.T) {
	ed := newTestEditor(t, "a")
	ed.Update("a", Patch{Fill: Ptr("#FF0000")})
	ed.ToggleVisible("a")
	ed.ToggleLocked("a")
	if ed.History().Len() != 1 {
		t.Errorf("history len = %d, want baseline only", ed.History().Len())
	}
	el, _ := ed.Store().Get("a")
	if el.Visible || !el.Locked || el.Style.Fill != "#FF0000" {
		t.Errorf("element = visible:%v locked:%v fill:%q", el.Visible, el.Locked, el.Style.Fill)
	}
}

func TestEditorHistoryCap(t *testing.T) {
	ed := newTestEditor(t)
	for i := range 60 {
		ed.Add(testElement("e" + strconv.Itoa(i)))
	}
	if ed.History().Len() != DefaultHistoryCapacity {
		t.Errorf("history len = %d, want %d", ed.History().Len(), DefaultHistoryCapacity)
	}
	undos := 0
	for ed.Undo() {
		undos++
	}
	if undos != DefaultHistoryCapacity-1 {
		t.Errorf("undo steps = %d, want %d", undos, DefaultHistoryCapacity-1)
	}
	if ed.Store().Len() != 11 {
		t.Errorf("oldest reachable state has %d elements, want 11", ed.Store().Len())
	}
}

func TestEditorDuplicate(t *testing.T) {
	ed := newTestEditor(t, "a")
	ed.Update("a", Patch{X: Ptr(40.0), Y: Ptr(60.0), Locked: Ptr(true)})

	dup, ok := ed.Duplicate("a")
	if !ok {
		t.Fatal("Duplicate = false")
	}
	if dup.ID != "rect_5000" || dup.Name != "a copy" {
		t.Errorf("duplicate id=%q name=%q", dup.ID, dup.Name)
	}
	if dup.Geometry.X != 60 || dup.Geometry.Y != 80 || dup.Locked {
		t.Errorf("duplicate geometry=%+v locked=%v", dup.Geometry, dup.Locked)
	}
	if got := ids(ed.Elements()); !reflect.DeepEqual(got, []string{"a", "rect_5000"}) {
		t.Errorf("order = %v", got)
	}
	if id, _ := ed.Selection().ID(); id != dup.ID {
		t.Errorf("selection = %q, want duplicate", id)
	}
	if _, ok := ed.Duplicate("missing"); ok {
		t.Error("Duplicate(missing) = true")
	}
}

func TestEditorDeleteIgnoresLock(t *testing.T) {
	ed := newTestEditor(t, "a")
	ed.ToggleLocked("a")
	if !ed.Delete("a") {
		t.Fatal("Delete(a) = false")
	}
	if ed.Store().Len() != 0 || ed.History().Len() != 2 {
		t.Errorf("len=%d history=%d", ed.Store().Len(), ed.History().Len())
	}
}

func TestEditorShortcuts(t *testing.T) {
	ed := newTestEditor(t)
	ed.Add(testElement("a"))

	if !ed.Shortcut(KeyEvent{Key: "z", Ctrl: true}) || ed.Store().Len() != 0 {
		t.Fatal("Ctrl+Z did not undo")
	}
	if !ed.Shortcut(KeyEvent{Key: "y", Ctrl: true}) || ed.Store().Len() != 1 {
		t.Fatal("Ctrl+Y did not redo")
	}
	ed.Shortcut(KeyEvent{Key: "z", Meta: true})
	if !ed.Shortcut(KeyEvent{Key: "Z", Meta: true, Shift: true}) || ed.Store().Len() != 1 {
		t.Error("Cmd+Shift+Z did not redo")
	}
	if ed.Shortcut(KeyEvent{Key: "g", Ctrl: true}) {
		t.Error("Ctrl+G consumed")
	}
	ed.Selection().Select("a")
	if !ed.Shortcut(KeyEvent{Key: "Delete"}) || ed.Store().Len() != 0 {
		t.Error("Delete not routed to the controller")
	}
}

func TestEditorGroupingUnsupported(t *testing.T) {
	ed := New()
	if err := ed.Group(); !errors.Is(err, ErrGroupingUnsupported) {
		t.Errorf("Group err = %v", err)
	}
	if err := ed.Ungroup(); !errors.Is(err, ErrGroupingUnsupported) {
		t.Errorf("Ungroup err = %v", err)
	}
}

func TestEditorLoadResetsHistory(t *testing.T) {
	ed := newTestEditor(t)
	ed.Add(testElement("a"))
	if err := ed.Load([]Element{testElement("x"), testElement("y")}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ed.History().Len() != 1 || ed.Undo() {
		t.Error("Load left undoable history")
	}
	if err := ed.Load([]Element{{}}); !errors.Is(err, ErrEmptyID) {
		t.Errorf("Load with empty id err = %v", err)
	}
	if got := ids(ed.Elements()); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("failed Load changed elements: %v", got)
	}
}

func TestEditorDropThenUndo(t *testing.T) {
	ed := newTestEditor(t)
	if err := ed.Controller().Handle(DropEvent{Payload: []byte(rectPayload), X: 20, Y: 20}); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if ed.Store().Len() != 1 {
		t.Fatalf("len = %d after drop", ed.Store().Len())
	}
	ed.Undo()
	if ed.Store().Len() != 0 {
		t.Error("undo did not remove the dropped element")
	}
}
