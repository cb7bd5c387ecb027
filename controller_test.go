package ggedit

import (
	"errors"
	"testing"
	"time"
)

const rectPayload = `{"id":"rect","name":"Rectangle","svg":"<rect width=\"100\" height=\"60\"/>"}`

func newTestController(t *testing.T, ids ...string) (*Controller, *Store, *Selection, *History) {
	t.Helper()
	s := storeWith(t, ids...)
	sel := NewSelection(s)
	h := NewHistory(0)
	h.Record(s.Snapshot())
	canvas := DefaultCanvas()
	clock := func() time.Time { return time.UnixMilli(1000) }
	return NewController(s, sel, h, &canvas, clock), s, sel, h
}

func TestDropSnapsAndSelects(t *testing.T) {
	c, s, sel, h := newTestController(t)
	el, err := c.Drop([]byte(rectPayload), 133, 47)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if el.Geometry.X != 140 || el.Geometry.Y != 40 {
		t.Errorf("position = (%v, %v), want (140, 40)", el.Geometry.X, el.Geometry.Y)
	}
	if el.ID != "rect_1000" || el.Template != "rect" || el.Name != "Rectangle" {
		t.Errorf("element = %q template=%q name=%q", el.ID, el.Template, el.Name)
	}
	if el.Kind != KindRectangle || el.Geometry.Width != DefaultWidth {
		t.Errorf("kind=%v width=%v", el.Kind, el.Geometry.Width)
	}
	if id, _ := sel.ID(); id != el.ID {
		t.Errorf("selection = %q, want %q", id, el.ID)
	}
	if s.Len() != 1 || h.Len() != 2 {
		t.Errorf("store len=%d history len=%d", s.Len(), h.Len())
	}
}

func TestDropIDsStayUnique(t *testing.T) {
	c, _, _, _ := newTestController(t)
	a, _ := c.Drop([]byte(rectPayload), 0, 0)
	b, err := c.Drop([]byte(rectPayload), 0, 0)
	if err != nil {
		t.Fatalf("second Drop: %v", err)
	}
	if a.ID == b.ID || b.ID != "rect_1001" {
		t.Errorf("ids = %q, %q", a.ID, b.ID)
	}
}

func TestMalformedDropAbandoned(t *testing.T) {
	payloads := []string{
		`not json`,
		`{"name":"x","svg":"<rect/>"}`,
		`{"id":"bad","svg":"<script>alert(1)</script>"}`,
		`{"id":"empty","svg":""}`,
	}
	for _, p := range payloads {
		c, s, sel, h := newTestController(t)
		_, err := c.Drop([]byte(p), 10, 10)
		if !errors.Is(err, ErrInvalidPayload) {
			t.Errorf("Drop(%s) err = %v, want ErrInvalidPayload", p, err)
		}
		if s.Len() != 0 || h.Len() != 1 {
			t.Errorf("Drop(%s) left state behind: len=%d history=%d", p, s.Len(), h.Len())
		}
		if _, ok := sel.ID(); ok {
			t.Errorf("Drop(%s) changed the selection", p)
		}
	}
}

func TestDragMovesWithSnap(t *testing.T) {
	c, s, sel, h := newTestController(t, "a")
	c.PointerDown(10, 10)
	if c.State() != StateDragging {
		t.Fatalf("state = %v, want dragging", c.State())
	}
	if id, _ := sel.ID(); id != "a" {
		t.Errorf("selection = %q, want a", id)
	}
	c.PointerMove(143, 71)
	el, _ := s.Get("a")
	if el.Geometry.X != 140 || el.Geometry.Y != 60 {
		t.Errorf("dragged to (%v, %v), want (140, 60)", el.Geometry.X, el.Geometry.Y)
	}
	c.PointerUp()
	if c.State() != StateIdle {
		t.Errorf("state after up = %v", c.State())
	}
	if h.Len() != 1 {
		t.Errorf("drag recorded history: len = %d", h.Len())
	}
}

func TestLockedElementNotDraggedOrDeleted(t *testing.T) {
	c, s, sel, h := newTestController(t, "a")
	s.Update("a", Patch{Locked: Ptr(true)})

	c.PointerDown(10, 10)
	if c.State() != StateIdle {
		t.Error("locked element started a drag")
	}
	if id, _ := sel.ID(); id != "a" {
		t.Errorf("locked hit should still select: %q", id)
	}
	c.PointerMove(200, 200)
	if el, _ := s.Get("a"); el.Geometry.X != 0 {
		t.Errorf("locked element moved to x=%v", el.Geometry.X)
	}
	if c.Key(KeyEvent{Key: "Delete"}) {
		t.Error("Delete consumed for a locked element")
	}
	if s.Len() != 1 || h.Len() != 1 {
		t.Errorf("locked delete mutated state: len=%d history=%d", s.Len(), h.Len())
	}
}

func TestPointerDownMissClearsSelection(t *testing.T) {
	c, _, sel, _ := newTestController(t, "a")
	sel.Select("a")
	c.PointerDown(500, 500)
	if _, ok := sel.ID(); ok {
		t.Error("miss did not clear the selection")
	}
}

func TestHitTestTopMostVisible(t *testing.T) {
	c, s, _, _ := newTestController(t, "a", "b")
	if el, ok := c.HitTest(20, 20); !ok || el.ID != "b" {
		t.Errorf("HitTest = %q, want top-most b", el.ID)
	}
	s.Update("b", Patch{Visible: Ptr(false)})
	if el, ok := c.HitTest(20, 20); !ok || el.ID != "a" {
		t.Errorf("HitTest = %q, want a once b is hidden", el.ID)
	}
}

func TestHitTestRotated(t *testing.T) {
	c, s, _, _ := newTestController(t, "a")
	s.Update("a", Patch{X: Ptr(100.0), Y: Ptr(100.0), Rotation: Ptr(90.0)})
	// Rotated 90° about its origin, the box covers x in [0, 100], y in [100, 200].
	if _, ok := c.HitTest(50, 150); !ok {
		t.Error("rotated box missed an interior point")
	}
	if _, ok := c.HitTest(150, 150); ok {
		t.Error("rotated box hit a point outside it")
	}
}

func TestDeleteKeyClearsSelection(t *testing.T) {
	c, s, sel, h := newTestController(t, "a", "b")
	sel.Select("a")
	if !c.Key(KeyEvent{Key: "Backspace"}) {
		t.Fatal("Backspace not consumed")
	}
	if s.IndexOf("a") >= 0 {
		t.Error("a still in store")
	}
	if _, ok := sel.ID(); ok {
		t.Error("selection still set after delete")
	}
	if h.Len() != 2 {
		t.Errorf("history len = %d, want 2", h.Len())
	}
	if c.Key(KeyEvent{Key: "Delete"}) {
		t.Error("Delete with empty selection consumed")
	}
}

func TestEscapeClearsSelection(t *testing.T) {
	c, _, sel, _ := newTestController(t, "a")
	sel.Select("a")
	c.Handle(KeyEvent{Key: "Escape"})
	if _, ok := sel.ID(); ok {
		t.Error("Escape left the selection")
	}
}

func TestAlignCenter(t *testing.T) {
	c, s, sel, h := newTestController(t, "a")
	sel.Select("a")
	if !c.Align(AlignCenter) {
		t.Fatal("Align(center) = false")
	}
	el, _ := s.Get("a")
	if el.Geometry.X != 350 {
		t.Errorf("x = %v, want 350", el.Geometry.X)
	}
	if h.Len() != 1 {
		t.Errorf("Align recorded history: len = %d", h.Len())
	}
}

func TestAligned(t *testing.T) {
	g := Geometry{X: 10, Y: 10, Width: 100, Height: 50}
	tests := []struct {
		kind AlignKind
		x, y float64
	}{
		{AlignLeft, 0, 10},
		{AlignCenter, 350, 10},
		{AlignRight, 700, 10},
		{AlignTop, 10, 0},
		{AlignMiddle, 10, 275},
		{AlignBottom, 10, 550},
	}
	for _, tt := range tests {
		x, y := Aligned(g, tt.kind, 800, 600)
		if x != tt.x || y != tt.y {
			t.Errorf("Aligned(%s) = (%v, %v), want (%v, %v)", tt.kind, x, y, tt.x, tt.y)
		}
	}
}
