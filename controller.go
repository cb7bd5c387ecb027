package ggedit

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/gogpu/ggedit/fragment"
)

// State is the controller's pointer state.
type State uint8

const (
	StateIdle State = iota
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	}
	return "unknown"
}

// Event is an input event handled by the controller.
type Event interface {
	isEvent()
}

// DropEvent carries a creation payload released at canvas (X, Y).
type DropEvent struct {
	Payload []byte
	X, Y    float64
}

// PointerDownEvent is a press at canvas (X, Y).
type PointerDownEvent struct{ X, Y float64 }

// PointerMoveEvent is a pointer move to canvas (X, Y).
type PointerMoveEvent struct{ X, Y float64 }

// PointerUpEvent is a pointer release.
type PointerUpEvent struct{}

// KeyEvent is a key press with its modifiers. Key uses DOM key names
// ("Delete", "Backspace", "Escape", "z").
type KeyEvent struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl"`
	Shift bool   `json:"shift"`
	Meta  bool   `json:"meta"`
}

func (DropEvent) isEvent()        {}
func (PointerDownEvent) isEvent() {}
func (PointerMoveEvent) isEvent() {}
func (PointerUpEvent) isEvent()   {}
func (KeyEvent) isEvent()         {}

// Payload is an element creation payload. SVG is a drawable fragment;
// Category is optional and only refines the element kind.
type Payload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SVG      string `json:"svg"`
	Category string `json:"category,omitempty"`
}

// Controller turns pointer and keyboard input into store, selection and
// history operations.
type Controller struct {
	store   *Store
	sel     *Selection
	history *History
	canvas  *Canvas
	now     func() time.Time

	state      State
	dragID     string
	offX, offY float64
}

// NewController returns an idle controller. canvas is read on every event,
// so later changes to grid or snapping take effect immediately.
func NewController(store *Store, sel *Selection, history *History, canvas *Canvas, now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	return &Controller{store: store, sel: sel, history: history, canvas: canvas, now: now}
}

// State returns the current pointer state.
func (c *Controller) State() State { return c.state }

// Handle dispatches ev. Only drops can fail.
func (c *Controller) Handle(ev Event) error {
	switch e := ev.(type) {
	case DropEvent:
		_, err := c.Drop(e.Payload, e.X, e.Y)
		return err
	case PointerDownEvent:
		c.PointerDown(e.X, e.Y)
	case PointerMoveEvent:
		c.PointerMove(e.X, e.Y)
	case PointerUpEvent:
		c.PointerUp()
	case KeyEvent:
		c.Key(e)
	}
	return nil
}

// Drop creates an element from payload at (x, y), snapped when snapping is
// on, records history and selects it. A malformed payload abandons the
// drop, is logged, and returns an error wrapping ErrInvalidPayload.
func (c *Controller) Drop(payload []byte, x, y float64) (Element, error) {
	el, err := c.fromPayload(payload, x, y)
	if err != nil {
		Logger().Warn("ggedit: drop abandoned", "error", err)
		return Element{}, err
	}
	el, err = c.store.Add(el)
	if err != nil {
		Logger().Warn("ggedit: drop abandoned", "error", err)
		return Element{}, err
	}
	c.history.Record(c.store.Snapshot())
	c.sel.Select(el.ID)
	Logger().Debug("ggedit: element dropped", "id", el.ID, "x", el.Geometry.X, "y", el.Geometry.Y)
	return el, nil
}

func (c *Controller) fromPayload(data []byte, x, y float64) (Element, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Element{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if p.ID == "" {
		return Element{}, fmt.Errorf("%w: missing template id", ErrInvalidPayload)
	}
	content, err := fragment.Parse(p.SVG)
	if err != nil {
		return Element{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	name := fragment.CleanText(p.Name)
	if name == "" {
		name = p.ID
	}
	x, y = c.canvas.SnapPoint(x, y)
	return NewElement(c.uniqueID(p.ID), p.ID, name, KindOf(p.Category, content), content, x, y), nil
}

// uniqueID derives "<template>_<unix millis>", bumping the timestamp until
// the id is free.
func (c *Controller) uniqueID(template string) string {
	ms := c.now().UnixMilli()
	for {
		id := template + "_" + strconv.FormatInt(ms, 10)
		if c.store.IndexOf(id) < 0 {
			return id
		}
		ms++
	}
}

// PointerDown selects the top-most visible element under (x, y). An
// unlocked hit starts a drag; a locked hit only selects; a miss clears the
// selection.
func (c *Controller) PointerDown(x, y float64) {
	el, ok := c.HitTest(x, y)
	if !ok {
		c.sel.Clear()
		c.endDrag()
		return
	}
	c.sel.Select(el.ID)
	if el.Locked {
		c.endDrag()
		return
	}
	c.state = StateDragging
	c.dragID = el.ID
	c.offX = x - el.Geometry.X
	c.offY = y - el.Geometry.Y
	Logger().Debug("ggedit: drag start", "id", el.ID)
}

// PointerMove moves the dragged element to pointer minus offset, snapped.
// No history is recorded.
func (c *Controller) PointerMove(x, y float64) {
	if c.state != StateDragging {
		return
	}
	nx, ny := c.canvas.SnapPoint(x-c.offX, y-c.offY)
	if _, ok := c.store.Update(c.dragID, Patch{X: &nx, Y: &ny}); !ok {
		// The element vanished mid-drag (undo, delete).
		c.endDrag()
	}
}

// PointerUp ends a drag. No history is recorded.
func (c *Controller) PointerUp() {
	if c.state == StateDragging {
		Logger().Debug("ggedit: drag end", "id", c.dragID)
	}
	c.endDrag()
}

func (c *Controller) endDrag() {
	c.state = StateIdle
	c.dragID = ""
	c.offX, c.offY = 0, 0
}

// Reset returns the controller to idle, abandoning any drag.
func (c *Controller) Reset() { c.endDrag() }

// Key handles Delete/Backspace (remove the unlocked selection, record
// history) and Escape (clear the selection). It reports whether the key
// was consumed.
func (c *Controller) Key(k KeyEvent) bool {
	switch k.Key {
	case "Delete", "Backspace":
		el, ok := c.sel.Current()
		if !ok || el.Locked {
			return false
		}
		c.store.Remove(el.ID)
		c.history.Record(c.store.Snapshot())
		if c.dragID == el.ID {
			c.endDrag()
		}
		return true
	case "Escape":
		c.sel.Clear()
		return true
	}
	return false
}

// HitTest returns the top-most visible element whose box contains the
// canvas point (x, y). The box spans (0, 0)-(Width, Height) in the
// element's rotated local frame.
func (c *Controller) HitTest(x, y float64) (Element, bool) {
	list := c.store.List()
	for i := len(list) - 1; i >= 0; i-- {
		el := list[i]
		if !el.Visible {
			continue
		}
		lx, ly := toLocal(el.Geometry, x, y)
		if lx >= 0 && ly >= 0 && lx <= el.Geometry.Width && ly <= el.Geometry.Height {
			return el, true
		}
	}
	return Element{}, false
}

func toLocal(g Geometry, x, y float64) (float64, float64) {
	dx, dy := x-g.X, y-g.Y
	if g.Rotation == 0 {
		return dx, dy
	}
	rad := -g.Rotation * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return dx*cos - dy*sin, dx*sin + dy*cos
}
