package ggedit

import (
	"strconv"
	"strings"
	"time"
)

// DuplicateOffset is how far a duplicate is shifted from its source.
const DuplicateOffset = 20

// Editor wires the store, selection, history, layer service and
// controller together, and adds the actions a surrounding page performs
// itself: undo/redo, keyboard shortcuts, property edits and toggles.
//
// The history log is seeded with the initial element list, so the first
// recorded mutation can be undone.
type Editor struct {
	store      *Store
	selection  *Selection
	history    *History
	layers     *Layers
	controller *Controller
	canvas     *Canvas
	now        func() time.Time
}

// New creates an editor.
func New(opts ...Option) *Editor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	e := &Editor{
		store:   NewStore(),
		history: NewHistory(o.capacity),
		now:     o.now,
	}
	canvas := o.canvas
	e.canvas = &canvas
	e.selection = NewSelection(e.store)
	e.layers = NewLayers(e.store, e.history)
	e.controller = NewController(e.store, e.selection, e.history, e.canvas, o.now)

	if o.elements != nil {
		if err := e.store.Replace(o.elements); err != nil {
			Logger().Warn("ggedit: initial elements ignored", "error", err)
		}
	}
	e.history.Record(e.store.Snapshot())
	return e
}

// Store returns the element store.
func (e *Editor) Store() *Store { return e.store }

// Selection returns the selection model.
func (e *Editor) Selection() *Selection { return e.selection }

// History returns the undo log.
func (e *Editor) History() *History { return e.history }

// Layers returns the layer ordering service.
func (e *Editor) Layers() *Layers { return e.layers }

// Controller returns the interaction controller.
func (e *Editor) Controller() *Controller { return e.controller }

// Canvas returns the live canvas settings. Changes apply to the next event.
func (e *Editor) Canvas() *Canvas { return e.canvas }

// Elements returns a copy of the element list in z-order.
func (e *Editor) Elements() []Element { return e.store.List() }

// Subscribe registers fn for store changes.
func (e *Editor) Subscribe(fn func(Change)) (cancel func()) {
	return e.store.Subscribe(fn)
}

// Load replaces the element list, resets the history to the loaded state
// and clears the selection.
func (e *Editor) Load(elems []Element) error {
	if err := e.store.Replace(elems); err != nil {
		return err
	}
	e.controller.Reset()
	e.selection.Clear()
	e.history.Reset()
	e.history.Record(e.store.Snapshot())
	return nil
}

// Add stores el at the top of the z-order and records history.
func (e *Editor) Add(el Element) (Element, error) {
	out, err := e.store.Add(el)
	if err != nil {
		return Element{}, err
	}
	e.history.Record(e.store.Snapshot())
	return out, nil
}

// Update applies a property patch. Property edits record no history.
func (e *Editor) Update(id string, p Patch) (Element, bool) {
	return e.store.Update(id, p)
}

// Delete removes id regardless of its lock and records history.
func (e *Editor) Delete(id string) bool {
	if !e.store.Remove(id) {
		return false
	}
	e.history.Record(e.store.Snapshot())
	return true
}

// Duplicate copies id, offset by DuplicateOffset, places it on top,
// selects it and records history.
func (e *Editor) Duplicate(id string) (Element, bool) {
	src, ok := e.store.Get(id)
	if !ok {
		return Element{}, false
	}
	dup := src.Clone()
	base := src.Template
	if base == "" {
		base = src.ID
	}
	dup.ID = e.freshID(base)
	dup.Name = strings.TrimSpace(src.Name + " copy")
	dup.Geometry.X += DuplicateOffset
	dup.Geometry.Y += DuplicateOffset
	dup.Locked = false

	out, err := e.store.Add(dup)
	if err != nil {
		return Element{}, false
	}
	e.history.Record(e.store.Snapshot())
	e.selection.Select(out.ID)
	return out, true
}

func (e *Editor) freshID(base string) string {
	ms := e.now().UnixMilli()
	for {
		id := base + "_" + strconv.FormatInt(ms, 10)
		if e.store.IndexOf(id) < 0 {
			return id
		}
		ms++
	}
}

// ToggleVisible flips the visibility of id. No history is recorded.
func (e *Editor) ToggleVisible(id string) bool {
	el, ok := e.store.Get(id)
	if !ok {
		return false
	}
	v := !el.Visible
	_, ok = e.store.Update(id, Patch{Visible: &v})
	return ok
}

// ToggleLocked flips the lock of id. No history is recorded.
func (e *Editor) ToggleLocked(id string) bool {
	el, ok := e.store.Get(id)
	if !ok {
		return false
	}
	v := !el.Locked
	_, ok = e.store.Update(id, Patch{Locked: &v})
	return ok
}

// Undo restores the previous snapshot and clears the selection.
func (e *Editor) Undo() bool {
	snap, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.restore(snap)
	return true
}

// Redo restores the next snapshot and clears the selection.
func (e *Editor) Redo() bool {
	snap, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.restore(snap)
	return true
}

func (e *Editor) restore(snap Snapshot) {
	e.controller.Reset()
	e.store.Restore(snap)
	e.selection.Clear()
}

// Group is the group action exposed by the toolbar. Grouping has no data
// model, so it always fails.
func (e *Editor) Group() error { return ErrGroupingUnsupported }

// Ungroup is the ungroup action exposed by the toolbar. It always fails.
func (e *Editor) Ungroup() error { return ErrGroupingUnsupported }

// Shortcut handles page level shortcuts (Ctrl/Cmd+Z undo, Ctrl/Cmd+Shift+Z
// and Ctrl/Cmd+Y redo, Ctrl/Cmd+G group) and passes other keys to the
// controller. It reports whether the key was consumed.
func (e *Editor) Shortcut(k KeyEvent) bool {
	if k.Ctrl || k.Meta {
		switch strings.ToLower(k.Key) {
		case "z":
			if k.Shift {
				return e.Redo()
			}
			return e.Undo()
		case "y":
			return e.Redo()
		case "g":
			action := e.Group
			if k.Shift {
				action = e.Ungroup
			}
			if err := action(); err != nil {
				Logger().Debug("ggedit: shortcut ignored", "key", k.Key, "shift", k.Shift, "error", err)
			}
			return false
		}
		return false
	}
	return e.controller.Key(k)
}
