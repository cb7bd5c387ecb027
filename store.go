package ggedit

import "fmt"

// ChangeOp identifies the kind of store mutation.
type ChangeOp uint8

const (
	ChangeAdded     ChangeOp = iota // Element appended
	ChangeUpdated                   // Element patched
	ChangeRemoved                   // Element deleted
	ChangeReordered                 // Element moved in z-order
	ChangeReplaced                  // Whole list replaced (undo, redo, load)
)

var changeOpNames = [...]string{
	ChangeAdded:     "added",
	ChangeUpdated:   "updated",
	ChangeRemoved:   "removed",
	ChangeReordered: "reordered",
	ChangeReplaced:  "replaced",
}

func (c ChangeOp) String() string {
	if int(c) < len(changeOpNames) {
		return changeOpNames[c]
	}
	return "unknown"
}

// Change describes one completed store mutation. ID is empty for
// ChangeReplaced.
type Change struct {
	Op ChangeOp
	ID string
}

type listener struct {
	id int
	fn func(Change)
}

// Store owns the ordered element list. Index 0 is the bottom of the
// z-order, the last index is the top.
//
// Store is not safe for concurrent use. All reads return deep copies, so
// callers can never mutate store state through a returned element.
type Store struct {
	elems     []Element
	listeners []listener
	nextID    int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Subscribe registers fn to run after every mutation. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) (cancel func()) {
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(c Change) {
	for _, l := range append([]listener(nil), s.listeners...) {
		l.fn(c)
	}
}

// Len returns the number of elements.
func (s *Store) Len() int { return len(s.elems) }

// IndexOf returns the z-order position of id, or -1.
func (s *Store) IndexOf(id string) int {
	for i := range s.elems {
		if s.elems[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns a copy of the element with the given id.
func (s *Store) Get(id string) (Element, bool) {
	i := s.IndexOf(id)
	if i < 0 {
		return Element{}, false
	}
	return s.elems[i].Clone(), true
}

// List returns a copy of all elements in z-order.
func (s *Store) List() []Element {
	out := make([]Element, len(s.elems))
	for i := range s.elems {
		out[i] = s.elems[i].Clone()
	}
	return out
}

// Add appends e at the top of the z-order and returns the stored copy.
func (s *Store) Add(e Element) (Element, error) {
	if e.ID == "" {
		return Element{}, ErrEmptyID
	}
	if s.IndexOf(e.ID) >= 0 {
		return Element{}, fmt.Errorf("%w: %q", ErrDuplicateID, e.ID)
	}
	e = e.Clone()
	e.normalize()
	s.elems = append(s.elems, e)
	s.notify(Change{Op: ChangeAdded, ID: e.ID})
	return e.Clone(), nil
}

// Update applies p to the element with the given id. Unknown ids are a
// no-op and report false.
func (s *Store) Update(id string, p Patch) (Element, bool) {
	i := s.IndexOf(id)
	if i < 0 {
		return Element{}, false
	}
	e := s.elems[i].Clone()
	p.Apply(&e)
	e.normalize()
	s.elems[i] = e
	s.notify(Change{Op: ChangeUpdated, ID: id})
	return e.Clone(), true
}

// Remove deletes the element with the given id. Unknown ids are a no-op.
func (s *Store) Remove(id string) bool {
	i := s.IndexOf(id)
	if i < 0 {
		return false
	}
	s.elems = append(s.elems[:i:i], s.elems[i+1:]...)
	s.notify(Change{Op: ChangeRemoved, ID: id})
	return true
}

// Reorder moves id to newIndex, shifting the elements in between. The index
// is clamped to the list. It reports whether the order changed.
func (s *Store) Reorder(id string, newIndex int) bool {
	from := s.IndexOf(id)
	if from < 0 {
		return false
	}
	newIndex = max(0, min(newIndex, len(s.elems)-1))
	if newIndex == from {
		return false
	}
	e := s.elems[from]
	rest := append(s.elems[:from:from], s.elems[from+1:]...)
	s.elems = append(rest[:newIndex:newIndex], append([]Element{e}, rest[newIndex:]...)...)
	s.notify(Change{Op: ChangeReordered, ID: id})
	return true
}

// ReorderBefore moves id to the position currently held by targetID. It is
// a no-op when either id is missing or both are equal.
func (s *Store) ReorderBefore(id, targetID string) bool {
	if id == targetID {
		return false
	}
	to := s.IndexOf(targetID)
	if to < 0 {
		return false
	}
	return s.Reorder(id, to)
}

// Snapshot captures the current list.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{elems: s.List()}
}

// Restore replaces the list with the snapshot's elements.
func (s *Store) Restore(snap Snapshot) {
	s.elems = snap.Elements()
	s.notify(Change{Op: ChangeReplaced})
}

// Replace validates elems and installs them as the new list. Ids must be
// non-empty and unique.
func (s *Store) Replace(elems []Element) error {
	seen := make(map[string]struct{}, len(elems))
	next := make([]Element, len(elems))
	for i, e := range elems {
		if e.ID == "" {
			return fmt.Errorf("element %d: %w", i, ErrEmptyID)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateID, e.ID)
		}
		seen[e.ID] = struct{}{}
		e = e.Clone()
		e.normalize()
		next[i] = e
	}
	s.elems = next
	s.notify(Change{Op: ChangeReplaced})
	return nil
}

// Snapshot is an immutable copy of the element list at one instant.
type Snapshot struct {
	elems []Element
}

// NewSnapshot captures a deep copy of elems.
func NewSnapshot(elems []Element) Snapshot {
	out := make([]Element, len(elems))
	for i := range elems {
		out[i] = elems[i].Clone()
	}
	return Snapshot{elems: out}
}

// Len returns the number of elements in the snapshot.
func (s Snapshot) Len() int { return len(s.elems) }

// Elements returns a deep copy of the snapshot's elements.
func (s Snapshot) Elements() []Element {
	return NewSnapshot(s.elems).elems
}

// IDs returns the element ids in z-order.
func (s Snapshot) IDs() []string {
	ids := make([]string, len(s.elems))
	for i := range s.elems {
		ids[i] = s.elems[i].ID
	}
	return ids
}
