package ggedit

// DefaultHistoryCapacity is the number of snapshots kept by default.
const DefaultHistoryCapacity = 50

// History is a bounded, linear undo log. The cursor points at the
// snapshot currently shown. Recording while the cursor is behind the end
// discards the redo branch; there is no redo tree.
type History struct {
	log      []Snapshot
	cursor   int
	capacity int
}

// NewHistory returns an empty log holding at most capacity snapshots.
// A non-positive capacity selects DefaultHistoryCapacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{cursor: -1, capacity: capacity}
}

// Record appends snap after the cursor. Snapshots past the cursor are
// dropped first, and the oldest snapshot is evicted beyond capacity.
func (h *History) Record(snap Snapshot) {
	if h.cursor < len(h.log)-1 {
		clear(h.log[h.cursor+1:])
		h.log = h.log[:h.cursor+1]
	}
	h.log = append(h.log, snap)
	if len(h.log) > h.capacity {
		n := copy(h.log, h.log[len(h.log)-h.capacity:])
		clear(h.log[n:])
		h.log = h.log[:n]
	}
	h.cursor = len(h.log) - 1
}

// Undo steps the cursor back and returns the snapshot now current.
// At the start of the log it is a no-op.
func (h *History) Undo() (Snapshot, bool) {
	if !h.CanUndo() {
		return Snapshot{}, false
	}
	h.cursor--
	return h.log[h.cursor], true
}

// Redo steps the cursor forward and returns the snapshot now current.
// At the end of the log it is a no-op.
func (h *History) Redo() (Snapshot, bool) {
	if !h.CanRedo() {
		return Snapshot{}, false
	}
	h.cursor++
	return h.log[h.cursor], true
}

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool { return h.cursor >= 0 && h.cursor < len(h.log)-1 }

// Len returns the number of snapshots held.
func (h *History) Len() int { return len(h.log) }

// Cursor returns the current position, or -1 for an empty log.
func (h *History) Cursor() int { return h.cursor }

// Capacity returns the maximum number of snapshots.
func (h *History) Capacity() int { return h.capacity }

// Reset empties the log.
func (h *History) Reset() {
	clear(h.log)
	h.log = h.log[:0]
	h.cursor = -1
}
