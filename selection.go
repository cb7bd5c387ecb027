package ggedit

// Selection is a weak reference to at most one element, by id. It never
// owns the element and clears itself when the element leaves the store.
type Selection struct {
	store  *Store
	id     string
	cancel func()
}

// NewSelection returns an empty selection bound to store.
func NewSelection(store *Store) *Selection {
	s := &Selection{store: store}
	s.cancel = store.Subscribe(s.onChange)
	return s
}

func (s *Selection) onChange(c Change) {
	if s.id == "" {
		return
	}
	switch c.Op {
	case ChangeRemoved:
		if c.ID == s.id {
			s.id = ""
		}
	case ChangeReplaced:
		if s.store.IndexOf(s.id) < 0 {
			s.id = ""
		}
	}
}

// Select makes id the active element. Selecting an id that is not in the
// store is a no-op and reports false.
func (s *Selection) Select(id string) bool {
	if s.store.IndexOf(id) < 0 {
		return false
	}
	s.id = id
	return true
}

// Clear drops the selection.
func (s *Selection) Clear() { s.id = "" }

// ID returns the selected id.
func (s *Selection) ID() (string, bool) { return s.id, s.id != "" }

// Current returns a copy of the selected element.
func (s *Selection) Current() (Element, bool) {
	if s.id == "" {
		return Element{}, false
	}
	return s.store.Get(s.id)
}

// Close detaches the selection from its store.
func (s *Selection) Close() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
