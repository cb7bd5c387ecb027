package ggedit

import "fmt"

// LayerAction names a single-element z-order move.
type LayerAction string

const (
	LayerFront    LayerAction = "front"
	LayerForward  LayerAction = "forward"
	LayerBackward LayerAction = "backward"
	LayerBack     LayerAction = "back"
)

// ParseLayerAction validates a layer action name.
func ParseLayerAction(s string) (LayerAction, error) {
	switch a := LayerAction(s); a {
	case LayerFront, LayerForward, LayerBackward, LayerBack:
		return a, nil
	}
	return "", fmt.Errorf("ggedit: unknown layer action %q", s)
}

// Layers reorders store elements and records a history snapshot after
// every move that changed the order.
type Layers struct {
	store   *Store
	history *History
}

// NewLayers returns a layer service over store and history.
func NewLayers(store *Store, history *History) *Layers {
	return &Layers{store: store, history: history}
}

// BringToFront moves id to the top of the z-order.
func (l *Layers) BringToFront(id string) bool {
	return l.move(id, l.store.Len()-1)
}

// BringForward moves id one step toward the top.
func (l *Layers) BringForward(id string) bool {
	i := l.store.IndexOf(id)
	if i < 0 {
		return false
	}
	return l.move(id, i+1)
}

// SendBackward moves id one step toward the bottom.
func (l *Layers) SendBackward(id string) bool {
	i := l.store.IndexOf(id)
	if i < 0 {
		return false
	}
	return l.move(id, i-1)
}

// SendToBack moves id to the bottom of the z-order.
func (l *Layers) SendToBack(id string) bool {
	return l.move(id, 0)
}

// ReorderByDrag reinserts draggedID at targetID's current position.
func (l *Layers) ReorderByDrag(draggedID, targetID string) bool {
	if !l.store.ReorderBefore(draggedID, targetID) {
		return false
	}
	l.history.Record(l.store.Snapshot())
	return true
}

// Apply runs the named action on id.
func (l *Layers) Apply(id string, a LayerAction) bool {
	switch a {
	case LayerFront:
		return l.BringToFront(id)
	case LayerForward:
		return l.BringForward(id)
	case LayerBackward:
		return l.SendBackward(id)
	case LayerBack:
		return l.SendToBack(id)
	}
	return false
}

func (l *Layers) move(id string, to int) bool {
	if !l.store.Reorder(id, to) {
		return false
	}
	l.history.Record(l.store.Snapshot())
	return true
}
