package persist

import (
	"context"
	"time"

	"github.com/gogpu/ggedit"
)

// DefaultSaveTimeout bounds each autosave write.
const DefaultSaveTimeout = 5 * time.Second

// Autosaver writes the editor's element list to a Port after every store
// change. Failures are logged and do not interrupt editing.
type Autosaver struct {
	port    Port
	editor  *ggedit.Editor
	timeout time.Duration
	cancel  func()
	saves   int
	lastErr error
}

// NewAutosaver subscribes to ed. Call Stop to detach.
func NewAutosaver(p Port, ed *ggedit.Editor) *Autosaver {
	a := &Autosaver{port: p, editor: ed, timeout: DefaultSaveTimeout}
	a.cancel = ed.Subscribe(func(ggedit.Change) { a.Save() })
	return a
}

// Save writes the current element list now. An empty list is saved too,
// so deleting the last element is persisted.
func (a *Autosaver) Save() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	elems := a.editor.Elements()
	if elems == nil {
		elems = []ggedit.Element{}
	}
	err := Save(ctx, a.port, ElementsKey, elems)
	a.lastErr = err
	if err != nil {
		ggedit.Logger().Warn("persist: autosave failed", "error", err)
		return err
	}
	a.saves++
	return nil
}

// Saves returns the number of successful writes.
func (a *Autosaver) Saves() int { return a.saves }

// Err returns the error of the last write, if any.
func (a *Autosaver) Err() error { return a.lastErr }

// Stop detaches the autosaver from the editor.
func (a *Autosaver) Stop() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

// LoadEditor restores the persisted element list into ed and resets its
// history. It reports false when nothing was stored.
func LoadEditor(ctx context.Context, p Port, ed *ggedit.Editor) (bool, error) {
	elems, ok, err := Load[[]ggedit.Element](ctx, p, ElementsKey)
	if err != nil || !ok {
		return false, err
	}
	if err := ed.Load(elems); err != nil {
		return false, err
	}
	return true, nil
}
