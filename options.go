package ggedit

import "time"

// Option configures an Editor during creation.
//
// Example:
//
//	// Default 800×600 canvas, 20px snapping grid, 50 undo steps
//	ed := ggedit.New()
//
//	// Larger canvas, no snapping, restored from storage
//	ed := ggedit.New(
//	    ggedit.WithCanvasSize(1920, 1080),
//	    ggedit.WithGrid(10, false),
//	    ggedit.WithElements(saved),
//	)
type Option func(*editorOptions)

// editorOptions holds optional configuration for Editor creation.
type editorOptions struct {
	canvas   Canvas
	capacity int
	now      func() time.Time
	elements []Element
}

// defaultOptions returns the default editor options.
func defaultOptions() editorOptions {
	return editorOptions{
		canvas:   DefaultCanvas(),
		capacity: DefaultHistoryCapacity,
		now:      time.Now,
	}
}

// WithCanvas replaces all canvas settings.
func WithCanvas(c Canvas) Option {
	return func(o *editorOptions) {
		o.canvas = c
	}
}

// WithCanvasSize sets the canvas reference size used for alignment and
// export defaults.
func WithCanvasSize(width, height float64) Option {
	return func(o *editorOptions) {
		o.canvas.Width = width
		o.canvas.Height = height
	}
}

// WithGrid sets the grid size and whether positions snap to it.
func WithGrid(size float64, snap bool) Option {
	return func(o *editorOptions) {
		o.canvas.GridSize = size
		o.canvas.Snap = snap
	}
}

// WithHistoryCapacity bounds the undo log. Non-positive values keep the
// default of 50.
func WithHistoryCapacity(n int) Option {
	return func(o *editorOptions) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithClock sets the time source used to derive element ids.
func WithClock(now func() time.Time) Option {
	return func(o *editorOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithElements seeds the store, typically from persisted state. Invalid
// lists (empty or duplicate ids) are logged and ignored.
func WithElements(elems []Element) Option {
	return func(o *editorOptions) {
		o.elements = elems
	}
}
