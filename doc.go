// Package ggedit is the core of a vector graphics editor.
//
// # Overview
//
// ggedit keeps an ordered list of graphical elements and lets users place,
// move, reorder, align and delete them, with bounded undo/redo. Rendering
// and export live in the export package; this package only owns state.
//
// # Quick Start
//
//	import "github.com/gogpu/ggedit"
//
//	ed := ggedit.New(ggedit.WithGrid(20, true))
//
//	// Drop a template onto the canvas at (133, 47). With a 20px grid the
//	// element lands at (140, 40).
//	el, err := ed.Controller().Drop(payload, 133, 47)
//
//	// Move it to the front and undo that.
//	ed.Layers().BringToFront(el.ID)
//	ed.Undo()
//
// # Architecture
//
// The package is organized into:
//   - [Store]: ordered elements, list position is z-order (0 = bottom)
//   - [Selection]: weak reference to at most one element by id
//   - [History]: bounded snapshot log with a cursor (linear redo)
//   - [Layers]: front/forward/backward/back and drag reordering
//   - [Controller]: pointer and keyboard state machine over the canvas
//   - [Editor]: wires the above together for a surrounding page
//
// # Event Model
//
// Components are not safe for concurrent use. Every input event is
// handled to completion before the next one, so each mutation is atomic
// from an observer's point of view. Callers that receive events from
// several goroutines (an HTTP server, for example) must serialize them.
//
// # Coordinate System
//
// Canvas coordinates have their origin at the top-left, X grows right and
// Y grows down. Element rotation is in degrees, clockwise, about the
// element's (X, Y) origin.
package ggedit
