// Package export turns an element list into a deliverable file.
//
// Export happens in two steps. Build converts the visible elements into a
// Document: a root frame, an optional background and one positioned Group
// per element in z-order. Playback then streams the Document into a
// Backend, which produces vector text (SVG) or encoded raster bytes.
//
// Backends follow the database/sql driver pattern and register themselves
// by format name from init:
//
//	import (
//	    "github.com/gogpu/ggedit/export"
//	    _ "github.com/gogpu/ggedit/export/backends/raster"
//	    _ "github.com/gogpu/ggedit/export/backends/svg"
//	)
//
//	res, err := export.Render(ed.Elements(), export.DefaultOptions())
//
// Raster exports can also run in the background with Start. A Job works on
// a private copy of the elements, so the editor may keep changing while it
// runs.
package export
