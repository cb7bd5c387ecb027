package export

import (
	"io"

	"github.com/gogpu/ggedit/shape"
)

// Backend is the interface that all export backends implement. A backend
// receives a Document in playback order and translates it to its output
// format.
//
// # Implementation Contract
//
// Each backend must:
//  1. Register in init() using export.Register() under every format it serves
//  2. Handle all Backend methods, even if some are no-ops
//  3. Resolve primitive styles against the enclosing group's style
//
// # Example Backend Registration
//
//	func init() {
//	    export.Register("svg", func() export.Backend {
//	        return NewBackend()
//	    })
//	}
type Backend interface {
	// Begin prepares an output surface described by f.
	Begin(f Frame) error

	// Background fills the whole surface with a CSS color.
	Background(color string)

	// BeginGroup opens an element group. Primitives drawn until the
	// matching EndGroup are positioned and styled by g.
	BeginGroup(g *Group)

	// DrawPrimitive draws p inside the open group.
	DrawPrimitive(p shape.Primitive)

	// EndGroup closes the open group.
	EndGroup()

	// DrawGuide draws a preview guide outside any group.
	DrawGuide(g Guide)

	// End finalizes the output. WriteTo may be called afterwards.
	End() error
}

// WriterBackend extends Backend with the ability to write its output.
type WriterBackend interface {
	Backend

	// WriteTo writes the finished output. It must only be called after End.
	WriteTo(w io.Writer) (int64, error)
}
