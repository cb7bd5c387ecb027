// Package svg provides the vector export backend. It writes a standalone
// SVG document whose element groups carry the element transform, opacity
// and inherited style, with definitions scoped per element.
//
// Import it for its side effect of registering the "svg" format:
//
//	import _ "github.com/gogpu/ggedit/export/backends/svg"
package svg

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gogpu/ggedit/export"
	"github.com/gogpu/ggedit/fragment"
	"github.com/gogpu/ggedit/shape"
)

func init() {
	export.Register(string(export.FormatSVG), func() export.Backend {
		return NewBackend()
	})
}

// Backend renders a Document as SVG text.
type Backend struct {
	buf   bytes.Buffer
	frame export.Frame
	seq   int

	group   *export.Group
	pending shape.List
	err     error
}

var _ export.WriterBackend = (*Backend)(nil)

// NewBackend creates an SVG backend. Begin must be called before use.
func NewBackend() *Backend {
	return &Backend{}
}

// Begin writes the root element.
func (b *Backend) Begin(f export.Frame) error {
	b.buf.Reset()
	b.frame = f
	b.seq = 0
	b.err = nil
	w, h := fragment.Num(f.Width), fragment.Num(f.Height)
	fmt.Fprintf(&b.buf, `<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">`, w, h, w, h)
	return nil
}

// Background writes a full-bleed rectangle.
func (b *Backend) Background(color string) {
	fmt.Fprintf(&b.buf, "\n  "+`<rect width="100%%" height="100%%" fill="%s"/>`, attrEscape(color))
}

// BeginGroup opens the positioned group of one element.
func (b *Backend) BeginGroup(g *export.Group) {
	b.group = g
	b.pending = b.pending[:0]
	b.buf.WriteString("\n  <g")
	if t := transform(g.X, g.Y, g.Rotation); t != "" {
		fmt.Fprintf(&b.buf, ` transform="%s"`, t)
	}
	if g.Opacity < 1 {
		fmt.Fprintf(&b.buf, ` opacity="%s"`, fragment.Num(g.Opacity))
	}
	b.buf.WriteString(">")
}

// DrawPrimitive queues p for the open group.
func (b *Backend) DrawPrimitive(p shape.Primitive) {
	b.pending = append(b.pending, p)
}

// EndGroup writes the queued content inside a styled group, so primitives
// that leave paint unset inherit the element's style.
func (b *Backend) EndGroup() {
	if b.group == nil {
		return
	}
	st := b.group.Style
	st.Shadow = b.group.Shadow
	content := shape.List{shape.Group{Children: b.pending, Style: st}}

	b.seq++
	b.buf.WriteString("\n    ")
	if err := fragment.NewWriter(&b.buf, "el"+strconv.Itoa(b.seq)+"-").Write(content); err != nil && b.err == nil {
		b.err = err
	}
	b.buf.WriteString("\n  </g>")
	b.group = nil
	b.pending = nil
}

// DrawGuide writes a preview guide. Dashes go on a wrapping group, where
// the shape inherits them.
func (b *Backend) DrawGuide(g export.Guide) {
	b.buf.WriteString("\n  <g")
	if t := transform(g.X, g.Y, g.Rotation); t != "" {
		fmt.Fprintf(&b.buf, ` transform="%s"`, t)
	}
	if len(g.Dash) > 0 {
		parts := make([]string, len(g.Dash))
		for i, d := range g.Dash {
			parts[i] = fragment.Num(d)
		}
		fmt.Fprintf(&b.buf, ` stroke-dasharray="%s"`, strings.Join(parts, ","))
	}
	b.buf.WriteString(">")
	b.seq++
	if err := fragment.NewWriter(&b.buf, "guide"+strconv.Itoa(b.seq)+"-").Write(shape.List{g.Shape}); err != nil && b.err == nil {
		b.err = err
	}
	b.buf.WriteString("</g>")
}

// End closes the root element.
func (b *Backend) End() error {
	b.buf.WriteString("\n</svg>")
	return b.err
}

// WriteTo writes the document.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.buf.Bytes())
	return int64(n), err
}

// String returns the document text.
func (b *Backend) String() string { return b.buf.String() }

func transform(x, y, rot float64) string {
	var parts []string
	if x != 0 || y != 0 {
		parts = append(parts, "translate("+fragment.Num(x)+", "+fragment.Num(y)+")")
	}
	if rot != 0 {
		parts = append(parts, "rotate("+fragment.Num(rot)+")")
	}
	return strings.Join(parts, " ")
}

func attrEscape(s string) string {
	return strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;").Replace(s)
}
