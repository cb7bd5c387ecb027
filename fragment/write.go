package fragment

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/ggedit/shape"
)

// Writer emits primitives as SVG markup. Gradients, patterns and shadows
// are collected into a leading <defs> block with ids derived from Prefix,
// so several writers can share one document without id collisions.
type Writer struct {
	w      io.Writer
	prefix string
	ids    map[any]string
	seq    int
	err    error
}

// NewWriter returns a Writer that writes to w. prefix is prepended to every
// generated definition id.
func NewWriter(w io.Writer, prefix string) *Writer {
	return &Writer{w: w, prefix: prefix}
}

// Marshal renders l as a standalone fragment using default ids.
func Marshal(l shape.List) (string, error) {
	var buf bytes.Buffer
	if err := NewWriter(&buf, "").Write(l); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write emits l, preceded by a <defs> block when any primitive needs one.
func (fw *Writer) Write(l shape.List) error {
	if fw.ids == nil {
		fw.ids = make(map[any]string)
	}

	var defs bytes.Buffer
	fw.collect(&defs, l)
	if defs.Len() > 0 {
		fw.printf("<defs>%s</defs>", defs.String())
	}
	for _, p := range l {
		fw.primitive(p)
	}
	return fw.err
}

// WriteShadowDef emits a <defs> block holding sh and returns its id.
// Document writers use it for element level shadows.
func (fw *Writer) WriteShadowDef(sh *shape.Shadow) string {
	if sh == nil {
		return ""
	}
	if fw.ids == nil {
		fw.ids = make(map[any]string)
	}
	var defs bytes.Buffer
	id := fw.shadowDef(&defs, sh)
	fw.printf("<defs>%s</defs>", defs.String())
	return id
}

func (fw *Writer) printf(format string, args ...any) {
	if fw.err != nil {
		return
	}
	_, fw.err = fmt.Fprintf(fw.w, format, args...)
}

func (fw *Writer) nextID(kind string) string {
	fw.seq++
	return fw.prefix + kind + strconv.Itoa(fw.seq)
}

func (fw *Writer) collect(defs *bytes.Buffer, l shape.List) {
	for _, p := range l {
		st := shape.StyleOf(p)
		fw.paintDef(defs, st.Fill)
		fw.paintDef(defs, st.Stroke)
		if st.Shadow != nil {
			fw.shadowDef(defs, st.Shadow)
		}
		if g, ok := p.(shape.Group); ok {
			fw.collect(defs, g.Children)
		}
	}
}

func (fw *Writer) paintDef(defs *bytes.Buffer, p shape.Paint) {
	switch p.Kind {
	case shape.PaintLinear:
		if p.Linear == nil || fw.ids[p.Linear] != "" {
			return
		}
		id := fw.nextID("grad")
		fw.ids[p.Linear] = id
		g := p.Linear
		fmt.Fprintf(defs, `<linearGradient id="%s" x1="%s" y1="%s" x2="%s" y2="%s">`,
			id, pct(g.X1), pct(g.Y1), pct(g.X2), pct(g.Y2))
		for _, s := range g.Stops {
			fmt.Fprintf(defs, `<stop offset="%s" style="stop-color:%s;stop-opacity:%s"/>`,
				pct(s.Offset), escape(s.Color), Num(s.Opacity))
		}
		defs.WriteString(`</linearGradient>`)
	case shape.PaintDots:
		if p.Dots == nil || fw.ids[p.Dots] != "" {
			return
		}
		id := fw.nextID("dots")
		fw.ids[p.Dots] = id
		d := p.Dots
		half := d.Cell / 2
		fmt.Fprintf(defs, `<pattern id="%s" x="0" y="0" width="%s" height="%s" patternUnits="userSpaceOnUse">`+
			`<circle cx="%s" cy="%s" r="%s" fill="%s"/></pattern>`,
			id, Num(d.Cell), Num(d.Cell), Num(half), Num(half), Num(d.Radius), escape(d.Color))
	}
}

func (fw *Writer) shadowDef(defs *bytes.Buffer, sh *shape.Shadow) string {
	if id := fw.ids[sh]; id != "" {
		return id
	}
	id := fw.nextID("shadow")
	fw.ids[sh] = id
	fmt.Fprintf(defs, `<filter id="%s"><feDropShadow dx="%s" dy="%s" stdDeviation="%s" flood-color="%s"/></filter>`,
		id, Num(sh.DX), Num(sh.DY), Num(sh.Blur), escape(sh.Color))
	return id
}

// PaintAttr returns the attribute value for p, or "" when p inherits.
func (fw *Writer) PaintAttr(p shape.Paint) string {
	switch p.Kind {
	case shape.PaintNone:
		return "none"
	case shape.PaintColor:
		return p.Color
	case shape.PaintLinear:
		if id := fw.ids[p.Linear]; id != "" {
			return "url(#" + id + ")"
		}
	case shape.PaintDots:
		if id := fw.ids[p.Dots]; id != "" {
			return "url(#" + id + ")"
		}
		if p.Dots != nil {
			return p.Dots.Color
		}
	}
	return ""
}

func (fw *Writer) styleAttrs(st shape.Style) string {
	var b strings.Builder
	attr := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&b, ` %s="%s"`, k, escape(v))
		}
	}
	attr("fill", fw.PaintAttr(st.Fill))
	attr("stroke", fw.PaintAttr(st.Stroke))
	if st.StrokeWidth > 0 {
		attr("stroke-width", Num(st.StrokeWidth))
	}
	attr("stroke-linecap", string(st.LineCap))
	attr("stroke-linejoin", string(st.LineJoin))
	if st.Shadow != nil {
		if id := fw.ids[st.Shadow]; id != "" {
			attr("filter", "url(#"+id+")")
		}
	}
	return b.String()
}

func (fw *Writer) primitive(p shape.Primitive) {
	switch v := p.(type) {
	case shape.Rectangle:
		var b strings.Builder
		if v.X != 0 {
			fmt.Fprintf(&b, ` x="%s"`, Num(v.X))
		}
		if v.Y != 0 {
			fmt.Fprintf(&b, ` y="%s"`, Num(v.Y))
		}
		fmt.Fprintf(&b, ` width="%s" height="%s"`, Num(v.Width), Num(v.Height))
		if v.RX != 0 {
			fmt.Fprintf(&b, ` rx="%s"`, Num(v.RX))
		}
		if v.RY != 0 && v.RY != v.RX {
			fmt.Fprintf(&b, ` ry="%s"`, Num(v.RY))
		}
		fw.printf(`<rect%s%s/>`, b.String(), fw.styleAttrs(v.Style))
	case shape.Ellipse:
		if v.IsCircle() {
			fw.printf(`<circle cx="%s" cy="%s" r="%s"%s/>`, Num(v.CX), Num(v.CY), Num(v.RX), fw.styleAttrs(v.Style))
			return
		}
		fw.printf(`<ellipse cx="%s" cy="%s" rx="%s" ry="%s"%s/>`,
			Num(v.CX), Num(v.CY), Num(v.RX), Num(v.RY), fw.styleAttrs(v.Style))
	case shape.Line:
		fw.printf(`<line x1="%s" y1="%s" x2="%s" y2="%s"%s/>`,
			Num(v.X1), Num(v.Y1), Num(v.X2), Num(v.Y2), fw.styleAttrs(v.Style))
	case shape.Polyline:
		fw.printf(`<polyline points="%s"%s/>`, points(v.Points), fw.styleAttrs(v.Style))
	case shape.Polygon:
		fw.printf(`<polygon points="%s"%s/>`, points(v.Points), fw.styleAttrs(v.Style))
	case shape.Path:
		fw.printf(`<path d="%s"%s/>`, PathData(v.Commands), fw.styleAttrs(v.Style))
	case shape.Text:
		var b strings.Builder
		fmt.Fprintf(&b, ` x="%s" y="%s"`, Num(v.X), Num(v.Y))
		if v.Anchor != "" {
			fmt.Fprintf(&b, ` text-anchor="%s"`, v.Anchor)
		}
		if v.Baseline == shape.BaselineMiddle {
			b.WriteString(` dominant-baseline="middle"`)
		}
		if v.Font.Family != "" {
			fmt.Fprintf(&b, ` font-family="%s"`, escape(v.Font.Family))
		}
		fmt.Fprintf(&b, ` font-size="%s"`, Num(v.Font.Size))
		if v.Font.Weight != 0 {
			fmt.Fprintf(&b, ` font-weight="%d"`, v.Font.Weight)
		}
		fw.printf(`<text%s%s>%s</text>`, b.String(), fw.styleAttrs(v.Style), escape(v.Content))
	case shape.Group:
		fw.printf(`<g%s>`, fw.styleAttrs(v.Style))
		for _, c := range v.Children {
			fw.primitive(c)
		}
		fw.printf(`</g>`)
	}
}

// PathData formats commands as an SVG "d" attribute.
func PathData(cmds []shape.Command) string {
	var b strings.Builder
	for i, c := range cmds {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(string(c.Op))
		for j, p := range c.Points {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(Num(p.X))
			b.WriteByte(',')
			b.WriteString(Num(p.Y))
		}
	}
	return b.String()
}

func points(pts []shape.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = Num(p.X) + "," + Num(p.Y)
	}
	return strings.Join(parts, " ")
}

// Num formats v with at most three decimals and no trailing zeros.
func Num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func pct(v float64) string { return Num(v*100) + "%" }

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
