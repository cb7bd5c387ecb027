package shape

import (
	"math"
	"unicode/utf8"
)

// Box is an axis-aligned bounding box. An empty box has Min > Max.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// EmptyBox returns a box that contains nothing and unions as identity.
func EmptyBox() Box {
	return Box{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
}

// IsEmpty reports whether the box contains no points.
func (b Box) IsEmpty() bool { return b.MinX > b.MaxX || b.MinY > b.MaxY }

// Width returns the horizontal extent, or 0 for an empty box.
func (b Box) Width() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.MaxX - b.MinX
}

// Height returns the vertical extent, or 0 for an empty box.
func (b Box) Height() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.MaxY - b.MinY
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(o Box) Box {
	return Box{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

func (b Box) addPoint(x, y float64) Box {
	return b.Union(Box{MinX: x, MinY: y, MaxX: x, MaxY: y})
}

func pointsBox(pts []Point) Box {
	b := EmptyBox()
	for _, p := range pts {
		b = b.addPoint(p.X, p.Y)
	}
	return b
}

// Bounds implements Primitive.
func (r Rectangle) Bounds() Box {
	return Box{MinX: r.X, MinY: r.Y, MaxX: r.X + r.Width, MaxY: r.Y + r.Height}
}

// Bounds implements Primitive.
func (e Ellipse) Bounds() Box {
	return Box{MinX: e.CX - e.RX, MinY: e.CY - e.RY, MaxX: e.CX + e.RX, MaxY: e.CY + e.RY}
}

// Bounds implements Primitive.
func (l Line) Bounds() Box {
	return EmptyBox().addPoint(l.X1, l.Y1).addPoint(l.X2, l.Y2)
}

// Bounds implements Primitive.
func (p Polyline) Bounds() Box { return pointsBox(p.Points) }

// Bounds implements Primitive.
func (p Polygon) Bounds() Box { return pointsBox(p.Points) }

// Bounds implements Primitive. Control points are included, so the box
// may be larger than the painted curve.
func (p Path) Bounds() Box {
	b := EmptyBox()
	for _, c := range p.Commands {
		for _, pt := range c.Points {
			b = b.addPoint(pt.X, pt.Y)
		}
	}
	return b
}

// Bounds implements Primitive. Text extent is estimated from the font size
// at an average advance of 0.6em per rune.
func (t Text) Bounds() Box {
	size := t.Font.Size
	if size <= 0 {
		size = 16
	}
	w := 0.6 * size * float64(utf8.RuneCountInString(t.Content))
	x := t.X
	switch t.Anchor {
	case AnchorMiddle:
		x -= w / 2
	case AnchorEnd:
		x -= w
	}
	y := t.Y - size*0.8
	if t.Baseline == BaselineMiddle {
		y = t.Y - size/2
	}
	return Box{MinX: x, MinY: y, MaxX: x + w, MaxY: y + size}
}

// Bounds implements Primitive.
func (g Group) Bounds() Box { return g.Children.Bounds() }
