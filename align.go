package ggedit

import "fmt"

// AlignKind names an alignment of the selected element against the canvas.
type AlignKind string

const (
	AlignLeft   AlignKind = "left"
	AlignCenter AlignKind = "center"
	AlignRight  AlignKind = "right"
	AlignTop    AlignKind = "top"
	AlignMiddle AlignKind = "middle"
	AlignBottom AlignKind = "bottom"
)

// ParseAlignKind validates an alignment name.
func ParseAlignKind(s string) (AlignKind, error) {
	switch k := AlignKind(s); k {
	case AlignLeft, AlignCenter, AlignRight, AlignTop, AlignMiddle, AlignBottom:
		return k, nil
	}
	return "", fmt.Errorf("ggedit: unknown alignment %q", s)
}

// Aligned returns the position g takes when aligned by kind on a w×h
// canvas. Only one axis changes.
func Aligned(g Geometry, kind AlignKind, w, h float64) (x, y float64) {
	x, y = g.X, g.Y
	switch kind {
	case AlignLeft:
		x = 0
	case AlignCenter:
		x = w/2 - g.Width/2
	case AlignRight:
		x = w - g.Width
	case AlignTop:
		y = 0
	case AlignMiddle:
		y = h/2 - g.Height/2
	case AlignBottom:
		y = h - g.Height
	}
	return x, y
}

// Align moves the selected element against the canvas edges or center.
// Locked elements are left alone. Alignment records no history.
func (c *Controller) Align(kind AlignKind) bool {
	el, ok := c.sel.Current()
	if !ok || el.Locked {
		return false
	}
	x, y := Aligned(el.Geometry, kind, c.canvas.Width, c.canvas.Height)
	if x == el.Geometry.X && y == el.Geometry.Y {
		return false
	}
	_, ok = c.store.Update(el.ID, Patch{X: &x, Y: &y})
	return ok
}
