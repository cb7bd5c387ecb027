package export

import (
	"github.com/gogpu/ggedit"
	"github.com/gogpu/ggedit/shape"
)

// Preview guide colors.
const (
	GridColor      = "#E2E8F0"
	GridWidth      = 0.5
	SelectionColor = "#3B82F6"
	SelectionWidth = 2
	SelectionInset = 5
)

// SelectionDash is the dash pattern of the selection indicator.
var SelectionDash = []float64{5, 5}

// Frame describes the output surface.
type Frame struct {
	Width   float64
	Height  float64
	Scale   float64
	Quality Quality
}

// Pixels returns the raster size of the frame, at least 1×1.
func (f Frame) Pixels() (w, h int) {
	s := f.Scale
	if s <= 0 {
		s = 1
	}
	return max(1, int(f.Width*s+0.5)), max(1, int(f.Height*s+0.5))
}

// Group is one element placed on the document. Content is drawn in the
// group's local frame, translated by (X, Y) and rotated by Rotation degrees
// about that origin. Style is inherited by primitives that leave a field
// unset; Shadow and Opacity apply to the group as a whole.
type Group struct {
	ID       string
	X, Y     float64
	Rotation float64
	Opacity  float64
	Style    shape.Style
	Shadow   *shape.Shadow
	Content  shape.List
}

// Guide is a preview-only stroke drawn with its own style and no
// inheritance.
type Guide struct {
	X, Y     float64
	Rotation float64
	Shape    shape.Primitive
	Dash     []float64
}

// Document is the backend-neutral form of an export.
type Document struct {
	Frame      Frame
	Background string // empty for a transparent canvas

	Underlay []Guide // drawn above the background, below the elements
	Groups   []Group
	Overlay  []Guide // drawn above the elements
}

// Build converts elements into a Document. Hidden elements are skipped and
// the remaining ones keep their z-order. A border radius is applied to
// rectangles that have no corner radius of their own.
func Build(elements []ggedit.Element, opts Options) *Document {
	d := &Document{
		Frame: Frame{Width: opts.Width, Height: opts.Height, Scale: opts.Scale, Quality: opts.Quality},
	}
	if opts.IncludeBackground {
		d.Background = opts.Background
		if d.Background == "" {
			d.Background = DefaultBackground
		}
	}
	if opts.Grid > 0 {
		d.Underlay = gridGuides(opts.Width, opts.Height, opts.Grid)
	}

	for _, el := range elements {
		if !el.Visible {
			continue
		}
		g := Group{
			ID:       el.ID,
			X:        el.Geometry.X,
			Y:        el.Geometry.Y,
			Rotation: el.Geometry.Rotation,
			Opacity:  el.Style.Opacity,
			Style:    el.Style.Shape(),
			Content:  withRadius(el.Content.Clone(), el.Style.BorderRadius),
		}
		if el.Style.Shadow != nil {
			sh := *el.Style.Shadow
			g.Shadow = &sh
		}
		d.Groups = append(d.Groups, g)

		if opts.Selected != "" && el.ID == opts.Selected {
			d.Overlay = append(d.Overlay, selectionGuide(el.Geometry))
		}
	}
	return d
}

func withRadius(l shape.List, r float64) shape.List {
	if r <= 0 {
		return l
	}
	for i, p := range l {
		if rect, ok := p.(shape.Rectangle); ok && rect.RX == 0 && rect.RY == 0 {
			rect.RX, rect.RY = r, r
			l[i] = rect
		}
	}
	return l
}

func gridGuides(w, h, step float64) []Guide {
	stroke := shape.Style{Stroke: shape.Color(GridColor), StrokeWidth: GridWidth}
	var out []Guide
	for x := 0.0; x <= w; x += step {
		out = append(out, Guide{Shape: shape.Line{X1: x, X2: x, Y2: h, Style: stroke}})
	}
	for y := 0.0; y <= h; y += step {
		out = append(out, Guide{Shape: shape.Line{Y1: y, X2: w, Y2: y, Style: stroke}})
	}
	return out
}

func selectionGuide(g ggedit.Geometry) Guide {
	return Guide{
		X:        g.X,
		Y:        g.Y,
		Rotation: g.Rotation,
		Shape: shape.Rectangle{
			X:      -SelectionInset,
			Y:      -SelectionInset,
			Width:  g.Width + 2*SelectionInset,
			Height: g.Height + 2*SelectionInset,
			Style: shape.Style{
				Fill:        shape.None(),
				Stroke:      shape.Color(SelectionColor),
				StrokeWidth: SelectionWidth,
			},
		},
		Dash: SelectionDash,
	}
}

// Playback streams d into b, from Begin to End.
func (d *Document) Playback(b Backend) error {
	if err := b.Begin(d.Frame); err != nil {
		return err
	}
	if d.Background != "" {
		b.Background(d.Background)
	}
	for _, g := range d.Underlay {
		b.DrawGuide(g)
	}
	for i := range d.Groups {
		g := &d.Groups[i]
		b.BeginGroup(g)
		for _, p := range g.Content {
			b.DrawPrimitive(p)
		}
		b.EndGroup()
	}
	for _, g := range d.Overlay {
		b.DrawGuide(g)
	}
	return b.End()
}
