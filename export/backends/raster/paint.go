package raster

import (
	"math"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/ggedit"
	"github.com/gogpu/ggedit/fragment"
	"github.com/gogpu/ggedit/shape"
)

// defaultFontSize matches the SVG initial font-size.
const defaultFontSize = 16

var (
	fontsOnce     sync.Once
	regular, bold *text.FontSource
	fontErr       error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if regular, fontErr = text.NewFontSource(goregular.TTF); fontErr != nil {
			return
		}
		bold, fontErr = text.NewFontSource(gobold.TTF)
	})
	return fontErr
}

// draw renders p with parent as the inherited style. A non-empty tint
// replaces every visible paint, which is how shadows are drawn.
func (b *Backend) draw(p shape.Primitive, parent shape.Style, tint string) {
	if p == nil {
		return
	}
	st := shape.StyleOf(p).Inherit(parent)
	if st.Shadow != nil && tint == "" {
		b.drawShadow(p, parent, st.Shadow)
	}
	st.Shadow = nil

	switch v := p.(type) {
	case shape.Group:
		for _, c := range v.Children {
			b.draw(c, st, tint)
		}
		return
	case shape.Text:
		b.drawText(v, resolve(st.Fill, shape.Color("#000000"), tint))
		return
	}

	box := p.Bounds()
	if _, isLine := p.(shape.Line); !isLine {
		b.fill(p, resolve(st.Fill, shape.Color("#000000"), tint), box)
	}
	b.stroke(p, resolve(st.Stroke, shape.None(), tint), st, box)
}

func (b *Backend) drawShadow(p shape.Primitive, parent shape.Style, sh *shape.Shadow) {
	if _, ok := rgba(sh.Color); !ok {
		return
	}
	b.ctx.Push()
	b.ctx.Translate(sh.DX, sh.DY)
	b.draw(p, parent, sh.Color)
	b.ctx.Pop()
}

func resolve(p, def shape.Paint, tint string) shape.Paint {
	if p.IsInherit() {
		p = def
	}
	if tint != "" && !p.IsNone() {
		return shape.Color(tint)
	}
	return p
}

func (b *Backend) fill(p shape.Primitive, paint shape.Paint, box shape.Box) {
	switch paint.Kind {
	case shape.PaintDots:
		if paint.Dots == nil || paint.Dots.Cell <= 0 {
			return
		}
		b.ctx.Push()
		b.path(p)
		b.ctx.Clip()
		b.dots(paint.Dots, box)
		b.ctx.Pop()
	default:
		brush, ok := b.brush(paint, box)
		if !ok {
			return
		}
		b.ctx.SetFillBrush(brush)
		b.path(p)
		_ = b.ctx.Fill()
	}
}

func (b *Backend) stroke(p shape.Primitive, paint shape.Paint, st shape.Style, box shape.Box) {
	brush, ok := b.brush(paint, box)
	if !ok {
		return
	}
	w := st.StrokeWidth
	if w <= 0 {
		w = 1
	}
	b.ctx.SetStrokeBrush(brush)
	b.ctx.SetLineWidth(w)
	b.ctx.SetLineCap(lineCap(st.LineCap))
	b.ctx.SetLineJoin(lineJoin(st.LineJoin))
	b.path(p)
	_ = b.ctx.Stroke()
}

// dots fills one circle per pattern cell over box. The grid is anchored
// at the user space origin, as SVG userSpaceOnUse patterns are.
func (b *Backend) dots(d *shape.DotPattern, box shape.Box) {
	c, ok := rgba(d.Color)
	if !ok || box.IsEmpty() {
		return
	}
	half := d.Cell / 2
	b.ctx.ClearPath()
	for y := math.Floor(box.MinY/d.Cell) * d.Cell; y < box.MaxY; y += d.Cell {
		for x := math.Floor(box.MinX/d.Cell) * d.Cell; x < box.MaxX; x += d.Cell {
			b.ctx.DrawCircle(x+half, y+half, d.Radius)
		}
	}
	b.ctx.SetFillBrush(gg.Solid(c))
	_ = b.ctx.Fill()
}

// brush converts a resolved paint. Gradient coordinates are bounding box
// fractions, mapped to device space because gg samples brushes per pixel.
func (b *Backend) brush(p shape.Paint, box shape.Box) (gg.Brush, bool) {
	switch p.Kind {
	case shape.PaintColor:
		c, ok := rgba(p.Color)
		if !ok {
			return nil, false
		}
		return gg.Solid(c), true
	case shape.PaintLinear:
		g := p.Linear
		if g == nil || len(g.Stops) == 0 || box.IsEmpty() {
			return nil, false
		}
		x0, y0 := b.ctx.TransformPoint(box.MinX+g.X1*box.Width(), box.MinY+g.Y1*box.Height())
		x1, y1 := b.ctx.TransformPoint(box.MinX+g.X2*box.Width(), box.MinY+g.Y2*box.Height())
		grad := gg.NewLinearGradientBrush(x0, y0, x1, y1)
		for _, s := range g.Stops {
			c, ok := rgba(s.Color)
			if !ok {
				continue
			}
			c.A *= s.Opacity
			grad.AddColorStop(s.Offset, c)
		}
		return grad, true
	case shape.PaintDots:
		if p.Dots == nil {
			return nil, false
		}
		return b.brush(shape.Color(p.Dots.Color), box)
	}
	return nil, false
}

// path replaces the current path with the outline of p.
func (b *Backend) path(p shape.Primitive) {
	ctx := b.ctx
	ctx.ClearPath()
	switch v := p.(type) {
	case shape.Rectangle:
		r := v.RX
		if r == 0 {
			r = v.RY
		}
		r = math.Min(r, math.Min(v.Width, v.Height)/2)
		if r > 0 {
			ctx.DrawRoundedRectangle(v.X, v.Y, v.Width, v.Height, r)
		} else {
			ctx.DrawRectangle(v.X, v.Y, v.Width, v.Height)
		}
	case shape.Ellipse:
		ctx.DrawEllipse(v.CX, v.CY, v.RX, v.RY)
	case shape.Line:
		ctx.MoveTo(v.X1, v.Y1)
		ctx.LineTo(v.X2, v.Y2)
	case shape.Polyline:
		polyline(ctx, v.Points)
	case shape.Polygon:
		polyline(ctx, v.Points)
		if len(v.Points) > 0 {
			ctx.ClosePath()
		}
	case shape.Path:
		for _, c := range v.Commands {
			pts := c.Points
			if len(pts) < c.Op.Arity() {
				continue
			}
			switch c.Op {
			case shape.OpMove:
				ctx.MoveTo(pts[0].X, pts[0].Y)
			case shape.OpLine:
				ctx.LineTo(pts[0].X, pts[0].Y)
			case shape.OpQuad:
				ctx.QuadraticTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y)
			case shape.OpCubic:
				ctx.CubicTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
			case shape.OpClose:
				ctx.ClosePath()
			}
		}
	}
}

func polyline(ctx *gg.Context, pts []shape.Point) {
	for i, p := range pts {
		if i == 0 {
			ctx.MoveTo(p.X, p.Y)
			continue
		}
		ctx.LineTo(p.X, p.Y)
	}
}

// drawText draws t at its transformed anchor. Only the position follows
// the current matrix; the glyphs are scaled by the frame scale.
func (b *Backend) drawText(t shape.Text, paint shape.Paint) {
	if t.Content == "" || paint.IsNone() {
		return
	}
	if err := loadFonts(); err != nil {
		ggedit.Logger().Warn("raster: fonts unavailable", "error", err)
		return
	}
	brush, ok := b.brush(paint, t.Bounds())
	if !ok {
		return
	}

	src := regular
	if t.Font.Bold() {
		src = bold
	}
	size := t.Font.Size
	if size <= 0 {
		size = defaultFontSize
	}
	scale := b.frame.Scale
	if scale <= 0 {
		scale = 1
	}

	var ax, ay float64
	switch t.Anchor {
	case shape.AnchorMiddle:
		ax = 0.5
	case shape.AnchorEnd:
		ax = 1
	}
	if t.Baseline == shape.BaselineMiddle {
		ay = 0.5
	}

	x, y := b.ctx.TransformPoint(t.X, t.Y)
	b.ctx.SetFont(src.Face(size * scale))
	b.ctx.SetFillBrush(brush)
	b.ctx.DrawStringAnchored(t.Content, x, y, ax, ay)
}

func lineCap(c shape.LineCap) gg.LineCap {
	switch c {
	case shape.CapRound:
		return gg.LineCapRound
	case shape.CapSquare:
		return gg.LineCapSquare
	default:
		return gg.LineCapButt
	}
}

func lineJoin(j shape.LineJoin) gg.LineJoin {
	switch j {
	case shape.JoinRound:
		return gg.LineJoinRound
	case shape.JoinBevel:
		return gg.LineJoinBevel
	default:
		return gg.LineJoinMiter
	}
}

// rgba parses a CSS hex or named color.
func rgba(s string) (gg.RGBA, bool) {
	hex, err := fragment.ParseColor(s)
	if err != nil {
		return gg.RGBA{}, false
	}
	return gg.Hex(hex), true
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
