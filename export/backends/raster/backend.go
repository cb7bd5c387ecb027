// Package raster provides the pixel export backends. Documents are drawn
// with gg.Context and encoded as PNG, JPEG, BMP or TIFF.
//
// # Supported Features
//
//   - Rectangles (with corner radii), ellipses, lines, polylines, polygons
//     and paths with solid, linear gradient and dot pattern paints
//   - Element translate/rotate transforms and group opacity via layers
//   - Drop shadows, drawn as an unblurred offset silhouette
//   - Text in the Go fonts (regular and bold)
//   - Output scale and JPEG quality presets
//
// # Limitations
//
// Text runs are positioned through the element transform but drawn
// unrotated, because gg text ignores the current matrix. PNG, BMP and TIFF
// are lossless, so the quality preset only affects JPEG.
//
// # Example
//
//	// Import to register png, jpg, jpeg, bmp and tiff
//	import _ "github.com/gogpu/ggedit/export/backends/raster"
//
//	res, err := export.Render(elements, export.Options{Format: export.FormatPNG, Width: 800, Height: 600})
package raster

import (
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gogpu/ggedit/export"
	"github.com/gogpu/ggedit/shape"
)

func init() {
	for _, f := range []export.Format{export.FormatPNG, export.FormatJPG, export.FormatJPEG, export.FormatBMP, export.FormatTIFF} {
		export.Register(string(f), func() export.Backend {
			return NewBackend(f)
		})
	}
}

// Backend renders a Document to pixels using gg.Context.
type Backend struct {
	format export.Format
	ctx    *gg.Context
	frame  export.Frame
	width  int
	height int

	group  *export.Group
	layers int
}

var _ export.WriterBackend = (*Backend)(nil)

// NewBackend creates a raster backend that encodes as format. The backend
// must be initialized with Begin before use.
func NewBackend(format export.Format) *Backend {
	return &Backend{format: format}
}

// Begin allocates a canvas of the frame's pixel size and scales user units
// to it. JPEG has no alpha channel, so its canvas starts white.
func (b *Backend) Begin(f export.Frame) error {
	switch b.format {
	case export.FormatPNG, export.FormatJPG, export.FormatJPEG, export.FormatBMP, export.FormatTIFF:
	default:
		return fmt.Errorf("raster: cannot encode %q", b.format)
	}
	b.frame = f
	b.width, b.height = f.Pixels()
	if b.ctx != nil {
		_ = b.ctx.Close()
	}
	b.ctx = gg.NewContext(b.width, b.height)
	if b.isJPEG() {
		b.ctx.ClearWithColor(gg.White)
	}
	scale := f.Scale
	if scale <= 0 {
		scale = 1
	}
	b.ctx.Scale(scale, scale)
	return nil
}

// Background fills the whole canvas.
func (b *Backend) Background(color string) {
	c, ok := rgba(color)
	if !ok {
		return
	}
	b.ctx.Push()
	b.ctx.Identity()
	b.ctx.SetFillBrush(gg.Solid(c))
	b.ctx.DrawRectangle(0, 0, float64(b.width), float64(b.height))
	_ = b.ctx.Fill()
	b.ctx.Pop()
}

// BeginGroup applies the group transform and, for translucent groups,
// opens a layer that is composited at the group's opacity.
func (b *Backend) BeginGroup(g *export.Group) {
	b.group = g
	b.ctx.Push()
	b.ctx.Translate(g.X, g.Y)
	if g.Rotation != 0 {
		b.ctx.Rotate(radians(g.Rotation))
	}
	if g.Opacity < 1 {
		b.ctx.PushLayer(gg.BlendNormal, g.Opacity)
		b.layers++
	}
}

// DrawPrimitive draws p with the open group's style as parent.
func (b *Backend) DrawPrimitive(p shape.Primitive) {
	var parent shape.Style
	if b.group != nil {
		parent = b.group.Style
		if sh := b.group.Shadow; sh != nil {
			b.drawShadow(p, parent, sh)
		}
	}
	b.draw(p, parent, "")
}

// EndGroup closes the group opened by BeginGroup.
func (b *Backend) EndGroup() {
	if b.group != nil && b.group.Opacity < 1 && b.layers > 0 {
		b.ctx.PopLayer()
		b.layers--
	}
	b.ctx.Pop()
	b.group = nil
}

// DrawGuide strokes a preview guide with its own style.
func (b *Backend) DrawGuide(g export.Guide) {
	b.ctx.Push()
	b.ctx.Translate(g.X, g.Y)
	if g.Rotation != 0 {
		b.ctx.Rotate(radians(g.Rotation))
	}
	if len(g.Dash) > 0 {
		b.ctx.SetDash(g.Dash...)
	}
	b.draw(g.Shape, shape.Style{}, "")
	b.ctx.ClearDash()
	b.ctx.Pop()
}

// End finalizes the rendering. Unbalanced layers are composited.
func (b *Backend) End() error {
	for ; b.layers > 0; b.layers-- {
		b.ctx.PopLayer()
	}
	return nil
}

// WriteTo encodes the canvas in the backend's format.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	if b.ctx == nil {
		return 0, fmt.Errorf("raster: WriteTo before Begin")
	}
	cw := &countingWriter{w: w}
	var err error
	switch b.format {
	case export.FormatPNG:
		err = b.ctx.EncodePNG(cw)
	case export.FormatJPG, export.FormatJPEG:
		err = b.ctx.EncodeJPEG(cw, b.frame.Quality.JPEG())
	case export.FormatBMP:
		err = bmp.Encode(cw, b.ctx.Image())
	case export.FormatTIFF:
		err = tiff.Encode(cw, b.ctx.Image(), &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	}
	return cw.n, err
}

// Image returns the rendered image.
func (b *Backend) Image() image.Image {
	return b.ctx.Image()
}

// Width returns the canvas width in pixels.
func (b *Backend) Width() int {
	return b.width
}

// Height returns the canvas height in pixels.
func (b *Backend) Height() int {
	return b.height
}

// Close releases the canvas.
func (b *Backend) Close() error {
	if b.ctx == nil {
		return nil
	}
	err := b.ctx.Close()
	b.ctx = nil
	return err
}

func (b *Backend) isJPEG() bool {
	return b.format == export.FormatJPG || b.format == export.FormatJPEG
}

// countingWriter wraps an io.Writer and counts bytes written.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
