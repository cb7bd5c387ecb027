package ggedit

import (
	"encoding/json"
	"math"

	"github.com/gogpu/ggedit/shape"
)

// Kind tags the shape class of an element.
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindEllipse   Kind = "ellipse"
	KindPolygon   Kind = "polygon"
	KindLine      Kind = "line"
	KindPath      Kind = "path"
	KindText      Kind = "text"
	KindIcon      Kind = "icon"
	// KindComposite marks content made of several sibling primitives,
	// such as a label (background plus text).
	KindComposite Kind = "composite"
)

// Element defaults applied on creation.
const (
	DefaultWidth       = 100
	DefaultHeight      = 100
	DefaultFill        = "#3B82F6"
	DefaultStroke      = "#1E40AF"
	DefaultStrokeWidth = 2

	// MaxBorderRadius bounds Style.BorderRadius.
	MaxBorderRadius = 50
)

// Geometry positions an element on the canvas. Content is drawn in local
// coordinates translated to (X, Y) and rotated by Rotation degrees.
type Geometry struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
}

// Style is the element level presentation. Fill, Stroke and StrokeWidth
// apply to content primitives that leave them unset.
type Style struct {
	Fill         string        `json:"fill,omitempty"`
	Stroke       string        `json:"stroke,omitempty"`
	StrokeWidth  float64       `json:"strokeWidth"`
	Opacity      float64       `json:"opacity"`
	Shadow       *shape.Shadow `json:"shadow,omitempty"`
	BorderRadius float64       `json:"borderRadius,omitempty"`
}

// DefaultShadow is applied when a shadow is switched on without parameters.
func DefaultShadow() *shape.Shadow {
	return &shape.Shadow{DX: 4, DY: 4, Blur: 3, Color: "#00000040"}
}

// Shape returns the style as inheritable primitive style.
func (s Style) Shape() shape.Style {
	return shape.Style{
		Fill:        paintOf(s.Fill),
		Stroke:      paintOf(s.Stroke),
		StrokeWidth: s.StrokeWidth,
	}
}

func paintOf(v string) shape.Paint {
	switch v {
	case "":
		return shape.Paint{}
	case "none":
		return shape.None()
	}
	return shape.Color(v)
}

// Element is one placed graphical object.
type Element struct {
	ID       string     `json:"id"`
	Kind     Kind       `json:"kind"`
	Template string     `json:"template,omitempty"`
	Name     string     `json:"name"`
	Geometry Geometry   `json:"geometry"`
	Content  shape.List `json:"content"`
	Style    Style      `json:"style"`
	Visible  bool       `json:"visible"`
	Locked   bool       `json:"locked"`
}

// UnmarshalJSON decodes an element. Records written without "visible" or
// "opacity" get the defaults (visible, fully opaque).
func (e *Element) UnmarshalJSON(data []byte) error {
	type plain Element
	aux := struct {
		*plain
		Visible *bool `json:"visible"`
		Style   struct {
			Style
			Opacity *float64 `json:"opacity"`
		} `json:"style"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.Visible = aux.Visible == nil || *aux.Visible
	e.Style = aux.Style.Style
	e.Style.Opacity = 1
	if aux.Style.Opacity != nil {
		e.Style.Opacity = *aux.Style.Opacity
	}
	return nil
}

// Clone returns a deep copy of e.
func (e Element) Clone() Element {
	e.Content = e.Content.Clone()
	if e.Style.Shadow != nil {
		sh := *e.Style.Shadow
		e.Style.Shadow = &sh
	}
	return e
}

// normalize clamps fields into their valid ranges.
func (e *Element) normalize() {
	e.Geometry.Width = math.Max(0, e.Geometry.Width)
	e.Geometry.Height = math.Max(0, e.Geometry.Height)
	e.Geometry.Rotation = normalizeDegrees(e.Geometry.Rotation)
	e.Style.Opacity = clamp(e.Style.Opacity, 0, 1)
	e.Style.StrokeWidth = math.Max(0, e.Style.StrokeWidth)
	e.Style.BorderRadius = clamp(e.Style.BorderRadius, 0, MaxBorderRadius)
}

func normalizeDegrees(d float64) float64 {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0
	}
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}

// NewElement returns an element with default geometry and style at (x, y).
func NewElement(id, template, name string, kind Kind, content shape.List, x, y float64) Element {
	return Element{
		ID:       id,
		Kind:     kind,
		Template: template,
		Name:     name,
		Geometry: Geometry{X: x, Y: y, Width: DefaultWidth, Height: DefaultHeight},
		Content:  content,
		Style: Style{
			Fill:        DefaultFill,
			Stroke:      DefaultStroke,
			StrokeWidth: DefaultStrokeWidth,
			Opacity:     1,
		},
		Visible: true,
	}
}

// KindOf derives an element kind from its content. Content with several
// top-level primitives is composite. Icon category content is always an
// icon.
func KindOf(category string, content shape.List) Kind {
	if category == "icons" {
		return KindIcon
	}
	if len(content) != 1 {
		return KindComposite
	}
	switch p := content[0].(type) {
	case shape.Rectangle:
		return KindRectangle
	case shape.Ellipse:
		if p.IsCircle() {
			return KindCircle
		}
		return KindEllipse
	case shape.Polygon:
		return KindPolygon
	case shape.Line:
		return KindLine
	case shape.Text:
		return KindText
	case shape.Polyline, shape.Path:
		return KindPath
	}
	return KindComposite
}
