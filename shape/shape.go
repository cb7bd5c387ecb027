// Package shape describes the drawable content of an editor element as a
// small set of structured primitives.
//
// Content is never kept as markup. Each primitive carries explicit numeric
// and string fields so that the SVG writer, the raster renderer and hit
// testing all interpret the same structure.
//
// # Primitives
//
//   - [Rectangle]: axis-aligned rectangle with optional corner radii
//   - [Ellipse]: ellipse or circle (RX == RY)
//   - [Line], [Polyline], [Polygon]: point-based outlines
//   - [Path]: move/line/quad/cubic/close command sequence
//   - [Text]: a single text run
//   - [Group]: nested primitives sharing a style
//
// Coordinates are local to the owning element; the element's geometry
// translates and rotates them onto the canvas.
package shape

// Type identifies the kind of a primitive.
type Type uint8

const (
	TypeRect     Type = iota // Rectangle
	TypeEllipse              // Ellipse or circle
	TypeLine                 // Straight segment
	TypePolyline             // Open point sequence
	TypePolygon              // Closed point sequence
	TypePath                 // Command path
	TypeText                 // Text run
	TypeGroup                // Nested primitives
)

var typeNames = [...]string{
	TypeRect:     "rect",
	TypeEllipse:  "ellipse",
	TypeLine:     "line",
	TypePolyline: "polyline",
	TypePolygon:  "polygon",
	TypePath:     "path",
	TypeText:     "text",
	TypeGroup:    "group",
}

// String returns the wire name of the type.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

func parseType(s string) (Type, bool) {
	for i, name := range typeNames {
		if name == s {
			return Type(i), true
		}
	}
	return 0, false
}

// Primitive is implemented by every drawable content node.
type Primitive interface {
	// Type returns the primitive kind.
	Type() Type

	// Bounds returns the local-space bounding box, ignoring stroke width.
	Bounds() Box
}

// Point is a 2D point in local coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rectangle is an axis-aligned rectangle. RX and RY round the corners.
type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	RX     float64 `json:"rx,omitempty"`
	RY     float64 `json:"ry,omitempty"`
	Style  Style   `json:"style,omitzero"`
}

// Ellipse is centered at (CX, CY). A circle has RX == RY.
type Ellipse struct {
	CX    float64 `json:"cx"`
	CY    float64 `json:"cy"`
	RX    float64 `json:"rx"`
	RY    float64 `json:"ry"`
	Style Style   `json:"style,omitzero"`
}

// IsCircle reports whether both radii are equal.
func (e Ellipse) IsCircle() bool { return e.RX == e.RY }

// Line is a single segment.
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Style Style   `json:"style,omitzero"`
}

// Polyline is an open sequence of points.
type Polyline struct {
	Points []Point `json:"points"`
	Style  Style   `json:"style,omitzero"`
}

// Polygon is a closed sequence of points.
type Polygon struct {
	Points []Point `json:"points"`
	Style  Style   `json:"style,omitzero"`
}

// Op is a path command verb.
type Op string

const (
	OpMove  Op = "M"
	OpLine  Op = "L"
	OpQuad  Op = "Q"
	OpCubic Op = "C"
	OpClose Op = "Z"
)

// Arity returns the number of points the verb consumes.
func (o Op) Arity() int {
	switch o {
	case OpMove, OpLine:
		return 1
	case OpQuad:
		return 2
	case OpCubic:
		return 3
	default:
		return 0
	}
}

// Command is one path verb with its absolute points.
type Command struct {
	Op     Op      `json:"op"`
	Points []Point `json:"pts,omitempty"`
}

// Path is a sequence of absolute path commands.
type Path struct {
	Commands []Command `json:"commands"`
	Style    Style     `json:"style,omitzero"`
}

// Anchor is the horizontal alignment of a text run relative to X.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Baseline is the vertical alignment of a text run relative to Y.
type Baseline string

const (
	BaselineAuto   Baseline = "auto"
	BaselineMiddle Baseline = "middle"
)

// Font selects the face used for a text run.
type Font struct {
	Family string  `json:"family,omitempty"`
	Size   float64 `json:"size"`
	Weight int     `json:"weight,omitempty"`
}

// Bold reports whether the weight is semibold or heavier.
func (f Font) Bold() bool { return f.Weight >= 600 }

// Text is a single line of text anchored at (X, Y).
type Text struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Content  string   `json:"content"`
	Font     Font     `json:"font"`
	Anchor   Anchor   `json:"anchor,omitempty"`
	Baseline Baseline `json:"baseline,omitempty"`
	Style    Style    `json:"style,omitzero"`
}

// Group nests primitives under a shared style. Children inherit paints
// they leave unset.
type Group struct {
	Children List  `json:"children"`
	Style    Style `json:"style,omitzero"`
}

func (Rectangle) Type() Type { return TypeRect }
func (Ellipse) Type() Type   { return TypeEllipse }
func (Line) Type() Type      { return TypeLine }
func (Polyline) Type() Type  { return TypePolyline }
func (Polygon) Type() Type   { return TypePolygon }
func (Path) Type() Type      { return TypePath }
func (Text) Type() Type      { return TypeText }
func (Group) Type() Type     { return TypeGroup }

var (
	_ Primitive = Rectangle{}
	_ Primitive = Ellipse{}
	_ Primitive = Line{}
	_ Primitive = Polyline{}
	_ Primitive = Polygon{}
	_ Primitive = Path{}
	_ Primitive = Text{}
	_ Primitive = Group{}
)

// StyleOf returns the style carried by p.
func StyleOf(p Primitive) Style {
	switch v := p.(type) {
	case Rectangle:
		return v.Style
	case Ellipse:
		return v.Style
	case Line:
		return v.Style
	case Polyline:
		return v.Style
	case Polygon:
		return v.Style
	case Path:
		return v.Style
	case Text:
		return v.Style
	case Group:
		return v.Style
	}
	return Style{}
}

// Clone returns a deep copy of p. Slices are never shared with the source.
func Clone(p Primitive) Primitive {
	switch v := p.(type) {
	case Rectangle:
		v.Style = v.Style.clone()
		return v
	case Ellipse:
		v.Style = v.Style.clone()
		return v
	case Line:
		v.Style = v.Style.clone()
		return v
	case Polyline:
		v.Points = clonePoints(v.Points)
		v.Style = v.Style.clone()
		return v
	case Polygon:
		v.Points = clonePoints(v.Points)
		v.Style = v.Style.clone()
		return v
	case Path:
		cmds := make([]Command, len(v.Commands))
		for i, c := range v.Commands {
			cmds[i] = Command{Op: c.Op, Points: clonePoints(c.Points)}
		}
		v.Commands = cmds
		v.Style = v.Style.clone()
		return v
	case Text:
		v.Style = v.Style.clone()
		return v
	case Group:
		v.Children = v.Children.Clone()
		v.Style = v.Style.clone()
		return v
	}
	return p
}

func clonePoints(pts []Point) []Point {
	if pts == nil {
		return nil
	}
	out := make([]Point, len(pts))
	copy(out, pts)
	return out
}

// List is an ordered sequence of primitives, painted first to last.
type List []Primitive

// Clone returns a deep copy of the list.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	for i, p := range l {
		out[i] = Clone(p)
	}
	return out
}

// Bounds returns the union of every primitive's bounds.
func (l List) Bounds() Box {
	b := EmptyBox()
	for _, p := range l {
		b = b.Union(p.Bounds())
	}
	return b
}
