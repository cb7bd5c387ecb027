package shape

// PaintKind selects how a paint is applied.
type PaintKind string

const (
	// PaintInherit defers to the enclosing group or element style.
	PaintInherit PaintKind = ""
	// PaintNone disables filling or stroking.
	PaintNone PaintKind = "none"
	// PaintColor paints with a single color.
	PaintColor PaintKind = "color"
	// PaintLinear paints with a linear gradient across the bounding box.
	PaintLinear PaintKind = "linear"
	// PaintDots paints with a repeating dot pattern.
	PaintDots PaintKind = "dots"
)

// Paint describes a fill or stroke source. The zero value inherits.
type Paint struct {
	Kind   PaintKind       `json:"kind,omitempty"`
	Color  string          `json:"color,omitempty"`
	Linear *LinearGradient `json:"linear,omitempty"`
	Dots   *DotPattern     `json:"dots,omitempty"`
}

// Color returns a solid paint. hex is "#RGB", "#RRGGBB" or "#RRGGBBAA".
func Color(hex string) Paint { return Paint{Kind: PaintColor, Color: hex} }

// None returns a paint that draws nothing.
func None() Paint { return Paint{Kind: PaintNone} }

// IsInherit reports whether p defers to its parent.
func (p Paint) IsInherit() bool { return p.Kind == PaintInherit }

// IsNone reports whether p draws nothing.
func (p Paint) IsNone() bool { return p.Kind == PaintNone }

// Or returns p unless it inherits, in which case parent is returned.
func (p Paint) Or(parent Paint) Paint {
	if p.IsInherit() {
		return parent
	}
	return p
}

// Clone returns a copy of p that shares no gradient or pattern storage.
func (p Paint) Clone() Paint {
	if p.Linear != nil {
		g := *p.Linear
		g.Stops = append([]Stop(nil), p.Linear.Stops...)
		p.Linear = &g
	}
	if p.Dots != nil {
		d := *p.Dots
		p.Dots = &d
	}
	return p
}

// LinearGradient runs from (X1, Y1) to (X2, Y2), given as fractions of the
// painted primitive's bounding box.
type LinearGradient struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Stops []Stop  `json:"stops"`
}

// Stop is a gradient color stop. Offset is in [0, 1].
type Stop struct {
	Offset  float64 `json:"offset"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// DotPattern tiles Cell×Cell squares in user space, each holding one dot.
type DotPattern struct {
	Cell   float64 `json:"cell"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
}

// LineCap is the stroke end style.
type LineCap string

const (
	CapButt   LineCap = "butt"
	CapRound  LineCap = "round"
	CapSquare LineCap = "square"
)

// LineJoin is the stroke corner style.
type LineJoin string

const (
	JoinMiter LineJoin = "miter"
	JoinRound LineJoin = "round"
	JoinBevel LineJoin = "bevel"
)

// Shadow is a drop shadow offset by (DX, DY) and softened by Blur.
type Shadow struct {
	DX    float64 `json:"dx"`
	DY    float64 `json:"dy"`
	Blur  float64 `json:"blur"`
	Color string  `json:"color"`
}

// Style holds the presentation attributes of a primitive. Unset fields
// inherit from the enclosing group and finally from the element.
type Style struct {
	Fill        Paint    `json:"fill,omitzero"`
	Stroke      Paint    `json:"stroke,omitzero"`
	StrokeWidth float64  `json:"strokeWidth,omitempty"`
	LineCap     LineCap  `json:"lineCap,omitempty"`
	LineJoin    LineJoin `json:"lineJoin,omitempty"`
	Shadow      *Shadow  `json:"shadow,omitempty"`
}

// Inherit fills every unset field of s from parent.
func (s Style) Inherit(parent Style) Style {
	s.Fill = s.Fill.Or(parent.Fill)
	s.Stroke = s.Stroke.Or(parent.Stroke)
	if s.StrokeWidth == 0 {
		s.StrokeWidth = parent.StrokeWidth
	}
	if s.LineCap == "" {
		s.LineCap = parent.LineCap
	}
	if s.LineJoin == "" {
		s.LineJoin = parent.LineJoin
	}
	if s.Shadow == nil {
		s.Shadow = parent.Shadow
	}
	return s
}

func (s Style) clone() Style {
	s.Fill = s.Fill.Clone()
	s.Stroke = s.Stroke.Clone()
	if s.Shadow != nil {
		sh := *s.Shadow
		s.Shadow = &sh
	}
	return s
}
