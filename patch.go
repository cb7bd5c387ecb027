package ggedit

import "github.com/gogpu/ggedit/shape"

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Name *string `json:"name,omitempty"`

	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`

	Fill         *string  `json:"fill,omitempty"`
	Stroke       *string  `json:"stroke,omitempty"`
	StrokeWidth  *float64 `json:"strokeWidth,omitempty"`
	Opacity      *float64 `json:"opacity,omitempty"`
	BorderRadius *float64 `json:"borderRadius,omitempty"`

	// HasShadow switches the shadow on (with Shadow or the default
	// parameters) or off.
	HasShadow *bool         `json:"hasShadow,omitempty"`
	Shadow    *shape.Shadow `json:"shadow,omitempty"`

	Visible *bool `json:"visible,omitempty"`
	Locked  *bool `json:"locked,omitempty"`

	// Content replaces the drawable content when non-nil.
	Content shape.List `json:"content,omitempty"`
}

// Ptr returns a pointer to v. It keeps patch literals short:
//
//	store.Update(id, ggedit.Patch{X: ggedit.Ptr(40.0)})
func Ptr[T any](v T) *T { return &v }

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p.Name == nil && p.X == nil && p.Y == nil && p.Width == nil && p.Height == nil &&
		p.Rotation == nil && p.Fill == nil && p.Stroke == nil && p.StrokeWidth == nil &&
		p.Opacity == nil && p.BorderRadius == nil && p.HasShadow == nil && p.Shadow == nil &&
		p.Visible == nil && p.Locked == nil && p.Content == nil
}

// Apply writes the set fields onto e. The caller normalizes afterwards.
func (p Patch) Apply(e *Element) {
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	if p.Name != nil {
		e.Name = *p.Name
	}
	set(&e.Geometry.X, p.X)
	set(&e.Geometry.Y, p.Y)
	set(&e.Geometry.Width, p.Width)
	set(&e.Geometry.Height, p.Height)
	set(&e.Geometry.Rotation, p.Rotation)
	if p.Fill != nil {
		e.Style.Fill = *p.Fill
	}
	if p.Stroke != nil {
		e.Style.Stroke = *p.Stroke
	}
	set(&e.Style.StrokeWidth, p.StrokeWidth)
	set(&e.Style.Opacity, p.Opacity)
	set(&e.Style.BorderRadius, p.BorderRadius)

	switch {
	case p.HasShadow != nil && !*p.HasShadow:
		e.Style.Shadow = nil
	case p.Shadow != nil:
		sh := *p.Shadow
		e.Style.Shadow = &sh
	case p.HasShadow != nil && e.Style.Shadow == nil:
		e.Style.Shadow = DefaultShadow()
	}

	if p.Visible != nil {
		e.Visible = *p.Visible
	}
	if p.Locked != nil {
		e.Locked = *p.Locked
	}
	if p.Content != nil {
		e.Content = p.Content.Clone()
	}
}
