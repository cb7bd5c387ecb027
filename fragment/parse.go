// Package fragment converts between SVG markup fragments and structured
// shape primitives.
//
// Fragments arrive in element creation payloads (for example from the
// element library or a drag source) and are parsed once, at the boundary.
// Nothing downstream ever sees the markup again: the editor stores
// [shape.List] values and the export pipeline writes them back out with
// [Writer].
//
// The accepted vocabulary is intentionally small: rect, circle, ellipse,
// line, polyline, polygon, path, text, g, plus defs holding
// linearGradient, pattern (single circle) and filter (feDropShadow).
// Anything else is rejected with [ErrUnsupportedElement].
package fragment

import (
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/gogpu/ggedit/shape"
)

var textPolicy = bluemonday.StrictPolicy()

// CleanText strips any markup from s and collapses surrounding space.
// It is applied to text runs and to display names taken from payloads.
func CleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// node is one element of the raw fragment tree.
type node struct {
	name     string
	attrs    map[string]string
	children []*node
	text     strings.Builder
}

func (n *node) attr(key string) string { return n.attrs[key] }

func (n *node) num(key string) (float64, error) {
	v, ok := n.attrs[key]
	if !ok || strings.TrimSpace(v) == "" {
		return 0, nil
	}
	f, err := parseLength(v)
	if err != nil {
		return 0, fmt.Errorf("fragment: <%s %s=%q>: %w", n.name, key, v, err)
	}
	return f, nil
}

// Parse converts an SVG fragment (one or more sibling elements, no root
// <svg>) into primitives.
func Parse(src string) (shape.List, error) {
	root, err := readTree(src)
	if err != nil {
		return nil, err
	}
	p := &parser{paints: map[string]shape.Paint{}, shadows: map[string]*shape.Shadow{}}
	for _, n := range root.children {
		if n.name == "defs" {
			if err := p.defs(n); err != nil {
				return nil, err
			}
		}
	}
	var out shape.List
	for _, n := range root.children {
		if n.name == "defs" {
			continue
		}
		prim, err := p.primitive(n)
		if err != nil {
			return nil, err
		}
		out = append(out, prim)
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

func readTree(src string) (*node, error) {
	dec := xml.NewDecoder(strings.NewReader("<fragment>" + src + "</fragment>"))
	dec.Strict = true

	var stack []*node
	var root *node
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &SyntaxError{Offset: dec.InputOffset(), Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local, attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				n.attrs[a.Name.Local] = a.Value
			}
			// Inline style declarations win over presentation attributes.
			for _, decl := range strings.Split(n.attrs["style"], ";") {
				k, v, ok := strings.Cut(decl, ":")
				if ok {
					n.attrs[strings.TrimSpace(k)] = strings.TrimSpace(v)
				}
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if root == nil {
		return nil, ErrEmpty
	}
	return root, nil
}

type parser struct {
	paints  map[string]shape.Paint
	shadows map[string]*shape.Shadow
}

func (p *parser) defs(n *node) error {
	for _, c := range n.children {
		id := c.attr("id")
		if id == "" {
			continue
		}
		switch c.name {
		case "linearGradient":
			g, err := linearGradient(c)
			if err != nil {
				return err
			}
			p.paints[id] = shape.Paint{Kind: shape.PaintLinear, Linear: g}
		case "pattern":
			d, err := dotPattern(c)
			if err != nil {
				return err
			}
			p.paints[id] = shape.Paint{Kind: shape.PaintDots, Dots: d}
		case "filter":
			sh, err := dropShadow(c)
			if err != nil {
				return err
			}
			p.shadows[id] = sh
		default:
			return fmt.Errorf("%w: <%s> in defs", ErrUnsupportedElement, c.name)
		}
	}
	return nil
}

func linearGradient(n *node) (*shape.LinearGradient, error) {
	g := &shape.LinearGradient{X2: 1}
	for key, dst := range map[string]*float64{"x1": &g.X1, "y1": &g.Y1, "x2": &g.X2, "y2": &g.Y2} {
		if _, ok := n.attrs[key]; !ok {
			continue
		}
		v, err := n.num(key)
		if err != nil {
			return nil, err
		}
		*dst = v
	}
	for _, s := range n.children {
		if s.name != "stop" {
			continue
		}
		offset, err := s.num("offset")
		if err != nil {
			return nil, err
		}
		opacity := 1.0
		if _, ok := s.attrs["stop-opacity"]; ok {
			if opacity, err = s.num("stop-opacity"); err != nil {
				return nil, err
			}
		}
		color, err := ParseColor(s.attr("stop-color"))
		if err != nil {
			return nil, err
		}
		g.Stops = append(g.Stops, shape.Stop{Offset: offset, Color: color, Opacity: opacity})
	}
	if len(g.Stops) == 0 {
		return nil, fmt.Errorf("%w: gradient without stops", ErrBadPaint)
	}
	return g, nil
}

func dotPattern(n *node) (*shape.DotPattern, error) {
	cell, err := n.num("width")
	if err != nil {
		return nil, err
	}
	for _, c := range n.children {
		if c.name != "circle" {
			continue
		}
		r, err := c.num("r")
		if err != nil {
			return nil, err
		}
		color, err := ParseColor(c.attr("fill"))
		if err != nil {
			return nil, err
		}
		return &shape.DotPattern{Cell: cell, Radius: r, Color: color}, nil
	}
	return nil, fmt.Errorf("%w: pattern must hold one circle", ErrBadPaint)
}

func dropShadow(n *node) (*shape.Shadow, error) {
	for _, c := range n.children {
		if c.name != "feDropShadow" {
			continue
		}
		sh := &shape.Shadow{DX: 2, DY: 2, Blur: 2, Color: "#000000"}
		var err error
		if _, ok := c.attrs["dx"]; ok {
			if sh.DX, err = c.num("dx"); err != nil {
				return nil, err
			}
		}
		if _, ok := c.attrs["dy"]; ok {
			if sh.DY, err = c.num("dy"); err != nil {
				return nil, err
			}
		}
		if _, ok := c.attrs["stdDeviation"]; ok {
			if sh.Blur, err = c.num("stdDeviation"); err != nil {
				return nil, err
			}
		}
		if v := c.attr("flood-color"); v != "" {
			if sh.Color, err = ParseColor(v); err != nil {
				return nil, err
			}
		}
		return sh, nil
	}
	return nil, fmt.Errorf("%w: filter without feDropShadow", ErrUnsupportedElement)
}

func (p *parser) style(n *node) (shape.Style, error) {
	var s shape.Style
	var err error
	if s.Fill, err = p.paint(n.attr("fill")); err != nil {
		return s, err
	}
	if s.Stroke, err = p.paint(n.attr("stroke")); err != nil {
		return s, err
	}
	if s.StrokeWidth, err = n.num("stroke-width"); err != nil {
		return s, err
	}
	switch v := shape.LineCap(n.attr("stroke-linecap")); v {
	case shape.CapButt, shape.CapRound, shape.CapSquare:
		s.LineCap = v
	}
	switch v := shape.LineJoin(n.attr("stroke-linejoin")); v {
	case shape.JoinMiter, shape.JoinRound, shape.JoinBevel:
		s.LineJoin = v
	}
	if ref := n.attr("filter"); ref != "" {
		id, ok := urlRef(ref)
		if !ok || p.shadows[id] == nil {
			return s, fmt.Errorf("%w: filter %q", ErrBadPaint, ref)
		}
		sh := *p.shadows[id]
		s.Shadow = &sh
	}
	return s, nil
}

func (p *parser) paint(v string) (shape.Paint, error) {
	v = strings.TrimSpace(v)
	switch v {
	case "", "inherit", "currentColor":
		return shape.Paint{}, nil
	case "none", "transparent":
		return shape.None(), nil
	}
	if id, ok := urlRef(v); ok {
		paint, found := p.paints[id]
		if !found {
			return shape.Paint{}, fmt.Errorf("%w: %s", ErrBadPaint, v)
		}
		return paint.Clone(), nil
	}
	c, err := ParseColor(v)
	if err != nil {
		return shape.Paint{}, err
	}
	return shape.Color(c), nil
}

func (p *parser) primitive(n *node) (shape.Primitive, error) {
	st, err := p.style(n)
	if err != nil {
		return nil, err
	}
	nums := func(keys ...string) ([]float64, error) {
		out := make([]float64, len(keys))
		for i, k := range keys {
			v, err := n.num(k)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}

	switch n.name {
	case "rect":
		v, err := nums("x", "y", "width", "height", "rx", "ry")
		if err != nil {
			return nil, err
		}
		r := shape.Rectangle{X: v[0], Y: v[1], Width: v[2], Height: v[3], RX: v[4], RY: v[5], Style: st}
		if r.RY == 0 {
			r.RY = r.RX
		}
		if r.RX == 0 {
			r.RX = r.RY
		}
		return r, nil

	case "circle":
		v, err := nums("cx", "cy", "r")
		if err != nil {
			return nil, err
		}
		return shape.Ellipse{CX: v[0], CY: v[1], RX: v[2], RY: v[2], Style: st}, nil

	case "ellipse":
		v, err := nums("cx", "cy", "rx", "ry")
		if err != nil {
			return nil, err
		}
		return shape.Ellipse{CX: v[0], CY: v[1], RX: v[2], RY: v[3], Style: st}, nil

	case "line":
		v, err := nums("x1", "y1", "x2", "y2")
		if err != nil {
			return nil, err
		}
		return shape.Line{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3], Style: st}, nil

	case "polyline", "polygon":
		pts, err := parsePoints(n.attr("points"))
		if err != nil {
			return nil, err
		}
		if n.name == "polygon" {
			return shape.Polygon{Points: pts, Style: st}, nil
		}
		return shape.Polyline{Points: pts, Style: st}, nil

	case "path":
		cmds, err := ParsePathData(n.attr("d"))
		if err != nil {
			return nil, err
		}
		return shape.Path{Commands: cmds, Style: st}, nil

	case "text":
		v, err := nums("x", "y", "font-size")
		if err != nil {
			return nil, err
		}
		t := shape.Text{
			X:       v[0],
			Y:       v[1],
			Content: CleanText(n.text.String()),
			Font:    shape.Font{Family: n.attr("font-family"), Size: v[2], Weight: fontWeight(n.attr("font-weight"))},
			Style:   st,
		}
		if t.Font.Size == 0 {
			t.Font.Size = 16
		}
		switch a := shape.Anchor(n.attr("text-anchor")); a {
		case shape.AnchorStart, shape.AnchorMiddle, shape.AnchorEnd:
			t.Anchor = a
		}
		switch n.attr("dominant-baseline") {
		case "middle", "central":
			t.Baseline = shape.BaselineMiddle
		}
		return t, nil

	case "g":
		g := shape.Group{Style: st}
		for _, c := range n.children {
			child, err := p.primitive(c)
			if err != nil {
				return nil, err
			}
			g.Children = append(g.Children, child)
		}
		return g, nil
	}
	return nil, fmt.Errorf("%w: <%s>", ErrUnsupportedElement, n.name)
}

func fontWeight(v string) int {
	switch v {
	case "", "normal":
		return 0
	case "bold":
		return 700
	}
	w, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return w
}

func urlRef(v string) (string, bool) {
	if !strings.HasPrefix(v, "url(") || !strings.HasSuffix(v, ")") {
		return "", false
	}
	ref := strings.Trim(v[4:len(v)-1], `'" `)
	return strings.TrimPrefix(ref, "#"), true
}

// parseLength accepts plain numbers, "px" suffixed lengths, and
// percentages (returned as fractions).
func parseLength(v string) (float64, error) {
	v = strings.TrimSpace(v)
	scale := 1.0
	switch {
	case strings.HasSuffix(v, "%"):
		v, scale = strings.TrimSuffix(v, "%"), 0.01
	case strings.HasSuffix(v, "px"):
		v = strings.TrimSuffix(v, "px")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return f * scale, nil
}

func parsePoints(v string) ([]shape.Point, error) {
	s := &pathScanner{src: v}
	var pts []shape.Point
	for {
		s.skipSeparators()
		if s.done() {
			break
		}
		pt, err := s.point()
		if err != nil {
			return nil, fmt.Errorf("fragment: points %q: %w", v, err)
		}
		pts = append(pts, pt)
	}
	return pts, nil
}

var namedColors = map[string]string{
	"black":  "#000000",
	"white":  "#FFFFFF",
	"red":    "#FF0000",
	"green":  "#008000",
	"blue":   "#0000FF",
	"yellow": "#FFFF00",
	"gray":   "#808080",
	"grey":   "#808080",
	"orange": "#FFA500",
	"purple": "#800080",
}

// ParseColor normalizes a CSS hex or named color to "#..." form.
func ParseColor(v string) (string, error) {
	v = strings.TrimSpace(v)
	if hex, ok := namedColors[strings.ToLower(v)]; ok {
		return hex, nil
	}
	if !strings.HasPrefix(v, "#") {
		return "", fmt.Errorf("%w: color %q", ErrBadPaint, v)
	}
	switch len(v) - 1 {
	case 3, 4, 6, 8:
	default:
		return "", fmt.Errorf("%w: color %q", ErrBadPaint, v)
	}
	for _, c := range v[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return "", fmt.Errorf("%w: color %q", ErrBadPaint, v)
		}
	}
	return strings.ToUpper(v), nil
}
