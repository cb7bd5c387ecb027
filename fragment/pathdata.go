package fragment

import (
	"fmt"
	"strconv"

	"github.com/gogpu/ggedit/shape"
)

// ParsePathData converts an SVG path "d" attribute into absolute commands.
// H/V become lines, S/T are expanded with reflected control points.
// Elliptical arcs are not supported.
func ParsePathData(d string) ([]shape.Command, error) {
	s := &pathScanner{src: d}
	var (
		cmds         []shape.Command
		cur, start   shape.Point
		lastCtrl     shape.Point
		lastOp       byte
		verb         byte
		haveVerb     bool
		firstInGroup bool
	)

	for {
		s.skipSeparators()
		if s.done() {
			break
		}
		if c := s.peek(); isVerb(c) {
			verb = c
			haveVerb = true
			firstInGroup = true
			s.pos++
		} else if !haveVerb {
			return nil, fmt.Errorf("%w: expected command at %d", ErrBadPathData, s.pos)
		}

		rel := verb >= 'a' && verb <= 'z'
		abs := func(p shape.Point) shape.Point {
			if rel {
				return shape.Point{X: cur.X + p.X, Y: cur.Y + p.Y}
			}
			return p
		}

		switch verb {
		case 'Z', 'z':
			cmds = append(cmds, shape.Command{Op: shape.OpClose})
			cur = start
			lastOp = 'Z'
			// Another verb must follow a close.
			haveVerb = false
			continue

		case 'M', 'm':
			p, err := s.point()
			if err != nil {
				return nil, err
			}
			p = abs(p)
			if firstInGroup {
				cmds = append(cmds, shape.Command{Op: shape.OpMove, Points: []shape.Point{p}})
				start = p
			} else {
				// Extra coordinate pairs after a moveto are implicit linetos.
				cmds = append(cmds, shape.Command{Op: shape.OpLine, Points: []shape.Point{p}})
			}
			cur = p
			lastOp = 'M'

		case 'L', 'l':
			p, err := s.point()
			if err != nil {
				return nil, err
			}
			p = abs(p)
			cmds = append(cmds, shape.Command{Op: shape.OpLine, Points: []shape.Point{p}})
			cur = p
			lastOp = 'L'

		case 'H', 'h':
			x, err := s.number()
			if err != nil {
				return nil, err
			}
			if rel {
				x += cur.X
			}
			cur = shape.Point{X: x, Y: cur.Y}
			cmds = append(cmds, shape.Command{Op: shape.OpLine, Points: []shape.Point{cur}})
			lastOp = 'L'

		case 'V', 'v':
			y, err := s.number()
			if err != nil {
				return nil, err
			}
			if rel {
				y += cur.Y
			}
			cur = shape.Point{X: cur.X, Y: y}
			cmds = append(cmds, shape.Command{Op: shape.OpLine, Points: []shape.Point{cur}})
			lastOp = 'L'

		case 'C', 'c', 'S', 's':
			var c1 shape.Point
			if verb == 'C' || verb == 'c' {
				p, err := s.point()
				if err != nil {
					return nil, err
				}
				c1 = abs(p)
			} else {
				c1 = cur
				if lastOp == 'C' {
					c1 = reflect(lastCtrl, cur)
				}
			}
			c2, err := s.point()
			if err != nil {
				return nil, err
			}
			end, err := s.point()
			if err != nil {
				return nil, err
			}
			c2, end = abs(c2), abs(end)
			cmds = append(cmds, shape.Command{Op: shape.OpCubic, Points: []shape.Point{c1, c2, end}})
			lastCtrl = c2
			cur = end
			lastOp = 'C'

		case 'Q', 'q', 'T', 't':
			var c shape.Point
			if verb == 'Q' || verb == 'q' {
				p, err := s.point()
				if err != nil {
					return nil, err
				}
				c = abs(p)
			} else {
				c = cur
				if lastOp == 'Q' {
					c = reflect(lastCtrl, cur)
				}
			}
			end, err := s.point()
			if err != nil {
				return nil, err
			}
			end = abs(end)
			cmds = append(cmds, shape.Command{Op: shape.OpQuad, Points: []shape.Point{c, end}})
			lastCtrl = c
			cur = end
			lastOp = 'Q'

		default:
			return nil, fmt.Errorf("%w: unsupported command %q", ErrBadPathData, verb)
		}
		firstInGroup = false
	}

	if len(cmds) > 0 && cmds[0].Op != shape.OpMove {
		return nil, fmt.Errorf("%w: path must start with a moveto", ErrBadPathData)
	}
	return cmds, nil
}

func reflect(ctrl, about shape.Point) shape.Point {
	return shape.Point{X: 2*about.X - ctrl.X, Y: 2*about.Y - ctrl.Y}
}

func isVerb(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'S', 's', 'Q', 'q', 'T', 't', 'Z', 'z', 'A', 'a':
		return true
	}
	return false
}

// pathScanner tokenizes numbers in path data. Numbers may be separated by
// whitespace, commas, a sign, or a second decimal point ("0.5.5").
type pathScanner struct {
	src string
	pos int
}

func (s *pathScanner) done() bool { return s.pos >= len(s.src) }

func (s *pathScanner) peek() byte { return s.src[s.pos] }

func (s *pathScanner) skipSeparators() {
	for !s.done() {
		switch s.peek() {
		case ' ', '\t', '\n', '\r', ',':
			s.pos++
		default:
			return
		}
	}
}

func (s *pathScanner) number() (float64, error) {
	s.skipSeparators()
	begin := s.pos
	if !s.done() && (s.peek() == '+' || s.peek() == '-') {
		s.pos++
	}
	sawDot, sawDigit := false, false
scan:
	for !s.done() {
		c := s.peek()
		switch {
		case c >= '0' && c <= '9':
			sawDigit = true
		case c == '.' && !sawDot:
			sawDot = true
		case (c == 'e' || c == 'E') && sawDigit:
			if s.pos+1 < len(s.src) && (s.src[s.pos+1] == '-' || s.src[s.pos+1] == '+') {
				s.pos++
			}
		default:
			break scan
		}
		s.pos++
	}
	if !sawDigit {
		return 0, fmt.Errorf("%w: expected number at %d", ErrBadPathData, begin)
	}
	v, err := strconv.ParseFloat(s.src[begin:s.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadPathData, err)
	}
	return v, nil
}

func (s *pathScanner) point() (shape.Point, error) {
	x, err := s.number()
	if err != nil {
		return shape.Point{}, err
	}
	y, err := s.number()
	if err != nil {
		return shape.Point{}, err
	}
	return shape.Point{X: x, Y: y}, nil
}
