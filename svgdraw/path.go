package svgdraw

import (
	"fmt"
	"math"

	"github.com/benoitkugler/svgbytecode/svgir"
	"github.com/benoitkugler/svgbytecode/svgmath"
)

// maxDx is the maximum radians a cubic splice is allowed to span
// when approximating an ellipse arc.
const maxDx = math.Pi / 8

// cursor forwards path segments to a PathBuilder, expanding the
// high level shapes into lines and cubic curves.
type cursor struct {
	b PathBuilder

	current, start svgmath.Point
	hasCurrent     bool
}

func (c *cursor) moveTo(p svgmath.Point) {
	c.b.MoveTo(p)
	c.current, c.start, c.hasCurrent = p, p, true
}

// lineTo starts a new subpath if there is no current point
func (c *cursor) lineTo(p svgmath.Point) {
	if !c.hasCurrent {
		c.moveTo(p)
		return
	}
	c.b.LineTo(p)
	c.current = p
}

func (c *cursor) cubeTo(c1, c2, to svgmath.Point) {
	if !c.hasCurrent {
		c.moveTo(c1)
	}
	c.b.CubeTo(c1, c2, to)
	c.current = to
}

func (c *cursor) closePath() {
	if !c.hasCurrent {
		return
	}
	c.b.ClosePath()
	c.current = c.start
}

// reset is called when the path is consumed
func (c *cursor) reset() { c.hasCurrent = false }

// ellipseArc adds an arc of the axis aligned ellipse of center
// and radii (rx, ry), from the parametric angle eta, spanning dEta.
// The arc is joined to the current point with a line, if any
// and distinct from the start of the arc.
func (c *cursor) ellipseArc(center svgmath.Point, rx, ry, eta, dEta float64) {
	at := func(eta float64) svgmath.Point {
		return svgmath.Pt(center.X+rx*math.Cos(eta), center.Y+ry*math.Sin(eta))
	}
	prime := func(eta float64) svgmath.Point {
		return svgmath.Pt(-rx*math.Sin(eta), ry*math.Cos(eta))
	}

	if start := at(eta); !c.hasCurrent || c.current != start {
		c.lineTo(start)
	}
	if dEta == 0 {
		return
	}
	// Maisonobe, "Drawing an elliptical arc using polylines,
	// quadratic or cubic Bezier curves", 2003
	segs := int(math.Abs(dEta)/maxDx) + 1
	step := dEta / float64(segs)
	tde := math.Tan(step / 2)
	alpha := math.Sin(step) * (math.Sqrt(4+3*tde*tde) - 1) / 3
	l, ld := c.current, prime(eta)
	for i := 1; i <= segs; i++ {
		e := eta + step*float64(i)
		p, d := at(e), prime(e)
		c.cubeTo(l.Add(ld.Mul(alpha)), p.Sub(d.Mul(alpha)), p)
		l, ld = p, d
	}
}

func (c *cursor) rectangle(r svgmath.Rect) {
	c.moveTo(svgmath.Pt(r.X, r.Y))
	c.lineTo(svgmath.Pt(r.MaxX(), r.Y))
	c.lineTo(svgmath.Pt(r.MaxX(), r.MaxY()))
	c.lineTo(svgmath.Pt(r.X, r.MaxY()))
	c.closePath()
}

func (c *cursor) roundedRect(r svgmath.Rect, rx, ry float64) {
	rx = math.Min(math.Abs(rx), r.W/2)
	ry = math.Min(math.Abs(ry), r.H/2)
	if rx == 0 || ry == 0 {
		c.rectangle(r)
		return
	}
	const quarter = math.Pi / 2
	c.moveTo(svgmath.Pt(r.X+rx, r.Y))
	c.ellipseArc(svgmath.Pt(r.MaxX()-rx, r.Y+ry), rx, ry, -quarter, quarter)
	c.ellipseArc(svgmath.Pt(r.MaxX()-rx, r.MaxY()-ry), rx, ry, 0, quarter)
	c.ellipseArc(svgmath.Pt(r.X+rx, r.MaxY()-ry), rx, ry, quarter, quarter)
	c.ellipseArc(svgmath.Pt(r.X+rx, r.Y+ry), rx, ry, 2*quarter, quarter)
	c.closePath()
}

func (c *cursor) ellipse(in svgmath.Rect) {
	rx, ry := in.W/2, in.H/2
	center := svgmath.Pt(in.X+rx, in.Y+ry)
	c.moveTo(svgmath.Pt(center.X+rx, center.Y))
	c.ellipseArc(center, rx, ry, 0, 2*math.Pi)
	c.closePath()
}

// arcSweep returns the signed angle from start to end, in the
// decreasing direction when clockwise is true.
func arcSweep(start, end float64, clockwise bool) float64 {
	d := end - start
	if math.Abs(d) >= 2*math.Pi {
		return math.Copysign(2*math.Pi, d)
	}
	if clockwise && d > 0 {
		d -= 2 * math.Pi
	} else if !clockwise && d < 0 {
		d += 2 * math.Pi
	}
	return d
}

func (c *cursor) segment(seg svgir.PathSegment) error {
	switch s := seg.(type) {
	case svgir.MoveTo:
		c.moveTo(s.To)
	case svgir.LineTo:
		c.lineTo(s.To)
	case svgir.CurveTo:
		c.cubeTo(s.C1, s.C2, s.To)
	case svgir.QuadCurveTo:
		if !c.hasCurrent {
			c.moveTo(s.C)
		}
		c.b.QuadTo(s.C, s.To)
		c.current = s.To
	case svgir.AddArc:
		r := math.Abs(s.Radius)
		c.ellipseArc(s.Center, r, r, s.StartAngle, arcSweep(s.StartAngle, s.EndAngle, s.Clockwise))
	case svgir.ClosePath:
		c.closePath()
	case svgir.Lines:
		for i, p := range s.Points {
			if i == 0 {
				c.moveTo(p)
			} else {
				c.lineTo(p)
			}
		}
	case svgir.AppendRectangle:
		c.rectangle(s.Rect)
	case svgir.AppendRoundedRect:
		c.roundedRect(s.Rect, s.RX, s.RY)
	case svgir.AddEllipse:
		c.ellipse(s.In)
	case svgir.PathComposite:
		for _, sub := range s {
			if err := c.segment(sub); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unexpected path segment %T", seg)
	}
	return nil
}

// AppendPath sends seg to b, expanding arcs, rectangles and
// ellipses into lines and cubic curves.
func AppendPath(seg svgir.PathSegment, b PathBuilder) error {
	c := cursor{b: b}
	return c.segment(seg)
}
