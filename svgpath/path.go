// Package svgpath lowers SVG path data and basic shapes
// to path segments, with their bounding box.
package svgpath

import (
	"errors"
	"fmt"
	"math"

	"github.com/benoitkugler/svgbytecode/svgdoc"
	"github.com/benoitkugler/svgbytecode/svgir"
	"github.com/benoitkugler/svgbytecode/svgmath"
)

var (
	// ErrNoPreviousPoint is returned when a command needing
	// a current point is used at the start of a path.
	ErrNoPreviousPoint = errors.New("no previous point in path")
	// ErrEllipticalArc is returned for arcs whose radii differ.
	ErrEllipticalArc = errors.New("elliptical arcs are not supported")
)

// reflection remembers the last control point of a curve family.
// It is valid only right after a command of that family.
type reflection struct {
	p       svgmath.Point
	valid   bool
	touched bool
}

func (r *reflection) set(p svgmath.Point) { r.p, r.valid, r.touched = p, true, true }

func (r *reflection) clear() { r.valid, r.touched = false, true }

// endCommand forgets the point unless the command just processed updated it
func (r *reflection) endCommand() {
	if !r.touched {
		r.valid = false
	}
	r.touched = false
}

// control returns the reflection of the remembered point
// across current, or current itself.
func (r reflection) control(current svgmath.Point) svgmath.Point {
	if !r.valid {
		return current
	}
	return svgmath.Reflect(r.p, current)
}

// pathBuilder holds the state while processing path commands
type pathBuilder struct {
	current      svgmath.Point
	hasCurrent   bool
	subpathStart svgmath.Point

	lastCubicCtrl reflection
	lastQuadCtrl  reflection

	bbox     svgmath.BBox
	segments []svgir.PathSegment
}

func (pb *pathBuilder) moveCurrent(p svgmath.Point) {
	pb.current, pb.hasCurrent = p, true
}

// resolve converts the i-th pair of args to an absolute point
func (pb *pathBuilder) resolve(relative bool, args []float64, i int) (svgmath.Point, error) {
	p := svgmath.Pt(args[i], args[i+1])
	if !relative {
		return p, nil
	}
	if !pb.hasCurrent {
		return p, ErrNoPreviousPoint
	}
	return pb.current.Add(p), nil
}

// start returns the current point, required by the command.
func (pb *pathBuilder) start() (svgmath.Point, error) {
	if !pb.hasCurrent {
		return svgmath.Point{}, ErrNoPreviousPoint
	}
	return pb.current, nil
}

// from returns the starting point for the bounding box of a curve
func (pb *pathBuilder) from(fallback svgmath.Point) svgmath.Point {
	if pb.hasCurrent {
		return pb.current
	}
	return fallback
}

func (pb *pathBuilder) emit(seg svgir.PathSegment) { pb.segments = append(pb.segments, seg) }

func (pb *pathBuilder) lineTo(to svgmath.Point) {
	pb.bbox.Add(pb.from(to))
	pb.bbox.Add(to)
	pb.emit(svgir.LineTo{To: to})
	pb.moveCurrent(to)
}

// BuildPathData lowers the commands of a path. It returns
// a PathComposite with the bounding box of the path.
func BuildPathData(commands []svgdoc.PathCommand) (svgir.PathComposite, svgmath.Rect, error) {
	var pb pathBuilder
	for i, cmd := range commands {
		if err := pb.process(cmd); err != nil {
			return nil, svgmath.Rect{}, fmt.Errorf("path command %d (%s): %w", i, cmd.Kind, err)
		}
		pb.lastCubicCtrl.endCommand()
		pb.lastQuadCtrl.endCommand()
	}
	return svgir.PathComposite(pb.segments), pb.bbox.Rect(), nil
}

func (pb *pathBuilder) process(cmd svgdoc.PathCommand) error {
	rel := cmd.Relative
	switch cmd.Kind {
	case svgdoc.ClosePath:
		pb.emit(svgir.ClosePath{})
		if pb.hasCurrent {
			pb.current = pb.subpathStart
		}
	case svgdoc.MoveTo:
		for i, args := range cmd.Repeats() {
			if i == 0 {
				// a relative moveto at the start of a path is absolute
				to := svgmath.Pt(args[0], args[1])
				if rel && pb.hasCurrent {
					to = pb.current.Add(to)
				}
				pb.bbox.Add(to)
				pb.emit(svgir.MoveTo{To: to})
				pb.moveCurrent(to)
				pb.subpathStart = to
				continue
			}
			to, err := pb.resolve(rel, args, 0)
			if err != nil {
				return err
			}
			pb.lineTo(to)
		}
	case svgdoc.LineTo:
		for _, args := range cmd.Repeats() {
			to, err := pb.resolve(rel, args, 0)
			if err != nil {
				return err
			}
			pb.lineTo(to)
		}
	case svgdoc.HorizontalLineTo, svgdoc.VerticalLineTo:
		for _, args := range cmd.Repeats() {
			to, err := pb.start()
			if err != nil {
				return err
			}
			v := args[0]
			if cmd.Kind == svgdoc.HorizontalLineTo {
				if rel {
					v += to.X
				}
				to.X = v
			} else {
				if rel {
					v += to.Y
				}
				to.Y = v
			}
			pb.lineTo(to)
		}
	case svgdoc.CurveTo:
		for _, args := range cmd.Repeats() {
			c1, err := pb.resolve(rel, args, 0)
			if err != nil {
				return err
			}
			c2, _ := pb.resolve(rel, args, 2)
			to, _ := pb.resolve(rel, args, 4)
			pb.curveTo(c1, c2, to)
		}
	case svgdoc.SmoothCurveTo:
		for _, args := range cmd.Repeats() {
			current, err := pb.start()
			if err != nil {
				return err
			}
			c1 := pb.lastCubicCtrl.control(current)
			c2, _ := pb.resolve(rel, args, 0)
			to, _ := pb.resolve(rel, args, 2)
			pb.curveTo(c1, c2, to)
		}
	case svgdoc.QuadraticBezierCurveTo:
		for _, args := range cmd.Repeats() {
			c, err := pb.resolve(rel, args, 0)
			if err != nil {
				return err
			}
			to, _ := pb.resolve(rel, args, 2)
			pb.quadTo(c, to)
		}
	case svgdoc.SmoothQuadraticBezierCurveTo:
		for _, args := range cmd.Repeats() {
			current, err := pb.start()
			if err != nil {
				return err
			}
			c := pb.lastQuadCtrl.control(current)
			to, _ := pb.resolve(rel, args, 0)
			pb.quadTo(c, to)
		}
	case svgdoc.EllipticalArc:
		for _, args := range cmd.Repeats() {
			if err := pb.arcTo(rel, args); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("invalid path command %d", cmd.Kind)
	}
	return nil
}

func (pb *pathBuilder) curveTo(c1, c2, to svgmath.Point) {
	pb.bbox.AddCubic(pb.from(c1), c1, c2, to)
	pb.emit(svgir.CurveTo{C1: c1, C2: c2, To: to})
	pb.moveCurrent(to)
	pb.lastCubicCtrl.set(c2)
}

func (pb *pathBuilder) quadTo(c, to svgmath.Point) {
	pb.bbox.AddQuad(pb.from(c), c, to)
	pb.emit(svgir.QuadCurveTo{C: c, To: to})
	pb.moveCurrent(to)
	pb.lastQuadCtrl.set(c)
	pb.lastCubicCtrl.clear()
}

// arcTo only supports circular arcs, described by
// rx, ry, x-axis-rotation, large-arc-flag, sweep-flag, x, y
func (pb *pathBuilder) arcTo(rel bool, args []float64) error {
	to, err := pb.resolve(rel, args, 5)
	if err != nil {
		return err
	}
	current, err := pb.start()
	if err != nil {
		return err
	}
	if current == to {
		return nil
	}
	rx, ry := math.Abs(args[0]), math.Abs(args[1])
	if rx == 0 || ry == 0 {
		pb.lineTo(to)
		return nil
	}
	if !svgmath.AlmostEqual(rx, ry) {
		return ErrEllipticalArc
	}
	largeArc, sweep := args[3] != 0, args[4] != 0

	r := rx
	if dist := to.Sub(current).Length(); dist > 2*r {
		r = dist / 2
	}
	center := svgmath.CircleCenter(current, to, r, sweep != largeArc)
	arc := svgir.AddArc{
		Center:     center,
		Radius:     r,
		StartAngle: svgmath.Angle(current.Sub(center)),
		EndAngle:   svgmath.Angle(to.Sub(center)),
		Clockwise:  !sweep,
	}
	pb.bbox.AddArc(arc.Center, arc.Radius, arc.StartAngle, arc.EndAngle, arc.Clockwise)
	pb.emit(arc)
	pb.moveCurrent(to)
	return nil
}
