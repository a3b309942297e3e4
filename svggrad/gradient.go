// Package svggrad resolves the SVG paint servers <linearGradient> and
// <radialGradient> into IR gradients.
//
// A gradient is split in two parts: its color stops, which only depend on
// the gradient element, and a Placement, which computes the gradient
// coordinates once the painted shape is known.
package svggrad

import (
	"errors"
	"fmt"
	"math"

	"github.com/benoitkugler/svgbytecode/svgdoc"
	"github.com/benoitkugler/svgbytecode/svgir"
	"github.com/benoitkugler/svgbytecode/svgmath"
	"github.com/benoitkugler/svgbytecode/svgref"
	"github.com/benoitkugler/svgbytecode/svgstyle"
)

// ErrNoStopColor is returned for a radial gradient stop without stop-color.
var ErrNoStopColor = errors.New("gradient stop without stop-color")

// Operation is the painting operation a gradient is used for.
type Operation uint8

const (
	OpFill Operation = iota
	OpStroke
)

// Placement computes the step painting with a gradient.
// It is implemented by Linear and Radial, which are plain values.
type Placement interface {
	// Resolve returns the step setting the fill or stroke paint
	// to the gradient, for a shape with bounding box objectBox,
	// drawn in drawingArea.
	Resolve(objectBox, drawingArea svgmath.Rect, op Operation) svgir.DrawStep
}

// Resolved is a gradient ready to be placed.
type Resolved struct {
	Gradient  svgir.Gradient
	Placement Placement
}

// Linear places a <linearGradient>.
type Linear struct {
	ID             string
	Units          svgdoc.Units
	X1, Y1, X2, Y2 svgdoc.Length
	Transform      *svgmath.Transform
}

// Radial places a <radialGradient>.
type Radial struct {
	ID                string
	Units             svgdoc.Units
	CX, CY, R, FX, FY svgdoc.Length
	Transform         *svgmath.Transform
}

const bothEnds = svgir.DrawsBeforeStart | svgir.DrawsAfterEnd

var (
	zeroPercent    = svgdoc.Length{Unit: svgdoc.UnitPercent}
	fiftyPercent   = svgdoc.Length{Number: 50, Unit: svgdoc.UnitPercent}
	hundredPercent = svgdoc.Length{Number: 100, Unit: svgdoc.UnitPercent}
)

func orDefault(l *svgdoc.Length, def svgdoc.Length) svgdoc.Length {
	if l != nil {
		return *l
	}
	return def
}

func units(u *svgdoc.Units) svgdoc.Units {
	if u != nil {
		return *u
	}
	return svgdoc.ObjectBoundingBox
}

func transform(ts []svgmath.Transform) *svgmath.Transform {
	if ts == nil {
		return nil
	}
	t := svgmath.Reduce(ts)
	return &t
}

// NewLinear resolves g. A stop without stop-color is transparent.
func NewLinear(g *svgdoc.LinearGradient) Resolved {
	stops := make([]svgir.GradientStop, len(g.Stops))
	for i, s := range g.Stops {
		c := svgir.Transparent
		if s.StopColor != nil {
			c = svgstyle.Color(*s.StopColor)
		}
		stops[i] = svgir.GradientStop{Offset: offset(s), Color: c.WithAlpha(stopOpacity(s))}
	}
	return Resolved{
		Gradient: svgir.Gradient{Stops: stops},
		Placement: Linear{
			ID:        g.ID,
			Units:     units(g.Units),
			X1:        orDefault(g.X1, zeroPercent),
			Y1:        orDefault(g.Y1, zeroPercent),
			X2:        orDefault(g.X2, hundredPercent),
			Y2:        orDefault(g.Y2, zeroPercent),
			Transform: transform(g.GradientTransform),
		},
	}
}

// NewRadial resolves g. A stop without stop-color is an error.
func NewRadial(g *svgdoc.RadialGradient) (Resolved, error) {
	stops := make([]svgir.GradientStop, len(g.Stops))
	for i, s := range g.Stops {
		if s.StopColor == nil {
			return Resolved{}, fmt.Errorf("radial gradient %q, stop %d: %w", g.ID, i, ErrNoStopColor)
		}
		c := svgstyle.Color(*s.StopColor)
		stops[i] = svgir.GradientStop{Offset: offset(s), Color: c.WithAlpha(stopOpacity(s))}
	}
	cx, cy := orDefault(g.CX, fiftyPercent), orDefault(g.CY, fiftyPercent)
	return Resolved{
		Gradient: svgir.Gradient{Stops: stops},
		Placement: Radial{
			ID:        g.ID,
			Units:     units(g.Units),
			CX:        cx,
			CY:        cy,
			R:         orDefault(g.R, fiftyPercent),
			FX:        orDefault(g.FX, cx),
			FY:        orDefault(g.FY, cy),
			Transform: transform(g.GradientTransform),
		},
	}, nil
}

func offset(s svgdoc.Stop) float64 {
	if s.Offset == nil {
		return 0
	}
	return s.Offset.Abs(1)
}

func stopOpacity(s svgdoc.Stop) float64 {
	if s.StopOpacity == nil {
		return 1
	}
	return *s.StopOpacity
}

// Collect resolves the gradients with an id found in the document.
func Collect(doc *svgdoc.Document) (map[string]Resolved, error) {
	out := make(map[string]Resolved)
	var walk func(el svgdoc.Element) error
	walk = func(el svgdoc.Element) error {
		var (
			r   Resolved
			err error
		)
		switch el := el.(type) {
		case *svgdoc.LinearGradient:
			r = NewLinear(el)
		case *svgdoc.RadialGradient:
			r, err = NewRadial(el)
		case svgdoc.Container:
			for _, child := range el.Elements() {
				if err := walk(child); err != nil {
					return err
				}
			}
			return nil
		default:
			return nil
		}
		if err != nil {
			return err
		}
		id := el.CoreAttrs().ID
		if id == "" {
			return nil
		}
		if _, has := out[id]; has {
			return fmt.Errorf("gradient #%s: %w", id, svgref.ErrDuplicateID)
		}
		out[id] = r
		return nil
	}
	return out, walk(doc)
}

// point resolves (x, y) in area, percentages being relative to its size.
func point(x, y svgdoc.Length, area svgmath.Rect) svgmath.Point {
	return svgmath.Pt(area.X+x.Abs(area.W), area.Y+y.Abs(area.H))
}

// normalize maps p to the unit square of box.
func normalize(p svgmath.Point, box svgmath.Rect) svgmath.Point {
	return svgmath.Pt((p.X-box.X)/box.W, (p.Y-box.Y)/box.H)
}

// boxSpace appends to t the mapping of the unit square onto box.
func boxSpace(t svgmath.Transform, box svgmath.Rect) svgmath.Transform {
	return t.Concat(svgmath.Scale(box.W, box.H)).Concat(svgmath.Translate(box.X, box.Y))
}

func area(u svgdoc.Units, objectBox, drawingArea svgmath.Rect) svgmath.Rect {
	if u == svgdoc.UserSpaceOnUse {
		return drawingArea
	}
	return objectBox
}

func irUnits(u svgdoc.Units) svgir.Units {
	if u == svgdoc.UserSpaceOnUse {
		return svgir.UserSpaceOnUse
	}
	return svgir.ObjectBoundingBox
}

// Resolve implements Placement. With a gradient transform in bounding box
// units, the points are expressed in the unit square and the transform
// maps it back to the box.
func (l Linear) Resolve(objectBox, drawingArea svgmath.Rect, op Operation) svgir.DrawStep {
	coords := area(l.Units, objectBox, drawingArea)
	opts := svgir.LinearGradientOptions{
		Start:   point(l.X1, l.Y1, coords),
		End:     point(l.X2, l.Y2, coords),
		Options: bothEnds,
		Units:   irUnits(l.Units),
	}
	if l.Transform != nil {
		t := *l.Transform
		if l.Units == svgdoc.ObjectBoundingBox {
			opts.Start = normalize(opts.Start, objectBox)
			opts.End = normalize(opts.End, objectBox)
			t = boxSpace(t, objectBox)
		}
		opts.Transform = &t
	}
	if op == OpStroke {
		return svgir.StrokeLinearGradient{Name: l.ID, Options: opts}
	}
	return svgir.FillLinearGradient{Name: l.ID, Options: opts}
}

// Resolve implements Placement. A gradient transform places the
// gradient in the drawing area.
func (r Radial) Resolve(objectBox, drawingArea svgmath.Rect, op Operation) svgir.DrawStep {
	coords := area(r.Units, objectBox, drawingArea)
	var tr *svgmath.Transform
	if r.Transform != nil {
		coords = drawingArea
		t := *r.Transform
		if r.Units == svgdoc.ObjectBoundingBox {
			t = boxSpace(t, objectBox)
		}
		tr = &t
	}
	opts := svgir.RadialGradientOptions{
		StartCenter: point(r.FX, r.FY, coords),
		StartRadius: 0,
		EndCenter:   point(r.CX, r.CY, coords),
		EndRadius:   r.R.Abs(math.Min(coords.W, coords.H)),
		Options:     bothEnds,
		Transform:   tr,
	}
	if op == OpStroke {
		return svgir.StrokeRadialGradient{Name: r.ID, Options: opts}
	}
	return svgir.FillRadialGradient{Name: r.ID, Options: opts}
}
