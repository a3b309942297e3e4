// Package svgstyle resolves presentation attributes: inheritance down the
// element tree, late defaults, and the drawing state steps an element sets.
package svgstyle

import (
	"errors"
	"fmt"

	"github.com/benoitkugler/svgbytecode/svgdoc"
	"github.com/benoitkugler/svgbytecode/svgir"
)

// ErrPercentStrokeWidth is returned for stroke widths given in percent,
// which have no meaning without a viewport at drawing time.
var ErrPercentStrokeWidth = errors.New("stroke width in percent is not supported")

// Default values, applied when no ancestor sets the attribute.
var (
	DefaultFill   = svgdoc.Paint{Kind: svgdoc.PaintRGB}
	DefaultStroke = svgdoc.Paint{Kind: svgdoc.PaintNone}
)

// Inherit returns the attributes in effect on child, given the attributes
// in effect on its parent: for inherited properties, the nearest element
// setting the value wins. Non inherited properties (opacity, clip-path,
// mask, filter, stop and flood attributes) are taken from child only.
func Inherit(parent, child svgdoc.Presentation) svgdoc.Presentation {
	out := child
	out.ClipRule = or(child.ClipRule, parent.ClipRule)
	out.Fill = or(child.Fill, parent.Fill)
	out.FillRule = or(child.FillRule, parent.FillRule)
	out.FillOpacity = or(child.FillOpacity, parent.FillOpacity)
	out.Stroke = or(child.Stroke, parent.Stroke)
	out.StrokeWidth = or(child.StrokeWidth, parent.StrokeWidth)
	out.StrokeLineCap = or(child.StrokeLineCap, parent.StrokeLineCap)
	out.StrokeLineJoin = or(child.StrokeLineJoin, parent.StrokeLineJoin)
	out.StrokeMiterLimit = or(child.StrokeMiterLimit, parent.StrokeMiterLimit)
	out.StrokeDashOffset = or(child.StrokeDashOffset, parent.StrokeDashOffset)
	out.StrokeOpacity = or(child.StrokeOpacity, parent.StrokeOpacity)
	if child.StrokeDashArray == nil {
		out.StrokeDashArray = parent.StrokeDashArray
	}
	return out
}

func or[T any](a, b *T) *T {
	if a != nil {
		return a
	}
	return b
}

// Fill returns the fill paint in effect, applying the default.
func Fill(p svgdoc.Presentation) svgdoc.Paint {
	if p.Fill != nil {
		return *p.Fill
	}
	return DefaultFill
}

// Stroke returns the stroke paint in effect, applying the default.
func Stroke(p svgdoc.Presentation) svgdoc.Paint {
	if p.Stroke != nil {
		return *p.Stroke
	}
	return DefaultStroke
}

// Color converts an SVG color to an opaque IR color.
func Color(c svgdoc.Color) svgir.Color {
	return svgir.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255, A: 1}
}

// StateSteps returns the steps setting the graphic state for the attributes
// set on p, in a fixed order. Inherited values are not repeated: they are
// already in the state set up by the ancestors.
// Paint servers (url references) only set the paint to none here;
// the gradient itself is placed when the path is painted.
// References (mask, clip-path, filter) are not handled.
func StateSteps(p svgdoc.Presentation) ([]svgir.DrawStep, error) {
	var out []svgir.DrawStep
	if w := p.StrokeWidth; w != nil {
		if w.Unit == svgdoc.UnitPercent {
			return nil, fmt.Errorf("stroke-width %g%%: %w", w.Number, ErrPercentStrokeWidth)
		}
		out = append(out, svgir.LineWidth{Width: w.Number})
	}
	if c := p.StrokeLineCap; c != nil {
		out = append(out, svgir.LineCapStyle{Cap: lineCap(*c)})
	}
	if j := p.StrokeLineJoin; j != nil {
		out = append(out, svgir.LineJoinStyle{Join: lineJoin(*j)})
	}
	if m := p.StrokeMiterLimit; m != nil {
		out = append(out, svgir.MiterLimit{Limit: *m})
	}
	if d := DashUpdate(p); d != nil {
		out = append(out, d)
	}
	if a := p.FillOpacity; a != nil {
		out = append(out, svgir.FillAlpha{Alpha: *a})
	}
	if f := p.Fill; f != nil {
		if c, ok := paintColor(*f); ok {
			out = append(out, svgir.FillColor{Color: c})
		} else {
			out = append(out, svgir.FillNone{})
		}
	}
	if a := p.StrokeOpacity; a != nil {
		out = append(out, svgir.StrokeAlpha{Alpha: *a})
	}
	if s := p.Stroke; s != nil {
		if c, ok := paintColor(*s); ok {
			out = append(out, svgir.StrokeColor{Color: c})
		} else {
			out = append(out, svgir.StrokeNone{})
		}
	}
	if r := p.FillRule; r != nil {
		out = append(out, svgir.FillRuleStep{Rule: FillRule(*r)})
	}
	return out, nil
}

// DashUpdate returns the step updating the dash pattern, or nil.
// An odd number of dash lengths is repeated to yield an even number.
// An empty dash array (stroke-dasharray="none") is ignored.
func DashUpdate(p svgdoc.Presentation) svgir.DrawStep {
	var lengths []float64
	if n := len(p.StrokeDashArray); n > 0 {
		lengths = make([]float64, 0, 2*n)
		for _, l := range p.StrokeDashArray {
			lengths = append(lengths, l.Number)
		}
		if n%2 == 1 {
			lengths = append(lengths, lengths...)
		}
	}
	switch {
	case p.StrokeDashOffset != nil && lengths != nil:
		return svgir.Dash{Phase: p.StrokeDashOffset.Number, Lengths: lengths}
	case p.StrokeDashOffset != nil:
		return svgir.DashPhase{Phase: p.StrokeDashOffset.Number}
	case lengths != nil:
		return svgir.DashLengths{Lengths: lengths}
	default:
		return nil
	}
}

// paintColor returns the color of the paint, or false for none and urls.
func paintColor(p svgdoc.Paint) (svgir.Color, bool) {
	switch p.Kind {
	case svgdoc.PaintRGB:
		return Color(p.Color), true
	case svgdoc.PaintCurrentColor:
		return svgir.Black, true
	default:
		return svgir.Color{}, false
	}
}

func FillRule(r svgdoc.FillRule) svgir.FillRule {
	if r == svgdoc.EvenOdd {
		return svgir.EvenOdd
	}
	return svgir.Winding
}

func lineCap(c svgdoc.LineCap) svgir.LineCap {
	switch c {
	case svgdoc.CapRound:
		return svgir.CapRound
	case svgdoc.CapSquare:
		return svgir.CapSquare
	default:
		return svgir.CapButt
	}
}

func lineJoin(j svgdoc.LineJoin) svgir.LineJoin {
	switch j {
	case svgdoc.JoinRound:
		return svgir.JoinRound
	case svgdoc.JoinBevel:
		return svgir.JoinBevel
	default:
		return svgir.JoinMiter
	}
}
