package svgdraw

import (
	"errors"
	"fmt"
	"slices"

	"github.com/benoitkugler/svgbytecode/svgir"
)

var (
	ErrMissingGradient   = errors.New("gradient not in the routine table")
	ErrMissingSubroutine = errors.New("subroutine not in the routine table")
)

// paint is a fill or stroke paint of the graphic state.
// A nil color and gradient means none.
type paint struct {
	color    *svgir.Color
	gradient *Gradient
	alpha    float64
}

func (p paint) isNone() bool { return p.color == nil && p.gradient == nil }

func (p paint) resolve() Paint {
	if p.gradient != nil {
		return Paint{Gradient: p.gradient, Alpha: p.alpha}
	}
	return Paint{Color: p.color.WithAlpha(p.alpha), Alpha: p.alpha}
}

type gstate struct {
	fill, stroke paint
	fillRule     svgir.FillRule
	dashPhase    float64
	dashLengths  []float64
}

func defaultGState() gstate {
	black := svgir.Black
	return gstate{
		fill:   paint{color: &black, alpha: 1},
		stroke: paint{alpha: 1},
	}
}

type replayer struct {
	painter Painter
	path    cursor

	gradients   map[string]svgir.Gradient
	subroutines map[string]svgir.DrawRoutine

	state gstate
	stack []gstate
}

// Replay draws r on p. The fill paint starts black, the
// stroke paint none, and the fill rule is nonzero winding.
func Replay(r svgir.DrawRoutine, p Painter) error {
	rp := replayer{
		painter: p,
		path:    cursor{b: p},
		state:   defaultGState(),
	}
	return rp.run(r)
}

func (rp *replayer) run(r svgir.DrawRoutine) error {
	rp.gradients, rp.subroutines = r.Gradients, r.Subroutines
	for _, step := range svgir.Flatten(r.Steps) {
		if err := rp.step(step); err != nil {
			return err
		}
	}
	return nil
}

func (rp *replayer) gradient(name string) (*Gradient, error) {
	g, ok := rp.gradients[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingGradient, name)
	}
	return &Gradient{Stops: g.Stops}, nil
}

func (rp *replayer) linear(name string, opts svgir.LinearGradientOptions) (*Gradient, error) {
	g, err := rp.gradient(name)
	if err != nil {
		return nil, err
	}
	g.Linear = &opts
	return g, nil
}

func (rp *replayer) radial(name string, opts svgir.RadialGradientOptions) (*Gradient, error) {
	g, err := rp.gradient(name)
	if err != nil {
		return nil, err
	}
	g.Radial = &opts
	return g, nil
}

func (rp *replayer) clearPath() {
	rp.painter.ClearPath()
	rp.path.reset()
}

// fillColor fills with the fill paint only if it is a plain color,
// since the other paints require a clip.
func (rp *replayer) fillColor(rule svgir.FillRule) {
	if rp.state.fill.color != nil && rp.state.fill.gradient == nil {
		rp.painter.FillPath(rp.state.fill.resolve(), rule)
	}
}

func (rp *replayer) strokeColor() {
	if rp.state.stroke.color != nil && rp.state.stroke.gradient == nil {
		rp.painter.StrokePath(rp.state.stroke.resolve())
	}
}

func (rp *replayer) fillAndStroke() {
	if !rp.state.fill.isNone() {
		rp.painter.FillPath(rp.state.fill.resolve(), rp.state.fillRule)
	}
	if !rp.state.stroke.isNone() {
		rp.painter.StrokePath(rp.state.stroke.resolve())
	}
	rp.clearPath()
}

func (rp *replayer) setDash() {
	var lengths []float64
	if len(rp.state.dashLengths) != 0 {
		lengths = rp.state.dashLengths
	}
	rp.painter.SetDash(rp.state.dashPhase, lengths)
}

func (rp *replayer) step(step svgir.DrawStep) error {
	p := rp.painter
	switch s := step.(type) {
	case svgir.PathSegment:
		return rp.path.segment(s)
	case svgir.SaveGState:
		rp.stack = append(rp.stack, rp.state)
		p.SaveGState()
	case svgir.RestoreGState:
		if n := len(rp.stack); n != 0 {
			rp.state, rp.stack = rp.stack[n-1], rp.stack[:n-1]
		}
		p.RestoreGState()
	case svgir.ReplacePathWithStrokePath:
		p.ReplacePathWithStrokePath()
	case svgir.Clip:
		p.Clip(rp.state.fillRule)
		rp.path.reset()
	case svgir.ClipWithRule:
		p.Clip(s.Rule)
		rp.path.reset()
	case svgir.ClipToRect:
		p.ClipToRect(s.Rect)
	case svgir.Dash:
		rp.state.dashPhase, rp.state.dashLengths = s.Phase, slices.Clone(s.Lengths)
		rp.setDash()
	case svgir.DashPhase:
		rp.state.dashPhase = s.Phase
		rp.setDash()
	case svgir.DashLengths:
		rp.state.dashLengths = slices.Clone(s.Lengths)
		rp.setDash()
	case svgir.Fill:
		rp.fillColor(rp.state.fillRule)
		rp.clearPath()
	case svgir.FillWithRule:
		rp.fillColor(s.Rule)
		rp.clearPath()
	case svgir.FillEllipse:
		rp.clearPath()
		rp.path.ellipse(s.In)
		rp.fillColor(svgir.Winding)
		rp.clearPath()
	case svgir.Stroke:
		rp.strokeColor()
		rp.clearPath()
	case svgir.DrawPath:
		switch s.Mode {
		case svgir.ModeFill, svgir.ModeFillStroke:
			rp.fillColor(svgir.Winding)
		case svgir.ModeEOFill, svgir.ModeEOFillStroke:
			rp.fillColor(svgir.EvenOdd)
		}
		if s.Mode >= svgir.ModeStroke {
			rp.strokeColor()
		}
		rp.clearPath()
	case svgir.FillAndStroke:
		rp.fillAndStroke()
	case svgir.SetGlobalAlphaToFillAlpha:
		p.SetGlobalAlpha(rp.state.fill.alpha)
	case svgir.ConcatCTM:
		p.ConcatCTM(s.Transform)
	case svgir.Flatness:
		p.SetFlatness(s.Flatness)
	case svgir.LineWidth:
		p.SetLineWidth(s.Width)
	case svgir.LineJoinStyle:
		p.SetLineJoin(s.Join)
	case svgir.LineCapStyle:
		p.SetLineCap(s.Cap)
	case svgir.ColorRenderingIntentStep:
		p.SetRenderingIntent(s.Intent)
	case svgir.GlobalAlpha:
		p.SetGlobalAlpha(s.Alpha)
	case svgir.StrokeColor:
		c := s.Color
		rp.state.stroke.color, rp.state.stroke.gradient = &c, nil
	case svgir.StrokeAlpha:
		rp.state.stroke.alpha = s.Alpha
	case svgir.StrokeNone:
		rp.state.stroke.color, rp.state.stroke.gradient = nil, nil
	case svgir.FillColor:
		c := s.Color
		rp.state.fill.color, rp.state.fill.gradient = &c, nil
	case svgir.FillAlpha:
		rp.state.fill.alpha = s.Alpha
	case svgir.FillNone:
		rp.state.fill.color, rp.state.fill.gradient = nil, nil
	case svgir.FillRuleStep:
		rp.state.fillRule = s.Rule
	case svgir.LinearGradient:
		g, err := rp.linear(s.Name, s.Options)
		if err != nil {
			return err
		}
		p.DrawGradient(*g)
	case svgir.RadialGradient:
		g, err := rp.radial(s.Name, s.Options)
		if err != nil {
			return err
		}
		p.DrawGradient(*g)
	case svgir.FillLinearGradient:
		g, err := rp.linear(s.Name, s.Options)
		if err != nil {
			return err
		}
		rp.state.fill.gradient = g
	case svgir.FillRadialGradient:
		g, err := rp.radial(s.Name, s.Options)
		if err != nil {
			return err
		}
		rp.state.fill.gradient = g
	case svgir.StrokeLinearGradient:
		g, err := rp.linear(s.Name, s.Options)
		if err != nil {
			return err
		}
		rp.state.stroke.gradient = g
	case svgir.StrokeRadialGradient:
		g, err := rp.radial(s.Name, s.Options)
		if err != nil {
			return err
		}
		rp.state.stroke.gradient = g
	case svgir.SubrouteWithID:
		sub, ok := rp.subroutines[s.Name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrMissingSubroutine, s.Name)
		}
		// the subroutine works on a copy of the graphic state
		inner := replayer{
			painter: p,
			path:    rp.path,
			state:   rp.state,
			stack:   slices.Clone(rp.stack),
		}
		if err := inner.run(sub); err != nil {
			return fmt.Errorf("subroutine %q: %w", s.Name, err)
		}
		rp.path = inner.path
	case svgir.ShadowStep:
		p.SetShadow(s.Shadow)
	case svgir.BlendModeStep:
		p.SetBlendMode(s.Mode)
	case svgir.BeginTransparencyLayer:
		p.BeginTransparencyLayer()
	case svgir.EndTransparencyLayer:
		p.EndTransparencyLayer()
	case svgir.MiterLimit:
		p.SetMiterLimit(s.Limit)
	default:
		return fmt.Errorf("unexpected step %T", step)
	}
	return nil
}
