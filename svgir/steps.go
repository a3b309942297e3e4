package svgir

import (
	"github.com/benoitkugler/svgbytecode/svgmath"
)

// DrawStep is one drawing operation.
type DrawStep interface {
	isDrawStep()
}

type (
	SaveGState                struct{}
	RestoreGState             struct{}
	ReplacePathWithStrokePath struct{}
	// Clip intersects the clipping area with the current path, using the
	// nonzero winding rule, and clears the path.
	Clip         struct{}
	ClipWithRule struct{ Rule FillRule }
	ClipToRect   struct{ Rect svgmath.Rect }
	Dash         struct {
		Phase   float64
		Lengths []float64
	}
	DashPhase    struct{ Phase float64 }
	DashLengths  struct{ Lengths []float64 }
	Fill         struct{}
	FillWithRule struct{ Rule FillRule }
	FillEllipse  struct{ In svgmath.Rect }
	Stroke       struct{}
	DrawPath     struct{ Mode DrawingMode }
	// FillAndStroke fills then strokes the current path with the
	// current paints, skipping the paints set to none.
	FillAndStroke             struct{}
	SetGlobalAlphaToFillAlpha struct{}
	ConcatCTM                 struct{ Transform svgmath.Transform }
	Flatness                  struct{ Flatness float64 }
	LineWidth                 struct{ Width float64 }
	LineJoinStyle             struct{ Join LineJoin }
	LineCapStyle              struct{ Cap LineCap }
	ColorRenderingIntentStep  struct{ Intent ColorRenderingIntent }
	GlobalAlpha               struct{ Alpha float64 }
	StrokeColor               struct{ Color Color }
	StrokeAlpha               struct{ Alpha float64 }
	StrokeNone                struct{}
	FillColor                 struct{ Color Color }
	FillAlpha                 struct{ Alpha float64 }
	FillNone                  struct{}
	FillRuleStep              struct{ Rule FillRule }
	// LinearGradient paints the gradient Name over the clipping area.
	LinearGradient struct {
		Name    string
		Options LinearGradientOptions
	}
	RadialGradient struct {
		Name    string
		Options RadialGradientOptions
	}
	// FillLinearGradient sets the fill paint to the gradient Name.
	FillLinearGradient struct {
		Name    string
		Options LinearGradientOptions
	}
	FillRadialGradient struct {
		Name    string
		Options RadialGradientOptions
	}
	StrokeLinearGradient struct {
		Name    string
		Options LinearGradientOptions
	}
	StrokeRadialGradient struct {
		Name    string
		Options RadialGradientOptions
	}
	SubrouteWithID         struct{ Name string }
	ShadowStep             struct{ Shadow Shadow }
	BlendModeStep          struct{ Mode BlendMode }
	BeginTransparencyLayer struct{}
	EndTransparencyLayer   struct{}
	MiterLimit             struct{ Limit float64 }

	// Composite groups steps built together. It is removed by Flatten.
	Composite []DrawStep
)

// LinearGradientOptions places a linear gradient.
type LinearGradientOptions struct {
	Start, End svgmath.Point
	Options    GradientDrawingOptions
	Units      Units
	Transform  *svgmath.Transform // optional
}

// RadialGradientOptions places a radial gradient.
type RadialGradientOptions struct {
	StartCenter svgmath.Point
	StartRadius float64
	EndCenter   svgmath.Point
	EndRadius   float64
	Options     GradientDrawingOptions
	Transform   *svgmath.Transform // optional
}

func (MoveTo) isDrawStep()                    {}
func (LineTo) isDrawStep()                    {}
func (CurveTo) isDrawStep()                   {}
func (QuadCurveTo) isDrawStep()               {}
func (AddArc) isDrawStep()                    {}
func (ClosePath) isDrawStep()                 {}
func (Lines) isDrawStep()                     {}
func (AppendRectangle) isDrawStep()           {}
func (AppendRoundedRect) isDrawStep()         {}
func (AddEllipse) isDrawStep()                {}
func (PathComposite) isDrawStep()             {}
func (SaveGState) isDrawStep()                {}
func (RestoreGState) isDrawStep()             {}
func (ReplacePathWithStrokePath) isDrawStep() {}
func (Clip) isDrawStep()                      {}
func (ClipWithRule) isDrawStep()              {}
func (ClipToRect) isDrawStep()                {}
func (Dash) isDrawStep()                      {}
func (DashPhase) isDrawStep()                 {}
func (DashLengths) isDrawStep()               {}
func (Fill) isDrawStep()                      {}
func (FillWithRule) isDrawStep()              {}
func (FillEllipse) isDrawStep()               {}
func (Stroke) isDrawStep()                    {}
func (DrawPath) isDrawStep()                  {}
func (FillAndStroke) isDrawStep()             {}
func (SetGlobalAlphaToFillAlpha) isDrawStep() {}
func (ConcatCTM) isDrawStep()                 {}
func (Flatness) isDrawStep()                  {}
func (LineWidth) isDrawStep()                 {}
func (LineJoinStyle) isDrawStep()             {}
func (LineCapStyle) isDrawStep()              {}
func (ColorRenderingIntentStep) isDrawStep()  {}
func (GlobalAlpha) isDrawStep()               {}
func (StrokeColor) isDrawStep()               {}
func (StrokeAlpha) isDrawStep()               {}
func (StrokeNone) isDrawStep()                {}
func (FillColor) isDrawStep()                 {}
func (FillAlpha) isDrawStep()                 {}
func (FillNone) isDrawStep()                  {}
func (FillRuleStep) isDrawStep()              {}
func (LinearGradient) isDrawStep()            {}
func (RadialGradient) isDrawStep()            {}
func (FillLinearGradient) isDrawStep()        {}
func (FillRadialGradient) isDrawStep()        {}
func (StrokeLinearGradient) isDrawStep()      {}
func (StrokeRadialGradient) isDrawStep()      {}
func (SubrouteWithID) isDrawStep()            {}
func (ShadowStep) isDrawStep()                {}
func (BlendModeStep) isDrawStep()             {}
func (BeginTransparencyLayer) isDrawStep()    {}
func (EndTransparencyLayer) isDrawStep()      {}
func (MiterLimit) isDrawStep()                {}
func (Composite) isDrawStep()                 {}

// SavingGState brackets steps with SaveGState and RestoreGState.
func SavingGState(steps ...DrawStep) Composite {
	out := make(Composite, 0, len(steps)+2)
	out = append(out, SaveGState{})
	out = append(out, steps...)
	return append(out, RestoreGState{})
}

// Flatten returns the steps with all Composite and PathComposite
// expanded in place. Flattening a flat list returns an equal list.
func Flatten(steps []DrawStep) []DrawStep {
	out := make([]DrawStep, 0, len(steps))
	for _, s := range steps {
		out = appendStep(out, s)
	}
	return out
}

func appendStep(dst []DrawStep, s DrawStep) []DrawStep {
	switch s := s.(type) {
	case Composite:
		for _, c := range s {
			dst = appendStep(dst, c)
		}
	case PathComposite:
		for _, c := range s {
			dst = appendStep(dst, c)
		}
	case nil:
	default:
		dst = append(dst, s)
	}
	return dst
}

// DrawRoutine is a complete drawing, with the tables
// of the gradients and subroutines its steps refer to.
type DrawRoutine struct {
	BoundingRect svgmath.Rect
	Gradients    map[string]Gradient
	Subroutines  map[string]DrawRoutine
	Steps        []DrawStep
}

// Flattened returns a copy of r where steps, including the ones of
// the subroutines, are flat.
func (r DrawRoutine) Flattened() DrawRoutine {
	out := r
	out.Steps = Flatten(r.Steps)
	if r.Subroutines != nil {
		out.Subroutines = make(map[string]DrawRoutine, len(r.Subroutines))
		for name, sub := range r.Subroutines {
			out.Subroutines[name] = sub.Flattened()
		}
	}
	return out
}

// Routines is the output of lowering one document.
type Routines struct {
	Drawing DrawRoutine
	Paths   []PathRoutine // sorted by ID
}
