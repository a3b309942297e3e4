package svgbc

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/benoitkugler/svgbytecode/svgir"
	"github.com/benoitkugler/svgbytecode/svgmath"
)

type encoder struct {
	buf []byte

	gradients   map[string]uint32
	subroutines map[string]uint32
}

func (e *encoder) u8(v uint8)   { e.buf = append(e.buf, v) }
func (e *encoder) u32(v uint32) { e.buf = binary.LittleEndian.AppendUint32(e.buf, v) }

func (e *encoder) f32(v float64) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, math.Float32bits(float32(v)))
}

func (e *encoder) bool(b bool) {
	if b {
		e.u8(1)
	} else {
		e.u8(0)
	}
}

func (e *encoder) point(p svgmath.Point) {
	e.f32(p.X)
	e.f32(p.Y)
}

func (e *encoder) rect(r svgmath.Rect) {
	e.f32(r.X)
	e.f32(r.Y)
	e.f32(r.W)
	e.f32(r.H)
}

func (e *encoder) transform(t svgmath.Transform) {
	for _, v := range t {
		e.f32(v)
	}
}

func (e *encoder) optTransform(t *svgmath.Transform) {
	e.bool(t != nil)
	if t != nil {
		e.transform(*t)
	}
}

func component(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

func (e *encoder) color(c svgir.Color) {
	e.u8(component(c.R))
	e.u8(component(c.G))
	e.u8(component(c.B))
	e.f32(c.A)
}

func (e *encoder) floats(fs []float64) {
	e.u32(uint32(len(fs)))
	for _, f := range fs {
		e.f32(f)
	}
}

func (e *encoder) linear(o svgir.LinearGradientOptions) {
	e.point(o.Start)
	e.point(o.End)
	e.u8(uint8(o.Options))
	e.u8(uint8(o.Units))
	e.optTransform(o.Transform)
}

func (e *encoder) radial(o svgir.RadialGradientOptions) {
	e.point(o.StartCenter)
	e.f32(o.StartRadius)
	e.point(o.EndCenter)
	e.f32(o.EndRadius)
	e.u8(uint8(o.Options))
	e.optTransform(o.Transform)
}

func (e *encoder) gradientID(name string) uint32 {
	id, ok := e.gradients[name]
	if !ok {
		panic(fmt.Sprintf("svgbc: gradient %q is not in the routine table", name))
	}
	return id
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Compile encodes the routine r. Composite steps are flattened first.
// Gradients and subroutines are numbered in the sorted order of their names.
//
// It panics if a step refers to a gradient or a subroutine missing
// from the tables of r, which is a bug of the caller.
func Compile(r svgir.DrawRoutine) []byte {
	r = r.Flattened()
	e := encoder{
		gradients:   make(map[string]uint32, len(r.Gradients)),
		subroutines: make(map[string]uint32, len(r.Subroutines)),
	}

	names := sortedKeys(r.Gradients)
	e.u32(uint32(len(names)))
	for i, name := range names {
		e.gradients[name] = uint32(i)
		e.u32(uint32(i))
		stops := r.Gradients[name].Stops
		e.u32(uint32(len(stops)))
		for _, s := range stops {
			e.f32(s.Offset)
			e.color(s.Color)
		}
	}

	names = sortedKeys(r.Subroutines)
	e.u32(uint32(len(names)))
	for i, name := range names {
		e.subroutines[name] = uint32(i)
		sub := Compile(r.Subroutines[name])
		e.u32(uint32(i))
		e.u32(uint32(len(sub)))
		e.buf = append(e.buf, sub...)
	}

	for _, step := range r.Steps {
		e.step(step)
	}
	return e.buf
}

func (e *encoder) step(s svgir.DrawStep) {
	switch s := s.(type) {
	case svgir.MoveTo:
		e.u8(uint8(OpMoveTo))
		e.point(s.To)
	case svgir.CurveTo:
		e.u8(uint8(OpCurveTo))
		e.point(s.C1)
		e.point(s.C2)
		e.point(s.To)
	case svgir.QuadCurveTo:
		e.u8(uint8(OpQuadCurveTo))
		e.point(s.C)
		e.point(s.To)
	case svgir.LineTo:
		e.u8(uint8(OpLineTo))
		e.point(s.To)
	case svgir.AppendRectangle:
		e.u8(uint8(OpAppendRectangle))
		e.rect(s.Rect)
	case svgir.AppendRoundedRect:
		e.u8(uint8(OpAppendRoundedRect))
		e.rect(s.Rect)
		e.f32(s.RX)
		e.f32(s.RY)
	case svgir.AddArc:
		e.u8(uint8(OpAddArc))
		e.point(s.Center)
		e.f32(s.Radius)
		e.f32(s.StartAngle)
		e.f32(s.EndAngle)
		e.bool(s.Clockwise)
	case svgir.ClosePath:
		e.u8(uint8(OpClosePath))
	case svgir.Lines:
		e.u8(uint8(OpLines))
		e.u32(uint32(len(s.Points)))
		for _, p := range s.Points {
			e.point(p)
		}
	case svgir.AddEllipse:
		e.u8(uint8(OpAddEllipse))
		e.rect(s.In)
	case svgir.SaveGState:
		e.u8(uint8(OpSaveGState))
	case svgir.RestoreGState:
		e.u8(uint8(OpRestoreGState))
	case svgir.ReplacePathWithStrokePath:
		e.u8(uint8(OpReplacePathWithStrokePath))
	case svgir.Clip:
		e.u8(uint8(OpClip))
	case svgir.ClipWithRule:
		e.u8(uint8(OpClipWithRule))
		e.u8(uint8(s.Rule))
	case svgir.ClipToRect:
		e.u8(uint8(OpClipToRect))
		e.rect(s.Rect)
	case svgir.Dash:
		e.u8(uint8(OpDash))
		e.f32(s.Phase)
		e.floats(s.Lengths)
	case svgir.DashPhase:
		e.u8(uint8(OpDashPhase))
		e.f32(s.Phase)
	case svgir.DashLengths:
		e.u8(uint8(OpDashLengths))
		e.floats(s.Lengths)
	case svgir.Fill:
		e.u8(uint8(OpFill))
	case svgir.FillWithRule:
		e.u8(uint8(OpFillWithRule))
		e.u8(uint8(s.Rule))
	case svgir.FillEllipse:
		e.u8(uint8(OpFillEllipse))
		e.rect(s.In)
	case svgir.Stroke:
		e.u8(uint8(OpStroke))
	case svgir.DrawPath:
		e.u8(uint8(OpDrawPath))
		e.u8(uint8(s.Mode))
	case svgir.FillAndStroke:
		e.u8(uint8(OpFillAndStroke))
	case svgir.SetGlobalAlphaToFillAlpha:
		e.u8(uint8(OpSetGlobalAlphaToFillAlpha))
	case svgir.ConcatCTM:
		e.u8(uint8(OpConcatCTM))
		e.transform(s.Transform)
	case svgir.Flatness:
		e.u8(uint8(OpFlatness))
		e.f32(s.Flatness)
	case svgir.LineWidth:
		e.u8(uint8(OpLineWidth))
		e.f32(s.Width)
	case svgir.LineJoinStyle:
		e.u8(uint8(OpLineJoinStyle))
		e.u8(uint8(s.Join))
	case svgir.LineCapStyle:
		e.u8(uint8(OpLineCapStyle))
		e.u8(uint8(s.Cap))
	case svgir.ColorRenderingIntentStep:
		e.u8(uint8(OpColorRenderingIntent))
		e.u8(uint8(s.Intent))
	case svgir.GlobalAlpha:
		e.u8(uint8(OpGlobalAlpha))
		e.f32(s.Alpha)
	case svgir.StrokeColor:
		e.u8(uint8(OpStrokeColor))
		e.color(s.Color)
	case svgir.StrokeAlpha:
		e.u8(uint8(OpStrokeAlpha))
		e.f32(s.Alpha)
	case svgir.StrokeNone:
		e.u8(uint8(OpStrokeNone))
	case svgir.FillColor:
		e.u8(uint8(OpFillColor))
		e.color(s.Color)
	case svgir.FillAlpha:
		e.u8(uint8(OpFillAlpha))
		e.f32(s.Alpha)
	case svgir.FillNone:
		e.u8(uint8(OpFillNone))
	case svgir.FillRuleStep:
		e.u8(uint8(OpFillRule))
		e.u8(uint8(s.Rule))
	case svgir.LinearGradient:
		e.u8(uint8(OpLinearGradient))
		e.u32(e.gradientID(s.Name))
		e.linear(s.Options)
	case svgir.RadialGradient:
		e.u8(uint8(OpRadialGradient))
		e.u32(e.gradientID(s.Name))
		e.radial(s.Options)
	case svgir.FillLinearGradient:
		e.u8(uint8(OpFillLinearGradient))
		e.u32(e.gradientID(s.Name))
		e.linear(s.Options)
	case svgir.FillRadialGradient:
		e.u8(uint8(OpFillRadialGradient))
		e.u32(e.gradientID(s.Name))
		e.radial(s.Options)
	case svgir.StrokeLinearGradient:
		e.u8(uint8(OpStrokeLinearGradient))
		e.u32(e.gradientID(s.Name))
		e.linear(s.Options)
	case svgir.StrokeRadialGradient:
		e.u8(uint8(OpStrokeRadialGradient))
		e.u32(e.gradientID(s.Name))
		e.radial(s.Options)
	case svgir.SubrouteWithID:
		id, ok := e.subroutines[s.Name]
		if !ok {
			panic(fmt.Sprintf("svgbc: subroutine %q is not in the routine table", s.Name))
		}
		e.u8(uint8(OpSubrouteWithID))
		e.u32(id)
	case svgir.ShadowStep:
		e.u8(uint8(OpShadow))
		e.point(s.Shadow.Offset)
		e.f32(s.Shadow.Blur)
		e.color(s.Shadow.Color)
	case svgir.BlendModeStep:
		e.u8(uint8(OpBlendMode))
		e.u8(uint8(s.Mode))
	case svgir.BeginTransparencyLayer:
		e.u8(uint8(OpBeginTransparencyLayer))
	case svgir.EndTransparencyLayer:
		e.u8(uint8(OpEndTransparencyLayer))
	case svgir.MiterLimit:
		e.u8(uint8(OpMiterLimit))
		e.f32(s.Limit)
	default:
		panic(fmt.Sprintf("svgbc: unexpected step %T", s))
	}
}

// CompilePath encodes a path routine with the path opcode table.
func CompilePath(r svgir.PathRoutine) []byte {
	var e encoder
	for _, seg := range svgir.FlattenSegment(r.Segment) {
		e.segment(seg)
	}
	return e.buf
}

func (e *encoder) segment(seg svgir.PathSegment) {
	switch s := seg.(type) {
	case svgir.MoveTo:
		e.u8(uint8(PathMoveTo))
		e.point(s.To)
	case svgir.CurveTo:
		e.u8(uint8(PathCurveTo))
		e.point(s.C1)
		e.point(s.C2)
		e.point(s.To)
	case svgir.QuadCurveTo:
		e.u8(uint8(PathQuadCurveTo))
		e.point(s.C)
		e.point(s.To)
	case svgir.LineTo:
		e.u8(uint8(PathLineTo))
		e.point(s.To)
	case svgir.AppendRectangle:
		e.u8(uint8(PathAppendRectangle))
		e.rect(s.Rect)
	case svgir.AppendRoundedRect:
		e.u8(uint8(PathAppendRoundedRect))
		e.rect(s.Rect)
		e.f32(s.RX)
		e.f32(s.RY)
	case svgir.AddArc:
		e.u8(uint8(PathAddArc))
		e.point(s.Center)
		e.f32(s.Radius)
		e.f32(s.StartAngle)
		e.f32(s.EndAngle)
		e.bool(s.Clockwise)
	case svgir.ClosePath:
		e.u8(uint8(PathClosePath))
	case svgir.Lines:
		e.u8(uint8(PathLines))
		e.u32(uint32(len(s.Points)))
		for _, p := range s.Points {
			e.point(p)
		}
	case svgir.AddEllipse:
		e.u8(uint8(PathAddEllipse))
		e.rect(s.In)
	default:
		panic(fmt.Sprintf("svgbc: unexpected path segment %T", s))
	}
}
