package svgbc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/benoitkugler/svgbytecode/svgir"
	"github.com/benoitkugler/svgbytecode/svgmath"
)

var (
	ErrUnknownOpcode = errors.New("unknown opcode")
	ErrTruncated     = errors.New("truncated bytecode")
)

// decoder reads operands, recording the first error.
// Once an error is recorded, reads return zero values.
type decoder struct {
	src []byte
	pos int
	err error
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || len(d.src)-d.pos < n {
		d.err = fmt.Errorf("%w: %d bytes needed at offset %d", ErrTruncated, n, d.pos)
		return nil
	}
	out := d.src[d.pos : d.pos+n]
	d.pos += n
	return out
}

func (d *decoder) u8() uint8 {
	b := d.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) u32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *decoder) f32() float64 { return float64(math.Float32frombits(d.u32())) }

func (d *decoder) bool() bool { return d.u8() != 0 }

// count reads an array length, checking it against the remaining bytes.
func (d *decoder) count(elemSize int) int {
	n := int(d.u32())
	if d.err == nil && n*elemSize > len(d.src)-d.pos {
		d.err = fmt.Errorf("%w: %d elements announced at offset %d", ErrTruncated, n, d.pos)
		return 0
	}
	return n
}

func (d *decoder) point() svgmath.Point {
	x := d.f32()
	return svgmath.Pt(x, d.f32())
}

func (d *decoder) rect() svgmath.Rect {
	var r svgmath.Rect
	r.X = d.f32()
	r.Y = d.f32()
	r.W = d.f32()
	r.H = d.f32()
	return r
}

func (d *decoder) transform() svgmath.Transform {
	var t svgmath.Transform
	for i := range t {
		t[i] = d.f32()
	}
	return t
}

func (d *decoder) optTransform() *svgmath.Transform {
	if !d.bool() {
		return nil
	}
	t := d.transform()
	return &t
}

func (d *decoder) color() svgir.Color {
	var c svgir.Color
	c.R = float64(d.u8()) / 255
	c.G = float64(d.u8()) / 255
	c.B = float64(d.u8()) / 255
	c.A = d.f32()
	return c
}

func (d *decoder) floats() []float64 {
	n := d.count(4)
	out := make([]float64, n)
	for i := range out {
		out[i] = d.f32()
	}
	return out
}

func (d *decoder) points() []svgmath.Point {
	n := d.count(8)
	out := make([]svgmath.Point, n)
	for i := range out {
		out[i] = d.point()
	}
	return out
}

func (d *decoder) linear() svgir.LinearGradientOptions {
	var o svgir.LinearGradientOptions
	o.Start = d.point()
	o.End = d.point()
	o.Options = svgir.GradientDrawingOptions(d.u8())
	o.Units = svgir.Units(d.u8())
	o.Transform = d.optTransform()
	return o
}

func (d *decoder) radial() svgir.RadialGradientOptions {
	var o svgir.RadialGradientOptions
	o.StartCenter = d.point()
	o.StartRadius = d.f32()
	o.EndCenter = d.point()
	o.EndRadius = d.f32()
	o.Options = svgir.GradientDrawingOptions(d.u8())
	o.Transform = d.optTransform()
	return o
}

func (d *decoder) name() string { return strconv.FormatUint(uint64(d.u32()), 10) }

// Decode parses a routine encoded by Compile. Table names are the
// decimal ids of the stream. The bounding rect is not part of the
// format and is left zero.
func Decode(src []byte) (*svgir.DrawRoutine, error) {
	d := decoder{src: src}
	r, err := d.routine()
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (d *decoder) routine() (*svgir.DrawRoutine, error) {
	r := &svgir.DrawRoutine{
		Gradients:   map[string]svgir.Gradient{},
		Subroutines: map[string]svgir.DrawRoutine{},
	}

	n := d.count(8)
	for i := 0; i < n && d.err == nil; i++ {
		name := d.name()
		stops := make([]svgir.GradientStop, d.count(11))
		for j := range stops {
			stops[j].Offset = d.f32()
			stops[j].Color = d.color()
		}
		r.Gradients[name] = svgir.Gradient{Stops: stops}
	}

	n = d.count(8)
	for i := 0; i < n && d.err == nil; i++ {
		name := d.name()
		body := d.take(int(d.u32()))
		if d.err != nil {
			break
		}
		sub, err := Decode(body)
		if err != nil {
			return nil, fmt.Errorf("subroutine %s: %w", name, err)
		}
		r.Subroutines[name] = *sub
	}

	for d.err == nil && d.pos < len(d.src) {
		start := d.pos
		step, err := d.step(Opcode(d.u8()))
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", start, err)
		}
		if d.err != nil {
			break
		}
		r.Steps = append(r.Steps, step)
	}
	if d.err != nil {
		return nil, d.err
	}
	return r, nil
}

func (d *decoder) step(op Opcode) (svgir.DrawStep, error) {
	switch op {
	case OpSaveGState:
		return svgir.SaveGState{}, nil
	case OpRestoreGState:
		return svgir.RestoreGState{}, nil
	case OpMoveTo:
		return svgir.MoveTo{To: d.point()}, nil
	case OpCurveTo:
		c1 := d.point()
		c2 := d.point()
		return svgir.CurveTo{C1: c1, C2: c2, To: d.point()}, nil
	case OpQuadCurveTo:
		c := d.point()
		return svgir.QuadCurveTo{C: c, To: d.point()}, nil
	case OpLineTo:
		return svgir.LineTo{To: d.point()}, nil
	case OpAppendRectangle:
		return svgir.AppendRectangle{Rect: d.rect()}, nil
	case OpAppendRoundedRect:
		r := d.rect()
		rx := d.f32()
		return svgir.AppendRoundedRect{Rect: r, RX: rx, RY: d.f32()}, nil
	case OpAddArc:
		var a svgir.AddArc
		a.Center = d.point()
		a.Radius = d.f32()
		a.StartAngle = d.f32()
		a.EndAngle = d.f32()
		a.Clockwise = d.bool()
		return a, nil
	case OpClosePath:
		return svgir.ClosePath{}, nil
	case OpReplacePathWithStrokePath:
		return svgir.ReplacePathWithStrokePath{}, nil
	case OpLines:
		return svgir.Lines{Points: d.points()}, nil
	case OpClip:
		return svgir.Clip{}, nil
	case OpClipWithRule:
		return svgir.ClipWithRule{Rule: svgir.FillRule(d.u8())}, nil
	case OpClipToRect:
		return svgir.ClipToRect{Rect: d.rect()}, nil
	case OpDash:
		phase := d.f32()
		return svgir.Dash{Phase: phase, Lengths: d.floats()}, nil
	case OpDashPhase:
		return svgir.DashPhase{Phase: d.f32()}, nil
	case OpDashLengths:
		return svgir.DashLengths{Lengths: d.floats()}, nil
	case OpFill:
		return svgir.Fill{}, nil
	case OpFillWithRule:
		return svgir.FillWithRule{Rule: svgir.FillRule(d.u8())}, nil
	case OpFillEllipse:
		return svgir.FillEllipse{In: d.rect()}, nil
	case OpStroke:
		return svgir.Stroke{}, nil
	case OpDrawPath:
		return svgir.DrawPath{Mode: svgir.DrawingMode(d.u8())}, nil
	case OpAddEllipse:
		return svgir.AddEllipse{In: d.rect()}, nil
	case OpFillAndStroke:
		return svgir.FillAndStroke{}, nil
	case OpSetGlobalAlphaToFillAlpha:
		return svgir.SetGlobalAlphaToFillAlpha{}, nil
	case OpConcatCTM:
		return svgir.ConcatCTM{Transform: d.transform()}, nil
	case OpFlatness:
		return svgir.Flatness{Flatness: d.f32()}, nil
	case OpLineWidth:
		return svgir.LineWidth{Width: d.f32()}, nil
	case OpLineJoinStyle:
		return svgir.LineJoinStyle{Join: svgir.LineJoin(d.u8())}, nil
	case OpLineCapStyle:
		return svgir.LineCapStyle{Cap: svgir.LineCap(d.u8())}, nil
	case OpColorRenderingIntent:
		return svgir.ColorRenderingIntentStep{Intent: svgir.ColorRenderingIntent(d.u8())}, nil
	case OpGlobalAlpha:
		return svgir.GlobalAlpha{Alpha: d.f32()}, nil
	case OpStrokeColor:
		return svgir.StrokeColor{Color: d.color()}, nil
	case OpStrokeAlpha:
		return svgir.StrokeAlpha{Alpha: d.f32()}, nil
	case OpStrokeNone:
		return svgir.StrokeNone{}, nil
	case OpFillColor:
		return svgir.FillColor{Color: d.color()}, nil
	case OpFillAlpha:
		return svgir.FillAlpha{Alpha: d.f32()}, nil
	case OpFillNone:
		return svgir.FillNone{}, nil
	case OpFillRule:
		return svgir.FillRuleStep{Rule: svgir.FillRule(d.u8())}, nil
	case OpLinearGradient:
		name := d.name()
		return svgir.LinearGradient{Name: name, Options: d.linear()}, nil
	case OpRadialGradient:
		name := d.name()
		return svgir.RadialGradient{Name: name, Options: d.radial()}, nil
	case OpFillLinearGradient:
		name := d.name()
		return svgir.FillLinearGradient{Name: name, Options: d.linear()}, nil
	case OpFillRadialGradient:
		name := d.name()
		return svgir.FillRadialGradient{Name: name, Options: d.radial()}, nil
	case OpStrokeLinearGradient:
		name := d.name()
		return svgir.StrokeLinearGradient{Name: name, Options: d.linear()}, nil
	case OpStrokeRadialGradient:
		name := d.name()
		return svgir.StrokeRadialGradient{Name: name, Options: d.radial()}, nil
	case OpSubrouteWithID:
		return svgir.SubrouteWithID{Name: d.name()}, nil
	case OpShadow:
		var s svgir.Shadow
		s.Offset = d.point()
		s.Blur = d.f32()
		s.Color = d.color()
		return svgir.ShadowStep{Shadow: s}, nil
	case OpBlendMode:
		return svgir.BlendModeStep{Mode: svgir.BlendMode(d.u8())}, nil
	case OpBeginTransparencyLayer:
		return svgir.BeginTransparencyLayer{}, nil
	case OpEndTransparencyLayer:
		return svgir.EndTransparencyLayer{}, nil
	case OpMiterLimit:
		return svgir.MiterLimit{Limit: d.f32()}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownOpcode, uint8(op))
	}
}

// DecodePath parses a path routine encoded by CompilePath.
func DecodePath(src []byte) (svgir.PathComposite, error) {
	d := decoder{src: src}
	var out svgir.PathComposite
	for d.err == nil && d.pos < len(d.src) {
		start := d.pos
		var seg svgir.PathSegment
		switch op := PathOpcode(d.u8()); op {
		case PathMoveTo:
			seg = svgir.MoveTo{To: d.point()}
		case PathCurveTo:
			c1 := d.point()
			c2 := d.point()
			seg = svgir.CurveTo{C1: c1, C2: c2, To: d.point()}
		case PathQuadCurveTo:
			c := d.point()
			seg = svgir.QuadCurveTo{C: c, To: d.point()}
		case PathLineTo:
			seg = svgir.LineTo{To: d.point()}
		case PathAppendRectangle:
			seg = svgir.AppendRectangle{Rect: d.rect()}
		case PathAppendRoundedRect:
			r := d.rect()
			rx := d.f32()
			seg = svgir.AppendRoundedRect{Rect: r, RX: rx, RY: d.f32()}
		case PathAddArc:
			var a svgir.AddArc
			a.Center = d.point()
			a.Radius = d.f32()
			a.StartAngle = d.f32()
			a.EndAngle = d.f32()
			a.Clockwise = d.bool()
			seg = a
		case PathClosePath:
			seg = svgir.ClosePath{}
		case PathLines:
			seg = svgir.Lines{Points: d.points()}
		case PathAddEllipse:
			seg = svgir.AddEllipse{In: d.rect()}
		default:
			return nil, fmt.Errorf("offset %d: %w: path opcode %d", start, ErrUnknownOpcode, uint8(op))
		}
		if d.err == nil {
			out = append(out, seg)
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	return out, nil
}
