package svgdraw

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/svgbytecode/svgbc"
	"github.com/benoitkugler/svgbytecode/svgdoc"
	"github.com/benoitkugler/svgbytecode/svgir"
	"github.com/benoitkugler/svgbytecode/svglower"
	"github.com/benoitkugler/svgbytecode/svgmath"
)

type op struct {
	name string
	args []float64
}

// recorder is a Painter logging every call.
type recorder struct{ ops []op }

var _ Painter = (*recorder)(nil)

func (r *recorder) add(name string, args ...float64) { r.ops = append(r.ops, op{name, args}) }

func pts(ps ...svgmath.Point) []float64 {
	var out []float64
	for _, p := range ps {
		out = append(out, p.X, p.Y)
	}
	return out
}

func colorArgs(c svgir.Color) []float64 { return []float64{c.R, c.G, c.B, c.A} }

func (r *recorder) MoveTo(p svgmath.Point)          { r.add("moveTo", pts(p)...) }
func (r *recorder) LineTo(p svgmath.Point)          { r.add("lineTo", pts(p)...) }
func (r *recorder) QuadTo(c, to svgmath.Point)      { r.add("quadTo", pts(c, to)...) }
func (r *recorder) CubeTo(c1, c2, to svgmath.Point) { r.add("cubeTo", pts(c1, c2, to)...) }
func (r *recorder) ClosePath()                      { r.add("closePath") }
func (r *recorder) SaveGState()                     { r.add("save") }
func (r *recorder) RestoreGState()                  { r.add("restore") }
func (r *recorder) ConcatCTM(t svgmath.Transform)   { r.add("concat", t[:]...) }
func (r *recorder) SetLineWidth(w float64)          { r.add("lineWidth", w) }
func (r *recorder) SetLineJoin(j svgir.LineJoin)    { r.add("lineJoin", float64(j)) }
func (r *recorder) SetLineCap(c svgir.LineCap)      { r.add("lineCap", float64(c)) }
func (r *recorder) SetMiterLimit(l float64)         { r.add("miterLimit", l) }
func (r *recorder) SetFlatness(f float64)           { r.add("flatness", f) }
func (r *recorder) SetGlobalAlpha(a float64)        { r.add("globalAlpha", a) }
func (r *recorder) SetBlendMode(m svgir.BlendMode)  { r.add("blendMode", float64(m)) }
func (r *recorder) ClearPath()                      { r.add("clearPath") }
func (r *recorder) ReplacePathWithStrokePath()      { r.add("strokeToPath") }
func (r *recorder) Clip(rule svgir.FillRule)        { r.add("clip", float64(rule)) }
func (r *recorder) BeginTransparencyLayer()         { r.add("beginLayer") }
func (r *recorder) EndTransparencyLayer()           { r.add("endLayer") }

func (r *recorder) SetRenderingIntent(i svgir.ColorRenderingIntent) { r.add("intent", float64(i)) }

func (r *recorder) SetDash(phase float64, lengths []float64) {
	r.add("dash", append([]float64{phase, float64(len(lengths))}, lengths...)...)
}

func (r *recorder) SetShadow(s svgir.Shadow) {
	r.add("shadow", append(pts(s.Offset), append([]float64{s.Blur}, colorArgs(s.Color)...)...)...)
}

func (r *recorder) ClipToRect(rect svgmath.Rect) { r.add("clipToRect", rect.X, rect.Y, rect.W, rect.H) }

func gradientArgs(g Gradient) []float64 {
	var args []float64
	for _, s := range g.Stops {
		args = append(args, s.Offset)
		args = append(args, colorArgs(s.Color)...)
	}
	if o := g.Linear; o != nil {
		args = append(args, pts(o.Start, o.End)...)
		args = append(args, float64(o.Options), float64(o.Units))
		if o.Transform != nil {
			args = append(args, o.Transform[:]...)
		}
	}
	if o := g.Radial; o != nil {
		args = append(args, pts(o.StartCenter, o.EndCenter)...)
		args = append(args, o.StartRadius, o.EndRadius, float64(o.Options))
		if o.Transform != nil {
			args = append(args, o.Transform[:]...)
		}
	}
	return args
}

func paintArgs(p Paint) []float64 {
	if p.Gradient != nil {
		return append([]float64{p.Alpha}, gradientArgs(*p.Gradient)...)
	}
	return colorArgs(p.Color)
}

func (r *recorder) FillPath(p Paint, rule svgir.FillRule) {
	r.add("fill", append([]float64{float64(rule)}, paintArgs(p)...)...)
}

func (r *recorder) StrokePath(p Paint)      { r.add("stroke", paintArgs(p)...) }
func (r *recorder) DrawGradient(g Gradient) { r.add("gradient", gradientArgs(g)...) }

func (r *recorder) names() []string {
	out := make([]string, len(r.ops))
	for i, o := range r.ops {
		out[i] = o.name
	}
	return out
}

func record(t *testing.T, r svgir.DrawRoutine) *recorder {
	t.Helper()
	var rec recorder
	require.NoError(t, Replay(r, &rec))
	return &rec
}

// assertSameOps compares the recordings, allowing for
// the precision of the bytecode operands.
func assertSameOps(t *testing.T, want, got *recorder) {
	t.Helper()
	require.Equal(t, want.names(), got.names())
	for i, w := range want.ops {
		g := got.ops[i]
		require.Len(t, g.args, len(w.args), w.name)
		for j := range w.args {
			tol := 3e-3 * math.Max(1, math.Abs(w.args[j]))
			assert.InDelta(t, w.args[j], g.args[j], tol, "%s (op %d, arg %d)", w.name, i, j)
		}
	}
}

func TestReplayRoundTrip(t *testing.T) {
	doc, err := svgdoc.ParseFile("../svgdoc/testdata/shapes.svg")
	require.NoError(t, err)
	routines, err := svglower.Lower(doc, svglower.Options{})
	require.NoError(t, err)

	want := record(t, routines.Drawing)
	decoded, err := svgbc.Decode(svgbc.Compile(routines.Drawing))
	require.NoError(t, err)
	got := record(t, *decoded)
	assertSameOps(t, want, got)
	assert.Contains(t, want.names(), "fill")
	assert.Contains(t, want.names(), "shadow")
}

func TestReplaySubroutineRoundTrip(t *testing.T) {
	red := svgir.Color{R: 1, A: 1}
	r := svgir.DrawRoutine{
		Gradients: map[string]svgir.Gradient{
			"sunset": {Stops: []svgir.GradientStop{{Offset: 0, Color: red}, {Offset: 1, Color: svgir.Black}}},
		},
		Subroutines: map[string]svgir.DrawRoutine{
			"dot": {Steps: []svgir.DrawStep{svgir.FillEllipse{In: svgmath.Rect{W: 2, H: 2}}}},
		},
		Steps: []svgir.DrawStep{
			svgir.FillColor{Color: red},
			svgir.SubrouteWithID{Name: "dot"},
			svgir.Dash{Phase: 1, Lengths: []float64{2, 3}},
			svgir.StrokeColor{Color: red},
			svgir.FillRadialGradient{Name: "sunset", Options: svgir.RadialGradientOptions{EndRadius: 3}},
			svgir.AppendRoundedRect{Rect: svgmath.Rect{X: 1, Y: 1, W: 10, H: 4}, RX: 1, RY: 2},
			svgir.FillAndStroke{},
		},
	}
	want := record(t, r)
	decoded, err := svgbc.Decode(svgbc.Compile(r))
	require.NoError(t, err)
	assertSameOps(t, want, record(t, *decoded))
}

func TestFillAndStroke(t *testing.T) {
	grad := map[string]svgir.Gradient{"g": {Stops: []svgir.GradientStop{{Offset: 0, Color: svgir.Black}}}}
	square := svgir.AppendRectangle{Rect: svgmath.Rect{W: 1, H: 1}}
	path := []string{"moveTo", "lineTo", "lineTo", "lineTo", "closePath"}

	for _, test := range []struct {
		steps []svgir.DrawStep
		paint []string
	}{
		{nil, []string{"fill"}}, // default is black fill, no stroke
		{[]svgir.DrawStep{svgir.FillNone{}}, nil},
		{[]svgir.DrawStep{svgir.StrokeColor{Color: svgir.Black}}, []string{"fill", "stroke"}},
		{[]svgir.DrawStep{svgir.FillNone{}, svgir.StrokeColor{Color: svgir.Black}}, []string{"stroke"}},
		{[]svgir.DrawStep{svgir.FillLinearGradient{Name: "g"}, svgir.StrokeLinearGradient{Name: "g"}}, []string{"fill", "stroke"}},
	} {
		steps := append(test.steps, square, svgir.FillAndStroke{})
		rec := record(t, svgir.DrawRoutine{Gradients: grad, Steps: steps})
		want := append(append(path, test.paint...), "clearPath")
		assert.Equal(t, want, rec.names())
	}
}

func TestPlainPaintingSkipsGradients(t *testing.T) {
	grad := map[string]svgir.Gradient{"g": {}}
	rec := record(t, svgir.DrawRoutine{Gradients: grad, Steps: []svgir.DrawStep{
		svgir.FillLinearGradient{Name: "g"},
		svgir.MoveTo{To: svgmath.Pt(0, 0)},
		svgir.Fill{},
		svgir.StrokeColor{Color: svgir.Black},
		svgir.MoveTo{To: svgmath.Pt(0, 0)},
		svgir.DrawPath{Mode: svgir.ModeEOFillStroke},
	}})
	assert.Equal(t, []string{"moveTo", "clearPath", "moveTo", "stroke", "clearPath"}, rec.names())
}

func TestGraphicState(t *testing.T) {
	red := svgir.Color{R: 1, A: 1}
	rec := record(t, svgir.DrawRoutine{Steps: []svgir.DrawStep{
		svgir.FillColor{Color: red},
		svgir.FillAlpha{Alpha: 0.5},
		svgir.SaveGState{},
		svgir.FillNone{},
		svgir.FillRuleStep{Rule: svgir.EvenOdd},
		svgir.MoveTo{To: svgmath.Pt(1, 2)},
		svgir.RestoreGState{},
		svgir.FillAndStroke{},
		svgir.SetGlobalAlphaToFillAlpha{},
	}})
	assert.Equal(t, []op{
		{"save", nil},
		{"moveTo", []float64{1, 2}},
		{"restore", nil},
		{"fill", []float64{0, 1, 0, 0, 0.5}},
		{"clearPath", nil},
		{"globalAlpha", []float64{0.5}},
	}, rec.ops)
}

func TestClipUsesFillRule(t *testing.T) {
	rec := record(t, svgir.DrawRoutine{Steps: []svgir.DrawStep{
		svgir.FillRuleStep{Rule: svgir.EvenOdd},
		svgir.Clip{},
		svgir.ClipWithRule{Rule: svgir.Winding},
	}})
	assert.Equal(t, []op{{"clip", []float64{1}}, {"clip", []float64{0}}}, rec.ops)
}

func TestDash(t *testing.T) {
	rec := record(t, svgir.DrawRoutine{Steps: []svgir.DrawStep{
		svgir.DashLengths{Lengths: []float64{1, 2}},
		svgir.DashPhase{Phase: 3},
		svgir.SaveGState{},
		svgir.DashLengths{Lengths: []float64{}},
		svgir.RestoreGState{},
		svgir.DashPhase{Phase: 0},
	}})
	assert.Equal(t, []op{
		{"dash", []float64{0, 2, 1, 2}},
		{"dash", []float64{3, 2, 1, 2}},
		{"save", nil},
		{"dash", []float64{3, 0}},
		{"restore", nil},
		{"dash", []float64{0, 2, 1, 2}},
	}, rec.ops)
}

func TestSubroutineState(t *testing.T) {
	red := svgir.Color{R: 1, A: 1}
	rec := record(t, svgir.DrawRoutine{
		Subroutines: map[string]svgir.DrawRoutine{
			"s": {Steps: []svgir.DrawStep{svgir.FillNone{}, svgir.MoveTo{To: svgmath.Pt(1, 1)}}},
		},
		Steps: []svgir.DrawStep{
			svgir.FillColor{Color: red},
			svgir.SubrouteWithID{Name: "s"},
			svgir.LineTo{To: svgmath.Pt(2, 2)},
			svgir.Fill{},
		},
	})
	// the paint change stays inside the subroutine, the path does not
	assert.Equal(t, []string{"moveTo", "lineTo", "fill", "clearPath"}, rec.names())
	assert.Equal(t, []float64{0, 1, 0, 0, 1}, rec.ops[2].args)
}

func TestMissingNames(t *testing.T) {
	var rec recorder
	err := Replay(svgir.DrawRoutine{Steps: []svgir.DrawStep{svgir.LinearGradient{Name: "x"}}}, &rec)
	assert.ErrorIs(t, err, ErrMissingGradient)
	err = Replay(svgir.DrawRoutine{Steps: []svgir.DrawStep{svgir.SubrouteWithID{Name: "x"}}}, &rec)
	assert.ErrorIs(t, err, ErrMissingSubroutine)
}

func TestArcSweep(t *testing.T) {
	for _, test := range []struct {
		start, end float64
		clockwise  bool
		want       float64
	}{
		{0, math.Pi / 2, false, math.Pi / 2},
		{0, math.Pi / 2, true, -3 * math.Pi / 2},
		{math.Pi / 2, 0, true, -math.Pi / 2},
		{math.Pi / 2, 0, false, 3 * math.Pi / 2},
		{0, 3 * math.Pi, false, 2 * math.Pi},
		{1, 1, true, 0},
	} {
		assert.InDelta(t, test.want, arcSweep(test.start, test.end, test.clockwise), 1e-9)
	}
}

func TestAppendPathShapes(t *testing.T) {
	var rec recorder
	err := AppendPath(svgir.PathComposite{
		svgir.LineTo{To: svgmath.Pt(5, 5)}, // implicit move
		svgir.AddArc{Center: svgmath.Pt(0, 0), Radius: 1, StartAngle: 0, EndAngle: math.Pi / 2},
	}, &rec)
	require.NoError(t, err)
	names := rec.names()
	assert.Equal(t, []string{"moveTo", "lineTo", "cubeTo", "cubeTo", "cubeTo", "cubeTo", "cubeTo"}, names)
	// the arc is joined by a line to its start
	assert.Equal(t, []float64{1, 0}, rec.ops[1].args)
	last := rec.ops[len(rec.ops)-1].args
	assert.InDelta(t, 0, last[4], 1e-9)
	assert.InDelta(t, 1, last[5], 1e-9)

	// every point of the ellipse approximation lies on the ellipse
	rec = recorder{}
	require.NoError(t, AppendPath(svgir.AddEllipse{In: svgmath.Rect{X: 1, Y: 2, W: 4, H: 2}}, &rec))
	assert.Equal(t, "moveTo", rec.ops[0].name)
	assert.Equal(t, "closePath", rec.ops[len(rec.ops)-1].name)
	for _, o := range rec.ops[1 : len(rec.ops)-1] {
		x, y := (o.args[4]-3)/2, (o.args[5]-3)/1
		assert.InDelta(t, 1, x*x+y*y, 1e-9)
	}

	rec = recorder{}
	require.NoError(t, AppendPath(svgir.AppendRoundedRect{Rect: svgmath.Rect{W: 4, H: 4}, RX: 0, RY: 1}, &rec))
	assert.Equal(t, []string{"moveTo", "lineTo", "lineTo", "lineTo", "closePath"}, rec.names())
}
