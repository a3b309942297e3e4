package svggrad

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/svgbytecode/svgdoc"
	"github.com/benoitkugler/svgbytecode/svgir"
	"github.com/benoitkugler/svgbytecode/svgmath"
	"github.com/benoitkugler/svgbytecode/svgref"
)

func collect(t *testing.T, content string) (map[string]Resolved, error) {
	t.Helper()
	doc, err := svgdoc.Parse(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg" width="100" height="50">` + content + `</svg>`))
	require.NoError(t, err)
	return Collect(doc)
}

var (
	box  = svgmath.Rect{X: 10, Y: 20, W: 40, H: 10}
	area = svgmath.Rect{W: 100, H: 50}
)

func TestLinearDefaults(t *testing.T) {
	grads, err := collect(t, `<defs><linearGradient id="g">
		<stop offset="0" stop-color="red"/><stop offset="50%" stop-color="blue" stop-opacity="0.5"/><stop offset="1"/>
	</linearGradient></defs>`)
	require.NoError(t, err)
	g := grads["g"]
	assert.Equal(t, []svgir.GradientStop{
		{Offset: 0, Color: svgir.Color{R: 1, A: 1}},
		{Offset: 0.5, Color: svgir.Color{B: 1, A: 0.5}},
		{Offset: 1, Color: svgir.Transparent},
	}, g.Gradient.Stops)

	step := g.Placement.Resolve(box, area, OpFill)
	assert.Equal(t, svgir.FillLinearGradient{Name: "g", Options: svgir.LinearGradientOptions{
		Start:   svgmath.Pt(10, 20),
		End:     svgmath.Pt(50, 20),
		Options: svgir.DrawsBeforeStart | svgir.DrawsAfterEnd,
		Units:   svgir.ObjectBoundingBox,
	}}, step)

	step = g.Placement.Resolve(box, area, OpStroke)
	assert.IsType(t, svgir.StrokeLinearGradient{}, step)
}

func TestLinearUserSpace(t *testing.T) {
	grads, err := collect(t, `<linearGradient id="g" gradientUnits="userSpaceOnUse" x1="1" y1="2" x2="50%" y2="3"/>`)
	require.NoError(t, err)
	step := grads["g"].Placement.Resolve(box, area, OpFill).(svgir.FillLinearGradient)
	assert.Equal(t, svgmath.Pt(1, 2), step.Options.Start)
	assert.Equal(t, svgmath.Pt(50, 3), step.Options.End)
	assert.Equal(t, svgir.UserSpaceOnUse, step.Options.Units)
	assert.Nil(t, step.Options.Transform)
}

func TestLinearTransform(t *testing.T) {
	grads, err := collect(t, `<linearGradient id="g" gradientTransform="rotate(90)"/>`)
	require.NoError(t, err)
	step := grads["g"].Placement.Resolve(box, area, OpFill).(svgir.FillLinearGradient)
	// points are in the unit square of the box
	assert.Equal(t, svgmath.Pt(0, 0), step.Options.Start)
	assert.Equal(t, svgmath.Pt(1, 0), step.Options.End)
	require.NotNil(t, step.Options.Transform)
	tr := *step.Options.Transform
	// (1, 0) is rotated to (0, 1), then mapped to the box
	end := tr.Apply(step.Options.End)
	assert.InDelta(t, 10, end.X, 1e-9)
	assert.InDelta(t, 30, end.Y, 1e-9)

	// an identity transform leaves the result unchanged
	grads, err = collect(t, `<linearGradient id="g" gradientTransform="scale(1)"/>`)
	require.NoError(t, err)
	step = grads["g"].Placement.Resolve(box, area, OpFill).(svgir.FillLinearGradient)
	tr = *step.Options.Transform
	assert.Equal(t, svgmath.Pt(50, 20), tr.Apply(step.Options.End))
}

func TestRadial(t *testing.T) {
	grads, err := collect(t, `<radialGradient id="r" fx="25%"><stop stop-color="#00ff00"/></radialGradient>`)
	require.NoError(t, err)
	r := grads["r"]
	assert.Equal(t, []svgir.GradientStop{{Color: svgir.Color{G: 1, A: 1}}}, r.Gradient.Stops)

	step := r.Placement.Resolve(box, area, OpFill).(svgir.FillRadialGradient)
	assert.Equal(t, svgir.RadialGradientOptions{
		StartCenter: svgmath.Pt(20, 25),
		EndCenter:   svgmath.Pt(30, 25),
		EndRadius:   5,
		Options:     svgir.DrawsBeforeStart | svgir.DrawsAfterEnd,
	}, step.Options)

	grads, err = collect(t, `<radialGradient id="r" gradientUnits="userSpaceOnUse" gradientTransform="translate(1 1)" r="10"/>`)
	require.NoError(t, err)
	stroke := grads["r"].Placement.Resolve(box, area, OpStroke).(svgir.StrokeRadialGradient)
	assert.Equal(t, svgmath.Pt(50, 25), stroke.Options.EndCenter)
	assert.Equal(t, 10., stroke.Options.EndRadius)
	assert.Equal(t, svgmath.Translate(1, 1), *stroke.Options.Transform)
}

func TestStopColorAsymmetry(t *testing.T) {
	_, err := collect(t, `<radialGradient id="r"><stop offset="0"/></radialGradient>`)
	assert.ErrorIs(t, err, ErrNoStopColor)

	grads, err := collect(t, `<linearGradient id="l"><stop offset="0"/></linearGradient>`)
	require.NoError(t, err)
	assert.Equal(t, svgir.Transparent, grads["l"].Gradient.Stops[0].Color)
}

func TestCollect(t *testing.T) {
	grads, err := collect(t, `<g><defs><linearGradient id="a"/></defs></g><radialGradient id="b"/><linearGradient/>`)
	require.NoError(t, err)
	assert.Len(t, grads, 2)

	_, err = collect(t, `<linearGradient id="a"/><radialGradient id="a"/>`)
	assert.ErrorIs(t, err, svgref.ErrDuplicateID)
}
