package svgstyle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/svgbytecode/svgdoc"
	"github.com/benoitkugler/svgbytecode/svgir"
)

func ptr[T any](v T) *T { return &v }

func TestStateStepsOrder(t *testing.T) {
	p := svgdoc.Presentation{
		FillRule:         ptr(svgdoc.EvenOdd),
		Stroke:           &svgdoc.Paint{Kind: svgdoc.PaintRGB, Color: svgdoc.Color{R: 255}},
		StrokeOpacity:    ptr(0.5),
		Fill:             &svgdoc.Paint{Kind: svgdoc.PaintURL, URL: "grad"},
		FillOpacity:      ptr(0.25),
		StrokeDashOffset: &svgdoc.Length{Number: 1},
		StrokeMiterLimit: ptr(4.),
		StrokeLineJoin:   ptr(svgdoc.JoinBevel),
		StrokeLineCap:    ptr(svgdoc.CapSquare),
		StrokeWidth:      &svgdoc.Length{Number: 2, Unit: svgdoc.UnitPx},
	}
	steps, err := StateSteps(p)
	require.NoError(t, err)
	assert.Equal(t, []svgir.DrawStep{
		svgir.LineWidth{Width: 2},
		svgir.LineCapStyle{Cap: svgir.CapSquare},
		svgir.LineJoinStyle{Join: svgir.JoinBevel},
		svgir.MiterLimit{Limit: 4},
		svgir.DashPhase{Phase: 1},
		svgir.FillAlpha{Alpha: 0.25},
		svgir.FillNone{},
		svgir.StrokeAlpha{Alpha: 0.5},
		svgir.StrokeColor{Color: svgir.Color{R: 1, A: 1}},
		svgir.FillRuleStep{Rule: svgir.EvenOdd},
	}, steps)

	steps, err = StateSteps(svgdoc.Presentation{})
	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestPercentStrokeWidth(t *testing.T) {
	_, err := StateSteps(svgdoc.Presentation{StrokeWidth: &svgdoc.Length{Number: 10, Unit: svgdoc.UnitPercent}})
	assert.ErrorIs(t, err, ErrPercentStrokeWidth)
}

func TestDashUpdate(t *testing.T) {
	lengths := func(ls ...float64) []svgdoc.Length {
		out := make([]svgdoc.Length, len(ls))
		for i, l := range ls {
			out[i] = svgdoc.Length{Number: l}
		}
		return out
	}
	for _, test := range []struct {
		p    svgdoc.Presentation
		want svgir.DrawStep
	}{
		{svgdoc.Presentation{}, nil},
		{svgdoc.Presentation{StrokeDashArray: []svgdoc.Length{}}, nil},
		{svgdoc.Presentation{StrokeDashArray: lengths(1, 2)}, svgir.DashLengths{Lengths: []float64{1, 2}}},
		{svgdoc.Presentation{StrokeDashArray: lengths(1, 2, 3)}, svgir.DashLengths{Lengths: []float64{1, 2, 3, 1, 2, 3}}},
		{
			svgdoc.Presentation{StrokeDashArray: lengths(4), StrokeDashOffset: &svgdoc.Length{Number: 2}},
			svgir.Dash{Phase: 2, Lengths: []float64{4, 4}},
		},
	} {
		assert.Equal(t, test.want, DashUpdate(test.p))
	}
}

func TestInherit(t *testing.T) {
	red := svgdoc.Paint{Kind: svgdoc.PaintRGB, Color: svgdoc.Color{R: 255}}
	parent := svgdoc.Presentation{
		Fill:            &red,
		Opacity:         ptr(0.5),
		Filter:          ptr("shadow"),
		StrokeWidth:     &svgdoc.Length{Number: 3},
		StrokeDashArray: []svgdoc.Length{{Number: 1}},
	}
	child := svgdoc.Presentation{
		StrokeWidth:     &svgdoc.Length{Number: 1},
		StrokeDashArray: []svgdoc.Length{},
	}
	got := Inherit(parent, child)
	assert.Equal(t, red, Fill(got))
	assert.Equal(t, DefaultStroke, Stroke(got))
	assert.Nil(t, got.Opacity)
	assert.Nil(t, got.Filter)
	assert.Equal(t, 1., got.StrokeWidth.Number)
	assert.Empty(t, got.StrokeDashArray)

	assert.Equal(t, DefaultFill, Fill(Inherit(svgdoc.Presentation{}, svgdoc.Presentation{})))
}
