package svgfilter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/svgbytecode/svgdoc"
	"github.com/benoitkugler/svgbytecode/svgir"
	"github.com/benoitkugler/svgbytecode/svgmath"
)

func filter(t *testing.T, primitives string) *svgdoc.Filter {
	t.Helper()
	doc, err := svgdoc.Parse(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><filter id="f">` +
		primitives + `</filter></svg>`))
	require.NoError(t, err)
	return doc.Children[0].(*svgdoc.Filter)
}

const (
	burn     = `<feColorMatrix in="SourceAlpha" type="matrix" values="0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 127 0" result="hardAlpha"/>`
	burnPrev = `<feColorMatrix type="matrix" values="0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 127 0"/>`
	color    = `<feColorMatrix type="matrix" values="0 0 0 0 0.2 0 0 0 0 0.4 0 0 0 0 0.6 0 0 0 0.25 0"/>`
)

func TestBuild(t *testing.T) {
	n, err := Build(filter(t, ``))
	require.NoError(t, err)
	assert.Equal(t, Input{Kind: svgdoc.SourceGraphic}, n)

	n, err = Build(filter(t, `<feOffset dx="1" result="a"/><feGaussianBlur in="SourceAlpha" stdDeviation="2 3"/><feBlend in="a"/>`))
	require.NoError(t, err)
	assert.Equal(t, Blend{
		In1:  Offset{In: Input{Kind: svgdoc.SourceGraphic}, Dx: 1},
		In2:  GaussianBlur{In: Input{Kind: svgdoc.SourceAlpha}, StdDevX: 2, StdDevY: 3},
		Mode: svgdoc.BlendNormal,
	}, n)

	// the closest preceding result is used
	n, err = Build(filter(t, `<feOffset dx="1" result="a"/><feOffset dx="2" result="a"/><feFlood/><feOffset in="a" dy="3"/>`))
	require.NoError(t, err)
	assert.Equal(t, Offset{In: Offset{In: Offset{In: Input{Kind: svgdoc.SourceGraphic}, Dx: 1}, Dx: 2}, Dy: 3}, n)

	_, err = Build(filter(t, `<feOffset in="later"/><feOffset result="later"/>`))
	assert.ErrorIs(t, err, ErrInputNotDefined)

	_, err = Build(filter(t, `<feColorMatrix values="1 2 3"/>`))
	assert.ErrorIs(t, err, ErrInvalidValues)
}

func TestShadow(t *testing.T) {
	f := filter(t, `<feFlood flood-opacity="0" result="BackgroundImageFix"/>`+burn+
		`<feOffset dy="4"/><feGaussianBlur stdDeviation="2"/>`+color+
		`<feBlend mode="normal" in2="BackgroundImageFix" result="effect1"/>
		<feBlend mode="normal" in="SourceGraphic" in2="effect1" result="shape"/>`)
	s, err := Shadow(f)
	require.NoError(t, err)
	assert.Equal(t, svgmath.Pt(0, 4), s.Offset)
	assert.InDelta(t, 2*3*2.5066282746/4, s.Blur, 1e-8)
	assert.InDelta(t, 0.2, s.Color.R, 1e-12)
	assert.InDelta(t, 0.4, s.Color.G, 1e-12)
	assert.InDelta(t, 0.6, s.Color.B, 1e-12)
	assert.InDelta(t, 0.25, s.Color.A, 1e-12)

	// without the alpha burn, and without offset
	s, err = Shadow(filter(t, `<feGaussianBlur in="SourceAlpha" stdDeviation="1"/>`+color+`<feBlend in="SourceGraphic"/>`))
	require.NoError(t, err)
	assert.Equal(t, svgmath.Point{}, s.Offset)

	// the svgdoc test file
	doc, err := svgdoc.ParseFile("../svgdoc/testdata/shapes.svg")
	require.NoError(t, err)
	defs := doc.Children[2].(*svgdoc.Defs)
	s, err = Shadow(defs.Children[1].(*svgdoc.Filter))
	require.NoError(t, err)
	assert.Equal(t, svgmath.Pt(1, 2), s.Offset)
	assert.Equal(t, svgir.Color{A: 0.5}, s.Color)
}

func TestShadowRejected(t *testing.T) {
	for _, primitives := range []string{
		// two non burning matrices
		`<feGaussianBlur in="SourceAlpha" stdDeviation="1"/>` + color + color + `<feBlend in="SourceGraphic"/>`,
		// elliptical blur
		burn + `<feGaussianBlur stdDeviation="1 2"/>` + color + `<feBlend in="SourceGraphic"/>`,
		// blur after the burn
		`<feGaussianBlur in="SourceAlpha" stdDeviation="1"/>` + burnPrev + color + `<feBlend in="SourceGraphic"/>`,
		// no blur
		burn + color + `<feBlend in="SourceGraphic"/>`,
		// two offsets
		`<feOffset in="SourceAlpha" dx="1"/><feOffset dx="1"/><feGaussianBlur stdDeviation="1"/>` + color + `<feBlend in="SourceGraphic"/>`,
		// not a blend
		`<feGaussianBlur in="SourceAlpha" stdDeviation="1"/>` + color,
		// blend mode
		`<feGaussianBlur in="SourceAlpha" stdDeviation="1"/>` + color + `<feBlend in="SourceGraphic" mode="multiply"/>`,
		// saturate
		`<feGaussianBlur in="SourceAlpha" stdDeviation="1"/><feColorMatrix type="saturate" values="0.5"/><feBlend in="SourceGraphic"/>`,
		// color depending on the input
		`<feGaussianBlur in="SourceAlpha" stdDeviation="1"/><feColorMatrix/><feBlend in="SourceGraphic"/>`,
		// background
		`<feGaussianBlur in="BackgroundAlpha" stdDeviation="1"/>` + color + `<feBlend in="SourceGraphic"/>`,
	} {
		_, err := Shadow(filter(t, primitives))
		assert.ErrorIs(t, err, ErrUnsupportedFilter, primitives)
	}
}

func TestMeaningful(t *testing.T) {
	empty := Flood{}
	src := Input{Kind: svgdoc.SourceAlpha}
	assert.Nil(t, meaningful(empty))
	assert.Equal(t, src, meaningful(Blend{In1: empty, In2: src}))
	assert.Nil(t, meaningful(Blend{In1: empty, In2: empty}))
	both := Blend{In1: Flood{Opacity: 1}, In2: src}
	assert.Equal(t, both, meaningful(both))
}
