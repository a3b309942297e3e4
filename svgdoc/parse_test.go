package svgdoc

import (
	"errors"
	"strings"
	"testing"

	"github.com/benoitkugler/svgbytecode/svgmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tdewolff/test"
)

func TestParseFile(t *testing.T) {
	doc, err := ParseFile("testdata/shapes.svg")
	require.NoError(t, err)

	assert.Equal(t, &Length{Number: 64}, doc.Width)
	assert.Equal(t, &Length{Number: 48}, doc.Height)
	require.Len(t, doc.Children, 5)

	title := doc.Children[0].(*Title)
	assert.Equal(t, "shapes", title.Text)

	assert.Equal(t, "Basic shapes with a gradient and a shadow", doc.Children[1].(*Desc).Text)

	defs := doc.Children[2].(*Defs)
	require.Len(t, defs.Children, 3)
	grad := defs.Children[0].(*LinearGradient)
	assert.Equal(t, "grad", grad.ID)
	assert.Equal(t, &Length{Number: 0, Unit: UnitPercent}, grad.X1)
	assert.Nil(t, grad.X2)
	require.Len(t, grad.Stops, 2)
	assert.Equal(t, &Color{0, 0, 255}, grad.Stops[1].StopColor)
	assert.Equal(t, 0.5, *grad.Stops[1].StopOpacity)

	filter := defs.Children[1].(*Filter)
	require.Len(t, filter.Primitives, 4)
	offset := filter.Primitives[1].(*FeOffset)
	assert.Equal(t, "offsetblur", offset.Result)
	assert.Equal(t, 2., *offset.Dy)
	blend := filter.Primitives[3].(*FeBlend)
	assert.Equal(t, &FilterInput{Kind: SourceGraphic}, blend.In)
	assert.Nil(t, blend.In2)

	g := doc.Children[3].(*Group)
	assert.Equal(t, Paint{Kind: PaintRGB, Color: Color{255, 0, 0}}, *g.Fill)
	assert.Equal(t, []svgmath.Transform{svgmath.Translate(1, 2), svgmath.Scale(2, 2)}, g.Transform)
	require.Len(t, g.Children, 7)

	circle := g.Children[1].(*Circle)
	assert.Equal(t, Paint{Kind: PaintURL, URL: "grad"}, *circle.Fill)
	assert.Equal(t, []Length{{Number: 1}, {Number: 2}}, circle.StrokeDashArray)

	assert.Equal(t, "shadow", *g.Children[2].(*Ellipse).Filter)
	assert.False(t, g.Children[3].(*Polygon).Open)
	assert.True(t, g.Children[4].(*Polygon).Open)
	line := g.Children[5].(*Polygon)
	assert.Equal(t, []svgmath.Point{svgmath.Pt(0, 0), svgmath.Pt(5, 5)}, line.Points)
	assert.Len(t, g.Children[6].(*Path).D, 4)

	use := doc.Children[4].(*Use)
	assert.Equal(t, "#cell", use.Href)
	assert.Equal(t, &Length{Number: 5}, use.X)
}

func TestParseErrors(t *testing.T) {
	for _, tt := range []struct {
		src string
		err error
	}{
		{`<g/>`, ErrInvalidRoot},
		{``, ErrInvalidRoot},
		{`<svg><text>hello</text></svg>`, ErrUnknownElement},
		{`<svg><svg/></svg>`, ErrUnknownElement},
		{`<svg><g><stop/></g></svg>`, ErrUnknownElement},
	} {
		_, err := Parse(strings.NewReader(tt.src))
		assert.True(t, errors.Is(err, tt.err), tt.src)
	}

	_, err := Parse(strings.NewReader(`<svg><rect width="10qq"/></svg>`))
	var attrErr *AttributeError
	require.True(t, errors.As(err, &attrErr))
	assert.Equal(t, "width", attrErr.Attribute)
	assert.Equal(t, "rect", attrErr.Element)

	_, err = Parse(test.NewErrorReader(0))
	assert.Error(t, err)
}

func TestForeignElementsIgnored(t *testing.T) {
	src := `<svg xmlns="http://www.w3.org/2000/svg" xmlns:sodipodi="http://sodipodi.sourceforge.net/DTD/sodipodi-0.dtd">
	<sodipodi:namedview><sodipodi:guide/></sodipodi:namedview>
	<rect sodipodi:type="rect" width="1" height="1"/>
	</svg>`
	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, doc.Children, 1)
	_, isRect := doc.Children[0].(*Rect)
	assert.True(t, isRect)
}

func TestValues(t *testing.T) {
	c, err := parseColor("#f0a")
	require.NoError(t, err)
	assert.Equal(t, Color{255, 0, 170}, c)

	c, err = parseColor("rgb(100%, 0, 50)")
	require.NoError(t, err)
	assert.Equal(t, Color{255, 0, 50}, c)

	c, err = parseColor("ForestGreen")
	require.NoError(t, err)
	assert.Equal(t, Color{34, 139, 34}, c)

	_, err = parseColor("#12345")
	assert.Error(t, err)

	p, err := parsePaint(`url("#g") red`)
	require.NoError(t, err)
	assert.Equal(t, Paint{Kind: PaintURL, URL: "g"}, p)

	tr, err := parseTransform("rotate(90, 1 1) matrix(1 0 0 1 2 3)")
	require.NoError(t, err)
	require.Len(t, tr, 2)
	assert.Equal(t, svgmath.Transform{1, 0, 0, 1, 2, 3}, tr[1])

	_, err = parseTransform("scale(1 2 3)")
	assert.Equal(t, errParamMismatch, err)

	o, err := parseOpacity("150%")
	require.NoError(t, err)
	assert.Equal(t, 1., o)

	l, err := parseLength("12.5pt")
	require.NoError(t, err)
	assert.Equal(t, Length{Number: 12.5, Unit: UnitPt}, l)
	assert.Equal(t, 5., Length{Number: 50, Unit: UnitPercent}.Abs(10))
}
