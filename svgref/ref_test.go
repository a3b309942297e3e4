package svgref

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/svgbytecode/svgdoc"
	"github.com/benoitkugler/svgbytecode/svgmath"
)

func parse(t *testing.T, content string) *svgdoc.Document {
	t.Helper()
	doc, err := svgdoc.Parse(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="10" height="10">` + content + `</svg>`))
	require.NoError(t, err)
	return doc
}

func TestIndex(t *testing.T) {
	doc := parse(t, `<defs><rect id="a" width="1" height="1"/><circle id="b" r="1"/></defs>
		<g id="g"><rect id="b" width="2" height="2"/></g>`)
	ix := NewIndex(doc)
	assert.Equal(t, []string{"a", "b", "g"}, ix.IDs())

	el, err := ix.Lookup("a")
	require.NoError(t, err)
	assert.IsType(t, &svgdoc.Rect{}, el)

	_, err = ix.Lookup("b")
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Len(t, ix.Definitions("b"), 2)
	_, isCircle := ix.Definitions("b")[0].(*svgdoc.Circle)
	assert.True(t, isCircle)

	_, err = ix.Lookup("zz")
	assert.ErrorIs(t, err, ErrMissingReference)

	_, err = Find[*svgdoc.Mask](ix, "a")
	assert.ErrorIs(t, err, ErrUnexpectedKind)
	g, err := Find[*svgdoc.Group](ix, "g")
	require.NoError(t, err)
	assert.Len(t, g.Children, 1)
}

func TestExpandUse(t *testing.T) {
	doc := parse(t, `<defs><rect id="a" width="1" height="1"/></defs>
		<use id="u1" xlink:href="#a" x="5" y="5" transform="scale(2)" fill="red"/>
		<use id="u2" href="#u1"/>`)
	ix := NewIndex(doc)

	u1 := doc.Children[1].(*svgdoc.Use)
	g, chain, err := ix.ExpandUse(u1, nil)
	require.NoError(t, err)
	assert.Equal(t, Chain{"a"}, chain)
	assert.Equal(t, []svgmath.Transform{svgmath.Scale(2, 2), svgmath.Translate(5, 5)}, g.Transform)
	assert.Equal(t, "u1", g.ID)
	require.NotNil(t, g.Fill)
	assert.Same(t, ix.Definitions("a")[0], g.Children[0])

	u2 := doc.Children[2].(*svgdoc.Use)
	g, chain, err = ix.ExpandUse(u2, nil)
	require.NoError(t, err)
	assert.Equal(t, Chain{"u1", "a"}, chain)
	assert.Nil(t, g.Transform)
	inner := g.Children[0].(*svgdoc.Group)
	assert.Equal(t, "u1", inner.ID)
}

func TestExpandUseErrors(t *testing.T) {
	doc := parse(t, `<use id="self" href="#self"/>
		<use id="x" href="#y"/><use id="y" href="#x"/>
		<use href="#missing"/>
		<use/>
		<rect id="d"/><rect id="d"/><use href="#d"/>`)
	ix := NewIndex(doc)
	expand := func(i int) error {
		_, _, err := ix.ExpandUse(doc.Children[i].(*svgdoc.Use), nil)
		return err
	}
	assert.ErrorIs(t, expand(0), ErrCyclicReference)
	assert.ErrorIs(t, expand(1), ErrCyclicReference)
	assert.ErrorIs(t, expand(3), ErrMissingReference)
	assert.ErrorIs(t, expand(4), ErrNoHref)
	assert.ErrorIs(t, expand(7), ErrDuplicateID)
}

func TestChainIsValue(t *testing.T) {
	base := make(Chain, 1, 4)
	base[0] = "a"
	c1, err := base.With("b")
	require.NoError(t, err)
	c2, err := base.With("c")
	require.NoError(t, err)
	assert.Equal(t, Chain{"a", "b"}, c1)
	assert.Equal(t, Chain{"a", "c"}, c2)
}
