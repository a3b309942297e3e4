package svgmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlmostEqual(t *testing.T) {
	assert.True(t, AlmostEqual(1, 1.0005))
	assert.False(t, AlmostEqual(1, 1.002))
	assert.True(t, AlmostEqual(0, 1e-9))
	assert.False(t, AlmostEqual(0, 1e-3))
	assert.True(t, AlmostEqual(-250, -250.1))
	assert.True(t, AlmostZero(-1e-9))
	assert.False(t, AlmostZero(1e-7))
}

func TestCathetus(t *testing.T) {
	assert.Equal(t, 4., Cathetus(5, 3))
	assert.Equal(t, 0., Cathetus(2, 2))
	assert.Panics(t, func() { Cathetus(1, 2) })
}

func TestCircleCenter(t *testing.T) {
	p0, p1 := Pt(0, 0), Pt(2, 0)
	r := math.Sqrt2
	for _, anticlockwise := range []bool{true, false} {
		c := CircleCenter(p0, p1, r, anticlockwise)
		assert.InDelta(t, r, c.Sub(p0).Length(), 1e-9)
		assert.InDelta(t, r, c.Sub(p1).Length(), 1e-9)
	}
	// the short arc from p0 to p1 turns anticlockwise around (1, 1)
	assert.InDelta(t, 1, CircleCenter(p0, p1, r, true).Y, 1e-9)
	assert.InDelta(t, -1, CircleCenter(p0, p1, r, false).Y, 1e-9)

	c0 := CircleCenter(Pt(0, 0), Pt(6, 0), 5, true)
	assert.InDelta(t, 3, c0.X, 1e-9)
	assert.InDelta(t, 4, c0.Y, 1e-9)

	// half chord: the center is the midpoint
	c := CircleCenter(p0, p1, 1, true)
	assert.InDelta(t, 1, c.X, 1e-9)
	assert.InDelta(t, 0, c.Y, 1e-9)
}

func TestTransform(t *testing.T) {
	tr := Reduce([]Transform{Translate(5, 5), Scale(2, 2)})
	assert.Equal(t, Pt(7, 9), tr.Apply(Pt(1, 2)))

	tr = Scale(2, 3).Concat(Translate(1, 1))
	assert.Equal(t, Pt(3, 4), tr.Apply(Pt(1, 1)))

	assert.True(t, Reduce(nil).IsIdentity())
	assert.Equal(t, Pt(0, 10), InvertYAxis(10).Apply(Pt(0, 0)))

	r := RotateAround(math.Pi/2, 1, 1)
	p := r.Apply(Pt(2, 1))
	assert.InDelta(t, 1, p.X, 1e-9)
	assert.InDelta(t, 2, p.Y, 1e-9)

	assert.InDelta(t, 2, Scale(2, 5).ScaleX(), 1e-9)
	rotated := Rotate(math.Pi / 2).Concat(Scale(2, 5))
	assert.InDelta(t, 5, rotated.ScaleX(), 1e-9)
	u := rotated.Apply(Pt(1, 0))
	assert.InDelta(t, u.Length(), rotated.ScaleX(), 1e-9)
}

func TestBBox(t *testing.T) {
	var b BBox
	assert.True(t, b.IsEmpty())
	assert.Equal(t, Rect{}, b.Rect())

	b.AddCubic(Pt(0, 0), Pt(0, 10), Pt(10, 10), Pt(10, 0))
	r := b.Rect()
	assert.InDelta(t, 7.5, r.H, 1e-9)
	assert.Equal(t, 10., r.W)

	b = BBox{}
	b.AddQuad(Pt(0, 0), Pt(5, 10), Pt(10, 0))
	assert.InDelta(t, 5, b.Rect().H, 1e-9)

	b = BBox{}
	b.AddArc(Pt(0, 0), 1, math.Pi, 0, true) // upper half, decreasing angles
	r = b.Rect()
	assert.InDelta(t, -1, r.X, 1e-9)
	assert.InDelta(t, 2, r.W, 1e-9)
	assert.InDelta(t, 1, r.H, 1e-9)

	u := Rect{0, 0, 1, 1}.Union(Rect{2, -1, 1, 1})
	assert.Equal(t, Rect{0, -1, 3, 2}, u)
	assert.Equal(t, Rect{1, 1, 2, 3}, RectFromPoints(Pt(3, 1), Pt(1, 4)))
}
