// Package svgmath provides the geometric primitives shared by the
// compilation pipeline: points, rectangles, affine transforms and
// float tolerance comparisons.
package svgmath

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Point is a 2D point or vector, in user space.
type Point = vec.Vec2

// Pt is a shortcut for Point{X: x, Y: y}
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Angle returns the angle of the vector v, in radians,
// measured from the positive X axis.
func Angle(v Point) float64 { return math.Atan2(v.Y, v.X) }

// Reflect returns the reflection of p across center,
// that is 2*center - p.
func Reflect(p, center Point) Point { return center.Mul(2).Sub(p) }

// Rect is an axis aligned rectangle, with origin
// at (X, Y) and (non negative) size (W, H).
type Rect struct {
	X, Y, W, H float64
}

// RectFromPoints returns the smallest rectangle containing the given points.
// It returns the zero Rect for an empty slice.
func RectFromPoints(points ...Point) Rect {
	var b BBox
	for _, p := range points {
		b.Add(p)
	}
	return b.Rect()
}

// MaxX returns X + W
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns Y + H
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Union returns the smallest rectangle containing r and other.
func (r Rect) Union(other Rect) Rect {
	minX, minY := math.Min(r.X, other.X), math.Min(r.Y, other.Y)
	maxX, maxY := math.Max(r.MaxX(), other.MaxX()), math.Max(r.MaxY(), other.MaxY())
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// BBox accumulates points into a bounding rectangle.
// The zero value is empty and ready to use.
type BBox struct {
	minX, minY, maxX, maxY float64
	nonEmpty               bool
}

// Add extends the box to contain p.
func (b *BBox) Add(p Point) {
	if !b.nonEmpty {
		b.minX, b.maxX, b.minY, b.maxY = p.X, p.X, p.Y, p.Y
		b.nonEmpty = true
		return
	}
	b.minX = math.Min(b.minX, p.X)
	b.minY = math.Min(b.minY, p.Y)
	b.maxX = math.Max(b.maxX, p.X)
	b.maxY = math.Max(b.maxY, p.Y)
}

// AddRect extends the box to contain r.
func (b *BBox) AddRect(r Rect) {
	b.Add(Pt(r.X, r.Y))
	b.Add(Pt(r.MaxX(), r.MaxY()))
}

// IsEmpty returns true if no point has been added.
func (b BBox) IsEmpty() bool { return !b.nonEmpty }

// Rect returns the accumulated rectangle, or the zero Rect
// if the box is empty.
func (b BBox) Rect() Rect {
	if !b.nonEmpty {
		return Rect{}
	}
	return Rect{X: b.minX, Y: b.minY, W: b.maxX - b.minX, H: b.maxY - b.minY}
}

// maxRelDev is the relative deviation accepted by AlmostEqual
const maxRelDev = 0.001

// zeroTolerance is sqrt(ulp(1))
var zeroTolerance = math.Sqrt(math.Nextafter(1, 2) - 1)

// AlmostZero returns true if |a| is below the square root
// of the float64 machine epsilon.
func AlmostZero(a float64) bool { return math.Abs(a) < zeroTolerance }

// AlmostEqual compares a and b with a relative tolerance of 0.1%.
// When one of them is exactly zero, the other must be AlmostZero.
func AlmostEqual(a, b float64) bool {
	if a == b {
		return true
	}
	if a == 0 {
		return AlmostZero(b)
	}
	if b == 0 {
		return AlmostZero(a)
	}
	scale := math.Max(math.Max(math.Abs(a), math.Abs(b)), math.SmallestNonzeroFloat64)
	return math.Abs(a-b) < scale*maxRelDev
}

// Cathetus returns the length of the missing side of a right triangle,
// given its hypotenuse and the other side.
// It panics if other > hypotenuse.
func Cathetus(hypotenuse, other float64) float64 {
	if other > hypotenuse {
		panic("svgmath: cathetus longer than hypotenuse")
	}
	return math.Sqrt(hypotenuse*hypotenuse - other*other)
}

// CircleCenter solves the center of the circle of radius r
// passing through p0 and p1. Among the two solutions, anticlockwise selects
// the one for which the arc going from p0 to p1 in the increasing angle
// direction is the shorter.
// The radius must be at least half the distance between the points.
func CircleCenter(p0, p1 Point, r float64, anticlockwise bool) Point {
	chord := p1.Sub(p0)
	dist := chord.Length()
	mid := p0.Add(chord.Mul(0.5))
	if dist == 0 {
		return mid
	}
	h := Cathetus(r, math.Min(dist/2, r))
	// left normal of the chord
	normal := Pt(-chord.Y/dist, chord.X/dist)
	if anticlockwise {
		return mid.Add(normal.Mul(h))
	}
	return mid.Sub(normal.Mul(h))
}
