package svgmath

import (
	"fmt"
	"math"

	"seehuhn.de/go/geom/matrix"
)

// Transform is an affine transformation, stored as
// [a b c d e f], so that a point (x, y) is mapped to
// (a*x + c*y + e, b*x + d*y + f).
type Transform matrix.Matrix

// Identity is the identity transform.
var Identity = Transform(matrix.Identity)

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Transform { return Transform(matrix.Translate(tx, ty)) }

// Scale returns a scaling by (sx, sy).
func Scale(sx, sy float64) Transform { return Transform(matrix.Scale(sx, sy)) }

// Rotate returns a rotation of angle radians around the origin.
func Rotate(angle float64) Transform { return Transform(matrix.Rotate(angle)) }

// RotateAround returns a rotation of angle radians around (cx, cy).
func RotateAround(angle, cx, cy float64) Transform {
	return Translate(-cx, -cy).Concat(Rotate(angle)).Concat(Translate(cx, cy))
}

// SkewX returns a skew transformation along the X axis, of angle radians.
func SkewX(angle float64) Transform { return Transform{1, 0, math.Tan(angle), 1, 0, 0} }

// SkewY returns a skew transformation along the Y axis, of angle radians.
func SkewY(angle float64) Transform { return Transform{1, math.Tan(angle), 0, 1, 0, 0} }

// InvertYAxis maps the SVG coordinate system (Y down)
// of a document with the given height to a Y up system.
func InvertYAxis(height float64) Transform { return Transform{1, 0, 0, -1, 0, height} }

// Concat returns the transform applying t first, then u.
func (t Transform) Concat(u Transform) Transform {
	return Transform(matrix.Matrix(t).Mul(matrix.Matrix(u)))
}

// Apply maps p by t.
func (t Transform) Apply(p Point) Point { return Pt(matrix.Matrix(t).Apply(p.X, p.Y)) }

// ScaleX returns the length of the image of the unit X vector.
func (t Transform) ScaleX() float64 { return math.Hypot(t[0], t[1]) }

// IsIdentity returns true for the identity transform.
func (t Transform) IsIdentity() bool { return t == Identity }

func (t Transform) String() string {
	return fmt.Sprintf("[%g %g %g %g %g %g]", t[0], t[1], t[2], t[3], t[4], t[5])
}

// Reduce combines a list of transforms as written in a
// transform attribute: the last one is applied first.
func Reduce(list []Transform) Transform {
	out := Identity
	for i := len(list) - 1; i >= 0; i-- {
		out = out.Concat(list[i])
	}
	return out
}
