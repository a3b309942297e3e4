// Package svgir defines the intermediate drawing representation
// produced by lowering an SVG document, and consumed by the bytecode
// compiler and the replay drivers.
//
// Path segments are also draw steps: they append to the current path.
package svgir

import (
	"github.com/benoitkugler/svgbytecode/svgmath"
)

// PathSegment is one path construction operation.
type PathSegment interface {
	DrawStep
	isPathSegment()
}

type MoveTo struct{ To svgmath.Point }

type LineTo struct{ To svgmath.Point }

type CurveTo struct{ C1, C2, To svgmath.Point }

type QuadCurveTo struct{ C, To svgmath.Point }

// AddArc appends a circular arc, in the decreasing angle direction
// if Clockwise is true. Angles are in radians.
type AddArc struct {
	Center                       svgmath.Point
	Radius, StartAngle, EndAngle float64
	Clockwise                    bool
}

type ClosePath struct{}

// Lines appends a polyline, starting with an implicit move.
type Lines struct{ Points []svgmath.Point }

type AppendRectangle struct{ Rect svgmath.Rect }

type AppendRoundedRect struct {
	Rect   svgmath.Rect
	RX, RY float64
}

// AddEllipse appends the ellipse inscribed in Rect.
type AddEllipse struct{ In svgmath.Rect }

// PathComposite groups segments built together. It is removed by Flatten.
type PathComposite []PathSegment

func (MoveTo) isPathSegment()            {}
func (LineTo) isPathSegment()            {}
func (CurveTo) isPathSegment()           {}
func (QuadCurveTo) isPathSegment()       {}
func (AddArc) isPathSegment()            {}
func (ClosePath) isPathSegment()         {}
func (Lines) isPathSegment()             {}
func (AppendRectangle) isPathSegment()   {}
func (AppendRoundedRect) isPathSegment() {}
func (AddEllipse) isPathSegment()        {}
func (PathComposite) isPathSegment()     {}

// FlattenSegment returns the leaves of seg, in order.
func FlattenSegment(seg PathSegment) []PathSegment {
	return appendSegment(nil, seg)
}

func appendSegment(dst []PathSegment, seg PathSegment) []PathSegment {
	if c, ok := seg.(PathComposite); ok {
		for _, s := range c {
			dst = appendSegment(dst, s)
		}
		return dst
	}
	return append(dst, seg)
}

// PathRoutine is a named, standalone path, compiled
// independently of any drawing.
type PathRoutine struct {
	ID      string
	Segment PathSegment
}
