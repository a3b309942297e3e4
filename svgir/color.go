package svgir

import (
	"fmt"
	"math"

	"github.com/benoitkugler/svgbytecode/svgmath"
)

// Color is a RGBA color, with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

var (
	Black       = Color{A: 1}
	Transparent = Color{}
)

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

func (c Color) String() string { return fmt.Sprintf("rgba(%g, %g, %g, %g)", c.R, c.G, c.B, c.A) }

// GradientStop is one color stop, with Offset in [0, 1].
type GradientStop struct {
	Offset float64
	Color  Color
}

// Gradient is a list of stops, in the authored order.
type Gradient struct {
	Stops []GradientStop
}

// Shadow is a drop shadow approximating an SVG filter.
// Blur is in user space units; it is converted to pixels when drawing.
type Shadow struct {
	Offset svgmath.Point
	Blur   float64
	Color  Color
}

// BlurPixels returns the blur radius in pixels for the given CTM.
func (s Shadow) BlurPixels(ctm svgmath.Transform) float64 {
	return math.Floor(s.Blur*ctm.ScaleX() + 0.5)
}
