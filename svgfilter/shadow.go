package svgfilter

import (
	"errors"
	"fmt"
	"math"

	"github.com/benoitkugler/svgbytecode/svgdoc"
	"github.com/benoitkugler/svgbytecode/svgir"
	"github.com/benoitkugler/svgbytecode/svgmath"
)

// ErrUnsupportedFilter is returned for filters which are not a drop shadow.
var ErrUnsupportedFilter = errors.New("filter is too complex, only drop shadows are supported")

// burnThreshold is the minimal alpha multiplier of a color matrix
// saturating the alpha channel to 1.
const burnThreshold = 100

// blurFactor converts a gaussian standard deviation to a box blur extent.
var blurFactor = 3 * math.Sqrt(2*math.Pi) / 4

// Shadow builds the graph of f and simplifies it.
func Shadow(f *svgdoc.Filter) (svgir.Shadow, error) {
	n, err := Build(f)
	if err != nil {
		return svgir.Shadow{}, err
	}
	s, ok := Simplify(n)
	if !ok {
		return svgir.Shadow{}, fmt.Errorf("filter %q: %w", f.ID, ErrUnsupportedFilter)
	}
	return s, nil
}

// Simplify recognizes the graph of a drop shadow:
//
//	blend(SourceGraphic, X, normal)
//
// where X is, from the output to the source, a color matrix setting the
// shadow color, an offset and a gaussian blur with equal deviations in
// any order, an optional color matrix saturating the alpha channel, and
// finally SourceAlpha or SourceGraphic. The offset may be missing, and
// transparent floods blended in are ignored.
// Any other graph is rejected.
func Simplify(n Node) (svgir.Shadow, bool) {
	root, ok := n.(Blend)
	if !ok || root.Mode != svgdoc.BlendNormal {
		return svgir.Shadow{}, false
	}
	if in, ok := root.In1.(Input); !ok || in.Kind != svgdoc.SourceGraphic {
		return svgir.Shadow{}, false
	}
	current := meaningful(root.In2)
	if current == nil {
		return svgir.Shadow{}, false
	}

	var (
		offset   *svgmath.Point
		blur     *float64
		color    *svgir.Color
		burned   bool
		finished bool
	)
	for !finished {
		switch node := current.(type) {
		case Input:
			if node.Kind != svgdoc.SourceAlpha && node.Kind != svgdoc.SourceGraphic {
				return svgir.Shadow{}, false
			}
			finished = true
		case ColorMatrixNode:
			if node.Type != svgdoc.MatrixMatrix {
				return svgir.Shadow{}, false
			}
			multiplier, c, ok := node.Matrix.alphaMultiplication()
			if !ok {
				return svgir.Shadow{}, false
			}
			switch {
			case color == nil:
				c.A += multiplier
				color = &c
			case !burned && multiplier >= burnThreshold:
				burned = true
			default:
				return svgir.Shadow{}, false
			}
			current = node.In
		case Offset:
			if offset != nil {
				return svgir.Shadow{}, false
			}
			o := svgmath.Pt(node.Dx, node.Dy)
			offset = &o
			current = node.In
		case GaussianBlur:
			if burned || blur != nil || node.StdDevX != node.StdDevY {
				return svgir.Shadow{}, false
			}
			b := node.StdDevX * blurFactor
			blur = &b
			current = node.In
		default:
			return svgir.Shadow{}, false
		}
	}
	if blur == nil || color == nil {
		return svgir.Shadow{}, false
	}
	out := svgir.Shadow{Blur: *blur, Color: *color}
	if offset != nil {
		out.Offset = *offset
	}
	return out, true
}

// meaningful removes the transparent floods of the graph,
// returning nil if nothing is left.
func meaningful(n Node) Node {
	switch n := n.(type) {
	case Flood:
		if n.Opacity == 0 {
			return nil
		}
	case Blend:
		in1, in2 := meaningful(n.In1), meaningful(n.In2)
		switch {
		case in1 != nil && in2 != nil:
			return n
		case in1 != nil:
			return in1
		default:
			return in2
		}
	}
	return n
}

// alphaMultiplication checks that the output does not depend on the input
// colors, only possibly on the input alpha, and returns the alpha
// multiplier and the constant color.
func (m ColorMatrix) alphaMultiplication() (float64, svgir.Color, bool) {
	for row := 0; row < 4; row++ {
		for col := 0; col < 3; col++ {
			if !svgmath.AlmostZero(m[row][col]) {
				return 0, svgir.Color{}, false
			}
		}
	}
	for row := 0; row < 3; row++ {
		if !svgmath.AlmostZero(m[row][3]) {
			return 0, svgir.Color{}, false
		}
	}
	return m[3][3], svgir.Color{R: m[0][4], G: m[1][4], B: m[2][4], A: m[3][4]}, true
}
