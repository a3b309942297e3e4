// Package svgfilter builds the graph of the primitives of an SVG <filter>
// and reduces it to a drop shadow, which is the only filter effect
// supported by the drawing IR.
package svgfilter

import (
	"errors"
	"fmt"

	"github.com/benoitkugler/svgbytecode/svgdoc"
)

var (
	// ErrInputNotDefined is returned when a primitive refers to a result
	// which is not produced by a preceding primitive.
	ErrInputNotDefined = errors.New("filter input not defined")
	ErrInvalidValues   = errors.New("invalid number of values in feColorMatrix")
)

// Node is a node of a filter graph: either a predefined input
// or a primitive applied to its input nodes.
type Node interface {
	isNode()
}

// ColorMatrix is a 4x5 matrix, by rows R, G, B, A.
type ColorMatrix [4][5]float64

var identityMatrix = ColorMatrix{
	{1, 0, 0, 0, 0},
	{0, 1, 0, 0, 0},
	{0, 0, 1, 0, 0},
	{0, 0, 0, 1, 0},
}

type (
	// Input is one of the predefined inputs (SourceGraphic, SourceAlpha, ...)
	Input struct{ Kind svgdoc.InputKind }

	Flood struct {
		Color   svgdoc.Color
		Opacity float64
	}

	// ColorMatrixNode is a <feColorMatrix>. Matrix is set for the
	// matrix type, Value for saturate and hueRotate.
	ColorMatrixNode struct {
		In     Node
		Type   svgdoc.ColorMatrixType
		Matrix ColorMatrix
		Value  float64
	}

	Offset struct {
		In     Node
		Dx, Dy float64
	}

	GaussianBlur struct {
		In               Node
		StdDevX, StdDevY float64
	}

	Blend struct {
		In1, In2 Node
		Mode     svgdoc.BlendMode
	}
)

func (Input) isNode()           {}
func (Flood) isNode()           {}
func (ColorMatrixNode) isNode() {}
func (Offset) isNode()          {}
func (GaussianBlur) isNode()    {}
func (Blend) isNode()           {}

// builder resolves the inputs of the primitives, in document order.
type builder struct {
	prev    Node
	results map[string]Node // closest preceding primitive with a given result
}

func (b *builder) input(in *svgdoc.FilterInput) (Node, error) {
	if in == nil {
		return b.prev, nil
	}
	if in.Kind != svgdoc.NamedResult {
		return Input{Kind: in.Kind}, nil
	}
	n, ok := b.results[in.Name]
	if !ok {
		return nil, fmt.Errorf("in=%q: %w", in.Name, ErrInputNotDefined)
	}
	return n, nil
}

// Build returns the node computing the output of the filter, which is
// the one of its last primitive. A primitive without input uses the
// output of the previous one, or SourceGraphic for the first one.
func Build(f *svgdoc.Filter) (Node, error) {
	b := builder{prev: Input{Kind: svgdoc.SourceGraphic}, results: make(map[string]Node)}
	for i, prim := range f.Primitives {
		n, err := b.primitive(prim)
		if err != nil {
			return nil, fmt.Errorf("filter %q, primitive %d: %w", f.ID, i, err)
		}
		b.prev = n
		if res := prim.PrimitiveCore().Result; res != "" {
			b.results[res] = n
		}
	}
	return b.prev, nil
}

func (b *builder) primitive(prim svgdoc.FilterPrimitive) (Node, error) {
	switch prim := prim.(type) {
	case *svgdoc.FeBlend:
		in1, err := b.input(prim.In)
		if err != nil {
			return nil, err
		}
		in2, err := b.input(prim.In2)
		if err != nil {
			return nil, err
		}
		out := Blend{In1: in1, In2: in2, Mode: svgdoc.BlendNormal}
		if prim.Mode != nil {
			out.Mode = *prim.Mode
		}
		return out, nil
	case *svgdoc.FeColorMatrix:
		in, err := b.input(prim.In)
		if err != nil {
			return nil, err
		}
		out := ColorMatrixNode{In: in, Type: svgdoc.MatrixMatrix, Matrix: identityMatrix, Value: 1}
		if prim.Type != nil {
			out.Type = *prim.Type
		}
		switch out.Type {
		case svgdoc.MatrixMatrix:
			if prim.Values != nil {
				if len(prim.Values) != 20 {
					return nil, fmt.Errorf("%d values for type matrix: %w", len(prim.Values), ErrInvalidValues)
				}
				for i, v := range prim.Values {
					out.Matrix[i/5][i%5] = v
				}
			}
		case svgdoc.MatrixSaturate, svgdoc.MatrixHueRotate:
			if prim.Values != nil {
				if len(prim.Values) != 1 {
					return nil, fmt.Errorf("%d values: %w", len(prim.Values), ErrInvalidValues)
				}
				out.Value = prim.Values[0]
			}
		}
		return out, nil
	case *svgdoc.FeFlood:
		out := Flood{Opacity: 1}
		if prim.FloodColor != nil {
			out.Color = *prim.FloodColor
		}
		if prim.FloodOpacity != nil {
			out.Opacity = *prim.FloodOpacity
		}
		return out, nil
	case *svgdoc.FeGaussianBlur:
		in, err := b.input(prim.In)
		if err != nil {
			return nil, err
		}
		out := GaussianBlur{In: in}
		if len(prim.StdDeviation) > 0 {
			out.StdDevX = prim.StdDeviation[0]
			out.StdDevY = out.StdDevX
		}
		if len(prim.StdDeviation) > 1 {
			out.StdDevY = prim.StdDeviation[1]
		}
		return out, nil
	case *svgdoc.FeOffset:
		in, err := b.input(prim.In)
		if err != nil {
			return nil, err
		}
		out := Offset{In: in}
		if prim.Dx != nil {
			out.Dx = *prim.Dx
		}
		if prim.Dy != nil {
			out.Dy = *prim.Dy
		}
		return out, nil
	default:
		panic(fmt.Sprintf("unexpected filter primitive %T", prim))
	}
}
