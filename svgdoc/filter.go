package svgdoc

// InputKind selects the variant of a FilterInput.
type InputKind uint8

const (
	SourceGraphic InputKind = iota
	SourceAlpha
	BackgroundImage
	BackgroundAlpha
	FillPaint
	StrokePaint
	NamedResult // the result of a previous primitive
)

// FilterInput is the value of the in and in2 attributes.
type FilterInput struct {
	Kind InputKind
	Name string // for NamedResult
}

// BlendMode is the mode attribute of <feBlend>.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendDarken
	BlendLighten
)

// ColorMatrixType is the type attribute of <feColorMatrix>.
type ColorMatrixType uint8

const (
	MatrixMatrix ColorMatrixType = iota
	MatrixSaturate
	MatrixHueRotate
	MatrixLuminanceToAlpha
)

// FilterPrimitiveCore holds the attributes shared by all filter primitives.
type FilterPrimitiveCore struct {
	Core
	Result              string
	X, Y, Width, Height *Length
}

// FilterPrimitive is one child of a <filter> element.
type FilterPrimitive interface {
	PrimitiveCore() FilterPrimitiveCore
}

type FeBlend struct {
	FilterPrimitiveCore
	In, In2 *FilterInput
	Mode    *BlendMode
}

type FeColorMatrix struct {
	FilterPrimitiveCore
	In     *FilterInput
	Type   *ColorMatrixType
	Values []float64 // nil if not set
}

type FeFlood struct {
	FilterPrimitiveCore
	FloodColor   *Color
	FloodOpacity *float64
}

type FeGaussianBlur struct {
	FilterPrimitiveCore
	In           *FilterInput
	StdDeviation []float64 // one or two numbers
}

type FeOffset struct {
	FilterPrimitiveCore
	In     *FilterInput
	Dx, Dy *float64
}

func (f FilterPrimitiveCore) PrimitiveCore() FilterPrimitiveCore { return f }
