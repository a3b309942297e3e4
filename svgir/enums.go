package svgir

import "fmt"

type FillRule uint8

const (
	Winding FillRule = iota
	EvenOdd
)

func (r FillRule) String() string {
	switch r {
	case Winding:
		return "winding"
	case EvenOdd:
		return "evenOdd"
	default:
		return fmt.Sprintf("<fill rule %d>", r)
	}
}

type LineJoin uint8

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

func (j LineJoin) String() string {
	switch j {
	case JoinMiter:
		return "miter"
	case JoinRound:
		return "round"
	case JoinBevel:
		return "bevel"
	default:
		return fmt.Sprintf("<line join %d>", j)
	}
}

type LineCap uint8

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

func (c LineCap) String() string {
	switch c {
	case CapButt:
		return "butt"
	case CapRound:
		return "round"
	case CapSquare:
		return "square"
	default:
		return fmt.Sprintf("<line cap %d>", c)
	}
}

// DrawingMode is the painting operation of DrawPath.
type DrawingMode uint8

const (
	ModeFill DrawingMode = iota
	ModeEOFill
	ModeStroke
	ModeFillStroke
	ModeEOFillStroke
)

// BlendMode follows the usual compositing operators.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendSoftLight
	BlendHardLight
	BlendDifference
	BlendExclusion
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
	BlendClear
	BlendCopy
	BlendSourceIn
	BlendSourceOut
	BlendSourceAtop
	BlendDestinationOver
	BlendDestinationIn
	BlendDestinationOut
	BlendDestinationAtop
	BlendXOR
	BlendPlusDarker
	BlendPlusLighter
)

type ColorRenderingIntent uint8

const (
	IntentDefault ColorRenderingIntent = iota
	IntentAbsoluteColorimetric
	IntentRelativeColorimetric
	IntentPerceptual
	IntentSaturation
)

// GradientDrawingOptions tells if the gradient extends
// beyond its start and end.
type GradientDrawingOptions uint8

const (
	DrawsBeforeStart GradientDrawingOptions = 1 << iota
	DrawsAfterEnd
)

// Units is the coordinate system of gradient points.
type Units uint8

const (
	UserSpaceOnUse Units = iota
	ObjectBoundingBox
)
