// Package svgbc implements the binary bytecode format of drawing routines.
//
// A routine is encoded as
//
//	gradients:   count u32, then for each: id u32, stops [] (offset f32, color)
//	subroutines: count u32, then for each: id u32, size u32, bytes (a routine)
//	steps:       opcode u8, operands, until the end of the stream
//
// All numbers are little endian; floats are narrowed to float32.
// Operand layouts use the following encodings:
//
//	[]T        = count u32, T...
//	bool       = u8, 0 or 1
//	point      = x f32, y f32
//	rect       = x f32, y f32, width f32, height f32
//	transform  = a f32, b f32, c f32, d f32, tx f32, ty f32
//	color      = r u8, g u8, b u8, alpha f32
//	optional T = bool, T if true
//	enums      = u8 (fill rule, line join and cap, drawing mode, blend mode,
//	             rendering intent, gradient options, units)
//
// Path routines use their own, smaller, opcode table and have no tables.
package svgbc

import "fmt"

// Opcode selects an instruction of a drawing routine.
// Values are part of the format and must never change.
type Opcode uint8

const (
	OpSaveGState                Opcode = 0
	OpRestoreGState             Opcode = 1
	OpMoveTo                    Opcode = 2  // point
	OpCurveTo                   Opcode = 3  // c1 point, c2 point, to point
	OpQuadCurveTo               Opcode = 4  // c point, to point
	OpLineTo                    Opcode = 5  // point
	OpAppendRectangle           Opcode = 6  // rect
	OpAppendRoundedRect         Opcode = 7  // rect, rx f32, ry f32
	OpAddArc                    Opcode = 8  // center point, radius f32, start f32, end f32, clockwise bool
	OpClosePath                 Opcode = 9  //
	OpReplacePathWithStrokePath Opcode = 10 //
	OpLines                     Opcode = 11 // []point
	OpClip                      Opcode = 12 //
	OpClipWithRule              Opcode = 13 // fill rule
	OpClipToRect                Opcode = 14 // rect
	OpDash                      Opcode = 15 // phase f32, []f32
	OpDashPhase                 Opcode = 16 // f32
	OpDashLengths               Opcode = 17 // []f32
	OpFill                      Opcode = 18 //
	OpFillWithRule              Opcode = 19 // fill rule
	OpFillEllipse               Opcode = 20 // rect
	OpStroke                    Opcode = 21 //
	OpDrawPath                  Opcode = 22 // drawing mode
	OpAddEllipse                Opcode = 23 // rect
	OpFillAndStroke             Opcode = 24 //
	OpSetGlobalAlphaToFillAlpha Opcode = 25 //
	OpConcatCTM                 Opcode = 26 // transform
	OpFlatness                  Opcode = 27 // f32
	OpLineWidth                 Opcode = 28 // f32
	OpLineJoinStyle             Opcode = 29 // line join
	OpLineCapStyle              Opcode = 30 // line cap
	OpColorRenderingIntent      Opcode = 31 // intent
	OpGlobalAlpha               Opcode = 32 // f32
	OpStrokeColor               Opcode = 33 // color
	OpStrokeAlpha               Opcode = 34 // f32
	OpStrokeNone                Opcode = 35 //
	OpFillColor                 Opcode = 36 // color
	OpFillAlpha                 Opcode = 37 // f32
	OpFillNone                  Opcode = 38 //
	OpFillRule                  Opcode = 39 // fill rule
	OpLinearGradient            Opcode = 40 // id u32, linear options
	OpRadialGradient            Opcode = 41 // id u32, radial options
	OpFillLinearGradient        Opcode = 42 // id u32, linear options
	OpFillRadialGradient        Opcode = 43 // id u32, radial options
	OpStrokeLinearGradient      Opcode = 44 // id u32, linear options
	OpStrokeRadialGradient      Opcode = 45 // id u32, radial options
	OpSubrouteWithID            Opcode = 46 // id u32
	OpShadow                    Opcode = 47 // offset point, blur f32, color
	OpBlendMode                 Opcode = 48 // blend mode
	OpBeginTransparencyLayer    Opcode = 49 //
	OpEndTransparencyLayer      Opcode = 50 //
	OpMiterLimit                Opcode = 51 // f32

	opcodeCount = iota
)

// Gradient placements:
//
//	linear options = start point, end point, options u8, units u8, optional transform
//	radial options = start center point, start radius f32, end center point,
//	                 end radius f32, options u8, optional transform

var opcodeNames = [...]string{
	OpSaveGState:                "saveGState",
	OpRestoreGState:             "restoreGState",
	OpMoveTo:                    "moveTo",
	OpCurveTo:                   "curveTo",
	OpQuadCurveTo:               "quadCurveTo",
	OpLineTo:                    "lineTo",
	OpAppendRectangle:           "appendRectangle",
	OpAppendRoundedRect:         "appendRoundedRect",
	OpAddArc:                    "addArc",
	OpClosePath:                 "closePath",
	OpReplacePathWithStrokePath: "replacePathWithStrokePath",
	OpLines:                     "lines",
	OpClip:                      "clip",
	OpClipWithRule:              "clipWithRule",
	OpClipToRect:                "clipToRect",
	OpDash:                      "dash",
	OpDashPhase:                 "dashPhase",
	OpDashLengths:               "dashLengths",
	OpFill:                      "fill",
	OpFillWithRule:              "fillWithRule",
	OpFillEllipse:               "fillEllipse",
	OpStroke:                    "stroke",
	OpDrawPath:                  "drawPath",
	OpAddEllipse:                "addEllipse",
	OpFillAndStroke:             "fillAndStroke",
	OpSetGlobalAlphaToFillAlpha: "setGlobalAlphaToFillAlpha",
	OpConcatCTM:                 "concatCTM",
	OpFlatness:                  "flatness",
	OpLineWidth:                 "lineWidth",
	OpLineJoinStyle:             "lineJoinStyle",
	OpLineCapStyle:              "lineCapStyle",
	OpColorRenderingIntent:      "colorRenderingIntent",
	OpGlobalAlpha:               "globalAlpha",
	OpStrokeColor:               "strokeColor",
	OpStrokeAlpha:               "strokeAlpha",
	OpStrokeNone:                "strokeNone",
	OpFillColor:                 "fillColor",
	OpFillAlpha:                 "fillAlpha",
	OpFillNone:                  "fillNone",
	OpFillRule:                  "fillRule",
	OpLinearGradient:            "linearGradient",
	OpRadialGradient:            "radialGradient",
	OpFillLinearGradient:        "fillLinearGradient",
	OpFillRadialGradient:        "fillRadialGradient",
	OpStrokeLinearGradient:      "strokeLinearGradient",
	OpStrokeRadialGradient:      "strokeRadialGradient",
	OpSubrouteWithID:            "subrouteWithId",
	OpShadow:                    "shadow",
	OpBlendMode:                 "blendMode",
	OpBeginTransparencyLayer:    "beginTransparencyLayer",
	OpEndTransparencyLayer:      "endTransparencyLayer",
	OpMiterLimit:                "miterLimit",
}

func (o Opcode) String() string {
	if int(o) < len(opcodeNames) {
		return opcodeNames[o]
	}
	return fmt.Sprintf("<opcode %d>", uint8(o))
}

// PathOpcode selects an instruction of a path routine.
type PathOpcode uint8

const (
	PathMoveTo            PathOpcode = 0
	PathCurveTo           PathOpcode = 1
	PathQuadCurveTo       PathOpcode = 2
	PathLineTo            PathOpcode = 3
	PathAppendRectangle   PathOpcode = 4
	PathAppendRoundedRect PathOpcode = 5
	PathAddArc            PathOpcode = 6
	PathClosePath         PathOpcode = 7
	PathLines             PathOpcode = 8
	PathAddEllipse        PathOpcode = 9

	pathOpcodeCount = iota
)

var pathOpcodeNames = [...]string{
	PathMoveTo:            "moveTo",
	PathCurveTo:           "curveTo",
	PathQuadCurveTo:       "quadCurveTo",
	PathLineTo:            "lineTo",
	PathAppendRectangle:   "appendRectangle",
	PathAppendRoundedRect: "appendRoundedRect",
	PathAddArc:            "addArc",
	PathClosePath:         "closePath",
	PathLines:             "lines",
	PathAddEllipse:        "addEllipse",
}

func (o PathOpcode) String() string {
	if int(o) < len(pathOpcodeNames) {
		return pathOpcodeNames[o]
	}
	return fmt.Sprintf("<path opcode %d>", uint8(o))
}
