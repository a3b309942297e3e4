// Package svgdraw replays drawing routines on a Painter.
//
// A routine, built by lowering an SVG document or decoded from
// bytecode, only refers to paint state by name and keeps a graphic
// state of its own (fill and stroke paints, fill rule, dash).
// Replay resolves that state so that a Painter, such as a rasterizer,
// only has to implement the actual draw operations.
package svgdraw

import (
	"github.com/benoitkugler/svgbytecode/svgir"
	"github.com/benoitkugler/svgbytecode/svgmath"
)

// PathBuilder accumulates the current path.
// Points are in user space: the painter applies its CTM.
type PathBuilder interface {
	MoveTo(p svgmath.Point)
	LineTo(p svgmath.Point)
	QuadTo(c, to svgmath.Point)
	CubeTo(c1, c2, to svgmath.Point)
	ClosePath()
}

// Gradient is a gradient resolved from the routine tables.
// Exactly one of Linear and Radial is set.
type Gradient struct {
	Stops  []svgir.GradientStop
	Linear *svgir.LinearGradientOptions
	Radial *svgir.RadialGradientOptions
}

// Paint is the color or the gradient used to fill or stroke a path.
type Paint struct {
	// Color has the paint opacity applied.
	// It is only used when Gradient is nil.
	Color    svgir.Color
	Gradient *Gradient
	// Alpha is the opacity of the gradient.
	Alpha float64
}

// Painter knows how to do the actual draw operations.
//
// SaveGState and RestoreGState cover every setting of the painter
// (CTM, clip, line style, global alpha, shadow, blend mode) but not the
// current path, which is kept on restore.
type Painter interface {
	PathBuilder

	SaveGState()
	RestoreGState()
	// ConcatCTM applies t before the current CTM.
	ConcatCTM(t svgmath.Transform)

	SetLineWidth(w float64)
	SetLineJoin(j svgir.LineJoin)
	SetLineCap(c svgir.LineCap)
	SetMiterLimit(limit float64)
	// SetDash sets the dash pattern; lengths is nil for solid lines.
	SetDash(phase float64, lengths []float64)
	SetFlatness(f float64)
	SetRenderingIntent(i svgir.ColorRenderingIntent)
	SetGlobalAlpha(a float64)
	SetBlendMode(m svgir.BlendMode)
	// SetShadow sets the shadow of the next paintings. Its offset and
	// blur are in user space.
	SetShadow(s svgir.Shadow)

	// FillPath and StrokePath keep the current path.
	FillPath(p Paint, rule svgir.FillRule)
	StrokePath(p Paint)
	// ClearPath starts a new, empty path.
	ClearPath()
	ReplacePathWithStrokePath()
	// Clip intersects the clip with the current path, and clears the path.
	Clip(rule svgir.FillRule)
	ClipToRect(r svgmath.Rect)
	// DrawGradient paints g over the whole clip area.
	DrawGradient(g Gradient)

	BeginTransparencyLayer()
	EndTransparencyLayer()
}
