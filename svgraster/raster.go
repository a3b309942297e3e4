// Package svgraster implements a raster backend to preview drawing
// routines, by wrapping rasterx.
//
// The renderer is meant for previews: clip paths are approximated by
// their bounding box, and blend modes and transparency layers are not
// rendered. Shadows are drawn under fills and strokes only.
package svgraster

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/benoitkugler/svgbytecode/svgdraw"
	"github.com/benoitkugler/svgbytecode/svgir"
	"github.com/benoitkugler/svgbytecode/svgmath"
)

// ErrEmptyImage is returned when rendering a routine without area.
var ErrEmptyImage = errors.New("empty bounding rect")

var _ svgdraw.Painter = (*Renderer)(nil) // assert interface conformance

type gstate struct {
	ctm         svgmath.Transform
	clip        image.Rectangle
	lineWidth   float64
	miterLimit  float64
	join        svgir.LineJoin
	cap         svgir.LineCap
	dashPhase   float64
	dashLengths []float64
	globalAlpha float64
	shadow      *shadow
}

// Renderer draws on an RGBA image.
type Renderer struct {
	img     *image.RGBA
	scanner *rasterx.ScannerGV
	dasher  *rasterx.Dasher // to avoid shared state
	filler  *rasterx.Filler // we use separated instance

	path       rasterx.Path
	bbox       svgmath.BBox // device space, with control points
	start      fixed.Point26_6
	closed     bool // the next segment must restart the subpath
	outlineOps bool // the path has been replaced by its stroke

	state gstate
	stack []gstate
}

// NewRenderer returns a renderer drawing into img, whose CTM maps
// user space to pixels with the y axis going up.
func NewRenderer(img *image.RGBA) *Renderer {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	return &Renderer{
		img:     img,
		scanner: scanner,
		dasher:  rasterx.NewDasher(w, h, scanner),
		filler:  rasterx.NewFiller(w, h, scanner),
		state: gstate{
			ctm:         svgmath.Transform{1, 0, 0, -1, 0, float64(h)},
			clip:        img.Bounds(),
			lineWidth:   1,
			miterLimit:  10,
			globalAlpha: 1,
		},
	}
}

// Render rasterizes r, scaling its bounding rect by scale.
func Render(r svgir.DrawRoutine, scale float64) (*image.RGBA, error) {
	w := int(math.Ceil(r.BoundingRect.W * scale))
	h := int(math.Ceil(r.BoundingRect.H * scale))
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	rd := NewRenderer(img)
	rd.ConcatCTM(svgmath.Scale(scale, scale))
	if err := svgdraw.Replay(r, rd); err != nil {
		return nil, err
	}
	return img, nil
}

func (rd *Renderer) toFixed(p svgmath.Point) fixed.Point26_6 {
	p = rd.state.ctm.Apply(p)
	rd.bbox.Add(p)
	return fixed.Point26_6{X: fixed.Int26_6(p.X * 64), Y: fixed.Int26_6(p.Y * 64)}
}

// restart opens a new subpath at the last closing point if needed
func (rd *Renderer) restart() {
	if rd.closed {
		rd.path.Start(rd.start)
		rd.closed = false
	}
}

func (rd *Renderer) MoveTo(p svgmath.Point) {
	rd.start = rd.toFixed(p)
	rd.path.Start(rd.start)
	rd.closed = false
}

func (rd *Renderer) LineTo(p svgmath.Point) {
	rd.restart()
	rd.path.Line(rd.toFixed(p))
}

func (rd *Renderer) QuadTo(c, to svgmath.Point) {
	rd.restart()
	rd.path.QuadBezier(rd.toFixed(c), rd.toFixed(to))
}

func (rd *Renderer) CubeTo(c1, c2, to svgmath.Point) {
	rd.restart()
	rd.path.CubeBezier(rd.toFixed(c1), rd.toFixed(c2), rd.toFixed(to))
}

func (rd *Renderer) ClosePath() {
	rd.path.Stop(true)
	rd.closed = true
}

func (rd *Renderer) ClearPath() {
	rd.path.Clear()
	rd.bbox = svgmath.BBox{}
	rd.closed, rd.outlineOps = false, false
}

func (rd *Renderer) SaveGState() {
	saved := rd.state
	saved.dashLengths = append([]float64(nil), rd.state.dashLengths...)
	rd.stack = append(rd.stack, saved)
}

func (rd *Renderer) RestoreGState() {
	if n := len(rd.stack); n != 0 {
		rd.state, rd.stack = rd.stack[n-1], rd.stack[:n-1]
	}
}

func (rd *Renderer) ConcatCTM(t svgmath.Transform) { rd.state.ctm = t.Concat(rd.state.ctm) }

func (rd *Renderer) SetLineWidth(w float64)       { rd.state.lineWidth = w }
func (rd *Renderer) SetLineJoin(j svgir.LineJoin) { rd.state.join = j }
func (rd *Renderer) SetLineCap(c svgir.LineCap)   { rd.state.cap = c }
func (rd *Renderer) SetMiterLimit(limit float64)  { rd.state.miterLimit = limit }
func (rd *Renderer) SetGlobalAlpha(a float64)     { rd.state.globalAlpha = a }
func (rd *Renderer) SetFlatness(float64)          {}
func (rd *Renderer) SetBlendMode(svgir.BlendMode) {}
func (rd *Renderer) BeginTransparencyLayer()      {}
func (rd *Renderer) EndTransparencyLayer()        {}
func (rd *Renderer) ReplacePathWithStrokePath()   { rd.outlineOps = true }

func (rd *Renderer) SetDash(phase float64, lengths []float64) {
	rd.state.dashPhase = phase
	rd.state.dashLengths = append([]float64(nil), lengths...)
}

func (rd *Renderer) SetRenderingIntent(svgir.ColorRenderingIntent) {}

// lineScale is the factor from user space to pixels for line widths
func (rd *Renderer) lineScale() float64 { return rd.state.ctm.ScaleX() }

func toRasterxGradient(g svgdraw.Gradient, ctm svgmath.Transform) rasterx.Gradient {
	var (
		points   [5]float64
		isRadial bool
		m        = ctm
	)
	switch {
	case g.Linear != nil:
		o := g.Linear
		points[0], points[1], points[2], points[3] = o.Start.X, o.Start.Y, o.End.X, o.End.Y
		if o.Transform != nil {
			m = o.Transform.Concat(ctm)
		}
	case g.Radial != nil:
		o := g.Radial
		// in rasterx the focal radius is ignored
		points[0], points[1] = o.EndCenter.X, o.EndCenter.Y
		points[2], points[3] = o.StartCenter.X, o.StartCenter.Y
		points[4] = o.EndRadius
		isRadial = true
		if o.Transform != nil {
			m = o.Transform.Concat(ctm)
		}
	}
	stops := make([]rasterx.GradStop, len(g.Stops))
	for i, s := range g.Stops {
		stops[i] = rasterx.GradStop{
			StopColor: opaque(s.Color),
			Offset:    s.Offset,
			Opacity:   s.Color.A,
		}
	}
	out := rasterx.Gradient{
		Points:   points,
		Stops:    stops,
		Matrix:   rasterx.Matrix2D{A: m[0], B: m[1], C: m[2], D: m[3], E: m[4], F: m[5]},
		Spread:   rasterx.PadSpread,
		Units:    rasterx.UserSpaceOnUse,
		IsRadial: isRadial,
	}
	// points are already resolved: use unit bounds
	out.Bounds.W, out.Bounds.H = 1, 1
	return out
}

func channel(v float64) uint8 { return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255)) }

func opaque(c svgir.Color) color.NRGBA {
	return color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: 0xff}
}

// setColor resolves the paint for the scanner shared by the
// filler and the dasher
func (rd *Renderer) setColor(p svgdraw.Paint) {
	if p.Gradient != nil {
		g := toRasterxGradient(*p.Gradient, rd.state.ctm)
		rd.scanner.SetColor(g.GetColorFunction(p.Alpha * rd.state.globalAlpha))
		return
	}
	rd.scanner.SetColor(rasterx.ApplyOpacity(opaque(p.Color), p.Color.A*rd.state.globalAlpha))
}

// clipped returns true if nothing can be drawn
func (rd *Renderer) clipped() bool {
	if rd.state.clip.Empty() {
		return true
	}
	rd.scanner.SetClip(rd.state.clip)
	return false
}

var (
	joinToJoin = [...]rasterx.JoinMode{
		svgir.JoinMiter: rasterx.Miter,
		svgir.JoinRound: rasterx.Round,
		svgir.JoinBevel: rasterx.Bevel,
	}

	capToFunc = [...]rasterx.CapFunc{
		svgir.CapButt:   rasterx.ButtCap,
		svgir.CapRound:  rasterx.RoundCap,
		svgir.CapSquare: rasterx.SquareCap,
	}
)

func (rd *Renderer) setStrokeOptions(dasher *rasterx.Dasher) {
	s := rd.state
	scale := rd.lineScale()
	var dashes []float64
	for _, d := range s.dashLengths {
		dashes = append(dashes, d*scale)
	}
	capF, join := rasterx.ButtCap, rasterx.Miter
	if int(s.cap) < len(capToFunc) {
		capF = capToFunc[s.cap]
	}
	if int(s.join) < len(joinToJoin) {
		join = joinToJoin[s.join]
	}
	dasher.SetStroke(
		fixed.Int26_6(s.lineWidth*scale*64), fixed.Int26_6(s.miterLimit*64),
		capF, capF, rasterx.FlatGap, join, dashes, s.dashPhase*scale,
	)
}

func (rd *Renderer) stroke(p svgdraw.Paint) {
	rd.drawShadow(true, svgir.Winding)
	rd.dasher.Clear()
	rd.dasher.SetWinding(true)
	rd.setStrokeOptions(rd.dasher)
	rd.path.AddTo(rd.dasher)
	rd.setColor(p)
	rd.dasher.Draw()
}

func (rd *Renderer) FillPath(p svgdraw.Paint, rule svgir.FillRule) {
	if rd.clipped() {
		return
	}
	if rd.outlineOps {
		rd.stroke(p)
		return
	}
	rd.drawShadow(false, rule)
	rd.filler.Clear()
	rd.filler.SetWinding(rule == svgir.Winding)
	rd.path.AddTo(rd.filler)
	rd.setColor(p)
	rd.filler.Draw()
}

func (rd *Renderer) StrokePath(p svgdraw.Paint) {
	if rd.clipped() {
		return
	}
	rd.stroke(p)
}

func (rd *Renderer) Clip(svgir.FillRule) {
	if !rd.bbox.IsEmpty() {
		r := rd.bbox.Rect()
		if rd.outlineOps {
			pad := rd.state.lineWidth * rd.lineScale() / 2
			r = svgmath.Rect{X: r.X - pad, Y: r.Y - pad, W: r.W + 2*pad, H: r.H + 2*pad}
		}
		rd.clipTo(r)
	} else {
		rd.state.clip = image.Rectangle{}
	}
	rd.ClearPath()
}

func (rd *Renderer) clipTo(r svgmath.Rect) {
	pixels := image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.MaxX())), int(math.Ceil(r.MaxY())),
	)
	rd.state.clip = rd.state.clip.Intersect(pixels)
}

func (rd *Renderer) ClipToRect(r svgmath.Rect) {
	var b svgmath.BBox
	for _, p := range []svgmath.Point{
		svgmath.Pt(r.X, r.Y), svgmath.Pt(r.MaxX(), r.Y),
		svgmath.Pt(r.MaxX(), r.MaxY()), svgmath.Pt(r.X, r.MaxY()),
	} {
		b.Add(rd.state.ctm.Apply(p))
	}
	rd.clipTo(b.Rect())
}

// DrawGradient fills the clip rectangle.
func (rd *Renderer) DrawGradient(g svgdraw.Gradient) {
	if rd.clipped() {
		return
	}
	c := rd.state.clip
	rd.filler.Clear()
	rd.filler.SetWinding(true)
	rd.filler.Start(fixed.P(c.Min.X, c.Min.Y))
	rd.filler.Line(fixed.P(c.Max.X, c.Min.Y))
	rd.filler.Line(fixed.P(c.Max.X, c.Max.Y))
	rd.filler.Line(fixed.P(c.Min.X, c.Max.Y))
	rd.filler.Stop(true)
	rd.setColor(svgdraw.Paint{Gradient: &g, Alpha: 1})
	rd.filler.Draw()
}
