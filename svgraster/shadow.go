package svgraster

import (
	"image"
	"image/color"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"

	"github.com/benoitkugler/svgbytecode/svgir"
	"github.com/benoitkugler/svgbytecode/svgmath"
)

// shadow is a drop shadow resolved in device space
type shadow struct {
	offset image.Point
	blur   int // radius in pixels
	color  svgir.Color
}

// SetShadow sets the shadow of the next fills and strokes.
// Its offset and blur are mapped to pixels by the current CTM.
func (rd *Renderer) SetShadow(s svgir.Shadow) {
	if s.Color.A <= 0 {
		rd.state.shadow = nil
		return
	}
	ctm := rd.state.ctm
	o := ctm.Apply(s.Offset).Sub(ctm.Apply(svgmath.Pt(0, 0)))
	rd.state.shadow = &shadow{
		offset: image.Pt(int(math.Round(o.X)), int(math.Round(o.Y))),
		blur:   int(s.BlurPixels(ctm)),
		color:  s.Color,
	}
}

// drawShadow rasterizes the current path in a mask, blurs it,
// and composites it with the shadow color, under the next painting.
func (rd *Renderer) drawShadow(stroke bool, rule svgir.FillRule) {
	s := rd.state.shadow
	if s == nil {
		return
	}
	b := rd.img.Bounds()
	mask := image.NewAlpha(b)
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), mask, b)
	scanner.SetColor(color.Alpha{A: 0xff})
	if stroke {
		dasher := rasterx.NewDasher(b.Dx(), b.Dy(), scanner)
		dasher.SetWinding(true)
		rd.setStrokeOptions(dasher)
		rd.path.AddTo(dasher)
		dasher.Draw()
	} else {
		filler := rasterx.NewFiller(b.Dx(), b.Dy(), scanner)
		filler.SetWinding(rule == svgir.Winding)
		rd.path.AddTo(filler)
		filler.Draw()
	}

	blurred := blurAlpha(mask, s.blur)
	r := b.Add(s.offset).Intersect(rd.state.clip)
	src := image.NewUniform(rasterx.ApplyOpacity(opaque(s.color), s.color.A*rd.state.globalAlpha))
	draw.DrawMask(rd.img, r, src, image.Point{}, blurred, r.Min.Sub(s.offset), draw.Over)
}

// gaussianKernel returns normalized weights for offsets -radius..radius,
// with a standard deviation of half the radius.
func gaussianKernel(radius int) []float64 {
	sigma := float64(radius) / 2
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := range kernel {
		x := float64(i - radius)
		kernel[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// blurAlpha applies a separable gaussian blur to m, treating
// pixels outside its bounds as transparent.
func blurAlpha(m *image.Alpha, radius int) *image.Alpha {
	if radius <= 0 {
		return m
	}
	kernel := gaussianKernel(radius)
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()

	horizontal := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := m.Pix[y*m.Stride : y*m.Stride+w]
		for x := 0; x < w; x++ {
			var acc float64
			for k, weight := range kernel {
				if sx := x + k - radius; 0 <= sx && sx < w {
					acc += weight * float64(row[sx])
				}
			}
			horizontal[y*w+x] = acc
		}
	}

	out := image.NewAlpha(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for k, weight := range kernel {
				if sy := y + k - radius; 0 <= sy && sy < h {
					acc += weight * horizontal[sy*w+x]
				}
			}
			out.Pix[y*out.Stride+x] = uint8(math.Min(255, math.Round(acc)))
		}
	}
	return out
}
