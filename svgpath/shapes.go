package svgpath

import (
	"errors"
	"fmt"
	"math"

	"github.com/benoitkugler/svgbytecode/svgdoc"
	"github.com/benoitkugler/svgbytecode/svgir"
	"github.com/benoitkugler/svgbytecode/svgmath"
)

// This file implements the transformation from
// high level shapes to their path equivalent

// ErrNegativeSize is returned for rectangles with negative width or height.
var ErrNegativeSize = errors.New("negative size")

// Construction is the path of a shape, with its bounding box.
type Construction struct {
	Segment svgir.PathSegment
	BBox    svgmath.Rect
}

// Build lowers the geometry of a shape, ignoring its transform.
// Percentages are resolved against viewport.
// It returns nil for degenerate shapes, which are not drawn.
func Build(shape svgdoc.Shape, viewport svgmath.Rect) (*Construction, error) {
	switch shape := shape.(type) {
	case *svgdoc.Rect:
		return buildRect(shape, viewport)
	case *svgdoc.Circle:
		return buildCircle(shape, viewport), nil
	case *svgdoc.Ellipse:
		return buildEllipse(shape, viewport), nil
	case *svgdoc.Polygon:
		return buildPolygon(shape), nil
	case *svgdoc.Path:
		if shape.D == nil {
			return nil, nil
		}
		seg, bbox, err := BuildPathData(shape.D)
		if err != nil {
			return nil, err
		}
		return &Construction{Segment: seg, BBox: bbox}, nil
	default:
		panic(fmt.Sprintf("svgpath: unexpected shape %T", shape))
	}
}

// Construct returns the path steps of a shape, with its transform
// applied within a saved graphic state.
func Construct(shape svgdoc.Shape, viewport svgmath.Rect) (svgir.DrawStep, *Construction, error) {
	c, err := Build(shape, viewport)
	if err != nil || c == nil {
		return nil, nil, err
	}
	if tr := shape.Transforms(); len(tr) != 0 {
		return svgir.SavingGState(svgir.ConcatCTM{Transform: svgmath.Reduce(tr)}, c.Segment), c, nil
	}
	return c.Segment, c, nil
}

func length(l *svgdoc.Length, extent float64) float64 {
	if l == nil {
		return 0
	}
	return l.Abs(extent)
}

// diagonal is the extent used for percentages of radii
func diagonal(viewport svgmath.Rect) float64 {
	return math.Sqrt((viewport.W*viewport.W + viewport.H*viewport.H) / 2)
}

func buildRect(r *svgdoc.Rect, viewport svgmath.Rect) (*Construction, error) {
	rect := svgmath.Rect{
		X: length(r.X, viewport.W),
		Y: length(r.Y, viewport.H),
		W: length(r.Width, viewport.W),
		H: length(r.Height, viewport.H),
	}
	if rect.W < 0 || rect.H < 0 {
		return nil, fmt.Errorf("rect %v: %w", rect, ErrNegativeSize)
	}
	if rect.W == 0 || rect.H == 0 {
		return nil, nil
	}
	out := &Construction{BBox: rect}
	if r.RX == nil && r.RY == nil {
		out.Segment = svgir.AppendRectangle{Rect: rect}
		return out, nil
	}
	// a single radius is used for both axis
	rx, ry := length(r.RX, viewport.W), length(r.RY, viewport.H)
	if r.RX == nil {
		rx = ry
	} else if r.RY == nil {
		ry = rx
	}
	rx, ry = math.Min(math.Abs(rx), rect.W/2), math.Min(math.Abs(ry), rect.H/2)
	out.Segment = svgir.AppendRoundedRect{Rect: rect, RX: rx, RY: ry}
	return out, nil
}

func buildCircle(c *svgdoc.Circle, viewport svgmath.Rect) *Construction {
	if c.R == nil {
		return nil
	}
	r := length(c.R, diagonal(viewport))
	if r <= 0 {
		return nil
	}
	cx, cy := length(c.CX, viewport.W), length(c.CY, viewport.H)
	rect := svgmath.Rect{X: cx - r, Y: cy - r, W: 2 * r, H: 2 * r}
	return &Construction{Segment: svgir.AddEllipse{In: rect}, BBox: rect}
}

func buildEllipse(e *svgdoc.Ellipse, viewport svgmath.Rect) *Construction {
	if e.CX == nil || e.CY == nil || e.RX == nil || e.RY == nil {
		return nil
	}
	rx, ry := length(e.RX, viewport.W), length(e.RY, viewport.H)
	if rx <= 0 || ry <= 0 {
		return nil
	}
	cx, cy := length(e.CX, viewport.W), length(e.CY, viewport.H)
	rect := svgmath.Rect{X: cx - rx, Y: cy - ry, W: 2 * rx, H: 2 * ry}
	return &Construction{Segment: svgir.AddEllipse{In: rect}, BBox: rect}
}

func buildPolygon(p *svgdoc.Polygon) *Construction {
	if len(p.Points) == 0 {
		return nil
	}
	points := append([]svgmath.Point(nil), p.Points...)
	seg := svgir.PathComposite{svgir.Lines{Points: points}}
	if !p.Open {
		seg = append(seg, svgir.ClosePath{})
	}
	return &Construction{Segment: seg, BBox: svgmath.RectFromPoints(points...)}
}
