package svgmath

import "math"

// exact bounding boxes of curves, needed when painting
// gradients in objectBoundingBox units

type curve interface {
	// values of t zeroing the derivative
	criticalPoints() (tX, tY []float64)
	// point at time t
	evaluate(t float64) Point
}

type quadBezier [3]Point

// x = At^2 + Bt + C
// where
// A = p0 + p2 - 2p1
// B = 2(p1 - p0)
// C = p0
func bezierQuad(p0, p1, p2, t float64) float64 {
	return (p0+p2-2*p1)*t*t + 2*(p1-p0)*t + p0
}

// derivative as at + b
func quadraticDerivative(p0, p1, p2 float64) (a, b float64) {
	return 2 * (p2 - p1 - (p1 - p0)), 2 * (p1 - p0)
}

func linearRoots(a, b float64) []float64 {
	if a == 0 {
		return nil
	}
	return []float64{-b / a}
}

func (cu quadBezier) criticalPoints() (tX, tY []float64) {
	aX, bX := quadraticDerivative(cu[0].X, cu[1].X, cu[2].X)
	aY, bY := quadraticDerivative(cu[0].Y, cu[1].Y, cu[2].Y)
	return linearRoots(aX, bX), linearRoots(aY, bY)
}

func (cu quadBezier) evaluate(t float64) Point {
	return Pt(bezierQuad(cu[0].X, cu[1].X, cu[2].X, t), bezierQuad(cu[0].Y, cu[1].Y, cu[2].Y, t))
}

type cubicBezier [4]Point

// x = At^3 + Bt^2 + Ct + D
// where A,B,C,D:
// A = p3 -3 * p2 + 3 * p1 - p0
// B = 3 * p2 - 6 * p1 +3 * p0
// C = 3 * p1 - 3 * p0
// D = p0
func bezierSpline(p0, p1, p2, p3, t float64) float64 {
	return (p3-3*p2+3*p1-p0)*t*t*t +
		(3*p2-6*p1+3*p0)*t*t +
		(3*p1-3*p0)*t +
		p0
}

// X' = (3*p3-9*p2+9*p1-3*p0)t^2 + (6*p2-12*p1+6*p0)t + (3*p1-3*p0)
// taken as at^2 + bt + c
func cubicDerivative(p0, p1, p2, p3 float64) (a, b, c float64) {
	return 3*p3 - 9*p2 + 9*p1 - 3*p0, 6*p2 - 12*p1 + 6*p0, 3*p1 - 3*p0
}

func quadraticRoots(a, b, c float64) []float64 {
	if a == 0 {
		return linearRoots(b, c)
	}
	d := b*b - 4*a*c
	if d < 0 {
		return nil
	}
	if d == 0 {
		return []float64{-b / (2 * a)}
	}
	sq := math.Sqrt(d)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}

func (cu cubicBezier) criticalPoints() (tX, tY []float64) {
	aX, bX, cX := cubicDerivative(cu[0].X, cu[1].X, cu[2].X, cu[3].X)
	aY, bY, cY := cubicDerivative(cu[0].Y, cu[1].Y, cu[2].Y, cu[3].Y)
	return quadraticRoots(aX, bX, cX), quadraticRoots(aY, bY, cY)
}

func (cu cubicBezier) evaluate(t float64) Point {
	return Pt(bezierSpline(cu[0].X, cu[1].X, cu[2].X, cu[3].X, t),
		bezierSpline(cu[0].Y, cu[1].Y, cu[2].Y, cu[3].Y, t))
}

func addCurve(b *BBox, cu curve) {
	tX, tY := cu.criticalPoints()
	for _, t := range append(append(tX, 0, 1), tY...) {
		if !(0 <= t && t <= 1) {
			continue
		}
		b.Add(cu.evaluate(t))
	}
}

// AddQuad extends the box to contain the quadratic bezier
// curve from p0 to p2 with control point p1.
func (b *BBox) AddQuad(p0, p1, p2 Point) { addCurve(b, quadBezier{p0, p1, p2}) }

// AddCubic extends the box to contain the cubic bezier
// curve from p0 to p3 with control points p1 and p2.
func (b *BBox) AddCubic(p0, p1, p2, p3 Point) { addCurve(b, cubicBezier{p0, p1, p2, p3}) }

// AddArc extends the box to contain the circular arc of the given center and radius,
// going from startAngle to endAngle, in the decreasing angle direction if clockwise is true.
func (b *BBox) AddArc(center Point, radius, startAngle, endAngle float64, clockwise bool) {
	at := func(a float64) Point {
		sin, cos := math.Sincos(a)
		return Pt(center.X+radius*cos, center.Y+radius*sin)
	}
	b.Add(at(startAngle))
	b.Add(at(endAngle))
	from, to := startAngle, endAngle
	if clockwise {
		from, to = endAngle, startAngle
	}
	// sweep in the increasing direction, from `from` to `to`
	for to < from {
		to += 2 * math.Pi
	}
	k := math.Ceil(from / (math.Pi / 2))
	for a := k * math.Pi / 2; a <= to; a += math.Pi / 2 {
		b.Add(at(a))
	}
}
