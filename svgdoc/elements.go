package svgdoc

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/benoitkugler/svgbytecode/svgmath"
)

// attributes wraps the attributes of one element,
// with the presentation declarations of the style attribute
// flattened as regular attributes.
type attributes struct {
	element string
	attrs   []xml.Attr
}

type attr struct{ key, value string }

func (a attributes) list() []attr {
	out := make([]attr, 0, len(a.attrs))
	for _, at := range a.attrs {
		if at.Name.Space != "" && at.Name.Space != svgNamespace && at.Name.Space != "xlink" &&
			at.Name.Space != "http://www.w3.org/1999/xlink" {
			continue
		}
		if at.Name.Local == "style" {
			for _, decl := range strings.Split(at.Value, ";") {
				kv := strings.SplitN(decl, ":", 2)
				if len(kv) == 2 {
					out = append(out, attr{strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])})
				}
			}
			continue
		}
		out = append(out, attr{at.Name.Local, at.Value})
	}
	return out
}

func (a attributes) wrap(k, v string, err error) error {
	if err == nil {
		return nil
	}
	return &AttributeError{Element: a.element, Attribute: k, Value: v, Err: err}
}

// each calls fn for every attribute, wrapping the returned error
func (a attributes) each(fn func(k, v string) error) error {
	for _, at := range a.list() {
		if err := fn(at.key, at.value); err != nil {
			return a.wrap(at.key, at.value, err)
		}
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

func lengthPtr(v string) (*Length, error) {
	l, err := parseLength(v)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func numberPtr(v string) (*float64, error) {
	f, err := parseNumber(v)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func opacityPtr(v string) (*float64, error) {
	f, err := parseOpacity(v)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// readPresentation handles the presentation attributes, and returns
// false if k is not one of them
func readPresentation(p *Presentation, k, v string) (bool, error) {
	var err error
	switch k {
	case "clip-path":
		var id string
		if id, err = parseFuncIRI(v); err == nil {
			p.ClipPath = &id
		}
	case "clip-rule":
		var r FillRule
		if r, err = parseFillRule(v); err == nil {
			p.ClipRule = &r
		}
	case "mask":
		var id string
		if id, err = parseFuncIRI(v); err == nil {
			p.Mask = &id
		}
	case "filter":
		var id string
		if id, err = parseFuncIRI(v); err == nil {
			p.Filter = &id
		}
	case "fill":
		var pt Paint
		if pt, err = parsePaint(v); err == nil {
			p.Fill = &pt
		}
	case "fill-rule":
		var r FillRule
		if r, err = parseFillRule(v); err == nil {
			p.FillRule = &r
		}
	case "fill-opacity":
		p.FillOpacity, err = opacityPtr(v)
	case "stroke":
		var pt Paint
		if pt, err = parsePaint(v); err == nil {
			p.Stroke = &pt
		}
	case "stroke-width":
		p.StrokeWidth, err = lengthPtr(v)
	case "stroke-linecap":
		switch v {
		case "butt":
			p.StrokeLineCap = ptr(CapButt)
		case "round":
			p.StrokeLineCap = ptr(CapRound)
		case "square":
			p.StrokeLineCap = ptr(CapSquare)
		default:
			err = errParamMismatch
		}
	case "stroke-linejoin":
		switch v {
		case "miter":
			p.StrokeLineJoin = ptr(JoinMiter)
		case "round":
			p.StrokeLineJoin = ptr(JoinRound)
		case "bevel":
			p.StrokeLineJoin = ptr(JoinBevel)
		default:
			err = errParamMismatch
		}
	case "stroke-miterlimit":
		p.StrokeMiterLimit, err = numberPtr(v)
	case "stroke-dasharray":
		if v == "none" {
			p.StrokeDashArray = []Length{}
		} else {
			p.StrokeDashArray, err = parseLengthList(v)
		}
	case "stroke-dashoffset":
		p.StrokeDashOffset, err = lengthPtr(v)
	case "stroke-opacity":
		p.StrokeOpacity, err = opacityPtr(v)
	case "opacity":
		p.Opacity, err = opacityPtr(v)
	case "stop-color":
		var c Color
		if c, err = parseColor(v); err == nil {
			p.StopColor = &c
		}
	case "stop-opacity":
		p.StopOpacity, err = opacityPtr(v)
	case "flood-color":
		var c Color
		if c, err = parseColor(v); err == nil {
			p.FloodColor = &c
		}
	case "flood-opacity":
		p.FloodOpacity, err = opacityPtr(v)
	default:
		return false, nil
	}
	return true, err
}

// readCommon handles id, presentation and transform attributes. The returned
// boolean is true when k has been handled.
func readCommon(core *Core, p *Presentation, tr *[]svgmath.Transform, k, v string) (bool, error) {
	switch k {
	case "id":
		core.ID = v
		return true, nil
	case "transform":
		if tr == nil {
			return false, nil
		}
		var err error
		*tr, err = parseTransform(v)
		return true, err
	}
	return readPresentation(p, k, v)
}

func svgF(attrs attributes) (node, error) {
	var out Document
	err := attrs.each(func(k, v string) (err error) {
		if ok, err := readCommon(&out.Core, &out.Presentation, nil, k, v); ok {
			return err
		}
		switch k {
		case "width":
			out.Width, err = lengthPtr(v)
		case "height":
			out.Height, err = lengthPtr(v)
		case "viewBox":
			var points []float64
			points, err = parseNumberList(v)
			if err == nil && len(points) != 4 {
				err = errParamMismatch
			}
			if err == nil {
				out.ViewBox = &svgmath.Rect{X: points[0], Y: points[1], W: points[2], H: points[3]}
			}
		}
		return err
	})
	return &out, err
}

func gF(attrs attributes) (node, error) {
	var out Group
	err := attrs.each(func(k, v string) error {
		_, err := readCommon(&out.Core, &out.Presentation, &out.Transform, k, v)
		return err
	})
	return &out, err
}

func defsF(attrs attributes) (node, error) {
	var out Defs
	err := attrs.each(func(k, v string) error {
		_, err := readCommon(&out.Core, &out.Presentation, nil, k, v)
		return err
	})
	return &out, err
}

func useF(attrs attributes) (node, error) {
	var out Use
	err := attrs.each(func(k, v string) (err error) {
		if ok, err := readCommon(&out.Core, &out.Presentation, &out.Transform, k, v); ok {
			return err
		}
		switch k {
		case "href":
			out.Href = v
		case "x":
			out.X, err = lengthPtr(v)
		case "y":
			out.Y, err = lengthPtr(v)
		case "width":
			out.Width, err = lengthPtr(v)
		case "height":
			out.Height, err = lengthPtr(v)
		}
		return err
	})
	return &out, err
}

func rectF(attrs attributes) (node, error) {
	var out Rect
	err := attrs.each(func(k, v string) (err error) {
		if ok, err := readCommon(&out.Core, &out.Presentation, &out.Transform, k, v); ok {
			return err
		}
		switch k {
		case "x":
			out.X, err = lengthPtr(v)
		case "y":
			out.Y, err = lengthPtr(v)
		case "width":
			out.Width, err = lengthPtr(v)
		case "height":
			out.Height, err = lengthPtr(v)
		case "rx":
			out.RX, err = lengthPtr(v)
		case "ry":
			out.RY, err = lengthPtr(v)
		}
		return err
	})
	return &out, err
}

func circleF(attrs attributes) (node, error) {
	var out Circle
	err := attrs.each(func(k, v string) (err error) {
		if ok, err := readCommon(&out.Core, &out.Presentation, &out.Transform, k, v); ok {
			return err
		}
		switch k {
		case "cx":
			out.CX, err = lengthPtr(v)
		case "cy":
			out.CY, err = lengthPtr(v)
		case "r":
			out.R, err = lengthPtr(v)
		}
		return err
	})
	return &out, err
}

func ellipseF(attrs attributes) (node, error) {
	var out Ellipse
	err := attrs.each(func(k, v string) (err error) {
		if ok, err := readCommon(&out.Core, &out.Presentation, &out.Transform, k, v); ok {
			return err
		}
		switch k {
		case "cx":
			out.CX, err = lengthPtr(v)
		case "cy":
			out.CY, err = lengthPtr(v)
		case "rx":
			out.RX, err = lengthPtr(v)
		case "ry":
			out.RY, err = lengthPtr(v)
		}
		return err
	})
	return &out, err
}

func lineF(attrs attributes) (node, error) {
	out := Polygon{Open: true}
	var x1, y1, x2, y2 float64
	err := attrs.each(func(k, v string) (err error) {
		if ok, err := readCommon(&out.Core, &out.Presentation, &out.Transform, k, v); ok {
			return err
		}
		switch k {
		case "x1":
			x1, err = parseNumber(v)
		case "y1":
			y1, err = parseNumber(v)
		case "x2":
			x2, err = parseNumber(v)
		case "y2":
			y2, err = parseNumber(v)
		}
		return err
	})
	out.Points = []svgmath.Point{svgmath.Pt(x1, y1), svgmath.Pt(x2, y2)}
	return &out, err
}

func polylineF(attrs attributes) (node, error) {
	out, err := readPolygon(attrs)
	out.Open = true
	return out, err
}

func polygonF(attrs attributes) (node, error) { return readPolygon(attrs) }

func readPolygon(attrs attributes) (*Polygon, error) {
	var out Polygon
	err := attrs.each(func(k, v string) (err error) {
		if ok, err := readCommon(&out.Core, &out.Presentation, &out.Transform, k, v); ok {
			return err
		}
		if k == "points" {
			out.Points, err = parsePoints(v)
			if err == nil && out.Points == nil {
				out.Points = []svgmath.Point{}
			}
		}
		return err
	})
	return &out, err
}

func pathF(attrs attributes) (node, error) {
	var out Path
	err := attrs.each(func(k, v string) (err error) {
		if ok, err := readCommon(&out.Core, &out.Presentation, &out.Transform, k, v); ok {
			return err
		}
		if k == "d" {
			out.D, err = ParsePathData(v)
		}
		return err
	})
	return &out, err
}

func maskF(attrs attributes) (node, error) {
	var out Mask
	err := attrs.each(func(k, v string) error {
		_, err := readCommon(&out.Core, &out.Presentation, &out.Transform, k, v)
		return err
	})
	return &out, err
}

func clipPathF(attrs attributes) (node, error) {
	var out ClipPath
	err := attrs.each(func(k, v string) error {
		if ok, err := readCommon(&out.Core, &out.Presentation, &out.Transform, k, v); ok {
			return err
		}
		if k == "clipPathUnits" {
			u, err := parseUnits(v)
			out.ClipPathUnits = &u
			return err
		}
		return nil
	})
	return &out, err
}

func linearGradientF(attrs attributes) (node, error) {
	var out LinearGradient
	err := attrs.each(func(k, v string) (err error) {
		if ok, err := readCommon(&out.Core, &out.Presentation, nil, k, v); ok {
			return err
		}
		switch k {
		case "x1":
			out.X1, err = lengthPtr(v)
		case "y1":
			out.Y1, err = lengthPtr(v)
		case "x2":
			out.X2, err = lengthPtr(v)
		case "y2":
			out.Y2, err = lengthPtr(v)
		case "gradientUnits":
			var u Units
			u, err = parseUnits(v)
			out.Units = &u
		case "gradientTransform":
			out.GradientTransform, err = parseTransform(v)
		}
		return err
	})
	return &out, err
}

func radialGradientF(attrs attributes) (node, error) {
	var out RadialGradient
	err := attrs.each(func(k, v string) (err error) {
		if ok, err := readCommon(&out.Core, &out.Presentation, nil, k, v); ok {
			return err
		}
		switch k {
		case "cx":
			out.CX, err = lengthPtr(v)
		case "cy":
			out.CY, err = lengthPtr(v)
		case "r":
			out.R, err = lengthPtr(v)
		case "fx":
			out.FX, err = lengthPtr(v)
		case "fy":
			out.FY, err = lengthPtr(v)
		case "gradientUnits":
			var u Units
			u, err = parseUnits(v)
			out.Units = &u
		case "gradientTransform":
			out.GradientTransform, err = parseTransform(v)
		}
		return err
	})
	return &out, err
}

func stopF(attrs attributes) (node, error) {
	var out Stop
	err := attrs.each(func(k, v string) (err error) {
		if ok, err := readCommon(&out.Core, &out.Presentation, nil, k, v); ok {
			return err
		}
		if k == "offset" {
			out.Offset, err = lengthPtr(v)
		}
		return err
	})
	return &out, err
}

func filterF(attrs attributes) (node, error) {
	var out Filter
	err := attrs.each(func(k, v string) (err error) {
		if ok, err := readCommon(&out.Core, &out.Presentation, nil, k, v); ok {
			return err
		}
		switch k {
		case "x":
			out.X, err = lengthPtr(v)
		case "y":
			out.Y, err = lengthPtr(v)
		case "width":
			out.Width, err = lengthPtr(v)
		case "height":
			out.Height, err = lengthPtr(v)
		case "filterUnits":
			var u Units
			u, err = parseUnits(v)
			out.FilterUnits = &u
		}
		return err
	})
	return &out, err
}

// readPrimitiveCore returns true if k has been handled
func readPrimitiveCore(f *FilterPrimitiveCore, k, v string) (bool, error) {
	var err error
	switch k {
	case "id":
		f.ID = v
	case "result":
		f.Result = v
	case "x":
		f.X, err = lengthPtr(v)
	case "y":
		f.Y, err = lengthPtr(v)
	case "width":
		f.Width, err = lengthPtr(v)
	case "height":
		f.Height, err = lengthPtr(v)
	default:
		return false, nil
	}
	return true, err
}

func feBlendF(attrs attributes) (node, error) {
	var out FeBlend
	err := attrs.each(func(k, v string) (err error) {
		if ok, err := readPrimitiveCore(&out.FilterPrimitiveCore, k, v); ok {
			return err
		}
		switch k {
		case "in":
			out.In = ptr(parseFilterInput(v))
		case "in2":
			out.In2 = ptr(parseFilterInput(v))
		case "mode":
			var m BlendMode
			m, err = parseBlendMode(v)
			out.Mode = &m
		}
		return err
	})
	return &out, err
}

func feColorMatrixF(attrs attributes) (node, error) {
	var out FeColorMatrix
	err := attrs.each(func(k, v string) (err error) {
		if ok, err := readPrimitiveCore(&out.FilterPrimitiveCore, k, v); ok {
			return err
		}
		switch k {
		case "in":
			out.In = ptr(parseFilterInput(v))
		case "type":
			var t ColorMatrixType
			t, err = parseColorMatrixType(v)
			out.Type = &t
		case "values":
			out.Values, err = parseNumberList(v)
			if out.Values == nil {
				out.Values = []float64{}
			}
		}
		return err
	})
	return &out, err
}

func feFloodF(attrs attributes) (node, error) {
	var out FeFlood
	err := attrs.each(func(k, v string) (err error) {
		if ok, err := readPrimitiveCore(&out.FilterPrimitiveCore, k, v); ok {
			return err
		}
		switch k {
		case "flood-color":
			var c Color
			c, err = parseColor(v)
			out.FloodColor = &c
		case "flood-opacity":
			out.FloodOpacity, err = opacityPtr(v)
		}
		return err
	})
	return &out, err
}

func feGaussianBlurF(attrs attributes) (node, error) {
	var out FeGaussianBlur
	err := attrs.each(func(k, v string) (err error) {
		if ok, err := readPrimitiveCore(&out.FilterPrimitiveCore, k, v); ok {
			return err
		}
		switch k {
		case "in":
			out.In = ptr(parseFilterInput(v))
		case "stdDeviation":
			out.StdDeviation, err = parseNumberList(v)
			if err == nil && (len(out.StdDeviation) == 0 || len(out.StdDeviation) > 2) {
				err = errParamMismatch
			}
		}
		return err
	})
	return &out, err
}

func feOffsetF(attrs attributes) (node, error) {
	var out FeOffset
	err := attrs.each(func(k, v string) (err error) {
		if ok, err := readPrimitiveCore(&out.FilterPrimitiveCore, k, v); ok {
			return err
		}
		switch k {
		case "in":
			out.In = ptr(parseFilterInput(v))
		case "dx":
			out.Dx, err = numberPtr(v)
		case "dy":
			out.Dy, err = numberPtr(v)
		}
		return err
	})
	return &out, err
}

func titleF(attrs attributes) (node, error) {
	var out Title
	for _, at := range attrs.list() {
		if at.key == "id" {
			out.ID = at.value
		}
	}
	return &out, nil
}

func descF(attrs attributes) (node, error) {
	var out Desc
	for _, at := range attrs.list() {
		if at.key == "id" {
			out.ID = at.value
		}
	}
	return &out, nil
}

// String returns a short description of the element, for error messages
func String(el Element) string {
	tag := strings.TrimPrefix(fmt.Sprintf("%T", el), "*svgdoc.")
	if id := el.CoreAttrs().ID; id != "" {
		return fmt.Sprintf("<%s id=%q>", tag, id)
	}
	return "<" + tag + ">"
}
