// Package svgdoc defines the typed SVG document tree consumed by the compiler,
// and a front end building it from an XML stream.
//
// Attributes are stored unit-typed and optional: a nil pointer (or nil slice)
// means the attribute was not written in the source, which is different
// from its default value.
package svgdoc

import (
	"github.com/benoitkugler/svgbytecode/svgmath"
)

// Unit is the unit of a Length.
type Unit uint8

const (
	UnitNone Unit = iota
	UnitPx
	UnitPt
	UnitPercent
)

// Length is a number with an optional unit.
type Length struct {
	Number float64
	Unit   Unit
}

// Abs resolves the length against extent, used for percentages.
func (l Length) Abs(extent float64) float64 {
	if l.Unit == UnitPercent {
		return l.Number / 100 * extent
	}
	return l.Number
}

// Color is an opaque RGB color, with components in [0, 255].
type Color struct {
	R, G, B uint8
}

// PaintKind selects the variant of a Paint.
type PaintKind uint8

const (
	PaintNone PaintKind = iota
	PaintCurrentColor
	PaintRGB
	PaintURL
)

// Paint is the value of fill and stroke attributes.
type Paint struct {
	Kind  PaintKind
	Color Color  // for PaintRGB
	URL   string // element id, for PaintURL
}

type FillRule uint8

const (
	NonZero FillRule = iota
	EvenOdd
)

type LineCap uint8

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

type LineJoin uint8

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

// Units is the value of gradientUnits, clipPathUnits, ...
type Units uint8

const (
	ObjectBoundingBox Units = iota
	UserSpaceOnUse
)

// Presentation holds the presentation attributes of an element.
type Presentation struct {
	ClipPath         *string // referenced id
	ClipRule         *FillRule
	Mask             *string // referenced id
	Filter           *string // referenced id
	Fill             *Paint
	FillRule         *FillRule
	FillOpacity      *float64
	Stroke           *Paint
	StrokeWidth      *Length
	StrokeLineCap    *LineCap
	StrokeLineJoin   *LineJoin
	StrokeMiterLimit *float64
	StrokeDashArray  []Length // non nil and empty for "none"
	StrokeDashOffset *Length
	StrokeOpacity    *float64
	Opacity          *float64
	StopColor        *Color
	StopOpacity      *float64
	FloodColor       *Color
	FloodOpacity     *float64
}

// Core holds the core attributes.
type Core struct {
	ID string
}

// Element is one node of the document tree.
// It is implemented by the pointer types of this package.
type Element interface {
	CoreAttrs() Core
	isElement()
}

// Styled is implemented by elements carrying presentation attributes.
type Styled interface {
	Element
	Style() Presentation
}

// Shape is implemented by basic shapes and paths.
type Shape interface {
	Styled
	Transforms() []svgmath.Transform
	isShape()
}

// Container is implemented by elements with element children.
type Container interface {
	Element
	Elements() []Element
}

// Document is the root <svg> element.
type Document struct {
	Core
	Presentation
	Width, Height *Length
	ViewBox       *svgmath.Rect
	Children      []Element
}

type Group struct {
	Core
	Presentation
	Transform []svgmath.Transform
	Children  []Element
}

type Use struct {
	Core
	Presentation
	Transform     []svgmath.Transform
	X, Y          *Length
	Width, Height *Length
	Href          string // with the leading #, as written
}

type Defs struct {
	Core
	Presentation
	Children []Element
}

type Rect struct {
	Core
	Presentation
	Transform           []svgmath.Transform
	X, Y, Width, Height *Length
	RX, RY              *Length
}

type Circle struct {
	Core
	Presentation
	Transform []svgmath.Transform
	CX, CY, R *Length
}

type Ellipse struct {
	Core
	Presentation
	Transform      []svgmath.Transform
	CX, CY, RX, RY *Length
}

// Polygon is used for <polygon>, and with Open set,
// for <polyline> and <line>.
type Polygon struct {
	Core
	Presentation
	Transform []svgmath.Transform
	Points    []svgmath.Point // nil if not set
	Open      bool
}

type Path struct {
	Core
	Presentation
	Transform []svgmath.Transform
	D         []PathCommand // nil if not set
}

type Mask struct {
	Core
	Presentation
	Transform []svgmath.Transform
	Children  []Element
}

type ClipPath struct {
	Core
	Presentation
	Transform     []svgmath.Transform
	ClipPathUnits *Units
	Children      []Element
}

// Stop is a gradient stop. Its color is given
// by the stop-color and stop-opacity presentation attributes.
type Stop struct {
	Core
	Presentation
	Offset *Length // number or percentage
}

type LinearGradient struct {
	Core
	Presentation
	Units             *Units
	X1, Y1, X2, Y2    *Length
	GradientTransform []svgmath.Transform
	Stops             []Stop
}

type RadialGradient struct {
	Core
	Presentation
	Units             *Units
	CX, CY, R, FX, FY *Length
	GradientTransform []svgmath.Transform
	Stops             []Stop
}

type Filter struct {
	Core
	Presentation
	X, Y, Width, Height *Length
	FilterUnits         *Units
	Primitives          []FilterPrimitive
}

type Title struct {
	Core
	Text string
}

type Desc struct {
	Core
	Text string
}

func (c Core) CoreAttrs() Core { return c }

func (p Presentation) Style() Presentation { return p }

func (*Document) isElement()       {}
func (*Group) isElement()          {}
func (*Use) isElement()            {}
func (*Defs) isElement()           {}
func (*Rect) isElement()           {}
func (*Circle) isElement()         {}
func (*Ellipse) isElement()        {}
func (*Polygon) isElement()        {}
func (*Path) isElement()           {}
func (*Mask) isElement()           {}
func (*ClipPath) isElement()       {}
func (*LinearGradient) isElement() {}
func (*RadialGradient) isElement() {}
func (*Filter) isElement()         {}
func (*Title) isElement()          {}
func (*Desc) isElement()           {}

func (*Rect) isShape()    {}
func (*Circle) isShape()  {}
func (*Ellipse) isShape() {}
func (*Polygon) isShape() {}
func (*Path) isShape()    {}

func (r *Rect) Transforms() []svgmath.Transform    { return r.Transform }
func (c *Circle) Transforms() []svgmath.Transform  { return c.Transform }
func (e *Ellipse) Transforms() []svgmath.Transform { return e.Transform }
func (p *Polygon) Transforms() []svgmath.Transform { return p.Transform }
func (p *Path) Transforms() []svgmath.Transform    { return p.Transform }

func (d *Document) Elements() []Element { return d.Children }
func (g *Group) Elements() []Element    { return g.Children }
func (d *Defs) Elements() []Element     { return d.Children }
func (m *Mask) Elements() []Element     { return m.Children }
func (c *ClipPath) Elements() []Element { return c.Children }
