// Package svglower lowers an SVG document to the drawing IR.
//
// Lowering is a recursive descent over the element tree. The only state
// carried down is a context value, copied at each level, so that siblings
// never observe each other's changes.
// Inherited presentation attributes are not repeated: each element only
// emits the state changes it sets, bracketed by save/restore of the
// graphic state.
package svglower

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/benoitkugler/svgbytecode/svgdoc"
	"github.com/benoitkugler/svgbytecode/svgfilter"
	"github.com/benoitkugler/svgbytecode/svggrad"
	"github.com/benoitkugler/svgbytecode/svgir"
	"github.com/benoitkugler/svgbytecode/svgmath"
	"github.com/benoitkugler/svgbytecode/svgpath"
	"github.com/benoitkugler/svgbytecode/svgref"
	"github.com/benoitkugler/svgbytecode/svgstyle"
)

var (
	// ErrGradientNotFound is returned when a url() paint does not
	// reference a gradient.
	ErrGradientNotFound = errors.New("gradient not found")
	// ErrInvalidClipElement is returned for clip path or mask children
	// other than shapes and <use> of shapes.
	ErrInvalidClipElement = errors.New("invalid element in clip path or mask")
)

// DefaultPathPrefix marks the definitions exported as path routines.
const DefaultPathPrefix = "cggen."

// Options configures Lower. The zero value is ready to use.
type Options struct {
	// PathPrefix selects the <path> definitions exported as path
	// routines, named by their id without the prefix.
	// It defaults to DefaultPathPrefix.
	PathPrefix string

	// Logger receives diagnostics. It defaults to a silent logger.
	Logger *slog.Logger
}

// resources are shared, read only, by all the contexts of a document.
type resources struct {
	defs      *svgref.Index
	gradients map[string]svggrad.Resolved
	logger    *slog.Logger
}

// context is the state inherited while lowering.
type context struct {
	*resources

	style       svgdoc.Presentation // attributes in effect, inherited included
	objectBox   svgmath.Rect        // bounding box of the painted shape
	drawingArea svgmath.Rect        // viewport, for userSpaceOnUse and percentages
	chain       svgref.Chain        // <use> being expanded
}

// BoundingRect returns the drawing area of the document:
// its width and height, falling back to the view box size.
func BoundingRect(doc *svgdoc.Document) svgmath.Rect {
	var out svgmath.Rect
	if doc.ViewBox != nil {
		out.W, out.H = doc.ViewBox.W, doc.ViewBox.H
	}
	if doc.Width != nil {
		out.W = doc.Width.Number
	}
	if doc.Height != nil {
		out.H = doc.Height.Number
	}
	return out
}

// Lower returns the drawing routine of doc, and the path routines
// defined in it.
func Lower(doc *svgdoc.Document, opts Options) (svgir.Routines, error) {
	if opts.PathPrefix == "" {
		opts.PathPrefix = DefaultPathPrefix
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	gradients, err := svggrad.Collect(doc)
	if err != nil {
		return svgir.Routines{}, err
	}
	res := &resources{defs: svgref.NewIndex(doc), gradients: gradients, logger: logger}

	paths, err := pathRoutines(res.defs, opts.PathPrefix)
	if err != nil {
		return svgir.Routines{}, err
	}

	bounds := BoundingRect(doc)
	ctx := context{
		resources:   res,
		objectBox:   bounds,
		drawingArea: bounds,
	}
	root, err := ctx.apply(doc.Presentation, &bounds)
	if err != nil {
		return svgir.Routines{}, fmt.Errorf("root element: %w", err)
	}
	steps := []svgir.DrawStep{svgir.ConcatCTM{Transform: svgmath.InvertYAxis(bounds.H)}, root}
	for _, child := range doc.Children {
		step, err := ctx.lower(child)
		if err != nil {
			return svgir.Routines{}, err
		}
		steps = append(steps, step)
	}

	table := make(map[string]svgir.Gradient, len(gradients))
	for id, g := range gradients {
		table[id] = g.Gradient
	}
	drawing := svgir.DrawRoutine{
		BoundingRect: bounds,
		Gradients:    table,
		Subroutines:  map[string]svgir.DrawRoutine{},
		Steps:        steps,
	}
	return svgir.Routines{Drawing: drawing, Paths: paths}, nil
}

// pathRoutines exports the <path> elements whose id has the given prefix,
// sorted by id.
func pathRoutines(defs *svgref.Index, prefix string) ([]svgir.PathRoutine, error) {
	var out []svgir.PathRoutine
	for _, id := range defs.IDs() {
		name, ok := strings.CutPrefix(id, prefix)
		if !ok {
			continue
		}
		els := defs.Definitions(id)
		if len(els) != 1 {
			continue
		}
		path, ok := els[0].(*svgdoc.Path)
		if !ok || path.D == nil {
			continue
		}
		seg, _, err := svgpath.BuildPathData(path.D)
		if err != nil {
			return nil, fmt.Errorf("path routine %q: %w", id, err)
		}
		out = append(out, svgir.PathRoutine{ID: name, Segment: seg})
	}
	return out, nil
}

// lower returns the steps drawing el, or nil if el draws nothing.
func (ctx context) lower(el svgdoc.Element) (svgir.DrawStep, error) {
	switch el := el.(type) {
	case *svgdoc.Group:
		return ctx.group(el)
	case *svgdoc.Use:
		g, chain, err := ctx.defs.ExpandUse(el, ctx.chain)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", svgdoc.String(el), err)
		}
		ctx.chain = chain
		return ctx.lower(g)
	case svgdoc.Shape:
		return ctx.shape(el)
	case *svgdoc.Defs, *svgdoc.Mask, *svgdoc.ClipPath, *svgdoc.LinearGradient,
		*svgdoc.RadialGradient, *svgdoc.Filter, *svgdoc.Title, *svgdoc.Desc:
		return nil, nil
	default:
		// nested <svg> are rejected by the parser
		panic(fmt.Sprintf("svglower: unexpected element %s", svgdoc.String(el)))
	}
}

// apply updates the context with the attributes of an element,
// and returns the steps setting them in the graphic state.
// area is the bounding box of the element, nil for groups.
func (ctx *context) apply(p svgdoc.Presentation, area *svgmath.Rect) (svgir.DrawStep, error) {
	ctx.style = svgstyle.Inherit(ctx.style, p)
	if area != nil {
		ctx.objectBox = *area
	}

	state, err := svgstyle.StateSteps(p)
	if err != nil {
		return nil, err
	}
	out := svgir.Composite(state)
	if p.Mask != nil {
		mask, err := svgref.Find[*svgdoc.Mask](ctx.defs, *p.Mask)
		if err != nil {
			return nil, fmt.Errorf("mask: %w", err)
		}
		steps, err := ctx.clipLike(mask.Children, mask.Transform)
		if err != nil {
			return nil, err
		}
		out = append(out, steps)
	}
	if p.ClipPath != nil {
		clip, err := svgref.Find[*svgdoc.ClipPath](ctx.defs, *p.ClipPath)
		if err != nil {
			return nil, fmt.Errorf("clip-path: %w", err)
		}
		steps, err := ctx.clipLike(clip.Children, clip.Transform)
		if err != nil {
			return nil, err
		}
		out = append(out, steps)
	}
	if p.Filter != nil {
		filter, err := svgref.Find[*svgdoc.Filter](ctx.defs, *p.Filter)
		if err != nil {
			return nil, fmt.Errorf("filter: %w", err)
		}
		shadow, err := svgfilter.Shadow(filter)
		if err != nil {
			return nil, err
		}
		out = append(out, svgir.ShadowStep{Shadow: shadow})
	}
	return out, nil
}

// gradient returns the step placing the gradient of paint, if any.
func (ctx context) gradient(paint svgdoc.Paint, op svggrad.Operation) (svgir.DrawStep, error) {
	if paint.Kind != svgdoc.PaintURL {
		return nil, nil
	}
	g, ok := ctx.gradients[paint.URL]
	if !ok {
		return nil, fmt.Errorf("paint url(#%s): %w", paint.URL, ErrGradientNotFound)
	}
	return g.Placement.Resolve(ctx.objectBox, ctx.drawingArea, op), nil
}

// paintPath sets the gradient paints, if any, then builds and paints the path.
func (ctx context) paintPath(path svgir.PathSegment) (svgir.DrawStep, error) {
	fill, err := ctx.gradient(svgstyle.Fill(ctx.style), svggrad.OpFill)
	if err != nil {
		return nil, err
	}
	stroke, err := ctx.gradient(svgstyle.Stroke(ctx.style), svggrad.OpStroke)
	if err != nil {
		return nil, err
	}
	return svgir.Composite{fill, stroke, path, svgir.FillAndStroke{}}, nil
}

// bracket returns the steps entering and leaving the graphic state of an element.
func bracket(state svgir.DrawStep, p svgdoc.Presentation, transform []svgmath.Transform) (pre, post svgir.Composite) {
	pre = svgir.Composite{svgir.SaveGState{}, state}
	for _, t := range transform {
		pre = append(pre, svgir.ConcatCTM{Transform: t})
	}
	if p.Opacity != nil {
		pre = append(pre, svgir.GlobalAlpha{Alpha: *p.Opacity})
	}
	if p.Opacity != nil || p.Filter != nil {
		pre = append(pre, svgir.BeginTransparencyLayer{})
		post = append(post, svgir.EndTransparencyLayer{})
	}
	post = append(post, svgir.RestoreGState{})
	return pre, post
}

func (ctx context) shape(shape svgdoc.Shape) (svgir.DrawStep, error) {
	c, err := svgpath.Build(shape, ctx.drawingArea)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", svgdoc.String(shape), err)
	}
	if c == nil {
		ctx.logger.Warn("degenerate shape skipped", "element", svgdoc.String(shape))
		return nil, nil
	}
	p := shape.Style()
	state, err := ctx.apply(p, &c.BBox)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", svgdoc.String(shape), err)
	}
	pre, post := bracket(state, p, shape.Transforms())
	paint, err := ctx.paintPath(c.Segment)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", svgdoc.String(shape), err)
	}
	return append(append(pre, paint), post...), nil
}

func (ctx context) group(g *svgdoc.Group) (svgir.DrawStep, error) {
	state, err := ctx.apply(g.Presentation, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", svgdoc.String(g), err)
	}
	out, post := bracket(state, g.Presentation, g.Transform)
	for _, child := range g.Children {
		step, err := ctx.lower(child)
		if err != nil {
			return nil, err
		}
		out = append(out, step)
	}
	return append(out, post...), nil
}

// clipLike returns the steps clipping to the union of the given shapes,
// used for both clip paths and masks (luminance is ignored).
// Children must be shapes, or <use> referencing shapes.
func (ctx context) clipLike(children []svgdoc.Element, transform []svgmath.Transform) (svgir.DrawStep, error) {
	out := svgir.Composite{svgir.SaveGState{}}
	if transform != nil {
		out = append(out, svgir.ConcatCTM{Transform: svgmath.Reduce(transform)})
	}
	for _, child := range children {
		var (
			shape     svgdoc.Shape
			useMatrix []svgmath.Transform
		)
		switch child := child.(type) {
		case svgdoc.Shape:
			shape = child
		case *svgdoc.Use:
			g, _, err := ctx.defs.ExpandUse(child, ctx.chain)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", svgdoc.String(child), err)
			}
			s, ok := g.Children[0].(svgdoc.Shape)
			if !ok {
				return nil, fmt.Errorf("%s: %w", svgdoc.String(child), ErrInvalidClipElement)
			}
			shape, useMatrix = s, g.Transform
		default:
			return nil, fmt.Errorf("%s: %w", svgdoc.String(child), ErrInvalidClipElement)
		}
		step, _, err := svgpath.Construct(shape, ctx.drawingArea)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", svgdoc.String(shape), err)
		}
		if step == nil {
			continue
		}
		if useMatrix != nil {
			step = svgir.SavingGState(svgir.ConcatCTM{Transform: svgmath.Reduce(useMatrix)}, step)
		}
		out = append(out, step)
	}
	return append(out, svgir.RestoreGState{}, svgir.Clip{}), nil
}
