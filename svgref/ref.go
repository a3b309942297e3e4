// Package svgref indexes the elements of a document by id and resolves
// the references between them.
//
// The index is built in one pass over the whole tree, before any
// reference is followed, and is read only afterwards.
package svgref

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/benoitkugler/svgbytecode/svgdoc"
	"github.com/benoitkugler/svgbytecode/svgmath"
)

var (
	// ErrMissingReference is returned when no element has the referenced id.
	ErrMissingReference = errors.New("no element with this id")
	// ErrDuplicateID is returned when a referenced id is not unique.
	ErrDuplicateID = errors.New("multiple elements with this id")
	// ErrCyclicReference is returned when a <use> chain references itself.
	ErrCyclicReference = errors.New("cyclic reference")
	// ErrUnexpectedKind is returned when the referenced element has
	// the wrong type, such as a <rect> used as a gradient.
	ErrUnexpectedKind = errors.New("unexpected element for reference")
	// ErrNoHref is returned for a <use> without href.
	ErrNoHref = errors.New("missing href in <use>")
)

// Index maps ids to the elements defining them, in document order.
type Index struct {
	defs map[string][]svgdoc.Element
}

// NewIndex walks the whole tree rooted at doc.
func NewIndex(doc *svgdoc.Document) *Index {
	ix := &Index{defs: make(map[string][]svgdoc.Element)}
	ix.add(doc)
	return ix
}

func (ix *Index) add(el svgdoc.Element) {
	if id := el.CoreAttrs().ID; id != "" {
		ix.defs[id] = append(ix.defs[id], el)
	}
	if c, ok := el.(svgdoc.Container); ok {
		for _, child := range c.Elements() {
			ix.add(child)
		}
	}
}

// Definitions returns the elements with the given id, in document order.
func (ix *Index) Definitions(id string) []svgdoc.Element { return ix.defs[id] }

// IDs returns the ids of the index, sorted.
func (ix *Index) IDs() []string {
	out := make([]string, 0, len(ix.defs))
	for id := range ix.defs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the only element with the given id.
func (ix *Index) Lookup(id string) (svgdoc.Element, error) {
	defs := ix.defs[id]
	switch len(defs) {
	case 0:
		return nil, fmt.Errorf("#%s: %w", id, ErrMissingReference)
	case 1:
		return defs[0], nil
	default:
		return nil, fmt.Errorf("#%s (%d elements): %w", id, len(defs), ErrDuplicateID)
	}
}

// Find is like Lookup, and also checks the kind of the element.
func Find[T svgdoc.Element](ix *Index, id string) (T, error) {
	var zero T
	el, err := ix.Lookup(id)
	if err != nil {
		return zero, err
	}
	t, ok := el.(T)
	if !ok {
		return zero, fmt.Errorf("#%s is %s: %w", id, svgdoc.String(el), ErrUnexpectedKind)
	}
	return t, nil
}

// Chain is the list of ids being expanded, outermost first.
// It is a value: extending it never modifies the receiver.
type Chain []string

// With returns the chain extended by id, or ErrCyclicReference if
// id is already being expanded.
func (c Chain) With(id string) (Chain, error) {
	if slices.Contains(c, id) {
		return nil, fmt.Errorf("%s -> %s: %w", strings.Join(c, " -> "), id, ErrCyclicReference)
	}
	return append(c[:len(c):len(c)], id), nil
}

// Href returns the id referenced by the href of a <use> element.
func Href(u *svgdoc.Use) (string, error) {
	id := strings.TrimPrefix(u.Href, "#")
	if id == "" {
		return "", ErrNoHref
	}
	return id, nil
}

// ExpandUse replaces u by a group holding the element it references.
// The group has the core and presentation attributes of u, and its
// transform is the one of u followed by a translation by (x, y), when
// one of them is set. A referenced <use> is expanded in turn.
// The returned chain includes the ids followed, so that the caller
// can detect cycles going through the content of the group.
func (ix *Index) ExpandUse(u *svgdoc.Use, chain Chain) (*svgdoc.Group, Chain, error) {
	id, err := Href(u)
	if err != nil {
		return nil, nil, err
	}
	chain, err = chain.With(id)
	if err != nil {
		return nil, nil, err
	}
	def, err := ix.Lookup(id)
	if err != nil {
		return nil, nil, err
	}
	if inner, ok := def.(*svgdoc.Use); ok {
		def, chain, err = ix.ExpandUse(inner, chain)
		if err != nil {
			return nil, nil, err
		}
	}

	transform := slices.Clone(u.Transform)
	if u.X != nil || u.Y != nil {
		var tx, ty float64
		if u.X != nil {
			tx = u.X.Number
		}
		if u.Y != nil {
			ty = u.Y.Number
		}
		transform = append(transform, svgmath.Translate(tx, ty))
	}
	return &svgdoc.Group{
		Core:         u.Core,
		Presentation: u.Presentation,
		Transform:    transform,
		Children:     []svgdoc.Element{def},
	}, chain, nil
}
