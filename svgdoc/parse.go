package svgdoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

const svgNamespace = "http://www.w3.org/2000/svg"

var (
	// ErrUnknownElement is returned for SVG elements not supported by the compiler.
	ErrUnknownElement = errors.New("unsupported SVG element")
	// ErrInvalidRoot is returned when the root element is not <svg>.
	ErrInvalidRoot = errors.New("invalid svg root element")
)

// AttributeError reports an invalid attribute value.
type AttributeError struct {
	Element, Attribute, Value string
	Err                       error
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("invalid attribute %s=%q on <%s>: %s", e.Attribute, e.Value, e.Element, e.Err)
}

func (e *AttributeError) Unwrap() error { return e.Err }

// node is either an Element, a Stop or a FilterPrimitive
type node interface{}

type elementFunc func(attrs attributes) (node, error)

var elementFuncs = map[string]elementFunc{
	"svg":            svgF,
	"g":              gF,
	"defs":           defsF,
	"use":            useF,
	"rect":           rectF,
	"circle":         circleF,
	"ellipse":        ellipseF,
	"line":           lineF,
	"polyline":       polylineF,
	"polygon":        polygonF,
	"path":           pathF,
	"mask":           maskF,
	"clipPath":       clipPathF,
	"linearGradient": linearGradientF,
	"radialGradient": radialGradientF,
	"stop":           stopF,
	"filter":         filterF,
	"feBlend":        feBlendF,
	"feColorMatrix":  feColorMatrixF,
	"feFlood":        feFloodF,
	"feGaussianBlur": feGaussianBlurF,
	"feOffset":       feOffsetF,
	"title":          titleF,
	"desc":           descF,
}

// cursor is used while parsing SVG files
type cursor struct {
	stack []node
	root  *Document
}

// Parse reads an SVG document from the given stream.
// Elements and attributes from foreign namespaces are ignored.
func Parse(stream io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	var c cursor
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		switch se := t.(type) {
		case xml.StartElement:
			if se.Name.Space != "" && se.Name.Space != svgNamespace {
				if err := decoder.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			if err := c.start(se); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if se.Name.Space != "" && se.Name.Space != svgNamespace {
				continue
			}
			c.end()
		case xml.CharData:
			c.text(string(se))
		}
	}
	if c.root == nil {
		return nil, ErrInvalidRoot
	}
	return c.root, nil
}

// ParseFile reads the SVG document from the named file.
func ParseFile(file string) (*Document, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func (c *cursor) start(se xml.StartElement) error {
	name := se.Name.Local
	if len(c.stack) == 0 && (name != "svg" || c.root != nil) {
		return fmt.Errorf("%w: <%s>", ErrInvalidRoot, name)
	}
	if len(c.stack) != 0 && name == "svg" {
		return fmt.Errorf("%w: nested <svg>", ErrUnknownElement)
	}
	df, ok := elementFuncs[name]
	if !ok {
		return fmt.Errorf("%w: <%s>", ErrUnknownElement, name)
	}
	n, err := df(attributes{element: name, attrs: se.Attr})
	if err != nil {
		return err
	}
	if len(c.stack) != 0 {
		if parent := c.stack[len(c.stack)-1]; !appendChild(parent, n) {
			return fmt.Errorf("%w: <%s> inside %T", ErrUnknownElement, name, parent)
		}
	} else {
		c.root = n.(*Document)
	}
	c.stack = append(c.stack, n)
	return nil
}

func (c *cursor) end() {
	if len(c.stack) != 0 {
		c.stack = c.stack[:len(c.stack)-1]
	}
}

func (c *cursor) text(s string) {
	if len(c.stack) == 0 {
		return
	}
	switch n := c.stack[len(c.stack)-1].(type) {
	case *Title:
		n.Text += s
	case *Desc:
		n.Text += s
	}
}

// appendChild returns false if child is not allowed in parent
func appendChild(parent, child node) bool {
	el, isElement := child.(Element)
	switch p := parent.(type) {
	case *LinearGradient:
		if s, ok := child.(*Stop); ok {
			p.Stops = append(p.Stops, *s)
			return true
		}
	case *RadialGradient:
		if s, ok := child.(*Stop); ok {
			p.Stops = append(p.Stops, *s)
			return true
		}
	case *Filter:
		if f, ok := child.(FilterPrimitive); ok {
			p.Primitives = append(p.Primitives, f)
			return true
		}
	case *Document:
		if isElement {
			p.Children = append(p.Children, el)
			return true
		}
	case *Group:
		if isElement {
			p.Children = append(p.Children, el)
			return true
		}
	case *Defs:
		if isElement {
			p.Children = append(p.Children, el)
			return true
		}
	case *Mask:
		if isElement {
			p.Children = append(p.Children, el)
			return true
		}
	case *ClipPath:
		if isElement {
			p.Children = append(p.Children, el)
			return true
		}
	}
	return false
}
