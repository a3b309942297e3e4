package svgdoc

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/benoitkugler/svgbytecode/svgmath"
	"github.com/tdewolff/parse/v2/strconv"
	"golang.org/x/image/colornames"
)

var errParamMismatch = errors.New("SVG: parameter mismatch")

// parseNumber parses a plain number, rejecting trailing data.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	f, n := strconv.ParseFloat([]byte(s))
	if n == 0 || n != len(s) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}

func parseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	f, n := strconv.ParseFloat([]byte(s))
	if n == 0 {
		return Length{}, fmt.Errorf("invalid length %q", s)
	}
	out := Length{Number: f}
	switch s[n:] {
	case "":
	case "px":
		out.Unit = UnitPx
	case "pt":
		out.Unit = UnitPt
	case "%":
		out.Unit = UnitPercent
	default:
		return Length{}, fmt.Errorf("unsupported unit in length %q", s)
	}
	return out, nil
}

// splitOnCommaOrSpace returns a list of strings after splitting the input on comma and space delimiters
func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s,
		func(r rune) bool {
			return r == ',' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
		})
}

// parseNumberList parses numbers separated by commas or spaces,
// also accepting numbers glued by their sign, like "1-2".
func parseNumberList(s string) ([]float64, error) {
	b := []byte(s)
	i := skipCommaWhitespace(b)
	var out []float64
	for i < len(b) {
		f, n := strconv.ParseFloat(b[i:])
		if n == 0 {
			return nil, fmt.Errorf("invalid number list %q", s)
		}
		out = append(out, f)
		i += n
		i += skipCommaWhitespace(b[i:])
	}
	return out, nil
}

func parseLengthList(s string) ([]Length, error) {
	fields := splitOnCommaOrSpace(s)
	out := make([]Length, len(fields))
	for i, f := range fields {
		var err error
		out[i], err = parseLength(f)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func parsePoints(s string) ([]svgmath.Point, error) {
	nums, err := parseNumberList(s)
	if err != nil {
		return nil, err
	}
	if len(nums)%2 != 0 {
		return nil, errors.New("polygon has odd number of points")
	}
	out := make([]svgmath.Point, len(nums)/2)
	for i := range out {
		out[i] = svgmath.Pt(nums[2*i], nums[2*i+1])
	}
	return out, nil
}

// parseOpacity accepts numbers and percentages, clamped to [0, 1].
func parseOpacity(s string) (float64, error) {
	l, err := parseLength(s)
	if err != nil {
		return 0, err
	}
	f := l.Number
	if l.Unit == UnitPercent {
		f /= 100
	}
	return math.Max(0, math.Min(1, f)), nil
}

func parseColorComponent(s string) (uint8, error) {
	l, err := parseLength(s)
	if err != nil {
		return 0, err
	}
	f := l.Number
	if l.Unit == UnitPercent {
		f = f * 255 / 100
	}
	return uint8(math.Max(0, math.Min(255, math.Round(f)))), nil
}

func parseHex(s string) (Color, error) {
	var digits [6]uint8
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case '0' <= c && c <= '9':
			digits[i] = c - '0'
		case 'a' <= c && c <= 'f':
			digits[i] = c - 'a' + 10
		case 'A' <= c && c <= 'F':
			digits[i] = c - 'A' + 10
		default:
			return Color{}, fmt.Errorf("invalid hex color #%s", s)
		}
	}
	switch len(s) {
	case 3:
		return Color{digits[0] * 17, digits[1] * 17, digits[2] * 17}, nil
	case 6:
		return Color{digits[0]<<4 | digits[1], digits[2]<<4 | digits[3], digits[4]<<4 | digits[5]}, nil
	default:
		return Color{}, fmt.Errorf("invalid hex color #%s", s)
	}
}

func parseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	if lower := strings.ToLower(s); strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(lower, ")") {
		comps := splitOnCommaOrSpace(s[4 : len(s)-1])
		if len(comps) != 3 {
			return Color{}, fmt.Errorf("invalid color %q", s)
		}
		var out [3]uint8
		for i, c := range comps {
			var err error
			out[i], err = parseColorComponent(c)
			if err != nil {
				return Color{}, err
			}
		}
		return Color{out[0], out[1], out[2]}, nil
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return Color{c.R, c.G, c.B}, nil
	}
	return Color{}, fmt.Errorf("invalid color %q", s)
}

// parseFuncIRI parses url(#id) and returns id
func parseFuncIRI(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "url(") || !strings.HasSuffix(s, ")") {
		return "", fmt.Errorf("invalid reference %q", s)
	}
	iri := strings.Trim(strings.TrimSpace(s[4:len(s)-1]), `"'`)
	if !strings.HasPrefix(iri, "#") {
		return "", fmt.Errorf("only local references are supported: %q", s)
	}
	return iri[1:], nil
}

func parsePaint(s string) (Paint, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "none":
		return Paint{Kind: PaintNone}, nil
	case "currentColor":
		return Paint{Kind: PaintCurrentColor}, nil
	}
	if strings.HasPrefix(s, "url(") {
		// a fallback color may follow the reference
		end := strings.IndexByte(s, ')')
		id, err := parseFuncIRI(s[:end+1])
		if err != nil {
			return Paint{}, err
		}
		return Paint{Kind: PaintURL, URL: id}, nil
	}
	c, err := parseColor(s)
	if err != nil {
		return Paint{}, err
	}
	return Paint{Kind: PaintRGB, Color: c}, nil
}

func readTransformAttr(name string, points []float64) (svgmath.Transform, error) {
	ln := len(points)
	switch name {
	case "rotate":
		if ln == 1 {
			return svgmath.Rotate(points[0] * math.Pi / 180), nil
		} else if ln == 3 {
			return svgmath.RotateAround(points[0]*math.Pi/180, points[1], points[2]), nil
		}
	case "translate":
		if ln == 1 {
			return svgmath.Translate(points[0], 0), nil
		} else if ln == 2 {
			return svgmath.Translate(points[0], points[1]), nil
		}
	case "skewx":
		if ln == 1 {
			return svgmath.SkewX(points[0] * math.Pi / 180), nil
		}
	case "skewy":
		if ln == 1 {
			return svgmath.SkewY(points[0] * math.Pi / 180), nil
		}
	case "scale":
		if ln == 1 {
			return svgmath.Scale(points[0], points[0]), nil
		} else if ln == 2 {
			return svgmath.Scale(points[0], points[1]), nil
		}
	case "matrix":
		if ln == 6 {
			return svgmath.Transform{points[0], points[1], points[2], points[3], points[4], points[5]}, nil
		}
	}
	return svgmath.Transform{}, errParamMismatch
}

// parseTransform returns the list of transforms, in the written order
func parseTransform(v string) ([]svgmath.Transform, error) {
	var out []svgmath.Transform
	for _, t := range strings.Split(v, ")") {
		t = strings.TrimSpace(strings.TrimLeft(t, " ,"))
		if len(t) == 0 {
			continue
		}
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return nil, errParamMismatch // badly formed transformation
		}
		points, err := parseNumberList(d[1])
		if err != nil {
			return nil, err
		}
		tr, err := readTransformAttr(strings.ToLower(strings.TrimSpace(d[0])), points)
		if err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, nil
}

func parseFillRule(s string) (FillRule, error) {
	switch s {
	case "nonzero":
		return NonZero, nil
	case "evenodd":
		return EvenOdd, nil
	}
	return 0, fmt.Errorf("invalid fill rule %q", s)
}

func parseUnits(s string) (Units, error) {
	switch s {
	case "objectBoundingBox":
		return ObjectBoundingBox, nil
	case "userSpaceOnUse":
		return UserSpaceOnUse, nil
	}
	return 0, fmt.Errorf("invalid units %q", s)
}

func parseFilterInput(s string) FilterInput {
	switch s {
	case "SourceGraphic":
		return FilterInput{Kind: SourceGraphic}
	case "SourceAlpha":
		return FilterInput{Kind: SourceAlpha}
	case "BackgroundImage":
		return FilterInput{Kind: BackgroundImage}
	case "BackgroundAlpha":
		return FilterInput{Kind: BackgroundAlpha}
	case "FillPaint":
		return FilterInput{Kind: FillPaint}
	case "StrokePaint":
		return FilterInput{Kind: StrokePaint}
	}
	return FilterInput{Kind: NamedResult, Name: s}
}

func parseBlendMode(s string) (BlendMode, error) {
	switch s {
	case "normal":
		return BlendNormal, nil
	case "multiply":
		return BlendMultiply, nil
	case "screen":
		return BlendScreen, nil
	case "darken":
		return BlendDarken, nil
	case "lighten":
		return BlendLighten, nil
	}
	return 0, fmt.Errorf("unsupported blend mode %q", s)
}

func parseColorMatrixType(s string) (ColorMatrixType, error) {
	switch s {
	case "matrix":
		return MatrixMatrix, nil
	case "saturate":
		return MatrixSaturate, nil
	case "hueRotate":
		return MatrixHueRotate, nil
	case "luminanceToAlpha":
		return MatrixLuminanceToAlpha, nil
	}
	return 0, fmt.Errorf("invalid color matrix type %q", s)
}
