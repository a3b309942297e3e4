package svgdoc

import (
	"fmt"

	"github.com/tdewolff/parse/v2/strconv"
)

// CommandKind identifies a path command, regardless of its positioning.
type CommandKind uint8

const (
	MoveTo CommandKind = iota
	LineTo
	HorizontalLineTo
	VerticalLineTo
	CurveTo
	SmoothCurveTo
	QuadraticBezierCurveTo
	SmoothQuadraticBezierCurveTo
	EllipticalArc
	ClosePath
)

// arity is the number of coordinates consumed by one repetition of the command.
var arity = [...]int{
	MoveTo:                       2,
	LineTo:                       2,
	HorizontalLineTo:             1,
	VerticalLineTo:               1,
	CurveTo:                      6,
	SmoothCurveTo:                4,
	QuadraticBezierCurveTo:       4,
	SmoothQuadraticBezierCurveTo: 2,
	EllipticalArc:                7,
	ClosePath:                    0,
}

var commandLetters = map[byte]CommandKind{
	'M': MoveTo,
	'L': LineTo,
	'H': HorizontalLineTo,
	'V': VerticalLineTo,
	'C': CurveTo,
	'S': SmoothCurveTo,
	'Q': QuadraticBezierCurveTo,
	'T': SmoothQuadraticBezierCurveTo,
	'A': EllipticalArc,
	'Z': ClosePath,
}

// Arity returns the number of coordinates of one repetition of the command.
func (k CommandKind) Arity() int { return arity[k] }

func (k CommandKind) String() string {
	for l, c := range commandLetters {
		if c == k {
			return string(l)
		}
	}
	return fmt.Sprintf("<command %d>", k)
}

// PathCommand is one command of a path data attribute,
// with all its (possibly repeated) arguments.
// For EllipticalArc, the arguments are rx, ry, x-axis-rotation,
// large-arc-flag, sweep-flag, x, y, with flags stored as 0 or 1.
type PathCommand struct {
	Kind     CommandKind
	Relative bool
	Args     []float64 // a multiple of Kind.Arity()
}

// Repeats returns the arguments split by command repetition.
// ClosePath always has one repetition, with no arguments.
func (c PathCommand) Repeats() [][]float64 {
	n := c.Kind.Arity()
	if n == 0 {
		return [][]float64{nil}
	}
	out := make([][]float64, 0, len(c.Args)/n)
	for i := 0; i+n <= len(c.Args); i += n {
		out = append(out, c.Args[i:i+n])
	}
	return out
}

func skipCommaWhitespace(path []byte) int {
	i := 0
	for i < len(path) && (path[i] == ' ' || path[i] == ',' || path[i] == '\n' || path[i] == '\r' || path[i] == '\t') {
		i++
	}
	return i
}

func isNumberStart(c byte) bool {
	return c >= '0' && c <= '9' || c == '.' || c == '-' || c == '+'
}

// ParsePathData parses the content of a d attribute.
// Repeated arguments following a command letter are grouped into one PathCommand.
func ParsePathData(s string) ([]PathCommand, error) {
	path := []byte(s)
	i := skipCommaWhitespace(path)
	out := []PathCommand{}
	for i < len(path) {
		letter := path[i]
		upper := letter
		if 'a' <= letter && letter <= 'z' {
			upper -= 'a' - 'A'
		}
		kind, ok := commandLetters[upper]
		if !ok {
			return nil, fmt.Errorf("invalid path command '%c' at position %d", letter, i+1)
		}
		i++
		i += skipCommaWhitespace(path[i:])
		cmd := PathCommand{Kind: kind, Relative: letter != upper}
		n := kind.Arity()
		for n > 0 && i < len(path) && isNumberStart(path[i]) {
			for j := 0; j < n; j++ {
				if i >= len(path) {
					return nil, fmt.Errorf("missing arguments for path command '%c'", letter)
				}
				if kind == EllipticalArc && (j == 3 || j == 4) {
					// flags may be written without separator
					switch path[i] {
					case '0':
						cmd.Args = append(cmd.Args, 0)
					case '1':
						cmd.Args = append(cmd.Args, 1)
					default:
						return nil, fmt.Errorf("invalid arc flag at position %d", i+1)
					}
					i++
				} else {
					num, l := strconv.ParseFloat(path[i:])
					if l == 0 {
						return nil, fmt.Errorf("expected number for path command '%c' at position %d", letter, i+1)
					}
					cmd.Args = append(cmd.Args, num)
					i += l
				}
				i += skipCommaWhitespace(path[i:])
			}
		}
		if n > 0 && len(cmd.Args) == 0 {
			return nil, fmt.Errorf("missing arguments for path command '%c'", letter)
		}
		out = append(out, cmd)
	}
	return out, nil
}
