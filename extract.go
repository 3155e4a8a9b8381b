package hlsl

import (
	"iter"
	"strings"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/dlclark/regexp2"
)

// VoidParameter is the single parameter label given to functions declared
// with an empty parameter list.
const VoidParameter = "void"

// functionPattern matches a line that starts with a word (the return type)
// followed by an identifier and a parenthesised parameter list.
// ECMAScript mode keeps \w, \s and . ASCII-oriented.
var functionPattern = func() *regexp2.Regexp {
	re := regexp2.MustCompile(
		`^\w+\s+([a-zA-Z_\x7f-\xff][a-zA-Z0-9_\x7f-\xff]*)\s*\((.*)\)`,
		regexp2.Multiline|regexp2.ECMAScript,
	)
	re.MatchTimeout = 2 * time.Second

	return re
}()

// Function is a function-like declaration found by ExtractFunctions.
type Function struct {
	Name string

	// Parameters holds the raw comma separated segments of the parameter
	// list, whitespace included. An empty list yields []string{"void"}.
	Parameters []string

	// Pos is the position of the function name. Column counts UTF-16
	// code units, as editors do.
	Pos lexer.Position
}

// Signature renders the function as name(p1,p2).
func (f Function) Signature() string {
	return FormatSignature(f.Name, f.Parameters)
}

// FormatSignature renders name(p1,p2) with labels joined verbatim.
func FormatSignature(name string, params []string) string {
	return name + "(" + strings.Join(params, ",") + ")"
}

// ExtractFunctions scans text for function declarations.
//
// The scan is a line-oriented heuristic: it does not follow includes or
// macros and control-flow lines that look like declarations
// (`else if (x)`) are reported too. The returned sequence is lazy and may
// be ranged over any number of times.
func ExtractFunctions(filename, text string) iter.Seq[Function] {
	return func(yield func(Function) bool) {
		runes := []rune(text)
		cur := newCursor(filename, text)

		m, err := functionPattern.FindRunesMatch(runes)
		for m != nil && err == nil {
			name := m.GroupByNumber(1)
			params := m.GroupByNumber(2)

			fn := Function{
				Name:       name.String(),
				Parameters: SplitParameters(params.String()),
				Pos:        cur.advance(name.Index),
			}

			if !yield(fn) {
				return
			}

			m, err = functionPattern.FindNextMatch(m)
		}
	}
}

// SplitParameters splits a raw parameter list on commas. Blank input
// yields the single "void" label.
func SplitParameters(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{VoidParameter}
	}

	return strings.Split(raw, ",")
}

// cursor converts increasing rune indexes into positions without
// rescanning the text from the start. Offset is kept in bytes of the
// original text, so invalid UTF-8 (one rune per bad byte) does not skew it.
type cursor struct {
	text  string
	pos   lexer.Position
	index int
}

func newCursor(filename, text string) *cursor {
	return &cursor{text: text, pos: lexer.Position{Filename: filename, Line: 1, Column: 1}}
}

func (c *cursor) advance(to int) lexer.Position {
	for ; c.index < to && c.pos.Offset < len(c.text); c.index++ {
		r, size := utf8.DecodeRuneInString(c.text[c.pos.Offset:])
		c.pos.Offset += size

		if r == '\n' {
			c.pos.Line++
			c.pos.Column = 1
		} else {
			c.pos.Column += utf16.RuneLen(r)
		}
	}

	return c.pos
}
