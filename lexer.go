package hlsl

import (
	"io"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// Token type constants - negative values as per participle convention.
const (
	TokenEOF          lexer.TokenType = lexer.EOF
	TokenComment      lexer.TokenType = -(iota + 2) //nolint:mnd // participle convention
	TokenString                                     // quoted strings
	TokenNumber                                     // integer and float literals
	TokenIdent                                      // identifiers and keywords
	TokenPreprocessor                               // #include, #define ... to end of line
	TokenOp                                         // operators
	TokenDot                                        // .
	TokenColon                                      // :
	TokenComma                                      // ,
	TokenSemi                                       // ;
	TokenLParen                                     // (
	TokenRParen                                     // )
	TokenLBracket                                   // [
	TokenRBracket                                   // ]
	TokenLBrace                                     // {
	TokenRBrace                                     // }
	TokenWhitespace                                 // spaces, tabs, newlines
)

// Lexer is the participle lexer definition for HLSL source.
//
// It never fails: editor buffers are usually incomplete, so unterminated
// comments and strings end at the end of input or line, and unknown
// characters become operator tokens. Columns count UTF-16 code units.
var Lexer lexer.Definition = &definition{
	symbols: map[string]lexer.TokenType{
		"EOF":          TokenEOF,
		"Comment":      TokenComment,
		"String":       TokenString,
		"Number":       TokenNumber,
		"Ident":        TokenIdent,
		"Preprocessor": TokenPreprocessor,
		"Op":           TokenOp,
		"Dot":          TokenDot,
		"Colon":        TokenColon,
		"Comma":        TokenComma,
		"Semi":         TokenSemi,
		"Whitespace":   TokenWhitespace,
		"(":            TokenLParen,
		")":            TokenRParen,
		"[":            TokenLBracket,
		"]":            TokenRBracket,
		"{":            TokenLBrace,
		"}":            TokenRBrace,
	},
}

// Tokenize lexes text, including whitespace and comments, and returns the
// tokens followed by an EOF token.
func Tokenize(filename, text string) []lexer.Token {
	lex, _ := Lexer.(lexer.StringDefinition).LexString(filename, text) //nolint:errcheck // never fails

	tokens, _ := lexer.ConsumeAll(lex) //nolint:errcheck // never fails

	return tokens
}

// EndPos returns the position just past tok.
func EndPos(tok lexer.Token) lexer.Position {
	end := tok.Pos
	for _, r := range tok.Value {
		end.Offset += utf8.RuneLen(r)

		if r == '\n' {
			end.Line++
			end.Column = 1
		} else {
			end.Column += utf16.RuneLen(r)
		}
	}

	return end
}

var (
	_ lexer.StringDefinition = (*definition)(nil)
	_ lexer.BytesDefinition  = (*definition)(nil)
)

// definition implements lexer.Definition for HLSL.
type definition struct {
	symbols map[string]lexer.TokenType
}

// Symbols returns the mapping of symbol names to token types.
func (d *definition) Symbols() map[string]lexer.TokenType {
	return d.symbols
}

// Lex creates a new Lexer for the given reader.
//
//nolint:ireturn // Required by participle's lexer.Definition interface.
func (d *definition) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return d.LexString(filename, string(data))
}

// LexBytes implements lexer.BytesDefinition.
//
//nolint:ireturn // Required by participle's lexer.BytesDefinition interface.
func (d *definition) LexBytes(filename string, input []byte) (lexer.Lexer, error) {
	return newLexerState(filename, string(input)), nil
}

// LexString implements lexer.StringDefinition for efficiency.
//
//nolint:ireturn // Required by participle's lexer.StringDefinition interface.
func (d *definition) LexString(filename string, input string) (lexer.Lexer, error) {
	return newLexerState(filename, input), nil
}

// lexerState holds the state for lexing.
type lexerState struct {
	filename string
	input    string
	offset   int
	line     int
	col      int

	// lineStart is true until a non-whitespace token is seen on the line,
	// so that # starts a directive only at the beginning of a line.
	lineStart bool
}

func newLexerState(filename, input string) *lexerState {
	return &lexerState{
		filename:  filename,
		input:     input,
		line:      1,
		col:       1,
		lineStart: true,
	}
}

// Next returns the next token.
func (l *lexerState) Next() (lexer.Token, error) {
	if l.eof() {
		return lexer.EOFToken(l.pos()), nil
	}

	start := l.pos()
	r := l.peek()

	if isSpace(r) {
		for !l.eof() && isSpace(l.peek()) {
			if l.advance() == '\n' {
				l.lineStart = true
			}
		}

		return l.token(TokenWhitespace, start), nil
	}

	// Comments don't reset lineStart: "/* x */ #define" is still a directive.
	if r == '/' && l.peekAt(1) == '/' {
		for !l.eof() && l.peek() != '\n' {
			l.advance()
		}

		return l.token(TokenComment, start), nil
	}

	if r == '/' && l.peekAt(1) == '*' {
		l.advance()
		l.advance()

		for !l.eof() && !l.match("*/") {
			l.advance()
		}

		if !l.eof() {
			l.advance()
			l.advance()
		}

		return l.token(TokenComment, start), nil
	}

	atLineStart := l.lineStart
	l.lineStart = false

	if r == '#' && atLineStart {
		return l.scanDirective(start), nil
	}

	if r == '"' || r == '\'' {
		return l.scanString(start, r), nil
	}

	if isDigit(r) || (r == '.' && isDigit(l.peekAt(1))) {
		return l.scanNumber(start), nil
	}

	if isIdentStart(r) {
		for !l.eof() && isIdentContinue(l.peek()) {
			l.advance()
		}

		return l.token(TokenIdent, start), nil
	}

	if tok, ok := l.scanMultiCharOp(start); ok {
		return tok, nil
	}

	l.advance()

	switch r {
	case '.':
		return l.token(TokenDot, start), nil
	case ':':
		return l.token(TokenColon, start), nil
	case ',':
		return l.token(TokenComma, start), nil
	case ';':
		return l.token(TokenSemi, start), nil
	case '(':
		return l.token(TokenLParen, start), nil
	case ')':
		return l.token(TokenRParen, start), nil
	case '[':
		return l.token(TokenLBracket, start), nil
	case ']':
		return l.token(TokenRBracket, start), nil
	case '{':
		return l.token(TokenLBrace, start), nil
	case '}':
		return l.token(TokenRBrace, start), nil
	}

	return l.token(TokenOp, start), nil
}

func (l *lexerState) pos() lexer.Position {
	return lexer.Position{
		Filename: l.filename,
		Offset:   l.offset,
		Line:     l.line,
		Column:   l.col,
	}
}

func (l *lexerState) eof() bool {
	return l.offset >= len(l.input)
}

func (l *lexerState) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])

	return r
}

func (l *lexerState) peekAt(n int) rune {
	off := l.offset + n
	if off >= len(l.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[off:])

	return r
}

func (l *lexerState) advance() rune {
	if l.eof() {
		return 0
	}

	r, size := utf8.DecodeRuneInString(l.input[l.offset:])
	l.offset += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col += utf16.RuneLen(r)
	}

	return r
}

func (l *lexerState) match(s string) bool {
	return strings.HasPrefix(l.input[l.offset:], s)
}

func (l *lexerState) token(typ lexer.TokenType, start lexer.Position) lexer.Token {
	return lexer.Token{
		Type:  typ,
		Value: l.input[start.Offset:l.offset],
		Pos:   start,
	}
}

// scanDirective consumes a preprocessor line, following backslash continuations.
func (l *lexerState) scanDirective(start lexer.Position) lexer.Token {
	for !l.eof() {
		if l.match("\\\n") || l.match("\\\r\n") {
			for l.advance() != '\n' {
			}

			continue
		}

		if l.peek() == '\n' {
			break
		}

		l.advance()
	}

	return l.token(TokenPreprocessor, start)
}

func (l *lexerState) scanString(start lexer.Position, quote rune) lexer.Token {
	l.advance() // opening quote

	for !l.eof() {
		ch := l.peek()
		if ch == '\\' && l.peekAt(1) != 0 && l.peekAt(1) != '\n' {
			l.advance() // backslash
			l.advance() // escaped char

			continue
		}

		if ch == quote {
			l.advance() // closing quote

			break
		}

		if ch == '\n' {
			break
		}

		l.advance()
	}

	return l.token(TokenString, start)
}

func (l *lexerState) scanMultiCharOp(start lexer.Position) (lexer.Token, bool) {
	multiOps := []string{
		"<<=", ">>=",
		"&&", "||", "==", "!=", "<=", ">=", "<<", ">>", "++", "--",
		"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "::", "->",
	}

	for _, op := range multiOps {
		if l.match(op) {
			for range len(op) {
				l.advance()
			}

			return l.token(TokenOp, start), true
		}
	}

	return lexer.Token{}, false
}

func (l *lexerState) scanNumber(start lexer.Position) lexer.Token {
	if l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		l.advance() // 0
		l.advance() // x

		for !l.eof() && isHexDigit(l.peek()) {
			l.advance()
		}
	} else {
		for !l.eof() && isDigit(l.peek()) {
			l.advance()
		}

		if l.peek() == '.' {
			l.advance()

			for !l.eof() && isDigit(l.peek()) {
				l.advance()
			}
		}

		if l.peek() == 'e' || l.peek() == 'E' {
			l.advance()

			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}

			for !l.eof() && isDigit(l.peek()) {
				l.advance()
			}
		}
	}

	// Suffixes: 1.0f, 2u, 3.0h, 1.0lf
	for !l.eof() && strings.ContainsRune("fFhHlLuU", l.peek()) {
		l.advance()
	}

	return l.token(TokenNumber, start)
}

// Character helpers.

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// IsIdentRune reports whether r can appear in an identifier.
func IsIdentRune(r rune) bool {
	return isIdentContinue(r)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
