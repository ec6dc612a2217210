// Package parse implements the lexical layer of the language: sources,
// tokens and a lexer with unbounded pushback.
//
// Building instruction trees from tokens is done in the eval package, since
// the grammar depends on the functions, operators and syntax extensions
// registered at run time.
package parse

import (
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"src.rho.sh/pkg/diag"
	"src.rho.sh/pkg/sym"
)

// Resolver gives the lexer access to the live state of an engine.
type Resolver interface {
	// Symbols returns the table in which qualified and keyword symbols are
	// interned.
	Symbols() *sym.Table
	// Resolve returns the symbol an unqualified name refers to, interning it
	// in the current namespace if it is not visible there.
	Resolve(name string) *sym.Symbol
	// IsGlyph reports whether r is a single-character function name.
	IsGlyph(r rune) bool
}

// Lexer turns a character stream into tokens.
type Lexer struct {
	name string
	in   io.RuneReader
	res  Resolver

	// Pushed back tokens, the last one is returned first.
	tokens []Token
	// Pushed back characters, the last one is read first.
	runes []posRune

	line, col int
	eof       bool
	err       error
}

type posRune struct {
	r         rune
	line, col int
}

const eof rune = -1

// NewLexer creates a Lexer reading from in. The name is used in the
// positions of tokens.
func NewLexer(name string, in io.RuneReader, res Resolver) *Lexer {
	return &Lexer{name: name, in: in, res: res, line: 1, col: 1}
}

// PushBack makes t the next token returned by Next. Any number of tokens may
// be pushed back.
func (lx *Lexer) PushBack(t Token) {
	lx.tokens = append(lx.tokens, t)
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() (Token, error) {
	t, err := lx.Next()
	if err != nil {
		return t, err
	}
	lx.PushBack(t)
	return t, nil
}

// Next returns the next token. After the end of input is reached, it keeps
// returning EOF tokens.
func (lx *Lexer) Next() (Token, error) {
	if n := len(lx.tokens); n > 0 {
		t := lx.tokens[n-1]
		lx.tokens = lx.tokens[:n-1]
		return t, nil
	}
	for {
		r, pos := lx.read()
		if lx.err != nil {
			return Token{}, lx.err
		}
		switch {
		case r == eof:
			return Token{Kind: EOF, Pos: pos}, nil
		case r == ' ' || r == '\t' || r == '\r':
			continue
		case r == '⍝':
			lx.skipComment()
			continue
		case r == '`':
			if err := lx.skipContinuation(pos); err != nil {
				return Token{}, err
			}
			continue
		case r == '"':
			return lx.lexString(pos)
		case r == '@':
			c, _ := lx.read()
			if c == eof {
				return Token{}, NewError(pos, ErrUnexpectedChar, "end of input after @")
			}
			return Token{Kind: CharToken, Pos: pos, Char: c}, nil
		case '0' <= r && r <= '9' || r == '¯':
			lx.unread(r, pos)
			return lx.lexNumber(pos)
		}
		if kind, ok := singleCharTokens[r]; ok {
			return Token{Kind: kind, Pos: pos}, nil
		}
		if r == '⍺' || r == '⍵' {
			s := lx.res.Resolve(string(r))
			return Token{Kind: SymbolToken, Pos: pos, Sym: s}, nil
		}
		if lx.res.IsGlyph(r) {
			s := lx.res.Resolve(string(r))
			return Token{Kind: SymbolToken, Pos: pos, Sym: s}, nil
		}
		if isSymbolStart(r) {
			lx.unread(r, pos)
			return lx.lexSymbol(pos)
		}
		return Token{}, NewError(pos, ErrUnexpectedChar, strconv.QuoteRune(r))
	}
}

var singleCharTokens = map[rune]TokenKind{
	'(': OpenParen, ')': CloseParen,
	'{': OpenBrace, '}': CloseBrace,
	'[': OpenBracket, ']': CloseBracket,
	'◊': StatementSep, '⋄': StatementSep, '\n': Newline,
	'←': LeftArrow, '∇': FnDef, '⍬': Null, 'λ': Lambda, '⍞': Apply,
	';': ListSep, '\'': QuotePrefix,
}

func isSymbolStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == ':' || r == '∆' || r == '⍙'
}

func isSymbolChar(r rune) bool {
	return isSymbolStart(r) || unicode.IsDigit(r)
}

func (lx *Lexer) read() (rune, diag.Position) {
	if n := len(lx.runes); n > 0 {
		pr := lx.runes[n-1]
		lx.runes = lx.runes[:n-1]
		return pr.r, lx.pos(pr.line, pr.col)
	}
	pos := lx.pos(lx.line, lx.col)
	if lx.eof {
		return eof, pos
	}
	r, _, err := lx.in.ReadRune()
	if err != nil {
		lx.eof = true
		if err != io.EOF {
			lx.err = err
		}
		return eof, pos
	}
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r, pos
}

func (lx *Lexer) unread(r rune, pos diag.Position) {
	if r == eof {
		return
	}
	lx.runes = append(lx.runes, posRune{r, pos.Line, pos.Col})
}

func (lx *Lexer) pos(line, col int) diag.Position {
	return diag.Position{Source: lx.name, Line: line, Col: col}
}

func (lx *Lexer) skipComment() {
	for {
		r, pos := lx.read()
		if r == eof {
			return
		}
		if r == '\n' {
			lx.unread(r, pos)
			return
		}
	}
}

// A backquote joins the current line with the next one. Only blanks may
// follow it.
func (lx *Lexer) skipContinuation(start diag.Position) error {
	for {
		r, pos := lx.read()
		switch r {
		case eof, '\n':
			return nil
		case ' ', '\t', '\r':
			continue
		default:
			return NewError(pos, ErrUnexpectedChar,
				"only blanks may follow a line continuation at "+start.String())
		}
	}
}

func (lx *Lexer) lexString(start diag.Position) (Token, error) {
	var sb strings.Builder
	for {
		r, _ := lx.read()
		switch r {
		case eof:
			return Token{}, NewError(start, ErrUnexpectedChar, "unterminated string")
		case '"':
			return Token{Kind: StringToken, Pos: start, Str: sb.String()}, nil
		case '\\':
			next, _ := lx.read()
			switch next {
			case eof:
				return Token{}, NewError(start, ErrUnexpectedChar, "unterminated string")
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			default:
				sb.WriteRune(next)
			}
		default:
			sb.WriteRune(r)
		}
	}
}

var (
	intPattern     = regexp.MustCompile(`^¯?[0-9]+$`)
	floatPattern   = regexp.MustCompile(`^¯?[0-9]+(\.[0-9]+)?([eE]¯?[0-9]+)?$`)
	complexPattern = regexp.MustCompile(`^([^jJ]+)[jJ]([^jJ]+)$`)
)

func (lx *Lexer) lexNumber(start diag.Position) (Token, error) {
	var sb strings.Builder
	for {
		r, pos := lx.read()
		if r == eof {
			break
		}
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '¯') {
			lx.unread(r, pos)
			break
		}
		sb.WriteRune(r)
	}
	text := sb.String()
	malformed := func() (Token, error) {
		return Token{}, NewError(start, ErrMalformedNumber, text)
	}

	if intPattern.MatchString(text) {
		n, err := strconv.ParseInt(strings.Replace(text, "¯", "-", 1), 10, 64)
		if err != nil {
			return malformed()
		}
		return Token{Kind: IntToken, Pos: start, Int: n}, nil
	}
	if floatPattern.MatchString(text) {
		f, ok := parseFloat(text)
		if !ok {
			return malformed()
		}
		return Token{Kind: FloatToken, Pos: start, Float: f}, nil
	}
	if m := complexPattern.FindStringSubmatch(text); m != nil {
		if !floatPattern.MatchString(m[1]) || !floatPattern.MatchString(m[2]) {
			return malformed()
		}
		re, ok1 := parseFloat(m[1])
		im, ok2 := parseFloat(m[2])
		if !ok1 || !ok2 {
			return malformed()
		}
		return Token{Kind: ComplexToken, Pos: start, Complex: complex(re, im)}, nil
	}
	return malformed()
}

// Parses a number matching floatPattern.
func parseFloat(text string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(text, "¯", "-"), 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (lx *Lexer) lexSymbol(start diag.Position) (Token, error) {
	var sb strings.Builder
	for {
		r, pos := lx.read()
		if r == eof {
			break
		}
		if !isSymbolChar(r) {
			lx.unread(r, pos)
			break
		}
		sb.WriteRune(r)
	}
	text := sb.String()
	malformed := func() (Token, error) {
		return Token{}, NewError(start, ErrMalformedSymbol, text)
	}

	parts := strings.Split(text, ":")
	switch len(parts) {
	case 1:
		if kind, ok := reservedWords[text]; ok {
			return Token{Kind: kind, Pos: start}, nil
		}
		s := lx.res.Resolve(text)
		return Token{Kind: SymbolToken, Pos: start, Sym: s}, nil
	case 2:
		if parts[1] == "" {
			return malformed()
		}
		if parts[0] == "" {
			return Token{Kind: SymbolToken, Pos: start,
				Sym: lx.res.Symbols().Keyword(parts[1])}, nil
		}
		return Token{Kind: SymbolToken, Pos: start,
			Sym: lx.res.Symbols().Qualified(parts[0], parts[1])}, nil
	default:
		return malformed()
	}
}
