package parse

import (
	"strconv"

	"src.rho.sh/pkg/diag"
	"src.rho.sh/pkg/sym"
)

// TokenKind identifies the type of a Token.
type TokenKind int

// Possible values of TokenKind.
const (
	EOF TokenKind = iota
	OpenParen
	CloseParen
	OpenBrace
	CloseBrace
	OpenBracket
	CloseBracket
	StatementSep
	Newline
	LeftArrow
	FnDef
	Null
	Lambda
	Apply
	ListSep
	QuotePrefix

	NamespaceKw
	ImportKw
	DefsyntaxKw
	IfKw
	ElseKw

	SymbolToken
	StringToken
	IntToken
	FloatToken
	ComplexToken
	CharToken
)

var tokenKindNames = [...]string{
	EOF: "end of input", OpenParen: "(", CloseParen: ")",
	OpenBrace: "{", CloseBrace: "}", OpenBracket: "[", CloseBracket: "]",
	StatementSep: "◊", Newline: "newline", LeftArrow: "←", FnDef: "∇",
	Null: "⍬", Lambda: "λ", Apply: "⍞", ListSep: ";", QuotePrefix: "'",
	NamespaceKw: "namespace", ImportKw: "import", DefsyntaxKw: "defsyntax",
	IfKw: "if", ElseKw: "else",
	SymbolToken: "symbol", StringToken: "string", IntToken: "integer",
	FloatToken: "float", ComplexToken: "complex", CharToken: "character",
}

func (k TokenKind) String() string {
	if 0 <= k && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "token(" + strconv.Itoa(int(k)) + ")"
}

var reservedWords = map[string]TokenKind{
	"namespace": NamespaceKw,
	"import":    ImportKw,
	"defsyntax": DefsyntaxKw,
	"if":        IfKw,
	"else":      ElseKw,
}

// Token is a lexical unit. Only the payload field matching Kind is set.
type Token struct {
	Kind TokenKind
	Pos  diag.Position

	Sym     *sym.Symbol
	Str     string
	Int     int64
	Float   float64
	Complex complex128
	Char    rune
}

// IsSeparator reports whether the token ends a statement.
func (t Token) IsSeparator() bool {
	return t.Kind == StatementSep || t.Kind == Newline
}

// String describes the token for error messages.
func (t Token) String() string {
	switch t.Kind {
	case SymbolToken:
		return t.Sym.String()
	case StringToken:
		return strconv.Quote(t.Str)
	case IntToken:
		return strconv.FormatInt(t.Int, 10)
	case FloatToken:
		return strconv.FormatFloat(t.Float, 'g', -1, 64)
	case ComplexToken:
		return strconv.FormatComplex(t.Complex, 'g', -1, 128)
	case CharToken:
		return "@" + string(t.Char)
	}
	return t.Kind.String()
}
