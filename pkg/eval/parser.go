package eval

import (
	"fmt"

	"src.rho.sh/pkg/diag"
	"src.rho.sh/pkg/eval/vals"
	"src.rho.sh/pkg/parse"
	"src.rho.sh/pkg/sym"
)

// parser turns tokens into instructions. Definitions made while parsing are
// staged in the parser and only become visible to the engine when the whole
// source has been parsed successfully.
//
// The parser is also the Resolver of its lexer, so that namespace changes
// take effect for the tokens that follow them.
type parser struct {
	eng *Engine
	lx  *parse.Lexer
	ns  *sym.Namespace

	functions map[*sym.Symbol]FunctionDescriptor
	syntax    map[*sym.Symbol]*customSyntax
	imports   map[*sym.Namespace][]*sym.Namespace

	prog *statements
}

func newParser(eng *Engine, name string, src parse.CharStream) *parser {
	p := &parser{
		eng:       eng,
		ns:        eng.CurrentNamespace(),
		functions: make(map[*sym.Symbol]FunctionDescriptor),
		syntax:    make(map[*sym.Symbol]*customSyntax),
		imports:   make(map[*sym.Namespace][]*sym.Namespace),
	}
	p.lx = parse.NewLexer(name, src, p)
	return p
}

func (p *parser) Symbols() *sym.Table { return p.eng.symbols }
func (p *parser) IsGlyph(r rune) bool { return p.eng.IsGlyph(r) }

// Resolve looks up an unqualified name like sym.Namespace.ResolveOrIntern,
// but also consults the imports staged by this parser.
func (p *parser) Resolve(name string) *sym.Symbol {
	if s := p.ns.Resolve(name); s != nil {
		return s
	}
	for _, imp := range p.imports[p.ns] {
		if s := imp.Find(name, false); s != nil {
			return s
		}
	}
	return p.ns.Intern(name)
}

func (p *parser) function(s *sym.Symbol) FunctionDescriptor {
	if d, ok := p.functions[s]; ok {
		return d
	}
	return p.eng.function(s)
}

func (p *parser) customSyntax(s *sym.Symbol) *customSyntax {
	if syn, ok := p.syntax[s]; ok {
		return syn
	}
	return p.eng.customSyntax(s)
}

// Makes the staged definitions visible to the engine.
func (p *parser) commit() {
	p.eng.commit(p.ns, p.imports, p.functions, p.syntax)
}

func (p *parser) next() (parse.Token, error) { return p.lx.Next() }

func (p *parser) peek() (parse.Token, error) { return p.lx.Peek() }

func (p *parser) expect(kind parse.TokenKind) (parse.Token, error) {
	t, err := p.next()
	if err != nil {
		return t, err
	}
	if t.Kind != kind {
		return t, unexpected(t, kind.String())
	}
	return t, nil
}

func unexpected(t parse.Token, want string) error {
	return parse.NewError(t.Pos, parse.ErrUnexpectedToken,
		fmt.Sprintf("expected %s, got %s", want, t))
}

func (p *parser) parseProgram() (*statements, error) {
	return p.parseStatements(diag.Position{}, parse.EOF)
}

// Parses statements up to and including a token of the given kind.
func (p *parser) parseStatements(pos diag.Position, end parse.TokenKind) (*statements, error) {
	s := &statements{pos: pos}
	for {
		instr, t, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if instr != nil {
			if len(s.list) == 0 && s.pos.IsZero() {
				s.pos = instr.Pos()
			}
			s.list = append(s.list, instr)
		}
		switch {
		case t.IsSeparator():
		case t.Kind == end:
			return s, nil
		default:
			return nil, unexpected(t, end.String())
		}
	}
}

// Parses an expression up to a terminating token, which is consumed and
// returned. The instruction is nil if the expression is empty.
func (p *parser) parseValue() (Instruction, parse.Token, error) {
	var left []Instruction
	for {
		t, err := p.next()
		if err != nil {
			return nil, t, err
		}
		switch t.Kind {
		case parse.EOF, parse.CloseParen, parse.CloseBrace, parse.CloseBracket,
			parse.StatementSep, parse.Newline, parse.ListSep:
			return makeStrand(left), t, nil
		case parse.LeftArrow:
			return p.parseAssignment(left, t)
		}

		fn, err := p.parseFunction(t)
		if err != nil {
			return nil, t, err
		}
		if fn.fn != nil {
			return p.parseCall(fn, left)
		}

		instr, err := p.parsePrimary(t)
		if err != nil {
			return nil, t, err
		}
		if instr, err = p.parsePostfix(instr); err != nil {
			return nil, t, err
		}
		left = append(left, instr)
	}
}

func makeStrand(elems []Instruction) Instruction {
	switch len(elems) {
	case 0:
		return nil
	case 1:
		return elems[0]
	}
	return &strand{elems, elems[0].Pos()}
}

func (p *parser) parseAssignment(left []Instruction, arrow parse.Token) (Instruction, parse.Token, error) {
	if len(left) != 1 {
		return nil, arrow, parse.NewError(arrow.Pos, parse.ErrUnexpectedToken,
			"the left side of an assignment must be a single variable")
	}
	ref, ok := left[0].(*varRef)
	if !ok {
		return nil, arrow, parse.NewError(left[0].Pos(), parse.ErrUnexpectedToken,
			"only variables can be assigned to")
	}
	value, t, err := p.parseValue()
	if err != nil {
		return nil, t, err
	}
	if value == nil {
		return nil, t, unexpected(t, "value")
	}
	return &assignment{ref.sym, value, arrow.Pos}, t, nil
}

func (p *parser) parseCall(fn calledFn, left []Instruction) (Instruction, parse.Token, error) {
	right, t, err := p.parseValue()
	if err != nil {
		return nil, t, err
	}
	if right == nil {
		return nil, t, unexpected(t, "argument")
	}
	if len(left) == 0 {
		return &call1{fn.fn, right, fn.axis, fn.fn.Pos()}, t, nil
	}
	return &call2{fn.fn, makeStrand(left), right, fn.axis, fn.fn.Pos()}, t, nil
}

// A function in call position, with the axis written after it.
type calledFn struct {
	fn   Function
	axis Instruction
}

// Parses a function expression starting with t, including any axis and
// operators that follow it. The function is nil if t does not start one.
func (p *parser) parseFunction(t parse.Token) (calledFn, error) {
	fn, err := p.parseFunctionOperand(t)
	if err != nil || fn == nil {
		return calledFn{}, err
	}
	axis, err := p.parseAxis()
	if err != nil {
		return calledFn{}, err
	}
	for {
		opTok, err := p.peek()
		if err != nil {
			return calledFn{}, err
		}
		op := p.operator(opTok)
		if op == nil {
			return calledFn{fn, axis}, nil
		}
		p.next()
		if axis != nil {
			fn = &axisBoundFn{fn, axis}
			axis = nil
		}
		opAxis, err := p.parseAxis()
		if err != nil {
			return calledFn{}, err
		}
		var right Function
		if op.Operands() == 2 {
			rt, err := p.next()
			if err != nil {
				return calledFn{}, err
			}
			if right, err = p.parseFunctionOperand(rt); err != nil {
				return calledFn{}, err
			}
			if right == nil {
				return calledFn{}, unexpected(rt, "function")
			}
		}
		fn = op.Combine(fn, right, opAxis, opTok.Pos)
	}
}

func (p *parser) operator(t parse.Token) Operator {
	if t.Kind != parse.SymbolToken {
		return nil
	}
	return p.eng.operator(t.Sym)
}

// Parses a function without trailing axis or operators. It returns nil if t
// does not start a function.
func (p *parser) parseFunctionOperand(t parse.Token) (Function, error) {
	switch t.Kind {
	case parse.SymbolToken:
		if p.customSyntax(t.Sym) != nil {
			return nil, nil
		}
		if d := p.function(t.Sym); d != nil {
			return d.Make(t.Pos), nil
		}
	case parse.OpenBrace:
		return p.parseDfn(t)
	case parse.Apply:
		return p.parseApply(t)
	}
	return nil, nil
}

// Parses an optional axis in brackets.
func (p *parser) parseAxis() (Instruction, error) {
	t, err := p.peek()
	if err != nil || t.Kind != parse.OpenBracket {
		return nil, err
	}
	p.next()
	axis, end, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if end.Kind != parse.CloseBracket {
		return nil, unexpected(end, "]")
	}
	if axis == nil {
		return nil, unexpected(end, "axis")
	}
	return axis, nil
}

func (p *parser) parseDfn(open parse.Token) (*dfn, error) {
	d := &dfn{
		alpha: p.Resolve("⍺"),
		omega: p.Resolve("⍵"),
		pos:   open.Pos,
	}
	body, err := p.parseStatements(open.Pos, parse.CloseBrace)
	if err != nil {
		return nil, err
	}
	d.body = body
	return d, nil
}

func (p *parser) parseApply(t parse.Token) (Function, error) {
	nt, err := p.next()
	if err != nil {
		return nil, err
	}
	var expr Instruction
	switch nt.Kind {
	case parse.SymbolToken:
		expr = &varRef{nt.Sym, nt.Pos}
	case parse.OpenParen:
		if expr, err = p.parseParen(nt); err != nil {
			return nil, err
		}
	default:
		return nil, unexpected(nt, "variable or parenthesized expression after ⍞")
	}
	return &applyFn{expr, t.Pos}, nil
}

func (p *parser) parsePrimary(t parse.Token) (Instruction, error) {
	switch t.Kind {
	case parse.IntToken:
		return &literal{vals.Int(t.Int), t.Pos}, nil
	case parse.FloatToken:
		return &literal{vals.Float(t.Float), t.Pos}, nil
	case parse.ComplexToken:
		return &literal{vals.FromComplex(t.Complex), t.Pos}, nil
	case parse.CharToken:
		return &literal{vals.Char(t.Char), t.Pos}, nil
	case parse.StringToken:
		return &literal{vals.FromString(t.Str), t.Pos}, nil
	case parse.Null:
		return &literal{vals.Zilde, t.Pos}, nil
	case parse.SymbolToken:
		if syn := p.customSyntax(t.Sym); syn != nil {
			return p.parseExpansion(t, syn)
		}
		if p.eng.symbols.IsKeyword(t.Sym) {
			return &literal{vals.Sym{Symbol: t.Sym}, t.Pos}, nil
		}
		return &varRef{t.Sym, t.Pos}, nil
	case parse.QuotePrefix:
		nt, err := p.expect(parse.SymbolToken)
		if err != nil {
			return nil, err
		}
		return &literal{vals.Sym{Symbol: nt.Sym}, t.Pos}, nil
	case parse.OpenParen:
		return p.parseParen(t)
	case parse.FnDef:
		return p.parseFnDef(t)
	case parse.Lambda:
		return p.parseLambda(t)
	case parse.IfKw:
		return p.parseIf(t)
	case parse.DefsyntaxKw:
		return p.parseDefsyntax(t)
	case parse.NamespaceKw, parse.ImportKw:
		return p.parseNamespaceOp(t)
	}
	return nil, unexpected(t, "value")
}

// Parses postfix bracket indexing.
func (p *parser) parsePostfix(instr Instruction) (Instruction, error) {
	for {
		t, err := p.peek()
		if err != nil || t.Kind != parse.OpenBracket {
			return instr, err
		}
		p.next()
		var indices []Instruction
		for {
			index, end, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			indices = append(indices, index)
			if end.Kind == parse.CloseBracket {
				break
			}
			if end.Kind != parse.ListSep {
				return nil, unexpected(end, "; or ]")
			}
		}
		instr = &indexInstr{instr, indices, t.Pos}
	}
}

// Parses the rest of a parenthesized expression, which is either a single
// value or a list of values separated by ;.
func (p *parser) parseParen(open parse.Token) (Instruction, error) {
	var items []Instruction
	for {
		item, end, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, unexpected(end, "value")
		}
		items = append(items, item)
		switch end.Kind {
		case parse.CloseParen:
			if len(items) == 1 {
				return items[0], nil
			}
			return &listInstr{items, open.Pos}, nil
		case parse.ListSep:
		default:
			return nil, unexpected(end, ")")
		}
	}
}

func (p *parser) parseIf(t parse.Token) (Instruction, error) {
	open, err := p.expect(parse.OpenParen)
	if err != nil {
		return nil, err
	}
	cond, err := p.parseParen(open)
	if err != nil {
		return nil, err
	}
	open, err = p.expect(parse.OpenBrace)
	if err != nil {
		return nil, err
	}
	then, err := p.parseStatements(open.Pos, parse.CloseBrace)
	if err != nil {
		return nil, err
	}
	x := &ifInstr{cond: cond, then: then, pos: t.Pos}

	// An else clause may start on a following line.
	var newlines []parse.Token
	for {
		nt, err := p.next()
		if err != nil {
			return nil, err
		}
		if nt.Kind == parse.Newline {
			newlines = append(newlines, nt)
			continue
		}
		if nt.Kind != parse.ElseKw {
			p.lx.PushBack(nt)
			for i := len(newlines) - 1; i >= 0; i-- {
				p.lx.PushBack(newlines[i])
			}
			return x, nil
		}
		break
	}
	open, err = p.expect(parse.OpenBrace)
	if err != nil {
		return nil, err
	}
	if x.els, err = p.parseStatements(open.Pos, parse.CloseBrace); err != nil {
		return nil, err
	}
	return x, nil
}

// Parses a function definition:
//
//	∇ [(left params)] name (right params) { body }
func (p *parser) parseFnDef(t parse.Token) (Instruction, error) {
	nt, err := p.next()
	if err != nil {
		return nil, err
	}
	var left []*sym.Symbol
	if nt.Kind == parse.OpenParen {
		if left, err = p.parseParams(nt); err != nil {
			return nil, err
		}
		if nt, err = p.next(); err != nil {
			return nil, err
		}
	}
	if nt.Kind != parse.SymbolToken {
		return nil, unexpected(nt, "function name")
	}
	name := nt.Sym
	open, err := p.expect(parse.OpenParen)
	if err != nil {
		return nil, err
	}
	right, err := p.parseParams(open)
	if err != nil {
		return nil, err
	}
	seen := make(map[*sym.Symbol]bool)
	for _, param := range append(append([]*sym.Symbol(nil), left...), right...) {
		if seen[param] {
			return nil, parse.NewError(t.Pos, parse.ErrIllegalDeclaration,
				"duplicate parameter "+param.Name())
		}
		seen[param] = true
	}

	fn := &userFn{name: name.Name(), left: left, right: right}
	p.functions[name] = fn
	if open, err = p.expect(parse.OpenBrace); err != nil {
		return nil, err
	}
	if fn.body, err = p.parseStatements(open.Pos, parse.CloseBrace); err != nil {
		return nil, err
	}
	return &literal{vals.Sym{Symbol: name}, t.Pos}, nil
}

// Parses a parenthesized parameter list, after the opening parenthesis.
func (p *parser) parseParams(open parse.Token) ([]*sym.Symbol, error) {
	var params []*sym.Symbol
	for {
		t, err := p.next()
		if err != nil {
			return nil, err
		}
		if t.Kind != parse.SymbolToken {
			return nil, parse.NewError(t.Pos, parse.ErrIllegalDeclaration,
				"parameter must be a symbol, got "+t.String())
		}
		params = append(params, t.Sym)
		if t, err = p.next(); err != nil {
			return nil, err
		}
		switch t.Kind {
		case parse.CloseParen:
			return params, nil
		case parse.ListSep:
		default:
			return nil, unexpected(t, "; or )")
		}
	}
}

func (p *parser) parseLambda(t parse.Token) (Instruction, error) {
	nt, err := p.next()
	if err != nil {
		return nil, err
	}
	fn, err := p.parseFunction(nt)
	if err != nil {
		return nil, err
	}
	if fn.fn == nil {
		return nil, unexpected(nt, "function after λ")
	}
	f := fn.fn
	if fn.axis != nil {
		f = &axisBoundFn{f, fn.axis}
	}
	return &lambdaInstr{f, t.Pos}, nil
}

// Parses namespace("name") and import("name").
func (p *parser) parseNamespaceOp(t parse.Token) (Instruction, error) {
	if _, err := p.expect(parse.OpenParen); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(parse.StringToken)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(parse.CloseParen); err != nil {
		return nil, err
	}
	if nameTok.Str == "" || nameTok.Str == sym.KeywordNamespace {
		return nil, parse.NewError(nameTok.Pos, parse.ErrIllegalDeclaration,
			"invalid namespace name "+nameTok.String())
	}
	other := p.eng.symbols.Namespace(nameTok.Str)
	if t.Kind == parse.NamespaceKw {
		p.ns = other
		if other != p.eng.core {
			p.imports[other] = append(p.imports[other], p.eng.core)
		}
	} else {
		p.imports[p.ns] = append(p.imports[p.ns], other)
	}
	return &literal{vals.FromString(nameTok.Str), t.Pos}, nil
}

// A function whose axis was written before an operator applied to it.
type axisBoundFn struct {
	Function
	axis Instruction
}

func (f *axisBoundFn) Call1(fm *Frame, a, _ vals.Value) (vals.Value, error) {
	axis, err := f.axis.Eval(fm)
	if err != nil {
		return nil, err
	}
	return f.Function.Call1(fm, a, axis)
}

func (f *axisBoundFn) Call2(fm *Frame, a, b, _ vals.Value) (vals.Value, error) {
	axis, err := f.axis.Eval(fm)
	if err != nil {
		return nil, err
	}
	return f.Function.Call2(fm, a, b, axis)
}
