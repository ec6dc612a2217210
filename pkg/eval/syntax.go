package eval

import (
	"src.rho.sh/pkg/conc"
	"src.rho.sh/pkg/diag"
	"src.rho.sh/pkg/eval/vals"
	"src.rho.sh/pkg/parse"
	"src.rho.sh/pkg/sym"
)

// A custom syntax defined with defsyntax. When the parser meets the trigger
// symbol, it matches the rules against the tokens that follow and produces
// an expansion, which evaluates the body with the bound arguments.
type customSyntax struct {
	name  *sym.Symbol
	rules []syntaxRule
	body  Instruction
	// Parent of the frames in which the body is evaluated.
	env *Env
}

type syntaxRule interface {
	// Reports whether the rule can start with t.
	matches(t parse.Token) bool
	// Consumes the tokens of the rule, adding any bindings it makes.
	process(p *parser, bindings []syntaxBinding) ([]syntaxBinding, error)
}

type syntaxBinding struct {
	sym   *sym.Symbol
	instr Instruction
}

// :constant sym matches exactly the symbol sym.
type constantRule struct{ sym *sym.Symbol }

func (r constantRule) matches(t parse.Token) bool {
	return t.Kind == parse.SymbolToken && t.Sym == r.sym
}

func (r constantRule) process(p *parser, bindings []syntaxBinding) ([]syntaxBinding, error) {
	t, err := p.next()
	if err != nil {
		return nil, err
	}
	if !r.matches(t) {
		return nil, unexpected(t, r.sym.Name())
	}
	return bindings, nil
}

// :value name matches a parenthesized expression.
type valueRule struct{ sym *sym.Symbol }

func (r valueRule) matches(t parse.Token) bool { return t.Kind == parse.OpenParen }

func (r valueRule) process(p *parser, bindings []syntaxBinding) ([]syntaxBinding, error) {
	open, err := p.expect(parse.OpenParen)
	if err != nil {
		return nil, err
	}
	instr, err := p.parseParen(open)
	if err != nil {
		return nil, err
	}
	return append(bindings, syntaxBinding{r.sym, instr}), nil
}

// :function name matches a function body in braces, which is bound as a
// lambda.
type functionRule struct{ sym *sym.Symbol }

func (r functionRule) matches(t parse.Token) bool { return t.Kind == parse.OpenBrace }

func (r functionRule) process(p *parser, bindings []syntaxBinding) ([]syntaxBinding, error) {
	open, err := p.expect(parse.OpenBrace)
	if err != nil {
		return nil, err
	}
	fn, err := p.parseDfn(open)
	if err != nil {
		return nil, err
	}
	return append(bindings, syntaxBinding{r.sym, &lambdaInstr{fn, open.Pos}}), nil
}

// :optional (rules) processes all of its rules if the first one matches the
// next token, and nothing otherwise.
type optionalRule struct{ rules []syntaxRule }

func (r optionalRule) matches(t parse.Token) bool { return r.rules[0].matches(t) }

func (r optionalRule) process(p *parser, bindings []syntaxBinding) ([]syntaxBinding, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if !r.matches(t) {
		return bindings, nil
	}
	for _, rule := range r.rules {
		if bindings, err = rule.process(p, bindings); err != nil {
			return nil, err
		}
	}
	return bindings, nil
}

// Parses a syntax definition:
//
//	defsyntax name (rules) { body }
func (p *parser) parseDefsyntax(t parse.Token) (Instruction, error) {
	nameTok, err := p.expect(parse.SymbolToken)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(parse.OpenParen); err != nil {
		return nil, err
	}
	rules, err := p.parseSyntaxRules()
	if err != nil {
		return nil, err
	}
	open, err := p.expect(parse.OpenBrace)
	if err != nil {
		return nil, err
	}
	syn := &customSyntax{name: nameTok.Sym, rules: rules, env: p.eng.root.Child()}
	p.syntax[nameTok.Sym] = syn
	if syn.body, err = p.parseStatements(open.Pos, parse.CloseBrace); err != nil {
		return nil, err
	}
	return &literal{vals.Sym{Symbol: nameTok.Sym}, t.Pos}, nil
}

// Parses rules up to and including the closing parenthesis.
func (p *parser) parseSyntaxRules() ([]syntaxRule, error) {
	var rules []syntaxRule
	for {
		t, err := p.next()
		if err != nil {
			return nil, err
		}
		if t.Kind == parse.CloseParen {
			return rules, nil
		}
		if t.Kind != parse.SymbolToken || !p.eng.symbols.IsKeyword(t.Sym) {
			return nil, parse.NewError(t.Pos, parse.ErrIllegalDeclaration,
				"syntax rule must start with a keyword, got "+t.String())
		}
		kw := t.Sym.Name()
		if kw == "optional" {
			if _, err := p.expect(parse.OpenParen); err != nil {
				return nil, err
			}
			sub, err := p.parseSyntaxRules()
			if err != nil {
				return nil, err
			}
			if len(sub) == 0 {
				return nil, parse.NewError(t.Pos, parse.ErrIllegalDeclaration,
					":optional needs at least one rule")
			}
			rules = append(rules, optionalRule{sub})
			continue
		}
		arg, err := p.next()
		if err != nil {
			return nil, err
		}
		if arg.Kind != parse.SymbolToken {
			return nil, parse.NewError(arg.Pos, parse.ErrIllegalDeclaration,
				"argument of :"+kw+" must be a symbol, got "+arg.String())
		}
		switch kw {
		case "constant":
			rules = append(rules, constantRule{arg.Sym})
		case "value":
			rules = append(rules, valueRule{arg.Sym})
		case "function":
			rules = append(rules, functionRule{arg.Sym})
		default:
			return nil, parse.NewError(t.Pos, parse.ErrIllegalDeclaration,
				"unknown syntax rule :"+kw)
		}
	}
}

func (p *parser) parseExpansion(t parse.Token, syn *customSyntax) (Instruction, error) {
	var bindings []syntaxBinding
	for _, rule := range syn.rules {
		var err error
		if bindings, err = rule.process(p, bindings); err != nil {
			return nil, err
		}
	}
	return &expansion{syn, bindings, t.Pos}, nil
}

// An instance of a custom syntax in a program.
type expansion struct {
	syn      *customSyntax
	bindings []syntaxBinding
	pos      diag.Position
}

func (x *expansion) Pos() diag.Position { return x.pos }

// Eval binds each argument as a thunk in a new frame and evaluates the body
// there. Arguments are evaluated in the calling frame, at most once per
// evaluation of the expansion, and only if the body uses them.
func (x *expansion) Eval(fm *Frame) (vals.Value, error) {
	env := x.syn.env.Child()
	slots := conc.NewAtomicSlots[vals.Value](len(x.bindings))
	for i, b := range x.bindings {
		env.setThunk(b.sym, &thunk{b.instr, fm, slots, i})
	}
	return x.syn.body.Eval(&Frame{fm.Engine, env, fm.fnName})
}
