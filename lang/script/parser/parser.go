package parser

import (
	"fmt"

	lex "github.com/cellscript/cellscript/lang/script/lexer"

	"github.com/cellscript/cellscript/lang/scope"
	"github.com/cellscript/cellscript/lang/script"
	"github.com/cellscript/cellscript/lang/token"
	"github.com/cellscript/cellscript/lang/values"
)

// Parser is a single-pass recursive-descent builder: every identifier is
// resolved to a Getter/Setter the moment it is parsed (this language "built by
// parsers... resolved at parse time"), grounded on
// Backwards/src/Parser/Parser.cpp's expression/predicate/relation/term
// descent and statement() dispatch.
type Parser struct {
	file string
	lx   *lex.Lexer
	cur  lex.Tok
	peek lex.Tok
	st   *SymbolTable
}

// New builds a Parser over src, resolving names against the global/local
// scopes given (normally ctx.Global / ctx.Local).
func New(file, src string, global, local *scope.Scope) *Parser {
	p := &Parser{file: file, lx: lex.New(file, src), st: NewSymbolTable(global, local)}
	p.cur = p.lx.Next()
	p.peek = p.lx.Next()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lx.Next()
}

func (p *Parser) tok() token.Token {
	return token.MakeToken(p.file, p.cur.Pos, int(p.cur.Kind), p.cur.Value)
}

func (p *Parser) errf(format string, args ...any) error {
	return fmt.Errorf("%s: %s", p.tok().String(), fmt.Sprintf(format, args...))
}

func (p *Parser) expect(k lex.Kind, what string) (lex.Tok, error) {
	if p.cur.Kind != k {
		return lex.Tok{}, p.errf("expected %s, found %q", what, p.cur.Value)
	}
	t := p.cur
	p.advance()
	return t, nil
}

// ParseProgram parses a whole Script source file into one Sequence
// statement (the top-level block).
func (p *Parser) ParseProgram() (script.Statement, error) {
	startTok := p.tok()
	var stmts []script.Statement
	for p.cur.Kind != lex.EOF {
		st, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	return &script.Sequence{Tok: startTok, Stmts: stmts}, nil
}

// ParseExpression parses a single standalone expression (used by Eval).
func (p *Parser) ParseExpression() (script.Expression, error) {
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != lex.EOF {
		return nil, p.errf("unexpected trailing input %q", p.cur.Value)
	}
	return e, nil
}

func (p *Parser) block(terminators ...lex.Kind) (script.Statement, error) {
	startTok := p.tok()
	var stmts []script.Statement
	for !p.atAny(terminators...) && p.cur.Kind != lex.EOF {
		st, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	return &script.Sequence{Tok: startTok, Stmts: stmts}, nil
}

func (p *Parser) atAny(ks ...lex.Kind) bool {
	for _, k := range ks {
		if p.cur.Kind == k {
			return true
		}
	}
	return false
}

// optionalLabel parses an `IDENT ':'` prefix some statements may carry to
// name a loop for labeled break/continue, a resolved ambiguity documented
// in DESIGN.md (the grammar doesn't spell out loop-naming syntax).
func (p *Parser) optionalLabel() string {
	if p.cur.Kind == lex.IDENT && p.peek.Kind == lex.COLON {
		name := p.cur.Value
		p.advance()
		p.advance()
		return name
	}
	return ""
}

func (p *Parser) statement() (script.Statement, error) {
	tok := p.tok()
	switch p.cur.Kind {
	case lex.SET:
		return p.setStatement()
	case lex.CALL:
		p.advance()
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &script.Expr{Tok: tok, Expr: e}, nil
	case lex.IF:
		return p.ifStatement()
	case lex.WHILE:
		return p.whileStatement("")
	case lex.FOR:
		return p.forStatement("")
	case lex.SELECT:
		return p.selectStatement()
	case lex.BREAK:
		p.advance()
		label := p.identOrEmpty()
		id, err := p.st.GetLoop(label)
		if err != nil {
			return nil, p.wrapErr(tok, err)
		}
		return &script.FlowControlStatement{Tok: tok, Kind: script.Break, Target: id}, nil
	case lex.CONTINUE:
		p.advance()
		label := p.identOrEmpty()
		id, err := p.st.GetLoop(label)
		if err != nil {
			return nil, p.wrapErr(tok, err)
		}
		return &script.FlowControlStatement{Tok: tok, Kind: script.Continue, Target: id}, nil
	case lex.RETURN:
		p.advance()
		if p.atStatementEnd() {
			return &script.FlowControlStatement{Tok: tok, Kind: script.Return}, nil
		}
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &script.FlowControlStatement{Tok: tok, Kind: script.Return, Value: e}, nil
	case lex.FUNCTION:
		return p.functionDeclStatement()
	case lex.IDENT:
		if p.cur.Kind == lex.IDENT && p.peek.Kind == lex.COLON {
			label := p.optionalLabel()
			if p.cur.Kind == lex.WHILE {
				return p.whileStatement(label)
			}
			if p.cur.Kind == lex.FOR {
				return p.forStatement(label)
			}
			return nil, p.errf("labels may only precede while/for")
		}
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &script.Expr{Tok: tok, Expr: e}, nil
	default:
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &script.Expr{Tok: tok, Expr: e}, nil
	}
}

func (p *Parser) wrapErr(tok token.Token, err error) error {
	return fmt.Errorf("%s: %w", tok.String(), err)
}

func (p *Parser) identOrEmpty() string {
	if p.cur.Kind == lex.IDENT {
		name := p.cur.Value
		p.advance()
		return name
	}
	return ""
}

// atStatementEnd reports whether the current token cannot start an
// expression, meaning a bare `return`/`break` with no payload.
func (p *Parser) atStatementEnd() bool {
	switch p.cur.Kind {
	case lex.END, lex.ELSE, lex.ELSEIF, lex.EOF, lex.CASE, lex.ALSO:
		return true
	default:
		return false
	}
}

func (p *Parser) setStatement() (script.Statement, error) {
	tok := p.tok()
	p.advance() // SET
	nameTok, err := p.expect(lex.IDENT, "identifier")
	if err != nil {
		return nil, err
	}

	var indices []script.Expression
	for p.cur.Kind == lex.LBRACK || p.cur.Kind == lex.DOT {
		if p.cur.Kind == lex.LBRACK {
			p.advance()
			ix, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lex.RBRACK, "]"); err != nil {
				return nil, err
			}
			indices = append(indices, ix)
		} else {
			p.advance()
			field, err := p.expect(lex.IDENT, "field name")
			if err != nil {
				return nil, err
			}
			indices = append(indices, &script.Constant{Tok: tok, Value: values.String(field.Value)})
		}
	}

	if _, err := p.expect(lex.TO, "to"); err != nil {
		return nil, err
	}
	rhs, err := p.expression()
	if err != nil {
		return nil, err
	}

	if len(indices) == 0 {
		setter, err := p.st.Setter(nameTok.Value)
		if err != nil {
			return nil, p.wrapErr(tok, err)
		}
		return &script.Assignment{Tok: tok, Setter: setter, Rhs: rhs}, nil
	}

	getter, selfRef, err := p.st.Getter(nameTok.Value)
	if err != nil {
		return nil, p.wrapErr(tok, err)
	}
	if selfRef != nil {
		return nil, p.errf("cannot index-assign into a function reference")
	}
	setter, err := p.st.Setter(nameTok.Value)
	if err != nil {
		return nil, p.wrapErr(tok, err)
	}
	return &script.RecAssignState{Tok: tok, Getter: getter, Setter: setter, Indices: indices, Rhs: rhs}, nil
}

func (p *Parser) ifStatement() (script.Statement, error) {
	tok := p.tok()
	p.advance() // IF
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.THEN, "then"); err != nil {
		return nil, err
	}
	thenBranch, err := p.block(lex.ELSEIF, lex.ELSE, lex.END)
	if err != nil {
		return nil, err
	}
	if p.cur.Kind == lex.ELSEIF {
		p.cur.Kind = lex.IF // reinterpret elseif as a nested if for the else-branch
		elseBranch, err := p.ifStatement()
		if err != nil {
			return nil, err
		}
		return &script.IfStatement{Tok: tok, Condition: cond, ThenBranch: thenBranch, ElseBranch: elseBranch}, nil
	}
	var elseBranch script.Statement
	if p.cur.Kind == lex.ELSE {
		p.advance()
		elseBranch, err = p.block(lex.END)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lex.END, "end"); err != nil {
		return nil, err
	}
	return &script.IfStatement{Tok: tok, Condition: cond, ThenBranch: thenBranch, ElseBranch: elseBranch}, nil
}

func (p *Parser) whileStatement(label string) (script.Statement, error) {
	tok := p.tok()
	p.advance() // WHILE
	id := p.st.NewLoop()
	p.st.NameLoop(id, label)
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.DO, "do"); err != nil {
		return nil, err
	}
	body, err := p.block(lex.END)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.END, "end"); err != nil {
		return nil, err
	}
	p.st.PopLoop()
	return &script.WhileStatement{Tok: tok, LoopID: id, Condition: cond, Body: body}, nil
}

func (p *Parser) forStatement(label string) (script.Statement, error) {
	tok := p.tok()
	p.advance() // FOR
	varTok, err := p.expect(lex.IDENT, "loop variable")
	if err != nil {
		return nil, err
	}

	if p.cur.Kind == lex.IN {
		p.advance()
		src, err := p.expression()
		if err != nil {
			return nil, err
		}
		setter, err := p.st.Setter(varTok.Value)
		if err != nil {
			return nil, p.wrapErr(tok, err)
		}
		id := p.st.NewLoop()
		p.st.NameLoop(id, label)
		if _, err := p.expect(lex.DO, "do"); err != nil {
			return nil, err
		}
		body, err := p.block(lex.END)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.END, "end"); err != nil {
			return nil, err
		}
		p.st.PopLoop()
		return &script.ForStatement{Tok: tok, LoopID: id, Body: body, ElementSetter: setter, Source: src}, nil
	}

	if _, err := p.expect(lex.FROM, "from"); err != nil {
		return nil, err
	}
	from, err := p.expression()
	if err != nil {
		return nil, err
	}
	downTo := false
	if p.cur.Kind == lex.DOWNTO {
		downTo = true
		p.advance()
	} else if _, err := p.expect(lex.TO, "to"); err != nil {
		return nil, err
	}
	to, err := p.expression()
	if err != nil {
		return nil, err
	}
	var step script.Expression
	if p.cur.Kind == lex.STEP {
		p.advance()
		step, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	setter, err := p.st.Setter(varTok.Value)
	if err != nil {
		return nil, p.wrapErr(tok, err)
	}
	id := p.st.NewLoop()
	p.st.NameLoop(id, label)
	if _, err := p.expect(lex.DO, "do"); err != nil {
		return nil, err
	}
	body, err := p.block(lex.END)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.END, "end"); err != nil {
		return nil, err
	}
	p.st.PopLoop()
	return &script.ForStatement{
		Tok: tok, LoopID: id, Body: body,
		LoopIter: &script.LoopIter{VarSetter: setter, From: from, To: to, Step: step, DownTo: downTo},
	}, nil
}

// selectStatement parses `select expr from [also] case (below|above|from
// EXPR to)? EXPR is BLOCK ... [also] case else is BLOCK end`. A `case` arm
// preceded by `also` does not break: once an earlier arm in the same run
// matches, execution falls through the `also` arm's body too, without
// re-testing its own condition, until an arm that was NOT introduced by
// `also` is reached. When no earlier arm matched, an `also` arm is tested
// against the selector like any other arm. This mirrors the original engine's CaseContainer
// breaking flag and do-while fallthrough loop.
func (p *Parser) selectStatement() (script.Statement, error) {
	tok := p.tok()
	p.advance() // SELECT
	sel, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.FROM, "from"); err != nil {
		return nil, err
	}
	var cases []*script.CaseContainer
	for p.cur.Kind == lex.CASE || p.cur.Kind == lex.ALSO {
		breaking := true
		if p.cur.Kind == lex.ALSO {
			breaking = false
			p.advance()
		}
		caseTok := p.tok()
		if _, err := p.expect(lex.CASE, "case"); err != nil {
			return nil, err
		}
		cc := &script.CaseContainer{Tok: caseTok, Breaking: breaking}
		switch {
		case p.cur.Kind == lex.ELSE:
			p.advance()
		case p.cur.Kind == lex.FROM:
			p.advance()
			lower, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lex.TO, "to"); err != nil {
				return nil, err
			}
			upper, err := p.expression()
			if err != nil {
				return nil, err
			}
			cc.Lower = lower
			cc.Condition = upper
		default:
			if p.cur.Kind == lex.BELOW {
				cc.Below = true
				p.advance()
			} else if p.cur.Kind == lex.ABOVE {
				cc.Above = true
				p.advance()
			}
			cond, err := p.expression()
			if err != nil {
				return nil, err
			}
			cc.Condition = cond
		}
		if _, err := p.expect(lex.IS, "is"); err != nil {
			return nil, err
		}
		body, err := p.block(lex.CASE, lex.ALSO, lex.END)
		if err != nil {
			return nil, err
		}
		cc.Body = body
		cases = append(cases, cc)
	}
	if _, err := p.expect(lex.END, "end"); err != nil {
		return nil, err
	}
	return &script.SelectStatement{Tok: tok, Selector: sel, Cases: cases}, nil
}

// functionDeclStatement parses `function name ( args ) is BLOCK end` as a
// statement, desugared to `set name to function (args) is BLOCK end`.
func (p *Parser) functionDeclStatement() (script.Statement, error) {
	tok := p.tok()
	fnExpr, name, err := p.functionLiteral(true)
	if err != nil {
		return nil, err
	}
	setter, err := p.st.DeclareFunctionName(name)
	if err != nil {
		return nil, p.wrapErr(tok, err)
	}
	return &script.Assignment{Tok: tok, Setter: setter, Rhs: fnExpr}, nil
}

// -------- expressions --------

func (p *Parser) expression() (script.Expression, error) {
	cond, err := p.predicate()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind == lex.QMARK {
		tok := p.tok()
		p.advance()
		thenCase, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.COLON, ":"); err != nil {
			return nil, err
		}
		elseCase, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &script.TernaryOperation{Tok: tok, Condition: cond, ThenCase: thenCase, ElseCase: elseCase}, nil
	}
	return cond, nil
}

func (p *Parser) predicate() (script.Expression, error) {
	lhs, err := p.relation()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == lex.AND || p.cur.Kind == lex.OR {
		tok := p.tok()
		isAnd := p.cur.Kind == lex.AND
		p.advance()
		rhs, err := p.relation()
		if err != nil {
			return nil, err
		}
		if isAnd {
			lhs = &script.ShortAnd{Tok: tok, Lhs: lhs, Rhs: rhs}
		} else {
			lhs = &script.ShortOr{Tok: tok, Lhs: lhs, Rhs: rhs}
		}
	}
	return lhs, nil
}

func (p *Parser) relation() (script.Expression, error) {
	lhs, err := p.additive()
	if err != nil {
		return nil, err
	}
	switch p.cur.Kind {
	case lex.EQ, lex.NEQ, lex.LT, lex.GT, lex.LE, lex.GE:
		tok := p.tok()
		kind := p.cur.Kind
		p.advance()
		rhs, err := p.additive()
		if err != nil {
			return nil, err
		}
		switch kind {
		case lex.EQ:
			return script.NewEquals(tok, lhs, rhs), nil
		case lex.NEQ:
			return script.NewNotEqual(tok, lhs, rhs), nil
		case lex.LT:
			return script.NewLess(tok, lhs, rhs), nil
		case lex.GT:
			return script.NewGreater(tok, lhs, rhs), nil
		case lex.LE:
			return script.NewLEQ(tok, lhs, rhs), nil
		case lex.GE:
			return script.NewGEQ(tok, lhs, rhs), nil
		}
	}
	return lhs, nil
}

func (p *Parser) additive() (script.Expression, error) {
	lhs, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == lex.PLUS || p.cur.Kind == lex.MINUS || p.cur.Kind == lex.AMP {
		tok := p.tok()
		kind := p.cur.Kind
		p.advance()
		rhs, err := p.term()
		if err != nil {
			return nil, err
		}
		switch kind {
		case lex.PLUS:
			lhs = script.NewPlus(tok, lhs, rhs)
		case lex.MINUS:
			lhs = script.NewMinus(tok, lhs, rhs)
		case lex.AMP:
			lhs = &catExpr{Tok: tok, Lhs: lhs, Rhs: rhs}
		}
	}
	return lhs, nil
}

func (p *Parser) term() (script.Expression, error) {
	lhs, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == lex.STAR || p.cur.Kind == lex.SLASH {
		tok := p.tok()
		kind := p.cur.Kind
		p.advance()
		rhs, err := p.unary()
		if err != nil {
			return nil, err
		}
		if kind == lex.STAR {
			lhs = script.NewMultiply(tok, lhs, rhs)
		} else {
			lhs = script.NewDivide(tok, lhs, rhs)
		}
	}
	return lhs, nil
}

func (p *Parser) unary() (script.Expression, error) {
	switch p.cur.Kind {
	case lex.NOT:
		tok := p.tok()
		p.advance()
		arg, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &script.Not{Tok: tok, Arg: arg}, nil
	case lex.MINUS:
		tok := p.tok()
		p.advance()
		arg, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &script.Negate{Tok: tok, Arg: arg}, nil
	default:
		return p.postfix()
	}
}

func (p *Parser) postfix() (script.Expression, error) {
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Kind {
		case lex.LPAREN:
			tok := p.tok()
			p.advance()
			var args []script.Expression
			for p.cur.Kind != lex.RPAREN {
				a, err := p.expression()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if p.cur.Kind == lex.COMMA {
					p.advance()
					continue
				}
				break
			}
			if _, err := p.expect(lex.RPAREN, ")"); err != nil {
				return nil, err
			}
			e = &script.FunctionCall{Tok: tok, Location: e, Args: args}
		case lex.LBRACK:
			tok := p.tok()
			p.advance()
			ix, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lex.RBRACK, "]"); err != nil {
				return nil, err
			}
			e = script.NewDerefVar(tok, e, ix)
		case lex.DOT:
			tok := p.tok()
			p.advance()
			field, err := p.expect(lex.IDENT, "field name")
			if err != nil {
				return nil, err
			}
			e = script.NewDerefVar(tok, e, &script.Constant{Tok: tok, Value: values.String(field.Value)})
		default:
			return e, nil
		}
	}
}

func (p *Parser) primary() (script.Expression, error) {
	tok := p.tok()
	switch p.cur.Kind {
	case lex.NUMBER:
		text := p.cur.Value
		p.advance()
		return &numberLiteral{Tok: tok, Text: text}, nil
	case lex.STRING:
		text := p.cur.Value
		p.advance()
		return &script.Constant{Tok: tok, Value: values.String(text)}, nil
	case lex.IDENT:
		name := p.cur.Value
		p.advance()
		getter, selfRef, err := p.st.Getter(name)
		if err != nil {
			return nil, p.wrapErr(tok, err)
		}
		if selfRef != nil {
			return &script.SelfReference{Tok: tok, Ref: selfRef}, nil
		}
		return &script.Variable{Tok: tok, Getter: getter}, nil
	case lex.LPAREN:
		p.advance()
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.RPAREN, ")"); err != nil {
			return nil, err
		}
		return e, nil
	case lex.FUNCTION:
		e, _, err := p.functionLiteral(false)
		return e, err
	case lex.LBRACE:
		return p.collectionLiteral()
	default:
		return nil, p.errf("unexpected token %q in expression", p.cur.Value)
	}
}

// builtinCall resolves name (PushBack/Insert) against the symbol table the
// way any other identifier reference would, and wraps it in a FunctionCall
// against args -- the call-site rewriting collectionLiteral needs to chain
// array/dictionary literal elements into the standard library functions
// that build them, rather than inventing dedicated AST nodes.
func (p *Parser) builtinCall(tok token.Token, name string, args ...script.Expression) (script.Expression, error) {
	getter, _, err := p.st.Getter(name)
	if err != nil {
		return nil, p.wrapErr(tok, fmt.Errorf("%s is not available (standard library not installed): %w", name, err))
	}
	return &script.FunctionCall{Tok: tok, Location: &script.Variable{Tok: tok, Getter: getter}, Args: args}, nil
}

// collectionLiteral parses an array literal `{e1; e2; ...}` or a
// dictionary literal `{k1: v1; k2: v2; ...}`, rewriting it at parse time
// into a chain of PushBack/Insert calls seeded from an empty collection,
// grounded on Backwards/Parser/Parser.cpp's builder().
func (p *Parser) collectionLiteral() (script.Expression, error) {
	tok := p.tok()
	p.advance() // {

	if p.cur.Kind == lex.RBRACE {
		p.advance()
		return &script.Constant{Tok: tok, Value: values.NewArray(nil)}, nil
	}

	key, err := p.expression()
	if err != nil {
		return nil, err
	}

	if p.cur.Kind == lex.COLON {
		p.advance()
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		ret, err := p.builtinCall(tok, "Insert", &script.Constant{Tok: tok, Value: values.NewDictionary(0)}, key, value)
		if err != nil {
			return nil, err
		}
		for p.cur.Kind == lex.SEMI {
			p.advance()
			nextKey, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lex.COLON, ":"); err != nil {
				return nil, err
			}
			nextValue, err := p.expression()
			if err != nil {
				return nil, err
			}
			ret, err = p.builtinCall(tok, "Insert", ret, nextKey, nextValue)
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(lex.RBRACE, "}"); err != nil {
			return nil, err
		}
		return ret, nil
	}

	ret, err := p.builtinCall(tok, "PushBack", &script.Constant{Tok: tok, Value: values.NewArray(nil)}, key)
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == lex.SEMI {
		p.advance()
		next, err := p.expression()
		if err != nil {
			return nil, err
		}
		ret, err = p.builtinCall(tok, "PushBack", ret, next)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lex.RBRACE, "}"); err != nil {
		return nil, err
	}
	return ret, nil
}

// functionLiteral parses `function [name] ( arg, arg, ... ) is BLOCK end`.
// namedDecl indicates it is being used in statement position, where the
// name is required and is returned for the caller to bind.
func (p *Parser) functionLiteral(namedDecl bool) (script.Expression, string, error) {
	tok := p.tok()
	p.advance() // FUNCTION

	var name string
	if p.cur.Kind == lex.IDENT {
		name = p.cur.Value
		p.advance()
	} else if namedDecl {
		return nil, "", p.errf("expected function name")
	}

	if _, err := p.expect(lex.LPAREN, "("); err != nil {
		return nil, "", err
	}

	var selfRef *script.SelfFunctionRef
	if name != "" {
		selfRef = &script.SelfFunctionRef{}
	}
	p.st.PushFunction(name, selfRef)

	var argNames []string
	for p.cur.Kind != lex.RPAREN {
		argTok, err := p.expect(lex.IDENT, "argument name")
		if err != nil {
			return nil, "", err
		}
		argNames = append(argNames, argTok.Value)
		p.st.AddArgument(argTok.Value)
		if p.cur.Kind == lex.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lex.RPAREN, ")"); err != nil {
		return nil, "", err
	}
	if _, err := p.expect(lex.IS, "is"); err != nil {
		return nil, "", err
	}
	body, err := p.block(lex.END)
	if err != nil {
		return nil, "", err
	}
	if _, err := p.expect(lex.END, "end"); err != nil {
		return nil, "", err
	}

	fctx := p.st.PopFunction()

	// Capture expressions: one per captured name, evaluated in the
	// *enclosing* scope -- each resolves through the symbol table exactly
	// as any other variable reference would from here.
	captureExprs := make([]script.Expression, len(fctx.capNames))
	for i, cn := range fctx.capNames {
		g, sref, err := p.st.Getter(cn)
		if err != nil {
			return nil, "", p.wrapErr(tok, err)
		}
		if sref != nil {
			captureExprs[i] = &script.SelfReference{Tok: tok, Ref: sref}
		} else {
			captureExprs[i] = &script.Variable{Tok: tok, Getter: g}
		}
	}

	def := &scope.FunctionDef{
		Name: name, Body: body,
		NArgs: len(fctx.argNames), NLocals: len(fctx.localNames), NCaptures: len(fctx.capNames),
		ArgNames: fctx.argNames, LocalNames: fctx.localNames, CaptureNames: fctx.capNames,
	}
	return &script.BuildFunction{Tok: tok, Def: def, Captures: captureExprs, SelfRef: selfRef}, name, nil
}

// catExpr implements Script's `&` string-concatenation operator, distinct
// from DerefVar/Plus (this language operator table lists '&' for Cell; Script
// reuses it for the same purpose via values.Cat).
type catExpr struct {
	Tok      token.Token
	Lhs, Rhs script.Expression
}

func (e *catExpr) Token() token.Token { return e.Tok }
func (e *catExpr) Evaluate(ctx *scope.Context) (values.Value, error) {
	a, err := e.Lhs.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	b, err := e.Rhs.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	v, err := values.Cat(a, b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Tok.String(), err)
	}
	return v, nil
}

// numberLiteral defers float construction to evaluation time so it mints
// the value through the active context's numeric backend, matching
// whichever backend the embedder selected (this language "selected at
// process start by a discriminator").
type numberLiteral struct {
	Tok  token.Token
	Text string
}

func (e *numberLiteral) Token() token.Token { return e.Tok }
func (e *numberLiteral) Evaluate(ctx *scope.Context) (values.Value, error) {
	n, err := ctx.Backend.Parse(e.Text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Tok.String(), err)
	}
	return values.NewFloat(n), nil
}
