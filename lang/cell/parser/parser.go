// Package parser builds a Cell expression tree from source text in a
// single recursive-descent pass, grounded on Forwards/Parser/Parser.cpp's
// expression/simple/term/unary/primary ladder.
package parser

import (
	"fmt"

	"github.com/cellscript/cellscript/lang/cell"
	lex "github.com/cellscript/cellscript/lang/cell/lexer"
	"github.com/cellscript/cellscript/lang/token"
	"github.com/cellscript/cellscript/lang/values"
)

// Parser parses one Cell expression from source text. origCol/origRow
// is the home cell this formula is parsed for: every relative CellRef
// literal parsed from this source shares that single anchor, so a
// later render/evaluate at a different (col, row) shifts all of them
// by the same (col-origCol, row-origRow) delta.
type Parser struct {
	file             string
	lx               *lex.Lexer
	cur              lex.Tok
	Reg              *cell.Registry
	origCol, origRow int
}

// New creates a Parser over src anchored at (origCol, origRow) -- the
// cell this formula is being parsed for. reg is the Name registry used
// to resolve `_name` references; a nil registry is fine for
// expressions that don't use named cells.
func New(file, src string, reg *cell.Registry, origCol, origRow int) *Parser {
	if reg == nil {
		reg = cell.NewRegistry()
	}
	p := &Parser{file: file, lx: lex.New(file, src), Reg: reg, origCol: origCol, origRow: origRow}
	p.advance()
	return p
}

func (p *Parser) advance() { p.cur = p.lx.Next() }

func (p *Parser) tok() token.Token {
	return token.MakeToken(p.file, p.cur.Pos, int(p.cur.Kind), p.cur.Value)
}

func (p *Parser) errf(format string, args ...any) error {
	return fmt.Errorf("%s:%d:%d: %s", p.file, p.cur.Line, p.cur.Col, fmt.Sprintf(format, args...))
}

// ParseExpression parses a full Cell expression and requires the
// input be exhausted afterward, the way ParseFullExpression does.
func (p *Parser) ParseExpression() (cell.Expression, error) {
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != lex.EOF {
		return nil, p.errf("unexpected trailing input %q", p.cur.Value)
	}
	return e, nil
}

// expression is the lowest-precedence level: a single optional
// comparison between two `simple` subexpressions.
func (p *Parser) expression() (cell.Expression, error) {
	lhs, err := p.simple()
	if err != nil {
		return nil, err
	}
	switch p.cur.Kind {
	case lex.EQ, lex.NEQ, lex.GT, lex.LT, lex.LE, lex.GE:
		opTok, kind := p.tok(), p.cur.Kind
		p.advance()
		rhs, err := p.simple()
		if err != nil {
			return nil, err
		}
		switch kind {
		case lex.EQ:
			return cell.NewEquals(opTok, lhs, rhs), nil
		case lex.NEQ:
			return cell.NewNotEqual(opTok, lhs, rhs), nil
		case lex.GT:
			return cell.NewGreater(opTok, lhs, rhs), nil
		case lex.LT:
			return cell.NewLess(opTok, lhs, rhs), nil
		case lex.GE:
			return cell.NewGEQ(opTok, lhs, rhs), nil
		case lex.LE:
			return cell.NewLEQ(opTok, lhs, rhs), nil
		}
	}
	return lhs, nil
}

// simple handles +, - and & (string concatenation), left-associative.
func (p *Parser) simple() (cell.Expression, error) {
	lhs, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == lex.PLUS || p.cur.Kind == lex.MINUS || p.cur.Kind == lex.AMP {
		opTok, kind := p.tok(), p.cur.Kind
		p.advance()
		rhs, err := p.term()
		if err != nil {
			return nil, err
		}
		switch kind {
		case lex.PLUS:
			lhs = cell.NewPlus(opTok, lhs, rhs)
		case lex.MINUS:
			lhs = cell.NewMinus(opTok, lhs, rhs)
		case lex.AMP:
			lhs = cell.NewCat(opTok, lhs, rhs)
		}
	}
	return lhs, nil
}

// term handles * and /, left-associative.
func (p *Parser) term() (cell.Expression, error) {
	lhs, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == lex.STAR || p.cur.Kind == lex.SLASH {
		opTok, kind := p.tok(), p.cur.Kind
		p.advance()
		rhs, err := p.unary()
		if err != nil {
			return nil, err
		}
		if kind == lex.STAR {
			lhs = cell.NewMultiply(opTok, lhs, rhs)
		} else {
			lhs = cell.NewDivide(opTok, lhs, rhs)
		}
	}
	return lhs, nil
}

func (p *Parser) unary() (cell.Expression, error) {
	if p.cur.Kind == lex.MINUS {
		opTok := p.tok()
		p.advance()
		arg, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &cell.Negate{Tok: opTok, Arg: arg}, nil
	}
	return p.primary()
}

func (p *Parser) primary() (cell.Expression, error) {
	switch p.cur.Kind {
	case lex.CELLREF:
		return p.cellRefExpr()
	case lex.IDENT:
		return p.functionCall()
	case lex.NAME:
		tok := p.tok()
		name := p.cur.Value
		p.advance()
		return &cell.Name{Tok: tok, Name: name, Reg: p.Reg}, nil
	case lex.NUMBER:
		tok := p.tok()
		text := p.cur.Value
		p.advance()
		return cell.NewNumberConstant(tok, text), nil
	case lex.STRING:
		tok := p.tok()
		text := p.cur.Value
		p.advance()
		return &cell.Constant{Tok: tok, Value: values.String(text)}, nil
	case lex.LPAREN:
		p.advance()
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		if p.cur.Kind != lex.RPAREN {
			return nil, p.errf("expected ')' but found %q", p.cur.Value)
		}
		p.advance()
		return e, nil
	default:
		return nil, p.errf("expected a primary expression but found %q", p.cur.Value)
	}
}

func (p *Parser) cellRefExpr() (cell.Expression, error) {
	tok := p.tok()
	ref, err := parseCellRefText(p.cur.Value)
	if err != nil {
		return nil, p.errf("%s", err)
	}
	p.advance()
	var result cell.Expression = &cell.RefExpr{Tok: tok, Ref: ref, RefCol: p.origCol, RefRow: p.origRow}

	if p.cur.Kind == lex.RANGE {
		p.advance()
		if p.cur.Kind != lex.CELLREF {
			return nil, p.errf("expected a cell reference after ':' but found %q", p.cur.Value)
		}
		otherTok := p.tok()
		other, err := parseCellRefText(p.cur.Value)
		if err != nil {
			return nil, p.errf("%s", err)
		}
		p.advance()
		result = &cell.MakeRange{
			Tok:  tok,
			From: result.(*cell.RefExpr),
			To:   &cell.RefExpr{Tok: otherTok, Ref: other, RefCol: p.origCol, RefRow: p.origRow},
		}
	}

	if p.cur.Kind == lex.SHEET {
		sheetTok := p.tok()
		sheet := p.cur.Value
		p.advance()
		result = &cell.MoveReference{Tok: sheetTok, Ref: result, Sheet: sheet}
	}

	return result, nil
}

func (p *Parser) functionCall() (cell.Expression, error) {
	tok := p.tok()
	name := p.cur.Value
	p.advance()
	var args []cell.Expression
	if p.cur.Kind == lex.LPAREN {
		p.advance()
		if p.cur.Kind != lex.RPAREN {
			e, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, e)
			for p.cur.Kind == lex.SEMI {
				p.advance()
				e, err := p.expression()
				if err != nil {
					return nil, err
				}
				args = append(args, e)
			}
		}
		if p.cur.Kind != lex.RPAREN {
			return nil, p.errf("expected ')' but found %q", p.cur.Value)
		}
		p.advance()
	}
	return &cell.FunctionCall{Tok: tok, Name: name, Args: args}, nil
}

// parseCellRefText parses a CELLREF token's text -- an optional leading
// '$', one to four column letters, an optional '$' and one to twelve
// row digits -- into a values.CellRef, mirroring
// Forwards/Parser/Parser.cpp's cellref().
func parseCellRefText(text string) (values.CellRef, error) {
	i := 0
	var ref values.CellRef
	if i < len(text) && text[i] == '$' {
		ref.AbsCol = true
		i++
	}
	colStart := i
	for i < len(text) && text[i] >= 'A' && text[i] <= 'Z' {
		i++
	}
	if i == colStart {
		return values.CellRef{}, fmt.Errorf("malformed cell reference %q", text)
	}
	col := 0
	for _, c := range text[colStart:i] {
		col = col*26 + int(c-'A'+1)
	}
	ref.Col = col
	if i < len(text) && text[i] == '$' {
		ref.AbsRow = true
		i++
	}
	rowStart := i
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == rowStart || i != len(text) {
		return values.CellRef{}, fmt.Errorf("malformed cell reference %q", text)
	}
	row := 0
	for _, c := range text[rowStart:i] {
		row = row*10 + int(c-'0')
	}
	ref.Row = row
	return ref, nil
}
