package parser

import (
	"pyilc/src/ast"
	"pyilc/src/token"
	"pyilc/src/types"
)

// parseExpr implements the Pratt / precedence-climbing loop of spec
// §4.4: prefix atom, postfix call/index chaining, then infix operators
// at or above minPrec.
func (p *parser) parseExpr(minPrec int) ast.Expr {
	lhs := p.parsePrefix()
	if lhs == nil {
		return nil
	}
	lhs = p.parsePostfix(lhs, minPrec)
	if lhs == nil {
		return nil
	}
	return p.parseInfix(lhs, minPrec)
}

// parsePrefix handles unary prefix operators and atoms.
func (p *parser) parsePrefix() ast.Expr {
	switch p.cur().Kind {
	case token.PLUS, token.MINUS:
		op := p.advance()
		operand := p.parseExpr(precUnary)
		if operand == nil {
			return nil
		}
		return &ast.Unary{Op: op.Kind.String(), Operand: operand, ExprBase: newBase(op)}
	case token.NOT:
		op := p.advance()
		operand := p.parseExpr(precNot)
		if operand == nil {
			return nil
		}
		return &ast.Unary{Op: "not", Operand: operand, ExprBase: newBase(op)}
	default:
		return p.parseAtom()
	}
}

// newBase constructs the exprBase embed from a token, stamping location
// and the default `any` type slot (spec §4.3).
func newBase(t token.Token) ast.ExprBase {
	return ast.ExprBase{Pos: ast.Pos{Line: t.Line, Col: t.Col}, Typ: types.Any()}
}

func (p *parser) parseAtom() ast.Expr {
	t := p.cur()
	switch t.Kind {
	case token.INTEGER:
		p.advance()
		n := &ast.Number{Text: t.Text, Kind: ast.IntKind, ExprBase: newBase(t)}
		n.SetType(types.Of(types.Global().ByID(types.IntID)))
		return n
	case token.FLOAT:
		p.advance()
		n := &ast.Number{Text: t.Text, Kind: ast.FloatKind, ExprBase: newBase(t)}
		n.SetType(types.Of(types.Global().ByID(types.DoubleID)))
		return n
	case token.STRING:
		p.advance()
		s := &ast.String{Value: t.Text, ExprBase: newBase(t)}
		s.SetType(types.Of(types.Global().ByID(types.StringID)))
		return s
	case token.BOOL:
		p.advance()
		b := &ast.Bool{Value: t.Text == "True", ExprBase: newBase(t)}
		b.SetType(types.Of(types.Global().ByID(types.BoolID)))
		return b
	case token.NONE:
		p.advance()
		n := &ast.None{ExprBase: newBase(t)}
		n.SetType(types.Of(types.Global().ByID(types.NoneID)))
		return n
	case token.IDENTIFIER:
		p.advance()
		return &ast.Variable{Name: t.Text, ExprBase: newBase(t)}
	case token.LPAREN:
		p.advance()
		e := p.parseExpr(0)
		if e == nil {
			return nil
		}
		if _, ok := p.expect(token.RPAREN); !ok {
			return nil
		}
		return e
	case token.LBRACKET:
		return p.parseListLiteral()
	case token.LBRACE:
		return p.parseDictLiteral()
	default:
		p.errorf("unexpected token %s (%q) in expression", t.Kind, t.Text)
		return nil
	}
}

func (p *parser) parseListLiteral() ast.Expr {
	start := p.advance() // consume '['
	lst := &ast.List{ExprBase: newBase(start)}
	for p.cur().Kind != token.RBRACKET {
		e := p.parseExpr(0)
		if e == nil {
			return nil
		}
		lst.Elements = append(lst.Elements, e)
		if p.cur().Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(token.RBRACKET); !ok {
		return nil
	}
	return lst
}

func (p *parser) parseDictLiteral() ast.Expr {
	start := p.advance() // consume '{'
	d := &ast.Dict{ExprBase: newBase(start)}
	for p.cur().Kind != token.RBRACE {
		k := p.parseExpr(0)
		if k == nil {
			return nil
		}
		if _, ok := p.expect(token.COLON); !ok {
			return nil
		}
		v := p.parseExpr(0)
		if v == nil {
			return nil
		}
		d.Pairs = append(d.Pairs, ast.DictPair{Key: k, Value: v})
		if p.cur().Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(token.RBRACE); !ok {
		return nil
	}
	return d
}

// parsePostfix consumes call/index suffixes while their precedence (70)
// is at least minPrec, per spec §4.4 step 2.
func (p *parser) parsePostfix(lhs ast.Expr, minPrec int) ast.Expr {
	for precPostfix >= minPrec {
		switch p.cur().Kind {
		case token.LBRACKET:
			start := p.advance()
			idx := p.parseExpr(0)
			if idx == nil {
				return nil
			}
			if _, ok := p.expect(token.RBRACKET); !ok {
				return nil
			}
			lhs = &ast.Index{Target: lhs, Idx: idx, ExprBase: newBase(start)}
		case token.LPAREN:
			start := p.advance()
			var args []ast.Expr
			for p.cur().Kind != token.RPAREN {
				a := p.parseExpr(0)
				if a == nil {
					return nil
				}
				args = append(args, a)
				if p.cur().Kind == token.COMMA {
					p.advance()
					continue
				}
				break
			}
			if _, ok := p.expect(token.RPAREN); !ok {
				return nil
			}
			lhs = &ast.Call{Callee: lhs, Args: args, ExprBase: newBase(start)}
		default:
			return lhs
		}
	}
	return lhs
}

// infixOpText returns the operator text and token width of the infix
// operator starting at k, expanding the two-word operators `is not` and
// `not in` that spec §4.4's operator table lists alongside the
// single-word relational operators.
func (p *parser) infixOpText(k token.Kind) (string, int) {
	switch k {
	case token.IS:
		if p.peekAt(1).Kind == token.NOT {
			return "is not", 2
		}
		return "is", 1
	case token.NOT:
		if p.peekAt(1).Kind == token.IN {
			return "not in", 2
		}
		return "", 0
	default:
		return k.String(), 1
	}
}

// parseInfix consumes binary operators with precedence >= minPrec,
// recursing with next-min = prec + (right-associative ? 0 : 1), per
// spec §4.4 step 3.
func (p *parser) parseInfix(lhs ast.Expr, minPrec int) ast.Expr {
	for {
		k := p.cur().Kind
		opText, width := p.infixOpText(k)
		if width == 0 {
			return lhs
		}
		info, ok := binaryOps[k]
		if !ok {
			return lhs
		}
		if info.prec < minPrec {
			return lhs
		}
		startTok := p.cur()
		for i := 0; i < width; i++ {
			p.advance()
		}
		nextMin := info.prec + 1
		if info.assoc == rightAssoc {
			nextMin = info.prec
		}
		rhs := p.parseExpr(nextMin)
		if rhs == nil {
			return nil
		}
		lhs = &ast.Binary{Op: opText, LHS: lhs, RHS: rhs, ExprBase: newBase(startTok)}
	}
}
