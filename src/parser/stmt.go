package parser

import (
	"pyilc/src/ast"
	"pyilc/src/token"
)

// parseStatement dispatches on the leading token kind, mirroring the
// teacher's gen() switch-on-node-kind dispatch in ir/llvm/transform.go
// but keyed by token.Kind instead of node kind, since here the dispatch
// builds the tree rather than walking one already built.
func (p *parser) parseStatement() ast.Stmt {
	switch p.cur().Kind {
	case token.DEF:
		return p.parseFunctionDef()
	case token.CLASS:
		return p.parseClass()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		return p.parseBreak()
	case token.CONTINUE:
		return p.parseContinue()
	case token.PASS:
		return p.parsePass()
	case token.PRINT:
		return p.parsePrint()
	case token.IMPORT:
		return p.parseImport()
	default:
		return p.parseSimpleStatement()
	}
}

// parseBlock parses an indented suite: COLON NEWLINE INDENT stmt+ DEDENT
// (spec §4.4). An empty suite is a parse error.
func (p *parser) parseBlock() *ast.Block {
	start := p.cur()
	if _, ok := p.expect(token.COLON); !ok {
		return nil
	}
	if _, ok := p.expect(token.NEWLINE); !ok {
		return nil
	}
	if _, ok := p.expect(token.INDENT); !ok {
		return nil
	}
	blk := &ast.Block{StmtBase: ast.StmtBase{Pos: ast.Pos{Line: start.Line, Col: start.Col}}}
	for p.cur().Kind != token.DEDENT {
		if p.atEOF() {
			p.errorf("unexpected end of input inside block")
			return nil
		}
		s := p.parseStatement()
		if s == nil {
			return nil
		}
		blk.Stmts = append(blk.Stmts, s)
		p.skipNewlines()
	}
	if len(blk.Stmts) == 0 {
		p.errorf("empty block body")
		return nil
	}
	p.advance() // consume DEDENT
	return blk
}

// parseIf parses `if cond: block` followed by any number of `elif`
// clauses and an optional trailing `else`, building a right-leaning
// chain of *ast.If nodes through the Else field (spec §4.4: "elif
// recursively invokes the if-parser").
func (p *parser) parseIf() ast.Stmt {
	start := p.advance() // consume 'if' or 'elif'
	cond := p.parseExpr(0)
	if cond == nil {
		return nil
	}
	then := p.parseBlock()
	if then == nil {
		return nil
	}
	node := &ast.If{StmtBase: ast.StmtBase{Pos: ast.Pos{Line: start.Line, Col: start.Col}}, Cond: cond, Then: then}
	switch p.cur().Kind {
	case token.ELIF:
		elif := p.parseIf()
		if elif == nil {
			return nil
		}
		node.Else = elif
	case token.ELSE:
		p.advance()
		elseBlk := p.parseBlock()
		if elseBlk == nil {
			return nil
		}
		node.Else = elseBlk
	}
	return node
}

// parseWhile parses `while cond: block` with an optional trailing
// `else: block` (spec §4.4).
func (p *parser) parseWhile() ast.Stmt {
	start := p.advance() // consume 'while'
	cond := p.parseExpr(0)
	if cond == nil {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	node := &ast.While{StmtBase: ast.StmtBase{Pos: ast.Pos{Line: start.Line, Col: start.Col}}, Cond: cond, Body: body}
	if p.cur().Kind == token.ELSE {
		p.advance()
		elseBlk := p.parseBlock()
		if elseBlk == nil {
			return nil
		}
		node.Else = elseBlk
	}
	return node
}

// parseFor parses `for name in iterable: block` with an optional
// trailing `else: block` (spec §4.4).
func (p *parser) parseFor() ast.Stmt {
	start := p.advance() // consume 'for'
	nameTok, ok := p.expect(token.IDENTIFIER)
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.IN); !ok {
		return nil
	}
	iter := p.parseExpr(0)
	if iter == nil {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	node := &ast.For{StmtBase: ast.StmtBase{Pos: ast.Pos{Line: start.Line, Col: start.Col}}, VarName: nameTok.Text, Iterable: iter, Body: body}
	if p.cur().Kind == token.ELSE {
		p.advance()
		elseBlk := p.parseBlock()
		if elseBlk == nil {
			return nil
		}
		node.Else = elseBlk
	}
	return node
}

// expectEndOfSimpleStatement consumes the trailing NEWLINE (or accepts
// EOF) that terminates a one-line statement.
func (p *parser) expectEndOfSimpleStatement() bool {
	if p.atEOF() {
		return true
	}
	_, ok := p.expect(token.NEWLINE)
	return ok
}

func (p *parser) parseReturn() ast.Stmt {
	start := p.advance() // consume 'return'
	node := &ast.Return{StmtBase: ast.StmtBase{Pos: ast.Pos{Line: start.Line, Col: start.Col}}}
	if p.cur().Kind != token.NEWLINE && !p.atEOF() {
		v := p.parseExpr(0)
		if v == nil {
			return nil
		}
		node.Value = v
	}
	if !p.expectEndOfSimpleStatement() {
		return nil
	}
	return node
}

func (p *parser) parseBreak() ast.Stmt {
	start := p.advance()
	if !p.expectEndOfSimpleStatement() {
		return nil
	}
	return &ast.Break{StmtBase: ast.StmtBase{Pos: ast.Pos{Line: start.Line, Col: start.Col}}}
}

func (p *parser) parseContinue() ast.Stmt {
	start := p.advance()
	if !p.expectEndOfSimpleStatement() {
		return nil
	}
	return &ast.Continue{StmtBase: ast.StmtBase{Pos: ast.Pos{Line: start.Line, Col: start.Col}}}
}

func (p *parser) parsePass() ast.Stmt {
	start := p.advance()
	if !p.expectEndOfSimpleStatement() {
		return nil
	}
	return &ast.Pass{StmtBase: ast.StmtBase{Pos: ast.Pos{Line: start.Line, Col: start.Col}}}
}

// parsePrint parses `print(a, b, ...)` as a dedicated statement form
// (spec §4.4 / §6 runtime ABI py_print_*), rather than desugaring to a
// plain call, so the code generator can type-dispatch each argument.
func (p *parser) parsePrint() ast.Stmt {
	start := p.advance() // consume 'print'
	node := &ast.Print{StmtBase: ast.StmtBase{Pos: ast.Pos{Line: start.Line, Col: start.Col}}}
	if _, ok := p.expect(token.LPAREN); !ok {
		return nil
	}
	for p.cur().Kind != token.RPAREN {
		v := p.parseExpr(0)
		if v == nil {
			return nil
		}
		node.Values = append(node.Values, v)
		if p.cur().Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(token.RPAREN); !ok {
		return nil
	}
	if !p.expectEndOfSimpleStatement() {
		return nil
	}
	return node
}

// parseImport parses `import module` or `import module as alias`.
func (p *parser) parseImport() ast.Stmt {
	start := p.advance() // consume 'import'
	nameTok, ok := p.expect(token.IDENTIFIER)
	if !ok {
		return nil
	}
	node := &ast.Import{StmtBase: ast.StmtBase{Pos: ast.Pos{Line: start.Line, Col: start.Col}}, Module: nameTok.Text}
	if p.cur().Kind == token.AS {
		p.advance()
		aliasTok, ok := p.expect(token.IDENTIFIER)
		if !ok {
			return nil
		}
		node.Alias = aliasTok.Text
	}
	if !p.expectEndOfSimpleStatement() {
		return nil
	}
	return node
}

// parseParamList parses a def's parenthesised parameter list, each
// parameter optionally carrying a `: type` annotation (spec §4.4).
func (p *parser) parseParamList() ([]ast.Param, bool) {
	if _, ok := p.expect(token.LPAREN); !ok {
		return nil, false
	}
	var params []ast.Param
	for p.cur().Kind != token.RPAREN {
		nameTok, ok := p.expect(token.IDENTIFIER)
		if !ok {
			return nil, false
		}
		param := ast.Param{Name: nameTok.Text}
		if p.cur().Kind == token.COLON {
			p.advance()
			annot, ok := p.parseTypeAnnotation()
			if !ok {
				return nil, false
			}
			param.AnnotText = annot
			param.Type = resolveType(annot)
		}
		params = append(params, param)
		if p.cur().Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(token.RPAREN); !ok {
		return nil, false
	}
	return params, true
}

// parseFunctionDef parses `def name(params) -> ret: block`.
func (p *parser) parseFunctionDef() ast.Stmt {
	start := p.advance() // consume 'def'
	nameTok, ok := p.expect(token.IDENTIFIER)
	if !ok {
		return nil
	}
	params, ok := p.parseParamList()
	if !ok {
		return nil
	}
	fn := &ast.Function{
		StmtBase: ast.StmtBase{Pos: ast.Pos{Line: start.Line, Col: start.Col}},
		Name:     nameTok.Text,
		Params:   params,
	}
	if p.cur().Kind == token.ARROW {
		p.advance()
		annot, ok := p.parseTypeAnnotation()
		if !ok {
			return nil
		}
		fn.ReturnAnno = annot
		fn.ReturnType = resolveType(annot)
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	fn.Body = body
	return &ast.FunctionDef{StmtBase: fn.StmtBase, Fn: fn}
}

// parseClass parses `class Name(Base, ...): block`, splitting method
// defs from other body statements (spec §4.4 class support).
func (p *parser) parseClass() ast.Stmt {
	start := p.advance() // consume 'class'
	nameTok, ok := p.expect(token.IDENTIFIER)
	if !ok {
		return nil
	}
	node := &ast.Class{StmtBase: ast.StmtBase{Pos: ast.Pos{Line: start.Line, Col: start.Col}}, Name: nameTok.Text}
	if p.cur().Kind == token.LPAREN {
		p.advance()
		for p.cur().Kind != token.RPAREN {
			baseTok, ok := p.expect(token.IDENTIFIER)
			if !ok {
				return nil
			}
			node.Bases = append(node.Bases, baseTok.Text)
			if p.cur().Kind == token.COMMA {
				p.advance()
				continue
			}
			break
		}
		if _, ok := p.expect(token.RPAREN); !ok {
			return nil
		}
	}
	if _, ok := p.expect(token.COLON); !ok {
		return nil
	}
	if _, ok := p.expect(token.NEWLINE); !ok {
		return nil
	}
	if _, ok := p.expect(token.INDENT); !ok {
		return nil
	}
	for p.cur().Kind != token.DEDENT {
		if p.atEOF() {
			p.errorf("unexpected end of input inside class body")
			return nil
		}
		s := p.parseStatement()
		if s == nil {
			return nil
		}
		if fd, ok := s.(*ast.FunctionDef); ok {
			fd.Fn.ClassName = node.Name
			node.Methods = append(node.Methods, fd.Fn)
		} else {
			node.Body = append(node.Body, s)
		}
		p.skipNewlines()
	}
	p.advance() // consume DEDENT
	return node
}

// parseSimpleStatement handles plain expression statements, plain
// assignment, compound assignment, and index assignment. The
// disambiguation is performed AFTER the full left-hand expression has
// been parsed (spec §4.4), since e.g. `a[0] += 1` and `a(0)` cannot be
// told apart from the leading token alone.
func (p *parser) parseSimpleStatement() ast.Stmt {
	start := p.cur()
	lhs := p.parseExpr(0)
	if lhs == nil {
		return nil
	}
	switch p.cur().Kind {
	case token.ASSIGN:
		p.advance()
		val := p.parseExpr(0)
		if val == nil {
			return nil
		}
		if !p.expectEndOfSimpleStatement() {
			return nil
		}
		return p.buildAssign(start, lhs, val)
	default:
		if opText, ok := compoundAssignOps[p.cur().Kind]; ok {
			if _, isVar := lhs.(*ast.Variable); !isVar {
				p.errorf("compound assignment to indexed or attribute target is not supported yet")
				return nil
			}
			p.advance()
			rhs := p.parseExpr(0)
			if rhs == nil {
				return nil
			}
			if !p.expectEndOfSimpleStatement() {
				return nil
			}
			desugared := &ast.Binary{Op: opText, LHS: lhs, RHS: rhs, ExprBase: newBase(start)}
			return p.buildAssign(start, lhs, desugared)
		}
	}
	if !p.expectEndOfSimpleStatement() {
		return nil
	}
	return &ast.ExprStmt{StmtBase: ast.StmtBase{Pos: ast.Pos{Line: start.Line, Col: start.Col}}, X: lhs}
}

// buildAssign routes a parsed LHS/value pair to Assign (plain variable
// target) or IndexAssign (subscript target), per spec §4.4.
func (p *parser) buildAssign(start token.Token, lhs ast.Expr, val ast.Expr) ast.Stmt {
	pos := ast.Pos{Line: start.Line, Col: start.Col}
	switch target := lhs.(type) {
	case *ast.Variable:
		return &ast.Assign{StmtBase: ast.StmtBase{Pos: pos}, Name: target.Name, Value: val}
	case *ast.Index:
		return &ast.IndexAssign{StmtBase: ast.StmtBase{Pos: pos}, Target: target, Value: val}
	default:
		p.errorf("invalid assignment target")
		return nil
	}
}
