// parser.go is a hand-written recursive-descent parser producing an
// ast.Node syntax tree. The teacher generates its parser with goyacc from a
// bottom-up grammar (frontend/tree.go plus an out-of-tree .y file); goyacc
// code generation cannot be run here, so the grammar is instead hand-coded
// top-down, one function per non-terminal, in the same spirit as the
// teacher's tree.go helpers (nodeInit/parseInteger/parseFloat) that turn raw
// lexer items into typed tree nodes. Operator precedence (assignment
// lowest, then ||, &&, relational, +/-, then,/ then unary, then postfix
// index/field access) is implemented by precedence climbing across a chain
// of mutually recursive parseX functions rather than yacc %left/%right
// declarations.
package frontend

import (
	"fmt"
	"strconv"

	"cmmc/src/ast"
)

// Parser turns a token stream from the lexer into a syntax tree.
type Parser struct {
	lex  *lexer
	tok  item
	peek []item // buffered lookahead beyond tok, filled lazily
}

// parseError is panicked internally to unwind to Parse's recover; syntax
// error recovery (resuming after a bad token) is out of scope, so the
// parser reports the first error it hits and stops.
type parseError struct{ err error }

// NewParser returns a Parser reading source from src.
func NewParser(src string) *Parser {
	p := &Parser{lex: newLexer(src)}
	p.advance()
	return p
}

func (p *Parser) advance() {
	if len(p.peek) > 0 {
		p.tok = p.peek[0]
		p.peek = p.peek[1:]
		return
	}
	p.tok = p.lex.nextItem()
}

// peekAhead returns the token n positions beyond the current one (n=0 is
// the very next token), buffering items pulled early from the lexer.
func (p *Parser) peekAhead(n int) item {
	for len(p.peek) <= n {
		p.peek = append(p.peek, p.lex.nextItem())
	}
	return p.peek[n]
}

func (p *Parser) fail(format string, args ...interface{}) {
	panic(parseError{fmt.Errorf("Line %d: "+format, append([]interface{}{p.tok.line}, args...)...)})
}

func (p *Parser) expect(tt itemType) item {
	if p.tok.typ != tt {
		p.fail("expected %s, got %q", tt, p.tok.val)
	}
	tok := p.tok
	p.advance()
	return tok
}

// Parse consumes the whole token stream and returns the program's syntax
// tree (an ExtDefList), or the first syntax error encountered.
func (p *Parser) Parse() (n *ast.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(parseError); ok {
				err = pe.err
				return
			}
			panic(r)
		}
	}()
	if p.tok.typ == itemError {
		return nil, fmt.Errorf("%s", p.tok.val)
	}
	n = p.parseExtDefList()
	if p.tok.typ != itemEOF {
		p.fail("unexpected trailing token %q", p.tok.val)
	}
	return n, nil
}

func (p *Parser) parseExtDefList() *ast.Node {
	root := ast.NewNode(ast.KindExtDefList, ast.ProdNone, p.tok.line)
	for p.tok.typ == TYPE || p.tok.typ == STRUCT {
		root.Children = append(root.Children, p.parseExtDef())
	}
	return root
}

func (p *Parser) parseExtDef() *ast.Node {
	line := p.tok.line
	spec := p.parseSpecifier()

	if p.tok.typ == SEMI {
		p.advance()
		return ast.NewNode(ast.KindExtDef, ast.ProdExtDefType, line, spec)
	}

	if p.tok.typ == ID && p.peekIsFunDec() {
		funDec := p.parseFunDec()
		if p.tok.typ == LC {
			compSt := p.parseCompSt()
			return ast.NewNode(ast.KindExtDef, ast.ProdExtDefFunc, line, spec, funDec, compSt)
		}
		p.expect(SEMI)
		return ast.NewNode(ast.KindExtDef, ast.ProdExtDefDecl, line, spec, funDec)
	}

	decList := p.parseExtDecList()
	p.expect(SEMI)
	return ast.NewNode(ast.KindExtDef, ast.ProdExtDefVars, line, spec, decList)
}

// peekIsFunDec distinguishes "ID (" (a function declarator) from "ID" or
// "ID [" (a variable declarator) without backtracking, using one token of
// buffered lookahead.
func (p *Parser) peekIsFunDec() bool {
	return p.peekAhead(0).typ == LP
}

func (p *Parser) parseSpecifier() *ast.Node {
	line := p.tok.line
	if p.tok.typ == TYPE {
		n := ast.NewNode(ast.KindType, ast.ProdNone, line)
		n.TypeID = p.tok.val
		p.advance()
		return n
	}
	ss := p.parseStructSpecifier()
	return ast.NewNode(ast.KindSpecifier, ast.ProdNone, line, ss)
}

func (p *Parser) parseStructSpecifier() *ast.Node {
	line := p.tok.line
	p.expect(STRUCT)

	if p.tok.typ == ID {
		tag := p.newIdent()
		p.advance()
		if p.tok.typ == LC {
			p.advance()
			fields := p.parseDefList()
			p.expect(RC)
			return ast.NewNode(ast.KindStructSpecifier, ast.ProdStructNamed, line, tag, fields)
		}
		return ast.NewNode(ast.KindStructSpecifier, ast.ProdStructRef, line, tag)
	}

	p.expect(LC)
	fields := p.parseDefList()
	p.expect(RC)
	return ast.NewNode(ast.KindStructSpecifier, ast.ProdStructAnonymous, line, fields)
}

func (p *Parser) parseDefList() *ast.Node {
	root := ast.NewNode(ast.KindDefList, ast.ProdNone, p.tok.line)
	for p.tok.typ == TYPE || p.tok.typ == STRUCT {
		root.Children = append(root.Children, p.parseDef())
	}
	return root
}

func (p *Parser) parseDef() *ast.Node {
	line := p.tok.line
	spec := p.parseSpecifier()
	decList := p.parseDecList()
	p.expect(SEMI)
	return ast.NewNode(ast.KindDef, ast.ProdNone, line, spec, decList)
}

func (p *Parser) parseDecList() *ast.Node {
	root := ast.NewNode(ast.KindDecList, ast.ProdNone, p.tok.line)
	root.Children = append(root.Children, p.parseDec())
	for p.tok.typ == COMMA {
		p.advance()
		root.Children = append(root.Children, p.parseDec())
	}
	return root
}

func (p *Parser) parseDec() *ast.Node {
	line := p.tok.line
	vd := p.parseVarDec()
	if p.tok.typ == ASSIGNOP {
		p.advance()
		e := p.parseExp()
		return ast.NewNode(ast.KindDec, ast.ProdNone, line, vd, e)
	}
	return ast.NewNode(ast.KindDec, ast.ProdNone, line, vd)
}

// parseVarDec builds the right-to-left nested array-dimension tree: T
// id[n1][n2] parses id first, then wraps it once per bracket pair in source
// order, which analyseVarDec then unwraps outside-in to get
// Array{n1, Array{n2, T}} (spec §4.4).
func (p *Parser) parseVarDec() *ast.Node {
	n := p.newIdent()
	p.advance()
	for p.tok.typ == LB {
		p.advance()
		idxLine := p.tok.line
		idxTok := p.expect(INT)
		idx := ast.NewNode(ast.KindInt, ast.ProdNone, idxLine)
		idx.IVal = mustAtoi(idxTok.val)
		p.expect(RB)
		n = ast.NewNode(ast.KindVarDec, ast.ProdNone, idxLine, n, idx)
	}
	return n
}

func (p *Parser) parseExtDecList() *ast.Node {
	root := ast.NewNode(ast.KindExtDecList, ast.ProdNone, p.tok.line)
	root.Children = append(root.Children, p.parseVarDec())
	for p.tok.typ == COMMA {
		p.advance()
		root.Children = append(root.Children, p.parseVarDec())
	}
	return root
}

func (p *Parser) parseFunDec() *ast.Node {
	line := p.tok.line
	id := p.newIdent()
	p.advance()
	p.expect(LP)
	var children []*ast.Node
	children = append(children, id)
	if p.tok.typ != RP {
		children = append(children, p.parseVarList())
	}
	p.expect(RP)
	return ast.NewNode(ast.KindFunDec, ast.ProdNone, line, children...)
}

func (p *Parser) parseVarList() *ast.Node {
	root := ast.NewNode(ast.KindVarList, ast.ProdNone, p.tok.line)
	root.Children = append(root.Children, p.parseParamDec())
	for p.tok.typ == COMMA {
		p.advance()
		root.Children = append(root.Children, p.parseParamDec())
	}
	return root
}

func (p *Parser) parseParamDec() *ast.Node {
	line := p.tok.line
	spec := p.parseSpecifier()
	vd := p.parseVarDec()
	return ast.NewNode(ast.KindParamDec, ast.ProdNone, line, spec, vd)
}

func (p *Parser) parseCompSt() *ast.Node {
	line := p.tok.line
	p.expect(LC)
	defList := p.parseDefList()
	stmtList := p.parseStmtList()
	p.expect(RC)
	return ast.NewNode(ast.KindCompSt, ast.ProdNone, line, defList, stmtList)
}

func (p *Parser) parseStmtList() *ast.Node {
	root := ast.NewNode(ast.KindStmtList, ast.ProdNone, p.tok.line)
	for p.tok.typ != RC {
		root.Children = append(root.Children, p.parseStmt())
	}
	return root
}

func (p *Parser) parseStmt() *ast.Node {
	line := p.tok.line
	switch p.tok.typ {
	case LC:
		cs := p.parseCompSt()
		return ast.NewNode(ast.KindStmt, ast.ProdStmtComp, line, cs)

	case RETURN:
		p.advance()
		e := p.parseExp()
		p.expect(SEMI)
		return ast.NewNode(ast.KindStmt, ast.ProdStmtReturn, line, e)

	case IF:
		p.advance()
		p.expect(LP)
		cond := p.parseExp()
		p.expect(RP)
		then := p.parseStmt()
		if p.tok.typ == ELSE {
			p.advance()
			els := p.parseStmt()
			return ast.NewNode(ast.KindStmt, ast.ProdStmtIfElse, line, cond, then, els)
		}
		return ast.NewNode(ast.KindStmt, ast.ProdStmtIf, line, cond, then)

	case WHILE:
		p.advance()
		p.expect(LP)
		cond := p.parseExp()
		p.expect(RP)
		body := p.parseStmt()
		return ast.NewNode(ast.KindStmt, ast.ProdStmtWhile, line, cond, body)

	default:
		e := p.parseExp()
		p.expect(SEMI)
		return ast.NewNode(ast.KindStmt, ast.ProdStmtExp, line, e)
	}
}

// --- Expressions, by precedence, lowest to highest. ---

func (p *Parser) parseExp() *ast.Node {
	return p.parseAssign()
}

func (p *Parser) parseAssign() *ast.Node {
	left := p.parseOr()
	if p.tok.typ == ASSIGNOP {
		line := p.tok.line
		p.advance()
		right := p.parseAssign() // right-associative
		return ast.NewNode(ast.KindExp, ast.ProdExpAssign, line, left, right)
	}
	return left
}

func (p *Parser) parseOr() *ast.Node {
	left := p.parseAnd()
	for p.tok.typ == OR {
		line := p.tok.line
		p.advance()
		right := p.parseAnd()
		left = ast.NewNode(ast.KindExp, ast.ProdExpOr, line, left, right)
	}
	return left
}

func (p *Parser) parseAnd() *ast.Node {
	left := p.parseRel()
	for p.tok.typ == AND {
		line := p.tok.line
		p.advance()
		right := p.parseRel()
		left = ast.NewNode(ast.KindExp, ast.ProdExpAnd, line, left, right)
	}
	return left
}

func (p *Parser) parseRel() *ast.Node {
	left := p.parseAdd()
	for p.tok.typ == RELOP {
		line, op := p.tok.line, p.tok.val
		p.advance()
		right := p.parseAdd()
		n := ast.NewNode(ast.KindExp, ast.ProdExpRelop, line, left, right)
		n.Relop = op
		left = n
	}
	return left
}

func (p *Parser) parseAdd() *ast.Node {
	left := p.parseMul()
	for p.tok.typ == PLUS || p.tok.typ == MINUS {
		line := p.tok.line
		prod := ast.ProdExpAdd
		if p.tok.typ == MINUS {
			prod = ast.ProdExpSub
		}
		p.advance()
		right := p.parseMul()
		left = ast.NewNode(ast.KindExp, prod, line, left, right)
	}
	return left
}

func (p *Parser) parseMul() *ast.Node {
	left := p.parseUnary()
	for p.tok.typ == STAR || p.tok.typ == DIV {
		line := p.tok.line
		prod := ast.ProdExpMul
		if p.tok.typ == DIV {
			prod = ast.ProdExpDiv
		}
		p.advance()
		right := p.parseUnary()
		left = ast.NewNode(ast.KindExp, prod, line, left, right)
	}
	return left
}

func (p *Parser) parseUnary() *ast.Node {
	line := p.tok.line
	switch p.tok.typ {
	case MINUS:
		p.advance()
		e := p.parseUnary()
		return ast.NewNode(ast.KindExp, ast.ProdExpNeg, line, e)
	case NOT:
		p.advance()
		e := p.parseUnary()
		return ast.NewNode(ast.KindExp, ast.ProdExpNot, line, e)
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() *ast.Node {
	base := p.parsePrimary()
	for {
		switch p.tok.typ {
		case LB:
			line := p.tok.line
			p.advance()
			idx := p.parseExp()
			p.expect(RB)
			base = ast.NewNode(ast.KindExp, ast.ProdExpIndex, line, base, idx)
		case DOT:
			line := p.tok.line
			p.advance()
			field := p.newIdent()
			p.expect(ID)
			base = ast.NewNode(ast.KindExp, ast.ProdExpDot, line, base, field)
		default:
			return base
		}
	}
}

func (p *Parser) parsePrimary() *ast.Node {
	line := p.tok.line
	switch p.tok.typ {
	case ID:
		name := p.tok.val
		p.advance()
		if p.tok.typ == LP {
			p.advance()
			idNode := ast.NewNode(ast.KindIdent, ast.ProdNone, line)
			idNode.ID = name
			children := []*ast.Node{idNode}
			if p.tok.typ != RP {
				children = append(children, p.parseArgs())
			}
			p.expect(RP)
			return ast.NewNode(ast.KindExp, ast.ProdExpCall, line, children...)
		}
		n := ast.NewNode(ast.KindExp, ast.ProdExpIdent, line)
		n.ID = name
		return n

	case INT:
		v := mustAtoi(p.tok.val)
		p.advance()
		n := ast.NewNode(ast.KindExp, ast.ProdExpInt, line)
		n.IVal = v
		return n

	case FLOAT:
		v := mustAtof(p.tok.val)
		p.advance()
		n := ast.NewNode(ast.KindExp, ast.ProdExpFloat, line)
		n.FVal = v
		return n

	case LP:
		p.advance()
		e := p.parseExp()
		p.expect(RP)
		return e

	default:
		p.fail("unexpected token %q in expression", p.tok.val)
		return nil
	}
}

func (p *Parser) parseArgs() *ast.Node {
	root := ast.NewNode(ast.KindArgs, ast.ProdNone, p.tok.line)
	root.Children = append(root.Children, p.parseExp())
	for p.tok.typ == COMMA {
		p.advance()
		root.Children = append(root.Children, p.parseExp())
	}
	return root
}

func (p *Parser) newIdent() *ast.Node {
	n := ast.NewNode(ast.KindIdent, ast.ProdNone, p.tok.line)
	n.ID = p.tok.val
	return n
}

func mustAtoi(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func mustAtof(s string) float32 {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0
	}
	return float32(v)
}
