package parser

import (
	"github.com/mna/pybind/internal/ast"
	"github.com/mna/pybind/internal/token"
)

func (p *parser) parseModule() *ast.Module {
	var mod ast.Module
	var block ast.Block
	p.enterBlock(&block)
	block.Stmts = p.parseStmtList(token.EOF)
	block.End = p.val.Pos
	p.exitBlock(&block)

	mod.Body = &block
	mod.EOF = p.expect(token.EOF)
	if p.parseComments {
		p.processComments(&mod)
	}
	return &mod
}

// parseSuite parses a compound statement's body: either a colon-terminated
// indented block, or a single colon-terminated simple-statement line, e.g.
// "if x:\n    pass" vs. "if x: pass".
func (p *parser) parseSuite() *ast.Block {
	var block ast.Block
	p.enterBlock(&block)
	p.expect(token.COLON)

	if p.tok == token.NEWLINE {
		p.advance()
		p.expect(token.INDENT)
		block.Stmts = p.parseStmtList(token.DEDENT)
		block.End = p.val.Pos
		p.expect(token.DEDENT)
	} else {
		block.Stmts = p.parseSimpleStmtLine()
		block.End = p.val.Pos
	}

	p.exitBlock(&block)
	return &block
}

// parseStmtList parses statements until one of endToks (EOF is always
// implicitly included).
func (p *parser) parseStmtList(endToks ...token.Token) []ast.Stmt {
	endToks = append(endToks, token.EOF)
	var list []ast.Stmt
	for !tokenIn(p.tok, endToks...) {
		if isCompoundStart(p.tok) {
			list = append(list, p.parseCompoundStmtGuarded())
		} else {
			list = append(list, p.parseSimpleStmtLineGuarded()...)
		}
	}
	return list
}

func isCompoundStart(tok token.Token) bool {
	switch tok {
	case token.IF, token.WHILE, token.FOR, token.TRY, token.WITH,
		token.DEF, token.CLASS, token.ASYNC, token.AT:
		return true
	}
	return false
}

// parseCompoundStmtGuarded wraps parseCompoundStmt with the panic/recover
// synchronization used throughout: a parse error anywhere inside the
// compound statement aborts it and resynchronizes to the next safe point,
// producing a single BadStmt spanning the damaged region.
func (p *parser) parseCompoundStmtGuarded() (stmt ast.Stmt) {
	start := p.val.Pos
	defer func() {
		if err := recover(); err != nil {
			if err == errPanicMode {
				stmt = &ast.BadStmt{Start: start, End: p.syncAfterError()}
				return
			}
			panic(err)
		}
	}()
	return p.parseCompoundStmt()
}

func (p *parser) parseCompoundStmt() ast.Stmt {
	switch p.tok {
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForStmt(false)
	case token.TRY:
		return p.parseTryStmt()
	case token.WITH:
		return p.parseWithStmt(false)
	case token.DEF:
		return p.parseFuncDef(nil, false)
	case token.CLASS:
		return p.parseClassDef(nil)
	case token.ASYNC:
		return p.parseAsyncStmt(nil)
	case token.AT:
		return p.parseDecorated()
	default:
		p.errorExpected(p.val.Pos, "a statement")
		panic(errPanicMode)
	}
}

func (p *parser) parseAsyncStmt(decorators []ast.Expr) ast.Stmt {
	p.expect(token.ASYNC)
	switch p.tok {
	case token.DEF:
		return p.parseFuncDef(decorators, true)
	case token.FOR:
		return p.parseForStmt(true)
	case token.WITH:
		return p.parseWithStmt(true)
	default:
		p.errorExpected(p.val.Pos, "'def', 'for' or 'with' after 'async'")
		panic(errPanicMode)
	}
}

func (p *parser) parseDecorated() ast.Stmt {
	var decorators []ast.Expr
	for p.tok == token.AT {
		p.advance()
		decorators = append(decorators, p.parseNamedExpr())
		p.expect(token.NEWLINE)
	}
	switch p.tok {
	case token.DEF:
		return p.parseFuncDef(decorators, false)
	case token.CLASS:
		return p.parseClassDef(decorators)
	case token.ASYNC:
		return p.parseAsyncStmt(decorators)
	default:
		p.errorExpected(p.val.Pos, "'def', 'async def' or 'class' after decorator")
		panic(errPanicMode)
	}
}

// parseSimpleStmtLineGuarded wraps parseSimpleStmtLine with the same
// per-statement error recovery as parseCompoundStmtGuarded, but recovers to
// a single BadStmt for the whole damaged line.
func (p *parser) parseSimpleStmtLineGuarded() (stmts []ast.Stmt) {
	start := p.val.Pos
	defer func() {
		if err := recover(); err != nil {
			if err == errPanicMode {
				stmts = []ast.Stmt{&ast.BadStmt{Start: start, End: p.syncAfterError()}}
				return
			}
			panic(err)
		}
	}()
	return p.parseSimpleStmtLine()
}

// parseSimpleStmtLine parses small_stmt (';' small_stmt)* [';'] NEWLINE.
func (p *parser) parseSimpleStmtLine() []ast.Stmt {
	var list []ast.Stmt
	for {
		if stmt := p.parseSmallStmt(); stmt != nil {
			list = append(list, stmt)
		}
		if p.tok != token.SEMI {
			break
		}
		p.advance()
		if p.tok == token.NEWLINE || p.tok == token.EOF {
			break
		}
	}
	if p.tok == token.EOF {
		return list
	}
	p.expect(token.NEWLINE)
	return list
}

var syncToks = map[token.Token]bool{
	token.IF: true, token.WHILE: true, token.FOR: true, token.TRY: true,
	token.WITH: true, token.DEF: true, token.CLASS: true, token.ASYNC: true,
	token.AT: true, token.RETURN: true, token.BREAK: true, token.CONTINUE: true,
	token.PASS: true, token.RAISE: true, token.IMPORT: true, token.FROM: true,
	token.GLOBAL: true, token.NONLOCAL: true, token.DEL: true, token.ASSERT: true,
}

// syncAfterError skips tokens until a NEWLINE is consumed or a DEDENT/EOF/
// statement-starting keyword is reached, so parsing can resume at the next
// statement boundary after a syntax error.
func (p *parser) syncAfterError() token.Pos {
	for {
		switch p.tok {
		case token.EOF, token.DEDENT:
			return p.val.Pos
		case token.NEWLINE:
			p.advance()
			return p.val.Pos
		}
		if syncToks[p.tok] {
			return p.val.Pos
		}
		p.advance()
	}
}
