package parser

import (
	"strings"

	"github.com/mna/pybind/internal/ast"
	"github.com/mna/pybind/internal/token"
)

var augAssignToks = map[token.Token]bool{
	token.PLUS_EQ: true, token.MINUS_EQ: true, token.STAR_EQ: true,
	token.SLASH_EQ: true, token.DSLASH_EQ: true, token.PERCENT_EQ: true,
	token.AMP_EQ: true, token.PIPE_EQ: true, token.CARET_EQ: true,
	token.LSHIFT_EQ: true, token.RSHIFT_EQ: true, token.POW_EQ: true,
}

// parseSmallStmt parses one statement of a simple-statement line (the
// statements that never carry their own suite).
func (p *parser) parseSmallStmt() ast.Stmt {
	pos := p.val.Pos
	switch p.tok {
	case token.PASS:
		p.advance()
		return &ast.PassStmt{Start: pos}
	case token.BREAK:
		p.advance()
		return &ast.BreakStmt{Start: pos}
	case token.CONTINUE:
		p.advance()
		return &ast.ContinueStmt{Start: pos}
	case token.RETURN:
		p.advance()
		var val ast.Expr
		if p.startsTest() {
			val, _ = p.parseExprListAsSingleOrTuple()
		}
		return &ast.ReturnStmt{Start: pos, Value: val}
	case token.DEL:
		p.advance()
		targets := []ast.Expr{p.parseTargetAtom()}
		for p.tok == token.COMMA {
			p.advance()
			if !p.startsTest() {
				break
			}
			targets = append(targets, p.parseTargetAtom())
		}
		return &ast.DeleteStmt{Start: pos, Targets: targets}
	case token.RAISE:
		p.advance()
		var exc, cause ast.Expr
		if p.startsTest() {
			exc = p.parseTest()
			if _, ok := p.accept(token.FROM); ok {
				cause = p.parseTest()
			}
		}
		return &ast.RaiseStmt{Start: pos, Exc: exc, Cause: cause}
	case token.ASSERT:
		p.advance()
		test := p.parseTest()
		var msg ast.Expr
		if p.tok == token.COMMA {
			p.advance()
			msg = p.parseTest()
		}
		return &ast.AssertStmt{Start: pos, Test: test, Msg: msg}
	case token.GLOBAL:
		p.advance()
		names := []*ast.Name{p.parseName()}
		for p.tok == token.COMMA {
			p.advance()
			names = append(names, p.parseName())
		}
		return &ast.GlobalStmt{Start: pos, Names: names}
	case token.NONLOCAL:
		p.advance()
		names := []*ast.Name{p.parseName()}
		for p.tok == token.COMMA {
			p.advance()
			names = append(names, p.parseName())
		}
		return &ast.NonlocalStmt{Start: pos, Names: names}
	case token.IMPORT:
		return p.parseImportStmt()
	case token.FROM:
		return p.parseImportFromStmt()
	default:
		return p.parseExprOrAssignStmt()
	}
}

// parseExprOrAssignStmt disambiguates a bare expression statement from an
// assignment chain, an augmented assignment or an annotated assignment,
// all of which start with the same leading expression.
func (p *parser) parseExprOrAssignStmt() ast.Stmt {
	first, _ := p.parseExprListAsSingleOrTuple()

	switch {
	case p.tok == token.COLON:
		colon := p.val.Pos
		if !ast.IsAssignable(first) {
			p.error(colon, "illegal annotation target")
		}
		p.advance()
		ann := p.parseTest()
		var val ast.Expr
		if _, ok := p.accept(token.ASSIGN); ok {
			val = p.parseAssignRHS()
		}
		return &ast.AnnAssign{Target: first, Colon: colon, Annotation: ann, Value: val}

	case augAssignToks[p.tok]:
		op, opPos := p.tok, p.val.Pos
		if !ast.IsAssignable(first) {
			p.error(opPos, "illegal expression for augmented assignment")
		}
		p.advance()
		val := p.parseAssignRHS()
		return &ast.AugAssign{Target: first, Op: op, OpPos: opPos, Value: val}

	case p.tok == token.ASSIGN:
		targets := []ast.Expr{first}
		var val ast.Expr
		for {
			p.advance() // consume '='
			rhs := p.parseAssignRHS()
			if p.tok == token.ASSIGN {
				targets = append(targets, rhs)
				continue
			}
			val = rhs
			break
		}
		for _, t := range targets {
			if !ast.IsAssignable(t) {
				start, _ := t.Span()
				p.error(start, "cannot assign to this expression")
			}
		}
		return &ast.Assign{Targets: targets, Value: val}

	default:
		return &ast.ExprStmt{Value: first}
	}
}

// parseAssignRHS parses the right-hand side of '=' or an augmented
// assignment operator, which may be a yield expression or a (possibly
// bare-tuple) test list.
func (p *parser) parseAssignRHS() ast.Expr {
	if p.tok == token.YIELD {
		return p.parseYield()
	}
	e, _ := p.parseExprListAsSingleOrTuple()
	return e
}

func (p *parser) parseDottedNameParts() []string {
	parts := []string{p.parseNameRaw()}
	for p.tok == token.DOT {
		p.advance()
		parts = append(parts, p.parseNameRaw())
	}
	return parts
}

func (p *parser) parseNameRaw() string {
	s := p.val.Raw
	p.expect(token.IDENT)
	return s
}

func (p *parser) parseImportStmt() ast.Stmt {
	start := p.expect(token.IMPORT)
	var names []*ast.Alias
	for {
		atPos := p.val.Pos
		path := p.parseDottedNameParts()
		var as *ast.Name
		if _, ok := p.accept(token.AS); ok {
			as = p.parseName()
		}
		names = append(names, &ast.Alias{Path: path, AtPos: atPos, AsName: as})
		if p.tok != token.COMMA {
			break
		}
		p.advance()
	}
	return &ast.ImportStmt{Start: start, Names: names}
}

func (p *parser) parseImportFromStmt() ast.Stmt {
	start := p.expect(token.FROM)
	dots := 0
	for {
		switch p.tok {
		case token.DOT:
			dots++
			p.advance()
			continue
		case token.ELLIPSIS:
			dots += 3
			p.advance()
			continue
		}
		break
	}

	var module string
	modulePos := p.val.Pos
	if p.tok == token.IDENT {
		module = strings.Join(p.parseDottedNameParts(), ".")
	}
	p.expect(token.IMPORT)

	stmt := ast.ImportFromStmt{Start: start, Dots: dots, Module: module, ModulePos: modulePos}
	if p.tok == token.STAR {
		stmt.Star = true
		stmt.StarPos = p.val.Pos
		p.advance()
		return &stmt
	}

	parenned := false
	if _, ok := p.accept(token.LPAREN); ok {
		parenned = true
	}
	for {
		atPos := p.val.Pos
		name := p.parseName()
		var as *ast.Name
		if _, ok := p.accept(token.AS); ok {
			as = p.parseName()
		}
		stmt.Names = append(stmt.Names, &ast.Alias{Path: []string{name.Id}, AtPos: atPos, AsName: as})
		if p.tok != token.COMMA {
			break
		}
		p.advance()
		if parenned && p.tok == token.RPAREN {
			break
		}
	}
	if parenned {
		p.expect(token.RPAREN)
	}
	return &stmt
}

func (p *parser) parseIfStmt() ast.Stmt {
	start := p.expect(token.IF)
	test := p.parseNamedExpr()
	body := p.parseSuite()
	orelse := p.parseIfOrelse()
	return &ast.IfStmt{Start: start, Test: test, Body: body, Orelse: orelse}
}

// parseIfOrelse parses the elif/else tail shared by "if" and "elif":
// an "elif" collapses into a one-statement Block wrapping a nested IfStmt,
// matching how the binder expects to walk an if/elif/else chain uniformly.
func (p *parser) parseIfOrelse() *ast.Block {
	switch p.tok {
	case token.ELIF:
		pos := p.val.Pos
		nested := p.parseElifAsIf()
		_, end := nested.Span()
		return &ast.Block{Start: pos, End: end, Stmts: []ast.Stmt{nested}}
	case token.ELSE:
		p.advance()
		return p.parseSuite()
	}
	return nil
}

func (p *parser) parseElifAsIf() ast.Stmt {
	start := p.expect(token.ELIF)
	test := p.parseNamedExpr()
	body := p.parseSuite()
	orelse := p.parseIfOrelse()
	return &ast.IfStmt{Start: start, Test: test, Body: body, Orelse: orelse}
}

func (p *parser) parseWhileStmt() ast.Stmt {
	start := p.expect(token.WHILE)
	test := p.parseNamedExpr()
	body := p.parseSuite()
	var orelse *ast.Block
	if p.tok == token.ELSE {
		p.advance()
		orelse = p.parseSuite()
	}
	return &ast.WhileStmt{Start: start, Test: test, Body: body, Orelse: orelse}
}

func (p *parser) parseForStmt(async bool) ast.Stmt {
	start := p.expect(token.FOR)
	target := p.parseTargetListAsTuple()
	p.expect(token.IN)
	iter, _ := p.parseExprListAsSingleOrTuple()
	body := p.parseSuite()
	var orelse *ast.Block
	if p.tok == token.ELSE {
		p.advance()
		orelse = p.parseSuite()
	}
	return &ast.ForStmt{Start: start, Async: async, Target: target, Iter: iter, Body: body, Orelse: orelse}
}

func (p *parser) parseTryStmt() ast.Stmt {
	start := p.expect(token.TRY)
	body := p.parseSuite()

	var handlers []*ast.ExceptHandler
	for p.tok == token.EXCEPT {
		hstart := p.expect(token.EXCEPT)
		// "except*" (exception groups) is accepted syntactically as a plain
		// except, since this language's binder does not model groups.
		p.accept(token.STAR)
		var excType ast.Expr
		var name *ast.Name
		if p.tok != token.COLON {
			excType = p.parseTest()
			if _, ok := p.accept(token.AS); ok {
				name = p.parseName()
			}
		}
		hbody := p.parseSuite()
		handlers = append(handlers, &ast.ExceptHandler{Start: hstart, Type: excType, Name: name, Body: hbody})
	}

	var orelse, finally *ast.Block
	if p.tok == token.ELSE {
		p.advance()
		orelse = p.parseSuite()
	}
	if p.tok == token.FINALLY {
		p.advance()
		finally = p.parseSuite()
	}
	return &ast.TryStmt{Start: start, Body: body, Handlers: handlers, Orelse: orelse, Finally: finally}
}

// parseWithStmt parses a with/async with statement. Python 3.10's
// parenthesized multi-item with-statement form is not supported: only the
// unparenthesized comma-separated item list is recognized, since the
// single-item and backslash-continued forms cover the language's actual
// surface syntax and a parenthesized item list is ambiguous with a
// parenthesized single context-manager expression without additional
// lookahead this parser does not implement.
func (p *parser) parseWithStmt(async bool) ast.Stmt {
	start := p.expect(token.WITH)
	var items []*ast.WithItem
	for {
		ctx := p.parseTest()
		var as ast.Expr
		if _, ok := p.accept(token.AS); ok {
			as = p.parseTargetAtom()
		}
		items = append(items, &ast.WithItem{Context: ctx, As: as})
		if p.tok != token.COMMA {
			break
		}
		p.advance()
	}
	body := p.parseSuite()
	return &ast.WithStmt{Start: start, Async: async, Items: items, Body: body}
}

func (p *parser) parseFuncDef(decorators []ast.Expr, async bool) ast.Stmt {
	start := p.expect(token.DEF)
	name := p.parseName()
	p.expect(token.LPAREN)
	sig := p.parseParams(token.RPAREN)
	p.expect(token.RPAREN)
	var returns ast.Expr
	if _, ok := p.accept(token.ARROW); ok {
		returns = p.parseTest()
	}
	p.funcDepth++
	body := p.parseSuite()
	p.funcDepth--
	return &ast.FunctionDef{
		Start: start, Async: async, Decorators: decorators, Name: name,
		Sig: sig, Returns: returns, Body: body, End: body.End,
	}
}

func (p *parser) parseClassDef(decorators []ast.Expr) ast.Stmt {
	start := p.expect(token.CLASS)
	name := p.parseName()
	var bases []ast.Expr
	var keywords []*ast.Keyword
	if _, ok := p.accept(token.LPAREN); ok {
		for p.tok != token.RPAREN {
			switch {
			case p.tok == token.STAR:
				star := p.val.Pos
				p.advance()
				bases = append(bases, &ast.Starred{Star: star, Value: p.parseTest()})
			case p.tok == token.DOUBLESTAR:
				p.advance()
				keywords = append(keywords, &ast.Keyword{Value: p.parseTest()})
			case p.tok == token.IDENT:
				save := p.val
				nm := p.parseName()
				if p.tok == token.ASSIGN {
					p.advance()
					keywords = append(keywords, &ast.Keyword{Name: nm, Value: p.parseTest()})
				} else {
					bases = append(bases, p.finishPrimaryFrom(ast.Expr(nm), save))
				}
			default:
				bases = append(bases, p.parseTest())
			}
			if p.tok != token.COMMA {
				break
			}
			p.advance()
		}
		p.expect(token.RPAREN)
	}
	body := p.parseSuite()
	return &ast.ClassDef{Start: start, Decorators: decorators, Name: name, Bases: bases, Keywords: keywords, Body: body, End: body.End}
}

// parseParams parses a function or lambda parameter list up to (but not
// consuming) closeTok. The '/' positional-only marker is accepted and
// skipped without being recorded: Params has no separate field for it,
// since the binder only needs to know a parameter's name and whether it is
// positional, *args, keyword-only or **kwargs, not whether call sites may
// pass it by keyword.
func (p *parser) parseParams(closeTok token.Token) *ast.Params {
	var sig ast.Params
	seenStar := false
	// a lambda's parameter list ends at ':', so its parameters take no
	// annotation
	annotated := closeTok != token.COLON
	for p.tok != closeTok {
		switch p.tok {
		case token.STAR:
			p.advance()
			if p.tok == token.IDENT {
				sig.VarArg = p.parseOneParam(annotated)
			}
			seenStar = true
		case token.DOUBLESTAR:
			p.advance()
			sig.KwArg = p.parseOneParam(annotated)
		case token.SLASH:
			p.advance()
		default:
			prm := p.parseOneParam(annotated)
			if seenStar {
				sig.KwOnly = append(sig.KwOnly, prm)
			} else {
				sig.Args = append(sig.Args, prm)
			}
		}
		if p.tok != token.COMMA {
			break
		}
		p.advance()
	}
	return &sig
}

func (p *parser) parseOneParam(annotated bool) *ast.Param {
	name := p.parseName()
	var ann, def ast.Expr
	if annotated {
		if _, ok := p.accept(token.COLON); ok {
			ann = p.parseTest()
		}
	}
	if _, ok := p.accept(token.ASSIGN); ok {
		def = p.parseTest()
	}
	return &ast.Param{Name: name, Annotation: ann, Default: def}
}
