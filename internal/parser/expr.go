package parser

import (
	"github.com/mna/pybind/internal/ast"
	"github.com/mna/pybind/internal/lexer"
	"github.com/mna/pybind/internal/token"
)

// parseNamedExpr parses a 'test [":=" test]' expression, the entry point
// used anywhere a single expression is expected (conditions, call
// arguments, subscript indices, decorators, ...).
func (p *parser) parseNamedExpr() ast.Expr {
	e := p.parseTest()
	if colon, ok := p.accept(token.WALRUS); ok {
		name, ok := e.(*ast.Name)
		if !ok {
			p.error(colon, "assignment expression target must be a plain name")
			return e
		}
		value := p.parseTest()
		return &ast.NamedExpr{Target: name, Colon: colon, Value: value}
	}
	return e
}

// parseTest parses a conditional expression or lambda: the 'test' rule.
func (p *parser) parseTest() ast.Expr {
	if p.tok == token.LAMBDA {
		return p.parseLambda()
	}
	return p.finishTernaryFrom(p.parseOrTest())
}

// finishTernaryFrom completes "body if test else orelse" given that body was
// already parsed, used both by parseTest and by the disambiguation path that
// resumes expression parsing after a call argument's leading NAME.
func (p *parser) finishTernaryFrom(body ast.Expr) ast.Expr {
	if p.tok != token.IF {
		return body
	}
	p.advance()
	test := p.parseOrTest()
	p.expect(token.ELSE)
	orelse := p.parseTest()
	return &ast.IfExp{Body: body, Test: test, Orelse: orelse}
}

func (p *parser) parseLambda() ast.Expr {
	start := p.expect(token.LAMBDA)
	sig := p.parseParams(token.COLON)
	p.expect(token.COLON)
	body := p.parseTest()
	return &ast.Lambda{Start: start, Sig: sig, Body: body}
}

func (p *parser) parseOrTest() ast.Expr {
	return p.finishOrFrom(p.parseAndTest())
}

func (p *parser) finishOrFrom(left ast.Expr) ast.Expr {
	if p.tok != token.OR {
		return left
	}
	values := []ast.Expr{left}
	for p.tok == token.OR {
		p.advance()
		values = append(values, p.parseAndTest())
	}
	return &ast.BoolOp{Op: token.OR, Values: values}
}

func (p *parser) parseAndTest() ast.Expr {
	return p.finishAndFrom(p.parseNotTest())
}

func (p *parser) finishAndFrom(left ast.Expr) ast.Expr {
	if p.tok != token.AND {
		return left
	}
	values := []ast.Expr{left}
	for p.tok == token.AND {
		p.advance()
		values = append(values, p.parseNotTest())
	}
	return &ast.BoolOp{Op: token.AND, Values: values}
}

func (p *parser) parseNotTest() ast.Expr {
	if p.tok == token.NOT {
		pos := p.val.Pos
		p.advance()
		return &ast.UnaryOp{Op: token.NOT, OpPos: pos, Operand: p.parseNotTest()}
	}
	return p.parseComparison()
}

var compareOps = map[token.Token]bool{
	token.LT: true, token.GT: true, token.LE: true, token.GE: true,
	token.EQ: true, token.NE: true, token.IN: true,
}

func (p *parser) parseComparison() ast.Expr {
	return p.finishComparisonFrom(p.parseBitOr())
}

func (p *parser) finishComparisonFrom(left ast.Expr) ast.Expr {
	var ops []token.Token
	var opPos []token.Pos
	var comparators []ast.Expr
	for {
		var op token.Token
		pos := p.val.Pos
		switch {
		case compareOps[p.tok]:
			op = p.tok
			p.advance()
		case p.tok == token.IS:
			p.advance()
			op = token.IS
			if p.tok == token.NOT {
				p.advance()
				op = token.ISNOT
			}
		case p.tok == token.NOT:
			// lookahead: "not in" is only valid as a comparison operator when
			// followed by IN; otherwise NOT starts a new unary expression,
			// which cannot happen here since we've already parsed the left
			// operand, so an error is reported instead of silently stopping.
			save := p.tok
			p.advance()
			if p.tok != token.IN {
				p.error(pos, "expected 'in' after 'not'")
				p.tok = save
				return p.finishCompare(left, ops, opPos, comparators)
			}
			p.advance()
			op = token.NOTIN
		default:
			return p.finishCompare(left, ops, opPos, comparators)
		}
		ops = append(ops, op)
		opPos = append(opPos, pos)
		comparators = append(comparators, p.parseBitOr())
	}
}

func (p *parser) finishCompare(left ast.Expr, ops []token.Token, opPos []token.Pos, comparators []ast.Expr) ast.Expr {
	if len(ops) == 0 {
		return left
	}
	return &ast.Compare{Left: left, Ops: ops, OpPos: opPos, Comparators: comparators}
}

func (p *parser) parseBitOr() ast.Expr {
	return p.finishBitOrFrom(p.parseBitXor())
}

func (p *parser) finishBitOrFrom(left ast.Expr) ast.Expr {
	for p.tok == token.PIPE {
		pos := p.val.Pos
		p.advance()
		left = &ast.BinOp{Left: left, Op: token.PIPE, OpPos: pos, Right: p.parseBitXor()}
	}
	return left
}

func (p *parser) parseBitXor() ast.Expr {
	return p.finishBitXorFrom(p.parseBitAnd())
}

func (p *parser) finishBitXorFrom(left ast.Expr) ast.Expr {
	for p.tok == token.CARET {
		pos := p.val.Pos
		p.advance()
		left = &ast.BinOp{Left: left, Op: token.CARET, OpPos: pos, Right: p.parseBitAnd()}
	}
	return left
}

func (p *parser) parseBitAnd() ast.Expr {
	return p.finishBitAndFrom(p.parseShift())
}

func (p *parser) finishBitAndFrom(left ast.Expr) ast.Expr {
	for p.tok == token.AMP {
		pos := p.val.Pos
		p.advance()
		left = &ast.BinOp{Left: left, Op: token.AMP, OpPos: pos, Right: p.parseShift()}
	}
	return left
}

func (p *parser) parseShift() ast.Expr {
	return p.finishShiftFrom(p.parseArith())
}

func (p *parser) finishShiftFrom(left ast.Expr) ast.Expr {
	for p.tok == token.LSHIFT || p.tok == token.RSHIFT {
		op, pos := p.tok, p.val.Pos
		p.advance()
		left = &ast.BinOp{Left: left, Op: op, OpPos: pos, Right: p.parseArith()}
	}
	return left
}

func (p *parser) parseArith() ast.Expr {
	return p.finishArithFrom(p.parseTerm())
}

func (p *parser) finishArithFrom(left ast.Expr) ast.Expr {
	for p.tok == token.PLUS || p.tok == token.MINUS {
		op, pos := p.tok, p.val.Pos
		p.advance()
		left = &ast.BinOp{Left: left, Op: op, OpPos: pos, Right: p.parseTerm()}
	}
	return left
}

func (p *parser) parseTerm() ast.Expr {
	return p.finishTermFrom(p.parseFactor())
}

func (p *parser) finishTermFrom(left ast.Expr) ast.Expr {
	for tokenIn(p.tok, token.STAR, token.SLASH, token.DSLASH, token.PERCENT, token.AT) {
		op, pos := p.tok, p.val.Pos
		p.advance()
		left = &ast.BinOp{Left: left, Op: op, OpPos: pos, Right: p.parseFactor()}
	}
	return left
}

func (p *parser) parseFactor() ast.Expr {
	if tokenIn(p.tok, token.PLUS, token.MINUS, token.TILDE) {
		op, pos := p.tok, p.val.Pos
		p.advance()
		return &ast.UnaryOp{Op: op, OpPos: pos, Operand: p.parseFactor()}
	}
	return p.parsePower()
}

func (p *parser) parsePower() ast.Expr {
	left := p.parseAwaitOrPrimary()
	if p.tok == token.DOUBLESTAR {
		pos := p.val.Pos
		p.advance()
		// right-associative: the exponent itself may start with a unary
		// operator, e.g. 2 ** -1.
		right := p.parseFactor()
		return &ast.BinOp{Left: left, Op: token.DOUBLESTAR, OpPos: pos, Right: right}
	}
	return left
}

func (p *parser) parseAwaitOrPrimary() ast.Expr {
	if p.tok == token.AWAIT {
		pos := p.val.Pos
		p.advance()
		return &ast.Await{Start: pos, Value: p.parsePrimary()}
	}
	return p.parsePrimary()
}

// parsePrimary parses an atom followed by any number of trailers
// ('.' NAME, '(' arglist ')', '[' subscript ']').
func (p *parser) parsePrimary() ast.Expr {
	e := p.parseAtom()
	for {
		switch p.tok {
		case token.DOT:
			dot := p.val.Pos
			p.advance()
			name := p.parseName()
			e = &ast.Attribute{Value: e, Dot: dot, Attr: name}
		case token.LPAREN:
			e = p.parseCallTrailer(e)
		case token.LBRACK:
			e = p.parseSubscriptTrailer(e)
		default:
			return e
		}
	}
}

func (p *parser) parseName() *ast.Name {
	var n ast.Name
	n.Id = p.val.Raw
	n.Start = p.expect(token.IDENT)
	return &n
}

func (p *parser) parseCallTrailer(fn ast.Expr) ast.Expr {
	lparen := p.expect(token.LPAREN)
	var args []ast.Expr
	var keywords []*ast.Keyword
	for p.tok != token.RPAREN {
		switch {
		case p.tok == token.STAR:
			star := p.val.Pos
			p.advance()
			args = append(args, &ast.Starred{Star: star, Value: p.parseTest()})
		case p.tok == token.DOUBLESTAR:
			p.advance()
			keywords = append(keywords, &ast.Keyword{Name: nil, Value: p.parseTest()})
		case p.tok == token.IDENT:
			// could be NAME '=' test (keyword arg) or a plain expression
			// starting with a name; only commit to the keyword-arg form when
			// it is unambiguous (NAME immediately followed by '=', not '==').
			save := p.val
			name := p.parseName()
			if p.tok == token.ASSIGN {
				p.advance()
				keywords = append(keywords, &ast.Keyword{Name: name, Value: p.parseTest()})
			} else {
				e := p.finishPrimaryFrom(ast.Expr(name), save)
				if p.tok == token.FOR || p.tok == token.ASYNC && len(args) == 0 && len(keywords) == 0 {
					gens := p.parseComprehensionClauses()
					args = append(args, &ast.GeneratorExp{Lparen: lparen, Elt: e, Generators: gens, Rparen: p.val.Pos})
					goto closeParen
				}
				args = append(args, e)
			}
		default:
			e := p.parseNamedExpr()
			if p.tok == token.FOR || p.tok == token.ASYNC && len(args) == 0 && len(keywords) == 0 {
				// generator expression as the sole call argument, e.g. f(x for x in xs)
				gens := p.parseComprehensionClauses()
				args = append(args, &ast.GeneratorExp{Lparen: lparen, Elt: e, Generators: gens, Rparen: p.val.Pos})
				goto closeParen
			}
			args = append(args, e)
		}
		if p.tok != token.COMMA {
			break
		}
		p.advance()
	}
closeParen:
	rparen := p.expect(token.RPAREN)
	return &ast.Call{Fn: fn, Lparen: lparen, Args: args, Keywords: keywords, Rparen: rparen}
}

// finishPrimaryFrom resumes parsing a primary expression whose atom was
// already consumed as a bare NAME (to disambiguate call keyword arguments),
// applying any trailers/operators that follow at expression precedence.
func (p *parser) finishPrimaryFrom(base ast.Expr, _ token.Value) ast.Expr {
	for {
		switch p.tok {
		case token.DOT:
			dot := p.val.Pos
			p.advance()
			base = &ast.Attribute{Value: base, Dot: dot, Attr: p.parseName()}
		case token.LPAREN:
			base = p.parseCallTrailer(base)
		case token.LBRACK:
			base = p.parseSubscriptTrailer(base)
		default:
			return p.finishBinaryFrom(base)
		}
	}
}

// finishBinaryFrom re-enters the full expression-precedence chain with base
// already parsed as the leftmost operand, climbing from term level up
// through comparisons, boolean operators and the ternary. This only matters
// when the disambiguation in parseCallTrailer/parseClassDef consumed a bare
// NAME that turns out to be the start of a larger expression, e.g.
// f(x + 1) or f(x for x in y if x > 0 and flag).
func (p *parser) finishBinaryFrom(base ast.Expr) ast.Expr {
	base = p.finishTermFrom(base)
	base = p.finishArithFrom(base)
	base = p.finishShiftFrom(base)
	base = p.finishBitAndFrom(base)
	base = p.finishBitXorFrom(base)
	base = p.finishBitOrFrom(base)
	base = p.finishComparisonFrom(base)
	base = p.finishAndFrom(base)
	base = p.finishOrFrom(base)
	return p.finishTernaryFrom(base)
}

func (p *parser) parseSubscriptTrailer(value ast.Expr) ast.Expr {
	lbrack := p.expect(token.LBRACK)
	index := p.parseSubscriptIndex()
	rbrack := p.expect(token.RBRACK)
	return &ast.Subscript{Value: value, Lbrack: lbrack, Index: index, Rbrack: rbrack}
}

// parseSubscriptIndex parses the content of 'x[...]', including bare slice
// syntax (a:b:c) and comma-separated multi-dimensional indices. A single
// index parses as its own Expr (possibly a SliceExpr); more than one index
// folds into a TupleExpr of indices/slices, e.g. x[a, b:c].
func (p *parser) parseSubscriptIndex() ast.Expr {
	first := p.parseSliceItem()
	if p.tok != token.COMMA {
		return first
	}
	items := []ast.Expr{first}
	for p.tok == token.COMMA {
		p.advance()
		if p.tok == token.RBRACK {
			break
		}
		items = append(items, p.parseSliceItem())
	}
	return &ast.TupleExpr{Items: items}
}

func (p *parser) parseSliceItem() ast.Expr {
	var lower, upper, step ast.Expr
	if p.tok != token.COLON {
		lower = p.parseNamedExpr()
	}
	if p.tok != token.COLON {
		return lower
	}
	colon1 := p.val.Pos
	p.advance()
	if !tokenIn(p.tok, token.COLON, token.RBRACK, token.COMMA) {
		upper = p.parseTest()
	}
	if p.tok == token.COLON {
		p.advance()
		if !tokenIn(p.tok, token.RBRACK, token.COMMA) {
			step = p.parseTest()
		}
	}
	return &ast.SliceExpr{Colon: colon1, Lower: lower, Upper: upper, Step: step}
}

func (p *parser) parseAtom() ast.Expr {
	pos := p.val.Pos
	switch p.tok {
	case token.IDENT:
		return p.parseName()
	case token.INT, token.FLOAT:
		lit := &ast.Literal{Kind: p.tok, Start: pos, Raw: p.val.Raw}
		if p.tok == token.INT {
			lit.Value = p.val.Int
		} else {
			lit.Value = p.val.Float
		}
		p.advance()
		return lit
	case token.STRING:
		return p.parseStringList()
	case token.TRUE, token.FALSE, token.NONE:
		lit := &ast.Literal{Kind: p.tok, Start: pos, Raw: p.tok.String()}
		p.advance()
		return lit
	case token.ELLIPSIS:
		p.advance()
		return &ast.Literal{Kind: token.ELLIPSIS, Start: pos, Raw: "..."}
	case token.LPAREN:
		return p.parseParenOrTupleOrGenexp()
	case token.LBRACK:
		return p.parseListOrListcomp()
	case token.LBRACE:
		return p.parseSetOrDictOrComp()
	case token.YIELD:
		return p.parseYield()
	case token.STAR:
		star := pos
		p.advance()
		return &ast.Starred{Star: star, Value: p.parseOrTest()}
	default:
		p.errorExpected(pos, "an expression")
		panic(errPanicMode)
	}
}

func (p *parser) parseYield() ast.Expr {
	start := p.expect(token.YIELD)
	if p.tok == token.FROM {
		fromPos := p.val.Pos
		p.advance()
		return &ast.YieldFrom{Start: start, From: fromPos, Value: p.parseTest()}
	}
	if tokenIn(p.tok, token.RPAREN, token.RBRACK, token.RBRACE, token.NEWLINE, token.SEMI, token.EOF, token.COLON) {
		return &ast.Yield{Start: start}
	}
	value, _ := p.parseExprListAsSingleOrTuple()
	return &ast.Yield{Start: start, Value: value}
}

func (p *parser) parseParenOrTupleOrGenexp() ast.Expr {
	lparen := p.expect(token.LPAREN)
	if p.tok == token.RPAREN {
		rparen := p.expect(token.RPAREN)
		return &ast.TupleExpr{Lparen: lparen, Rparen: rparen}
	}
	if p.tok == token.YIELD {
		y := p.parseYield()
		rparen := p.expect(token.RPAREN)
		_ = rparen
		return y
	}

	first := p.parseStarOrNamedExpr()
	if p.tok == token.FOR || p.isAsyncFor() {
		gens := p.parseComprehensionClauses()
		rparen := p.expect(token.RPAREN)
		return &ast.GeneratorExp{Lparen: lparen, Elt: first, Generators: gens, Rparen: rparen}
	}

	if p.tok != token.COMMA {
		rparen := p.expect(token.RPAREN)
		if _, ok := first.(*ast.Starred); ok {
			return &ast.TupleExpr{Lparen: lparen, Items: []ast.Expr{first}, Rparen: rparen}
		}
		return first
	}

	items := []ast.Expr{first}
	for p.tok == token.COMMA {
		p.advance()
		if p.tok == token.RPAREN {
			break
		}
		items = append(items, p.parseStarOrNamedExpr())
	}
	rparen := p.expect(token.RPAREN)
	return &ast.TupleExpr{Lparen: lparen, Items: items, Rparen: rparen}
}

func (p *parser) isAsyncFor() bool {
	return p.tok == token.ASYNC
}

func (p *parser) parseStarOrNamedExpr() ast.Expr {
	if p.tok == token.STAR {
		star := p.val.Pos
		p.advance()
		return &ast.Starred{Star: star, Value: p.parseOrTest()}
	}
	return p.parseNamedExpr()
}

func (p *parser) parseListOrListcomp() ast.Expr {
	lbrack := p.expect(token.LBRACK)
	if p.tok == token.RBRACK {
		rbrack := p.expect(token.RBRACK)
		return &ast.ListExpr{Lbrack: lbrack, Rbrack: rbrack}
	}
	first := p.parseStarOrNamedExpr()
	if p.tok == token.FOR || p.isAsyncFor() {
		gens := p.parseComprehensionClauses()
		rbrack := p.expect(token.RBRACK)
		return &ast.ListComp{Lbrack: lbrack, Elt: first, Generators: gens, Rbrack: rbrack}
	}
	items := []ast.Expr{first}
	for p.tok == token.COMMA {
		p.advance()
		if p.tok == token.RBRACK {
			break
		}
		items = append(items, p.parseStarOrNamedExpr())
	}
	rbrack := p.expect(token.RBRACK)
	return &ast.ListExpr{Lbrack: lbrack, Items: items, Rbrack: rbrack}
}

func (p *parser) parseSetOrDictOrComp() ast.Expr {
	lbrace := p.expect(token.LBRACE)
	if p.tok == token.RBRACE {
		rbrace := p.expect(token.RBRACE)
		return &ast.DictExpr{Lbrace: lbrace, Rbrace: rbrace}
	}

	if p.tok == token.DOUBLESTAR {
		p.advance()
		val := p.parseOrTest()
		return p.finishDict(lbrace, nil, val)
	}

	first := p.parseStarOrNamedExpr()
	if p.tok == token.COLON {
		p.advance()
		val := p.parseTest()
		if p.tok == token.FOR || p.isAsyncFor() {
			gens := p.parseComprehensionClauses()
			rbrace := p.expect(token.RBRACE)
			return &ast.DictComp{Lbrace: lbrace, Key: first, Value: val, Generators: gens, Rbrace: rbrace}
		}
		return p.finishDict(lbrace, first, val)
	}

	if p.tok == token.FOR || p.isAsyncFor() {
		gens := p.parseComprehensionClauses()
		rbrace := p.expect(token.RBRACE)
		return &ast.SetComp{Lbrace: lbrace, Elt: first, Generators: gens, Rbrace: rbrace}
	}

	items := []ast.Expr{first}
	for p.tok == token.COMMA {
		p.advance()
		if p.tok == token.RBRACE {
			break
		}
		items = append(items, p.parseStarOrNamedExpr())
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.SetExpr{Lbrace: lbrace, Items: items, Rbrace: rbrace}
}

func (p *parser) finishDict(lbrace token.Pos, firstKey, firstVal ast.Expr) ast.Expr {
	keys := []ast.Expr{firstKey}
	values := []ast.Expr{firstVal}
	for p.tok == token.COMMA {
		p.advance()
		if p.tok == token.RBRACE {
			break
		}
		if p.tok == token.DOUBLESTAR {
			p.advance()
			keys = append(keys, nil)
			values = append(values, p.parseOrTest())
			continue
		}
		k := p.parseTest()
		p.expect(token.COLON)
		v := p.parseTest()
		keys = append(keys, k)
		values = append(values, v)
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.DictExpr{Lbrace: lbrace, Keys: keys, Values: values, Rbrace: rbrace}
}

func (p *parser) parseComprehensionClauses() []*ast.Comprehension {
	var gens []*ast.Comprehension
	for p.tok == token.FOR || p.tok == token.ASYNC {
		gens = append(gens, p.parseComprehensionClause())
	}
	return gens
}

func (p *parser) parseComprehensionClause() *ast.Comprehension {
	var c ast.Comprehension
	if p.tok == token.ASYNC {
		p.advance()
		c.Async = true
	}
	c.For = p.expect(token.FOR)
	c.Target = p.parseTargetListAsTuple()
	c.In = p.expect(token.IN)
	c.Iter = p.parseOrTest()
	for p.tok == token.IF {
		p.advance()
		c.Ifs = append(c.Ifs, p.parseOrTestNoCond())
	}
	return &c
}

// parseOrTestNoCond parses the 'or_test' used in a comprehension's 'if'
// clause: like a normal or_test, but a bare lambda is allowed too per the
// grammar ('test_nocond'), so a leading 'lambda' is parsed by parseLambda
// and anything else defers to parseOrTest.
func (p *parser) parseOrTestNoCond() ast.Expr {
	if p.tok == token.LAMBDA {
		return p.parseLambda()
	}
	return p.parseOrTest()
}

// parseTargetListAsTuple parses the 'for' clause's target list, collapsing
// multiple comma-separated targets into a TupleExpr.
func (p *parser) parseTargetListAsTuple() ast.Expr {
	first := p.parseTargetAtom()
	if p.tok != token.COMMA {
		return first
	}
	items := []ast.Expr{first}
	for p.tok == token.COMMA {
		p.advance()
		if p.tok == token.IN {
			break
		}
		items = append(items, p.parseTargetAtom())
	}
	return &ast.TupleExpr{Items: items}
}

// parseTargetAtom parses one assignment-target atom: a name, a parenthesized
// or bracketed target list, or a starred target.
func (p *parser) parseTargetAtom() ast.Expr {
	switch p.tok {
	case token.STAR:
		star := p.val.Pos
		p.advance()
		return &ast.Starred{Star: star, Value: p.parseTargetAtom()}
	case token.LPAREN:
		lparen := p.expect(token.LPAREN)
		if p.tok == token.RPAREN {
			rparen := p.expect(token.RPAREN)
			return &ast.TupleExpr{Lparen: lparen, Rparen: rparen}
		}
		items := []ast.Expr{p.parseTargetAtom()}
		for p.tok == token.COMMA {
			p.advance()
			if p.tok == token.RPAREN {
				break
			}
			items = append(items, p.parseTargetAtom())
		}
		rparen := p.expect(token.RPAREN)
		if len(items) == 1 {
			return items[0]
		}
		return &ast.TupleExpr{Lparen: lparen, Items: items, Rparen: rparen}
	case token.LBRACK:
		lbrack := p.expect(token.LBRACK)
		var items []ast.Expr
		for p.tok != token.RBRACK {
			items = append(items, p.parseTargetAtom())
			if p.tok != token.COMMA {
				break
			}
			p.advance()
		}
		rbrack := p.expect(token.RBRACK)
		return &ast.ListExpr{Lbrack: lbrack, Items: items, Rbrack: rbrack}
	default:
		return p.parsePrimary()
	}
}

// parseStringList parses one or more adjacent STRING tokens (implicit
// concatenation), splitting f-string parts' embedded {expr} sections.
func (p *parser) parseStringList() ast.Expr {
	var sl ast.StringList
	for p.tok == token.STRING {
		part := &ast.StringPart{Start: p.val.Pos, Raw: p.val.Raw, IsFormat: p.val.IsFString}
		if p.val.IsFString {
			part.FormatExprs, part.FormatErrors = p.splitFStringExprs(p.val.String, p.val.Pos)
		}
		sl.Parts = append(sl.Parts, part)
		p.advance()
	}
	return &sl
}

// splitFStringExprs scans a decoded f-string body for {expr} sections
// ("{{" and "}}" are literal braces, matching Python's f-string rules) and
// parses each one as a standalone expression using a nested scanner/parser
// over just that substring. A trailing '!conversion' or ':format_spec' is
// dropped before parsing, since neither contributes a binder-visible name.
// An unterminated '{' or a sub-expression that fails to parse on its own is
// collected as an ast.FormatError rather than reported here directly: the
// binder surfaces it through RuleFormatString so its severity stays subject
// to the same per-rule configuration as every other spec.md §6 diagnostic.
func (p *parser) splitFStringExprs(body string, base token.Pos) ([]ast.Expr, []ast.FormatError) {
	var exprs []ast.Expr
	var errs []ast.FormatError
	i := 0
	for i < len(body) {
		if body[i] == '{' {
			if i+1 < len(body) && body[i+1] == '{' {
				i += 2
				continue
			}
			depth := 1
			j := i + 1
			for j < len(body) && depth > 0 {
				switch body[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				j++
			}
			if depth > 0 {
				errs = append(errs, ast.FormatError{Start: base + token.Pos(i), Msg: "format string: unterminated '{'"})
				break
			}
			inner := body[i+1 : j-1]
			if bang := lastTopLevelByte(inner, '!'); bang >= 0 {
				inner = inner[:bang]
			}
			if colon := lastTopLevelByte(inner, ':'); colon >= 0 {
				inner = inner[:colon]
			}
			if e := p.parseSubExprString(inner); e != nil {
				exprs = append(exprs, e)
			} else if trimSpace(inner) != "" {
				errs = append(errs, ast.FormatError{Start: base + token.Pos(i+1), Msg: "format string: invalid expression"})
			}
			i = j
			continue
		}
		if body[i] == '}' && i+1 < len(body) && body[i+1] == '}' {
			i += 2
			continue
		}
		i++
	}
	return exprs, errs
}

func lastTopLevelByte(s string, b byte) int {
	depth := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ')', ']', '}':
			depth++
		case '(', '[', '{':
			depth--
		case b:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// parseSubExprString parses src as a standalone expression, used for a
// single f-string {expr} section. It runs against a detached file and
// scanner so a malformed embedded expression can never panic or report
// errors into the outer parser; on failure it simply contributes no
// expression for that {...} section.
func (p *parser) parseSubExprString(src string) ast.Expr {
	src = trimSpace(src)
	if src == "" {
		return nil
	}
	var sub parser
	fs := token.NewFileSet()
	f := fs.AddFile("<fstring>", -1, len(src))
	var s lexer.Scanner
	s.Init(f, []byte(src), func(token.Position, string) {})
	sub.scanner = s
	sub.file = f
	sub.advance()
	defer func() { recover() }()
	return sub.parseNamedExpr()
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t' || s[start] == '\n') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t' || s[end-1] == '\n') {
		end--
	}
	return s[start:end]
}

// parseExprListAsSingleOrTuple parses a comma-separated expression list,
// returning a single Expr for one item or a TupleExpr (without parens) for
// more than one; also returns whether a trailing comma was present.
func (p *parser) parseExprListAsSingleOrTuple() (ast.Expr, bool) {
	first := p.parseStarOrNamedExpr()
	if p.tok != token.COMMA {
		return first, false
	}
	items := []ast.Expr{first}
	trailing := false
	for p.tok == token.COMMA {
		p.advance()
		if !p.startsTest() {
			trailing = true
			break
		}
		items = append(items, p.parseStarOrNamedExpr())
	}
	return &ast.TupleExpr{Items: items}, trailing
}

// startsTest reports whether the current token can begin a test/expr,
// distinguishing a genuine next list item from a trailing comma.
func (p *parser) startsTest() bool {
	switch p.tok {
	case token.NEWLINE, token.SEMI, token.EOF, token.RPAREN, token.RBRACK,
		token.RBRACE, token.EQ, token.COLON, token.ASSIGN:
		return false
	}
	return true
}
