package parser_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/pybind/internal/ast"
	"github.com/mna/pybind/internal/parser"
	"github.com/mna/pybind/internal/token"
)

func parseSrc(t *testing.T, mode parser.Mode, src string) (*ast.Module, error) {
	t.Helper()
	fs := token.NewFileSet()
	return parser.ParseModule(context.Background(), mode, fs, "test.py", []byte(src))
}

func parseOK(t *testing.T, src string) *ast.Module {
	t.Helper()
	mod, err := parseSrc(t, 0, src)
	require.NoError(t, err)
	return mod
}

func TestParseSimpleAssignAndExprStmt(t *testing.T) {
	mod := parseOK(t, "x = 1\nprint(x)\n")
	require.Len(t, mod.Body.Stmts, 2)

	assign, ok := mod.Body.Stmts[0].(*ast.Assign)
	require.True(t, ok)
	require.Len(t, assign.Targets, 1)
	name, ok := assign.Targets[0].(*ast.Name)
	require.True(t, ok)
	require.Equal(t, "x", name.Id)
	lit, ok := assign.Value.(*ast.Literal)
	require.True(t, ok)
	require.Equal(t, token.INT, lit.Kind)

	exprStmt, ok := mod.Body.Stmts[1].(*ast.ExprStmt)
	require.True(t, ok)
	call, ok := exprStmt.Value.(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 1)
}

func TestParseChainedAndAugmentedAssign(t *testing.T) {
	mod := parseOK(t, "a = b = 1\nc += 2\n")
	require.Len(t, mod.Body.Stmts, 2)

	assign, ok := mod.Body.Stmts[0].(*ast.Assign)
	require.True(t, ok)
	require.Len(t, assign.Targets, 2)

	aug, ok := mod.Body.Stmts[1].(*ast.AugAssign)
	require.True(t, ok)
	require.Equal(t, token.PLUS_EQ, aug.Op)
}

func TestParseIfElifElse(t *testing.T) {
	src := "if x:\n    pass\nelif y:\n    pass\nelse:\n    pass\n"
	mod := parseOK(t, src)
	require.Len(t, mod.Body.Stmts, 1)

	top, ok := mod.Body.Stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	require.NotNil(t, top.Orelse)
	require.Len(t, top.Orelse.Stmts, 1)

	elif, ok := top.Orelse.Stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	require.NotNil(t, elif.Orelse)
	_, ok = elif.Orelse.Stmts[0].(*ast.PassStmt)
	require.True(t, ok)
}

func TestParseOneLinerSuite(t *testing.T) {
	mod := parseOK(t, "if x: pass\n")
	ifs, ok := mod.Body.Stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	require.Len(t, ifs.Body.Stmts, 1)
	_, ok = ifs.Body.Stmts[0].(*ast.PassStmt)
	require.True(t, ok)
}

func TestParseFuncDefWithDefaultsAndVarargs(t *testing.T) {
	src := "def f(a, b=1, *args, c, d=2, **kwargs) -> int:\n    return a\n"
	mod := parseOK(t, src)
	fn, ok := mod.Body.Stmts[0].(*ast.FunctionDef)
	require.True(t, ok)
	require.Equal(t, "f", fn.Name.Id)
	require.Len(t, fn.Sig.Args, 2)
	require.NotNil(t, fn.Sig.VarArg)
	require.Equal(t, "args", fn.Sig.VarArg.Name.Id)
	require.Len(t, fn.Sig.KwOnly, 2)
	require.NotNil(t, fn.Sig.KwOnly[1].Default)
	require.NotNil(t, fn.Sig.KwArg)
	require.Equal(t, "kwargs", fn.Sig.KwArg.Name.Id)
	require.NotNil(t, fn.Returns)
}

func TestParseDecoratedAsyncFunc(t *testing.T) {
	src := "@staticmethod\n@another.dec\nasync def f():\n    await g()\n"
	mod := parseOK(t, src)
	fn, ok := mod.Body.Stmts[0].(*ast.FunctionDef)
	require.True(t, ok)
	require.True(t, fn.Async)
	require.Len(t, fn.Decorators, 2)
}

func TestParseClassWithBasesAndKeywords(t *testing.T) {
	src := "class C(Base1, Base2, metaclass=Meta):\n    pass\n"
	mod := parseOK(t, src)
	cd, ok := mod.Body.Stmts[0].(*ast.ClassDef)
	require.True(t, ok)
	require.Equal(t, "C", cd.Name.Id)
	require.Len(t, cd.Bases, 2)
	require.Len(t, cd.Keywords, 1)
	require.Equal(t, "metaclass", cd.Keywords[0].Name.Id)
}

func TestParseTryExceptElseFinally(t *testing.T) {
	src := "try:\n    pass\nexcept ValueError as e:\n    pass\nexcept:\n    pass\nelse:\n    pass\nfinally:\n    pass\n"
	mod := parseOK(t, src)
	try, ok := mod.Body.Stmts[0].(*ast.TryStmt)
	require.True(t, ok)
	require.Len(t, try.Handlers, 2)
	require.NotNil(t, try.Handlers[0].Type)
	require.Equal(t, "e", try.Handlers[0].Name.Id)
	require.Nil(t, try.Handlers[1].Type)
	require.NotNil(t, try.Orelse)
	require.NotNil(t, try.Finally)
}

func TestParseForWithElseAndAsyncWith(t *testing.T) {
	mod := parseOK(t, "for x in y:\n    pass\nelse:\n    pass\n")
	forStmt, ok := mod.Body.Stmts[0].(*ast.ForStmt)
	require.True(t, ok)
	require.NotNil(t, forStmt.Orelse)

	mod2 := parseOK(t, "async def f():\n    async with open(p) as fh:\n        pass\n")
	fn := mod2.Body.Stmts[0].(*ast.FunctionDef)
	with, ok := fn.Body.Stmts[0].(*ast.WithStmt)
	require.True(t, ok)
	require.True(t, with.Async)
	require.Len(t, with.Items, 1)
	require.NotNil(t, with.Items[0].As)
}

func TestParseWithMultipleItems(t *testing.T) {
	mod := parseOK(t, "with a() as x, b() as y:\n    pass\n")
	with, ok := mod.Body.Stmts[0].(*ast.WithStmt)
	require.True(t, ok)
	require.Len(t, with.Items, 2)
}

func TestParseImportVariants(t *testing.T) {
	mod := parseOK(t, "import os.path as p\nfrom . import sibling\nfrom ..pkg import a, b as c\nfrom mod import *\n")
	require.Len(t, mod.Body.Stmts, 4)

	imp, ok := mod.Body.Stmts[0].(*ast.ImportStmt)
	require.True(t, ok)
	require.Equal(t, []string{"os", "path"}, imp.Names[0].Path)
	require.Equal(t, "p", imp.Names[0].AsName.Id)

	from1, ok := mod.Body.Stmts[1].(*ast.ImportFromStmt)
	require.True(t, ok)
	require.Equal(t, 1, from1.Dots)
	require.Equal(t, "", from1.Module)

	from2, ok := mod.Body.Stmts[2].(*ast.ImportFromStmt)
	require.True(t, ok)
	require.Equal(t, 2, from2.Dots)
	require.Equal(t, "pkg", from2.Module)
	require.Len(t, from2.Names, 2)
	require.Equal(t, "c", from2.Names[1].AsName.Id)

	from3, ok := mod.Body.Stmts[3].(*ast.ImportFromStmt)
	require.True(t, ok)
	require.True(t, from3.Star)
}

func TestParseComprehensionsAndGenerators(t *testing.T) {
	mod := parseOK(t, "xs = [x for x in range(10) if x % 2 == 0]\n"+
		"s = {x*x for x in xs}\n"+
		"d = {x: x*x for x in xs}\n"+
		"g = sum(x for x in xs)\n")
	require.Len(t, mod.Body.Stmts, 4)

	lc := mod.Body.Stmts[0].(*ast.Assign).Value.(*ast.ListComp)
	require.Len(t, lc.Generators, 1)
	require.Len(t, lc.Generators[0].Ifs, 1)

	_, ok := mod.Body.Stmts[1].(*ast.Assign).Value.(*ast.SetComp)
	require.True(t, ok)
	_, ok = mod.Body.Stmts[2].(*ast.Assign).Value.(*ast.DictComp)
	require.True(t, ok)

	call := mod.Body.Stmts[3].(*ast.Assign).Value.(*ast.Call)
	require.Len(t, call.Args, 1)
	_, ok = call.Args[0].(*ast.GeneratorExp)
	require.True(t, ok)
}

func TestParseLambdaAndTernary(t *testing.T) {
	mod := parseOK(t, "f = lambda x, y=1: x + y if x else y\n")
	lam, ok := mod.Body.Stmts[0].(*ast.Assign).Value.(*ast.Lambda)
	require.True(t, ok)
	require.Len(t, lam.Sig.Args, 2)
	_, ok = lam.Body.(*ast.IfExp)
	require.True(t, ok)
}

func TestParseWalrusInCondition(t *testing.T) {
	mod := parseOK(t, "if (n := compute()) > 0:\n    pass\n")
	ifs := mod.Body.Stmts[0].(*ast.IfStmt)
	cmp, ok := ifs.Test.(*ast.Compare)
	require.True(t, ok)
	_, ok = cmp.Left.(*ast.NamedExpr)
	require.True(t, ok)
}

func TestParseOperatorPrecedenceAndComparisonChain(t *testing.T) {
	mod := parseOK(t, "r = 1 + 2 * 3 ** 2\nok = 0 < x < 10 and not done\n")
	bin := mod.Body.Stmts[0].(*ast.Assign).Value.(*ast.BinOp)
	require.Equal(t, token.PLUS, bin.Op)
	right, ok := bin.Right.(*ast.BinOp)
	require.True(t, ok)
	require.Equal(t, token.STAR, right.Op)

	boolOp := mod.Body.Stmts[1].(*ast.Assign).Value.(*ast.BoolOp)
	require.Equal(t, token.AND, boolOp.Op)
	cmp, ok := boolOp.Values[0].(*ast.Compare)
	require.True(t, ok)
	require.Equal(t, []token.Token{token.LT, token.LT}, cmp.Ops)
}

func TestParseIsNotAndNotIn(t *testing.T) {
	mod := parseOK(t, "a = x is not None\nb = y not in xs\n")
	cmp1 := mod.Body.Stmts[0].(*ast.Assign).Value.(*ast.Compare)
	require.Equal(t, []token.Token{token.ISNOT}, cmp1.Ops)
	cmp2 := mod.Body.Stmts[1].(*ast.Assign).Value.(*ast.Compare)
	require.Equal(t, []token.Token{token.NOTIN}, cmp2.Ops)
}

func TestParseStarredAndCallKeywordArgDisambiguation(t *testing.T) {
	mod := parseOK(t, "a, *rest = items\nf(x, y=1, *more, **kw)\nf(x + 1, y == 2)\n")
	assign := mod.Body.Stmts[0].(*ast.Assign)
	tup := assign.Targets[0].(*ast.TupleExpr)
	require.Len(t, tup.Items, 2)
	_, ok := tup.Items[1].(*ast.Starred)
	require.True(t, ok)

	call := mod.Body.Stmts[1].(*ast.ExprStmt).Value.(*ast.Call)
	require.Len(t, call.Args, 2) // x, *more
	require.Len(t, call.Keywords, 2)

	call2 := mod.Body.Stmts[2].(*ast.ExprStmt).Value.(*ast.Call)
	bin, ok := call2.Args[0].(*ast.BinOp)
	require.True(t, ok)
	require.Equal(t, token.PLUS, bin.Op)
	cmp, ok := call2.Args[1].(*ast.Compare)
	require.True(t, ok)
	require.Equal(t, []token.Token{token.EQ}, cmp.Ops)
}

func TestParseSliceSubscript(t *testing.T) {
	mod := parseOK(t, "a = xs[1:10:2]\nb = xs[:, 0]\n")
	sub := mod.Body.Stmts[0].(*ast.Assign).Value.(*ast.Subscript)
	sl, ok := sub.Index.(*ast.SliceExpr)
	require.True(t, ok)
	require.NotNil(t, sl.Lower)
	require.NotNil(t, sl.Upper)
	require.NotNil(t, sl.Step)

	sub2 := mod.Body.Stmts[1].(*ast.Assign).Value.(*ast.Subscript)
	tup, ok := sub2.Index.(*ast.TupleExpr)
	require.True(t, ok)
	require.Len(t, tup.Items, 2)
	_, ok = tup.Items[0].(*ast.SliceExpr)
	require.True(t, ok)
}

func TestParseFStringEmbeddedExpr(t *testing.T) {
	mod := parseOK(t, `s = f"hello {name!r} you are {age+1:>3} today"` + "\n")
	sl := mod.Body.Stmts[0].(*ast.Assign).Value.(*ast.StringList)
	require.Len(t, sl.Parts, 1)
	require.True(t, sl.Parts[0].IsFormat)
	require.Len(t, sl.Parts[0].FormatExprs, 2)
	_, ok := sl.Parts[0].FormatExprs[0].(*ast.Name)
	require.True(t, ok)
	_, ok = sl.Parts[0].FormatExprs[1].(*ast.BinOp)
	require.True(t, ok)
}

func TestParseFStringUnterminatedBraceReportsFormatError(t *testing.T) {
	mod, err := parseSrc(t, 0, `s = f"hello {name"`+"\n")
	require.NoError(t, err)
	sl := mod.Body.Stmts[0].(*ast.Assign).Value.(*ast.StringList)
	require.Len(t, sl.Parts[0].FormatErrors, 1)
	require.Contains(t, sl.Parts[0].FormatErrors[0].Msg, "unterminated")
}

func TestParseFStringInvalidExprReportsFormatError(t *testing.T) {
	mod, err := parseSrc(t, 0, `s = f"hello {1 +}"`+"\n")
	require.NoError(t, err)
	sl := mod.Body.Stmts[0].(*ast.Assign).Value.(*ast.StringList)
	require.Len(t, sl.Parts[0].FormatErrors, 1)
	require.Contains(t, sl.Parts[0].FormatErrors[0].Msg, "invalid expression")
}

func TestParseAdjacentStringConcatenation(t *testing.T) {
	mod := parseOK(t, `s = "a" "b" 'c'` + "\n")
	sl := mod.Body.Stmts[0].(*ast.Assign).Value.(*ast.StringList)
	require.Len(t, sl.Parts, 3)
}

func TestParseGlobalNonlocalDelAssert(t *testing.T) {
	src := "def f():\n    global a, b\n    def g():\n        nonlocal a\n    del a, b\n    assert a == 1, 'bad'\n"
	mod := parseOK(t, src)
	fn := mod.Body.Stmts[0].(*ast.FunctionDef)
	g, ok := fn.Body.Stmts[0].(*ast.GlobalStmt)
	require.True(t, ok)
	require.Len(t, g.Names, 2)

	inner := fn.Body.Stmts[1].(*ast.FunctionDef)
	nl, ok := inner.Body.Stmts[0].(*ast.NonlocalStmt)
	require.True(t, ok)
	require.Len(t, nl.Names, 1)

	del, ok := fn.Body.Stmts[2].(*ast.DeleteStmt)
	require.True(t, ok)
	require.Len(t, del.Targets, 2)

	assert, ok := fn.Body.Stmts[3].(*ast.AssertStmt)
	require.True(t, ok)
	require.NotNil(t, assert.Msg)
}

func TestParseAnnotatedAssignment(t *testing.T) {
	mod := parseOK(t, "x: int = 1\ny: str\n")
	ann1 := mod.Body.Stmts[0].(*ast.AnnAssign)
	require.NotNil(t, ann1.Value)
	ann2 := mod.Body.Stmts[1].(*ast.AnnAssign)
	require.Nil(t, ann2.Value)
}

func TestParseYieldAndYieldFrom(t *testing.T) {
	src := "def gen():\n    yield 1\n    yield from other()\n    x = yield\n"
	mod := parseOK(t, src)
	fn := mod.Body.Stmts[0].(*ast.FunctionDef)
	_, ok := fn.Body.Stmts[0].(*ast.ExprStmt).Value.(*ast.Yield)
	require.True(t, ok)
	_, ok = fn.Body.Stmts[1].(*ast.ExprStmt).Value.(*ast.YieldFrom)
	require.True(t, ok)
	assign := fn.Body.Stmts[2].(*ast.Assign)
	y, ok := assign.Value.(*ast.Yield)
	require.True(t, ok)
	require.Nil(t, y.Value)
}

func TestParseBadStmtRecoversAndContinues(t *testing.T) {
	mod, err := parseSrc(t, 0, "x = (\ny = 2\n")
	require.Error(t, err)
	require.Len(t, mod.Body.Stmts, 1)
}

func TestParseCommentsAssociatedWithBlock(t *testing.T) {
	mod := parseOK(t, "# a comment\nx = 1\n")
	foundComment := false
	_, err := parseSrc(t, parser.Comments, "# a comment\nx = 1\n")
	require.NoError(t, err)
	mod2, err := parseSrc(t, parser.Comments, "# a comment\nx = 1\n")
	require.NoError(t, err)
	require.Len(t, mod2.Comments, 1)
	require.Equal(t, " a comment", mod2.Comments[0].Text)
	require.NotNil(t, mod2.Comments[0].Node)
	_ = mod
	_ = foundComment
}
