package binder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/pybind/internal/ast"
	"github.com/mna/pybind/internal/binder"
)

func TestModuleLevelFunctionIsNotAMethod(t *testing.T) {
	mod, res := bindOK(t, "def f():\n    pass\n")
	fd := findFunc(mod, "f")
	decl, ok := res.DeclarationOf(fd.Name)
	require.True(t, ok)
	fnDecl := decl.(*binder.FunctionDeclaration)
	require.False(t, fnDecl.IsMethod)
}

func TestMethodInsideClassBodyIsAMethod(t *testing.T) {
	mod, res := bindOK(t, "class C:\n    def m(self):\n        pass\n")
	method := findFunc(mod, "m")
	decl, ok := res.DeclarationOf(method.Name)
	require.True(t, ok)
	fnDecl := decl.(*binder.FunctionDeclaration)
	require.True(t, fnDecl.IsMethod)
}

func TestNestedFunctionInsideMethodIsNotAMethod(t *testing.T) {
	mod, res := bindOK(t, `
class C:
    def m(self):
        def helper():
            pass
        helper()
`)
	helper := findFunc(mod, "helper")
	decl, ok := res.DeclarationOf(helper.Name)
	require.True(t, ok)
	fnDecl := decl.(*binder.FunctionDeclaration)
	require.False(t, fnDecl.IsMethod)
}

func TestDecoratedFunctionStillBindsItsName(t *testing.T) {
	mod, res := bindOK(t, "def deco(f):\n    return f\n\n@deco\ndef f():\n    pass\n")
	fd := findFunc(mod, "f")
	require.NotNil(t, fd)
	require.Len(t, fd.Decorators, 1)
	_, ok := res.DeclarationOf(fd.Name)
	require.True(t, ok)
}

func TestParametersGetDeclarationsInFunctionScope(t *testing.T) {
	mod, res := bindOK(t, "def f(a, b=1, *args, c, d=2, **kwargs):\n    pass\n")
	fd := findFunc(mod, "f")
	scope, ok := res.ScopeOf(fd)
	require.True(t, ok)
	for _, name := range []string{"a", "b", "args", "c", "d", "kwargs"} {
		sym, found := lookupDirect(scope, name)
		require.True(t, found, "missing parameter %s", name)
		require.Len(t, sym.Decls, 1)
		_, ok := sym.Decls[0].(*binder.ParameterDeclaration)
		require.True(t, ok)
	}
}

func TestClassAttributeIsVisibleInClassScope(t *testing.T) {
	mod, res := bindOK(t, "class C:\n    attr = 1\n    other = attr\n")
	cd := findClass(mod, "C")
	classScope, ok := res.ScopeOf(cd)
	require.True(t, ok)
	_, found := lookupDirect(classScope, "attr")
	require.True(t, found)
	_, found = lookupDirect(classScope, "other")
	require.True(t, found)
}

func TestLambdaGetsItsOwnFunctionDeclaration(t *testing.T) {
	mod, res := bindOK(t, "f = lambda x: x + 1\n")
	require.Empty(t, res.Diagnostics)
	lam := mod.Body.Stmts[0].(*ast.Assign).Value.(*ast.Lambda)
	decl, ok := res.DeclarationOf(lam)
	require.True(t, ok)
	_, ok = decl.(*binder.FunctionDeclaration)
	require.True(t, ok)
}
