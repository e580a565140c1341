package binder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/pybind/internal/binder"
)

func TestModuleScopeGetsIntrinsicsAndBuiltinParent(t *testing.T) {
	mod, res := bindOK(t, "x = 1\n")
	require.Equal(t, binder.ModuleScope, res.Module.Kind)
	require.Equal(t, binder.BuiltinScope, res.Builtin.Kind)
	require.Nil(t, res.Builtin.Parent)

	for _, name := range []string{"__name__", "__doc__", "__dict__", "__file__"} {
		_, ok := lookupDirect(res.Module, name)
		require.True(t, ok, "missing intrinsic %s", name)
	}

	_, scoped := res.ScopeOf(mod)
	require.True(t, scoped)
}

func lookupDirect(s *binder.Scope, name string) (*binder.Symbol, bool) {
	for _, sym := range s.Symbols() {
		if sym.Name == name {
			return sym, true
		}
	}
	return nil, false
}

func TestBuiltinScopeHasOrdinaryBuiltins(t *testing.T) {
	_, res := bindOK(t, "pass\n")
	for _, name := range []string{"len", "print", "isinstance", "range", "Exception"} {
		sym, ok := lookupDirect(res.Builtin, name)
		require.True(t, ok, "missing builtin %s", name)
		require.Len(t, sym.Decls, 1)
		_, ok = sym.Decls[0].(*binder.IntrinsicDeclaration)
		require.True(t, ok)
	}
}

func TestBuiltinScopeHasSpecialTypingNamesOnlyInStubs(t *testing.T) {
	_, res := bindSrc(t, "pass\n", &binder.FileInfo{Path: "m.py", ModuleName: "m", IsStub: false}, nil)
	_, ok := lookupDirect(res.Builtin, "Protocol")
	require.False(t, ok, "non-stub file should not see typing-only builtins")

	_, resStub := bindSrc(t, "pass\n", &binder.FileInfo{Path: "m.pyi", ModuleName: "m", IsStub: true}, nil)
	sym, ok := lookupDirect(resStub.Builtin, "Protocol")
	require.True(t, ok)
	_, ok = sym.Decls[0].(*binder.SpecialBuiltInClassDeclaration)
	require.True(t, ok)
}

func TestFunctionScopeNestsUnderModule(t *testing.T) {
	mod, res := bindOK(t, "def f():\n    x = 1\n")
	fd := findFunc(mod, "f")
	require.NotNil(t, fd)
	scope, ok := res.ScopeOf(fd)
	require.True(t, ok)
	require.Equal(t, binder.FunctionScope, scope.Kind)
	require.Equal(t, res.Module, scope.Parent)
}

func TestClassScopeNotVisibleToNestedFunctionScope(t *testing.T) {
	mod, res := bindOK(t, `
class C:
    attr = 1
    def m(self):
        return attr
`)
	cd := findClass(mod, "C")
	require.NotNil(t, cd)
	classScope, ok := res.ScopeOf(cd)
	require.True(t, ok)
	require.Equal(t, binder.ClassScope, classScope.Kind)

	method := findFunc(mod, "m")
	require.NotNil(t, method)
	methodScope, ok := res.ScopeOf(method)
	require.True(t, ok)
	// a method's scope parent skips the enclosing class scope entirely
	require.NotEqual(t, binder.ClassScope, methodScope.Parent.Kind)
	require.Equal(t, res.Module, methodScope.Parent)

	_, found := lookupDirect(classScope, "attr")
	require.True(t, found)
}

func TestComprehensionIntroducesItsOwnScope(t *testing.T) {
	_, res := bindOK(t, "xs = [y for y in range(3)]\n")
	// the comprehension's target "y" is declared in its own isolated scope,
	// never leaking into the enclosing module scope.
	_, found := lookupDirect(res.Module, "y")
	require.False(t, found)
}
