package binder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/pybind/internal/binder"
)

func TestComprehensionWithMultipleForClausesSharesOneScope(t *testing.T) {
	_, res := bindOK(t, "xs = [x + y for x in range(3) for y in range(3)]\n")
	_, found := lookupDirect(res.Module, "x")
	require.False(t, found)
	_, found = lookupDirect(res.Module, "y")
	require.False(t, found)
}

func TestComprehensionIfFilterIsNarrowingAware(t *testing.T) {
	_, res := bindOK(t, "xs = [x for x in range(3) if isinstance(x, int)]\n")
	require.Empty(t, res.Diagnostics)
}

func TestComprehensionShadowingOuterNameAliasesIt(t *testing.T) {
	_, res := bindOK(t, "y = 5\nxs = [y for y in range(3)]\nz = y\n")
	// the outer "y" declared before the comprehension keeps its own
	// declaration untouched; the comprehension's "y" lives in its own scope.
	sym, found := lookupDirect(res.Module, "y")
	require.True(t, found)
	require.Len(t, sym.Decls, 1)
	_, ok := sym.Decls[0].(*binder.VariableDeclaration)
	require.True(t, ok)
}

func TestGeneratorExpressionAlsoGetsItsOwnScope(t *testing.T) {
	_, res := bindOK(t, "total = sum(x for x in range(3))\n")
	_, found := lookupDirect(res.Module, "x")
	require.False(t, found)
}

func TestDictComprehensionBindsKeyAndValueTargets(t *testing.T) {
	_, res := bindOK(t, "d = {k: v for k, v in pairs}\n")
	_, found := lookupDirect(res.Module, "k")
	require.False(t, found)
	_, found = lookupDirect(res.Module, "v")
	require.False(t, found)
}
