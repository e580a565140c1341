package binder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/pybind/internal/ast"
	"github.com/mna/pybind/internal/binder"
)

func TestWithBindsAsTargetInEnclosingScope(t *testing.T) {
	mod, res := bindOK(t, "with open('f') as fh:\n    x = 1\n")
	withStmt := mod.Body.Stmts[0].(*ast.WithStmt)
	require.NotNil(t, withStmt.Items[0].As)

	// a with-statement introduces no new scope: both the "as" target and the
	// body's assignments land directly in the enclosing scope.
	_, found := lookupDirect(res.Module, "fh")
	require.True(t, found)

	bodyTarget := withStmt.Body.Stmts[0].(*ast.Assign).Targets[0]
	bodyFlow, ok := res.FlowNodeOf(bodyTarget)
	require.True(t, ok)
	require.Equal(t, binder.FlowAssignment, res.Node(bodyFlow).Kind)
}

func TestWithMultipleItemsBindsEachAsTarget(t *testing.T) {
	_, res := bindOK(t, "with open('a') as a, open('b') as b:\n    pass\n")
	_, found := lookupDirect(res.Module, "a")
	require.True(t, found)
	_, found = lookupDirect(res.Module, "b")
	require.True(t, found)
}

func TestWithWithoutAsStillWalksContextExpr(t *testing.T) {
	_, res := bindOK(t, "with lock():\n    pass\n")
	require.Empty(t, res.Diagnostics)
}

func TestAsyncWithBindsAsTargetLikeOrdinaryWith(t *testing.T) {
	_, res := bindOK(t, "async def f():\n    async with session() as s:\n        pass\n")
	require.Empty(t, res.Diagnostics)
	_, found := lookupDirect(res.Module, "s")
	require.False(t, found, "the as-target of an async with inside a function binds in the function scope, not the module")
}
