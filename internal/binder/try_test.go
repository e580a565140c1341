package binder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/pybind/internal/ast"
	"github.com/mna/pybind/internal/binder"
)

func TestTryBodyFansIntoExceptHandlers(t *testing.T) {
	mod, res := bindOK(t, `
try:
    x = 1
    y = 2
except Exception:
    z = 3
`)
	tryStmt := mod.Body.Stmts[0].(*ast.TryStmt)
	xTarget := tryStmt.Body.Stmts[0].(*ast.Assign).Targets[0]
	yTarget := tryStmt.Body.Stmts[1].(*ast.Assign).Targets[0]
	zTarget := tryStmt.Handlers[0].Body.Stmts[0].(*ast.Assign).Targets[0]

	xFlow, _ := res.FlowNodeOf(xTarget)
	yFlow, _ := res.FlowNodeOf(yTarget)
	zFlow, ok := res.FlowNodeOf(zTarget)
	require.True(t, ok)

	// the except handler's label is fed by every statement in the try
	// body that could have raised before completing, not just the last
	// one: both x's and y's assignment are antecedents of the handler.
	zNode := res.Node(zFlow)
	require.Len(t, zNode.Antecedents, 1)
	handlerLabel := res.Node(zNode.Antecedents[0])
	require.Contains(t, handlerLabel.Antecedents, xFlow)
	require.Contains(t, handlerLabel.Antecedents, yFlow)
}

func TestExceptHandlerNameUnboundAfterHandler(t *testing.T) {
	mod, res := bindOK(t, `
try:
    pass
except Exception as e:
    print(e)
print(e)
`)
	tryStmt := mod.Body.Stmts[0].(*ast.TryStmt)
	handler := tryStmt.Handlers[0]
	require.NotNil(t, handler.Name)
	decl, ok := res.DeclarationOf(handler.Name)
	require.True(t, ok)
	_, ok = decl.(*binder.VariableDeclaration)
	require.True(t, ok)
}

func TestFinallyBindsWithoutErrorEvenWhenTryBodyAlwaysReturns(t *testing.T) {
	_, res := bindOK(t, `
def f():
    try:
        return 1
    finally:
        cleanup()
`)
	require.Empty(t, res.Diagnostics)
}

func TestTryElseOnlyRunsWhenBodyCompletesWithoutException(t *testing.T) {
	mod, res := bindOK(t, `
try:
    x = 1
except Exception:
    pass
else:
    y = x
`)
	tryStmt := mod.Body.Stmts[0].(*ast.TryStmt)
	xTarget := tryStmt.Body.Stmts[0].(*ast.Assign).Targets[0]
	yTarget := tryStmt.Orelse.Stmts[0].(*ast.Assign).Targets[0]

	xFlow, _ := res.FlowNodeOf(xTarget)
	yFlow, ok := res.FlowNodeOf(yTarget)
	require.True(t, ok)
	// else runs directly after the try body, with no handler in between.
	require.Contains(t, res.Node(yFlow).Antecedents, xFlow)
}
