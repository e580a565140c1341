package binder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/pybind/internal/ast"
	"github.com/mna/pybind/internal/binder"
)

func TestIsinstanceNarrowsConditionTarget(t *testing.T) {
	mod, res := bindOK(t, `
if isinstance(x, int):
    y = 1
`)
	ifStmt := mod.Body.Stmts[0].(*ast.IfStmt)
	thenTarget := ifStmt.Body.Stmts[0].(*ast.Assign).Targets[0]
	thenFlow, ok := res.FlowNodeOf(thenTarget)
	require.True(t, ok)

	// the condition feeding the then-branch is a real FlowCondition node
	// (the isinstance(...) call classifies as narrowing), not a bare
	// pass-through of the preceding flow.
	condNode := res.Node(res.Node(thenFlow).Antecedents[0])
	require.Equal(t, binder.FlowCondition, condNode.Kind)
	require.True(t, condNode.IsTrue)
}

func TestNonNarrowingConditionPassesFlowThrough(t *testing.T) {
	mod, res := bindOK(t, `
if f():
    y = 1
`)
	ifStmt := mod.Body.Stmts[0].(*ast.IfStmt)
	thenTarget := ifStmt.Body.Stmts[0].(*ast.Assign).Targets[0]
	thenFlow, ok := res.FlowNodeOf(thenTarget)
	require.True(t, ok)
	// f() is a plain call, not a narrowing shape: the call's own Call flow
	// node is what feeds the assignment directly, no Condition node.
	anteNode := res.Node(res.Node(thenFlow).Antecedents[0])
	require.Equal(t, binder.FlowCall, anteNode.Kind)
}

func TestWalrusInComprehensionTargetCollisionReportsDiagnostic(t *testing.T) {
	_, res := bindOK(t, "xs = [y for y in range(3) if (y := y + 1) > 0]\n")
	var found bool
	for _, d := range res.Diagnostics {
		if d.Rule == binder.RuleWalrusInComprehension {
			found = true
		}
	}
	require.True(t, found)
}

func TestStaticallyFalseConditionCollapsesThenBranchToUnreachable(t *testing.T) {
	mod, res := bindOK(t, `
if False:
    y = 1
z = 2
`)
	ifStmt := mod.Body.Stmts[0].(*ast.IfStmt)
	thenTarget := ifStmt.Body.Stmts[0].(*ast.Assign).Targets[0]
	_, ok := res.FlowNodeOf(thenTarget)
	require.False(t, ok, "body of a statically-false if should never attach flow")
}
