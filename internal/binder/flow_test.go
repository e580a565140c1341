package binder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/pybind/internal/ast"
	"github.com/mna/pybind/internal/binder"
)

func firstAssign(mod *ast.Module, idx int) ast.Node {
	return mod.Body.Stmts[idx].(*ast.Assign).Targets[0]
}

func TestLinearAssignmentChainsFlowNodes(t *testing.T) {
	mod, res := bindOK(t, "x = 1\ny = 2\n")
	xTarget := firstAssign(mod, 0)
	yTarget := firstAssign(mod, 1)

	xFlow, ok := res.FlowNodeOf(xTarget)
	require.True(t, ok)
	yFlow, ok := res.FlowNodeOf(yTarget)
	require.True(t, ok)

	yNode := res.Node(yFlow)
	require.Equal(t, binder.FlowAssignment, yNode.Kind)
	require.Contains(t, yNode.Antecedents, xFlow)
}

func TestReturnMakesSubsequentCodeUnreachable(t *testing.T) {
	mod, res := bindOK(t, "def f():\n    return 1\n    x = 2\n")
	fd := findFunc(mod, "f")
	require.NotNil(t, fd)
	deadTarget := fd.Body.Stmts[1].(*ast.Assign).Targets[0]
	// code after a return never reaches the assignment builder, so no flow
	// node is ever attached to its target.
	_, ok := res.FlowNodeOf(deadTarget)
	require.False(t, ok)
}

func TestIfElseJoinsAtPostLabel(t *testing.T) {
	mod, res := bindOK(t, `
if cond:
    x = 1
else:
    x = 2
y = 3
`)
	ifStmt := mod.Body.Stmts[0].(*ast.IfStmt)
	thenTarget := ifStmt.Body.Stmts[0].(*ast.Assign).Targets[0]
	elseTarget := ifStmt.Orelse.Stmts[0].(*ast.Assign).Targets[0]
	yTarget := firstAssign(mod, 1)

	thenFlow, _ := res.FlowNodeOf(thenTarget)
	elseFlow, _ := res.FlowNodeOf(elseTarget)
	yFlow, _ := res.FlowNodeOf(yTarget)

	// y's own antecedent is the post-if join label (since it has two
	// distinct predecessors, the label node itself is kept rather than
	// collapsed), and that label's antecedents are the two branch tails.
	yNode := res.Node(yFlow)
	require.Len(t, yNode.Antecedents, 1)
	joinLabel := res.Node(yNode.Antecedents[0])
	require.Equal(t, binder.FlowBranchLabel, joinLabel.Kind)
	require.Contains(t, joinLabel.Antecedents, thenFlow)
	require.Contains(t, joinLabel.Antecedents, elseFlow)
}

func TestWhileLoopBackEdge(t *testing.T) {
	mod, res := bindOK(t, `
while cond:
    x = 1
y = 2
`)
	whileStmt := mod.Body.Stmts[0].(*ast.WhileStmt)
	bodyTarget := whileStmt.Body.Stmts[0].(*ast.Assign).Targets[0]
	bodyFlow, ok := res.FlowNodeOf(bodyTarget)
	require.True(t, ok)

	// the loop label gains the body's final flow as a second antecedent
	// (the back-edge), in addition to the flow that entered the loop.
	bodyNode := res.Node(bodyFlow)
	require.Len(t, bodyNode.Antecedents, 1)
	cond := res.Node(bodyNode.Antecedents[0])
	require.Equal(t, binder.FlowCondition, cond.Kind)
	loop := res.Node(cond.Antecedents[0])
	require.Equal(t, binder.FlowLoopLabel, loop.Kind)
	require.Contains(t, loop.Antecedents, bodyFlow)

	yFlow, ok := res.FlowNodeOf(firstAssign(mod, 1))
	require.True(t, ok)
	// no break exists in this loop, so the post-while label collapses to
	// the single edge from the condition's false branch.
	require.Len(t, res.Node(yFlow).Antecedents, 1)
}

func TestBreakSkipsLoopElseClause(t *testing.T) {
	mod, res := bindOK(t, `
for i in xs:
    if cond:
        break
else:
    y = 1
z = 2
`)
	forStmt := mod.Body.Stmts[0].(*ast.ForStmt)
	require.NotNil(t, forStmt.Orelse)
	elseTarget := forStmt.Orelse.Stmts[0].(*ast.Assign).Targets[0]
	elseFlow, ok := res.FlowNodeOf(elseTarget)
	require.True(t, ok)
	// the else clause's single antecedent is the for loop's own label (the
	// iterator being exhausted), not any flow on the path that broke out of
	// the loop.
	require.Len(t, res.Node(elseFlow).Antecedents, 1)
}

func TestRaiseMakesSubsequentCodeUnreachable(t *testing.T) {
	mod, res := bindOK(t, "raise ValueError()\nx = 1\n")
	target := firstAssign(mod, 1)
	_, ok := res.FlowNodeOf(target)
	require.False(t, ok)
}

func TestBareRaiseOutsideExceptReportsDiagnostic(t *testing.T) {
	_, res := bindOK(t, "raise\n")
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, binder.RuleBareRaiseOutsideExcept, res.Diagnostics[0].Rule)
}

func TestBareRaiseInsideExceptIsFine(t *testing.T) {
	_, res := bindOK(t, "try:\n    pass\nexcept Exception:\n    raise\n")
	require.Empty(t, res.Diagnostics)
}

func TestAwaitOutsideAsyncReportsDiagnostic(t *testing.T) {
	_, res := bindOK(t, "def f():\n    await g()\n")
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, binder.RuleAwaitOutsideAsync, res.Diagnostics[0].Rule)
}

func TestAwaitInsideAsyncFunctionIsFine(t *testing.T) {
	_, res := bindOK(t, "async def f():\n    await g()\n")
	require.Empty(t, res.Diagnostics)
}

func TestYieldMarksFunctionAsGenerator(t *testing.T) {
	mod, res := bindOK(t, "def f():\n    yield 1\n")
	fd := findFunc(mod, "f")
	require.NotNil(t, fd)
	decl, ok := res.DeclarationOf(fd.Name)
	require.True(t, ok)
	fnDecl, ok := decl.(*binder.FunctionDeclaration)
	require.True(t, ok)
	require.True(t, fnDecl.IsGenerator)
	require.Len(t, fnDecl.YieldNodes, 1)
}

func TestUnreachableYieldStillMarksGenerator(t *testing.T) {
	mod, res := bindOK(t, "def f():\n    return 1\n    yield 1\n")
	fd := findFunc(mod, "f")
	decl, _ := res.DeclarationOf(fd.Name)
	fnDecl := decl.(*binder.FunctionDeclaration)
	require.True(t, fnDecl.IsGenerator)
}
