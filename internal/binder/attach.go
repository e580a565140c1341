package binder

import "github.com/mna/pybind/internal/ast"

// Result is the per-file output of a completed bind: the symbol tables
// reachable from Module/Builtin, plus the side-tables the spec calls for
// (scope, flow node, after-flow node, declaration, reference keys) keyed by
// AST node identity rather than stored as fields on the (immutable) AST
// itself.
type Result struct {
	Module  *Scope
	Builtin *Scope

	scopes          map[ast.Node]*Scope
	flowNodes       map[ast.Node]FlowNodeID
	afterFlowNodes  map[ast.Node]FlowNodeID
	declarations    map[ast.Node]Declaration
	codeFlowExprs   map[ast.Node]bool
	allNodes        []*FlowNode

	Diagnostics []Diagnostic
}

// ScopeOf returns the lexical scope a node was walked in, if recorded.
func (r *Result) ScopeOf(n ast.Node) (*Scope, bool) {
	s, ok := r.scopes[n]
	return s, ok
}

// FlowNodeOf returns the control-flow node attached to n, if any.
func (r *Result) FlowNodeOf(n ast.Node) (FlowNodeID, bool) {
	id, ok := r.flowNodes[n]
	return id, ok
}

// AfterFlowNodeOf returns the flow node representing control immediately
// after n finished executing (used for statements that contain nested
// control flow, e.g. a whole if/for/try statement).
func (r *Result) AfterFlowNodeOf(n ast.Node) (FlowNodeID, bool) {
	id, ok := r.afterFlowNodes[n]
	return id, ok
}

// DeclarationOf returns the Declaration created for a binding-introducing
// node: the *ast.Name that a binding introduces (an assignment target, the
// name of a def or class, a parameter, an import binding, ...), or an
// *ast.Lambda.
func (r *Result) DeclarationOf(n ast.Node) (Declaration, bool) {
	d, ok := r.declarations[n]
	return d, ok
}

// IsCodeFlowExpr reports whether n is an expression the narrowing
// classifier recognized and assigned CFG nodes for.
func (r *Result) IsCodeFlowExpr(n ast.Node) bool { return r.codeFlowExprs[n] }

// Node returns the FlowNode for id, or UnreachableNode if id is out of
// range (defensive default; id 0 is always Unreachable).
func (r *Result) Node(id FlowNodeID) *FlowNode {
	if int(id) < len(r.allNodes) {
		return r.allNodes[id]
	}
	return UnreachableNode
}

func (b *Binder) attachScope(n ast.Node, s *Scope) {
	b.ensureResult()
	b.result.scopes[n] = s
}

func (b *Binder) attachFlow(n ast.Node, id FlowNodeID) {
	b.ensureResult()
	b.result.flowNodes[n] = id
}

func (b *Binder) attachedFlow(n ast.Node) FlowNodeID {
	b.ensureResult()
	if id, ok := b.result.flowNodes[n]; ok {
		return id
	}
	return unreachableID
}

func (b *Binder) attachAfterFlow(n ast.Node, id FlowNodeID) {
	b.ensureResult()
	b.result.afterFlowNodes[n] = id
}

func (b *Binder) attachDeclaration(n ast.Node, d Declaration) {
	b.ensureResult()
	b.result.declarations[n] = d
}

func (b *Binder) markCodeFlowExpr(n ast.Node) {
	b.ensureResult()
	b.result.codeFlowExprs[n] = true
}

func (b *Binder) ensureResult() {
	if b.result != nil {
		return
	}
	b.result = &Result{
		scopes:         make(map[ast.Node]*Scope),
		flowNodes:      make(map[ast.Node]FlowNodeID),
		afterFlowNodes: make(map[ast.Node]FlowNodeID),
		declarations:   make(map[ast.Node]Declaration),
		codeFlowExprs:  make(map[ast.Node]bool),
	}
}
