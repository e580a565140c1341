package binder

import "github.com/mna/pybind/internal/ast"

// alloc appends n to the flow-node arena, assigns its id, and returns it.
func (b *Binder) alloc(n *FlowNode) *FlowNode {
	n.ID = FlowNodeID(len(b.nodes))
	b.nodes = append(b.nodes, n)
	return n
}

func (b *Binder) node(id FlowNodeID) *FlowNode { return b.nodes[id] }

// startNode creates a fresh Start node with no antecedents, used at the
// top of a module or a deferred function body.
func (b *Binder) startNode() FlowNodeID {
	n := b.alloc(&FlowNode{Kind: FlowStart})
	return n.ID
}

// branchLabel creates an empty label node that callers grow via
// addAntecedent, later resolved with finishLabel.
func (b *Binder) branchLabel() FlowNodeID {
	return b.alloc(&FlowNode{Kind: FlowBranchLabel}).ID
}

// loopLabel creates an empty loop label; like branchLabel but kept as a
// distinct kind so the printer and narrowing pass can tell loop join
// points from ordinary branch join points.
func (b *Binder) loopLabel() FlowNodeID {
	return b.alloc(&FlowNode{Kind: FlowLoopLabel}).ID
}

// finishLabel resolves a label: Unreachable if it gained no antecedents,
// the sole antecedent if exactly one was added (the label itself adds no
// information), otherwise the label node unchanged.
func (b *Binder) finishLabel(lbl FlowNodeID) FlowNodeID {
	n := b.node(lbl)
	switch len(n.Antecedents) {
	case 0:
		return unreachableID
	case 1:
		return n.Antecedents[0]
	default:
		return lbl
	}
}

// addAntecedent adds node as a possible predecessor of the label lbl. It
// is a no-op when node is Unreachable, and deduplicates by id so the same
// predecessor is never recorded twice (e.g. a loop back-edge revisited by
// both the except-target fan-in and the ordinary body walk).
func (b *Binder) addAntecedent(lbl, node FlowNodeID) {
	if node == unreachableID {
		return
	}
	label := b.node(lbl)
	for _, a := range label.Antecedents {
		if a == node {
			return
		}
	}
	label.Antecedents = append(label.Antecedents, node)
}

// fanIntoExceptTargets adds node as an antecedent of every except label on
// the top of the except-target stack, modeling that any side-effecting
// statement inside a try body may raise before completing.
func (b *Binder) fanIntoExceptTargets(node FlowNodeID) {
	if len(b.exceptTargets) == 0 {
		return
	}
	for _, lbl := range b.exceptTargets[len(b.exceptTargets)-1] {
		b.addAntecedent(lbl, node)
	}
}

// fanIntoFinallyTargets adds node as an antecedent of every active
// pre-finally-return-or-raise label, used by return/raise.
func (b *Binder) fanIntoFinallyTargets(node FlowNodeID) {
	for _, lbl := range b.finallyTargets {
		b.addAntecedent(lbl, node)
	}
}

// assignment creates an Assignment flow node for a bare-name target bound
// to sym (or the indeterminate sentinel for a member-access target),
// chains it from the current flow, fans it into active except targets,
// registers its reference key, and attaches it to target in the AST side
// table. When unbound is true and target already carries an attached flow
// node, the previous attachment is left alone: only the symbol's flow
// state changes, so a narrowing consumer sees the name become unbound at
// the point of the unbind, without erasing the flow recorded for uses
// within the clause that preceded it.
func (b *Binder) assignment(target ast.Expr, sym *Symbol, unbound bool) FlowNodeID {
	if b.current == unreachableID {
		return unreachableID
	}
	targetID := indeterminateSymbol
	if sym != nil {
		targetID = sym.ID
	}
	n := b.alloc(&FlowNode{
		Kind:         FlowAssignment,
		Antecedents:  []FlowNodeID{b.current},
		Node:         target,
		ReferenceKey: referenceKey(target),
		TargetSymbol: targetID,
	})
	b.fanIntoExceptTargets(n.ID)
	b.registerReferenceKey(n.ReferenceKey)
	if !unbound || b.attachedFlow(target) == unreachableID {
		b.attachFlow(target, n.ID)
	}
	b.current = n.ID
	return n.ID
}

// assignmentAlias creates an AssignmentAlias flow node recording that
// target's value aliases aliasSource. bindComprehension emits one for each
// comprehension for-target name that shadows a name visible outside the
// comprehension; Node is the target and Expr is aliasSource.
func (b *Binder) assignmentAlias(target ast.Expr, aliasSource ast.Expr) FlowNodeID {
	if b.current == unreachableID {
		return unreachableID
	}
	targetID := indeterminateSymbol
	if name, ok := target.(*ast.Name); ok {
		if sym, _, found := b.scope.lookUpRecursive(name.Id); found {
			targetID = sym.ID
		}
	}
	n := b.alloc(&FlowNode{
		Kind:         FlowAssignmentAlias,
		Antecedents:  []FlowNodeID{b.current},
		Node:         target,
		Expr:         aliasSource,
		ReferenceKey: referenceKey(target),
		TargetSymbol: targetID,
	})
	b.fanIntoExceptTargets(n.ID)
	b.registerReferenceKey(n.ReferenceKey)
	b.attachFlow(target, n.ID)
	b.current = n.ID
	return n.ID
}

// call creates a Call flow node for a call expression, used so later
// narrowing analyses can treat a call as potentially invalidating earlier
// narrowing (the callee might mutate captured state).
func (b *Binder) call(expr ast.Expr) FlowNodeID {
	if b.current == unreachableID {
		return unreachableID
	}
	n := b.alloc(&FlowNode{Kind: FlowCall, Antecedents: []FlowNodeID{b.current}, Node: expr})
	b.fanIntoExceptTargets(n.ID)
	b.current = n.ID
	return n.ID
}

// wildcardImport creates a WildcardImport flow node for "from m import *",
// registering a reference key per name so later lookups of any of those
// names know to consult flow analysis.
func (b *Binder) wildcardImport(node ast.Node, names []string) FlowNodeID {
	if b.current == unreachableID {
		return unreachableID
	}
	n := b.alloc(&FlowNode{Kind: FlowWildcardImport, Antecedents: []FlowNodeID{b.current}, Node: node})
	b.fanIntoExceptTargets(n.ID)
	for _, name := range names {
		b.registerReferenceKey(name)
	}
	b.current = n.ID
	return n.ID
}

// condition creates a Condition flow node for expr, or short-circuits per
// the rules in spec: an Unreachable antecedent stays Unreachable; a
// statically-false branch (for the requested flag) collapses to
// Unreachable; a non-narrowing expression passes the antecedent through
// unchanged without allocating a node.
func (b *Binder) condition(flag bool, antecedent FlowNodeID, expr ast.Expr) FlowNodeID {
	if antecedent == unreachableID {
		return unreachableID
	}
	if v, ok := staticBoolValue(expr); ok && v != flag {
		return unreachableID
	}
	keys, ok := classifyNarrowing(expr)
	if !ok {
		return antecedent
	}
	n := b.alloc(&FlowNode{
		Kind:        FlowCondition,
		Antecedents: []FlowNodeID{antecedent},
		Node:        expr,
		Expr:        expr,
		IsTrue:      flag,
	})
	b.fanIntoExceptTargets(n.ID)
	for _, k := range keys {
		b.registerReferenceKey(k)
	}
	return n.ID
}

// startFinally creates the PreFinallyGate/PostFinally pair for a try
// statement that has a finally clause. The gate's antecedent is the
// pre-finally-return-or-raise label; startFinally returns the gate's id,
// and finishFinally later records that id on the PostFinally node.
func (b *Binder) startFinally(preFinallyReturnOrRaise FlowNodeID) FlowNodeID {
	gate := b.alloc(&FlowNode{Kind: FlowPreFinallyGate, Antecedents: []FlowNodeID{preFinallyReturnOrRaise}})
	return gate.ID
}

// finishFinally creates the PostFinally node chained from the current
// flow (the end of the finally suite) and referencing gate.
func (b *Binder) finishFinally(gate FlowNodeID) FlowNodeID {
	n := b.alloc(&FlowNode{Kind: FlowPostFinally, Antecedents: []FlowNodeID{b.current}, PreFinallyGate: gate})
	b.current = n.ID
	return n.ID
}
