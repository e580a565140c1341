package binder

import "github.com/mna/pybind/internal/ast"

// bindTry implements spec.md §4.4's "Try / Except / Else / Finally" and
// "Except clause" rules, threading except-target fan-in (§4.6) and the
// PreFinallyGate/PostFinally node pair (§9's "Gate / Post-finally" note).
func (b *Binder) bindTry(s *ast.TryStmt) {
	exceptLabels := make([]FlowNodeID, len(s.Handlers))
	for i := range s.Handlers {
		exceptLabels[i] = b.branchLabel()
	}
	preFinally := b.branchLabel()
	preFinallyReturnOrRaise := b.branchLabel()

	preTry := b.current
	for _, lbl := range exceptLabels {
		b.addAntecedent(lbl, preTry)
	}

	var gate FlowNodeID
	hasFinally := s.Finally != nil
	if hasFinally {
		b.finallyTargets = append(b.finallyTargets, preFinallyReturnOrRaise)
	}

	b.exceptTargets = append(b.exceptTargets, exceptLabels)
	if s.Body != nil {
		for _, st := range s.Body.Stmts {
			b.stmt(st)
		}
	}
	b.exceptTargets = b.exceptTargets[:len(b.exceptTargets)-1]

	if s.Orelse != nil {
		for _, st := range s.Orelse.Stmts {
			b.stmt(st)
		}
	}
	reachable := b.current != unreachableID
	b.addAntecedent(preFinally, b.current)

	b.exceptDepth++
	for i, h := range s.Handlers {
		b.current = b.finishLabel(exceptLabels[i])
		b.bindExceptHandler(h)
		if b.current != unreachableID {
			reachable = true
		}
		b.addAntecedent(preFinally, b.current)
	}
	b.exceptDepth--

	if hasFinally {
		b.finallyTargets = b.finallyTargets[:len(b.finallyTargets)-1]
		gate = b.startFinally(preFinallyReturnOrRaise)
	}

	b.current = b.finishLabel(preFinally)
	if hasFinally {
		for _, st := range s.Finally.Stmts {
			b.stmt(st)
		}
		b.finishFinally(gate)
		if !reachable {
			b.current = unreachableID
		}
	}
}

// bindExceptHandler implements spec.md §4.4's "Except clause" rule.
func (b *Binder) bindExceptHandler(h *ast.ExceptHandler) {
	if h.Type != nil {
		b.expr(h.Type)
	}
	if h.Name != nil {
		sym := b.declare(h.Name.Id)
		sym.AddDeclaration(&VariableDeclaration{NameNode: h.Name})
		b.attachDeclaration(h.Name, sym.Decls[len(sym.Decls)-1])
		b.assignment(h.Name, sym, false)
	}
	if h.Body != nil {
		for _, st := range h.Body.Stmts {
			b.stmt(st)
		}
	}
	if h.Name != nil {
		sym, _, _ := b.scope.lookUpRecursive(h.Name.Id)
		b.assignment(h.Name, sym, true)
	}
}
