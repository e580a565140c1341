package binder

// deferredState snapshots the ambient binder fields a deferred task must
// restore before running, so that walking one function body can never
// observe another's scope stack, except targets or reference maps. Spec.md
// §4.5/§9 calls this out explicitly: deferred tasks "capture the scope,
// non-local binding map, and reference map current at enqueue time" and
// "must snapshot/restore the ambient state fields... they never interleave
// with each other."
type deferredState struct {
	scope               *Scope
	exceptTargets       [][]FlowNodeID
	finallyTargets      []FlowNodeID
	loopTargets         []loopTarget
	returnTargets       []FlowNodeID
	classStack          []*Scope
	functionDepth       int
	exceptDepth         int
	currentFunctionDecl []*FunctionDeclaration
	asyncStack          []bool
}

func (b *Binder) snapshot() deferredState {
	return deferredState{
		scope:               b.scope,
		exceptTargets:       b.exceptTargets,
		finallyTargets:      b.finallyTargets,
		loopTargets:         b.loopTargets,
		returnTargets:       b.returnTargets,
		classStack:          b.classStack,
		functionDepth:       b.functionDepth,
		exceptDepth:         b.exceptDepth,
		currentFunctionDecl: b.currentFunctionDecl,
		asyncStack:          b.asyncStack,
	}
}

func (b *Binder) restore(s deferredState) {
	b.scope = s.scope
	b.exceptTargets = s.exceptTargets
	b.finallyTargets = s.finallyTargets
	b.loopTargets = s.loopTargets
	b.returnTargets = s.returnTargets
	b.classStack = s.classStack
	b.functionDepth = s.functionDepth
	b.exceptDepth = s.exceptDepth
	b.currentFunctionDecl = s.currentFunctionDecl
	b.asyncStack = s.asyncStack
}

// enqueueDeferred appends a function/lambda body to the FIFO deferred
// queue, wrapping it so it runs with the ambient state captured now,
// regardless of what the binder's current state looks like when it
// eventually runs.
func (b *Binder) enqueueDeferred(task func()) {
	snap := b.snapshot()
	b.deferred = append(b.deferred, func() {
		saved := b.snapshot()
		b.restore(snap)
		task()
		b.restore(saved)
	})
}

// drainDeferred runs queued tasks to completion, outermost-first: a task
// that itself enqueues more deferred work (a nested function defined
// inside another function's deferred body) appends to the same queue, so
// the loop keeps draining until nothing more is added.
func (b *Binder) drainDeferred() {
	for len(b.deferred) > 0 {
		task := b.deferred[0]
		b.deferred = b.deferred[1:]
		task()
	}
}
