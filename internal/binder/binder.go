package binder

import (
	"sort"

	"github.com/mna/pybind/internal/ast"
	"github.com/mna/pybind/internal/builtins"
)

// indeterminateSymbol is the sentinel SymbolID used as an assignment flow
// node's target when the assignment target is a member-access expression
// (e.g. "obj.attr = 1") rather than a bare name: there is no symbol to
// attach the declaration to, but the flow node itself still needs to exist
// so later analyses see the side effect.
const indeterminateSymbol SymbolID = 0

// Binder holds all per-file mutable state used while walking a single
// module's syntax tree. It is single-threaded and purely cooperative: one
// Binder processes one file, and deferred tasks run to completion on the
// same goroutine before the next one starts (see deferred.go).
type Binder struct {
	file   *FileInfo
	lookup ImportLookup
	sink   DiagnosticSink

	// nodes is the flow-node arena; index 0 is always UnreachableNode.
	nodes []*FlowNode
	// current is the flow node new CFG nodes are chained from.
	current FlowNodeID

	// scope is the innermost lexical scope currently being walked.
	scope *Scope
	// builtin and module are fixed anchors: builtin is the root of every
	// scope chain, module is the file's top-level scope.
	builtin *Scope
	module  *Scope

	// nextSymbolID allocates SymbolIDs; scoped to this file only, like
	// FlowNodeID, which indexes this binder's own flow-node arena.
	nextSymbolID SymbolID

	// referenceMaps is keyed by the Scope that is the innermost non-
	// comprehension "execution scope" enclosing the current position; it
	// accumulates every reference key the CFG emits a node for.
	referenceMaps map[*Scope]map[string]bool

	// exceptTargets is a stack of "current try's except labels" lists; see
	// cfg.go's addAntecedent call sites for how it's consumed.
	exceptTargets [][]FlowNodeID
	// finallyTargets is a stack of pre-finally-return-or-raise labels that
	// return/raise statements must also fan into.
	finallyTargets []FlowNodeID
	// loopTargets pairs each enclosing loop's continue/break labels.
	loopTargets []loopTarget
	// returnTargets is a stack of the enclosing function's return labels.
	returnTargets []FlowNodeID

	// deferred is the FIFO queue of function/lambda bodies waiting to be
	// walked once their enclosing scope finishes.
	deferred []func()

	// functionDepth counts enclosing function bodies; exceptDepth counts
	// enclosing except clauses, which bindRaise consults for a bare "raise".
	functionDepth int
	exceptDepth   int

	// classStack records enclosing class scopes. isMethod is decided by
	// inClassBody from the current scope's kind, not from this stack.
	classStack []*Scope

	// currentFunctionDecl is a stack mirroring actual function nesting (as
	// opposed to returnTargets, which is reset by the deferred-task
	// snapshot/restore): the innermost entry is where return/raise/yield
	// statements record themselves.
	currentFunctionDecl []*FunctionDeclaration

	// asyncStack tracks whether each enclosing function/lambda (innermost
	// last) was declared async, consulted by bindAwait.
	asyncStack []bool

	// result accumulates the side-tables returned to the caller; created
	// lazily by ensureResult so a Binder that binds nothing still works.
	result *Result
}

type loopTarget struct {
	continueLabel FlowNodeID
	breakLabel    FlowNodeID
}

// NewBinder creates a Binder ready to bind a single file. lookup resolves
// import paths to loader actions; sink receives diagnostics.
func NewBinder(file *FileInfo, lookup ImportLookup, sink DiagnosticSink) *Binder {
	b := &Binder{
		file:          file,
		lookup:        lookup,
		sink:          sink,
		nodes:         []*FlowNode{UnreachableNode},
		referenceMaps: make(map[*Scope]map[string]bool),
	}
	b.builtin = NewScope(BuiltinScope, nil, nil)
	b.module = NewScope(ModuleScope, nil, b.builtin)
	b.scope = b.module
	b.current = unreachableID
	b.declareBuiltins()
	return b
}

// declareBuiltins populates the Builtin scope with the language's ordinary
// built-in names (as Intrinsic declarations, since they have no syntax
// node of their own) and, for a stub file, the typing-stub-only special
// names a type checker must recognize by identity (as
// SpecialBuiltInClass declarations) so references to them resolve even
// when the stub never imports them explicitly.
func (b *Binder) declareBuiltins() {
	names := make([]string, 0, len(builtins.Universe))
	for name := range builtins.Universe {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sym := b.declareIn(b.builtin, name)
		sym.AddDeclaration(&IntrinsicDeclaration{Name: name, Kind: IntrinsicAny})
	}

	if !b.file.IsStub {
		return
	}
	names = names[:0]
	for name := range builtins.SpecialTyping {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sym := b.declareIn(b.builtin, name)
		sym.AddDeclaration(&SpecialBuiltInClassDeclaration{NameNode: nil})
	}
}

// pushScope enters a new child scope and returns a function that restores
// the previous scope; callers use `defer b.pushScope(...)()`.
func (b *Binder) pushScope(kind ScopeKind, node ast.Node) func() {
	prev := b.scope
	b.scope = NewScope(kind, node, prev)
	if kind == ClassScope {
		b.classStack = append(b.classStack, b.scope)
	}
	return func() {
		if kind == ClassScope {
			b.classStack = b.classStack[:len(b.classStack)-1]
		}
		b.scope = prev
	}
}

// executionScope returns the innermost enclosing scope that is not a
// Comprehension scope: the scope whose referenceMap a Condition/Assignment
// node's reference key is registered against.
func (b *Binder) executionScope() *Scope {
	for s := b.scope; s != nil; s = s.Parent {
		if s.Kind != ComprehensionScope {
			return s
		}
	}
	return b.module
}

// registerReferenceKey records key as narrowable in the current execution
// scope's reference map.
func (b *Binder) registerReferenceKey(key string) {
	if key == "" {
		return
	}
	es := b.executionScope()
	m := b.referenceMaps[es]
	if m == nil {
		m = make(map[string]bool)
		b.referenceMaps[es] = m
	}
	m[key] = true
}

// nearestNonClassScope returns the innermost enclosing scope that is not a
// Class scope, used by bindClass as the parent of a new class scope.
// Function and lambda scopes take their parent from functionParentScope.
func (b *Binder) nearestNonClassScope() *Scope {
	for s := b.scope; s != nil; s = s.Parent {
		if s.Kind != ClassScope {
			return s
		}
	}
	return b.module
}

// inClassBody reports whether the current scope is a class body, which
// controls whether a Function declaration is marked isMethod.
func (b *Binder) inClassBody() bool {
	return b.scope.Kind == ClassScope
}

// newSymbolID allocates the next file-scoped SymbolID.
func (b *Binder) newSymbolID() SymbolID {
	b.nextSymbolID++
	return b.nextSymbolID
}

// declareIn creates or returns the symbol named name directly in scope,
// allocating a fresh SymbolID the first time.
func (b *Binder) declareIn(scope *Scope, name string) *Symbol {
	return scope.addSymbol(name, b.newSymbolID)
}

// targetScopeFor returns the scope a bare-name binding for name should
// land in, honoring any global/nonlocal declaration recorded against the
// current scope.
func (b *Binder) targetScopeFor(name string) *Scope {
	if b.scope.Globals[name] {
		return b.module
	}
	if b.scope.Nonlocals[name] {
		if fn := b.scope.enclosingFunctionScope(); fn != nil {
			return fn
		}
	}
	return b.scope
}

// declare binds name in the scope selected by any active global/nonlocal
// declaration and returns its symbol.
func (b *Binder) declare(name string) *Symbol {
	return b.declareIn(b.targetScopeFor(name), name)
}
