package binder

import (
	"github.com/dolthub/swiss"

	"github.com/mna/pybind/internal/ast"
)

// ScopeKind classifies the kind of lexical scope a Scope node represents.
// Comprehensions get their own scope kind because, unlike ordinary blocks,
// they introduce a new binding scope in the surface language.
type ScopeKind int

// Recognized ScopeKind values.
const (
	ModuleScope ScopeKind = iota
	ClassScope
	FunctionScope
	LambdaScope
	ComprehensionScope
	BuiltinScope
)

func (k ScopeKind) String() string {
	switch k {
	case ModuleScope:
		return "module"
	case ClassScope:
		return "class"
	case FunctionScope:
		return "function"
	case LambdaScope:
		return "lambda"
	case ComprehensionScope:
		return "comprehension"
	case BuiltinScope:
		return "builtin"
	default:
		return "unknown"
	}
}

// Scope is one lexical scope: a symbol table plus a link to the enclosing
// scope. The builtin scope is the root and has a nil Parent.
//
// Symbols are looked up through a swiss.Map for O(1) access, but names are
// also recorded in Order so callers that need deterministic output (the
// printer, golden-file tests) can iterate symbols in declaration order
// instead of map order.
type Scope struct {
	Kind    ScopeKind
	Node    ast.Node // the node that introduced the scope (nil for Builtin)
	Parent  *Scope
	symbols *swiss.Map[string, *Symbol]
	Order   []string

	// Globals and Nonlocals record names declared global/nonlocal within
	// this scope, so lookups redirect to the module or an enclosing
	// function scope instead of creating a new local symbol.
	Globals   map[string]bool
	Nonlocals map[string]bool
}

// NewScope creates an empty scope of the given kind, nested under parent.
func NewScope(kind ScopeKind, node ast.Node, parent *Scope) *Scope {
	return &Scope{
		Kind:    kind,
		Node:    node,
		Parent:  parent,
		symbols: swiss.NewMap[string, *Symbol](uint32(8)),
	}
}

// addSymbol creates (if absent) and returns the symbol named name directly
// in this scope, recording it in Order the first time it's created. newID
// is called to allocate a SymbolID only when a new symbol is created. It
// never looks at Parent: callers that want global/nonlocal redirection must
// resolve the target scope themselves first (see Binder.targetScopeFor).
func (s *Scope) addSymbol(name string, newID func() SymbolID) *Symbol {
	if sym, ok := s.symbols.Get(name); ok {
		return sym
	}
	sym := &Symbol{ID: newID(), Name: name}
	s.symbols.Put(name, sym)
	s.Order = append(s.Order, name)
	return sym
}

// lookUp returns the symbol named name declared directly in this scope,
// without considering Parent.
func (s *Scope) lookUp(name string) (*Symbol, bool) {
	return s.symbols.Get(name)
}

// lookUpRecursive walks from s outward through Parent links, returning the
// first scope that declares name directly. It does not itself apply
// global/nonlocal redirection; Binder.targetScopeFor and Binder.declare do
// that when a name is bound.
func (s *Scope) lookUpRecursive(name string) (*Symbol, *Scope, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind == ClassScope && cur != s {
			// Class scopes are not visible to nested function/lambda scopes,
			// matching ordinary lexical-scoping semantics for class bodies.
			continue
		}
		if sym, ok := cur.lookUp(name); ok {
			return sym, cur, true
		}
	}
	return nil, nil, false
}

// declareGlobal marks name as redirected to the module scope for the
// remainder of this scope's lifetime.
func (s *Scope) declareGlobal(name string) {
	if s.Globals == nil {
		s.Globals = make(map[string]bool)
	}
	s.Globals[name] = true
}

// declareNonlocal marks name as redirected to the nearest enclosing
// function scope.
func (s *Scope) declareNonlocal(name string) {
	if s.Nonlocals == nil {
		s.Nonlocals = make(map[string]bool)
	}
	s.Nonlocals[name] = true
}

// moduleScope walks Parent links to find the enclosing ModuleScope.
func (s *Scope) moduleScope() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind == ModuleScope {
			return cur
		}
	}
	return nil
}

// enclosingFunctionScope walks Parent links, skipping class scopes, to find
// the nearest Function/Lambda scope. Used to resolve nonlocal targets.
func (s *Scope) enclosingFunctionScope() *Scope {
	for cur := s.Parent; cur != nil; cur = cur.Parent {
		if cur.Kind == FunctionScope || cur.Kind == LambdaScope {
			return cur
		}
	}
	return nil
}

// Symbols returns the scope's symbols in declaration order.
func (s *Scope) Symbols() []*Symbol {
	out := make([]*Symbol, 0, len(s.Order))
	for _, name := range s.Order {
		if sym, ok := s.symbols.Get(name); ok {
			out = append(out, sym)
		}
	}
	return out
}
