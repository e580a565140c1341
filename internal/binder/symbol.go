// Package binder implements the name-binding and control-flow-graph
// construction pass: it consumes an already-parsed syntax tree and produces,
// per lexical scope, a symbol table; per relevant syntax node, an attached
// control-flow node; per execution scope, a set of narrowable reference
// keys. Type inference and diagnostic rendering are out of scope; see
// internal/binder's sibling packages for the surrounding pipeline.
package binder

// SymbolFlags is a bitset of attributes recorded on a Symbol.
type SymbolFlags uint16

// Recognized SymbolFlags values.
const (
	InitiallyUnbound SymbolFlags = 1 << iota
	ClassMember
	InstanceMember
	ClassVar
	PrivateMember
	ExternallyHidden
	IgnoredForProtocolMatch
)

func (f SymbolFlags) Has(flag SymbolFlags) bool { return f&flag != 0 }

// SymbolID identifies a Symbol within one bound file, stable for the
// lifetime of the binder's output. Ids are allocated per Binder, so symbols
// of two different files can share an id.
type SymbolID uint32

// Symbol represents one named binding within a scope. Declarations are
// appended in source order and never removed; see Scope.addSymbol and
// Binder.declare for the only code paths that mutate a Symbol.
type Symbol struct {
	ID    SymbolID
	Name  string
	Flags SymbolFlags
	Decls []Declaration
}

// HasFlag reports whether flag is set on the symbol.
func (s *Symbol) HasFlag(flag SymbolFlags) bool { return s.Flags.Has(flag) }

// AddDeclaration appends decl to the symbol's declaration list. Declarations
// are append-only: callers must never remove or reorder entries here.
func (s *Symbol) AddDeclaration(decl Declaration) {
	s.Decls = append(s.Decls, decl)
}
