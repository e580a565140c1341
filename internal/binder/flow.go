package binder

import "github.com/mna/pybind/internal/ast"

// FlowNodeID identifies a FlowNode by its index in the flow-node arena of
// the file being bound. Like SymbolID it is scoped to that file: ids restart
// for every file, and 0 is always the unreachable sentinel.
type FlowNodeID uint32

// FlowNodeKind classifies a FlowNode. FlowNode is a closed sum: callers
// switch on Kind rather than on the node's concrete Go type, since every
// FlowNode is represented by the same struct shape.
type FlowNodeKind int

// Recognized FlowNodeKind values.
const (
	FlowStart FlowNodeKind = iota
	FlowUnreachable
	FlowBranchLabel
	FlowLoopLabel
	FlowAssignment
	FlowAssignmentAlias
	FlowCall
	FlowCondition
	FlowWildcardImport
	FlowPreFinallyGate
	FlowPostFinally
	FlowExceptTarget
)

func (k FlowNodeKind) String() string {
	switch k {
	case FlowStart:
		return "start"
	case FlowUnreachable:
		return "unreachable"
	case FlowBranchLabel:
		return "branch-label"
	case FlowLoopLabel:
		return "loop-label"
	case FlowAssignment:
		return "assignment"
	case FlowAssignmentAlias:
		return "assignment-alias"
	case FlowCall:
		return "call"
	case FlowCondition:
		return "condition"
	case FlowWildcardImport:
		return "wildcard-import"
	case FlowPreFinallyGate:
		return "pre-finally-gate"
	case FlowPostFinally:
		return "post-finally"
	case FlowExceptTarget:
		return "except-target"
	default:
		return "unknown"
	}
}

// FlowNode is one node in the control-flow graph. Every kind uses the same
// struct; fields not meaningful for a given Kind are left zero. This
// mirrors the arena/id style used elsewhere in the binder: nodes reference
// each other by FlowNodeID rather than by pointer; a PostFinally, for
// instance, records the id of its PreFinallyGate (see Binder.startFinally
// and Binder.finishFinally).
type FlowNode struct {
	ID   FlowNodeID
	Kind FlowNodeKind

	// Antecedents are the flow nodes that can precede this one. A
	// BranchLabel accumulates one antecedent per incoming arm; a loop label
	// gains a second antecedent once the loop body's back-edge is wired.
	Antecedents []FlowNodeID

	// Node is the syntax node this flow node is attached to, when
	// applicable (Assignment, Call, Condition, WildcardImport).
	Node ast.Node

	// Expr holds the condition expression for FlowCondition, and the target
	// expression (source of the alias) for FlowAssignmentAlias.
	Expr ast.Expr

	// IsTrue records which branch of a FlowCondition this edge represents.
	IsTrue bool

	// ReferenceKey is the canonical narrowing key assigned by the narrowing
	// classifier (empty if the associated expression isn't narrowable).
	ReferenceKey string

	// PreFinallyGate is the FlowNodeID of the matching gate, set on a
	// FlowPostFinally node. The gate is allocated first by startFinally, and
	// finishFinally records its id here.
	PreFinallyGate FlowNodeID

	// Label is a human-readable tag used only when printing the graph
	// (e.g. "while", "for", "try").
	Label string

	// TargetSymbol is the symbol a FlowAssignment/FlowAssignmentAlias
	// node's target resolves to, or indeterminateSymbol for a
	// member-access target that has no symbol of its own.
	TargetSymbol SymbolID
}

// unreachableID is the process-wide singleton FlowNodeID representing
// unreachable code; every CFG shares the same instance rather than
// allocating a fresh one per file.
const unreachableID FlowNodeID = 0

// UnreachableNode is the shared sentinel FlowNode returned whenever control
// flow has provably dead-ended (e.g. after a bare raise or return).
var UnreachableNode = &FlowNode{ID: unreachableID, Kind: FlowUnreachable}
