package binder

import (
	"strings"

	"github.com/mna/pybind/internal/ast"
	"github.com/mna/pybind/internal/token"
)

// referenceKey returns the canonical narrowing identity of e: a bare name
// or a dotted chain of names (e.g. "self.x.y"). Any other expression shape
// has no stable identity across uses and returns "".
func referenceKey(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Name:
		return e.Id
	case *ast.Attribute:
		base := referenceKey(e.Value)
		if base == "" {
			return ""
		}
		return base + "." + e.Attr.Id
	default:
		return ""
	}
}

// isNullConstant reports whether e is the literal None.
func isNullConstant(e ast.Expr) bool {
	lit, ok := e.(*ast.Literal)
	return ok && lit.Kind == token.NONE
}

// classifyNarrowing is the pure predicate described in spec.md §4.3: it
// decides whether expr's shape supports flow narrowing, and if so returns
// the reference keys it harvests. ok is false for any expression shape not
// recognized below, in which case keys is always nil.
func classifyNarrowing(expr ast.Expr) (keys []string, ok bool) {
	switch e := expr.(type) {
	case *ast.Name, *ast.Attribute:
		if k := referenceKey(e); k != "" {
			return []string{k}, true
		}
		return nil, false

	case *ast.NamedExpr:
		return []string{e.Target.Id}, true

	case *ast.Compare:
		if len(e.Ops) != 1 {
			return classifyChainedCompare(e)
		}
		op := e.Ops[0]
		right := e.Comparators[0]
		switch op {
		case token.EQ, token.NE:
			if isNullConstant(right) {
				if k := referenceKey(e.Left); k != "" {
					return []string{k}, true
				}
			}
			if isNullConstant(e.Left) {
				if k := referenceKey(right); k != "" {
					return []string{k}, true
				}
			}
			return nil, false
		case token.IS, token.ISNOT:
			lk, rk := narrowingOperandKey(e.Left), narrowingOperandKey(right)
			var out []string
			if lk != "" {
				out = append(out, lk)
			}
			if rk != "" {
				out = append(out, rk)
			}
			if len(out) == 0 {
				return nil, false
			}
			return out, true
		case token.IN:
			if k := referenceKey(e.Left); k != "" {
				return []string{k}, true
			}
			return nil, false
		default:
			return nil, false
		}

	case *ast.UnaryOp:
		if e.Op == token.NOT {
			return classifyNarrowing(e.Operand)
		}
		return nil, false

	case *ast.Call:
		name, ok := calleeName(e.Fn)
		if !ok {
			return nil, false
		}
		switch name {
		case "isinstance", "issubclass":
			if len(e.Args) != 2 {
				return nil, false
			}
			if k := referenceKey(e.Args[0]); k != "" {
				return []string{k}, true
			}
		case "callable":
			if len(e.Args) != 1 {
				return nil, false
			}
			if k := referenceKey(e.Args[0]); k != "" {
				return []string{k}, true
			}
		case "type":
			// a bare type(X) call on its own narrows nothing; type(X) is Y
			// is handled by narrowingOperandKey for the IS/ISNOT compare case.
		}
		return nil, false

	default:
		return nil, false
	}
}

// narrowingOperandKey returns the reference key for one side of an
// "is"/"is not" comparison, unwrapping a type(X) call shape so that
// "type(X) is Y" narrows X itself rather than nothing (spec.md §4.3).
func narrowingOperandKey(e ast.Expr) string {
	if call, ok := e.(*ast.Call); ok {
		if name, ok := calleeName(call.Fn); ok && name == "type" && len(call.Args) == 1 {
			return referenceKey(call.Args[0])
		}
	}
	return referenceKey(e)
}

// classifyChainedCompare handles a < b <= c style chains: spec.md only
// describes narrowing for two-operand comparisons, so a chain of more than
// one operator is conservatively treated as non-narrowing.
func classifyChainedCompare(e *ast.Compare) ([]string, bool) {
	return nil, false
}

// calleeName reports the bare name a call expression's callee resolves to,
// e.g. for `isinstance(x, int)` this returns ("isinstance", true).
func calleeName(fn ast.Expr) (string, bool) {
	n, ok := fn.(*ast.Name)
	if !ok {
		return "", false
	}
	return n.Id, true
}

// staticBoolValue reports whether expr statically evaluates to a constant
// boolean, used by condition() to collapse a provably-dead branch to
// Unreachable without walking it. Only the narrow set of shapes the
// binder needs to recognize are handled; anything else reports ok=false.
func staticBoolValue(expr ast.Expr) (value, ok bool) {
	switch e := expr.(type) {
	case *ast.Literal:
		switch e.Kind {
		case token.TRUE:
			return true, true
		case token.FALSE:
			return false, true
		case token.NONE:
			return false, true
		case token.INT:
			return strings.TrimLeft(e.Raw, "0") != "", true
		}
	}
	return false, false
}
