package binder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/pybind/internal/ast"
	"github.com/mna/pybind/internal/token"
)

func TestClassifyNarrowingTypeCallIsComparisonNarrowsArgument(t *testing.T) {
	expr := &ast.Compare{
		Left:        &ast.Call{Fn: &ast.Name{Id: "type"}, Args: []ast.Expr{&ast.Name{Id: "x"}}},
		Ops:         []token.Token{token.IS},
		Comparators: []ast.Expr{&ast.Name{Id: "int"}},
	}
	keys, ok := classifyNarrowing(expr)
	require.True(t, ok)
	require.Contains(t, keys, "x")
}

func TestClassifyNarrowingTypeCallIsNotComparisonNarrowsArgument(t *testing.T) {
	expr := &ast.Compare{
		Left:        &ast.Call{Fn: &ast.Name{Id: "type"}, Args: []ast.Expr{&ast.Name{Id: "x"}}},
		Ops:         []token.Token{token.ISNOT},
		Comparators: []ast.Expr{&ast.Name{Id: "int"}},
	}
	keys, ok := classifyNarrowing(expr)
	require.True(t, ok)
	require.Contains(t, keys, "x")
}

func TestClassifyNarrowingBareTypeCallNarrowsNothing(t *testing.T) {
	expr := &ast.Call{Fn: &ast.Name{Id: "type"}, Args: []ast.Expr{&ast.Name{Id: "x"}}}
	_, ok := classifyNarrowing(expr)
	require.False(t, ok)
}
