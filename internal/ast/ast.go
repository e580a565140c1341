// Package ast defines the abstract syntax tree node set for the language's
// surface syntax: classes, first-class functions, generators, async
// functions, try/except/else/finally, comprehensions, nonlocal/global
// declarations and a package-style import system.
//
// Nodes are plain structs; attachments produced by later passes (scope,
// flow node, declaration, reference-key set) live in side-tables keyed by
// node identity rather than as fields here, so the tree itself stays
// immutable once parsed. See internal/binder/attach.go.
package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mna/pybind/internal/token"
)

// Node is implemented by every AST node.
type Node interface {
	fmt.Formatter

	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)

	// Walk visits the node's direct children in source order.
	Walk(v Visitor)
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	expr()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmt()
}

// Comment represents a single line or block comment. Comments are not part
// of the statement/expression tree; they are collected separately and
// associated with the node they are most likely attached to.
type Comment struct {
	Node  Node // nil until post-processed
	Start token.Pos
	Text  string
}

func (n *Comment) Format(f fmt.State, verb rune) { format(f, verb, n, "comment", nil) }
func (n *Comment) Span() (start, end token.Pos)  { return n.Start, n.Start + token.Pos(len(n.Text)) }
func (n *Comment) Walk(_ Visitor)                {}

// Block is an indented sequence of statements.
type Block struct {
	Start, End token.Pos
	Stmts      []Stmt
}

func (n *Block) Format(f fmt.State, verb rune) {
	format(f, verb, n, "block", map[string]int{"stmts": len(n.Stmts)})
}
func (n *Block) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}

// Module is the root node of a single source file.
type Module struct {
	Name     string // dotted module name, e.g. "pkg.sub"
	Path     string // file path
	Comments []*Comment
	Body     *Block
	EOF      token.Pos
}

func (n *Module) Format(f fmt.State, verb rune) {
	lbl := "module"
	if n.Name != "" {
		lbl += " " + n.Name
	}
	format(f, verb, n, lbl, map[string]int{"stmts": len(n.Body.Stmts)})
}
func (n *Module) Span() (start, end token.Pos) {
	if n.Body != nil {
		return n.Body.Span()
	}
	return n.EOF, n.EOF
}
func (n *Module) Walk(v Visitor) {
	if n.Body != nil {
		Walk(v, n.Body)
	}
}

// format is the shared fmt.Formatter implementation used by every node:
// it prints a short label, and with the '#' flag, a count summary.
func format(f fmt.State, verb rune, n Node, label string, counts map[string]int) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(f, "%%!%c(%T)", verb, n)
		return
	}
	label = strings.ReplaceAll(label, "\n", "\\n")
	fmt.Fprint(f, label)
	if f.Flag('#') && len(counts) > 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprint(f, " {")
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(f, ", ")
			}
			fmt.Fprintf(f, "%s=%d", k, counts[k])
		}
		fmt.Fprint(f, "}")
	}
}
