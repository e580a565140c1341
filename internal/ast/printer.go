package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/mna/pybind/internal/token"
)

// Annotator renders an extra suffix for a node, e.g. "[scope=module,
// flow=#3]". It is injected by callers (such as internal/maincmd's bind
// command, which prints binder results) that want to print their own
// per-node attachments without ast depending on them.
type Annotator func(n Node) string

// Printer prints an indented tree of a Module, one line per node, optionally
// calling Annotate to append binder/analysis output per node.
type Printer struct {
	Output    io.Writer
	Pos       token.PosMode
	File      *token.File
	Annotate  Annotator
	depth     int
}

// Print writes the indented tree for mod to p.Output.
func (p *Printer) Print(mod *Module) error {
	p.depth = 0
	var werr error
	var v VisitorFunc
	v = func(n Node, dir VisitDirection) Visitor {
		if dir == VisitExit {
			p.depth--
			return nil
		}
		if werr != nil {
			return nil
		}
		werr = p.printLine(n)
		p.depth++
		return v
	}
	Walk(v, mod)
	return werr
}

func (p *Printer) printLine(n Node) error {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", p.depth))
	start, _ := n.Span()
	if p.Pos != token.PosNone {
		fmt.Fprintf(&b, "%s ", token.FormatPos(p.Pos, p.File, start, false))
	}
	fmt.Fprintf(&b, "%v", n)
	if p.Annotate != nil {
		if extra := p.Annotate(n); extra != "" {
			b.WriteString(" ")
			b.WriteString(extra)
		}
	}
	b.WriteString("\n")
	_, err := io.WriteString(p.Output, b.String())
	return err
}
