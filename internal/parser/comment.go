package parser

import "github.com/mna/pybind/internal/ast"

// processComments finalizes the comments collected while parsing mod: each
// one was already assigned to its innermost enclosing block by enterBlock's
// backward scan, so this just covers the fallback case and stores the
// final list on the module.
func (p *parser) processComments(mod *ast.Module) {
	for _, c := range p.pendingComments {
		if c.Node == nil {
			c.Node = mod.Body
		}
	}
	mod.Comments = p.pendingComments
}
