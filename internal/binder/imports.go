package binder

import "github.com/mna/pybind/internal/ast"

// ImportInfo is what an ImportLookup returns for a resolved import path:
// the symbol table exposed by the target module plus metadata the binder
// needs to decide between a real module and a stub-only placeholder.
type ImportInfo struct {
	Exports      *Scope
	HasStub      bool
	HasSource    bool
	IsNamespace  bool // a package with no __init__ module
	SubmoduleNames []string
}

// ImportLookup resolves a dotted import path to its exported symbol table.
// It is an external collaborator: spec.md §1 explicitly places import path
// resolution out of this pass's scope. Production callers back this with
// the type checker's module resolver; tests back it with an in-memory
// fixture (see internal/binder's test files for the double used there).
type ImportLookup interface {
	Lookup(path []string) (ImportInfo, bool)
}

// buildLoaderActions constructs the ModuleLoaderActions tree for a single
// "import a.b.c [as d]" clause. Every prefix of path becomes a nested
// entry, mirroring how "import a.b.c" makes "a", "a.b" and "a.b.c" all
// reachable via attribute access from the bound name "a"; the alias, if
// any, plays no part here.
func buildLoaderActions(path []string, resolvedPath func([]string) string) *ModuleLoaderActions {
	if len(path) == 0 {
		return nil
	}
	root := &ModuleLoaderActions{Path: resolvedPath(path[:1])}
	cur := root
	for i := 2; i <= len(path); i++ {
		if cur.Children == nil {
			cur.Children = make(map[string]*ModuleLoaderActions)
		}
		child, ok := cur.Children[path[i-1]]
		if !ok {
			child = &ModuleLoaderActions{Path: resolvedPath(path[:i])}
			cur.Children[path[i-1]] = child
		}
		cur = child
	}
	return root
}

// mergeLoaderActions merges src into dst in place, used when a symbol
// already has an AliasDeclaration with the same firstNamePart and a second
// "import a.x" statement needs to extend its implicit-imports tree rather
// than replace it (spec.md §4.4's ImportAs rule).
func mergeLoaderActions(dst, src *ModuleLoaderActions) {
	if dst.Path == "" {
		dst.Path = src.Path
	}
	if len(src.Children) == 0 {
		return
	}
	if dst.Children == nil {
		dst.Children = make(map[string]*ModuleLoaderActions)
	}
	for name, child := range src.Children {
		if existing, ok := dst.Children[name]; ok {
			mergeLoaderActions(existing, child)
		} else {
			dst.Children[name] = child
		}
	}
}

// resolvedPathFor returns a resolvedPath closure bound to lookup, used by
// buildLoaderActions so it doesn't need to know about ImportLookup itself.
func resolvedPathFor(lookup ImportLookup) func([]string) string {
	return func(path []string) string {
		if lookup == nil {
			return ""
		}
		if info, ok := lookup.Lookup(path); ok && info.Exports != nil {
			return joinDotted(path)
		}
		return ""
	}
}

func joinDotted(path []string) string {
	out := path[0]
	for _, p := range path[1:] {
		out += "." + p
	}
	return out
}

// checkImportResolution reports spec.md §6's importResolution,
// missingTypeStub and missingModuleSource diagnostics for a single dotted
// import path, using whatever ImportLookup reports for it. It does
// nothing when lookup is nil (import resolution is an external
// collaborator the binder cannot evaluate on its own) or when path is
// empty (a bare relative import with no module name, e.g. "from .").
func (b *Binder) checkImportResolution(node ast.Node, path []string) {
	if b.lookup == nil || len(path) == 0 {
		return
	}
	info, ok := b.lookup.Lookup(path)
	if !ok {
		b.reportAt(RuleImportResolution, node, "could not resolve import \""+joinDotted(path)+"\"")
		return
	}
	if info.IsNamespace {
		return
	}
	if !info.HasStub {
		b.reportAt(RuleMissingTypeStub, node, "no type stub found for \""+joinDotted(path)+"\"")
	}
	if !info.HasSource {
		b.reportAt(RuleMissingModuleSource, node, "no source found for \""+joinDotted(path)+"\"")
	}
}
