package binder_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/pybind/internal/ast"
	"github.com/mna/pybind/internal/binder"
	"github.com/mna/pybind/internal/parser"
	"github.com/mna/pybind/internal/token"
)

// fakeLookup is the in-memory ImportLookup test double imports.go's doc
// comment points at: a fixed map of dotted module name to ImportInfo, with
// no file system or real module resolution behind it.
type fakeLookup struct {
	modules map[string]binder.ImportInfo
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{modules: make(map[string]binder.ImportInfo)}
}

func (f *fakeLookup) add(dotted string, info binder.ImportInfo) {
	f.modules[dotted] = info
}

func (f *fakeLookup) Lookup(path []string) (binder.ImportInfo, bool) {
	name := path[0]
	for _, p := range path[1:] {
		name += "." + p
	}
	info, ok := f.modules[name]
	return info, ok
}

// collectSink records every diagnostic AddAt reports, independent of
// Result.Diagnostics, so tests can assert the DiagnosticSink contract
// itself is exercised.
type collectSink struct {
	messages []string
}

func (s *collectSink) AddAt(sev binder.Severity, msg string, start, end token.Pos) {
	s.messages = append(s.messages, msg)
}

func bindSrc(t *testing.T, src string, file *binder.FileInfo, lookup binder.ImportLookup) (*ast.Module, *binder.Result) {
	t.Helper()
	fs := token.NewFileSet()
	mod, err := parser.ParseModule(context.Background(), 0, fs, "test.py", []byte(src))
	require.NoError(t, err)
	if file == nil {
		file = &binder.FileInfo{Path: "test.py", ModuleName: "test"}
	}
	res := binder.BindFile(mod, file, lookup, nil)
	return mod, res
}

func bindOK(t *testing.T, src string) (*ast.Module, *binder.Result) {
	t.Helper()
	return bindSrc(t, src, nil, nil)
}

// findFunc returns the first *ast.FunctionDef named name anywhere in mod.
func findFunc(mod *ast.Module, name string) *ast.FunctionDef {
	var found *ast.FunctionDef
	var visit ast.VisitorFunc
	visit = func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
		if found != nil || dir == ast.VisitExit {
			return nil
		}
		if fd, ok := n.(*ast.FunctionDef); ok && fd.Name.Id == name {
			found = fd
			return nil
		}
		return visit
	}
	ast.Walk(visit, mod)
	return found
}

// findClass returns the first *ast.ClassDef named name anywhere in mod.
func findClass(mod *ast.Module, name string) *ast.ClassDef {
	var found *ast.ClassDef
	var visit ast.VisitorFunc
	visit = func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
		if found != nil || dir == ast.VisitExit {
			return nil
		}
		if cd, ok := n.(*ast.ClassDef); ok && cd.Name.Id == name {
			found = cd
			return nil
		}
		return visit
	}
	ast.Walk(visit, mod)
	return found
}
