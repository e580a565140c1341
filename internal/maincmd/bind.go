package maincmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mna/mainer"

	"github.com/mna/pybind/internal/ast"
	"github.com/mna/pybind/internal/binder"
	"github.com/mna/pybind/internal/config"
	"github.com/mna/pybind/internal/lexer"
	"github.com/mna/pybind/internal/parser"
	"github.com/mna/pybind/internal/token"
)

func (c *Cmd) Bind(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var parseMode parser.Mode
	if c.WithComments {
		parseMode |= parser.Comments
	}
	cfg, err := config.Load(c.Config)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	rules, err := cfg.RuleConfig()
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	return BindFiles(ctx, stdio, parseMode, token.PosLong, cfg.LanguageVersion, rules, args...)
}

// BindFiles parses each of files and runs the binder pass over all of
// them, printing the resulting AST annotated with each node's scope and
// control-flow node id. Files may import one another by their module
// name, derived from their path relative to the common ancestor
// directory of the provided files (e.g. pkg/sub.py becomes "pkg.sub").
func BindFiles(ctx context.Context, stdio mainer.Stdio, parseMode parser.Mode, posMode token.PosMode, languageVersion string, rules binder.RuleConfig, files ...string) error {
	fs, mods, perr := parser.ParseFiles(ctx, parseMode, files...)
	if perr != nil {
		// diagnostics from a broken parse still get printed, but binding a
		// tree with BadStmt/BadExpr nodes in it is unreliable, so stop here.
		lexer.PrintError(stdio.Stderr, perr)
		return perr
	}

	names := moduleNames(files)
	reg := &moduleRegistry{byName: make(map[string]*binder.Result, len(mods))}

	var berr error
	for i, mod := range mods {
		start, _ := mod.Span()
		file := &binder.FileInfo{
			Path:            files[i],
			ModuleName:      names[i],
			Lines:           fs.File(start),
			LanguageVersion: languageVersion,
			IsStub:          strings.HasSuffix(files[i], ".pyi"),
			Rules:           rules,
		}
		res := binder.BindFile(mod, file, reg, nil)
		reg.byName[names[i]] = res

		printer := ast.Printer{
			Output: stdio.Stdout,
			Pos:    posMode,
			File:   fs.File(start),
			Annotate: func(n ast.Node) string {
				return annotateNode(res, n)
			},
		}
		if err := printer.Print(mod); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
		for _, d := range res.Diagnostics {
			pos := fs.File(d.Start).Position(d.Start)
			fmt.Fprintf(stdio.Stderr, "%s: %s: %s (%s)\n", pos, d.Severity, d.Message, d.Rule)
			if d.Severity == binder.SeverityError {
				berr = fmt.Errorf("%s: binding failed", names[i])
			}
		}
	}
	return berr
}

func annotateNode(res *binder.Result, n ast.Node) string {
	var parts []string
	if s, ok := res.ScopeOf(n); ok {
		parts = append(parts, "scope="+s.Kind.String())
	}
	if id, ok := res.FlowNodeOf(n); ok {
		parts = append(parts, fmt.Sprintf("flow=#%d", id))
	}
	if d, ok := res.DeclarationOf(n); ok {
		parts = append(parts, "decl="+fmt.Sprintf("%T", d))
	}
	if len(parts) == 0 {
		return ""
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// moduleRegistry is a best-effort ImportLookup backed by the files bound
// in the same invocation: forward references (a module importing one that
// hasn't been bound yet in files order) simply miss, same as any other
// unresolved import.
type moduleRegistry struct {
	byName map[string]*binder.Result
}

func (r *moduleRegistry) Lookup(path []string) (binder.ImportInfo, bool) {
	name := strings.Join(path, ".")
	res, ok := r.byName[name]
	if !ok {
		return binder.ImportInfo{}, false
	}
	return binder.ImportInfo{Exports: res.Module, HasSource: true}, true
}

// moduleNames derives a dotted module name per file, relative to the
// deepest common ancestor directory of all provided files, the way a
// package-style import path is normally derived from a source tree.
func moduleNames(files []string) []string {
	names := make([]string, len(files))
	if len(files) == 0 {
		return names
	}

	base := filepath.Dir(files[0])
	for _, f := range files[1:] {
		base = commonDir(base, filepath.Dir(f))
	}

	for i, f := range files {
		rel, err := filepath.Rel(base, f)
		if err != nil {
			rel = filepath.Base(f)
		}
		rel = strings.TrimSuffix(rel, filepath.Ext(rel))
		rel = strings.TrimSuffix(rel, string(filepath.Separator)+"__init__")
		names[i] = strings.ReplaceAll(rel, string(filepath.Separator), ".")
	}
	return names
}

func commonDir(a, b string) string {
	aParts := strings.Split(filepath.ToSlash(a), "/")
	bParts := strings.Split(filepath.ToSlash(b), "/")
	n := len(aParts)
	if len(bParts) < n {
		n = len(bParts)
	}
	i := 0
	for i < n && aParts[i] == bParts[i] {
		i++
	}
	return filepath.FromSlash(strings.Join(aParts[:i], "/"))
}
