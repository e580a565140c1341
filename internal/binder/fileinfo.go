package binder

import "github.com/mna/pybind/internal/token"

// FileInfo is the input record describing the file being bound: its
// identity, environment and the collaborators (ImportLookup, diagnostic
// sink, rule configuration) the binder treats as external per spec.md §1.
type FileInfo struct {
	Path       string
	ModuleName string // dotted module name, e.g. "pkg.sub"
	Lines      *token.File

	// LanguageVersion governs whether a bare "TypeAlias" annotation is
	// recognized outside a stub file.
	LanguageVersion string

	IsStub        bool // a .pyi-style stub file
	IsTypingStub  bool // specifically the typing stdlib stub

	Rules RuleConfig
}
