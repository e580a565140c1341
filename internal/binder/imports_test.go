package binder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/pybind/internal/binder"
)

func TestImportAsBindsFirstDottedPart(t *testing.T) {
	_, res := bindOK(t, "import os.path\n")
	sym, found := lookupDirect(res.Module, "os")
	require.True(t, found)
	require.Len(t, sym.Decls, 1)
	ad, ok := sym.Decls[0].(*binder.AliasDeclaration)
	require.True(t, ok)
	require.Equal(t, []string{"os", "path"}, ad.Path)
}

func TestImportAsWithAliasBindsOnlyAlias(t *testing.T) {
	_, res := bindOK(t, "import os.path as p\n")
	_, found := lookupDirect(res.Module, "p")
	require.True(t, found)
	_, found = lookupDirect(res.Module, "os")
	require.False(t, found)
}

func TestImportSameFirstPartTwiceExtendsSingleAliasDeclaration(t *testing.T) {
	_, res := bindOK(t, "import os.path\nimport os.environ\n")
	sym, found := lookupDirect(res.Module, "os")
	require.True(t, found)
	require.Len(t, sym.Decls, 1)
	ad, ok := sym.Decls[0].(*binder.AliasDeclaration)
	require.True(t, ok)
	require.NotNil(t, ad.ImplicitImports)
}

func TestImportFromNamedBindsLocalNames(t *testing.T) {
	_, res := bindOK(t, "from os import path, sep as s\n")
	_, found := lookupDirect(res.Module, "path")
	require.True(t, found)
	_, found = lookupDirect(res.Module, "sep")
	require.False(t, found)
	_, found = lookupDirect(res.Module, "s")
	require.True(t, found)
}

func TestImportFromWildcardOutsideModuleScopeReportsDiagnostic(t *testing.T) {
	_, res := bindOK(t, "def f():\n    from os import *\n")
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, binder.RuleWildcardImportScope, res.Diagnostics[0].Rule)
}

func TestImportFromWildcardUsesLookupExports(t *testing.T) {
	_, osRes := bindOK(t, "def walk():\n    pass\n_private = 1\n")

	lookup := newFakeLookup()
	lookup.add("os", binder.ImportInfo{Exports: osRes.Module, HasSource: true})

	_, res := bindSrc(t, "from os import *\n", &binder.FileInfo{Path: "m.py", ModuleName: "m"}, lookup)
	_, found := lookupDirect(res.Module, "walk")
	require.True(t, found)
	_, found = lookupDirect(res.Module, "_private")
	require.False(t, found, "private-looking names are excluded from wildcard import")
}

func TestRelativeImportInPackageInitBindsImplicitSubmodule(t *testing.T) {
	_, res := bindSrc(t, "from . import sibling\n", &binder.FileInfo{Path: "pkg/__init__.py", ModuleName: "pkg.__init__"}, nil)
	_, found := lookupDirect(res.Module, "sibling")
	require.True(t, found)
}
