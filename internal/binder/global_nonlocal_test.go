package binder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/pybind/internal/binder"
)

func TestGlobalInFunctionDeclaresNameInModuleScope(t *testing.T) {
	_, res := bindOK(t, "def f():\n    global x\n    x = 1\n")
	require.Empty(t, res.Diagnostics)
	_, found := lookupDirect(res.Module, "x")
	require.True(t, found)
}

func TestGlobalAfterLocalAssignmentReportsDiagnostic(t *testing.T) {
	_, res := bindOK(t, "def f():\n    x = 1\n    global x\n")
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, binder.RuleGlobalReassignment, res.Diagnostics[0].Rule)
}

func TestNonlocalAtModuleScopeReportsDiagnostic(t *testing.T) {
	_, res := bindOK(t, "nonlocal x\n")
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, binder.RuleNonlocalAtModuleScope, res.Diagnostics[0].Rule)
}

func TestNonlocalWithoutEnclosingBindingReportsDiagnostic(t *testing.T) {
	_, res := bindOK(t, "def f():\n    nonlocal x\n")
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, binder.RuleNonlocalNoBinding, res.Diagnostics[0].Rule)
}

func TestNonlocalResolvesToEnclosingFunctionBinding(t *testing.T) {
	_, res := bindOK(t, `
def outer():
    x = 1
    def inner():
        nonlocal x
        x = 2
    inner()
`)
	require.Empty(t, res.Diagnostics)
}

func TestNonlocalConflictsWithPriorGlobalDeclaration(t *testing.T) {
	_, res := bindOK(t, `
def outer():
    x = 1
    def inner():
        global x
        nonlocal x
`)
	var found bool
	for _, d := range res.Diagnostics {
		if d.Rule == binder.RuleGlobalReassignment {
			found = true
		}
	}
	require.True(t, found)
}
