package binder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/pybind/internal/binder"
)

func TestFStringUnterminatedBraceReportsFormatStringDiagnostic(t *testing.T) {
	_, res := bindOK(t, `s = f"hello {name"`+"\n")
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, binder.RuleFormatString, res.Diagnostics[0].Rule)
}

func TestFStringInvalidExprReportsFormatStringDiagnostic(t *testing.T) {
	_, res := bindOK(t, `s = f"hello {1 +}"`+"\n")
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, binder.RuleFormatString, res.Diagnostics[0].Rule)
}

func TestFStringWellFormedReportsNoDiagnostic(t *testing.T) {
	_, res := bindOK(t, `s = f"hello {name!r} you are {age+1:>3} today"`+"\n")
	require.Empty(t, res.Diagnostics)
}
