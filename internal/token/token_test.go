package token_test

import (
	"testing"

	"github.com/mna/pybind/internal/token"
	"github.com/stretchr/testify/require"
)

func TestTokenString(t *testing.T) {
	require.Equal(t, "def", token.DEF.String())
	require.Equal(t, "'+'", token.PLUS.GoString())
	require.Equal(t, "'and'", token.AND.GoString())
}

func TestKeywords(t *testing.T) {
	tok, ok := token.Keywords["class"]
	require.True(t, ok)
	require.Equal(t, token.CLASS, tok)
	require.True(t, tok.IsKeyword())

	_, ok = token.Keywords["notakeyword"]
	require.False(t, ok)
}

func TestFileSetPositions(t *testing.T) {
	fset := token.NewFileSet()
	f0 := fset.AddFile("a.py", -1, 10)
	f1 := fset.AddFile("b.py", -1, 10)

	require.Equal(t, f0, fset.File(f0.Pos(0)))
	require.Equal(t, f1, fset.File(f1.Pos(0)))

	line, col := f0.LineCol(f0.Pos(0))
	require.Equal(t, 1, line)
	require.Equal(t, 1, col)

	f0.AddLine(3)
	line, col = f0.LineCol(f0.Pos(4))
	require.Equal(t, 2, line)
	require.Equal(t, 1, col)
}

func TestFormatPos(t *testing.T) {
	fset := token.NewFileSet()
	f := fset.AddFile("a.py", -1, 10)
	p := f.Pos(0)

	require.Equal(t, "a.py:1:1", token.FormatPos(token.PosLong, f, p, true))
	require.Equal(t, ":1:1", token.FormatPos(token.PosLong, f, p, false))
	require.Equal(t, "0", token.FormatPos(token.PosOffsets, f, p, true))
	require.Equal(t, "", token.FormatPos(token.PosNone, f, p, true))
	require.Equal(t, "a.py:-:-", token.FormatPos(token.PosLong, f, token.NoPos, true))
}
