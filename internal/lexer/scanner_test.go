package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/pybind/internal/lexer"
	"github.com/mna/pybind/internal/token"
)

func scanAll(t *testing.T, src string) []lexer.TokenAndValue {
	t.Helper()
	fs := token.NewFileSet()
	f := fs.AddFile("test.py", -1, len(src))

	var (
		s   lexer.Scanner
		val token.Value
		out []lexer.TokenAndValue
	)
	s.Init(f, []byte(src), func(pos token.Position, msg string) {
		t.Fatalf("unexpected scan error at %v: %s", pos, msg)
	})
	for {
		tok := s.Scan(&val)
		out = append(out, lexer.TokenAndValue{Token: tok, Value: val})
		if tok == token.EOF {
			return out
		}
	}
}

func tokens(toks []lexer.TokenAndValue) []token.Token {
	out := make([]token.Token, len(toks))
	for i, tv := range toks {
		out[i] = tv.Token
	}
	return out
}

func TestScanIndentation(t *testing.T) {
	src := "if x:\n    y = 1\n    if y:\n        pass\nz = 2\n"
	got := tokens(scanAll(t, src))
	require.Equal(t, []token.Token{
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT,
		token.PASS, token.NEWLINE,
		token.DEDENT, token.DEDENT,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.EOF,
	}, got)
}

func TestScanBlankAndCommentLinesDoNotAffectIndentation(t *testing.T) {
	src := "if x:\n\n    # a comment\n    pass\n"
	toks := scanAll(t, src)
	got := tokens(toks)
	require.Equal(t, []token.Token{
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.COMMENT,
		token.INDENT,
		token.PASS, token.NEWLINE,
		token.DEDENT,
		token.EOF,
	}, got)
	for _, tv := range toks {
		if tv.Token == token.COMMENT {
			require.Equal(t, " a comment", tv.Value.String)
		}
	}
}

func TestScanParenSuspendsNewline(t *testing.T) {
	src := "x = (1,\n     2,\n     3)\n"
	got := tokens(scanAll(t, src))
	require.Equal(t, []token.Token{
		token.IDENT, token.ASSIGN, token.LPAREN,
		token.INT, token.COMMA,
		token.INT, token.COMMA,
		token.INT, token.RPAREN, token.NEWLINE,
		token.EOF,
	}, got)
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks := scanAll(t, "async def foo(x): return x\n")
	require.Equal(t, token.ASYNC, toks[0].Token)
	require.Equal(t, token.DEF, toks[1].Token)
	require.Equal(t, token.IDENT, toks[2].Token)
	require.Equal(t, "foo", toks[2].Value.Raw)
}

func TestScanIsNotAndNotIn(t *testing.T) {
	got := tokens(scanAll(t, "x is not None\ny not in z\n"))
	require.Equal(t, []token.Token{
		token.IDENT, token.IS, token.NOT, token.NONE, token.NEWLINE,
		token.IDENT, token.NOT, token.IN, token.IDENT, token.NEWLINE,
		token.EOF,
	}, got)
}

func TestScanNumbers(t *testing.T) {
	toks := scanAll(t, "1 1_000 0x1F 0o17 0b101 1.5 1e10 .5\n")
	want := []struct {
		tok token.Token
		raw string
	}{
		{token.INT, "1"},
		{token.INT, "1_000"},
		{token.INT, "0x1F"},
		{token.INT, "0o17"},
		{token.INT, "0b101"},
		{token.FLOAT, "1.5"},
		{token.FLOAT, "1e10"},
		{token.FLOAT, ".5"},
	}
	for i, w := range want {
		require.Equal(t, w.tok, toks[i].Token, "token %d", i)
		require.Equal(t, w.raw, toks[i].Value.Raw, "token %d", i)
	}
}

func TestScanStrings(t *testing.T) {
	toks := scanAll(t, `x = "a\nb"` + "\n" + `y = 'c'` + "\n" + `z = r"d\n"` + "\n")
	require.Equal(t, token.STRING, toks[2].Token)
	require.Equal(t, "a\nb", toks[2].Value.String)
	require.Equal(t, token.STRING, toks[6].Token)
	require.Equal(t, "c", toks[6].Value.String)
	require.Equal(t, token.STRING, toks[10].Token)
	require.True(t, toks[10].Value.IsRaw)
	require.Equal(t, `d\n`, toks[10].Value.String)
}

func TestScanTripleQuotedStringSpansNewlines(t *testing.T) {
	src := "x = \"\"\"line one\nline two\"\"\"\n"
	toks := scanAll(t, src)
	require.Equal(t, token.STRING, toks[2].Token)
	require.Equal(t, "line one\nline two", toks[2].Value.String)
}

func TestScanFStringPrefix(t *testing.T) {
	toks := scanAll(t, `x = f"hello {name}"` + "\n")
	require.Equal(t, token.STRING, toks[2].Token)
	require.True(t, toks[2].Value.IsFString)
	require.Equal(t, "hello {name}", toks[2].Value.String)
}

func TestScanOperators(t *testing.T) {
	got := tokens(scanAll(t, "x := 1\nx **= 2\nx //= 3\nx -> 4\n"))
	require.Equal(t, []token.Token{
		token.IDENT, token.WALRUS, token.INT, token.NEWLINE,
		token.IDENT, token.POW_EQ, token.INT, token.NEWLINE,
		token.IDENT, token.DSLASH_EQ, token.INT, token.NEWLINE,
		token.IDENT, token.ARROW, token.INT, token.NEWLINE,
		token.EOF,
	}, got)
}

func TestScanBackslashContinuation(t *testing.T) {
	got := tokens(scanAll(t, "x = 1 + \\\n    2\n"))
	require.Equal(t, []token.Token{
		token.IDENT, token.ASSIGN, token.INT, token.PLUS, token.INT, token.NEWLINE,
		token.EOF,
	}, got)
}

func TestScanStringUnrecognizedEscapeKeptVerbatim(t *testing.T) {
	toks := scanAll(t, `x = "a\qb"`+"\n")
	require.Equal(t, token.STRING, toks[2].Token)
	require.Equal(t, `a\qb`, toks[2].Value.String)
}

func TestScanDedentAtEOFWithoutTrailingNewline(t *testing.T) {
	src := "if x:\n    pass"
	got := tokens(scanAll(t, src))
	require.Equal(t, []token.Token{
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT,
		token.PASS,
		token.DEDENT,
		token.EOF,
	}, got)
}
