// Some of the scanner package is adapted from the Go source code:
// https://cs.opensource.google/go/go/+/refs/tags/go1.22.1:src/go/scanner/scanner.go
//
// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lexer tokenizes source files for the parser to consume. Unlike
// the teacher's brace-delimited scanner, this one is indentation-sensitive:
// it synthesizes NEWLINE/INDENT/DEDENT tokens from leading whitespace, and
// suspends that logic while inside parentheses/brackets/braces, where the
// surface syntax allows implicit line joining.
package lexer

import (
	"bytes"
	"context"
	"fmt"
	"go/scanner"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mna/pybind/internal/token"
)

type (
	Error     = scanner.Error
	ErrorList = scanner.ErrorList
)

var PrintError = scanner.PrintError

// TokenAndValue combines the token type with the token value type in the
// same struct.
type TokenAndValue struct {
	Token token.Token
	Value token.Value
}

// ScanFiles tokenizes the given source files and returns the list of
// tokens, grouped by file at the same index, plus any error encountered.
// The error, if non-nil, is guaranteed to implement Unwrap() []error.
func ScanFiles(_ context.Context, files ...string) (*token.FileSet, [][]TokenAndValue, error) {
	if len(files) == 0 {
		return nil, nil, nil
	}

	var (
		s      Scanner
		tokVal token.Value
		el     ErrorList
	)

	fs := token.NewFileSet()
	tokensByFile := make([][]TokenAndValue, len(files))
	for i, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			el.Add(token.Position{Filename: file}, err.Error())
			continue
		}

		fsf := fs.AddFile(file, -1, len(b))
		s.Init(fsf, b, el.Add)
		for {
			tok := s.Scan(&tokVal)
			tokensByFile[i] = append(tokensByFile[i], TokenAndValue{Token: tok, Value: tokVal})
			if tok == token.EOF {
				break
			}
		}
	}
	el.Sort()
	return fs, tokensByFile, el.Err()
}

type queuedTok struct {
	tok token.Token
	val token.Value
}

// Scanner tokenizes source files for the parser to consume.
type Scanner struct {
	// immutable state after Init
	file *token.File
	src  []byte
	err  func(pos token.Position, msg string)

	// mutable scanning state
	sb               strings.Builder
	pendingSurrogate rune
	invalidByte      byte
	cur              rune
	off              int
	roff             int

	// indentation state
	indents     []int       // stack of column widths; indents[0] is always 0
	parenDepth  int         // nesting depth of ( [ {, suspends NEWLINE/INDENT/DEDENT
	atLineStart bool        // true when the next Scan should measure indentation
	sawToken    bool        // whether any non-comment token has been emitted yet
	queue       []queuedTok // INDENT/DEDENT/NEWLINE/EOF tokens computed ahead of time
	atEOF       bool
}

var bom = [2]byte{0xFE, 0xFF}

// Init initializes the scanner to tokenize a new file. It panics if the
// file size does not match len(src).
func (s *Scanner) Init(file *token.File, src []byte, errHandler func(token.Position, string)) {
	if file.Size() != len(src) {
		panic(fmt.Sprintf("file size (%d) does not match src len (%d)", file.Size(), len(src)))
	}

	s.file = file
	s.src = src
	s.err = errHandler

	s.sb.Reset()
	s.pendingSurrogate = 0
	s.invalidByte = 0
	s.cur = ' '
	s.off = 0
	s.roff = 0
	s.indents = []int{0}
	s.parenDepth = 0
	s.atLineStart = true
	s.sawToken = false
	s.queue = nil
	s.atEOF = false

	if len(src) >= len(bom) && bytes.Equal(src[:len(bom)], bom[:]) {
		s.off += len(bom)
		s.roff += len(bom)
	}
	s.advance()
}

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		if s.cur == '\n' {
			s.file.AddLine(s.off - 1)
		}
		s.cur = -1
		return
	}

	s.off = s.roff
	if s.cur == '\n' {
		s.file.AddLine(s.off - 1)
	}

	s.invalidByte = 0
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.error(s.off, "illegal UTF-8 encoding")
			s.invalidByte = s.src[s.roff]
		}
	}
	s.roff += w
	s.cur = r
}

func (s *Scanner) error(off int, msg string) {
	if s.err != nil {
		s.err(s.file.Position(s.file.Pos(off)), msg)
	}
}

func (s *Scanner) errorf(off int, format string, args ...any) {
	s.error(off, fmt.Sprintf(format, args...))
}

func (s *Scanner) advanceIf(matches ...byte) bool {
	if bytes.ContainsRune(matches, s.cur) {
		s.advance()
		return true
	}
	return false
}

// Scan returns the next token in the source file.
func (s *Scanner) Scan(tokVal *token.Value) (tok token.Token) {
	if len(s.queue) > 0 {
		t := s.queue[0]
		s.queue = s.queue[1:]
		*tokVal = t.val
		return t.tok
	}

	for s.atLineStart && s.parenDepth == 0 {
		if s.measureIndent() {
			break
		}
		// blank or comment-only line: loop, measure the next one
	}
	s.atLineStart = false
	if len(s.queue) > 0 {
		t := s.queue[0]
		s.queue = s.queue[1:]
		*tokVal = t.val
		return t.tok
	}

	return s.scanToken(tokVal)
}

// measureIndent consumes one line's worth of leading whitespace and decides
// whether it is a real (indentation-bearing) line or a blank/comment-only
// one. It returns true once it has queued whatever INDENT/DEDENT tokens (if
// any) are needed and the scanner is positioned at the line's first real
// character.
func (s *Scanner) measureIndent() bool {
	col := 0
	for {
		switch s.cur {
		case ' ':
			col++
			s.advance()
			continue
		case '\t':
			col += 8 - col%8
			s.advance()
			continue
		case '\\':
			if s.peek() == '\n' {
				s.advance()
				s.advance()
				col = 0
				continue
			}
		}
		break
	}

	switch s.cur {
	case '\n':
		s.advance()
		return false
	case '#':
		commentPos := s.file.Pos(s.off)
		s.advance() // skip '#'
		commentStart := s.off
		s.skipLineComment()
		text := string(s.src[commentStart:s.off])
		s.queue = append(s.queue, queuedTok{tok: token.COMMENT, val: token.Value{Raw: "#" + text, Pos: commentPos, String: text}})
		if s.cur == '\n' {
			s.advance()
		}
		return false
	case -1:
		s.emitDedentsToEOF()
		return true
	}

	top := s.indents[len(s.indents)-1]
	switch {
	case col > top:
		s.indents = append(s.indents, col)
		s.queue = append(s.queue, queuedTok{tok: token.INDENT, val: token.Value{Pos: s.file.Pos(s.off)}})
	case col < top:
		for len(s.indents) > 1 && s.indents[len(s.indents)-1] > col {
			s.indents = s.indents[:len(s.indents)-1]
			s.queue = append(s.queue, queuedTok{tok: token.DEDENT, val: token.Value{Pos: s.file.Pos(s.off)}})
		}
		if s.indents[len(s.indents)-1] != col {
			s.error(s.off, "unindent does not match any outer indentation level")
		}
	}
	return true
}

func (s *Scanner) emitDedentsToEOF() {
	for len(s.indents) > 1 {
		s.indents = s.indents[:len(s.indents)-1]
		s.queue = append(s.queue, queuedTok{tok: token.DEDENT, val: token.Value{Pos: s.file.Pos(s.off)}})
	}
}

func (s *Scanner) skipLineComment() {
	for s.cur != '\n' && s.cur != -1 {
		s.advance()
	}
}

// skipWhitespace skips spaces and tabs, explicit backslash-newline
// continuations (always), and bare newlines when inside an open bracket
// (implicit continuation).
func (s *Scanner) skipWhitespace() {
	for {
		switch s.cur {
		case ' ', '\t', '\r':
			s.advance()
		case '\n':
			if s.parenDepth > 0 {
				s.advance()
				continue
			}
			return
		case '\\':
			if s.peek() == '\n' {
				s.advance()
				s.advance()
				continue
			}
			return
		default:
			return
		}
	}
}

func (s *Scanner) scanToken(tokVal *token.Value) (tok token.Token) {
	s.skipWhitespace()

	pos := s.file.Pos(s.off)
	start := s.off

	switch cur := s.cur; {
	case isLetter(cur):
		lit, prefix := s.identOrStringPrefix()
		if prefix != "" {
			tok = token.STRING
			lit2, val := s.stringLiteral(prefix)
			*tokVal = token.Value{Raw: lit2, Pos: pos, String: val.String, IsRaw: val.IsRaw, IsBytes: val.IsBytes, IsFString: val.IsFString}
			s.sawToken = true
			return tok
		}
		tok = token.IDENT
		if len(lit) > 1 {
			tok = token.LookupKw(lit)
		}
		*tokVal = token.Value{Raw: lit, Pos: pos}

	case isDecimal(cur) || cur == '.' && isDecimal(rune(s.peek())):
		var base int
		var lit string
		tok, base, lit = s.number()
		*tokVal = token.Value{Raw: lit, Pos: pos}
		if tok == token.INT {
			v, err := numberToInt(lit, base)
			if err != nil {
				s.error(start, "integer literal value out of range")
			}
			tokVal.Int = v
		} else if tok == token.FLOAT {
			v, err := numberToFloat(lit)
			if err != nil {
				s.error(start, "float literal value out of range")
			}
			tokVal.Float = v
		}

	case cur == '"' || cur == '\'':
		lit, val := s.stringLiteral("")
		tok = token.STRING
		*tokVal = token.Value{Raw: lit, Pos: pos, String: val.String, IsRaw: val.IsRaw, IsBytes: val.IsBytes, IsFString: val.IsFString}

	case cur == '#':
		tok = token.COMMENT
		s.advance()
		commentStart := s.off
		s.skipLineComment()
		text := string(s.src[commentStart:s.off])
		*tokVal = token.Value{Raw: "#" + text, Pos: pos, String: text}
		return tok

	case cur == '\n':
		s.advance()
		tok = token.NEWLINE
		*tokVal = token.Value{Raw: "\n", Pos: pos}
		s.atLineStart = true
		if !s.sawToken {
			// a blank line before the first real token carries no meaning.
			return s.scanToken(tokVal)
		}
		return tok

	case cur == -1:
		if !s.atEOF {
			s.atEOF = true
			s.emitDedentsToEOF()
			if len(s.queue) > 0 {
				t := s.queue[0]
				s.queue = s.queue[1:]
				*tokVal = t.val
				return t.tok
			}
		}
		tok = token.EOF
		*tokVal = token.Value{Raw: "", Pos: pos}

	default:
		s.advance()
		tok = s.operator(cur, start)
		*tokVal = token.Value{Raw: tok.String(), Pos: pos}
		switch tok {
		case token.LPAREN, token.LBRACK, token.LBRACE:
			s.parenDepth++
		case token.RPAREN, token.RBRACK, token.RBRACE:
			if s.parenDepth > 0 {
				s.parenDepth--
			}
		}
	}
	if tok != token.COMMENT {
		s.sawToken = true
	}
	return tok
}

// operator scans a single- or multi-character operator/punctuation token.
// cur is the character already consumed; s.cur is the one following it.
func (s *Scanner) operator(cur rune, start int) token.Token {
	switch cur {
	case '(':
		return token.LPAREN
	case ')':
		return token.RPAREN
	case '[':
		return token.LBRACK
	case ']':
		return token.RBRACK
	case '{':
		return token.LBRACE
	case '}':
		return token.RBRACE
	case ',':
		return token.COMMA
	case ';':
		return token.SEMI
	case '~':
		return token.TILDE
	case '@':
		return token.AT
	case '+':
		if s.advanceIf('=') {
			return token.PLUS_EQ
		}
		return token.PLUS
	case '-':
		if s.advanceIf('=') {
			return token.MINUS_EQ
		}
		if s.advanceIf('>') {
			return token.ARROW
		}
		return token.MINUS
	case '%':
		if s.advanceIf('=') {
			return token.PERCENT_EQ
		}
		return token.PERCENT
	case '^':
		if s.advanceIf('=') {
			return token.CARET_EQ
		}
		return token.CARET
	case '&':
		if s.advanceIf('=') {
			return token.AMP_EQ
		}
		return token.AMP
	case '|':
		if s.advanceIf('=') {
			return token.PIPE_EQ
		}
		return token.PIPE
	case '*':
		if s.advanceIf('*') {
			if s.advanceIf('=') {
				return token.POW_EQ
			}
			return token.DOUBLESTAR
		}
		if s.advanceIf('=') {
			return token.STAR_EQ
		}
		return token.STAR
	case '/':
		if s.advanceIf('/') {
			if s.advanceIf('=') {
				return token.DSLASH_EQ
			}
			return token.DSLASH
		}
		if s.advanceIf('=') {
			return token.SLASH_EQ
		}
		return token.SLASH
	case '<':
		if s.advanceIf('<') {
			if s.advanceIf('=') {
				return token.LSHIFT_EQ
			}
			return token.LSHIFT
		}
		if s.advanceIf('=') {
			return token.LE
		}
		return token.LT
	case '>':
		if s.advanceIf('>') {
			if s.advanceIf('=') {
				return token.RSHIFT_EQ
			}
			return token.RSHIFT
		}
		if s.advanceIf('=') {
			return token.GE
		}
		return token.GT
	case '=':
		if s.advanceIf('=') {
			return token.EQ
		}
		return token.ASSIGN
	case '!':
		if s.advanceIf('=') {
			return token.NE
		}
		s.errorf(start, "illegal character %#U (did you mean '!='?)", cur)
		return token.ILLEGAL
	case ':':
		if s.advanceIf('=') {
			return token.WALRUS
		}
		return token.COLON
	case '.':
		if s.cur == '.' && s.peek() == '.' {
			s.advance()
			s.advance()
			return token.ELLIPSIS
		}
		return token.DOT
	default:
		if cur == utf8.RuneError && s.invalidByte > 0 {
			cur = rune(s.invalidByte)
			s.invalidByte = 0
		}
		s.errorf(start, "illegal character %#U", cur)
		return token.ILLEGAL
	}
}

// identOrStringPrefix scans an identifier, then reports whether it turned
// out to be a string-literal prefix (r, b, f, rb, fr, ...) immediately
// followed by a quote: if so, s.cur is left positioned at the opening
// quote for the caller to dispatch to stringLiteral.
func (s *Scanner) identOrStringPrefix() (lit, prefix string) {
	start := s.off
	for isLetter(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	lit = string(s.src[start:s.off])
	if len(lit) <= 2 && (s.cur == '"' || s.cur == '\'') && isStringPrefix(lit) {
		return lit, strings.ToLower(lit)
	}
	return lit, ""
}

func isStringPrefix(lit string) bool {
	switch strings.ToLower(lit) {
	case "r", "b", "f", "u", "rb", "br", "rf", "fr":
		return true
	}
	return false
}

func isLetter(rn rune) bool {
	return 'a' <= rn && rn <= 'z' ||
		'A' <= rn && rn <= 'Z' ||
		rn == '_' ||
		rn >= utf8.RuneSelf && unicode.IsLetter(rn)
}

func isDigit(rn rune) bool {
	return '0' <= rn && rn <= '9' ||
		rn >= utf8.RuneSelf && unicode.IsDigit(rn)
}
