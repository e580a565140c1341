package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

type stringValue struct {
	String    string
	IsRaw     bool
	IsBytes   bool
	IsFString bool
}

// stringLiteral scans a string literal whose prefix (possibly empty) has
// already been consumed; s.cur is the opening quote. It handles both
// short ('...'/"...") and triple-quoted ('''...'''/"""...\"\"\") forms.
func (s *Scanner) stringLiteral(prefix string) (lit string, val stringValue) {
	val.IsRaw = strings.ContainsAny(prefix, "rR")
	val.IsBytes = strings.ContainsAny(prefix, "bB")
	val.IsFString = strings.ContainsAny(prefix, "fF")

	start := s.off
	quote := s.cur
	s.advance()
	triple := s.cur == quote && s.peek() == byte(quote)
	if triple {
		s.advance()
		s.advance()
	}

	s.sb.Reset()
	s.pendingSurrogate = 0

	for {
		cur := s.cur
		if cur < 0 {
			s.error(start, "string literal not terminated")
			break
		}
		if cur == '\n' && !triple {
			s.error(start, "string literal not terminated")
			break
		}
		if cur == quote {
			if !triple {
				s.advance()
				break
			}
			if s.peek() == byte(quote) {
				s.advance()
				if s.peek() == byte(quote) {
					s.advance()
					s.advance()
					break
				}
				// only two quotes in a row: not a closing delimiter, keep them
				s.writeStringLitRune(quote)
				s.writeStringLitRune(quote)
				s.advance()
				continue
			}
		}
		if cur == '\\' && !val.IsRaw {
			s.advance()
			s.escape()
			continue
		}
		if cur == '\\' && val.IsRaw {
			// raw strings keep the backslash verbatim, but it still protects
			// the following quote from ending the literal.
			s.writeStringLitRune(cur)
			s.advance()
			if s.cur == quote {
				s.writeStringLitRune(s.cur)
				s.advance()
			}
			continue
		}
		s.writeStringLitRune(cur)
		s.advance()
	}
	if s.pendingSurrogate != 0 {
		s.sb.WriteRune(utf8.RuneError)
	}
	val.String = s.sb.String()
	return prefix + string(s.src[start:s.off]), val
}

var simpleEscapes = map[rune]byte{
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'\n': '\n',
}

// escape parses one escape sequence; the leading backslash has already
// been consumed. Unknown escapes are kept verbatim (Python leaves them as
// a literal backslash followed by the character, with only a warning in
// the reference implementation).
func (s *Scanner) escape() {
	startOff := s.off - 1

	if cur := s.cur; s.advanceIf('a', 'b', 'f', 'n', 'r', 't', 'v', '\\', '\'', '"', '\n') {
		if cur != '\n' {
			s.writeStringLitRune(rune(simpleEscapes[cur]))
		}
		return
	}

	illegalOrIncomplete := func() {
		msg := fmt.Sprintf("illegal character %#U in escape sequence", s.cur)
		pos := s.off
		if s.cur < 0 {
			msg = "escape sequence not terminated"
			pos = startOff
		}
		s.error(pos, msg)
	}

	var max, rn uint32
	switch {
	case isDecimal(s.cur):
		max = 255
		rn = uint32(digitVal(s.cur))
		s.advance()
		for i := 0; i < 2 && isDecimal(s.cur); i++ {
			rn = rn*8 + uint32(digitVal(s.cur))
			s.advance()
		}
	case s.advanceIf('x'):
		max = 255
		for i := 0; i < 2; i++ {
			if !isHexadecimal(s.cur) {
				illegalOrIncomplete()
				return
			}
			rn = rn*16 + uint32(digitVal(s.cur))
			s.advance()
		}
	case s.advanceIf('u'):
		max = unicode.MaxRune
		for i := 0; i < 4; i++ {
			if !isHexadecimal(s.cur) {
				illegalOrIncomplete()
				return
			}
			rn = rn*16 + uint32(digitVal(s.cur))
			s.advance()
		}
	case s.advanceIf('U'):
		max = unicode.MaxRune
		for i := 0; i < 8; i++ {
			if !isHexadecimal(s.cur) {
				illegalOrIncomplete()
				return
			}
			rn = rn*16 + uint32(digitVal(s.cur))
			s.advance()
		}
	default:
		// unrecognized escape: keep the backslash and the character as-is.
		s.writeStringLitRune('\\')
		if s.cur >= 0 {
			s.writeStringLitRune(s.cur)
			s.advance()
		}
		return
	}

	if rn > max {
		msg := "escape sequence is invalid Unicode code point"
		if max == 255 {
			msg = "escape sequence is invalid byte value"
		}
		s.error(startOff, msg)
		return
	}
	if utf16.IsSurrogate(rune(rn)) {
		s.writeStringLitSurrogate(rune(rn))
		return
	}
	s.writeStringLitRune(rune(rn))
}

func (s *Scanner) writeStringLitRune(rn rune) {
	if s.pendingSurrogate != 0 {
		s.sb.WriteRune(utf8.RuneError)
		s.pendingSurrogate = 0
	}
	s.sb.WriteRune(rn)
}

func (s *Scanner) writeStringLitSurrogate(rn rune) {
	if s.pendingSurrogate == 0 {
		s.pendingSurrogate = rn
	} else {
		s.sb.WriteRune(utf16.DecodeRune(s.pendingSurrogate, rn))
		s.pendingSurrogate = 0
	}
}

func digitVal(rn rune) int {
	switch {
	case '0' <= rn && rn <= '9':
		return int(rn - '0')
	case 'a' <= rn && rn <= 'f':
		return int(rn - 'a' + 10)
	case 'A' <= rn && rn <= 'F':
		return int(rn - 'A' + 10)
	}
	return 16
}
