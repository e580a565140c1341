package token

// Value carries the literal payload of a token alongside its Token kind:
// the raw source text plus whichever of Int/Float/String holds the
// decoded value for INT/FLOAT/STRING tokens.
type Value struct {
	Raw   string
	Pos   Pos
	Int   int64
	Float float64
	// String holds the decoded string value for STRING tokens (escapes
	// resolved, quotes stripped).
	String string
	// IsRaw/IsBytes/IsFString record the string-literal prefix, since the
	// surface syntax allows r"...", b"...", f"...", and combinations.
	IsRaw     bool
	IsBytes   bool
	IsFString bool
}

// LookupKw returns the keyword Token for lit, or IDENT if lit is not a
// reserved word.
func LookupKw(lit string) Token {
	if tok, ok := Keywords[lit]; ok {
		return tok
	}
	return IDENT
}

// Literal returns the printable text for a token carrying a Value, or the
// empty string for tokens whose spelling is fixed (operators, keywords,
// NEWLINE/INDENT/DEDENT/EOF), in which case the caller falls back to
// tok.GoString().
func (tok Token) Literal(val Value) string {
	switch tok {
	case IDENT, INT, FLOAT, COMMENT:
		return val.Raw
	case STRING:
		return val.Raw
	default:
		return ""
	}
}
