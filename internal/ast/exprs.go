package ast

import (
	"fmt"

	"github.com/mna/pybind/internal/token"
)

// IsAssignable reports whether e is a valid assignment target: a bare name,
// an attribute access or a subscript, or a tuple/list/starred pattern of
// such targets.
func IsAssignable(e Expr) bool {
	switch e := e.(type) {
	case *Name, *Attribute, *Subscript:
		return true
	case *Starred:
		return IsAssignable(e.Value)
	case *TupleExpr:
		for _, it := range e.Items {
			if !IsAssignable(it) {
				return false
			}
		}
		return true
	case *ListExpr:
		for _, it := range e.Items {
			if !IsAssignable(it) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

type (
	// BadExpr represents an expression that failed to parse.
	BadExpr struct {
		Start, End token.Pos
	}

	// Name represents a bare identifier reference.
	Name struct {
		Start token.Pos
		Id    string
	}

	// Attribute represents a dotted member access, e.g. x.y. The right-hand
	// side is a bare name; it is never itself resolved as a binding (runtime
	// lookup), only used to build a reference key for narrowing.
	Attribute struct {
		Value Expr
		Dot   token.Pos
		Attr  *Name
	}

	// Subscript represents an index expression, e.g. x[y]. Index may be a
	// SliceExpr (x[a:b:c]) or a TupleExpr of slices/expressions for a
	// multi-dimensional subscript, e.g. x[a, b:c].
	Subscript struct {
		Value  Expr
		Lbrack token.Pos
		Index  Expr
		Rbrack token.Pos
	}

	// SliceExpr represents one 'lower:upper:step' slice bound inside a
	// subscript. Any of Lower, Upper or Step may be nil when omitted.
	SliceExpr struct {
		Colon            token.Pos
		Lower, Upper, Step Expr
	}

	// Keyword represents a call's keyword=value argument, or a class's
	// keyword= base-class argument (e.g. metaclass=X).
	Keyword struct {
		Name  *Name // nil for a **kwargs unpack
		Value Expr
	}

	// Call represents a function call, e.g. f(x, y=1).
	Call struct {
		Fn       Expr
		Lparen   token.Pos
		Args     []Expr
		Keywords []*Keyword
		Rparen   token.Pos
	}

	// Starred represents a *x unpacking expression in an assignment target,
	// call argument, or literal.
	Starred struct {
		Star  token.Pos
		Value Expr
	}

	// Param is a single function parameter.
	Param struct {
		Name       *Name
		Annotation Expr // may be nil
		Default    Expr // may be nil
	}

	// Params is a function's full parameter list.
	Params struct {
		Args   []*Param
		VarArg *Param // nil if no *args
		KwOnly []*Param
		KwArg  *Param // nil if no **kwargs
	}

	// Lambda represents a lambda expression.
	Lambda struct {
		Start token.Pos
		Sig   *Params
		Body  Expr
	}

	// BoolOp represents a chain of 'and'/'or' applied left to right.
	BoolOp struct {
		Op     token.Token // AND or OR
		Values []Expr
	}

	// UnaryOp represents a unary operator expression, e.g. -x, not x.
	UnaryOp struct {
		Op      token.Token
		OpPos   token.Pos
		Operand Expr
	}

	// BinOp represents a binary arithmetic/bitwise expression, e.g. x + y.
	BinOp struct {
		Left  Expr
		Op    token.Token
		OpPos token.Pos
		Right Expr
	}

	// Compare represents a (possibly chained) comparison, e.g. a < b <= c.
	Compare struct {
		Left        Expr
		Ops         []token.Token // LT, GT, EQ, NE, LE, GE, IN, NOT IN (two tokens collapsed), IS, IS NOT
		OpPos       []token.Pos
		Comparators []Expr
	}

	// NamedExpr represents a walrus assignment expression, e.g. (y := f(x)).
	NamedExpr struct {
		Target *Name
		Colon  token.Pos
		Value  Expr
	}

	// IfExp represents a conditional expression, e.g. a if cond else b.
	IfExp struct {
		Body   Expr
		Test   Expr
		Orelse Expr
	}

	// TupleExpr represents a tuple literal or assignment/unpacking target.
	TupleExpr struct {
		Lparen token.Pos // may be zero (bare tuple)
		Items  []Expr
		Rparen token.Pos
	}

	// ListExpr represents a list literal or assignment/unpacking target.
	ListExpr struct {
		Lbrack token.Pos
		Items  []Expr
		Rbrack token.Pos
	}

	// SetExpr represents a set literal.
	SetExpr struct {
		Lbrace token.Pos
		Items  []Expr
		Rbrace token.Pos
	}

	// DictExpr represents a dict literal. Keys[i] is nil for a **value
	// unpacking entry.
	DictExpr struct {
		Lbrace token.Pos
		Keys   []Expr
		Values []Expr
		Rbrace token.Pos
	}

	// Literal represents a number, True, False or None literal.
	Literal struct {
		Kind  token.Token // INT, FLOAT, TRUE, FALSE, NONE
		Start token.Pos
		Raw   string
		Value interface{}
	}

	// StringPart is one physical string token in an adjacent-string-literal
	// run, possibly an f-string with embedded expressions.
	StringPart struct {
		Start        token.Pos
		Raw          string
		IsFormat     bool
		FormatExprs  []Expr        // embedded {expr} expressions, in source order
		FormatErrors []FormatError // malformed {expr} sections, in source order
	}

	// FormatError is one malformed {expr} section found while splitting an
	// f-string body: either an unterminated '{' or an embedded expression
	// that failed to parse on its own.
	FormatError struct {
		Start token.Pos
		Msg   string
	}

	// StringList represents one or more adjacent string literals, implicitly
	// concatenated. Malformed-format-expression and unterminated
	// format-string problems are recorded per part as FormatErrors by the
	// parser, and the binder reports each one (a StringList is never itself
	// narrowable).
	StringList struct {
		Parts []*StringPart
	}

	// Comprehension is a single 'for ... in ... [if ...]*' clause inside a
	// comprehension or generator expression.
	Comprehension struct {
		Async  bool
		For    token.Pos
		Target Expr // may be a tuple pattern
		In     token.Pos
		Iter   Expr
		Ifs    []Expr
	}

	// ListComp represents a list comprehension.
	ListComp struct {
		Lbrack     token.Pos
		Elt        Expr
		Generators []*Comprehension
		Rbrack     token.Pos
	}

	// SetComp represents a set comprehension.
	SetComp struct {
		Lbrace     token.Pos
		Elt        Expr
		Generators []*Comprehension
		Rbrace     token.Pos
	}

	// DictComp represents a dict comprehension.
	DictComp struct {
		Lbrace     token.Pos
		Key, Value Expr
		Generators []*Comprehension
		Rbrace     token.Pos
	}

	// GeneratorExp represents a generator expression, e.g. (x for x in xs).
	GeneratorExp struct {
		Lparen     token.Pos
		Elt        Expr
		Generators []*Comprehension
		Rparen     token.Pos
	}

	// Yield represents a yield expression, possibly with no value.
	Yield struct {
		Start token.Pos
		Value Expr // may be nil
	}

	// YieldFrom represents a 'yield from' expression.
	YieldFrom struct {
		Start token.Pos
		From  token.Pos
		Value Expr
	}

	// Await represents an await expression.
	Await struct {
		Start token.Pos
		Value Expr
	}
)

func (n *BadExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "!bad expr!", nil) }
func (n *BadExpr) Span() (start, end token.Pos)  { return n.Start, n.End }
func (n *BadExpr) Walk(_ Visitor)                {}
func (n *BadExpr) expr()                         {}

func (n *Name) Format(f fmt.State, verb rune) { format(f, verb, n, n.Id, nil) }
func (n *Name) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Id))
}
func (n *Name) Walk(_ Visitor) {}
func (n *Name) expr()          {}

func (n *Attribute) Format(f fmt.State, verb rune) { format(f, verb, n, "expr.attr", nil) }
func (n *Attribute) Span() (start, end token.Pos) {
	start, _ = n.Value.Span()
	_, end = n.Attr.Span()
	return start, end
}
func (n *Attribute) Walk(v Visitor) { Walk(v, n.Value); Walk(v, n.Attr) }
func (n *Attribute) expr()          {}

func (n *Subscript) Format(f fmt.State, verb rune) { format(f, verb, n, "expr[index]", nil) }
func (n *Subscript) Span() (start, end token.Pos) {
	start, _ = n.Value.Span()
	return start, n.Rbrack + 1
}
func (n *Subscript) Walk(v Visitor) { Walk(v, n.Value); Walk(v, n.Index) }
func (n *Subscript) expr()          {}

func (n *SliceExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "slice", nil) }
func (n *SliceExpr) Span() (start, end token.Pos) {
	start, end = n.Colon, n.Colon+1
	if n.Lower != nil {
		start, _ = n.Lower.Span()
	}
	if n.Step != nil {
		_, end = n.Step.Span()
	} else if n.Upper != nil {
		_, end = n.Upper.Span()
	}
	return start, end
}
func (n *SliceExpr) Walk(v Visitor) {
	if n.Lower != nil {
		Walk(v, n.Lower)
	}
	if n.Upper != nil {
		Walk(v, n.Upper)
	}
	if n.Step != nil {
		Walk(v, n.Step)
	}
}
func (n *SliceExpr) expr() {}

func (n *Call) Format(f fmt.State, verb rune) {
	format(f, verb, n, "call", map[string]int{"args": len(n.Args), "kwargs": len(n.Keywords)})
}
func (n *Call) Span() (start, end token.Pos) {
	start, _ = n.Fn.Span()
	return start, n.Rparen + 1
}
func (n *Call) Walk(v Visitor) {
	Walk(v, n.Fn)
	for _, a := range n.Args {
		Walk(v, a)
	}
	for _, k := range n.Keywords {
		if k.Name != nil {
			Walk(v, k.Name)
		}
		Walk(v, k.Value)
	}
}
func (n *Call) expr() {}

func (n *Starred) Format(f fmt.State, verb rune) { format(f, verb, n, "*expr", nil) }
func (n *Starred) Span() (start, end token.Pos) {
	_, end = n.Value.Span()
	return n.Star, end
}
func (n *Starred) Walk(v Visitor) { Walk(v, n.Value) }
func (n *Starred) expr()          {}

func (n *Lambda) Format(f fmt.State, verb rune) {
	format(f, verb, n, "lambda", map[string]int{"params": len(n.Sig.Args)})
}
func (n *Lambda) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.Start, end
}
func (n *Lambda) Walk(v Visitor) {
	walkParams(v, n.Sig)
	Walk(v, n.Body)
}
func (n *Lambda) expr() {}

func walkParams(v Visitor, sig *Params) {
	for _, p := range sig.Args {
		walkParam(v, p)
	}
	if sig.VarArg != nil {
		walkParam(v, sig.VarArg)
	}
	for _, p := range sig.KwOnly {
		walkParam(v, p)
	}
	if sig.KwArg != nil {
		walkParam(v, sig.KwArg)
	}
}

func walkParam(v Visitor, p *Param) {
	Walk(v, p.Name)
	if p.Annotation != nil {
		Walk(v, p.Annotation)
	}
	if p.Default != nil {
		Walk(v, p.Default)
	}
}

func (n *BoolOp) Format(f fmt.State, verb rune) {
	format(f, verb, n, "bool "+n.Op.GoString(), map[string]int{"values": len(n.Values)})
}
func (n *BoolOp) Span() (start, end token.Pos) {
	start, _ = n.Values[0].Span()
	_, end = n.Values[len(n.Values)-1].Span()
	return start, end
}
func (n *BoolOp) Walk(v Visitor) {
	for _, e := range n.Values {
		Walk(v, e)
	}
}
func (n *BoolOp) expr() {}

func (n *UnaryOp) Format(f fmt.State, verb rune) { format(f, verb, n, "unary "+n.Op.GoString(), nil) }
func (n *UnaryOp) Span() (start, end token.Pos) {
	_, end = n.Operand.Span()
	return n.OpPos, end
}
func (n *UnaryOp) Walk(v Visitor) { Walk(v, n.Operand) }
func (n *UnaryOp) expr()          {}

func (n *BinOp) Format(f fmt.State, verb rune) { format(f, verb, n, "binary "+n.Op.GoString(), nil) }
func (n *BinOp) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *BinOp) Walk(v Visitor) { Walk(v, n.Left); Walk(v, n.Right) }
func (n *BinOp) expr()          {}

func (n *Compare) Format(f fmt.State, verb rune) {
	format(f, verb, n, "compare", map[string]int{"ops": len(n.Ops)})
}
func (n *Compare) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Comparators[len(n.Comparators)-1].Span()
	return start, end
}
func (n *Compare) Walk(v Visitor) {
	Walk(v, n.Left)
	for _, e := range n.Comparators {
		Walk(v, e)
	}
}
func (n *Compare) expr() {}

func (n *NamedExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "walrus :=", nil) }
func (n *NamedExpr) Span() (start, end token.Pos) {
	start, _ = n.Target.Span()
	_, end = n.Value.Span()
	return start, end
}
func (n *NamedExpr) Walk(v Visitor) { Walk(v, n.Target); Walk(v, n.Value) }
func (n *NamedExpr) expr()          {}

func (n *IfExp) Format(f fmt.State, verb rune) { format(f, verb, n, "a if cond else b", nil) }
func (n *IfExp) Span() (start, end token.Pos) {
	start, _ = n.Body.Span()
	_, end = n.Orelse.Span()
	return start, end
}
func (n *IfExp) Walk(v Visitor) { Walk(v, n.Body); Walk(v, n.Test); Walk(v, n.Orelse) }
func (n *IfExp) expr()          {}

func (n *TupleExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "tuple", map[string]int{"items": len(n.Items)})
}
func (n *TupleExpr) Span() (start, end token.Pos) {
	if n.Lparen.IsValid() {
		return n.Lparen, n.Rparen + 1
	}
	if len(n.Items) == 0 {
		return n.Lparen, n.Rparen
	}
	start, _ = n.Items[0].Span()
	_, end = n.Items[len(n.Items)-1].Span()
	return start, end
}
func (n *TupleExpr) Walk(v Visitor) {
	for _, e := range n.Items {
		Walk(v, e)
	}
}
func (n *TupleExpr) expr() {}

func (n *ListExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "list", map[string]int{"items": len(n.Items)})
}
func (n *ListExpr) Span() (start, end token.Pos) { return n.Lbrack, n.Rbrack + 1 }
func (n *ListExpr) Walk(v Visitor) {
	for _, e := range n.Items {
		Walk(v, e)
	}
}
func (n *ListExpr) expr() {}

func (n *SetExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "set", map[string]int{"items": len(n.Items)})
}
func (n *SetExpr) Span() (start, end token.Pos) { return n.Lbrace, n.Rbrace + 1 }
func (n *SetExpr) Walk(v Visitor) {
	for _, e := range n.Items {
		Walk(v, e)
	}
}
func (n *SetExpr) expr() {}

func (n *DictExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "dict", map[string]int{"items": len(n.Values)})
}
func (n *DictExpr) Span() (start, end token.Pos) { return n.Lbrace, n.Rbrace + 1 }
func (n *DictExpr) Walk(v Visitor) {
	for i, val := range n.Values {
		if n.Keys[i] != nil {
			Walk(v, n.Keys[i])
		}
		Walk(v, val)
	}
}
func (n *DictExpr) expr() {}

func (n *Literal) Format(f fmt.State, verb rune) { format(f, verb, n, n.Kind.String()+" "+n.Raw, nil) }
func (n *Literal) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Raw))
}
func (n *Literal) Walk(_ Visitor) {}
func (n *Literal) expr()          {}

func (n *StringList) Format(f fmt.State, verb rune) {
	format(f, verb, n, "string", map[string]int{"parts": len(n.Parts)})
}
func (n *StringList) Span() (start, end token.Pos) {
	start = n.Parts[0].Start
	last := n.Parts[len(n.Parts)-1]
	return start, last.Start + token.Pos(len(last.Raw))
}
func (n *StringList) Walk(v Visitor) {
	for _, p := range n.Parts {
		for _, e := range p.FormatExprs {
			Walk(v, e)
		}
	}
}
func (n *StringList) expr() {}

func (n *Comprehension) Format(f fmt.State, verb rune) {
	lbl := "for"
	if n.Async {
		lbl = "async for"
	}
	format(f, verb, n, lbl, map[string]int{"ifs": len(n.Ifs)})
}
func (n *Comprehension) Span() (start, end token.Pos) {
	if len(n.Ifs) > 0 {
		_, end = n.Ifs[len(n.Ifs)-1].Span()
	} else {
		_, end = n.Iter.Span()
	}
	return n.For, end
}
func (n *Comprehension) Walk(v Visitor) {
	Walk(v, n.Target)
	Walk(v, n.Iter)
	for _, e := range n.Ifs {
		Walk(v, e)
	}
}

func walkGenerators(v Visitor, gens []*Comprehension) {
	for _, g := range gens {
		Walk(v, g)
	}
}

func (n *ListComp) Format(f fmt.State, verb rune) { format(f, verb, n, "list comp", nil) }
func (n *ListComp) Span() (start, end token.Pos)  { return n.Lbrack, n.Rbrack + 1 }
func (n *ListComp) Walk(v Visitor) {
	Walk(v, n.Elt)
	walkGenerators(v, n.Generators)
}
func (n *ListComp) expr() {}

func (n *SetComp) Format(f fmt.State, verb rune) { format(f, verb, n, "set comp", nil) }
func (n *SetComp) Span() (start, end token.Pos)  { return n.Lbrace, n.Rbrace + 1 }
func (n *SetComp) Walk(v Visitor) {
	Walk(v, n.Elt)
	walkGenerators(v, n.Generators)
}
func (n *SetComp) expr() {}

func (n *DictComp) Format(f fmt.State, verb rune) { format(f, verb, n, "dict comp", nil) }
func (n *DictComp) Span() (start, end token.Pos)  { return n.Lbrace, n.Rbrace + 1 }
func (n *DictComp) Walk(v Visitor) {
	Walk(v, n.Key)
	Walk(v, n.Value)
	walkGenerators(v, n.Generators)
}
func (n *DictComp) expr() {}

func (n *GeneratorExp) Format(f fmt.State, verb rune) { format(f, verb, n, "generator", nil) }
func (n *GeneratorExp) Span() (start, end token.Pos)  { return n.Lparen, n.Rparen + 1 }
func (n *GeneratorExp) Walk(v Visitor) {
	Walk(v, n.Elt)
	walkGenerators(v, n.Generators)
}
func (n *GeneratorExp) expr() {}

func (n *Yield) Format(f fmt.State, verb rune) {
	has := 0
	if n.Value != nil {
		has = 1
	}
	format(f, verb, n, "yield", map[string]int{"value": has})
}
func (n *Yield) Span() (start, end token.Pos) {
	end = n.Start + token.Pos(len("yield"))
	if n.Value != nil {
		_, end = n.Value.Span()
	}
	return n.Start, end
}
func (n *Yield) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (n *Yield) expr() {}

func (n *YieldFrom) Format(f fmt.State, verb rune) { format(f, verb, n, "yield from", nil) }
func (n *YieldFrom) Span() (start, end token.Pos) {
	_, end = n.Value.Span()
	return n.Start, end
}
func (n *YieldFrom) Walk(v Visitor) { Walk(v, n.Value) }
func (n *YieldFrom) expr()          {}

func (n *Await) Format(f fmt.State, verb rune) { format(f, verb, n, "await", nil) }
func (n *Await) Span() (start, end token.Pos) {
	_, end = n.Value.Span()
	return n.Start, end
}
func (n *Await) Walk(v Visitor) { Walk(v, n.Value) }
func (n *Await) expr()          {}
