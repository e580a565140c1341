package ast

import (
	"fmt"

	"github.com/mna/pybind/internal/token"
)

type (
	// BadStmt represents a statement that failed to parse.
	BadStmt struct {
		Start, End token.Pos
	}

	// ExprStmt represents an expression used as a statement, e.g. a bare
	// function call.
	ExprStmt struct {
		Value Expr
	}

	// PassStmt represents a 'pass' statement.
	PassStmt struct{ Start token.Pos }

	// BreakStmt represents a 'break' statement.
	BreakStmt struct{ Start token.Pos }

	// ContinueStmt represents a 'continue' statement.
	ContinueStmt struct{ Start token.Pos }

	// ReturnStmt represents a 'return' statement, Value may be nil.
	ReturnStmt struct {
		Start token.Pos
		Value Expr
	}

	// DeleteStmt represents a 'del' statement.
	DeleteStmt struct {
		Start   token.Pos
		Targets []Expr
	}

	// RaiseStmt represents a 'raise [exc [from cause]]' statement.
	RaiseStmt struct {
		Start token.Pos
		Exc   Expr // may be nil (bare raise / re-raise)
		Cause Expr // may be nil
	}

	// AssertStmt represents an 'assert test[, msg]' statement.
	AssertStmt struct {
		Start token.Pos
		Test  Expr
		Msg   Expr // may be nil
	}

	// GlobalStmt represents a 'global name, ...' statement.
	GlobalStmt struct {
		Start token.Pos
		Names []*Name
	}

	// NonlocalStmt represents a 'nonlocal name, ...' statement.
	NonlocalStmt struct {
		Start token.Pos
		Names []*Name
	}

	// Assign represents a (possibly chained) assignment, e.g. a = b = expr.
	// Targets holds every target group before the final value.
	Assign struct {
		Targets []Expr
		Value   Expr
	}

	// AugAssign represents an augmented assignment, e.g. x += 1.
	AugAssign struct {
		Target Expr
		Op     token.Token
		OpPos  token.Pos
		Value  Expr
	}

	// AnnAssign represents an annotated assignment or bare annotation, e.g.
	// x: int = 1 or x: int. Value is nil for a bare annotation.
	AnnAssign struct {
		Target     Expr
		Colon      token.Pos
		Annotation Expr
		Value      Expr
	}

	// Alias represents one entry of an import/import-from clause.
	Alias struct {
		Path   []string // dotted path parts, e.g. ["os", "path"]
		AtPos  token.Pos
		AsName *Name // nil if no 'as' clause
	}

	// ImportStmt represents an 'import a.b.c as d, e' statement.
	ImportStmt struct {
		Start token.Pos
		Names []*Alias
	}

	// ImportFromStmt represents a 'from .pkg import a as b, *' statement.
	ImportFromStmt struct {
		Start     token.Pos
		Dots      int // count of leading dots for a relative import
		Module    string
		ModulePos token.Pos
		Star      bool
		StarPos   token.Pos
		Names     []*Alias // empty if Star
	}

	// IfStmt represents an if/elif/else chain; Orelse is either nil, a block
	// containing a single nested IfStmt (elif), or the else block.
	IfStmt struct {
		Start  token.Pos
		Test   Expr
		Body   *Block
		Orelse *Block
	}

	// WhileStmt represents a while/else loop.
	WhileStmt struct {
		Start  token.Pos
		Test   Expr
		Body   *Block
		Orelse *Block
	}

	// ForStmt represents a for/else loop, for or async for.
	ForStmt struct {
		Start  token.Pos
		Async  bool
		Target Expr
		Iter   Expr
		Body   *Block
		Orelse *Block
	}

	// ExceptHandler represents a single 'except [Type [as name]]:' clause.
	ExceptHandler struct {
		Start token.Pos
		Type  Expr  // may be nil (bare except)
		Name  *Name // may be nil
		Body  *Block
	}

	// TryStmt represents a try/except/else/finally statement.
	TryStmt struct {
		Start    token.Pos
		Body     *Block
		Handlers []*ExceptHandler
		Orelse   *Block // may be nil
		Finally  *Block // may be nil
	}

	// WithItem is a single 'ctx [as target]' clause of a with statement.
	WithItem struct {
		Context Expr
		As      Expr // may be nil
	}

	// WithStmt represents a with/async with statement.
	WithStmt struct {
		Start token.Pos
		Async bool
		Items []*WithItem
		Body  *Block
	}

	// FunctionDef represents a (possibly async) function or method
	// definition.
	FunctionDef struct {
		Start      token.Pos
		Async      bool
		Decorators []Expr
		Name       *Name
		Sig        *Params
		Returns    Expr // may be nil
		Body       *Block
		End        token.Pos
	}

	// ClassDef represents a class definition statement.
	ClassDef struct {
		Start      token.Pos
		Decorators []Expr
		Name       *Name
		Bases      []Expr
		Keywords   []*Keyword
		Body       *Block
		End        token.Pos
	}
)

func (n *BadStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "!bad stmt!", nil) }
func (n *BadStmt) Span() (start, end token.Pos)  { return n.Start, n.End }
func (n *BadStmt) Walk(_ Visitor)                {}
func (n *BadStmt) stmt()                         {}

func (n *ExprStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "expr stmt", nil) }
func (n *ExprStmt) Span() (start, end token.Pos)  { return n.Value.Span() }
func (n *ExprStmt) Walk(v Visitor)                { Walk(v, n.Value) }
func (n *ExprStmt) stmt()                         {}

func (n *PassStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "pass", nil) }
func (n *PassStmt) Span() (start, end token.Pos)  { return n.Start, n.Start + 4 }
func (n *PassStmt) Walk(_ Visitor)                {}
func (n *PassStmt) stmt()                         {}

func (n *BreakStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "break", nil) }
func (n *BreakStmt) Span() (start, end token.Pos)  { return n.Start, n.Start + 5 }
func (n *BreakStmt) Walk(_ Visitor)                {}
func (n *BreakStmt) stmt()                         {}

func (n *ContinueStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "continue", nil) }
func (n *ContinueStmt) Span() (start, end token.Pos)  { return n.Start, n.Start + 8 }
func (n *ContinueStmt) Walk(_ Visitor)                {}
func (n *ContinueStmt) stmt()                         {}

func (n *ReturnStmt) Format(f fmt.State, verb rune) {
	has := 0
	if n.Value != nil {
		has = 1
	}
	format(f, verb, n, "return", map[string]int{"value": has})
}
func (n *ReturnStmt) Span() (start, end token.Pos) {
	end = n.Start + 6
	if n.Value != nil {
		_, end = n.Value.Span()
	}
	return n.Start, end
}
func (n *ReturnStmt) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (n *ReturnStmt) stmt() {}

func (n *DeleteStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "del", map[string]int{"targets": len(n.Targets)})
}
func (n *DeleteStmt) Span() (start, end token.Pos) {
	_, end = n.Targets[len(n.Targets)-1].Span()
	return n.Start, end
}
func (n *DeleteStmt) Walk(v Visitor) {
	for _, e := range n.Targets {
		Walk(v, e)
	}
}
func (n *DeleteStmt) stmt() {}

func (n *RaiseStmt) Format(f fmt.State, verb rune) {
	has := 0
	if n.Exc != nil {
		has = 1
	}
	format(f, verb, n, "raise", map[string]int{"exc": has})
}
func (n *RaiseStmt) Span() (start, end token.Pos) {
	end = n.Start + 5
	if n.Cause != nil {
		_, end = n.Cause.Span()
	} else if n.Exc != nil {
		_, end = n.Exc.Span()
	}
	return n.Start, end
}
func (n *RaiseStmt) Walk(v Visitor) {
	if n.Exc != nil {
		Walk(v, n.Exc)
	}
	if n.Cause != nil {
		Walk(v, n.Cause)
	}
}
func (n *RaiseStmt) stmt() {}

func (n *AssertStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "assert", nil) }
func (n *AssertStmt) Span() (start, end token.Pos) {
	_, end = n.Test.Span()
	if n.Msg != nil {
		_, end = n.Msg.Span()
	}
	return n.Start, end
}
func (n *AssertStmt) Walk(v Visitor) {
	Walk(v, n.Test)
	if n.Msg != nil {
		Walk(v, n.Msg)
	}
}
func (n *AssertStmt) stmt() {}

func (n *GlobalStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "global", map[string]int{"names": len(n.Names)})
}
func (n *GlobalStmt) Span() (start, end token.Pos) {
	_, end = n.Names[len(n.Names)-1].Span()
	return n.Start, end
}
func (n *GlobalStmt) Walk(v Visitor) {
	for _, nm := range n.Names {
		Walk(v, nm)
	}
}
func (n *GlobalStmt) stmt() {}

func (n *NonlocalStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "nonlocal", map[string]int{"names": len(n.Names)})
}
func (n *NonlocalStmt) Span() (start, end token.Pos) {
	_, end = n.Names[len(n.Names)-1].Span()
	return n.Start, end
}
func (n *NonlocalStmt) Walk(v Visitor) {
	for _, nm := range n.Names {
		Walk(v, nm)
	}
}
func (n *NonlocalStmt) stmt() {}

func (n *Assign) Format(f fmt.State, verb rune) {
	format(f, verb, n, "assignment", map[string]int{"targets": len(n.Targets)})
}
func (n *Assign) Span() (start, end token.Pos) {
	start, _ = n.Targets[0].Span()
	_, end = n.Value.Span()
	return start, end
}
func (n *Assign) Walk(v Visitor) {
	Walk(v, n.Value)
	for _, t := range n.Targets {
		Walk(v, t)
	}
}
func (n *Assign) stmt() {}

func (n *AugAssign) Format(f fmt.State, verb rune) {
	format(f, verb, n, "aug assign "+n.Op.GoString(), nil)
}
func (n *AugAssign) Span() (start, end token.Pos) {
	start, _ = n.Target.Span()
	_, end = n.Value.Span()
	return start, end
}
func (n *AugAssign) Walk(v Visitor) { Walk(v, n.Target); Walk(v, n.Value) }
func (n *AugAssign) stmt()          {}

func (n *AnnAssign) Format(f fmt.State, verb rune) {
	has := 0
	if n.Value != nil {
		has = 1
	}
	format(f, verb, n, "annotation", map[string]int{"value": has})
}
func (n *AnnAssign) Span() (start, end token.Pos) {
	start, _ = n.Target.Span()
	if n.Value != nil {
		_, end = n.Value.Span()
	} else {
		_, end = n.Annotation.Span()
	}
	return start, end
}
func (n *AnnAssign) Walk(v Visitor) {
	Walk(v, n.Target)
	Walk(v, n.Annotation)
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (n *AnnAssign) stmt() {}

func (n *ImportStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "import", map[string]int{"names": len(n.Names)})
}
func (n *ImportStmt) Span() (start, end token.Pos) {
	last := n.Names[len(n.Names)-1]
	end = last.AtPos
	if last.AsName != nil {
		_, end = last.AsName.Span()
	}
	return n.Start, end
}
func (n *ImportStmt) Walk(v Visitor) {
	for _, a := range n.Names {
		if a.AsName != nil {
			Walk(v, a.AsName)
		}
	}
}
func (n *ImportStmt) stmt() {}

func (n *ImportFromStmt) Format(f fmt.State, verb rune) {
	lbl := "from import"
	if n.Star {
		lbl = "from import *"
	}
	format(f, verb, n, lbl, map[string]int{"names": len(n.Names)})
}
func (n *ImportFromStmt) Span() (start, end token.Pos) {
	if n.Star {
		return n.Start, n.StarPos + 1
	}
	if len(n.Names) == 0 {
		return n.Start, n.ModulePos
	}
	last := n.Names[len(n.Names)-1]
	end = last.AtPos
	if last.AsName != nil {
		_, end = last.AsName.Span()
	}
	return n.Start, end
}
func (n *ImportFromStmt) Walk(v Visitor) {
	for _, a := range n.Names {
		if a.AsName != nil {
			Walk(v, a.AsName)
		}
	}
}
func (n *ImportFromStmt) stmt() {}

func (n *IfStmt) Format(f fmt.State, verb rune) {
	lbl := "if"
	if n.Orelse != nil {
		lbl += " else"
	}
	format(f, verb, n, lbl, nil)
}
func (n *IfStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	if n.Orelse != nil {
		_, end = n.Orelse.Span()
	}
	return n.Start, end
}
func (n *IfStmt) Walk(v Visitor) {
	Walk(v, n.Test)
	Walk(v, n.Body)
	if n.Orelse != nil {
		Walk(v, n.Orelse)
	}
}
func (n *IfStmt) stmt() {}

func (n *WhileStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "while", nil) }
func (n *WhileStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	if n.Orelse != nil {
		_, end = n.Orelse.Span()
	}
	return n.Start, end
}
func (n *WhileStmt) Walk(v Visitor) {
	Walk(v, n.Test)
	Walk(v, n.Body)
	if n.Orelse != nil {
		Walk(v, n.Orelse)
	}
}
func (n *WhileStmt) stmt() {}

func (n *ForStmt) Format(f fmt.State, verb rune) {
	lbl := "for"
	if n.Async {
		lbl = "async for"
	}
	format(f, verb, n, lbl, nil)
}
func (n *ForStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	if n.Orelse != nil {
		_, end = n.Orelse.Span()
	}
	return n.Start, end
}
func (n *ForStmt) Walk(v Visitor) {
	Walk(v, n.Target)
	Walk(v, n.Iter)
	Walk(v, n.Body)
	if n.Orelse != nil {
		Walk(v, n.Orelse)
	}
}
func (n *ForStmt) stmt() {}

func (n *ExceptHandler) Format(f fmt.State, verb rune) { format(f, verb, n, "except", nil) }
func (n *ExceptHandler) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.Start, end
}
func (n *ExceptHandler) Walk(v Visitor) {
	if n.Type != nil {
		Walk(v, n.Type)
	}
	if n.Name != nil {
		Walk(v, n.Name)
	}
	Walk(v, n.Body)
}

func (n *TryStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "try", map[string]int{"handlers": len(n.Handlers)})
}
func (n *TryStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	if n.Finally != nil {
		_, end = n.Finally.Span()
	} else if n.Orelse != nil {
		_, end = n.Orelse.Span()
	} else if len(n.Handlers) > 0 {
		_, end = n.Handlers[len(n.Handlers)-1].Span()
	}
	return n.Start, end
}
func (n *TryStmt) Walk(v Visitor) {
	Walk(v, n.Body)
	for _, h := range n.Handlers {
		Walk(v, h)
	}
	if n.Orelse != nil {
		Walk(v, n.Orelse)
	}
	if n.Finally != nil {
		Walk(v, n.Finally)
	}
}
func (n *TryStmt) stmt() {}

func (n *WithStmt) Format(f fmt.State, verb rune) {
	lbl := "with"
	if n.Async {
		lbl = "async with"
	}
	format(f, verb, n, lbl, map[string]int{"items": len(n.Items)})
}
func (n *WithStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.Start, end
}
func (n *WithStmt) Walk(v Visitor) {
	for _, it := range n.Items {
		Walk(v, it.Context)
		if it.As != nil {
			Walk(v, it.As)
		}
	}
	Walk(v, n.Body)
}
func (n *WithStmt) stmt() {}

func (n *FunctionDef) Format(f fmt.State, verb rune) {
	lbl := "def"
	if n.Async {
		lbl = "async def"
	}
	format(f, verb, n, lbl, map[string]int{"params": len(n.Sig.Args), "decorators": len(n.Decorators)})
}
func (n *FunctionDef) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *FunctionDef) Walk(v Visitor) {
	for _, d := range n.Decorators {
		Walk(v, d)
	}
	Walk(v, n.Name)
	walkParams(v, n.Sig)
	if n.Returns != nil {
		Walk(v, n.Returns)
	}
	Walk(v, n.Body)
}
func (n *FunctionDef) stmt() {}

func (n *ClassDef) Format(f fmt.State, verb rune) {
	format(f, verb, n, "class", map[string]int{"bases": len(n.Bases), "decorators": len(n.Decorators)})
}
func (n *ClassDef) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *ClassDef) Walk(v Visitor) {
	for _, d := range n.Decorators {
		Walk(v, d)
	}
	Walk(v, n.Name)
	for _, b := range n.Bases {
		Walk(v, b)
	}
	for _, k := range n.Keywords {
		if k.Name != nil {
			Walk(v, k.Name)
		}
		Walk(v, k.Value)
	}
	Walk(v, n.Body)
}
func (n *ClassDef) stmt() {}
