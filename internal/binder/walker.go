package binder

import (
	"github.com/mna/pybind/internal/ast"
	"github.com/mna/pybind/internal/builtins"
)

// BindFile binds a single parsed module and returns the accumulated
// symbol tables and side-tables. lookup and sink may be nil; a nil sink
// simply means diagnostics are only available via Result.Diagnostics.
func BindFile(mod *ast.Module, file *FileInfo, lookup ImportLookup, sink DiagnosticSink) *Result {
	b := NewBinder(file, lookup, sink)
	b.bindModule(mod)
	b.result.Module = b.module
	b.result.Builtin = b.builtin
	b.result.allNodes = b.nodes
	return b.result
}

// bindModule implements spec.md §4.4's "Module" rule.
func (b *Binder) bindModule(mod *ast.Module) {
	b.attachScope(mod, b.module)
	owner := ast.Node(mod)
	for _, ins := range builtins.ModuleIntrinsics {
		sym := b.declareIn(b.module, ins.Name)
		sym.AddDeclaration(&IntrinsicDeclaration{Owner: owner, Name: ins.Name, Kind: intrinsicKindFor(ins.Type)})
	}
	start := b.startNode()
	b.current = start
	b.attachFlow(mod, start)

	if mod.Body != nil {
		for _, s := range mod.Body.Stmts {
			b.stmt(s)
		}
	}
	b.attachAfterFlow(mod, b.current)
	b.drainDeferred()
}

func intrinsicKindFor(typ string) IntrinsicKind {
	switch typ {
	case "str":
		return IntrinsicStr
	case "Dict[str,Any]":
		return IntrinsicDictStrAny
	case "Iterable[str]":
		return IntrinsicIterableStr
	default:
		return IntrinsicAny
	}
}

// stmt dispatches a single statement.
func (b *Binder) stmt(s ast.Stmt) {
	b.attachScope(s, b.scope)
	switch s := s.(type) {
	case *ast.ExprStmt:
		b.expr(s.Value)
	case *ast.PassStmt, *ast.BadStmt:
		// no binding consequence
	case *ast.BreakStmt:
		b.bindBreak(s)
	case *ast.ContinueStmt:
		b.bindContinue(s)
	case *ast.ReturnStmt:
		b.bindReturn(s)
	case *ast.DeleteStmt:
		for _, t := range s.Targets {
			b.expr(t)
		}
	case *ast.RaiseStmt:
		b.bindRaise(s)
	case *ast.AssertStmt:
		b.expr(s.Test)
		if s.Msg != nil {
			b.expr(s.Msg)
		}
	case *ast.GlobalStmt:
		b.bindGlobal(s)
	case *ast.NonlocalStmt:
		b.bindNonlocal(s)
	case *ast.Assign:
		b.bindAssign(s)
	case *ast.AugAssign:
		b.bindAugAssign(s)
	case *ast.AnnAssign:
		b.bindAnnAssign(s)
	case *ast.IfStmt:
		b.bindIf(s)
	case *ast.WhileStmt:
		b.bindWhile(s)
	case *ast.ForStmt:
		b.bindFor(s)
	case *ast.TryStmt:
		b.bindTry(s)
	case *ast.WithStmt:
		b.bindWith(s)
	case *ast.ImportStmt:
		b.bindImportAs(s)
	case *ast.ImportFromStmt:
		b.bindImportFrom(s)
	case *ast.FunctionDef:
		b.bindFunction(s)
	case *ast.ClassDef:
		b.bindClass(s)
	default:
		// unrecognized statement kind: walk children generically so
		// embedded expressions still get their narrowing/flow treatment.
		s.Walk(ast.VisitorFunc(b.genericWalk))
	}
}

// genericWalk is used only as a fallback for statement kinds the binder
// does not special-case; it re-enters through expr/stmt based on the
// dynamic node type.
func (b *Binder) genericWalk(n ast.Node, dir ast.VisitDirection) ast.Visitor {
	if dir == ast.VisitExit {
		return nil
	}
	switch n := n.(type) {
	case ast.Expr:
		b.expr(n)
		return nil
	case ast.Stmt:
		b.stmt(n)
		return nil
	}
	return ast.VisitorFunc(b.genericWalk)
}

// preBindTarget recursively binds every bare name in an assignment target
// pattern (name, attribute, subscript, tuple/list/starred) in scope,
// returning the symbol for a bare Name target or nil otherwise.
func (b *Binder) preBindTarget(target ast.Expr) *Symbol {
	switch t := target.(type) {
	case *ast.Name:
		return b.declare(t.Id)
	case *ast.Attribute:
		b.expr(t.Value)
		return nil
	case *ast.Subscript:
		b.expr(t.Value)
		b.expr(t.Index)
		return nil
	case *ast.Starred:
		return b.preBindTarget(t.Value)
	case *ast.TupleExpr:
		for _, it := range t.Items {
			b.preBindTarget(it)
		}
		return nil
	case *ast.ListExpr:
		for _, it := range t.Items {
			b.preBindTarget(it)
		}
		return nil
	default:
		return nil
	}
}

// targetNames collects every *ast.Name leaf of an assignment target
// pattern, used to emit one assignment flow node per bound name.
func targetNames(target ast.Expr, out []ast.Expr) []ast.Expr {
	switch t := target.(type) {
	case *ast.Name:
		return append(out, t)
	case *ast.Starred:
		return targetNames(t.Value, out)
	case *ast.TupleExpr:
		for _, it := range t.Items {
			out = targetNames(it, out)
		}
		return out
	case *ast.ListExpr:
		for _, it := range t.Items {
			out = targetNames(it, out)
		}
		return out
	default:
		return append(out, target)
	}
}

// bindAssign implements spec.md §4.4's "Assignment" rule.
func (b *Binder) bindAssign(s *ast.Assign) {
	if b.file.IsTypingStub {
		for _, target := range s.Targets {
			if n, ok := target.(*ast.Name); ok && builtins.IsSpecialTypingName(n.Id) {
				return
			}
		}
	}
	syms := make([]*Symbol, len(s.Targets))
	for i, target := range s.Targets {
		syms[i] = b.preBindTarget(target)
	}
	b.expr(s.Value)
	possibleAlias := b.scope.Kind == ModuleScope
	if _, isCall := s.Value.(*ast.Call); isCall {
		possibleAlias = false
	}
	for i, target := range s.Targets {
		if sym := syms[i]; sym != nil {
			sym.AddDeclaration(&VariableDeclaration{
				NameNode:           target,
				InferredTypeSource: s.Value,
				PossibleTypeAlias:  possibleAlias,
			})
			b.attachDeclaration(target, sym.Decls[len(sym.Decls)-1])
		}
		for _, nameExpr := range targetNames(target, nil) {
			b.emitAssignmentForName(nameExpr, false)
		}
	}
}

// emitAssignmentForName looks up (or re-resolves) the symbol bound to a
// bare-name target and emits its Assignment flow node.
func (b *Binder) emitAssignmentForName(target ast.Expr, unbound bool) {
	n, ok := target.(*ast.Name)
	if !ok {
		b.assignment(target, nil, unbound)
		return
	}
	sym, scope, found := b.scope.lookUpRecursive(n.Id)
	if !found || scope == nil {
		sym = b.declare(n.Id)
	}
	b.assignment(target, sym, unbound)
}

// bindAugAssign implements spec.md §4.4's "AugmentedAssignment" rule.
func (b *Binder) bindAugAssign(s *ast.AugAssign) {
	b.expr(s.Target)
	b.expr(s.Value)
	if n, ok := s.Target.(*ast.Name); ok {
		sym := b.declare(n.Id)
		sym.AddDeclaration(&VariableDeclaration{NameNode: s.Target, InferredTypeSource: s.Value})
		b.attachDeclaration(s.Target, sym.Decls[len(sym.Decls)-1])
	}
	if keys, ok := classifyNarrowing(s.Value); ok {
		for _, k := range keys {
			b.registerReferenceKey(k)
		}
	}
	b.emitAssignmentForName(s.Target, false)
}

// bindAnnAssign implements spec.md §4.4's "TypeAnnotation" rule.
func (b *Binder) bindAnnAssign(s *ast.AnnAssign) {
	switch s.Target.(type) {
	case *ast.Name, *ast.Attribute, *ast.Subscript:
	default:
		b.reportAt(RuleUnsupportedAnnotation, s.Target, "annotation target must be a name, attribute or subscript")
	}
	b.preBindTarget(s.Target)
	isFinal, finalInner := unwrapFinal(s.Annotation)
	isTypeAlias := isTypeAliasAnnotation(s.Annotation)
	if isTypeAlias && b.scope.Kind != ModuleScope {
		b.reportAt(RuleTypeAliasOutsideModule, s.Annotation, "TypeAlias annotation is only valid at module scope")
	}
	annotation := s.Annotation
	if isFinal {
		annotation = finalInner
	}
	if s.Value != nil {
		b.expr(s.Value)
	}
	for _, nameExpr := range targetNames(s.Target, nil) {
		n, ok := nameExpr.(*ast.Name)
		if !ok {
			continue
		}
		sym, _, found := b.scope.lookUpRecursive(n.Id)
		if !found {
			sym = b.declare(n.Id)
		}
		decl := &VariableDeclaration{
			NameNode:       nameExpr,
			TypeAnnotation: annotation,
			IsFinal:        isFinal,
		}
		if isTypeAlias && s.Value != nil {
			decl.TypeAliasName = n.Id
		}
		sym.AddDeclaration(decl)
		if isFinal && s.Value == nil && b.scope.Kind == ClassScope {
			sym.Flags |= InstanceMember
		}
		b.attachDeclaration(nameExpr, sym.Decls[len(sym.Decls)-1])
		if s.Value != nil {
			b.emitAssignmentForName(nameExpr, false)
		} else {
			b.registerReferenceKey(n.Id)
		}
	}
}

func unwrapFinal(annotation ast.Expr) (bool, ast.Expr) {
	sub, ok := annotation.(*ast.Subscript)
	if !ok {
		return false, nil
	}
	name, ok := sub.Value.(*ast.Name)
	if !ok || name.Id != "Final" {
		return false, nil
	}
	return true, sub.Index
}

func isTypeAliasAnnotation(annotation ast.Expr) bool {
	name, ok := annotation.(*ast.Name)
	return ok && name.Id == "TypeAlias"
}

// expr dispatches a single expression, walking subexpressions and
// handling walrus/await/yield as binding events.
func (b *Binder) expr(e ast.Expr) {
	if e == nil {
		return
	}
	switch e := e.(type) {
	case *ast.Name, *ast.Literal, *ast.BadExpr:
		// leaves
	case *ast.NamedExpr:
		b.bindNamedExpr(e)
	case *ast.Attribute:
		b.expr(e.Value)
	case *ast.Subscript:
		b.expr(e.Value)
		b.expr(e.Index)
	case *ast.Call:
		b.expr(e.Fn)
		for _, a := range e.Args {
			b.expr(a)
		}
		for _, k := range e.Keywords {
			b.expr(k.Value)
		}
		b.call(e)
	case *ast.Starred:
		b.expr(e.Value)
	case *ast.Lambda:
		b.bindLambda(e)
	case *ast.BoolOp:
		for _, v := range e.Values {
			b.expr(v)
		}
	case *ast.UnaryOp:
		b.expr(e.Operand)
	case *ast.BinOp:
		b.expr(e.Left)
		b.expr(e.Right)
	case *ast.Compare:
		b.expr(e.Left)
		for _, c := range e.Comparators {
			b.expr(c)
		}
	case *ast.IfExp:
		b.expr(e.Test)
		b.expr(e.Body)
		b.expr(e.Orelse)
	case *ast.TupleExpr:
		for _, it := range e.Items {
			b.expr(it)
		}
	case *ast.ListExpr:
		for _, it := range e.Items {
			b.expr(it)
		}
	case *ast.SetExpr:
		for _, it := range e.Items {
			b.expr(it)
		}
	case *ast.DictExpr:
		for i, v := range e.Values {
			if e.Keys[i] != nil {
				b.expr(e.Keys[i])
			}
			b.expr(v)
		}
	case *ast.StringList:
		b.bindStringList(e)
	case *ast.ListComp:
		b.bindComprehension(ComprehensionScope, e.Generators, func() { b.expr(e.Elt) })
	case *ast.SetComp:
		b.bindComprehension(ComprehensionScope, e.Generators, func() { b.expr(e.Elt) })
	case *ast.GeneratorExp:
		b.bindComprehension(ComprehensionScope, e.Generators, func() { b.expr(e.Elt) })
	case *ast.DictComp:
		b.bindComprehension(ComprehensionScope, e.Generators, func() {
			b.expr(e.Key)
			b.expr(e.Value)
		})
	case *ast.Yield:
		b.bindYield(e)
	case *ast.YieldFrom:
		b.bindYieldFrom(e)
	case *ast.Await:
		b.bindAwait(e)
	}
}

func (b *Binder) bindNamedExpr(e *ast.NamedExpr) {
	b.expr(e.Value)
	container := b.executionScope()
	for s := b.scope; s != container; s = s.Parent {
		if s.Kind == ComprehensionScope {
			if _, ok := s.lookUp(e.Target.Id); ok {
				b.reportAt(RuleWalrusInComprehension, e, "assignment expression target '"+e.Target.Id+"' collides with a comprehension variable")
			}
		}
	}
	sym := b.declareIn(container, e.Target.Id)
	sym.AddDeclaration(&VariableDeclaration{NameNode: e.Target, InferredTypeSource: e.Value})
	b.attachDeclaration(e.Target, sym.Decls[len(sym.Decls)-1])
	b.assignment(e.Target, sym, false)
}

func (b *Binder) bindStringList(s *ast.StringList) {
	for _, p := range s.Parts {
		for _, fe := range p.FormatExprs {
			b.expr(fe)
		}
		for _, fe := range p.FormatErrors {
			b.report(RuleFormatString, fe.Start, fe.Start, fe.Msg)
		}
	}
}

func (b *Binder) reportAt(rule Rule, n ast.Node, msg string) {
	start, end := n.Span()
	b.report(rule, start, end, msg)
}
