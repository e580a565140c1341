package binder

import (
	"github.com/mna/pybind/internal/ast"
	"github.com/mna/pybind/internal/token"
)

// bindClass implements spec.md §4.4's "Class" rule.
func (b *Binder) bindClass(s *ast.ClassDef) {
	for _, d := range s.Decorators {
		b.expr(d)
	}
	for _, base := range s.Bases {
		b.expr(base)
	}
	for _, k := range s.Keywords {
		b.expr(k.Value)
	}

	sym := b.declare(s.Name.Id)
	decl := &ClassDeclaration{NameNode: s.Name}
	sym.AddDeclaration(decl)
	b.attachDeclaration(s.Name, decl)

	parent := b.nearestNonClassScope()
	popScope := b.pushScopeWithParent(ClassScope, s, parent)
	b.attachScope(s, b.scope)
	if s.Body != nil {
		for _, st := range s.Body.Stmts {
			b.stmt(st)
		}
	}
	popScope()

	again := b.declare(s.Name.Id)
	again.Flags |= InitiallyUnbound
	b.assignment(s.Name, again, false)
}

// pushScopeWithParent is like pushScope but lets the caller pick the
// parent explicitly, needed for Class scopes (parent is the innermost
// non-class ancestor, not necessarily b.scope).
func (b *Binder) pushScopeWithParent(kind ScopeKind, node ast.Node, parent *Scope) func() {
	prev := b.scope
	b.scope = NewScope(kind, node, parent)
	if kind == ClassScope {
		b.classStack = append(b.classStack, b.scope)
	}
	return func() {
		if kind == ClassScope {
			b.classStack = b.classStack[:len(b.classStack)-1]
		}
		b.scope = prev
	}
}

// bindFunction implements spec.md §4.4's "Function / Lambda" rule for a
// named def/async def statement.
func (b *Binder) bindFunction(s *ast.FunctionDef) {
	for _, d := range s.Decorators {
		b.expr(d)
	}
	for _, p := range s.Sig.Args {
		b.bindParamDefaults(p)
	}
	if s.Sig.VarArg != nil {
		b.bindParamDefaults(s.Sig.VarArg)
	}
	for _, p := range s.Sig.KwOnly {
		b.bindParamDefaults(p)
	}
	if s.Sig.KwArg != nil {
		b.bindParamDefaults(s.Sig.KwArg)
	}
	if s.Returns != nil {
		b.expr(s.Returns)
	}

	sym := b.declare(s.Name.Id)
	decl := &FunctionDeclaration{NameNode: s.Name, IsMethod: b.inClassBody()}
	sym.AddDeclaration(decl)
	b.attachDeclaration(s.Name, decl)

	parent := b.functionParentScope()
	popScope := b.pushScopeWithParent(FunctionScope, s, parent)
	fnScope := b.scope
	b.attachScope(s, fnScope)
	popScope()

	b.enqueueDeferred(func() {
		b.scope = fnScope
		b.bindFunctionBody(s.Sig, s.Body, decl, s.Async)
	})

	b.emitAssignmentForName(s.Name, false)
}

// functionParentScope returns the nearest enclosing function or module
// scope, skipping class scopes, used as a Function/Lambda scope's parent.
func (b *Binder) functionParentScope() *Scope {
	for s := b.scope; s != nil; s = s.Parent {
		if s.Kind == FunctionScope || s.Kind == LambdaScope || s.Kind == ModuleScope {
			return s
		}
	}
	return b.module
}

func (b *Binder) bindParamDefaults(p *ast.Param) {
	if p.Annotation != nil {
		b.expr(p.Annotation)
	}
	if p.Default != nil {
		b.expr(p.Default)
	}
}

// bindFunctionBody implements the deferred half of spec.md §4.4's
// "Function / Lambda" rule: it runs once the enclosing scope has
// finished, with the function's own scope (the one attached to its def)
// already on b.scope. Loop
// and except nesting never crosses a function boundary, so those stacks
// (and exceptDepth) start fresh here rather than inheriting whatever the
// enclosing scope happened to be nested in at enqueue time.
func (b *Binder) bindFunctionBody(sig *ast.Params, body ast.Node, decl *FunctionDeclaration, isAsync bool) {
	b.loopTargets = nil
	b.exceptTargets = nil
	b.finallyTargets = nil
	b.exceptDepth = 0
	b.asyncStack = append(b.asyncStack, isAsync)
	defer func() { b.asyncStack = b.asyncStack[:len(b.asyncStack)-1] }()

	start := b.startNode()
	b.current = start

	bindParam := func(p *ast.Param) {
		sym := b.declareIn(b.scope, p.Name.Id)
		pd := &ParameterDeclaration{NameNode: p.Name, Annotation: p.Annotation, Default: p.Default}
		sym.AddDeclaration(pd)
		b.attachDeclaration(p.Name, pd)
		b.assignment(p.Name, sym, false)
	}
	for _, p := range sig.Args {
		bindParam(p)
	}
	if sig.VarArg != nil {
		bindParam(sig.VarArg)
	}
	for _, p := range sig.KwOnly {
		bindParam(p)
	}
	if sig.KwArg != nil {
		bindParam(sig.KwArg)
	}

	returnLabel := b.branchLabel()
	b.returnTargets = append(b.returnTargets, returnLabel)
	b.functionDepth++
	b.currentFunctionDecl = append(b.currentFunctionDecl, decl)

	switch body := body.(type) {
	case *ast.Block:
		for _, st := range body.Stmts {
			b.stmt(st)
		}
		b.attachAfterFlow(body, b.current)
	case ast.Expr:
		// lambda body
		b.expr(body)
	}

	b.currentFunctionDecl = b.currentFunctionDecl[:len(b.currentFunctionDecl)-1]
	b.functionDepth--
	b.addAntecedent(returnLabel, b.current)
	b.returnTargets = b.returnTargets[:len(b.returnTargets)-1]
	finished := b.finishLabel(returnLabel)
	decl.ReturnFlow = finished
}

// bindLambda implements spec.md §4.4's "Function / Lambda" rule for a
// lambda expression: same shape as bindFunction but anonymous and always
// expression-bodied.
func (b *Binder) bindLambda(e *ast.Lambda) {
	for _, p := range e.Sig.Args {
		b.bindParamDefaults(p)
	}
	if e.Sig.VarArg != nil {
		b.bindParamDefaults(e.Sig.VarArg)
	}
	for _, p := range e.Sig.KwOnly {
		b.bindParamDefaults(p)
	}
	if e.Sig.KwArg != nil {
		b.bindParamDefaults(e.Sig.KwArg)
	}

	decl := &FunctionDeclaration{NameNode: e, IsMethod: false}
	b.attachDeclaration(e, decl)
	parent := b.functionParentScope()
	b.enqueueDeferred(func() {
		popScope := b.pushScopeWithParent(LambdaScope, e, parent)
		defer popScope()
		b.bindFunctionBody(e.Sig, e.Body, decl, false)
	})
}

// bindFor implements spec.md §4.4's "For" rule.
func (b *Binder) bindFor(s *ast.ForStmt) {
	b.preBindTarget(s.Target)
	for _, nameExpr := range targetNames(s.Target, nil) {
		if n, ok := nameExpr.(*ast.Name); ok {
			sym := b.declare(n.Id)
			sym.AddDeclaration(&VariableDeclaration{NameNode: nameExpr})
			b.attachDeclaration(nameExpr, sym.Decls[len(sym.Decls)-1])
		}
	}
	b.expr(s.Iter)

	preFor := b.loopLabel()
	preElse := b.branchLabel()
	postFor := b.branchLabel()

	b.addAntecedent(preFor, b.current)
	b.current = preFor
	b.addAntecedent(preElse, b.current)

	for _, nameExpr := range targetNames(s.Target, nil) {
		b.emitAssignmentForName(nameExpr, false)
	}

	b.loopTargets = append(b.loopTargets, loopTarget{continueLabel: preFor, breakLabel: postFor})
	if s.Body != nil {
		for _, st := range s.Body.Stmts {
			b.stmt(st)
		}
	}
	b.loopTargets = b.loopTargets[:len(b.loopTargets)-1]
	b.addAntecedent(preFor, b.current)

	b.current = b.finishLabel(preElse)
	if s.Orelse != nil {
		for _, st := range s.Orelse.Stmts {
			b.stmt(st)
		}
	}
	b.addAntecedent(postFor, b.current)
	b.current = b.finishLabel(postFor)
}

// bindWhile implements spec.md §4.4's "While" rule.
func (b *Binder) bindWhile(s *ast.WhileStmt) {
	preWhile := b.loopLabel()
	postWhile := b.branchLabel()

	b.addAntecedent(preWhile, b.current)
	b.current = preWhile
	trueFlow, falseFlow := b.bindConditionalTest(s.Test)

	b.loopTargets = append(b.loopTargets, loopTarget{continueLabel: preWhile, breakLabel: postWhile})
	b.current = trueFlow
	if s.Body != nil {
		for _, st := range s.Body.Stmts {
			b.stmt(st)
		}
	}
	b.loopTargets = b.loopTargets[:len(b.loopTargets)-1]
	b.addAntecedent(preWhile, b.current)

	b.current = falseFlow
	if s.Orelse != nil {
		for _, st := range s.Orelse.Stmts {
			b.stmt(st)
		}
	}
	b.addAntecedent(postWhile, b.current)
	b.current = b.finishLabel(postWhile)
}

// bindIf implements spec.md §4.4's "If" rule.
func (b *Binder) bindIf(s *ast.IfStmt) {
	postIf := b.branchLabel()
	trueFlow, falseFlow := b.bindConditionalTest(s.Test)

	b.current = trueFlow
	if s.Body != nil {
		for _, st := range s.Body.Stmts {
			b.stmt(st)
		}
	}
	b.addAntecedent(postIf, b.current)

	b.current = falseFlow
	if s.Orelse != nil {
		for _, st := range s.Orelse.Stmts {
			b.stmt(st)
		}
	}
	b.addAntecedent(postIf, b.current)

	b.current = b.finishLabel(postIf)
}

// bindConditionalTest binds a test expression and returns the flow id to
// use for the true branch and the false branch respectively, threading
// and/or/not connectives and narrowing per spec.md §4.3/§4.4.
func (b *Binder) bindConditionalTest(test ast.Expr) (trueFlow, falseFlow FlowNodeID) {
	trueLbl := b.branchLabel()
	falseLbl := b.branchLabel()
	b.bindConditional(test, trueLbl, falseLbl)
	return b.finishLabel(trueLbl), b.finishLabel(falseLbl)
}

// bindConditional threads test's evaluation so that control reaches
// trueTarget when test is truthy and falseTarget otherwise, recursing
// through and/or/not connectives per spec.md §4.4.
func (b *Binder) bindConditional(test ast.Expr, trueTarget, falseTarget FlowNodeID) {
	switch e := test.(type) {
	case *ast.BoolOp:
		b.bindBoolOpConditional(e, trueTarget, falseTarget)
		return
	case *ast.UnaryOp:
		if e.Op == token.NOT {
			b.bindConditional(e.Operand, falseTarget, trueTarget)
			return
		}
	}
	b.expr(test)
	trueFlow := b.condition(true, b.current, test)
	falseFlow := b.condition(false, b.current, test)
	b.addAntecedent(trueTarget, trueFlow)
	b.addAntecedent(falseTarget, falseFlow)
}

func (b *Binder) bindBoolOpConditional(e *ast.BoolOp, trueTarget, falseTarget FlowNodeID) {
	isAnd := e.Op == token.AND
	for i, operand := range e.Values {
		last := i == len(e.Values)-1
		if last {
			b.bindConditional(operand, trueTarget, falseTarget)
			return
		}
		if isAnd {
			continueLbl := b.branchLabel()
			b.bindConditional(operand, continueLbl, falseTarget)
			b.current = b.finishLabel(continueLbl)
		} else {
			continueLbl := b.branchLabel()
			b.bindConditional(operand, trueTarget, continueLbl)
			b.current = b.finishLabel(continueLbl)
		}
	}
}

// bindRaise implements spec.md §4.4's "Raise" rule.
func (b *Binder) bindRaise(s *ast.RaiseStmt) {
	if s.Exc != nil {
		b.expr(s.Exc)
	}
	if s.Cause != nil {
		b.expr(s.Cause)
	}
	if len(b.currentFunctionDecl) > 0 {
		decl := b.currentFunctionDecl[len(b.currentFunctionDecl)-1]
		decl.RaiseStmts = append(decl.RaiseStmts, s)
	}
	if s.Exc == nil && b.exceptDepth == 0 {
		b.reportAt(RuleBareRaiseOutsideExcept, s, "raise with no active exception outside an except clause")
	}
	b.fanIntoExceptTargets(b.current)
	b.fanIntoFinallyTargets(b.current)
	b.current = unreachableID
}

// bindReturn implements spec.md §4.4's "Return / Break / Continue" rule
// for return.
func (b *Binder) bindReturn(s *ast.ReturnStmt) {
	if s.Value != nil {
		b.expr(s.Value)
	}
	if len(b.currentFunctionDecl) > 0 {
		decl := b.currentFunctionDecl[len(b.currentFunctionDecl)-1]
		decl.ReturnStmts = append(decl.ReturnStmts, s)
	}
	b.fanIntoExceptTargets(b.current)
	if len(b.returnTargets) > 0 {
		b.addAntecedent(b.returnTargets[len(b.returnTargets)-1], b.current)
	}
	b.fanIntoFinallyTargets(b.current)
	b.current = unreachableID
}

func (b *Binder) bindBreak(s *ast.BreakStmt) {
	b.fanIntoExceptTargets(b.current)
	if len(b.loopTargets) > 0 {
		b.addAntecedent(b.loopTargets[len(b.loopTargets)-1].breakLabel, b.current)
	}
	b.current = unreachableID
}

func (b *Binder) bindContinue(s *ast.ContinueStmt) {
	b.fanIntoExceptTargets(b.current)
	if len(b.loopTargets) > 0 {
		b.addAntecedent(b.loopTargets[len(b.loopTargets)-1].continueLabel, b.current)
	}
	b.current = unreachableID
}

// bindYield / bindYieldFrom implement spec.md §4.4's "Yield / YieldFrom"
// rule. A yield reachable only through dead code still marks the
// enclosing function as a generator: the function-declaration lookup
// does not consult b.current at all.
func (b *Binder) bindYield(e *ast.Yield) {
	if e.Value != nil {
		b.expr(e.Value)
	}
	b.markGenerator(e)
}

func (b *Binder) bindYieldFrom(e *ast.YieldFrom) {
	b.expr(e.Value)
	if len(b.asyncStack) > 0 && b.asyncStack[len(b.asyncStack)-1] {
		b.reportAt(RuleYieldFromInAsync, e, "yield from is not valid inside an async function")
	}
	b.markGenerator(e)
}

func (b *Binder) markGenerator(yieldNode ast.Expr) {
	if len(b.currentFunctionDecl) == 0 {
		b.reportAt(RuleYieldOutsideFunction, yieldNode, "yield is only valid inside a function")
		return
	}
	decl := b.currentFunctionDecl[len(b.currentFunctionDecl)-1]
	decl.IsGenerator = true
	decl.YieldNodes = append(decl.YieldNodes, yieldNode)
}

// bindAwait implements spec.md §4.4's "Await" rule. Whether the enclosing
// function is async is read from asyncStack, onto which bindFunctionBody
// pushes the FunctionDef's Async flag (false for a lambda body).
func (b *Binder) bindAwait(e *ast.Await) {
	b.expr(e.Value)
	if len(b.asyncStack) == 0 || !b.asyncStack[len(b.asyncStack)-1] {
		b.reportAt(RuleAwaitOutsideAsync, e, "await is only valid inside an async function")
	}
}

// bindWith implements spec.md §4.4's "With" rule.
func (b *Binder) bindWith(s *ast.WithStmt) {
	for _, it := range s.Items {
		b.expr(it.Context)
		if it.As != nil {
			b.preBindTarget(it.As)
			for _, nameExpr := range targetNames(it.As, nil) {
				if n, ok := nameExpr.(*ast.Name); ok {
					sym := b.declare(n.Id)
					sym.AddDeclaration(&VariableDeclaration{NameNode: nameExpr})
					b.attachDeclaration(nameExpr, sym.Decls[len(sym.Decls)-1])
				}
				b.emitAssignmentForName(nameExpr, false)
			}
		}
	}
	if s.Body != nil {
		for _, st := range s.Body.Stmts {
			b.stmt(st)
		}
	}
}

// bindGlobal implements spec.md §4.4's "Global" rule.
func (b *Binder) bindGlobal(s *ast.GlobalStmt) {
	for _, n := range s.Names {
		if b.scope.Nonlocals[n.Id] {
			b.reportAt(RuleGlobalReassignment, n, "name '"+n.Id+"' is already declared nonlocal in this scope")
			continue
		}
		if _, ok := b.scope.lookUp(n.Id); ok {
			b.reportAt(RuleGlobalReassignment, n, "name '"+n.Id+"' is assigned before this global declaration")
		}
		b.scope.declareGlobal(n.Id)
		b.declareIn(b.module, n.Id)
	}
}

// bindNonlocal implements spec.md §4.4's "Nonlocal" rule.
func (b *Binder) bindNonlocal(s *ast.NonlocalStmt) {
	if b.scope.Kind == ModuleScope {
		b.reportAt(RuleNonlocalAtModuleScope, s, "nonlocal declaration is not valid at module scope")
		return
	}
	for _, n := range s.Names {
		if _, ok := b.scope.lookUp(n.Id); ok {
			continue
		}
		if b.scope.Globals[n.Id] {
			b.reportAt(RuleGlobalReassignment, n, "name '"+n.Id+"' is already declared global in this scope")
			continue
		}
		fn := b.scope.enclosingFunctionScope()
		if fn == nil {
			b.reportAt(RuleNonlocalNoBinding, n, "no binding for nonlocal name '"+n.Id+"' found in an enclosing function")
			continue
		}
		_, target, found := fn.lookUpRecursive(n.Id)
		if !found || target == b.module {
			b.reportAt(RuleNonlocalNoBinding, n, "no binding for nonlocal name '"+n.Id+"' found in an enclosing function")
			continue
		}
		b.scope.declareNonlocal(n.Id)
	}
}

// bindImportAs implements spec.md §4.4's "ImportAs" rule.
func (b *Binder) bindImportAs(s *ast.ImportStmt) {
	resolvedPath := resolvedPathFor(b.lookup)
	for _, alias := range s.Names {
		b.checkImportResolution(s, alias.Path)

		bindName := alias.Path[0]
		firstPart := alias.Path[0]
		if alias.AsName != nil {
			bindName = alias.AsName.Id
		}
		var nameNode ast.Node = &ast.Name{Id: bindName}
		if alias.AsName != nil {
			nameNode = alias.AsName
		}
		sym := b.declare(bindName)

		loader := buildLoaderActions(alias.Path, resolvedPath)
		var existing *AliasDeclaration
		for _, d := range sym.Decls {
			if ad, ok := d.(*AliasDeclaration); ok && ad.FirstNamePart == firstPart {
				existing = ad
				break
			}
		}
		if existing != nil {
			if loader != nil {
				if existing.ImplicitImports == nil {
					existing.ImplicitImports = make(map[string]*ModuleLoaderActions)
				}
				if cur, ok := existing.ImplicitImports[firstPart]; ok {
					mergeLoaderActions(cur, loader)
				} else {
					existing.ImplicitImports[firstPart] = loader
				}
			}
		} else {
			ad := &AliasDeclaration{
				NameNode:      nameNode,
				Path:          alias.Path,
				UsesLocalName: alias.AsName != nil,
				FirstNamePart: firstPart,
			}
			if loader != nil {
				ad.ImplicitImports = map[string]*ModuleLoaderActions{firstPart: loader}
			}
			sym.AddDeclaration(ad)
			b.attachDeclaration(nameNode, ad)
		}
		if b.file.IsStub && alias.AsName == nil {
			sym.Flags |= ExternallyHidden
		}
		b.emitAssignmentForName(nameNode.(ast.Expr), false)
	}
}

// bindImportFrom implements spec.md §4.4's "ImportFrom (wildcard)" and
// "ImportFrom (named)" rules.
func (b *Binder) bindImportFrom(s *ast.ImportFromStmt) {
	if s.Star {
		if b.scope.Kind != ModuleScope {
			b.reportAt(RuleWildcardImportScope, s, "wildcard import is only valid at module scope")
		}
		if s.Module != "" {
			b.checkImportResolution(s, splitDotted(s.Module))
		}
		names := b.resolveWildcardNames(s)
		for _, name := range names {
			sym := b.declare(name)
			ad := &AliasDeclaration{Path: splitDotted(s.Module), SymbolName: name}
			sym.AddDeclaration(ad)
		}
		b.wildcardImport(s, names)
		return
	}

	if s.Module != "" {
		b.checkImportResolution(s, splitDotted(s.Module))
	}

	isPackageInit := b.file.ModuleName != "" && isInitModule(b.file.ModuleName)
	if s.Dots == 1 && isPackageInit {
		submodule := firstSegment(s.Module)
		if submodule != "" && !shadowsExplicitImport(submodule, s.Names) {
			sym := b.declare(submodule)
			sym.AddDeclaration(&AliasDeclaration{Path: []string{submodule}, SymbolName: submodule})
			b.emitAssignmentForName(&ast.Name{Id: submodule}, false)
		}
	}

	for _, alias := range s.Names {
		bindName := alias.Path[len(alias.Path)-1]
		if alias.AsName != nil {
			bindName = alias.AsName.Id
		}
		sym := b.declare(bindName)
		ad := &AliasDeclaration{
			Path:          []string{s.Module},
			SymbolName:    alias.Path[len(alias.Path)-1],
			UsesLocalName: alias.AsName != nil,
		}
		if b.lookup != nil {
			if info, ok := b.lookup.Lookup(splitDotted(s.Module)); ok && info.IsNamespace {
				ad.SubmoduleFallback = &AliasDeclaration{Path: append(splitDotted(s.Module), ad.SymbolName), SymbolName: ad.SymbolName}
			}
		}
		sym.AddDeclaration(ad)
		var nameExpr ast.Expr = &ast.Name{Id: bindName}
		if alias.AsName != nil {
			nameExpr = alias.AsName
		}
		b.attachDeclaration(nameExpr, ad)
		b.emitAssignmentForName(nameExpr, false)
	}
}

func splitDotted(module string) []string {
	if module == "" {
		return nil
	}
	var parts []string
	start := 0
	for i := 0; i < len(module); i++ {
		if module[i] == '.' {
			parts = append(parts, module[start:i])
			start = i + 1
		}
	}
	parts = append(parts, module[start:])
	return parts
}

func firstSegment(module string) string {
	parts := splitDotted(module)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

func isInitModule(moduleName string) bool {
	return moduleName == "__init__" || len(moduleName) >= 9 && moduleName[len(moduleName)-9:] == ".__init__"
}

func shadowsExplicitImport(name string, names []*ast.Alias) bool {
	for _, a := range names {
		bound := a.Path[len(a.Path)-1]
		if a.AsName != nil {
			bound = a.AsName.Id
		}
		if bound == name {
			return true
		}
	}
	return false
}

// resolveWildcardNames implements the wildcard-import name set described
// in spec.md §4.4: an explicit export list if the module advertises one,
// else every name not starting with "_" and not flagged
// IgnoredForProtocolMatch.
func (b *Binder) resolveWildcardNames(s *ast.ImportFromStmt) []string {
	if b.lookup == nil {
		return nil
	}
	info, ok := b.lookup.Lookup(splitDotted(s.Module))
	if !ok || info.Exports == nil {
		return nil
	}
	var names []string
	for _, sym := range info.Exports.Symbols() {
		if len(sym.Name) > 0 && sym.Name[0] == '_' {
			continue
		}
		if sym.HasFlag(IgnoredForProtocolMatch) {
			continue
		}
		names = append(names, sym.Name)
	}
	return names
}

// bindComprehension implements spec.md §4.4's "Comprehension" rule: it
// opens a comprehension scope, pre-binds every for-target across all
// generator clauses in a first pass, then walks iterables/filters/body in
// a second pass so an AssignmentAlias can be emitted for any shadowed
// outer name before it's used.
func (b *Binder) bindComprehension(kind ScopeKind, generators []*ast.Comprehension, walkElt func()) {
	popScope := b.pushScope(kind, nil)
	defer popScope()

	newlyAdded := make(map[string]bool)
	for _, gen := range generators {
		for _, nameExpr := range targetNames(gen.Target, nil) {
			n, ok := nameExpr.(*ast.Name)
			if !ok {
				continue
			}
			if _, existed := b.scope.lookUp(n.Id); !existed {
				newlyAdded[n.Id] = true
			}
			sym := b.declare(n.Id)
			sym.AddDeclaration(&VariableDeclaration{NameNode: nameExpr})
			b.attachDeclaration(nameExpr, sym.Decls[len(sym.Decls)-1])
		}
	}

	for name := range newlyAdded {
		if _, _, found := b.scope.Parent.lookUpRecursive(name); found {
			shadowed := &ast.Name{Id: name}
			b.assignmentAlias(shadowed, shadowed)
		}
	}

	falseLabel := b.branchLabel()
	for _, gen := range generators {
		b.expr(gen.Iter)
		for _, nameExpr := range targetNames(gen.Target, nil) {
			b.emitAssignmentForName(nameExpr, false)
		}
		for _, filter := range gen.Ifs {
			trueFlow, falseFlow := b.bindConditionalTest(filter)
			b.addAntecedent(falseLabel, falseFlow)
			b.current = trueFlow
		}
	}
	walkElt()
	b.addAntecedent(falseLabel, b.current)
	b.current = b.finishLabel(falseLabel)
}
