package binder

import "github.com/mna/pybind/internal/ast"

// Declaration is implemented by every kind of symbol declaration. It is a
// closed sum; callers switch on the concrete type rather than a tag field,
// matching the spec's "tagged variants over inheritance" design note.
type Declaration interface {
	decl()
	// Node returns the syntax node most closely associated with the
	// declaration, used to order declarations by source position.
	Node() ast.Node
}

// VariableDeclaration is created for every ordinary assignment target,
// for-loop target, with-item target, walrus target and annotation.
type VariableDeclaration struct {
	NameNode             ast.Node // the *ast.Name this declaration binds
	InferredTypeSource   ast.Expr // RHS of the assignment, if any
	TypeAnnotation       ast.Expr // annotation expression, if any
	IsConstant           bool
	IsFinal              bool
	IsDefinedByMemberAccess bool
	TypeAliasName        string   // non-empty if this is "X: TypeAlias = ..."
	TypeAliasAnnotation  ast.Expr
	// PossibleTypeAlias marks a module-scope "X = <non-call expr>" that
	// later type-evaluation may treat as an implicit type alias.
	PossibleTypeAlias bool
}

func (d *VariableDeclaration) decl()         {}
func (d *VariableDeclaration) Node() ast.Node { return d.NameNode }

// ParameterDeclaration is created for each function/lambda parameter.
type ParameterDeclaration struct {
	NameNode   ast.Node
	Annotation ast.Expr // nil if unannotated
	Default    ast.Expr // nil if no default
}

func (d *ParameterDeclaration) decl()         {}
func (d *ParameterDeclaration) Node() ast.Node { return d.NameNode }

// FunctionDeclaration is created for a def/async def/lambda. ReturnStmts,
// RaiseStmts and YieldStmts are appended by the walker as it walks the
// (deferred) function body, after the declaration itself has been created
// and bound in the enclosing scope.
type FunctionDeclaration struct {
	NameNode     ast.Node
	IsMethod     bool
	IsGenerator  bool
	ReturnStmts  []*ast.ReturnStmt
	RaiseStmts   []*ast.RaiseStmt
	YieldNodes   []ast.Expr // *ast.Yield or *ast.YieldFrom
	// ReturnFlow is the resolved flow node every return path (including
	// fallthrough at the end of the body) joins at, set once the deferred
	// body walk finishes.
	ReturnFlow FlowNodeID
}

func (d *FunctionDeclaration) decl()         {}
func (d *FunctionDeclaration) Node() ast.Node { return d.NameNode }

// ClassDeclaration is created for a class statement.
type ClassDeclaration struct {
	NameNode ast.Node
}

func (d *ClassDeclaration) decl()         {}
func (d *ClassDeclaration) Node() ast.Node { return d.NameNode }

// ModuleLoaderActions describes, for one dotted module-name path segment,
// the resolved file path (empty if non-terminal) plus the nested actions
// for the next segment. The tree mirrors a dotted module name.
type ModuleLoaderActions struct {
	Path     string
	Children map[string]*ModuleLoaderActions
}

// AliasDeclaration is created for import/import-from clauses. A single
// symbol may accumulate more than one AliasDeclaration's worth of loader
// actions when several "import a.b" / "import a.c" statements share the
// same first name part: see Binder.bindImportAs.
type AliasDeclaration struct {
	NameNode         ast.Node
	Path             []string // full dotted path imported
	SymbolName       string   // non-empty for "from X import SymbolName"
	UsesLocalName    bool     // true if bound via an explicit "as" alias
	FirstNamePart    string   // first dotted segment, used to merge decls
	SubmoduleFallback *AliasDeclaration
	ImplicitImports  map[string]*ModuleLoaderActions
}

func (d *AliasDeclaration) decl()         {}
func (d *AliasDeclaration) Node() ast.Node { return d.NameNode }

// IntrinsicKind classifies an Intrinsic declaration's fixed semantic type.
type IntrinsicKind int

// Recognized IntrinsicKind values, matching spec.md §4.4's module dunders.
const (
	IntrinsicStr IntrinsicKind = iota
	IntrinsicAny
	IntrinsicDictStrAny
	IntrinsicIterableStr
)

// IntrinsicDeclaration is created for the fixed module dunders
// (__name__, __doc__, ...) and has no corresponding syntax node.
type IntrinsicDeclaration struct {
	Owner ast.Node // the *ast.Module that owns this intrinsic
	Name  string
	Kind  IntrinsicKind
}

func (d *IntrinsicDeclaration) decl()         {}
func (d *IntrinsicDeclaration) Node() ast.Node { return d.Owner }

// SpecialBuiltInClassDeclaration is created for the handful of typing-stub
// names (TypeAlias, Protocol, ...) that the binder recognizes by identity
// rather than by ordinary assignment (spec.md §4.8).
type SpecialBuiltInClassDeclaration struct {
	NameNode ast.Node
}

func (d *SpecialBuiltInClassDeclaration) decl()         {}
func (d *SpecialBuiltInClassDeclaration) Node() ast.Node { return d.NameNode }
