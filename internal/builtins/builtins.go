// Package builtins defines the name sets available in the Builtin scope:
// ordinary language built-ins, and the special typing names recognized only
// in stub files.
package builtins

// Universe is the set of ordinary built-in names available in every module,
// regardless of imports. This should not be modified at runtime; it models
// the fixed set of names the language predeclares.
var Universe = map[string]bool{
	"len": true, "print": true, "repr": true, "str": true, "int": true,
	"float": true, "bool": true, "bytes": true, "list": true, "dict": true,
	"set": true, "tuple": true, "object": true, "type": true, "super": true,
	"isinstance": true, "issubclass": true, "callable": true, "hasattr": true,
	"getattr": true, "setattr": true, "iter": true, "next": true, "range": true,
	"enumerate": true, "zip": true, "map": true, "filter": true, "sorted": true,
	"reversed": true, "min": true, "max": true, "sum": true, "abs": true,
	"open": true, "id": true, "hash": true, "vars": true, "dir": true,
	"Exception": true, "BaseException": true, "StopIteration": true,
	"GeneratorExit": true, "KeyError": true, "ValueError": true,
	"TypeError": true, "AttributeError": true, "NotImplementedError": true,
	"None": true, "True": true, "False": true, "NotImplemented": true,
	"Ellipsis": true,
}

// IsUniverse reports whether name is one of the language's ordinary
// built-ins.
func IsUniverse(name string) bool { return Universe[name] }

// SpecialTyping is the set of names that receive special binder treatment
// in stub files (spec.md §4.8): the Builtin scope of a stub file gets one
// SpecialBuiltInClass declaration per name, and while binding the typing
// stub itself an assignment to one of these names is skipped entirely by
// the ordinary Assign visitor (spec §4.4's "ignore the special typing stub
// names" rule).
var SpecialTyping = map[string]bool{
	"TypeAlias": true, "Final": true, "Protocol": true, "TYPE_CHECKING": true,
	"overload": true, "NamedTuple": true, "TypedDict": true, "ClassVar": true,
	"Generic": true, "Literal": true, "Annotated": true,
}

// IsSpecialTypingName reports whether name is one of the typing-stub
// special built-ins.
func IsSpecialTypingName(name string) bool { return SpecialTyping[name] }

// ModuleIntrinsics lists the fixed set of dunder names implicitly present in
// every module scope, in binding order, along with a human-readable
// semantic type tag (spec.md §4.4 "Module").
var ModuleIntrinsics = []struct {
	Name, Type string
}{
	{"__doc__", "str"},
	{"__name__", "str"},
	{"__loader__", "Any"},
	{"__package__", "str"},
	{"__spec__", "Any"},
	{"__path__", "Iterable[str]"},
	{"__file__", "str"},
	{"__cached__", "str"},
	{"__dict__", "Dict[str,Any]"},
}
