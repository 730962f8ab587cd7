package types

import "github.com/you-not-fish/klang/internal/syntax"

// NoPos is the zero position value, used for predeclared objects.
var NoPos syntax.Pos

// Universe is the root scope containing the predeclared type names and
// the builtin print.
var Universe *Scope

var (
	universePrint *Builtin

	// Builtin methods available on every struct and on string.
	structMethods map[string]*Builtin
	stringMethods map[string]*Builtin
)

func init() {
	Universe = NewScope(nil, "universe")

	for _, kind := range []BasicKind{I64, F64, Bool, String, Void} {
		t := Typ[kind]
		Universe.Insert(NewTypeName(NoPos, t.name, t))
	}

	universePrint = newBuiltin("print", BuiltinPrint, Typ[Void])
	Universe.Insert(universePrint)

	structMethods = map[string]*Builtin{
		"to_string": newBuiltin("to_string", BuiltinToString, Typ[String]),
	}
	stringMethods = map[string]*Builtin{
		"to_string": newBuiltin("to_string", BuiltinToString, Typ[String]),
		"len":       newBuiltin("len", BuiltinLen, Typ[I64]),
		"concat":    newBuiltin("concat", BuiltinConcat, Typ[String], Typ[String]),
	}
}

// UniversePrint returns the builtin print function.
func UniversePrint() *Builtin { return universePrint }

// LookupType returns the predeclared type with the given source name.
func LookupType(name string) Type {
	if tn, ok := Universe.Lookup(name).(*TypeName); ok {
		return tn.Type()
	}
	return nil
}

// LookupBuiltinMethod returns the builtin method name of T, or nil.
// Structs have to_string; strings have to_string, len and concat.
func LookupBuiltinMethod(T Type, name string) *Builtin {
	switch {
	case IsStruct(T):
		return structMethods[name]
	case IsString(T):
		return stringMethods[name]
	}
	return nil
}

// LookupMethod resolves a method call on T: a user method of a struct
// first, then a builtin method. It returns a *Func, a *Builtin or nil.
func LookupMethod(T Type, name string) Object {
	if s, ok := T.(*Struct); ok {
		if m := s.LookupMethod(name); m != nil {
			return m
		}
	}
	if b := LookupBuiltinMethod(T, name); b != nil {
		return b
	}
	return nil
}
