package types

// Identical reports whether x and y are identical types. Basic types are
// singletons and structs compare by identity.
func Identical(x, y Type) bool {
	return x == y
}

// AssignableTo reports whether a value of type V may be stored in a
// location of type T. Invalid operands are assignable to anything so
// that one error does not cascade.
func AssignableTo(V, T Type) bool {
	if Identical(V, T) || IsInvalid(V) || IsInvalid(T) {
		return true
	}
	return IsNull(V) && T.IsReference()
}

// Comparable reports whether x == y is well typed: same type, or both
// reference types (null included).
func Comparable(x, y Type) bool {
	if Identical(x, y) {
		return !IsVoid(x)
	}
	return x.IsReference() && y.IsReference()
}

// Compatible reports whether the branches of a ternary agree.
func Compatible(x, y Type) bool {
	return AssignableTo(x, y) || AssignableTo(y, x)
}

func isBasic(t Type, kind BasicKind) bool {
	b, ok := t.(*Basic)
	return ok && b.kind == kind
}

// IsInvalid reports whether t is the error recovery type.
func IsInvalid(t Type) bool { return t == nil || isBasic(t, Invalid) }

// IsVoid reports whether t is void.
func IsVoid(t Type) bool { return isBasic(t, Void) }

// IsNull reports whether t is the type of the null literal.
func IsNull(t Type) bool { return isBasic(t, Null) }

// IsBool reports whether t is bool.
func IsBool(t Type) bool { return isBasic(t, Bool) }

// IsI64 reports whether t is i64.
func IsI64(t Type) bool { return isBasic(t, I64) }

// IsString reports whether t is string.
func IsString(t Type) bool { return isBasic(t, String) }

// IsStruct reports whether t is a struct type.
func IsStruct(t Type) bool {
	_, ok := t.(*Struct)
	return ok
}

// IsPrimitive reports whether t is one of the predeclared source types.
func IsPrimitive(t Type) bool {
	b, ok := t.(*Basic)
	return ok && b.kind != Invalid && b.kind != Null
}
