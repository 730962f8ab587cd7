package types

import "github.com/you-not-fish/klang/internal/rtabi"

// BasicKind describes the kind of basic type.
type BasicKind int

const (
	Invalid BasicKind = iota // error recovery type

	I64
	F64
	Bool
	String
	Void

	// Null is the type of the null literal. It is assignable to every
	// reference type and has no source name.
	Null
)

// BasicInfo describes properties of a basic type.
type BasicInfo int

const (
	IsBoolean BasicInfo = 1 << iota
	IsInteger
	IsFloat
	IsStringKind
	IsReference
	IsNumeric = IsInteger | IsFloat
)

// Basic represents a predeclared type.
type Basic struct {
	typ
	kind  BasicKind
	info  BasicInfo
	name  string
	cname string
}

// Kind returns the kind of the basic type.
func (b *Basic) Kind() BasicKind {
	return b.kind
}

// Info returns information about the basic type.
func (b *Basic) Info() BasicInfo {
	return b.info
}

// Name returns the name of the basic type.
func (b *Basic) Name() string {
	return b.name
}

// String implements Type.
func (b *Basic) String() string {
	return b.name
}

// CName implements Type.
func (b *Basic) CName() string {
	return b.cname
}

// IsReference implements Type.
func (b *Basic) IsReference() bool {
	return b.info&IsReference != 0
}

// IsNumeric implements Type.
func (b *Basic) IsNumeric() bool {
	return b.info&IsNumeric != 0
}

// IsFloat implements Type.
func (b *Basic) IsFloat() bool {
	return b.info&IsFloat != 0
}

// Typ holds the predeclared basic types, indexed by BasicKind.
var Typ = [...]*Basic{
	Invalid: {kind: Invalid, name: "invalid type"},
	I64:     {kind: I64, info: IsInteger, name: "i64", cname: rtabi.CTypeI64},
	F64:     {kind: F64, info: IsFloat, name: "f64", cname: rtabi.CTypeF64},
	Bool:    {kind: Bool, info: IsBoolean, name: "bool", cname: rtabi.CTypeBool},
	String:  {kind: String, info: IsStringKind | IsReference, name: "string", cname: rtabi.CTypeString},
	Void:    {kind: Void, name: "void", cname: rtabi.CTypeVoid},
	Null:    {kind: Null, info: IsReference, name: "null", cname: "void*"},
}
