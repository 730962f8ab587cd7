// Package types implements the type system for the klang programming language.
// This package provides type representations without AST dependencies.
package types

// Type is the interface implemented by all types.
//
// The set is closed: the basic types of Typ and *Struct. Every value of a
// non-void type occupies one machine word.
type Type interface {
	// String returns the source name of the type.
	String() string

	// CName returns the C spelling of the type.
	CName() string

	// IsReference reports whether values of the type are heap pointers
	// that may be null.
	IsReference() bool

	// IsNumeric reports whether the type is i64 or f64.
	IsNumeric() bool

	// IsFloat reports whether the type is f64.
	IsFloat() bool

	// aType is a marker method to restrict implementations to this package.
	aType()
}

// typ is a base struct for all type implementations.
type typ struct{}

func (typ) aType() {}
