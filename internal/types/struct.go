package types

import (
	"fmt"

	"github.com/you-not-fish/klang/internal/rtabi"
	"github.com/you-not-fish/klang/internal/syntax"
)

// Struct represents a struct type. Struct types compare by identity:
// there is exactly one *Struct per declaration.
type Struct struct {
	typ
	name    string
	pos     syntax.Pos
	fields  []*Var
	methods []*Func
	pkg     *Package // owning package, set by Package.AddStruct
}

// NewStruct creates a new struct type with no fields or methods.
func NewStruct(pos syntax.Pos, name string) *Struct {
	return &Struct{name: name, pos: pos}
}

// Name returns the struct name.
func (s *Struct) Name() string {
	return s.name
}

// Pos returns the declaration position.
func (s *Struct) Pos() syntax.Pos {
	return s.pos
}

// String implements Type.
func (s *Struct) String() string {
	return s.name
}

// CName implements Type.
func (s *Struct) CName() string {
	return rtabi.CStructPtr(s.name)
}

// IsReference implements Type. Struct values are heap pointers.
func (s *Struct) IsReference() bool { return true }

// IsNumeric implements Type.
func (s *Struct) IsNumeric() bool { return false }

// IsFloat implements Type.
func (s *Struct) IsFloat() bool { return false }

// NumFields returns the number of fields.
func (s *Struct) NumFields() int {
	return len(s.fields)
}

// Field returns the field at the given index.
func (s *Struct) Field(i int) *Var {
	return s.fields[i]
}

// Fields returns all fields in declaration order.
func (s *Struct) Fields() []*Var {
	return s.fields
}

// FieldIndex returns the index of the named field, or -1.
func (s *Struct) FieldIndex(name string) int {
	for i, f := range s.fields {
		if f.name == name {
			return i
		}
	}
	return -1
}

// LookupField returns the named field, or nil.
func (s *Struct) LookupField(name string) *Var {
	if i := s.FieldIndex(name); i >= 0 {
		return s.fields[i]
	}
	return nil
}

// AddField appends a field. If a field with the same name exists, it is
// returned and f is not added.
func (s *Struct) AddField(f *Var) *Var {
	s.mustBeOpen()
	if existing := s.LookupField(f.name); existing != nil {
		return existing
	}
	f.kind = FieldVar
	f.index = len(s.fields)
	s.fields = append(s.fields, f)
	return nil
}

// Methods returns the user-defined methods in declaration order.
func (s *Struct) Methods() []*Func {
	return s.methods
}

// LookupMethod returns the named user-defined method, or nil.
func (s *Struct) LookupMethod(name string) *Func {
	for _, m := range s.methods {
		if m.name == name {
			return m
		}
	}
	return nil
}

// AddMethod appends a method. If a method with the same name exists, it
// is returned and m is not added.
func (s *Struct) AddMethod(m *Func) *Func {
	s.mustBeOpen()
	if existing := s.LookupMethod(m.name); existing != nil {
		return existing
	}
	s.methods = append(s.methods, m)
	return nil
}

func (s *Struct) mustBeOpen() {
	if s.pkg != nil && s.pkg.complete {
		panic(fmt.Sprintf("types: struct %s modified after package %s was completed", s.name, s.pkg.name))
	}
}
