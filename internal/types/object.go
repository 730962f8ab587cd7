package types

import (
	"github.com/you-not-fish/klang/internal/rtabi"
	"github.com/you-not-fish/klang/internal/syntax"
)

// Object represents a declared entity: variable, type, function or builtin.
type Object interface {
	Name() string    // object name
	Type() Type      // object type
	Pos() syntax.Pos // declaration position
	Parent() *Scope  // enclosing scope

	setParent(*Scope) // internal: set parent scope
	aObject()         // marker method to restrict implementations
}

// object is the base struct for all objects.
type object struct {
	name   string
	typ    Type
	pos    syntax.Pos
	parent *Scope
}

func (o *object) Name() string       { return o.name }
func (o *object) Type() Type         { return o.typ }
func (o *object) Pos() syntax.Pos    { return o.pos }
func (o *object) Parent() *Scope     { return o.parent }
func (o *object) setParent(s *Scope) { o.parent = s }
func (*object) aObject()             {}

// VarKind describes where a variable lives.
type VarKind int

const (
	LocalVar VarKind = iota // let declaration
	ParamVar                // function parameter, including self
	FieldVar                // struct field
)

// Var represents a local variable, parameter or struct field.
type Var struct {
	object
	kind  VarKind
	index int // field or parameter position
}

// NewVar creates a new local variable object.
func NewVar(pos syntax.Pos, name string, typ Type) *Var {
	return &Var{object: object{name: name, typ: typ, pos: pos}}
}

// NewParam creates a new parameter object at position index of the
// parameter list. For methods, self is index 0.
func NewParam(pos syntax.Pos, name string, typ Type, index int) *Var {
	return &Var{object: object{name: name, typ: typ, pos: pos}, kind: ParamVar, index: index}
}

// NewField creates a new struct field object. Its index is assigned by
// Struct.AddField.
func NewField(pos syntax.Pos, name string, typ Type) *Var {
	return &Var{object: object{name: name, typ: typ, pos: pos}, kind: FieldVar}
}

// Kind returns the variable kind.
func (v *Var) Kind() VarKind {
	return v.kind
}

// IsField reports whether this variable is a struct field.
func (v *Var) IsField() bool {
	return v.kind == FieldVar
}

// Index returns the field or parameter position.
func (v *Var) Index() int {
	return v.index
}

// TypeName represents a declared or predeclared type name.
type TypeName struct {
	object
}

// NewTypeName creates a new type name object.
func NewTypeName(pos syntax.Pos, name string, typ Type) *TypeName {
	return &TypeName{object: object{name: name, typ: typ, pos: pos}}
}

// Func represents a declared function or method. Its Type is the result
// type.
type Func struct {
	object
	recv   *Struct
	self   *Var
	params []*Var
}

// NewFunc creates a function object. For a method, recv is the owning
// struct and the implicit self parameter is created here.
func NewFunc(pos syntax.Pos, name string, recv *Struct, params []*Var, result Type) *Func {
	f := &Func{object: object{name: name, typ: result, pos: pos}, recv: recv, params: params}
	if recv != nil {
		f.self = NewParam(pos, "self", recv, 0)
	}
	return f
}

// Recv returns the owning struct, or nil for a free function.
func (f *Func) Recv() *Struct {
	return f.recv
}

// IsMethod reports whether f is declared inside a struct.
func (f *Func) IsMethod() bool {
	return f.recv != nil
}

// Self returns the implicit receiver parameter of a method, or nil.
func (f *Func) Self() *Var {
	return f.self
}

// Params returns the declared parameters, excluding self.
func (f *Func) Params() []*Var {
	return f.params
}

// Result returns the result type (Typ[Void] for procedures).
func (f *Func) Result() Type {
	return f.typ
}

// IsEntry reports whether f is the program entry function.
func (f *Func) IsEntry() bool {
	return f.recv == nil && f.name == rtabi.EntryName
}

// Symbol returns the assembly and C name of f.
func (f *Func) Symbol() string {
	if f.recv != nil {
		return rtabi.Method(f.recv.name, f.name)
	}
	return rtabi.FuncSymbol(f.name)
}

// FullName returns "S.m" for methods and the plain name for functions.
func (f *Func) FullName() string {
	if f.recv != nil {
		return f.recv.name + "." + f.name
	}
	return f.name
}

// BuiltinKind identifies a builtin function or method.
type BuiltinKind int

const (
	BuiltinPrint BuiltinKind = iota
	BuiltinToString
	BuiltinLen
	BuiltinConcat
)

// Builtin represents a built-in function or method. Its Type is the
// result type.
type Builtin struct {
	object
	kind   BuiltinKind
	params []Type // nil for the overloaded print
}

func newBuiltin(name string, kind BuiltinKind, result Type, params ...Type) *Builtin {
	return &Builtin{object: object{name: name, typ: result}, kind: kind, params: params}
}

// Kind returns the builtin kind.
func (b *Builtin) Kind() BuiltinKind {
	return b.kind
}

// Params returns the parameter types of a builtin method, excluding the
// receiver.
func (b *Builtin) Params() []Type {
	return b.params
}
