package types

import "fmt"

// Package is the program symbol table: the structs, functions and methods
// of one klang source file, and its entry function.
//
// The checker builds a Package and then calls Complete. After that the
// package is read-only and every mutator panics.
type Package struct {
	name     string
	scope    *Scope
	structs  []*Struct
	funcs    []*Func
	entry    *Func
	complete bool
}

// NewPackage creates a new, open package with the given name.
func NewPackage(name string) *Package {
	return &Package{
		name:  name,
		scope: NewScope(Universe, "package "+name),
	}
}

// Name returns the package name.
func (p *Package) Name() string {
	return p.name
}

// Scope returns the package-level scope holding struct type names and
// functions.
func (p *Package) Scope() *Scope {
	return p.scope
}

// Structs returns the structs in declaration order.
func (p *Package) Structs() []*Struct {
	return p.structs
}

// Funcs returns the free functions in declaration order.
func (p *Package) Funcs() []*Func {
	return p.funcs
}

// Entry returns the entry function, or nil if there is none.
func (p *Package) Entry() *Func {
	return p.entry
}

// Struct returns the named struct, or nil.
func (p *Package) Struct(name string) *Struct {
	if tn, ok := p.scope.Lookup(name).(*TypeName); ok {
		if s, ok := tn.Type().(*Struct); ok {
			return s
		}
	}
	return nil
}

// Func returns the named free function, or nil.
func (p *Package) Func(name string) *Func {
	f, _ := p.scope.Lookup(name).(*Func)
	return f
}

// AddStruct declares s in the package scope. If the name is taken, the
// existing object is returned and s is not added.
func (p *Package) AddStruct(s *Struct) Object {
	p.mustBeOpen()
	if existing := p.scope.Insert(NewTypeName(s.pos, s.name, s)); existing != nil {
		return existing
	}
	s.pkg = p
	p.structs = append(p.structs, s)
	return nil
}

// AddFunc declares the free function f in the package scope. If the name
// is taken, the existing object is returned and f is not added.
func (p *Package) AddFunc(f *Func) Object {
	p.mustBeOpen()
	if existing := p.scope.Insert(f); existing != nil {
		return existing
	}
	p.funcs = append(p.funcs, f)
	return nil
}

// SetEntry records the entry function.
func (p *Package) SetEntry(f *Func) {
	p.mustBeOpen()
	p.entry = f
}

// Complete freezes the package.
func (p *Package) Complete() {
	p.complete = true
}

// Completed reports whether the package is frozen.
func (p *Package) Completed() bool {
	return p.complete
}

// String returns the package name.
func (p *Package) String() string {
	return p.name
}

func (p *Package) mustBeOpen() {
	if p.complete {
		panic(fmt.Sprintf("types: package %s modified after completion", p.name))
	}
}
