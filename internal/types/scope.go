package types

// Scope maps names to objects. A program has three levels: the Universe,
// the package (structs and functions) and one scope per function body
// holding self, the parameters and every local of that function.
//
// A scope only points at its parent. The Universe is never written to
// after init, so checks of separate packages share it safely.
type Scope struct {
	parent *Scope
	name   string
	elems  map[string]Object
}

// NewScope creates an empty scope below parent. The name is used in
// diagnostics and dumps ("package main", "function Point.sum").
func NewScope(parent *Scope, name string) *Scope {
	return &Scope{parent: parent, name: name, elems: make(map[string]Object)}
}

// Name returns the scope's name.
func (s *Scope) Name() string {
	return s.name
}

// Lookup returns the object with the given name in this scope only.
func (s *Scope) Lookup(name string) Object {
	return s.elems[name]
}

// LookupParent searches s and then its parents for name, returning the
// object and the scope holding it, or (nil, nil).
func (s *Scope) LookupParent(name string) (Object, *Scope) {
	for scope := s; scope != nil; scope = scope.parent {
		if obj := scope.elems[name]; obj != nil {
			return obj, scope
		}
	}
	return nil, nil
}

// Insert adds obj unless the name is taken, in which case it returns the
// existing object and leaves the scope unchanged.
func (s *Scope) Insert(obj Object) Object {
	name := obj.Name()
	if existing := s.elems[name]; existing != nil {
		return existing
	}
	s.elems[name] = obj
	obj.setParent(s)
	return nil
}
