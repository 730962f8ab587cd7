package types2

import (
	"github.com/you-not-fish/klang/internal/rtabi"
	"github.com/you-not-fish/klang/internal/syntax"
	"github.com/you-not-fish/klang/internal/types"
)

// collectStruct declares the struct named by sd.
func (c *Checker) collectStruct(sd *syntax.StructDecl) {
	s := types.NewStruct(sd.Pos(), sd.Name)
	c.structDecls[sd] = s
	if existing := c.pkg.AddStruct(s); existing != nil {
		c.errorf(sd.Pos(), "struct '%s' redeclared (previous declaration at %s)", sd.Name, existing.Pos())
		return
	}
	c.info.Defs[sd] = c.pkg.Scope().Lookup(sd.Name)
}

// resolveFields adds the fields of sd. A field type is a primitive or a
// struct among visible, the structs declared up to and including sd.
func (c *Checker) resolveFields(sd *syntax.StructDecl, visible []*syntax.StructDecl) {
	s := c.structDecls[sd]
	for _, f := range sd.Fields {
		t := c.fieldType(f.Type, visible)
		v := types.NewField(f.Pos(), f.Name, t)
		if s.AddField(v) != nil {
			c.errorf(f.Pos(), "duplicate field '%s.%s'", sd.Name, f.Name)
			continue
		}
		c.info.Defs[f] = v
	}
}

func (c *Checker) fieldType(tn *syntax.TypeName, visible []*syntax.StructDecl) types.Type {
	if t := types.LookupType(tn.Name); t != nil {
		if types.IsVoid(t) {
			c.errorf(tn.Pos(), "field cannot have type void")
			return types.Typ[types.Invalid]
		}
		return t
	}
	for _, sd := range visible {
		if sd.Name == tn.Name {
			return c.structDecls[sd]
		}
	}
	if c.pkg.Struct(tn.Name) != nil {
		c.errorf(tn.Pos(), "unknown type '%s' (struct must be declared before its use in a field)", tn.Name)
	} else {
		c.errorf(tn.Pos(), "unknown type '%s'", tn.Name)
	}
	return types.Typ[types.Invalid]
}

// typeOf resolves a type reference in a signature or declaration.
// A nil reference is void.
func (c *Checker) typeOf(tn *syntax.TypeName) types.Type {
	if tn == nil {
		return types.Typ[types.Void]
	}
	if t := types.LookupType(tn.Name); t != nil {
		return t
	}
	if s := c.pkg.Struct(tn.Name); s != nil {
		return s
	}
	c.errorf(tn.Pos(), "unknown type '%s'", tn.Name)
	return types.Typ[types.Invalid]
}

// params resolves a parameter list. first is the index of the first
// declared parameter (1 for methods, after self).
func (c *Checker) params(fd *syntax.FuncDecl, first int) []*types.Var {
	seen := make(map[string]bool)
	if first > 0 {
		seen["self"] = true
	}
	var params []*types.Var
	for i, p := range fd.Params {
		t := c.typeOf(p.Type)
		if types.IsVoid(t) {
			c.errorf(p.Type.Pos(), "parameter '%s' cannot have type void", p.Name)
			t = types.Typ[types.Invalid]
		}
		if seen[p.Name] {
			c.errorf(p.Pos(), "duplicate parameter '%s' in %s", p.Name, fd.Name)
		}
		seen[p.Name] = true
		v := types.NewParam(p.Pos(), p.Name, t, first+i)
		c.info.Defs[p] = v
		params = append(params, v)
	}
	return params
}

// collectFunc declares the signature of a free function.
func (c *Checker) collectFunc(fd *syntax.FuncDecl) {
	f := types.NewFunc(fd.Pos(), fd.Name, nil, c.params(fd, 0), c.typeOf(fd.Result))
	c.info.Defs[fd] = f

	if _, ok := types.Universe.Lookup(fd.Name).(*types.Builtin); ok {
		c.errorf(fd.Pos(), "cannot redeclare builtin function '%s'", fd.Name)
		return
	}
	if existing := c.pkg.AddFunc(f); existing != nil {
		c.errorf(fd.Pos(), "'%s' redeclared (previous declaration at %s)", fd.Name, existing.Pos())
	}
}

// collectMethod declares the signature of a method of sd.
func (c *Checker) collectMethod(sd *syntax.StructDecl, md *syntax.FuncDecl) {
	s := c.structDecls[sd]
	m := types.NewFunc(md.Pos(), md.Name, s, c.params(md, 1), c.typeOf(md.Result))
	c.info.Defs[md] = m

	if types.LookupBuiltinMethod(s, md.Name) != nil {
		c.errorf(md.Pos(), "method '%s' collides with the builtin %s.%s", md.Name, sd.Name, md.Name)
		return
	}
	if s.AddMethod(m) != nil {
		c.errorf(md.Pos(), "method '%s.%s' redeclared", sd.Name, md.Name)
	}
}

// funcBody checks the body of a function or method.
func (c *Checker) funcBody(fd *syntax.FuncDecl) {
	f := c.info.FuncOf(fd)
	if f == nil || fd.Body == nil {
		return
	}

	c.fn = f
	c.scope = types.NewScope(c.pkg.Scope(), "function "+f.FullName())
	c.initialized = make(map[*types.Var]bool)
	c.loopDepth = 0
	c.info.Scopes[fd] = c.scope

	if self := f.Self(); self != nil {
		c.scope.Insert(self)
		c.initialized[self] = true
	}
	for _, p := range f.Params() {
		c.scope.Insert(p) // duplicates were reported with the signature
		c.initialized[p] = true
	}

	c.stmts(fd.Body.Stmts)

	if !types.IsVoid(f.Result()) && !types.IsInvalid(f.Result()) && !c.blockMustReturn(fd.Body.Stmts) {
		c.errorf(fd.Body.Rbrace, "missing return")
	}

	c.fn = nil
	c.scope = nil
}

// checkEntry verifies the entry function: main, no parameters, returning
// i64 or void.
func (c *Checker) checkEntry(file *syntax.File) {
	f := c.pkg.Func(rtabi.EntryName)
	if f == nil {
		c.errorf(file.Pos(), "missing function %s", rtabi.EntryName)
		return
	}
	if len(f.Params()) > 0 {
		c.errorf(f.Pos(), "function %s must have no parameters", rtabi.EntryName)
	}
	if r := f.Result(); !types.IsI64(r) && !types.IsVoid(r) && !types.IsInvalid(r) {
		c.errorf(f.Pos(), "function %s must return i64 or void, not %s", rtabi.EntryName, r)
	}
	c.pkg.SetEntry(f)
}
