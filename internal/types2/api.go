package types2

import (
	"github.com/you-not-fish/klang/internal/syntax"
	"github.com/you-not-fish/klang/internal/types"
)

// Config specifies the configuration for type checking.
type Config struct {
	// Error is called for each type error.
	// If nil, errors are silently ignored.
	Error ErrorHandler

	// Package is the name of the resulting package. Defaults to "main".
	Package string
}

// Info holds the results of type checking.
type Info struct {
	// Types maps every expression, accessors included, to its type.
	Types map[syntax.Expr]types.Type

	// Defs maps declaring nodes to their objects:
	//	*syntax.StructDecl  -> *types.TypeName
	//	*syntax.FuncDecl    -> *types.Func
	//	*syntax.Field       -> *types.Var (struct field or parameter)
	//	*syntax.VarDeclStmt -> *types.Var
	Defs map[syntax.Node]types.Object

	// Uses maps referencing nodes to the objects they denote:
	//	*syntax.Var, *syntax.AssignStmt, *syntax.DropStmt -> *types.Var
	//	*syntax.FieldGet, *syntax.FieldSet                -> *types.Var (field)
	//	*syntax.FunCall, *syntax.MethodCall               -> *types.Func or *types.Builtin
	//	*syntax.ConstructorCall                           -> *types.TypeName
	Uses map[syntax.Node]types.Object

	// Scopes maps each *syntax.FuncDecl to its function scope.
	Scopes map[syntax.Node]*types.Scope
}

// TypeOf returns the type of expression e, or nil if it was not checked.
func (info *Info) TypeOf(e syntax.Expr) types.Type {
	return info.Types[e]
}

// ObjectOf returns the object defined or used by n, or nil.
func (info *Info) ObjectOf(n syntax.Node) types.Object {
	if obj := info.Defs[n]; obj != nil {
		return obj
	}
	return info.Uses[n]
}

// VarOf returns the variable defined or used by n, or nil.
func (info *Info) VarOf(n syntax.Node) *types.Var {
	v, _ := info.ObjectOf(n).(*types.Var)
	return v
}

// FuncOf returns the function object of a declaration, or nil.
func (info *Info) FuncOf(d *syntax.FuncDecl) *types.Func {
	f, _ := info.Defs[d].(*types.Func)
	return f
}

// StructOf returns the struct type of a declaration, or nil.
func (info *Info) StructOf(d *syntax.StructDecl) *types.Struct {
	if tn, ok := info.Defs[d].(*types.TypeName); ok {
		s, _ := tn.Type().(*types.Struct)
		return s
	}
	return nil
}

// Check type-checks a parsed file.
// It returns the completed package and the first error encountered, if
// any. A *FatalError aborts the check; the package is then nil.
func Check(filename string, file *syntax.File, conf *Config, info *Info) (pkg *types.Package, err error) {
	if conf == nil {
		conf = &Config{}
	}
	if info == nil {
		info = &Info{}
	}
	if info.Types == nil {
		info.Types = make(map[syntax.Expr]types.Type)
	}
	if info.Defs == nil {
		info.Defs = make(map[syntax.Node]types.Object)
	}
	if info.Uses == nil {
		info.Uses = make(map[syntax.Node]types.Object)
	}
	if info.Scopes == nil {
		info.Scopes = make(map[syntax.Node]*types.Scope)
	}

	c := &Checker{
		conf:        conf,
		info:        info,
		filename:    filename,
		structDecls: make(map[*syntax.StructDecl]*types.Struct),
		initialized: make(map[*types.Var]bool),
	}

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			pkg, err = nil, b.err
		}
	}()

	c.checkFile(file)

	if c.errors > 0 {
		return c.pkg, c.first
	}
	return c.pkg, nil
}
