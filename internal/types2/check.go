package types2

import (
	"github.com/you-not-fish/klang/internal/syntax"
	"github.com/you-not-fish/klang/internal/types"
)

// Checker is the type checker.
type Checker struct {
	conf     *Config
	info     *Info
	pkg      *types.Package
	filename string

	// Function context
	fn          *types.Func
	scope       *types.Scope        // function scope; locals are function scoped
	initialized map[*types.Var]bool // variables assigned so far in source order
	loopDepth   int                 // nested loop depth (for break validation)

	// Struct objects keyed by declaration. A redeclared struct gets an
	// unregistered *types.Struct so its methods can still be checked.
	structDecls map[*syntax.StructDecl]*types.Struct

	// Error tracking
	errors int        // error count
	first  *TypeError // first error
}

// checkFile type-checks a single file.
func (c *Checker) checkFile(file *syntax.File) {
	name := c.conf.Package
	if name == "" {
		name = "main"
	}
	c.pkg = types.NewPackage(name)
	c.info.Scopes[file] = c.pkg.Scope()

	structs := file.Structs()
	funcs := file.Funcs()

	// Phase 1: Collect struct names
	for _, sd := range structs {
		c.collectStruct(sd)
	}

	// Phase 2: Resolve field types against earlier structs
	for i, sd := range structs {
		c.resolveFields(sd, structs[:i+1])
	}

	// Phase 3: Collect function and method signatures
	for _, fd := range funcs {
		c.collectFunc(fd)
	}
	for _, sd := range structs {
		for _, md := range sd.Methods {
			c.collectMethod(sd, md)
		}
	}

	// Phase 4: Check bodies
	for _, fd := range funcs {
		c.funcBody(fd)
	}
	for _, sd := range structs {
		for _, md := range sd.Methods {
			c.funcBody(md)
		}
	}

	// Phase 5: Entry point
	c.checkEntry(file)

	c.pkg.Complete()
}

// record records the type of an expression and returns it.
func (c *Checker) record(e syntax.Expr, t types.Type) types.Type {
	if t == nil {
		t = types.Typ[types.Invalid]
	}
	c.info.Types[e] = t
	return t
}

// use records the object a node refers to.
func (c *Checker) use(n syntax.Node, obj types.Object) {
	c.info.Uses[n] = obj
}

// lookupVar returns the variable name in the current function, or nil.
func (c *Checker) lookupVar(name string) *types.Var {
	if c.scope == nil {
		return nil
	}
	v, _ := c.scope.Lookup(name).(*types.Var)
	return v
}

// declareVar declares v in the function scope.
func (c *Checker) declareVar(v *types.Var) bool {
	if existing := c.scope.Insert(v); existing != nil {
		c.errorf(v.Pos(), "variable '%s' redeclared in %s", v.Name(), c.fn.FullName())
		return false
	}
	return true
}
