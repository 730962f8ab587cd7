package types2

import (
	"fmt"

	"github.com/you-not-fish/klang/internal/syntax"
	"github.com/you-not-fish/klang/internal/types"
)

// stmts checks a list of statements.
func (c *Checker) stmts(list []syntax.Stmt) {
	for _, s := range list {
		c.stmt(s)
	}
}

// stmt checks a single statement.
func (c *Checker) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.EmptyStmt:
		// Nothing to check

	case *syntax.ExprStmt:
		c.exprStmt(s)

	case *syntax.VarDeclStmt:
		c.varDecl(s)

	case *syntax.AssignStmt:
		c.assignStmt(s)

	case *syntax.FieldAssignStmt:
		c.fieldAssignStmt(s)

	case *syntax.BlockStmt:
		c.stmts(s.Stmts)

	case *syntax.IfStmt:
		c.ifStmt(s)

	case *syntax.LoopStmt:
		c.loopDepth++
		c.stmts(s.Body.Stmts)
		c.loopDepth--

	case *syntax.BreakStmt:
		if c.loopDepth == 0 {
			c.errorf(s.Pos(), "break is not in a loop")
		}

	case *syntax.ReturnStmt:
		c.returnStmt(s)

	case *syntax.DropStmt:
		c.dropStmt(s)

	default:
		c.fatalf(s, "unexpected statement %T", s)
	}
}

// exprStmt checks an expression statement. Its value must be void.
func (c *Checker) exprStmt(s *syntax.ExprStmt) {
	t := c.expr(s.X)
	if !types.IsVoid(t) && !types.IsInvalid(t) {
		c.errorf(s.Pos(), "unused result of type %s", t)
	}
}

// varDecl checks let name [: T] [= init];
func (c *Checker) varDecl(s *syntax.VarDeclStmt) {
	var initType types.Type
	if s.Init != nil {
		initType = c.expr(s.Init)
	}

	var t types.Type
	switch {
	case s.Type != nil:
		t = c.typeOf(s.Type)
		if types.IsVoid(t) {
			c.errorf(s.Type.Pos(), "variable '%s' cannot have type void", s.Name)
			t = invalid
		} else if s.Init != nil {
			c.assignable(s.Init, initType, t, fmt.Sprintf("declaration of '%s'", s.Name))
		}
	case s.Init != nil:
		t = initType
		if types.IsVoid(t) || types.IsNull(t) {
			c.errorf(s.Init.Pos(), "cannot infer type of '%s' from %s", s.Name, t)
			t = invalid
		}
	default:
		c.errorf(s.Pos(), "declaration of '%s' needs a type or an initializer", s.Name)
		t = invalid
	}

	v := types.NewVar(s.Pos(), s.Name, t)
	if !c.declareVar(v) {
		return
	}
	c.info.Defs[s] = v
	if s.Init != nil {
		c.initialized[v] = true
	}
}

// assignStmt checks name = value; and marks the variable initialized.
func (c *Checker) assignStmt(s *syntax.AssignStmt) {
	t := c.expr(s.Value)
	v := c.lookupVar(s.Name)
	if v == nil {
		c.errorf(s.Pos(), "assignment to undeclared variable '%s'", s.Name)
		return
	}
	c.use(s, v)
	c.assignable(s.Value, t, v.Type(), fmt.Sprintf("assignment to '%s'", s.Name))
	c.initialized[v] = true
}

// fieldAssignStmt checks chain.f = value;
func (c *Checker) fieldAssignStmt(s *syntax.FieldAssignStmt) {
	if len(s.Target.Chain) == 0 {
		c.fatalf(s, "field assignment without accessor")
	}
	last, ok := s.Target.Last().(*syntax.FieldSet)
	if !ok {
		c.fatalf(s, "field assignment target ends in %T", s.Target.Last())
	}
	ft := c.expr(s.Target)
	t := c.expr(s.Value)
	c.assignable(s.Value, t, ft, fmt.Sprintf("assignment to field '%s'", last.Name))
}

// ifStmt checks if cond then [else].
func (c *Checker) ifStmt(s *syntax.IfStmt) {
	c.condition(s.Cond, c.expr(s.Cond))
	c.stmts(s.Then.Stmts)
	if s.Else != nil {
		c.stmt(s.Else)
	}
}

// returnStmt checks return [value]; against the function result.
func (c *Checker) returnStmt(s *syntax.ReturnStmt) {
	result := c.fn.Result()
	if s.Result == nil {
		if !types.IsVoid(result) && !types.IsInvalid(result) {
			c.errorf(s.Pos(), "missing return value (%s returns %s)", c.fn.FullName(), result)
		}
		return
	}
	t := c.expr(s.Result)
	if types.IsVoid(result) {
		c.errorf(s.Result.Pos(), "unexpected return value in void function %s", c.fn.FullName())
		return
	}
	c.assignable(s.Result, t, result, fmt.Sprintf("return from %s", c.fn.FullName()))
}

// dropStmt checks drop name; the variable must hold a reference.
func (c *Checker) dropStmt(s *syntax.DropStmt) {
	v := c.lookupVar(s.Name)
	if v == nil {
		c.errorf(s.Pos(), "use of undefined variable '%s'", s.Name)
		return
	}
	c.use(s, v)
	if !c.initialized[v] {
		c.errorf(s.Pos(), "use of uninitialized variable '%s'", s.Name)
	}
	if t := v.Type(); !t.IsReference() && !types.IsInvalid(t) {
		c.errorf(s.Pos(), "cannot drop '%s' of non-reference type %s", s.Name, t)
	}
}

// blockMustReturn reports whether all control-flow paths through this
// statement list end in a return. A loop without a break of its own never
// falls through.
func (c *Checker) blockMustReturn(stmts []syntax.Stmt) bool {
	for _, s := range stmts {
		if c.stmtMustReturn(s) {
			return true
		}
	}
	return false
}

func (c *Checker) stmtMustReturn(s syntax.Stmt) bool {
	switch s := s.(type) {
	case *syntax.ReturnStmt:
		return true
	case *syntax.BlockStmt:
		return c.blockMustReturn(s.Stmts)
	case *syntax.IfStmt:
		if s.Else == nil {
			return false
		}
		return c.blockMustReturn(s.Then.Stmts) && c.stmtMustReturn(s.Else)
	case *syntax.LoopStmt:
		return !hasBreak(s.Body)
	}
	return false
}

// hasBreak reports whether n contains a break that leaves the loop whose
// body is n. Breaks inside nested loops do not count.
func hasBreak(n syntax.Node) bool {
	found := false
	syntax.Inspect(n, func(n syntax.Node) bool {
		switch n.(type) {
		case *syntax.BreakStmt:
			found = true
		case *syntax.LoopStmt:
			return false
		}
		return !found
	})
	return found
}
