package types2

import (
	"github.com/you-not-fish/klang/internal/syntax"
	"github.com/you-not-fish/klang/internal/types"
)

var invalid = types.Typ[types.Invalid]

// expr checks e and records its type.
func (c *Checker) expr(e syntax.Expr) types.Type {
	return c.record(e, c.exprInternal(e))
}

func (c *Checker) exprInternal(e syntax.Expr) types.Type {
	switch e := e.(type) {
	case *syntax.IntLit:
		return c.intLit(e)

	case *syntax.FloatLit:
		return c.floatLit(e)

	case *syntax.BoolLit:
		return types.Typ[types.Bool]

	case *syntax.StringLit:
		return types.Typ[types.String]

	case *syntax.NullLit:
		return types.Typ[types.Null]

	case *syntax.Var:
		return c.variable(e)

	case *syntax.FunCall:
		return c.funCall(e)

	case *syntax.ConstructorCall:
		return c.constructorCall(e)

	case *syntax.MemberChain:
		return c.memberChain(e)

	case *syntax.BinOpExpr:
		return c.binary(e)

	case *syntax.UnaryOpExpr:
		return c.unary(e)

	case *syntax.TernaryExpr:
		return c.ternary(e)

	case *syntax.TypeCast:
		return c.typeCast(e)

	default:
		c.fatalf(e, "unexpected expression %T", e)
		return nil
	}
}

// intLit types an integer literal. "as f64" makes it a float literal.
func (c *Checker) intLit(e *syntax.IntLit) types.Type {
	if e.Suffix == nil {
		return types.Typ[types.I64]
	}
	switch t := types.LookupType(e.Suffix.Name); {
	case t != nil && t.IsNumeric():
		return t
	default:
		c.errorf(e.Suffix.Pos(), "invalid literal annotation '%s' (must be i64 or f64)", e.Suffix.Name)
		return types.Typ[types.I64]
	}
}

// floatLit types a float literal. Annotating it as i64 would silently
// truncate the value and is fatal.
func (c *Checker) floatLit(e *syntax.FloatLit) types.Type {
	if e.Suffix == nil {
		return types.Typ[types.F64]
	}
	switch t := types.LookupType(e.Suffix.Name); {
	case types.IsI64(t):
		c.fatalf(e, "float literal %g cannot be annotated as i64", e.Value)
	case t != nil && t.IsFloat():
		return t
	default:
		c.errorf(e.Suffix.Pos(), "invalid literal annotation '%s' (must be f64)", e.Suffix.Name)
	}
	return types.Typ[types.F64]
}

// variable checks a variable reference: it must be declared in the
// current function and assigned before this point.
func (c *Checker) variable(e *syntax.Var) types.Type {
	v := c.lookupVar(e.Name)
	if v == nil {
		c.errorf(e.Pos(), "use of undefined variable '%s'", e.Name)
		return invalid
	}
	c.use(e, v)
	if !c.initialized[v] {
		c.errorf(e.Pos(), "use of uninitialized variable '%s'", e.Name)
	}
	return v.Type()
}

// binary checks a binary operation. The result type is set even when the
// operands do not fit the operator.
func (c *Checker) binary(e *syntax.BinOpExpr) types.Type {
	x := c.expr(e.X)
	y := c.expr(e.Y)
	op := e.Op

	var result types.Type
	var ok bool
	var hint string
	switch {
	case op.IsArithmetic():
		result = x
		ok = x.IsNumeric() && types.Identical(x, y)
		hint = "operand types must be numeric and equal"
		if ok && op == syntax.Mod && !types.IsI64(x) {
			ok = false
			hint = "modulo requires i64 operands"
		}
	case op.IsEquality():
		result = types.Typ[types.Bool]
		ok = types.Comparable(x, y)
		hint = "operand types must be equal or reference types"
	case op.IsOrdering():
		result = types.Typ[types.Bool]
		ok = x.IsNumeric() && types.Identical(x, y)
		hint = "operand types must be equal and numeric"
	case op.IsBoolean():
		result = types.Typ[types.Bool]
		ok = types.IsBool(x) && types.IsBool(y)
		hint = "operands must be bool"
	default:
		c.fatalf(e, "unknown binary operator %s", op)
	}

	if !ok && !types.IsInvalid(x) && !types.IsInvalid(y) {
		c.errorf(e.Pos(), "can't use binary '%s' with operands %s, %s (%s)", op, x, y, hint)
	}
	return result
}

// unary checks a unary operation.
func (c *Checker) unary(e *syntax.UnaryOpExpr) types.Type {
	x := c.expr(e.X)
	switch e.Op {
	case syntax.Neg:
		if !x.IsNumeric() && !types.IsInvalid(x) {
			c.errorf(e.Pos(), "can't use unary '-' with operand %s (operand must be numeric)", x)
		}
		return x
	case syntax.Not:
		if !types.IsBool(x) && !types.IsInvalid(x) {
			c.errorf(e.Pos(), "can't use unary '!' with operand %s (operand must be bool)", x)
		}
		return types.Typ[types.Bool]
	}
	c.fatalf(e, "unknown unary operator %s", e.Op)
	return nil
}

// ternary checks cond ? then : else. The result is the then type, or the
// else type when then is null.
func (c *Checker) ternary(e *syntax.TernaryExpr) types.Type {
	cond := c.expr(e.Cond)
	then := c.expr(e.Then)
	els := c.expr(e.Else)

	c.condition(e.Cond, cond)
	if !types.Compatible(then, els) {
		c.errorf(e.Then.Pos(), "conditional branches have incompatible types %s and %s", then, els)
	}
	if types.IsNull(then) && els.IsReference() {
		return els
	}
	return then
}

// condition reports a non-bool condition.
func (c *Checker) condition(e syntax.Expr, t types.Type) {
	if !types.IsBool(t) && !types.IsInvalid(t) {
		c.errorf(e.Pos(), "condition must be bool, not %s", t)
	}
}

// typeCast checks a numeric conversion.
func (c *Checker) typeCast(e *syntax.TypeCast) types.Type {
	x := c.expr(e.X)
	target := c.typeOf(e.Type)
	if types.IsInvalid(x) || types.IsInvalid(target) {
		return target
	}
	if !x.IsNumeric() || !target.IsNumeric() {
		c.errorf(e.Pos(), "cannot convert %s to %s (only numeric conversions are allowed)", x, target)
	}
	return target
}

// assignable reports an error if a value of type v cannot be stored in a
// location of type t. context describes the location.
func (c *Checker) assignable(e syntax.Expr, v, t types.Type, context string) {
	if !types.AssignableTo(v, t) {
		c.errorf(e.Pos(), "cannot use %s as %s in %s", v, t, context)
	}
}
