package types2

import (
	"fmt"

	"github.com/you-not-fish/klang/internal/syntax"
	"github.com/you-not-fish/klang/internal/types"
)

// args checks a list of call arguments and returns their types.
func (c *Checker) args(list []syntax.Expr) []types.Type {
	ts := make([]types.Type, len(list))
	for i, a := range list {
		ts[i] = c.expr(a)
	}
	return ts
}

// checkArgs matches argument types against parameter types: exact
// arity, and each argument assignable to its parameter.
func (c *Checker) checkArgs(call syntax.Node, callee string, args []syntax.Expr, argTypes, params []types.Type) {
	if len(args) != len(params) {
		c.errorf(call.Pos(), "wrong number of arguments in call to %s: expected %d, got %d", callee, len(params), len(args))
	}
	for i := 0; i < len(args) && i < len(params); i++ {
		c.assignable(args[i], argTypes[i], params[i], fmt.Sprintf("argument %d of %s", i+1, callee))
	}
}

func varTypes(vars []*types.Var) []types.Type {
	ts := make([]types.Type, len(vars))
	for i, v := range vars {
		ts[i] = v.Type()
	}
	return ts
}

// funCall checks a call of a free function or of the builtin print.
func (c *Checker) funCall(e *syntax.FunCall) types.Type {
	argTypes := c.args(e.Args)

	obj, _ := c.pkg.Scope().LookupParent(e.Name)
	switch obj := obj.(type) {
	case *types.Func:
		c.use(e, obj)
		c.checkArgs(e, e.Name, e.Args, argTypes, varTypes(obj.Params()))
		return obj.Result()

	case *types.Builtin:
		c.use(e, obj)
		c.print(e, argTypes)
		return obj.Type()
	}

	c.errorf(e.Pos(), "unknown function '%s'", e.Name)
	return invalid
}

// print checks a call of the builtin print, overloaded on string, i64,
// f64 and bool.
func (c *Checker) print(e *syntax.FunCall, argTypes []types.Type) {
	if len(argTypes) != 1 {
		c.errorf(e.Pos(), "wrong number of arguments in call to print: expected 1, got %d", len(argTypes))
		return
	}
	t := argTypes[0]
	if !types.IsPrimitive(t) || types.IsVoid(t) {
		if !types.IsInvalid(t) {
			c.errorf(e.Args[0].Pos(), "cannot print value of type %s (want string, i64, f64 or bool)", t)
		}
	}
}

// constructorCall checks S{args}: arguments match the fields positionally.
func (c *Checker) constructorCall(e *syntax.ConstructorCall) types.Type {
	argTypes := c.args(e.Args)

	s := c.pkg.Struct(e.Struct)
	if s == nil {
		c.errorf(e.Pos(), "unknown struct '%s'", e.Struct)
		return invalid
	}
	c.use(e, c.pkg.Scope().Lookup(e.Struct))
	c.checkArgs(e, e.Struct+" constructor", e.Args, argTypes, varTypes(s.Fields()))
	return s
}

// memberChain checks owner.a.b.m(): each accessor is typed against the
// type produced by the previous link.
func (c *Checker) memberChain(e *syntax.MemberChain) types.Type {
	t := c.expr(e.Owner)
	for _, a := range e.Chain {
		t = c.record(a, c.accessor(a, t))
	}
	return t
}

func (c *Checker) accessor(a syntax.Accessor, recv types.Type) types.Type {
	switch a := a.(type) {
	case *syntax.FieldGet:
		return c.field(a, recv)

	case *syntax.FieldSet:
		return c.field(a, recv)

	case *syntax.MethodCall:
		return c.methodCall(a, recv)

	default:
		c.fatalf(a, "unexpected accessor %T", a)
		return nil
	}
}

// field resolves a field access on recv.
func (c *Checker) field(a syntax.Accessor, recv types.Type) types.Type {
	if types.IsInvalid(recv) {
		return invalid
	}
	s, ok := recv.(*types.Struct)
	if !ok {
		c.errorf(a.Pos(), "cannot access field '%s' of type %s (not a struct)", a.Member(), recv)
		return invalid
	}
	f := s.LookupField(a.Member())
	if f == nil {
		c.errorf(a.Pos(), "struct %s has no field '%s'", s, a.Member())
		return invalid
	}
	c.use(a, f)
	return f.Type()
}

// methodCall resolves a method call on recv: a user method, or one of the
// builtin methods of structs and strings.
func (c *Checker) methodCall(a *syntax.MethodCall, recv types.Type) types.Type {
	argTypes := c.args(a.Args)
	if types.IsInvalid(recv) {
		return invalid
	}

	switch m := types.LookupMethod(recv, a.Name).(type) {
	case *types.Func:
		c.use(a, m)
		c.checkArgs(a, m.FullName(), a.Args, argTypes, varTypes(m.Params()))
		return m.Result()

	case *types.Builtin:
		c.use(a, m)
		c.checkArgs(a, recv.String()+"."+a.Name, a.Args, argTypes, m.Params())
		return m.Type()
	}

	c.errorf(a.Pos(), "type %s has no method '%s'", recv, a.Name)
	return invalid
}
