package codegen

import (
	"github.com/you-not-fish/klang/internal/rtabi"
	"github.com/you-not-fish/klang/internal/syntax"
	"github.com/you-not-fish/klang/internal/types"
)

// arg is one call argument. load leaves the value in %rax or %xmm0; a
// nil load means the value is already there.
type arg struct {
	float bool
	load  func()
}

func (g *generator) exprArgs(list []syntax.Expr) []arg {
	args := make([]arg, len(list))
	for i, x := range list {
		x := x
		args[i] = arg{float: g.typeOf(x).IsFloat(), load: func() { g.expr(x) }}
	}
	return args
}

// borrowedArgs is exprArgs for the string stdlib and printf, which never
// keep their arguments.
func (g *generator) borrowedArgs(list []syntax.Expr) []arg {
	args := make([]arg, len(list))
	for i, x := range list {
		x := x
		args[i] = arg{float: g.typeOf(x).IsFloat(), load: func() { g.borrow(x) }}
	}
	return args
}

// call evaluates args left to right into temporaries, then passes them
// per the System V convention and calls target. For variadic targets
// %al holds the number of vector registers used.
func (g *generator) call(target string, args []arg, variadic bool) {
	f := g.fn.frame
	slots := make([]int64, len(args))
	for i, a := range args {
		slots[i] = f.alloc()
		if a.load != nil {
			a.load()
		}
		g.spill(slots[i], a.float)
	}

	var ints, floats int
	var stack []int
	regs := make([]string, len(args))
	for i, a := range args {
		switch {
		case a.float && floats < len(rtabi.FloatArgRegs):
			regs[i] = rtabi.FloatArgRegs[floats]
			floats++
		case !a.float && ints < len(rtabi.IntArgRegs):
			regs[i] = rtabi.IntArgRegs[ints]
			ints++
		default:
			stack = append(stack, i)
		}
	}

	pushed := int64(len(stack)) * rtabi.WordSize
	pad := types.Align(pushed, rtabi.StackAlign) - pushed
	if pad > 0 {
		g.inst("subq", imm(pad), "%rsp")
	}
	for j := len(stack) - 1; j >= 0; j-- {
		g.inst("pushq", mem(slots[stack[j]], "%rbp"))
	}
	for i, reg := range regs {
		switch {
		case reg == "":
		case args[i].float:
			g.inst("movsd", mem(slots[i], "%rbp"), reg)
		default:
			g.inst("movq", mem(slots[i], "%rbp"), reg)
		}
	}
	if variadic {
		g.inst("movl", imm(int64(floats)), "%eax")
	}
	g.inst("call", target)
	if n := pushed + pad; n > 0 {
		g.inst("addq", imm(n), "%rsp")
	}

	for i := len(slots) - 1; i >= 0; i-- {
		f.free(slots[i])
	}
}

func (g *generator) funCall(e *syntax.FunCall) {
	switch obj := g.info.Uses[e].(type) {
	case *types.Func:
		g.call(obj.Symbol(), g.exprArgs(e.Args), false)
	case *types.Builtin:
		if obj.Kind() != types.BuiltinPrint || len(e.Args) != 1 {
			g.fatalf(e, "unexpected builtin call %s", e.Name)
		}
		g.print(e.Args[0])
	default:
		g.fatalf(e, "unresolved function %s", e.Name)
	}
}

// print calls printf with a format chosen by the static type of x.
// No newline is printed.
func (g *generator) print(x syntax.Expr) {
	t := g.typeOf(x)
	var format string
	val := g.borrowedArgs([]syntax.Expr{x})[0]
	switch {
	case types.IsString(t):
		format = "%s"
	case types.IsI64(t):
		format = "%ld"
	case t.IsFloat():
		format = "%f"
	case types.IsBool(t):
		format = "%s"
		val.load = func() {
			g.expr(x)
			g.boolString("%rax", "%rax")
		}
	default:
		g.fatalf(x, "cannot print %s", t)
	}
	fmtLabel := g.rodata.stringLit(format)
	fmtArg := arg{load: func() { g.inst("leaq", rip(fmtLabel), "%rax") }}
	g.call(rtabi.PLT(rtabi.LibcPrintf), []arg{fmtArg, val}, true)
}

// boolString sets dst to the pooled "true" or "false" depending on the
// 0/1 word in src. Clobbers %rdx and %rsi.
func (g *generator) boolString(src, dst string) {
	g.inst("leaq", rip(g.rodata.stringLit("true")), "%rdx")
	g.inst("leaq", rip(g.rodata.stringLit("false")), "%rsi")
	g.inst("testq", src, src)
	g.inst("cmovne", "%rdx", "%rsi")
	g.inst("movq", "%rsi", dst)
}

func (g *generator) constructorCall(e *syntax.ConstructorCall) {
	s, ok := g.typeOf(e).(*types.Struct)
	if !ok {
		g.fatalf(e, "constructor of non-struct %s", e.Struct)
	}
	g.call(rtabi.Constructor(s.Name()), g.exprArgs(e.Args), false)
}

// memberChain evaluates the owner, then applies each accessor to the
// value of the previous link. A literal owner is only ever the receiver
// of a string builtin and is borrowed.
func (g *generator) memberChain(e *syntax.MemberChain) {
	g.borrow(e.Owner)
	recv := g.typeOf(e.Owner)
	for _, a := range e.Chain {
		g.accessor(a, recv, nil)
		recv = g.typeOf(a)
	}
}

// accessor applies a to the receiver in %rax. value is only used by a
// FieldSet.
func (g *generator) accessor(a syntax.Accessor, recv types.Type, value syntax.Expr) {
	switch a := a.(type) {
	case *syntax.FieldGet:
		s, f := g.fieldOf(a, recv)
		g.call(rtabi.Getter(s.Name(), f.Name()), []arg{self}, false)

	case *syntax.FieldSet:
		if value == nil {
			g.fatalf(a, "field store without a value")
		}
		s, f := g.fieldOf(a, recv)
		v := arg{float: f.Type().IsFloat(), load: func() { g.expr(value) }}
		g.call(rtabi.Setter(s.Name(), f.Name()), []arg{self, v}, false)

	case *syntax.MethodCall:
		switch m := g.info.Uses[a].(type) {
		case *types.Func:
			g.call(m.Symbol(), append([]arg{self}, g.exprArgs(a.Args)...), false)
		case *types.Builtin:
			g.call(g.builtinMethod(a, recv, m), append([]arg{self}, g.borrowedArgs(a.Args)...), false)
		default:
			g.fatalf(a, "unresolved method %s", a.Name)
		}

	default:
		g.fatalf(a, "unexpected accessor %T", a)
	}
}

func (g *generator) fieldOf(a syntax.Accessor, recv types.Type) (*types.Struct, *types.Var) {
	s, ok := recv.(*types.Struct)
	if !ok {
		g.fatalf(a, "field %s of non-struct %s", a.Member(), recv)
	}
	f, _ := g.info.Uses[a].(*types.Var)
	if f == nil || !f.IsField() {
		g.fatalf(a, "unresolved field %s.%s", s.Name(), a.Member())
	}
	return s, f
}

// builtinMethod returns the routine implementing a builtin method.
func (g *generator) builtinMethod(a *syntax.MethodCall, recv types.Type, m *types.Builtin) string {
	switch {
	case types.IsString(recv):
		return rtabi.Method(rtabi.StringType, a.Name)
	case types.IsStruct(recv) && m.Kind() == types.BuiltinToString:
		return rtabi.ToString(recv.(*types.Struct).Name())
	}
	g.fatalf(a, "no routine for %s.%s", recv, a.Name)
	return ""
}
