package codegen

import (
	"math"

	"github.com/you-not-fish/klang/internal/rtabi"
	"github.com/you-not-fish/klang/internal/syntax"
	"github.com/you-not-fish/klang/internal/types"
)

// typeOf returns the checked type of e.
func (g *generator) typeOf(e syntax.Expr) types.Type {
	t := g.info.TypeOf(e)
	if t == nil {
		g.fatalf(e, "expression %T has no type", e)
	}
	return t
}

// varOf returns the variable n refers to and its frame slot.
func (g *generator) varOf(n syntax.Node) (*types.Var, int64) {
	v := g.info.VarOf(n)
	if v == nil {
		g.fatalf(n, "unresolved variable")
	}
	off, ok := g.fn.frame.lookup(v)
	if !ok {
		g.fatalf(n, "variable %s has no frame slot", v.Name())
	}
	return v, off
}

// load moves the word at off(%rbp) into the result register of t.
func (g *generator) load(off int64, t types.Type) {
	if t.IsFloat() {
		g.inst("movsd", mem(off, "%rbp"), "%xmm0")
	} else {
		g.inst("movq", mem(off, "%rbp"), "%rax")
	}
}

// spill stores the result register of t to off(%rbp).
func (g *generator) spill(off int64, float bool) {
	if float {
		g.inst("movsd", "%xmm0", mem(off, "%rbp"))
	} else {
		g.inst("movq", "%rax", mem(off, "%rbp"))
	}
}

// movImm loads an integer constant into rax.
func (g *generator) movImm(v int64) {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		g.inst("movq", imm(v), "%rax")
	} else {
		g.inst("movabsq", imm(v), "%rax")
	}
}

// expr lowers e. The value ends up in %rax, or in %xmm0 for f64.
func (g *generator) expr(e syntax.Expr) {
	switch e := e.(type) {
	case *syntax.IntLit:
		if g.typeOf(e).IsFloat() {
			g.inst("movsd", rip(g.rodata.doubleLit(float64(e.Value))), "%xmm0")
		} else {
			g.movImm(e.Value)
		}

	case *syntax.FloatLit:
		g.inst("movsd", rip(g.rodata.doubleLit(e.Value)), "%xmm0")

	case *syntax.BoolLit:
		if e.Value {
			g.inst("movq", imm(1), "%rax")
		} else {
			g.inst("movq", imm(0), "%rax")
		}

	case *syntax.StringLit:
		// A literal value is a heap copy, so its owner may drop it.
		g.call(rtabi.StringNew, []arg{{load: func() { g.borrow(e) }}}, false)

	case *syntax.NullLit:
		g.inst("movq", imm(0), "%rax")

	case *syntax.Var:
		v, off := g.varOf(e)
		g.load(off, v.Type())

	case *syntax.FunCall:
		g.funCall(e)

	case *syntax.ConstructorCall:
		g.constructorCall(e)

	case *syntax.MemberChain:
		g.memberChain(e)

	case *syntax.BinOpExpr:
		g.binary(e)

	case *syntax.UnaryOpExpr:
		g.unary(e)

	case *syntax.TernaryExpr:
		g.ternary(e)

	case *syntax.TypeCast:
		g.typeCast(e)

	default:
		g.fatalf(e, "unexpected expression %T", e)
	}
}

// borrow lowers x for a callee that only reads it. A string literal is
// passed as its pooled address without a copy.
func (g *generator) borrow(x syntax.Expr) {
	if lit, ok := x.(*syntax.StringLit); ok {
		g.inst("leaq", rip(g.rodata.stringLit(lit.Value)), "%rax")
		return
	}
	g.expr(x)
}

// binary evaluates both operands, lhs first, then combines them with
// lhs in %rax/%xmm0 and rhs in %rcx/%xmm1.
func (g *generator) binary(e *syntax.BinOpExpr) {
	float := g.typeOf(e.X).IsFloat()

	tmp := g.fn.frame.alloc()
	g.expr(e.X)
	g.spill(tmp, float)
	g.expr(e.Y)
	if float {
		g.inst("movsd", "%xmm0", "%xmm1")
		g.inst("movsd", mem(tmp, "%rbp"), "%xmm0")
	} else {
		g.inst("movq", "%rax", "%rcx")
		g.inst("movq", mem(tmp, "%rbp"), "%rax")
	}
	g.fn.frame.free(tmp)

	if float {
		g.floatOp(e)
	} else {
		g.intOp(e)
	}
}

var intSetcc = map[syntax.BinaryOp]string{
	syntax.Eq:  "sete",
	syntax.Neq: "setne",
	syntax.Gt:  "setg",
	syntax.Gte: "setge",
	syntax.Lt:  "setl",
	syntax.Lte: "setle",
}

func (g *generator) intOp(e *syntax.BinOpExpr) {
	switch op := e.Op; op {
	case syntax.Add:
		g.inst("addq", "%rcx", "%rax")
	case syntax.Sub:
		g.inst("subq", "%rcx", "%rax")
	case syntax.Mul:
		g.inst("imulq", "%rcx", "%rax")
	case syntax.Div:
		g.inst("cqto")
		g.inst("idivq", "%rcx")
	case syntax.Mod:
		g.inst("cqto")
		g.inst("idivq", "%rcx")
		g.inst("movq", "%rdx", "%rax")
	case syntax.And:
		g.inst("andq", "%rcx", "%rax")
	case syntax.Or:
		g.inst("orq", "%rcx", "%rax")
	case syntax.Eq, syntax.Neq, syntax.Gt, syntax.Gte, syntax.Lt, syntax.Lte:
		g.inst("cmpq", "%rcx", "%rax")
		g.inst(intSetcc[op], "%al")
		g.inst("movzbq", "%al", "%rax")
	default:
		g.fatalf(e, "unexpected integer operator %s", op)
	}
}

// floatSetcc only uses the above conditions, which are false when
// comisd reports unordered. x < y is lowered as y > x.
var floatSetcc = map[syntax.BinaryOp]string{
	syntax.Gt:  "seta",
	syntax.Gte: "setae",
	syntax.Lt:  "seta",
	syntax.Lte: "setae",
}

func (g *generator) floatOp(e *syntax.BinOpExpr) {
	switch op := e.Op; op {
	case syntax.Add:
		g.inst("addsd", "%xmm1", "%xmm0")
	case syntax.Sub:
		g.inst("subsd", "%xmm1", "%xmm0")
	case syntax.Mul:
		g.inst("mulsd", "%xmm1", "%xmm0")
	case syntax.Div:
		g.inst("divsd", "%xmm1", "%xmm0")
	case syntax.Eq:
		// equal: ZF set and PF clear
		g.inst("movq", imm(0), "%rax")
		g.inst("ucomisd", "%xmm1", "%xmm0")
		g.inst("setnp", "%al")
		g.inst("movq", imm(0), "%rdx")
		g.inst("cmovne", "%rdx", "%rax")
	case syntax.Neq:
		g.inst("movq", imm(0), "%rax")
		g.inst("ucomisd", "%xmm1", "%xmm0")
		g.inst("setp", "%al")
		g.inst("movq", imm(1), "%rdx")
		g.inst("cmovne", "%rdx", "%rax")
	case syntax.Gt, syntax.Gte:
		g.inst("movq", imm(0), "%rax")
		g.inst("comisd", "%xmm1", "%xmm0")
		g.inst(floatSetcc[op], "%al")
	case syntax.Lt, syntax.Lte:
		g.inst("movq", imm(0), "%rax")
		g.inst("comisd", "%xmm0", "%xmm1")
		g.inst(floatSetcc[op], "%al")
	default:
		g.fatalf(e, "unexpected float operator %s", op)
	}
}

func (g *generator) unary(e *syntax.UnaryOpExpr) {
	g.expr(e.X)
	switch e.Op {
	case syntax.Neg:
		if g.typeOf(e.X).IsFloat() {
			g.inst("xorpd", rip(g.rodata.signMask()), "%xmm0")
		} else {
			g.inst("negq", "%rax")
		}
	case syntax.Not:
		g.inst("xorq", imm(1), "%rax")
	default:
		g.fatalf(e, "unexpected unary operator %s", e.Op)
	}
}

// ternary is lowered like if/else; both arms leave their value in the
// same register.
func (g *generator) ternary(e *syntax.TernaryExpr) {
	elseLabel, endLabel := g.newLabel(), g.newLabel()
	g.expr(e.Cond)
	g.inst("testq", "%rax", "%rax")
	g.inst("je", elseLabel)
	g.expr(e.Then)
	g.inst("jmp", endLabel)
	g.label(elseLabel)
	g.expr(e.Else)
	g.label(endLabel)
}

func (g *generator) typeCast(e *syntax.TypeCast) {
	g.expr(e.X)
	from, to := g.typeOf(e.X), g.typeOf(e)
	switch {
	case types.IsI64(from) && to.IsFloat():
		g.inst("cvtsi2sdq", "%rax", "%xmm0")
	case from.IsFloat() && types.IsI64(to):
		g.inst("cvttsd2siq", "%xmm0", "%rax")
	case types.Identical(from, to):
	default:
		g.fatalf(e, "cannot lower conversion from %s to %s", from, to)
	}
}
