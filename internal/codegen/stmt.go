package codegen

import (
	"github.com/you-not-fish/klang/internal/rtabi"
	"github.com/you-not-fish/klang/internal/syntax"
	"github.com/you-not-fish/klang/internal/types"
)

func (g *generator) block(b *syntax.BlockStmt) {
	for _, s := range b.Stmts {
		g.stmt(s)
	}
}

func (g *generator) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.EmptyStmt:

	case *syntax.ExprStmt:
		g.expr(s.X)

	case *syntax.VarDeclStmt:
		if s.Init != nil {
			v, off := g.varOf(s)
			g.expr(s.Init)
			g.spill(off, v.Type().IsFloat())
		}

	case *syntax.AssignStmt:
		v, off := g.varOf(s)
		g.expr(s.Value)
		g.spill(off, v.Type().IsFloat())

	case *syntax.FieldAssignStmt:
		g.fieldAssign(s)

	case *syntax.BlockStmt:
		g.block(s)

	case *syntax.IfStmt:
		g.ifStmt(s)

	case *syntax.LoopStmt:
		top, end := g.newLabel(), g.newLabel()
		g.label(top)
		g.fn.loops = append(g.fn.loops, end)
		g.block(s.Body)
		g.fn.loops = g.fn.loops[:len(g.fn.loops)-1]
		g.inst("jmp", top)
		g.label(end)

	case *syntax.BreakStmt:
		if len(g.fn.loops) == 0 {
			g.fatalf(s, "break outside loop")
		}
		g.inst("jmp", g.fn.loops[len(g.fn.loops)-1])

	case *syntax.ReturnStmt:
		if s.Result != nil {
			g.expr(s.Result)
		}
		g.inst("jmp", g.fn.exit)

	case *syntax.DropStmt:
		v, off := g.varOf(s)
		g.load(off, v.Type())
		g.call(g.destructor(s, v.Type()), []arg{self}, false)

	default:
		g.fatalf(s, "unexpected statement %T", s)
	}
}

func (g *generator) ifStmt(s *syntax.IfStmt) {
	end := g.newLabel()
	next := end
	if s.Else != nil {
		next = g.newLabel()
	}
	g.expr(s.Cond)
	g.inst("testq", "%rax", "%rax")
	g.inst("je", next)
	g.block(s.Then)
	if s.Else != nil {
		g.inst("jmp", end)
		g.label(next)
		g.stmt(s.Else)
	}
	g.label(end)
}

// fieldAssign evaluates the chain up to the last link, then calls the
// setter of the target field on that receiver.
func (g *generator) fieldAssign(s *syntax.FieldAssignStmt) {
	chain := s.Target.Chain
	if len(chain) == 0 {
		g.fatalf(s, "field assignment without a field")
	}
	g.expr(s.Target.Owner)
	recv := g.typeOf(s.Target.Owner)
	for _, a := range chain[:len(chain)-1] {
		g.accessor(a, recv, nil)
		recv = g.typeOf(a)
	}
	g.accessor(chain[len(chain)-1], recv, s.Value)
}

// destructor returns the routine releasing a value of type t.
func (g *generator) destructor(n syntax.Node, t types.Type) string {
	switch t := t.(type) {
	case *types.Struct:
		return rtabi.Destructor(t.Name())
	default:
		if types.IsString(t) {
			return rtabi.StringDrop
		}
	}
	g.fatalf(n, "cannot drop a value of type %s", t)
	return ""
}
