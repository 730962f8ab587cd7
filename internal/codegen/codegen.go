// Package codegen lowers a type-checked klang file to x86-64 assembly
// (AT&T syntax, System V AMD64 calling convention) for the GNU assembler.
package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/you-not-fish/klang/internal/rtabi"
	"github.com/you-not-fish/klang/internal/syntax"
	"github.com/you-not-fish/klang/internal/types"
	"github.com/you-not-fish/klang/internal/types2"
)

// Config names the compilation unit.
type Config struct {
	Package string // package name, "klang" if empty
	Unit    string // unit name, usually the source base name
}

// FileName returns the artifact name "<package>.<unit><ext>".
func (c Config) FileName(ext string) string {
	pkg := c.Package
	if pkg == "" {
		pkg = "klang"
	}
	return pkg + "." + c.Unit + ext
}

// GenError reports an AST shape the generator cannot lower. It indicates
// a checker defect rather than a user error.
type GenError struct {
	Pos  syntax.Pos
	Node syntax.Node
	Msg  string
}

func (e *GenError) Error() string {
	return fmt.Sprintf("%s: codegen: %s", e.Pos, e.Msg)
}

// bailout carries a GenError out of deep recursion.
type bailout struct{ err *GenError }

// Generate writes the assembly for file to w. The file must have been
// checked without errors; info and pkg are the checker results.
func Generate(w io.Writer, file *syntax.File, info *types2.Info, pkg *types.Package, cfg Config) (err error) {
	g := &generator{
		file:   file,
		info:   info,
		pkg:    pkg,
		cfg:    cfg,
		sizes:  types.DefaultSizes,
		rodata: newRodata(),
	}
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			err = b.err
		}
	}()
	g.genFile()

	e := &emitter{w: w}
	g.writeTo(e)
	if e.err != nil {
		return fmt.Errorf("write %s: %w", cfg.FileName(".s"), e.err)
	}
	return nil
}

// generator holds the state of one Generate call.
type generator struct {
	file  *syntax.File
	info  *types2.Info
	pkg   *types.Package
	cfg   Config
	sizes *types.Sizes

	rodata *dataSection
	text   strings.Builder

	labels int        // .LJ<n> counter
	fn     *funcState // function being lowered
}

// funcState is the per-function lowering state. The body is buffered
// so the prologue can reserve the final frame size.
type funcState struct {
	sym    string
	body   strings.Builder
	e      *emitter
	frame  *frame
	exit   string   // return target
	loops  []string // end labels of the enclosing loops, innermost last
	result types.Type
}

func (g *generator) fatalf(n syntax.Node, format string, args ...interface{}) {
	err := &GenError{Node: n, Msg: fmt.Sprintf(format, args...)}
	if n != nil {
		err.Pos = n.Pos()
	}
	panic(bailout{err})
}

// newLabel returns a fresh code label.
func (g *generator) newLabel() string {
	l := fmt.Sprintf(".LJ%d", g.labels)
	g.labels++
	return l
}

// genFile lowers all declarations in source order, then the string
// stdlib and the startup entry.
func (g *generator) genFile() {
	for _, d := range g.file.Decls {
		switch d := d.(type) {
		case *syntax.StructDecl:
			s := g.info.StructOf(d)
			if s == nil {
				g.fatalf(d, "struct %s was not checked", d.Name)
			}
			g.genStructRoutines(s)
			for _, md := range d.Methods {
				g.genFunc(md)
			}
		case *syntax.FuncDecl:
			g.genFunc(d)
		default:
			g.fatalf(d, "unexpected declaration %T", d)
		}
	}
	g.genStringStdlib()
	g.genStartup()
}

// writeTo writes the finished unit.
func (g *generator) writeTo(e *emitter) {
	e.emit("\t.file\t\"%s\"", g.cfg.FileName(".s"))
	if !g.rodata.empty() {
		e.emit("%s", strings.TrimSuffix(g.rodata.String(), "\n"))
	}
	e.emit("\t.text")
	e.emit("%s", strings.TrimSuffix(g.text.String(), "\n"))
	e.emit("\n\t.section\t.note.GNU-stack,\"\",@progbits")
}

// ----------------------------------------------------------------------------
// Functions

// begin starts lowering a routine named sym.
func (g *generator) begin(sym string, result types.Type) {
	fn := &funcState{sym: sym, frame: newFrame(), result: result}
	fn.e = &emitter{w: &fn.body}
	g.fn = fn
	fn.exit = g.newLabel()
}

// end wraps the buffered body in its prologue and epilogue and appends
// the routine to the text section.
func (g *generator) end() {
	fn := g.fn
	e := &emitter{w: &g.text}
	e.emit("")
	e.emitDirective(".globl", fn.sym)
	e.emitDirective(".type", fn.sym, "@function")
	e.emitLabel(fn.sym)
	e.emitInst("pushq", "%rbp")
	e.emitInst("movq", "%rsp", "%rbp")
	if n := fn.frame.size(); n > 0 {
		e.emitInst("subq", imm(n), "%rsp")
	}
	g.text.WriteString(fn.body.String())
	e.emitLabel(fn.exit)
	e.emitInst("leave")
	e.emitInst("ret")
	e.emitDirective(".size", fn.sym, ".-"+fn.sym)
	g.fn = nil
}

// inst emits an instruction into the current function body.
func (g *generator) inst(op string, operands ...string) {
	g.fn.e.emitInst(op, operands...)
}

func (g *generator) label(l string) {
	g.fn.e.emitLabel(l)
}

// genFunc lowers a function or method declaration.
func (g *generator) genFunc(d *syntax.FuncDecl) {
	f := g.info.FuncOf(d)
	if f == nil {
		g.fatalf(d, "function %s was not checked", d.Name)
	}
	g.begin(f.Symbol(), f.Result())

	var params []*types.Var
	if f.IsMethod() {
		params = append(params, f.Self())
	}
	params = append(params, f.Params()...)
	g.storeParams(params)

	syntax.Inspect(d.Body, func(n syntax.Node) bool {
		if s, ok := n.(*syntax.VarDeclStmt); ok {
			v := g.info.VarOf(s)
			if v == nil {
				g.fatalf(s, "variable %s was not checked", s.Name)
			}
			g.fn.frame.declare(v)
		}
		return true
	})

	g.block(d.Body)
	g.end()
}

// storeParams copies incoming arguments into frame slots. Register
// arguments are consumed in order per class; the rest were pushed by
// the caller and sit above the return address.
func (g *generator) storeParams(params []*types.Var) {
	var ints, floats int
	stack := int64(rtabi.ParamStackOffset)
	for _, p := range params {
		off := g.fn.frame.declare(p)
		float := p.Type().IsFloat()
		switch {
		case float && floats < len(rtabi.FloatArgRegs):
			g.inst("movsd", rtabi.FloatArgRegs[floats], mem(off, "%rbp"))
			floats++
		case !float && ints < len(rtabi.IntArgRegs):
			g.inst("movq", rtabi.IntArgRegs[ints], mem(off, "%rbp"))
			ints++
		default:
			g.inst("movq", mem(stack, "%rbp"), "%rax")
			g.inst("movq", "%rax", mem(off, "%rbp"))
			stack += rtabi.WordSize
		}
	}
}

// genStartup emits the C entry point, which runs the klang main and
// turns its result into the process exit status.
func (g *generator) genStartup() {
	entry := g.pkg.Entry()
	if entry == nil {
		g.fatalf(nil, "package has no entry function")
	}
	g.begin(rtabi.StartupSymbol, types.Typ[types.I64])
	g.inst("call", rtabi.EntrySymbol)
	if types.IsVoid(entry.Result()) {
		g.inst("movq", imm(0), "%rax")
	}
	g.end()
}
