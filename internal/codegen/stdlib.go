package codegen

import (
	"github.com/you-not-fish/klang/internal/rtabi"
	"github.com/you-not-fish/klang/internal/types"
)

// genStringStdlib emits the string routines. They are emitted for every
// unit so struct routines and string methods can always reach them.
func (g *generator) genStringStdlib() {
	g.genLibcWrapper(rtabi.StringNew, rtabi.LibcStrdup, types.Typ[types.String])
	g.genLibcWrapper(rtabi.StringDrop, rtabi.LibcFree, types.Typ[types.Void])
	g.genLibcWrapper(rtabi.StringToString, rtabi.LibcStrdup, types.Typ[types.String])
	g.genLibcWrapper(rtabi.StringLen, rtabi.LibcStrlen, types.Typ[types.I64])
	g.genConcat()
}

// genLibcWrapper emits a routine forwarding its single argument to a
// libc function. The frame is empty so %rsp stays aligned at the call.
func (g *generator) genLibcWrapper(sym, libc string, result types.Type) {
	g.begin(sym, result)
	g.inst("call", rtabi.PLT(libc))
	g.end()
}

// genConcat emits string$concat(a, b), returning a fresh heap string.
func (g *generator) genConcat() {
	g.begin(rtabi.StringConcat, types.Typ[types.String])
	f := g.fn.frame
	a, b, n, dst := f.alloc(), f.alloc(), f.alloc(), f.alloc()
	g.inst("movq", "%rdi", mem(a, "%rbp"))
	g.inst("movq", "%rsi", mem(b, "%rbp"))

	strlen := rtabi.PLT(rtabi.LibcStrlen)
	g.call(strlen, []arg{g.loadSlot(a)}, false)
	g.inst("movq", "%rax", mem(n, "%rbp"))
	g.call(strlen, []arg{g.loadSlot(b)}, false)
	g.inst("addq", mem(n, "%rbp"), "%rax")
	g.inst("addq", imm(1), "%rax")
	g.call(rtabi.PLT(rtabi.LibcMalloc), []arg{self}, false)
	g.inst("movq", "%rax", mem(dst, "%rbp"))
	g.call(rtabi.PLT(rtabi.LibcStrcpy), []arg{self, g.loadSlot(a)}, false)
	g.call(rtabi.PLT(rtabi.LibcStrcat), []arg{g.loadSlot(dst), g.loadSlot(b)}, false)
	g.inst("movq", mem(dst, "%rbp"), "%rax")
	g.end()
}
