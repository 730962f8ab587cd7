package codegen

import (
	"github.com/you-not-fish/klang/internal/rtabi"
	"github.com/you-not-fish/klang/internal/types"
)

// genStructRoutines emits the constructor, destructor, stringifier and
// field accessors of s.
func (g *generator) genStructRoutines(s *types.Struct) {
	g.genConstructor(s)
	g.genDestructor(s)
	g.genToString(s)
	for i, f := range s.Fields() {
		g.genGetter(s, i, f)
		g.genSetter(s, i, f)
	}
}

// self is an argument already held in %rax.
var self = arg{}

// loadWord returns an argument loader for a constant word.
func (g *generator) loadWord(v int64) arg {
	return arg{load: func() { g.movImm(v) }}
}

// loadAddr returns an argument loader for a pooled or frame address.
func (g *generator) loadAddr(operand string) arg {
	return arg{load: func() { g.inst("leaq", operand, "%rax") }}
}

// loadSlot returns an argument loader for a frame word.
func (g *generator) loadSlot(off int64) arg {
	return arg{load: func() { g.inst("movq", mem(off, "%rbp"), "%rax") }}
}

// genConstructor emits S$new$(fields...): allocate the object and store
// the arguments positionally.
func (g *generator) genConstructor(s *types.Struct) {
	g.begin(rtabi.Constructor(s.Name()), s)
	g.storeParams(s.Fields())
	g.call(rtabi.PLT(rtabi.LibcMalloc), []arg{g.loadWord(g.sizes.StructSize(s))}, false)
	for i, f := range s.Fields() {
		off, _ := g.fn.frame.lookup(f)
		g.inst("movq", mem(off, "%rbp"), "%rcx")
		g.inst("movq", "%rcx", mem(g.sizes.Offsetof(s, i), "%rax"))
	}
	g.end()
}

// genDestructor emits S$drop$(this): release the reference fields in
// declaration order, then the object itself. A null object is ignored.
func (g *generator) genDestructor(s *types.Struct) {
	g.begin(rtabi.Destructor(s.Name()), types.Typ[types.Void])
	this := g.fn.frame.alloc()
	g.inst("movq", "%rdi", mem(this, "%rbp"))
	g.inst("testq", "%rdi", "%rdi")
	g.inst("je", g.fn.exit)
	for i, f := range s.Fields() {
		if !f.Type().IsReference() {
			continue
		}
		g.inst("movq", mem(this, "%rbp"), "%rax")
		g.inst("movq", mem(g.sizes.Offsetof(s, i), "%rax"), "%rax")
		g.call(g.destructor(nil, f.Type()), []arg{self}, false)
	}
	g.call(rtabi.PLT(rtabi.LibcFree), []arg{g.loadSlot(this)}, false)
	g.end()
}

// genToString emits S$to_string(this), which renders "S(f1, f2, ...)"
// into a fresh heap string. Numbers are formatted into one frame buffer
// and duplicated; intermediate strings are freed as they are appended.
func (g *generator) genToString(s *types.Struct) {
	g.begin(rtabi.ToString(s.Name()), types.Typ[types.String])
	f := g.fn.frame
	this, acc, piece, next := f.alloc(), f.alloc(), f.alloc(), f.alloc()
	var buf int64
	for i := int64(0); i < rtabi.ToStringBufSize/rtabi.WordSize; i++ {
		buf = f.alloc()
	}
	strdup := rtabi.PLT(rtabi.LibcStrdup)

	g.inst("movq", "%rdi", mem(this, "%rbp"))
	body := g.newLabel()
	g.inst("testq", "%rdi", "%rdi")
	g.inst("jne", body)
	g.call(strdup, []arg{g.loadAddr(rip(g.rodata.stringLit("null")))}, false)
	g.inst("jmp", g.fn.exit)

	g.label(body)
	g.call(strdup, []arg{g.loadAddr(rip(g.rodata.stringLit(s.Name() + "(")))}, false)
	g.inst("movq", "%rax", mem(acc, "%rbp"))

	// appendTo concatenates acc and the string at src, frees acc (and
	// src when owned) and stores the result back into acc.
	appendTo := func(src arg, owned int64) {
		g.call(rtabi.StringConcat, []arg{g.loadSlot(acc), src}, false)
		g.inst("movq", "%rax", mem(next, "%rbp"))
		g.call(rtabi.PLT(rtabi.LibcFree), []arg{g.loadSlot(acc)}, false)
		if owned != 0 {
			g.call(rtabi.PLT(rtabi.LibcFree), []arg{g.loadSlot(owned)}, false)
		}
		g.inst("movq", mem(next, "%rbp"), "%rax")
		g.inst("movq", "%rax", mem(acc, "%rbp"))
	}

	for i, fld := range s.Fields() {
		if i > 0 {
			appendTo(g.loadAddr(rip(g.rodata.stringLit(", "))), 0)
		}
		g.fieldString(s, i, fld, this, buf)
		g.inst("movq", "%rax", mem(piece, "%rbp"))
		appendTo(g.loadSlot(piece), piece)
	}
	appendTo(g.loadAddr(rip(g.rodata.stringLit(")"))), 0)
	g.inst("movq", mem(acc, "%rbp"), "%rax")
	g.end()
}

// fieldString leaves a fresh heap string rendering field i of the
// object at this in %rax.
func (g *generator) fieldString(s *types.Struct, i int, fld *types.Var, this, buf int64) {
	off := g.sizes.Offsetof(s, i)
	strdup := rtabi.PLT(rtabi.LibcStrdup)
	loadField := func(op, dst string) {
		g.inst("movq", mem(this, "%rbp"), "%rax")
		g.inst(op, mem(off, "%rax"), dst)
	}

	switch t := fld.Type(); {
	case types.IsI64(t), t.IsFloat():
		format := "%ld"
		value := arg{load: func() { loadField("movq", "%rax") }}
		if t.IsFloat() {
			format = "%f"
			value = arg{float: true, load: func() { loadField("movsd", "%xmm0") }}
		}
		g.call(rtabi.PLT(rtabi.LibcSnprintf), []arg{
			g.loadAddr(mem(buf, "%rbp")),
			g.loadWord(rtabi.ToStringBufSize),
			g.loadAddr(rip(g.rodata.stringLit(format))),
			value,
		}, true)
		g.call(strdup, []arg{g.loadAddr(mem(buf, "%rbp"))}, false)

	case types.IsBool(t):
		loadField("movzbq", "%rax")
		g.boolString("%rax", "%rax")
		g.call(strdup, []arg{self}, false)

	case types.IsString(t):
		present := g.newLabel()
		loadField("movq", "%rax")
		g.inst("testq", "%rax", "%rax")
		g.inst("jne", present)
		g.inst("leaq", rip(g.rodata.stringLit("null")), "%rax")
		g.label(present)
		g.call(strdup, []arg{self}, false)

	case types.IsStruct(t):
		loadField("movq", "%rax")
		g.call(rtabi.ToString(t.(*types.Struct).Name()), []arg{self}, false)

	default:
		g.fatalf(nil, "cannot render field %s.%s of type %s", s.Name(), fld.Name(), t)
	}
}

// genGetter emits S$get_f$(this).
func (g *generator) genGetter(s *types.Struct, i int, f *types.Var) {
	g.begin(rtabi.Getter(s.Name(), f.Name()), f.Type())
	off := mem(g.sizes.Offsetof(s, i), "%rdi")
	switch t := f.Type(); {
	case t.IsFloat():
		g.inst("movsd", off, "%xmm0")
	case types.IsBool(t):
		g.inst("movzbq", off, "%rax")
	default:
		g.inst("movq", off, "%rax")
	}
	g.end()
}

// genSetter emits S$set_f$(this, value).
func (g *generator) genSetter(s *types.Struct, i int, f *types.Var) {
	g.begin(rtabi.Setter(s.Name(), f.Name()), types.Typ[types.Void])
	off := mem(g.sizes.Offsetof(s, i), "%rdi")
	if f.Type().IsFloat() {
		g.inst("movsd", "%xmm0", off)
	} else {
		g.inst("movq", "%rsi", off)
	}
	g.end()
}
