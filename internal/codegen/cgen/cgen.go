// Package cgen generates the C header and the C helper source that
// accompany an assembly unit. The header declares every symbol of the
// unit; the source holds weak definitions of the struct routines and the
// string stdlib, so a unit links with or without the assembly versions.
package cgen

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/klang/internal/codegen"
	"github.com/you-not-fish/klang/internal/rtabi"
	"github.com/you-not-fish/klang/internal/syntax"
	"github.com/you-not-fish/klang/internal/types"
	"github.com/you-not-fish/klang/internal/types2"
)

const weak = "__attribute__((weak)) "

// Generate returns the header and source text for a checked file.
func Generate(file *syntax.File, info *types2.Info, pkg *types.Package, cfg codegen.Config) (header, source string, err error) {
	g := &generator{cfg: cfg}
	for _, d := range file.Decls {
		switch d := d.(type) {
		case *syntax.StructDecl:
			s := info.StructOf(d)
			if s == nil {
				return "", "", &codegen.GenError{Pos: d.Pos(), Node: d, Msg: fmt.Sprintf("struct %s was not checked", d.Name)}
			}
			g.structs = append(g.structs, s)
		case *syntax.FuncDecl:
			f := info.FuncOf(d)
			if f == nil {
				return "", "", &codegen.GenError{Pos: d.Pos(), Node: d, Msg: fmt.Sprintf("function %s was not checked", d.Name)}
			}
			g.funcs = append(g.funcs, f)
		}
	}
	return g.header(), g.source(), nil
}

type generator struct {
	cfg     codegen.Config
	structs []*types.Struct
	funcs   []*types.Func
}

// writer builds indented C text.
type writer struct {
	strings.Builder
	indent int
}

func (w *writer) line(format string, args ...interface{}) {
	if format != "" {
		w.WriteString(strings.Repeat("  ", w.indent))
		fmt.Fprintf(w, format, args...)
	}
	w.WriteByte('\n')
}

// open starts a braced block after head.
func (w *writer) open(head string) {
	w.line("%s {", head)
	w.indent++
}

func (w *writer) close() {
	w.indent--
	w.line("}")
	w.line("")
}

// guard is the include guard derived from the header file name.
func (g *generator) guard() string {
	r := strings.NewReplacer(".", "_", " ", "_")
	return strings.ToUpper(r.Replace(g.cfg.FileName(".h")))
}

func params(vars []*types.Var) string {
	if len(vars) == 0 {
		return "void"
	}
	list := make([]string, len(vars))
	for i, v := range vars {
		list[i] = v.Type().CName() + " " + v.Name()
	}
	return strings.Join(list, ", ")
}

// ----------------------------------------------------------------------------
// Signatures

func funcSig(f *types.Func) string {
	vars := f.Params()
	if f.IsMethod() {
		vars = append([]*types.Var{f.Self()}, vars...)
	}
	return fmt.Sprintf("%s %s(%s)", f.Result().CName(), f.Symbol(), params(vars))
}

func constructorSig(s *types.Struct) string {
	return fmt.Sprintf("%s %s(%s)", s.CName(), rtabi.Constructor(s.Name()), params(s.Fields()))
}

func destructorSig(s *types.Struct) string {
	return fmt.Sprintf("void %s(%s this)", rtabi.Destructor(s.Name()), s.CName())
}

func toStringSig(s *types.Struct) string {
	return fmt.Sprintf("char* %s(%s this)", rtabi.ToString(s.Name()), s.CName())
}

func getterSig(s *types.Struct, f *types.Var) string {
	return fmt.Sprintf("%s %s(%s this)", f.Type().CName(), rtabi.Getter(s.Name(), f.Name()), s.CName())
}

func setterSig(s *types.Struct, f *types.Var) string {
	return fmt.Sprintf("void %s(%s this, %s value)", rtabi.Setter(s.Name(), f.Name()), s.CName(), f.Type().CName())
}

var (
	str            = rtabi.CTypeString
	stringNewSig   = fmt.Sprintf("%s %s(%s str)", str, rtabi.StringNew, str)
	stringDropSig  = fmt.Sprintf("void %s(%s this)", rtabi.StringDrop, str)
	stringToStrSig = fmt.Sprintf("%s %s(%s this)", str, rtabi.StringToString, str)
	stringLenSig   = fmt.Sprintf("%s %s(%s this)", rtabi.CTypeI64, rtabi.StringLen, str)
	stringCatSig   = fmt.Sprintf("%s %s(%s this, %s other)", str, rtabi.StringConcat, str, str)
)

// ----------------------------------------------------------------------------
// Header

func (g *generator) header() string {
	var w writer
	guard := g.guard()
	w.line("// Auto-generated C header file")
	w.line("#ifndef %s", guard)
	w.line("#define %s", guard)
	w.line("")
	w.line("#include <stdint.h>")
	w.line("#include <stdbool.h>")
	w.line("#include <stddef.h>")
	w.line("")

	w.line("// ----------[ Struct declarations ]----------")
	for _, s := range g.structs {
		w.line("struct %s;", s.Name())
	}
	w.line("")

	w.line("// ----------[ Function signatures ]----------")
	for _, f := range g.funcs {
		w.line("%s;", funcSig(f))
	}
	w.line("")

	w.line("// ----------[ Struct definitions ]----------")
	for _, s := range g.structs {
		w.open("struct " + s.Name())
		for _, f := range s.Fields() {
			if types.IsBool(f.Type()) {
				w.line("%s %s __attribute__((aligned(%d)));", f.Type().CName(), f.Name(), rtabi.WordSize)
			} else {
				w.line("%s %s;", f.Type().CName(), f.Name())
			}
		}
		if s.NumFields() == 0 {
			w.line("char _$dummy$_;")
		}
		w.indent--
		w.line("};")
		w.line("")
	}

	w.line("// ----------[ Method signatures ]----------")
	for _, s := range g.structs {
		for _, m := range s.Methods() {
			w.line("%s;", funcSig(m))
		}
	}
	w.line("")

	w.line("// ----------[ Auto-method signatures ]----------")
	for _, s := range g.structs {
		w.line("%s;", constructorSig(s))
		w.line("%s;", destructorSig(s))
		w.line("%s;", toStringSig(s))
		for _, f := range s.Fields() {
			w.line("%s;", getterSig(s, f))
			w.line("%s;", setterSig(s, f))
		}
		w.line("")
	}

	w.line("// ----------[ String stdlib ]----------")
	for _, sig := range []string{stringNewSig, stringDropSig, stringToStrSig, stringLenSig, stringCatSig} {
		w.line("%s;", sig)
	}
	w.line("")
	w.line("#endif // %s", guard)
	return w.String()
}

// ----------------------------------------------------------------------------
// Source

func (g *generator) source() string {
	var w writer
	w.line("#include \"%s\"", g.cfg.FileName(".h"))
	w.line("#include <stdio.h>")
	w.line("#include <stdlib.h>")
	w.line("#include <string.h>")
	w.line("")

	w.line("// ----------[ Struct auto-methods ]----------")
	w.line("")
	for _, s := range g.structs {
		g.constructor(&w, s)
		g.destructor(&w, s)
		g.toString(&w, s)
		for _, f := range s.Fields() {
			w.open(weak + getterSig(s, f))
			w.line("return this->%s;", f.Name())
			w.close()
			w.open(weak + setterSig(s, f))
			w.line("this->%s = value;", f.Name())
			w.close()
		}
	}

	w.line("// ----------[ klang stdlib ]----------")
	w.line("")
	stringStdlib(&w)
	return w.String()
}

func (g *generator) constructor(w *writer, s *types.Struct) {
	ptr := s.CName()
	w.open(weak + constructorSig(s))
	w.line("%s this = (%s)malloc(%d);", ptr, ptr, types.DefaultSizes.StructSize(s))
	for _, f := range s.Fields() {
		w.line("this->%s = %s;", f.Name(), f.Name())
	}
	w.line("return this;")
	w.close()
}

func (g *generator) destructor(w *writer, s *types.Struct) {
	w.open(weak + destructorSig(s))
	w.line("if (this == NULL)")
	w.line("  return;")
	for _, f := range s.Fields() {
		switch t := f.Type().(type) {
		case *types.Struct:
			w.line("%s(this->%s);", rtabi.Destructor(t.Name()), f.Name())
		default:
			if types.IsString(t) {
				w.line("%s(this->%s);", rtabi.StringDrop, f.Name())
			}
		}
	}
	w.line("free(this);")
	w.close()
}

// toString mirrors the assembly stringifier: every field is rendered to
// a fresh string and appended with string$concat.
func (g *generator) toString(w *writer, s *types.Struct) {
	w.open(weak + toStringSig(s))
	w.line("if (this == NULL)")
	w.line("  return strdup(\"null\");")
	w.line("char buf[%d];", rtabi.ToStringBufSize)
	w.line("char* acc = strdup(\"%s(\");", s.Name())
	w.line("char* piece;")
	w.line("char* next;")
	appendLit := func(lit string) {
		w.line("next = %s(acc, \"%s\");", rtabi.StringConcat, lit)
		w.line("free(acc);")
		w.line("acc = next;")
	}
	for i, f := range s.Fields() {
		if i > 0 {
			appendLit(", ")
		}
		switch t := f.Type(); {
		case types.IsI64(t):
			w.line("snprintf(buf, sizeof(buf), \"%%ld\", (long)this->%s);", f.Name())
			w.line("piece = strdup(buf);")
		case t.IsFloat():
			w.line("snprintf(buf, sizeof(buf), \"%%f\", this->%s);", f.Name())
			w.line("piece = strdup(buf);")
		case types.IsBool(t):
			w.line("piece = strdup(this->%s ? \"true\" : \"false\");", f.Name())
		case types.IsString(t):
			w.line("piece = strdup(this->%s != NULL ? this->%s : \"null\");", f.Name(), f.Name())
		case types.IsStruct(t):
			w.line("piece = %s(this->%s);", rtabi.ToString(t.(*types.Struct).Name()), f.Name())
		}
		w.line("next = %s(acc, piece);", rtabi.StringConcat)
		w.line("free(acc);")
		w.line("free(piece);")
		w.line("acc = next;")
	}
	appendLit(")")
	w.line("return acc;")
	w.close()
}

func stringStdlib(w *writer) {
	w.open(weak + stringNewSig)
	w.line("return strdup(str);")
	w.close()

	w.open(weak + stringDropSig)
	w.line("free(this);")
	w.close()

	w.open(weak + stringToStrSig)
	w.line("return strdup(this);")
	w.close()

	w.open(weak + stringLenSig)
	w.line("return (%s)strlen(this);", rtabi.CTypeI64)
	w.close()

	w.open(weak + stringCatSig)
	w.line("char* buffer = (char*)malloc(strlen(this) + strlen(other) + 1);")
	w.line("strcpy(buffer, this);")
	w.line("strcat(buffer, other);")
	w.line("return buffer;")
	w.close()
}
